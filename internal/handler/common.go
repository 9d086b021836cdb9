// Package handler implements the HTTP endpoints. Handlers bind request
// bodies, call repositories or the auth core, and translate sentinel errors
// into status codes; no SQL or crypto detail leaks into responses.
package handler

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
)

const dateLayout = "2006-01-02"

// pathID parses a numeric path parameter.
func pathID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

// dateQuery parses the optional ?date= query parameter (YYYY-MM-DD).
// When absent it returns today's UTC date; ok is false on a malformed value.
func dateQuery(c echo.Context) (date time.Time, given, ok bool) {
	raw := c.QueryParam("date")
	if raw == "" {
		return today(), false, true
	}
	d, err := time.ParseInLocation(dateLayout, raw, time.UTC)
	if err != nil {
		return time.Time{}, true, false
	}
	return d, true, true
}

// parseDate interprets an optional request-body date, defaulting to today.
func parseDate(raw string) (time.Time, bool) {
	if raw == "" {
		return today(), true
	}
	d, err := time.ParseInLocation(dateLayout, raw, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

func today() time.Time {
	return time.Now().UTC().Truncate(24 * time.Hour)
}
