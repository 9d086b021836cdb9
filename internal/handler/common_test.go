package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, ok := parseDate("2026-08-30")
	require.True(t, ok)
	require.Equal(t, time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC), d)

	// Empty defaults to today's UTC date.
	d, ok = parseDate("")
	require.True(t, ok)
	require.Equal(t, today(), d)

	for _, raw := range []string{"30-08-2026", "2026/08/30", "yesterday"} {
		_, ok = parseDate(raw)
		require.False(t, ok, "input %q", raw)
	}
}

func TestPathID(t *testing.T) {
	e := echo.New()

	ctxFor := func(raw string) echo.Context {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		c := e.NewContext(req, httptest.NewRecorder())
		c.SetParamNames("userId")
		c.SetParamValues(raw)
		return c
	}

	id, ok := pathID(ctxFor("42"), "userId")
	require.True(t, ok)
	require.Equal(t, uint64(42), id)

	for _, raw := range []string{"0", "-1", "abc", ""} {
		_, ok := pathID(ctxFor(raw), "userId")
		require.False(t, ok, "input %q", raw)
	}
}
