package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/healthtrack/backend/internal/model"
)

// UserRepo provides access to the `users` table and the profile views
// derived from it.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Create inserts a user and returns its ID. The password must already be
// hashed by the caller; this layer never sees plaintext.
func (r *UserRepo) Create(ctx context.Context, u model.User) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO users (name, email, contact, age, weight, height, role, password_hash, active)
		 VALUES (?,?,?,?,?,?,?,?,?)`,
		u.Name, normalize(u.Email), strings.TrimSpace(u.Contact),
		u.Age, u.Weight, u.Height, string(model.RoleUser), u.PasswordHash, true)
	if err != nil {
		return 0, dupKeyError(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// FindByEmail returns the auth-facing view of a user by normalized email.
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (model.Principal, error) {
	return r.findPrincipal(ctx, "email=?", normalize(email))
}

// FindByContact returns the auth-facing view of a user by contact number.
func (r *UserRepo) FindByContact(ctx context.Context, contact string) (model.Principal, error) {
	return r.findPrincipal(ctx, "contact=?", strings.TrimSpace(contact))
}

func (r *UserRepo) findPrincipal(ctx context.Context, where string, arg any) (model.Principal, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT user_id, email, contact, password_hash, refresh_token FROM users WHERE "+where+" LIMIT 1",
		arg).Scan(&u.ID, &u.Email, &u.Contact, &u.PasswordHash, &u.RefreshToken)
	if err == sql.ErrNoRows {
		return model.Principal{}, ErrNotFound
	}
	if err != nil {
		return model.Principal{}, err
	}
	return u.Principal(), nil
}

// ExistsByEmail reports whether any user owns the given email.
func (r *UserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, "email=?", normalize(email))
}

// ExistsByContact reports whether any user owns the given contact.
func (r *UserRepo) ExistsByContact(ctx context.Context, contact string) (bool, error) {
	return r.exists(ctx, "contact=?", strings.TrimSpace(contact))
}

func (r *UserRepo) exists(ctx context.Context, where string, arg any) (bool, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM users WHERE "+where, arg).Scan(&n)
	return n > 0, err
}

// GetByID fetches the full user row; the metric handler needs height and
// current weight.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		`SELECT user_id, name, email, contact, age, weight, height, role, password_hash, active, refresh_token, created_at, updated_at
		 FROM users WHERE user_id=? LIMIT 1`, id).
		Scan(&u.ID, &u.Name, &u.Email, &u.Contact, &u.Age, &u.Weight, &u.Height,
			&u.Role, &u.PasswordHash, &u.Active, &u.RefreshToken, &u.CreatedAt, &u.UpdatedAt)
	if err == sql.ErrNoRows {
		return model.User{}, ErrNotFound
	}
	return u, err
}

// UpdateRefreshToken overwrites the stored refresh token for the user.
// Passing an invalid NullString clears it (logout). Rows affected is not
// checked: MySQL reports zero when the value is unchanged, and a repeated
// logout must stay a successful no-op.
func (r *UserRepo) UpdateRefreshToken(ctx context.Context, id uint64, token sql.NullString) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET refresh_token=? WHERE user_id=?", token, id)
	return err
}

// UpdateWeight sets the user's current weight; called when a new health
// metric is recorded.
func (r *UserRepo) UpdateWeight(ctx context.Context, id uint64, weight float64) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET weight=? WHERE user_id=?", weight, id)
	return err
}

// Profile reads user_profile_view for one user.
func (r *UserRepo) Profile(ctx context.Context, id uint64) (model.UserProfile, error) {
	var p model.UserProfile
	err := r.DB.QueryRowContext(ctx,
		`SELECT user_id, name, email, age, current_weight, height, last_bmi_recorded, bmi_category
		 FROM user_profile_view WHERE user_id=? LIMIT 1`, id).
		Scan(&p.UserID, &p.Name, &p.Email, &p.Age, &p.CurrentWeight, &p.Height, &p.LastBMI, &p.BMICategory)
	if err == sql.ErrNoRows {
		return model.UserProfile{}, ErrNotFound
	}
	return p, err
}

// CalorieSummary invokes get_user_calorie_summary for today's balance text.
func (r *UserRepo) CalorieSummary(ctx context.Context, id uint64) (string, error) {
	var s string
	err := r.DB.QueryRowContext(ctx,
		"SELECT get_user_calorie_summary(?)", id).Scan(&s)
	return s, err
}

// normalize lowercases and trims an email address.
func normalize(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// dupKeyError maps MySQL duplicate-key failures (error 1062) onto the
// field-specific sentinels.
func dupKeyError(err error) error {
	msg := strings.ToLower(err.Error())
	if !strings.Contains(msg, "1062") {
		return err
	}
	if strings.Contains(msg, "contact") {
		return ErrContactExists
	}
	return ErrEmailExists
}

// mustAffect converts a zero-row mutation into ErrNotFound.
func mustAffect(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
