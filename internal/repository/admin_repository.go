package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/healthtrack/backend/internal/model"
)

// AdminRepo provides access to the `admins` table. The auth-facing surface
// mirrors UserRepo so the auth core can treat both stores uniformly.
type AdminRepo struct{ DB *sql.DB }

func NewAdminRepo(db *sql.DB) *AdminRepo { return &AdminRepo{DB: db} }

// Create inserts an admin and returns its ID.
func (r *AdminRepo) Create(ctx context.Context, a model.Admin) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO admins (name, email, contact, address, nic, role, active, password_hash)
		 VALUES (?,?,?,?,?,?,?,?)`,
		a.Name, normalize(a.Email), strings.TrimSpace(a.Contact),
		a.Address, a.NIC, string(model.RoleAdmin), true, a.PasswordHash)
	if err != nil {
		return 0, dupKeyError(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// FindByEmail returns the auth-facing view of an admin by normalized email.
func (r *AdminRepo) FindByEmail(ctx context.Context, email string) (model.Principal, error) {
	return r.findPrincipal(ctx, "email=?", normalize(email))
}

// FindByContact returns the auth-facing view of an admin by contact number.
func (r *AdminRepo) FindByContact(ctx context.Context, contact string) (model.Principal, error) {
	return r.findPrincipal(ctx, "contact=?", strings.TrimSpace(contact))
}

func (r *AdminRepo) findPrincipal(ctx context.Context, where string, arg any) (model.Principal, error) {
	var a model.Admin
	err := r.DB.QueryRowContext(ctx,
		"SELECT admin_id, email, contact, password_hash, refresh_token FROM admins WHERE "+where+" LIMIT 1",
		arg).Scan(&a.ID, &a.Email, &a.Contact, &a.PasswordHash, &a.RefreshToken)
	if err == sql.ErrNoRows {
		return model.Principal{}, ErrNotFound
	}
	if err != nil {
		return model.Principal{}, err
	}
	return a.Principal(), nil
}

// ExistsByEmail reports whether any admin owns the given email.
func (r *AdminRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, "email=?", normalize(email))
}

// ExistsByContact reports whether any admin owns the given contact.
func (r *AdminRepo) ExistsByContact(ctx context.Context, contact string) (bool, error) {
	return r.exists(ctx, "contact=?", strings.TrimSpace(contact))
}

func (r *AdminRepo) exists(ctx context.Context, where string, arg any) (bool, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM admins WHERE "+where, arg).Scan(&n)
	return n > 0, err
}

// UpdateRefreshToken overwrites the stored refresh token for the admin.
func (r *AdminRepo) UpdateRefreshToken(ctx context.Context, id uint64, token sql.NullString) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE admins SET refresh_token=? WHERE admin_id=?", token, id)
	return err
}
