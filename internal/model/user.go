package model

import (
	"database/sql"
	"time"
)

// User represents a row of the `users` table. The json tags are omitted
// because handlers define separate response types; repositories scan
// directly into this struct.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Name         – display name.
//  Email        – unique email address (shared uniqueness domain with admins).
//  Contact      – unique contact number (shared uniqueness domain with admins).
//  Age          – age in years.
//  Weight       – current weight in kilograms, updated with each metric.
//  Height       – height in centimeters.
//  Role         – always USER for this table.
//  PasswordHash – bcrypt hashed password.
//  Active       – whether the account is active.
//  RefreshToken – stored refresh token, NULL when logged out.
type User struct {
	ID           uint64         // users.user_id
	Name         string         // users.name
	Email        string         // users.email
	Contact      string         // users.contact
	Age          int            // users.age
	Weight       float64        // users.weight
	Height       float64        // users.height
	Role         Role           // users.role
	PasswordHash string         // users.password_hash
	Active       bool           // users.active
	RefreshToken sql.NullString // users.refresh_token (nullable)
	CreatedAt    time.Time      // users.created_at
	UpdatedAt    time.Time      // users.updated_at
}

// Principal returns the auth-facing view of the user.
func (u User) Principal() Principal {
	return Principal{
		ID:           u.ID,
		Email:        u.Email,
		Contact:      u.Contact,
		PasswordHash: u.PasswordHash,
		Role:         RoleUser,
		RefreshToken: u.RefreshToken.String,
	}
}

// Admin represents a row of the `admins` table. Admins live in their own
// table but share the email/contact uniqueness domain with users.
//
// Fields:
//  ID           – primary key identifier of the admin.
//  Name         – display name.
//  Email        – unique email address.
//  Contact      – unique contact number.
//  Address      – postal address.
//  NIC          – national identity card number.
//  Role         – always ADMIN for this table.
//  PasswordHash – bcrypt hashed password.
//  RefreshToken – stored refresh token, NULL when logged out.
type Admin struct {
	ID           uint64         // admins.admin_id
	Name         string         // admins.name
	Email        string         // admins.email
	Contact      string         // admins.contact
	Address      string         // admins.address
	NIC          string         // admins.nic
	Role         Role           // admins.role
	Active       bool           // admins.active
	PasswordHash string         // admins.password_hash
	RefreshToken sql.NullString // admins.refresh_token (nullable)
	CreatedAt    time.Time      // admins.created_at
	UpdatedAt    time.Time      // admins.updated_at
}

// Principal returns the auth-facing view of the admin.
func (a Admin) Principal() Principal {
	return Principal{
		ID:           a.ID,
		Email:        a.Email,
		Contact:      a.Contact,
		PasswordHash: a.PasswordHash,
		Role:         RoleAdmin,
		RefreshToken: a.RefreshToken.String,
	}
}
