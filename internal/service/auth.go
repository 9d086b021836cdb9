// Package service holds the auth core and the alert event publisher.
package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/healthtrack/backend/internal/model"
	"github.com/healthtrack/backend/internal/repository"
	"github.com/healthtrack/backend/internal/utils"
)

// ErrInvalidCredentials is the single undifferentiated login failure. An
// unknown identifier and a wrong password produce the same value so callers
// cannot enumerate accounts.
var ErrInvalidCredentials = errors.New("invalid credentials")

// PrincipalStore is the credential-store capability the auth core consumes.
// Both the user and admin repositories satisfy it; tests substitute
// in-memory fakes. Implementations must perform refresh-token updates
// atomically per row.
type PrincipalStore interface {
	FindByEmail(ctx context.Context, email string) (model.Principal, error)
	FindByContact(ctx context.Context, contact string) (model.Principal, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByContact(ctx context.Context, contact string) (bool, error)
	UpdateRefreshToken(ctx context.Context, id uint64, token sql.NullString) error
}

// UserStore adds user creation on top of the shared principal surface.
type UserStore interface {
	PrincipalStore
	Create(ctx context.Context, u model.User) (uint64, error)
}

// AdminStore adds admin creation on top of the shared principal surface.
type AdminStore interface {
	PrincipalStore
	Create(ctx context.Context, a model.Admin) (uint64, error)
}

// AuthService orchestrates registration, login, refresh and logout over the
// two principal stores, the password hasher and the token codec.
type AuthService struct {
	users      UserStore
	admins     AdminStore
	codec      *utils.TokenCodec
	bcryptCost int
}

func NewAuthService(users UserStore, admins AdminStore, codec *utils.TokenCodec, bcryptCost int) *AuthService {
	return &AuthService{users: users, admins: admins, codec: codec, bcryptCost: bcryptCost}
}

// RegisterSummary is returned after a successful registration. It never
// carries the password or its hash.
type RegisterSummary struct {
	ID      uint64
	Name    string
	Email   string
	Contact string
}

// LoginResult carries the issued token pair plus enough identity for the
// caller to route UI state without a follow-up lookup.
type LoginResult struct {
	AccessToken  string
	RefreshToken string
	UserID       uint64
	Role         model.Role
}

// RegisterUser hashes the password and persists a new user. Email and
// contact uniqueness is enforced across BOTH stores; either collision fails
// the whole call with a field-specific error.
func (s *AuthService) RegisterUser(ctx context.Context, u model.User, password string) (RegisterSummary, error) {
	if err := s.checkIdentifiersFree(ctx, u.Email, u.Contact); err != nil {
		return RegisterSummary{}, err
	}
	hash, err := utils.HashPassword(password, s.bcryptCost)
	if err != nil {
		return RegisterSummary{}, err
	}
	u.PasswordHash = hash
	u.Role = model.RoleUser
	id, err := s.users.Create(ctx, u)
	if err != nil {
		return RegisterSummary{}, err
	}
	return RegisterSummary{ID: id, Name: u.Name, Email: u.Email, Contact: u.Contact}, nil
}

// RegisterAdmin is the admin-table counterpart of RegisterUser, sharing the
// same identifier uniqueness domain.
func (s *AuthService) RegisterAdmin(ctx context.Context, a model.Admin, password string) (RegisterSummary, error) {
	if err := s.checkIdentifiersFree(ctx, a.Email, a.Contact); err != nil {
		return RegisterSummary{}, err
	}
	hash, err := utils.HashPassword(password, s.bcryptCost)
	if err != nil {
		return RegisterSummary{}, err
	}
	a.PasswordHash = hash
	a.Role = model.RoleAdmin
	id, err := s.admins.Create(ctx, a)
	if err != nil {
		return RegisterSummary{}, err
	}
	return RegisterSummary{ID: id, Name: a.Name, Email: a.Email, Contact: a.Contact}, nil
}

func (s *AuthService) checkIdentifiersFree(ctx context.Context, email, contact string) error {
	for _, store := range []PrincipalStore{s.users, s.admins} {
		taken, err := store.ExistsByEmail(ctx, email)
		if err != nil {
			return err
		}
		if taken {
			return repository.ErrEmailExists
		}
	}
	for _, store := range []PrincipalStore{s.users, s.admins} {
		taken, err := store.ExistsByContact(ctx, contact)
		if err != nil {
			return err
		}
		if taken {
			return repository.ErrContactExists
		}
	}
	return nil
}

// Login verifies the credentials and issues a fresh access/refresh pair.
// The new refresh token overwrites any previously stored one, so earlier
// sessions for the same principal are revoked (single active session).
func (s *AuthService) Login(ctx context.Context, login, password string) (LoginResult, error) {
	login = strings.TrimSpace(login)
	p, err := s.resolve(ctx, login)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, err
	}
	if !utils.VerifyPassword(p.PasswordHash, password) {
		return LoginResult{}, ErrInvalidCredentials
	}

	access, _, err := s.codec.Issue(login, string(p.Role), utils.KindAccess)
	if err != nil {
		return LoginResult{}, err
	}
	refresh, _, err := s.codec.Issue(login, string(p.Role), utils.KindRefresh)
	if err != nil {
		return LoginResult{}, err
	}
	store := s.storeFor(p.Role)
	if err := store.UpdateRefreshToken(ctx, p.ID, sql.NullString{String: refresh, Valid: true}); err != nil {
		return LoginResult{}, err
	}
	return LoginResult{AccessToken: access, RefreshToken: refresh, UserID: p.ID, Role: p.Role}, nil
}

// Refresh exchanges a valid refresh token for a new access token. The
// refresh token itself is not rotated (fixed window): it stays valid until
// its own expiry or an explicit logout. On top of signature and expiry, the
// presented token must match the value currently stored on the principal
// record, so a token cleared by logout is rejected even before it expires.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	subject, roleStr, err := s.codec.Verify(refreshToken, utils.KindRefresh)
	if err != nil {
		return "", utils.ErrInvalidToken
	}
	role := model.Role(roleStr)
	if !role.Valid() {
		return "", utils.ErrInvalidToken
	}
	p, err := s.resolveIn(ctx, s.storeFor(role), subject)
	if err != nil {
		return "", utils.ErrInvalidToken
	}
	if p.RefreshToken == "" || p.RefreshToken != refreshToken {
		return "", utils.ErrInvalidToken
	}
	access, _, err := s.codec.Issue(subject, roleStr, utils.KindAccess)
	if err != nil {
		return "", err
	}
	return access, nil
}

// Logout clears the stored refresh token for the principal identified by
// the verified access token's subject and role. Idempotent: clearing an
// already-cleared token succeeds.
func (s *AuthService) Logout(ctx context.Context, login string, role model.Role) error {
	if !role.Valid() {
		return repository.ErrNotFound
	}
	p, err := s.resolveIn(ctx, s.storeFor(role), login)
	if err != nil {
		return err
	}
	return s.storeFor(role).UpdateRefreshToken(ctx, p.ID, sql.NullString{})
}

func (s *AuthService) storeFor(role model.Role) PrincipalStore {
	if role == model.RoleAdmin {
		return s.admins
	}
	return s.users
}

// resolve looks up a principal by login identifier, trying email first and
// then contact, in the user store before the admin store. The role is not
// known in advance from the identifier alone.
func (s *AuthService) resolve(ctx context.Context, login string) (model.Principal, error) {
	for _, store := range []PrincipalStore{s.users, s.admins} {
		p, err := store.FindByEmail(ctx, login)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return model.Principal{}, err
		}
	}
	for _, store := range []PrincipalStore{s.users, s.admins} {
		p, err := store.FindByContact(ctx, login)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return model.Principal{}, err
		}
	}
	return model.Principal{}, repository.ErrNotFound
}

// resolveIn looks up a principal by identifier within a single role-typed
// store, email match first.
func (s *AuthService) resolveIn(ctx context.Context, store PrincipalStore, login string) (model.Principal, error) {
	p, err := store.FindByEmail(ctx, login)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return model.Principal{}, err
	}
	return store.FindByContact(ctx, login)
}
