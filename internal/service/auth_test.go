package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/healthtrack/backend/internal/model"
	"github.com/healthtrack/backend/internal/repository"
	"github.com/healthtrack/backend/internal/utils"
)

// fakeUserStore is an in-memory UserStore so the auth core can be tested
// without a database.
type fakeUserStore struct {
	nextID uint64
	users  map[uint64]*model.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[uint64]*model.User{}}
}

func (s *fakeUserStore) Create(_ context.Context, u model.User) (uint64, error) {
	s.nextID++
	u.ID = s.nextID
	s.users[u.ID] = &u
	return u.ID, nil
}

func (s *fakeUserStore) FindByEmail(_ context.Context, email string) (model.Principal, error) {
	for _, u := range s.users {
		if u.Email == email {
			return u.Principal(), nil
		}
	}
	return model.Principal{}, repository.ErrNotFound
}

func (s *fakeUserStore) FindByContact(_ context.Context, contact string) (model.Principal, error) {
	for _, u := range s.users {
		if u.Contact == contact {
			return u.Principal(), nil
		}
	}
	return model.Principal{}, repository.ErrNotFound
}

func (s *fakeUserStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := s.FindByEmail(ctx, email)
	return err == nil, nil
}

func (s *fakeUserStore) ExistsByContact(ctx context.Context, contact string) (bool, error) {
	_, err := s.FindByContact(ctx, contact)
	return err == nil, nil
}

func (s *fakeUserStore) UpdateRefreshToken(_ context.Context, id uint64, token sql.NullString) error {
	u, ok := s.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.RefreshToken = token
	return nil
}

// fakeAdminStore mirrors fakeUserStore for the admins table.
type fakeAdminStore struct {
	nextID uint64
	admins map[uint64]*model.Admin
}

func newFakeAdminStore() *fakeAdminStore {
	return &fakeAdminStore{admins: map[uint64]*model.Admin{}}
}

func (s *fakeAdminStore) Create(_ context.Context, a model.Admin) (uint64, error) {
	s.nextID++
	a.ID = s.nextID
	s.admins[a.ID] = &a
	return a.ID, nil
}

func (s *fakeAdminStore) FindByEmail(_ context.Context, email string) (model.Principal, error) {
	for _, a := range s.admins {
		if a.Email == email {
			return a.Principal(), nil
		}
	}
	return model.Principal{}, repository.ErrNotFound
}

func (s *fakeAdminStore) FindByContact(_ context.Context, contact string) (model.Principal, error) {
	for _, a := range s.admins {
		if a.Contact == contact {
			return a.Principal(), nil
		}
	}
	return model.Principal{}, repository.ErrNotFound
}

func (s *fakeAdminStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := s.FindByEmail(ctx, email)
	return err == nil, nil
}

func (s *fakeAdminStore) ExistsByContact(ctx context.Context, contact string) (bool, error) {
	_, err := s.FindByContact(ctx, contact)
	return err == nil, nil
}

func (s *fakeAdminStore) UpdateRefreshToken(_ context.Context, id uint64, token sql.NullString) error {
	a, ok := s.admins[id]
	if !ok {
		return repository.ErrNotFound
	}
	a.RefreshToken = token
	return nil
}

func newTestService() (*AuthService, *fakeUserStore, *fakeAdminStore) {
	users := newFakeUserStore()
	admins := newFakeAdminStore()
	codec := utils.NewTokenCodec("test-secret", 15, 7)
	return NewAuthService(users, admins, codec, bcrypt.MinCost), users, admins
}

func registerUser(t *testing.T, svc *AuthService, email, contact, password string) RegisterSummary {
	t.Helper()
	summary, err := svc.RegisterUser(context.Background(), model.User{
		Name: "Test User", Email: email, Contact: contact, Age: 30, Weight: 70, Height: 175,
	}, password)
	require.NoError(t, err)
	return summary
}

func TestRegisterUserRejectsDuplicateIdentifiers(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	registerUser(t, svc, "alice@example.com", "0711111111", "password1")

	_, err := svc.RegisterUser(ctx, model.User{
		Name: "Dup", Email: "alice@example.com", Contact: "0722222222",
	}, "password2")
	require.ErrorIs(t, err, repository.ErrEmailExists)

	_, err = svc.RegisterUser(ctx, model.User{
		Name: "Dup", Email: "other@example.com", Contact: "0711111111",
	}, "password2")
	require.ErrorIs(t, err, repository.ErrContactExists)
}

func TestRegisterEnforcesUniquenessAcrossStores(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.RegisterAdmin(ctx, model.Admin{
		Name: "Admin", Email: "admin@example.com", Contact: "0755555555",
		Address: "1 Main St", NIC: "991234567V",
	}, "adminpass")
	require.NoError(t, err)

	// A user may not reuse an admin's email or contact.
	_, err = svc.RegisterUser(ctx, model.User{
		Name: "User", Email: "admin@example.com", Contact: "0766666666",
	}, "password1")
	require.ErrorIs(t, err, repository.ErrEmailExists)

	_, err = svc.RegisterUser(ctx, model.User{
		Name: "User", Email: "user@example.com", Contact: "0755555555",
	}, "password1")
	require.ErrorIs(t, err, repository.ErrContactExists)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	registerUser(t, svc, "alice@example.com", "0711111111", "password1")

	_, unknownErr := svc.Login(ctx, "nobody@example.com", "password1")
	_, wrongPassErr := svc.Login(ctx, "alice@example.com", "wrong-password")

	require.ErrorIs(t, unknownErr, ErrInvalidCredentials)
	require.ErrorIs(t, wrongPassErr, ErrInvalidCredentials)
	require.Equal(t, unknownErr, wrongPassErr)
}

func TestLoginByEmailOrContact(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	summary := registerUser(t, svc, "alice@example.com", "0711111111", "password1")

	byEmail, err := svc.Login(ctx, "alice@example.com", "password1")
	require.NoError(t, err)
	require.Equal(t, summary.ID, byEmail.UserID)
	require.Equal(t, model.RoleUser, byEmail.Role)

	byContact, err := svc.Login(ctx, "0711111111", "password1")
	require.NoError(t, err)
	require.Equal(t, summary.ID, byContact.UserID)
}

func TestLoginOverwritesStoredRefreshToken(t *testing.T) {
	svc, users, _ := newTestService()
	ctx := context.Background()

	summary := registerUser(t, svc, "alice@example.com", "0711111111", "password1")

	first, err := svc.Login(ctx, "alice@example.com", "password1")
	require.NoError(t, err)
	second, err := svc.Login(ctx, "alice@example.com", "password1")
	require.NoError(t, err)

	stored := users.users[summary.ID].RefreshToken
	require.True(t, stored.Valid)
	require.Equal(t, second.RefreshToken, stored.String)

	// Only the latest session survives: the first refresh token no longer
	// matches the stored value.
	_, err = svc.Refresh(ctx, first.RefreshToken)
	require.ErrorIs(t, err, utils.ErrInvalidToken)

	_, err = svc.Refresh(ctx, second.RefreshToken)
	require.NoError(t, err)
}

func TestRefreshIssuesAccessWithoutRotation(t *testing.T) {
	svc, users, _ := newTestService()
	ctx := context.Background()

	summary := registerUser(t, svc, "alice@example.com", "0711111111", "password1")
	res, err := svc.Login(ctx, "alice@example.com", "password1")
	require.NoError(t, err)

	access, err := svc.Refresh(ctx, res.RefreshToken)
	require.NoError(t, err)
	require.NotEmpty(t, access)

	// The stored refresh token is unchanged, so it can be used again.
	require.Equal(t, res.RefreshToken, users.users[summary.ID].RefreshToken.String)
	again, err := svc.Refresh(ctx, res.RefreshToken)
	require.NoError(t, err)
	require.NotEmpty(t, again)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	registerUser(t, svc, "alice@example.com", "0711111111", "password1")
	res, err := svc.Login(ctx, "alice@example.com", "password1")
	require.NoError(t, err)

	_, err = svc.Refresh(ctx, res.AccessToken)
	require.ErrorIs(t, err, utils.ErrInvalidToken)
}

func TestLogoutRevokesRefresh(t *testing.T) {
	svc, users, _ := newTestService()
	ctx := context.Background()

	summary := registerUser(t, svc, "alice@example.com", "0711111111", "password1")
	res, err := svc.Login(ctx, "alice@example.com", "password1")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, "alice@example.com", model.RoleUser))
	require.False(t, users.users[summary.ID].RefreshToken.Valid)

	// The refresh token is still cryptographically valid but no longer
	// matches a stored value, so the exchange fails.
	_, err = svc.Refresh(ctx, res.RefreshToken)
	require.ErrorIs(t, err, utils.ErrInvalidToken)

	// Logging out twice is fine.
	require.NoError(t, svc.Logout(ctx, "alice@example.com", model.RoleUser))
}

func TestAdminLoginResolvesInAdminStore(t *testing.T) {
	svc, _, admins := newTestService()
	ctx := context.Background()

	summary, err := svc.RegisterAdmin(ctx, model.Admin{
		Name: "Admin", Email: "admin@example.com", Contact: "0755555555",
		Address: "1 Main St", NIC: "991234567V",
	}, "adminpass")
	require.NoError(t, err)

	res, err := svc.Login(ctx, "admin@example.com", "adminpass")
	require.NoError(t, err)
	require.Equal(t, model.RoleAdmin, res.Role)
	require.Equal(t, summary.ID, res.UserID)
	require.True(t, admins.admins[summary.ID].RefreshToken.Valid)

	access, err := svc.Refresh(ctx, res.RefreshToken)
	require.NoError(t, err)
	require.NotEmpty(t, access)
}
