package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/colposcopia/colpo-api/internal/config"
	"github.com/colposcopia/colpo-api/internal/domain"
	"github.com/colposcopia/colpo-api/pkg/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeUserRepo struct {
	users  map[uint]*domain.User
	nextID uint
}

func (f *fakeUserRepo) Create(ctx context.Context, u *domain.User) error {
	f.nextID++
	u.ID = f.nextID
	f.users[u.ID] = u
	return nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, errors.New("user not found")
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id uint) (*domain.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, errors.New("user not found")
	}
	return u, nil
}

func (f *fakeUserRepo) RecordLogin(ctx context.Context, id uint, at time.Time) error {
	if u, ok := f.users[id]; ok {
		u.LastLoginAt = &at
	}
	return nil
}

func newAuthFixture(t *testing.T) (*AuthService, *fakeUserRepo) {
	t.Helper()

	users := &fakeUserRepo{users: map[uint]*domain.User{}}
	jwtManager := auth.NewJWTManager(config.AuthConfig{
		JWTSecret:       "test-secret-at-least-32-characters-long",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 24 * time.Hour,
		Issuer:          "colpo-api-test",
	})

	audit := NewAuditService(fakeAuditRepo{}, testCollector, zap.NewNop())
	t.Cleanup(audit.Shutdown)

	return NewAuthService(users, jwtManager, audit, zap.NewNop()), users
}

func TestAuthServiceEnsureClinician(t *testing.T) {
	svc, users := newAuthFixture(t)
	ctx := context.Background()

	require.NoError(t, svc.EnsureClinician(ctx, "doc@clinic", "s3cret-password", "DRA. GARCIA"))
	require.Len(t, users.users, 1)

	u, err := users.GetByEmail(ctx, "doc@clinic")
	require.NoError(t, err)
	assert.True(t, u.IsActive)
	assert.NotEqual(t, "s3cret-password", u.PasswordHash)

	// A second boot must not re-create or re-hash the account.
	hash := u.PasswordHash
	require.NoError(t, svc.EnsureClinician(ctx, "doc@clinic", "different-password", "DRA. GARCIA"))
	assert.Len(t, users.users, 1)
	assert.Equal(t, hash, u.PasswordHash)
}

func TestAuthServiceLogin(t *testing.T) {
	svc, users := newAuthFixture(t)
	ctx := context.Background()

	require.NoError(t, svc.EnsureClinician(ctx, "doc@clinic", "s3cret-password", "DRA. GARCIA"))

	t.Run("valid credentials produce a token pair and record the login", func(t *testing.T) {
		pair, err := svc.Login(ctx, "doc@clinic", "s3cret-password", "127.0.0.1")
		require.NoError(t, err)
		assert.NotEmpty(t, pair.AccessToken)
		assert.NotEmpty(t, pair.RefreshToken)

		u, err := users.GetByEmail(ctx, "doc@clinic")
		require.NoError(t, err)
		assert.NotNil(t, u.LastLoginAt)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, "doc@clinic", "wrong", "127.0.0.1")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Login(ctx, "nobody@clinic", "s3cret-password", "127.0.0.1")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("inactive account", func(t *testing.T) {
		u, err := users.GetByEmail(ctx, "doc@clinic")
		require.NoError(t, err)
		u.IsActive = false
		defer func() { u.IsActive = true }()

		_, err = svc.Login(ctx, "doc@clinic", "s3cret-password", "127.0.0.1")
		assert.ErrorIs(t, err, ErrAccountInactive)
	})
}

func TestAuthServiceRefreshToken(t *testing.T) {
	svc, users := newAuthFixture(t)
	ctx := context.Background()

	require.NoError(t, svc.EnsureClinician(ctx, "doc@clinic", "s3cret-password", "DRA. GARCIA"))
	pair, err := svc.Login(ctx, "doc@clinic", "s3cret-password", "127.0.0.1")
	require.NoError(t, err)

	t.Run("valid refresh token rotates the pair", func(t *testing.T) {
		fresh, err := svc.RefreshToken(ctx, pair.RefreshToken)
		require.NoError(t, err)
		assert.NotEmpty(t, fresh.AccessToken)
	})

	t.Run("access token is not accepted as a refresh token", func(t *testing.T) {
		_, err := svc.RefreshToken(ctx, pair.AccessToken)
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := svc.RefreshToken(ctx, "not-a-token")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("deactivated account cannot refresh", func(t *testing.T) {
		u, err := users.GetByEmail(ctx, "doc@clinic")
		require.NoError(t, err)
		u.IsActive = false

		_, err = svc.RefreshToken(ctx, pair.RefreshToken)
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}
