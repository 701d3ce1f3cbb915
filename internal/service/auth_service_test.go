package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/Pahari47/parkson-assignment/internal/config"
	"github.com/Pahari47/parkson-assignment/internal/dto"
	"github.com/Pahari47/parkson-assignment/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ── In-memory Repository Stub ─────────────────────────────────────────────────

type stubUserRepo struct {
	users  map[int64]*model.User
	nextID int64
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[int64]*model.User)}
}

func (r *stubUserRepo) Create(_ context.Context, u *model.User) error {
	r.nextID++
	u.ID = r.nextID
	r.users[u.ID] = u
	return nil
}

func (r *stubUserRepo) FindByLogin(_ context.Context, login string) (*model.User, error) {
	for _, u := range r.users {
		if u.IsActive && (u.Username == login || strings.EqualFold(u.Email, login)) {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id int64) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (r *stubUserRepo) Update(_ context.Context, u *model.User) error {
	r.users[u.ID] = u
	return nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

const testSecret = "test_jwt_secret_32_chars_minimum!"

func newTestCfg() *config.Config {
	return &config.Config{
		JWTSecret:          testSecret,
		JWTExpirationHours: 8,
		JWTRefreshHours:    24,
	}
}

func parseClaims(t *testing.T, token string) jwt.MapClaims {
	t.Helper()
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)
	return claims
}

// ── Tests ─────────────────────────────────────────────────────────────────────

func TestAuthRegisterAndLogin(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), newTestCfg())
	ctx := context.Background()

	user, err := svc.Register(ctx, dto.RegisterRequest{Username: "alice", Email: "Alice@Example.com", Password: "correct-horse"})
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, RoleStaff, user.Role)

	resp, err := svc.Login(ctx, dto.LoginRequest{Username: "alice", Password: "correct-horse"})
	require.NoError(t, err)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, 8*3600, resp.ExpiresIn)

	claims := parseClaims(t, resp.AccessToken)
	assert.Equal(t, TokenAccess, claims["typ"])
	assert.Equal(t, RoleStaff, claims["role"])
	assert.Equal(t, TokenRefresh, parseClaims(t, resp.RefreshToken)["typ"])

	// email works as the login name too
	_, err = svc.Login(ctx, dto.LoginRequest{Username: "ALICE@example.com", Password: "correct-horse"})
	assert.NoError(t, err)

	_, err = svc.Login(ctx, dto.LoginRequest{Username: "alice", Password: "wrong-password"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, dto.LoginRequest{Username: "bob", Password: "correct-horse"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthRegister_Conflicts(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), newTestCfg())
	ctx := context.Background()

	_, err := svc.Register(ctx, dto.RegisterRequest{Username: "alice", Email: "alice@example.com", Password: "password1"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, dto.RegisterRequest{Username: "alice", Email: "other@example.com", Password: "password1"})
	assert.ErrorIs(t, err, ErrConflict)
	_, err = svc.Register(ctx, dto.RegisterRequest{Username: "alice2", Email: "ALICE@example.com", Password: "password1"})
	assert.ErrorIs(t, err, ErrConflict)

	_, err = svc.Register(ctx, dto.RegisterRequest{Username: "carol", Email: "carol@example.com", Password: "short"})
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestAuthRegister_EmailDomain(t *testing.T) {
	cfg := newTestCfg()
	cfg.RegistrationEmailDomain = "warehouse.test"
	svc := NewAuthService(newStubUserRepo(), cfg)
	ctx := context.Background()

	_, err := svc.Register(ctx, dto.RegisterRequest{Username: "dave", Email: "dave@gmail.com", Password: "password1"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "email")

	_, err = svc.Register(ctx, dto.RegisterRequest{Username: "dave", Email: "dave@warehouse.test", Password: "password1"})
	assert.NoError(t, err)
}

func TestAuthRefresh(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, newTestCfg())
	ctx := context.Background()

	_, err := svc.Register(ctx, dto.RegisterRequest{Username: "erin", Email: "erin@example.com", Password: "password1"})
	require.NoError(t, err)
	login, err := svc.Login(ctx, dto.LoginRequest{Username: "erin", Password: "password1"})
	require.NoError(t, err)

	fresh, err := svc.Refresh(ctx, login.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, fresh.AccessToken)

	_, err = svc.Refresh(ctx, login.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidCredentials, "access tokens cannot refresh")

	_, err = svc.Refresh(ctx, "garbage")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": 1, "typ": TokenRefresh, "exp": time.Now().Add(-time.Minute).Unix(),
	})
	signed, err := expired.SignedString([]byte(testSecret))
	require.NoError(t, err)
	_, err = svc.Refresh(ctx, signed)
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	repo.users[1].IsActive = false
	_, err = svc.Refresh(ctx, login.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidCredentials, "deactivated users cannot refresh")
}
