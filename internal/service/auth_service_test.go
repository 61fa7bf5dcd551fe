package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/xianfire/campus-api/internal/models"
	appErrors "github.com/xianfire/campus-api/pkg/errors"
)

type stubUserRepo struct {
	users     map[string]*models.User
	lastLogin string
}

func newStubUserRepo(users ...*models.User) *stubUserRepo {
	repo := &stubUserRepo{users: make(map[string]*models.User)}
	for _, u := range users {
		repo.users[u.ID] = u
	}
	return repo
}

func (r *stubUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (r *stubUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return u, nil
}

func (r *stubUserRepo) Create(ctx context.Context, user *models.User) error {
	user.ID = "new-user"
	r.users[user.ID] = user
	return nil
}

func (r *stubUserRepo) UpdateLastLogin(ctx context.Context, id string, ts time.Time) error {
	r.lastLogin = id
	return nil
}

func authFixture(t *testing.T) (*AuthService, *stubUserRepo) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret-pass"), bcrypt.MinCost)
	require.NoError(t, err)

	repo := newStubUserRepo(&models.User{
		ID:           "u1",
		Email:        "registrar@campus.edu",
		PasswordHash: string(hash),
		FullName:     "Reg Istrar",
		Role:         models.RoleRegistrar,
		Active:       true,
	})
	svc := NewAuthService(repo, nil, zap.NewNop(), AuthConfig{
		AccessTokenSecret: "test-secret",
		AccessTokenExpiry: time.Hour,
		Issuer:            "campus-api",
	})
	return svc, repo
}

func TestAuthServiceLogin(t *testing.T) {
	svc, repo := authFixture(t)

	resp, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "registrar@campus.edu",
		Password: "secret-pass",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, int64(3600), resp.ExpiresIn)
	assert.Equal(t, models.RoleRegistrar, resp.User.Role)
	assert.Equal(t, "u1", repo.lastLogin)
}

func TestAuthServiceLoginWrongPassword(t *testing.T) {
	svc, _ := authFixture(t)

	_, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "registrar@campus.edu",
		Password: "wrong",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceLoginUnknownEmail(t *testing.T) {
	svc, _ := authFixture(t)

	_, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "nobody@campus.edu",
		Password: "secret-pass",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceLoginInactiveAccount(t *testing.T) {
	svc, repo := authFixture(t)
	repo.users["u1"].Active = false

	_, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "registrar@campus.edu",
		Password: "secret-pass",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceRegister(t *testing.T) {
	svc, repo := authFixture(t)

	info, err := svc.Register(context.Background(), models.RegisterRequest{
		Email:    "newbie@campus.edu",
		Password: "longenough",
		FullName: "New Bie",
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleFaculty, info.Role)

	stored := repo.users["new-user"]
	require.NotNil(t, stored)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("longenough")))
}

func TestAuthServiceRegisterDuplicateEmail(t *testing.T) {
	svc, _ := authFixture(t)

	_, err := svc.Register(context.Background(), models.RegisterRequest{
		Email:    "registrar@campus.edu",
		Password: "longenough",
		FullName: "Dup",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrEmailTaken.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceValidateTokenRoundTrip(t *testing.T) {
	svc, _ := authFixture(t)

	resp, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "registrar@campus.edu",
		Password: "secret-pass",
	})
	require.NoError(t, err)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, models.RoleRegistrar, claims.Role)
	assert.Equal(t, "campus-api", claims.Issuer)
}

func TestAuthServiceValidateTokenRejectsGarbage(t *testing.T) {
	svc, _ := authFixture(t)

	_, err := svc.ValidateToken("not-a-token")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}
