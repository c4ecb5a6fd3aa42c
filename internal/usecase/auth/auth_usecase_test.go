package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/gdugdh24/matrimony-backend/internal/domain"
	"github.com/gdugdh24/matrimony-backend/internal/repository/sqlstore"
	"github.com/gdugdh24/matrimony-backend/internal/testkit"
	"github.com/gdugdh24/matrimony-backend/internal/usecase/auth"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret-test-secret-test-secret"

func newAuth(t *testing.T) *auth.AuthUseCase {
	t.Helper()
	db := testkit.NewDB(t)
	return auth.NewAuthUseCase(sqlstore.NewUserRepository(db), sqlstore.NewSessionRepository(db), secret, time.Hour)
}

func register(t *testing.T, uc *auth.AuthUseCase, email string) *auth.AuthResponse {
	t.Helper()
	resp, err := uc.Register(context.Background(), &auth.RegisterRequest{
		Email:    email,
		Password: "correct-horse",
		Name:     "Asha",
		Age:      27,
		Gender:   domain.GenderFemale,
	}, auth.ClientInfo{IPAddress: "127.0.0.1"})
	require.NoError(t, err)
	return resp
}

func TestRegisterLoginLogout(t *testing.T) {
	ctx := context.Background()
	uc := newAuth(t)

	reg := register(t, uc, " Asha@Example.com ")
	assert.Equal(t, "asha@example.com", reg.User.Email)
	assert.Equal(t, "Bearer", reg.TokenType)

	actor, err := uc.VerifyToken(ctx, reg.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, actor.UserID)
	assert.Equal(t, domain.RoleUser, actor.Role)

	_, err = uc.Login(ctx, &auth.LoginRequest{Email: "asha@example.com", Password: "wrong-password"}, auth.ClientInfo{})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = uc.Login(ctx, &auth.LoginRequest{Email: "nobody@example.com", Password: "x"}, auth.ClientInfo{})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	login, err := uc.Login(ctx, &auth.LoginRequest{Email: "ASHA@example.com", Password: "correct-horse"}, auth.ClientInfo{})
	require.NoError(t, err)
	assert.NotEqual(t, reg.AccessToken, login.AccessToken)

	require.NoError(t, uc.Logout(ctx, login.AccessToken))
	_, err = uc.VerifyToken(ctx, login.AccessToken)
	assert.Equal(t, domain.KindUnauthorized, domain.KindOf(err))

	// the first session is unaffected
	_, err = uc.VerifyToken(ctx, reg.AccessToken)
	assert.NoError(t, err)

	me, err := uc.Me(ctx, *actor)
	require.NoError(t, err)
	assert.Equal(t, "Asha", me.Name)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	uc := newAuth(t)
	register(t, uc, "dup@example.com")

	_, err := uc.Register(context.Background(), &auth.RegisterRequest{
		Email: "dup@example.com", Password: "another-pass", Name: "Other", Age: 30, Gender: domain.GenderMale,
	}, auth.ClientInfo{})
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
}

func TestVerifyTokenRejectsForgeries(t *testing.T) {
	ctx := context.Background()
	uc := newAuth(t)
	reg := register(t, uc, "forge@example.com")

	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": reg.User.ID,
		"role":    "admin",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	signed, err := forged.SignedString([]byte("another-secret-another-secret-123"))
	require.NoError(t, err)

	_, err = uc.VerifyToken(ctx, signed)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)

	// correctly signed but never issued, so no session backs it
	unissued := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": reg.User.ID,
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	signed, err = unissued.SignedString([]byte(secret))
	require.NoError(t, err)

	_, err = uc.VerifyToken(ctx, signed)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	_, err = uc.VerifyToken(ctx, "not-a-jwt")
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}
