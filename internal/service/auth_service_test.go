package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"greenfields-backend/internal/models"
	"greenfields-backend/internal/repository"
	"greenfields-backend/internal/store"
	"greenfields-backend/internal/utils"
)

func newAuthService() *AuthService {
	users := repository.NewUserRepository(store.NewMemory())
	return NewAuthService(users, "test-secret", time.Hour, bcrypt.MinCost)
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newAuthService()
	ctx := context.Background()

	user, err := svc.Register(ctx, "Jane", "Jane@Example.com", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", user.Email)
	assert.Equal(t, models.RoleCustomer, user.Role)
	assert.Equal(t, 100, user.LoyaltyPoints)
	assert.NotEqual(t, "hunter22", user.PasswordHash)

	got, token, err := svc.Login(ctx, "JANE@example.com", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	userID, role, err := utils.ParseAccessToken("test-secret", token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)
	assert.Equal(t, models.RoleCustomer, role)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc := newAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "Jane", "jane@example.com", "hunter22")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "Other Jane", "JANE@example.com", "different")
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := newAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "Jane", "jane@example.com", "hunter22")
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "jane@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(ctx, "nobody@example.com", "hunter22")
	assert.ErrorIs(t, err, ErrInvalidCredentials,
		"missing account and wrong password must be indistinguishable")
}
