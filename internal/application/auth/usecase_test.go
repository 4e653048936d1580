package auth_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cllmenate/inventory-management/internal/application/auth"
	"github.com/cllmenate/inventory-management/internal/application/dto"
	"github.com/cllmenate/inventory-management/internal/domain"
	"github.com/cllmenate/inventory-management/internal/infrastructure/memory"
	"github.com/cllmenate/inventory-management/pkg/jwt"
)

const testSecret = "secreto-de-prueba"

func newAuth() *auth.AuthUseCase {
	return auth.NewAuthUseCase(memory.NewStore().Users(), auth.JWTConfig{Secret: testSecret, ExpMinutes: 5, Issuer: "test"})
}

func TestRegister_YLoginGeneraTokenConRol(t *testing.T) {
	uc := newAuth()
	ctx := context.Background()

	user, err := uc.RegisterUser(ctx, dto.RegisterRequest{Username: "ana", Email: "Ana@Example.com", Password: "12345678"})
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", user.Email)
	assert.Equal(t, "staff", user.Role)

	out, err := uc.Login(ctx, dto.LoginRequest{Username: "ana", Password: "12345678"})
	require.NoError(t, err)
	claims, err := jwt.Parse(testSecret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "staff", claims.Role)
}

func TestRegister_EmailDuplicado(t *testing.T) {
	uc := newAuth()
	ctx := context.Background()
	_, err := uc.RegisterUser(ctx, dto.RegisterRequest{Username: "ana", Email: "ana@example.com", Password: "12345678"})
	require.NoError(t, err)

	_, err = uc.RegisterUser(ctx, dto.RegisterRequest{Username: "otra", Email: "ana@example.com", Password: "12345678"})
	assert.True(t, errors.Is(err, domain.ErrEmailAlreadyExists))
}

func TestLogin_PasswordIncorrecto(t *testing.T) {
	uc := newAuth()
	ctx := context.Background()
	_, err := uc.RegisterUser(ctx, dto.RegisterRequest{Username: "ana", Email: "ana@example.com", Password: "12345678"})
	require.NoError(t, err)

	_, err = uc.Login(ctx, dto.LoginRequest{Username: "ana", Password: "incorrecto"})
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))

	_, err = uc.Login(ctx, dto.LoginRequest{Username: "nadie", Password: "12345678"})
	assert.True(t, errors.Is(err, domain.ErrUserNotFound))
}

func TestRegister_EntradaInvalida(t *testing.T) {
	_, err := newAuth().RegisterUser(context.Background(), dto.RegisterRequest{Username: "ana", Email: "no-es-email", Password: "corto"})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}
