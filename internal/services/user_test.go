package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/trailtrack/apiserver/internal/store"
	"github.com/trailtrack/apiserver/internal/tests/memstore"
	"github.com/trailtrack/apiserver/types"
)

func newTestUserService() (*UserService, *memstore.Users) {
	users := memstore.NewUsers()
	return newUserService(users, bcrypt.MinCost), users
}

func TestUserService_Register(t *testing.T) {
	svc, users := newTestUserService()
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterInput{Email: "ada@example.com", Name: "Ada", Password: "s3cret"})
	require.NoError(t, err)
	assert.Equal(t, types.DefaultUserRole, user.Role)
	assert.NotEqual(t, "s3cret", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("s3cret")))

	stored, err := users.GetByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, stored.ID)
}

func TestUserService_Register_KeepsRole(t *testing.T) {
	svc, _ := newTestUserService()
	user, err := svc.Register(context.Background(), RegisterInput{Email: "a@example.com", Name: "A", Password: "pw", Role: "admin"})
	require.NoError(t, err)
	assert.Equal(t, "admin", user.Role)
}

func TestUserService_Register_Duplicate(t *testing.T) {
	svc, _ := newTestUserService()
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Email: "ada@example.com", Name: "Ada", Password: "one"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterInput{Email: "ada@example.com", Name: "Other", Password: "two"})
	assert.ErrorIs(t, err, ErrDuplicateIdentity)

	// Comparison is exact, so a different case is a different identity.
	_, err = svc.Register(ctx, RegisterInput{Email: "Ada@example.com", Name: "Ada", Password: "three"})
	assert.NoError(t, err)
}

type racingUsers struct {
	*memstore.Users
}

func (racingUsers) Create(context.Context, types.User) (types.User, error) {
	return types.User{}, store.ErrDuplicate
}

func TestUserService_Register_InsertRace(t *testing.T) {
	svc := newUserService(racingUsers{memstore.NewUsers()}, bcrypt.MinCost)
	_, err := svc.Register(context.Background(), RegisterInput{Email: "ada@example.com", Name: "Ada", Password: "pw"})
	assert.ErrorIs(t, err, ErrDuplicateIdentity)
}

func TestUserService_Register_RequiredFields(t *testing.T) {
	svc, _ := newTestUserService()
	tests := []struct {
		in    RegisterInput
		field string
	}{
		{in: RegisterInput{Name: "Ada", Password: "pw"}, field: "email"},
		{in: RegisterInput{Email: "a@example.com", Name: "  ", Password: "pw"}, field: "name"},
		{in: RegisterInput{Email: "a@example.com", Name: "Ada"}, field: "password"},
	}
	for _, tt := range tests {
		_, err := svc.Register(context.Background(), tt.in)
		var validation *ValidationError
		require.True(t, errors.As(err, &validation))
		assert.Equal(t, tt.field, validation.Field)
	}
}

func TestUserService_VerifyCredentials(t *testing.T) {
	svc, _ := newTestUserService()
	ctx := context.Background()

	registered, err := svc.Register(ctx, RegisterInput{Email: "ada@example.com", Name: "Ada", Password: "s3cret"})
	require.NoError(t, err)

	user, err := svc.VerifyCredentials(ctx, "ada@example.com", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)

	_, wrongPassword := svc.VerifyCredentials(ctx, "ada@example.com", "nope")
	_, unknownEmail := svc.VerifyCredentials(ctx, "ghost@example.com", "s3cret")
	assert.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmail, ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}

func TestUserService_FindByEmail(t *testing.T) {
	svc, _ := newTestUserService()
	ctx := context.Background()

	_, err := svc.FindByEmail(ctx, "ada@example.com")
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = svc.Register(ctx, RegisterInput{Email: "ada@example.com", Name: "Ada", Password: "pw"})
	require.NoError(t, err)

	user, err := svc.FindByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Ada", user.Name)
}
