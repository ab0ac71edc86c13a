package users

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegisterHashesPasswordAndAuthenticates(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterInput{Name: "Ada", Email: "  Ada@Example.COM ", Password: "secret1"})
	require.NoError(t, err)
	require.Equal(t, "ada@example.com", user.Email)
	require.Equal(t, RoleCustomer, user.Role)
	require.False(t, bytes.Equal(user.PasswordHash, []byte("secret1")))

	authed, err := svc.Authenticate(ctx, "ADA@example.com", "secret1")
	require.NoError(t, err)
	require.Equal(t, user.ID, authed.ID)

	_, err = svc.Authenticate(ctx, "ada@example.com", "wrong")
	require.ErrorIs(t, err, ErrPasswordMismatch)

	_, err = svc.Authenticate(ctx, "nobody@example.com", "secret1")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := NewMemoryRepository()
	svc := NewService(repo)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Name: "A", Email: "a@x.com", Password: "secret1"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterInput{Name: "B", Email: "A@X.com", Password: "secret2"})
	require.True(t, errors.Is(err, ErrEmailTaken))

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, count)
}

func TestPromote(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterInput{Name: "Root", Email: "root@x.com", Password: "secret1"})
	require.NoError(t, err)
	require.False(t, user.IsAdmin())

	promoted, err := svc.Promote(ctx, "root@x.com")
	require.NoError(t, err)
	require.True(t, promoted.IsAdmin())

	stored, err := svc.Get(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, RoleAdmin, stored.Role)
	require.Equal(t, Profile{ID: user.ID, Name: "Root", Email: "root@x.com", Role: RoleAdmin}, stored.Profile())
}

func TestMemoryRepositoryCartIsCopied(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, User{ID: "u1", Email: "c@x.com"}))

	items := []CartItem{{ProductID: "p1", Quantity: 2}}
	require.NoError(t, repo.UpdateCart(ctx, "u1", items))
	items[0].Quantity = 99

	user, err := repo.FindByID(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, 2, user.CartItems[0].Quantity)

	require.ErrorIs(t, repo.UpdateCart(ctx, "missing", nil), ErrNotFound)
}
