package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shopfront/shopfront/internal/users"
)

func stubPassword(t *testing.T, pw string) {
	t.Helper()
	orig := readPassword
	readPassword = func(int) ([]byte, error) { return []byte(pw), nil }
	t.Cleanup(func() { readPassword = orig })
}

func TestEnsureAdminCreatesNewAccount(t *testing.T) {
	stubPassword(t, "hunter22")
	repo := users.NewMemoryRepository()
	svc := users.NewService(repo)
	var out bytes.Buffer

	require.NoError(t, ensureAdmin(context.Background(), svc, "Root@Shop.test", "Root", &out))
	require.Contains(t, out.String(), "created admin root@shop.test")

	user, err := svc.Authenticate(context.Background(), "root@shop.test", "hunter22")
	require.NoError(t, err)
	require.True(t, user.IsAdmin())
}

func TestEnsureAdminPromotesExisting(t *testing.T) {
	stubPassword(t, "unused")
	svc := users.NewService(users.NewMemoryRepository())
	ctx := context.Background()
	_, err := svc.Register(ctx, users.RegisterInput{Name: "Ada", Email: "ada@shop.test", Password: "secret1"})
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, ensureAdmin(ctx, svc, "ada@shop.test", "", &out))
	require.Contains(t, out.String(), "promoted ada@shop.test")

	user, err := svc.Authenticate(ctx, "ada@shop.test", "secret1")
	require.NoError(t, err)
	require.True(t, user.IsAdmin())
}

func TestEnsureAdminRejectsShortPassword(t *testing.T) {
	stubPassword(t, "123")
	svc := users.NewService(users.NewMemoryRepository())
	err := ensureAdmin(context.Background(), svc, "new@shop.test", "New", &bytes.Buffer{})
	require.ErrorContains(t, err, "between 6 and 72")
}
