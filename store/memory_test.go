package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	session "github.com/andamiaje/go-session"
	"github.com/andamiaje/go-session/store"
)

func storedUser() *session.User {
	return &session.User{
		ID:             "usr-1",
		Role:           session.RoleTherapist,
		FirstName:      "María",
		LastName:       "García",
		DocumentNumber: "12345678",
		HasSignature:   true,
	}
}

func TestMemoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	u := storedUser()

	require.NoError(t, s.SaveSession(ctx, "tok-1", u))

	token, cached, ok := s.ReadSession(ctx)
	require.True(t, ok)
	assert.Equal(t, "tok-1", token)
	assert.Equal(t, u, cached)
}

func TestMemoryReadAbsent(t *testing.T) {
	_, _, ok := store.NewMemory().ReadSession(context.Background())
	assert.False(t, ok)
}

func TestMemoryClearRemovesPair(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	require.NoError(t, s.SaveSession(ctx, "tok-1", storedUser()))

	require.NoError(t, s.ClearSession(ctx))

	token, cached, ok := s.ReadSession(ctx)
	assert.False(t, ok)
	assert.Empty(t, token)
	assert.Nil(t, cached)
}

func TestMemoryCorruptDegradesToAbsent(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	require.NoError(t, s.SaveSession(ctx, "tok-1", storedUser()))

	s.Corrupt()

	_, _, ok := s.ReadSession(ctx)
	assert.False(t, ok)
}

func TestMemoryRememberedDocumentIsIndependent(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()

	require.NoError(t, s.SaveRememberedDocument(ctx, "12345678"))
	require.NoError(t, s.SaveSession(ctx, "tok-1", storedUser()))
	require.NoError(t, s.ClearSession(ctx))

	remembered, ok := s.RememberedDocument(ctx)
	require.True(t, ok)
	assert.Equal(t, "12345678", remembered)

	require.NoError(t, s.ClearRememberedDocument(ctx))
	_, ok = s.RememberedDocument(ctx)
	assert.False(t, ok)
}
