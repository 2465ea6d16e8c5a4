package session_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	session "github.com/andamiaje/go-session"
)

func testUser() *session.User {
	return &session.User{
		ID:             "usr-1",
		Role:           session.RoleTherapist,
		FirstName:      "María",
		LastName:       "García",
		Email:          "maria@andamiaje.ar",
		DocumentNumber: "12345678",
		FirstLogin:     false,
		HasSignature:   true,
	}
}

func TestInitialState(t *testing.T) {
	s := session.NewState()

	assert.False(t, s.IsAuthenticated)
	assert.Nil(t, s.User)
	assert.False(t, s.Loading)
	assert.Empty(t, s.Error)
	assert.False(t, s.Initialized)
}

func TestReduceSignInStartedClearsError(t *testing.T) {
	s := session.State{Error: "previous failure"}

	next := session.Reduce(s, session.SignInStarted{})

	assert.True(t, next.Loading)
	assert.Empty(t, next.Error)
}

func TestReduceSignInSucceeded(t *testing.T) {
	u := testUser()
	s := session.Reduce(session.NewState(), session.SignInStarted{})

	next := session.Reduce(s, session.SignInSucceeded{User: u})

	assert.True(t, next.IsAuthenticated)
	assert.Equal(t, u, next.User)
	assert.False(t, next.Loading)
	assert.Empty(t, next.Error)
}

func TestReduceSignInFailed(t *testing.T) {
	s := session.Reduce(session.NewState(), session.SignInStarted{})

	next := session.Reduce(s, session.SignInFailed{Message: "Credenciales inválidas"})

	assert.False(t, next.IsAuthenticated)
	assert.Nil(t, next.User)
	assert.False(t, next.Loading)
	assert.Equal(t, "Credenciales inválidas", next.Error)
}

func TestReduceRegisterMirrorsSignInShape(t *testing.T) {
	u := testUser()

	started := session.Reduce(session.State{Error: "stale"}, session.RegisterStarted{})
	assert.True(t, started.Loading)
	assert.Empty(t, started.Error)

	succeeded := session.Reduce(started, session.RegisterSucceeded{User: u})
	assert.True(t, succeeded.IsAuthenticated)
	assert.Equal(t, u, succeeded.User)

	failed := session.Reduce(started, session.RegisterFailed{Message: "Documento ya registrado"})
	assert.False(t, failed.IsAuthenticated)
	assert.Nil(t, failed.User)
	assert.Equal(t, "Documento ya registrado", failed.Error)
}

func TestReduceSignOutClearsWholesale(t *testing.T) {
	s := session.State{IsAuthenticated: true, User: testUser(), Error: "stale"}

	started := session.Reduce(s, session.SignOutStarted{})
	assert.True(t, started.Loading)

	next := session.Reduce(started, session.SignOutSucceeded{})
	assert.False(t, next.IsAuthenticated)
	assert.Nil(t, next.User)
	assert.False(t, next.Loading)
	assert.Empty(t, next.Error)
}

func TestReduceCheckAlwaysInitializes(t *testing.T) {
	u := testUser()

	succeeded := session.Reduce(session.Reduce(session.NewState(), session.CheckStarted{}), session.CheckSucceeded{User: u})
	assert.True(t, succeeded.Initialized)
	assert.True(t, succeeded.IsAuthenticated)
	assert.Equal(t, u, succeeded.User)

	failed := session.Reduce(session.Reduce(session.NewState(), session.CheckStarted{}), session.CheckFailed{})
	assert.True(t, failed.Initialized)
	assert.False(t, failed.IsAuthenticated)
	assert.Nil(t, failed.User)
}

func TestReduceCheckFailedNeverSetsError(t *testing.T) {
	s := session.Reduce(session.NewState(), session.CheckStarted{})

	next := session.Reduce(s, session.CheckFailed{})

	assert.Empty(t, next.Error)
}

func TestReduceClearErrorIsIdempotent(t *testing.T) {
	s := session.State{IsAuthenticated: true, User: testUser(), Initialized: true}

	once := session.Reduce(s, session.ClearError{})
	twice := session.Reduce(once, session.ClearError{})

	assert.Equal(t, s, once)
	assert.Equal(t, once, twice)
}

func TestReduceSetCurrentUser(t *testing.T) {
	u := testUser()

	withUser := session.Reduce(session.NewState(), session.SetCurrentUser{User: u})
	require.True(t, withUser.IsAuthenticated)
	assert.Same(t, u, withUser.User)

	without := session.Reduce(withUser, session.SetCurrentUser{User: nil})
	assert.False(t, without.IsAuthenticated)
	assert.Nil(t, without.User)
}

func TestReduceDoesNotMutateInput(t *testing.T) {
	s := session.NewState()

	_ = session.Reduce(s, session.SignInStarted{})

	assert.False(t, s.Loading)
}
