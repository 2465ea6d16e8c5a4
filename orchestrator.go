package session

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Orchestrator owns the four auth operations. Each one wraps exactly
// one network call and reports exactly one terminal action into the
// container, success or failure. Operations of the same kind may race;
// settlement is guarded so only the latest dispatched request of a kind
// gets to write its outcome.
type Orchestrator struct {
	client    APIClient
	container *Container
	store     Store
	logger    Logger
	activity  ActivitySink
	now       func() time.Time

	signInSeq   atomic.Uint64
	registerSeq atomic.Uint64
	signOutSeq  atomic.Uint64
	checkSeq    atomic.Uint64
}

// NewOrchestrator returns an Orchestrator bound to the given network
// collaborator, state container, and durable store.
func NewOrchestrator(client APIClient, container *Container, store Store) *Orchestrator {
	return &Orchestrator{
		client:    client,
		container: container,
		store:     normalizeStore(store),
		logger:    defLogger{},
		activity:  noopActivitySink{},
		now:       time.Now,
	}
}

// WithLogger overrides the default logger.
func (o *Orchestrator) WithLogger(logger Logger) *Orchestrator {
	if logger != nil {
		o.logger = logger
	}
	return o
}

// WithActivitySink configures an ActivitySink for emitting lifecycle events.
func (o *Orchestrator) WithActivitySink(sink ActivitySink) *Orchestrator {
	o.activity = normalizeActivitySink(sink)
	return o
}

// WithClock injects a custom clock (useful for tests).
func (o *Orchestrator) WithClock(clock func() time.Time) *Orchestrator {
	if clock != nil {
		o.now = clock
	}
	return o
}

// Container exposes the state container driven by this orchestrator.
func (o *Orchestrator) Container() *Container {
	return o.container
}

// SignIn authenticates with a document number and password. On success
// the credential token and user are stored as a pair; the remembered
// document number follows the payload's opt-in. The returned error
// mirrors the failure already dispatched into the container.
func (o *Orchestrator) SignIn(ctx context.Context, payload LoginPayload) error {
	seq := o.signInSeq.Add(1)
	o.container.Dispatch(SignInStarted{})

	if err := payload.Validate(); err != nil {
		o.settleSignInFailure(ctx, seq, err, payload.DocumentNumber)
		return err
	}

	result, err := o.client.SignIn(ctx, payload.DocumentNumber, payload.Password)
	if err == nil && (result == nil || result.User == nil) {
		err = ErrNoActiveSession
	}
	if err != nil {
		o.settleSignInFailure(ctx, seq, err, payload.DocumentNumber)
		return err
	}

	if err := o.store.SaveSession(ctx, result.CredentialToken, result.User); err != nil {
		// The in-memory session is still valid; only restoration after
		// a restart is affected.
		o.logger.Error("sign in: persisting session failed: %v", err)
	}
	o.rememberDocument(ctx, payload)

	if o.signInSeq.Load() == seq {
		o.container.Dispatch(SignInSucceeded{User: result.User})
	}
	o.record(ctx, ActivityEventSignInSuccess, result.User.ID, nil)
	return nil
}

func (o *Orchestrator) settleSignInFailure(ctx context.Context, seq uint64, err error, documentNumber string) {
	msg := userMessage(err, MsgSignInFallback)
	o.logger.Error("sign in failed: %s", msg)
	if o.signInSeq.Load() == seq {
		o.container.Dispatch(SignInFailed{Message: msg})
	}
	o.record(ctx, ActivityEventSignInFailure, "", map[string]any{
		"documentNumber": documentNumber,
		"error":          msg,
	})
}

func (o *Orchestrator) rememberDocument(ctx context.Context, payload LoginPayload) {
	var err error
	if payload.Remember {
		err = o.store.SaveRememberedDocument(ctx, payload.DocumentNumber)
	} else {
		err = o.store.ClearRememberedDocument(ctx)
	}
	if err != nil {
		o.logger.Error("sign in: remembered document update failed: %v", err)
	}
}

// Register creates a new account. The endpoint resolves to a wrapped
// {user} payload; a missing user counts as a failed registration.
func (o *Orchestrator) Register(ctx context.Context, payload RegisterPayload) error {
	seq := o.registerSeq.Add(1)
	o.container.Dispatch(RegisterStarted{})

	settleFailure := func(err error) error {
		msg := userMessage(err, MsgRegisterFallback)
		o.logger.Error("registration failed: %s", msg)
		if o.registerSeq.Load() == seq {
			o.container.Dispatch(RegisterFailed{Message: msg})
		}
		o.record(ctx, ActivityEventRegisterFailure, "", map[string]any{"error": msg})
		return err
	}

	if err := payload.Validate(); err != nil {
		return settleFailure(err)
	}

	resp, err := o.client.Register(ctx, payload)
	if err != nil {
		return settleFailure(err)
	}
	if resp == nil || resp.User == nil {
		return settleFailure(ErrInvalidRegisterResponse)
	}

	if resp.CredentialToken != "" {
		if err := o.store.SaveSession(ctx, resp.CredentialToken, resp.User); err != nil {
			o.logger.Error("registration: persisting session failed: %v", err)
		}
	}

	if o.registerSeq.Load() == seq {
		o.container.Dispatch(RegisterSucceeded{User: resp.User})
	}
	o.record(ctx, ActivityEventRegisterSuccess, resp.User.ID, nil)
	return nil
}

// SignOut ends the session fail-open: the server call may fail, the
// local session is cleared regardless. The user's intent to leave is
// unambiguous; a client stuck believing it is authenticated would be
// the worse outcome. Remote failures are recorded for diagnostics only.
func (o *Orchestrator) SignOut(ctx context.Context) error {
	seq := o.signOutSeq.Add(1)
	o.container.Dispatch(SignOutStarted{})

	userID := ""
	if u := o.container.State().User; u != nil {
		userID = u.ID
	}

	if err := o.client.SignOut(ctx); err != nil {
		o.logger.Error("sign out: remote call failed, clearing local session anyway: %v", err)
		o.record(ctx, ActivityEventSignOutRemoteError, userID, map[string]any{"error": err.Error()})
	}

	if err := o.store.ClearSession(ctx); err != nil {
		o.logger.Error("sign out: clearing stored session failed: %v", err)
	}

	if o.signOutSeq.Load() == seq {
		o.container.Dispatch(SignOutSucceeded{})
	}
	o.record(ctx, ActivityEventSignOut, userID, nil)
	return nil
}

// CheckSession silently discovers whether a prior session is still
// valid. Its failure is not an error: an anonymous first visit lands
// here on every page load. A stored credential that is already expired
// settles the check without a network round trip.
func (o *Orchestrator) CheckSession(ctx context.Context) error {
	seq := o.checkSeq.Add(1)
	o.container.Dispatch(CheckStarted{})

	settleAbsent := func(err error) error {
		if o.checkSeq.Load() == seq {
			o.container.Dispatch(CheckFailed{})
		}
		o.record(ctx, ActivityEventCheckAbsent, "", nil)
		return err
	}

	storedToken, _, hasStored := o.store.ReadSession(ctx)
	if hasStored {
		if claims, err := ParseCredential(storedToken); err == nil && claims.ExpiredAt(o.now()) {
			o.logger.Debug("session check: stored credential expired, skipping network call")
			return settleAbsent(ErrCredentialExpired)
		}
	}

	user, err := o.client.CurrentProfile(ctx)
	if err == nil && user == nil {
		err = ErrNoActiveSession
	}
	if err != nil {
		o.logger.Debug("session check: no active session: %v", err)
		return settleAbsent(err)
	}

	// The server profile is fresher than the cached copy; rewrite it
	// under the existing credential so a restart restores current flags.
	if hasStored {
		if err := o.store.SaveSession(ctx, storedToken, user); err != nil {
			o.logger.Error("session check: refreshing cached user failed: %v", err)
		}
	}

	if o.checkSeq.Load() == seq {
		o.container.Dispatch(CheckSucceeded{User: user})
	}
	o.record(ctx, ActivityEventCheckRestored, user.ID, nil)
	return nil
}

// SetCurrentUser synchronizes the session user after an out-of-band
// update, e.g. a profile edit, without re-running a full session check.
func (o *Orchestrator) SetCurrentUser(user *User) {
	o.container.Dispatch(SetCurrentUser{User: user})
}

// ClearError drops the current user-facing error, if any.
func (o *Orchestrator) ClearError() {
	o.container.Dispatch(ClearError{})
}

func (o *Orchestrator) record(ctx context.Context, event ActivityEventType, userID string, metadata map[string]any) {
	err := o.activity.Record(ctx, ActivityEvent{
		ID:         uuid.New(),
		EventType:  event,
		UserID:     userID,
		Metadata:   metadata,
		OccurredAt: o.now(),
	})
	if err != nil {
		o.logger.Error("activity sink record failed: %v", err)
	}
}

// noopStore keeps the orchestrator usable without durable storage.
type noopStore struct{}

func (noopStore) SaveSession(context.Context, string, *User) error { return nil }
func (noopStore) ReadSession(context.Context) (string, *User, bool) {
	return "", nil, false
}
func (noopStore) ClearSession(context.Context) error                  { return nil }
func (noopStore) SaveRememberedDocument(context.Context, string) error { return nil }
func (noopStore) RememberedDocument(context.Context) (string, bool)    { return "", false }
func (noopStore) ClearRememberedDocument(context.Context) error        { return nil }

func normalizeStore(s Store) Store {
	if s == nil {
		return noopStore{}
	}
	return s
}
