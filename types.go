package session

import (
	"context"
	"fmt"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Error(format string, args ...any)
}

// SignInResult is what the network collaborator resolves a sign in to:
// the authenticated user plus the durable credential token.
type SignInResult struct {
	User            *User  `json:"user"`
	CredentialToken string `json:"accessToken"`
}

// RegisterResponse is the wrapped payload the registration endpoint
// resolves to. The orchestrator unwraps User and rejects nil payloads.
type RegisterResponse struct {
	User            *User  `json:"user"`
	CredentialToken string `json:"accessToken,omitempty"`
}

// APIClient is the network collaborator consumed by the operation
// orchestrator and the enrollment flow. Implementations own transport,
// retry, and timeout policy; callers only see a resolved value or an
// error carrying a human-readable message.
type APIClient interface {
	SignIn(ctx context.Context, documentNumber, password string) (*SignInResult, error)
	Register(ctx context.Context, payload RegisterPayload) (*RegisterResponse, error)
	SignOut(ctx context.Context) error
	CurrentProfile(ctx context.Context) (*User, error)
	UploadSignature(ctx context.Context, filename string, image []byte) (string, error)
	UpdateProfile(ctx context.Context, userID string, patch ProfilePatch) (*User, error)
}

// Store is the durable persistence port. The credential token and the
// cached user are written and removed as a pair; reads return both or
// neither, and corrupted data degrades to absent instead of erroring.
// The remembered document number lives outside the pair.
type Store interface {
	SaveSession(ctx context.Context, token string, user *User) error
	ReadSession(ctx context.Context) (token string, user *User, ok bool)
	ClearSession(ctx context.Context) error

	SaveRememberedDocument(ctx context.Context, documentNumber string) error
	RememberedDocument(ctx context.Context) (string, bool)
	ClearRememberedDocument(ctx context.Context) error
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] SESSION "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] SESSION "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] SESSION "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
