package session

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ActivityEventType enumerates supported activity categories.
type ActivityEventType string

const (
	ActivityEventSignInSuccess       ActivityEventType = "session.signin.success"
	ActivityEventSignInFailure       ActivityEventType = "session.signin.failure"
	ActivityEventRegisterSuccess     ActivityEventType = "session.register.success"
	ActivityEventRegisterFailure     ActivityEventType = "session.register.failure"
	ActivityEventSignOut             ActivityEventType = "session.signout"
	ActivityEventSignOutRemoteError  ActivityEventType = "session.signout.remote_error"
	ActivityEventCheckRestored       ActivityEventType = "session.check.restored"
	ActivityEventCheckAbsent         ActivityEventType = "session.check.absent"
	ActivityEventEnrollmentCompleted ActivityEventType = "session.enrollment.completed"
	ActivityEventEnrollmentFailed    ActivityEventType = "session.enrollment.failed"
)

// ActivityEvent captures audit-friendly information about a lifecycle action.
type ActivityEvent struct {
	ID         uuid.UUID
	EventType  ActivityEventType
	UserID     string
	Metadata   map[string]any
	OccurredAt time.Time
}

// ActivitySink consumes activity events for auditing/telemetry purposes.
type ActivitySink interface {
	Record(ctx context.Context, event ActivityEvent) error
}

// ActivitySinkFunc adapts a function to the ActivitySink interface.
type ActivitySinkFunc func(ctx context.Context, event ActivityEvent) error

// Record implements ActivitySink.
func (f ActivitySinkFunc) Record(ctx context.Context, event ActivityEvent) error {
	if f == nil {
		return nil
	}
	return f(ctx, event)
}

type noopActivitySink struct{}

func (noopActivitySink) Record(context.Context, ActivityEvent) error {
	return nil
}

func normalizeActivitySink(s ActivitySink) ActivitySink {
	if s == nil {
		return noopActivitySink{}
	}
	return s
}
