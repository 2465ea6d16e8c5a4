package session_test

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	session "github.com/andamiaje/go-session"
)

// MockAPIClient implements session.APIClient
type MockAPIClient struct {
	mock.Mock
}

func (m *MockAPIClient) SignIn(ctx context.Context, documentNumber, password string) (*session.SignInResult, error) {
	args := m.Called(ctx, documentNumber, password)
	result, _ := args.Get(0).(*session.SignInResult)
	return result, args.Error(1)
}

func (m *MockAPIClient) Register(ctx context.Context, payload session.RegisterPayload) (*session.RegisterResponse, error) {
	args := m.Called(ctx, payload)
	resp, _ := args.Get(0).(*session.RegisterResponse)
	return resp, args.Error(1)
}

func (m *MockAPIClient) SignOut(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockAPIClient) CurrentProfile(ctx context.Context) (*session.User, error) {
	args := m.Called(ctx)
	user, _ := args.Get(0).(*session.User)
	return user, args.Error(1)
}

func (m *MockAPIClient) UploadSignature(ctx context.Context, filename string, image []byte) (string, error) {
	args := m.Called(ctx, filename, image)
	return args.String(0), args.Error(1)
}

func (m *MockAPIClient) UpdateProfile(ctx context.Context, userID string, patch session.ProfilePatch) (*session.User, error) {
	args := m.Called(ctx, userID, patch)
	user, _ := args.Get(0).(*session.User)
	return user, args.Error(1)
}

// recordingSink collects activity events for assertions.
type recordingSink struct {
	mu     sync.Mutex
	events []session.ActivityEvent
}

func (s *recordingSink) Record(_ context.Context, event session.ActivityEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *recordingSink) byType(eventType session.ActivityEventType) []session.ActivityEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	matched := []session.ActivityEvent{}
	for _, e := range s.events {
		if e.EventType == eventType {
			matched = append(matched, e)
		}
	}
	return matched
}

// quietLogger keeps test output clean.
type quietLogger struct{}

func (quietLogger) Debug(string, ...any) {}
func (quietLogger) Info(string, ...any)  {}
func (quietLogger) Error(string, ...any) {}
