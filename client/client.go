// Package client implements the session.APIClient port against the
// Andamiaje portal REST API. It owns transport concerns only: request
// encoding, the backend's error envelope, and wire-level user
// normalization. Session state never lives here.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"sync"
	"time"

	goerrors "github.com/goliatone/go-errors"

	session "github.com/andamiaje/go-session"
)

// DefaultBaseURL points at the hosted portal backend.
const DefaultBaseURL = "https://andamiaje-api.onrender.com"

// Generic transport failure messages, shown when the backend supplies
// nothing better.
const (
	msgConnectionError = "Error de conexión con el servidor"
	msgInvalidResponse = "Respuesta del servidor no válida"
)

// Client talks to the portal backend. The session credential rides both
// the auth cookie (set by the login endpoint) and, when known, an
// Authorization bearer header so restored sessions work without a
// fresh login.
type Client struct {
	baseURL string
	http    *http.Client
	logger  session.Logger

	mu    sync.RWMutex
	token string
}

var _ session.APIClient = (*Client)(nil)

// Option customizes client construction.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithLogger overrides the default logger.
func WithLogger(logger session.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New returns a client for the given base URL; an empty URL selects the
// hosted backend.
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	jar, _ := cookiejar.New(nil)
	c := &Client{
		baseURL: baseURL,
		http: &http.Client{
			Jar:     jar,
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// SetCredential installs a credential token, e.g. one restored from the
// durable store, for use as a bearer header on subsequent requests.
func (c *Client) SetCredential(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) credential() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

type loginResponse struct {
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken,omitempty"`
	ExpiresIn    int       `json:"expiresIn,omitempty"`
	User         *wireUser `json:"user,omitempty"`
}

// SignIn performs the login call and then fetches the fresh profile,
// mirroring the backend's login-then-profile contract.
func (c *Client) SignIn(ctx context.Context, documentNumber, password string) (*session.SignInResult, error) {
	body := map[string]string{
		"documentNumber": documentNumber,
		"password":       password,
	}

	login := &loginResponse{}
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/login", body, login); err != nil {
		return nil, err
	}
	if login.AccessToken != "" {
		c.SetCredential(login.AccessToken)
	}

	user, err := c.CurrentProfile(ctx)
	if err != nil {
		// A failed sign in must not leave the fresh credential behind.
		c.SetCredential("")
		return nil, err
	}
	return &session.SignInResult{
		User:            user,
		CredentialToken: login.AccessToken,
	}, nil
}

type registerResponse struct {
	AccessToken string    `json:"accessToken,omitempty"`
	User        *wireUser `json:"user"`
}

// Register creates a new account, translating the role into the
// backend's vocabulary on the way out.
func (c *Client) Register(ctx context.Context, payload session.RegisterPayload) (*session.RegisterResponse, error) {
	body := map[string]string{
		"firstName":      payload.FirstName,
		"lastName":       payload.LastName,
		"email":          payload.Email,
		"phone":          payload.Phone,
		"documentNumber": payload.DocumentNumber,
		"password":       payload.Password,
		"role":           session.BackendRole(payload.Role),
	}

	resp := &registerResponse{}
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/register", body, resp); err != nil {
		return nil, err
	}
	if resp.User == nil {
		return &session.RegisterResponse{CredentialToken: resp.AccessToken}, nil
	}
	if resp.AccessToken != "" {
		c.SetCredential(resp.AccessToken)
	}

	// A freshly registered account is on its first login unless the
	// backend says otherwise.
	return &session.RegisterResponse{
		User:            resp.User.toUser(true),
		CredentialToken: resp.AccessToken,
	}, nil
}

// SignOut ends the server-side session and drops the local credential.
func (c *Client) SignOut(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/api/v1/auth/logout", nil, nil)
	c.SetCredential("")
	return err
}

// CurrentProfile fetches the authenticated user's profile.
func (c *Client) CurrentProfile(ctx context.Context) (*session.User, error) {
	wire := &wireUser{}
	if err := c.do(ctx, http.MethodGet, "/api/v1/auth/profile", nil, wire); err != nil {
		return nil, err
	}
	return wire.toUser(false), nil
}

// UpdateProfile applies a partial profile update and returns the
// updated user.
func (c *Client) UpdateProfile(ctx context.Context, userID string, patch session.ProfilePatch) (*session.User, error) {
	wire := &wireUser{}
	path := fmt.Sprintf("/api/v1/users/profile/%s", userID)
	if err := c.do(ctx, http.MethodPut, path, patch, wire); err != nil {
		return nil, err
	}
	return wire.toUser(false), nil
}

// do runs one JSON request against the backend and decodes the reply
// into out when provided. Backend failures surface as categorized
// errors carrying the envelope's human-readable message.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "unable to encode request body")
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "unable to build request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token := c.credential(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryExternal, msgConnectionError)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryExternal, msgConnectionError)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.envelopeError(resp.StatusCode, raw)
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryExternal, msgInvalidResponse)
	}
	return nil
}

// apiError is the backend's error envelope.
type apiError struct {
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode"`
	Err        string `json:"error,omitempty"`
}

func (c *Client) envelopeError(status int, raw []byte) error {
	envelope := apiError{StatusCode: status}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &envelope); err != nil {
			envelope.Message = string(raw)
		}
	}
	if envelope.Message == "" {
		envelope.Message = fmt.Sprintf("Error %d", status)
	}

	base := fmt.Errorf("%s", envelope.Message)
	switch {
	case status == http.StatusUnauthorized:
		return goerrors.Wrap(base, goerrors.CategoryAuth, envelope.Message).
			WithCode(goerrors.CodeUnauthorized)
	case status == http.StatusForbidden:
		return goerrors.Wrap(base, goerrors.CategoryAuth, envelope.Message).
			WithCode(goerrors.CodeForbidden)
	case status == http.StatusNotFound:
		return goerrors.Wrap(base, goerrors.CategoryNotFound, envelope.Message).
			WithCode(goerrors.CodeNotFound)
	case status == http.StatusConflict:
		return goerrors.Wrap(base, goerrors.CategoryConflict, envelope.Message).
			WithCode(goerrors.CodeConflict)
	case status >= 400 && status < 500:
		return goerrors.Wrap(base, goerrors.CategoryValidation, envelope.Message).
			WithCode(goerrors.CodeBadRequest)
	default:
		return goerrors.Wrap(base, goerrors.CategoryExternal, envelope.Message)
	}
}
