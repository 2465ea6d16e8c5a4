package client_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	session "github.com/andamiaje/go-session"
	"github.com/andamiaje/go-session/client"
)

func richMessage(t *testing.T, err error) string {
	t.Helper()
	var rich *goerrors.Error
	require.True(t, goerrors.As(err, &rich))
	return rich.Message
}

func TestSignInLoginThenProfile(t *testing.T) {
	var loginBody map[string]string
	var profileAuth string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/auth/login":
			require.Equal(t, http.MethodPost, r.Method)
			require.NoError(t, json.NewDecoder(r.Body).Decode(&loginBody))
			json.NewEncoder(w).Encode(map[string]any{"accessToken": "tok-1"})
		case "/api/v1/auth/profile":
			require.Equal(t, http.MethodGet, r.Method)
			profileAuth = r.Header.Get("Authorization")
			json.NewEncoder(w).Encode(map[string]any{
				"id":           "usr-1",
				"role":         "TERAPEUTA",
				"firstName":    "María",
				"lastName":     "García",
				"firstLogin":   true,
				"hasSignature": false,
			})
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	c := client.New(srv.URL)
	result, err := c.SignIn(context.Background(), "12345678", "secret")
	require.NoError(t, err)

	assert.Equal(t, "12345678", loginBody["documentNumber"])
	assert.Equal(t, "secret", loginBody["password"])
	assert.Equal(t, "Bearer tok-1", profileAuth)

	assert.Equal(t, "tok-1", result.CredentialToken)
	require.NotNil(t, result.User)
	assert.Equal(t, "usr-1", result.User.ID)
	assert.Equal(t, session.RoleTherapist, result.User.Role)
	assert.True(t, result.User.FirstLogin)
}

func TestSignInSurfacesBackendMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]any{
			"message":    "Credenciales inválidas",
			"statusCode": 401,
		})
	}))
	defer srv.Close()

	c := client.New(srv.URL)
	_, err := c.SignIn(context.Background(), "12345678", "bad")
	require.Error(t, err)
	assert.Equal(t, "Credenciales inválidas", richMessage(t, err))

	var rich *goerrors.Error
	require.True(t, goerrors.As(err, &rich))
	assert.Equal(t, goerrors.CategoryAuth, rich.Category)
	assert.Equal(t, goerrors.CodeUnauthorized, rich.Code)
}

func TestSignInProfileFailureDropsCredential(t *testing.T) {
	var auths []string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/auth/login":
			json.NewEncoder(w).Encode(map[string]any{"accessToken": "tok-1"})
		case "/api/v1/auth/profile":
			auths = append(auths, r.Header.Get("Authorization"))
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	c := client.New(srv.URL)
	_, err := c.SignIn(context.Background(), "12345678", "secret")
	require.Error(t, err)

	// A later profile call must not reuse the credential from the
	// failed sign in.
	_, err = c.CurrentProfile(context.Background())
	require.Error(t, err)

	require.Len(t, auths, 2)
	assert.Equal(t, "Bearer tok-1", auths[0])
	assert.Empty(t, auths[1])
}

func TestSignInConnectionFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := client.New(srv.URL)
	_, err := c.SignIn(context.Background(), "12345678", "secret")
	require.Error(t, err)
	assert.Equal(t, "Error de conexión con el servidor", richMessage(t, err))
}

func TestRegisterTranslatesRole(t *testing.T) {
	var body map[string]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/auth/register", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		json.NewEncoder(w).Encode(map[string]any{
			"accessToken": "tok-reg",
			"user": map[string]any{
				"id":   "usr-2",
				"role": "ACOMPANIANTE_EXTERNO",
				"name": "Juan Pablo Pérez",
			},
		})
	}))
	defer srv.Close()

	c := client.New(srv.URL)
	resp, err := c.Register(context.Background(), session.RegisterPayload{
		FirstName:      "Juan",
		LastName:       "Pérez",
		Email:          "juan@example.com",
		DocumentNumber: "87654321",
		Password:       "secret-pass",
		Role:           session.RoleCompanion,
	})
	require.NoError(t, err)

	assert.Equal(t, "ACOMPANIANTE_EXTERNO", body["role"])

	require.NotNil(t, resp.User)
	assert.Equal(t, session.RoleCompanion, resp.User.Role)
	assert.Equal(t, "Juan", resp.User.FirstName)
	assert.Equal(t, "Pablo Pérez", resp.User.LastName)
	assert.True(t, resp.User.FirstLogin)
	assert.Equal(t, "tok-reg", resp.CredentialToken)
}

func TestRegisterWithoutUserReturnsEmptyResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"accessToken": "tok-reg"})
	}))
	defer srv.Close()

	c := client.New(srv.URL)
	resp, err := c.Register(context.Background(), session.RegisterPayload{Role: session.RoleTherapist})
	require.NoError(t, err)
	assert.Nil(t, resp.User)
}

func TestSignOutClearsCredential(t *testing.T) {
	var auths []string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auths = append(auths, r.Header.Get("Authorization"))
		if r.URL.Path == "/api/v1/auth/logout" {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"id": "usr-1", "role": "TERAPEUTA"})
	}))
	defer srv.Close()

	c := client.New(srv.URL)
	c.SetCredential("tok-1")

	require.NoError(t, c.SignOut(context.Background()))

	_, err := c.CurrentProfile(context.Background())
	require.NoError(t, err)

	require.Len(t, auths, 2)
	assert.Equal(t, "Bearer tok-1", auths[0])
	assert.Empty(t, auths[1])
}

func TestUpdateProfilePath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.Equal(t, "/api/v1/users/profile/usr-1", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"id":           "usr-1",
			"role":         "TERAPEUTA",
			"firstLogin":   false,
			"hasSignature": true,
		})
	}))
	defer srv.Close()

	c := client.New(srv.URL)
	updated, err := c.UpdateProfile(context.Background(), "usr-1", session.EnrollmentPatch("sig-key-1"))
	require.NoError(t, err)
	assert.False(t, updated.FirstLogin)
	assert.True(t, updated.HasSignature)
}

func TestUploadSignature(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/storage/upload", r.URL.Path)
		require.Equal(t, "FIRMA_DIGITAL", r.URL.Query().Get("type"))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "firma.png", header.Filename)

		json.NewEncoder(w).Encode(map[string]any{"key": "sig-key-1"})
	}))
	defer srv.Close()

	c := client.New(srv.URL)
	key, err := c.UploadSignature(context.Background(), "firma.png", []byte{0x89, 0x50, 0x4e, 0x47})
	require.NoError(t, err)
	assert.Equal(t, "sig-key-1", key)
}

func TestDownloadURLEscapesKey(t *testing.T) {
	c := client.New("https://example.com")
	assert.Equal(t,
		"https://example.com/api/v1/storage/download?key=a%2Fb+c",
		c.DownloadURL("a/b c"))
}
