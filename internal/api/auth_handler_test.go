package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/jwtauth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studyshare/platform/pkg/studyshare"
	"github.com/studyshare/platform/pkg/studyshare/password"
	memoryrepo "github.com/studyshare/platform/pkg/studyshare/repo/memory"
)

func setupAuthHandler(t *testing.T) (*AuthHandler, *jwtauth.JWTAuth) {
	t.Helper()

	repo := memoryrepo.New()
	hasher := password.NewHasher()
	identitySvc, err := studyshare.NewIdentityService(repo, hasher)
	require.NoError(t, err)

	tokens := jwtauth.New("HS256", []byte("test-secret"), nil)
	return NewAuthHandler(identitySvc, hasher, tokens), tokens
}

func postJSON(t *testing.T, handler http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func TestRegisterEndpoint(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, _ := setupAuthHandler(t)
		router := handler.Routes()

		w := postJSON(t, router, "/register", CredentialsRequest{
			Username: "alice",
			Password: "password1",
		})
		require.Equal(t, http.StatusCreated, w.Code)

		var resp RegisterResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.NotEmpty(t, resp.ID)
		assert.Equal(t, "alice", resp.Username)
		assert.Equal(t, []string{studyshare.RoleUser}, resp.Roles)
	})

	t.Run("ValidationFailure", func(t *testing.T) {
		handler, _ := setupAuthHandler(t)
		router := handler.Routes()

		w := postJSON(t, router, "/register", CredentialsRequest{
			Username: "ab",
			Password: "password1",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("DuplicateUsername", func(t *testing.T) {
		handler, _ := setupAuthHandler(t)
		router := handler.Routes()

		w := postJSON(t, router, "/register", CredentialsRequest{Username: "bob", Password: "password1"})
		require.Equal(t, http.StatusCreated, w.Code)

		w = postJSON(t, router, "/register", CredentialsRequest{Username: "bob", Password: "password2"})
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("MalformedBody", func(t *testing.T) {
		handler, _ := setupAuthHandler(t)
		router := handler.Routes()

		req := httptest.NewRequest(http.MethodPost, "/register", bytes.NewReader([]byte("{not json")))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestLoginEndpoint(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, tokens := setupAuthHandler(t)
		router := handler.Routes()

		w := postJSON(t, router, "/register", CredentialsRequest{Username: "carol", Password: "password1"})
		require.Equal(t, http.StatusCreated, w.Code)

		w = postJSON(t, router, "/login", CredentialsRequest{Username: "carol", Password: "password1"})
		require.Equal(t, http.StatusOK, w.Code)

		var resp LoginResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		require.NotEmpty(t, resp.Token)

		// The issued token verifies against the same key and carries the
		// identity claims
		token, err := tokens.Decode(resp.Token)
		require.NoError(t, err)

		username, ok := token.Get("username")
		require.True(t, ok)
		assert.Equal(t, "carol", username)

		_, ok = token.Get("user_id")
		assert.True(t, ok)
	})

	t.Run("WrongPassword", func(t *testing.T) {
		handler, _ := setupAuthHandler(t)
		router := handler.Routes()

		w := postJSON(t, router, "/register", CredentialsRequest{Username: "dave", Password: "password1"})
		require.Equal(t, http.StatusCreated, w.Code)

		w = postJSON(t, router, "/login", CredentialsRequest{Username: "dave", Password: "wrong-pass"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("UnknownUser", func(t *testing.T) {
		handler, _ := setupAuthHandler(t)
		router := handler.Routes()

		w := postJSON(t, router, "/login", CredentialsRequest{Username: "nobody", Password: "password1"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
