package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth"
	"github.com/go-chi/render"
	"github.com/studyshare/platform/pkg/studyshare"
)

// SessionTokenTTL bounds how long an issued login token stays valid.
const SessionTokenTTL = 12 * time.Hour

// AuthHandler handles registration and login endpoints
type AuthHandler struct {
	identity studyshare.IdentityService
	hasher   studyshare.PasswordHasher
	tokens   *jwtauth.JWTAuth
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(identity studyshare.IdentityService, hasher studyshare.PasswordHasher, tokens *jwtauth.JWTAuth) *AuthHandler {
	return &AuthHandler{
		identity: identity,
		hasher:   hasher,
		tokens:   tokens,
	}
}

// Routes returns the router for auth endpoints
func (h *AuthHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/register", h.Register)
	r.Post("/login", h.Login)
	return r
}

// CredentialsRequest carries a username/password pair
type CredentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterResponse describes a newly registered user
type RegisterResponse struct {
	ID       string   `json:"id"`
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
}

// LoginResponse carries the session token for an authenticated user
type LoginResponse struct {
	Token string `json:"token"`
}

// Register creates a new user account
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Fail to decode request", "error", err)
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse{Error: "invalid request body"})
		return
	}

	user, err := h.identity.Register(r.Context(), studyshare.RegisterUserRequest{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, RegisterResponse{
		ID:       user.ID.String(),
		Username: user.Username,
		Roles:    user.RoleNames(),
	})
}

// Login verifies credentials and issues a session token
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Fail to decode request", "error", err)
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse{Error: "invalid request body"})
		return
	}

	principal, err := h.identity.Authenticate(r.Context(), req.Username)
	if err != nil {
		// An unknown username answers the same as a wrong password
		if errors.Is(err, studyshare.ErrUserNotFound) {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, ErrorResponse{Error: "invalid credentials"})
			return
		}
		renderError(w, r, err)
		return
	}

	ok, err := h.hasher.Verify(req.Password, principal.PasswordHash)
	if err != nil {
		renderError(w, r, err)
		return
	}
	if !ok {
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, ErrorResponse{Error: "invalid credentials"})
		return
	}

	claims := map[string]interface{}{
		"user_id":  principal.UserID.String(),
		"username": principal.Username,
		"roles":    principal.Roles,
	}
	jwtauth.SetIssuedNow(claims)
	jwtauth.SetExpiryIn(claims, SessionTokenTTL)

	_, tokenString, err := h.tokens.Encode(claims)
	if err != nil {
		slog.Error("Failed to encode session token", "err", err)
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, ErrorResponse{Error: "something went wrong, please try again"})
		return
	}

	render.JSON(w, r, LoginResponse{Token: tokenString})
}
