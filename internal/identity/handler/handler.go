// Package handler is the thin HTTP layer over the identity service.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/asaskevich/govalidator"
	"github.com/go-chi/chi/v5"

	"campusconnect/internal/identity/models"
	"campusconnect/internal/identity/service"
	dErrors "campusconnect/pkg/domain-errors"
	"campusconnect/pkg/platform/httputil"
	"campusconnect/pkg/requestcontext"
)

// Handler serves the /api/auth routes.
type Handler struct {
	identity *service.Service
	logger   *slog.Logger
}

// New builds an identity Handler.
func New(identity *service.Service, logger *slog.Logger) *Handler {
	return &Handler{identity: identity, logger: logger}
}

// Register mounts the public auth routes. The /me route is mounted by the
// caller behind the auth middleware.
func (h *Handler) Register(r chi.Router) {
	r.Post("/api/auth/signup", h.handleSignup)
	r.Post("/api/auth/login", h.handleLogin)
}

// RegisterAuthenticated mounts the routes that need a valid session.
func (h *Handler) RegisterAuthenticated(r chi.Router) {
	r.Get("/api/auth/me", h.handleMe)
}

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

type sessionResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

func (h *Handler) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid request body"))
		return
	}
	if err := validateSignup(req); err != nil {
		httputil.WriteError(w, err)
		return
	}

	session, err := h.identity.Signup(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "user signed up",
		"user_id", session.User.ID,
		"request_id", requestcontext.RequestID(r.Context()),
	)
	httputil.WriteJSON(w, http.StatusCreated, toSessionResponse(session))
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid request body"))
		return
	}

	session, err := h.identity.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toSessionResponse(session))
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	user, err := h.identity.GetUser(r.Context(), requestcontext.UserID(r.Context()))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toUserResponse(user))
}

func validateSignup(req signupRequest) error {
	if !govalidator.StringLength(req.Name, "1", "100") {
		return dErrors.New(dErrors.CodeInvalidInput, "name is required")
	}
	if !govalidator.IsEmail(req.Email) || !govalidator.StringLength(req.Email, "3", "255") {
		return dErrors.New(dErrors.CodeInvalidInput, "invalid email")
	}
	if !govalidator.StringLength(req.Password, "8", "128") {
		return dErrors.New(dErrors.CodeInvalidInput, "password must be at least 8 characters")
	}
	return nil
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{
		ID:        u.ID.String(),
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

func toSessionResponse(s *service.Session) sessionResponse {
	return sessionResponse{Token: s.Token, User: toUserResponse(s.User)}
}
