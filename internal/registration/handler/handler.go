// Package handler is the thin HTTP layer over the registration ledger and
// the leaderboard aggregator.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"campusconnect/internal/leaderboard"
	"campusconnect/internal/registration/service"
	id "campusconnect/pkg/domain"
	dErrors "campusconnect/pkg/domain-errors"
	"campusconnect/pkg/platform/httputil"
	"campusconnect/pkg/requestcontext"
)

// Handler serves the /api/registrations routes.
type Handler struct {
	registrations *service.Service
	board         *leaderboard.Service
	logger        *slog.Logger
}

// New builds a registration Handler.
func New(registrations *service.Service, board *leaderboard.Service, logger *slog.Logger) *Handler {
	return &Handler{registrations: registrations, board: board, logger: logger}
}

// Register mounts the public routes. The leaderboard is intentionally
// unauthenticated.
func (h *Handler) Register(r chi.Router) {
	r.Get("/api/registrations/leaderboard", h.handleLeaderboard)
}

// RegisterAuthenticated mounts the routes that need a valid session.
func (h *Handler) RegisterAuthenticated(r chi.Router) {
	r.Post("/api/registrations", h.handleRegister)
	r.Get("/api/registrations/my-registrations", h.handleMyRegistrations)
	r.Get("/api/registrations/notice/{noticeID}", h.handleByNotice)
	r.Get("/api/registrations/status/{noticeID}", h.handleStatus)
}

type registerRequest struct {
	NoticeID string `json:"noticeId"`
}

type registrationResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user"`
	NoticeID  string    `json:"notice"`
	CreatedAt time.Time `json:"createdAt"`
}

type noticeSummary struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	EventDate   time.Time `json:"eventDate"`
}

type myRegistrationResponse struct {
	ID        string         `json:"id"`
	Notice    *noticeSummary `json:"notice,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
}

type registrantSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type noticeRegistrationResponse struct {
	ID        string             `json:"id"`
	User      *registrantSummary `json:"user,omitempty"`
	CreatedAt time.Time          `json:"createdAt"`
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid request body"))
		return
	}
	noticeID, err := id.ParseNoticeID(req.NoticeID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	reg, err := h.registrations.Register(r.Context(), requestcontext.UserID(r.Context()), noticeID)
	if err != nil {
		// Public contract: duplicate attempts answer 400, not 409.
		if dErrors.HasCode(err, dErrors.CodeConflict) {
			httputil.WriteErrorStatus(w, http.StatusBadRequest, err)
			return
		}
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, map[string]any{
		"message": "Successfully registered for event",
		"registration": registrationResponse{
			ID:        reg.ID.String(),
			UserID:    reg.UserID.String(),
			NoticeID:  reg.NoticeID.String(),
			CreatedAt: reg.CreatedAt,
		},
	})
}

func (h *Handler) handleMyRegistrations(w http.ResponseWriter, r *http.Request) {
	entries, err := h.registrations.ListMine(r.Context(), requestcontext.UserID(r.Context()))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	out := make([]myRegistrationResponse, len(entries))
	for i, e := range entries {
		resp := myRegistrationResponse{
			ID:        e.Registration.ID.String(),
			CreatedAt: e.Registration.CreatedAt,
		}
		if e.Notice != nil {
			resp.Notice = &noticeSummary{
				ID:          e.Notice.ID.String(),
				Title:       e.Notice.Title,
				Description: e.Notice.Description,
				EventDate:   e.Notice.EventDate,
			}
		}
		out[i] = resp
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) handleByNotice(w http.ResponseWriter, r *http.Request) {
	noticeID, err := id.ParseNoticeID(chi.URLParam(r, "noticeID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	entries, err := h.registrations.ListForNotice(r.Context(), noticeID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	out := make([]noticeRegistrationResponse, len(entries))
	for i, e := range entries {
		resp := noticeRegistrationResponse{
			ID:        e.Registration.ID.String(),
			CreatedAt: e.Registration.CreatedAt,
		}
		if e.Registrant != nil {
			resp.User = &registrantSummary{
				ID:    e.Registrant.ID.String(),
				Name:  e.Registrant.Name,
				Email: e.Registrant.Email,
			}
		}
		out[i] = resp
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

// handleStatus lets the UI ask "am I registered?" without attempting a
// write.
func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	noticeID, err := id.ParseNoticeID(chi.URLParam(r, "noticeID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	_, err = h.registrations.FindByPair(r.Context(), requestcontext.UserID(r.Context()), noticeID)
	switch {
	case err == nil:
		httputil.WriteJSON(w, http.StatusOK, map[string]bool{"registered": true})
	case dErrors.HasCode(err, dErrors.CodeNotFound):
		httputil.WriteJSON(w, http.StatusOK, map[string]bool{"registered": false})
	default:
		httputil.WriteError(w, err)
	}
}

func (h *Handler) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	entries, err := h.board.Top(r.Context(), leaderboard.DefaultLimit)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, entries)
}
