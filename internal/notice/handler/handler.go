// Package handler is the thin HTTP layer over the notice service.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"campusconnect/internal/notice/models"
	"campusconnect/internal/notice/service"
	id "campusconnect/pkg/domain"
	dErrors "campusconnect/pkg/domain-errors"
	"campusconnect/pkg/platform/httputil"
	"campusconnect/pkg/requestcontext"
)

// Handler serves the /api/notices routes.
type Handler struct {
	notices *service.Service
	logger  *slog.Logger
}

// New builds a notice Handler.
func New(notices *service.Service, logger *slog.Logger) *Handler {
	return &Handler{notices: notices, logger: logger}
}

// Register mounts the public read routes.
func (h *Handler) Register(r chi.Router) {
	r.Get("/api/notices", h.handleList)
	r.Get("/api/notices/{noticeID}", h.handleGet)
}

// RegisterAdmin mounts the mutation routes. The caller wraps them in the
// auth and admin middleware.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Post("/api/notices", h.handleCreate)
	r.Put("/api/notices/{noticeID}", h.handleUpdate)
	r.Delete("/api/notices/{noticeID}", h.handleDelete)
}

type noticeRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	EventDate   time.Time `json:"eventDate"`
}

type creatorResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type noticeResponse struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	EventDate   time.Time        `json:"eventDate"`
	CreatedBy   *creatorResponse `json:"createdBy,omitempty"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	populated, err := h.notices.List(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	out := make([]noticeResponse, len(populated))
	for i, p := range populated {
		out[i] = toPopulatedResponse(p)
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	noticeID, err := id.ParseNoticeID(chi.URLParam(r, "noticeID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	populated, err := h.notices.Get(r.Context(), noticeID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toPopulatedResponse(populated))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req noticeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid request body"))
		return
	}

	notice, err := h.notices.Create(r.Context(), requestcontext.UserID(r.Context()), service.Draft{
		Title:       req.Title,
		Description: req.Description,
		EventDate:   req.EventDate,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "notice created",
		"notice_id", notice.ID,
		"user_id", notice.CreatedBy,
		"request_id", requestcontext.RequestID(r.Context()),
	)
	httputil.WriteJSON(w, http.StatusCreated, toNoticeResponse(notice))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	noticeID, err := id.ParseNoticeID(chi.URLParam(r, "noticeID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var req noticeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid request body"))
		return
	}

	notice, err := h.notices.Update(r.Context(), noticeID, service.Draft{
		Title:       req.Title,
		Description: req.Description,
		EventDate:   req.EventDate,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toNoticeResponse(notice))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	noticeID, err := id.ParseNoticeID(chi.URLParam(r, "noticeID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.notices.Delete(r.Context(), noticeID); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"message": "Notice deleted successfully"})
}

func toNoticeResponse(n *models.Notice) noticeResponse {
	return noticeResponse{
		ID:          n.ID.String(),
		Title:       n.Title,
		Description: n.Description,
		EventDate:   n.EventDate,
		CreatedAt:   n.CreatedAt,
		UpdatedAt:   n.UpdatedAt,
	}
}

func toPopulatedResponse(p *service.Populated) noticeResponse {
	resp := toNoticeResponse(p.Notice)
	if p.Creator != nil {
		resp.CreatedBy = &creatorResponse{
			ID:    p.Creator.ID.String(),
			Name:  p.Creator.Name,
			Email: p.Creator.Email,
		}
	}
	return resp
}
