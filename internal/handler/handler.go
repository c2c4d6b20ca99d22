// Package handler serves the session-level routes: creating and importing
// sessions, navigation, preferences and export.
package handler

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	"github.com/Jamolkhon5/sprintkit/internal/ai/project/service"
	"github.com/Jamolkhon5/sprintkit/internal/models"
	"github.com/Jamolkhon5/sprintkit/internal/repository"
	"github.com/Jamolkhon5/sprintkit/internal/respond"
)

type Handler struct {
	repo      *repository.Repository
	assistant *service.ProjectAssistant
}

func NewHandler(repo *repository.Repository, assistant *service.ProjectAssistant) *Handler {
	return &Handler{
		repo:      repo,
		assistant: assistant,
	}
}

// ImportRequest carries a state saved by an older client
type ImportRequest struct {
	State models.LegacyState `json:"state"`
	Step  service.Step       `json:"step"`
}

type PreferencesRequest struct {
	Theme models.Theme `json:"theme"`
}

func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	s := h.repo.Create()
	hlog.FromRequest(r).Info().Str("session", s.ID).Msg("session created")
	respond.JSON(w, http.StatusCreated, s.View())
}

// ImportSession migrates a legacy record into a new session. The record's
// step is kept when valid; anything else starts on step 1.
func (h *Handler) ImportSession(w http.ResponseWriter, r *http.Request) {
	var req ImportRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	s := h.repo.Create()
	view := s.Restore(req.State.Migrate(), req.Step)
	hlog.FromRequest(r).Info().
		Str("session", s.ID).
		Int("step", int(view.Step)).
		Int("tasks", len(view.State.Tasks)).
		Msg("legacy session imported")
	respond.JSON(w, http.StatusCreated, view)
}

func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	respond.OK(w, s.View())
}

func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !h.repo.Delete(id) {
		respond.Error(w, r, repository.ErrSessionNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Start leaves the intro screen
func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	respond.OK(w, s.Start())
}

func (h *Handler) Back(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	respond.OK(w, s.Back())
}

func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	respond.OK(w, s.Reset())
}

func (h *Handler) SetPreferences(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var req PreferencesRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}
	view, err := s.SetTheme(req.Theme)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.OK(w, view)
}

func (h *Handler) ExportText(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	respond.OK(w, h.assistant.ExportText(s))
}

// ExportPDF streams the rendered plan as a download
func (h *Handler) ExportPDF(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	pdf, err := h.assistant.ExportPDF(r.Context(), s)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", pdf.Filename))
	w.Header().Set("Content-Length", fmt.Sprint(len(pdf.Content)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(pdf.Content); err != nil {
		hlog.FromRequest(r).Warn().Err(err).Msg("pdf write interrupted")
	}
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*service.Session, bool) {
	s, err := h.repo.Get(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, r, err)
		return nil, false
	}
	return s, true
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/v1/sessions", h.CreateSession)
	r.Post("/v1/sessions/import", h.ImportSession)
	r.Get("/v1/sessions/{id}", h.GetSession)
	r.Delete("/v1/sessions/{id}", h.DeleteSession)
	r.Post("/v1/sessions/{id}/start", h.Start)
	r.Post("/v1/sessions/{id}/back", h.Back)
	r.Post("/v1/sessions/{id}/reset", h.Reset)
	r.Put("/v1/sessions/{id}/preferences", h.SetPreferences)
	r.Get("/v1/sessions/{id}/export/text", h.ExportText)
	r.Get("/v1/sessions/{id}/export/pdf", h.ExportPDF)
}
