// Package handler serves the per-step wizard routes.
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	stepmodels "github.com/Jamolkhon5/sprintkit/internal/ai/project/models"
	"github.com/Jamolkhon5/sprintkit/internal/ai/project/service"
	"github.com/Jamolkhon5/sprintkit/internal/respond"
)

// Sessions looks up a live wizard session by id
type Sessions interface {
	Get(id string) (*service.Session, error)
}

type ProjectAssistantHandler struct {
	assistant *service.ProjectAssistant
	sessions  Sessions
}

func NewProjectAssistantHandler(assistant *service.ProjectAssistant, sessions Sessions) *ProjectAssistantHandler {
	return &ProjectAssistantHandler{
		assistant: assistant,
		sessions:  sessions,
	}
}

// StepResponse pairs an action's result with the session after it
type StepResponse struct {
	Result  any          `json:"result"`
	Session service.View `json:"session"`
}

func (h *ProjectAssistantHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req stepmodels.CreateRequest
	handle(h, w, r, &req, func(s *service.Session) (any, error) {
		return h.assistant.Create(r.Context(), s, req)
	})
}

func (h *ProjectAssistantHandler) Brainstorm(w http.ResponseWriter, r *http.Request) {
	var req stepmodels.BrainstormRequest
	handle(h, w, r, &req, func(s *service.Session) (any, error) {
		return h.assistant.Brainstorm(s, req)
	})
}

func (h *ProjectAssistantHandler) SetGoals(w http.ResponseWriter, r *http.Request) {
	var req stepmodels.GoalsRequest
	handle(h, w, r, &req, func(s *service.Session) (any, error) {
		return h.assistant.SetGoals(r.Context(), s, req)
	})
}

func (h *ProjectAssistantHandler) GenerateTasks(w http.ResponseWriter, r *http.Request) {
	handle[struct{}](h, w, r, nil, func(s *service.Session) (any, error) {
		return h.assistant.GenerateTasks(r.Context(), s)
	})
}

func (h *ProjectAssistantHandler) AddTask(w http.ResponseWriter, r *http.Request) {
	var req stepmodels.TaskRequest
	handle(h, w, r, &req, func(s *service.Session) (any, error) {
		return h.assistant.AddTask(s, req)
	})
}

func (h *ProjectAssistantHandler) EditTask(w http.ResponseWriter, r *http.Request) {
	var req stepmodels.TaskUpdate
	handle(h, w, r, &req, func(s *service.Session) (any, error) {
		return h.assistant.EditTask(s, chi.URLParam(r, "taskID"), req)
	})
}

func (h *ProjectAssistantHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	handle[struct{}](h, w, r, nil, func(s *service.Session) (any, error) {
		return nil, h.assistant.DeleteTask(s, chi.URLParam(r, "taskID"))
	})
}

func (h *ProjectAssistantHandler) SubmitTasks(w http.ResponseWriter, r *http.Request) {
	var req stepmodels.SubmitTasksRequest
	handle(h, w, r, &req, func(s *service.Session) (any, error) {
		return h.assistant.SubmitTasks(s, req)
	})
}

func (h *ProjectAssistantHandler) CheckTimeline(w http.ResponseWriter, r *http.Request) {
	var req stepmodels.TimelineRequest
	handle(h, w, r, &req, func(s *service.Session) (any, error) {
		return h.assistant.CheckTimeline(r.Context(), s, req)
	})
}

func (h *ProjectAssistantHandler) SubmitAssignments(w http.ResponseWriter, r *http.Request) {
	var req stepmodels.AssignRequest
	handle(h, w, r, &req, func(s *service.Session) (any, error) {
		return h.assistant.SubmitAssignments(r.Context(), s, req)
	})
}

func (h *ProjectAssistantHandler) ReflectionPrompts(w http.ResponseWriter, r *http.Request) {
	handle[struct{}](h, w, r, nil, func(s *service.Session) (any, error) {
		return h.assistant.LoadPrompts(r.Context(), s)
	})
}

// ReflectionFeedback is the live character counter; it never blocks
func (h *ProjectAssistantHandler) ReflectionFeedback(w http.ResponseWriter, r *http.Request) {
	var req stepmodels.ReflectionRequest
	handle(h, w, r, &req, func(s *service.Session) (any, error) {
		return h.assistant.Feedback(s, req), nil
	})
}

func (h *ProjectAssistantHandler) SubmitReflection(w http.ResponseWriter, r *http.Request) {
	var req stepmodels.ReflectionRequest
	handle(h, w, r, &req, func(s *service.Session) (any, error) {
		return h.assistant.SubmitReflection(r.Context(), s, req)
	})
}

// handle resolves the session, decodes the body into req (when non-nil),
// runs fn and writes the result together with the session view.
func handle[T any](h *ProjectAssistantHandler, w http.ResponseWriter, r *http.Request, req *T, fn func(s *service.Session) (any, error)) {
	s, err := h.sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	if req != nil {
		if err := respond.Decode(r, req); err != nil {
			respond.Error(w, r, err)
			return
		}
	}

	result, err := fn(s)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	view := s.View()
	hlog.FromRequest(r).Debug().
		Str("session", s.ID).
		Str("step", view.StepName).
		Msg("step action done")
	respond.OK(w, StepResponse{Result: result, Session: view})
}

// RegisterRoutes registers the wizard step routes
func (h *ProjectAssistantHandler) RegisterRoutes(r chi.Router) {
	r.Post("/v1/sessions/{id}/steps/create", h.Create)
	r.Post("/v1/sessions/{id}/steps/brainstorm", h.Brainstorm)
	r.Post("/v1/sessions/{id}/steps/goals", h.SetGoals)

	r.Post("/v1/sessions/{id}/tasks/generate", h.GenerateTasks)
	r.Post("/v1/sessions/{id}/tasks", h.AddTask)
	r.Put("/v1/sessions/{id}/tasks/{taskID}", h.EditTask)
	r.Delete("/v1/sessions/{id}/tasks/{taskID}", h.DeleteTask)
	r.Post("/v1/sessions/{id}/steps/tasks", h.SubmitTasks)

	r.Post("/v1/sessions/{id}/timeline/check", h.CheckTimeline)
	r.Post("/v1/sessions/{id}/steps/assign", h.SubmitAssignments)

	r.Post("/v1/sessions/{id}/reflection/prompts", h.ReflectionPrompts)
	r.Post("/v1/sessions/{id}/reflection/feedback", h.ReflectionFeedback)
	r.Post("/v1/sessions/{id}/steps/reflection", h.SubmitReflection)
}
