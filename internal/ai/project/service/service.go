// Package service implements the wizard: the step controller, per-student
// sessions, and one component per step that validates input, consults the
// backend, and hands a patch to the controller.
package service

import (
	"context"
	"errors"
	"net/http"

	"github.com/Jamolkhon5/sprintkit/internal/ai/project/client"
	"github.com/Jamolkhon5/sprintkit/internal/ai/project/timeline"
	"github.com/Jamolkhon5/sprintkit/internal/metrics"
	"github.com/Jamolkhon5/sprintkit/internal/models"
)

// Backend is the subset of the API client the steps rely on
type Backend interface {
	ValidateProject(ctx context.Context, title, description string) (client.ProjectValidation, error)
	ValidateCriteria(ctx context.Context, criteria string) (client.ProjectValidation, error)
	DetectType(ctx context.Context, title, description string) (client.TypeDetection, error)
	BreakDown(ctx context.Context, req client.BreakdownRequest) (client.Breakdown, error)
	EstimateTimeline(ctx context.Context, req client.EstimateRequest) (timeline.Feasibility, error)
	ValidateTeamBalance(ctx context.Context, assignments map[string]string) (client.TeamBalance, error)
	ReflectionPrompts(ctx context.Context, req client.PromptsRequest) ([]string, error)
	ReflectionInsights(ctx context.Context, req client.InsightsRequest) ([]string, error)
	AwardBadges(ctx context.Context, req client.BadgesRequest) ([]models.Badge, error)
	ExportPDF(ctx context.Context, state models.ProjectState) (client.PDF, error)
}

// ProjectAssistant runs the step components against a session
type ProjectAssistant struct {
	backend  Backend
	calc     *timeline.Calculator
	detector *TypeDetector
	metrics  *metrics.Metrics
}

func NewProjectAssistant(backend Backend, calc *timeline.Calculator, m *metrics.Metrics) *ProjectAssistant {
	if calc == nil {
		calc = timeline.NewCalculator(timeline.DefaultHoursPerDay)
	}
	return &ProjectAssistant{
		backend:  backend,
		calc:     calc,
		detector: NewTypeDetector(),
		metrics:  m,
	}
}

// HoursPerDay is the configured daily capacity
func (pa *ProjectAssistant) HoursPerDay() float64 {
	return pa.calc.HoursPerDay
}

// rejection reports whether err is the backend saying no, as opposed to
// the backend being unreachable or broken.
func rejection(err error) (string, bool) {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode >= http.StatusBadRequest && apiErr.StatusCode < http.StatusInternalServerError {
		return apiErr.Message, true
	}
	return "", false
}
