package service

import (
	"context"
	"time"

	"github.com/Jamolkhon5/sprintkit/internal/ai/project/client"
	"github.com/Jamolkhon5/sprintkit/internal/ai/project/timeline"
	"github.com/Jamolkhon5/sprintkit/internal/metrics"
	"github.com/Jamolkhon5/sprintkit/internal/models"
)

// fakeBackend answers with the configured funcs; unset ones act as if the
// backend were down.
type fakeBackend struct {
	validateProject  func(ctx context.Context, title, description string) (client.ProjectValidation, error)
	validateCriteria func(ctx context.Context, criteria string) (client.ProjectValidation, error)
	detectType       func(ctx context.Context, title, description string) (client.TypeDetection, error)
	breakDown        func(ctx context.Context, req client.BreakdownRequest) (client.Breakdown, error)
	estimate         func(ctx context.Context, req client.EstimateRequest) (timeline.Feasibility, error)
	teamBalance      func(ctx context.Context, assignments map[string]string) (client.TeamBalance, error)
	prompts          func(ctx context.Context, req client.PromptsRequest) ([]string, error)
	insights         func(ctx context.Context, req client.InsightsRequest) ([]string, error)
	badges           func(ctx context.Context, req client.BadgesRequest) ([]models.Badge, error)
	exportPDF        func(ctx context.Context, state models.ProjectState) (client.PDF, error)
}

func (f *fakeBackend) ValidateProject(ctx context.Context, title, description string) (client.ProjectValidation, error) {
	if f.validateProject == nil {
		return client.ProjectValidation{}, client.ErrUnavailable
	}
	return f.validateProject(ctx, title, description)
}

func (f *fakeBackend) ValidateCriteria(ctx context.Context, criteria string) (client.ProjectValidation, error) {
	if f.validateCriteria == nil {
		return client.ProjectValidation{}, client.ErrUnavailable
	}
	return f.validateCriteria(ctx, criteria)
}

func (f *fakeBackend) DetectType(ctx context.Context, title, description string) (client.TypeDetection, error) {
	if f.detectType == nil {
		return client.TypeDetection{}, client.ErrUnavailable
	}
	return f.detectType(ctx, title, description)
}

func (f *fakeBackend) BreakDown(ctx context.Context, req client.BreakdownRequest) (client.Breakdown, error) {
	if f.breakDown == nil {
		return client.Breakdown{}, client.ErrUnavailable
	}
	return f.breakDown(ctx, req)
}

func (f *fakeBackend) EstimateTimeline(ctx context.Context, req client.EstimateRequest) (timeline.Feasibility, error) {
	if f.estimate == nil {
		return timeline.Feasibility{}, client.ErrUnavailable
	}
	return f.estimate(ctx, req)
}

func (f *fakeBackend) ValidateTeamBalance(ctx context.Context, assignments map[string]string) (client.TeamBalance, error) {
	if f.teamBalance == nil {
		return client.TeamBalance{}, client.ErrUnavailable
	}
	return f.teamBalance(ctx, assignments)
}

func (f *fakeBackend) ReflectionPrompts(ctx context.Context, req client.PromptsRequest) ([]string, error) {
	if f.prompts == nil {
		return nil, client.ErrUnavailable
	}
	return f.prompts(ctx, req)
}

func (f *fakeBackend) ReflectionInsights(ctx context.Context, req client.InsightsRequest) ([]string, error) {
	if f.insights == nil {
		return nil, client.ErrUnavailable
	}
	return f.insights(ctx, req)
}

func (f *fakeBackend) AwardBadges(ctx context.Context, req client.BadgesRequest) ([]models.Badge, error) {
	if f.badges == nil {
		return nil, client.ErrUnavailable
	}
	return f.badges(ctx, req)
}

func (f *fakeBackend) ExportPDF(ctx context.Context, state models.ProjectState) (client.PDF, error) {
	if f.exportPDF == nil {
		return client.PDF{}, client.ErrUnavailable
	}
	return f.exportPDF(ctx, state)
}

var testNow = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

func newAssistant(b *fakeBackend) *ProjectAssistant {
	calc := timeline.NewCalculator(2)
	calc.Now = func() time.Time { return testNow }
	return NewProjectAssistant(b, calc, nil)
}

func newTestSession() *Session {
	return NewSession("test", (*metrics.Metrics)(nil))
}

// sessionAt returns a session already on step with state
func sessionAt(step Step, state models.ProjectState) *Session {
	s := newTestSession()
	s.Restore(state, step)
	return s
}

func plannedState() models.ProjectState {
	s := models.NewProjectState()
	s.Title = "Tennis Ball Robot"
	s.Description = "A robot that collects tennis balls after practice"
	s.ProjectType = models.TypeHardware
	s.TeamMembers = []string{"Alex", "Sam"}
	s.TeamSize = models.TeamSmall
	s.Goals = models.Goals{Goal: "Collect ten balls in under a minute"}
	s.Tasks = []models.Task{
		{ID: "t1", Name: "Build frame", Hours: 4, Difficulty: models.Hard},
		{ID: "t2", Name: "Wire motors", Hours: 3, Difficulty: models.Medium},
		{ID: "t3", Name: "Test on court", Hours: 2, Difficulty: models.Easy},
	}
	return s
}
