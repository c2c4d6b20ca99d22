package client

import (
	"context"
	"fmt"
	"strings"

	"github.com/Jamolkhon5/sprintkit/internal/ai/project/timeline"
	"github.com/Jamolkhon5/sprintkit/internal/models"
)

// ProjectValidation is the backend's semantic verdict on free text
type ProjectValidation struct {
	Valid   bool   `json:"valid"`
	Error   string `json:"error,omitempty"`
	Warning string `json:"warning,omitempty"`
}

type TypeDetection struct {
	Type            models.ProjectType `json:"type"`
	Confidence      float64            `json:"confidence"`
	Characteristics []string           `json:"characteristics,omitempty"`
}

type BreakdownRequest struct {
	Title           string                 `json:"title"`
	Description     string                 `json:"description"`
	Goal            string                 `json:"goal,omitempty"`
	ProjectType     models.ProjectType     `json:"project_type"`
	ExperienceLevel models.ExperienceLevel `json:"experience_level"`
	TeamSize        models.TeamSize        `json:"team_size"`
}

// SuggestedTask is a task as the AI proposes it
type SuggestedTask struct {
	Task       string       `json:"task"`
	Name       string       `json:"name"`
	Hours      models.Hours `json:"hours"`
	Difficulty string       `json:"difficulty"`
}

// ToTask converts a suggestion into a normalized task with a fresh id
func (s SuggestedTask) ToTask() models.Task {
	name := s.Name
	if name == "" {
		name = s.Task
	}
	return models.NormalizeTask(models.Task{
		Name:       name,
		Hours:      int(s.Hours),
		Difficulty: models.Difficulty(s.Difficulty),
	})
}

type Breakdown struct {
	Tasks   []SuggestedTask `json:"tasks"`
	Source  string          `json:"source,omitempty"`
	Message string          `json:"message,omitempty"`
}

type EstimateRequest struct {
	Tasks           []models.Task          `json:"tasks"`
	DeadlineDays    int                    `json:"deadline_days"`
	ExperienceLevel models.ExperienceLevel `json:"experience_level"`
	TeamSize        models.TeamSize        `json:"team_size"`
}

type TeamBalance struct {
	Balanced   bool   `json:"balanced"`
	Warning    string `json:"warning,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

type PromptsRequest struct {
	ProjectType  models.ProjectType `json:"project_type"`
	Title        string             `json:"title"`
	PriorAnswers []string           `json:"prior_answers,omitempty"`
}

type InsightsRequest struct {
	Title       string             `json:"title"`
	ProjectType models.ProjectType `json:"project_type"`
	Reflection  models.Reflection  `json:"reflection"`
}

type BadgesRequest struct {
	ReflectionText   string  `json:"reflection_text"`
	TasksEdited      bool    `json:"tasks_edited"`
	TimelineAccuracy float64 `json:"timeline_accuracy"`
}

// PDF is a rendered project plan ready to be downloaded
type PDF struct {
	Filename string
	Content  []byte
}

func (c *Client) ValidateProject(ctx context.Context, title, description string) (ProjectValidation, error) {
	var out ProjectValidation
	err := c.call(ctx, EndpointValidate, map[string]string{
		"title":       title,
		"description": description,
	}, &out)
	return out, err
}

func (c *Client) ValidateCriteria(ctx context.Context, criteria string) (ProjectValidation, error) {
	var out ProjectValidation
	err := c.call(ctx, EndpointValidateCriteria, map[string]string{"criteria": criteria}, &out)
	return out, err
}

func (c *Client) DetectType(ctx context.Context, title, description string) (TypeDetection, error) {
	var out TypeDetection
	err := c.call(ctx, EndpointDetectType, map[string]string{
		"title":       title,
		"description": description,
	}, &out)
	if err == nil && !out.Type.Valid() {
		return out, fmt.Errorf("%w: unknown project type %q", ErrUnavailable, out.Type)
	}
	return out, err
}

func (c *Client) BreakDown(ctx context.Context, req BreakdownRequest) (Breakdown, error) {
	var out Breakdown
	err := c.call(ctx, EndpointBreakDown, req, &out)
	return out, err
}

func (c *Client) EstimateTimeline(ctx context.Context, req EstimateRequest) (timeline.Feasibility, error) {
	var out timeline.Feasibility
	err := c.call(ctx, EndpointEstimateTimeline, req, &out)
	return out, err
}

// ValidateTimeline is the older, non-personalized feasibility endpoint
func (c *Client) ValidateTimeline(ctx context.Context, tasks []models.Task, deadlineDate string) (timeline.Feasibility, error) {
	var out timeline.Feasibility
	err := c.call(ctx, EndpointValidateTimeline, map[string]any{
		"tasks":         tasks,
		"deadline_date": deadlineDate,
	}, &out)
	return out, err
}

func (c *Client) ValidateTeamBalance(ctx context.Context, assignments map[string]string) (TeamBalance, error) {
	var out TeamBalance
	err := c.call(ctx, EndpointValidateTeamBalance, map[string]any{"assignments": assignments}, &out)
	return out, err
}

func (c *Client) ReflectionPrompts(ctx context.Context, req PromptsRequest) ([]string, error) {
	var out struct {
		Prompts []string `json:"prompts"`
	}
	if err := c.call(ctx, EndpointReflectionPrompts, req, &out); err != nil {
		return nil, err
	}
	prompts := make([]string, 0, len(out.Prompts))
	for _, p := range out.Prompts {
		if p = strings.TrimSpace(p); p != "" {
			prompts = append(prompts, p)
		}
	}
	if len(prompts) == 0 {
		return nil, fmt.Errorf("%w: no reflection prompts returned", ErrUnavailable)
	}
	return prompts, nil
}

func (c *Client) ReflectionInsights(ctx context.Context, req InsightsRequest) ([]string, error) {
	var out struct {
		Insights []string `json:"insights"`
		Source   string   `json:"source"`
	}
	if err := c.call(ctx, EndpointReflectionInsights, req, &out); err != nil {
		return nil, err
	}
	if len(out.Insights) == 0 {
		return nil, fmt.Errorf("%w: no insights returned", ErrUnavailable)
	}
	return out.Insights, nil
}

func (c *Client) AwardBadges(ctx context.Context, req BadgesRequest) ([]models.Badge, error) {
	var out struct {
		Badges []models.Badge `json:"badges"`
	}
	if err := c.call(ctx, EndpointAwardBadges, req, &out); err != nil {
		return nil, err
	}
	if out.Badges == nil {
		out.Badges = []models.Badge{}
	}
	return out.Badges, nil
}

// ExportPDF asks the backend to render the whole project state
func (c *Client) ExportPDF(ctx context.Context, state models.ProjectState) (PDF, error) {
	raw, status, header, err := c.send(ctx, EndpointExportPDF, state)
	if err != nil {
		return PDF{}, err
	}
	if status < 200 || status >= 300 {
		return PDF{}, &APIError{Endpoint: EndpointExportPDF, StatusCode: status, Message: errorMessage(raw)}
	}
	if ct := header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "application/pdf") && !strings.HasPrefix(ct, "application/octet-stream") {
		return PDF{}, fmt.Errorf("%w: unexpected content type %q", ErrUnavailable, ct)
	}
	return PDF{Filename: PDFFilename(state.Title), Content: raw}, nil
}

// PDFFilename returns "{title}_plan.pdf", or "project_plan.pdf" without a title
func PDFFilename(title string) string {
	title = strings.TrimSpace(title)
	title = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', '"', '\n', '\r':
			return '_'
		}
		return r
	}, title)
	if title == "" {
		title = "project"
	}
	return title + "_plan.pdf"
}
