package models

import (
	"github.com/Jamolkhon5/sprintkit/internal/ai/project/timeline"
	"github.com/Jamolkhon5/sprintkit/internal/ai/project/validator"
	"github.com/Jamolkhon5/sprintkit/internal/models"
)

// CreateRequest is the first form: what the project is and who works on it
type CreateRequest struct {
	Title           string                 `json:"title"`
	Description     string                 `json:"description"`
	TeamMembers     []string               `json:"teamMembers"`
	TeamSize        models.TeamSize        `json:"team_size,omitempty"`
	ExperienceLevel models.ExperienceLevel `json:"experience_level,omitempty"`
	ProjectType     models.ProjectType     `json:"project_type,omitempty"`
}

type BrainstormRequest struct {
	Ideas string `json:"ideas"`
}

type GoalsRequest struct {
	Goal            string `json:"goal"`
	SuccessCriteria string `json:"success_criteria"`
}

// TaskRequest adds a task. Hours may arrive as a number or a numeric string.
type TaskRequest struct {
	Name       string       `json:"name"`
	Hours      models.Hours `json:"hours"`
	Difficulty string       `json:"difficulty"`
}

// TaskUpdate edits a task; nil fields are left alone
type TaskUpdate struct {
	Name       *string       `json:"name,omitempty"`
	Hours      *models.Hours `json:"hours,omitempty"`
	Difficulty *string       `json:"difficulty,omitempty"`
}

// SubmitTasksRequest optionally replaces the task list before submitting
type SubmitTasksRequest struct {
	Tasks *[]models.Task `json:"tasks,omitempty"`
}

type TimelineRequest struct {
	Deadline string `json:"deadline"`
}

// AssignRequest maps task id to team member
type AssignRequest struct {
	Deadline    string            `json:"deadline,omitempty"`
	Assignments map[string]string `json:"assignments"`
}

type ReflectionRequest struct {
	Answers []string `json:"answers"`
}

// StepResult is returned by every step submission
type StepResult struct {
	Warning string `json:"warning,omitempty"`
	Hint    string `json:"hint,omitempty"`
}

type TasksResult struct {
	Tasks   []models.Task `json:"tasks"`
	Source  string        `json:"source"`
	Warning string        `json:"warning,omitempty"`
}

type TimelineResult struct {
	Feasibility timeline.Feasibility `json:"feasibility"`
	Source      string               `json:"source"`
}

type BalanceResult struct {
	Balanced   bool   `json:"balanced"`
	Warning    string `json:"warning,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

type PromptsResult struct {
	Prompts []string `json:"prompts"`
	Source  string   `json:"source"`
}

type FeedbackResult struct {
	Answers []validator.Feedback `json:"answers"`
}

type ReflectionResult struct {
	Insights []string       `json:"insights"`
	Badges   []models.Badge `json:"badges"`
	Source   string         `json:"source"`
}

type ExportText struct {
	Text string `json:"text"`
	Hint string `json:"hint"`
}
