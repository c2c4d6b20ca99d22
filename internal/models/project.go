package models

import (
	"strings"

	"github.com/google/uuid"
)

// TeamSize classifies how many people work on the project
type TeamSize string

const (
	TeamSolo  TeamSize = "1"
	TeamSmall TeamSize = "2-3"
	TeamLarge TeamSize = "4+"
)

// ExperienceLevel is the team's self-reported planning experience
type ExperienceLevel string

const (
	Beginner     ExperienceLevel = "beginner"
	Intermediate ExperienceLevel = "intermediate"
	Advanced     ExperienceLevel = "advanced"
)

// ProjectType is used to contextualize backend calls and export hints
type ProjectType string

const (
	TypeHardware ProjectType = "hardware"
	TypeSoftware ProjectType = "software"
	TypeCreative ProjectType = "creative"
	TypeEvent    ProjectType = "event"
	TypeResearch ProjectType = "research"
	TypeOther    ProjectType = "other"
)

// Difficulty of a single task
type Difficulty string

const (
	Easy   Difficulty = "Easy"
	Medium Difficulty = "Medium"
	Hard   Difficulty = "Hard"
)

// SoloMember is the only assignee offered when the roster is empty
const SoloMember = "Me"

func (t TeamSize) Valid() bool {
	switch t {
	case TeamSolo, TeamSmall, TeamLarge:
		return true
	}
	return false
}

func (e ExperienceLevel) Valid() bool {
	switch e {
	case Beginner, Intermediate, Advanced:
		return true
	}
	return false
}

func (p ProjectType) Valid() bool {
	switch p {
	case TypeHardware, TypeSoftware, TypeCreative, TypeEvent, TypeResearch, TypeOther:
		return true
	}
	return false
}

// ParseDifficulty accepts any casing and falls back to Medium
func ParseDifficulty(s string) Difficulty {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy":
		return Easy
	case "hard":
		return Hard
	default:
		return Medium
	}
}

// Task is one unit of work. ID is stable for the lifetime of the task,
// so assignments survive reordering and deletion of other tasks.
type Task struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Hours      int        `json:"hours"`
	Difficulty Difficulty `json:"difficulty"`
	AssignedTo string     `json:"assigned_to"`
}

// NewTaskID returns a fresh stable task identifier
func NewTaskID() string {
	return uuid.NewString()
}

type Goals struct {
	Goal            string `json:"goal"`
	SuccessCriteria string `json:"success_criteria"`
}

type Timeline struct {
	Deadline       string  `json:"deadline"`
	TotalHours     float64 `json:"total_hours"`
	AvailableHours float64 `json:"available_hours"`
}

// Reflection keeps answers index-aligned with prompts
type Reflection struct {
	Prompts []string `json:"prompts"`
	Answers []string `json:"answers"`
}

// Answer returns the answer for prompt i and whether one was given
func (r Reflection) Answer(i int) (string, bool) {
	if i < 0 || i >= len(r.Answers) {
		return "", false
	}
	a := strings.TrimSpace(r.Answers[i])
	return a, a != ""
}

type Badge struct {
	Emoji  string `json:"emoji,omitempty"`
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// ProjectState is the single record the wizard builds up step by step
type ProjectState struct {
	Title           string            `json:"title"`
	Description     string            `json:"description"`
	TeamSize        TeamSize          `json:"team_size"`
	ExperienceLevel ExperienceLevel   `json:"experience_level"`
	ProjectType     ProjectType       `json:"project_type"`
	BrainstormIdeas []string          `json:"brainstormIdeas"`
	Goals           Goals             `json:"goals"`
	Tasks           []Task            `json:"tasks"`
	TasksEdited     bool              `json:"tasksEdited"`
	TeamMembers     []string          `json:"teamMembers"`
	Assignments     map[string]string `json:"assignments"` // task id -> member
	Timeline        Timeline          `json:"timeline"`
	Reflection      Reflection        `json:"reflection"`
	Insights        []string          `json:"insights"`
	Badges          []Badge           `json:"badges"`
}

// NewProjectState returns the documented empty defaults
func NewProjectState() ProjectState {
	return ProjectState{
		TeamSize:        TeamSolo,
		ExperienceLevel: Beginner,
		ProjectType:     TypeOther,
		BrainstormIdeas: []string{},
		Tasks:           []Task{},
		TeamMembers:     []string{},
		Assignments:     map[string]string{},
		Reflection: Reflection{
			Prompts: []string{},
			Answers: []string{},
		},
		Insights: []string{},
		Badges:   []Badge{},
	}
}

// Clone returns a deep copy so callers never share slices with the wizard
func (s ProjectState) Clone() ProjectState {
	c := s
	c.BrainstormIdeas = append([]string{}, s.BrainstormIdeas...)
	c.Tasks = append([]Task{}, s.Tasks...)
	c.TeamMembers = append([]string{}, s.TeamMembers...)
	c.Assignments = make(map[string]string, len(s.Assignments))
	for k, v := range s.Assignments {
		c.Assignments[k] = v
	}
	c.Reflection = Reflection{
		Prompts: append([]string{}, s.Reflection.Prompts...),
		Answers: append([]string{}, s.Reflection.Answers...),
	}
	c.Insights = append([]string{}, s.Insights...)
	c.Badges = append([]Badge{}, s.Badges...)
	return c
}

// Roster returns the people a task can be assigned to
func (s ProjectState) Roster() []string {
	if len(s.TeamMembers) == 0 {
		return []string{SoloMember}
	}
	return s.TeamMembers
}

// TotalHours sums task hours exactly as the feasibility check sees them
func (s ProjectState) TotalHours() int {
	total := 0
	for _, t := range s.Tasks {
		total += t.Hours
	}
	return total
}

// TaskIndex returns the position of the task with the given id or -1
func (s ProjectState) TaskIndex(id string) int {
	for i, t := range s.Tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}
