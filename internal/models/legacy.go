package models

import (
	"bytes"
	"math"
	"strconv"
	"strings"
)

// Hours decodes task hours sent either as a JSON number or a numeric string.
// Anything unparsable decodes to zero and is defaulted later.
type Hours int

func (h *Hours) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*h = 0
		return nil
	}
	s := strings.Trim(string(b), `"`)
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		*h = 0
		return nil
	}
	*h = Hours(int(f))
	return nil
}

// Questions used when a legacy reflection is migrated to prompts and answers
const (
	LegacyWentWellPrompt    = "What went well in your planning?"
	LegacyWasHardPrompt     = "What was hard to plan?"
	LegacyDifferentlyPrompt = "What would you do differently next time you plan?"
	LegacyLearnedPrompt     = "What did you learn?"
)

// LegacyTask is a task as older clients stored it
type LegacyTask struct {
	Task       string `json:"task"`
	Name       string `json:"name"`
	Hours      Hours  `json:"hours"`
	Difficulty string `json:"difficulty"`
	AssignedTo string `json:"assigned_to"`
}

type LegacyReflection struct {
	Prompts     []string `json:"prompts"`
	Answers     []string `json:"answers"`
	WentWell    string   `json:"went_well"`
	WasHard     string   `json:"was_hard"`
	Differently string   `json:"differently"`
	Learned     string   `json:"learned"`
}

type LegacyGoals struct {
	Goal            string `json:"goal"`
	Criteria        string `json:"criteria"`
	SuccessCriteria string `json:"successCriteria"`
}

// LegacyState is the saved-state shape of older clients: index-keyed
// assignments, tasks without ids, and a four-field reflection.
type LegacyState struct {
	Title           string            `json:"title"`
	Description     string            `json:"description"`
	TeamSize        TeamSize          `json:"team_size"`
	ExperienceLevel ExperienceLevel   `json:"experience_level"`
	ProjectType     ProjectType       `json:"project_type"`
	BrainstormIdeas []string          `json:"brainstormIdeas"`
	Goals           LegacyGoals       `json:"goals"`
	Tasks           []LegacyTask      `json:"tasks"`
	TasksEdited     bool              `json:"tasksEdited"`
	TeamMembers     []string          `json:"teamMembers"`
	Assignments     map[string]string `json:"assignments"`
	Timeline        Timeline          `json:"timeline"`
	Reflection      LegacyReflection  `json:"reflection"`
	Insights        []string          `json:"insights"`
	Badges          []Badge           `json:"badges"`
}

// Migrate converts a legacy record into the current ProjectState
func (l LegacyState) Migrate() ProjectState {
	s := NewProjectState()
	s.Title = l.Title
	s.Description = l.Description
	if l.TeamSize.Valid() {
		s.TeamSize = l.TeamSize
	}
	if l.ExperienceLevel.Valid() {
		s.ExperienceLevel = l.ExperienceLevel
	}
	if l.ProjectType.Valid() {
		s.ProjectType = l.ProjectType
	}
	s.BrainstormIdeas = append(s.BrainstormIdeas, l.BrainstormIdeas...)
	s.Goals = Goals{Goal: l.Goals.Goal, SuccessCriteria: l.Goals.SuccessCriteria}
	if s.Goals.SuccessCriteria == "" {
		s.Goals.SuccessCriteria = l.Goals.Criteria
	}
	s.TasksEdited = l.TasksEdited
	s.TeamMembers = append(s.TeamMembers, l.TeamMembers...)
	s.Timeline = l.Timeline

	for i, lt := range l.Tasks {
		name := lt.Name
		if name == "" {
			name = lt.Task
		}
		t := NormalizeTask(Task{
			Name:       name,
			Hours:      int(lt.Hours),
			Difficulty: ParseDifficulty(lt.Difficulty),
			AssignedTo: lt.AssignedTo,
		})
		// index keys only mean something while the order is intact
		if who, ok := l.Assignments[strconv.Itoa(i)]; ok && who != "" {
			s.Assignments[t.ID] = who
			t.AssignedTo = who
		} else if t.AssignedTo != "" {
			s.Assignments[t.ID] = t.AssignedTo
		}
		s.Tasks = append(s.Tasks, t)
	}

	s.Reflection = l.Reflection.migrate()
	s.Insights = append(s.Insights, l.Insights...)
	s.Badges = append(s.Badges, l.Badges...)
	return s
}

func (r LegacyReflection) migrate() Reflection {
	if len(r.Prompts) > 0 {
		return Reflection{
			Prompts: append([]string{}, r.Prompts...),
			Answers: append([]string{}, r.Answers...),
		}
	}
	out := Reflection{Prompts: []string{}, Answers: []string{}}
	if blank(r.WentWell) && blank(r.WasHard) && blank(r.Differently) && blank(r.Learned) {
		return out
	}
	// the three core questions always appear so export can mark missing answers
	out.Prompts = append(out.Prompts, LegacyWentWellPrompt, LegacyWasHardPrompt, LegacyDifferentlyPrompt)
	out.Answers = append(out.Answers, r.WentWell, r.WasHard, r.Differently)
	if !blank(r.Learned) {
		out.Prompts = append(out.Prompts, LegacyLearnedPrompt)
		out.Answers = append(out.Answers, r.Learned)
	}
	return out
}

// NormalizeTask applies the submit-time defaults and assigns an id if missing
func NormalizeTask(t Task) Task {
	t.Name = strings.TrimSpace(t.Name)
	if t.Name == "" {
		t.Name = "Unnamed Task"
	}
	if t.Hours < 1 {
		t.Hours = 1
	}
	if t.Difficulty == "" {
		t.Difficulty = Medium
	} else {
		t.Difficulty = ParseDifficulty(string(t.Difficulty))
	}
	if t.ID == "" {
		t.ID = NewTaskID()
	}
	return t
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
