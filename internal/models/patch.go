package models

// Patch is a partial update. Only non-nil fields are merged into the state.
type Patch struct {
	Title           *string            `json:"title,omitempty"`
	Description     *string            `json:"description,omitempty"`
	TeamSize        *TeamSize          `json:"team_size,omitempty"`
	ExperienceLevel *ExperienceLevel   `json:"experience_level,omitempty"`
	ProjectType     *ProjectType       `json:"project_type,omitempty"`
	BrainstormIdeas *[]string          `json:"brainstormIdeas,omitempty"`
	Goals           *Goals             `json:"goals,omitempty"`
	Tasks           *[]Task            `json:"tasks,omitempty"`
	TasksEdited     *bool              `json:"tasksEdited,omitempty"`
	TeamMembers     *[]string          `json:"teamMembers,omitempty"`
	Assignments     *map[string]string `json:"assignments,omitempty"`
	Timeline        *Timeline          `json:"timeline,omitempty"`
	Reflection      *Reflection        `json:"reflection,omitempty"`
	Insights        *[]string          `json:"insights,omitempty"`
	Badges          *[]Badge           `json:"badges,omitempty"`
}

// Ptr is a helper for building patches from literals
func Ptr[T any](v T) *T {
	return &v
}

// Apply merges the patch into s. Slices and maps are copied so the
// patch can be reused by the caller.
func (p Patch) Apply(s *ProjectState) {
	if p.Title != nil {
		s.Title = *p.Title
	}
	if p.Description != nil {
		s.Description = *p.Description
	}
	if p.TeamSize != nil {
		s.TeamSize = *p.TeamSize
	}
	if p.ExperienceLevel != nil {
		s.ExperienceLevel = *p.ExperienceLevel
	}
	if p.ProjectType != nil {
		s.ProjectType = *p.ProjectType
	}
	if p.BrainstormIdeas != nil {
		s.BrainstormIdeas = append([]string{}, (*p.BrainstormIdeas)...)
	}
	if p.Goals != nil {
		s.Goals = *p.Goals
	}
	if p.Tasks != nil {
		s.Tasks = append([]Task{}, (*p.Tasks)...)
	}
	if p.TasksEdited != nil {
		s.TasksEdited = *p.TasksEdited
	}
	if p.TeamMembers != nil {
		s.TeamMembers = append([]string{}, (*p.TeamMembers)...)
	}
	if p.Assignments != nil {
		s.Assignments = make(map[string]string, len(*p.Assignments))
		for k, v := range *p.Assignments {
			s.Assignments[k] = v
		}
	}
	if p.Timeline != nil {
		s.Timeline = *p.Timeline
	}
	if p.Reflection != nil {
		s.Reflection = Reflection{
			Prompts: append([]string{}, p.Reflection.Prompts...),
			Answers: append([]string{}, p.Reflection.Answers...),
		}
	}
	if p.Insights != nil {
		s.Insights = append([]string{}, (*p.Insights)...)
	}
	if p.Badges != nil {
		s.Badges = append([]Badge{}, (*p.Badges)...)
	}
}
