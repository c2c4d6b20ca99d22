package service

import (
	"context"
	"errors"
	"strings"

	"github.com/Jamolkhon5/sprintkit/internal/ai/project/client"
	"github.com/Jamolkhon5/sprintkit/internal/ai/project/fallback"
	stepmodels "github.com/Jamolkhon5/sprintkit/internal/ai/project/models"
	"github.com/Jamolkhon5/sprintkit/internal/ai/project/validator"
	"github.com/Jamolkhon5/sprintkit/internal/models"
)

const VagueProjectMessage = "Hmm, that project description is too vague. Tell us more!"

// Create handles step 1: title, description, roster and classification
func (pa *ProjectAssistant) Create(ctx context.Context, s *Session, req stepmodels.CreateRequest) (stepmodels.StepResult, error) {
	title := strings.TrimSpace(req.Title)
	description := strings.TrimSpace(req.Description)

	errs := validator.Errors{}
	errs.Add("title", validator.ValidateTitle(title))
	errs.Add("description", validator.ValidateDescription(description))
	if req.TeamSize != "" && !req.TeamSize.Valid() {
		errs.Add("team_size", errors.New("Pick 1, 2-3 or 4+"))
	}
	if req.ExperienceLevel != "" && !req.ExperienceLevel.Valid() {
		errs.Add("experience_level", errors.New("Pick beginner, intermediate or advanced"))
	}
	if req.ProjectType != "" && !req.ProjectType.Valid() {
		errs.Add("project_type", errors.New("Unknown project type"))
	}
	if err := errs.Err(); err != nil {
		return stepmodels.StepResult{}, err
	}
	if err := validator.CheckScope(title, description); err != nil {
		return stepmodels.StepResult{}, err
	}

	act, err := s.Begin("create", StepCreate)
	if err != nil {
		return stepmodels.StepResult{}, err
	}
	defer act.Done()

	verdict := fallback.Operation[client.ProjectValidation]{
		Name: "validate_project",
		Remote: func(ctx context.Context) (client.ProjectValidation, error) {
			v, err := pa.backend.ValidateProject(ctx, title, description)
			if msg, ok := rejection(err); ok {
				return client.ProjectValidation{Valid: false, Error: msg}, nil
			}
			return v, err
		},
		// an unreachable backend cannot veto what passed local checks
		Local:   func() client.ProjectValidation { return client.ProjectValidation{Valid: true} },
		Metrics: pa.metrics,
	}.Run(ctx)

	if !verdict.Value.Valid {
		msg := verdict.Value.Error
		if msg == "" {
			msg = VagueProjectMessage
		}
		return stepmodels.StepResult{}, validator.General(msg)
	}

	projectType := req.ProjectType
	if projectType == "" {
		projectType = pa.detectType(ctx, title, description)
	}

	roster := Roster(req.TeamMembers)
	teamSize := req.TeamSize
	if teamSize == "" {
		teamSize = TeamSizeFor(roster)
	}
	experience := req.ExperienceLevel
	if experience == "" {
		experience = act.State.ExperienceLevel
	}

	patch := models.Patch{
		Title:           &title,
		Description:     &description,
		TeamMembers:     &roster,
		TeamSize:        &teamSize,
		ExperienceLevel: &experience,
		ProjectType:     &projectType,
	}
	if err := act.Commit(func(w *Wizard) { w.Advance(patch) }); err != nil {
		return stepmodels.StepResult{}, err
	}
	return stepmodels.StepResult{Warning: verdict.Value.Warning}, nil
}

func (pa *ProjectAssistant) detectType(ctx context.Context, title, description string) models.ProjectType {
	return fallback.Operation[models.ProjectType]{
		Name: "detect_type",
		Remote: func(ctx context.Context) (models.ProjectType, error) {
			d, err := pa.backend.DetectType(ctx, title, description)
			return d.Type, err
		},
		Local:   func() models.ProjectType { return pa.detector.Detect(title, description) },
		Metrics: pa.metrics,
	}.Run(ctx).Value
}

// Roster trims names and drops blanks. Duplicates are kept on purpose:
// two students may share a name.
func Roster(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			out = append(out, n)
		}
	}
	return out
}

// TeamSizeFor derives the size bucket from a roster
func TeamSizeFor(roster []string) models.TeamSize {
	switch n := len(roster); {
	case n <= 1:
		return models.TeamSolo
	case n <= 3:
		return models.TeamSmall
	default:
		return models.TeamLarge
	}
}
