package service

import (
	"context"
	"strings"

	"github.com/Jamolkhon5/sprintkit/internal/ai/project/client"
	"github.com/Jamolkhon5/sprintkit/internal/ai/project/fallback"
	stepmodels "github.com/Jamolkhon5/sprintkit/internal/ai/project/models"
	"github.com/Jamolkhon5/sprintkit/internal/ai/project/validator"
	"github.com/Jamolkhon5/sprintkit/internal/models"
)

const VagueCriteriaMessage = "How will you know it worked? Make your success criteria something you can check."

// SplitIdeas splits brainstorm text into trimmed, non-empty lines
func SplitIdeas(text string) []string {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	ideas := make([]string, 0, len(lines))
	for _, l := range lines {
		if l = strings.TrimSpace(l); l != "" {
			ideas = append(ideas, l)
		}
	}
	return ideas
}

// Brainstorm handles step 2
func (pa *ProjectAssistant) Brainstorm(s *Session, req stepmodels.BrainstormRequest) (stepmodels.StepResult, error) {
	errs := validator.Errors{}
	errs.Add("ideas", validator.ValidateBrainstorm(req.Ideas))
	if err := errs.Err(); err != nil {
		return stepmodels.StepResult{}, err
	}
	ideas := SplitIdeas(req.Ideas)
	if len(ideas) == 0 {
		return stepmodels.StepResult{}, &validator.ValidationError{Fields: map[string]string{"ideas": "Please write down some ideas!"}}
	}

	err := s.Apply(StepBrainstorm, func(w *Wizard) error {
		w.Advance(models.Patch{BrainstormIdeas: &ideas})
		return nil
	})
	if err != nil {
		return stepmodels.StepResult{}, err
	}

	var res stepmodels.StepResult
	if fb := validator.Assess(req.Ideas, validator.BrainstormLimits); fb.Level == validator.LevelEncourage {
		res.Hint = fb.Message
	}
	return res, nil
}

// SetGoals handles step 3. Criteria are optional, but when given they are
// checked locally and by the backend.
func (pa *ProjectAssistant) SetGoals(ctx context.Context, s *Session, req stepmodels.GoalsRequest) (stepmodels.StepResult, error) {
	goal := strings.TrimSpace(req.Goal)
	criteria := strings.TrimSpace(req.SuccessCriteria)

	errs := validator.Errors{}
	errs.Add("goal", validator.ValidateGoal(goal))
	if criteria != "" {
		errs.Add("success_criteria", validator.ValidateCriteria(criteria))
	}
	if err := errs.Err(); err != nil {
		return stepmodels.StepResult{}, err
	}

	act, err := s.Begin("goals", StepGoals)
	if err != nil {
		return stepmodels.StepResult{}, err
	}
	defer act.Done()

	var warning string
	if criteria != "" {
		verdict := fallback.Operation[client.ProjectValidation]{
			Name: "validate_criteria",
			Remote: func(ctx context.Context) (client.ProjectValidation, error) {
				v, err := pa.backend.ValidateCriteria(ctx, criteria)
				if msg, ok := rejection(err); ok {
					return client.ProjectValidation{Valid: false, Error: msg}, nil
				}
				return v, err
			},
			Local:   func() client.ProjectValidation { return client.ProjectValidation{Valid: true} },
			Metrics: pa.metrics,
		}.Run(ctx)
		if !verdict.Value.Valid {
			msg := verdict.Value.Error
			if msg == "" {
				msg = VagueCriteriaMessage
			}
			return stepmodels.StepResult{}, &validator.ValidationError{Fields: map[string]string{"success_criteria": msg}}
		}
		warning = verdict.Value.Warning
	}

	goals := models.Goals{Goal: goal, SuccessCriteria: criteria}
	if err := act.Commit(func(w *Wizard) { w.Advance(models.Patch{Goals: &goals}) }); err != nil {
		return stepmodels.StepResult{}, err
	}
	return stepmodels.StepResult{Warning: warning}, nil
}
