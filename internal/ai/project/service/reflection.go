package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/Jamolkhon5/sprintkit/internal/ai/project/client"
	"github.com/Jamolkhon5/sprintkit/internal/ai/project/fallback"
	stepmodels "github.com/Jamolkhon5/sprintkit/internal/ai/project/models"
	"github.com/Jamolkhon5/sprintkit/internal/ai/project/validator"
	"github.com/Jamolkhon5/sprintkit/internal/models"
)

// DefaultTimelineAccuracy is the estimated/actual hours ratio sent for
// badges; actual hours are never collected.
const DefaultTimelineAccuracy = 1.0

// DefaultPrompts is the fixed question set used when the backend has none
func DefaultPrompts() []string {
	return []string{
		models.LegacyWentWellPrompt,
		models.LegacyWasHardPrompt,
		models.LegacyDifferentlyPrompt,
	}
}

// GenericInsights stand in when the backend cannot derive any
func GenericInsights() []string {
	return []string{
		"You thought about how you planned. That is metacognition!",
		"You worked through challenges and kept going. That is persistence.",
		"You reflected on your process, not just the result. That is how real learners think!",
	}
}

// LoadPrompts fetches reflection questions once per plan
func (pa *ProjectAssistant) LoadPrompts(ctx context.Context, s *Session) (stepmodels.PromptsResult, error) {
	act, err := s.Begin("prompts", StepReflection)
	if err != nil {
		return stepmodels.PromptsResult{}, err
	}
	defer act.Done()

	state := act.State
	if len(state.Reflection.Prompts) > 0 {
		return stepmodels.PromptsResult{Prompts: state.Reflection.Prompts, Source: SourceState}, nil
	}

	res := fallback.Operation[[]string]{
		Name: "reflection_prompts",
		Remote: func(ctx context.Context) ([]string, error) {
			return pa.backend.ReflectionPrompts(ctx, client.PromptsRequest{
				ProjectType: state.ProjectType,
				Title:       state.Title,
			})
		},
		Local:   DefaultPrompts,
		Metrics: pa.metrics,
	}.Run(ctx)

	out := stepmodels.PromptsResult{Prompts: res.Value, Source: string(res.Source)}
	err = act.Commit(func(w *Wizard) {
		if len(w.state.Reflection.Prompts) > 0 {
			out = stepmodels.PromptsResult{Prompts: append([]string{}, w.state.Reflection.Prompts...), Source: SourceState}
			return
		}
		w.Update(models.Patch{Reflection: &models.Reflection{
			Prompts: out.Prompts,
			Answers: w.state.Reflection.Answers,
		}})
	})
	if err != nil {
		return stepmodels.PromptsResult{}, err
	}
	return out, nil
}

// Feedback returns live length feedback for each prompt's answer
func (pa *ProjectAssistant) Feedback(s *Session, req stepmodels.ReflectionRequest) stepmodels.FeedbackResult {
	prompts := s.Snapshot().Reflection.Prompts
	if len(prompts) == 0 {
		prompts = DefaultPrompts()
	}
	out := stepmodels.FeedbackResult{Answers: make([]validator.Feedback, len(prompts))}
	for i := range prompts {
		var answer string
		if i < len(req.Answers) {
			answer = req.Answers[i]
		}
		out.Answers[i] = validator.Assess(answer, validator.AnswerLimits)
	}
	return out
}

// SubmitReflection handles step 6. Insights and, the first time only,
// badges are requested in parallel once every answer is long enough.
func (pa *ProjectAssistant) SubmitReflection(ctx context.Context, s *Session, req stepmodels.ReflectionRequest) (stepmodels.ReflectionResult, error) {
	act, err := s.Begin("reflection", StepReflection)
	if err != nil {
		return stepmodels.ReflectionResult{}, err
	}
	defer act.Done()

	state := act.State
	prompts := state.Reflection.Prompts
	if len(prompts) == 0 {
		prompts = DefaultPrompts()
	}

	answers := make([]string, len(prompts))
	errs := validator.Errors{}
	for i := range prompts {
		if i < len(req.Answers) {
			answers[i] = strings.TrimSpace(req.Answers[i])
		}
		errs.Add(fmt.Sprintf("answers.%d", i), validator.ValidateAnswer(answers[i]))
	}
	if err := errs.Err(); err != nil {
		return stepmodels.ReflectionResult{}, err
	}

	reflection := models.Reflection{Prompts: prompts, Answers: answers}
	needBadges := len(state.Badges) == 0

	var (
		insights fallback.Result[[]string]
		badges   = fallback.Result[[]models.Badge]{Value: state.Badges, Source: SourceState}
		g        errgroup.Group
	)
	g.Go(func() error {
		insights = fallback.Operation[[]string]{
			Name: "reflection_insights",
			Remote: func(ctx context.Context) ([]string, error) {
				return pa.backend.ReflectionInsights(ctx, client.InsightsRequest{
					Title:       state.Title,
					ProjectType: state.ProjectType,
					Reflection:  reflection,
				})
			},
			Local:   GenericInsights,
			Metrics: pa.metrics,
		}.Run(ctx)
		return nil
	})
	if needBadges {
		g.Go(func() error {
			badges = fallback.Operation[[]models.Badge]{
				Name: "award_badges",
				Remote: func(ctx context.Context) ([]models.Badge, error) {
					text, err := json.Marshal(reflection)
					if err != nil {
						return nil, err
					}
					return pa.backend.AwardBadges(ctx, client.BadgesRequest{
						ReflectionText:   string(text),
						TasksEdited:      state.TasksEdited,
						TimelineAccuracy: DefaultTimelineAccuracy,
					})
				},
				Local:   func() []models.Badge { return []models.Badge{} },
				Metrics: pa.metrics,
			}.Run(ctx)
			return nil
		})
	}
	_ = g.Wait()

	err = act.Commit(func(w *Wizard) {
		w.Advance(models.Patch{
			Reflection: &reflection,
			Insights:   &insights.Value,
			Badges:     &badges.Value,
		})
	})
	if err != nil {
		return stepmodels.ReflectionResult{}, err
	}
	return stepmodels.ReflectionResult{
		Insights: insights.Value,
		Badges:   badges.Value,
		Source:   string(insights.Source),
	}, nil
}
