package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/Jamolkhon5/sprintkit/internal/ai/project/client"
	"github.com/Jamolkhon5/sprintkit/internal/ai/project/fallback"
	stepmodels "github.com/Jamolkhon5/sprintkit/internal/ai/project/models"
	"github.com/Jamolkhon5/sprintkit/internal/ai/project/timeline"
	"github.com/Jamolkhon5/sprintkit/internal/ai/project/validator"
	"github.com/Jamolkhon5/sprintkit/internal/models"
)

const (
	NoTasksToAssignMessage = "No tasks to assign! Please go back and add tasks."
	UnassignedMessage      = "Please assign all tasks to team members!"
	NotOnTeamMessage       = "Pick someone from your team"
	PickDeadlineMessage    = "Pick a deadline"

	// BalanceRatio: unbalanced when the busiest member has more than this
	// many times the tasks of the least busy one
	BalanceRatio = 1.5
)

// CheckTimeline classifies the current tasks against deadline. A newer
// check cancels an older one; the older returns ErrSuperseded.
func (pa *ProjectAssistant) CheckTimeline(ctx context.Context, s *Session, req stepmodels.TimelineRequest) (stepmodels.TimelineResult, error) {
	deadline := strings.TrimSpace(req.Deadline)
	days, err := pa.deadlineDays(deadline)
	if err != nil {
		return stepmodels.TimelineResult{}, err
	}

	act, checkCtx, err := s.BeginTimeline(ctx)
	if err != nil {
		return stepmodels.TimelineResult{}, err
	}
	defer act.Done()

	state := act.State
	if len(state.Tasks) == 0 {
		return stepmodels.TimelineResult{}, validator.General(NoTasksToAssignMessage)
	}
	local := timeline.Classify(timeline.SumHours(state.Tasks), days, pa.calc.HoursPerDay)

	res := fallback.Operation[timeline.Feasibility]{
		Name: "estimate_timeline",
		Remote: func(ctx context.Context) (timeline.Feasibility, error) {
			f, err := pa.backend.EstimateTimeline(ctx, client.EstimateRequest{
				Tasks:           state.Tasks,
				DeadlineDays:    days,
				ExperienceLevel: state.ExperienceLevel,
				TeamSize:        state.TeamSize,
			})
			if err != nil {
				return f, err
			}
			return timeline.Merge(f, local), nil
		},
		Local:   func() timeline.Feasibility { return local },
		Metrics: pa.metrics,
	}.Run(checkCtx)

	f := res.Value
	err = act.CommitFeasibility(f, func(w *Wizard) {
		w.Update(models.Patch{Timeline: &models.Timeline{
			Deadline:       deadline,
			TotalHours:     f.TotalHours,
			AvailableHours: f.AvailableHours,
		}})
	})
	if err != nil {
		return stepmodels.TimelineResult{}, err
	}
	return stepmodels.TimelineResult{Feasibility: f, Source: string(res.Source)}, nil
}

func (pa *ProjectAssistant) deadlineDays(deadline string) (int, error) {
	if deadline == "" {
		return 0, &validator.ValidationError{Fields: map[string]string{"deadline": PickDeadlineMessage}}
	}
	days, err := pa.calc.Days(deadline)
	if err != nil {
		return 0, &validator.ValidationError{Fields: map[string]string{"deadline": err.Error()}}
	}
	return days, nil
}

// SubmitAssignments handles step 5. Every task must be assigned to someone
// on the roster ("Me" when working solo). Team balance is advisory only.
func (pa *ProjectAssistant) SubmitAssignments(ctx context.Context, s *Session, req stepmodels.AssignRequest) (stepmodels.StepResult, error) {
	act, err := s.Begin("assign", StepAssign)
	if err != nil {
		return stepmodels.StepResult{}, err
	}
	defer act.Done()

	state := act.State
	assignments, err := CheckAssignments(state, req.Assignments)
	if err != nil {
		return stepmodels.StepResult{}, err
	}

	tl := state.Timeline
	deadline := strings.TrimSpace(req.Deadline)
	if deadline != "" {
		days, err := pa.deadlineDays(deadline)
		if err != nil {
			return stepmodels.StepResult{}, err
		}
		tl.Deadline = deadline
		tl.AvailableHours = float64(days) * pa.calc.HoursPerDay
	}
	tl.TotalHours = timeline.SumHours(state.Tasks)

	tasks := make([]models.Task, len(state.Tasks))
	for i, t := range state.Tasks {
		t.AssignedTo = assignments[t.ID]
		tasks[i] = t
	}

	balance := client.TeamBalance{Balanced: true}
	if len(state.TeamMembers) > 1 {
		balance = fallback.Operation[client.TeamBalance]{
			Name: "team_balance",
			Remote: func(ctx context.Context) (client.TeamBalance, error) {
				return pa.backend.ValidateTeamBalance(ctx, assignments)
			},
			Local:   func() client.TeamBalance { return LocalBalance(assignments) },
			Metrics: pa.metrics,
		}.Run(ctx).Value
	}

	err = act.Commit(func(w *Wizard) {
		w.Advance(models.Patch{
			Tasks:       &tasks,
			Assignments: &assignments,
			Timeline:    &tl,
		})
	})
	if err != nil {
		return stepmodels.StepResult{}, err
	}
	return stepmodels.StepResult{Warning: balance.Warning, Hint: balance.Suggestion}, nil
}

// CheckAssignments validates that every task id maps to a roster member.
// When proposed is nil the assignments already in state are checked.
// Entries for unknown task ids are dropped.
func CheckAssignments(state models.ProjectState, proposed map[string]string) (map[string]string, error) {
	if len(state.Tasks) == 0 {
		return nil, validator.General(NoTasksToAssignMessage)
	}
	if proposed == nil {
		proposed = state.Assignments
	}

	roster := make(map[string]struct{})
	for _, m := range state.Roster() {
		roster[m] = struct{}{}
	}

	out := make(map[string]string, len(state.Tasks))
	errs := validator.Errors{}
	missing := false
	for _, t := range state.Tasks {
		who := strings.TrimSpace(proposed[t.ID])
		if who == "" {
			missing = true
			continue
		}
		if _, ok := roster[who]; !ok {
			errs.Add(fmt.Sprintf("assignments.%s", t.ID), errors.New(NotOnTeamMessage))
			continue
		}
		out[t.ID] = who
	}
	if missing {
		return nil, validator.General(UnassignedMessage)
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// LocalBalance counts tasks per person and flags the plan when the busiest
// person has more than BalanceRatio times the work of the least busy one.
func LocalBalance(assignments map[string]string) client.TeamBalance {
	counts := make(map[string]int)
	for _, who := range assignments {
		counts[who]++
	}
	if len(counts) == 0 {
		return client.TeamBalance{Balanced: true}
	}

	people := make([]string, 0, len(counts))
	for p := range counts {
		people = append(people, p)
	}
	sort.Strings(people)

	busiest := people[0]
	least := counts[people[0]]
	for _, p := range people[1:] {
		if counts[p] > counts[busiest] {
			busiest = p
		}
		if counts[p] < least {
			least = counts[p]
		}
	}

	if float64(counts[busiest]) > float64(least)*BalanceRatio {
		return client.TeamBalance{
			Balanced:   false,
			Warning:    fmt.Sprintf("%s has way more tasks. Is that fair?", busiest),
			Suggestion: "Try moving tasks around so everyone has similar work.",
		}
	}
	return client.TeamBalance{Balanced: true}
}
