package service

import (
	"context"
	"fmt"

	"github.com/Jamolkhon5/sprintkit/internal/ai/project/client"
	"github.com/Jamolkhon5/sprintkit/internal/ai/project/fallback"
	stepmodels "github.com/Jamolkhon5/sprintkit/internal/ai/project/models"
	"github.com/Jamolkhon5/sprintkit/internal/ai/project/validator"
	"github.com/Jamolkhon5/sprintkit/internal/models"
)

const (
	BreakdownFailedMessage = "Could not generate tasks. Add your own tasks below."
	NoTasksMessage         = "Add at least one task"

	// SourceState marks results that were already in the plan
	SourceState = "state"
)

// GenerateTasks asks the backend for a task breakdown. It only does so
// while the task list is empty; otherwise the current tasks are returned.
func (pa *ProjectAssistant) GenerateTasks(ctx context.Context, s *Session) (stepmodels.TasksResult, error) {
	act, err := s.Begin("generate", StepTasks)
	if err != nil {
		return stepmodels.TasksResult{}, err
	}
	defer act.Done()

	state := act.State
	if len(state.Tasks) > 0 {
		return stepmodels.TasksResult{Tasks: state.Tasks, Source: SourceState}, nil
	}

	res := fallback.Operation[[]models.Task]{
		Name: "break_down",
		Remote: func(ctx context.Context) ([]models.Task, error) {
			b, err := pa.backend.BreakDown(ctx, client.BreakdownRequest{
				Title:           state.Title,
				Description:     state.Description,
				Goal:            state.Goals.Goal,
				ProjectType:     state.ProjectType,
				ExperienceLevel: state.ExperienceLevel,
				TeamSize:        state.TeamSize,
			})
			if err != nil {
				return nil, err
			}
			if len(b.Tasks) == 0 {
				return nil, fmt.Errorf("%w: empty task breakdown", client.ErrUnavailable)
			}
			tasks := make([]models.Task, 0, len(b.Tasks))
			for _, t := range b.Tasks {
				tasks = append(tasks, t.ToTask())
			}
			return tasks, nil
		},
		Local:   func() []models.Task { return []models.Task{} },
		Metrics: pa.metrics,
	}.Run(ctx)

	out := stepmodels.TasksResult{Tasks: res.Value, Source: string(res.Source)}
	if !res.FromRemote() {
		out.Warning = BreakdownFailedMessage
		return out, nil
	}

	err = act.Commit(func(w *Wizard) {
		// the student may have started typing tasks meanwhile
		if len(w.state.Tasks) > 0 {
			out.Tasks = append([]models.Task{}, w.state.Tasks...)
			out.Source = SourceState
			return
		}
		w.Update(models.Patch{Tasks: &out.Tasks, TasksEdited: models.Ptr(false)})
	})
	if err != nil {
		return stepmodels.TasksResult{}, err
	}
	return out, nil
}

// AddTask appends a manually entered task
func (pa *ProjectAssistant) AddTask(s *Session, req stepmodels.TaskRequest) (models.Task, error) {
	task := models.NormalizeTask(models.Task{
		Name:       req.Name,
		Hours:      int(req.Hours),
		Difficulty: models.Difficulty(req.Difficulty),
	})
	err := s.Apply(StepTasks, func(w *Wizard) error {
		w.state.Tasks = append(w.state.Tasks, task)
		w.state.TasksEdited = true
		return nil
	})
	if err != nil {
		return models.Task{}, err
	}
	return task, nil
}

// EditTask changes the given fields of one task
func (pa *ProjectAssistant) EditTask(s *Session, id string, req stepmodels.TaskUpdate) (models.Task, error) {
	var task models.Task
	err := s.Apply(StepTasks, func(w *Wizard) error {
		i := w.state.TaskIndex(id)
		if i < 0 {
			return fmt.Errorf("%w: %s", ErrTaskNotFound, id)
		}
		t := w.state.Tasks[i]
		if req.Name != nil {
			t.Name = *req.Name
		}
		if req.Hours != nil {
			t.Hours = int(*req.Hours)
		}
		if req.Difficulty != nil {
			t.Difficulty = models.Difficulty(*req.Difficulty)
		}
		task = models.NormalizeTask(t)
		w.state.Tasks[i] = task
		w.state.TasksEdited = true
		return nil
	})
	return task, err
}

// DeleteTask removes a task and its assignment
func (pa *ProjectAssistant) DeleteTask(s *Session, id string) error {
	return s.Apply(StepTasks, func(w *Wizard) error {
		i := w.state.TaskIndex(id)
		if i < 0 {
			return fmt.Errorf("%w: %s", ErrTaskNotFound, id)
		}
		w.state.Tasks = append(w.state.Tasks[:i], w.state.Tasks[i+1:]...)
		delete(w.state.Assignments, id)
		w.state.TasksEdited = true
		return nil
	})
}

// SubmitTasks handles step 4. Tasks are normalized and at least one is required.
func (pa *ProjectAssistant) SubmitTasks(s *Session, req stepmodels.SubmitTasksRequest) (stepmodels.StepResult, error) {
	err := s.Apply(StepTasks, func(w *Wizard) error {
		current := w.state.Tasks
		edited := w.state.TasksEdited
		if req.Tasks != nil {
			current = *req.Tasks
			edited = true
		}
		if len(current) == 0 {
			return validator.General(NoTasksMessage)
		}

		tasks := make([]models.Task, 0, len(current))
		for _, t := range current {
			tasks = append(tasks, models.NormalizeTask(t))
		}
		assignments := make(map[string]string, len(w.state.Assignments))
		for _, t := range tasks {
			if who, ok := w.state.Assignments[t.ID]; ok {
				assignments[t.ID] = who
			}
		}
		w.Advance(models.Patch{
			Tasks:       &tasks,
			TasksEdited: &edited,
			Assignments: &assignments,
		})
		return nil
	})
	return stepmodels.StepResult{}, err
}
