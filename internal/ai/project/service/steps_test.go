package service

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jamolkhon5/sprintkit/internal/ai/project/client"
	stepmodels "github.com/Jamolkhon5/sprintkit/internal/ai/project/models"
	"github.com/Jamolkhon5/sprintkit/internal/ai/project/timeline"
	"github.com/Jamolkhon5/sprintkit/internal/ai/project/validator"
	"github.com/Jamolkhon5/sprintkit/internal/models"
)

func validationErr(t *testing.T, err error) *validator.ValidationError {
	t.Helper()
	var ve *validator.ValidationError
	require.ErrorAs(t, err, &ve)
	return ve
}

func validCreate() stepmodels.CreateRequest {
	return stepmodels.CreateRequest{
		Title:       "Tennis Ball Robot",
		Description: "A robot that collects tennis balls after practice",
		TeamMembers: []string{" Alex ", "", "Sam", "Alex"},
	}
}

func TestCreateLocalValidation(t *testing.T) {
	pa := newAssistant(&fakeBackend{})
	s := newTestSession()

	_, err := pa.Create(context.Background(), s, stepmodels.CreateRequest{Title: "ab", Description: "short"})
	ve := validationErr(t, err)
	assert.Contains(t, ve.Fields, "title")
	assert.Contains(t, ve.Fields, "description")
	assert.Equal(t, StepCreate, s.Step(), "failed validation never advances")
}

func TestCreateOutOfScope(t *testing.T) {
	pa := newAssistant(&fakeBackend{})
	s := newTestSession()

	req := validCreate()
	req.Description = "Please write my history essay for tomorrow"
	_, err := pa.Create(context.Background(), s, req)
	ve := validationErr(t, err)
	assert.Equal(t, validator.OutOfScopeMessage, ve.General)
}

func TestCreateBackendRejectionBlocks(t *testing.T) {
	for name, b := range map[string]*fakeBackend{
		"valid false": {validateProject: func(context.Context, string, string) (client.ProjectValidation, error) {
			return client.ProjectValidation{Valid: false, Error: "Tell us more about your project!"}, nil
		}},
		"4xx": {validateProject: func(context.Context, string, string) (client.ProjectValidation, error) {
			return client.ProjectValidation{}, &client.APIError{StatusCode: http.StatusBadRequest, Message: "Tell us more about your project!"}
		}},
	} {
		t.Run(name, func(t *testing.T) {
			pa := newAssistant(b)
			s := newTestSession()

			_, err := pa.Create(context.Background(), s, validCreate())
			ve := validationErr(t, err)
			assert.Equal(t, "Tell us more about your project!", ve.General)
			assert.Equal(t, StepCreate, s.Step())
		})
	}
}

func TestCreateBackendDownPasses(t *testing.T) {
	pa := newAssistant(&fakeBackend{})
	s := newTestSession()

	_, err := pa.Create(context.Background(), s, validCreate())
	require.NoError(t, err)

	st := s.Snapshot()
	assert.Equal(t, StepBrainstorm, s.Step())
	assert.Equal(t, []string{"Alex", "Sam", "Alex"}, st.TeamMembers)
	assert.Equal(t, models.TeamSmall, st.TeamSize)
	assert.Equal(t, models.Beginner, st.ExperienceLevel)
	assert.Equal(t, models.TypeHardware, st.ProjectType, "keyword detector kicks in")
}

func TestCreateUsesRemoteTypeAndWarning(t *testing.T) {
	pa := newAssistant(&fakeBackend{
		validateProject: func(context.Context, string, string) (client.ProjectValidation, error) {
			return client.ProjectValidation{Valid: true, Warning: "Sounds big!"}, nil
		},
		detectType: func(context.Context, string, string) (client.TypeDetection, error) {
			return client.TypeDetection{Type: models.TypeEvent}, nil
		},
	})
	s := newTestSession()

	res, err := pa.Create(context.Background(), s, validCreate())
	require.NoError(t, err)
	assert.Equal(t, "Sounds big!", res.Warning)
	assert.Equal(t, models.TypeEvent, s.Snapshot().ProjectType)
}

func TestCreateSoloAndExplicitType(t *testing.T) {
	detectCalled := false
	pa := newAssistant(&fakeBackend{detectType: func(context.Context, string, string) (client.TypeDetection, error) {
		detectCalled = true
		return client.TypeDetection{Type: models.TypeOther}, nil
	}})
	s := newTestSession()

	req := validCreate()
	req.TeamMembers = nil
	req.ProjectType = models.TypeResearch
	_, err := pa.Create(context.Background(), s, req)
	require.NoError(t, err)

	st := s.Snapshot()
	assert.False(t, detectCalled)
	assert.Equal(t, models.TypeResearch, st.ProjectType)
	assert.Empty(t, st.TeamMembers)
	assert.Equal(t, models.TeamSolo, st.TeamSize)
	assert.Equal(t, []string{models.SoloMember}, st.Roster())
}

func TestCreateRejectsWrongStep(t *testing.T) {
	pa := newAssistant(&fakeBackend{})
	s := sessionAt(StepGoals, plannedState())

	_, err := pa.Create(context.Background(), s, validCreate())
	assert.ErrorIs(t, err, ErrWrongStep)
}

func TestBrainstorm(t *testing.T) {
	pa := newAssistant(&fakeBackend{})

	t.Run("too short", func(t *testing.T) {
		s := sessionAt(StepBrainstorm, plannedState())
		_, err := pa.Brainstorm(s, stepmodels.BrainstormRequest{Ideas: "wheels"})
		ve := validationErr(t, err)
		assert.Contains(t, ve.Fields, "ideas")
	})

	t.Run("splits and hints", func(t *testing.T) {
		s := sessionAt(StepBrainstorm, plannedState())
		res, err := pa.Brainstorm(s, stepmodels.BrainstormRequest{Ideas: "  wheels\r\n\n claw arm \n  \nbasket"})
		require.NoError(t, err)
		assert.Equal(t, []string{"wheels", "claw arm", "basket"}, s.Snapshot().BrainstormIdeas)
		assert.Equal(t, StepGoals, s.Step())
		assert.NotEmpty(t, res.Hint, "under the soft threshold")
	})
}

func TestSetGoals(t *testing.T) {
	t.Run("criteria optional", func(t *testing.T) {
		called := false
		pa := newAssistant(&fakeBackend{validateCriteria: func(context.Context, string) (client.ProjectValidation, error) {
			called = true
			return client.ProjectValidation{Valid: true}, nil
		}})
		s := sessionAt(StepGoals, plannedState())
		_, err := pa.SetGoals(context.Background(), s, stepmodels.GoalsRequest{Goal: "Collect ten balls in a minute"})
		require.NoError(t, err)
		assert.False(t, called)
		assert.Equal(t, StepTasks, s.Step())
	})

	t.Run("criteria rejected", func(t *testing.T) {
		pa := newAssistant(&fakeBackend{validateCriteria: func(context.Context, string) (client.ProjectValidation, error) {
			return client.ProjectValidation{Valid: false, Error: "How will you measure that?"}, nil
		}})
		s := sessionAt(StepGoals, plannedState())
		_, err := pa.SetGoals(context.Background(), s, stepmodels.GoalsRequest{
			Goal:            "Collect ten balls in a minute",
			SuccessCriteria: "It works well",
		})
		ve := validationErr(t, err)
		assert.Equal(t, "How will you measure that?", ve.Fields["success_criteria"])
		assert.Equal(t, StepGoals, s.Step())
	})

	t.Run("criteria too short locally", func(t *testing.T) {
		pa := newAssistant(&fakeBackend{})
		s := sessionAt(StepGoals, plannedState())
		_, err := pa.SetGoals(context.Background(), s, stepmodels.GoalsRequest{Goal: "Collect ten balls in a minute", SuccessCriteria: "works"})
		ve := validationErr(t, err)
		assert.Contains(t, ve.Fields, "success_criteria")
	})

	t.Run("backend down passes", func(t *testing.T) {
		pa := newAssistant(&fakeBackend{})
		s := sessionAt(StepGoals, plannedState())
		_, err := pa.SetGoals(context.Background(), s, stepmodels.GoalsRequest{
			Goal:            "Collect ten balls in a minute",
			SuccessCriteria: "Ten balls in under sixty seconds",
		})
		require.NoError(t, err)
		assert.Equal(t, "Ten balls in under sixty seconds", s.Snapshot().Goals.SuccessCriteria)
	})
}

func tasklessState() models.ProjectState {
	st := plannedState()
	st.Tasks = []models.Task{}
	return st
}

func TestGenerateTasks(t *testing.T) {
	t.Run("remote", func(t *testing.T) {
		var got client.BreakdownRequest
		pa := newAssistant(&fakeBackend{breakDown: func(_ context.Context, req client.BreakdownRequest) (client.Breakdown, error) {
			got = req
			return client.Breakdown{Tasks: []client.SuggestedTask{
				{Task: "Gather parts", Hours: 2, Difficulty: "easy"},
				{Task: "Build frame", Hours: 0},
			}}, nil
		}})
		s := sessionAt(StepTasks, tasklessState())

		res, err := pa.GenerateTasks(context.Background(), s)
		require.NoError(t, err)
		assert.Equal(t, "remote", res.Source)
		require.Len(t, res.Tasks, 2)
		assert.Equal(t, 1, res.Tasks[1].Hours)
		assert.Equal(t, models.Medium, res.Tasks[1].Difficulty)
		assert.Equal(t, res.Tasks, s.Snapshot().Tasks)
		assert.False(t, s.Snapshot().TasksEdited)
		assert.Equal(t, models.TypeHardware, got.ProjectType)
		assert.Equal(t, "Collect ten balls in under a minute", got.Goal)
	})

	t.Run("failure leaves list empty with warning", func(t *testing.T) {
		pa := newAssistant(&fakeBackend{})
		s := sessionAt(StepTasks, tasklessState())

		res, err := pa.GenerateTasks(context.Background(), s)
		require.NoError(t, err)
		assert.Equal(t, BreakdownFailedMessage, res.Warning)
		assert.Empty(t, res.Tasks)
		assert.Empty(t, s.Snapshot().Tasks)
	})

	t.Run("existing tasks are kept", func(t *testing.T) {
		called := false
		pa := newAssistant(&fakeBackend{breakDown: func(context.Context, client.BreakdownRequest) (client.Breakdown, error) {
			called = true
			return client.Breakdown{}, nil
		}})
		s := sessionAt(StepTasks, plannedState())

		res, err := pa.GenerateTasks(context.Background(), s)
		require.NoError(t, err)
		assert.False(t, called)
		assert.Equal(t, SourceState, res.Source)
		assert.Len(t, res.Tasks, 3)
	})
}

func TestGenerateTasksInFlight(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	pa := newAssistant(&fakeBackend{breakDown: func(ctx context.Context, _ client.BreakdownRequest) (client.Breakdown, error) {
		close(entered)
		<-release
		return client.Breakdown{Tasks: []client.SuggestedTask{{Task: "Plan", Hours: 1}}}, nil
	}})
	s := sessionAt(StepTasks, tasklessState())

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := pa.GenerateTasks(context.Background(), s)
		assert.NoError(t, err)
	}()

	<-entered
	_, err := pa.GenerateTasks(context.Background(), s)
	assert.ErrorIs(t, err, ErrActionInFlight)

	close(release)
	wg.Wait()
	assert.Len(t, s.Snapshot().Tasks, 1)
}

func TestTaskEditing(t *testing.T) {
	pa := newAssistant(&fakeBackend{})
	st := plannedState()
	st.Assignments = map[string]string{"t2": "Sam"}
	s := sessionAt(StepTasks, st)

	added, err := pa.AddTask(s, stepmodels.TaskRequest{Name: " Paint ", Hours: 0, Difficulty: "hard"})
	require.NoError(t, err)
	assert.NotEmpty(t, added.ID)
	assert.Equal(t, "Paint", added.Name)
	assert.Equal(t, 1, added.Hours)
	assert.Equal(t, models.Hard, added.Difficulty)
	assert.True(t, s.Snapshot().TasksEdited)

	edited, err := pa.EditTask(s, "t1", stepmodels.TaskUpdate{Hours: models.Ptr(models.Hours(6))})
	require.NoError(t, err)
	assert.Equal(t, 6, edited.Hours)
	assert.Equal(t, "Build frame", edited.Name)

	_, err = pa.EditTask(s, "nope", stepmodels.TaskUpdate{})
	assert.ErrorIs(t, err, ErrTaskNotFound)

	require.NoError(t, pa.DeleteTask(s, "t2"))
	snap := s.Snapshot()
	assert.Equal(t, -1, snap.TaskIndex("t2"))
	assert.NotContains(t, snap.Assignments, "t2")
	assert.Len(t, snap.Tasks, 3)

	assert.ErrorIs(t, pa.DeleteTask(s, "t2"), ErrTaskNotFound)
}

func TestSubmitTasks(t *testing.T) {
	pa := newAssistant(&fakeBackend{})

	t.Run("requires one task", func(t *testing.T) {
		s := sessionAt(StepTasks, tasklessState())
		_, err := pa.SubmitTasks(s, stepmodels.SubmitTasksRequest{})
		ve := validationErr(t, err)
		assert.Equal(t, NoTasksMessage, ve.General)
		assert.Equal(t, StepTasks, s.Step())
	})

	t.Run("normalizes replacement list", func(t *testing.T) {
		s := sessionAt(StepTasks, tasklessState())
		_, err := pa.SubmitTasks(s, stepmodels.SubmitTasksRequest{Tasks: &[]models.Task{{Name: "Sketch"}}})
		require.NoError(t, err)

		snap := s.Snapshot()
		require.Len(t, snap.Tasks, 1)
		assert.Equal(t, 1, snap.Tasks[0].Hours)
		assert.Equal(t, models.Medium, snap.Tasks[0].Difficulty)
		assert.NotEmpty(t, snap.Tasks[0].ID)
		assert.True(t, snap.TasksEdited)
		assert.Equal(t, StepAssign, s.Step())
	})
}

func TestCheckTimelineFallsBackToLocal(t *testing.T) {
	pa := newAssistant(&fakeBackend{})
	st := plannedState()
	st.Tasks = []models.Task{{ID: "a", Hours: 5}, {ID: "b", Hours: 5}, {ID: "c", Hours: 5}}
	s := sessionAt(StepAssign, st)

	// 4.5 days away -> 5 days at 2h/day = 10h for 15h of work
	res, err := pa.CheckTimeline(context.Background(), s, stepmodels.TimelineRequest{Deadline: "2026-10-24"})
	require.NoError(t, err)
	assert.Equal(t, "fallback", res.Source)
	assert.Equal(t, timeline.StatusTooTight, res.Feasibility.Status)
	assert.InDelta(t, 3.0, res.Feasibility.HoursPerDayNeeded, 1e-9)

	v := s.View()
	require.NotNil(t, v.Feasibility)
	assert.Equal(t, timeline.StatusTooTight, v.Feasibility.Status)
	assert.Equal(t, models.Timeline{Deadline: "2026-10-24", TotalHours: 15, AvailableHours: 10}, v.State.Timeline)
	assert.Equal(t, StepAssign, v.Step, "checking never advances")
}

func TestCheckTimelineMergesRemote(t *testing.T) {
	var got client.EstimateRequest
	pa := newAssistant(&fakeBackend{estimate: func(_ context.Context, req client.EstimateRequest) (timeline.Feasibility, error) {
		got = req
		return timeline.Feasibility{Status: timeline.StatusGood, Message: "You've got plenty of time!"}, nil
	}})
	s := sessionAt(StepAssign, plannedState())

	res, err := pa.CheckTimeline(context.Background(), s, stepmodels.TimelineRequest{Deadline: "2026-11-18"})
	require.NoError(t, err)
	assert.Equal(t, "remote", res.Source)
	assert.Equal(t, "You've got plenty of time!", res.Feasibility.Message)
	assert.Equal(t, 9.0, res.Feasibility.TotalHours)
	assert.Equal(t, 30, got.DeadlineDays)
	assert.Equal(t, models.TeamSmall, got.TeamSize)
}

func TestCheckTimelineBadDeadline(t *testing.T) {
	pa := newAssistant(&fakeBackend{})
	s := sessionAt(StepAssign, plannedState())

	for _, d := range []string{"", "next friday"} {
		_, err := pa.CheckTimeline(context.Background(), s, stepmodels.TimelineRequest{Deadline: d})
		ve := validationErr(t, err)
		assert.Contains(t, ve.Fields, "deadline")
	}
}

func TestCheckTimelineSupersededRequestNeverWrites(t *testing.T) {
	var calls atomic.Int32
	entered := make(chan struct{})
	pa := newAssistant(&fakeBackend{estimate: func(ctx context.Context, req client.EstimateRequest) (timeline.Feasibility, error) {
		if calls.Add(1) == 1 {
			close(entered)
			<-ctx.Done()
			return timeline.Feasibility{}, ctx.Err()
		}
		return timeline.Feasibility{Status: timeline.StatusGood}, nil
	}})
	s := sessionAt(StepAssign, plannedState())

	var (
		wg       sync.WaitGroup
		firstErr error
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, firstErr = pa.CheckTimeline(context.Background(), s, stepmodels.TimelineRequest{Deadline: "2026-10-21"})
	}()
	<-entered

	res, err := pa.CheckTimeline(context.Background(), s, stepmodels.TimelineRequest{Deadline: "2026-12-01"})
	require.NoError(t, err)
	assert.Equal(t, timeline.StatusGood, res.Feasibility.Status)

	wg.Wait()
	assert.ErrorIs(t, firstErr, ErrSuperseded)
	assert.Equal(t, "2026-12-01", s.Snapshot().Timeline.Deadline)
	assert.Equal(t, timeline.StatusGood, s.View().Feasibility.Status)
}

func TestSubmitAssignments(t *testing.T) {
	pa := newAssistant(&fakeBackend{})

	t.Run("rejects unassigned task", func(t *testing.T) {
		s := sessionAt(StepAssign, plannedState())
		_, err := pa.SubmitAssignments(context.Background(), s, stepmodels.AssignRequest{
			Assignments: map[string]string{"t1": "Alex", "t2": "Sam"},
		})
		ve := validationErr(t, err)
		assert.Equal(t, UnassignedMessage, ve.General)
		assert.Equal(t, StepAssign, s.Step())
	})

	t.Run("rejects someone off the roster", func(t *testing.T) {
		s := sessionAt(StepAssign, plannedState())
		_, err := pa.SubmitAssignments(context.Background(), s, stepmodels.AssignRequest{
			Assignments: map[string]string{"t1": "Alex", "t2": "Sam", "t3": "Mallory"},
		})
		ve := validationErr(t, err)
		assert.Equal(t, NotOnTeamMessage, ve.Fields["assignments.t3"])
	})

	t.Run("no tasks", func(t *testing.T) {
		s := sessionAt(StepAssign, tasklessState())
		_, err := pa.SubmitAssignments(context.Background(), s, stepmodels.AssignRequest{})
		ve := validationErr(t, err)
		assert.Equal(t, NoTasksToAssignMessage, ve.General)
	})

	t.Run("advances with balance warning", func(t *testing.T) {
		s := sessionAt(StepAssign, plannedState())
		res, err := pa.SubmitAssignments(context.Background(), s, stepmodels.AssignRequest{
			Deadline:    "2026-11-18",
			Assignments: map[string]string{"t1": "Alex", "t2": "Alex", "t3": "Sam", "gone": "Sam"},
		})
		require.NoError(t, err)
		assert.Equal(t, "Alex has way more tasks. Is that fair?", res.Warning)

		snap := s.Snapshot()
		assert.Equal(t, StepReflection, s.Step())
		assert.Equal(t, map[string]string{"t1": "Alex", "t2": "Alex", "t3": "Sam"}, snap.Assignments)
		assert.Equal(t, "Alex", snap.Tasks[0].AssignedTo)
		assert.Equal(t, models.Timeline{Deadline: "2026-11-18", TotalHours: 9, AvailableHours: 60}, snap.Timeline)
	})

	t.Run("solo uses Me", func(t *testing.T) {
		st := plannedState()
		st.TeamMembers = []string{}
		s := sessionAt(StepAssign, st)
		_, err := pa.SubmitAssignments(context.Background(), s, stepmodels.AssignRequest{
			Assignments: map[string]string{"t1": "Me", "t2": "Me", "t3": "Me"},
		})
		require.NoError(t, err)
	})
}

func TestLocalBalance(t *testing.T) {
	assert.True(t, LocalBalance(nil).Balanced)
	assert.True(t, LocalBalance(map[string]string{"a": "Alex", "b": "Sam"}).Balanced)
	// 3 > 2*1.5 is false
	assert.True(t, LocalBalance(map[string]string{"a": "A", "b": "A", "c": "A", "d": "B", "e": "B"}).Balanced)

	got := LocalBalance(map[string]string{"a": "Alex", "b": "Alex", "c": "Sam"})
	assert.False(t, got.Balanced)
	assert.Contains(t, got.Warning, "Alex")
	assert.NotEmpty(t, got.Suggestion)
}

func TestLoadPrompts(t *testing.T) {
	t.Run("fallback to fixed questions", func(t *testing.T) {
		pa := newAssistant(&fakeBackend{})
		s := sessionAt(StepReflection, plannedState())

		res, err := pa.LoadPrompts(context.Background(), s)
		require.NoError(t, err)
		assert.Equal(t, "fallback", res.Source)
		assert.Equal(t, DefaultPrompts(), res.Prompts)
		assert.Len(t, res.Prompts, 3)
		assert.Equal(t, DefaultPrompts(), s.Snapshot().Reflection.Prompts)
	})

	t.Run("only once", func(t *testing.T) {
		var calls int
		pa := newAssistant(&fakeBackend{prompts: func(_ context.Context, req client.PromptsRequest) ([]string, error) {
			calls++
			assert.Equal(t, models.TypeHardware, req.ProjectType)
			return []string{"How did the frame hold up?", "What would you build differently?"}, nil
		}})
		s := sessionAt(StepReflection, plannedState())

		first, err := pa.LoadPrompts(context.Background(), s)
		require.NoError(t, err)
		second, err := pa.LoadPrompts(context.Background(), s)
		require.NoError(t, err)

		assert.Equal(t, 1, calls)
		assert.Equal(t, first.Prompts, second.Prompts)
		assert.Equal(t, SourceState, second.Source)
	})
}

func TestFeedback(t *testing.T) {
	pa := newAssistant(&fakeBackend{})
	s := sessionAt(StepReflection, plannedState())

	res := pa.Feedback(s, stepmodels.ReflectionRequest{Answers: []string{"short", "This is at least twenty characters long"}})
	require.Len(t, res.Answers, 3)
	assert.Equal(t, validator.LevelTooShort, res.Answers[0].Level)
	assert.Equal(t, validator.LevelEncourage, res.Answers[1].Level)
	assert.Equal(t, validator.LevelEmpty, res.Answers[2].Level)
}

func longAnswer(s string) string {
	return s + " because we planned carefully and it mostly worked"
}

func TestSubmitReflection(t *testing.T) {
	t.Run("requires every answer", func(t *testing.T) {
		pa := newAssistant(&fakeBackend{})
		st := plannedState()
		st.Reflection = models.Reflection{Prompts: []string{"Q1", "Q2"}, Answers: []string{}}
		s := sessionAt(StepReflection, st)

		_, err := pa.SubmitReflection(context.Background(), s, stepmodels.ReflectionRequest{Answers: []string{longAnswer("A1")}})
		ve := validationErr(t, err)
		assert.Contains(t, ve.Fields, "answers.1")
		assert.NotContains(t, ve.Fields, "answers.0")
		assert.Equal(t, StepReflection, s.Step())
	})

	t.Run("fallbacks", func(t *testing.T) {
		pa := newAssistant(&fakeBackend{})
		s := sessionAt(StepReflection, plannedState())

		res, err := pa.SubmitReflection(context.Background(), s, stepmodels.ReflectionRequest{
			Answers: []string{longAnswer("one"), longAnswer("two"), longAnswer("three")},
		})
		require.NoError(t, err)
		assert.Equal(t, GenericInsights(), res.Insights)
		assert.Empty(t, res.Badges)
		assert.Equal(t, "fallback", res.Source)

		snap := s.Snapshot()
		assert.Equal(t, StepExport, s.Step())
		assert.Equal(t, DefaultPrompts(), snap.Reflection.Prompts)
		assert.Len(t, snap.Reflection.Answers, 3)
	})

	t.Run("remote insights and first badges", func(t *testing.T) {
		var badgeReq client.BadgesRequest
		pa := newAssistant(&fakeBackend{
			insights: func(context.Context, client.InsightsRequest) ([]string, error) {
				return []string{"You adapted."}, nil
			},
			badges: func(_ context.Context, req client.BadgesRequest) ([]models.Badge, error) {
				badgeReq = req
				return []models.Badge{{Name: "Planner Power", Reason: "Good guesses"}}, nil
			},
		})
		st := plannedState()
		st.TasksEdited = true
		s := sessionAt(StepReflection, st)

		res, err := pa.SubmitReflection(context.Background(), s, stepmodels.ReflectionRequest{
			Answers: []string{longAnswer("one"), longAnswer("two"), longAnswer("three")},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"You adapted."}, res.Insights)
		assert.Equal(t, "Planner Power", res.Badges[0].Name)
		assert.True(t, badgeReq.TasksEdited)
		assert.Equal(t, DefaultTimelineAccuracy, badgeReq.TimelineAccuracy)
		assert.Contains(t, badgeReq.ReflectionText, "prompts")
	})

	t.Run("badges are awarded only once", func(t *testing.T) {
		pa := newAssistant(&fakeBackend{badges: func(context.Context, client.BadgesRequest) ([]models.Badge, error) {
			return nil, errors.New("must not be called")
		}})
		st := plannedState()
		st.Badges = []models.Badge{{Name: "Kept"}}
		s := sessionAt(StepReflection, st)

		res, err := pa.SubmitReflection(context.Background(), s, stepmodels.ReflectionRequest{
			Answers: []string{longAnswer("one"), longAnswer("two"), longAnswer("three")},
		})
		require.NoError(t, err)
		assert.Equal(t, []models.Badge{{Name: "Kept"}}, res.Badges)
	})
}

func TestExport(t *testing.T) {
	st := plannedState()
	s := sessionAt(StepExport, st)

	pa := newAssistant(&fakeBackend{})
	txt := pa.ExportText(s)
	assert.Contains(t, txt.Text, "Tennis Ball Robot")
	assert.Contains(t, txt.Hint, "Download your plan")

	_, err := pa.ExportPDF(context.Background(), s)
	assert.ErrorIs(t, err, ErrPDFUnavailable)
	assert.ErrorIs(t, err, client.ErrUnavailable)

	pa = newAssistant(&fakeBackend{exportPDF: func(_ context.Context, state models.ProjectState) (client.PDF, error) {
		return client.PDF{Filename: client.PDFFilename(state.Title), Content: []byte("%PDF")}, nil
	}})
	pdf, err := pa.ExportPDF(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, "Tennis Ball Robot_plan.pdf", pdf.Filename)
}

func TestFullWalkthroughOffline(t *testing.T) {
	pa := newAssistant(&fakeBackend{})
	s := newTestSession()
	ctx := context.Background()
	s.Start()

	_, err := pa.Create(ctx, s, validCreate())
	require.NoError(t, err)
	_, err = pa.Brainstorm(s, stepmodels.BrainstormRequest{Ideas: "wheels and a scoop\nsweeper brush"})
	require.NoError(t, err)
	_, err = pa.SetGoals(ctx, s, stepmodels.GoalsRequest{Goal: "Collect ten balls in under a minute"})
	require.NoError(t, err)

	gen, err := pa.GenerateTasks(ctx, s)
	require.NoError(t, err)
	require.NotEmpty(t, gen.Warning)
	task, err := pa.AddTask(s, stepmodels.TaskRequest{Name: "Build scoop", Hours: 3})
	require.NoError(t, err)
	_, err = pa.SubmitTasks(s, stepmodels.SubmitTasksRequest{})
	require.NoError(t, err)

	_, err = pa.CheckTimeline(ctx, s, stepmodels.TimelineRequest{Deadline: "2026-11-01"})
	require.NoError(t, err)
	_, err = pa.SubmitAssignments(ctx, s, stepmodels.AssignRequest{Assignments: map[string]string{task.ID: "Sam"}})
	require.NoError(t, err)

	_, err = pa.LoadPrompts(ctx, s)
	require.NoError(t, err)
	_, err = pa.SubmitReflection(ctx, s, stepmodels.ReflectionRequest{
		Answers: []string{longAnswer("one"), longAnswer("two"), longAnswer("three")},
	})
	require.NoError(t, err)

	assert.Equal(t, StepExport, s.Step())
	out := pa.ExportText(s).Text
	assert.Contains(t, out, "Build scoop (3h, Medium) → Sam")
	assert.Contains(t, out, "Deadline: 11-01-2026")
}

func TestSubmitReflectionAcceptsEverydayWords(t *testing.T) {
	pa := newAssistant(&fakeBackend{})
	s := sessionAt(StepReflection, plannedState())

	_, err := pa.SubmitReflection(context.Background(), s, stepmodels.ReflectionRequest{Answers: []string{
		"I personally tested every part of the frame before the demo.",
		"Splitting the wiring work between two people was harder than expected.",
		"Next time I would ask my family to help test the robot on a real court.",
	}})
	require.NoError(t, err)
	assert.Equal(t, StepExport, s.Step())
}

func TestSetGoalsAcceptsEverydayWords(t *testing.T) {
	pa := newAssistant(&fakeBackend{})
	s := sessionAt(StepGoals, plannedState())

	_, err := pa.SetGoals(context.Background(), s, stepmodels.GoalsRequest{
		Goal:            "Show my family a robot that picks up ten balls",
		SuccessCriteria: "Personal best of ten balls in a minute",
	})
	require.NoError(t, err)
	assert.Equal(t, StepTasks, s.Step())
}

func TestCheckTimelineWithoutTasks(t *testing.T) {
	pa := newAssistant(&fakeBackend{})
	st := plannedState()
	st.Tasks = []models.Task{}
	s := sessionAt(StepAssign, st)

	_, err := pa.CheckTimeline(context.Background(), s, stepmodels.TimelineRequest{Deadline: "2026-11-05"})
	ve := validationErr(t, err)
	assert.Equal(t, NoTasksToAssignMessage, ve.General)
	assert.Nil(t, s.View().Feasibility)
	assert.Empty(t, s.Snapshot().Timeline.Deadline)
}
