package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Jamolkhon5/sprintkit/internal/ai/project/timeline"
	"github.com/Jamolkhon5/sprintkit/internal/metrics"
	"github.com/Jamolkhon5/sprintkit/internal/models"
)

var (
	ErrWrongStep      = errors.New("wizard is not on this step")
	ErrActionInFlight = errors.New("this action is already in progress")
	ErrSuperseded     = errors.New("superseded by a newer request")
	ErrTaskNotFound   = errors.New("task not found")
	ErrInvalidTheme   = errors.New("theme must be light or dark")
)

const actionTimeline = "timeline"

// Session is one student's wizard plus the bookkeeping for requests that
// are still waiting on the backend. Remote calls never run under mu.
type Session struct {
	ID string

	mu          sync.Mutex
	wizard      *Wizard
	epoch       uint64
	inFlight    map[string]struct{}
	timelineSeq uint64
	cancelCheck context.CancelFunc
	feasibility *timeline.Feasibility
}

// View is the read-only snapshot handed to clients
type View struct {
	ID          string                `json:"id"`
	Step        Step                  `json:"step"`
	StepName    string                `json:"step_name"`
	Preferences models.Preferences    `json:"preferences"`
	State       models.ProjectState   `json:"state"`
	Roster      []string              `json:"roster"`
	Feasibility *timeline.Feasibility `json:"feasibility,omitempty"`
	InFlight    []string              `json:"in_flight,omitempty"`
}

func NewSession(id string, m *metrics.Metrics) *Session {
	return &Session{
		ID:       id,
		wizard:   NewWizard(m),
		inFlight: make(map[string]struct{}),
	}
}

func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

func (s *Session) viewLocked() View {
	state := s.wizard.State()
	v := View{
		ID:          s.ID,
		Step:        s.wizard.Step(),
		StepName:    s.wizard.Step().String(),
		Preferences: s.wizard.Preferences(),
		State:       state,
		Roster:      append([]string{}, state.Roster()...),
	}
	if s.feasibility != nil {
		f := *s.feasibility
		v.Feasibility = &f
	}
	for name := range s.inFlight {
		v.InFlight = append(v.InFlight, name)
	}
	return v
}

// Step returns the current step
func (s *Session) Step() Step {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.wizard.Step()
}

func (s *Session) Start() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wizard.Start()
	return s.viewLocked()
}

func (s *Session) Back() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wizard.Retreat()
	return s.viewLocked()
}

// Reset starts over. Anything still waiting on the backend is dropped
// when it returns.
func (s *Session) Reset() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wizard.Reset()
	s.epoch++
	s.cancelTimelineLocked()
	s.feasibility = nil
	return s.viewLocked()
}

func (s *Session) SetTheme(t models.Theme) (View, error) {
	if t != models.ThemeLight && t != models.ThemeDark {
		return View{}, ErrInvalidTheme
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wizard.SetTheme(t)
	return s.viewLocked(), nil
}

// Restore replaces the session's plan with an imported one
func (s *Session) Restore(state models.ProjectState, step Step) View {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wizard.Restore(state, step)
	s.epoch++
	s.cancelTimelineLocked()
	s.feasibility = nil
	return s.viewLocked()
}

// State returns the project state if the wizard is on want
func (s *Session) State(want Step) (models.ProjectState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkStepLocked(want); err != nil {
		return models.ProjectState{}, err
	}
	return s.wizard.State(), nil
}

// Snapshot returns the project state regardless of step
func (s *Session) Snapshot() models.ProjectState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.wizard.State()
}

// Apply runs fn against the wizard if it is on want. Used for local edits
// that need no backend call.
func (s *Session) Apply(want Step, fn func(w *Wizard) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkStepLocked(want); err != nil {
		return err
	}
	if err := fn(s.wizard); err != nil {
		return err
	}
	return nil
}

func (s *Session) checkStepLocked(want Step) error {
	if cur := s.wizard.Step(); cur != want {
		return fmt.Errorf("%w: on %s, not %s", ErrWrongStep, cur, want)
	}
	return nil
}

// Action is a step operation waiting on the backend. It carries a snapshot
// of the state taken when it began and commits only if nothing newer
// happened in between.
type Action struct {
	Name  string
	State models.ProjectState

	s     *Session
	step  Step
	epoch uint64
	seq   uint64
	ctx   context.Context
}

// Begin marks name in flight on step want. A second Begin with the same
// name fails until Done is called.
func (s *Session) Begin(name string, want Step) (*Action, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkStepLocked(want); err != nil {
		return nil, err
	}
	if _, busy := s.inFlight[name]; busy {
		return nil, fmt.Errorf("%w: %s", ErrActionInFlight, name)
	}
	s.inFlight[name] = struct{}{}
	return &Action{
		Name:  name,
		State: s.wizard.State(),
		s:     s,
		step:  want,
		epoch: s.epoch,
	}, nil
}

// BeginTimeline starts a feasibility check. An older check still in
// flight is cancelled and can no longer commit.
func (s *Session) BeginTimeline(ctx context.Context) (*Action, context.Context, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkStepLocked(StepAssign); err != nil {
		return nil, nil, err
	}
	s.cancelTimelineLocked()
	s.timelineSeq++
	checkCtx, cancel := context.WithCancel(ctx)
	s.cancelCheck = cancel
	s.inFlight[actionTimeline] = struct{}{}
	return &Action{
		Name:  actionTimeline,
		State: s.wizard.State(),
		s:     s,
		step:  StepAssign,
		epoch: s.epoch,
		seq:   s.timelineSeq,
		ctx:   checkCtx,
	}, checkCtx, nil
}

func (s *Session) cancelTimelineLocked() {
	if s.cancelCheck != nil {
		s.cancelCheck()
		s.cancelCheck = nil
	}
	delete(s.inFlight, actionTimeline)
}

// Commit applies fn if the action is still current
func (a *Action) Commit(fn func(w *Wizard)) error {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	if err := a.currentLocked(); err != nil {
		return err
	}
	fn(a.s.wizard)
	return nil
}

// CommitFeasibility records the latest verdict along with fn's changes
func (a *Action) CommitFeasibility(f timeline.Feasibility, fn func(w *Wizard)) error {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	if err := a.currentLocked(); err != nil {
		return err
	}
	a.s.feasibility = &f
	fn(a.s.wizard)
	return nil
}

func (a *Action) currentLocked() error {
	if a.epoch != a.s.epoch || a.s.wizard.Step() != a.step {
		return ErrSuperseded
	}
	if a.seq != 0 && (a.seq != a.s.timelineSeq || a.ctx.Err() != nil) {
		return ErrSuperseded
	}
	return nil
}

// Done releases the in-flight marker
func (a *Action) Done() {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	if a.seq != 0 {
		if a.seq == a.s.timelineSeq {
			a.s.cancelTimelineLocked()
		}
		return
	}
	delete(a.s.inFlight, a.Name)
}
