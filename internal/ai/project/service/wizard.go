package service

import (
	"strconv"

	"github.com/Jamolkhon5/sprintkit/internal/metrics"
	"github.com/Jamolkhon5/sprintkit/internal/models"
)

// Step is a position in the fixed seven-stage flow
type Step int

const (
	StepCreate Step = iota + 1
	StepBrainstorm
	StepGoals
	StepTasks
	StepAssign
	StepReflection
	StepExport
)

const (
	FirstStep = StepCreate
	LastStep  = StepExport
)

var stepNames = map[Step]string{
	StepCreate:     "create",
	StepBrainstorm: "brainstorm",
	StepGoals:      "goals",
	StepTasks:      "tasks",
	StepAssign:     "assign",
	StepReflection: "reflection",
	StepExport:     "export",
}

func (s Step) String() string {
	if name, ok := stepNames[s]; ok {
		return name
	}
	return "step" + strconv.Itoa(int(s))
}

func (s Step) Valid() bool {
	return s >= FirstStep && s <= LastStep
}

// Wizard owns the project state and the current step. It does not
// validate anything; step components gatekeep before calling Advance.
// A Wizard is not safe for concurrent use; Session serializes access.
type Wizard struct {
	state   models.ProjectState
	step    Step
	prefs   models.Preferences
	metrics *metrics.Metrics
}

func NewWizard(m *metrics.Metrics) *Wizard {
	return &Wizard{
		state:   models.NewProjectState(),
		step:    FirstStep,
		prefs:   models.DefaultPreferences(),
		metrics: m,
	}
}

// Advance merges patch and moves forward unless already on the last step
func (w *Wizard) Advance(p models.Patch) Step {
	p.Apply(&w.state)
	if w.step < LastStep {
		w.step++
		w.metrics.Transition("forward", w.step.String())
	}
	return w.step
}

// Retreat moves back one step; a no-op on the first step
func (w *Wizard) Retreat() Step {
	if w.step > FirstStep {
		w.step--
		w.metrics.Transition("back", w.step.String())
	}
	return w.step
}

// Update merges patch without moving
func (w *Wizard) Update(p models.Patch) {
	p.Apply(&w.state)
}

// Reset discards everything and returns to the intro screen. The theme survives.
func (w *Wizard) Reset() {
	w.state = models.NewProjectState()
	w.step = FirstStep
	w.prefs.ShowIntro = true
	w.metrics.Transition("reset", w.step.String())
}

// Start leaves the intro screen
func (w *Wizard) Start() {
	w.prefs.ShowIntro = false
}

func (w *Wizard) SetTheme(t models.Theme) {
	w.prefs.Theme = t
}

// State returns a deep copy of the project state
func (w *Wizard) State() models.ProjectState {
	return w.state.Clone()
}

func (w *Wizard) Step() Step {
	return w.step
}

func (w *Wizard) Preferences() models.Preferences {
	return w.prefs
}

// Restore replaces the state wholesale, used when importing a saved plan
func (w *Wizard) Restore(state models.ProjectState, step Step) {
	w.state = state.Clone()
	if !step.Valid() {
		step = FirstStep
	}
	w.step = step
	w.prefs.ShowIntro = false
}
