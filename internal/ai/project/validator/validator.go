package validator

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

// Limits describes hard and soft character bounds for a form field
type Limits struct {
	Min  int
	Soft int // encouragement only, 0 when unused
	Max  int
}

var (
	TitleLimits       = Limits{Min: 3, Max: 100}
	DescriptionLimits = Limits{Min: 15, Max: 500}
	BrainstormLimits  = Limits{Min: 20, Soft: 50, Max: 500}
	GoalLimits        = Limits{Min: 15, Max: 200}
	CriteriaLimits    = Limits{Min: 10, Max: 200}
	AnswerLimits      = Limits{Min: 20, Soft: 50, Max: 500}
)

// disallowedKeywords mirrors the client-side scope check: planning help only
var disallowedKeywords = []string{
	"homework",
	"essay",
	"test answers",
	"cheating",
	"depression",
	"anxiety",
	"personal",
	"family",
}

const OutOfScopeMessage = "I can help you plan projects, but that question is outside what I'm designed for. Let's focus on your project!"

// ValidationError blocks a step transition. Fields holds near-field
// messages, General a banner-level one.
type ValidationError struct {
	Fields  map[string]string `json:"fields,omitempty"`
	General string            `json:"general,omitempty"`
}

func (e *ValidationError) Error() string {
	if e.General != "" {
		return e.General
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return strings.Join(parts, "; ")
}

// Errors collects field errors for one submission
type Errors map[string]string

func (e Errors) Add(field string, err error) {
	if err != nil {
		e[field] = err.Error()
	}
}

// Err returns nil when nothing was collected
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return &ValidationError{Fields: e}
}

// General returns a banner-level validation error
func General(msg string) error {
	return &ValidationError{General: msg}
}

// Length counts characters of the trimmed value
func Length(value string) int {
	return utf8.RuneCountInString(strings.TrimSpace(value))
}

// Check applies min/max bounds. Empty input gets the caller's empty message.
func Check(value string, l Limits, emptyMsg string) error {
	n := Length(value)
	if n == 0 && emptyMsg != "" {
		return errors.New(emptyMsg)
	}
	if n < l.Min {
		return fmt.Errorf("Say a bit more (at least %d characters)", l.Min)
	}
	if l.Max > 0 && n > l.Max {
		return fmt.Errorf("Too long (max %d characters)", l.Max)
	}
	return nil
}

func ValidateTitle(title string) error {
	n := Length(title)
	switch {
	case n == 0:
		return errors.New("Give your project a name")
	case n < TitleLimits.Min:
		return fmt.Errorf("Project name needs at least %d letters", TitleLimits.Min)
	case n > TitleLimits.Max:
		return fmt.Errorf("Too long (max %d characters)", TitleLimits.Max)
	}
	return nil
}

func ValidateDescription(description string) error {
	n := Length(description)
	switch {
	case n == 0:
		return fmt.Errorf("Tell us what you want to make or do (at least %d characters)", DescriptionLimits.Min)
	case n < DescriptionLimits.Min:
		return fmt.Errorf("Give us more details about your project (at least %d characters)", DescriptionLimits.Min)
	case n > DescriptionLimits.Max:
		return fmt.Errorf("Too long (max %d characters)", DescriptionLimits.Max)
	}
	return nil
}

func ValidateBrainstorm(text string) error {
	return Check(text, BrainstormLimits, "Please write down some ideas!")
}

func ValidateGoal(goal string) error {
	n := Length(goal)
	switch {
	case n == 0:
		return errors.New("Tell us your goal!")
	case n < GoalLimits.Min:
		return errors.New("Tell us a bit more about what you want to make and how you'll know it worked")
	case n > GoalLimits.Max:
		return fmt.Errorf("Too long (max %d characters)", GoalLimits.Max)
	}
	return nil
}

// ValidateCriteria is only applied when criteria were entered
func ValidateCriteria(criteria string) error {
	return Check(criteria, CriteriaLimits, "")
}

func ValidateAnswer(answer string) error {
	n := Length(answer)
	if n < AnswerLimits.Min {
		return fmt.Errorf("At least %d characters", AnswerLimits.Min)
	}
	if n > AnswerLimits.Max {
		return fmt.Errorf("Max %d characters", AnswerLimits.Max)
	}
	return nil
}

// scopePattern matches a disallowed keyword as a whole word or phrase,
// so "personally" and "families" pass
var scopePattern = func() *regexp.Regexp {
	alts := make([]string, len(disallowedKeywords))
	for i, kw := range disallowedKeywords {
		alts[i] = regexp.QuoteMeta(kw)
	}
	return regexp.MustCompile(`(?i)\b(?:` + strings.Join(alts, "|") + `)\b`)
}()

// CheckScope refuses project descriptions that are not about planning a
// project. It is only applied when a project is created.
func CheckScope(texts ...string) error {
	for _, text := range texts {
		if scopePattern.MatchString(text) {
			return General(OutOfScopeMessage)
		}
	}
	return nil
}

// Level of non-blocking length feedback
type Level string

const (
	LevelEmpty     Level = "empty"
	LevelTooShort  Level = "too_short"
	LevelEncourage Level = "encourage"
	LevelOK        Level = "ok"
	LevelTooLong   Level = "too_long"
)

// Feedback is what a form shows under a text field while typing
type Feedback struct {
	Count   int    `json:"count"`
	Min     int    `json:"min"`
	Soft    int    `json:"soft,omitempty"`
	Max     int    `json:"max"`
	Level   Level  `json:"level"`
	Message string `json:"message,omitempty"`
}

// ShowSoftPrompt reports whether the encouragement hint applies
func ShowSoftPrompt(count, soft int) bool {
	return count > 0 && count < soft
}

// Assess returns length feedback for value. Only LevelEmpty, LevelTooShort
// and LevelTooLong block submission.
func Assess(value string, l Limits) Feedback {
	n := Length(value)
	fb := Feedback{Count: n, Min: l.Min, Soft: l.Soft, Max: l.Max}
	switch {
	case n == 0:
		fb.Level = LevelEmpty
		fb.Message = fmt.Sprintf("Say a bit more (%d+ characters)", l.Min)
	case n < l.Min:
		fb.Level = LevelTooShort
		fb.Message = fmt.Sprintf("Say a bit more (%d+ characters)", l.Min)
	case l.Max > 0 && n > l.Max:
		fb.Level = LevelTooLong
		fb.Message = fmt.Sprintf("Max %d characters", l.Max)
	case l.Soft > 0 && ShowSoftPrompt(n, l.Soft):
		fb.Level = LevelEncourage
		fb.Message = fmt.Sprintf("Tell us more! (%d+ characters)", l.Soft)
	default:
		fb.Level = LevelOK
	}
	return fb
}

// Blocking reports whether the feedback prevents submission
func (f Feedback) Blocking() bool {
	return f.Level == LevelEmpty || f.Level == LevelTooShort || f.Level == LevelTooLong
}
