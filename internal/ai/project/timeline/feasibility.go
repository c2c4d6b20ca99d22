// Package timeline decides whether a task list fits before a deadline.
package timeline

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/Jamolkhon5/sprintkit/internal/models"
)

type Status string

const (
	StatusGood     Status = "good"
	StatusTight    Status = "tight"
	StatusTooTight Status = "too_tight"
)

func (s Status) Valid() bool {
	return s == StatusGood || s == StatusTight || s == StatusTooTight
}

const (
	// DefaultHoursPerDay is a realistic daily budget for school projects
	DefaultHoursPerDay = 2.0
	// TightRatio is the share of available hours above which a plan is tight
	TightRatio = 0.7

	DateLayout = "2006-01-02"
)

var ErrInvalidDeadline = errors.New("deadline must be a date like 2025-05-31")

// Feasibility is the verdict shape shared by the local calculator and the
// backend estimate.
type Feasibility struct {
	TotalHours        float64 `json:"total_hours"`
	AvailableHours    float64 `json:"available_hours"`
	DaysAvailable     int     `json:"days_available"`
	HoursPerDay       float64 `json:"hours_per_day"`
	HoursPerDayNeeded float64 `json:"hours_per_day_needed"`
	Status            Status  `json:"status"`
	Message           string  `json:"message"`
	Suggestion        string  `json:"suggestion,omitempty"`
}

// Realistic reports whether the work fits in the available hours
func (f Feasibility) Realistic() bool {
	return f.Status == StatusGood || f.Status == StatusTight
}

// Calculator is the local fallback. HoursPerDay is a single policy constant
// for the whole deployment.
type Calculator struct {
	HoursPerDay float64
	Now         func() time.Time
}

func NewCalculator(hoursPerDay float64) *Calculator {
	if hoursPerDay <= 0 {
		hoursPerDay = DefaultHoursPerDay
	}
	return &Calculator{HoursPerDay: hoursPerDay, Now: time.Now}
}

// ParseDeadline accepts YYYY-MM-DD (midnight UTC) or RFC3339
func ParseDeadline(deadline string) (time.Time, error) {
	deadline = strings.TrimSpace(deadline)
	if t, err := time.Parse(DateLayout, deadline); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, deadline); err == nil {
		return t, nil
	}
	return time.Time{}, ErrInvalidDeadline
}

// DaysUntil returns max(1, ceil((deadline - now) in days))
func DaysUntil(deadline, now time.Time) int {
	days := int(math.Ceil(deadline.Sub(now).Hours() / 24))
	if days < 1 {
		return 1
	}
	return days
}

// SumHours totals task hours; this exact value is what messages quote
func SumHours(tasks []models.Task) float64 {
	total := 0.0
	for _, t := range tasks {
		total += float64(t.Hours)
	}
	return total
}

// Days returns days available before deadline as of c.Now
func (c *Calculator) Days(deadline string) (int, error) {
	d, err := ParseDeadline(deadline)
	if err != nil {
		return 0, err
	}
	return DaysUntil(d, c.now()), nil
}

// Assess classifies tasks against deadline
func (c *Calculator) Assess(tasks []models.Task, deadline string) (Feasibility, error) {
	days, err := c.Days(deadline)
	if err != nil {
		return Feasibility{}, err
	}
	return Classify(SumHours(tasks), days, c.HoursPerDay), nil
}

func (c *Calculator) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

// Classify is the pure feasibility policy:
// too_tight when total > available, tight when total > 0.7*available, else good.
func Classify(totalHours float64, daysAvailable int, hoursPerDay float64) Feasibility {
	if daysAvailable < 1 {
		daysAvailable = 1
	}
	if hoursPerDay <= 0 {
		hoursPerDay = DefaultHoursPerDay
	}
	available := float64(daysAvailable) * hoursPerDay
	needed := totalHours / float64(daysAvailable)

	f := Feasibility{
		TotalHours:        totalHours,
		AvailableHours:    available,
		DaysAvailable:     daysAvailable,
		HoursPerDay:       hoursPerDay,
		HoursPerDayNeeded: needed,
	}

	switch {
	case totalHours > available:
		f.Status = StatusTooTight
		f.Message = fmt.Sprintf("That's %sh of work. You need %sh per day, but only have %sh/day available. This won't work.",
			formatHours(totalHours), formatHours(round1(needed)), formatHours(hoursPerDay))
		extraDays := int(math.Ceil((totalHours - available) / hoursPerDay))
		f.Suggestion = fmt.Sprintf("Try: 1) Push deadline %d more days, 2) Remove %sh of work, or 3) Get help from teammates",
			extraDays, formatHours(totalHours-available))
	case totalHours > TightRatio*available:
		f.Status = StatusTight
		f.Message = fmt.Sprintf("That's %sh of work. You need %sh per day. That's tight but doable if you stay focused.",
			formatHours(totalHours), formatHours(round1(needed)))
		f.Suggestion = "Build in buffer time in case tasks take longer than expected."
	default:
		f.Status = StatusGood
		f.Message = fmt.Sprintf("That's %sh of work. You only need %sh per day. Great planning!",
			formatHours(totalHours), formatHours(round1(needed)))
	}
	return f
}

// Merge prefers the remote estimate and fills any zero field from local.
// An estimate with an unknown status is discarded.
func Merge(remote, local Feasibility) Feasibility {
	if !remote.Status.Valid() {
		return local
	}
	out := remote
	if out.TotalHours == 0 {
		out.TotalHours = local.TotalHours
	}
	if out.AvailableHours == 0 {
		out.AvailableHours = local.AvailableHours
	}
	if out.DaysAvailable == 0 {
		out.DaysAvailable = local.DaysAvailable
	}
	if out.HoursPerDay == 0 {
		out.HoursPerDay = local.HoursPerDay
	}
	if out.HoursPerDayNeeded == 0 && out.DaysAvailable > 0 {
		out.HoursPerDayNeeded = out.TotalHours / float64(out.DaysAvailable)
	}
	if out.Message == "" {
		out.Message = local.Message
	}
	return out
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func formatHours(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
