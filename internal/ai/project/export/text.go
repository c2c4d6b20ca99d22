// Package export renders a finished plan as plain text for the clipboard.
package export

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Jamolkhon5/sprintkit/internal/ai/project/timeline"
	"github.com/Jamolkhon5/sprintkit/internal/models"
)

const (
	NoAnswer      = "(no answer)"
	NoDeadline    = "N/A"
	SoloTeam      = "Solo project"
	Unassigned    = "Unassigned"
	DefaultEmoji  = "🏆"
	bannerLine    = "═══════════════════════════════════════════════════════════════════════════"
	sectionDivide = "───────────────────────────────────────────────────────────────────────────"
)

var hints = map[models.ProjectType]string{
	models.TypeHardware: "📤 Download your plan to show your team or teacher. Keep this plan handy so you can reference it as you build!",
	models.TypeSoftware: "📤 Your code repo is your real deliverable, but this plan shows your process. Great for documentation!",
	models.TypeCreative: "📤 Share your plan with your team to show how you managed the creative process from start to finish.",
	models.TypeEvent:    "📤 Use this to show how you organized an event. Your planning matters as much as the event itself!",
	models.TypeResearch: "📤 This shows your research methodology. Include it with your final findings: good process = credible research.",
	models.TypeOther:    "📤 You've got your complete project plan. Share it, print it, or save it for next time!",
}

// Hint returns the sharing tip for a project type
func Hint(t models.ProjectType) string {
	if h, ok := hints[t]; ok {
		return h
	}
	return hints[models.TypeOther]
}

// FormatDate turns YYYY-MM-DD into MM-DD-YYYY. Anything else is returned as is.
func FormatDate(iso string) string {
	iso = strings.TrimSpace(iso)
	if iso == "" {
		return NoDeadline
	}
	d, err := timeline.ParseDeadline(iso)
	if err != nil {
		return iso
	}
	return d.Format("01-02-2006")
}

// Text renders the plan summary. Output depends only on state.
func Text(state models.ProjectState) string {
	var b strings.Builder

	b.WriteString(bannerLine + "\n")
	b.WriteString("                          PROJECT PLAN SUMMARY\n")
	b.WriteString(bannerLine + "\n\n")

	fmt.Fprintf(&b, "📋 PROJECT: %s\n", state.Title)
	fmt.Fprintf(&b, "   Description: %s\n\n", state.Description)
	fmt.Fprintf(&b, "🎯 GOAL: %s\n", state.Goals.Goal)
	if c := strings.TrimSpace(state.Goals.SuccessCriteria); c != "" {
		fmt.Fprintf(&b, "   Success looks like: %s\n", c)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "👥 TEAM: %s\n\n", team(state.TeamMembers))

	b.WriteString(sectionDivide + "\n\n")

	b.WriteString("📝 TASKS:\n")
	for _, t := range state.Tasks {
		fmt.Fprintf(&b, "  • %s (%dh, %s) → %s\n", t.Name, t.Hours, t.Difficulty, assignee(state, t))
	}
	b.WriteString("\n")

	total := state.Timeline.TotalHours
	if total == 0 {
		total = float64(state.TotalHours())
	}
	b.WriteString("⏱️ TIMELINE:\n")
	fmt.Fprintf(&b, "   Total Work: %s hours\n", strconv.FormatFloat(total, 'f', -1, 64))
	fmt.Fprintf(&b, "   Deadline: %s\n\n", FormatDate(state.Timeline.Deadline))

	b.WriteString(sectionDivide + "\n\n")

	b.WriteString("🤔 REFLECTION:\n")
	b.WriteString(reflection(state.Reflection))
	b.WriteString("\n\n" + sectionDivide + "\n\n")

	if len(state.Insights) > 0 {
		b.WriteString("💡 KEY INSIGHTS:\n")
		for _, in := range state.Insights {
			fmt.Fprintf(&b, "   • %s\n", in)
		}
		b.WriteString("\n" + sectionDivide + "\n\n")
	}

	if len(state.Badges) > 0 {
		b.WriteString("🏆 BADGES EARNED:\n")
		for _, badge := range state.Badges {
			emoji := badge.Emoji
			if emoji == "" {
				emoji = DefaultEmoji
			}
			fmt.Fprintf(&b, "   %s %s: %s\n", emoji, badge.Name, badge.Reason)
		}
		b.WriteString("\n" + sectionDivide + "\n\n")
	}

	b.WriteString(bannerLine)
	return b.String()
}

func team(members []string) string {
	names := make([]string, 0, len(members))
	for _, m := range members {
		if m = strings.TrimSpace(m); m != "" {
			names = append(names, m)
		}
	}
	if len(names) == 0 {
		return SoloTeam
	}
	return strings.Join(names, ", ")
}

func assignee(state models.ProjectState, t models.Task) string {
	if who := state.Assignments[t.ID]; who != "" {
		return who
	}
	if t.AssignedTo != "" {
		return t.AssignedTo
	}
	return Unassigned
}

func reflection(r models.Reflection) string {
	if len(r.Prompts) == 0 {
		// nothing was ever asked; keep the familiar three headings
		return fmt.Sprintf("Went Well:\n%s\n\nWas Hard:\n%s\n\nWould Do Differently:\n%s", NoAnswer, NoAnswer, NoAnswer)
	}
	pairs := make([]string, 0, len(r.Prompts))
	for i, p := range r.Prompts {
		a, ok := r.Answer(i)
		if !ok {
			a = NoAnswer
		}
		pairs = append(pairs, fmt.Sprintf("Q: %s\nA: %s", p, a))
	}
	return strings.Join(pairs, "\n\n")
}
