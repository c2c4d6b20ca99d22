package service

import (
	"regexp"
	"strings"

	"github.com/Jamolkhon5/sprintkit/internal/models"
)

// TypeDetector guesses a project type from keywords when the backend
// cannot classify the project.
type TypeDetector struct {
	wordRegex *regexp.Regexp
	keywords  map[string]models.ProjectType
	order     []models.ProjectType
}

func NewTypeDetector() *TypeDetector {
	return &TypeDetector{
		wordRegex: regexp.MustCompile(`[a-z0-9]+`),
		keywords: map[string]models.ProjectType{
			"robot":       models.TypeHardware,
			"build":       models.TypeHardware,
			"circuit":     models.TypeHardware,
			"arduino":     models.TypeHardware,
			"motor":       models.TypeHardware,
			"model":       models.TypeHardware,
			"bridge":      models.TypeHardware,
			"app":         models.TypeSoftware,
			"code":        models.TypeSoftware,
			"game":        models.TypeSoftware,
			"website":     models.TypeSoftware,
			"program":     models.TypeSoftware,
			"software":    models.TypeSoftware,
			"video":       models.TypeCreative,
			"film":        models.TypeCreative,
			"story":       models.TypeCreative,
			"comic":       models.TypeCreative,
			"music":       models.TypeCreative,
			"song":        models.TypeCreative,
			"mural":       models.TypeCreative,
			"podcast":     models.TypeCreative,
			"fundraiser":  models.TypeEvent,
			"party":       models.TypeEvent,
			"event":       models.TypeEvent,
			"festival":    models.TypeEvent,
			"fair":        models.TypeEvent,
			"tournament":  models.TypeEvent,
			"research":    models.TypeResearch,
			"survey":      models.TypeResearch,
			"experiment":  models.TypeResearch,
			"study":       models.TypeResearch,
			"investigate": models.TypeResearch,
			"report":      models.TypeResearch,
		},
		// ties go to the earlier type
		order: []models.ProjectType{
			models.TypeHardware,
			models.TypeSoftware,
			models.TypeCreative,
			models.TypeEvent,
			models.TypeResearch,
		},
	}
}

// Detect scores title and description keywords. Title words count double.
func (td *TypeDetector) Detect(title, description string) models.ProjectType {
	scores := make(map[models.ProjectType]int)
	for _, w := range td.words(title) {
		if t, ok := td.match(w); ok {
			scores[t] += 2
		}
	}
	for _, w := range td.words(description) {
		if t, ok := td.match(w); ok {
			scores[t]++
		}
	}

	best, bestScore := models.TypeOther, 0
	for _, t := range td.order {
		if scores[t] > bestScore {
			best, bestScore = t, scores[t]
		}
	}
	return best
}

func (td *TypeDetector) words(text string) []string {
	return td.wordRegex.FindAllString(strings.ToLower(text), -1)
}

// match accepts simple plurals and verb forms ("robots", "coding")
func (td *TypeDetector) match(word string) (models.ProjectType, bool) {
	if t, ok := td.keywords[word]; ok {
		return t, true
	}
	for _, suffix := range []string{"s", "es", "ing", "ed"} {
		if stem, ok := strings.CutSuffix(word, suffix); ok && stem != "" {
			if t, ok := td.keywords[stem]; ok {
				return t, true
			}
			if t, ok := td.keywords[stem+"e"]; ok {
				return t, true
			}
		}
	}
	return "", false
}
