package service

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/habitcoach/coaching-system/internal/core/ports"
)

var energyPattern = regexp.MustCompile(`energy.*?(\d+)`)

// keywordAnalysis is the coarse fallback used when the language
// service is unreachable. It is intentionally low-confidence: the
// point is that the feature degrades instead of failing outright.
func keywordAnalysis(transcript string) []ports.HabitUpdate {
	var updates []ports.HabitUpdate
	lower := strings.ToLower(transcript)

	if strings.Contains(lower, "weight") &&
		(strings.Contains(lower, "checked") || strings.Contains(lower, "weighed")) {
		updates = append(updates, ports.HabitUpdate{
			Field:        "weight_check",
			Value:        "yes",
			Confidence:   ports.ConfidenceMedium,
			OriginalText: "mentioned checking weight",
		})
	}

	if strings.Contains(lower, "workout") || strings.Contains(lower, "exercise") {
		value := "no"
		for _, done := range []string{"did", "completed", "finished"} {
			if strings.Contains(lower, done) {
				value = "yes"
				break
			}
		}
		updates = append(updates, ports.HabitUpdate{
			Field:        "workout",
			Value:        value,
			Confidence:   ports.ConfidenceMedium,
			OriginalText: "mentioned workout",
		})
	}

	if m := energyPattern.FindStringSubmatch(lower); m != nil {
		if level, err := strconv.Atoi(m[1]); err == nil && level >= 0 && level <= 10 {
			updates = append(updates, ports.HabitUpdate{
				Field:        "energy_level_2pm",
				Value:        level,
				Confidence:   ports.ConfidenceLow,
				OriginalText: "mentioned energy level " + m[1],
			})
		}
	}

	for _, kw := range []string{"ate", "had", "meal", "breakfast", "lunch", "dinner"} {
		if strings.Contains(lower, kw) {
			updates = append(updates, ports.HabitUpdate{
				Field:        "day_description",
				Value:        transcript,
				Confidence:   ports.ConfidenceLow,
				OriginalText: "mentioned food/meals",
			})
			break
		}
	}

	return updates
}
