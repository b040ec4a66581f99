package scoring

import (
	"fmt"
	"strings"
)

// buildExplanation produces the calibration path's one-paragraph
// explanation: the score, a qualitative sentence, and an itemized
// clause when the total penalty is large enough to be worth naming.
func buildExplanation(score int, adj Adjustments, rs Ruleset) string {
	var b strings.Builder
	fmt.Fprintf(&b, "The resume scored %d out of 100 against this job description. ", score)

	switch {
	case float64(score) >= rs.Explain.GoodScore:
		b.WriteString("Overall this is a competitive match with room to improve.")
	case float64(score) >= rs.Explain.ModerateScore:
		b.WriteString("The match is moderate; targeted changes would raise it meaningfully.")
	default:
		b.WriteString("The match is weak for this role as currently written.")
	}

	if adj.Total > rs.Explain.PenaltyNoteThreshold {
		causes := penaltyCauses(adj, rs)
		if len(causes) > 0 {
			b.WriteString(" The largest deductions came from ")
			b.WriteString(joinClauses(causes))
			b.WriteString(".")
		}
	}

	return b.String()
}

func penaltyCauses(adj Adjustments, rs Ruleset) []string {
	causes := make([]string, 0, 5)
	if adj.Skills > rs.Explain.SkillsItem {
		causes = append(causes, "missing critical skills")
	}
	if adj.Experience > rs.Explain.ExperienceItem {
		causes = append(causes, "an experience shortfall")
	}
	if adj.Education > rs.Explain.EducationItem {
		causes = append(causes, "an education mismatch")
	}
	if adj.Format > rs.Explain.FormatItem {
		causes = append(causes, "formatting that may not parse cleanly")
	}
	if adj.Keywords > rs.Explain.KeywordItem {
		causes = append(causes, "low keyword coverage")
	}
	return causes
}

func joinClauses(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return items[0] + " and " + items[1]
	default:
		return strings.Join(items[:len(items)-1], ", ") + " and " + items[len(items)-1]
	}
}
