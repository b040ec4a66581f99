package scoring

import (
	"fmt"
	"strings"
)

// buildRecommendations emits prioritized advice for the composite
// path. Entries appear in a fixed category order so repeated calls
// produce identical output.
func buildRecommendations(a Analysis, cats CategoryScores, rs Ruleset) []Recommendation {
	recs := make([]Recommendation, 0, 4)

	if cats.Keywords < rs.Recommend.KeywordThreshold {
		suggestion := "Work more of the job description's language into your summary and experience bullets."
		if a.Keywords != nil && len(a.Keywords.CriticalKeywordsMissing) > 0 {
			named := firstN(a.Keywords.CriticalKeywordsMissing, rs.Recommend.MaxNamed)
			suggestion = fmt.Sprintf("Add the missing critical keywords %s where they genuinely apply.", joinNames(named))
		}
		recs = append(recs, Recommendation{
			Category:   "keywords",
			Priority:   "high",
			Suggestion: suggestion,
			Impact:     "Keyword coverage is the largest factor in automated screening.",
		})
	}

	if cats.Experience < rs.Recommend.ExperienceThreshold {
		recs = append(recs, Recommendation{
			Category:   "experience",
			Priority:   "high",
			Suggestion: "Quantify your achievements with numbers, scope and outcomes so your experience reads at the required level.",
			Impact:     "Concrete results close the gap between your history and the role's requirements.",
		})
	}

	if cats.Skills < rs.Recommend.SkillsThreshold {
		suggestion := "Surface the required skills you actually have; they are not visible on the resume."
		if missing := missingRequiredSkills(a.HardSkills, rs.Recommend.MaxNamed); len(missing) > 0 {
			suggestion = fmt.Sprintf("Add evidence for the required skills %s, or closely related work.", joinNames(missing))
		}
		recs = append(recs, Recommendation{
			Category:   "skills",
			Priority:   "high",
			Suggestion: suggestion,
			Impact:     "Missing required skills are a common hard filter.",
		})
	}

	if cats.Format < rs.Recommend.FormatThreshold {
		recs = append(recs, Recommendation{
			Category:   "format",
			Priority:   "medium",
			Suggestion: "Use standard section headers (Contact, Experience, Skills, Education) and a single-column chronological layout.",
			Impact:     "Clean structure keeps parsers from dropping content.",
		})
	}

	return recs
}

// recommendationsFromAdjustments emits advice for the calibration
// path, driven by which penalty components actually fired.
func recommendationsFromAdjustments(a Analysis, adj Adjustments, rs Ruleset) []Recommendation {
	recs := make([]Recommendation, 0, 5)

	if adj.Skills > 0 {
		suggestion := "Address the missing skills the job treats as critical."
		if named := highImpactSkillNames(a, rs.Recommend.MaxNamed); len(named) > 0 {
			suggestion = fmt.Sprintf("Address the missing critical skills %s before applying.", joinNames(named))
		}
		recs = append(recs, Recommendation{
			Category:   "skills",
			Priority:   "high",
			Suggestion: suggestion,
			Impact:     "Critical skill gaps drive the largest deductions.",
		})
	}

	if adj.Experience > 0 {
		recs = append(recs, Recommendation{
			Category:   "experience",
			Priority:   "high",
			Suggestion: "Reframe recent roles to emphasize responsibilities at the required seniority and account for any gap.",
			Impact:     "Experience shortfalls are penalized per missing year and level.",
		})
	}

	if adj.Keywords > 0 {
		recs = append(recs, Recommendation{
			Category:   "keywords",
			Priority:   "high",
			Suggestion: "Mirror the job description's terminology; under half of its keywords appear on the resume.",
			Impact:     "Low keyword coverage reduces the calibrated score directly.",
		})
	}

	if adj.Education > 0 {
		recs = append(recs, Recommendation{
			Category:   "education",
			Priority:   "medium",
			Suggestion: "List relevant coursework or certifications that substitute for the requested degree.",
			Impact:     "Education mismatches carry a fixed deduction.",
		})
	}

	if adj.Format > 0 {
		recs = append(recs, Recommendation{
			Category:   "format",
			Priority:   "medium",
			Suggestion: "Simplify the layout; the resume scores poorly on ATS parseability.",
			Impact:     "Formatting deductions scale with the parseability shortfall.",
		})
	}

	return recs
}

func missingRequiredSkills(skills []HardSkill, limit int) []string {
	out := make([]string, 0, limit)
	for _, s := range skills {
		if s.RequiredForJob && !s.FoundInResume && strings.TrimSpace(s.Skill) != "" {
			out = append(out, s.Skill)
			if len(out) == limit {
				break
			}
		}
	}
	return out
}

func highImpactSkillNames(a Analysis, limit int) []string {
	out := make([]string, 0, limit)
	for _, s := range a.MissingCriticalSkills {
		if strings.EqualFold(strings.TrimSpace(s.Impact), "high") && strings.TrimSpace(s.Skill) != "" {
			out = append(out, s.Skill)
			if len(out) == limit {
				return out
			}
		}
	}
	for _, s := range a.MissingSkills {
		if strings.EqualFold(strings.TrimSpace(s.Priority), "high") && strings.TrimSpace(s.Skill) != "" {
			out = append(out, s.Skill)
			if len(out) == limit {
				return out
			}
		}
	}
	return out
}

func firstN(items []string, n int) []string {
	if len(items) <= n {
		return items
	}
	return items[:n]
}

func joinNames(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = fmt.Sprintf("%q", n)
	}
	switch len(quoted) {
	case 0:
		return ""
	case 1:
		return quoted[0]
	case 2:
		return quoted[0] + " and " + quoted[1]
	default:
		return strings.Join(quoted[:len(quoted)-1], ", ") + " and " + quoted[len(quoted)-1]
	}
}
