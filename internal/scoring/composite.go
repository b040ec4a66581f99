package scoring

import "math"

// CompositeScorer turns a structured analysis into a bounded overall
// score by combining four category sub-scores with fixed weights and
// then applying the industry adjustment pass.
type CompositeScorer struct {
	Rules Ruleset
}

// NewCompositeScorer constructs a scorer over the default ruleset.
func NewCompositeScorer() CompositeScorer {
	return CompositeScorer{Rules: DefaultRuleset()}
}

// ScoreAnalysis runs the composite strategy with the default ruleset.
// This is the canonical production path.
func ScoreAnalysis(a Analysis) Result {
	return NewCompositeScorer().Score(a)
}

// Score computes category scores, the weighted raw score, the industry
// adjustment and the derived ATS block and recommendations. The input
// is never mutated and identical inputs produce identical results.
func (s CompositeScorer) Score(a Analysis) Result {
	rs := s.Rules
	cats := scoreCategories(a, rs)

	raw := cats.Keywords*rs.Weights.Keywords +
		cats.Experience*rs.Weights.Experience +
		cats.Skills*rs.Weights.Skills +
		cats.Format*rs.Weights.Format

	adjusted := applyIndustryAdjustments(a, cats, raw, rs)
	overall := int(math.Round(adjusted))

	return Result{
		OverallScore:    overall,
		MatchLevel:      compositeMatchLevel(float64(overall), rs),
		CategoryScores:  cats,
		Weights:         rs.Weights,
		Breakdown:       buildBreakdown(cats, rs),
		ATS:             buildATSCompatibility(cats, rs),
		Recommendations: buildRecommendations(a, cats, rs),
	}
}

func buildBreakdown(cats CategoryScores, rs Ruleset) []BreakdownEntry {
	entries := []BreakdownEntry{
		{
			Category: "keywords",
			Score:    cats.Keywords,
			Weight:   rs.Weights.Keywords,
			Note:     "keyword coverage carries the largest weight in screening",
		},
		{
			Category: "experience",
			Score:    cats.Experience,
			Weight:   rs.Weights.Experience,
			Note:     "years, seniority and trajectory against the role",
		},
		{
			Category: "skills",
			Score:    cats.Skills,
			Weight:   rs.Weights.Skills,
			Note:     "required and adjacent hard skills present on the resume",
		},
		{
			Category: "format",
			Score:    cats.Format,
			Weight:   rs.Weights.Format,
			Note:     "section structure and machine parseability",
		},
	}
	for i := range entries {
		entries[i].Contribution = math.Round(entries[i].Score * entries[i].Weight)
	}
	return entries
}

func buildATSCompatibility(cats CategoryScores, rs Ruleset) ATSCompatibility {
	compat := atsCompatibilityScore(cats, rs)

	issues := make([]string, 0, 4)
	if cats.Keywords < rs.ATS.KeywordWarn {
		issues = append(issues, "low keyword match")
	}
	if cats.Format < rs.ATS.FormatWarn {
		issues = append(issues, "parsing risk")
	}
	if cats.Skills < rs.ATS.SkillsWarn {
		issues = append(issues, "too many missing required skills")
	}
	if cats.Experience < rs.ATS.ExperienceWarn {
		issues = append(issues, "experience below requirement")
	}

	return ATSCompatibility{
		LikelyToPassScreening: compat >= rs.ATS.PassThreshold,
		CompatibilityScore:    compat,
		CriticalIssues:        issues,
	}
}

func atsCompatibilityScore(cats CategoryScores, rs Ruleset) float64 {
	average := (cats.Keywords + cats.Experience + cats.Skills + cats.Format) / 4
	return cats.Keywords*rs.ATS.KeywordShare +
		cats.Format*rs.ATS.FormatShare +
		average*rs.ATS.AverageShare
}
