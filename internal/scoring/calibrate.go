package scoring

import (
	"math"
	"strings"
)

// PenaltyCalibrator recalibrates an already-scored analysis by
// subtracting penalties for missing skills, experience gaps, education
// mismatches, format problems and weak keyword coverage.
//
// The calibrator and the composite scorer are independent strategies.
// Running the calibrator over a composite result would penalize the
// same weaknesses a second time under a different rule set, so callers
// must choose exactly one strategy per analysis. The original score is
// kept on the output so downstream consumers can tell a calibrated
// analysis apart from a raw one.
type PenaltyCalibrator struct {
	Rules Ruleset
}

// NewPenaltyCalibrator constructs a calibrator over the default ruleset.
func NewPenaltyCalibrator() PenaltyCalibrator {
	return PenaltyCalibrator{Rules: DefaultRuleset()}
}

// CalibrateScore runs the penalty strategy with the default ruleset.
func CalibrateScore(a ScoredAnalysis) ScoredAnalysis {
	return NewPenaltyCalibrator().Calibrate(a)
}

// Calibrate subtracts the penalty components from the overall score,
// re-applies ceiling rules and derives the match level, explanation
// and recommendations. When the input carries no numeric overall
// score, the input is returned unchanged; callers can detect that by
// checking for a nil Adjustments on the result.
func (c PenaltyCalibrator) Calibrate(a ScoredAnalysis) ScoredAnalysis {
	rs := c.Rules

	original, ok := numericScore(a.OverallScore)
	if !ok {
		return a
	}

	adj := c.adjustments(a.Analysis)

	score := original - adj.Total
	if score < 0 {
		score = 0
	}
	score = c.applyBounds(a.Analysis, score)
	overall := int(math.Round(score))

	out := a
	out.OverallScore = overall
	out.OriginalScore = &original
	out.Adjustments = &adj
	out.MatchLevel = calibratedMatchLevel(float64(overall), rs)
	out.Explanation = buildExplanation(overall, adj, rs)
	out.Recommendations = recommendationsFromAdjustments(a.Analysis, adj, rs)
	return out
}

func (c PenaltyCalibrator) adjustments(a Analysis) Adjustments {
	rs := c.Rules
	var adj Adjustments

	adj.Skills = rs.Penalty.CriticalSkillPenalty*float64(countByImpact(a.MissingCriticalSkills, "high")) +
		rs.Penalty.HighPrioritySkillPenalty*float64(countByPriority(a.MissingSkills, "high"))

	if a.Experience != nil {
		gap := yearsOrZero(a.Experience.ExperienceGap) * rs.Penalty.GapYearPenalty
		if gap > rs.Penalty.GapPenaltyCap {
			gap = rs.Penalty.GapPenaltyCap
		}
		adj.Experience = gap

		levelsBelow := levelRank(a.Experience.RequiredLevel) - levelRank(a.Experience.CurrentLevel)
		if levelsBelow > 0 {
			adj.Experience += rs.Penalty.LevelMismatchPenalty * float64(levelsBelow)
		}
	}

	if a.Education != nil {
		switch strings.ToLower(strings.TrimSpace(a.Education.DegreeMatch)) {
		case "missing":
			adj.Education = rs.Penalty.MissingDegreePenalty
		case "related":
			adj.Education = rs.Penalty.RelatedDegreePenalty
		}
		adj.Education += rs.Penalty.MissingCertPenalty * float64(len(a.Education.CertificationsMissing))
	}

	if a.Format != nil && a.Format.ATSFriendlyScore < rs.Penalty.FormatThreshold {
		adj.Format = (rs.Penalty.FormatThreshold - a.Format.ATSFriendlyScore) * rs.Penalty.FormatRate
	}

	if a.Keywords != nil {
		matchPercent := keywordMatchRate(a.Keywords) * 100
		if matchPercent < rs.Penalty.KeywordThreshold {
			adj.Keywords = (rs.Penalty.KeywordThreshold - matchPercent) * rs.Penalty.KeywordRate
		}
	}

	adj.Total = adj.Skills + adj.Experience + adj.Education + adj.Format + adj.Keywords
	return adj
}

// applyBounds enforces the calibration-path ceilings: a score above
// the ceiling trigger needs the exceptional criterion set, and a score
// in the minor-issue window is capped when minor issues are present.
func (c PenaltyCalibrator) applyBounds(a Analysis, score float64) float64 {
	rs := c.Rules

	if score > rs.Penalty.CeilingTrigger && !meetsCalibratedExceptional(a, rs) {
		return rs.Penalty.Ceiling
	}

	if score > rs.Penalty.MinorCapLow && score <= rs.Penalty.CeilingTrigger && hasMinorIssues(a, rs) {
		return rs.Penalty.MinorCap
	}

	return score
}

// meetsCalibratedExceptional is the calibration path's own gate: at
// least ExceptionalRequired of five near-perfect criteria. It is
// intentionally distinct from the composite gate.
func meetsCalibratedExceptional(a Analysis, rs Ruleset) bool {
	met := 0

	if countByImpact(a.MissingCriticalSkills, "high") == 0 && countByPriority(a.MissingSkills, "high") == 0 {
		met++
	}

	if a.Experience != nil {
		industry := strings.ToLower(strings.TrimSpace(a.Experience.IndustryMatch))
		if (industry == "exact" || industry == "direct") && yearsOrZero(a.Experience.ExperienceGap) == 0 {
			met++
		}
	}

	if a.Education != nil &&
		strings.EqualFold(strings.TrimSpace(a.Education.DegreeMatch), "exact") &&
		len(a.Education.CertificationsMissing) == 0 {
		met++
	}

	if a.Format != nil && a.Format.ATSFriendlyScore >= rs.Penalty.ExceptionalATSScore {
		met++
	}

	if a.Keywords != nil && keywordMatchRate(a.Keywords)*100 >= rs.Penalty.ExceptionalKeywordMatch {
		met++
	}

	return met >= rs.Penalty.ExceptionalRequired
}

func hasMinorIssues(a Analysis, rs Ruleset) bool {
	if countByPriority(a.MissingSkills, "medium") > rs.Penalty.MinorMediumSkills {
		return true
	}
	if a.Format != nil && a.Format.ATSFriendlyScore < rs.Penalty.MinorFormatScore {
		return true
	}
	if a.Keywords != nil && keywordMatchRate(a.Keywords)*100 < rs.Penalty.MinorKeywordMatch {
		return true
	}
	return false
}

func countByImpact(skills []MissingSkill, impact string) int {
	n := 0
	for _, s := range skills {
		if strings.EqualFold(strings.TrimSpace(s.Impact), impact) {
			n++
		}
	}
	return n
}

func countByPriority(skills []MissingSkill, priority string) int {
	n := 0
	for _, s := range skills {
		if strings.EqualFold(strings.TrimSpace(s.Priority), priority) {
			n++
		}
	}
	return n
}
