package scoring

import "strings"

// applyIndustryAdjustments applies contact and title adjustments to
// the raw weighted score, then enforces the exceptional-match ceiling
// and the score floor, in that order.
func applyIndustryAdjustments(a Analysis, cats CategoryScores, raw float64, rs Ruleset) float64 {
	score := raw

	if a.Contact != nil {
		if !a.Contact.HasEmail {
			score -= rs.Industry.MissingEmailPenalty
		}
		if !a.Contact.HasPhone {
			score -= rs.Industry.MissingPhonePenalty
		}
		if a.Contact.HasEmail && a.Contact.HasPhone && a.Contact.HasLinkedIn {
			score += rs.Industry.CompleteContactBonus
		}
	}

	if a.JobTitle != nil {
		switch strings.ToLower(strings.TrimSpace(a.JobTitle.TitleMatch)) {
		case "exact":
			score += rs.Industry.TitleExactBonus
		case "similar":
			score += rs.Industry.TitleSimilarBonus
		case "different":
			score -= rs.Industry.TitleDifferentPenalty
		}
	}

	if score > rs.Industry.CeilingTrigger && !meetsExceptionalGate(a, cats, rs) {
		score = rs.Industry.Ceiling
	}

	if score < rs.Industry.Floor {
		score = rs.Industry.Floor
	}
	if score > 100 {
		score = 100
	}
	return score
}

// meetsExceptionalGate reports whether enough near-perfect criteria
// hold to justify a score above the ceiling trigger. Each criterion is
// independent; the gate opens once GateCriteriaRequired of them hold.
func meetsExceptionalGate(a Analysis, cats CategoryScores, rs Ruleset) bool {
	met := 0

	if keywordMatchRate(a.Keywords) >= rs.Industry.GateKeywordRate {
		met++
	}

	if a.Experience != nil && strings.EqualFold(strings.TrimSpace(a.Experience.Match), "exceeds") {
		met++
	}

	if allRequiredSkillsFound(a.HardSkills) {
		met++
	}

	if atsCompatibilityScore(cats, rs) >= rs.Industry.GateATSScore {
		met++
	}

	return met >= rs.Industry.GateCriteriaRequired
}

// allRequiredSkillsFound is true only when the job names at least one
// required skill and the resume shows every one of them. An empty
// requirement list does not count as a perfect match.
func allRequiredSkillsFound(skills []HardSkill) bool {
	required := 0
	for _, s := range skills {
		if !s.RequiredForJob {
			continue
		}
		required++
		if !s.FoundInResume {
			return false
		}
	}
	return required > 0
}
