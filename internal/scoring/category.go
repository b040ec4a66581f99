package scoring

import "strings"

// CategoryScores are the four independent 0-100 ratings that feed the
// weighted composite.
type CategoryScores struct {
	Keywords   float64 `json:"keywords"`
	Experience float64 `json:"experience"`
	Skills     float64 `json:"skills"`
	Format     float64 `json:"format"`
}

func scoreCategories(a Analysis, rs Ruleset) CategoryScores {
	return CategoryScores{
		Keywords:   keywordScore(a.Keywords, rs),
		Experience: experienceScore(a.Experience, rs),
		Skills:     skillsScore(a.HardSkills, rs),
		Format:     formatScore(a.Structure, a.Format, rs),
	}
}

func keywordScore(ko *KeywordOptimization, rs Ruleset) float64 {
	if ko == nil {
		return rs.Defaults.Keywords
	}

	score := keywordMatchRate(ko) * rs.Keyword.MatchPoints

	criticalTotal := ko.CriticalKeywordsMatched + len(ko.CriticalKeywordsMissing)
	criticalRate := float64(ko.CriticalKeywordsMatched) / float64(maxInt(criticalTotal, 1))
	score += criticalRate * rs.Keyword.CriticalPoints

	bonus := ko.KeywordDensity / 100 * rs.Keyword.DensityPoints
	if bonus > rs.Keyword.DensityPoints {
		bonus = rs.Keyword.DensityPoints
	}
	score += bonus

	// Keyword stuffing reads badly to both parsers and humans.
	if ko.KeywordDensity > rs.Keyword.DensityCeiling {
		score -= (ko.KeywordDensity - rs.Keyword.DensityCeiling) * rs.Keyword.DensityPenaltyRate
	}

	return clamp(score, 0, 100)
}

func experienceScore(exp *ExperienceAnalysis, rs Ruleset) float64 {
	if exp == nil {
		return rs.Defaults.Experience
	}

	required := yearsOrZero(exp.RequiredYears)
	actual := yearsOrZero(exp.TotalYearsExperience)

	score := 0.0
	if actual >= required {
		score += rs.Experience.MeetsYearsPoints
		if actual > required*rs.Experience.ExceedsFactor {
			score += rs.Experience.ExceedsBonus
		}
	} else {
		denom := required
		if denom < 1 {
			denom = 1
		}
		score += actual / denom * rs.Experience.PartialYearsPoints
	}

	currentRank := levelRank(exp.CurrentLevel)
	requiredRank := levelRank(exp.RequiredLevel)
	if currentRank >= requiredRank {
		score += rs.Experience.LevelPoints
	} else {
		score += float64(currentRank) / float64(requiredRank) * rs.Experience.PartialLevelPoints
	}

	switch strings.ToLower(strings.TrimSpace(exp.CareerProgression)) {
	case "clear":
		score += rs.Experience.ProgressionClear
	case "moderate":
		score += rs.Experience.ProgressionModerate
	default:
		score += rs.Experience.ProgressionOther
	}

	switch strings.ToLower(strings.TrimSpace(exp.IndustryMatch)) {
	case "direct", "exact":
		score += rs.Experience.IndustryDirect
	case "related":
		score += rs.Experience.IndustryRelated
	default:
		score += rs.Experience.IndustryOther
	}

	return clamp(score, 0, 100)
}

func skillsScore(skills []HardSkill, rs Ruleset) float64 {
	if len(skills) == 0 {
		return rs.Defaults.Skills
	}

	requiredCount := 0
	foundRequired := 0
	foundTotal := 0
	categories := make(map[string]bool)
	for _, s := range skills {
		if s.RequiredForJob {
			requiredCount++
			if s.FoundInResume {
				foundRequired++
			}
		}
		if s.FoundInResume {
			foundTotal++
			if c := strings.ToLower(strings.TrimSpace(s.SkillCategory)); c != "" {
				categories[c] = true
			}
		}
	}

	score := 0.0
	if requiredCount > 0 {
		score += float64(foundRequired) / float64(requiredCount) * rs.Skills.RequiredPoints
	} else {
		score += rs.Skills.NoRequiredFlatPoints
	}

	score += float64(foundTotal) / float64(len(skills)) * rs.Skills.OverallPoints

	diversity := float64(len(categories)) * rs.Skills.DiversityPerCategory
	if diversity > rs.Skills.DiversityMax {
		diversity = rs.Skills.DiversityMax
	}
	score += diversity

	return clamp(score, 0, 100)
}

func formatScore(structure *ResumeStructure, format *FormatAnalysis, rs Ruleset) float64 {
	if structure == nil {
		return rs.Defaults.Format
	}

	essentialEach := rs.Format.EssentialPoints / 3
	beneficialEach := rs.Format.BeneficialPoints / 2

	score := 0.0
	if structure.HasContactSection {
		score += essentialEach
	}
	if structure.HasExperienceSection {
		score += essentialEach
	}
	if structure.HasSkillsSection {
		score += essentialEach
	}
	if structure.HasSummarySection {
		score += beneficialEach
	}
	if structure.HasEducationSection {
		score += beneficialEach
	}
	if structure.ChronologicalFormat {
		score += rs.Format.ChronologicalBonus
	}

	if format != nil {
		score -= float64(len(format.FormatIssues)) * rs.Format.IssuePenalty
		score -= float64(len(format.ParsingConcerns)) * rs.Format.ConcernPenalty
	}

	return clamp(score, 0, 100)
}

// keywordMatchRate is the overall matched/total ratio in [0,1].
func keywordMatchRate(ko *KeywordOptimization) float64 {
	if ko == nil {
		return 0
	}
	return float64(ko.TotalMatchedKeywords) / float64(maxInt(ko.TotalJobKeywords, 1))
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
