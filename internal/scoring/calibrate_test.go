package scoring

import (
	"reflect"
	"strings"
	"testing"
)

func TestCalibrateNoOpWithoutNumericScore(t *testing.T) {
	inputs := []ScoredAnalysis{
		{OverallScore: "NaN-ish"},
		{OverallScore: nil},
		{OverallScore: "85"},
		{
			OverallScore: map[string]any{"value": 70},
			Analysis: Analysis{
				Education: &EducationAnalysis{DegreeMatch: "missing"},
			},
		},
	}
	for i, in := range inputs {
		out := CalibrateScore(in)
		if !reflect.DeepEqual(out, in) {
			t.Fatalf("input %d: expected no-op, got %+v", i, out)
		}
		if out.Adjustments != nil {
			t.Fatalf("input %d: no-op result must carry nil adjustments", i)
		}
	}
}

func TestCalibrateScenarioPenaltyAccumulation(t *testing.T) {
	// 70 - (2 high-priority missing skills = 20) - (gap "2 years" = 10,
	// senior required vs mid candidate = 10) - (related degree = 10)
	in := ScoredAnalysis{
		OverallScore: float64(70),
		Analysis: Analysis{
			MissingSkills: []MissingSkill{
				{Skill: "Kubernetes", Priority: "high"},
				{Skill: "Terraform", Priority: "high"},
			},
			Experience: &ExperienceAnalysis{
				ExperienceGap: "2 years",
				RequiredLevel: "senior",
				CurrentLevel:  "mid",
			},
			Education: &EducationAnalysis{DegreeMatch: "related"},
		},
	}

	out := CalibrateScore(in)
	if out.Adjustments == nil {
		t.Fatalf("expected adjustments on calibrated result")
	}
	adj := *out.Adjustments
	if adj.Skills != 20 {
		t.Fatalf("skills penalty = %v, want 20", adj.Skills)
	}
	if adj.Experience != 20 {
		t.Fatalf("experience penalty = %v, want 20", adj.Experience)
	}
	if adj.Education != 10 {
		t.Fatalf("education penalty = %v, want 10", adj.Education)
	}
	if adj.Total != 50 {
		t.Fatalf("total penalty = %v, want 50", adj.Total)
	}
	if out.OverallScore != 20 {
		t.Fatalf("calibrated score = %v, want 20", out.OverallScore)
	}
	if out.MatchLevel != MatchPoor {
		t.Fatalf("match level = %q, want %q", out.MatchLevel, MatchPoor)
	}
	if out.OriginalScore == nil || *out.OriginalScore != 70 {
		t.Fatalf("original score not preserved: %v", out.OriginalScore)
	}
}

func TestCalibrateNeverNegative(t *testing.T) {
	in := ScoredAnalysis{
		OverallScore: float64(10),
		Analysis: Analysis{
			MissingCriticalSkills: []MissingSkill{
				{Skill: "Go", Impact: "high"},
				{Skill: "SQL", Impact: "high"},
				{Skill: "AWS", Impact: "high"},
			},
			Education: &EducationAnalysis{
				DegreeMatch:           "missing",
				CertificationsMissing: []string{"CKA", "AWS SAA"},
			},
		},
	}
	out := CalibrateScore(in)
	if out.OverallScore != 0 {
		t.Fatalf("calibrated score = %v, want floor 0", out.OverallScore)
	}
}

func TestCalibrateGapPenaltyIsCapped(t *testing.T) {
	in := ScoredAnalysis{
		OverallScore: float64(90),
		Analysis: Analysis{
			Experience: &ExperienceAnalysis{ExperienceGap: "8 years"},
		},
	}
	out := CalibrateScore(in)
	if out.Adjustments.Experience != DefaultRuleset().Penalty.GapPenaltyCap {
		t.Fatalf("gap penalty = %v, want capped at %v", out.Adjustments.Experience, DefaultRuleset().Penalty.GapPenaltyCap)
	}
}

func TestCalibrateExceptionalCeiling(t *testing.T) {
	base := Analysis{
		Experience: &ExperienceAnalysis{IndustryMatch: "exact"},
		Education:  &EducationAnalysis{DegreeMatch: "exact"},
		Format:     &FormatAnalysis{ATSFriendlyScore: 95},
	}

	t.Run("four_criteria_keep_high_score", func(t *testing.T) {
		// no missing skills, exact industry with no gap, exact degree
		// with no missing certs, ATS >= 90: four of five criteria.
		in := ScoredAnalysis{OverallScore: float64(95), Analysis: base}
		out := CalibrateScore(in)
		if out.OverallScore != 95 {
			t.Fatalf("calibrated score = %v, want 95", out.OverallScore)
		}
		if out.MatchLevel != MatchExcellent {
			t.Fatalf("match level = %q, want %q", out.MatchLevel, MatchExcellent)
		}
	})

	t.Run("three_criteria_get_capped", func(t *testing.T) {
		a := base
		a.Format = &FormatAnalysis{ATSFriendlyScore: 85} // drops criterion four
		in := ScoredAnalysis{OverallScore: float64(95), Analysis: a}
		out := CalibrateScore(in)
		if out.OverallScore != int(DefaultRuleset().Penalty.Ceiling) {
			t.Fatalf("calibrated score = %v, want capped at %v", out.OverallScore, DefaultRuleset().Penalty.Ceiling)
		}
	})
}

func TestCalibrateMinorIssueCap(t *testing.T) {
	// Score stays in (60,80], keyword match 60% is below the 65%
	// minor-issue line but above the 50% penalty line.
	in := ScoredAnalysis{
		OverallScore: float64(75),
		Analysis: Analysis{
			Keywords: &KeywordOptimization{
				TotalJobKeywords:     10,
				TotalMatchedKeywords: 6,
			},
		},
	}
	out := CalibrateScore(in)
	if out.Adjustments.Total != 0 {
		t.Fatalf("expected no penalties, got total %v", out.Adjustments.Total)
	}
	if out.OverallScore != int(DefaultRuleset().Penalty.MinorCap) {
		t.Fatalf("calibrated score = %v, want minor-issue cap %v", out.OverallScore, DefaultRuleset().Penalty.MinorCap)
	}
	if out.MatchLevel != MatchGood {
		t.Fatalf("match level = %q, want %q", out.MatchLevel, MatchGood)
	}
}

func TestCalibrateDoesNotMutateInput(t *testing.T) {
	in := ScoredAnalysis{
		OverallScore: float64(70),
		Analysis: Analysis{
			Education: &EducationAnalysis{DegreeMatch: "related"},
		},
	}
	snapshot := ScoredAnalysis{
		OverallScore: float64(70),
		Analysis: Analysis{
			Education: &EducationAnalysis{DegreeMatch: "related"},
		},
	}
	_ = CalibrateScore(in)
	if !reflect.DeepEqual(in, snapshot) {
		t.Fatalf("input was mutated by calibration")
	}
}

func TestCalibratedMatchLevels(t *testing.T) {
	rs := DefaultRuleset()
	cases := []struct {
		score float64
		want  string
	}{
		{75, MatchExcellent},
		{74, MatchGood},
		{55, MatchGood},
		{54, MatchFair},
		{35, MatchFair},
		{34, MatchPoor},
		{0, MatchPoor},
	}
	for _, tc := range cases {
		if got := calibratedMatchLevel(tc.score, rs); got != tc.want {
			t.Fatalf("calibratedMatchLevel(%v) = %q, want %q", tc.score, got, tc.want)
		}
	}
}

func TestCalibrateExplanationMentionsLargePenalties(t *testing.T) {
	in := ScoredAnalysis{
		OverallScore: float64(70),
		Analysis: Analysis{
			MissingSkills: []MissingSkill{
				{Skill: "Kubernetes", Priority: "high"},
				{Skill: "Terraform", Priority: "high"},
			},
			Experience: &ExperienceAnalysis{
				ExperienceGap: "2 years",
				RequiredLevel: "senior",
				CurrentLevel:  "mid",
			},
			Education: &EducationAnalysis{DegreeMatch: "related"},
		},
	}
	out := CalibrateScore(in)
	if out.Explanation == "" {
		t.Fatalf("expected an explanation")
	}
	if !strings.Contains(out.Explanation, "scored 20 out of 100") {
		t.Fatalf("explanation should state the score: %q", out.Explanation)
	}
	for _, want := range []string{"missing critical skills", "experience shortfall", "education mismatch"} {
		if !strings.Contains(out.Explanation, want) {
			t.Fatalf("explanation missing %q: %q", want, out.Explanation)
		}
	}
}
