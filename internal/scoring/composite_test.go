package scoring

import (
	"math"
	"reflect"
	"testing"
)

// strongAnalysis is a near-complete resume that lands above the
// ceiling trigger before gating: weighted raw ~82.9, complete contact
// (+5), exact title (+8).
func strongAnalysis() Analysis {
	return Analysis{
		Contact: &ContactAnalysis{
			HasPhone:    true,
			HasEmail:    true,
			HasLocation: true,
			HasLinkedIn: true,
		},
		JobTitle: &JobTitleAnalysis{TitleMatch: "exact"},
		Keywords: &KeywordOptimization{
			TotalJobKeywords:        10,
			TotalMatchedKeywords:    8,
			CriticalKeywordsMatched: 5,
			KeywordDensity:          2,
		},
		Experience: &ExperienceAnalysis{
			RequiredYears:        "3 years",
			TotalYearsExperience: "5 years",
			RequiredLevel:        "mid",
			CurrentLevel:         "senior",
			CareerProgression:    "moderate",
			IndustryMatch:        "related",
			Match:                "exceeds",
		},
		HardSkills: []HardSkill{
			{Skill: "Go", FoundInResume: true, RequiredForJob: true, SkillCategory: "languages"},
			{Skill: "PostgreSQL", FoundInResume: true, RequiredForJob: true, SkillCategory: "databases"},
			{Skill: "Docker", FoundInResume: true, RequiredForJob: true, SkillCategory: "infrastructure"},
			{Skill: "Kubernetes", FoundInResume: false, RequiredForJob: true, SkillCategory: "infrastructure"},
			{Skill: "gRPC", FoundInResume: true, RequiredForJob: true, SkillCategory: "languages"},
		},
		Structure: &ResumeStructure{
			HasContactSection:    true,
			HasSummarySection:    true,
			HasSkillsSection:     true,
			HasExperienceSection: true,
			HasEducationSection:  true,
			ChronologicalFormat:  true,
		},
	}
}

func TestScoreAnalysisDeterminism(t *testing.T) {
	a := strongAnalysis()
	first := ScoreAnalysis(a)
	second := ScoreAnalysis(a)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("repeated scoring of the same analysis diverged:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestScoreAnalysisDoesNotMutateInput(t *testing.T) {
	a := strongAnalysis()
	snapshot := strongAnalysis()
	_ = ScoreAnalysis(a)
	if !reflect.DeepEqual(a, snapshot) {
		t.Fatalf("input analysis was mutated")
	}
}

func TestWeightsSumToOne(t *testing.T) {
	w := DefaultRuleset().Weights
	sum := w.Keywords + w.Experience + w.Skills + w.Format
	if math.Abs(sum-1.0) > 1e-12 {
		t.Fatalf("weights sum to %v, want exactly 1.0", sum)
	}
}

func TestScoreAnalysisBounds(t *testing.T) {
	inputs := []Analysis{
		{}, // everything missing -> all defaults
		strongAnalysis(),
		{
			Contact:  &ContactAnalysis{}, // no email, no phone
			JobTitle: &JobTitleAnalysis{TitleMatch: "different"},
			Keywords: &KeywordOptimization{
				TotalJobKeywords:        12,
				CriticalKeywordsMissing: []string{"Go", "Kubernetes", "Terraform"},
			},
			Experience: &ExperienceAnalysis{
				RequiredYears: "10 years",
				RequiredLevel: "executive",
				CurrentLevel:  "entry",
			},
			HardSkills: []HardSkill{
				{Skill: "Go", RequiredForJob: true},
				{Skill: "Kubernetes", RequiredForJob: true},
			},
			Structure: &ResumeStructure{},
			Format: &FormatAnalysis{
				FormatIssues:    []string{"tables", "columns", "graphics"},
				ParsingConcerns: []string{"header image", "footer text"},
			},
		},
	}

	rs := DefaultRuleset()
	for i, a := range inputs {
		result := ScoreAnalysis(a)
		if result.OverallScore < int(rs.Industry.Floor) || result.OverallScore > 100 {
			t.Fatalf("input %d: overall score %d outside [%v,100]", i, result.OverallScore, rs.Industry.Floor)
		}
		for _, c := range []float64{
			result.CategoryScores.Keywords,
			result.CategoryScores.Experience,
			result.CategoryScores.Skills,
			result.CategoryScores.Format,
		} {
			if c < 0 || c > 100 {
				t.Fatalf("input %d: category score %v outside [0,100]", i, c)
			}
		}
	}
}

func TestScoreAnalysisFloor(t *testing.T) {
	weak := Analysis{
		Contact:  &ContactAnalysis{},
		JobTitle: &JobTitleAnalysis{TitleMatch: "different"},
		Keywords: &KeywordOptimization{
			TotalJobKeywords:        15,
			CriticalKeywordsMissing: []string{"Go", "SQL"},
		},
		Experience: &ExperienceAnalysis{
			RequiredYears: "10 years",
			RequiredLevel: "executive",
			CurrentLevel:  "entry",
		},
		HardSkills: []HardSkill{
			{Skill: "Go", RequiredForJob: true},
			{Skill: "SQL", RequiredForJob: true},
			{Skill: "Docker", RequiredForJob: true},
		},
		Structure: &ResumeStructure{},
		Format: &FormatAnalysis{
			FormatIssues: []string{"a", "b", "c", "d"},
		},
	}

	result := ScoreAnalysis(weak)
	if result.OverallScore != int(DefaultRuleset().Industry.Floor) {
		t.Fatalf("overall score = %d, want the floor %v", result.OverallScore, DefaultRuleset().Industry.Floor)
	}
	if result.MatchLevel != MatchPoor {
		t.Fatalf("match level = %q, want %q", result.MatchLevel, MatchPoor)
	}
}

func TestExceptionalGateCapsHighScores(t *testing.T) {
	// Only one gate criterion holds (experience "exceeds"): keyword
	// rate is 0.8, one required skill is missing, and the ATS score
	// sits below 90. The adjusted score would otherwise exceed 80.
	a := strongAnalysis()
	result := ScoreAnalysis(a)
	if result.OverallScore != int(DefaultRuleset().Industry.Ceiling) {
		t.Fatalf("overall score = %d, want capped at %v", result.OverallScore, DefaultRuleset().Industry.Ceiling)
	}
}

func TestExceptionalGateOpensWithThreeCriteria(t *testing.T) {
	a := strongAnalysis()
	// Perfect keyword coverage, every required skill found, still
	// "exceeds": three of four criteria.
	a.Keywords = &KeywordOptimization{
		TotalJobKeywords:        10,
		TotalMatchedKeywords:    10,
		CriticalKeywordsMatched: 3,
		KeywordDensity:          2.5,
	}
	for i := range a.HardSkills {
		a.HardSkills[i].FoundInResume = true
	}
	a.Experience.CareerProgression = "clear"
	a.Experience.IndustryMatch = "direct"

	result := ScoreAnalysis(a)
	if result.OverallScore <= int(DefaultRuleset().Industry.Ceiling) {
		t.Fatalf("overall score = %d, expected the gate to allow more than %v", result.OverallScore, DefaultRuleset().Industry.Ceiling)
	}
	if result.OverallScore > 100 {
		t.Fatalf("overall score = %d exceeds 100", result.OverallScore)
	}
}

func TestBreakdownRoundTrip(t *testing.T) {
	result := ScoreAnalysis(strongAnalysis())
	rs := DefaultRuleset()

	raw := result.CategoryScores.Keywords*rs.Weights.Keywords +
		result.CategoryScores.Experience*rs.Weights.Experience +
		result.CategoryScores.Skills*rs.Weights.Skills +
		result.CategoryScores.Format*rs.Weights.Format

	sum := 0.0
	for _, entry := range result.Breakdown {
		sum += entry.Contribution
	}
	// each of the four contributions is rounded to the nearest integer
	if math.Abs(sum-raw) > 2 {
		t.Fatalf("breakdown contributions sum %v too far from raw weighted score %v", sum, raw)
	}
}

func TestATSCompatibility(t *testing.T) {
	rs := DefaultRuleset()
	cats := CategoryScores{Keywords: 30, Experience: 35, Skills: 20, Format: 45}
	ats := buildATSCompatibility(cats, rs)

	// 30*0.5 + 45*0.3 + 32.5*0.2
	want := 15.0 + 13.5 + 6.5
	if !almostEqual(ats.CompatibilityScore, want) {
		t.Fatalf("compatibility score = %v, want %v", ats.CompatibilityScore, want)
	}
	if ats.LikelyToPassScreening {
		t.Fatalf("score %v should not pass screening", ats.CompatibilityScore)
	}

	wantIssues := []string{
		"low keyword match",
		"parsing risk",
		"too many missing required skills",
		"experience below requirement",
	}
	if !reflect.DeepEqual(ats.CriticalIssues, wantIssues) {
		t.Fatalf("critical issues = %v, want %v", ats.CriticalIssues, wantIssues)
	}
}

func TestCompositeMatchLevels(t *testing.T) {
	rs := DefaultRuleset()
	cases := []struct {
		score float64
		want  string
	}{
		{80, MatchExcellent},
		{75, MatchExcellent},
		{74, MatchGood},
		{60, MatchGood},
		{59, MatchFair},
		{45, MatchFair},
		{44, MatchPoor},
		{15, MatchPoor},
	}
	for _, tc := range cases {
		if got := compositeMatchLevel(tc.score, rs); got != tc.want {
			t.Fatalf("compositeMatchLevel(%v) = %q, want %q", tc.score, got, tc.want)
		}
	}
}
