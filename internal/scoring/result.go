package scoring

// Match levels shared by both strategies. The numeric cut lines differ
// per strategy (see LevelRules).
const (
	MatchExcellent = "Excellent"
	MatchGood      = "Good"
	MatchFair      = "Fair"
	MatchPoor      = "Poor"
)

// Result is the output of the composite strategy. It is built fresh on
// every call and never edited afterwards.
type Result struct {
	OverallScore    int              `json:"overallScore"`
	MatchLevel      string           `json:"matchLevel"`
	CategoryScores  CategoryScores   `json:"categoryScores"`
	Weights         Weights          `json:"weights"`
	Breakdown       []BreakdownEntry `json:"scoringBreakdown"`
	ATS             ATSCompatibility `json:"atsCompatibility"`
	Recommendations []Recommendation `json:"recommendations"`
}

// BreakdownEntry shows how one category contributed to the raw
// weighted score, before industry adjustment.
type BreakdownEntry struct {
	Category     string  `json:"category"`
	Score        float64 `json:"score"`
	Weight       float64 `json:"weight"`
	Contribution float64 `json:"contribution"`
	Note         string  `json:"note"`
}

// ATSCompatibility estimates whether automated screening would pass
// the resume through.
type ATSCompatibility struct {
	LikelyToPassScreening bool     `json:"likelyToPassScreening"`
	CompatibilityScore    float64  `json:"compatibilityScore"`
	CriticalIssues        []string `json:"criticalIssues"`
}

// Recommendation is one prioritized improvement suggestion.
type Recommendation struct {
	Category   string `json:"category"`
	Priority   string `json:"priority"`
	Suggestion string `json:"suggestion"`
	Impact     string `json:"impact"`
}

// Adjustments itemizes the penalty components applied by the
// calibration strategy.
type Adjustments struct {
	Skills     float64 `json:"skills"`
	Experience float64 `json:"experience"`
	Education  float64 `json:"education"`
	Format     float64 `json:"format"`
	Keywords   float64 `json:"keywords"`
	Total      float64 `json:"total"`
}

func compositeMatchLevel(score float64, rs Ruleset) string {
	switch {
	case score >= rs.Levels.CompositeExcellent:
		return MatchExcellent
	case score >= rs.Levels.CompositeGood:
		return MatchGood
	case score >= rs.Levels.CompositeFair:
		return MatchFair
	default:
		return MatchPoor
	}
}

func calibratedMatchLevel(score float64, rs Ruleset) string {
	switch {
	case score >= rs.Levels.CalibratedExcellent:
		return MatchExcellent
	case score >= rs.Levels.CalibratedGood:
		return MatchGood
	case score >= rs.Levels.CalibratedFair:
		return MatchFair
	default:
		return MatchPoor
	}
}
