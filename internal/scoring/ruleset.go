package scoring

// Ruleset is the single source for every weight, bonus, penalty and
// threshold used by both scoring strategies. Both scorers take it by
// value so a constructed ruleset is effectively immutable; the point
// values live here and nowhere else.
type Ruleset struct {
	Weights    Weights
	Defaults   DefaultScores
	Keyword    KeywordRules
	Experience ExperienceRules
	Skills     SkillsRules
	Format     FormatRules
	Industry   IndustryRules
	ATS        ATSRules
	Penalty    PenaltyRules
	Levels     LevelRules
	Recommend  RecommendRules
	Explain    ExplainRules
}

// Weights is the fixed category weighting. The four shares sum to 1.0.
type Weights struct {
	Keywords   float64 `json:"keywords"`
	Experience float64 `json:"experience"`
	Skills     float64 `json:"skills"`
	Format     float64 `json:"format"`
}

// DefaultScores are the conservative sub-scores substituted when an
// analysis sub-section is absent.
type DefaultScores struct {
	Keywords   float64
	Experience float64
	Skills     float64
	Format     float64
}

// KeywordRules parameterizes the keyword category score.
type KeywordRules struct {
	MatchPoints        float64 // awarded pro rata to overall match rate
	CriticalPoints     float64 // awarded pro rata to critical-keyword rate
	DensityPoints      float64 // density bonus ceiling
	DensityCeiling     float64 // percent above which stuffing is penalized
	DensityPenaltyRate float64 // points removed per percent over the ceiling
}

// ExperienceRules parameterizes the experience category score.
type ExperienceRules struct {
	MeetsYearsPoints    float64
	ExceedsBonus        float64
	ExceedsFactor       float64 // actual must exceed required*factor for the bonus
	PartialYearsPoints  float64
	LevelPoints         float64
	PartialLevelPoints  float64
	ProgressionClear    float64
	ProgressionModerate float64
	ProgressionOther    float64
	IndustryDirect      float64
	IndustryRelated     float64
	IndustryOther       float64
}

// SkillsRules parameterizes the skills category score.
type SkillsRules struct {
	RequiredPoints       float64
	NoRequiredFlatPoints float64 // awarded when the job lists no required skills
	OverallPoints        float64
	DiversityPerCategory float64
	DiversityMax         float64
}

// FormatRules parameterizes the format category score.
type FormatRules struct {
	EssentialPoints    float64 // split evenly across contact/experience/skills
	BeneficialPoints   float64 // split evenly across summary/education
	ChronologicalBonus float64
	IssuePenalty       float64
	ConcernPenalty     float64
}

// IndustryRules parameterizes the industry adjustment pass and the
// exceptional-match gate on the composite path.
type IndustryRules struct {
	MissingEmailPenalty   float64
	MissingPhonePenalty   float64
	CompleteContactBonus  float64
	TitleExactBonus       float64
	TitleSimilarBonus     float64
	TitleDifferentPenalty float64
	CeilingTrigger        float64 // scores above this require the gate
	Ceiling               float64
	Floor                 float64
	GateCriteriaRequired  int
	GateKeywordRate       float64
	GateATSScore          float64
}

// ATSRules parameterizes the ATS compatibility block.
type ATSRules struct {
	KeywordShare   float64
	FormatShare    float64
	AverageShare   float64
	PassThreshold  float64
	KeywordWarn    float64
	FormatWarn     float64
	SkillsWarn     float64
	ExperienceWarn float64
}

// PenaltyRules parameterizes the penalty calibration strategy.
type PenaltyRules struct {
	CriticalSkillPenalty     float64 // per high-impact missing critical skill
	HighPrioritySkillPenalty float64 // per high-priority missing skill
	GapYearPenalty           float64
	GapPenaltyCap            float64
	LevelMismatchPenalty     float64 // per level the candidate is below requirement
	MissingDegreePenalty     float64
	RelatedDegreePenalty     float64
	MissingCertPenalty       float64
	FormatThreshold          float64
	FormatRate               float64
	KeywordThreshold         float64 // keyword match percent below which penalties apply
	KeywordRate              float64
	CeilingTrigger           float64
	Ceiling                  float64
	MinorCapLow              float64 // lower bound of the minor-issue window
	MinorCap                 float64
	MinorMediumSkills        int // medium-priority missing skills tolerated
	MinorFormatScore         float64
	MinorKeywordMatch        float64
	ExceptionalRequired      int
	ExceptionalATSScore      float64
	ExceptionalKeywordMatch  float64
}

// LevelRules holds the match-level thresholds. The two strategies use
// different cut lines on purpose; see the package doc before touching
// either set.
type LevelRules struct {
	CompositeExcellent  float64
	CompositeGood       float64
	CompositeFair       float64
	CalibratedExcellent float64
	CalibratedGood      float64
	CalibratedFair      float64
}

// RecommendRules holds the category thresholds below which advice is
// emitted, and how many missing items a suggestion may name.
type RecommendRules struct {
	KeywordThreshold    float64
	ExperienceThreshold float64
	SkillsThreshold     float64
	FormatThreshold     float64
	MaxNamed            int
}

// ExplainRules holds the thresholds used by the calibration-path
// explanation paragraph.
type ExplainRules struct {
	PenaltyNoteThreshold float64 // itemize components only past this total
	SkillsItem           float64
	ExperienceItem       float64
	EducationItem        float64
	FormatItem           float64
	KeywordItem          float64
	GoodScore            float64
	ModerateScore        float64
}

// DefaultRuleset returns the canonical constant set. Callers that need
// to audit or tune point values should start here.
func DefaultRuleset() Ruleset {
	return Ruleset{
		Weights: Weights{
			Keywords:   0.40,
			Experience: 0.25,
			Skills:     0.20,
			Format:     0.15,
		},
		Defaults: DefaultScores{
			Keywords:   30,
			Experience: 40,
			Skills:     25,
			Format:     50,
		},
		Keyword: KeywordRules{
			MatchPoints:        60,
			CriticalPoints:     25,
			DensityPoints:      15,
			DensityCeiling:     3,
			DensityPenaltyRate: 5,
		},
		Experience: ExperienceRules{
			MeetsYearsPoints:    40,
			ExceedsBonus:        10,
			ExceedsFactor:       1.5,
			PartialYearsPoints:  30,
			LevelPoints:         25,
			PartialLevelPoints:  15,
			ProgressionClear:    20,
			ProgressionModerate: 12,
			ProgressionOther:    5,
			IndustryDirect:      15,
			IndustryRelated:     8,
			IndustryOther:       2,
		},
		Skills: SkillsRules{
			RequiredPoints:       60,
			NoRequiredFlatPoints: 30,
			OverallPoints:        25,
			DiversityPerCategory: 3,
			DiversityMax:         15,
		},
		Format: FormatRules{
			EssentialPoints:    50,
			BeneficialPoints:   30,
			ChronologicalBonus: 20,
			IssuePenalty:       5,
			ConcernPenalty:     3,
		},
		Industry: IndustryRules{
			MissingEmailPenalty:   15,
			MissingPhonePenalty:   10,
			CompleteContactBonus:  5,
			TitleExactBonus:       8,
			TitleSimilarBonus:     3,
			TitleDifferentPenalty: 5,
			CeilingTrigger:        80,
			Ceiling:               75,
			Floor:                 15,
			GateCriteriaRequired:  3,
			GateKeywordRate:       0.9,
			GateATSScore:          90,
		},
		ATS: ATSRules{
			KeywordShare:   0.5,
			FormatShare:    0.3,
			AverageShare:   0.2,
			PassThreshold:  60,
			KeywordWarn:    40,
			FormatWarn:     50,
			SkillsWarn:     30,
			ExperienceWarn: 40,
		},
		Penalty: PenaltyRules{
			CriticalSkillPenalty:     15,
			HighPrioritySkillPenalty: 10,
			GapYearPenalty:           5,
			GapPenaltyCap:            25,
			LevelMismatchPenalty:     10,
			MissingDegreePenalty:     20,
			RelatedDegreePenalty:     10,
			MissingCertPenalty:       5,
			FormatThreshold:          70,
			FormatRate:               0.5,
			KeywordThreshold:         50,
			KeywordRate:              0.8,
			CeilingTrigger:           80,
			Ceiling:                  75,
			MinorCapLow:              60,
			MinorCap:                 55,
			MinorMediumSkills:        2,
			MinorFormatScore:         80,
			MinorKeywordMatch:        65,
			ExceptionalRequired:      4,
			ExceptionalATSScore:      90,
			ExceptionalKeywordMatch:  80,
		},
		Levels: LevelRules{
			CompositeExcellent:  75,
			CompositeGood:       60,
			CompositeFair:       45,
			CalibratedExcellent: 75,
			CalibratedGood:      55,
			CalibratedFair:      35,
		},
		Recommend: RecommendRules{
			KeywordThreshold:    60,
			ExperienceThreshold: 50,
			SkillsThreshold:     40,
			FormatThreshold:     60,
			MaxNamed:            3,
		},
		Explain: ExplainRules{
			PenaltyNoteThreshold: 10,
			SkillsItem:           10,
			ExperienceItem:       5,
			EducationItem:        5,
			FormatItem:           5,
			KeywordItem:          5,
			GoodScore:            60,
			ModerateScore:        40,
		},
	}
}
