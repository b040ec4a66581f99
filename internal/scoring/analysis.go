package scoring

// Analysis is the AI-extracted, schema-shaped description of a resume
// measured against a job description. Every sub-section is optional:
// a missing section is scored with a documented default, never treated
// as an error.
type Analysis struct {
	Contact               *ContactAnalysis     `json:"contactAnalysis,omitempty"`
	JobTitle              *JobTitleAnalysis    `json:"jobTitleAnalysis,omitempty"`
	HardSkills            []HardSkill          `json:"hardSkills,omitempty"`
	Experience            *ExperienceAnalysis  `json:"experienceAnalysis,omitempty"`
	Education             *EducationAnalysis   `json:"educationAnalysis,omitempty"`
	Keywords              *KeywordOptimization `json:"keywordOptimization,omitempty"`
	Structure             *ResumeStructure     `json:"resumeStructure,omitempty"`
	Format                *FormatAnalysis      `json:"formatAnalysis,omitempty"`
	MissingCriticalSkills []MissingSkill       `json:"missingCriticalSkills,omitempty"`
	MissingSkills         []MissingSkill       `json:"missingSkills,omitempty"`
}

// ScoredAnalysis is an Analysis that already carries an overall score,
// produced either by the composite scorer or by a raw LLM estimate.
// OverallScore is deliberately loose: calibration is a no-op unless it
// holds a numeric value.
type ScoredAnalysis struct {
	Analysis
	OverallScore any `json:"overallScore,omitempty"`

	// Populated by PenaltyCalibrator.Calibrate. A nil Adjustments means
	// no calibration has been applied to this analysis.
	OriginalScore   *float64         `json:"originalScore,omitempty"`
	MatchLevel      string           `json:"matchLevel,omitempty"`
	Adjustments     *Adjustments     `json:"scoringAdjustments,omitempty"`
	Explanation     string           `json:"explanation,omitempty"`
	Recommendations []Recommendation `json:"recommendations,omitempty"`
}

// ContactAnalysis flags which contact channels the resume exposes.
type ContactAnalysis struct {
	HasPhone    bool `json:"hasPhone"`
	HasEmail    bool `json:"hasEmail"`
	HasLocation bool `json:"hasLocation"`
	HasLinkedIn bool `json:"hasLinkedin"`
}

// JobTitleAnalysis compares the candidate's current title to the role.
// TitleMatch is one of "exact", "similar", or "different".
type JobTitleAnalysis struct {
	TitleMatch string `json:"titleMatch"`
}

// HardSkill is one job-relevant skill and whether the resume shows it.
type HardSkill struct {
	Skill          string `json:"skill"`
	FoundInResume  bool   `json:"foundInResume"`
	RequiredForJob bool   `json:"requiredForJob"`
	SkillCategory  string `json:"skillCategory"`
}

// ExperienceAnalysis describes years, seniority and trajectory.
// Year fields are free text ("2 years 3 months"); see ParseYears.
type ExperienceAnalysis struct {
	RequiredYears        string `json:"requiredYears"`
	TotalYearsExperience string `json:"totalYearsExperience"`
	RequiredLevel        string `json:"requiredLevel"`
	CurrentLevel         string `json:"currentLevel"`
	CareerProgression    string `json:"careerProgression"`
	ExperienceGap        string `json:"experienceGap"`
	IndustryMatch        string `json:"industryMatch"`
	Match                string `json:"experienceMatch"`
}

// EducationAnalysis describes degree fit. DegreeMatch is one of
// "exact", "related", or "missing".
type EducationAnalysis struct {
	DegreeMatch           string   `json:"degreeMatch"`
	CertificationsMissing []string `json:"certificationsMissing"`
}

// KeywordOptimization summarizes job-description keyword coverage.
// KeywordDensity is a percentage (2.5 means 2.5%).
type KeywordOptimization struct {
	TotalJobKeywords        int      `json:"totalJobKeywords"`
	TotalMatchedKeywords    int      `json:"totalMatchedKeywords"`
	CriticalKeywordsMatched int      `json:"criticalKeywordsMatched"`
	CriticalKeywordsMissing []string `json:"criticalKeywordsMissing"`
	KeywordDensity          float64  `json:"keywordDensity"`
}

// ResumeStructure flags which standard sections the resume contains.
type ResumeStructure struct {
	HasContactSection    bool `json:"hasContactSection"`
	HasSummarySection    bool `json:"hasSummarySection"`
	HasSkillsSection     bool `json:"hasSkillsSection"`
	HasExperienceSection bool `json:"hasExperienceSection"`
	HasEducationSection  bool `json:"hasEducationSection"`
	ChronologicalFormat  bool `json:"chronologicalFormat"`
}

// FormatAnalysis carries ATS parseability findings.
type FormatAnalysis struct {
	FormatIssues     []string `json:"formatIssues"`
	ParsingConcerns  []string `json:"parsingConcerns"`
	ATSFriendlyScore float64  `json:"atsFriendlyScore"`
}

// MissingSkill is a skill absent from the resume, with its weight.
// Priority and Impact are one of "high", "medium", "low".
type MissingSkill struct {
	Skill    string `json:"skill"`
	Priority string `json:"priority"`
	Impact   string `json:"impact"`
}
