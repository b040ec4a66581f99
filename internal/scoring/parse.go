package scoring

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	yearPattern   = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(?:years?|yrs?)`)
	monthPattern  = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(?:months?|mos?)`)
	numberPattern = regexp.MustCompile(`\d+(?:\.\d+)?`)
)

// ParseYears extracts a duration in years from free text such as
// "2 years 3 months", "5+ yrs" or "roughly 4". Month values become
// fractional years. When no year or month unit appears, the first
// decimal number in the text is used as-is. The second return value is
// false when nothing numeric could be found.
func ParseYears(text string) (float64, bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return 0, false
	}

	total := 0.0
	matched := false

	if m := yearPattern.FindStringSubmatch(trimmed); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			total += v
			matched = true
		}
	}
	if m := monthPattern.FindStringSubmatch(trimmed); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			total += v / 12
			matched = true
		}
	}
	if matched {
		return total, true
	}

	if m := numberPattern.FindString(trimmed); m != "" {
		if v, err := strconv.ParseFloat(m, 64); err == nil {
			return v, true
		}
	}
	return 0, false
}

// yearsOrZero is the lenient form used inside the scorers: unparsable
// text counts as zero years.
func yearsOrZero(text string) float64 {
	v, _ := ParseYears(text)
	return v
}

// levelRank maps a seniority label onto the ordinal scale
// entry < mid < senior < executive. Unknown labels rank below entry.
func levelRank(level string) int {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "entry":
		return 1
	case "mid":
		return 2
	case "senior":
		return 3
	case "executive":
		return 4
	default:
		return 0
	}
}

func clamp(value, lo, hi float64) float64 {
	if value < lo {
		return lo
	}
	if value > hi {
		return hi
	}
	return value
}

// numericScore extracts a float from the loosely typed overall score
// carried by a ScoredAnalysis. JSON decoding yields float64; the other
// cases cover scores set programmatically.
func numericScore(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, false
		}
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}
