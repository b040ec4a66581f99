package scoring

import (
	"math"
	"testing"
)

func TestParseYears(t *testing.T) {
	cases := []struct {
		name   string
		text   string
		want   float64
		wantOK bool
	}{
		{name: "years_only", text: "5 years", want: 5, wantOK: true},
		{name: "years_and_months", text: "2 years 3 months", want: 2.25, wantOK: true},
		{name: "months_only", text: "6 months", want: 0.5, wantOK: true},
		{name: "abbreviated", text: "4 yrs", want: 4, wantOK: true},
		{name: "mixed_case", text: "3 YEARS", want: 3, wantOK: true},
		{name: "decimal_years", text: "1.5 years", want: 1.5, wantOK: true},
		{name: "bare_number_fallback", text: "roughly 4", want: 4, wantOK: true},
		{name: "decimal_fallback", text: "about 2.5 total", want: 2.5, wantOK: true},
		{name: "plus_suffix", text: "5+ years", want: 5, wantOK: true},
		{name: "empty", text: "", want: 0, wantOK: false},
		{name: "no_number", text: "extensive experience", want: 0, wantOK: false},
		{name: "whitespace", text: "   ", want: 0, wantOK: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ParseYears(tc.text)
			if ok != tc.wantOK {
				t.Fatalf("ParseYears(%q) ok = %v, want %v", tc.text, ok, tc.wantOK)
			}
			if math.Abs(got-tc.want) > 1e-9 {
				t.Fatalf("ParseYears(%q) = %v, want %v", tc.text, got, tc.want)
			}
		})
	}
}

func TestLevelRank(t *testing.T) {
	ordered := []string{"entry", "mid", "senior", "executive"}
	for i := 1; i < len(ordered); i++ {
		if levelRank(ordered[i-1]) >= levelRank(ordered[i]) {
			t.Fatalf("expected %q to rank below %q", ordered[i-1], ordered[i])
		}
	}
	if levelRank("unknown") != 0 {
		t.Fatalf("unknown level should rank 0, got %d", levelRank("unknown"))
	}
	if levelRank(" Senior ") != levelRank("senior") {
		t.Fatalf("level rank should ignore case and whitespace")
	}
}

func TestNumericScore(t *testing.T) {
	if _, ok := numericScore("85"); ok {
		t.Fatalf("string scores must not be treated as numeric")
	}
	if _, ok := numericScore(nil); ok {
		t.Fatalf("nil score must not be numeric")
	}
	if _, ok := numericScore(math.NaN()); ok {
		t.Fatalf("NaN must not be numeric")
	}
	if v, ok := numericScore(float64(70)); !ok || v != 70 {
		t.Fatalf("float64 score: got (%v, %v)", v, ok)
	}
	if v, ok := numericScore(int(55)); !ok || v != 55 {
		t.Fatalf("int score: got (%v, %v)", v, ok)
	}
}
