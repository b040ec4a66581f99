package main

// Score an extracted analysis without touching the API or the LLM:
//   go run ./cmd/scoredemo -analysis ./analysis.json -strategy penalty

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"matchscore-backend/internal/scoring"
)

func main() {
	analysisPath := flag.String("analysis", "", "Path to extracted analysis JSON")
	strategy := flag.String("strategy", "composite", "Scoring strategy: composite or penalty")
	flag.Parse()

	if strings.TrimSpace(*analysisPath) == "" {
		exitErr("analysis path is required")
	}

	raw, err := os.ReadFile(*analysisPath)
	if err != nil {
		exitErr(fmt.Sprintf("read analysis: %v", err))
	}

	var parsed scoring.ScoredAnalysis
	if err := json.Unmarshal(raw, &parsed); err != nil {
		exitErr(fmt.Sprintf("invalid analysis json: %v", err))
	}

	var report any
	switch strings.ToLower(strings.TrimSpace(*strategy)) {
	case "composite":
		report = scoring.ScoreAnalysis(parsed.Analysis)
	case "penalty":
		out := scoring.CalibrateScore(parsed)
		if out.Adjustments == nil {
			fmt.Fprintln(os.Stderr, "note: no numeric overallScore in input; returning it unchanged")
		}
		report = out
	default:
		exitErr(fmt.Sprintf("unsupported strategy: %s", *strategy))
	}

	pretty, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		exitErr(fmt.Sprintf("format report: %v", err))
	}
	fmt.Println(string(pretty))
}

func exitErr(msg string) {
	_, _ = fmt.Fprintln(os.Stderr, msg)
	os.Exit(1)
}
