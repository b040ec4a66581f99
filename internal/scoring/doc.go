// Package scoring turns an AI-extracted resume/job analysis into a
// bounded, explainable match score.
//
// Two strategies coexist on purpose and must not be merged:
//
//   - CompositeScorer builds four category sub-scores, combines them
//     with fixed weights and applies the industry adjustment pass.
//     This is the canonical path for user-facing scores.
//   - PenaltyCalibrator takes any analysis that already carries an
//     overall score and subtracts itemized penalties, with its own
//     ceiling rules and its own match-level thresholds.
//
// Apply exactly one strategy to a given analysis. Feeding a composite
// result into the calibrator penalizes the same weaknesses twice; the
// calibrator keeps the original score on its output so that misuse is
// at least visible downstream.
//
// Everything in this package is a pure function over value types: no
// I/O, no clocks, no shared state. Identical inputs yield identical
// outputs, and inputs are never mutated.
package scoring
