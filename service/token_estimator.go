package service

import (
	"math"
)

// ChatMode selects the response depth for a turn
type ChatMode string

const (
	ModeQuick ChatMode = "quick"
	ModeDeep  ChatMode = "deep"
)

// Saved-token heuristic: a vague prompt would have cost a naive chat more
// back-and-forth, so shorter input earns a higher multiplier against the
// real usage count. Thresholds are input character counts.
const (
	vagueThreshold   = 50
	conciseThreshold = 200
	minSavedTokens   = 10
)

func multiplierRange(mode ChatMode) (maxM, minM float64) {
	if mode == ModeDeep {
		return 3.0, 1.2
	}
	return 1.5, 0.7
}

// EstimateSavedTokens computes the "tokens saved" reward for a turn from
// the collaborator's reported usage and the length of the user's input.
// Pure and deterministic; monotonically non-increasing in inputLength.
func EstimateSavedTokens(rawCost, inputLength int, mode ChatMode) int {
	maxM, minM := multiplierRange(mode)

	clarity := float64(inputLength-vagueThreshold) / float64(conciseThreshold-vagueThreshold)
	clarity = math.Max(0, math.Min(1, clarity))

	multiplier := maxM - clarity*(maxM-minM)
	estimatedStandardCost := float64(rawCost) * multiplier

	return int(math.Round(math.Max(minSavedTokens, estimatedStandardCost-float64(rawCost))))
}

// PityTokens is the fixed award granted when the collaborator fails and
// the estimator is bypassed entirely.
func PityTokens(mode ChatMode) int {
	if mode == ModeDeep {
		return 20
	}
	return 10
}
