package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEstimateSavedTokensVagueInput(t *testing.T) {
	// At or below the vague threshold the full multiplier applies.
	assert.Equal(t, 2000, EstimateSavedTokens(1000, 50, ModeDeep))
	assert.Equal(t, 2000, EstimateSavedTokens(1000, 5, ModeDeep))
	assert.Equal(t, 500, EstimateSavedTokens(1000, 50, ModeQuick))
}

func TestEstimateSavedTokensConciseInput(t *testing.T) {
	// At or beyond the concise threshold the minimum multiplier applies.
	assert.Equal(t, 200, EstimateSavedTokens(1000, 200, ModeDeep))
	assert.Equal(t, 200, EstimateSavedTokens(1000, 900, ModeDeep))
}

func TestEstimateSavedTokensInterpolates(t *testing.T) {
	// Halfway between the thresholds: deep multiplier 2.1.
	assert.Equal(t, 1100, EstimateSavedTokens(1000, 125, ModeDeep))
}

func TestEstimateSavedTokensFloor(t *testing.T) {
	// Quick mode at minimum multiplier would "save" a negative amount;
	// the floor guarantees a small positive award.
	assert.Equal(t, 10, EstimateSavedTokens(1000, 200, ModeQuick))
	assert.Equal(t, 10, EstimateSavedTokens(0, 50, ModeDeep))
}

func TestEstimateSavedTokensNonIncreasingInLength(t *testing.T) {
	prev := EstimateSavedTokens(1000, 0, ModeDeep)
	for length := 25; length <= 400; length += 25 {
		cur := EstimateSavedTokens(1000, length, ModeDeep)
		assert.LessOrEqual(t, cur, prev, "length %d", length)
		prev = cur
	}
}

func TestEstimateSavedTokensDeterministic(t *testing.T) {
	a := EstimateSavedTokens(777, 123, ModeQuick)
	b := EstimateSavedTokens(777, 123, ModeQuick)
	assert.Equal(t, a, b)
}

func TestPityTokens(t *testing.T) {
	assert.Equal(t, 20, PityTokens(ModeDeep))
	assert.Equal(t, 10, PityTokens(ModeQuick))
}
