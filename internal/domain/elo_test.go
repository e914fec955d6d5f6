package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateEloEqualRatings(t *testing.T) {
	assert.Equal(t, 1016, CalculateElo(1000, 1000, 1.0))
	assert.Equal(t, 984, CalculateElo(1000, 1000, 0.0))
	assert.Equal(t, 1000, CalculateElo(1000, 1000, 0.5))
}

func TestCalculateEloSeriesScore(t *testing.T) {
	// A simulation run rates its averaged score as one result.
	assert.Equal(t, 1009, CalculateElo(1000, 1000, 0.8))
	assert.Equal(t, 990, CalculateElo(1000, 1000, 0.2))
}

func TestCalculateEloUnderdogSwing(t *testing.T) {
	// Beating a much stronger opponent pays nearly the full K factor.
	underdog := CalculateElo(1000, 1400, 1.0)
	favorite := CalculateElo(1400, 1000, 1.0)
	assert.Greater(t, underdog-1000, favorite-1400)
}

func TestCalculateEloFloorsAtZero(t *testing.T) {
	assert.Equal(t, 0, CalculateElo(10, 10, 0.0))
	assert.Equal(t, 0, CalculateElo(0, 2000, 0.0))
}
