package domain

import "math"

// KFactor is the maximum rating swing of a single rated result.
const KFactor = 32.0

// CalculateElo returns side A's new rating after a rated result against
// side B. Players and strategy stacks share the same scale. score is A's
// result: 1 for a win, 0.5 for a draw, 0 for a loss; a simulation series
// passes its averaged score so the whole run counts as one rated result.
// Ratings never drop below zero.
func CalculateElo(ratingA, ratingB int, score float64) int {
	expected := 1.0 / (1.0 + math.Pow(10.0, float64(ratingB-ratingA)/400.0))
	rated := float64(ratingA) + KFactor*(score-expected)

	if rated < 0 {
		return 0
	}
	return int(rated)
}
