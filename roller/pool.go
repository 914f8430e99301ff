package roller

import (
	"math"

	"mediabot/models"
)

// MaxSequenceSeconds caps count*interval for a roll sequence. Anything
// longer is rejected before any state changes.
const MaxSequenceSeconds = 300

// NormalizeSequence applies the defaults and floors for a roll request:
// both values default when zero, negatives are folded to their absolute
// value, and neither may drop below 1.
func NormalizeSequence(count, interval int) (int, int) {
	if count == 0 {
		count = 1
	}
	if interval == 0 {
		interval = 3
	}
	if count < 0 {
		count = -count
	}
	if interval < 0 {
		interval = -interval
	}
	return count, interval
}

// BufferCount returns how many of the most recently rolled items to exclude
// from the next draw. The result is clamped so at least one candidate
// remains whenever any exist.
func BufferCount(eligible int, bufferPercentage float64) int {
	if eligible <= 0 {
		return 0
	}
	count := int(math.Round(float64(eligible) * bufferPercentage))
	if count >= eligible {
		count = eligible - 1
	}
	if count < 0 {
		count = 0
	}
	return count
}

// BuildPool expands candidates into a point-weighted pool of indexes into
// the candidates slice. Each candidate appears score-minimumPoints times, so
// an item sitting exactly at the floor contributes nothing and can never be
// drawn. Never-voted candidates score zero and weigh -minimumPoints. The
// pool can come back empty even for a non-empty candidate set, when every
// candidate sits at the floor; callers treat that the same as having no
// media at all.
func BuildPool(candidates []models.Candidate, minimumPoints int) []int {
	var pool []int
	for i, c := range candidates {
		weight := c.Score() - int64(minimumPoints)
		for n := int64(0); n < weight; n++ {
			pool = append(pool, i)
		}
	}
	return pool
}
