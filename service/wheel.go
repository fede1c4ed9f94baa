package service

import "math/rand"

// WheelSegment is one slice of the gold wheel. Multipliers are stored in
// half-units (a MultiplierHalves of 5 pays 2.5x) so payout arithmetic stays
// in integers; the division by two floors.
type WheelSegment struct {
	Label            string
	MultiplierHalves int64
	Weight           int64
}

// wheelSegments defines the wheel. Weights sum to 100, so each weight is the
// segment's percentage directly. The zero segment is the house edge.
var wheelSegments = []WheelSegment{
	{Label: "5x Gold!", MultiplierHalves: 10, Weight: 2},
	{Label: "2.5x Gold!", MultiplierHalves: 5, Weight: 6},
	{Label: "2x Gold!", MultiplierHalves: 4, Weight: 8},
	{Label: "1.5x Gold", MultiplierHalves: 3, Weight: 12},
	{Label: "1x Gold", MultiplierHalves: 2, Weight: 22},
	{Label: "0.5x Gold", MultiplierHalves: 1, Weight: 20},
	{Label: "Lose Gold", MultiplierHalves: 0, Weight: 30},
}

// WheelSegments returns the wheel layout in display order
func WheelSegments() []WheelSegment {
	segments := make([]WheelSegment, len(wheelSegments))
	copy(segments, wheelSegments)
	return segments
}

// Payout returns the gold paid for a wager landing on this segment,
// rounding half-gold amounts down
func (seg WheelSegment) Payout(wager int64) int64 {
	return wager * seg.MultiplierHalves / 2
}

// segmentForRoll maps a roll in [0, totalWeight) onto a segment
func segmentForRoll(roll int64) WheelSegment {
	for _, seg := range wheelSegments {
		if roll < seg.Weight {
			return seg
		}
		roll -= seg.Weight
	}
	// Unreachable for rolls within the weight total
	return wheelSegments[len(wheelSegments)-1]
}

func totalWheelWeight() int64 {
	var total int64
	for _, seg := range wheelSegments {
		total += seg.Weight
	}
	return total
}

// spinWheel draws a segment with probability proportional to its weight
func spinWheel() WheelSegment {
	return segmentForRoll(rand.Int63n(totalWheelWeight()))
}
