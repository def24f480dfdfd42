package hunt

import (
	"math"
	"time"
)

const (
	// WrongCluePenalty is charged for submitting the answer of a clue other
	// than the current one.
	WrongCluePenalty int32 = -100

	bonusHalfLifeMillis = 600_000.0
)

// KnowledgeScore is the base score for solving a clue.
func KnowledgeScore(k KnowledgeKind) int32 {
	switch k {
	case Unaided:
		return 300
	case WithHint:
		return 200
	case KnowingItem:
		return 100
	default:
		return 0
	}
}

// DurationBonus decays from 100 points with a ten minute half-life, rounded
// to the nearest point: round(100 * 2^(-t/10)) with t in minutes at
// millisecond precision. Anything past 77 minutes is worth nothing.
func DurationBonus(d time.Duration) int32 {
	ms := d.Milliseconds()
	if ms > math.MaxInt32 {
		return 0
	}
	if ms < 0 {
		ms = 0
	}
	bonus := math.Round(100 * math.Exp2(-float64(ms)/bonusHalfLifeMillis))
	return int32(bonus)
}

// ClueScore is the score of a solved clue.
func ClueScore(k KnowledgeKind, d time.Duration) int32 {
	return saturatingAdd(KnowledgeScore(k), DurationBonus(d))
}

func saturatingAdd(a, b int32) int32 {
	sum := int64(a) + int64(b)
	switch {
	case sum > math.MaxInt32:
		return math.MaxInt32
	case sum < math.MinInt32:
		return math.MinInt32
	default:
		return int32(sum)
	}
}
