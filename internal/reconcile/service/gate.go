package service

import (
	"math"

	"kp-summary/internal/utils"
)

// Пороги принятия совпадения.
const (
	ThresholdDefault  = 0.25
	ThresholdMismatch = 0.70 // оба количества известны, положительны и различны
)

// Threshold — порог для пары запрошенных количеств.
func Threshold(qtyA, qtyB string) float64 {
	a, okA := utils.PositiveRU(qtyA)
	b, okB := utils.PositiveRU(qtyB)
	if okA && okB && math.Abs(a-b) >= qtyEpsilon {
		return ThresholdMismatch
	}
	return ThresholdDefault
}

// Accepts — оценка проходит порог.
func Accepts(score float64, qtyA, qtyB string) bool {
	return score >= Threshold(qtyA, qtyB)
}
