package formatter

import "math"

// Even is the advantage label when two values are effectively equal
const Even = "Even"

// evenBand is the relative-difference threshold below which a comparison is
// a wash: |a-b| under 5% of the pair's average.
const evenBand = 0.05

// CompareAdvantage applies the shared relative-difference rule to a pair of
// metric values. It returns Even when the values differ by less than 5% of
// their average; otherwise the better side's name. lowerIsBetter flips the
// winner for ERA-like metrics where smaller values win.
func CompareAdvantage(self, opponent float64, selfName, opponentName string, lowerIsBetter bool) string {
	avg := (self + opponent) / 2
	if avg == 0 {
		return Even
	}
	if math.Abs(self-opponent)/math.Abs(avg) < evenBand {
		return Even
	}

	selfWins := self > opponent
	if lowerIsBetter {
		selfWins = self < opponent
	}
	if selfWins {
		return selfName
	}
	return opponentName
}
