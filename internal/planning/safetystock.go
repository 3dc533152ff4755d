package planning

import "math"

// SafetyStock returns the safety stock quantity for a given demand
// volatility and target service level.
func SafetyStock(demandStd, serviceLevel float64) float64 {
	return ZScore(serviceLevel) * demandStd
}

// DemandStd returns the sample standard deviation (n-1 denominator) of a
// demand series. Series with fewer than 2 points have no defined deviation
// and yield 0 so downstream arithmetic stays finite.
func DemandStd(series []float64) float64 {
	n := len(series)
	if n < 2 {
		return 0
	}

	var sum float64
	for _, v := range series {
		sum += v
	}
	mean := sum / float64(n)

	var sq float64
	for _, v := range series {
		d := v - mean
		sq += d * d
	}

	return math.Sqrt(sq / float64(n-1))
}

// roundFloat rounds v to the given number of decimal places.
func roundFloat(v float64, decimals int) float64 {
	if decimals <= 0 {
		return math.Round(v)
	}

	factor := math.Pow(10, float64(decimals))
	return math.Round(v*factor) / factor
}
