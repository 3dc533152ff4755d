package planning

import "strings"

// Target service levels per ABC classification.
var classServiceLevels = map[string]float64{
	"A": 0.99,
	"B": 0.95,
	"C": 0.90,
}

// Standard-normal quantiles for the supported service levels.
var zScores = map[float64]float64{
	0.90: 1.28,
	0.95: 1.645,
	0.99: 2.33,
}

const (
	defaultServiceLevel = 0.95
	defaultZScore       = 1.645
)

// ServiceLevelFor returns the target service level for an ABC class
// (case-insensitive). Unrecognized classes fall back to 0.95.
func ServiceLevelFor(abcClass string) float64 {
	if sl, ok := classServiceLevels[strings.ToUpper(strings.TrimSpace(abcClass))]; ok {
		return sl
	}
	return defaultServiceLevel
}

// ZScore returns the standard-normal quantile for a service level.
// Unrecognized levels fall back to 1.645.
func ZScore(serviceLevel float64) float64 {
	if z, ok := zScores[serviceLevel]; ok {
		return z
	}
	return defaultZScore
}
