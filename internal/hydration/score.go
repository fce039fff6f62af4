package hydration

import (
	"math"

	"github.com/marufai/HydraCoach/internal/models"
)

// typeMultipliers weights the activity-type code in the intensity formula.
var typeMultipliers = map[int]float64{
	0: 0.1,
	1: 1.0,
	2: 0.8,
	3: 0.6,
	4: 0.3,
	5: 1.2,
}

// defaultTypeMultiplier applies to unknown activity-type codes.
const defaultTypeMultiplier = 0.5

// IntensityScore turns a physiological profile into a single normalized
// score, rounded to two decimals. Deterministic, no I/O.
func IntensityScore(p models.ActivityProfile) float64 {
	multiplier, ok := typeMultipliers[p.ActivityType]
	if !ok {
		multiplier = defaultTypeMultiplier
	}

	durationFactor := min(1.5, p.DurationMinutes/60.0)
	paceFactor := 1.0
	if p.Pace > 0 {
		paceFactor = min(1.2, p.Pace/8.0)
	}
	terrainFactor := 1.0 + float64(p.TerrainType)*0.15
	sweatFactor := 1.0 + float64(p.SweatLevel)*0.2

	score := multiplier * durationFactor * paceFactor * terrainFactor * sweatFactor
	return math.Round(score/1.5*100) / 100
}
