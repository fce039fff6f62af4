package hydration

import (
	"testing"

	"github.com/marufai/HydraCoach/internal/models"
)

func TestIntensityScoreReference(t *testing.T) {
	// type=1, duration=60, pace=8, terrain=0, sweat=2:
	// (1.0 * 1.0 * 1.0 * 1.0 * 1.4) / 1.5 = 0.9333 -> 0.93
	p := models.ActivityProfile{ActivityType: 1, DurationMinutes: 60, Pace: 8, TerrainType: 0, SweatLevel: 2}
	if got := IntensityScore(p); got != 0.93 {
		t.Errorf("score = %v, want 0.93", got)
	}
}

func TestIntensityScoreZeroPace(t *testing.T) {
	// Zero pace uses a neutral pace factor of 1.0, not 0.
	p := models.ActivityProfile{ActivityType: 4, DurationMinutes: 30, Pace: 0, TerrainType: 0, SweatLevel: 1}
	// (0.3 * 0.5 * 1.0 * 1.0 * 1.2) / 1.5 = 0.12
	if got := IntensityScore(p); got != 0.12 {
		t.Errorf("score = %v, want 0.12", got)
	}
}

func TestIntensityScoreFactorCaps(t *testing.T) {
	// Duration capped at 1.5 (>=90 min) and pace capped at 1.2 (>=9.6).
	p := models.ActivityProfile{ActivityType: 1, DurationMinutes: 240, Pace: 40, TerrainType: 1, SweatLevel: 3}
	// (1.0 * 1.5 * 1.2 * 1.15 * 1.6) / 1.5 = 2.208 -> 2.21
	if got := IntensityScore(p); got != 2.21 {
		t.Errorf("score = %v, want 2.21", got)
	}
}

func TestIntensityScoreUnknownTypeMultiplier(t *testing.T) {
	p := models.ActivityProfile{ActivityType: 9, DurationMinutes: 60, Pace: 8, TerrainType: 0, SweatLevel: 2}
	// (0.5 * 1.0 * 1.0 * 1.0 * 1.4) / 1.5 = 0.4666 -> 0.47
	if got := IntensityScore(p); got != 0.47 {
		t.Errorf("score = %v, want 0.47", got)
	}
}
