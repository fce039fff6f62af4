// Package hydration implements the deterministic core of HydraCoach: the
// activity-detail resolver, the intensity scorer, the hydration tip
// composer, and the prediction orchestrator that feeds the external numeric
// model.
package hydration

import (
	"log/slog"
	"strings"

	"github.com/marufai/HydraCoach/internal/models"
)

// subActivity is one catalogue entry: the physiological baseline for a
// named activity within a tier.
type subActivity struct {
	activityType int
	name         string
	baseDuration float64
	basePace     float64
	baseSweat    int
	terrain      int
}

// catalogue holds the candidate sub-activities per activity tier
// (0=low, 1=medium, 2=high). The first entry of each tier is the default
// when a chosen name does not match.
var catalogue = map[int][]subActivity{
	0: {
		{activityType: 4, name: "Yoga/Stretching", baseDuration: 30, basePace: 0.0, baseSweat: 1, terrain: 0},
		{activityType: 1, name: "Light Running", baseDuration: 20, basePace: 5.0, baseSweat: 2, terrain: 0},
		{activityType: 2, name: "Easy Cycling", baseDuration: 25, basePace: 8.0, baseSweat: 1, terrain: 0},
	},
	1: {
		{activityType: 3, name: "Gym Workout", baseDuration: 60, basePace: 6.0, baseSweat: 2, terrain: 0},
		{activityType: 1, name: "Moderate Running", baseDuration: 45, basePace: 7.0, baseSweat: 2, terrain: 0},
	},
	2: {
		{activityType: 1, name: "Intense Running", baseDuration: 90, basePace: 9.5, baseSweat: 3, terrain: 1},
		{activityType: 5, name: "Intense Sports", baseDuration: 80, basePace: 8.5, baseSweat: 3, terrain: 1},
	},
}

// SubActivityNames lists the allowed sub-activity names for a tier, in
// catalogue order. Unknown tiers yield nil.
func SubActivityNames(tier int) []string {
	entries := catalogue[tier]
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.name)
	}
	return names
}

// ResolveActivity maps an activity tier, chosen sub-activity, and
// demographics into a detailed physiological profile. The name match is
// case-insensitive within the tier; a miss falls back to the tier's first
// entry. Demographic adjustments apply in a fixed order with per-field
// floors and ceilings.
func ResolveActivity(tier int, subActivityName string, age int, weight float64, gender int) models.ActivityProfile {
	entries := catalogue[tier]
	if len(entries) == 0 {
		// Out-of-range tier: treat as low.
		entries = catalogue[0]
	}

	chosen := entries[0]
	for _, e := range entries {
		if strings.EqualFold(e.name, subActivityName) {
			chosen = e
			break
		}
	}

	duration := chosen.baseDuration
	pace := chosen.basePace
	sweat := chosen.baseSweat

	if age >= 55 && tier >= 1 {
		duration -= 15
		pace = max(0.0, pace-1.0)
		sweat = max(1, sweat-1)
	} else if age <= 25 && tier == 2 {
		duration += 10
		pace += 0.5
	}

	if weight >= 90.0 && tier >= 1 {
		sweat = min(3, sweat+1)
		pace = max(0.0, pace-0.5)
	}

	if gender == 1 && tier >= 1 {
		sweat = min(3, sweat+1)
	}

	duration = max(10.0, duration)
	pace = max(0.0, pace)
	sweat = max(1, min(3, sweat))

	profile := models.ActivityProfile{
		ActivityType:    chosen.activityType,
		DurationMinutes: duration,
		Pace:            pace,
		TerrainType:     chosen.terrain,
		SweatLevel:      sweat,
	}
	slog.Debug("ResolveActivity: profile derived",
		"tier", tier, "sub_activity", subActivityName,
		"activity_type", profile.ActivityType, "duration", profile.DurationMinutes,
		"pace", profile.Pace, "sweat", profile.SweatLevel)
	return profile
}
