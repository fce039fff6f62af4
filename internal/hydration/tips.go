package hydration

import (
	"fmt"
	"strings"

	"github.com/marufai/HydraCoach/internal/lexicon"
)

// Intake thresholds (ml) for the magnitude commentary in the tip.
const (
	highIntakeThreshold = 3600
	lowIntakeThreshold  = 3000
)

// Intensity tier cutoffs for the tip templates.
const (
	highIntensityCutoff     = 0.6
	moderateIntensityCutoff = 0.3
)

// TipInput carries everything the tip composer needs: the intensity tier,
// the environmental flags, and the predicted intake.
type TipInput struct {
	ActivityLevel   int
	IntensityScore  float64
	Temperature     float64
	Complication    int
	IsIndoors       int
	IsWindyOrFanned int
	IsDirectSun     int
	PredictedIntake float64
}

// ComposeTip assembles the human-readable hydration guidance paragraphs.
// Pure text assembly: one intensity paragraph, at most one environment
// paragraph chosen by priority, one intake-magnitude paragraph, and an
// unconditional warning when the complication is severe.
func ComposeTip(in TipInput) string {
	var parts []string
	activityDisplay := lexicon.Display(lexicon.ActivityReverse, in.ActivityLevel)

	switch {
	case in.IntensityScore >= highIntensityCutoff:
		parts = append(parts, fmt.Sprintf("💪 High Activity (Score: %.2f): Your **%s** activity is strenuous. Sip water every 15–20 minutes during exercise. Consider electrolyte replacement if you sweat heavily.", in.IntensityScore, activityDisplay))
	case in.IntensityScore >= moderateIntensityCutoff:
		parts = append(parts, fmt.Sprintf("🏃 Moderate Activity (Score: %.2f): Your **%s** activity requires pre-hydration and post-hydration. Drink water evenly throughout the day, especially before and after workouts.", in.IntensityScore, activityDisplay))
	default:
		parts = append(parts, fmt.Sprintf("🧘 Low Activity (Score: %.2f): Your **%s** activity is light. Even for light activity, maintain regular hydration to maintain focus.", in.IntensityScore, activityDisplay))
	}

	// Environment rules in priority order; at most one fires.
	switch {
	case in.Temperature > 30 && in.IsDirectSun == 1:
		parts = append(parts, fmt.Sprintf("🌞 **HIGH RISK:** You are in direct sun at %.0f°C. Drink frequently and prioritize cool water.", in.Temperature))
	case in.Temperature > 30:
		parts = append(parts, fmt.Sprintf("🌡️ Hot conditions detected (%.0f°C), drink more frequently.", in.Temperature))
	case in.IsWindyOrFanned == 1:
		parts = append(parts, "💨 Air movement (fan/wind) accelerates water loss through evaporation. Keep a bottle handy and sip often.")
	case in.IsIndoors == 1 && in.Temperature < 20:
		parts = append(parts, "🏠 Indoors and cool: You might not feel thirsty, but stay hydrated regularly to maintain focus.")
	}

	switch {
	case in.PredictedIntake > highIntakeThreshold:
		parts = append(parts, fmt.Sprintf("💧 Your recommended intake (~%.0f ml) is significantly higher. Consistent sipping is key—don't try to chug it all at once.", in.PredictedIntake))
	case in.PredictedIntake < lowIntakeThreshold:
		parts = append(parts, fmt.Sprintf("💧 Your recommended intake (~%.0f ml) is lower than the typical range, but maintain steady small amounts throughout the day.", in.PredictedIntake))
	default:
		parts = append(parts, fmt.Sprintf("💧 Your recommended intake (~%.0f ml) is right in the typical range. Maintain steady sipping habits throughout the day.", in.PredictedIntake))
	}

	if in.Complication == 2 {
		parts = append(parts, "⚠️ **HEALTH WARNING:** Severe health condition detected. Follow your doctor's exact guidance on fluid intake.")
	}

	return strings.Join(parts, "\n\n")
}
