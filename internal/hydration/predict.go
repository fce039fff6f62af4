package hydration

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/marufai/HydraCoach/internal/lexicon"
	"github.com/marufai/HydraCoach/internal/models"
)

// FallbackIntakeML is returned when the external predictor is unavailable
// or fails. The turn degrades to this value instead of erroring.
const FallbackIntakeML = 2500.0

// StandardGlassML converts a predicted intake into glasses for display.
const StandardGlassML = 250.0

// FeatureCount is the length of the model feature vector.
const FeatureCount = 16

// Predictor is the external numeric model collaborator. Implementations
// take the fixed-order feature vector and return the predicted intake in ml.
type Predictor interface {
	Predict(ctx context.Context, features []float64) (float64, error)
}

// Service orchestrates a prediction: it canonicalizes collected slot data,
// resolves the activity profile, scores intensity, assembles the feature
// vector, and calls the predictor.
type Service struct {
	predictor Predictor
}

// NewService creates a prediction service. A nil predictor is valid: every
// prediction then uses the fallback intake.
func NewService(predictor Predictor) *Service {
	slog.Debug("hydration.NewService: creating service", "hasPredictor", predictor != nil)
	return &Service{predictor: predictor}
}

// severeComplicationKeywords trigger severity inference when the
// complication text is not a direct enum match.
var severeComplicationKeywords = []string{"diabetes", "renal", "kidney", "heart"}

// PredictIntake runs the full orchestration over collected slot data.
// Enum values that fail lookup fall back silently to their defaults here;
// the dialogue layer is responsible for blocking invalid values during
// collection.
func (s *Service) PredictIntake(ctx context.Context, data map[string]string) models.PredictionResult {
	age := intOr(data[lexicon.SlotAge], lexicon.DefaultAge)
	weight := floatOr(data[lexicon.SlotWeight], lexicon.DefaultWeight)
	gender := enumOr(lexicon.SlotGender, data[lexicon.SlotGender], lexicon.DefaultGender)
	humidityScale := numericIntOr(data[lexicon.SlotHumidityScale], lexicon.DefaultHumidityScale)
	temperature := numericFloatOr(data[lexicon.SlotTemperature], lexicon.DefaultTemperature)
	activityLevel := enumOr(lexicon.SlotActivity, data[lexicon.SlotActivity], lexicon.DefaultActivity)

	subActivityName := data[lexicon.SlotSubActivity]
	if subActivityName == "" {
		subActivityName = lexicon.DefaultSubActivity
	}

	complication := resolveComplication(data[lexicon.SlotComplication])
	isIndoors := enumOr(lexicon.SlotIndoors, data[lexicon.SlotIndoors], lexicon.DefaultIndoors)
	isGroundWet := enumOr(lexicon.SlotGroundWet, data[lexicon.SlotGroundWet], lexicon.DefaultGroundWet)
	isWindy := enumOr(lexicon.SlotWindyOrFanned, data[lexicon.SlotWindyOrFanned], lexicon.DefaultWindyOrFanned)
	isDirectSun := enumOr(lexicon.SlotDirectSun, data[lexicon.SlotDirectSun], lexicon.DefaultDirectSun)

	profile := ResolveActivity(activityLevel, subActivityName, age, weight, gender)
	score := IntensityScore(profile)

	features := []float64{
		float64(age), float64(gender), weight, float64(humidityScale),
		temperature, float64(complication), float64(isIndoors),
		float64(isGroundWet), float64(isWindy), float64(isDirectSun),
		float64(profile.ActivityType), profile.DurationMinutes, profile.Pace,
		float64(profile.TerrainType), float64(profile.SweatLevel), score,
	}

	intake := FallbackIntakeML
	modelUsed := false
	if s.predictor != nil {
		predicted, err := s.predictor.Predict(ctx, features)
		if err != nil {
			slog.Warn("Service.PredictIntake: predictor failed, using fallback", "error", err, "fallback_ml", FallbackIntakeML)
		} else {
			intake = predicted
			modelUsed = true
		}
	} else {
		slog.Debug("Service.PredictIntake: no predictor configured, using fallback", "fallback_ml", FallbackIntakeML)
	}

	slog.Info("Service.PredictIntake: prediction complete",
		"intake_ml", intake, "intensity_score", score, "model_used", modelUsed)

	return models.PredictionResult{
		PredictedIntakeML: intake,
		IntensityScore:    score,
		Profile:           models.UserProfile{Age: age, Weight: weight, Gender: gender},
		Environment: models.Environment{
			Temperature:     temperature,
			HumidityScale:   humidityScale,
			IsIndoors:       isIndoors,
			IsGroundWet:     isGroundWet,
			IsWindyOrFanned: isWindy,
			IsDirectSun:     isDirectSun,
		},
		Activity: models.ActivitySummary{
			Level:    activityLevel,
			Name:     subActivityName,
			Duration: profile.DurationMinutes,
			Pace:     profile.Pace,
		},
		Complication: complication,
		ModelUsed:    modelUsed,
	}
}

// resolveComplication maps the complication text to its code: direct enum
// match first, then severity inference from keywords, then none.
func resolveComplication(raw string) int {
	lowered := strings.ToLower(strings.TrimSpace(raw))
	if code, ok := lexicon.ComplicationMap[lowered]; ok {
		return code
	}
	for _, kw := range severeComplicationKeywords {
		if strings.Contains(lowered, kw) {
			return lexicon.ComplicationSevere
		}
	}
	return 0
}

func intOr(raw string, def int) int {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return def
	}
	return v
}

func floatOr(raw string, def float64) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return def
	}
	return v
}

// numericIntOr extracts the first number in the string and truncates it.
func numericIntOr(raw string, def int) int {
	v, ok := lexicon.ExtractNumber(raw)
	if !ok {
		return def
	}
	return int(v)
}

// numericFloatOr extracts the first number in the string.
func numericFloatOr(raw string, def float64) float64 {
	v, ok := lexicon.ExtractNumber(raw)
	if !ok {
		return def
	}
	return v
}

func enumOr(slot, raw string, def int) int {
	code, ok := lexicon.EnumCode(slot, raw)
	if !ok {
		return def
	}
	return code
}
