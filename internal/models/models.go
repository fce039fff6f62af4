// Package models defines the data structures shared across HydraCoach modules.
//
// It contains the wire-level request/response records for the chat and
// prediction endpoints, the derived activity/prediction structures, and the
// standard API response envelope.
package models

import (
	"fmt"
	"strconv"
	"strings"
)

// ChatRequest is the payload accepted by the /chat endpoint.
type ChatRequest struct {
	Message   string         `json:"message"`
	SessionID string         `json:"session_id"`
	UserData  map[string]any `json:"user_data,omitempty"`
}

// ChatResponse is the payload returned by the /chat endpoint. AskFor names
// the slot the assistant expects next, or is empty when no slot is pending.
type ChatResponse struct {
	Response  string   `json:"response"`
	AskFor    string   `json:"ask_for,omitempty"`
	Summary   *Summary `json:"summary,omitempty"`
	SessionID string   `json:"session_id,omitempty"`
}

// SummaryBullet is a single indented line in the hydration summary.
type SummaryBullet struct {
	Indent int    `json:"indent"`
	Text   string `json:"text"`
}

// Summary is the structured recap delivered once a collection cycle
// completes and a prediction has been made.
type Summary struct {
	Title             string          `json:"title"`
	Description       string          `json:"description"`
	Bullets           []SummaryBullet `json:"bullets"`
	CautionText       string          `json:"caution_text"`
	RecommendedIntake string          `json:"recommended_intake"`
	Tip               string          `json:"tip"`
}

// PredictGoalResponse is the payload returned by the stateless
// /ai-api/predict-goal endpoint.
type PredictGoalResponse struct {
	Status           string  `json:"status"`
	PredictedGoalML  float64 `json:"predicted_goal_ml"`
	PredictedMessage string  `json:"predicted_message"`
}

// ActivityProfile is the detailed physiological profile derived from the
// activity tier, sub-activity choice, and demographics. It is computed per
// prediction and never persisted.
type ActivityProfile struct {
	ActivityType    int     `json:"activity_type"`
	DurationMinutes float64 `json:"duration_minutes"`
	Pace            float64 `json:"pace"`
	TerrainType     int     `json:"terrain_type"`
	SweatLevel      int     `json:"sweat_level"`
}

// UserProfile holds the demographic portion of a prediction result.
type UserProfile struct {
	Age    int     `json:"age"`
	Weight float64 `json:"weight"`
	Gender int     `json:"gender"`
}

// Environment holds the environmental portion of a prediction result.
type Environment struct {
	Temperature     float64 `json:"temperature"`
	HumidityScale   int     `json:"humidity_scale"`
	IsIndoors       int     `json:"is_indoors"`
	IsGroundWet     int     `json:"is_ground_wet"`
	IsWindyOrFanned int     `json:"is_windy_or_fanned"`
	IsDirectSun     int     `json:"is_direct_sun"`
}

// ActivitySummary holds the activity portion of a prediction result.
type ActivitySummary struct {
	Level    int     `json:"level"`
	Name     string  `json:"name"`
	Duration float64 `json:"duration"`
	Pace     float64 `json:"pace"`
}

// PredictionResult is the ephemeral outcome of one completed collection
// cycle: the predicted intake plus everything needed to present it.
type PredictionResult struct {
	PredictedIntakeML float64         `json:"predicted_intake_ml"`
	IntensityScore    float64         `json:"intensity_score"`
	Profile           UserProfile     `json:"profile"`
	Environment       Environment     `json:"environment"`
	Activity          ActivitySummary `json:"activity"`
	Complication      int             `json:"complication"`
	ModelUsed         bool            `json:"model_used"`
}

// APIStatus represents the status field of an API response envelope.
type APIStatus string

// API status constants.
const (
	APIStatusOK    APIStatus = "success"
	APIStatusError APIStatus = "error"
)

// APIResponse is the standard envelope for administrative endpoints.
type APIResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Result  any    `json:"result,omitempty"`
}

// Success creates a successful API response with optional result data.
func Success(result any) APIResponse {
	return APIResponse{Status: string(APIStatusOK), Result: result}
}

// SuccessWithMessage creates a successful API response with a message and
// optional result data.
func SuccessWithMessage(message string, result any) APIResponse {
	return APIResponse{Status: string(APIStatusOK), Message: message, Result: result}
}

// Error creates an error API response with a message.
func Error(message string) APIResponse {
	return APIResponse{Status: string(APIStatusError), Message: message}
}

// CanonicalValue renders a loosely typed profile attribute as the string
// form the slot tables and the feature builder expect. Textual values are
// lower-cased, booleans become yes/no.
func CanonicalValue(value any) string {
	switch v := value.(type) {
	case string:
		return strings.ToLower(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case bool:
		if v {
			return "yes"
		}
		return "no"
	default:
		return strings.ToLower(fmt.Sprintf("%v", v))
	}
}

// CanonicalizeAttributes converts a decoded JSON attribute map into string
// form via CanonicalValue.
func CanonicalizeAttributes(attrs map[string]any) map[string]string {
	out := make(map[string]string, len(attrs))
	for key, value := range attrs {
		out[key] = CanonicalValue(value)
	}
	return out
}
