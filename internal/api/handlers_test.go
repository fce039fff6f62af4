package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/marufai/HydraCoach/internal/hydration"
	"github.com/marufai/HydraCoach/internal/models"
)

func decodeGoal(t *testing.T, rec *httptest.ResponseRecorder) models.PredictGoalResponse {
	t.Helper()
	var resp models.PredictGoalResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return resp
}

func TestPredictGoalDefaultMessage(t *testing.T) {
	server := newTestServer(t)

	rec := postJSON(t, server.predictGoalHandler, "/ai-api/predict-goal", map[string]any{
		"age":          30,
		"gender":       "female",
		"weight":       60,
		"activity":     "low",
		"sub_activity": "Yoga/Stretching",
		"complication": "none",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	resp := decodeGoal(t, rec)
	if resp.Status != "success" {
		t.Errorf("status = %q, want success", resp.Status)
	}
	if resp.PredictedGoalML != hydration.FallbackIntakeML {
		t.Errorf("predicted_goal_ml = %v, want fallback %v", resp.PredictedGoalML, hydration.FallbackIntakeML)
	}
	if resp.PredictedMessage != goalMessageDefault {
		t.Errorf("message = %q, want %q", resp.PredictedMessage, goalMessageDefault)
	}
}

func TestPredictGoalHighActivityMessage(t *testing.T) {
	server := newTestServer(t)

	rec := postJSON(t, server.predictGoalHandler, "/ai-api/predict-goal", map[string]any{
		"age":          23,
		"gender":       "male",
		"weight":       70,
		"activity":     "high",
		"sub_activity": "Intense Running",
		"complication": "none",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	resp := decodeGoal(t, rec)
	if resp.PredictedMessage != goalMessageHighActivity {
		t.Errorf("message = %q, want %q", resp.PredictedMessage, goalMessageHighActivity)
	}
}

func TestPredictGoalSevereComplicationMessage(t *testing.T) {
	server := newTestServer(t)

	rec := postJSON(t, server.predictGoalHandler, "/ai-api/predict-goal", map[string]any{
		"age":          45,
		"gender":       "male",
		"weight":       80,
		"activity":     "medium",
		"complication": "severe",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	resp := decodeGoal(t, rec)
	if resp.PredictedMessage != goalMessageSevere {
		t.Errorf("message = %q, want %q", resp.PredictedMessage, goalMessageSevere)
	}
}

func TestPredictGoalSevereOutranksHighActivity(t *testing.T) {
	server := newTestServer(t)

	rec := postJSON(t, server.predictGoalHandler, "/ai-api/predict-goal", map[string]any{
		"age":          23,
		"gender":       "male",
		"weight":       70,
		"activity":     "high",
		"sub_activity": "Intense Sports",
		"complication": "severe",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	resp := decodeGoal(t, rec)
	if resp.PredictedMessage != goalMessageSevere {
		t.Errorf("message = %q, want %q", resp.PredictedMessage, goalMessageSevere)
	}
}

func TestPredictGoalInvalidJSON(t *testing.T) {
	server := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/ai-api/predict-goal", strings.NewReader("not json"))
	rec := httptest.NewRecorder()
	server.predictGoalHandler(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	var envelope models.APIResponse
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("failed to decode envelope: %v", err)
	}
	if envelope.Status != string(models.APIStatusError) {
		t.Errorf("status = %q, want error", envelope.Status)
	}
}

func TestPredictGoalMethodNotAllowed(t *testing.T) {
	server := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/ai-api/predict-goal", nil)
	rec := httptest.NewRecorder()
	server.predictGoalHandler(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
	}
}
