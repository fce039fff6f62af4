// Package api provides HTTP handlers for HydraCoach endpoints.
package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/marufai/HydraCoach/internal/lexicon"
	"github.com/marufai/HydraCoach/internal/models"
)

// Messages attached to stateless goal predictions.
const (
	goalMessageDefault      = "Your personalized goal has been calculated successfully."
	goalMessageHighActivity = "Goal adjusted for your high activity and biometrics."
	goalMessageSevere       = "Goal calculated with severe health caution. Consult a doctor."
)

// Score at or above which a goal is attributed to high activity.
const highActivityScore = 0.6

func (s *Server) chatHandler(w http.ResponseWriter, r *http.Request) {
	if r.Body != nil {
		defer r.Body.Close()
	}
	slog.Debug("Server.chatHandler: processing chat request", "method", r.Method, "path", r.URL.Path)
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		slog.Warn("Server.chatHandler: method not allowed", "method", r.Method)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Warn("Server.chatHandler: failed to decode JSON", "error", err)
		writeJSONResponse(w, http.StatusBadRequest, models.Error("Invalid JSON format"))
		return
	}

	// Callers without a session id get a server-generated one, echoed back
	// so they can continue the conversation.
	generated := false
	if req.SessionID == "" {
		req.SessionID = uuid.NewString()
		generated = true
		slog.Debug("Server.chatHandler: generated session id", "session_id", req.SessionID)
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.chatTimeout)
	defer cancel()

	resp, err := s.engine.ProcessTurn(ctx, req)
	if err != nil {
		slog.Error("Server.chatHandler: failed to process turn", "error", err, "session_id", req.SessionID)
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to process chat message"))
		return
	}
	if generated {
		resp.SessionID = req.SessionID
	}

	slog.Info("Server.chatHandler: turn processed", "session_id", req.SessionID, "ask_for", resp.AskFor, "has_summary", resp.Summary != nil)
	writeJSONResponse(w, http.StatusOK, resp)
}

// predictGoalHandler serves one-shot goal predictions from a flat attribute
// map, bypassing the dialogue entirely (POST /ai-api/predict-goal).
func (s *Server) predictGoalHandler(w http.ResponseWriter, r *http.Request) {
	if r.Body != nil {
		defer r.Body.Close()
	}
	slog.Debug("Server.predictGoalHandler: processing predict request", "method", r.Method, "path", r.URL.Path)
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		slog.Warn("Server.predictGoalHandler: method not allowed", "method", r.Method)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var attrs map[string]any
	if err := json.NewDecoder(r.Body).Decode(&attrs); err != nil {
		slog.Warn("Server.predictGoalHandler: failed to decode JSON", "error", err)
		writeJSONResponse(w, http.StatusBadRequest, models.Error("Invalid JSON format"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.chatTimeout)
	defer cancel()

	result := s.predict.PredictIntake(ctx, models.CanonicalizeAttributes(attrs))

	message := goalMessageDefault
	switch {
	case result.Complication == lexicon.ComplicationSevere:
		message = goalMessageSevere
	case result.IntensityScore >= highActivityScore:
		message = goalMessageHighActivity
	}

	slog.Info("Server.predictGoalHandler: goal predicted", "goal_ml", result.PredictedIntakeML, "model_used", result.ModelUsed)
	writeJSONResponse(w, http.StatusOK, models.PredictGoalResponse{
		Status:           "success",
		PredictedGoalML:  result.PredictedIntakeML,
		PredictedMessage: message,
	})
}

// healthHandler provides a health check endpoint for monitoring and load
// balancing (GET /health).
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	healthData := map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	writeJSONResponse(w, http.StatusOK, healthData)
}
