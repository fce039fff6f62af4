package dialog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/marufai/HydraCoach/internal/genai"
	"github.com/marufai/HydraCoach/internal/hydration"
	"github.com/marufai/HydraCoach/internal/intent"
	"github.com/marufai/HydraCoach/internal/lexicon"
	"github.com/marufai/HydraCoach/internal/models"
	"github.com/marufai/HydraCoach/internal/observability"
	"github.com/marufai/HydraCoach/internal/store"
)

// Intent tag driving the start of data collection.
const startCollectionTag = "start_data_collection"

// AskFor value emitted while waiting for consent.
const askPermissionField = "permission_check"

// Replies used when the chat delegate cannot serve a free-text turn.
const (
	chatUnavailableReply = "I'm sorry, the AI service is currently unavailable. I can only help with hydration analysis."
	chatErrorReply       = "I'm sorry, I couldn't process that request right now."
)

var (
	affirmativeKeywords = []string{"yes", "yup", "sure", "ok"}
	negativeKeywords    = []string{"no", "nope", "not now"}
)

// Engine owns the dialogue state machine. One Engine serves all sessions;
// turns for the same session id are serialized internally.
type Engine struct {
	store   store.Store
	intents *intent.Matcher
	service *hydration.Service
	chat    genai.ClientInterface // nil when no chat backend is configured
	locks   *keyedMutex
}

// NewEngine creates a dialogue engine. The chat delegate may be nil, in
// which case free-text turns get a fixed unavailability reply.
func NewEngine(st store.Store, intents *intent.Matcher, service *hydration.Service, chat genai.ClientInterface) *Engine {
	slog.Debug("dialog.NewEngine: creating engine", "hasChatDelegate", chat != nil)
	return &Engine{
		store:   st,
		intents: intents,
		service: service,
		chat:    chat,
		locks:   newKeyedMutex(),
	}
}

// ProcessTurn runs one dialogue turn for the request's session and returns
// the outgoing message. It loads the session, applies the state machine,
// and saves the session back before returning. Returned errors are
// infrastructure failures (store unavailable); dialogue-level problems are
// always expressed through the response text.
func (e *Engine) ProcessTurn(ctx context.Context, req models.ChatRequest) (models.ChatResponse, error) {
	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = "default_user"
	}

	unlock := e.locks.lock(sessionID)
	defer unlock()

	session, err := e.store.GetSession(sessionID)
	if err != nil {
		return models.ChatResponse{}, fmt.Errorf("failed to load session %s: %w", sessionID, err)
	}
	if session == nil {
		session = models.NewSession(sessionID)
	}
	observability.RecordTurn(string(session.Phase))
	slog.Debug("Engine.ProcessTurn: session loaded", "session_id", sessionID, "phase", session.Phase, "current_field", session.CurrentField)

	resp := e.advance(ctx, session, req)

	if session.Phase == models.PhaseComplete {
		e.completePrediction(ctx, session, &resp)
	}

	session.UpdatedAt = time.Now()
	if err := e.store.SaveSession(*session); err != nil {
		return models.ChatResponse{}, fmt.Errorf("failed to save session %s: %w", sessionID, err)
	}
	return resp, nil
}

// advance applies one state transition and produces the outgoing message.
// The caller handles the COMPLETE phase afterwards.
func (e *Engine) advance(ctx context.Context, session *models.Session, req models.ChatRequest) models.ChatResponse {
	message := strings.TrimSpace(req.Message)

	// Fast path: a caller that supplies every core field up front on a
	// fresh session skips the dialogue entirely.
	if len(session.Data) == 0 && hasAllCoreSlots(req.UserData) {
		ingestUserData(session, req.UserData, false)
		session.Phase = models.PhaseComplete
		slog.Info("Engine.advance: fast path, all core fields supplied", "session_id", session.ID)
		return models.ChatResponse{Response: "Analyzing your profile data to provide a personalized hydration recommendation..."}
	}

	tag, _, matched := e.intents.Match(message)

	inFlow := session.Phase == models.PhaseAskPermission || session.Phase == models.PhaseCollecting
	if !inFlow && (!matched || tag != startCollectionTag) {
		return e.delegateToChat(ctx, session, message)
	}

	// A start trigger restarts collection even mid-flow.
	if matched && tag == startCollectionTag {
		session.Data = make(map[string]string)
		session.CurrentField = ""
		session.Phase = models.PhaseAskPermission
		slog.Info("Engine.advance: starting data collection", "session_id", session.ID)
		return models.ChatResponse{
			Response: e.intents.ResponseForTag("ask_permission"),
			AskFor:   askPermissionField,
		}
	}

	switch session.Phase {
	case models.PhaseAskPermission:
		return e.handlePermission(session, message, req.UserData)
	case models.PhaseCollecting:
		return e.handleCollection(session, message, req.UserData)
	}

	// Unreachable: every phase is handled above. Fall back to the generic
	// canned response rather than silence.
	return models.ChatResponse{Response: e.intents.ResponseForTag(intent.FallbackTag)}
}

// delegateToChat hands a free-text turn to the chat backend and records
// the exchange in the session history.
func (e *Engine) delegateToChat(ctx context.Context, session *models.Session, message string) models.ChatResponse {
	observability.RecordChatDelegate()

	reply := chatUnavailableReply
	if e.chat != nil {
		generated, err := e.chat.Chat(ctx, session.ChatHistory, message)
		if err != nil {
			slog.Warn("Engine.delegateToChat: chat delegate failed", "session_id", session.ID, "error", err)
			reply = chatErrorReply
		} else {
			reply = generated
		}
	}

	session.AppendChat("user", message)
	session.AppendChat("assistant", reply)
	session.CurrentField = ""
	return models.ChatResponse{Response: reply}
}

// handlePermission resolves the consent question.
func (e *Engine) handlePermission(session *models.Session, message string, userData map[string]any) models.ChatResponse {
	lowered := strings.ToLower(message)

	if containsAny(lowered, affirmativeKeywords) {
		ingestUserData(session, userData, false)

		confirmation := e.intents.ResponseForTag("confirmation")
		next, missing := FirstMissing(session.Data)
		if !missing {
			session.Phase = models.PhaseComplete
			session.CurrentField = ""
			return models.ChatResponse{Response: confirmation + " Moving to prediction..."}
		}
		session.Phase = models.PhaseCollecting
		session.CurrentField = next
		return models.ChatResponse{
			Response: confirmation + " " + e.intents.ResponseForTag("ask_"+next),
			AskFor:   next,
		}
	}

	if containsAny(lowered, negativeKeywords) {
		session.Clear()
		slog.Info("Engine.handlePermission: consent declined", "session_id", session.ID)
		return models.ChatResponse{Response: e.intents.ResponseForTag("denial")}
	}

	return models.ChatResponse{
		Response: e.intents.ResponseForTag("fallback_permission_retry"),
		AskFor:   askPermissionField,
	}
}

// handleCollection validates the message against the slot currently being
// asked and moves the pointer to the next missing slot.
func (e *Engine) handleCollection(session *models.Session, message string, userData map[string]any) models.ChatResponse {
	field := session.CurrentField

	canonical, err := ValidateSlot(field, message)
	switch {
	case errors.Is(err, ErrInvalidNumber):
		observability.RecordValidationFailure(field)
		return models.ChatResponse{
			Response: fmt.Sprintf("Sorry, I need a valid number for %s. Please try again.", field),
			AskFor:   field,
		}
	case errors.Is(err, ErrOutOfRange):
		observability.RecordValidationFailure(field)
		return models.ChatResponse{
			Response: "The humidity scale must be a number between 1 (very high) and 5 (very low). Please enter a valid scale value.",
			AskFor:   field,
		}
	case err == nil:
		session.Data[field] = canonical
	}
	// A lexicon lookup miss stores nothing: the slot stays missing and is
	// asked again below.

	if field == lexicon.SlotActivity && err == nil {
		tier, _ := lexicon.EnumCode(lexicon.SlotActivity, canonical)
		session.Data[lexicon.SlotActivityLevelInt] = strconv.Itoa(tier)
		session.CurrentField = lexicon.SlotSubActivity
		options := strings.Join(hydration.SubActivityNames(tier), ", ")
		return models.ChatResponse{
			Response: fmt.Sprintf("You chose %s activity. Which type of activity do you usually do? (Options: %s)", lexicon.Capitalize(canonical), options),
			AskFor:   lexicon.SlotSubActivity,
		}
	}

	ingestUserData(session, userData, true)

	next, missing := FirstMissing(session.Data)
	if !missing {
		session.Phase = models.PhaseComplete
		session.CurrentField = ""
		return models.ChatResponse{Response: "Thank you! I have all the data. Calculating recommendation..."}
	}
	session.CurrentField = next
	return models.ChatResponse{
		Response: e.intents.ResponseForTag("ask_" + next),
		AskFor:   next,
	}
}

// completePrediction runs the orchestrator over the collected data,
// attaches the summary, and resets the session for the next cycle.
func (e *Engine) completePrediction(ctx context.Context, session *models.Session, resp *models.ChatResponse) {
	result := e.service.PredictIntake(ctx, session.Data)
	observability.RecordPrediction(result.ModelUsed)

	summary := buildSummary(result)
	resp.Summary = &summary
	resp.AskFor = ""
	resp.Response = e.intents.ResponseForTag("response_loading")
	if !result.ModelUsed {
		resp.Response += " " + e.intents.ResponseForTag("model_unavailable")
	}

	session.Clear()
	slog.Info("Engine.completePrediction: cycle complete", "session_id", session.ID, "intake_ml", result.PredictedIntakeML, "model_used", result.ModelUsed)
}

// buildSummary renders the structured recap for a prediction result.
func buildSummary(r models.PredictionResult) models.Summary {
	envText := "Outdoors"
	if r.Environment.IsIndoors == 1 {
		envText = "Indoors"
	}
	if r.Environment.IsGroundWet == 1 {
		envText += ", Ground Wet"
	} else {
		envText += ", Ground Dry"
	}
	if r.Environment.IsWindyOrFanned == 1 {
		envText += ", Strong Wind/Fan"
	}
	if r.Environment.IsDirectSun == 1 {
		envText += ", Direct Sun ☀️"
	}

	tip := hydration.ComposeTip(hydration.TipInput{
		ActivityLevel:   r.Activity.Level,
		IntensityScore:  r.IntensityScore,
		Temperature:     r.Environment.Temperature,
		Complication:    r.Complication,
		IsIndoors:       r.Environment.IsIndoors,
		IsWindyOrFanned: r.Environment.IsWindyOrFanned,
		IsDirectSun:     r.Environment.IsDirectSun,
		PredictedIntake: r.PredictedIntakeML,
	})

	glasses := r.PredictedIntakeML / hydration.StandardGlassML
	return models.Summary{
		Title:       "🧾 Hydration Summary",
		Description: "Using the collected additional information, our model predicted or calculated how much water you should take.",
		Bullets: []models.SummaryBullet{
			{Indent: 1, Text: fmt.Sprintf("👤 Profile: %d yo, %s, %.1f kg", r.Profile.Age, lexicon.Display(lexicon.GenderReverse, r.Profile.Gender), r.Profile.Weight)},
			{Indent: 1, Text: fmt.Sprintf("🏃 Activity: %s - %s (Score: %.2f)", lexicon.Display(lexicon.ActivityReverse, r.Activity.Level), r.Activity.Name, r.IntensityScore)},
			{Indent: 1, Text: fmt.Sprintf("⏱️ Estimated Duration/Pace: %.0f min, %.1f km/h", r.Activity.Duration, r.Activity.Pace)},
			{Indent: 1, Text: fmt.Sprintf("🌡️ Conditions: %.1f°C, Humidity Scale: %d", r.Environment.Temperature, r.Environment.HumidityScale)},
			{Indent: 1, Text: fmt.Sprintf("🏠 Environment: %s", envText)},
			{Indent: 1, Text: fmt.Sprintf("🩺 Complication: %s", lexicon.Display(lexicon.ComplicationReverse, r.Complication))},
		},
		CautionText:       "The predicted water intake is not always accurate, and this is not an alternative to any health expert. Consider the result as a guide.",
		RecommendedIntake: fmt.Sprintf("~%.0f ml or %.1f glasses", r.PredictedIntakeML, glasses),
		Tip:               tip,
	}
}

// hasAllCoreSlots reports whether the out-of-band payload covers every
// core field needed for the fast path.
func hasAllCoreSlots(userData map[string]any) bool {
	if len(userData) == 0 {
		return false
	}
	for _, slot := range lexicon.CoreSlots {
		if _, ok := userData[slot]; !ok {
			return false
		}
	}
	return true
}

// ingestUserData copies out-of-band fields into the session verbatim,
// lower-casing textual values. When onlyMissing is set, fields the session
// already holds are left untouched.
func ingestUserData(session *models.Session, userData map[string]any, onlyMissing bool) {
	for key, value := range userData {
		if onlyMissing {
			if _, exists := session.Data[key]; exists {
				continue
			}
		}
		session.Data[key] = models.CanonicalValue(value)
	}
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
