// Package models defines session state structures for HydraCoach dialogues.
package models

import "time"

// Phase represents where a session currently sits in the hydration dialogue.
type Phase string

// Dialogue phase constants.
const (
	PhaseNone          Phase = ""
	PhaseAskPermission Phase = "ASK_PERMISSION"
	PhaseCollecting    Phase = "COLLECTING"
	PhaseComplete      Phase = "COMPLETE"
)

// MaxChatHistory caps the number of chat messages retained per session.
// Oldest entries are discarded first.
const MaxChatHistory = 20

// ChatMessage is a single entry in a session's free-chat history.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Session is the per-conversation mutable state, keyed by an opaque session
// id. CurrentField, when set, is always a member of the required slot list,
// and Data never holds a value that failed validation.
type Session struct {
	ID           string            `json:"id"`
	Phase        Phase             `json:"phase"`
	CurrentField string            `json:"current_field,omitempty"`
	Data         map[string]string `json:"data"`
	ChatHistory  []ChatMessage     `json:"chat_history"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// NewSession creates an empty session for the given id.
func NewSession(id string) *Session {
	now := time.Now()
	return &Session{
		ID:        id,
		Data:      make(map[string]string),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Clear resets the dialogue so a new collection cycle can start under the
// same id. Chat history survives; phase, current field, and collected data
// do not.
func (s *Session) Clear() {
	s.Phase = PhaseNone
	s.CurrentField = ""
	s.Data = make(map[string]string)
}

// AppendChat records a user/assistant exchange, trimming the history to the
// most recent MaxChatHistory entries.
func (s *Session) AppendChat(role, content string) {
	s.ChatHistory = append(s.ChatHistory, ChatMessage{Role: role, Content: content})
	if len(s.ChatHistory) > MaxChatHistory {
		s.ChatHistory = s.ChatHistory[len(s.ChatHistory)-MaxChatHistory:]
	}
}

// Idle reports whether the session carries no dialogue progress worth
// persisting.
func (s *Session) Idle() bool {
	return s.Phase == PhaseNone && len(s.Data) == 0 && len(s.ChatHistory) == 0
}
