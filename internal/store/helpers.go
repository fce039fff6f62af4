package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/marufai/HydraCoach/internal/models"
)

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanSession decodes one session row, including its JSON-encoded data and
// chat-history columns.
func scanSession(row rowScanner) (*models.Session, error) {
	var sess models.Session
	var phase, data, history string
	var createdAt, updatedAt time.Time
	if err := row.Scan(&sess.ID, &phase, &sess.CurrentField, &data, &history, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	sess.Phase = models.Phase(phase)
	sess.CreatedAt = createdAt
	sess.UpdatedAt = updatedAt
	if err := json.Unmarshal([]byte(data), &sess.Data); err != nil {
		return nil, fmt.Errorf("failed to decode session data: %w", err)
	}
	if err := json.Unmarshal([]byte(history), &sess.ChatHistory); err != nil {
		return nil, fmt.Errorf("failed to decode chat history: %w", err)
	}
	if sess.Data == nil {
		sess.Data = make(map[string]string)
	}
	return &sess, nil
}

// encodeSession marshals the JSON-encoded columns of a session.
func encodeSession(sess models.Session) (data, history string, err error) {
	if sess.Data == nil {
		sess.Data = map[string]string{}
	}
	dataBytes, err := json.Marshal(sess.Data)
	if err != nil {
		return "", "", fmt.Errorf("failed to encode session data: %w", err)
	}
	if sess.ChatHistory == nil {
		sess.ChatHistory = []models.ChatMessage{}
	}
	historyBytes, err := json.Marshal(sess.ChatHistory)
	if err != nil {
		return "", "", fmt.Errorf("failed to encode chat history: %w", err)
	}
	return string(dataBytes), string(historyBytes), nil
}
