package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/marufai/HydraCoach/internal/models"
)

func sampleSession(id string) models.Session {
	now := time.Now().Truncate(time.Second)
	return models.Session{
		ID:           id,
		Phase:        models.PhaseCollecting,
		CurrentField: "age",
		Data:         map[string]string{"gender": "male"},
		ChatHistory:  []models.ChatMessage{{Role: "user", Content: "hi"}},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func testStoreRoundTrip(t *testing.T, st Store) {
	t.Helper()

	got, err := st.GetSession("missing")
	if err != nil {
		t.Fatalf("GetSession(missing): %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for missing session, got %+v", got)
	}

	sess := sampleSession("s1")
	if err := st.SaveSession(sess); err != nil {
		t.Fatalf("SaveSession: %v", err)
	}

	got, err = st.GetSession("s1")
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if got == nil {
		t.Fatal("expected session, got nil")
	}
	if got.Phase != models.PhaseCollecting || got.CurrentField != "age" {
		t.Errorf("loaded session mismatch: %+v", got)
	}
	if got.Data["gender"] != "male" {
		t.Errorf("loaded data mismatch: %v", got.Data)
	}
	if len(got.ChatHistory) != 1 || got.ChatHistory[0].Content != "hi" {
		t.Errorf("loaded chat history mismatch: %v", got.ChatHistory)
	}

	if err := st.DeleteSession("s1"); err != nil {
		t.Fatalf("DeleteSession: %v", err)
	}
	got, err = st.GetSession("s1")
	if err != nil || got != nil {
		t.Errorf("expected session gone after delete, got (%+v, %v)", got, err)
	}
}

func testStorePrunesIdleSessions(t *testing.T, st Store) {
	t.Helper()

	sess := sampleSession("s2")
	if err := st.SaveSession(sess); err != nil {
		t.Fatalf("SaveSession: %v", err)
	}

	// A cleared session with no history carries nothing worth keeping.
	sess.Clear()
	sess.ChatHistory = nil
	if err := st.SaveSession(sess); err != nil {
		t.Fatalf("SaveSession(idle): %v", err)
	}
	got, err := st.GetSession("s2")
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if got != nil {
		t.Errorf("idle session should be pruned on save, got %+v", got)
	}
}

func TestInMemoryStore(t *testing.T) {
	testStoreRoundTrip(t, NewInMemoryStore())
	testStorePrunesIdleSessions(t, NewInMemoryStore())
}

func TestInMemoryStoreReturnsCopies(t *testing.T) {
	st := NewInMemoryStore()
	if err := st.SaveSession(sampleSession("s3")); err != nil {
		t.Fatalf("SaveSession: %v", err)
	}
	first, _ := st.GetSession("s3")
	first.Data["gender"] = "female"
	second, _ := st.GetSession("s3")
	if second.Data["gender"] != "male" {
		t.Errorf("store leaked internal state through GetSession")
	}
}

func TestSQLiteStore(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "sessions.db")
	st, err := NewSQLiteStore(WithDSN(dsn))
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	defer st.Close()

	testStoreRoundTrip(t, st)
	testStorePrunesIdleSessions(t, st)
}

func TestSQLiteStoreRequiresDSN(t *testing.T) {
	if _, err := NewSQLiteStore(); err == nil {
		t.Errorf("expected error when DSN missing")
	}
}
