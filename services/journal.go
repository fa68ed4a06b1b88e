package services

import (
	"context"
	"encoding/json"
	"fmt"

	"kitchen-menu/db"
)

// Journal records handled intents for auditing. It is write-only: sessions are never
// rebuilt from it.
type Journal interface {
	Record(ctx context.Context, entry JournalEntry) error
}

type JournalEntry struct {
	SessionID string
	Kind      string
	Result    string
	Payload   Intent
	Visible   int
}

// NopJournal discards every entry.
type NopJournal struct{}

func (NopJournal) Record(context.Context, JournalEntry) error { return nil }

// DBJournal writes entries to the intent_log table through db.Pool.
type DBJournal struct{}

func (DBJournal) Record(ctx context.Context, e JournalEntry) error {
	if db.Pool == nil {
		return fmt.Errorf("intent journal: no database pool")
	}
	payload, err := json.Marshal(e.Payload)
	if err != nil {
		return fmt.Errorf("marshal intent: %w", err)
	}
	_, err = db.Pool.Exec(ctx, `
		INSERT INTO intent_log (session_id, kind, result, payload, visible_count)
		VALUES ($1, $2, $3, $4::jsonb, $5)`,
		e.SessionID, e.Kind, e.Result, string(payload), e.Visible,
	)
	return err
}

// CountJournalEntries returns how many entries were logged for a session.
func CountJournalEntries(ctx context.Context, sessionID string) (int, error) {
	var n int
	err := db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM intent_log WHERE session_id = $1`, sessionID).Scan(&n)
	return n, err
}
