package eventlog

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EventType represents the type of synthesis event
type EventType string

const (
	EventSynthesisRequested EventType = "synthesis_requested"
	EventSynthesisCompleted EventType = "synthesis_completed"
	EventSynthesisFailed    EventType = "synthesis_failed"
	EventVoicesListed       EventType = "voices_listed"
	EventVoicesFailed       EventType = "voices_failed"
	EventStreamStarted      EventType = "stream_started"
	EventStreamCompleted    EventType = "stream_completed"
	EventStreamFailed       EventType = "stream_failed"
)

// Logger provides async event logging to the database
type Logger struct {
	db *pgxpool.Pool
}

// New creates a new event logger. A nil pool disables logging entirely;
// every method becomes a no-op so the gateway runs without a database.
func New(db *pgxpool.Pool) *Logger {
	return &Logger{db: db}
}

// Log writes an event to the database synchronously
func (l *Logger) Log(ctx context.Context, requestID string, eventType EventType, data map[string]any) error {
	if l == nil || l.db == nil || requestID == "" {
		return nil // Silently skip if no DB or request ID
	}

	dataJSON, err := json.Marshal(data)
	if err != nil {
		dataJSON = []byte("{}")
	}

	_, err = l.db.Exec(ctx, `
		INSERT INTO synthesis_events (request_id, event_type, event_data)
		VALUES ($1, $2, $3)
	`, requestID, string(eventType), dataJSON)

	return err
}

// LogAsync logs an event without blocking the caller
func (l *Logger) LogAsync(requestID string, eventType EventType, data map[string]any) {
	if l == nil || l.db == nil || requestID == "" {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = l.Log(ctx, requestID, eventType, data)
	}()
}

// Event is one persisted synthesis event.
type Event struct {
	ID        int64          `json:"id"`
	RequestID string         `json:"request_id"`
	Type      string         `json:"event_type"`
	Data      map[string]any `json:"event_data"`
	CreatedAt time.Time      `json:"created_at"`
}

// Recent returns the newest events first, capped at limit. Without a
// database it returns nothing.
func (l *Logger) Recent(ctx context.Context, limit int) ([]Event, error) {
	if l == nil || l.db == nil {
		return nil, nil
	}

	rows, err := l.db.Query(ctx, `
		SELECT id, request_id, event_type, event_data, created_at
		FROM synthesis_events
		ORDER BY id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		var raw []byte
		if err := rows.Scan(&e.ID, &e.RequestID, &e.Type, &raw, &e.CreatedAt); err != nil {
			return nil, err
		}
		if len(raw) > 0 {
			_ = json.Unmarshal(raw, &e.Data)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
