// Package history keeps the append-only log of questions, answers and the
// citations behind them.
package history

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ziadkadry99/docqa/internal/citation"
	"github.com/ziadkadry99/docqa/internal/db"
)

// Turn is one question and its answer.
type Turn struct {
	ID        string              `json:"id"`
	Timestamp time.Time           `json:"timestamp"`
	Question  string              `json:"question"`
	Answer    string              `json:"answer"`
	Citations []citation.Citation `json:"citations"`
}

// Store persists conversation turns.
type Store struct {
	db *db.DB
}

// NewStore creates a Store backed by the given database.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// Append records a turn. An empty ID is filled with a UUID and a zero
// Timestamp with the current time. The stored turn is returned.
func (s *Store) Append(ctx context.Context, turn Turn) (Turn, error) {
	if turn.ID == "" {
		turn.ID = uuid.New().String()
	}
	if turn.Timestamp.IsZero() {
		turn.Timestamp = time.Now()
	}
	turn.Timestamp = turn.Timestamp.UTC()
	if turn.Citations == nil {
		turn.Citations = []citation.Citation{}
	}

	cites, err := json.Marshal(turn.Citations)
	if err != nil {
		return Turn{}, fmt.Errorf("marshalling citations: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO conversation_turns (id, asked_at, question, answer, citations)
		VALUES (?, ?, ?, ?, ?)`,
		turn.ID,
		turn.Timestamp.Format(time.RFC3339Nano),
		turn.Question,
		turn.Answer,
		string(cites),
	)
	if err != nil {
		return Turn{}, fmt.Errorf("inserting conversation turn: %w", err)
	}
	return turn, nil
}

// List returns every turn, oldest first.
func (s *Store) List(ctx context.Context) ([]Turn, error) {
	return s.query(ctx, `
		SELECT id, asked_at, question, answer, citations
		FROM conversation_turns ORDER BY seq ASC`)
}

// Recent returns at most n of the latest turns, oldest first.
func (s *Store) Recent(ctx context.Context, n int) ([]Turn, error) {
	if n <= 0 {
		return nil, nil
	}
	return s.query(ctx, `
		SELECT id, asked_at, question, answer, citations FROM (
			SELECT seq, id, asked_at, question, answer, citations
			FROM conversation_turns ORDER BY seq DESC LIMIT ?
		) ORDER BY seq ASC`, n)
}

// Count returns the number of stored turns.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM conversation_turns").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting conversation turns: %w", err)
	}
	return n, nil
}

// Clear removes every turn and returns how many were deleted.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM conversation_turns")
	if err != nil {
		return 0, fmt.Errorf("clearing conversation history: %w", err)
	}
	return res.RowsAffected()
}

func (s *Store) query(ctx context.Context, query string, args ...any) ([]Turn, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying conversation turns: %w", err)
	}
	defer rows.Close()

	var turns []Turn
	for rows.Next() {
		var (
			t           Turn
			ts, citeTxt string
		)
		if err := rows.Scan(&t.ID, &ts, &t.Question, &t.Answer, &citeTxt); err != nil {
			return nil, fmt.Errorf("scanning conversation turn: %w", err)
		}
		if parsed, err := time.Parse(time.RFC3339Nano, ts); err == nil {
			t.Timestamp = parsed
		}
		if err := json.Unmarshal([]byte(citeTxt), &t.Citations); err != nil {
			t.Citations = nil
		}
		turns = append(turns, t)
	}
	return turns, rows.Err()
}
