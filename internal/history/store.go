package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"karigari/internal/conversation"
)

// Store manages the local archive backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the history database and applies the
// schema.
func Open(path string) (*Store, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return nil, errors.New("history: database path required")
	}
	if err := os.MkdirAll(filepath.Dir(trimmed), 0o755); err != nil {
		return nil, fmt.Errorf("history: ensure state directory: %w", err)
	}

	db, err := sql.Open("sqlite", trimmed)
	if err != nil {
		return nil, fmt.Errorf("history: open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("history: apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: trimmed}
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the on-disk database location.
func (s *Store) Path() string { return s.path }

// AppendTurn records one conversation turn for the user.
func (s *Store) AppendTurn(ctx context.Context, userID string, turn conversation.Turn) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return errors.New("history: user id required")
	}
	if strings.TrimSpace(turn.Text) == "" {
		return errors.New("history: turn text required")
	}
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO chat_turns (id, user_id, speaker, text, created_at) VALUES (?, ?, ?, ?, ?)`,
		uuid.NewString(),
		userID,
		string(turn.Speaker),
		turn.Text,
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("history: insert turn: %w", err)
	}
	return nil
}

// RecentTurns returns up to limit of the user's most recent turns in
// insertion order (oldest of the window first).
func (s *Store) RecentTurns(ctx context.Context, userID string, limit int) ([]conversation.Turn, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, errors.New("history: user id required")
	}
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT speaker, text FROM (
            SELECT speaker, text, rowid AS seq FROM chat_turns
            WHERE user_id = ? ORDER BY seq DESC LIMIT ?
        ) ORDER BY seq ASC`,
		userID,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("history: query turns: %w", err)
	}
	defer rows.Close()

	var turns []conversation.Turn
	for rows.Next() {
		var speaker, text string
		if err := rows.Scan(&speaker, &text); err != nil {
			return nil, fmt.Errorf("history: scan turn: %w", err)
		}
		turns = append(turns, conversation.Turn{Speaker: conversation.Speaker(speaker), Text: text})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history: iterate turns: %w", err)
	}
	return turns, nil
}

// StoryRecord is one archived story generation.
type StoryRecord struct {
	ID        string
	UserID    string
	Prompt    string
	Text      string
	AudioPath string
	CreatedAt time.Time
}

// SaveStory archives a generated story and returns its record id. audioPath
// may be empty when the narration clip was not kept.
func (s *Store) SaveStory(ctx context.Context, userID, prompt, text, audioPath string) (string, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return "", errors.New("history: user id required")
	}
	if strings.TrimSpace(text) == "" {
		return "", errors.New("history: story text required")
	}
	id := uuid.NewString()
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO stories (id, user_id, prompt, story_text, audio_path, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		id,
		userID,
		strings.TrimSpace(prompt),
		text,
		strings.TrimSpace(audioPath),
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return "", fmt.Errorf("history: insert story: %w", err)
	}
	return id, nil
}

// ListStories returns the user's archived stories, newest first.
func (s *Store) ListStories(ctx context.Context, userID string, limit int) ([]StoryRecord, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, errors.New("history: user id required")
	}
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, user_id, prompt, story_text, audio_path, created_at FROM stories
         WHERE user_id = ? ORDER BY created_at DESC LIMIT ?`,
		userID,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("history: query stories: %w", err)
	}
	defer rows.Close()

	var records []StoryRecord
	for rows.Next() {
		var record StoryRecord
		var createdRaw string
		if err := rows.Scan(&record.ID, &record.UserID, &record.Prompt, &record.Text, &record.AudioPath, &createdRaw); err != nil {
			return nil, fmt.Errorf("history: scan story: %w", err)
		}
		if parsed, err := time.Parse(time.RFC3339Nano, createdRaw); err == nil {
			record.CreatedAt = parsed
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history: iterate stories: %w", err)
	}
	return records, nil
}

// ClearUser removes every archived row for the user. Used on logout.
func (s *Store) ClearUser(ctx context.Context, userID string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return errors.New("history: user id required")
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM chat_turns WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("history: clear turns: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM stories WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("history: clear stories: %w", err)
	}
	return nil
}
