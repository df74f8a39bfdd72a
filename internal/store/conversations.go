package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

const conversationColumns = "id, audio_path, transcript_text, analysis_json, created_at, updated_at"

// Create inserts a new conversation with no transcript or analysis.
func (s *Store) Create(ctx context.Context, input NewConversation) (*Conversation, error) {
	audioPath := strings.TrimSpace(input.AudioPath)
	if audioPath == "" {
		return nil, errors.New("create conversation: audio path required")
	}
	timestamp := formatTime(time.Now())
	res, err := s.execWithRetry(ctx,
		`INSERT INTO conversations (audio_path, transcript_text, analysis_json, created_at, updated_at)
         VALUES (?, NULL, NULL, ?, ?)`,
		audioPath,
		timestamp,
		timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert conversation: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(ctx, id)
}

// GetByID fetches a conversation by identifier. It returns nil, nil when no row exists.
func (s *Store) GetByID(ctx context.Context, id int64) (*Conversation, error) {
	row := s.db.QueryRowContext(ensureContext(ctx), `SELECT `+conversationColumns+` FROM conversations WHERE id = ?`, id)
	conv, err := scanConversation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get conversation: %w", err)
	}
	return conv, nil
}

// List returns every conversation, newest first.
func (s *Store) List(ctx context.Context) ([]*Conversation, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx),
		`SELECT `+conversationColumns+` FROM conversations ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	defer rows.Close()

	conversations := make([]*Conversation, 0)
	for rows.Next() {
		conv, err := scanConversation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan conversation: %w", err)
		}
		conversations = append(conversations, conv)
	}
	return conversations, rows.Err()
}

// Update applies the non-nil fields of patch and bumps updated_at. It reports
// whether a row with the identifier exists.
func (s *Store) Update(ctx context.Context, id int64, patch Patch) (bool, error) {
	sets := make([]string, 0, 3)
	args := make([]any, 0, 4)
	if patch.TranscriptText != nil {
		sets = append(sets, "transcript_text = ?")
		args = append(args, *patch.TranscriptText)
	}
	if patch.AnalysisJSON != nil {
		sets = append(sets, "analysis_json = ?")
		args = append(args, nullableString(*patch.AnalysisJSON))
	}
	if patch.empty() {
		conv, err := s.GetByID(ctx, id)
		return conv != nil, err
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, formatTime(time.Now()), id)

	res, err := s.execWithRetry(ctx, `UPDATE conversations SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return false, fmt.Errorf("update conversation: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// Delete removes a conversation record. It reports whether a row was removed.
// The audio file is left on disk; callers own file cleanup.
func (s *Store) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := s.execWithRetry(ctx, `DELETE FROM conversations WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete conversation: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// Count returns the number of stored conversations.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ensureContext(ctx), `SELECT COUNT(1) FROM conversations`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count conversations: %w", err)
	}
	return count, nil
}
