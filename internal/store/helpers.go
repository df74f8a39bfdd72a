package store

import (
	"database/sql"
	"errors"
	"time"
)

// timestampLayout is fixed width so ORDER BY created_at sorts chronologically.
const timestampLayout = "2006-01-02T15:04:05.000000000Z"

func scanConversation(scanner interface{ Scan(dest ...any) error }) (*Conversation, error) {
	var (
		id         int64
		audioPath  string
		transcript sql.NullString
		analysis   sql.NullString
		createdRaw sql.NullString
		updatedRaw sql.NullString
	)
	if err := scanner.Scan(&id, &audioPath, &transcript, &analysis, &createdRaw, &updatedRaw); err != nil {
		return nil, err
	}
	conv := &Conversation{
		ID:             id,
		AudioPath:      audioPath,
		TranscriptText: transcript.String,
		AnalysisJSON:   analysis.String,
	}
	if created, err := parseTimeString(createdRaw.String); err == nil {
		conv.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		conv.UpdatedAt = updated
	}
	return conv, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}
