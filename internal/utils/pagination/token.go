package pagination

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"
)

const timeFormat = time.RFC3339Nano

// JournalCursor marks the last journal of a page. Journals are listed by
// journal date, then creation time, then ID, all descending.
type JournalCursor struct {
	JournalDate time.Time
	CreatedAt   time.Time
	JournalID   string
}

// Encode returns the opaque token form of the cursor.
func (c JournalCursor) Encode() string {
	return encodeFields(c.JournalDate.Format(timeFormat), c.CreatedAt.Format(timeFormat), c.JournalID)
}

// Follows reports whether a journal with the given keys comes after the
// cursor in listing order.
func (c JournalCursor) Follows(journalDate, createdAt time.Time, journalID string) bool {
	if !journalDate.Equal(c.JournalDate) {
		return journalDate.Before(c.JournalDate)
	}
	if !createdAt.Equal(c.CreatedAt) {
		return createdAt.Before(c.CreatedAt)
	}
	return journalID < c.JournalID
}

// DecodeJournalCursor parses a token produced by JournalCursor.Encode.
func DecodeJournalCursor(token string) (JournalCursor, error) {
	parts, err := decodeFields(token)
	if err != nil {
		return JournalCursor{}, err
	}
	if len(parts) != 3 {
		return JournalCursor{}, fmt.Errorf("invalid pagination token format (expected 3 fields, got %d)", len(parts))
	}
	journalDate, err := time.Parse(timeFormat, parts[0])
	if err != nil {
		return JournalCursor{}, fmt.Errorf("invalid pagination token format (journal date parse): %w", err)
	}
	createdAt, err := time.Parse(timeFormat, parts[1])
	if err != nil {
		return JournalCursor{}, fmt.Errorf("invalid pagination token format (created_at parse): %w", err)
	}
	if parts[2] == "" {
		return JournalCursor{}, fmt.Errorf("invalid pagination token format (empty journal id)")
	}
	return JournalCursor{JournalDate: journalDate, CreatedAt: createdAt, JournalID: parts[2]}, nil
}

func encodeFields(fields ...string) string {
	return base64.URLEncoding.EncodeToString([]byte(strings.Join(fields, "|")))
}

func decodeFields(token string) ([]string, error) {
	decoded, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}
	return strings.Split(string(decoded), "|"), nil
}
