package pagination

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/card_ledger_app/internal/apperrors"
)

const timeFormat = time.RFC3339Nano

// Cursor marks the last row of a page ordered by (Time, ID) descending.
type Cursor struct {
	Time time.Time
	ID   string
}

// After reports whether a row at (t, id) sorts after the cursor, meaning it
// belongs on a later page.
func (c Cursor) After(t time.Time, id string) bool {
	if t.Equal(c.Time) {
		return id < c.ID
	}
	return t.Before(c.Time)
}

// EncodeCursor creates an opaque token for the row at (t, id).
func EncodeCursor(t time.Time, id string) string {
	tokenStr := fmt.Sprintf("%s|%s", t.UTC().Format(timeFormat), id)
	return base64.URLEncoding.EncodeToString([]byte(tokenStr))
}

// DecodeCursor parses a token produced by EncodeCursor. Malformed tokens are
// reported as validation errors.
func DecodeCursor(token string) (Cursor, error) {
	decodedBytes, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return Cursor{}, fmt.Errorf("%w: invalid pagination token (base64 decode): %v", apperrors.ErrValidation, err)
	}
	timePart, id, found := strings.Cut(string(decodedBytes), "|")
	if !found || id == "" {
		return Cursor{}, fmt.Errorf("%w: invalid pagination token (split)", apperrors.ErrValidation)
	}
	t, err := time.Parse(timeFormat, timePart)
	if err != nil {
		return Cursor{}, fmt.Errorf("%w: invalid pagination token (time parse): %v", apperrors.ErrValidation, err)
	}
	return Cursor{Time: t, ID: id}, nil
}
