package handler

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/cuongbtq/jobconnect/internal/api/storage"
)

// DecodePostingCursor parses an opaque page cursor; an empty string means
// the first page.
func DecodePostingCursor(cursorStr string) (*storage.PostingCursor, error) {
	if cursorStr == "" {
		return nil, nil
	}

	decoded, err := base64.URLEncoding.DecodeString(cursorStr)
	if err != nil {
		return nil, err
	}

	decodedParts := strings.Split(string(decoded), "|")
	if len(decodedParts) != 2 {
		return nil, fmt.Errorf("invalid cursor format")
	}

	var postedAt, id int64
	if _, err := fmt.Sscanf(decodedParts[0], "%d", &postedAt); err != nil {
		return nil, fmt.Errorf("invalid posted_at in cursor: %w", err)
	}
	if _, err := fmt.Sscanf(decodedParts[1], "%d", &id); err != nil {
		return nil, fmt.Errorf("invalid id in cursor: %w", err)
	}
	if id <= 0 {
		return nil, fmt.Errorf("invalid id in cursor: %d", id)
	}

	return &storage.PostingCursor{
		PostedAt: time.Unix(0, postedAt).UTC(),
		ID:       id,
	}, nil
}

func EncodePostingCursor(cursor *storage.PostingCursor) string {
	cs := fmt.Sprintf("%d|%d", cursor.PostedAt.UnixNano(), cursor.ID)
	return base64.URLEncoding.EncodeToString([]byte(cs))
}
