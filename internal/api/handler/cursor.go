package handler

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/lostfoundhq/lostfound-be/internal/api/storage"
)

func DecodeItemCursor(cursorStr string) (*storage.ItemCursor, error) {
	if cursorStr == "" {
		return nil, nil
	}

	decoded, err := base64.StdEncoding.DecodeString(cursorStr)
	if err != nil {
		return nil, err
	}

	decodedParts := strings.Split(string(decoded), "|")
	if len(decodedParts) != 2 {
		return nil, fmt.Errorf("invalid cursor format")
	}

	var createdAt int64
	_, err = fmt.Sscanf(decodedParts[0], "%d", &createdAt)
	if err != nil {
		return nil, fmt.Errorf("invalid createdAt in cursor: %w", err)
	}

	return &storage.ItemCursor{
		CreatedAt: time.Unix(0, createdAt),
		ItemID:    decodedParts[1],
	}, nil
}

func EncodeItemCursor(cursor *storage.ItemCursor) (string, error) {
	cs := fmt.Sprintf("%d|%s", cursor.CreatedAt.UnixNano(), cursor.ItemID)
	return base64.StdEncoding.EncodeToString([]byte(cs)), nil
}
