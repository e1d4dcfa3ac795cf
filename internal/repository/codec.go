package repository

import (
	"fmt"

	"github.com/goccy/go-json"
)

// encodeList renders a string list for a JSONB column. lib/pq sends
// []byte as bytea, so the JSON travels as text.
func encodeList(items []string) (string, error) {
	if items == nil {
		items = []string{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("failed to encode list: %w", err)
	}
	return string(data), nil
}

func decodeList(raw []byte) ([]string, error) {
	items := []string{}
	if len(raw) == 0 {
		return items, nil
	}
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("failed to decode list: %w", err)
	}
	if items == nil {
		items = []string{}
	}
	return items, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}
