package storage

import (
	"encoding/json"
	"errors"
	"fmt"
)

// CollectionKey returns the key a user's collection is stored under,
// e.g. "streaks_local_habits".
func CollectionKey(prefix, userID, name string) string {
	return fmt.Sprintf("%s_%s_%s", prefix, userID, name)
}

// GetJSON decodes the document stored under key into v. It reports false
// without error when nothing is stored.
func GetJSON(p Provider, key string, v any) (bool, error) {
	data, err := p.GetItem(key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return true, nil
}

// SetJSON encodes v and stores it under key, replacing any previous value.
func SetJSON(p Provider, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	return p.SetItem(key, data)
}
