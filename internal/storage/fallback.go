package storage

import (
	"errors"
	"fmt"
	"sort"

	"github.com/julianstephens/streaks/internal/logger"
)

// FallbackStore pairs a primary store with a legacy one. Reads that miss the
// primary are served from the legacy store and copied forward; writes go to
// both and only fail when neither store accepted them.
type FallbackStore struct {
	primary Provider
	legacy  Provider
}

func NewFallbackStore(primary, legacy Provider) *FallbackStore {
	return &FallbackStore{primary: primary, legacy: legacy}
}

func (s *FallbackStore) Init() error {
	if err := s.primary.Init(); err != nil {
		return err
	}
	if err := s.legacy.Init(); err != nil {
		logger.Warn("Legacy store unavailable", "path", s.legacy.GetConfigPath(), "error", err)
	}
	return nil
}

func (s *FallbackStore) Load() error {
	if err := s.primary.Load(); err != nil {
		return err
	}
	if err := s.legacy.Load(); err != nil {
		logger.Warn("Legacy store unavailable", "path", s.legacy.GetConfigPath(), "error", err)
	}
	return nil
}

func (s *FallbackStore) Close() error {
	return errors.Join(s.primary.Close(), s.legacy.Close())
}

func (s *FallbackStore) GetItem(key string) ([]byte, error) {
	value, err := s.primary.GetItem(key)
	if err == nil {
		return value, nil
	}
	if !errors.Is(err, ErrNotFound) {
		logger.Warn("Primary store read failed, trying legacy store", "key", key, "error", err)
	}

	legacyValue, legacyErr := s.legacy.GetItem(key)
	if legacyErr != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if migrateErr := s.primary.SetItem(key, legacyValue); migrateErr != nil {
		logger.Warn("Failed to migrate legacy item", "key", key, "error", migrateErr)
	} else {
		logger.Info("Migrated legacy item", "key", key)
	}
	return legacyValue, nil
}

func (s *FallbackStore) SetItem(key string, value []byte) error {
	primaryErr := s.primary.SetItem(key, value)
	if primaryErr != nil {
		logger.Error("Primary store write failed", "key", key, "error", primaryErr)
	}
	legacyErr := s.legacy.SetItem(key, value)
	if legacyErr != nil {
		logger.Warn("Legacy store write failed", "key", key, "error", legacyErr)
	}

	if primaryErr != nil && legacyErr != nil {
		return fmt.Errorf("failed to save to any store: %w", errors.Join(primaryErr, legacyErr))
	}
	return nil
}

func (s *FallbackStore) RemoveItem(key string) error {
	primaryErr := s.primary.RemoveItem(key)
	legacyErr := s.legacy.RemoveItem(key)
	if primaryErr != nil {
		return primaryErr
	}
	if legacyErr != nil {
		logger.Warn("Legacy store remove failed", "key", key, "error", legacyErr)
	}
	return nil
}

func (s *FallbackStore) Keys() ([]string, error) {
	primaryKeys, err := s.primary.Keys()
	if err != nil {
		return nil, err
	}
	legacyKeys, err := s.legacy.Keys()
	if err != nil {
		logger.Warn("Legacy store listing failed", "error", err)
		return primaryKeys, nil
	}

	seen := make(map[string]bool, len(primaryKeys)+len(legacyKeys))
	var keys []string
	for _, k := range append(primaryKeys, legacyKeys...) {
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *FallbackStore) GetConfigPath() string {
	return s.primary.GetConfigPath()
}

// Primary returns the store reads are served from first.
func (s *FallbackStore) Primary() Provider {
	return s.primary
}
