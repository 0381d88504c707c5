package store

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"

	"github.com/mmcdole/plexskill/internal/domain"
)

var bucketSettings = []byte("settings")

// SettingsStore implements domain.Settings using BoltDB.
type SettingsStore struct {
	db     *bolt.DB
	logger *slog.Logger
	mu     sync.RWMutex // Protects memory cache

	// Every value read or written, so Get never touches disk twice
	cache map[string]string
}

// NewSettingsStore opens (or creates) the settings database at path.
// An empty path keeps settings in memory only.
func NewSettingsStore(path string, logger *slog.Logger) (*SettingsStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &SettingsStore{cache: make(map[string]string), logger: logger}
	if path == "" {
		return s, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketSettings)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	s.db = db
	return s, nil
}

func (s *SettingsStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Get returns the value for key. A read failure is logged and reported as
// not found; use Lookup to tell the two apart.
func (s *SettingsStore) Get(key string) (string, bool) {
	value, found, err := s.Lookup(key)
	if err != nil {
		s.logger.Error("failed to read setting", "key", key, "error", err)
		return "", false
	}
	return value, found
}

// Lookup returns the value for key and any error reading it
func (s *SettingsStore) Lookup(key string) (string, bool, error) {
	s.mu.RLock()
	if v, ok := s.cache[key]; ok {
		s.mu.RUnlock()
		return v, true, nil
	}
	s.mu.RUnlock()

	if s.db == nil {
		return "", false, nil
	}

	var (
		value string
		found bool
	)
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketSettings)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(key)); v != nil {
			value, found = string(v), true
		}
		return nil
	})
	if err != nil {
		return "", false, fmt.Errorf("failed to read %q: %w", key, err)
	}

	if found {
		s.mu.Lock()
		s.cache[key] = value
		s.mu.Unlock()
	}
	return value, found, nil
}

// Set stores value under key
func (s *SettingsStore) Set(key, value string) error {
	if key == "" {
		return errors.New("empty settings key")
	}

	if s.db != nil {
		err := s.db.Update(func(tx *bolt.Tx) error {
			return tx.Bucket(bucketSettings).Put([]byte(key), []byte(value))
		})
		if err != nil {
			return fmt.Errorf("failed to save %s: %w", key, err)
		}
	}

	s.mu.Lock()
	s.cache[key] = value
	s.mu.Unlock()
	return nil
}

// Delete removes key
func (s *SettingsStore) Delete(key string) error {
	if s.db != nil {
		err := s.db.Update(func(tx *bolt.Tx) error {
			return tx.Bucket(bucketSettings).Delete([]byte(key))
		})
		if err != nil {
			return fmt.Errorf("failed to delete %s: %w", key, err)
		}
	}

	s.mu.Lock()
	delete(s.cache, key)
	s.mu.Unlock()
	return nil
}

// ClientID returns the persistent client identifier sent in X-Plex-Client-Identifier,
// generating one on first use
func ClientID(settings domain.Settings) (string, error) {
	if id, ok := settings.Get(domain.SettingClientID); ok && id != "" {
		return id, nil
	}

	id := uuid.NewString()
	if err := settings.Set(domain.SettingClientID, id); err != nil {
		return "", err
	}
	return id, nil
}
