// Package storage keeps shell preferences in a small bbolt file so the list view reopens the way it was left.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/desertthunder/playlistctl/internal/browse"
	"go.etcd.io/bbolt"
)

var (
	viewBucket  = []byte("view")
	listViewKey = []byte("list")
)

// PrefsStore persists the list [browse.ViewState] between sessions.
type PrefsStore struct {
	db *bbolt.DB
}

// OpenPrefsStore opens or creates the prefs file at path.
func OpenPrefsStore(path string) (*PrefsStore, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("could not create prefs directory: %w", err)
		}
	}

	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("could not open prefs database: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(viewBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("could not create view bucket: %w", err)
	}

	return &PrefsStore{db: db}, nil
}

// SaveViewState stores search term, sort and page size. The current page is not kept.
func (s *PrefsStore) SaveViewState(state browse.ViewState) error {
	value, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("error serializing view state: %w", err)
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(viewBucket).Put(listViewKey, value)
	})
}

// LoadViewState returns the saved state, or false when nothing was saved yet.
func (s *PrefsStore) LoadViewState() (browse.ViewState, bool, error) {
	var (
		state browse.ViewState
		found bool
	)

	err := s.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(viewBucket).Get(listViewKey)
		if v == nil {
			return nil
		}
		if err := json.Unmarshal(v, &state); err != nil {
			return fmt.Errorf("error deserializing view state: %w", err)
		}
		found = true
		return nil
	})
	if err != nil {
		return browse.ViewState{}, false, err
	}
	return state, found, nil
}

// Clear removes the saved view state.
func (s *PrefsStore) Clear() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(viewBucket).Delete(listViewKey)
	})
}

func (s *PrefsStore) Close() error {
	return s.db.Close()
}
