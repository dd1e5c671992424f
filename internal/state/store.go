// Package state persists the engine state between passes.
package state

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"FundSentinel/internal/model"
)

// Store loads and saves the engine state. A pass loads once at the start and
// saves once at the end.
type Store interface {
	Load() (*model.EngineState, error)
	Save(st *model.EngineState) error
}

// FileStore keeps the state as a pretty-printed JSON file.
type FileStore struct {
	Path string
}

// NewFileStore creates a store at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

// Load reads the state file. A missing file is a normal cold start; an
// unreadable or corrupt file is also treated as a cold start, with a warning,
// so a damaged file can never wedge the whole pass.
func (s *FileStore) Load() (*model.EngineState, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.NewEngineState(), nil
		}
		log.Printf("[WARN] state file %s unreadable, starting cold: %v", s.Path, err)
		return model.NewEngineState(), nil
	}
	st := model.NewEngineState()
	if err := json.Unmarshal(data, st); err != nil {
		log.Printf("[WARN] state file %s corrupt, starting cold: %v", s.Path, err)
		return model.NewEngineState(), nil
	}
	if st.Instruments == nil {
		st.Instruments = make(map[string]*model.SignalState)
	}
	return st, nil
}

// Save writes the state file. Unlike Load, failure here is an error the
// caller must surface: losing a save can double-fire tomorrow.
func (s *FileStore) Save(st *model.EngineState) error {
	st.UpdatedAt = time.Now()
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	if dir := filepath.Dir(s.Path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create state dir: %w", err)
		}
	}
	if err := os.WriteFile(s.Path, data, 0644); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}
	return nil
}
