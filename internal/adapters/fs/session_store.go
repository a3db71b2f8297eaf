package fs

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/trebuchet-org/netctl/internal/domain"
	"github.com/trebuchet-org/netctl/internal/domain/config"
	"github.com/trebuchet-org/netctl/internal/usecase"
)

// SessionStoreAdapter implements SessionStore using the file system
type SessionStoreAdapter struct {
	statePath string
}

// NewSessionStoreAdapter creates a new SessionStoreAdapter
func NewSessionStoreAdapter(cfg *config.RuntimeConfig) *SessionStoreAdapter {
	return &SessionStoreAdapter{
		statePath: filepath.Join(cfg.DataDir, "priv", "session.json"),
	}
}

// Load reads the session record. Returns nil if no session was saved.
func (s *SessionStoreAdapter) Load(_ context.Context) (*domain.SessionRecord, error) {
	data, err := os.ReadFile(s.statePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	var record domain.SessionRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to parse session file %s: %w", s.statePath, err)
	}
	return &record, nil
}

// Save writes the session record, creating the directory if needed.
func (s *SessionStoreAdapter) Save(_ context.Context, record *domain.SessionRecord) error {
	if err := os.MkdirAll(filepath.Dir(s.statePath), 0755); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	// Write-then-rename so a crash never leaves a truncated record
	tmp := s.statePath + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	if err := os.Rename(tmp, s.statePath); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}

// Delete removes the session file.
func (s *SessionStoreAdapter) Delete(_ context.Context) error {
	err := os.Remove(s.statePath)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete session file: %w", err)
	}
	return nil
}

// Path returns the location of the session file
func (s *SessionStoreAdapter) Path() string {
	return s.statePath
}

// Ensure SessionStoreAdapter implements SessionStore
var _ usecase.SessionStore = (*SessionStoreAdapter)(nil)
