// Package settings persists the user's quote selection and round-up limit,
// and validates selections against the reference catalogs.
package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"skybank/internal/core"
	"skybank/internal/log"
)

// ErrNoSettings means the settings file is missing, empty or unreadable and
// the user has to pick currencies and stocks first.
var ErrNoSettings = errors.New("no user settings")

// Store reads and writes the settings JSON file.
type Store struct {
	path   string
	logger *log.Logger
}

func NewStore(path string, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.Discard()
	}
	return &Store{path: path, logger: logger.WithComponent(log.ComponentSettings)}
}

// Path returns the file backing the store.
func (s *Store) Path() string { return s.path }

// Load returns the stored settings or ErrNoSettings.
func (s *Store) Load() (core.Settings, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return core.Settings{}, ErrNoSettings
		}
		return core.Settings{}, fmt.Errorf("read settings: %w", err)
	}
	var st core.Settings
	if err := json.Unmarshal(data, &st); err != nil {
		s.logger.Warn("Settings file is not valid JSON", log.FieldFile, s.path, log.FieldError, err)
		return core.Settings{}, fmt.Errorf("%w: %v", ErrNoSettings, err)
	}
	if st.Limit != nil && !core.ValidLimit(*st.Limit) {
		s.logger.Warn(core.MsgInvalidLimit, log.FieldLimit, *st.Limit)
		st.Limit = nil
	}
	return st, nil
}

// Save writes st, replacing the previous file atomically.
func (s *Store) Save(st core.Settings) error {
	if st.Limit != nil && !core.ValidLimit(*st.Limit) {
		return fmt.Errorf("%d: %w", *st.Limit, core.ErrInvalidLimit)
	}
	if st.UserCurrencies == nil {
		st.UserCurrencies = []string{}
	}
	if st.UserStocks == nil {
		st.UserStocks = []string{}
	}
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create settings dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".settings-*")
	if err != nil {
		return fmt.Errorf("create temp settings: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write settings: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close settings: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace settings: %w", err)
	}
	s.logger.Info("Settings saved", log.FieldFile, s.path)
	return nil
}

// SaveLimit stores limit alongside the existing selection.
func (s *Store) SaveLimit(limit int) error {
	if !core.ValidLimit(limit) {
		return fmt.Errorf("%d: %w", limit, core.ErrInvalidLimit)
	}
	st, err := s.Load()
	if err != nil && !errors.Is(err, ErrNoSettings) {
		return err
	}
	st.Limit = &limit
	return s.Save(st)
}
