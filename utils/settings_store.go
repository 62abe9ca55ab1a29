package utils

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"github.com/dylan-ru/screen-dimmer/models"
	"gopkg.in/yaml.v3"
)

// SettingsStore reads and writes the settings file.
type SettingsStore struct {
	path string
}

// NewSettingsStore returns a store backed by the file at path.
func NewSettingsStore(path string) *SettingsStore {
	return &SettingsStore{path: path}
}

// Path returns the settings file location.
func (s *SettingsStore) Path() string {
	return s.path
}

// Load returns the stored settings. A missing file yields defaults, which
// are written back; an unreadable or malformed file yields defaults and is
// left untouched. Load never fails.
func (s *SettingsStore) Load() models.Settings {
	settings, err := s.read()
	if err == nil {
		return settings
	}

	if errors.Is(err, fs.ErrNotExist) {
		log.Printf("[settings] no settings at %s, creating defaults", s.path)
		defaults := models.DefaultSettings()
		if err := s.Save(defaults); err != nil {
			log.Printf("[settings] warning: failed to save default settings: %v", err)
		}
		return defaults
	}

	log.Printf("[settings] could not load %s, using defaults: %v", s.path, err)
	return models.DefaultSettings()
}

func (s *SettingsStore) read() (models.Settings, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return models.Settings{}, err
	}

	settings := models.DefaultSettings()
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return models.Settings{}, fmt.Errorf("error parsing settings from '%s': %w", s.path, err)
	}
	return settings.Normalize(), nil
}

// Save writes settings atomically: the data goes to a temporary file in the
// same directory which then replaces the old file.
func (s *SettingsStore) Save(settings models.Settings) error {
	data, err := yaml.Marshal(settings.Normalize())
	if err != nil {
		return fmt.Errorf("error encoding settings: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("error creating settings directory '%s': %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".settings-*.yaml")
	if err != nil {
		return fmt.Errorf("error creating temp settings file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op once renamed

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("error writing settings: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("error syncing settings: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("error closing settings: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("error setting settings permissions: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("error replacing settings file '%s': %w", s.path, err)
	}
	return nil
}
