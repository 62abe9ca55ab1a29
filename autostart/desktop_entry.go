package autostart

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// DesktopEntryManager manages an XDG autostart entry, a .desktop file in
// ~/.config/autostart that session managers launch at login.
type DesktopEntryManager struct {
	Dir  string // autostart directory
	Name string // entry file name without extension
	Exec string // program to launch
}

// Path returns the full path of the entry file.
func (m *DesktopEntryManager) Path() string {
	return filepath.Join(m.Dir, m.Name+".desktop")
}

// Enable writes the entry, replacing any existing one.
func (m *DesktopEntryManager) Enable() error {
	if err := os.MkdirAll(m.Dir, 0o755); err != nil {
		return fmt.Errorf("error creating autostart directory '%s': %w", m.Dir, err)
	}
	if err := os.WriteFile(m.Path(), []byte(DesktopEntry(m.Exec)), 0o644); err != nil {
		return fmt.Errorf("error writing autostart entry '%s': %w", m.Path(), err)
	}
	return nil
}

// Disable removes the entry. A missing entry is not an error.
func (m *DesktopEntryManager) Disable() error {
	if err := os.Remove(m.Path()); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("error removing autostart entry '%s': %w", m.Path(), err)
	}
	return nil
}

// IsEnabled reports whether the entry file exists.
func (m *DesktopEntryManager) IsEnabled() bool {
	_, err := os.Stat(m.Path())
	return err == nil
}
