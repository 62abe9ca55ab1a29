//go:build windows

package autostart

import (
	"errors"
	"fmt"

	"github.com/dylan-ru/screen-dimmer/utils"
	"golang.org/x/sys/windows/registry"
)

const runKeyPath = `Software\Microsoft\Windows\CurrentVersion\Run`

// RegistryManager adds or removes the application from the Windows startup registry.
type RegistryManager struct {
	ValueName string
	ExePath   string
}

// NewManager returns the registry-based manager for the current user.
func NewManager() (Manager, error) {
	exePath, err := utils.GetExecutablePath()
	if err != nil {
		return nil, fmt.Errorf("failed to get executable path: %w", err)
	}
	return &RegistryManager{ValueName: appName, ExePath: exePath}, nil
}

func (m *RegistryManager) open(access uint32) (registry.Key, error) {
	key, err := registry.OpenKey(registry.CURRENT_USER, runKeyPath, access)
	if err != nil {
		return 0, fmt.Errorf("failed to open registry key: %w", err)
	}
	return key, nil
}

// Enable sets the Run value to the quoted executable path.
func (m *RegistryManager) Enable() error {
	key, err := m.open(registry.SET_VALUE)
	if err != nil {
		return err
	}
	defer key.Close()
	return key.SetStringValue(m.ValueName, fmt.Sprintf(`"%s"`, m.ExePath))
}

// Disable deletes the Run value; a missing value is not an error.
func (m *RegistryManager) Disable() error {
	key, err := m.open(registry.SET_VALUE)
	if err != nil {
		return err
	}
	defer key.Close()
	if err := key.DeleteValue(m.ValueName); err != nil && !errors.Is(err, registry.ErrNotExist) {
		return err
	}
	return nil
}

// IsEnabled reports whether the Run value exists.
func (m *RegistryManager) IsEnabled() bool {
	key, err := m.open(registry.QUERY_VALUE)
	if err != nil {
		return false
	}
	defer key.Close()
	_, _, err = key.GetStringValue(m.ValueName)
	return err == nil
}
