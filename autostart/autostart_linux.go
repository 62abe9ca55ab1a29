//go:build linux

package autostart

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dylan-ru/screen-dimmer/utils"
)

// NewManager returns the XDG autostart manager for the current user.
func NewManager() (Manager, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to locate config directory: %w", err)
	}
	exePath, err := utils.GetExecutablePath()
	if err != nil {
		return nil, fmt.Errorf("failed to get executable path: %w", err)
	}
	return &DesktopEntryManager{
		Dir:  filepath.Join(base, "autostart"),
		Name: utils.AppID,
		Exec: exePath,
	}, nil
}
