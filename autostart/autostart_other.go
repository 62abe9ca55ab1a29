//go:build !linux && !windows

package autostart

import "fmt"

// NewManager returns an error on platforms without autostart support.
func NewManager() (Manager, error) {
	return nil, fmt.Errorf("autostart is not supported on this platform")
}
