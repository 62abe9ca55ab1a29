//go:build !linux

package hardware

import (
	"fmt"

	"github.com/dylan-ru/screen-dimmer/models"
)

// Backend is a dummy display for platforms without an overlay implementation.
type Backend struct{}

// NewBackend returns an error on non-Linux systems.
func NewBackend() (*Backend, error) {
	return nil, fmt.Errorf("screen overlays are only available on Linux (X11)")
}

// Monitors is a dummy method for non-Linux systems.
func (b *Backend) Monitors() ([]models.Monitor, error) {
	return nil, fmt.Errorf("monitor enumeration is not available on this platform")
}

// NewOverlay is a dummy method for non-Linux systems.
func (b *Backend) NewOverlay(m models.Monitor, color models.Color, alpha float64) (OverlayWindow, error) {
	return nil, fmt.Errorf("overlays are not available on this platform")
}

// Changes returns a nil channel, which never delivers.
func (b *Backend) Changes() <-chan struct{} {
	return nil
}

// Close is a no-op.
func (b *Backend) Close() error {
	return nil
}
