package hardware

import "github.com/dylan-ru/screen-dimmer/models"

// Display abstracts the windowing system the overlays are drawn on.
// Backend implements it for the current platform; tests use fakes.
type Display interface {
	// Monitors lists the outputs that currently show part of the desktop.
	Monitors() ([]models.Monitor, error)

	// NewOverlay creates, maps and raises a borderless, topmost window that
	// covers m, ignores all input and stays out of taskbars and window switchers.
	NewOverlay(m models.Monitor, color models.Color, alpha float64) (OverlayWindow, error)

	// Changes delivers a value whenever the monitor layout may have changed.
	// Notifications are coalesced; the channel is closed by Close.
	Changes() <-chan struct{}

	// Close destroys remaining windows and releases the connection.
	Close() error
}

// OverlayWindow is one translucent window owned by the overlay manager.
type OverlayWindow interface {
	// Move repositions and resizes the window to cover m.
	Move(m models.Monitor) error

	// Paint fills the window with color at the given opacity (0..1).
	Paint(color models.Color, alpha float64) error

	// Destroy removes the window. Further calls are no-ops.
	Destroy() error
}
