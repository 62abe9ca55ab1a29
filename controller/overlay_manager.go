package controller

import (
	"errors"
	"fmt"
	"log"
	"sort"

	"github.com/dylan-ru/screen-dimmer/hardware"
	"github.com/dylan-ru/screen-dimmer/models"
)

// OverlayFactory creates overlay windows; hardware.Display satisfies it.
type OverlayFactory interface {
	NewOverlay(m models.Monitor, color models.Color, alpha float64) (hardware.OverlayWindow, error)
}

type overlay struct {
	monitor models.Monitor
	window  hardware.OverlayWindow
	color   models.Color
	alpha   float64
}

// OverlayManager owns one overlay window per monitor. It is not safe for
// concurrent use; the TrayController serializes all calls.
type OverlayManager struct {
	factory   OverlayFactory
	overlays  map[string]*overlay
	overrides map[string]float64
	color     models.Color
	alpha     float64
}

// NewOverlayManager creates a manager with no windows.
func NewOverlayManager(factory OverlayFactory) *OverlayManager {
	return &OverlayManager{
		factory:   factory,
		overlays:  make(map[string]*overlay),
		overrides: make(map[string]float64),
	}
}

// Sync reconciles the live windows with monitors: windows for monitors no
// longer listed are destroyed, new monitors get a window, moved or resized
// monitors have their window reconfigured. Calling Sync again with the same
// arguments creates and destroys nothing.
func (m *OverlayManager) Sync(monitors []models.Monitor, color models.Color, alpha float64) error {
	m.color, m.alpha = color, alpha

	wanted := make(map[string]bool, len(monitors))
	for _, mon := range monitors {
		wanted[mon.ID] = true
	}

	var errs []error
	for _, id := range m.ids() {
		if wanted[id] {
			continue
		}
		log.Printf("[overlay] removing overlay for %s", id)
		if err := m.overlays[id].window.Destroy(); err != nil {
			errs = append(errs, err)
		}
		delete(m.overlays, id)
	}

	seen := make(map[string]bool, len(monitors))
	for _, mon := range monitors {
		if seen[mon.ID] {
			continue
		}
		seen[mon.ID] = true

		o, ok := m.overlays[mon.ID]
		if !ok {
			if err := m.create(mon); err != nil {
				errs = append(errs, err)
			}
			continue
		}
		if !o.monitor.SameGeometry(mon) {
			log.Printf("[overlay] moving overlay to %s", mon)
			if err := o.window.Move(mon); err != nil {
				errs = append(errs, err)
				continue
			}
		}
		o.monitor = mon
		if err := m.paint(o); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *OverlayManager) create(mon models.Monitor) error {
	alpha := m.alphaFor(mon.ID)
	w, err := m.factory.NewOverlay(mon, m.color, alpha)
	if err != nil {
		return fmt.Errorf("overlay for %s: %w", mon.ID, err)
	}
	log.Printf("[overlay] created overlay for %s", mon)
	m.overlays[mon.ID] = &overlay{monitor: mon, window: w, color: m.color, alpha: alpha}
	return nil
}

// paint repaints o only when its appearance is out of date.
func (m *OverlayManager) paint(o *overlay) error {
	alpha := m.alphaFor(o.monitor.ID)
	if o.color == m.color && o.alpha == alpha {
		return nil
	}
	if err := o.window.Paint(m.color, alpha); err != nil {
		return fmt.Errorf("overlay for %s: %w", o.monitor.ID, err)
	}
	o.color, o.alpha = m.color, alpha
	return nil
}

func (m *OverlayManager) alphaFor(id string) float64 {
	if a, ok := m.overrides[id]; ok {
		return a
	}
	return m.alpha
}

// SetAppearance repaints every live window with color and alpha.
func (m *OverlayManager) SetAppearance(color models.Color, alpha float64) error {
	m.color, m.alpha = color, alpha
	var errs []error
	for _, id := range m.ids() {
		if err := m.paint(m.overlays[id]); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// SetMonitorAlpha overrides the opacity used for one monitor.
func (m *OverlayManager) SetMonitorAlpha(id string, alpha float64) error {
	m.overrides[id] = alpha
	if o, ok := m.overlays[id]; ok {
		return m.paint(o)
	}
	return nil
}

// ClearMonitorAlpha drops a per-monitor override.
func (m *OverlayManager) ClearMonitorAlpha(id string) error {
	if _, ok := m.overrides[id]; !ok {
		return nil
	}
	delete(m.overrides, id)
	if o, ok := m.overlays[id]; ok {
		return m.paint(o)
	}
	return nil
}

func (m *OverlayManager) ids() []string {
	ids := make([]string, 0, len(m.overlays))
	for id := range m.overlays {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Close destroys every window.
func (m *OverlayManager) Close() error {
	var errs []error
	for _, id := range m.ids() {
		if err := m.overlays[id].window.Destroy(); err != nil {
			errs = append(errs, err)
		}
		delete(m.overlays, id)
	}
	return errors.Join(errs...)
}
