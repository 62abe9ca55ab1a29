package controller

import (
	"errors"
	"fmt"
	"sync"

	"github.com/dylan-ru/screen-dimmer/hardware"
	"github.com/dylan-ru/screen-dimmer/models"
)

// fakeDisplay records window lifecycle events.
type fakeDisplay struct {
	created   []string
	destroyed []string
	moved     []string
	painted   []string
	windows   map[string]*fakeWindow
	failNew   map[string]bool
}

func newFakeDisplay() *fakeDisplay {
	return &fakeDisplay{windows: make(map[string]*fakeWindow), failNew: make(map[string]bool)}
}

func (d *fakeDisplay) NewOverlay(m models.Monitor, color models.Color, alpha float64) (hardware.OverlayWindow, error) {
	if d.failNew[m.ID] {
		return nil, fmt.Errorf("BadAlloc")
	}
	w := &fakeWindow{display: d, id: m.ID, monitor: m, color: color, alpha: alpha}
	d.windows[m.ID] = w
	d.created = append(d.created, m.ID)
	return w, nil
}

func (d *fakeDisplay) events() int {
	return len(d.created) + len(d.destroyed)
}

type fakeWindow struct {
	display   *fakeDisplay
	id        string
	monitor   models.Monitor
	color     models.Color
	alpha     float64
	destroyed bool
}

func (w *fakeWindow) Move(m models.Monitor) error {
	w.monitor = m
	w.display.moved = append(w.display.moved, m.ID)
	return nil
}

func (w *fakeWindow) Paint(color models.Color, alpha float64) error {
	w.color, w.alpha = color, alpha
	w.display.painted = append(w.display.painted, w.id)
	return nil
}

func (w *fakeWindow) Destroy() error {
	if w.destroyed {
		return errors.New("double destroy")
	}
	w.destroyed = true
	w.display.destroyed = append(w.display.destroyed, w.id)
	delete(w.display.windows, w.id)
	return nil
}

type fakeStore struct {
	mutex   sync.Mutex
	initial models.Settings
	saved   []models.Settings
	saveErr error
}

func (s *fakeStore) Load() models.Settings { return s.initial.Clone() }

func (s *fakeStore) Save(settings models.Settings) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saved = append(s.saved, settings.Clone())
	return nil
}

func (s *fakeStore) last() (models.Settings, bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if len(s.saved) == 0 {
		return models.Settings{}, false
	}
	return s.saved[len(s.saved)-1], true
}

type fakeMonitors struct {
	monitors []models.Monitor
}

func (f *fakeMonitors) CurrentMonitors() []models.Monitor { return f.monitors }

type fakeView struct {
	mutex   sync.Mutex
	renders []PublicState
	notices []string
	errors  []string
	opened  []DialogKind
	closed  int
	abouts  int
}

func (v *fakeView) Render(state PublicState) {
	v.mutex.Lock()
	defer v.mutex.Unlock()
	v.renders = append(v.renders, state)
}

func (v *fakeView) Notify(message string) {
	v.mutex.Lock()
	defer v.mutex.Unlock()
	v.notices = append(v.notices, message)
}

func (v *fakeView) ShowError(title, message string) {
	v.mutex.Lock()
	defer v.mutex.Unlock()
	v.errors = append(v.errors, title+": "+message)
}

func (v *fakeView) ShowAbout() {
	v.mutex.Lock()
	defer v.mutex.Unlock()
	v.abouts++
}

func (v *fakeView) noticeCount() int {
	v.mutex.Lock()
	defer v.mutex.Unlock()
	return len(v.notices)
}

func (v *fakeView) OpenDialog(kind DialogKind) {
	v.mutex.Lock()
	defer v.mutex.Unlock()
	v.opened = append(v.opened, kind)
}

func (v *fakeView) CloseDialog() {
	v.mutex.Lock()
	defer v.mutex.Unlock()
	v.closed++
}

func (v *fakeView) lastRender() PublicState {
	v.mutex.Lock()
	defer v.mutex.Unlock()
	return v.renders[len(v.renders)-1]
}

type fakeAutostart struct {
	enabled bool
	err     error
	calls   int
}

func (a *fakeAutostart) Enable() error {
	a.calls++
	if a.err != nil {
		return a.err
	}
	a.enabled = true
	return nil
}

func (a *fakeAutostart) Disable() error {
	a.calls++
	if a.err != nil {
		return a.err
	}
	a.enabled = false
	return nil
}

func (a *fakeAutostart) IsEnabled() bool { return a.enabled }
