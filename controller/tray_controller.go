package controller

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/dylan-ru/screen-dimmer/autostart"
	"github.com/dylan-ru/screen-dimmer/models"
)

// State is the tray controller's interaction state.
type State int

const (
	StateIdle     State = iota // menu closed
	StateMenuOpen              // brightness or color dialog showing
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateMenuOpen:
		return "menu-open"
	default:
		return "unknown"
	}
}

// DialogKind selects which panel of the dialog window is shown.
type DialogKind string

const (
	DialogNone       DialogKind = ""
	DialogBrightness DialogKind = "brightness"
	DialogColor      DialogKind = "color"
)

// SettingsStore loads and persists settings.
type SettingsStore interface {
	Load() models.Settings
	Save(settings models.Settings) error
}

// MonitorLister enumerates the current monitors.
type MonitorLister interface {
	CurrentMonitors() []models.Monitor
}

// View is the user-facing side the controller drives: the tray menu and
// the dialog window. Calls come from the controller goroutine.
type View interface {
	// Render reflects the current state (checkmarks, tooltip, dialog values).
	Render(state PublicState)
	// Notify shows a passive notice, e.g. in the tray tooltip.
	Notify(message string)
	// ShowError reports a failed user action without blocking.
	ShowError(title, message string)
	// ShowAbout shows the application name, version and website.
	ShowAbout()
	OpenDialog(kind DialogKind)
	CloseDialog()
}

// PublicState is a snapshot of the controller's state for the UI.
type PublicState struct {
	Brightness int                  `json:"brightness"`
	Color      string               `json:"color"`
	AutoStart  bool                 `json:"autoStart"`
	State      string               `json:"state"`
	Dialog     DialogKind           `json:"dialog"`
	Notice     string               `json:"notice,omitempty"`
	Monitors   []PublicMonitorState `json:"monitors"`
}

// PublicMonitorState describes one connected monitor.
type PublicMonitorState struct {
	ID         string `json:"id"`
	Primary    bool   `json:"primary"`
	Enabled    bool   `json:"enabled"`
	Brightness int    `json:"brightness"`
	Override   bool   `json:"override"`
}

// Options wires a TrayController to its collaborators. Autostart may be nil
// on platforms without support.
type Options struct {
	Store     SettingsStore
	Overlays  *OverlayManager
	Monitors  MonitorLister
	Autostart autostart.Manager
	View      View
}

// TrayController owns the application state. Every user action is queued
// onto a single goroutine, so settings and overlays are never touched
// concurrently; action methods return once their operation has run.
type TrayController struct {
	store     SettingsStore
	overlays  *OverlayManager
	monitors  MonitorLister
	autostart autostart.Manager
	view      View

	// OnQuit runs after Quit has torn everything down, e.g. to stop the window host.
	OnQuit func()

	settings models.Settings
	layout   []models.Monitor
	state    State
	dialog   DialogKind
	notice   string
	started  bool
	stopped  bool

	snapshot   PublicState
	stateMutex sync.RWMutex

	ops      chan func()
	loopDone chan struct{}
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

// NewTrayController creates a controller and starts its action loop. Actions
// are ignored until Start has loaded the settings.
func NewTrayController(opts Options) *TrayController {
	ctx, cancel := context.WithCancel(context.Background())
	c := &TrayController{
		store:     opts.Store,
		overlays:  opts.Overlays,
		monitors:  opts.Monitors,
		autostart: opts.Autostart,
		view:      opts.View,
		ops:       make(chan func()),
		loopDone:  make(chan struct{}),
		ctx:       ctx,
		cancel:    cancel,
	}
	c.wg.Add(1)
	go c.loop()
	return c
}

// Start loads settings and draws the overlays. It runs on the action loop,
// so actions arriving meanwhile wait for it.
func (c *TrayController) Start() {
	c.do(c.start)
}

func (c *TrayController) start() {
	if c.started || c.stopped {
		return
	}
	c.started = true

	c.settings = c.store.Load()
	if c.autostart != nil {
		// The entry on disk wins over a stale flag.
		if enabled := c.autostart.IsEnabled(); enabled != c.settings.AutoStart {
			log.Printf("[tray] autostart entry present=%v, updating settings", enabled)
			c.settings.AutoStart = enabled
			c.persist()
		}
	}
	c.layout = c.monitors.CurrentMonitors()
	c.applyOverlays()
	c.render()
	log.Printf("[tray] controller started: brightness=%d color=%s monitors=%d",
		c.settings.Brightness, c.settings.Color, len(c.layout))
}

// Stop tears down the overlays, saves settings and ends the action loop.
// It is safe to call after Quit and more than once.
func (c *TrayController) Stop() {
	c.do(c.shutdown)
	c.cancel()
	c.wg.Wait()
	log.Println("[tray] controller stopped")
}

func (c *TrayController) loop() {
	defer c.wg.Done()
	defer close(c.loopDone)
	for {
		select {
		case <-c.ctx.Done():
			return
		case op := <-c.ops:
			op()
		}
	}
}

// do runs fn on the controller goroutine and waits for it. After the loop
// has exited it returns without running fn.
func (c *TrayController) do(fn func()) {
	done := make(chan struct{})
	select {
	case c.ops <- func() { defer close(done); fn() }:
	case <-c.loopDone:
		return
	}
	select {
	case <-done:
	case <-c.loopDone:
	}
}

// active reports whether actions may change state: after Start, before shutdown.
func (c *TrayController) active() bool {
	return c.started && !c.stopped
}

// GetPublicState returns a thread-safe snapshot of the current state.
func (c *TrayController) GetPublicState() PublicState {
	c.stateMutex.RLock()
	defer c.stateMutex.RUnlock()
	return c.snapshot
}

// OpenBrightnessDialog shows the brightness slider.
func (c *TrayController) OpenBrightnessDialog() {
	c.do(func() { c.openDialog(DialogBrightness) })
}

// OpenColorDialog shows the color chooser.
func (c *TrayController) OpenColorDialog() {
	c.do(func() { c.openDialog(DialogColor) })
}

func (c *TrayController) openDialog(kind DialogKind) {
	if !c.active() {
		return
	}
	c.state, c.dialog = StateMenuOpen, kind
	c.view.OpenDialog(kind)
	c.render()
}

// DialogClosed records that the user dismissed the dialog.
func (c *TrayController) DialogClosed() {
	c.do(func() {
		if c.state != StateMenuOpen {
			return
		}
		c.state, c.dialog = StateIdle, DialogNone
		c.render()
	})
}

// SetBrightness applies a global brightness level (0..100).
func (c *TrayController) SetBrightness(brightness int) {
	c.do(func() {
		if !c.active() {
			return
		}
		b := models.ClampBrightness(brightness)
		if b == c.settings.Brightness {
			return
		}
		c.settings.Brightness = b
		c.repaint()
		c.persist()
		c.render()
	})
}

// SetMonitorBrightness gives one monitor its own brightness level.
func (c *TrayController) SetMonitorBrightness(id string, brightness int) {
	c.do(func() {
		if !c.active() {
			return
		}
		b := models.ClampBrightness(brightness)
		p := c.profile(id)
		p.Brightness = &b
		c.setProfile(id, p)
		c.applyOverlays()
		c.persist()
		c.render()
	})
}

// ResetMonitorBrightness makes a monitor follow the global brightness again.
func (c *TrayController) ResetMonitorBrightness(id string) {
	c.do(func() {
		if !c.active() {
			return
		}
		p := c.profile(id)
		if p.Brightness == nil {
			return
		}
		p.Brightness = nil
		c.setProfile(id, p)
		c.applyOverlays()
		c.persist()
		c.render()
	})
}

// PickColor applies a color confirmed in the chooser and closes it.
func (c *TrayController) PickColor(color models.Color) {
	c.do(func() {
		if !c.active() {
			return
		}
		if color != c.settings.Color {
			c.settings.Color = color
			c.repaint()
			c.persist()
		}
		if c.state == StateMenuOpen && c.dialog == DialogColor {
			c.state, c.dialog = StateIdle, DialogNone
			c.view.CloseDialog()
		}
		c.render()
	})
}

// SetAutostart creates or removes the login entry. Failures are reported
// to the user and leave the setting unchanged.
func (c *TrayController) SetAutostart(enabled bool) {
	c.do(func() {
		if !c.active() {
			return
		}
		var err error
		if c.autostart == nil {
			err = fmt.Errorf("autostart is not supported on this platform")
		} else {
			err = autostart.Set(c.autostart, enabled)
		}
		if err != nil {
			log.Printf("[tray] %v", err)
			c.view.ShowError("Start on Login", err.Error())
			c.render() // puts the checkbox back
			return
		}
		c.settings.AutoStart = enabled
		c.persist()
		c.render()
	})
}

// SetMonitorEnabled turns dimming on or off for one monitor.
func (c *TrayController) SetMonitorEnabled(id string, enabled bool) {
	c.do(func() {
		if !c.active() {
			return
		}
		p := c.profile(id)
		if p.Disabled == !enabled {
			return
		}
		p.Disabled = !enabled
		c.setProfile(id, p)
		c.applyOverlays()
		c.persist()
		c.render()
	})
}

// MonitorsChanged reconciles the overlays with a new monitor layout.
func (c *TrayController) MonitorsChanged(monitors []models.Monitor) {
	c.do(func() {
		if !c.active() {
			return
		}
		c.layout = monitors
		c.applyOverlays()
		c.render()
	})
}

// About shows information about the application.
func (c *TrayController) About() {
	c.do(func() {
		if c.stopped {
			return
		}
		c.view.ShowAbout()
	})
}

// MonitorError reports that enumerating or watching monitors failed, e.g.
// because the display connection closed. Enumeration also runs on the
// controller goroutine, so the notice is queued without waiting.
func (c *TrayController) MonitorError(err error) {
	go c.do(func() {
		if !c.active() {
			return
		}
		c.notice = "Display changes are not being tracked: " + err.Error()
		c.view.Notify(c.notice)
		c.render()
	})
}

// Quit tears down all overlays, saves settings and then calls OnQuit.
func (c *TrayController) Quit() {
	c.do(c.shutdown)
	if c.OnQuit != nil {
		c.OnQuit()
	}
}

// shutdown runs once; later calls are no-ops.
func (c *TrayController) shutdown() {
	if c.stopped {
		return
	}
	c.stopped = true
	if !c.started {
		return
	}
	if err := c.overlays.Close(); err != nil {
		log.Printf("[tray] error destroying overlays: %v", err)
	}
	c.persist()
	log.Println("[tray] overlays removed, settings saved")
}

func (c *TrayController) profile(id string) models.MonitorProfile {
	return c.settings.Monitors[id]
}

func (c *TrayController) setProfile(id string, p models.MonitorProfile) {
	if c.settings.Monitors == nil {
		c.settings.Monitors = make(models.MonitorProfiles)
	}
	c.settings.Monitors[id] = p
	c.settings = c.settings.Normalize()
}

func (c *TrayController) alpha(brightness int) float64 {
	return AlphaForBrightness(brightness, c.settings.MaxAlpha)
}

// applyOverlays pushes per-monitor overrides and the enabled monitor set
// to the overlay manager.
func (c *TrayController) applyOverlays() {
	active := make([]models.Monitor, 0, len(c.layout))
	for _, m := range c.layout {
		p := c.profile(m.ID)
		if p.Disabled {
			continue
		}
		var err error
		if p.Brightness != nil {
			err = c.overlays.SetMonitorAlpha(m.ID, c.alpha(*p.Brightness))
		} else {
			err = c.overlays.ClearMonitorAlpha(m.ID)
		}
		if err != nil {
			log.Printf("[tray] %v", err)
		}
		active = append(active, m)
	}
	if err := c.overlays.Sync(active, c.settings.Color, c.alpha(c.settings.Brightness)); err != nil {
		log.Printf("[tray] overlay sync incomplete: %v", err)
	}
}

func (c *TrayController) repaint() {
	if err := c.overlays.SetAppearance(c.settings.Color, c.alpha(c.settings.Brightness)); err != nil {
		log.Printf("[tray] repaint incomplete: %v", err)
	}
}

// persist saves settings; a failure keeps the in-memory state and tells the user.
func (c *TrayController) persist() {
	if err := c.store.Save(c.settings); err != nil {
		log.Printf("[tray] failed to save settings: %v", err)
		c.notice = "Could not save settings: " + err.Error()
		c.view.Notify(c.notice)
		return
	}
	c.notice = ""
}

func (c *TrayController) render() {
	state := PublicState{
		Brightness: c.settings.Brightness,
		Color:      c.settings.Color.Hex(),
		AutoStart:  c.settings.AutoStart,
		State:      c.state.String(),
		Dialog:     c.dialog,
		Notice:     c.notice,
		Monitors:   make([]PublicMonitorState, 0, len(c.layout)),
	}
	for _, m := range c.layout {
		p := c.profile(m.ID)
		ms := PublicMonitorState{
			ID:         m.ID,
			Primary:    m.Primary,
			Enabled:    !p.Disabled,
			Brightness: c.settings.Brightness,
		}
		if p.Brightness != nil {
			ms.Brightness, ms.Override = *p.Brightness, true
		}
		state.Monitors = append(state.Monitors, ms)
	}

	c.stateMutex.Lock()
	c.snapshot = state
	c.stateMutex.Unlock()
	c.view.Render(state)
}
