// Package tray shows the system-tray icon and menu and forwards clicks to
// the tray controller.
package tray

import (
	"fmt"
	"log"
	"runtime"
	"sync"

	"fyne.io/systray"

	"github.com/dylan-ru/screen-dimmer/controller"
)

// Actions is one method per user action; controller.TrayController implements it.
type Actions interface {
	OpenBrightnessDialog()
	OpenColorDialog()
	SetBrightness(brightness int)
	SetAutostart(enabled bool)
	SetMonitorEnabled(id string, enabled bool)
	About()
	Quit()
}

// Options configures the tray.
type Options struct {
	// Icon is PNG data; Icon() is used when empty.
	Icon []byte

	// Title is the application name shown in the tooltip.
	Title string

	Actions Actions
}

// presets are the quick brightness levels offered in the menu.
var presets = []int{100, 90, 75, 50, 25, 10}

// Tray is a running tray icon. Update and Notify are safe for concurrent use.
type Tray struct {
	opts Options

	mutex   sync.Mutex
	ready   bool
	pending *controller.PublicState
	notice  string

	presetItems  []*systray.MenuItem
	monitorsMenu *systray.MenuItem
	monitorItems map[string]*systray.MenuItem
	autostart    *systray.MenuItem
}

// Start shows the tray icon. The systray loop runs on its own locked OS
// thread so it does not compete with the window host for the main thread.
func Start(opts Options) *Tray {
	if opts.Title == "" {
		opts.Title = "Screen Dimmer"
	}
	if len(opts.Icon) == 0 {
		opts.Icon = Icon()
	}
	t := &Tray{opts: opts, monitorItems: make(map[string]*systray.MenuItem)}
	go func() {
		runtime.LockOSThread()
		systray.Run(t.onReady, func() { log.Println("[tray] icon removed") })
	}()
	return t
}

// Stop removes the tray icon.
func (t *Tray) Stop() {
	systray.Quit()
}

func (t *Tray) onReady() {
	systray.SetIcon(t.opts.Icon)
	systray.SetTitle(t.opts.Title)
	systray.SetTooltip(t.opts.Title)

	brightness := systray.AddMenuItem("Brightness", "Quick brightness presets")
	for _, level := range presets {
		item := brightness.AddSubMenuItemCheckbox(presetLabel(level), "", false)
		t.presetItems = append(t.presetItems, item)
		level := level
		t.onClick(item, func() { t.opts.Actions.SetBrightness(level) })
	}
	t.onClick(systray.AddMenuItem("Adjust Brightness…", "Open the brightness slider"), t.opts.Actions.OpenBrightnessDialog)
	t.onClick(systray.AddMenuItem("Change Color…", "Pick the overlay color"), t.opts.Actions.OpenColorDialog)
	t.monitorsMenu = systray.AddMenuItem("Monitors", "Choose which monitors are dimmed")

	systray.AddSeparator()
	t.autostart = systray.AddMenuItemCheckbox("Start on Login", "Launch Screen Dimmer when you log in", false)
	t.onClick(t.autostart, func() { t.opts.Actions.SetAutostart(!t.autostart.Checked()) })

	systray.AddSeparator()
	t.onClick(systray.AddMenuItem("About", "About Screen Dimmer"), t.opts.Actions.About)
	t.onClick(systray.AddMenuItem("Quit", "Remove the overlays and exit"), t.opts.Actions.Quit)

	t.mutex.Lock()
	t.ready = true
	pending := t.pending
	t.pending = nil
	t.mutex.Unlock()
	log.Println("[tray] menu ready")

	if pending != nil {
		t.Update(*pending)
	}
}

func (t *Tray) onClick(item *systray.MenuItem, fn func()) {
	go func() {
		for range item.ClickedCh {
			fn()
		}
	}()
}

// Update reflects state in the menu: preset and autostart checkmarks, the
// monitor list and the tooltip.
func (t *Tray) Update(state controller.PublicState) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	if !t.ready {
		t.pending = &state
		return
	}

	for i, level := range presets {
		setChecked(t.presetItems[i], level == state.Brightness)
	}
	setChecked(t.autostart, state.AutoStart)

	present := make(map[string]bool, len(state.Monitors))
	for _, m := range state.Monitors {
		present[m.ID] = true
		item, ok := t.monitorItems[m.ID]
		if !ok {
			item = t.monitorsMenu.AddSubMenuItemCheckbox(monitorLabel(m), "Dim this monitor", m.Enabled)
			t.monitorItems[m.ID] = item
			id := m.ID
			t.onClick(item, func() { t.opts.Actions.SetMonitorEnabled(id, !item.Checked()) })
		}
		item.SetTitle(monitorLabel(m))
		setChecked(item, m.Enabled)
		item.Show()
	}
	for id, item := range t.monitorItems {
		if !present[id] {
			item.Hide()
		}
	}
	if len(state.Monitors) == 0 {
		t.monitorsMenu.Disable()
	} else {
		t.monitorsMenu.Enable()
	}

	t.notice = state.Notice
	systray.SetTooltip(tooltip(t.opts.Title, state.Brightness, t.notice))
}

// Notify puts message in the tooltip until the next Update clears it.
func (t *Tray) Notify(message string) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	t.notice = message
	if t.ready {
		systray.SetTooltip(t.opts.Title + "\n" + message)
	}
}

func setChecked(item *systray.MenuItem, checked bool) {
	if checked {
		item.Check()
	} else {
		item.Uncheck()
	}
}

func presetLabel(level int) string {
	return fmt.Sprintf("%d%%", level)
}

func monitorLabel(m controller.PublicMonitorState) string {
	label := m.ID
	if m.Primary {
		label += " (primary)"
	}
	if m.Override {
		label += fmt.Sprintf(" %d%%", m.Brightness)
	}
	return label
}

func tooltip(title string, brightness int, notice string) string {
	s := fmt.Sprintf("%s: %d%% brightness", title, brightness)
	if notice != "" {
		s += "\n" + notice
	}
	return s
}
