package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/dylan-ru/screen-dimmer/autostart"
	"github.com/dylan-ru/screen-dimmer/controller"
	"github.com/dylan-ru/screen-dimmer/hardware"
	"github.com/dylan-ru/screen-dimmer/models"
	"github.com/dylan-ru/screen-dimmer/services"
	"github.com/dylan-ru/screen-dimmer/tray"
	"github.com/dylan-ru/screen-dimmer/utils"

	"github.com/wailsapp/wails/v2/pkg/runtime"
)

// App struct holds the application's state and dependencies. Its exported
// methods are bound to the dialog window.
type App struct {
	ctx          context.Context
	settingsPath string
	display      *hardware.Backend
	monitors     *services.MonitorService
	tray         *tray.Tray
	controller   *controller.TrayController
	quitting     atomic.Bool
	signals      chan os.Signal
}

// DialogState is what the dialog window renders.
type DialogState struct {
	controller.PublicState
	Palette []models.Swatch `json:"palette"`
}

// NewApp creates a new App application struct.
func NewApp(settingsPath string) *App {
	return &App{settingsPath: settingsPath}
}

// startup is called when the window host starts.
func (a *App) startup(ctx context.Context) {
	a.ctx = ctx

	display, err := hardware.NewBackend()
	if err != nil {
		log.Printf("[app] display initialization failed: %v", err)
		runtime.MessageDialog(a.ctx, runtime.MessageDialogOptions{
			Type:    runtime.ErrorDialog,
			Title:   "Critical Display Error",
			Message: fmt.Sprintf("Screen Dimmer could not open the display.\n\n%v", err),
		})
		os.Exit(1)
	}
	a.display = display
	a.monitors = services.NewMonitorService(display)

	autostartManager, err := autostart.NewManager()
	if err != nil {
		log.Printf("[app] warning: autostart unavailable: %v", err)
	}

	store := utils.NewSettingsStore(a.settingsPath)
	a.controller = controller.NewTrayController(controller.Options{
		Store:     store,
		Overlays:  controller.NewOverlayManager(display),
		Monitors:  a.monitors,
		Autostart: autostartManager,
		View:      &appView{app: a},
	})
	a.controller.OnQuit = func() {
		a.quitting.Store(true)
		runtime.Quit(a.ctx)
	}

	a.tray = tray.Start(tray.Options{Actions: a.controller})
	a.controller.Start()

	a.monitors.OnChange = a.controller.MonitorsChanged
	a.monitors.OnError = a.controller.MonitorError
	a.monitors.Start()

	a.watchSignals()
	log.Printf("[app] started, settings at %s", store.Path())
}

// watchSignals makes SIGINT and SIGTERM go through the same path as the
// tray's Quit.
func (a *App) watchSignals() {
	a.signals = make(chan os.Signal, 1)
	signal.Notify(a.signals, os.Interrupt, syscall.SIGTERM)
	go func(sigs <-chan os.Signal, c *controller.TrayController) {
		sig, ok := <-sigs
		if !ok {
			return
		}
		log.Printf("[app] received %v, quitting", sig)
		c.Quit()
	}(a.signals, a.controller)
}

// beforeClose hides the dialog instead of closing the app; only Quit exits.
// It runs on the UI thread, which the controller may be waiting on, so the
// state change is handed off.
func (a *App) beforeClose(ctx context.Context) bool {
	if a.quitting.Load() || a.controller == nil {
		return false
	}
	runtime.WindowHide(ctx)
	go a.controller.DialogClosed()
	return true
}

// shutdown is called when the app is closing.
func (a *App) shutdown(ctx context.Context) {
	log.Println("[app] shutting down...")
	if a.signals != nil {
		signal.Stop(a.signals)
		close(a.signals)
	}
	if a.monitors != nil {
		a.monitors.Stop()
	}
	if a.controller != nil {
		a.controller.Stop()
	}
	if a.tray != nil {
		a.tray.Stop()
	}
	if a.display != nil {
		a.display.Close()
	}
}

// GetState returns the current state and the color palette to the dialog.
func (a *App) GetState() DialogState {
	return DialogState{
		PublicState: a.controller.GetPublicState(),
		Palette:     models.Palette(),
	}
}

// SetBrightness applies the slider value (0..100).
func (a *App) SetBrightness(brightness int) {
	a.controller.SetBrightness(brightness)
}

// SetMonitorBrightness gives one monitor its own level.
func (a *App) SetMonitorBrightness(id string, brightness int) {
	a.controller.SetMonitorBrightness(id, brightness)
}

// ResetMonitorBrightness makes a monitor follow the global level again.
func (a *App) ResetMonitorBrightness(id string) {
	a.controller.ResetMonitorBrightness(id)
}

// ChooseColor confirms a color from the chooser, given as "#rrggbb".
func (a *App) ChooseColor(hex string) error {
	c, err := models.ParseColor(hex)
	if err != nil {
		return err
	}
	a.controller.PickColor(c)
	return nil
}

// CloseDialog hides the dialog window.
func (a *App) CloseDialog() {
	runtime.WindowHide(a.ctx)
	a.controller.DialogClosed()
}

// appView adapts the tray and the dialog window to controller.View. It is a
// separate type so its methods are not bound to the frontend.
type appView struct {
	app *App
}

func (v *appView) Render(state controller.PublicState) {
	if v.app.tray != nil {
		v.app.tray.Update(state)
	}
	runtime.EventsEmit(v.app.ctx, "state", DialogState{PublicState: state, Palette: models.Palette()})
}

func (v *appView) Notify(message string) {
	if v.app.tray != nil {
		v.app.tray.Notify(message)
	}
	runtime.EventsEmit(v.app.ctx, "notice", message)
}

// ShowError opens a message box without blocking the controller.
func (v *appView) ShowError(title, message string) {
	ctx := v.app.ctx
	go func() {
		if _, err := runtime.MessageDialog(ctx, runtime.MessageDialogOptions{
			Type:    runtime.ErrorDialog,
			Title:   title,
			Message: message,
		}); err != nil {
			log.Printf("[app] could not show error dialog: %v", err)
		}
	}()
}

func (v *appView) ShowAbout() {
	ctx := v.app.ctx
	go func() {
		if _, err := runtime.MessageDialog(ctx, runtime.MessageDialogOptions{
			Type:    runtime.InfoDialog,
			Title:   "About Screen Dimmer",
			Message: fmt.Sprintf("Screen Dimmer %s\n\n%s\n\n%s", version, appDescription, appWebsite),
		}); err != nil {
			log.Printf("[app] could not show about dialog: %v", err)
		}
	}()
}

func (v *appView) OpenDialog(kind controller.DialogKind) {
	title := "Adjust Brightness"
	if kind == controller.DialogColor {
		title = "Select Overlay Color"
	}
	runtime.WindowSetTitle(v.app.ctx, title)
	runtime.EventsEmit(v.app.ctx, "dialog:open", string(kind))
	runtime.WindowShow(v.app.ctx)
}

func (v *appView) CloseDialog() {
	runtime.WindowHide(v.app.ctx)
}
