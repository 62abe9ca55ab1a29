//go:build linux

package hardware

import (
	"fmt"
	"log"
	"sync"

	"github.com/dylan-ru/screen-dimmer/models"
	"github.com/jezek/xgb"
	"github.com/jezek/xgb/randr"
	"github.com/jezek/xgb/shape"
	"github.com/jezek/xgb/xproto"
)

const overlayTitle = "Screen Dimmer Overlay"

// Backend draws overlays on an X11 server. Translucency needs a depth-32
// TrueColor visual and a running compositing manager; without them the
// overlay is painted opaque.
type Backend struct {
	conn   *xgb.Conn
	screen *xproto.ScreenInfo

	visual xproto.Visualid
	depth  byte
	cmap   xproto.Colormap
	argb   bool

	changes   chan struct{}
	mutex     sync.Mutex
	windows   map[xproto.Window]*x11Overlay
	closeOnce sync.Once
}

// NewBackend connects to $DISPLAY and initializes the RandR and SHAPE
// extensions. It returns an error if any of them is unavailable.
func NewBackend() (*Backend, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X server: %w", err)
	}
	if err := randr.Init(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("RandR extension unavailable: %w", err)
	}
	if _, err := randr.QueryVersion(conn, 1, 3).Reply(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("RandR version query failed: %w", err)
	}
	if err := shape.Init(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("SHAPE extension unavailable: %w", err)
	}

	b := &Backend{
		conn:    conn,
		screen:  xproto.Setup(conn).DefaultScreen(conn),
		changes: make(chan struct{}, 1),
		windows: make(map[xproto.Window]*x11Overlay),
	}
	if err := b.pickVisual(); err != nil {
		conn.Close()
		return nil, err
	}
	if !b.argb {
		log.Println("[x11] warning: no 32-bit visual, overlays will be opaque")
	} else if !b.compositing() {
		log.Println("[x11] warning: no compositing manager running, overlays may be opaque")
	}

	mask := uint16(randr.NotifyMaskScreenChange | randr.NotifyMaskCrtcChange | randr.NotifyMaskOutputChange)
	if err := randr.SelectInputChecked(conn, b.screen.Root, mask).Check(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to subscribe to RandR events: %w", err)
	}

	go b.eventLoop()
	return b, nil
}

// pickVisual prefers a depth-32 TrueColor visual so the window carries its
// own alpha channel, falling back to the root visual.
func (b *Backend) pickVisual() error {
	for _, depth := range b.screen.AllowedDepths {
		if depth.Depth != 32 {
			continue
		}
		for _, v := range depth.Visuals {
			if v.Class != xproto.VisualClassTrueColor {
				continue
			}
			cmap, err := xproto.NewColormapId(b.conn)
			if err != nil {
				return fmt.Errorf("failed to allocate colormap id: %w", err)
			}
			if err := xproto.CreateColormapChecked(b.conn, xproto.ColormapAllocNone, cmap, b.screen.Root, v.VisualId).Check(); err != nil {
				return fmt.Errorf("failed to create colormap: %w", err)
			}
			b.visual, b.depth, b.cmap, b.argb = v.VisualId, 32, cmap, true
			return nil
		}
	}
	b.visual, b.depth, b.cmap = b.screen.RootVisual, b.screen.RootDepth, b.screen.DefaultColormap
	return nil
}

// compositing reports whether some client owns the _NET_WM_CM_Sn selection.
func (b *Backend) compositing() bool {
	name := fmt.Sprintf("_NET_WM_CM_S%d", b.conn.DefaultScreen)
	atom, err := xproto.InternAtom(b.conn, true, uint16(len(name)), name).Reply()
	if err != nil || atom.Atom == xproto.AtomNone {
		return false
	}
	owner, err := xproto.GetSelectionOwner(b.conn, atom.Atom).Reply()
	return err == nil && owner.Owner != xproto.WindowNone
}

func (b *Backend) eventLoop() {
	defer close(b.changes)
	for {
		ev, err := b.conn.WaitForEvent()
		if ev == nil && err == nil {
			return // connection closed
		}
		if err != nil {
			log.Printf("[x11] error event: %v", err)
			continue
		}
		switch ev.(type) {
		case randr.ScreenChangeNotifyEvent, randr.NotifyEvent:
			select {
			case b.changes <- struct{}{}:
			default:
			}
		}
	}
}

// Changes implements Display.
func (b *Backend) Changes() <-chan struct{} {
	return b.changes
}

// Monitors implements Display. Each connected output driven by a CRTC is
// one monitor; outputs mirroring an already listed CRTC are skipped.
func (b *Backend) Monitors() ([]models.Monitor, error) {
	res, err := randr.GetScreenResourcesCurrent(b.conn, b.screen.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to query screen resources: %w", err)
	}

	var primary randr.Output
	if reply, err := randr.GetOutputPrimary(b.conn, b.screen.Root).Reply(); err == nil {
		primary = reply.Output
	}

	seen := make(map[randr.Crtc]bool)
	var monitors []models.Monitor
	for _, output := range res.Outputs {
		info, err := randr.GetOutputInfo(b.conn, output, res.ConfigTimestamp).Reply()
		if err != nil {
			return nil, fmt.Errorf("failed to query output %d: %w", output, err)
		}
		if info.Connection != randr.ConnectionConnected || info.Crtc == 0 || seen[info.Crtc] {
			continue
		}
		crtc, err := randr.GetCrtcInfo(b.conn, info.Crtc, res.ConfigTimestamp).Reply()
		if err != nil {
			return nil, fmt.Errorf("failed to query CRTC %d: %w", info.Crtc, err)
		}
		if crtc.Width == 0 || crtc.Height == 0 {
			continue
		}
		seen[info.Crtc] = true
		monitors = append(monitors, models.Monitor{
			ID:      string(info.Name),
			X:       int(crtc.X),
			Y:       int(crtc.Y),
			Width:   int(crtc.Width),
			Height:  int(crtc.Height),
			Primary: output == primary,
		})
	}

	// Servers without RandR outputs (Xvfb, some VNC servers) still have a root window.
	if len(monitors) == 0 {
		monitors = append(monitors, models.Monitor{
			ID:      "screen",
			Width:   int(b.screen.WidthInPixels),
			Height:  int(b.screen.HeightInPixels),
			Primary: true,
		})
	}
	return monitors, nil
}

func (b *Backend) pixel(c models.Color, alpha float64) uint32 {
	if b.argb {
		return PremultipliedARGB(c, alpha)
	}
	return OpaqueRGB(c)
}

// NewOverlay implements Display.
func (b *Backend) NewOverlay(m models.Monitor, color models.Color, alpha float64) (OverlayWindow, error) {
	wid, err := xproto.NewWindowId(b.conn)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate window id: %w", err)
	}

	// Override-redirect keeps the window manager away: no decorations,
	// no taskbar entry, no alt-tab.
	mask := uint32(xproto.CwBackPixel | xproto.CwBorderPixel | xproto.CwOverrideRedirect | xproto.CwColormap)
	values := []uint32{b.pixel(color, alpha), 0, 1, uint32(b.cmap)}
	err = xproto.CreateWindowChecked(b.conn, b.depth, wid, b.screen.Root,
		int16(m.X), int16(m.Y), uint16(m.Width), uint16(m.Height), 0,
		xproto.WindowClassInputOutput, b.visual, mask, values).Check()
	if err != nil {
		return nil, fmt.Errorf("failed to create overlay for %s: %w", m.ID, err)
	}
	w := &x11Overlay{backend: b, id: wid}

	xproto.ChangeProperty(b.conn, xproto.PropModeReplace, wid, xproto.AtomWmName, xproto.AtomString,
		8, uint32(len(overlayTitle)), []byte(overlayTitle))

	// An empty input region lets every pointer event fall through.
	if err := shape.RectanglesChecked(b.conn, shape.SoSet, shape.SkInput, xproto.ClipOrderingUnsorted,
		wid, 0, 0, nil).Check(); err != nil {
		w.Destroy()
		return nil, fmt.Errorf("failed to make overlay click-through: %w", err)
	}
	if err := xproto.MapWindowChecked(b.conn, wid).Check(); err != nil {
		w.Destroy()
		return nil, fmt.Errorf("failed to map overlay: %w", err)
	}
	xproto.ConfigureWindow(b.conn, wid, xproto.ConfigWindowStackMode, []uint32{xproto.StackModeAbove})

	b.mutex.Lock()
	b.windows[wid] = w
	b.mutex.Unlock()
	return w, nil
}

// Close implements Display.
func (b *Backend) Close() error {
	b.closeOnce.Do(func() {
		b.mutex.Lock()
		windows := make([]*x11Overlay, 0, len(b.windows))
		for _, w := range b.windows {
			windows = append(windows, w)
		}
		b.mutex.Unlock()
		for _, w := range windows {
			w.Destroy()
		}
		if b.argb {
			xproto.FreeColormap(b.conn, b.cmap)
		}
		b.conn.Close()
	})
	return nil
}

type x11Overlay struct {
	backend   *Backend
	id        xproto.Window
	destroyed bool
}

func (w *x11Overlay) Move(m models.Monitor) error {
	if w.destroyed {
		return fmt.Errorf("overlay window already destroyed")
	}
	mask := uint16(xproto.ConfigWindowX | xproto.ConfigWindowY | xproto.ConfigWindowWidth | xproto.ConfigWindowHeight)
	values := []uint32{uint32(int32(m.X)), uint32(int32(m.Y)), uint32(m.Width), uint32(m.Height)}
	if err := xproto.ConfigureWindowChecked(w.backend.conn, w.id, mask, values).Check(); err != nil {
		return fmt.Errorf("failed to move overlay to %s: %w", m, err)
	}
	return nil
}

func (w *x11Overlay) Paint(color models.Color, alpha float64) error {
	if w.destroyed {
		return fmt.Errorf("overlay window already destroyed")
	}
	pixel := w.backend.pixel(color, alpha)
	if err := xproto.ChangeWindowAttributesChecked(w.backend.conn, w.id, xproto.CwBackPixel, []uint32{pixel}).Check(); err != nil {
		return fmt.Errorf("failed to repaint overlay: %w", err)
	}
	// Width/height 0 clears to the window edges.
	xproto.ClearArea(w.backend.conn, false, w.id, 0, 0, 0, 0)
	return nil
}

func (w *x11Overlay) Destroy() error {
	if w.destroyed {
		return nil
	}
	w.destroyed = true
	w.backend.mutex.Lock()
	delete(w.backend.windows, w.id)
	w.backend.mutex.Unlock()
	if err := xproto.DestroyWindowChecked(w.backend.conn, w.id).Check(); err != nil {
		return fmt.Errorf("failed to destroy overlay: %w", err)
	}
	return nil
}
