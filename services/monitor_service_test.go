package services

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dylan-ru/screen-dimmer/models"
)

type fakeSource struct {
	mutex    sync.Mutex
	monitors []models.Monitor
	err      error
	calls    int
	changes  chan struct{}
}

func (f *fakeSource) Monitors() ([]models.Monitor, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.calls++
	return f.monitors, f.err
}

func (f *fakeSource) Changes() <-chan struct{} { return f.changes }

func (f *fakeSource) set(ms []models.Monitor) {
	f.mutex.Lock()
	f.monitors = ms
	f.mutex.Unlock()
}

func (f *fakeSource) callCount() int {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return f.calls
}

func TestCurrentMonitorsSortsAndRefreshes(t *testing.T) {
	src := &fakeSource{monitors: []models.Monitor{{ID: "HDMI-1", X: 1920}, {ID: "eDP-1"}}}
	svc := NewMonitorService(src)

	got := svc.CurrentMonitors()
	if len(got) != 2 || got[0].ID != "eDP-1" || got[1].ID != "HDMI-1" {
		t.Fatalf("CurrentMonitors() = %v", got)
	}

	src.set([]models.Monitor{{ID: "eDP-1"}})
	if got := svc.CurrentMonitors(); len(got) != 1 {
		t.Fatalf("second call = %v, want a fresh query", got)
	}
	if src.callCount() != 2 {
		t.Fatalf("source queried %d times want 2", src.callCount())
	}
}

func TestCurrentMonitorsErrorMeansNone(t *testing.T) {
	src := &fakeSource{err: errors.New("BadMatch")}
	svc := NewMonitorService(src)
	var reported error
	svc.OnError = func(err error) { reported = err }

	if got := svc.CurrentMonitors(); len(got) != 0 {
		t.Fatalf("CurrentMonitors() = %v want none", got)
	}
	if reported == nil {
		t.Fatalf("enumeration error was not reported")
	}
}

func TestWatchCoalescesBursts(t *testing.T) {
	src := &fakeSource{monitors: []models.Monitor{{ID: "eDP-1"}}, changes: make(chan struct{}, 8)}
	svc := NewMonitorService(src)
	svc.settle = 20 * time.Millisecond

	got := make(chan []models.Monitor, 4)
	svc.OnChange = func(ms []models.Monitor) { got <- ms }
	svc.Start()
	defer svc.Stop()

	for i := 0; i < 5; i++ {
		src.changes <- struct{}{}
	}

	select {
	case ms := <-got:
		if len(ms) != 1 || ms[0].ID != "eDP-1" {
			t.Fatalf("OnChange(%v)", ms)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("no change reported")
	}

	select {
	case ms := <-got:
		t.Fatalf("burst produced a second report: %v", ms)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestWatchReportsClosedDisplay(t *testing.T) {
	src := &fakeSource{changes: make(chan struct{})}
	svc := NewMonitorService(src)
	errs := make(chan error, 1)
	svc.OnError = func(err error) { errs <- err }
	svc.Start()
	defer svc.Stop()

	close(src.changes)
	select {
	case err := <-errs:
		if !errors.Is(err, ErrDisplayClosed) {
			t.Fatalf("OnError(%v) want ErrDisplayClosed", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("closed display not reported")
	}
}
