package services

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/dylan-ru/screen-dimmer/models"
)

// ErrDisplayClosed is reported through OnError when the display stops
// delivering change notifications.
var ErrDisplayClosed = errors.New("display connection closed")

// defaultSettleDelay absorbs the burst of RandR events a single hotplug produces.
const defaultSettleDelay = 250 * time.Millisecond

// MonitorSource is the part of hardware.Display the service needs.
type MonitorSource interface {
	Monitors() ([]models.Monitor, error)
	Changes() <-chan struct{}
}

// MonitorService enumerates monitors and reports layout changes.
type MonitorService struct {
	ctx      context.Context
	cancel   context.CancelFunc
	OnChange func(monitors []models.Monitor)
	OnError  func(err error)
	source   MonitorSource
	settle   time.Duration
	wg       sync.WaitGroup
	mutex    sync.Mutex
}

// NewMonitorService creates a service reading from source.
func NewMonitorService(source MonitorSource) *MonitorService {
	return &MonitorService{
		source: source,
		settle: defaultSettleDelay,
	}
}

// CurrentMonitors queries the display and returns the monitors in layout
// order. Errors are logged and yield an empty list, which disables the
// overlay until the next successful refresh.
func (s *MonitorService) CurrentMonitors() []models.Monitor {
	monitors, err := s.source.Monitors()
	if err != nil {
		log.Printf("[monitors] enumeration failed: %v", err)
		if s.OnError != nil {
			s.OnError(err)
		}
		return nil
	}
	out := make([]models.Monitor, len(monitors))
	copy(out, monitors)
	models.SortMonitors(out)
	return out
}

// Start begins watching for layout changes. Calling Start again restarts the watcher.
func (s *MonitorService) Start() {
	s.Stop()

	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.wg.Add(1)
	go s.watch(s.ctx)
}

// Stop terminates the watcher and waits for it to exit.
func (s *MonitorService) Stop() {
	s.mutex.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.mutex.Unlock()

	if cancel != nil {
		cancel()
		s.wg.Wait()
	}
}

func (s *MonitorService) watch(ctx context.Context) {
	defer s.wg.Done()

	changes := s.source.Changes()
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-changes:
			if !ok {
				log.Println("[monitors] display closed, no longer watching for changes")
				if s.OnError != nil {
					s.OnError(ErrDisplayClosed)
				}
				return
			}
		}

		// Wait for the burst to settle, swallowing further notifications.
		timer := time.NewTimer(s.settle)
	settle:
		for {
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case _, ok := <-changes:
				if !ok {
					timer.Stop()
					break settle
				}
			case <-timer.C:
				break settle
			}
		}

		monitors := s.CurrentMonitors()
		log.Printf("[monitors] layout changed: %d monitor(s)", len(monitors))
		if s.OnChange != nil {
			s.OnChange(monitors)
		}
	}
}
