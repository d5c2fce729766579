// Package udev watches the kernel for LED and backlight class devices
// appearing or disappearing, via netlink/udev events.
package udev

import (
	"errors"
	"fmt"
	"path"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/pilebones/go-udev/netlink"
	"github.com/rs/zerolog/log"
)

const (
	// netlinkBufferSize is the receive buffer size for the netlink socket.
	// A larger buffer prevents ENOBUFS errors when a driver re-registers
	// several class devices at once.
	netlinkBufferSize = 2 * 1024 * 1024 // 2 MB

	// debounceWindow suppresses repeated events for the same device.
	debounceWindow = time.Second

	// debounceRetention is how long debounce entries are kept before cleanup.
	debounceRetention = time.Minute
)

// subsystemPattern matches the class subsystems the daemon writes to.
const subsystemPattern = "^(leds|backlight)$"

// EventType represents the type of device event.
type EventType int

const (
	// EventAdd indicates a device was registered.
	EventAdd EventType = iota
	// EventRemove indicates a device was unregistered.
	EventRemove
)

// String returns the udev action name.
func (e EventType) String() string {
	switch e {
	case EventAdd:
		return "add"
	case EventRemove:
		return "remove"
	default:
		return fmt.Sprintf("EventType(%d)", int(e))
	}
}

// Event represents a class device hot-plug event.
type Event struct {
	Type      EventType
	Subsystem string
	// Name is the class device name, e.g. "red" or "panel0-backlight".
	Name string
}

// EventHandler is called when a device event occurs.
type EventHandler func(event Event)

// RecoveryHandler is called when the monitor recovers from an error condition
// (e.g., netlink buffer overflow) and needs to trigger a refresh.
type RecoveryHandler func()

// Monitor watches for the configured LED and backlight devices.
type Monitor struct {
	conn            *netlink.UEventConn
	names           map[string]struct{}
	handler         EventHandler
	recoveryHandler RecoveryHandler
	quit            chan struct{}
	stopped         bool
	lastEventTime   map[string]time.Time
	mu              sync.Mutex
}

// NewMonitor creates a udev monitor for the named class devices.
// An empty names list matches every leds and backlight device.
func NewMonitor(names []string, handler EventHandler) *Monitor {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return &Monitor{
		names:         set,
		handler:       handler,
		lastEventTime: make(map[string]time.Time),
	}
}

// SetRecoveryHandler sets the handler called when the monitor recovers from errors.
// It should rewrite the current light state, since events may have been lost.
func (m *Monitor) SetRecoveryHandler(handler RecoveryHandler) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recoveryHandler = handler
}

// Start begins monitoring for device events.
// This method is non-blocking; events are processed in a background goroutine.
func (m *Monitor) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.conn != nil {
		return fmt.Errorf("monitor already started")
	}

	m.conn = &netlink.UEventConn{}
	if err := m.conn.Connect(netlink.UdevEvent); err != nil {
		m.conn = nil
		return fmt.Errorf("failed to connect to netlink: %w", err)
	}

	if err := setSocketBufferSize(m.conn.Fd, netlinkBufferSize); err != nil {
		log.Warn().Err(err).Int("size", netlinkBufferSize).Msg("Failed to set netlink buffer size")
		// Continue anyway - the default buffer may still work for most cases
	} else {
		log.Debug().Int("size", netlinkBufferSize).Msg("Netlink socket buffer size configured")
	}

	queue := make(chan netlink.UEvent)
	errs := make(chan error)

	m.quit = m.conn.Monitor(queue, errs, m.createMatcher())
	m.stopped = false

	go m.processEvents(queue, errs)

	log.Info().Int("devices", len(m.names)).Msg("udev monitor started")
	return nil
}

// Stop stops the monitor and releases resources.
func (m *Monitor) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.conn == nil || m.stopped {
		return nil
	}

	m.stopped = true

	select {
	case m.quit <- struct{}{}:
	default:
	}

	if err := m.conn.Close(); err != nil {
		return fmt.Errorf("failed to close netlink connection: %w", err)
	}

	m.conn = nil
	log.Info().Msg("udev monitor stopped")
	return nil
}

// createMatcher matches add/remove actions in the leds and backlight subsystems.
// Device names are filtered in handleEvent since the matcher only sees env values.
func (m *Monitor) createMatcher() *netlink.RuleDefinitions {
	rules := &netlink.RuleDefinitions{}

	addAction := "add"
	removeAction := "remove"

	rules.AddRule(netlink.RuleDefinition{
		Action: &addAction,
		Env: map[string]string{
			"SUBSYSTEM": subsystemPattern,
		},
	})

	rules.AddRule(netlink.RuleDefinition{
		Action: &removeAction,
		Env: map[string]string{
			"SUBSYSTEM": subsystemPattern,
		},
	})

	return rules
}

// processEvents handles incoming udev events.
func (m *Monitor) processEvents(queue chan netlink.UEvent, errs chan error) {
	for {
		select {
		case event, ok := <-queue:
			if !ok {
				return
			}
			m.handleEvent(event)
		case err, ok := <-errs:
			if !ok {
				return
			}
			m.mu.Lock()
			stopped := m.stopped
			recoveryHandler := m.recoveryHandler
			m.mu.Unlock()
			if stopped {
				return
			}

			// Events may have been dropped on ENOBUFS, so the recovery
			// handler rewrites the current state unconditionally.
			if isBufferOverflowError(err) {
				log.Warn().Msg("Netlink buffer overflow detected, triggering recovery")
				if recoveryHandler != nil {
					go recoveryHandler()
				}
				continue
			}

			log.Error().Err(err).Msg("udev monitor error")
		}
	}
}

// setSocketBufferSize sets the receive buffer size for a socket.
// It first tries SO_RCVBUFFORCE (requires CAP_NET_ADMIN), then falls back to SO_RCVBUF.
func setSocketBufferSize(fd int, size int) error {
	err := syscall.SetsockoptInt(fd, syscall.SOL_SOCKET, syscall.SO_RCVBUFFORCE, size)
	if err == nil {
		return nil
	}

	// SO_RCVBUF is capped at net.core.rmem_max
	return syscall.SetsockoptInt(fd, syscall.SOL_SOCKET, syscall.SO_RCVBUF, size)
}

// isBufferOverflowError checks if the error is a netlink buffer overflow (ENOBUFS).
func isBufferOverflowError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, syscall.ENOBUFS) {
		return true
	}
	// The udev library does not always wrap the errno
	return strings.Contains(strings.ToLower(err.Error()), "no buffer space available")
}

// deviceName extracts the class device name from a uevent.
func deviceName(uevent netlink.UEvent) string {
	return path.Base(uevent.KObj)
}

// watched reports whether name is one of the configured devices.
func (m *Monitor) watched(name string) bool {
	if len(m.names) == 0 {
		return true
	}
	_, ok := m.names[name]
	return ok
}

// shouldDebounce records an event for key and reports whether an event
// with the same key was seen within debounceWindow. Stale keys are dropped.
func (m *Monitor) shouldDebounce(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	for k, t := range m.lastEventTime {
		if now.Sub(t) > debounceRetention {
			delete(m.lastEventTime, k)
		}
	}

	if last, ok := m.lastEventTime[key]; ok && now.Sub(last) < debounceWindow {
		return true
	}
	m.lastEventTime[key] = now
	return false
}

// forget drops the debounce entry for key.
func (m *Monitor) forget(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.lastEventTime, key)
}

func opposite(e EventType) EventType {
	if e == EventAdd {
		return EventRemove
	}
	return EventAdd
}

// handleEvent processes a single udev event.
func (m *Monitor) handleEvent(uevent netlink.UEvent) {
	name := deviceName(uevent)
	if !m.watched(name) {
		return
	}

	var eventType EventType
	switch uevent.Action {
	case netlink.ADD:
		eventType = EventAdd
	case netlink.REMOVE:
		eventType = EventRemove
	default:
		return
	}

	// A remove ends the previous registration, so the next add is new state
	// and must not be swallowed. The same holds for a remove after an add.
	m.forget(opposite(eventType).String() + "/" + name)

	if m.shouldDebounce(eventType.String() + "/" + name) {
		log.Debug().Str("device", name).Str("action", eventType.String()).Msg("Debounced device event")
		return
	}

	subsystem := uevent.Env["SUBSYSTEM"]
	log.Info().
		Str("action", eventType.String()).
		Str("subsystem", subsystem).
		Str("device", name).
		Msg("Light device event")

	if m.handler != nil {
		m.handler(Event{Type: eventType, Subsystem: subsystem, Name: name})
	}
}
