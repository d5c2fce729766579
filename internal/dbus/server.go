// SPDX-License-Identifier: GPL-3.0-only

// Package dbus provides the D-Bus service through which clients request light states.
package dbus

import (
	"fmt"
	"sync"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"
	"github.com/rs/zerolog/log"

	"github.com/shini4i/lights-daemon/internal/light"
)

const (
	// ServiceName is the D-Bus service name.
	ServiceName = "io.github.shini4i.Lights"
	// ObjectPath is the D-Bus object path.
	ObjectPath = "/io/github/shini4i/Lights"
	// InterfaceName is the D-Bus interface name.
	InterfaceName = "io.github.shini4i.Lights"
)

// IntrospectXML is the D-Bus introspection XML for the service.
const IntrospectXML = `
<node name="` + ObjectPath + `">
  <interface name="` + InterfaceName + `">
    <method name="SetLight">
      <arg name="type" type="u" direction="in"/>
      <arg name="color" type="u" direction="in"/>
      <arg name="flashMode" type="u" direction="in"/>
      <arg name="flashOnMs" type="i" direction="in"/>
      <arg name="flashOffMs" type="i" direction="in"/>
      <arg name="status" type="u" direction="out"/>
    </method>
    <method name="GetSupportedTypes">
      <arg name="types" type="au" direction="out"/>
    </method>
    <signal name="ActiveNotificationChanged">
      <arg name="type" type="u"/>
      <arg name="color" type="u"/>
    </signal>
  </interface>
  ` + introspect.IntrospectDataString + `
</node>
`

// LightController is the part of light.Controller the server needs.
// This allows for mocking in tests.
type LightController interface {
	// SetLight applies a state to a light type.
	SetLight(t light.Type, state light.State) error

	// SupportedTypes returns the configured light types.
	SupportedTypes() []light.Type
}

// Connector opens the bus connection the service is exported on.
type Connector func() (*dbus.Conn, error)

// Server implements the D-Bus service for light control.
//
// Thread safety:
//   - The underlying Controller serializes light requests itself.
//   - The connMu mutex protects the D-Bus connection field for signal emission.
type Server struct {
	conn       *dbus.Conn
	connMu     sync.RWMutex // Protects conn field only
	controller LightController
	connect    Connector
}

// ServerOption is a functional option for configuring a Server.
type ServerOption func(*Server)

// WithSessionBus exports the service on the session bus instead of the system bus.
func WithSessionBus() ServerOption {
	return func(s *Server) {
		s.connect = func() (*dbus.Conn, error) { return dbus.ConnectSessionBus() }
	}
}

// WithConnector sets a custom bus connector.
func WithConnector(fn Connector) ServerOption {
	return func(s *Server) {
		s.connect = fn
	}
}

// NewServer creates a new D-Bus server for the given controller.
func NewServer(controller LightController, opts ...ServerOption) *Server {
	s := &Server{
		controller: controller,
		connect:    func() (*dbus.Conn, error) { return dbus.ConnectSystemBus() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start connects to the bus and exports the service.
func (s *Server) Start() error {
	conn, err := s.connect()
	if err != nil {
		return fmt.Errorf("failed to connect to bus: %w", err)
	}

	// Ensure connection is closed if setup fails
	success := false
	defer func() {
		if !success {
			if closeErr := conn.Close(); closeErr != nil {
				log.Error().Err(closeErr).Msg("Failed to close D-Bus connection during cleanup")
			}
		}
	}()

	if err := conn.Export(s, ObjectPath, InterfaceName); err != nil {
		return fmt.Errorf("failed to export server: %w", err)
	}

	if err := conn.Export(introspect.Introspectable(IntrospectXML), ObjectPath, "org.freedesktop.DBus.Introspectable"); err != nil {
		return fmt.Errorf("failed to export introspectable: %w", err)
	}

	reply, err := conn.RequestName(ServiceName, dbus.NameFlagDoNotQueue)
	if err != nil {
		return fmt.Errorf("failed to request name: %w", err)
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		return fmt.Errorf("name %s already taken", ServiceName)
	}

	s.connMu.Lock()
	s.conn = conn
	s.connMu.Unlock()

	success = true
	log.Info().Str("service", ServiceName).Msg("D-Bus service started")
	return nil
}

// Stop disconnects from the bus.
func (s *Server) Stop() error {
	s.connMu.Lock()
	conn := s.conn
	s.conn = nil
	s.connMu.Unlock()

	if conn != nil {
		return conn.Close()
	}
	return nil
}

// SetLight applies a light state and returns a status code:
// 0 for success, 1 when the light type is not supported.
// Hardware write failures are not reported to the caller.
func (s *Server) SetLight(lightType, color, flashMode uint32, flashOnMs, flashOffMs int32) (uint32, *dbus.Error) {
	t := light.Type(lightType)
	state := light.State{
		Color:      color,
		FlashMode:  light.FlashMode(flashMode),
		FlashOnMs:  flashOnMs,
		FlashOffMs: flashOffMs,
	}

	err := s.controller.SetLight(t, state)
	status := light.StatusOf(err)
	if err != nil {
		log.Warn().Err(err).Uint32("type", lightType).Msg("Rejected light request")
	} else {
		log.Debug().
			Str("type", t.String()).
			Str("color", fmt.Sprintf("%08x", color)).
			Uint32("flashMode", flashMode).
			Int32("onMs", flashOnMs).
			Int32("offMs", flashOffMs).
			Msg("Set light")
	}

	return uint32(status), nil
}

// GetSupportedTypes returns the numeric light types this device supports.
func (s *Server) GetSupportedTypes() ([]uint32, *dbus.Error) {
	types := s.controller.SupportedTypes()
	result := make([]uint32, len(types))
	for i, t := range types {
		result[i] = uint32(t)
	}

	log.Debug().Int("count", len(result)).Msg("Listed supported types")
	return result, nil
}

// EmitActiveNotificationChanged emits the ActiveNotificationChanged signal.
func (s *Server) EmitActiveNotificationChanged(active light.Entry) {
	s.connMu.RLock()
	conn := s.conn
	s.connMu.RUnlock()

	if conn == nil {
		return
	}

	err := conn.Emit(ObjectPath, InterfaceName+".ActiveNotificationChanged", uint32(active.Type), active.State.Color)
	if err != nil {
		log.Error().Err(err).Msg("Failed to emit ActiveNotificationChanged signal")
	}
}
