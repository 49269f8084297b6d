package ip2sl

import (
	"errors"
	"fmt"
)

// Predefined error kinds, matchable with errors.Is
var (
	ErrInvalidConfiguration = errors.New("invalid serial configuration")
	ErrUnsupportedWiring    = errors.New("unsupported serial wiring")
	ErrConnectFailure       = errors.New("serial connect failure")
	ErrPortClosed           = errors.New("serial port is closed")
	ErrDeviceNotFound       = errors.New("serial device not found")
)

// ConfigError reports a configuration key whose value cannot be used
type ConfigError struct {
	Key   string
	Value any
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%v: %s=%v", ErrInvalidConfiguration, e.Key, e.Value)
}

func (e *ConfigError) Unwrap() error { return ErrInvalidConfiguration }

// WiringError is returned when the flow mode resolves to a multidrop bus.
// RS-485 direction control is not implemented.
type WiringError struct {
	Flow FlowMode
}

func (e *WiringError) Error() string {
	return fmt.Sprintf("%v: %s requires %s direction control", ErrUnsupportedWiring, e.Flow, e.Flow.Topology())
}

func (e *WiringError) Unwrap() error { return ErrUnsupportedWiring }

// ConnectError is returned when the transport handle for Path cannot be
// acquired. The low-level cause is logged, not wrapped.
type ConnectError struct {
	Path string
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("%v to %s", ErrConnectFailure, e.Path)
}

func (e *ConnectError) Unwrap() error { return ErrConnectFailure }
