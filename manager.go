package ip2sl

import (
	"errors"
	"maps"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cast"
)

// State is the lifecycle state of a Manager's connection
type State int

const (
	StateClosed State = iota
	StateOpen
)

func (s State) String() string {
	if s == StateOpen {
		return "open"
	}
	return "closed"
}

// Option configures a Manager
type Option func(*Manager)

// WithOpener sets the transport used to acquire port handles
func WithOpener(open Opener) Option {
	return func(m *Manager) {
		m.open = open
	}
}

// WithLogger sets the logger used for open, close and failure events
func WithLogger(logger zerolog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// Manager owns the connection to one serial device. Every exported method
// holds the same mutex, so a Reconfigure never interleaves with EnsureOpen,
// Close or CurrentConfig. Byte I/O on the returned Conn happens outside the
// mutex.
//
// Failures always leave the Manager closed with no handle retained.
type Manager struct {
	mu sync.Mutex

	path   string
	raw    RawConfig
	config SerialConfig

	normalized bool
	configErr  error

	conn   *Conn
	open   Opener
	logger zerolog.Logger
}

// NewManager creates a Manager for path without opening the device. When path
// is empty the "path" key of raw is used; if neither is set, or both are set
// and differ, a ConfigError is returned. All other validation is deferred to
// the first open.
func NewManager(path string, raw RawConfig, opts ...Option) (*Manager, error) {
	if raw == nil {
		raw = RawConfig{}
	}
	if path == "" {
		path = cast.ToString(raw[KeyPath])
	}
	if path == "" {
		return nil, &ConfigError{Key: KeyPath, Value: raw[KeyPath]}
	}
	if v, ok := raw[KeyPath]; !ok {
		raw[KeyPath] = path
	} else if cast.ToString(v) != path {
		return nil, &ConfigError{Key: KeyPath, Value: v}
	}

	m := &Manager{
		path:   path,
		raw:    raw,
		open:   defaultOpener,
		logger: log.Logger,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = m.logger.With().Str("path", path).Logger()

	return m, nil
}

// Path returns the device path the Manager is bound to
func (m *Manager) Path() string {
	return m.path
}

// State reports whether a connection is currently open
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.conn != nil {
		return StateOpen
	}
	return StateClosed
}

// EnsureOpen returns the live connection, opening it first if needed.
// Calling it again while open returns the same Conn without touching the
// transport.
func (m *Manager) EnsureOpen() (*Conn, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.openLocked()
}

// CurrentConfig returns the recorded configuration. Once normalized it holds
// the clamped and defaulted values; if normalization failed it holds whatever
// could be read, including the offending value.
func (m *Manager) CurrentConfig() SerialConfig {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.normalized {
		_ = m.normalizeLocked()
	}
	return m.config
}

// RawConfig returns a copy of the recorded configuration mapping, including
// the defaults and clamped values written back by normalization.
func (m *Manager) RawConfig() RawConfig {
	m.mu.Lock()
	defer m.mu.Unlock()

	return maps.Clone(m.raw)
}

// Reconfigure closes any open connection without draining it, records raw as
// the new configuration and opens again. On failure the Manager stays closed
// and keeps the new configuration; the previous one is not restored.
func (m *Manager) Reconfigure(raw RawConfig) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closeLocked(false)

	if raw == nil {
		raw = RawConfig{}
	}
	if _, ok := raw[KeyPath]; !ok {
		raw[KeyPath] = m.path
	}
	m.raw = raw
	m.normalized = false
	m.configErr = nil

	_, err := m.openLocked()
	return err
}

// Close drains pending output and releases the port. Closing a closed
// Manager is a no-op.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.closeLocked(true)
}

// normalizeLocked normalizes the recorded mapping and caches the result
func (m *Manager) normalizeLocked() error {
	cfg, err := Normalize(m.raw)
	if err == nil && cfg.Path != m.path {
		// the device path is fixed for the lifetime of the Manager
		err = &ConfigError{Key: KeyPath, Value: cfg.Path}
	}
	cfg.Path = m.path

	m.config = cfg
	m.configErr = err
	m.normalized = true
	return err
}

func (m *Manager) openLocked() (*Conn, error) {
	if m.conn != nil {
		return m.conn, nil
	}

	if err := m.normalizeLocked(); err != nil {
		m.logger.Error().Err(err).Msg("Invalid serial configuration")
		return nil, err
	}
	cfg := m.config

	if cfg.Topology() == Multidrop {
		err := &WiringError{Flow: cfg.Flow}
		m.logger.Error().Str("flow", string(cfg.Flow)).Msg("RS-485 not yet supported")
		return nil, err
	}

	mode, err := cfg.Mode()
	if err != nil {
		return nil, err
	}

	port, err := m.open(m.path, mode)
	if err == nil && port == nil {
		err = errors.New("opener returned no port")
	}
	if err != nil {
		m.logger.Error().Err(err).Object("config", cfg).Msg("Unexpected error opening serial device")
		return nil, &ConnectError{Path: m.path}
	}

	m.conn = &Conn{
		port:    port,
		session: uuid.NewString(),
		mode:    mode,
	}
	m.logger.Info().
		Str("session", m.conn.session).
		Object("config", cfg).
		Msg("Connected")

	return m.conn, nil
}

// closeLocked releases the current port. With drain set, pending output is
// transmitted first; otherwise it is discarded.
func (m *Manager) closeLocked(drain bool) error {
	conn := m.conn
	if conn == nil {
		return nil
	}
	m.conn = nil

	logger := m.logger.With().Str("session", conn.session).Logger()
	if drain {
		if err := conn.port.Drain(); err != nil {
			logger.Warn().Err(err).Msg("Failed to drain serial output")
		}
	} else if err := conn.port.FlushOutput(); err != nil {
		logger.Warn().Err(err).Msg("Failed to discard serial output")
	}

	if err := conn.port.Close(); err != nil {
		logger.Error().Err(err).Msg("Failed to close serial device")
		return err
	}
	logger.Info().Msg("Disconnected")
	return nil
}

// MarshalZerologObject logs the configuration as a nested object
func (c SerialConfig) MarshalZerologObject(e *zerolog.Event) {
	e.Int(KeyBaud, c.Baud).
		Str(KeyParity, string(c.Parity)).
		Str(KeyStopBits, string(c.StopBits)).
		Int(KeyTimeout, c.Timeout).
		Str(KeyFlow, string(c.Flow)).
		Stringer("topology", c.Topology())
}
