package ip2sl

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// RawConfig is a serial configuration mapping as supplied by the config
// loader. Normalize writes the effective values back into it.
type RawConfig map[string]any

// Recognized configuration keys
const (
	KeyPath     = "path"
	KeyBaud     = "baud"
	KeyFlow     = "flow"
	KeyParity   = "parity"
	KeyStopBits = "stop_bits"
	KeyTimeout  = "timeout"
)

// Baud rate bounds and the fixed byte size
const (
	MinBaud  = 300
	MaxBaud  = 115200
	DataBits = 8
)

// MaxTimeout is the largest read timeout in seconds. The transports wait with
// a millisecond count held in an int32.
const MaxTimeout = math.MaxInt32 / 1000

// Parity is the symbolic parity name used in configuration files
type Parity string

const (
	ParityNone Parity = "PARITY_NO"
	ParityOdd  Parity = "PARITY_ODD"
	ParityEven Parity = "PARITY_EVEN"
)

// StopBits is the symbolic stop bit name used in configuration files
type StopBits string

const (
	StopBits1 StopBits = "STOPBITS_1"
	StopBits2 StopBits = "STOPBITS_2"
)

// FlowMode is the symbolic flow control / duplex name used in configuration files
type FlowMode string

const (
	FlowHardware FlowMode = "FLOW_HARDWARE"
	FlowNone     FlowMode = "FLOW_NONE"
	DuplexHalf   FlowMode = "DUPLEX_HALF"
	DuplexFull   FlowMode = "DUPLEX_FULL"
)

// Topology classifies how the serial link is wired
type Topology int

const (
	PointToPoint Topology = iota // RS-232 style, both directions always live
	Multidrop                    // RS-485 style shared bus, needs direction control
)

func (t Topology) String() string {
	switch t {
	case PointToPoint:
		return "point-to-point"
	case Multidrop:
		return "multidrop"
	default:
		return "unknown"
	}
}

// Translation tables from symbolic names to transport-native encodings
var (
	parityCodes = map[Parity]byte{
		ParityNone: 'N',
		ParityOdd:  'O',
		ParityEven: 'E',
	}

	stopBitCounts = map[StopBits]int{
		StopBits1: 1,
		StopBits2: 2,
	}

	flowTopologies = map[FlowMode]Topology{
		FlowHardware: PointToPoint,
		FlowNone:     PointToPoint,
		DuplexHalf:   Multidrop,
		DuplexFull:   Multidrop,
	}
)

// Code returns the native parity character ('N', 'O' or 'E')
func (p Parity) Code() (byte, bool) {
	code, ok := parityCodes[p]
	return code, ok
}

// Count returns the number of stop bits
func (s StopBits) Count() (int, bool) {
	n, ok := stopBitCounts[s]
	return n, ok
}

// Valid reports whether f is one of the recognized flow modes
func (f FlowMode) Valid() bool {
	_, ok := flowTopologies[f]
	return ok
}

// Topology returns the wiring topology implied by the flow mode.
// Unrecognized modes report PointToPoint; Normalize rejects them.
func (f FlowMode) Topology() Topology {
	return flowTopologies[f]
}

// Signals reports whether RTS/CTS and DSR/DTR signaling is enabled
func (f FlowMode) Signals() bool {
	return f == FlowHardware
}

// DefaultConfig returns the values substituted for absent keys
func DefaultConfig() RawConfig {
	return RawConfig{
		KeyBaud:     9600,
		KeyFlow:     string(FlowNone),
		KeyParity:   string(ParityNone),
		KeyStopBits: string(StopBits1),
		KeyTimeout:  10,
	}
}

// SerialConfig is the normalized configuration for one device
type SerialConfig struct {
	Path     string
	Baud     int
	Parity   Parity
	StopBits StopBits
	Timeout  int // seconds, 0 is non-blocking
	Flow     FlowMode
}

// Topology returns the wiring topology derived from Flow
func (c SerialConfig) Topology() Topology {
	return c.Flow.Topology()
}

// ReadTimeout returns Timeout as a duration
func (c SerialConfig) ReadTimeout() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

// Mode translates the configuration into transport parameters
func (c SerialConfig) Mode() (PortMode, error) {
	parity, ok := c.Parity.Code()
	if !ok {
		return PortMode{}, &ConfigError{Key: KeyParity, Value: c.Parity}
	}
	stopBits, ok := c.StopBits.Count()
	if !ok {
		return PortMode{}, &ConfigError{Key: KeyStopBits, Value: c.StopBits}
	}

	signals := c.Flow.Signals()
	return PortMode{
		BaudRate:    c.Baud,
		DataBits:    DataBits,
		Parity:      parity,
		StopBits:    stopBits,
		ReadTimeout: c.ReadTimeout(),
		RTSCTS:      signals,
		DSRDTR:      signals,
	}, nil
}

// Normalize fills absent keys of raw with defaults, clamps the baud rate and
// validates the symbolic names. Defaults and the clamped baud rate are written
// back into raw. The returned SerialConfig holds every value that could be
// read, even when an error is returned; the error names the first bad key.
//
// A multidrop flow mode is not an error here, see Manager.EnsureOpen.
func Normalize(raw RawConfig) (SerialConfig, error) {
	if raw == nil {
		return SerialConfig{}, &ConfigError{Key: KeyPath, Value: nil}
	}

	for key, value := range DefaultConfig() {
		if _, ok := raw[key]; !ok {
			raw[key] = value
		}
	}

	var (
		cfg      SerialConfig
		firstErr error
	)
	fail := func(key string, value any) {
		if firstErr == nil {
			firstErr = &ConfigError{Key: key, Value: value}
		}
	}

	if v, ok := raw[KeyPath]; ok {
		cfg.Path = cast.ToString(v)
	}

	baud, err := toInt(raw[KeyBaud])
	if err != nil {
		fail(KeyBaud, raw[KeyBaud])
	} else {
		cfg.Baud = clampBaud(baud)
		raw[KeyBaud] = cfg.Baud
	}

	cfg.Parity = Parity(cast.ToString(raw[KeyParity]))
	if _, ok := cfg.Parity.Code(); !ok {
		fail(KeyParity, raw[KeyParity])
	}

	cfg.StopBits = StopBits(cast.ToString(raw[KeyStopBits]))
	if _, ok := cfg.StopBits.Count(); !ok {
		fail(KeyStopBits, raw[KeyStopBits])
	}

	timeout, err := toInt(raw[KeyTimeout])
	if err != nil || timeout < 0 || timeout > MaxTimeout {
		fail(KeyTimeout, raw[KeyTimeout])
	} else {
		cfg.Timeout = timeout
	}

	cfg.Flow = FlowMode(cast.ToString(raw[KeyFlow]))
	if !cfg.Flow.Valid() {
		fail(KeyFlow, raw[KeyFlow])
	}

	return cfg, firstErr
}

// toInt reads an integer setting. Strings are always decimal, so "0100" is
// one hundred rather than octal.
func toInt(v any) (int, error) {
	if s, ok := v.(string); ok {
		return strconv.Atoi(strings.TrimSpace(s))
	}
	return cast.ToIntE(v)
}

// clampBaud limits rate to [MinBaud, MaxBaud]
func clampBaud(rate int) int {
	return max(min(rate, MaxBaud), MinBaud)
}
