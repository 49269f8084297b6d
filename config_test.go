package ip2sl

import (
	"errors"
	"maps"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config[KeyBaud] != 9600 {
		t.Errorf("Expected baud 9600, got %v", config[KeyBaud])
	}
	if config[KeyFlow] != "FLOW_NONE" {
		t.Errorf("Expected flow FLOW_NONE, got %v", config[KeyFlow])
	}
	if config[KeyParity] != "PARITY_NO" {
		t.Errorf("Expected parity PARITY_NO, got %v", config[KeyParity])
	}
	if config[KeyStopBits] != "STOPBITS_1" {
		t.Errorf("Expected stop_bits STOPBITS_1, got %v", config[KeyStopBits])
	}
	if config[KeyTimeout] != 10 {
		t.Errorf("Expected timeout 10, got %v", config[KeyTimeout])
	}
}

func TestNormalizeAppliesDefaults(t *testing.T) {
	tests := []struct {
		name string
		raw  RawConfig
	}{
		{"empty", RawConfig{}},
		{"path only", RawConfig{KeyPath: "/dev/ttyX"}},
		{"baud only", RawConfig{KeyBaud: 9600}},
		{"parity and flow", RawConfig{KeyParity: "PARITY_NO", KeyFlow: "FLOW_NONE"}},
		{"timeout only", RawConfig{KeyTimeout: 10}},
	}

	want := SerialConfig{
		Baud:     9600,
		Parity:   ParityNone,
		StopBits: StopBits1,
		Timeout:  10,
		Flow:     FlowNone,
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.raw)
			if err != nil {
				t.Fatalf("Normalize() error = %v", err)
			}
			got.Path = ""
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("Normalize() mismatch (-want +got):\n%s", diff)
			}

			for _, key := range []string{KeyBaud, KeyFlow, KeyParity, KeyStopBits, KeyTimeout} {
				if _, ok := tt.raw[key]; !ok {
					t.Errorf("key %q was not written back", key)
				}
			}
		})
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	raw := RawConfig{KeyPath: "/dev/ttyX", KeyBaud: "250000", KeyStopBits: "STOPBITS_2"}

	first, err := Normalize(raw)
	if err != nil {
		t.Fatalf("first Normalize() error = %v", err)
	}
	snapshot := maps.Clone(raw)

	second, err := Normalize(raw)
	if err != nil {
		t.Fatalf("second Normalize() error = %v", err)
	}

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("config changed on second pass (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(snapshot, raw); diff != "" {
		t.Errorf("mapping changed on second pass (-first +second):\n%s", diff)
	}
}

func TestNormalizeClampsBaud(t *testing.T) {
	tests := []struct {
		input    any
		expected int
	}{
		{-1, 300},
		{0, 300},
		{299, 300},
		{300, 300},
		{9600, 9600},
		{115200, 115200},
		{115201, 115200},
		{250000, 115200},
		{"19200", 19200},
		{" 19200 ", 19200},
		{"09600", 9600},
		{"0100", 300},
		{"010", 300},
		{int64(57600), 57600},
		{float64(4800), 4800},
	}

	for _, test := range tests {
		raw := RawConfig{KeyBaud: test.input}
		cfg, err := Normalize(raw)
		if err != nil {
			t.Errorf("Normalize(baud=%v) error = %v", test.input, err)
			continue
		}
		if cfg.Baud != test.expected {
			t.Errorf("Normalize(baud=%v) = %d, expected %d", test.input, cfg.Baud, test.expected)
		}
		if raw[KeyBaud] != test.expected {
			t.Errorf("baud=%v written back as %v, expected %d", test.input, raw[KeyBaud], test.expected)
		}
	}
}

func TestNormalizeTimeout(t *testing.T) {
	tests := []struct {
		input    any
		expected int
		hasError bool
	}{
		{0, 0, false},
		{10, 10, false},
		{"0100", 100, false},
		{"010", 10, false},
		{"5", 5, false},
		{MaxTimeout, MaxTimeout, false},
		{MaxTimeout + 1, 0, true},
		{int64(1) << 40, 0, true},
		{-1, 0, true},
		{"ten", 0, true},
	}

	for _, test := range tests {
		cfg, err := Normalize(RawConfig{KeyTimeout: test.input})
		if test.hasError {
			var cerr *ConfigError
			if !errors.As(err, &cerr) || cerr.Key != KeyTimeout {
				t.Errorf("Normalize(timeout=%v) error = %v, expected ConfigError for timeout", test.input, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("Normalize(timeout=%v) error = %v", test.input, err)
			continue
		}
		if cfg.Timeout != test.expected {
			t.Errorf("Normalize(timeout=%v) = %d, expected %d", test.input, cfg.Timeout, test.expected)
		}
		if cfg.ReadTimeout() < 0 {
			t.Errorf("Normalize(timeout=%v) read timeout %v is negative", test.input, cfg.ReadTimeout())
		}
	}
}

func TestNormalizeRejectsUnknownNames(t *testing.T) {
	tests := []struct {
		name  string
		raw   RawConfig
		key   string
		value any
	}{
		{"parity", RawConfig{KeyParity: "PARITY_MARK"}, KeyParity, "PARITY_MARK"},
		{"stop bits", RawConfig{KeyStopBits: "STOPBITS_15"}, KeyStopBits, "STOPBITS_15"},
		{"numeric stop bits", RawConfig{KeyStopBits: 2}, KeyStopBits, 2},
		{"flow", RawConfig{KeyFlow: "FLOW_XONXOFF"}, KeyFlow, "FLOW_XONXOFF"},
		{"baud", RawConfig{KeyBaud: "fast"}, KeyBaud, "fast"},
		{"negative timeout", RawConfig{KeyTimeout: -1}, KeyTimeout, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize(tt.raw)
			if !errors.Is(err, ErrInvalidConfiguration) {
				t.Fatalf("Expected ErrInvalidConfiguration, got %v", err)
			}

			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("Expected *ConfigError, got %T", err)
			}
			if cfgErr.Key != tt.key || cfgErr.Value != tt.value {
				t.Errorf("ConfigError = %s=%v, want %s=%v", cfgErr.Key, cfgErr.Value, tt.key, tt.value)
			}
		})
	}
}

func TestNormalizeKeepsInvalidValues(t *testing.T) {
	raw := RawConfig{KeyParity: "PARITY_BOGUS", KeyBaud: 1200}
	cfg, err := Normalize(raw)
	if err == nil {
		t.Fatal("Expected error for bogus parity")
	}
	if cfg.Parity != "PARITY_BOGUS" {
		t.Errorf("Parity = %q, want PARITY_BOGUS", cfg.Parity)
	}
	if cfg.Baud != 1200 {
		t.Errorf("Baud = %d, want 1200", cfg.Baud)
	}
	if cfg.Flow != FlowNone {
		t.Errorf("Flow = %q, want default FLOW_NONE", cfg.Flow)
	}
}

func TestNormalizeAllowsMultidrop(t *testing.T) {
	for _, flow := range []FlowMode{DuplexHalf, DuplexFull} {
		cfg, err := Normalize(RawConfig{KeyFlow: string(flow)})
		if err != nil {
			t.Errorf("Normalize(flow=%s) error = %v", flow, err)
		}
		if cfg.Topology() != Multidrop {
			t.Errorf("Topology(%s) = %v, want multidrop", flow, cfg.Topology())
		}
	}
}

func TestFlowTopology(t *testing.T) {
	tests := []struct {
		flow     FlowMode
		topology Topology
		signals  bool
	}{
		{FlowHardware, PointToPoint, true},
		{FlowNone, PointToPoint, false},
		{DuplexHalf, Multidrop, false},
		{DuplexFull, Multidrop, false},
	}

	for _, test := range tests {
		if got := test.flow.Topology(); got != test.topology {
			t.Errorf("%s.Topology() = %v, expected %v", test.flow, got, test.topology)
		}
		if got := test.flow.Signals(); got != test.signals {
			t.Errorf("%s.Signals() = %v, expected %v", test.flow, got, test.signals)
		}
	}
}

func TestSerialConfigMode(t *testing.T) {
	tests := []struct {
		name   string
		config SerialConfig
		want   PortMode
	}{
		{
			name:   "8N1 no flow",
			config: SerialConfig{Baud: 9600, Parity: ParityNone, StopBits: StopBits1, Timeout: 10, Flow: FlowNone},
			want:   PortMode{BaudRate: 9600, DataBits: 8, Parity: 'N', StopBits: 1, ReadTimeout: 10 * time.Second},
		},
		{
			name:   "8O2 hardware flow",
			config: SerialConfig{Baud: 115200, Parity: ParityOdd, StopBits: StopBits2, Timeout: 0, Flow: FlowHardware},
			want:   PortMode{BaudRate: 115200, DataBits: 8, Parity: 'O', StopBits: 2, RTSCTS: true, DSRDTR: true},
		},
		{
			name:   "8E1",
			config: SerialConfig{Baud: 300, Parity: ParityEven, StopBits: StopBits1, Timeout: 1, Flow: FlowNone},
			want:   PortMode{BaudRate: 300, DataBits: 8, Parity: 'E', StopBits: 1, ReadTimeout: time.Second},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.config.Mode()
			if err != nil {
				t.Fatalf("Mode() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Mode() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSerialConfigModeInvalid(t *testing.T) {
	_, err := SerialConfig{Parity: "PARITY_X", StopBits: StopBits1}.Mode()
	if !errors.Is(err, ErrInvalidConfiguration) {
		t.Errorf("Expected ErrInvalidConfiguration, got %v", err)
	}
}
