package ip2sl

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.bug.st/serial"
)

func TestBugstMode(t *testing.T) {
	tests := []struct {
		name     string
		mode     PortMode
		expected *serial.Mode
	}{
		{
			name: "defaults",
			mode: PortMode{BaudRate: 9600, DataBits: 8, Parity: 'N', StopBits: 1, ReadTimeout: 10 * time.Second},
			expected: &serial.Mode{
				BaudRate:          9600,
				DataBits:          8,
				Parity:            serial.NoParity,
				StopBits:          serial.OneStopBit,
				InitialStatusBits: &serial.ModemOutputBits{},
			},
		},
		{
			name: "hardware flow",
			mode: PortMode{BaudRate: 115200, DataBits: 8, Parity: 'E', StopBits: 2, RTSCTS: true, DSRDTR: true},
			expected: &serial.Mode{
				BaudRate:          115200,
				DataBits:          8,
				Parity:            serial.EvenParity,
				StopBits:          serial.TwoStopBits,
				InitialStatusBits: &serial.ModemOutputBits{RTS: true, DTR: true},
			},
		},
		{
			name: "odd parity custom rate",
			mode: PortMode{BaudRate: 14400, DataBits: 8, Parity: 'O', StopBits: 1},
			expected: &serial.Mode{
				BaudRate:          14400,
				DataBits:          8,
				Parity:            serial.OddParity,
				StopBits:          serial.OneStopBit,
				InitialStatusBits: &serial.ModemOutputBits{},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := bugstMode(tt.mode)
			if err != nil {
				t.Fatalf("bugstMode() error = %v", err)
			}
			if diff := cmp.Diff(tt.expected, got); diff != "" {
				t.Errorf("bugstMode() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBugstModeInvalid(t *testing.T) {
	tests := []struct {
		name string
		mode PortMode
	}{
		{"parity", PortMode{BaudRate: 9600, DataBits: 8, Parity: 'M', StopBits: 1}},
		{"stop bits", PortMode{BaudRate: 9600, DataBits: 8, Parity: 'N', StopBits: 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := bugstMode(tt.mode); err == nil {
				t.Errorf("bugstMode(%v) expected error", tt.mode)
			}
		})
	}
}
