package ip2sl

import (
	"errors"
	"fmt"

	"go.bug.st/serial"
)

// bugstPort adapts a go.bug.st/serial port to Port
type bugstPort struct {
	port serial.Port
}

// Ensure bugstPort implements Port at compile time
var _ Port = (*bugstPort)(nil)

// OpenBugst opens path with go.bug.st/serial. It works on every platform that
// library supports; flow signaling is applied as the initial RTS/DTR state.
func OpenBugst(path string, mode PortMode) (Port, error) {
	m, err := bugstMode(mode)
	if err != nil {
		return nil, err
	}

	p, err := serial.Open(path, m)
	if err != nil {
		return nil, err
	}

	if err := p.SetReadTimeout(mode.ReadTimeout); err != nil {
		p.Close()
		return nil, fmt.Errorf("failed to set read timeout: %w", err)
	}

	return &bugstPort{port: p}, nil
}

// bugstMode translates mode into the library's serial.Mode
func bugstMode(mode PortMode) (*serial.Mode, error) {
	m := &serial.Mode{
		BaudRate: mode.BaudRate,
		DataBits: mode.DataBits,
		InitialStatusBits: &serial.ModemOutputBits{
			RTS: mode.RTSCTS,
			DTR: mode.DSRDTR,
		},
	}

	switch mode.Parity {
	case 'N':
		m.Parity = serial.NoParity
	case 'O':
		m.Parity = serial.OddParity
	case 'E':
		m.Parity = serial.EvenParity
	default:
		return nil, fmt.Errorf("unsupported parity %q", mode.Parity)
	}

	switch mode.StopBits {
	case 1:
		m.StopBits = serial.OneStopBit
	case 2:
		m.StopBits = serial.TwoStopBits
	default:
		return nil, fmt.Errorf("unsupported stop bits %d", mode.StopBits)
	}

	return m, nil
}

// portErr maps the library's closed-port error onto ErrPortClosed
func portErr(err error) error {
	var perr *serial.PortError
	if errors.As(err, &perr) && perr.Code() == serial.PortClosed {
		return ErrPortClosed
	}
	return err
}

func (b *bugstPort) Read(buf []byte) (int, error) {
	n, err := b.port.Read(buf)
	return n, portErr(err)
}

func (b *bugstPort) Write(data []byte) (int, error) {
	n, err := b.port.Write(data)
	return n, portErr(err)
}

func (b *bugstPort) Drain() error       { return portErr(b.port.Drain()) }
func (b *bugstPort) FlushInput() error  { return portErr(b.port.ResetInputBuffer()) }
func (b *bugstPort) FlushOutput() error { return portErr(b.port.ResetOutputBuffer()) }
func (b *bugstPort) Close() error       { return portErr(b.port.Close()) }
