package ip2sl

import (
	"fmt"
	"time"
)

// Port is a raw serial transport handle. Implementations are owned by a
// Manager and never handed out with their Close method reachable.
type Port interface {
	Read(buf []byte) (int, error)
	Write(data []byte) (int, error)
	Drain() error
	FlushInput() error
	FlushOutput() error
	Close() error
}

// PortMode holds transport-native serial parameters
type PortMode struct {
	BaudRate    int
	DataBits    int
	Parity      byte // 'N', 'O' or 'E'
	StopBits    int
	ReadTimeout time.Duration // 0 for non-blocking reads
	RTSCTS      bool
	DSRDTR      bool
}

func (m PortMode) String() string {
	return fmt.Sprintf("%d %d%c%d rtscts=%t dsrdtr=%t timeout=%s",
		m.BaudRate, m.DataBits, m.Parity, m.StopBits, m.RTSCTS, m.DSRDTR, m.ReadTimeout)
}

// Opener acquires a transport handle for path configured with mode
type Opener func(path string, mode PortMode) (Port, error)

// Conn is the handle returned by Manager.EnsureOpen. It is borrowed for I/O
// only; the Manager decides when the underlying port is closed. After a
// Reconfigure or Close every method returns ErrPortClosed and callers must
// request a fresh Conn.
type Conn struct {
	port    Port
	session string
	mode    PortMode
}

// Read reads from the serial device, honoring the configured read timeout
func (c *Conn) Read(buf []byte) (int, error) {
	return c.port.Read(buf)
}

// Write writes to the serial device
func (c *Conn) Write(data []byte) (int, error) {
	return c.port.Write(data)
}

// Drain waits until all written output has been transmitted
func (c *Conn) Drain() error {
	return c.port.Drain()
}

// FlushInput discards unread input
func (c *Conn) FlushInput() error {
	return c.port.FlushInput()
}

// FlushOutput discards unwritten output
func (c *Conn) FlushOutput() error {
	return c.port.FlushOutput()
}

// Session returns the identifier assigned when the connection was opened
func (c *Conn) Session() string {
	return c.session
}

// Mode returns the transport parameters the connection was opened with
func (c *Conn) Mode() PortMode {
	return c.mode
}
