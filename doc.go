// Package ip2sl manages the serial side of an IP-to-serial-line bridge
// endpoint: one serial device, configured declaratively, opened lazily and
// safely reconfigured while network clients use it.
//
// # Basic Usage
//
// Build a Manager from the configuration mapping loaded from YAML:
//
//	mgr, err := ip2sl.NewManager("/dev/ttyUSB0", ip2sl.RawConfig{
//	    "baud":   9600,
//	    "parity": "PARITY_EVEN",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer mgr.Close()
//
//	conn, err := mgr.EnsureOpen()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	n, err := conn.Write([]byte("PWR?\r"))
//
// The device is not touched until EnsureOpen is called. Repeated calls return
// the same Conn. A Conn has no Close method; the Manager owns the device.
//
// # Configuration
//
// Recognized keys and their defaults:
//
//   - baud: 9600, clamped to 300..115200
//   - parity: PARITY_NO (PARITY_ODD, PARITY_EVEN)
//   - stop_bits: STOPBITS_1 (STOPBITS_2)
//   - timeout: 10 seconds, 0 for non-blocking reads
//   - flow: FLOW_NONE (FLOW_HARDWARE, DUPLEX_HALF, DUPLEX_FULL)
//
// Data bits are fixed at 8. Normalization writes defaults and the clamped baud
// rate back into the mapping so anything holding it sees the effective values.
// RTS/CTS and DSR/DTR signaling is enabled only for FLOW_HARDWARE.
//
// # Reconfiguration
//
// Reconfigure closes the current connection without draining it, records the
// new mapping and reopens. Conns handed out earlier return ErrPortClosed
// afterwards and must be requested again:
//
//	if err := mgr.Reconfigure(ip2sl.RawConfig{"baud": 19200}); err != nil {
//	    // the Manager is closed and holds the new configuration
//	}
//
// # Error Handling
//
// Three error kinds are returned, each matchable with errors.Is:
//
//	ErrInvalidConfiguration // bad parity, stop_bits, flow, baud or timeout value
//	ErrUnsupportedWiring    // DUPLEX_HALF / DUPLEX_FULL need RS-485 direction control
//	ErrConnectFailure       // the device could not be opened; the cause is logged
//
// Every failure leaves the Manager closed with no handle retained.
//
// # Transports
//
// On Linux ports are opened with termios ioctls (OpenTermios). Elsewhere, or
// when selected with WithOpener(OpenBugst), go.bug.st/serial is used.
package ip2sl
