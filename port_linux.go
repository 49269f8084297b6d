package ip2sl

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sys/unix"
)

// termiosPort is the Linux Port implementation on top of termios ioctls
type termiosPort struct {
	mu      sync.RWMutex
	fd      int
	wake    [2]int // pipe written on Close to interrupt blocked polls
	mode    PortMode
	closed  bool
	closing atomic.Bool
}

// Ensure termiosPort implements Port at compile time
var _ Port = (*termiosPort)(nil)

// defaultOpener is used by managers created without WithOpener
var defaultOpener Opener = OpenTermios

// OpenTermios opens path in raw mode and applies mode with termios ioctls.
// The descriptor is opened non-blocking so a missing carrier cannot stall the
// open; read timeouts are implemented with poll.
func OpenTermios(path string, mode PortMode) (Port, error) {
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_NOCTTY|unix.O_NONBLOCK|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}

	if err := unix.IoctlSetInt(fd, unix.TIOCEXCL, 0); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("failed to lock %s: %w", path, err)
	}

	if err := configurePort(fd, mode); err != nil {
		unix.Close(fd)
		return nil, err
	}

	// The kernel raises DTR on open, so it is cleared when signaling is off.
	// Not every adapter (or pty) has a DTR line; a failure here is ignored.
	_ = setDTR(fd, mode.DSRDTR)

	p := &termiosPort{fd: fd, mode: mode}
	if err := unix.Pipe2(p.wake[:], unix.O_CLOEXEC|unix.O_NONBLOCK); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("failed to create wake pipe: %w", err)
	}

	return p, nil
}

// baudConstant converts an integer baud rate to the termios speed constant.
// Only the standard rates inside [MinBaud, MaxBaud] are listed; other rates
// are set with BOTHER.
func baudConstant(rate int) (uint32, bool) {
	switch rate {
	case 300:
		return unix.B300, true
	case 600:
		return unix.B600, true
	case 1200:
		return unix.B1200, true
	case 1800:
		return unix.B1800, true
	case 2400:
		return unix.B2400, true
	case 4800:
		return unix.B4800, true
	case 9600:
		return unix.B9600, true
	case 19200:
		return unix.B19200, true
	case 38400:
		return unix.B38400, true
	case 57600:
		return unix.B57600, true
	case 115200:
		return unix.B115200, true
	default:
		return 0, false
	}
}

// configurePort puts fd in raw mode and applies mode
func configurePort(fd int, mode PortMode) error {
	termios, err := unix.IoctlGetTermios(fd, unix.TCGETS)
	if err != nil {
		return fmt.Errorf("failed to get termios: %w", err)
	}

	termios.Cflag = unix.CREAD | unix.CLOCAL
	termios.Iflag = 0
	termios.Oflag = 0
	termios.Lflag = 0

	// Reads never block in the kernel; Read polls for the configured timeout
	termios.Cc[unix.VMIN] = 0
	termios.Cc[unix.VTIME] = 0

	if mode.BaudRate <= 0 {
		return fmt.Errorf("invalid baud rate %d", mode.BaudRate)
	}
	request := uint(unix.TCSETS)
	if rate, ok := baudConstant(mode.BaudRate); ok {
		termios.Cflag |= rate
		termios.Ispeed = rate
		termios.Ospeed = rate
	} else {
		// termios2 carries the literal rate in the speed fields
		request = unix.TCSETS2
		termios.Cflag |= unix.BOTHER
		termios.Ispeed = uint32(mode.BaudRate)
		termios.Ospeed = uint32(mode.BaudRate)
	}

	switch mode.DataBits {
	case 5:
		termios.Cflag |= unix.CS5
	case 6:
		termios.Cflag |= unix.CS6
	case 7:
		termios.Cflag |= unix.CS7
	case 8:
		termios.Cflag |= unix.CS8
	default:
		return fmt.Errorf("unsupported data bits %d", mode.DataBits)
	}

	switch mode.StopBits {
	case 1:
	case 2:
		termios.Cflag |= unix.CSTOPB
	default:
		return fmt.Errorf("unsupported stop bits %d", mode.StopBits)
	}

	switch mode.Parity {
	case 'N':
	case 'O':
		termios.Cflag |= unix.PARENB | unix.PARODD
	case 'E':
		termios.Cflag |= unix.PARENB
	default:
		return fmt.Errorf("unsupported parity %q", mode.Parity)
	}

	if mode.RTSCTS {
		termios.Cflag |= unix.CRTSCTS
	}

	if err := unix.IoctlSetTermios(fd, request, termios); err != nil {
		return fmt.Errorf("failed to set termios: %w", err)
	}

	return nil
}

// setDTR sets DTR signal state
func setDTR(fd int, state bool) error {
	if state {
		return unix.IoctlSetInt(fd, unix.TIOCMBIS, unix.TIOCM_DTR)
	}
	return unix.IoctlSetInt(fd, unix.TIOCMBIC, unix.TIOCM_DTR)
}

// wait polls the port for events. It returns false when the timeout expires
// and ErrPortClosed when Close interrupted the wait. A negative timeout waits
// forever.
func (p *termiosPort) wait(events int16, timeout time.Duration) (bool, error) {
	ms := -1
	if timeout >= 0 {
		ms = int(timeout / time.Millisecond)
	}

	fds := []unix.PollFd{
		{Fd: int32(p.fd), Events: events},
		{Fd: int32(p.wake[0]), Events: unix.POLLIN},
	}
	for {
		n, err := unix.Poll(fds, ms)
		if errors.Is(err, unix.EINTR) {
			continue
		}
		if err != nil {
			return false, err
		}
		if n == 0 {
			return false, nil
		}
		if fds[1].Revents != 0 {
			return false, ErrPortClosed
		}
		return true, nil
	}
}

// Read reads available bytes, waiting up to the read timeout for the first
// byte. A timeout returns 0 bytes and no error.
func (p *termiosPort) Read(buf []byte) (int, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return 0, ErrPortClosed
	}

	if p.mode.ReadTimeout > 0 {
		ready, err := p.wait(unix.POLLIN, p.mode.ReadTimeout)
		if err != nil || !ready {
			return 0, err
		}
	}

	n, err := unix.Read(p.fd, buf)
	if errors.Is(err, unix.EAGAIN) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return n, nil
}

// Write writes all of data, waiting for the output queue when it is full
func (p *termiosPort) Write(data []byte) (int, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return 0, ErrPortClosed
	}

	written := 0
	for written < len(data) {
		n, err := unix.Write(p.fd, data[written:])
		switch {
		case errors.Is(err, unix.EAGAIN):
			if _, err := p.wait(unix.POLLOUT, -1); err != nil {
				return written, err
			}
			continue
		case errors.Is(err, unix.EINTR):
			continue
		case err != nil:
			return written, err
		}
		written += n
	}
	return written, nil
}

// Drain waits until all output written to the port has been transmitted
func (p *termiosPort) Drain() error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return ErrPortClosed
	}

	return unix.IoctlSetInt(p.fd, unix.TCSBRK, 1)
}

// FlushInput discards any unread input data
func (p *termiosPort) FlushInput() error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return ErrPortClosed
	}

	return unix.IoctlSetInt(p.fd, unix.TCFLSH, unix.TCIFLUSH)
}

// FlushOutput discards any unwritten output data
func (p *termiosPort) FlushOutput() error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return ErrPortClosed
	}

	return unix.IoctlSetInt(p.fd, unix.TCFLSH, unix.TCOFLUSH)
}

// Close wakes any blocked reader or writer and releases the descriptor
func (p *termiosPort) Close() error {
	if !p.closing.CompareAndSwap(false, true) {
		return ErrPortClosed
	}
	_, _ = unix.Write(p.wake[1], []byte{0})

	p.mu.Lock()
	defer p.mu.Unlock()

	p.closed = true
	unix.Close(p.wake[0])
	unix.Close(p.wake[1])
	return unix.Close(p.fd)
}
