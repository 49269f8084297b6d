package ip2sl

import (
	"sync"
)

// fakePort is an in-memory Port that records how the Manager used it
type fakePort struct {
	mu      sync.Mutex
	path    string
	mode    PortMode
	input   []byte
	written []byte
	drained bool
	flushed bool
	closed  bool
}

func (f *fakePort) Read(buf []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return 0, ErrPortClosed
	}
	n := copy(buf, f.input)
	f.input = f.input[n:]
	return n, nil
}

func (f *fakePort) Write(data []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return 0, ErrPortClosed
	}
	f.written = append(f.written, data...)
	return len(data), nil
}

func (f *fakePort) Drain() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return ErrPortClosed
	}
	f.drained = true
	return nil
}

func (f *fakePort) FlushInput() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return ErrPortClosed
	}
	f.input = nil
	return nil
}

func (f *fakePort) FlushOutput() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return ErrPortClosed
	}
	f.flushed = true
	return nil
}

func (f *fakePort) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return ErrPortClosed
	}
	f.closed = true
	return nil
}

func (f *fakePort) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

// fakeOpener hands out fakePorts, or fails with err when set
type fakeOpener struct {
	mu     sync.Mutex
	err    error
	opened []*fakePort
}

func (o *fakeOpener) Open(path string, mode PortMode) (Port, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.err != nil {
		return nil, o.err
	}
	p := &fakePort{path: path, mode: mode}
	o.opened = append(o.opened, p)
	return p, nil
}

func (o *fakeOpener) count() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.opened)
}

func (o *fakeOpener) last() *fakePort {
	o.mu.Lock()
	defer o.mu.Unlock()
	if len(o.opened) == 0 {
		return nil
	}
	return o.opened[len(o.opened)-1]
}

// live returns the number of ports opened and not yet closed
func (o *fakeOpener) live() int {
	o.mu.Lock()
	defer o.mu.Unlock()

	n := 0
	for _, p := range o.opened {
		if !p.isClosed() {
			n++
		}
	}
	return n
}
