package main

import (
	"io"
	"os"
	"sync"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"go.bug.st/serial"
)

// Port is the byte transport the prompt runs over. Read must not block for
// longer than a tick.
type Port interface {
	io.ReadWriteCloser
	// Closed reports that no more input will arrive.
	Closed() bool
}

func openPort(name string, baud int, readTimeout time.Duration) (Port, error) {
	if name == "-" || name == "" {
		return newStdioPort(os.Stdin, os.Stdout), nil
	}
	return openSerial(name, baud, readTimeout)
}

type serialPort struct {
	serial.Port
}

func (serialPort) Closed() bool { return false }

func openSerial(name string, baud int, readTimeout time.Duration) (Port, error) {
	p, err := serial.Open(name, &serial.Mode{BaudRate: baud})
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryExternal, "open serial port").
			WithTextCode("SERIAL_OPEN_FAILED").
			WithMetadata(map[string]any{"port": name, "baud": baud})
	}
	if err := p.SetReadTimeout(readTimeout); err != nil {
		p.Close()
		return nil, goerrors.Wrap(err, goerrors.CategoryExternal, "set serial read timeout").
			WithTextCode("SERIAL_OPEN_FAILED")
	}
	return serialPort{p}, nil
}

func listPorts() ([]string, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryExternal, "list serial ports")
	}
	return ports, nil
}

// stdioPort turns a blocking reader into a non-blocking one: a goroutine
// fills a queue and Read drains whatever has arrived.
type stdioPort struct {
	out io.Writer

	mu      sync.Mutex
	pending []byte
	err     error
}

func newStdioPort(in io.Reader, out io.Writer) *stdioPort {
	p := &stdioPort{out: out}
	go p.fill(in)
	return p
}

func (p *stdioPort) fill(in io.Reader) {
	buf := make([]byte, 256)
	for {
		n, err := in.Read(buf)
		p.mu.Lock()
		p.pending = append(p.pending, buf[:n]...)
		if err != nil {
			p.err = err
			p.mu.Unlock()
			return
		}
		p.mu.Unlock()
	}
}

func (p *stdioPort) Read(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.pending) == 0 {
		if p.err != nil {
			return 0, p.err
		}
		return 0, nil
	}
	n := copy(b, p.pending)
	p.pending = p.pending[n:]
	return n, nil
}

func (p *stdioPort) Write(b []byte) (int, error) {
	return p.out.Write(b)
}

func (p *stdioPort) Close() error { return nil }

func (p *stdioPort) Closed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err != nil && len(p.pending) == 0
}
