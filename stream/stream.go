// Package stream buffers raw transport bytes and hands out one delimited line
// at a time through transactions.
package stream

import (
	"bytes"
	"io"
	"strings"

	"github.com/goliatone/go-prompt/dialect"
)

// Transaction is a scoped view over one buffered line. The bytes returned by
// Incoming stay valid until Commit.
type Transaction interface {
	Incoming() []byte
	Outgoing(p []byte) int
	Commit()
}

// Stream is the byte transport the datalink is built on.
type Stream interface {
	PullInData() (int, error)
	PushOutData() (int, error)
	NewTransaction() (Transaction, bool)
	BufferedWrite(p []byte) int
	// Free returns the outgoing space left before the next push.
	Free() int
}

const DefaultBufferSize = 256

// Config sizes the stream buffers.
type Config struct {
	BufferSize int
	Delimiters string
}

// Stats counts stream level events.
type Stats struct {
	BytesIn  int
	BytesOut int
	// Overruns counts full input buffers discarded because no delimiter
	// arrived.
	Overruns int
	// Rejected counts writes refused for lack of outgoing space.
	Rejected int
}

// BufferedStream implements Stream over an io.ReadWriter using two fixed
// buffers. It is not safe for concurrent use.
type BufferedStream struct {
	port       io.ReadWriter
	in         []byte
	out        []byte
	delimiters string
	// gen changes whenever consumed input moves, invalidating older
	// transactions.
	gen uint64
	// discarding is set by an overrun and holds until the delimiter that
	// ends the overlong line has been dropped.
	discarding bool
	stats      Stats
}

func NewBufferedStream(port io.ReadWriter, cfg Config) *BufferedStream {
	size := cfg.BufferSize
	if size <= 0 {
		size = DefaultBufferSize
	}
	delims := cfg.Delimiters
	if delims == "" {
		delims = dialect.LineDelimiters
	}
	return &BufferedStream{
		port:       port,
		in:         make([]byte, 0, size),
		out:        make([]byte, 0, size),
		delimiters: delims,
	}
}

// PullInData reads whatever the port has into the free input space. A full
// buffer without any delimiter can never yield a line: it is discarded, and
// so is the rest of that line up to and including its delimiter.
func (s *BufferedStream) PullInData() (int, error) {
	if len(s.in) == cap(s.in) && s.delimiterIndex(s.in) < 0 {
		s.in = s.in[:0]
		s.gen++
		s.discarding = true
		s.stats.Overruns++
	}
	free := s.in[len(s.in):cap(s.in)]
	if len(free) == 0 {
		return 0, nil
	}

	n, err := s.port.Read(free)
	if n > 0 {
		s.in = s.in[:len(s.in)+n]
		s.stats.BytesIn += n
	}
	s.dropDiscarded()
	return n, err
}

// PushOutData writes pending outgoing bytes to the port.
func (s *BufferedStream) PushOutData() (int, error) {
	if len(s.out) == 0 {
		return 0, nil
	}
	n, err := s.port.Write(s.out)
	if n > 0 {
		rest := copy(s.out, s.out[n:])
		s.out = s.out[:rest]
		s.stats.BytesOut += n
	}
	return n, err
}

// NewTransaction opens a view over the next complete line. Leading delimiters
// are dropped. It reports false when no complete line is buffered. A
// transaction that is never committed leaves the line in place for the next
// one.
func (s *BufferedStream) NewTransaction() (Transaction, bool) {
	s.dropDiscarded()
	if s.discarding {
		return nil, false
	}
	s.skipDelimiters()

	end := s.delimiterIndex(s.in)
	if end < 0 {
		return nil, false
	}
	return &transaction{stream: s, end: end, gen: s.gen}, true
}

// BufferedWrite queues p for the next push. Writes are all or nothing so a
// reply is never truncated on the wire.
func (s *BufferedStream) BufferedWrite(p []byte) int {
	if len(p) > cap(s.out)-len(s.out) {
		s.stats.Rejected++
		return 0
	}
	s.out = append(s.out, p...)
	return len(p)
}

func (s *BufferedStream) Free() int {
	return cap(s.out) - len(s.out)
}

// Discarding reports whether the stream is still skipping an overlong line.
func (s *BufferedStream) Discarding() bool {
	return s.discarding
}

// Buffered returns the number of input bytes not yet consumed.
func (s *BufferedStream) Buffered() int {
	return len(s.in)
}

func (s *BufferedStream) Stats() Stats {
	return s.stats
}

func (s *BufferedStream) delimiterIndex(b []byte) int {
	return bytes.IndexAny(b, s.delimiters)
}

// dropDiscarded consumes the tail of an overrun line.
func (s *BufferedStream) dropDiscarded() {
	if !s.discarding || len(s.in) == 0 {
		return
	}
	end := s.delimiterIndex(s.in)
	if end < 0 {
		s.consume(len(s.in))
		return
	}
	s.consume(end + 1)
	s.discarding = false
}

func (s *BufferedStream) skipDelimiters() {
	i := 0
	for i < len(s.in) && strings.IndexByte(s.delimiters, s.in[i]) >= 0 {
		i++
	}
	if i > 0 {
		s.consume(i)
	}
}

func (s *BufferedStream) consume(n int) {
	rest := copy(s.in, s.in[n:])
	s.in = s.in[:rest]
	s.gen++
}

type transaction struct {
	stream *BufferedStream
	end    int
	gen    uint64
}

func (t *transaction) stale() bool {
	return t.gen != t.stream.gen
}

// Incoming returns the line without its delimiter, or nil once the
// transaction is committed or superseded.
func (t *transaction) Incoming() []byte {
	if t.stale() {
		return nil
	}
	return t.stream.in[:t.end:t.end]
}

func (t *transaction) Outgoing(p []byte) int {
	return t.stream.BufferedWrite(p)
}

// Commit releases the line and its delimiter. Committing twice, or after the
// buffer moved, does nothing.
func (t *transaction) Commit() {
	if t.stale() {
		return
	}
	t.stream.consume(t.end + 1)
}
