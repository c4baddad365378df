// Package datalink couples a byte stream to the message parser and builder.
package datalink

import (
	"github.com/goliatone/go-prompt/dialect"
	"github.com/goliatone/go-prompt/message"
	"github.com/goliatone/go-prompt/stream"
)

const (
	DefaultMessageLength = 64
	DefaultPoolSize      = 8
)

// Config bounds incoming messages.
type Config struct {
	// MessageLength is the longest line accepted, delimiters excluded.
	MessageLength int
	// PoolSize is the number of message buffers that may be held at once.
	PoolSize int
}

// Datalink reads one message at a time from a stream and writes replies back.
// It is not safe for concurrent use.
type Datalink struct {
	stream  stream.Stream
	cfg     Config
	pool    *stream.Pool
	scratch []byte
}

// Option configures a Datalink.
type Option func(*Datalink)

// WithPool shares an existing buffer pool instead of allocating one.
func WithPool(p *stream.Pool) Option {
	return func(d *Datalink) {
		d.pool = p
	}
}

func New(s stream.Stream, cfg Config, opts ...Option) *Datalink {
	if cfg.MessageLength <= 0 {
		cfg.MessageLength = DefaultMessageLength
	}
	if cfg.PoolSize <= 0 {
		cfg.PoolSize = DefaultPoolSize
	}
	d := &Datalink{stream: s, cfg: cfg}
	for _, opt := range opts {
		opt(d)
	}
	if d.pool == nil {
		d.pool = stream.NewPool(cfg.PoolSize, cfg.MessageLength)
	}
	return d
}

// Pull moves bytes from the transport into the stream buffer.
func (d *Datalink) Pull() (int, error) {
	return d.stream.PullInData()
}

// Push flushes queued replies to the transport.
func (d *Datalink) Push() (int, error) {
	return d.stream.PushOutData()
}

// ReadMessage parses the next complete line. It returns nil and no error when
// no line is ready yet. Lines that fail to parse or are too long are consumed
// and reported as errors. When the buffer pool is exhausted the line stays in
// the stream for a later attempt.
//
// A returned Envelope holds a pooled buffer and the open transaction until it
// is released.
func (d *Datalink) ReadMessage() (*Envelope, error) {
	tx, ok := d.stream.NewTransaction()
	if !ok {
		return nil, nil
	}

	line := tx.Incoming()
	if len(line) > d.cfg.MessageLength || len(line) > d.pool.BufferSize() {
		tx.Commit()
		return nil, ErrMessageTooLong
	}

	buf, ok := d.pool.Acquire()
	if !ok {
		return nil, ErrPoolExhausted
	}
	buf = append(buf, line...)

	msg, err := message.Parse(buf)
	if err != nil {
		tx.Commit()
		d.pool.Release(buf)
		return nil, err
	}

	return &Envelope{msg: msg, raw: buf, tx: tx, pool: d.pool}, nil
}

// WriteMessage serializes msg and its terminator into the outgoing buffer and
// returns the number of bytes queued or sent. A reply larger than the free
// space, such as a long usage directory, is streamed: the buffer is pushed to
// the transport each time it fills. The error is set only when the transport
// fails or stops accepting bytes mid reply.
func (d *Datalink) WriteMessage(msg message.Message) (int, error) {
	d.scratch = msg.AppendTo(d.scratch[:0])
	d.scratch = append(d.scratch, dialect.ReplyTerminator...)

	if len(d.scratch) <= d.stream.Free() {
		return d.stream.BufferedWrite(d.scratch), nil
	}
	return d.writeStreamed(d.scratch)
}

func (d *Datalink) writeStreamed(p []byte) (int, error) {
	written := 0
	for written < len(p) {
		free := d.stream.Free()
		if free == 0 {
			n, err := d.stream.PushOutData()
			if err != nil {
				return written, err
			}
			if n == 0 {
				return written, ErrReplyStalled
			}
			continue
		}
		chunk := min(free, len(p)-written)
		written += d.stream.BufferedWrite(p[written : written+chunk])
	}
	return written, nil
}

// Available returns the number of free message buffers.
func (d *Datalink) Available() int {
	return d.pool.Available()
}

// Envelope is a parsed message still bound to its transaction and pooled
// buffer.
type Envelope struct {
	msg      message.Message
	raw      []byte
	tx       stream.Transaction
	pool     *stream.Pool
	released bool
}

func (e *Envelope) Message() message.Message {
	return e.msg
}

// Raw returns the pooled copy of the line, or nil after Release.
func (e *Envelope) Raw() []byte {
	if e.released {
		return nil
	}
	return e.raw
}

// Release commits the transaction and returns the buffer to the pool. It is
// safe to call more than once.
func (e *Envelope) Release() {
	if e.released {
		return
	}
	e.released = true
	e.tx.Commit()
	e.pool.Release(e.raw)
	e.raw = nil
}
