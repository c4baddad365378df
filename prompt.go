// Package prompt runs the command protocol over a byte transport: it parses
// one request per tick, dispatches it to a registered model and writes the
// reply back.
package prompt

import (
	"io"
	"sync"

	"github.com/goliatone/go-errors"

	"github.com/goliatone/go-prompt/datalink"
	"github.com/goliatone/go-prompt/dialect"
	"github.com/goliatone/go-prompt/dispatcher"
	"github.com/goliatone/go-prompt/message"
	"github.com/goliatone/go-prompt/rpc"
	"github.com/goliatone/go-prompt/stream"
)

// Prompt owns the datalink and the recipe registry. Recipes are collected
// until Initialize, after which the registry is frozen and Update may run.
type Prompt struct {
	mu          sync.Mutex
	cfg         Config
	logger      Logger
	cookbook    *rpc.Cookbook
	factory     *dispatcher.Factory
	link        *datalink.Datalink
	middleware  []dispatcher.Middleware
	initialized bool

	statsMu sync.Mutex
	stats   Stats
}

// Option configures a Prompt.
type Option func(*Prompt)

func WithLogger(logger Logger) Option {
	return func(p *Prompt) {
		p.logger = logger
	}
}

// WithMiddleware adds invocation middleware inside the built in recovery,
// logging and rate limiting layers.
func WithMiddleware(mw ...dispatcher.Middleware) Option {
	return func(p *Prompt) {
		p.middleware = append(p.middleware, mw...)
	}
}

// New builds a prompt reading from s. A nil s leaves the prompt without a
// datalink until HotloadDatalink is called.
func New(cfg Config, s stream.Stream, opts ...Option) *Prompt {
	p := &Prompt{
		cfg:      cfg,
		cookbook: rpc.NewCookbook(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = normalizeLogger(p.logger)

	mw := []dispatcher.Middleware{
		Recover(p.logger),
		dispatcher.Logging(p.logger),
		dispatcher.RateLimit(cfg.RateLimit, cfg.RateBurst),
	}
	p.factory = dispatcher.NewFactory(
		dispatcher.Config{DirectorySize: cfg.DirectorySize},
		dispatcher.WithMiddleware(append(mw, p.middleware...)...),
	)

	if s != nil {
		p.link = datalink.New(s, datalink.Config{
			MessageLength: cfg.MessageLength,
			PoolSize:      cfg.PoolSize,
		})
	}
	return p
}

// Open builds a prompt over port using a BufferedStream sized by cfg.
func Open(cfg Config, port io.ReadWriter, opts ...Option) *Prompt {
	s := stream.NewBufferedStream(port, stream.Config{
		BufferSize: cfg.BufferSize,
		Delimiters: dialect.LineDelimiters,
	})
	return New(cfg, s, opts...)
}

// HotloadDatalink replaces the datalink before Initialize.
func (p *Prompt) HotloadDatalink(dl *datalink.Datalink) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return ErrAlreadyInitialized
	}
	p.link = dl
	return nil
}

// AddRecipe stages a recipe for Initialize. Several recipes may share a
// module; their models are merged.
func (p *Prompt) AddRecipe(r *rpc.Recipe) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return ErrAlreadyInitialized
	}
	return p.cookbook.AddRecipe(r)
}

// Initialize consolidates the staged recipes into the registry and freezes
// it. Recipes that cannot be loaded are reported together; the rest stay
// loaded.
func (p *Prompt) Initialize() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return ErrAlreadyInitialized
	}
	if p.link == nil {
		return ErrNoDatalink
	}

	var errs error
	for _, r := range p.cookbook.ExtractRecipes() {
		if err := p.factory.HotloadRecipe(r); err != nil {
			p.logger.Warn("could not load recipe %s: %v", r.Module(), err)
			errs = errors.Join(errs, err)
			continue
		}
		p.logger.Info("loaded recipe %s with %d models", r.Module(), r.Len())
	}

	p.initialized = true
	return errs
}

// Update runs one tick: pull bytes, answer at most one message, push the
// reply. Unparseable input is dropped without a reply. Transport errors are
// returned after the tick completes.
func (p *Prompt) Update() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return ErrNotInitialized
	}
	p.count(func(s *Stats) { s.Ticks++ })

	var ioErr error
	if _, err := p.link.Pull(); err != nil && !errors.Is(err, io.EOF) {
		ioErr = p.transportError("pull", err)
	}

	env, err := p.link.ReadMessage()
	switch {
	case err != nil:
		p.rejectInput(err)
	case env != nil:
		if err := p.answer(env); err != nil {
			ioErr = errors.Join(ioErr, err)
		}
	}

	if _, err := p.link.Push(); err != nil {
		ioErr = errors.Join(ioErr, p.transportError("push", err))
	}
	return ioErr
}

// answer dispatches one message and queues its reply. Only transport errors
// hit while streaming a long reply are returned.
func (p *Prompt) answer(env *datalink.Envelope) error {
	defer env.Release()

	msg := env.Message()
	p.count(func(s *Stats) { s.Parsed++ })

	var res rpc.Result
	call, err := p.factory.FromMessage(msg)
	if err != nil {
		p.count(func(s *Stats) { s.DispatchErrors++ })
		p.logger.Debug("dispatch failed code=%s message=%q", dispatcher.ErrorCode(err), msg.String())
		res = rpc.NewResultWithText(rpc.StatusBadInput, msg.String())
	} else {
		res = call.Invoke()
	}

	if _, err := p.link.WriteMessage(message.Build(res, msg.Module())); err != nil {
		p.count(func(s *Stats) { s.Unsent++ })
		return p.transportError("write", err)
	}
	p.count(func(s *Stats) { s.Replies++ })
	return nil
}

func (p *Prompt) rejectInput(err error) {
	switch {
	case errors.Is(err, datalink.ErrMessageTooLong):
		p.count(func(s *Stats) { s.Dropped++ })
		p.logger.Warn("dropped line longer than %d bytes", p.cfg.MessageLength)
	case errors.Is(err, datalink.ErrPoolExhausted):
		p.count(func(s *Stats) { s.Deferred++ })
		p.logger.Warn("no free message buffer, line deferred")
	default:
		p.count(func(s *Stats) { s.ParseErrors++ })
		p.logger.Debug("ignored unparseable input code=%s", message.ErrorCode(err))
	}
}

func (p *Prompt) transportError(op string, err error) error {
	p.count(func(s *Stats) { s.IOErrors++ })
	p.logger.Error("transport %s failed: %v", op, err)
	return err
}

func (p *Prompt) count(fn func(*Stats)) {
	p.statsMu.Lock()
	fn(&p.stats)
	p.statsMu.Unlock()
}

// Stats returns a snapshot of the counters. It is safe to call from models
// and from other goroutines.
func (p *Prompt) Stats() Stats {
	p.statsMu.Lock()
	defer p.statsMu.Unlock()
	return p.stats
}

// Usage renders the directory of loaded models.
func (p *Prompt) Usage() string {
	return p.factory.Usage()
}

func (p *Prompt) Config() Config {
	return p.cfg
}

func (p *Prompt) Initialized() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.initialized
}
