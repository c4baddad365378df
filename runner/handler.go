package runner

import (
	"context"
	"sync"
	"time"
)

type Logger interface {
	Info(msg string, args ...any)
	Error(msg string, args ...any)
}

// Handler runs a job function with retries, timeouts and a run budget.
// A Handler is safe for concurrent use; runs are serialized per handler.
type Handler struct {
	mu sync.Mutex

	name          string
	logger        Logger
	errorHandler  func(error)
	doneHandler   func(*Handler)
	retryStrategy RetryStrategy

	runs           int
	successfulRuns int
	failedRuns     int
	lastErr        error
	lastRun        time.Time

	maxRuns    int
	maxRetries int
	timeout    time.Duration
	deadline   time.Time
	runOnce    bool
}

// NewHandler constructs a Handler from options, applying defaults if unset.
func NewHandler(opts ...Option) *Handler {
	h := &Handler{
		errorHandler:  func(error) {},
		doneHandler:   func(*Handler) {},
		retryStrategy: NoDelayStrategy{},
	}
	for _, o := range opts {
		if o != nil {
			o(h)
		}
	}
	return h
}

// Run executes fn, retrying up to the configured number of times. It returns
// ErrRunLimit without calling fn once the handler's run budget is spent.
func (h *Handler) Run(ctx context.Context, fn func(context.Context) error) error {
	h.mu.Lock()
	if h.exhausted() {
		h.mu.Unlock()
		return ErrRunLimit
	}
	maxRetries := h.maxRetries
	strategy := h.retryStrategy
	h.mu.Unlock()

	ctx, cancel := h.contextWithSettings(ctx)
	defer cancel()

	var err error
	attempts := maxRetries + 1
	for attempt := 0; attempt < attempts; attempt++ {
		if err = fn(ctx); err == nil {
			break
		}

		if attempt == attempts-1 {
			break
		}

		decision := DecideRetry(strategy, attempt, err)
		h.handleError(wrapRunError(err, attempt+1, attempts))
		if !decision.ShouldRetry {
			break
		}
		if sleepErr := sleep(ctx, decision.Delay); sleepErr != nil {
			err = sleepErr
			break
		}
	}

	h.mu.Lock()
	h.runs++
	h.lastRun = time.Now()
	if err != nil {
		err = wrapRunError(err, attempts, attempts)
		h.failedRuns++
	} else {
		h.successfulRuns++
	}
	h.lastErr = err
	finished := h.exhausted()
	h.mu.Unlock()

	if err != nil {
		h.logError("%s failed: %v", h.label(), err)
		h.handleError(err)
	}
	if finished {
		h.doneHandler(h)
	}
	return err
}

// Name returns the handler label used in logs.
func (h *Handler) Name() string {
	return h.name
}

// Snapshot reports the handler's run counters.
func (h *Handler) Snapshot() Snapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return Snapshot{
		Name:      h.name,
		Runs:      h.runs,
		Succeeded: h.successfulRuns,
		Failed:    h.failedRuns,
		LastRun:   h.lastRun,
		LastErr:   h.lastErr,
		Done:      h.exhausted(),
	}
}

// Snapshot is a point-in-time copy of a handler's counters.
type Snapshot struct {
	Name      string
	Runs      int
	Succeeded int
	Failed    int
	LastRun   time.Time
	LastErr   error
	Done      bool
}

// exhausted must be called with mu held.
func (h *Handler) exhausted() bool {
	if h.runOnce && h.successfulRuns >= 1 {
		return true
	}
	return h.maxRuns > 0 && h.successfulRuns >= h.maxRuns
}

func (h *Handler) label() string {
	if h.name == "" {
		return "job"
	}
	return h.name
}

func (h *Handler) handleError(err error) {
	if h.errorHandler != nil {
		h.errorHandler(err)
	}
}

func (h *Handler) logError(format string, args ...any) {
	if h.logger != nil {
		h.logger.Error(format, args...)
	}
}

func (h *Handler) contextWithSettings(parent context.Context) (context.Context, context.CancelFunc) {
	switch {
	case h.timeout != 0 && !h.deadline.IsZero():
		ctx, cancelTimeout := context.WithTimeout(parent, h.timeout)
		ctxDeadline, cancelDeadline := context.WithDeadline(ctx, h.deadline)
		return ctxDeadline, func() {
			cancelDeadline()
			cancelTimeout()
		}
	case h.timeout != 0:
		return context.WithTimeout(parent, h.timeout)
	case !h.deadline.IsZero():
		return context.WithDeadline(parent, h.deadline)
	default:
		return parent, func() {}
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
