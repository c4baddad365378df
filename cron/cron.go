package cron

import (
	"context"
	"sort"
	"sync"
	"time"

	goerrors "github.com/goliatone/go-errors"
	rcron "github.com/robfig/cron/v3"

	"github.com/goliatone/go-prompt/runner"
)

// Logger interface shared across packages
type Logger interface {
	Info(msg string, args ...any)
	Error(msg string, args ...any)
}

// Job is the unit of periodic work, e.g. a subsystem poll or a heartbeat.
type Job func(ctx context.Context) error

// JobInfo describes a scheduled job for listings.
type JobInfo struct {
	ID         int64
	Name       string
	Expression string
	Status     ScheduleStatus
	Runs       int
	Failed     int
	Next       time.Time
}

// Scheduler wraps robfig/cron and runs each job through a runner.Handler.
type Scheduler struct {
	mu           sync.Mutex
	cron         *rcron.Cron
	location     *time.Location
	errorHandler func(error)

	logger   Logger
	parser   Parser
	logLevel LogLevel

	nextHandleID int64
	handles      map[int64]*jobHandle
}

// NewScheduler creates a new scheduler instance with the provided options.
func NewScheduler(opts ...Option) *Scheduler {
	s := &Scheduler{
		location:     time.Local,
		parser:       DefaultParser,
		logLevel:     LogLevelError,
		errorHandler: func(error) {},
		handles:      make(map[int64]*jobHandle),
	}

	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	s.cron = rcron.New(s.build()...)
	return s
}

// ScheduleCron schedules a recurring job by cron expression.
func (s *Scheduler) ScheduleCron(cfg JobConfig, fn Job) (Handle, error) {
	if fn == nil {
		return nil, ErrNilJob
	}
	if cfg.Expression == "" {
		return nil, goerrors.Wrap(ErrInvalidSchedule, goerrors.CategoryValidation, "empty expression")
	}

	h := s.newHandle(cfg)
	job := rcron.FuncJob(func() {
		if isTerminalStatus(h.Status()) {
			return
		}

		h.setStatus(ScheduleStatusRunning, nil)
		err := h.runner.Run(context.Background(), fn)
		if h.runner.Snapshot().Done {
			s.removeHandle(h.id)
			h.setTerminal(ScheduleStatusCompleted, nil)
			return
		}
		h.setStatus(ScheduleStatusIdle, err)
	})

	entryID, err := s.cron.AddJob(cfg.Expression, job)
	if err != nil {
		return nil, goerrors.Wrap(ErrInvalidSchedule, goerrors.CategoryValidation, err.Error()).
			WithMetadata(map[string]any{"expression": cfg.Expression})
	}
	h.entryID = int(entryID)
	s.storeHandle(h)
	s.logf(LogLevelInfo, "scheduled %s (%s)", h.name, cfg.Expression)
	return h, nil
}

// ScheduleAfter schedules one execution after delay.
func (s *Scheduler) ScheduleAfter(delay time.Duration, cfg JobConfig, fn Job) (Handle, error) {
	if delay < 0 {
		delay = 0
	}
	return s.ScheduleAt(time.Now().Add(delay), cfg, fn)
}

// ScheduleAt schedules one execution at a specific time. One-shot jobs do
// not need the scheduler to be started.
func (s *Scheduler) ScheduleAt(at time.Time, cfg JobConfig, fn Job) (Handle, error) {
	if fn == nil {
		return nil, ErrNilJob
	}

	h := s.newHandle(cfg)
	s.storeHandle(h)

	go func() {
		wait := time.Until(at)
		if wait < 0 {
			wait = 0
		}

		timer := time.NewTimer(wait)
		defer timer.Stop()

		select {
		case <-timer.C:
		case <-h.Done():
			return
		}

		if isTerminalStatus(h.Status()) {
			return
		}
		h.setStatus(ScheduleStatusRunning, nil)
		err := h.runner.Run(context.Background(), fn)
		s.removeStoredHandle(h.id)
		if err != nil {
			h.setTerminal(ScheduleStatusFailed, err)
			return
		}
		h.setTerminal(ScheduleStatusCompleted, nil)
	}()

	return h, nil
}

// Jobs lists the live jobs ordered by id.
func (s *Scheduler) Jobs() []JobInfo {
	s.mu.Lock()
	handles := make([]*jobHandle, 0, len(s.handles))
	for _, h := range s.handles {
		handles = append(handles, h)
	}
	s.mu.Unlock()

	sort.Slice(handles, func(i, j int) bool { return handles[i].id < handles[j].id })

	out := make([]JobInfo, 0, len(handles))
	for _, h := range handles {
		snap := h.Snapshot()
		info := JobInfo{
			ID:         h.id,
			Name:       h.name,
			Expression: h.expression,
			Status:     h.Status(),
			Runs:       snap.Runs,
			Failed:     snap.Failed,
		}
		if h.entryID > 0 {
			info.Next = s.cron.Entry(rcron.EntryID(h.entryID)).Next
		}
		out = append(out, info)
	}
	return out
}

// Start begins executing scheduled cron jobs.
func (s *Scheduler) Start(_ context.Context) error {
	s.cron.Start()
	return nil
}

// Stop stops the scheduler, waits for running jobs until ctx is done and
// marks active handles as stopped.
func (s *Scheduler) Stop(ctx context.Context) error {
	stopped := s.cron.Stop()

	s.mu.Lock()
	handles := s.handles
	s.handles = make(map[int64]*jobHandle)
	s.mu.Unlock()

	for _, h := range handles {
		if h.entryID > 0 {
			s.cron.Remove(rcron.EntryID(h.entryID))
		}
		h.setTerminal(ScheduleStatusStopped, nil)
	}

	select {
	case <-stopped.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Scheduler) removeHandle(id int64) {
	h := s.removeStoredHandle(id)
	if h == nil {
		return
	}
	if h.entryID > 0 {
		s.cron.Remove(rcron.EntryID(h.entryID))
	}
}

func (s *Scheduler) removeStoredHandle(id int64) *jobHandle {
	s.mu.Lock()
	defer s.mu.Unlock()
	h := s.handles[id]
	delete(s.handles, id)
	return h
}

func (s *Scheduler) storeHandle(h *jobHandle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handles[h.id] = h
}

func (s *Scheduler) newHandle(cfg JobConfig) *jobHandle {
	s.mu.Lock()
	s.nextHandleID++
	id := s.nextHandleID
	s.mu.Unlock()

	name := cfg.Name
	if name == "" {
		name = "job"
	}
	return &jobHandle{
		scheduler:  s,
		id:         id,
		name:       name,
		expression: cfg.Expression,
		runner:     runner.NewHandler(s.runnerOptions(name, cfg)...),
		status:     ScheduleStatusScheduled,
		done:       make(chan struct{}),
	}
}

func (s *Scheduler) runnerOptions(name string, cfg JobConfig) []runner.Option {
	opts := []runner.Option{
		runner.WithName(name),
		runner.WithMaxRetries(cfg.MaxRetries),
		runner.WithRunOnce(cfg.RunOnce),
		runner.WithErrorHandler(s.errorHandler),
		runner.WithDeadline(cfg.Deadline),
		runner.WithTimeout(cfg.Timeout),
	}
	if s.logger != nil {
		opts = append(opts, runner.WithLogger(s.logger))
	}
	if cfg.MaxRuns > 0 {
		opts = append(opts, runner.WithMaxRuns(cfg.MaxRuns))
	}
	if cfg.Retry != nil {
		opts = append(opts, runner.WithRetryStrategy(cfg.Retry))
	}
	return opts
}

func (s *Scheduler) logf(level LogLevel, msg string, args ...any) {
	if s.logger == nil || s.logLevel < level {
		return
	}
	if level <= LogLevelError {
		s.logger.Error(msg, args...)
		return
	}
	s.logger.Info(msg, args...)
}

// build converts implementation-agnostic options to rcron options.
func (s *Scheduler) build() []rcron.Option {
	opts := make([]rcron.Option, 0, 4)

	if s.location != nil {
		opts = append(opts, rcron.WithLocation(s.location))
	}

	switch s.parser {
	case StandardParser:
		opts = append(opts, rcron.WithParser(rcron.NewParser(
			rcron.Minute|rcron.Hour|rcron.Dom|rcron.Month|rcron.Dow|rcron.Descriptor,
		)))
	case SecondsParser:
		opts = append(opts, rcron.WithParser(rcron.NewParser(
			rcron.Second|rcron.Minute|rcron.Hour|rcron.Dom|rcron.Month|rcron.Dow|rcron.Descriptor,
		)))
	}

	opts = append(opts, rcron.WithChain(
		rcron.Recover(&errorHandlerAdapter{handler: s.errorHandler}),
	))

	// robfig's default logger writes to stdout, which may be the transport.
	var cronLogger rcron.Logger = rcron.DiscardLogger
	if s.logger != nil && s.logLevel > LogLevelSilent {
		cronLogger = &loggerAdapter{logger: s.logger, level: s.logLevel}
	}
	opts = append(opts, rcron.WithLogger(cronLogger))

	return opts
}
