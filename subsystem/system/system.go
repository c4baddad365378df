// Package system contributes the SYS module: firmware identity, uptime,
// prompt counters, an echo probe and the list of scheduled jobs.
package system

import (
	"strconv"
	"strings"
	"time"

	prompt "github.com/goliatone/go-prompt"
	"github.com/goliatone/go-prompt/cron"
	"github.com/goliatone/go-prompt/dialect"
	"github.com/goliatone/go-prompt/rpc"
)

// Module is the module code answered by this subsystem.
const Module = "SYS"

// Registrar accepts recipes during bring-up. *prompt.Prompt satisfies it.
type Registrar interface {
	AddRecipe(r *rpc.Recipe) error
}

// JobLister reports scheduled jobs. *cron.Scheduler satisfies it.
type JobLister interface {
	Jobs() []cron.JobInfo
}

type System struct {
	version string
	started time.Time
	now     func() time.Time
	stats   func() prompt.Stats
	jobs    JobLister
}

type Option func(*System)

func WithVersion(v string) Option {
	return func(s *System) {
		s.version = v
	}
}

// WithStats exposes prompt counters through SYS:stats.
func WithStats(fn func() prompt.Stats) Option {
	return func(s *System) {
		s.stats = fn
	}
}

// WithJobs adds SYS:jobs, contributed as a second SYS recipe.
func WithJobs(jobs JobLister) Option {
	return func(s *System) {
		s.jobs = jobs
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *System) {
		s.now = now
	}
}

func New(opts ...Option) *System {
	s := &System{
		version: dialect.APIVersion,
		now:     time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	s.started = s.now()
	return s
}

// Recipes returns the SYS recipes. The jobs listing lives in its own recipe
// and is merged with the base one when the registry is consolidated.
func (s *System) Recipes() []*rpc.Recipe {
	base := rpc.NewRecipe(Module,
		rpc.NewModel("version", s.versionModel).WithHelp("firmware and protocol version"),
		rpc.NewModel("uptime", s.uptimeModel).WithHelp("seconds since boot"),
		rpc.NewModel("echo", echoModel).WithHelp("echo <text>"),
	)
	if s.stats != nil {
		base.AddModel(rpc.NewModel("stats", s.statsModel).WithHelp("prompt counters [name]"))
	}

	recipes := []*rpc.Recipe{base}
	if s.jobs != nil {
		recipes = append(recipes, rpc.NewRecipe(Module,
			rpc.NewModel("jobs", s.jobsModel).WithHelp("scheduled jobs as name=status"),
		))
	}
	return recipes
}

// Register adds every SYS recipe to r.
func (s *System) Register(r Registrar) error {
	for _, recipe := range s.Recipes() {
		if err := r.AddRecipe(recipe); err != nil {
			return err
		}
	}
	return nil
}

func (s *System) versionModel(string, bool) rpc.Result {
	return rpc.OK(s.version + string(dialect.ValueSeparator) + dialect.APIVersion)
}

func (s *System) uptimeModel(string, bool) rpc.Result {
	up := s.now().Sub(s.started) / time.Second
	return rpc.OK(strconv.FormatInt(int64(up), 10))
}

func echoModel(arg string, present bool) rpc.Result {
	if !present {
		return rpc.BadInput()
	}
	return rpc.OK(arg)
}

var counterNames = []string{
	"ticks", "parsed", "parse_errors", "dispatch_errors",
	"replies", "dropped", "deferred", "unsent", "io_errors",
}

func counters(st prompt.Stats) map[string]uint64 {
	return map[string]uint64{
		"ticks":           st.Ticks,
		"parsed":          st.Parsed,
		"parse_errors":    st.ParseErrors,
		"dispatch_errors": st.DispatchErrors,
		"replies":         st.Replies,
		"dropped":         st.Dropped,
		"deferred":        st.Deferred,
		"unsent":          st.Unsent,
		"io_errors":       st.IOErrors,
	}
}

func (s *System) statsModel(arg string, present bool) rpc.Result {
	values := counters(s.stats())
	if present {
		v, ok := values[arg]
		if !ok {
			return rpc.BadInput()
		}
		return rpc.OK(strconv.FormatUint(v, 10))
	}

	parts := make([]string, len(counterNames))
	for i, name := range counterNames {
		parts[i] = strconv.FormatUint(values[name], 10)
	}
	return rpc.OK(strings.Join(parts, string(dialect.ValueSeparator)))
}

func (s *System) jobsModel(string, bool) rpc.Result {
	jobs := s.jobs.Jobs()
	parts := make([]string, len(jobs))
	for i, j := range jobs {
		parts[i] = j.Name + "=" + string(j.Status)
	}
	return rpc.OK(strings.Join(parts, string(dialect.ValueSeparator)))
}
