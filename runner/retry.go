package runner

import (
	"math"
	"time"
)

// RetryStrategy encapsulates the delay between retries.
type RetryStrategy interface {
	// SleepDuration returns how long to wait before the next retry attempt.
	// The attempt index starts at 0, incrementing after each failure.
	SleepDuration(attempt int, err error) time.Duration
}

// RetryDecision is the outcome of asking a strategy whether to try again.
type RetryDecision struct {
	ShouldRetry bool
	Delay       time.Duration
}

// RetryDecider is an optional extension of RetryStrategy for strategies
// that can veto a retry, e.g. for errors that will never succeed.
type RetryDecider interface {
	Decide(attempt int, err error) RetryDecision
}

// DecideRetry asks s for a decision, falling back to SleepDuration.
func DecideRetry(s RetryStrategy, attempt int, err error) RetryDecision {
	if s == nil {
		return RetryDecision{ShouldRetry: true}
	}
	if d, ok := s.(RetryDecider); ok {
		return d.Decide(attempt, err)
	}
	return RetryDecision{ShouldRetry: true, Delay: s.SleepDuration(attempt, err)}
}

// NoDelayStrategy performs all retries immediately.
type NoDelayStrategy struct{}

func (NoDelayStrategy) SleepDuration(int, error) time.Duration {
	return 0
}

// ExponentialBackoffStrategy implements a capped exponential backoff.
//
//	WithRetryStrategy(ExponentialBackoffStrategy{
//	    Base:   100 * time.Millisecond,
//	    Factor: 2,
//	    Max:    5 * time.Second,
//	})
type ExponentialBackoffStrategy struct {
	Base   time.Duration
	Factor float64
	Max    time.Duration
}

func (e ExponentialBackoffStrategy) SleepDuration(attempt int, _ error) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	delay := float64(e.Base) * math.Pow(e.Factor, float64(attempt))
	if e.Max > 0 && time.Duration(delay) > e.Max {
		return e.Max
	}
	return time.Duration(delay)
}

// StopOn wraps a strategy and refuses to retry when match reports true.
type StopOn struct {
	Strategy RetryStrategy
	Match    func(error) bool
}

func (s StopOn) SleepDuration(attempt int, err error) time.Duration {
	if s.Strategy == nil {
		return 0
	}
	return s.Strategy.SleepDuration(attempt, err)
}

func (s StopOn) Decide(attempt int, err error) RetryDecision {
	if s.Match != nil && s.Match(err) {
		return RetryDecision{}
	}
	return RetryDecision{ShouldRetry: true, Delay: s.SleepDuration(attempt, err)}
}
