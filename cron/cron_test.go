package cron

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func count(c *atomic.Int32) Job {
	return func(context.Context) error {
		c.Add(1)
		return nil
	}
}

func TestScheduleAfterCompletesAndReportsStatus(t *testing.T) {
	s := NewScheduler()
	var n atomic.Int32

	h, err := s.ScheduleAfter(20*time.Millisecond, JobConfig{Name: "probe"}, count(&n))
	require.NoError(t, err)
	assert.Equal(t, "probe", h.Name())

	select {
	case <-h.Done():
	case <-time.After(time.Second):
		t.Fatal("expected handle completion")
	}

	assert.Equal(t, int32(1), n.Load())
	assert.Equal(t, ScheduleStatusCompleted, h.Status())
	assert.Equal(t, 1, h.Snapshot().Succeeded)
	assert.Empty(t, s.Jobs())
}

func TestScheduleAtFailureIsTerminal(t *testing.T) {
	var handled atomic.Int32
	s := NewScheduler(WithErrorHandler(func(error) { handled.Add(1) }))

	h, err := s.ScheduleAt(time.Now(), JobConfig{MaxRetries: 1}, func(context.Context) error {
		return errors.New("pump stalled")
	})
	require.NoError(t, err)

	select {
	case <-h.Done():
	case <-time.After(time.Second):
		t.Fatal("expected handle failure")
	}

	assert.Equal(t, ScheduleStatusFailed, h.Status())
	require.Error(t, h.Err())
	assert.Equal(t, 2, int(handled.Load()), "one retry report plus the final failure")
	assert.Equal(t, 1, h.Snapshot().Failed)
}

func TestScheduleAtCancelPreventsExecution(t *testing.T) {
	s := NewScheduler()
	var n atomic.Int32

	h, err := s.ScheduleAt(time.Now().Add(200*time.Millisecond), JobConfig{}, count(&n))
	require.NoError(t, err)

	h.Cancel()
	h.Cancel()

	select {
	case <-h.Done():
	case <-time.After(time.Second):
		t.Fatal("expected canceled handle to close done channel")
	}

	time.Sleep(250 * time.Millisecond)
	assert.Equal(t, int32(0), n.Load())
	assert.Equal(t, ScheduleStatusCanceled, h.Status())
}

func TestScheduleCronRunsUntilMaxRuns(t *testing.T) {
	s := NewScheduler(WithParser(SecondsParser))
	var n atomic.Int32

	h, err := s.ScheduleCron(JobConfig{Name: "tick", Expression: "@every 1s", MaxRuns: 1}, count(&n))
	require.NoError(t, err)

	jobs := s.Jobs()
	require.Len(t, jobs, 1)
	assert.Equal(t, "tick", jobs[0].Name)
	assert.Equal(t, "@every 1s", jobs[0].Expression)
	assert.Equal(t, ScheduleStatusScheduled, jobs[0].Status)

	require.NoError(t, s.Start(context.Background()))
	defer s.Stop(context.Background())

	select {
	case <-h.Done():
	case <-time.After(3 * time.Second):
		t.Fatal("expected cron job to complete after one run")
	}
	assert.Equal(t, int32(1), n.Load())
	assert.Equal(t, ScheduleStatusCompleted, h.Status())
	assert.Empty(t, s.Jobs())
}

func TestScheduleCronRejectsBadInput(t *testing.T) {
	s := NewScheduler()

	_, err := s.ScheduleCron(JobConfig{}, func(context.Context) error { return nil })
	assert.Equal(t, CodeInvalidSchedule, ErrorCode(err))

	_, err = s.ScheduleCron(JobConfig{Expression: "not a schedule"}, func(context.Context) error { return nil })
	assert.Equal(t, CodeInvalidSchedule, ErrorCode(err))

	_, err = s.ScheduleCron(JobConfig{Expression: "@every 1s"}, nil)
	assert.True(t, errors.Is(err, ErrNilJob))
	assert.Empty(t, s.Jobs())
}

func TestStopMarksHandlesStopped(t *testing.T) {
	s := NewScheduler()
	require.NoError(t, s.Start(context.Background()))

	h, err := s.ScheduleCron(JobConfig{Expression: "@every 1h"}, func(context.Context) error { return nil })
	require.NoError(t, err)

	require.NoError(t, s.Stop(context.Background()))
	assert.Equal(t, ScheduleStatusStopped, h.Status())
	assert.Empty(t, s.Jobs())

	h.Cancel()
	assert.Equal(t, ScheduleStatusStopped, h.Status())
}
