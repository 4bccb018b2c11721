package scheduler

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingJob struct {
	name  string
	err   error
	runs  atomic.Int32
	panic bool
}

func (j *countingJob) Run() error {
	j.runs.Add(1)
	if j.panic {
		panic("boom")
	}
	return j.err
}

func (j *countingJob) Name() string { return j.name }

func TestAddJob_InvalidSchedule(t *testing.T) {
	s := New(zerolog.Nop())

	err := s.AddJob("not a schedule", &countingJob{name: "bad"})
	assert.Error(t, err)
	assert.Empty(t, s.Jobs())
}

func TestAddJob_ReplacesJobWithSameName(t *testing.T) {
	s := New(zerolog.Nop())

	require.NoError(t, s.AddJob("@daily", &countingJob{name: "cleanup"}))
	require.NoError(t, s.AddJob("@hourly", &countingJob{name: "cleanup"}))
	require.NoError(t, s.AddJob("0 0 2 * * *", &countingJob{name: "backup"}))

	assert.ElementsMatch(t, []string{"cleanup", "backup"}, s.Jobs())
	assert.Len(t, s.cron.Entries(), 2)
}

func TestRunNow(t *testing.T) {
	s := New(zerolog.Nop())
	job := &countingJob{name: "now", err: errors.New("failed")}

	err := s.RunNow(job)
	assert.EqualError(t, err, "failed")
	assert.Equal(t, int32(1), job.runs.Load())
}

func TestScheduledJobRuns(t *testing.T) {
	s := New(zerolog.Nop())
	ok := &countingJob{name: "ok"}
	failing := &countingJob{name: "failing", err: errors.New("nope")}
	panicking := &countingJob{name: "panicking", panic: true}

	require.NoError(t, s.AddJob("@every 1s", ok))
	require.NoError(t, s.AddJob("@every 1s", failing))
	require.NoError(t, s.AddJob("@every 1s", panicking))

	s.Start()
	defer s.Stop()

	assert.Eventually(t, func() bool {
		return ok.runs.Load() > 0 && failing.runs.Load() > 0 && panicking.runs.Load() > 0
	}, 3*time.Second, 50*time.Millisecond)
}
