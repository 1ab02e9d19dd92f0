package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/growthroom/growthbrief/pkg/config"
	"github.com/growthroom/growthbrief/pkg/logger"
)

type fakeJob struct {
	name     string
	schedule string
	runs     atomic.Int32
	failures int32
}

func (j *fakeJob) Name() string     { return j.name }
func (j *fakeJob) Schedule() string { return j.schedule }

func (j *fakeJob) Run(ctx context.Context) error {
	n := j.runs.Add(1)
	if n <= j.failures {
		return errors.New("transient failure")
	}
	return nil
}

func testScheduler() *Scheduler {
	s := New(logger.New(&config.Config{Env: "development", LogLevel: "error", LogFormat: "json"}))
	s.retryDelay = time.Millisecond
	return s
}

func TestAddJobRejectsDuplicates(t *testing.T) {
	s := testScheduler()

	require.NoError(t, s.AddJob(&fakeJob{name: "sync", schedule: "@daily"}))
	err := s.AddJob(&fakeJob{name: "sync", schedule: "@hourly"})
	assert.Error(t, err)
}

func TestAddJobRejectsBadSchedule(t *testing.T) {
	s := testScheduler()

	err := s.AddJob(&fakeJob{name: "sync", schedule: "not a cron spec"})
	assert.Error(t, err)
}

func TestRunNow(t *testing.T) {
	s := testScheduler()
	job := &fakeJob{name: "sync", schedule: "0 30 17 * * MON-FRI"}
	require.NoError(t, s.AddJob(job))

	require.NoError(t, s.RunNow("sync"))

	require.Eventually(t, func() bool {
		return job.runs.Load() == 1
	}, 2*time.Second, 10*time.Millisecond)

	require.Eventually(t, func() bool {
		history, err := s.History("sync")
		if err != nil {
			return false
		}
		_, ok := history.Latest()
		return ok
	}, 2*time.Second, 10*time.Millisecond)

	history, err := s.History("sync")
	require.NoError(t, err)
	latest, _ := history.Latest()
	assert.True(t, latest.Success)
	assert.Equal(t, "sync", latest.JobName)
}

func TestRunNowUnknownJob(t *testing.T) {
	s := testScheduler()
	assert.Error(t, s.RunNow("ghost"))
}

func TestJobRetriesUntilSuccess(t *testing.T) {
	s := testScheduler()
	job := &fakeJob{name: "flaky", schedule: "@daily", failures: 2}
	require.NoError(t, s.AddJob(job))

	require.NoError(t, s.RunNow("flaky"))

	require.Eventually(t, func() bool {
		history, err := s.History("flaky")
		if err != nil {
			return false
		}
		latest, ok := history.Latest()
		return ok && latest.Success
	}, 2*time.Second, 10*time.Millisecond)

	assert.Equal(t, int32(3), job.runs.Load())
}

func TestJobFailsAfterRetryBudget(t *testing.T) {
	s := testScheduler()
	job := &fakeJob{name: "broken", schedule: "@daily", failures: 100}
	require.NoError(t, s.AddJob(job))

	require.NoError(t, s.RunNow("broken"))

	require.Eventually(t, func() bool {
		history, err := s.History("broken")
		if err != nil {
			return false
		}
		latest, ok := history.Latest()
		return ok && !latest.Success
	}, 2*time.Second, 10*time.Millisecond)

	history, _ := s.History("broken")
	latest, _ := history.Latest()
	assert.Equal(t, "transient failure", latest.Error)
	assert.Equal(t, int32(4), job.runs.Load())
	assert.Equal(t, 0.0, history.SuccessRate())
}

func TestHistoryCap(t *testing.T) {
	h := &JobHistory{}
	for i := 0; i < historyCap+20; i++ {
		h.Add(JobResult{JobName: "sync", Success: i%2 == 0})
	}
	assert.Len(t, h.Results, historyCap)
}

func TestJobsListsRegisteredNames(t *testing.T) {
	s := testScheduler()
	require.NoError(t, s.AddJob(&fakeJob{name: "a", schedule: "@daily"}))
	require.NoError(t, s.AddJob(&fakeJob{name: "b", schedule: "@hourly"}))

	assert.ElementsMatch(t, []string{"a", "b"}, s.Jobs())
}
