package upload

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moyoez/zipconsole/types"
)

type bodyError struct {
	body any
}

func (e *bodyError) Error() string     { return "server said no" }
func (e *bodyError) ResponseBody() any { return e.body }

func queued(t *testing.T, c *Controller, names ...string) {
	t.Helper()
	rej, err := c.ValidateAndSetQueue(types.InputSourcePicker, candidates(names...))
	require.NoError(t, err)
	require.Equal(t, len(names), rej.Accepted)
}

func TestStartAllSucceed(t *testing.T) {
	c := NewController(Options{})
	queued(t, c, "1.zip", "2.zip", "3.zip", "4.zip")

	out, err := c.Start(context.Background(), func(ctx context.Context, item types.QueueItem) (any, error) {
		return "ok-" + item.Name, nil
	})
	require.NoError(t, err)
	require.Len(t, out, 4)
	for i, o := range out {
		assert.Equal(t, fmt.Sprintf("%d.zip", i+1), o.FileName)
		assert.Equal(t, types.OutcomeSucceeded, o.Status)
		assert.Equal(t, "ok-"+o.FileName, o.Data)
		assert.Nil(t, o.Error)
	}

	s := c.Snapshot()
	assert.False(t, s.IsRunning)
	assert.True(t, IsAllSuccessful(s))
	assert.Equal(t, out, s.Outcomes)
}

func TestStartFailuresDoNotAbort(t *testing.T) {
	c := NewController(Options{})
	queued(t, c, "0.zip", "1.zip", "2.zip", "3.zip", "4.zip", "5.zip", "6.zip")

	var calls atomic.Int32
	out, err := c.Start(context.Background(), func(ctx context.Context, item types.QueueItem) (any, error) {
		calls.Add(1)
		if item.Name == "2.zip" || item.Name == "5.zip" {
			return nil, errors.New("boom")
		}
		return "ok", nil
	})
	require.NoError(t, err)
	assert.EqualValues(t, 7, calls.Load())
	require.Len(t, out, 7)
	for i, o := range out {
		if i == 2 || i == 5 {
			assert.Equal(t, types.OutcomeFailed, o.Status, "position %d", i)
			require.NotNil(t, o.Error)
			assert.Equal(t, "boom", o.Error.Message)
			assert.Nil(t, o.Data)
			continue
		}
		assert.Equal(t, types.OutcomeSucceeded, o.Status, "position %d", i)
	}
	assert.False(t, IsAllSuccessful(c.Snapshot()))
}

func TestStartEmptyQueue(t *testing.T) {
	sink := &notifySink{}
	var sawRunning atomic.Bool
	c := NewController(Options{
		Notify: sink.add,
		OnChange: func(s types.RunState) {
			if s.IsRunning {
				sawRunning.Store(true)
			}
		},
	})

	out, err := c.Start(context.Background(), func(ctx context.Context, item types.QueueItem) (any, error) {
		t.Fatal("upload must not be called")
		return nil, nil
	})
	assert.ErrorIs(t, err, ErrNoFiles)
	assert.Empty(t, out)
	assert.False(t, sawRunning.Load())
	assert.False(t, c.IsRunning())

	notices := sink.ofType(types.NotifyTypeNoFiles)
	require.Len(t, notices, 1)
	assert.Equal(t, "Please select .zip files to upload", notices[0].Message)
	assert.Equal(t, types.NotifyLevelInfo, notices[0].Level)
}

func TestStartWhileRunningIsNoop(t *testing.T) {
	c := NewController(Options{})
	queued(t, c, "a.zip", "b.zip")

	entered := make(chan struct{})
	release := make(chan struct{})
	var calls atomic.Int32
	uploadOne := func(ctx context.Context, item types.QueueItem) (any, error) {
		if calls.Add(1) == 1 {
			close(entered)
			<-release
		}
		return "ok", nil
	}

	done := make(chan []types.UploadOutcome, 1)
	go func() {
		out, err := c.Start(context.Background(), uploadOne)
		assert.NoError(t, err)
		done <- out
	}()
	<-entered

	out, err := c.Start(context.Background(), uploadOne)
	assert.ErrorIs(t, err, ErrAlreadyRunning)
	assert.Nil(t, out)

	assert.ErrorIs(t, c.Reset(), ErrAlreadyRunning)
	_, err = c.ValidateAndSetQueue(types.InputSourcePicker, candidates("z.zip"))
	assert.ErrorIs(t, err, ErrAlreadyRunning)

	close(release)
	first := <-done
	assert.Len(t, first, 2)
	assert.EqualValues(t, 2, calls.Load())
	assert.Len(t, c.Snapshot().Outcomes, 2)
	assert.Equal(t, "a.zip", c.Snapshot().Queue[0].Name)
}

func TestCurrentIndexAdvancesByOne(t *testing.T) {
	c := NewController(Options{})
	queued(t, c, "a.zip", "b.zip", "c.zip", "d.zip")

	var seen []int
	var outcomesBefore []int
	_, err := c.Start(context.Background(), func(ctx context.Context, item types.QueueItem) (any, error) {
		s := c.Snapshot()
		assert.True(t, s.IsRunning)
		seen = append(seen, s.CurrentIndex)
		outcomesBefore = append(outcomesBefore, len(s.Outcomes))
		assert.Equal(t, types.DisplayUploading, ItemDisplayStatus(s, s.CurrentIndex))
		return nil, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3}, seen)
	assert.Equal(t, []int{0, 1, 2, 3}, outcomesBefore, "attempt i+1 starts after outcome i is recorded")
}

func TestNoTwoAttemptsInFlight(t *testing.T) {
	c := NewController(Options{})
	queued(t, c, "a.zip", "b.zip", "c.zip")

	var inFlight, maxInFlight atomic.Int32
	_, err := c.Start(context.Background(), func(ctx context.Context, item types.QueueItem) (any, error) {
		n := inFlight.Add(1)
		defer inFlight.Add(-1)
		if n > maxInFlight.Load() {
			maxInFlight.Store(n)
		}
		time.Sleep(5 * time.Millisecond)
		return nil, nil
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, maxInFlight.Load())
}

func TestConcreteScenario(t *testing.T) {
	sink := &notifySink{}
	c := NewController(Options{Notify: sink.add})

	rej, err := c.ValidateAndSetQueue(types.InputSourcePicker, candidates("a.zip", "b.txt", "c.zip"))
	require.NoError(t, err)
	assert.Equal(t, []string{"b.txt"}, rej.Rejected)
	assert.Equal(t, "Only .zip files allowed. Ignored: b.txt", sink.ofType(types.NotifyTypeQueueRejected)[0].Message)

	out, err := c.Start(context.Background(), func(ctx context.Context, item types.QueueItem) (any, error) {
		if item.Name == "a.zip" {
			return "ok1", nil
		}
		return nil, errors.New("boom")
	})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, types.UploadOutcome{FileName: "a.zip", Status: types.OutcomeSucceeded, Data: "ok1"}, out[0])
	assert.Equal(t, "c.zip", out[1].FileName)
	assert.Equal(t, types.OutcomeFailed, out[1].Status)
	assert.Equal(t, "boom", out[1].Error.Summary())

	report := AggregateReport(out)
	assert.Equal(t, "1/2 files failed to upload", report.Message)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, 2, report.Total)
}

func TestStartRecordsStructuredBody(t *testing.T) {
	c := NewController(Options{})
	queued(t, c, "a.zip")

	body := map[string]any{"error": "duplicate archive"}
	out, err := c.Start(context.Background(), func(ctx context.Context, item types.QueueItem) (any, error) {
		return nil, fmt.Errorf("upload a.zip: %w", &bodyError{body: body})
	})
	require.NoError(t, err)
	require.NotNil(t, out[0].Error)
	assert.Equal(t, types.FailureBody, out[0].Error.Kind)
	assert.Equal(t, body, out[0].Error.Body)
	assert.Equal(t, "duplicate archive", out[0].Error.Summary())
}

func TestStartRecoversPanics(t *testing.T) {
	c := NewController(Options{})
	queued(t, c, "a.zip", "b.zip")

	out, err := c.Start(context.Background(), func(ctx context.Context, item types.QueueItem) (any, error) {
		if item.Name == "a.zip" {
			panic(42)
		}
		return "ok", nil
	})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, types.FailureRaw, out[0].Error.Kind)
	assert.Equal(t, "42", out[0].Error.Raw)
	assert.Equal(t, types.OutcomeSucceeded, out[1].Status)
	assert.False(t, c.IsRunning())
}

func TestItemTimeout(t *testing.T) {
	c := NewController(Options{ItemTimeout: 20 * time.Millisecond})
	queued(t, c, "slow.zip", "fast.zip")

	out, err := c.Start(context.Background(), func(ctx context.Context, item types.QueueItem) (any, error) {
		if item.Name == "slow.zip" {
			<-ctx.Done()
			return nil, ctx.Err()
		}
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, types.OutcomeFailed, out[0].Status)
	assert.Contains(t, out[0].Error.Message, "deadline exceeded")
	assert.Equal(t, types.OutcomeSucceeded, out[1].Status)
}

type countingRecorder struct {
	mu       sync.Mutex
	started  int
	finished map[types.OutcomeStatus]int
	rejected int
}

func (r *countingRecorder) StartItem() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.started++
}

func (r *countingRecorder) FinishItem(_ time.Duration, status types.OutcomeStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.finished == nil {
		r.finished = map[types.OutcomeStatus]int{}
	}
	r.finished[status]++
}

func (r *countingRecorder) ObserveRejected(count int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rejected += count
}

func TestRecorderSeesEveryAttempt(t *testing.T) {
	rec := &countingRecorder{}
	c := NewController(Options{Recorder: rec})
	_, err := c.ValidateAndSetQueue(types.InputSourcePicker, candidates("a.zip", "b.doc", "c.zip"))
	require.NoError(t, err)

	_, err = c.Start(context.Background(), func(ctx context.Context, item types.QueueItem) (any, error) {
		if item.Name == "c.zip" {
			panic("kaput")
		}
		return nil, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, rec.started)
	assert.Equal(t, 1, rec.finished[types.OutcomeSucceeded])
	assert.Equal(t, 1, rec.finished[types.OutcomeFailed])
	assert.Equal(t, 1, rec.rejected)
}

func TestNotificationsDuringRun(t *testing.T) {
	sink := &notifySink{}
	c := NewController(Options{Notify: sink.add})
	queued(t, c, "a.zip", "b.zip")

	_, err := c.Start(context.Background(), func(ctx context.Context, item types.QueueItem) (any, error) {
		return nil, nil
	})
	require.NoError(t, err)
	require.Len(t, sink.ofType(types.NotifyTypeUploadStart), 1)
	items := sink.ofType(types.NotifyTypeUploadItem)
	require.Len(t, items, 2)
	assert.Equal(t, "a.zip", items[0].Data["fileName"])
	assert.Equal(t, "b.zip", items[1].Data["fileName"])
}

func TestStartNilUploadFunc(t *testing.T) {
	c := NewController(Options{})
	queued(t, c, "a.zip")
	_, err := c.Start(context.Background(), nil)
	assert.Error(t, err)
	assert.False(t, c.IsRunning())
}
