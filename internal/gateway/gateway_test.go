package gateway

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pawan09032004/planwise/internal/checklist"
)

type mockSaver struct {
	saveFunc func(ctx context.Context, projectID int64, tasks []checklist.Task) error
	calls    int32
}

func (m *mockSaver) SaveChecklist(ctx context.Context, projectID int64, tasks []checklist.Task) error {
	atomic.AddInt32(&m.calls, 1)
	return m.saveFunc(ctx, projectID, tasks)
}

func newTestGateway(t *testing.T, saver Saver, opts ...Option) *Gateway {
	t.Helper()
	store, err := NewOverrideStore(t.TempDir())
	require.NoError(t, err)

	opts = append(opts,
		withSleep(func(time.Duration) {}),
		withSchedule(func(time.Duration, func()) {}),
	)
	return NewGateway(7, saver, store, opts...)
}

func TestToggleTransientFailureThenSuccess(t *testing.T) {
	saver := &mockSaver{}
	saver.saveFunc = func(ctx context.Context, projectID int64, tasks []checklist.Task) error {
		if atomic.LoadInt32(&saver.calls) == 1 {
			return &StatusError{Status: 500}
		}
		return nil
	}

	g := newTestGateway(t, saver)
	tasks := []checklist.Task{{ID: "a", Title: "One"}, {ID: "b", Title: "Two"}}

	updated := g.Toggle(context.Background(), tasks, "a")
	g.Wait()

	assert.True(t, updated[0].Completed)
	assert.Equal(t, int32(2), atomic.LoadInt32(&saver.calls))
	assert.Equal(t, StateSaved, g.Status().State)
}

func TestTogglePermissionDeniedFailsWithoutRetry(t *testing.T) {
	saver := &mockSaver{
		saveFunc: func(ctx context.Context, projectID int64, tasks []checklist.Task) error {
			return &StatusError{Status: 403}
		},
	}

	g := newTestGateway(t, saver)
	updated := g.Toggle(context.Background(), []checklist.Task{{ID: "a"}}, "a")
	g.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&saver.calls))
	status := g.Status()
	assert.Equal(t, StateFailed, status.State)
	assert.Contains(t, status.Message, "permission")
	// The optimistic state survives the failure.
	assert.True(t, updated[0].Completed)
}

func TestToggleNotFoundKeepsLocalState(t *testing.T) {
	saver := &mockSaver{
		saveFunc: func(ctx context.Context, projectID int64, tasks []checklist.Task) error {
			return &StatusError{Status: 404}
		},
	}

	g := newTestGateway(t, saver)
	g.Toggle(context.Background(), []checklist.Task{{ID: "a"}}, "a")
	g.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&saver.calls))
	status := g.Status()
	assert.Equal(t, StateFailed, status.State)
	assert.Contains(t, status.Message, "no longer exists")
}

func TestToggleExhaustsRetriesOnServerError(t *testing.T) {
	saver := &mockSaver{
		saveFunc: func(ctx context.Context, projectID int64, tasks []checklist.Task) error {
			return &StatusError{Status: 503}
		},
	}

	g := newTestGateway(t, saver)
	g.Toggle(context.Background(), []checklist.Task{{ID: "a"}}, "a")
	g.Wait()

	// Initial attempt plus two retries.
	assert.Equal(t, int32(3), atomic.LoadInt32(&saver.calls))
	assert.Equal(t, StateFailed, g.Status().State)
}

func TestSavedIndicatorReturnsToIdle(t *testing.T) {
	saver := &mockSaver{
		saveFunc: func(ctx context.Context, projectID int64, tasks []checklist.Task) error {
			return nil
		},
	}

	var held []func()
	store, err := NewOverrideStore(t.TempDir())
	require.NoError(t, err)
	g := NewGateway(7, saver, store,
		withSleep(func(time.Duration) {}),
		withSchedule(func(_ time.Duration, fn func()) { held = append(held, fn) }),
	)

	g.Toggle(context.Background(), []checklist.Task{{ID: "a"}}, "a")
	g.Wait()
	require.Equal(t, StateSaved, g.Status().State)

	require.Len(t, held, 1)
	held[0]()
	assert.Equal(t, StateIdle, g.Status().State)
}

func TestCloseSuppressesLateTransitions(t *testing.T) {
	release := make(chan struct{})
	saver := &mockSaver{
		saveFunc: func(ctx context.Context, projectID int64, tasks []checklist.Task) error {
			<-release
			return nil
		},
	}

	var transitions []State
	g := newTestGateway(t, saver, WithOnChange(func(s Status) {
		transitions = append(transitions, s.State)
	}))

	g.Toggle(context.Background(), []checklist.Task{{ID: "a"}}, "a")
	g.Close()
	close(release)
	g.Wait()

	// Only the synchronous transition to saving was observed.
	assert.Equal(t, []State{StateSaving}, transitions)
}

func TestToggleRoundTripThroughStore(t *testing.T) {
	saver := &mockSaver{
		saveFunc: func(ctx context.Context, projectID int64, tasks []checklist.Task) error {
			return nil
		},
	}
	store, err := NewOverrideStore(t.TempDir())
	require.NoError(t, err)
	g := NewGateway(7, saver, store,
		withSleep(func(time.Duration) {}),
		withSchedule(func(time.Duration, func()) {}),
	)

	fresh := []checklist.Task{{ID: "a", Title: "One"}, {ID: "b", Title: "Two"}}
	g.Toggle(context.Background(), fresh, "b")
	g.Wait()

	// A later load of the same fresh list picks the override back up.
	merged := g.LoadTasks(fresh)
	require.Len(t, merged, 2)
	assert.False(t, merged[0].Completed)
	assert.True(t, merged[1].Completed)
}

func TestLoadTasksDropsStaleOverrides(t *testing.T) {
	store, err := NewOverrideStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Save(7, []checklist.Task{
		{ID: "gone", Completed: true},
		{ID: "b", Completed: true},
	}))

	g := NewGateway(7, nil, store)
	merged := g.LoadTasks([]checklist.Task{{ID: "a"}, {ID: "b"}})
	require.Len(t, merged, 2)
	assert.Equal(t, checklist.ID("a"), merged[0].ID)
	assert.False(t, merged[0].Completed)
	assert.True(t, merged[1].Completed)
}
