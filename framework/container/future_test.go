package container_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-ioc/framework/container"
)

// pendingFuture returns a future that settles with v when gate closes.
func pendingFuture(c *container.Container, name string, v any) (fut *container.Future, gate chan struct{}) {
	gate = make(chan struct{})
	c.Singleton(name, func(_ context.Context, _ *container.Container, _ ...any) (any, error) {
		<-gate
		return v, nil
	})
	return c.Get(context.Background(), name), gate
}

// TestAwait_ContextCancellation verifies cancellation abandons the wait
// without settling the future.
func TestAwait_ContextCancellation(t *testing.T) {
	t.Parallel()

	c, _ := newContainer()
	fut, gate := pendingFuture(c, "slow", "done")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := fut.Await(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, fut.Settled())

	// The factory still settles for patient waiters.
	close(gate)
	got, err := fut.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "done", got)
}

// TestAwait_AllWaitersSeeSameValue verifies fan-out: every waiter of one
// future observes the identical outcome.
func TestAwait_AllWaitersSeeSameValue(t *testing.T) {
	t.Parallel()

	c, _ := newContainer()
	v := &widget{Label: "shared"}
	fut, gate := pendingFuture(c, "shared", v)

	type outcome struct {
		v   any
		err error
	}
	results := make(chan outcome, 8)
	for i := 0; i < 8; i++ {
		go func() {
			got, err := fut.Await(context.Background())
			results <- outcome{got, err}
		}()
	}
	close(gate)

	for i := 0; i < 8; i++ {
		out := <-results
		require.NoError(t, out.err)
		require.Same(t, v, out.v)
	}
}

// TestDone_SelectableChannel verifies Done closes when the future settles.
func TestDone_SelectableChannel(t *testing.T) {
	t.Parallel()

	c, _ := newContainer()
	fut, gate := pendingFuture(c, "svc", 1)

	select {
	case <-fut.Done():
		t.Fatal("Done() closed before the factory settled")
	default:
	}

	close(gate)
	select {
	case <-fut.Done():
	case <-time.After(time.Second):
		t.Fatal("Done() never closed")
	}
	assert.True(t, fut.Settled())
}

// TestAwaitGeneric_TypeAssertion covers the typed helper on both paths.
func TestAwaitGeneric_TypeAssertion(t *testing.T) {
	t.Parallel()

	c, _ := newContainer()
	ctx := context.Background()
	c.Instance("n", 7)

	n, err := container.Await[int](ctx, c.Get(ctx, "n"))
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	_, err = container.Await[string](ctx, c.Get(ctx, "n"))
	var terr *container.TypeError
	require.ErrorAs(t, err, &terr)
}
