package memory

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventDeduplicator_FirstSeen(t *testing.T) {
	d, err := NewEventDeduplicator(10)
	require.NoError(t, err)
	ctx := context.Background()

	ok, err := d.ShouldProcess(ctx, "Ev1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = d.ShouldProcess(ctx, "Ev1")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, _ = d.ShouldProcess(ctx, "Ev2")
	assert.True(t, ok)
}

func TestEventDeduplicator_EvictsOldestFirst(t *testing.T) {
	d, err := NewEventDeduplicator(3)
	require.NoError(t, err)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		ok, _ := d.ShouldProcess(ctx, id)
		require.True(t, ok)
	}
	// seeing "a" again must not refresh it
	ok, _ := d.ShouldProcess(ctx, "a")
	require.False(t, ok)

	ok, _ = d.ShouldProcess(ctx, "d")
	require.True(t, ok)

	n, _ := d.Len(ctx)
	assert.Equal(t, 3, n)

	ok, _ = d.ShouldProcess(ctx, "a")
	assert.True(t, ok, "oldest id should have been evicted")

	ok, _ = d.ShouldProcess(ctx, "c")
	assert.False(t, ok, "newer id should still be remembered")
}

func TestEventDeduplicator_BoundedAtDefaultCapacity(t *testing.T) {
	d, err := NewEventDeduplicator(0)
	require.NoError(t, err)
	ctx := context.Background()

	for i := 0; i < DefaultCapacity+250; i++ {
		_, _ = d.ShouldProcess(ctx, fmt.Sprintf("Ev%d", i))
	}

	n, _ := d.Len(ctx)
	assert.Equal(t, DefaultCapacity, n)

	ok, _ := d.ShouldProcess(ctx, fmt.Sprintf("Ev%d", DefaultCapacity+249))
	assert.False(t, ok)
}

func TestEventDeduplicator_ConcurrentSameID(t *testing.T) {
	d, err := NewEventDeduplicator(100)
	require.NoError(t, err)
	ctx := context.Background()

	var processed atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := d.ShouldProcess(ctx, "Ev-race"); ok {
				processed.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), processed.Load())
}
