package cache

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "records/my", Key("records/my", nil))

	a := url.Values{}
	a.Set("passportSeriya", "AD")
	a.Set("passportCode", "123456")

	b := url.Values{}
	b.Set("passportCode", "123456")
	b.Set("passportSeriya", "AD")

	// Same parameters in any order produce the same key.
	assert.Equal(t, Key("records/search", a), Key("records/search", b))
	assert.Equal(t, "records/search?passportCode=123456&passportSeriya=AD", Key("records/search", a))
}

func TestGet_CachesSuccess(t *testing.T) {
	c := New(zap.NewNop())
	calls := 0

	fetch := func(context.Context) (any, error) {
		calls++
		return "value", nil
	}

	for i := 0; i < 3; i++ {
		v, err := c.Get(context.Background(), "k", fetch)
		require.NoError(t, err)
		require.Equal(t, "value", v)
	}
	assert.Equal(t, 1, calls, "cached reads must not refetch")

	e, ok := c.Entry("k")
	require.True(t, ok)
	assert.Equal(t, StatusSuccess, e.Status)
}

func TestGet_DeduplicatesConcurrentReads(t *testing.T) {
	c := New(zap.NewNop())

	var calls int32
	release := make(chan struct{})
	fetch := func(context.Context) (any, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return []string{"r1"}, nil
	}

	const readers = 5
	var wg sync.WaitGroup
	results := make([]any, readers)
	for i := 0; i < readers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := c.Get(context.Background(), "records/my", fetch)
			require.NoError(t, err)
			results[i] = v
		}(i)
	}

	// Let all readers attach to the flight before it completes.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "expected exactly one network request")
	for _, v := range results {
		assert.Equal(t, []string{"r1"}, v)
	}
}

func TestGet_ErrorSharedButNotStored(t *testing.T) {
	c := New(zap.NewNop())

	var calls int32
	release := make(chan struct{})
	boom := errors.New("server down")
	fetch := func(context.Context) (any, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return nil, boom
	}

	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.Get(context.Background(), "k", fetch)
			assert.ErrorIs(t, err, boom)
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	// Simultaneous identical reads shared one failure...
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	// ...but a later read refetches instead of replaying the error.
	v, err := c.Get(context.Background(), "k", func(context.Context) (any, error) {
		return "recovered", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "recovered", v)
}

func TestGet_AbandonedCallerStillPopulatesCache(t *testing.T) {
	c := New(zap.NewNop())

	release := make(chan struct{})
	done := make(chan struct{})
	fetch := func(context.Context) (any, error) {
		defer close(done)
		<-release
		return "late", nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := c.Get(ctx, "k", fetch)
	require.ErrorIs(t, err, context.Canceled)

	close(release)
	<-done
	// The flight finished after the caller left; give the cache write a beat.
	require.Eventually(t, func() bool {
		e, ok := c.Entry("k")
		return ok && e.Status == StatusSuccess
	}, time.Second, 10*time.Millisecond)

	v, err := c.Get(context.Background(), "k", func(context.Context) (any, error) {
		t.Fatal("should be served from cache")
		return nil, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "late", v)
}

func TestMutate_InvalidatesOnSuccess(t *testing.T) {
	c := New(zap.NewNop())
	fetches := 0

	list := func(context.Context) (any, error) {
		fetches++
		return fetches, nil
	}

	// Prime the list cache.
	v, err := c.Get(context.Background(), "records/my", list)
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	// A read served from cache immediately before the mutation.
	v, err = c.Get(context.Background(), "records/my", list)
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	err = c.Mutate(context.Background(), []string{"records/my"}, func(context.Context) error {
		return nil
	})
	require.NoError(t, err)

	// The next read reflects fresh data.
	v, err = c.Get(context.Background(), "records/my", list)
	require.NoError(t, err)
	assert.Equal(t, 2, v)
}

func TestMutate_FailureLeavesCacheAlone(t *testing.T) {
	c := New(zap.NewNop())

	_, err := c.Get(context.Background(), "records/my", func(context.Context) (any, error) {
		return "cached", nil
	})
	require.NoError(t, err)

	boom := errors.New("rejected")
	err = c.Mutate(context.Background(), []string{"records/my"}, func(context.Context) error {
		return boom
	})
	require.ErrorIs(t, err, boom)

	e, ok := c.Entry("records/my")
	require.True(t, ok)
	assert.Equal(t, StatusSuccess, e.Status)
}

func TestInvalidate_DuringFlightDiscardsStaleResult(t *testing.T) {
	c := New(zap.NewNop())

	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan struct{})

	go func() {
		defer close(done)
		v, err := c.Get(context.Background(), "records/my", func(context.Context) (any, error) {
			close(started)
			<-release
			return "pre-mutation", nil
		})
		// The waiter of the stale flight still gets its result.
		assert.NoError(t, err)
		assert.Equal(t, "pre-mutation", v)
	}()

	<-started
	err := c.Mutate(context.Background(), []string{"records/my"}, func(context.Context) error {
		return nil
	})
	require.NoError(t, err)

	close(release)
	<-done

	// The stale flight must not have repopulated the cache.
	v, err := c.Get(context.Background(), "records/my", func(context.Context) (any, error) {
		return "post-mutation", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "post-mutation", v)

	e, ok := c.Entry("records/my")
	require.True(t, ok)
	assert.Equal(t, "post-mutation", e.Data)
}

func TestInvalidate_DetachesInFlightFetch(t *testing.T) {
	c := New(zap.NewNop())

	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan struct{})

	go func() {
		defer close(done)
		_, _ = c.Get(context.Background(), "records/my", func(context.Context) (any, error) {
			close(started)
			<-release
			return "stale", nil
		})
	}()

	<-started
	c.Invalidate("records/my")

	// A read issued after the invalidation starts its own fetch instead
	// of attaching to the detached flight.
	v, err := c.Get(context.Background(), "records/my", func(context.Context) (any, error) {
		return "fresh", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "fresh", v)

	close(release)
	<-done

	// The detached flight finishing late must not overwrite the fresh entry.
	e, ok := c.Entry("records/my")
	require.True(t, ok)
	assert.Equal(t, "fresh", e.Data)
}

func TestInvalidateAll_DuringFlightDiscardsStaleResult(t *testing.T) {
	c := New(zap.NewNop())

	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan struct{})

	go func() {
		defer close(done)
		_, _ = c.Get(context.Background(), "records/my", func(context.Context) (any, error) {
			close(started)
			<-release
			return "stale", nil
		})
	}()

	<-started
	c.InvalidateAll()
	close(release)
	<-done

	_, ok := c.Entry("records/my")
	assert.False(t, ok, "stale flight must not repopulate after a full invalidation")
}

func TestInvalidate_NotifiesSubscribers(t *testing.T) {
	c := New(zap.NewNop())

	var mu sync.Mutex
	var seen []string
	unsub := c.Subscribe(func(key string) {
		mu.Lock()
		seen = append(seen, key)
		mu.Unlock()
	})

	c.Invalidate("records/my")
	unsub()
	c.Invalidate("records/my")

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"records/my"}, seen)
}

func TestInvalidateAll(t *testing.T) {
	c := New(zap.NewNop())

	for _, key := range []string{"a", "b"} {
		_, err := c.Get(context.Background(), key, func(context.Context) (any, error) {
			return key, nil
		})
		require.NoError(t, err)
	}

	c.InvalidateAll()

	_, ok := c.Entry("a")
	assert.False(t, ok)
	_, ok = c.Entry("b")
	assert.False(t, ok)
}

func TestFetch_Typed(t *testing.T) {
	c := New(zap.NewNop())

	got, err := Fetch(context.Background(), c, "k", func(context.Context) ([]int, error) {
		return []int{1, 2}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, got)

	// Served from cache with the same type.
	got, err = Fetch(context.Background(), c, "k", func(context.Context) ([]int, error) {
		t.Fatal("should not refetch")
		return nil, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, got)
}

func TestFetch_TypeMismatchIsAnError(t *testing.T) {
	c := New(zap.NewNop())

	_, err := Fetch(context.Background(), c, "k", func(context.Context) (string, error) {
		return "value", nil
	})
	require.NoError(t, err)

	// Reusing a key with a different result type is a wiring bug and must
	// not be masked by a silent zero value.
	_, err = Fetch(context.Background(), c, "k", func(context.Context) (int, error) {
		return 0, nil
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"k"`)
}
