package ty

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetLazy(t *testing.T) {
	t.Run("computes once", func(t *testing.T) {
		calls := 0
		l := GetLazy(func() (string, error) {
			calls++
			return "value", nil
		})

		for i := 0; i < 3; i++ {
			v, err := l()
			require.NoError(t, err)
			assert.Equal(t, "value", v)
		}
		assert.Equal(t, 1, calls)
	})

	t.Run("errors are retried", func(t *testing.T) {
		calls := 0
		l := GetLazy(func() (int, error) {
			calls++
			if calls == 1 {
				return 0, errors.New("boom")
			}
			return 42, nil
		})

		_, err := l()
		assert.Error(t, err)
		v, err := l()
		require.NoError(t, err)
		assert.Equal(t, 42, v)
		assert.Equal(t, 2, calls)
	})

	t.Run("concurrent callers", func(t *testing.T) {
		var mu sync.Mutex
		calls := 0
		l := GetLazy(func() (int, error) {
			mu.Lock()
			calls++
			mu.Unlock()
			return 1, nil
		})

		var wg sync.WaitGroup
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, _ = l()
			}()
		}
		wg.Wait()
		assert.Equal(t, 1, calls)
	})
}

func TestLazyMap(t *testing.T) {
	lm := LazyMap[string, int]{
		"one": GetLazy(func() (int, error) { return 1, nil }),
	}

	v, err := lm.Get("one")
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	_, err = lm.Get("two")
	assert.ErrorIs(t, err, ErrLazyNotFound)
	assert.Contains(t, err.Error(), "two")
}
