package ledger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectionLifecycle(t *testing.T) {
	c := NewCollection[int]()
	assert.Equal(t, Uninitialized, c.State())

	calls := 0
	fetch := func() ([]int, error) {
		calls++
		return []int{1, 2, 3}, nil
	}

	require.NoError(t, c.Initialize(fetch))
	assert.Equal(t, Ready, c.State())
	assert.Equal(t, []int{1, 2, 3}, c.Items())
	assert.Equal(t, 1, calls)

	// Second Initialize performs no fetch.
	require.NoError(t, c.Initialize(fetch))
	assert.Equal(t, 1, calls)
}

func TestCollectionInitializeFailureAllowsRetry(t *testing.T) {
	c := NewCollection[int]()
	boom := errors.New("boom")

	err := c.Initialize(func() ([]int, error) { return nil, boom })
	require.ErrorIs(t, err, boom)
	assert.Equal(t, Uninitialized, c.State())
	assert.ErrorIs(t, c.Err(), boom)

	require.NoError(t, c.Initialize(func() ([]int, error) { return []int{7}, nil }))
	assert.Equal(t, Ready, c.State())
	assert.NoError(t, c.Err())
}

func TestCollectionRefreshFailureKeepsItems(t *testing.T) {
	c := NewCollection[string]()
	require.NoError(t, c.Initialize(func() ([]string, error) { return []string{"a", "b"}, nil }))

	boom := errors.New("db down")
	err := c.Refresh(func() ([]string, error) { return nil, boom })
	require.ErrorIs(t, err, boom)

	assert.Equal(t, []string{"a", "b"}, c.Items())
	assert.Equal(t, Ready, c.State())
	assert.ErrorIs(t, c.Err(), boom)

	// A later successful refresh clears the error slot.
	require.NoError(t, c.Refresh(func() ([]string, error) { return []string{"c"}, nil }))
	assert.NoError(t, c.Err())
	assert.Equal(t, []string{"c"}, c.Items())
}

func TestCollectionFindAndMerge(t *testing.T) {
	c := NewCollection[int]()
	require.NoError(t, c.Initialize(func() ([]int, error) { return []int{10, 20, 30}, nil }))

	v, ok := c.Find(func(n int) bool { return n > 15 })
	require.True(t, ok)
	assert.Equal(t, 20, v)

	_, ok = c.Find(func(n int) bool { return n > 100 })
	assert.False(t, ok)

	c.Merge(func(n int) bool { return n == 20 }, 25)
	assert.Equal(t, []int{10, 25, 30}, c.Items())

	// Merge on a missing entry is a no-op.
	c.Merge(func(n int) bool { return n == 99 }, 1)
	assert.Equal(t, 3, c.Len())
}

func TestCollectionItemsReturnsCopy(t *testing.T) {
	c := NewCollection[int]()
	require.NoError(t, c.Initialize(func() ([]int, error) { return []int{1, 2}, nil }))

	items := c.Items()
	items[0] = 99
	assert.Equal(t, []int{1, 2}, c.Items())
}
