package watch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscribeDeliversCurrentValueFirst(t *testing.T) {
	v := NewValue("initial")

	ch, cancel := v.Subscribe()
	defer cancel()

	require.Equal(t, "initial", <-ch)

	v.Set("next")
	assert.Equal(t, "next", <-ch)
	assert.Equal(t, "next", v.Get())
}

func TestSlowSubscriberSeesNewestValueOnly(t *testing.T) {
	v := NewValue(0)

	ch, cancel := v.Subscribe()
	defer cancel()

	// Nothing consumed the initial snapshot; rapid updates conflate.
	v.Set(1)
	v.Set(2)
	v.Set(3)

	assert.Equal(t, 3, <-ch)
}

func TestUpdateIsAtomic(t *testing.T) {
	v := NewValue(10)

	v.Update(func(n int) int { return n + 5 })
	assert.Equal(t, 15, v.Get())
}

func TestCancelIsIdempotent(t *testing.T) {
	v := NewValue("x")

	ch, cancel := v.Subscribe()
	<-ch
	cancel()
	cancel()

	// A cancelled subscription no longer receives updates.
	v.Set("y")
	_, open := <-ch
	assert.False(t, open)
}

func TestMultipleSubscribers(t *testing.T) {
	v := NewValue(1)

	first, cancelFirst := v.Subscribe()
	second, cancelSecond := v.Subscribe()
	defer cancelFirst()
	defer cancelSecond()

	assert.Equal(t, 1, <-first)
	assert.Equal(t, 1, <-second)

	v.Set(2)
	assert.Equal(t, 2, <-first)
	assert.Equal(t, 2, <-second)
}
