package stage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"carousel/internal/gesture"
)

type presentCall struct{ old, new int }

// spyPresenter records Present calls and reports the last shown index as active
type spyPresenter struct {
	calls   []presentCall
	showing int
}

func newSpy() *spyPresenter { return &spyPresenter{showing: -1} }

func (p *spyPresenter) Present(oldOffset, newOffset int) {
	p.calls = append(p.calls, presentCall{oldOffset, newOffset})
	p.showing = newOffset
}

func (p *spyPresenter) IsShowing(index int) bool { return p.showing == index }

func newTestController(t *testing.T, n int, cfg Config) (*Controller, *spyPresenter, *TaskQueue) {
	t.Helper()
	spy := newSpy()
	queue := NewTaskQueue()
	return NewController(n, cfg, spy, queue, nil, zaptest.NewLogger(t)), spy, queue
}

func revealed(t *testing.T, n int, cfg Config) (*Controller, *spyPresenter) {
	t.Helper()
	c, spy, queue := newTestController(t, n, cfg)
	c.RequestInitialReveal()
	require.Equal(t, 1, queue.Drain())
	require.Equal(t, 0, c.Offset())
	return c, spy
}

func TestController_OffsetStaysInRange(t *testing.T) {
	for _, mode := range []WrapPolicy{Wrap, Clamp} {
		c, _ := revealed(t, 4, Config{Mode: mode, Autostart: true})
		steps := []func(){c.Advance, c.Advance, c.Retreat, c.Advance, c.Advance, c.Advance, c.Advance,
			c.Retreat, c.Retreat, c.Retreat, c.Retreat, c.Retreat, c.Retreat}
		for _, step := range steps {
			step()
			assert.GreaterOrEqual(t, c.Offset(), 0, mode)
			assert.Less(t, c.Offset(), 4, mode)
		}
	}
}

func TestController_WrapBoundaries(t *testing.T) {
	c, _ := revealed(t, 3, Config{Mode: Wrap, Autostart: true})

	c.Retreat()
	assert.Equal(t, 2, c.Offset())
	c.Advance()
	assert.Equal(t, 0, c.Offset())
}

func TestController_ClampBoundaries(t *testing.T) {
	c, spy := revealed(t, 3, Config{Mode: Clamp, Autostart: true})

	c.Retreat()
	assert.Equal(t, 0, c.Offset())
	assert.Len(t, spy.calls, 1, "clamped retreat at 0 does not sync")

	c.Advance()
	c.Advance()
	c.Advance()
	assert.Equal(t, 2, c.Offset())
	assert.Equal(t, []presentCall{{-1, 0}, {0, 1}, {1, 2}}, spy.calls)
}

func TestController_SingleSlideNeverSyncs(t *testing.T) {
	c, spy := revealed(t, 1, Config{Mode: Wrap, Autostart: true})

	c.Advance()
	c.Retreat()
	assert.Equal(t, 0, c.Offset())
	assert.Equal(t, []presentCall{{-1, 0}}, spy.calls)
}

func TestController_ZeroSlidesIsInert(t *testing.T) {
	c, spy, queue := newTestController(t, 0, DefaultConfig())

	c.RequestInitialReveal()
	queue.Drain()
	c.Advance()
	c.Retreat()
	c.OnGestureBegin()
	c.OnGestureEnd()

	assert.Equal(t, -1, c.Offset())
	assert.Empty(t, spy.calls)
}

func TestController_NegativeCount(t *testing.T) {
	c, _, _ := newTestController(t, -3, DefaultConfig())
	assert.Equal(t, 0, c.NumSlides())
}

func TestController_GestureEndMapping(t *testing.T) {
	tests := []struct {
		name string
		dir  gesture.Direction
		want int
	}{
		{"left advances", gesture.DirectionLeft, 2},
		{"right retreats", gesture.DirectionRight, 0},
		{"no direction retreats", gesture.DirectionNone, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := revealed(t, 5, Config{Mode: Clamp, Autostart: true})
			c.Advance()
			require.Equal(t, 1, c.Offset())

			c.OnGestureBegin()
			if tt.dir != gesture.DirectionNone {
				c.OnGestureDirection(tt.dir)
			}
			c.OnGestureEnd()

			assert.Equal(t, tt.want, c.Offset())
		})
	}
}

func TestController_GestureEndWithoutBeginIgnored(t *testing.T) {
	c, spy := revealed(t, 3, DefaultConfig())

	c.OnGestureDirection(gesture.DirectionLeft)
	c.OnGestureEnd()

	assert.Equal(t, 0, c.Offset())
	assert.Len(t, spy.calls, 1)
}

func TestController_DirectionDoesNotLeakAcrossGestures(t *testing.T) {
	c, _ := revealed(t, 5, Config{Mode: Clamp, Autostart: true})

	c.OnGestureBegin()
	c.OnGestureDirection(gesture.DirectionLeft)
	c.OnGestureEnd()
	require.Equal(t, 1, c.Offset())

	// a plain press and release carries no direction
	c.OnGestureBegin()
	c.OnGestureEnd()
	assert.Equal(t, 0, c.Offset())

	// a second end without a new begin does nothing
	c.OnGestureEnd()
	assert.Equal(t, 0, c.Offset())
}

func TestController_AutoscrollGating(t *testing.T) {
	t.Run("advances from the active pager", func(t *testing.T) {
		c, _ := revealed(t, 3, Config{Mode: Wrap, Autoscroll: true, Autostart: true})
		c.OnPagerTransitionComplete(0)
		assert.Equal(t, 1, c.Offset())
	})

	t.Run("stale pager ignored", func(t *testing.T) {
		c, spy := revealed(t, 3, Config{Mode: Wrap, Autoscroll: true, Autostart: true})
		c.OnPagerTransitionComplete(2)
		assert.Equal(t, 0, c.Offset())
		assert.Len(t, spy.calls, 1)
	})

	t.Run("autoscroll off", func(t *testing.T) {
		c, _ := revealed(t, 3, Config{Mode: Wrap, Autostart: true})
		c.OnPagerTransitionComplete(0)
		assert.Equal(t, 0, c.Offset())
	})
}

func TestController_RevealRunsOnce(t *testing.T) {
	c, spy, queue := newTestController(t, 3, DefaultConfig())

	c.RequestInitialReveal()
	c.RequestInitialReveal()
	assert.Equal(t, -1, c.Offset(), "reveal is deferred")
	assert.Equal(t, 2, queue.Drain())

	assert.Equal(t, 0, c.Offset())
	assert.Equal(t, []presentCall{{-1, 0}}, spy.calls)
}

func TestController_RevealSkippedAfterEarlyMove(t *testing.T) {
	c, spy, queue := newTestController(t, 3, DefaultConfig())

	c.RequestInitialReveal()
	c.Advance()
	queue.Drain()

	assert.Equal(t, 0, c.Offset())
	assert.Len(t, spy.calls, 1)
}

func TestController_NoAutostart(t *testing.T) {
	c, spy, queue := newTestController(t, 3, Config{Mode: Wrap})

	c.RequestInitialReveal()
	assert.Equal(t, 0, queue.Pending())
	assert.Equal(t, -1, c.Offset())
	assert.Empty(t, spy.calls)

	c.Retreat()
	assert.Equal(t, 2, c.Offset())
}

func TestTaskQueue_DeferredDuringDrainWaits(t *testing.T) {
	q := NewTaskQueue()
	var order []int
	q.Defer(func() {
		order = append(order, 1)
		q.Defer(func() { order = append(order, 3) })
	})
	q.Defer(func() { order = append(order, 2) })
	q.Defer(nil)

	assert.Equal(t, 2, q.Drain())
	assert.Equal(t, []int{1, 2}, order)
	assert.Equal(t, 1, q.Pending())
	assert.Equal(t, 1, q.Drain())
	assert.Equal(t, []int{1, 2, 3}, order)
}
