package window_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/resinhook/internal/engine/window"
)

func TestList_Defaults(t *testing.T) {
	l := window.New(makeItems(100), window.DefaultOptions())

	assert.Equal(t, 5000.0, l.TotalExtent())
	visible := l.Visible()
	require.NotEmpty(t, visible)
	assert.Less(t, len(visible), 100)
	assert.Equal(t, 0, visible[0].Index)
	assert.Equal(t, 0.0, visible[0].Offset)
	assert.Equal(t, window.Range{Start: 0, End: 13}, l.Range())
}

func TestList_ScrollDoesNotRebuild(t *testing.T) {
	l := window.New(makeItems(1000), window.DefaultOptions())
	require.Equal(t, 1, l.Rebuilds())

	for off := 0.0; off < 10000; off += 333 {
		l.OnScroll(off)
		_ = l.Visible()
	}
	l.SetViewport(800)
	l.SetOverscan(10)
	assert.Equal(t, 1, l.Rebuilds())

	l.SetItems(makeItems(10))
	assert.Equal(t, 2, l.Rebuilds())
	l.SetHeightRule(window.Variable(alternating))
	assert.Equal(t, 3, l.Rebuilds())
	assert.Equal(t, 50.0*5+80*5, l.TotalExtent())
}

func TestList_ScrollTo(t *testing.T) {
	var requested []float64
	opts := window.DefaultOptions()
	opts.OnScroll = func(offset float64) { requested = append(requested, offset) }
	l := window.New(makeItems(100), opts)

	before := l.Visible()

	assert.False(t, l.ScrollTo(-1))
	assert.False(t, l.ScrollTo(100))
	assert.Empty(t, requested)
	assert.Equal(t, before, l.Visible())

	require.True(t, l.ScrollTo(40))
	assert.Equal(t, []float64{2000}, requested)
	assert.Equal(t, 2000.0, l.ScrollOffset())
	assert.True(t, l.Range().Contains(40))

	l.ScrollToOffset(-10)
	assert.Equal(t, 0.0, l.ScrollOffset())
}

func TestList_Empty(t *testing.T) {
	l := window.New[string](nil, window.DefaultOptions())

	assert.Equal(t, 0.0, l.TotalExtent())
	assert.Empty(t, l.Visible())
	assert.Equal(t, window.Range{}, l.Range())
	assert.False(t, l.ScrollTo(0))
}
