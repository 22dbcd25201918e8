package editor

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectSegmentsCoversTargetExactly(t *testing.T) {
	pool := map[string]float64{"a.mp4": 3.0, "b.mp4": 2.0}
	e, _ := newTestEditor(1, pool)

	segs, effective, err := e.selectSegments(context.Background(), rand.New(rand.NewSource(7)), 4.0, []string{"a.mp4", "b.mp4"})
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(segs), 2)
	assert.InDelta(t, 4.0, effective, 1e-9)
	assert.InDelta(t, effectiveDuration(segs, 0.6), effective, 1e-9)
	for _, s := range segs {
		assert.LessOrEqual(t, s.Start+s.Raw, pool[s.Path]+1e-9)
		assert.GreaterOrEqual(t, s.Start, 0.0)
	}
}

func TestSelectSegmentsScenario(t *testing.T) {
	// narration 4.2s + pad 1.0s, transition 0.6s, clips [3.0, 2.0, 6.0]
	pool := map[string]float64{"a.mp4": 3.0, "b.mp4": 2.0, "c.mp4": 6.0}
	e, _ := newTestEditor(1, pool)

	segs, effective, err := e.selectSegments(context.Background(), rand.New(rand.NewSource(42)), 5.2, []string{"a.mp4", "b.mp4", "c.mp4"})
	require.NoError(t, err)
	require.NotEmpty(t, segs)
	assert.GreaterOrEqual(t, effective, 5.2-1e-9)
	assert.InDelta(t, effectiveDuration(segs, 0.6), effective, 1e-9)
}

func TestSelectSegmentsDeterministicUnderSeed(t *testing.T) {
	pool := map[string]float64{"a.mp4": 3.0, "b.mp4": 2.0, "c.mp4": 6.0}
	paths := []string{"a.mp4", "b.mp4", "c.mp4"}
	e, _ := newTestEditor(1, pool)

	first, _, err := e.selectSegments(context.Background(), rand.New(rand.NewSource(99)), 5.2, paths)
	require.NoError(t, err)
	second, _, err := e.selectSegments(context.Background(), rand.New(rand.NewSource(99)), 5.2, paths)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestSelectSegmentsInsufficientPool(t *testing.T) {
	// both clips shorter than the transition: render must fail, not spin
	pool := map[string]float64{"a.mp4": 0.5, "b.mp4": 0.4}
	e, _ := newTestEditor(1, pool)

	_, _, err := e.selectSegments(context.Background(), rand.New(rand.NewSource(3)), 5.2, []string{"a.mp4", "b.mp4"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInsufficientClips)
}

func TestSelectSegmentsRejectsDegenerateNonFirst(t *testing.T) {
	// the 0.5s clip may open a section but must never follow a crossfade
	pool := map[string]float64{"long.mp4": 3.0, "tiny.mp4": 0.5}
	for seed := int64(0); seed < 20; seed++ {
		e, _ := newTestEditor(1, pool)
		segs, _, err := e.selectSegments(context.Background(), rand.New(rand.NewSource(seed)), 4.0, []string{"long.mp4", "tiny.mp4"})
		require.NoError(t, err, "seed %d", seed)
		for i, s := range segs {
			if i > 0 {
				assert.NotEqual(t, "tiny.mp4", s.Path, "seed %d picked a degenerate non-first segment", seed)
			}
		}
	}
}

func TestSelectSegmentsSkipsUnprobeableClips(t *testing.T) {
	pool := map[string]float64{"good.mp4": 6.0} // bad.mp4 probes with an error
	e, _ := newTestEditor(1, pool)

	segs, effective, err := e.selectSegments(context.Background(), rand.New(rand.NewSource(5)), 4.0, []string{"bad.mp4", "good.mp4"})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, effective, 4.0-1e-9)
	for _, s := range segs {
		assert.Equal(t, "good.mp4", s.Path)
	}
}

func TestSelectSegmentsEmptyPool(t *testing.T) {
	e, _ := newTestEditor(1, nil)
	_, _, err := e.selectSegments(context.Background(), rand.New(rand.NewSource(1)), 3.0, nil)
	assert.ErrorIs(t, err, ErrInsufficientClips)
}
