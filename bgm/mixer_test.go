package bgm

import (
	"context"
	"errors"
	"testing"
	"time"

	"psych-shorts-pipeline/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMixer(reelDur float64) (*Mixer, *[][]string) {
	cfg := &config.Config{
		BGM: config.BGMConfig{Volume: 0.15, FadeOutSec: 2.0},
		Editor: config.EditorConfig{
			AudioCodec:   "aac",
			AudioBitrate: "192k",
		},
	}
	m := NewMixer(cfg)
	m.probe = func(_ context.Context, _ string) (float64, error) {
		return reelDur, nil
	}
	var runs [][]string
	m.runFFmpeg = func(_ context.Context, args []string) error {
		runs = append(runs, append([]string(nil), args...))
		return nil
	}
	return m, &runs
}

func TestMixBuildsFilterAndStampsResult(t *testing.T) {
	m, runs := testMixer(42.5)

	reel, err := m.Mix(context.Background(), "reel.mp4", "music.mp3", "out.mp4")
	require.NoError(t, err)
	require.Len(t, *runs, 1)

	args := (*runs)[0]
	assert.Contains(t, args, "[1:a]volume=0.15,afade=t=out:st=40.500:d=2.000[music];[0:a][music]amix=inputs=2:duration=first:normalize=0[aout]")
	assert.Contains(t, args, "-stream_loop")
	assert.Equal(t, "out.mp4", args[len(args)-1])

	assert.Equal(t, "out.mp4", reel.FinalReelPath)
	assert.Equal(t, "reel.mp4", reel.OriginalReelPath)
	assert.InDelta(t, 42.5, reel.VideoDuration, 1e-9)
	assert.InDelta(t, 0.15, reel.AudioVolume, 1e-9)

	createdAt, err := time.Parse(time.RFC3339, reel.CreatedAt)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().UTC(), createdAt, time.Minute)
}

func TestMixFailsWhenReelUnprobeable(t *testing.T) {
	m, runs := testMixer(0)
	m.probe = func(_ context.Context, _ string) (float64, error) {
		return 0, errors.New("no such file")
	}

	_, err := m.Mix(context.Background(), "missing.mp4", "music.mp3", "out.mp4")
	assert.Error(t, err)
	assert.Empty(t, *runs)
}
