package bgm

import (
	"context"
	"fmt"
	"log"
	"math"
	"time"

	"psych-shorts-pipeline/config"
	"psych-shorts-pipeline/media"
	"psych-shorts-pipeline/types"
)

// Mixer lays a background track under a finished reel
type Mixer struct {
	cfg *config.Config

	probe     func(ctx context.Context, path string) (float64, error)
	runFFmpeg func(ctx context.Context, args []string) error
}

// NewMixer creates a new Mixer
func NewMixer(cfg *config.Config) *Mixer {
	return &Mixer{
		cfg:       cfg,
		probe:     media.ProbeDuration,
		runFFmpeg: media.RunFFmpeg,
	}
}

// Mix loops the music under the reel's narration at the configured volume,
// fading the music out over the reel's final seconds, and writes the result
// to outputPath. The narration track always wins: amix keeps the reel's
// duration, never the music's.
func (m *Mixer) Mix(ctx context.Context, reelPath, musicPath, outputPath string) (*types.FinalReel, error) {
	reelDur, err := m.probe(ctx, reelPath)
	if err != nil {
		return nil, fmt.Errorf("probe reel: %w", err)
	}

	volume := m.cfg.BGM.Volume
	fadeOut := m.cfg.BGM.FadeOutSec
	fadeStart := math.Max(0, reelDur-fadeOut)

	filter := fmt.Sprintf(
		"[1:a]volume=%.2f,afade=t=out:st=%.3f:d=%.3f[music];[0:a][music]amix=inputs=2:duration=first:normalize=0[aout]",
		volume, fadeStart, fadeOut,
	)

	args := []string{
		"-y",
		"-i", reelPath,
		"-stream_loop", "-1",
		"-i", musicPath,
		"-filter_complex", filter,
		"-map", "0:v",
		"-map", "[aout]",
		"-c:v", "copy",
		"-c:a", m.cfg.Editor.AudioCodec,
		"-b:a", m.cfg.Editor.AudioBitrate,
		"-t", fmt.Sprintf("%.3f", reelDur),
		"-movflags", "+faststart",
		outputPath,
	}
	if err := m.runFFmpeg(ctx, args); err != nil {
		return nil, fmt.Errorf("mix background music: %w", err)
	}

	log.Printf("[bgm] ✅ Mixed music under reel: %s (%.2fs)", outputPath, reelDur)
	return &types.FinalReel{
		FinalReelPath:    outputPath,
		OriginalReelPath: reelPath,
		VideoDuration:    reelDur,
		AudioVolume:      volume,
		CreatedAt:        time.Now().UTC().Format(time.RFC3339),
	}, nil
}
