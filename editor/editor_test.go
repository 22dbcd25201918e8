package editor

import (
	"context"
	"errors"
	"math/rand"
	"sync"

	"psych-shorts-pipeline/config"
	"psych-shorts-pipeline/media"
)

func testConfig() *config.Config {
	return &config.Config{
		Audio: config.AudioConfig{SampleRate: 44100},
		Editor: config.EditorConfig{
			Width:         720,
			Height:        1280,
			FPS:           30,
			MinSegmentSec: 3.0,
			MaxSegmentSec: 6.0,
			TransitionSec: 0.6,
			VideoCodec:    "libx264",
			Preset:        "ultrafast",
			CRF:           23,
			AudioCodec:    "aac",
			AudioBitrate:  "192k",
			SilenceBySection: map[string]float64{
				SectionHook:    1.0,
				SectionConcept: 1.0,
				SectionExample: 1.5,
				SectionInsight: 2.0,
				SectionTip:     0.5,
				SectionCTA:     0.5,
			},
			DefaultSilenceSec:    1.0,
			MaxConcurrentRenders: 2,
		},
	}
}

// runRecorder captures every ffmpeg invocation instead of executing it.
type runRecorder struct {
	mu   sync.Mutex
	runs [][]string
	err  error
}

func (r *runRecorder) run(_ context.Context, args []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.runs = append(r.runs, append([]string(nil), args...))
	return nil
}

func (r *runRecorder) last() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.runs) == 0 {
		return nil
	}
	return r.runs[len(r.runs)-1]
}

// newTestEditor wires an Editor with a seeded random source, a probe backed
// by the given duration table and a recording ffmpeg runner.
func newTestEditor(seed int64, durations map[string]float64) (*Editor, *runRecorder) {
	e := New(testConfig(), rand.New(rand.NewSource(seed)))
	rec := &runRecorder{}
	e.probe = func(_ context.Context, path string) (float64, error) {
		d, ok := durations[path]
		if !ok {
			return 0, &media.ProbeError{Path: path, Err: errors.New("no such file")}
		}
		return d, nil
	}
	e.runFFmpeg = rec.run
	return e, rec
}
