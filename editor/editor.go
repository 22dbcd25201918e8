// Package editor assembles narrated video sections from stock clips and
// joins them into the final reel. Each section is rendered as one ffmpeg
// invocation described by a lazily-built filter graph: trimmed segments are
// normalized to the portrait output frame, stitched with crossfades until
// they cover the narration plus a per-section silence pad, and muxed with
// the padded narration track.
package editor

import (
	"context"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"psych-shorts-pipeline/config"
	"psych-shorts-pipeline/media"
)

// Section keys, in the order the final reel presents them.
const (
	SectionHook    = "HOOK"
	SectionConcept = "CONCEPT"
	SectionExample = "REAL-WORLD_EXAMPLE"
	SectionInsight = "PSYCHOLOGICAL_INSIGHT"
	SectionTip     = "ACTIONABLE_TIP"
	SectionCTA     = "CTA"
)

// SectionOrder is the canonical, total ordering of sections in the reel.
var SectionOrder = []string{
	SectionHook,
	SectionConcept,
	SectionExample,
	SectionInsight,
	SectionTip,
	SectionCTA,
}

// Segment is a trimmed excerpt of a source clip chosen for one section.
// It lives only for the duration of a single render call.
type Segment struct {
	Path  string
	Start float64
	Raw   float64 // trimmed length before crossfade overlap
}

// SectionJob is everything needed to render one section.
type SectionJob struct {
	Key        string
	AudioPath  string
	Candidates []string
	OutputPath string
}

// Editor renders sections and concatenates the final reel.
type Editor struct {
	cfg *config.Config

	mu  sync.Mutex
	rng *rand.Rand

	// injected for tests
	probe     func(ctx context.Context, path string) (float64, error)
	runFFmpeg func(ctx context.Context, args []string) error
}

// New creates an Editor. rng seeds segment selection; pass nil for a
// time-seeded source in production, a fixed seed in tests.
func New(cfg *config.Config, rng *rand.Rand) *Editor {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Editor{
		cfg:       cfg,
		rng:       rng,
		probe:     media.ProbeDuration,
		runFFmpeg: media.RunFFmpeg,
	}
}

// childRNG derives an independent random source so concurrent section
// renders never share rand state.
func (e *Editor) childRNG() *rand.Rand {
	e.mu.Lock()
	defer e.mu.Unlock()
	return rand.New(rand.NewSource(e.rng.Int63()))
}

// padFor looks up the trailing silence for a section key.
func (e *Editor) padFor(key string) float64 {
	if pad, ok := e.cfg.Editor.SilenceBySection[key]; ok {
		return pad
	}
	return e.cfg.Editor.DefaultSilenceSec
}

// effectiveDuration is the timeline length of segments joined with
// crossfades: the first counts in full, every later one is shortened by the
// transition overlap. The selector and the compositor both account through
// this one function so their bookkeeping cannot drift apart.
func effectiveDuration(segs []Segment, transition float64) float64 {
	total := 0.0
	for i, s := range segs {
		if i == 0 {
			total += s.Raw
		} else {
			total += s.Raw - transition
		}
	}
	return total
}

func (e *Editor) encodeArgs() []string {
	ec := e.cfg.Editor
	return []string{
		"-c:v", ec.VideoCodec,
		"-preset", ec.Preset,
		"-crf", strconv.Itoa(ec.CRF),
		"-pix_fmt", "yuv420p",
		"-c:a", ec.AudioCodec,
		"-b:a", ec.AudioBitrate,
		"-movflags", "+faststart",
	}
}
