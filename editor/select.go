package editor

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"math/rand"
	"path/filepath"
)

// ErrInsufficientClips means the candidate pool could not cover the target
// duration within the attempt budget.
var ErrInsufficientClips = errors.New("insufficient clips")

// selectSegments picks and trims a sequence of segments from the candidate
// pool whose combined effective duration covers target. The pool is
// shuffled and walked round-robin; a candidate whose computed raw length is
// degenerate (shorter than 0.1s, or not longer than the crossfade overlap
// for a non-first segment) is skipped in favour of the next one. Attempts
// are bounded so a pool of too-short clips fails instead of spinning.
func (e *Editor) selectSegments(ctx context.Context, rng *rand.Rand, target float64, pool []string) ([]Segment, float64, error) {
	files := append([]string(nil), pool...)
	rng.Shuffle(len(files), func(i, j int) {
		files[i], files[j] = files[j], files[i]
	})

	minSeg := e.cfg.Editor.MinSegmentSec
	maxSeg := e.cfg.Editor.MaxSegmentSec
	transition := e.cfg.Editor.TransitionSec

	durations := make(map[string]float64, len(files))
	sourceDur := func(path string) float64 {
		if d, ok := durations[path]; ok {
			return d
		}
		d, err := e.probe(ctx, path)
		if err != nil {
			log.Printf("[editor] Warning: could not probe %s: %v — clip unusable", filepath.Base(path), err)
			d = 0
		}
		durations[path] = d
		return d
	}

	var segs []Segment
	effective := 0.0
	maxAttempts := len(files)*3 + 5
	pick := 0

	for attempt := 0; effective < target && attempt < maxAttempts; attempt++ {
		if len(files) == 0 {
			break
		}
		path := files[pick%len(files)]
		srcDur := sourceDur(path)

		needed := target - effective
		if needed <= 0.01 {
			break
		}

		first := len(segs) == 0
		var raw float64
		if first {
			raw = math.Min(needed, maxSeg)
		} else {
			// compensate for the overlap the upcoming crossfade absorbs
			raw = math.Min(needed+transition, maxSeg)
		}
		// never read past the source; the minimum segment length is a
		// preference, not a floor — flooring the last segment would
		// overshoot the target and desync video from audio
		raw = math.Min(raw, srcDur)

		if raw < 0.1 || (!first && raw <= transition) {
			log.Printf("[editor] Skipping %s: raw length %.2fs unsuitable (source %.2fs)",
				filepath.Base(path), raw, srcDur)
			pick++
			continue
		}
		if raw < minSeg {
			log.Printf("[editor] Note: %s segment %.2fs shorter than preferred %.2fs",
				filepath.Base(path), raw, minSeg)
		}

		start := rng.Float64() * math.Max(0, srcDur-raw)
		segs = append(segs, Segment{Path: path, Start: start, Raw: raw})
		if first {
			effective += raw
		} else {
			effective += raw - transition
		}
		pick++
	}

	if len(segs) == 0 || effective < target {
		return nil, effective, fmt.Errorf("%w: covered %.2fs of %.2fs from %d candidates",
			ErrInsufficientClips, effective, target, len(pool))
	}
	return segs, effective, nil
}
