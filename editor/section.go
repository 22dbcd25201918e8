package editor

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sync/errgroup"
)

// RenderSection produces one playable section file whose video length
// matches the narration plus the section's silence pad. It returns the
// output path on success; any stage failure is reported as an error so the
// caller can keep rendering the other sections.
func (e *Editor) RenderSection(ctx context.Context, job SectionJob) (string, error) {
	return e.renderSection(ctx, e.childRNG(), job)
}

func (e *Editor) renderSection(ctx context.Context, rng *rand.Rand, job SectionJob) (string, error) {
	audioDur, err := e.probe(ctx, job.AudioPath)
	if err != nil {
		return "", fmt.Errorf("section %s: narration unreadable: %w", job.Key, err)
	}
	if len(job.Candidates) == 0 {
		return "", fmt.Errorf("section %s: no candidate clips", job.Key)
	}

	pad := e.padFor(job.Key)
	target := audioDur + pad
	log.Printf("[editor] %s: narration %.2fs + silence %.2fs = target %.2fs",
		job.Key, audioDur, pad, target)

	segs, effective, err := e.selectSegments(ctx, rng, target, job.Candidates)
	if err != nil {
		return "", fmt.Errorf("section %s: %w", job.Key, err)
	}
	log.Printf("[editor] %s: %d segments, effective %.2fs (target %.2fs)",
		job.Key, len(segs), effective, target)

	g := NewGraph()
	video, timeline := e.buildComposite(g, job.Key, segs)

	// pad the narration with synthetic silence so audio and video end together
	narration := g.AudioInput(job.AudioPath)
	silence := g.Silence(pad, e.cfg.Audio.SampleRate)
	audio := g.Combine("concat=n=2:v=0:a=1", narration, silence)
	g.SetOutputs(video, audio)

	if err := os.MkdirAll(filepath.Dir(job.OutputPath), 0755); err != nil {
		return "", fmt.Errorf("section %s: create output dir: %w", job.Key, err)
	}
	if err := e.runFFmpeg(ctx, g.Args(e.encodeArgs(), job.OutputPath)); err != nil {
		return "", fmt.Errorf("section %s: render: %w", job.Key, err)
	}

	log.Printf("[editor] ✅ %s rendered: %s (%.2fs)", job.Key, job.OutputPath, timeline)
	return job.OutputPath, nil
}

// RenderAll renders independent sections concurrently, bounded by the
// configured render limit, and returns the key→path map of the sections
// that succeeded. A failed section is logged and left out of the map; it
// never stops the others.
func (e *Editor) RenderAll(ctx context.Context, jobs []SectionJob) map[string]string {
	// draw per-job random sources up front so a seeded editor stays
	// deterministic regardless of completion order
	rngs := make([]*rand.Rand, len(jobs))
	for i := range jobs {
		rngs[i] = e.childRNG()
	}

	var mu sync.Mutex
	rendered := make(map[string]string, len(jobs))

	var grp errgroup.Group
	grp.SetLimit(e.cfg.Editor.MaxConcurrentRenders)
	for i, job := range jobs {
		i, job := i, job // per-iteration copies: required under go <1.22 loopvar semantics
		grp.Go(func() error {
			path, err := e.renderSection(ctx, rngs[i], job)
			if err != nil {
				log.Printf("[editor] Warning: %v — continuing with remaining sections", err)
				return nil
			}
			mu.Lock()
			rendered[job.Key] = path
			mu.Unlock()
			return nil
		})
	}
	_ = grp.Wait()
	return rendered
}
