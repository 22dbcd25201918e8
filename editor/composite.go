package editor

import (
	"fmt"
	"log"
	"math"
)

// normalize scales a segment so its smaller dimension covers the output
// frame (aspect-fill, clipping rather than letterboxing), center-crops to
// the exact frame, resamples to the output frame rate and resets
// presentation timestamps to zero.
func (e *Editor) normalize(s *Stream) *Stream {
	w := e.cfg.Editor.Width
	h := e.cfg.Editor.Height
	s = s.Filter(fmt.Sprintf(
		"scale=w='iw*max(%d/iw,%d/ih)':h='ih*max(%d/iw,%d/ih)':eval=frame", w, h, w, h))
	s = s.Filter(fmt.Sprintf("crop=w=%d:h=%d:x=(iw-%d)/2:y=(ih-%d)/2", w, h, w, h))
	s = s.Filter(fmt.Sprintf("fps=fps=%d:round=near", e.cfg.Editor.FPS))
	return s.Filter("setpts=PTS-STARTPTS")
}

// buildComposite adds the segments to the graph, normalizes each one and
// folds them left-to-right with timed crossfades. The returned timeline
// length equals the selector's effective-duration sum for the same
// segments. The closing section gets a fade to black over its final
// transition window.
func (e *Editor) buildComposite(g *Graph, key string, segs []Segment) (*Stream, float64) {
	transition := e.cfg.Editor.TransitionSec

	streams := make([]*Stream, len(segs))
	for i, seg := range segs {
		streams[i] = e.normalize(g.VideoInput(seg.Path, seg.Start, seg.Raw))
	}

	merged := streams[0]
	for i := 1; i < len(segs); i++ {
		offset := math.Max(0, effectiveDuration(segs[:i], transition)-transition)
		merged = g.Combine(
			fmt.Sprintf("xfade=transition=fade:duration=%s:offset=%s", fmtSec(transition), fmtSec(offset)),
			merged, streams[i],
		).Filter("setpts=PTS-STARTPTS")
	}
	timeline := effectiveDuration(segs, transition)

	if key == SectionCTA {
		if timeline > transition {
			merged = merged.Filter(fmt.Sprintf("fade=t=out:st=%s:d=%s:color=black",
				fmtSec(timeline-transition), fmtSec(transition)))
		} else {
			log.Printf("[editor] %s too short (%.2fs) for an end fade — skipping", key, timeline)
		}
	}
	return merged, timeline
}
