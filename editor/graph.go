package editor

import (
	"fmt"
	"strings"
)

// Graph is a deferred description of one ffmpeg invocation: a set of inputs
// plus a filter_complex built up step by step. Nothing touches ffmpeg until
// Args is handed to a runner, so every stage of the composition stays
// inspectable in tests.
type Graph struct {
	inputs  []graphInput
	filters []string
	mapV    string
	mapA    string
	next    int
}

type graphInput struct {
	path  string
	lavfi bool
	trim  bool
	start float64
	dur   float64
	hasT  bool
}

// Stream is a labelled point in the filter graph.
type Stream struct {
	g     *Graph
	label string
}

func NewGraph() *Graph {
	return &Graph{}
}

// VideoInput adds a trimmed video input and returns its video stream.
func (g *Graph) VideoInput(path string, start, dur float64) *Stream {
	idx := len(g.inputs)
	g.inputs = append(g.inputs, graphInput{path: path, trim: true, start: start, dur: dur, hasT: true})
	return &Stream{g: g, label: fmt.Sprintf("%d:v", idx)}
}

// AudioInput adds an untrimmed input and returns its audio stream.
func (g *Graph) AudioInput(path string) *Stream {
	idx := len(g.inputs)
	g.inputs = append(g.inputs, graphInput{path: path})
	return &Stream{g: g, label: fmt.Sprintf("%d:a", idx)}
}

// Silence adds a synthetic stereo silence track of the given length.
func (g *Graph) Silence(dur float64, sampleRate int) *Stream {
	idx := len(g.inputs)
	spec := fmt.Sprintf("anullsrc=channel_layout=stereo:sample_rate=%d", sampleRate)
	g.inputs = append(g.inputs, graphInput{path: spec, lavfi: true, dur: dur, hasT: true})
	return &Stream{g: g, label: fmt.Sprintf("%d:a", idx)}
}

// Filter applies one filter expression ("name=args") to the stream and
// returns the resulting labelled stream.
func (s *Stream) Filter(expr string) *Stream {
	out := s.g.newLabel()
	s.g.filters = append(s.g.filters, fmt.Sprintf("[%s]%s[%s]", s.label, expr, out))
	return &Stream{g: s.g, label: out}
}

// Combine applies one filter expression across several input streams.
func (g *Graph) Combine(expr string, streams ...*Stream) *Stream {
	var in strings.Builder
	for _, s := range streams {
		fmt.Fprintf(&in, "[%s]", s.label)
	}
	out := g.newLabel()
	g.filters = append(g.filters, fmt.Sprintf("%s%s[%s]", in.String(), expr, out))
	return &Stream{g: g, label: out}
}

// SetOutputs names the video and audio streams the invocation should mux.
func (g *Graph) SetOutputs(video, audio *Stream) {
	g.mapV = video.label
	g.mapA = audio.label
}

// Args assembles the complete ffmpeg argument list for the graph.
func (g *Graph) Args(encode []string, output string) []string {
	args := []string{"-y"}
	for _, in := range g.inputs {
		if in.lavfi {
			args = append(args, "-f", "lavfi")
			if in.hasT {
				args = append(args, "-t", fmtSec(in.dur))
			}
			args = append(args, "-i", in.path)
			continue
		}
		if in.trim {
			args = append(args, "-ss", fmtSec(in.start))
		}
		if in.hasT {
			args = append(args, "-t", fmtSec(in.dur))
		}
		args = append(args, "-i", in.path)
	}
	if len(g.filters) > 0 {
		args = append(args, "-filter_complex", strings.Join(g.filters, ";"))
	}
	args = append(args, "-map", mapArg(g.mapV), "-map", mapArg(g.mapA))
	args = append(args, encode...)
	args = append(args, output)
	return args
}

// FilterComplex returns the accumulated filter_complex string.
func (g *Graph) FilterComplex() string {
	return strings.Join(g.filters, ";")
}

func (g *Graph) newLabel() string {
	l := fmt.Sprintf("s%d", g.next)
	g.next++
	return l
}

// Raw input labels ("0:a") are mapped bare; filter labels need brackets.
func mapArg(label string) string {
	if strings.Contains(label, ":") {
		return label
	}
	return "[" + label + "]"
}

func fmtSec(v float64) string {
	return fmt.Sprintf("%.3f", v)
}
