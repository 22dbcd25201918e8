package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGraphArgs(t *testing.T) {
	g := NewGraph()
	v := g.VideoInput("clip.mp4", 1.25, 3.5).Filter("setpts=PTS-STARTPTS")
	narration := g.AudioInput("narration.wav")
	silence := g.Silence(1.0, 44100)
	a := g.Combine("concat=n=2:v=0:a=1", narration, silence)
	g.SetOutputs(v, a)

	got := g.Args([]string{"-c:v", "libx264"}, "out.mp4")
	want := []string{
		"-y",
		"-ss", "1.250", "-t", "3.500", "-i", "clip.mp4",
		"-i", "narration.wav",
		"-f", "lavfi", "-t", "1.000", "-i", "anullsrc=channel_layout=stereo:sample_rate=44100",
		"-filter_complex", "[0:v]setpts=PTS-STARTPTS[s0];[1:a][2:a]concat=n=2:v=0:a=1[s1]",
		"-map", "[s0]", "-map", "[s1]",
		"-c:v", "libx264",
		"out.mp4",
	}
	assert.Equal(t, want, got)
}

func TestGraphMapsRawInputLabelsBare(t *testing.T) {
	g := NewGraph()
	v := g.VideoInput("clip.mp4", 0, 2).Filter("setpts=PTS-STARTPTS")
	a := g.AudioInput("narration.wav")
	g.SetOutputs(v, a)

	args := g.Args(nil, "out.mp4")
	assert.Contains(t, args, "1:a")
	assert.NotContains(t, args, "[1:a]")
}

func TestGraphFilterChaining(t *testing.T) {
	g := NewGraph()
	s := g.VideoInput("clip.mp4", 0, 2).
		Filter("fps=fps=30:round=near").
		Filter("setpts=PTS-STARTPTS")
	assert.Equal(t, "s1", s.label)
	assert.Equal(t, "[0:v]fps=fps=30:round=near[s0];[s0]setpts=PTS-STARTPTS[s1]", g.FilterComplex())
}
