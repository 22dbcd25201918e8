// Package media wraps ffprobe metadata queries.
package media

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// ProbeError marks a file the prober could not read. Callers treat it as
// "skip this clip", never as a fatal pipeline error.
type ProbeError struct {
	Path string
	Err  error
}

func (e *ProbeError) Error() string {
	return fmt.Sprintf("probe %s: %v", e.Path, e.Err)
}

func (e *ProbeError) Unwrap() error { return e.Err }

// ProbeDuration returns the container duration of a media file in seconds.
func ProbeDuration(ctx context.Context, path string) (float64, error) {
	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)
	out, err := cmd.Output()
	if err != nil {
		return 0, &ProbeError{Path: path, Err: err}
	}
	dur, err := strconv.ParseFloat(strings.TrimSpace(string(out)), 64)
	if err != nil {
		return 0, &ProbeError{Path: path, Err: err}
	}
	return dur, nil
}

// RunFFmpeg executes ffmpeg with the given arguments. The combined
// stdout/stderr output is folded into the returned error so a failed
// transcode can be diagnosed from the log alone.
func RunFFmpeg(ctx context.Context, args []string) error {
	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg: %w\n%s", err, string(b))
	}
	return nil
}
