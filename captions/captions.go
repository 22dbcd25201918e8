// Package captions transcribes a reel's narration with Whisper and burns
// word-synced subtitles into the video.
package captions

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"psych-shorts-pipeline/config"
)

// Captioner generates and burns subtitles
type Captioner struct {
	cfg *config.Config
}

// New creates a new Captioner
func New(cfg *config.Config) *Captioner {
	return &Captioner{cfg: cfg}
}

// Run transcribes the reel and returns the captioned video path plus the
// subtitle file path.
func (c *Captioner) Run(ctx context.Context, reelPath, outputDir string) (string, string, error) {
	srtFile, err := c.transcribe(ctx, reelPath, outputDir)
	if err != nil {
		return "", "", err
	}
	if err := validateSRT(srtFile); err != nil {
		return "", "", fmt.Errorf("subtitle file unusable: %w", err)
	}
	captioned, err := c.burn(ctx, reelPath, srtFile, outputDir)
	if err != nil {
		return "", "", err
	}
	return captioned, srtFile, nil
}

func (c *Captioner) transcribe(ctx context.Context, mediaFile, outputDir string) (string, error) {
	log.Println("[captions] Running Whisper transcription...")

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", err
	}

	cmd := exec.CommandContext(ctx,
		"whisper",
		mediaFile,
		"--model", c.cfg.Captions.WhisperModel,
		"--output_format", "srt",
		"--output_dir", outputDir,
		"--language", "en",
		"--word_timestamps", "True",
		"--max_line_width", fmt.Sprintf("%d", c.cfg.Captions.MaxCharsPerLine),
		"--max_line_count", "1",
	)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("whisper failed: %w", err)
	}

	// whisper names the output after the input file
	base := strings.TrimSuffix(filepath.Base(mediaFile), filepath.Ext(mediaFile))
	srtFile := filepath.Join(outputDir, base+".srt")
	if _, err := os.Stat(srtFile); err != nil {
		return "", fmt.Errorf("whisper output not found: %w", err)
	}
	log.Printf("[captions] ✅ SRT generated: %s", srtFile)
	return srtFile, nil
}

// burn re-encodes the reel with subtitles styled for the portrait frame:
// bold white text with a black outline, centered low in the frame.
func (c *Captioner) burn(ctx context.Context, videoFile, srtFile, outputDir string) (string, error) {
	log.Println("[captions] Burning subtitles into reel...")

	outFile := filepath.Join(outputDir, "reel_captioned.mp4")

	subtitleFilter := fmt.Sprintf(
		"subtitles=%s:force_style='FontName=%s,FontSize=%d,Bold=1,PrimaryColour=&H00FFFFFF,OutlineColour=&H00000000,Outline=%.0f,Alignment=2,MarginV=%d'",
		escapeSubtitlePath(srtFile),
		c.cfg.Captions.Font,
		c.cfg.Captions.FontSize,
		c.cfg.Captions.StrokeWidth,
		c.cfg.Captions.MarginBottom,
	)

	cmd := exec.CommandContext(ctx, "ffmpeg", "-y",
		"-i", videoFile,
		"-vf", subtitleFilter,
		"-c:v", c.cfg.Editor.VideoCodec,
		"-preset", c.cfg.Editor.Preset,
		"-crf", fmt.Sprintf("%d", c.cfg.Editor.CRF),
		"-c:a", "copy",
		outFile,
	)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("ffmpeg subtitle burn: %w", err)
	}

	log.Printf("[captions] ✅ Subtitles burned: %s", outFile)
	return outFile, nil
}

// validateSRT checks that the SRT file is non-empty and roughly well formed
func validateSRT(srtFile string) error {
	f, err := os.Open(srtFile)
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	lineCount := 0
	for scanner.Scan() {
		lineCount++
	}
	if lineCount < 4 {
		return fmt.Errorf("SRT appears empty or malformed (%d lines)", lineCount)
	}
	return nil
}

func escapeSubtitlePath(path string) string {
	path = strings.ReplaceAll(path, "\\", "/")
	path = strings.ReplaceAll(path, ":", "\\:")
	return path
}
