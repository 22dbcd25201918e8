package audio

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"psych-shorts-pipeline/config"
	"psych-shorts-pipeline/media"
	"psych-shorts-pipeline/types"
)

// Generator synthesizes one narration file per script section.
// It shells out to the TTS engine named by TTS_COMMAND, which must accept
//
//	--text "..." --voice <voice> --output path/to/file.wav
//
// If TTS_COMMAND is not set it falls back to edge-tts when available.
type Generator struct {
	cfg *config.Config
}

// New creates a new Generator
func New(cfg *config.Config) *Generator {
	return &Generator{cfg: cfg}
}

// Run generates narration audio for every section of the script and returns
// the per-section metadata. A section whose synthesis fails is reported and
// skipped; the section simply won't make it into the reel.
func (g *Generator) Run(ctx context.Context, script *types.VideoScript, outputDir string) ([]types.AudioMetadata, error) {
	log.Println("[audio] Generating narration for all sections...")

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("create audio dir: %w", err)
	}

	ttsCmd := os.Getenv("TTS_COMMAND")
	if ttsCmd == "" {
		if _, err := exec.LookPath("edge-tts"); err == nil {
			ttsCmd = "edge-tts"
			log.Println("[audio] Using edge-tts as TTS engine (fallback)")
		} else {
			return nil, fmt.Errorf("no TTS engine found: set TTS_COMMAND in .env or install edge-tts")
		}
	}

	var narrations []types.AudioMetadata
	for i, section := range script.Sections {
		outFile := filepath.Join(outputDir, sectionFileName(section.Section))
		log.Printf("[audio] Section %d/%d (%s): synthesizing...", i+1, len(script.Sections), section.Section)

		if err := g.synthesize(ctx, ttsCmd, section.Text, outFile); err != nil {
			log.Printf("[audio] Warning: TTS failed for %s: %v — section will be skipped", section.Section, err)
			continue
		}

		dur, err := media.ProbeDuration(ctx, outFile)
		if err != nil {
			log.Printf("[audio] Warning: could not measure %s narration: %v — section will be skipped", section.Section, err)
			continue
		}

		narrations = append(narrations, types.AudioMetadata{
			Section:    section.Section,
			Text:       section.Text,
			Voice:      g.cfg.Audio.Voice,
			Duration:   dur,
			SampleRate: g.cfg.Audio.SampleRate,
			FilePath:   outFile,
		})
		log.Printf("[audio] ✅ %s: %.2fs → %s", section.Section, dur, outFile)
	}

	if len(narrations) == 0 {
		return nil, fmt.Errorf("no section narration could be generated")
	}
	return narrations, nil
}

func (g *Generator) synthesize(ctx context.Context, ttsCmd, text, outFile string) error {
	var err error
	for attempt := 1; attempt <= 3; attempt++ {
		var cmd *exec.Cmd
		if ttsCmd == "edge-tts" {
			cmd = exec.CommandContext(ctx, "edge-tts",
				"--voice", g.cfg.Audio.Voice,
				"--text", text,
				"--write-media", outFile,
			)
		} else {
			cmd = exec.CommandContext(ctx, ttsCmd,
				"--text", text,
				"--voice", g.cfg.Audio.Voice,
				"--output", outFile,
			)
		}
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr

		if err = cmd.Run(); err == nil {
			return nil
		}
		log.Printf("[audio] TTS attempt %d failed: %v — retrying...", attempt, err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt) * 2 * time.Second):
		}
	}
	return err
}

// sectionFileName maps a section key to its narration file name; the
// editor and the output layout key everything by this name.
func sectionFileName(section string) string {
	return strings.ReplaceAll(section, " ", "_") + ".wav"
}
