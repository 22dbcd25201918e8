package editor

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// Concatenate joins the rendered sections into one reel, walking the
// canonical section order. A missing section is recorded as a warning and
// skipped, never reordered around. The whole operation fails only when no
// section is available at all.
func (e *Editor) Concatenate(ctx context.Context, sections map[string]string, outputPath string) (string, []string, error) {
	var ordered []string
	var warnings []string
	for _, key := range SectionOrder {
		path := sections[key]
		if path == "" {
			warnings = append(warnings, fmt.Sprintf("section %s missing", key))
			log.Printf("[editor] Warning: section %s missing — excluded from final reel", key)
			continue
		}
		ordered = append(ordered, path)
		log.Printf("[editor] + section %s", key)
	}
	if len(ordered) == 0 {
		return "", warnings, fmt.Errorf("no rendered sections to concatenate")
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return "", warnings, fmt.Errorf("create output dir: %w", err)
	}
	listFile := filepath.Join(filepath.Dir(outputPath), "sections_concat.txt")
	var lines []string
	for _, path := range ordered {
		abs, err := filepath.Abs(path)
		if err != nil {
			abs = path
		}
		lines = append(lines, fmt.Sprintf("file '%s'", abs))
	}
	if err := os.WriteFile(listFile, []byte(strings.Join(lines, "\n")+"\n"), 0644); err != nil {
		return "", warnings, fmt.Errorf("write concat list: %w", err)
	}

	log.Printf("[editor] Concatenating %d sections into %s", len(ordered), outputPath)
	args := []string{"-y", "-f", "concat", "-safe", "0", "-i", listFile}
	// sections are already normalized; re-encoding to the output profile is
	// a safety net against mismatched section encodes
	args = append(args, e.encodeArgs()...)
	args = append(args, outputPath)
	if err := e.runFFmpeg(ctx, args); err != nil {
		return "", warnings, fmt.Errorf("concatenate sections: %w", err)
	}

	log.Printf("[editor] ✅ Final reel created: %s", outputPath)
	return outputPath, warnings, nil
}
