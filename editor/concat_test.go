package editor

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConcatenateCanonicalOrderWithMissingSections(t *testing.T) {
	e, rec := newTestEditor(1, nil)
	dir := t.TempDir()
	out := filepath.Join(dir, "final.mp4")

	sections := map[string]string{
		SectionHook:    filepath.Join(dir, "hook.mp4"),
		SectionExample: filepath.Join(dir, "example.mp4"),
		SectionCTA:     filepath.Join(dir, "cta.mp4"),
	}
	got, warnings, err := e.Concatenate(context.Background(), sections, out)
	require.NoError(t, err)
	assert.Equal(t, out, got)
	assert.Equal(t, []string{
		"section CONCEPT missing",
		"section PSYCHOLOGICAL_INSIGHT missing",
		"section ACTIONABLE_TIP missing",
	}, warnings)

	// the concat list presents the surviving sections in canonical order
	list, err := os.ReadFile(filepath.Join(dir, "sections_concat.txt"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(list)), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "hook.mp4")
	assert.Contains(t, lines[1], "example.mp4")
	assert.Contains(t, lines[2], "cta.mp4")

	args := rec.last()
	require.NotNil(t, args)
	assert.Equal(t, out, args[len(args)-1])
	assert.Contains(t, args, "concat")
}

func TestConcatenateAllSectionsNoWarnings(t *testing.T) {
	e, _ := newTestEditor(1, nil)
	dir := t.TempDir()

	sections := make(map[string]string, len(SectionOrder))
	for _, key := range SectionOrder {
		sections[key] = filepath.Join(dir, key+".mp4")
	}
	_, warnings, err := e.Concatenate(context.Background(), sections, filepath.Join(dir, "final.mp4"))
	require.NoError(t, err)
	assert.Empty(t, warnings)
}

func TestConcatenateNothingRendered(t *testing.T) {
	e, rec := newTestEditor(1, nil)

	_, warnings, err := e.Concatenate(context.Background(), nil, filepath.Join(t.TempDir(), "final.mp4"))
	require.Error(t, err)
	assert.Len(t, warnings, len(SectionOrder))
	assert.Empty(t, rec.runs)
}

func TestConcatenateIgnoresUnknownKeys(t *testing.T) {
	e, _ := newTestEditor(1, nil)
	dir := t.TempDir()

	sections := map[string]string{
		SectionHook: filepath.Join(dir, "hook.mp4"),
		"OUTTAKES":  filepath.Join(dir, "outtakes.mp4"),
	}
	_, _, err := e.Concatenate(context.Background(), sections, filepath.Join(dir, "final.mp4"))
	require.NoError(t, err)

	list, err := os.ReadFile(filepath.Join(dir, "sections_concat.txt"))
	require.NoError(t, err)
	assert.NotContains(t, string(list), "outtakes.mp4")
}
