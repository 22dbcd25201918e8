package script

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseScript(t *testing.T) {
	content := "```json\n" + `{
		"title": "Why Your Brain Betrays You Under Pressure",
		"length": "90-120 seconds",
		"background_music": "calm ambient piano",
		"sections": [
			{"section": "hook", "text": "Your brain lies to you every day.", "scene": "crowded street", "keywords": ["crowd", "city"]},
			{"section": "CTA", "text": "Follow for more.", "scene": "sunset", "keywords": ["sunset"]}
		]
	}` + "\n```"

	script, err := ParseScript(content)
	require.NoError(t, err)
	assert.Equal(t, "Why Your Brain Betrays You Under Pressure", script.Title)
	assert.Equal(t, "calm ambient piano", script.BackgroundMusic)
	require.Len(t, script.Sections, 2)
	// section keys are normalized to the canonical upper-case form
	assert.Equal(t, "HOOK", script.Sections[0].Section)
	assert.Equal(t, "CTA", script.Sections[1].Section)
}

func TestParseScriptRejectsEmpty(t *testing.T) {
	_, err := ParseScript(`{"title": "x", "sections": []}`)
	assert.Error(t, err)

	_, err = ParseScript(`{"sections": [{"section": "HOOK", "text": ""}]}`)
	assert.Error(t, err)

	_, err = ParseScript("not json at all")
	assert.Error(t, err)
}

func TestCleanJSON(t *testing.T) {
	tests := map[string]string{
		"```json\n{\"a\":1}\n```": `{"a":1}`,
		"```\n{\"a\":1}\n```":     `{"a":1}`,
		`  {"a":1}  `:             `{"a":1}`,
	}
	for in, want := range tests {
		assert.Equal(t, want, cleanJSON(in))
	}
}
