package script

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"psych-shorts-pipeline/config"
	"psych-shorts-pipeline/types"
)

const apiURL = "https://api.deepseek.com/chat/completions"

const topicSystemPrompt = `You are a psychology content strategist for a short-form video channel.
Generate ONE fresh psychology insight topic for a 90-120 second video: a real, named
psychological concept with a brutally practical angle — how it actually plays out in
messy real-world situations, not textbook fluff.

You MUST respond with ONLY valid JSON — no preamble, no markdown, no explanation.

Fields:
- "concept_title": the named psychological concept
- "explanation": 2-3 sentence plain-language explanation
- "psychological_effect": what it does to people's behavior
- "real_world_application": one concrete situation where knowing it changes the outcome
- "youtube_title": attention-grabbing title, under 90 chars
- "youtube_description": 2-3 sentence description
- "hashtags": array of 5-8 hashtags including #psychology #shorts
- "cta_line": one closing call-to-action line
- "value_pitch": one sentence on why the viewer should care`

const scriptSystemPrompt = `You are a psychology short-form scriptwriter. Expand the given insight into a
90-120 second video script with EXACTLY these six sections, in this order:
HOOK, CONCEPT, REAL-WORLD_EXAMPLE, PSYCHOLOGICAL_INSIGHT, ACTIONABLE_TIP, CTA.

You MUST respond with ONLY valid JSON — no preamble, no markdown, no explanation.

Structure:
- "title": working title
- "length": target duration, e.g. "90-120 seconds"
- "background_music": mood descriptor for a continuous background track (e.g. "calm ambient piano")
- "sections": array of six objects, each with:
  - "section": one of HOOK | CONCEPT | REAL-WORLD_EXAMPLE | PSYCHOLOGICAL_INSIGHT | ACTIONABLE_TIP | CTA
  - "text": the exact narration (2-4 sentences, spoken at natural pace)
  - "scene": visual description of stock footage that fits the narration
  - "keywords": 2-4 stock-footage search keywords for the scene

Section rules:
- HOOK opens with the most arresting consequence of the concept. No throat-clearing.
- CTA ends on the provided cta_line, reworded naturally.`

// Writer generates topics and scripts through the DeepSeek chat API
type Writer struct {
	cfg        *config.Config
	httpClient *http.Client
}

// New creates a new script Writer
func New(cfg *config.Config) *Writer {
	return &Writer{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 90 * time.Second},
	}
}

// GenerateTopic produces a fresh psychology insight, steering the model away
// from topics that earlier runs already covered.
func (w *Writer) GenerateTopic(ctx context.Context, previous []types.PsychologyInsight) (*types.PsychologyInsight, error) {
	log.Println("[script] Generating psychology topic...")

	var sb strings.Builder
	sb.WriteString("Generate one new topic.\n")
	if len(previous) > 0 {
		sb.WriteString("\nAlready covered — do NOT repeat or closely paraphrase these concepts:\n")
		start := 0
		if max := w.cfg.Script.MaxPrevTopics; max > 0 && len(previous) > max {
			start = len(previous) - max
		}
		for _, p := range previous[start:] {
			fmt.Fprintf(&sb, "- %s\n", p.ConceptTitle)
		}
	}

	content, err := w.chat(ctx, topicSystemPrompt, sb.String())
	if err != nil {
		return nil, err
	}

	var insight types.PsychologyInsight
	if err := json.Unmarshal([]byte(content), &insight); err != nil {
		return nil, fmt.Errorf("parse topic JSON: %w\ncontent: %s", err, truncate(content, 300))
	}
	if insight.ConceptTitle == "" {
		return nil, fmt.Errorf("topic response missing concept_title")
	}
	log.Printf("[script] ✅ Topic: %q", insight.ConceptTitle)
	return &insight, nil
}

// GenerateScript expands an insight into a sectioned video script.
func (w *Writer) GenerateScript(ctx context.Context, insight *types.PsychologyInsight) (*types.VideoScript, error) {
	log.Printf("[script] Generating script for %q...", insight.ConceptTitle)

	var sb strings.Builder
	fmt.Fprintf(&sb, "CONCEPT: %s\n", insight.ConceptTitle)
	fmt.Fprintf(&sb, "EXPLANATION: %s\n", insight.Explanation)
	fmt.Fprintf(&sb, "EFFECT: %s\n", insight.PsychologicalEffect)
	fmt.Fprintf(&sb, "REAL-WORLD APPLICATION: %s\n", insight.RealWorldApplication)
	fmt.Fprintf(&sb, "CTA LINE: %s\n", insight.CTALine)
	fmt.Fprintf(&sb, "TARGET LENGTH: %d seconds\n", w.cfg.Script.TargetLengthSec)

	content, err := w.chat(ctx, scriptSystemPrompt, sb.String())
	if err != nil {
		return nil, err
	}

	script, err := ParseScript(content)
	if err != nil {
		return nil, err
	}
	log.Printf("[script] ✅ Script %q: %d sections", script.Title, len(script.Sections))
	return script, nil
}

// ParseScript decodes and validates a script JSON payload.
func ParseScript(content string) (*types.VideoScript, error) {
	var script types.VideoScript
	if err := json.Unmarshal([]byte(cleanJSON(content)), &script); err != nil {
		return nil, fmt.Errorf("parse script JSON: %w\ncontent: %s", err, truncate(content, 300))
	}
	if len(script.Sections) == 0 {
		return nil, fmt.Errorf("script has no sections")
	}
	for i := range script.Sections {
		script.Sections[i].Section = strings.ToUpper(strings.TrimSpace(script.Sections[i].Section))
		if script.Sections[i].Text == "" {
			return nil, fmt.Errorf("script section %s has no narration text", script.Sections[i].Section)
		}
	}
	return &script, nil
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (w *Writer) chat(ctx context.Context, system, user string) (string, error) {
	apiKey := os.Getenv("DEEPSEEK_API_KEY")
	if apiKey == "" {
		return "", fmt.Errorf("DEEPSEEK_API_KEY not set")
	}

	body, err := json.Marshal(chatRequest{
		Model: w.cfg.Script.Model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: w.cfg.Script.Temperature,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("deepseek request: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBytes, &parsed); err != nil {
		return "", fmt.Errorf("parse deepseek response: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("deepseek error: %s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("deepseek returned no choices")
	}
	return cleanJSON(parsed.Choices[0].Message.Content), nil
}

func cleanJSON(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
