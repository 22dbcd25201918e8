package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"psych-shorts-pipeline/audio"
	"psych-shorts-pipeline/bgm"
	"psych-shorts-pipeline/captions"
	"psych-shorts-pipeline/config"
	"psych-shorts-pipeline/editor"
	"psych-shorts-pipeline/script"
	"psych-shorts-pipeline/stock"
	"psych-shorts-pipeline/types"
	"psych-shorts-pipeline/upload"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env (local dev only — GitHub Actions uses Secrets)
	_ = godotenv.Load()

	// Load config
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := os.MkdirAll(cfg.Paths.Output, 0755); err != nil {
		log.Fatalf("Failed to create output dir: %v", err)
	}

	// Create run ID and output dir for this run
	runID := uuid.NewString()[:8]
	runDir := filepath.Join(cfg.Paths.Output, runID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		log.Fatalf("Failed to create run dir: %v", err)
	}

	log.Printf("🧠 Psych Shorts Pipeline starting — Run ID: %s", runID)
	log.Printf("📁 Output dir: %s", runDir)

	ctx := context.Background()
	state := &types.PipelineState{
		RunID:     runID,
		StartedAt: time.Now().UTC().Format(time.RFC3339),
	}

	// Save state on exit
	defer func() {
		state.CompletedAt = time.Now().UTC().Format(time.RFC3339)
		saveState(state, runDir)
		if state.Error != "" {
			log.Printf("❌ Pipeline failed: %s", state.Error)
			os.Exit(1)
		}
		log.Printf("✅ Pipeline complete! Video: %s", state.YouTubeURL)
	}()

	// ─────────────────────────────────────────────
	// STAGE 1: Topic Generation
	// ─────────────────────────────────────────────
	log.Println("\n━━━ STAGE 1: Topic Generation ━━━")
	writer := script.New(cfg)
	previous := loadTopicsLog(cfg.Paths.TopicsLog)
	insight, err := writer.GenerateTopic(ctx, previous)
	if err != nil {
		state.Error = fmt.Sprintf("Stage 1 Topic: %v", err)
		return
	}
	state.Insight = insight
	saveJSON(filepath.Join(runDir, "insight.json"), insight)
	appendTopicsLog(cfg.Paths.TopicsLog, previous, insight)

	// ─────────────────────────────────────────────
	// STAGE 2: Script Writing
	// ─────────────────────────────────────────────
	log.Println("\n━━━ STAGE 2: Script Writing ━━━")
	videoScript, err := writer.GenerateScript(ctx, insight)
	if err != nil {
		state.Error = fmt.Sprintf("Stage 2 Script: %v", err)
		return
	}
	state.Script = videoScript
	saveJSON(filepath.Join(runDir, "script.json"), videoScript)

	// ─────────────────────────────────────────────
	// STAGE 3: Narration (TTS)
	// ─────────────────────────────────────────────
	log.Println("\n━━━ STAGE 3: Narration ━━━")
	audioDir := filepath.Join(runDir, "audio")
	ttsGen := audio.New(cfg)
	narrations, err := ttsGen.Run(ctx, videoScript, audioDir)
	if err != nil {
		state.Error = fmt.Sprintf("Stage 3 Narration: %v", err)
		return
	}
	state.Narrations = narrations
	saveJSON(filepath.Join(runDir, "narrations.json"), narrations)
	saveState(state, runDir)

	// ─────────────────────────────────────────────
	// STAGE 4: Stock Footage
	// ─────────────────────────────────────────────
	log.Println("\n━━━ STAGE 4: Stock Footage ━━━")
	stockClient := stock.New(cfg)
	candidates := make(map[string][]string)
	for _, sec := range videoScript.Sections {
		destDir := filepath.Join(runDir, "stock", sec.Section)
		clips, err := stockClient.FetchForSection(ctx, sec.Keywords, destDir)
		if err != nil {
			log.Printf("⚠️  Stock fetch for %s failed: %v — section will have no candidates", sec.Section, err)
			continue
		}
		candidates[sec.Section] = clips
	}
	saveState(state, runDir)

	// ─────────────────────────────────────────────
	// STAGE 5: Section Assembly
	// ─────────────────────────────────────────────
	log.Println("\n━━━ STAGE 5: Section Assembly ━━━")
	ed := editor.New(cfg, nil)
	sectionsDir := filepath.Join(runDir, "sections")

	var jobs []editor.SectionJob
	for _, n := range narrations {
		jobs = append(jobs, editor.SectionJob{
			Key:        n.Section,
			AudioPath:  n.FilePath,
			Candidates: candidates[n.Section],
			OutputPath: filepath.Join(sectionsDir, n.Section+".mp4"),
		})
	}
	sectionFiles := ed.RenderAll(ctx, jobs)
	state.SectionFiles = sectionFiles
	saveState(state, runDir)

	reelPath := filepath.Join(runDir, "reel.mp4")
	reel, warnings, err := ed.Concatenate(ctx, sectionFiles, reelPath)
	if err != nil {
		state.Error = fmt.Sprintf("Stage 5 Assembly: %v", err)
		return
	}
	for _, w := range warnings {
		log.Printf("⚠️  %s", w)
	}
	state.ReelFile = reel
	saveState(state, runDir)

	// ─────────────────────────────────────────────
	// STAGE 6: Captions
	// ─────────────────────────────────────────────
	log.Println("\n━━━ STAGE 6: Captions ━━━")
	finalVideo := reel
	captioner := captions.New(cfg)
	captioned, _, err := captioner.Run(ctx, reel, filepath.Join(runDir, "captions"))
	if err != nil {
		log.Printf("⚠️  Stage 6 Captions failed: %v — continuing without captions", err)
	} else {
		state.CaptionedFile = captioned
		finalVideo = captioned
	}
	saveState(state, runDir)

	// ─────────────────────────────────────────────
	// STAGE 7: Background Music
	// ─────────────────────────────────────────────
	log.Println("\n━━━ STAGE 7: Background Music ━━━")
	musicPath, trackInfo := fetchMusic(ctx, cfg, videoScript.BackgroundMusic, filepath.Join(runDir, "music"))
	if musicPath != "" {
		mixer := bgm.NewMixer(cfg)
		finalReel, err := mixer.Mix(ctx, finalVideo, musicPath, filepath.Join(runDir, "reel_final.mp4"))
		if err != nil {
			log.Printf("⚠️  Stage 7 Music mix failed: %v — continuing without music", err)
		} else {
			finalReel.TrackInfo = trackInfo
			finalReel.Warnings = warnings
			state.FinalReel = finalReel
			finalVideo = finalReel.FinalReelPath
			saveJSON(filepath.Join(runDir, "final_reel.json"), finalReel)
		}
	}
	saveState(state, runDir)

	// ─────────────────────────────────────────────
	// STAGE 8: YouTube Upload
	// ─────────────────────────────────────────────
	log.Println("\n━━━ STAGE 8: YouTube Upload ━━━")
	uploader := upload.New(cfg)
	videoID, videoURL, err := uploader.Run(ctx, finalVideo, insight)
	if err != nil {
		state.Error = fmt.Sprintf("Stage 8 Upload: %v", err)
		return
	}
	state.YouTubeID = videoID
	state.YouTubeURL = videoURL

	_ = upload.LogUpload(videoID, videoURL, finalVideo, runDir, insight)
}

// fetchMusic searches Bensound for the script's music descriptor and
// downloads the first usable result. Music is optional: any failure is
// logged and the reel ships without it.
func fetchMusic(ctx context.Context, cfg *config.Config, descriptor, destDir string) (string, *types.TrackInfo) {
	if descriptor == "" {
		descriptor = "calm ambient"
	}
	scraper := bgm.NewScraper(cfg)
	tracks, err := scraper.Search(ctx, descriptor)
	if err != nil {
		log.Printf("⚠️  Music search failed: %v", err)
		return "", nil
	}
	if len(tracks) == 0 {
		log.Printf("⚠️  No music found for %q", descriptor)
		return "", nil
	}
	for i := range tracks {
		if err := scraper.Download(ctx, &tracks[i], destDir); err != nil {
			log.Printf("⚠️  Music download failed: %v — trying next track", err)
			continue
		}
		return tracks[i].DownloadPath, &tracks[i]
	}
	return "", nil
}

// ─────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────

// loadTopicsLog reads previously covered insights so the topic generator
// can avoid repeats. A missing or unreadable log just means an empty list.
func loadTopicsLog(path string) []types.PsychologyInsight {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var previous []types.PsychologyInsight
	if err := json.Unmarshal(data, &previous); err != nil {
		log.Printf("Warning: could not parse topics log %s: %v", path, err)
		return nil
	}
	return previous
}

func appendTopicsLog(path string, previous []types.PsychologyInsight, insight *types.PsychologyInsight) {
	if path == "" {
		return
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		log.Printf("Warning: could not create topics log dir: %v", err)
		return
	}
	saveJSON(path, append(previous, *insight))
}

func saveState(state *types.PipelineState, dir string) {
	saveJSON(filepath.Join(dir, "pipeline_state.json"), state)
}

func saveJSON(path string, v interface{}) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Printf("Warning: could not marshal JSON for %s: %v", path, err)
		return
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		log.Printf("Warning: could not save %s: %v", path, err)
	}
}
