package stock

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"psych-shorts-pipeline/config"
)

const searchURL = "https://api.pexels.com/videos/search"

// Video is one stock clip candidate with its quality variants
type Video struct {
	ID       int     `json:"id"`
	Duration float64 `json:"duration"`
	Width    int     `json:"width"`
	Height   int     `json:"height"`
	Files    []File  `json:"video_files"`
}

// File is one downloadable rendition of a Video
type File struct {
	ID      int    `json:"id"`
	Quality string `json:"quality"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	Link    string `json:"link"`
}

// Client searches and downloads stock footage from the Pexels video API
type Client struct {
	cfg        *config.Config
	httpClient *http.Client
}

// New creates a new stock Client
func New(cfg *config.Config) *Client {
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}
}

// FetchForSection searches clips for the section's keywords and downloads up
// to the configured number into destDir, returning local file paths.
func (c *Client) FetchForSection(ctx context.Context, keywords []string, destDir string) ([]string, error) {
	query := strings.Join(keywords, " ")
	if query == "" {
		return nil, fmt.Errorf("no search keywords")
	}

	videos, err := c.Search(ctx, query)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return nil, fmt.Errorf("create clips dir: %w", err)
	}

	var paths []string
	for _, v := range videos {
		if len(paths) >= c.cfg.Stock.ClipsPerSection {
			break
		}
		if v.Duration > 0 && v.Duration < c.cfg.Stock.MinClipSec {
			continue
		}
		variant := pickVariant(v, 720, 1280)
		if variant == nil {
			continue
		}
		outFile := filepath.Join(destDir, fmt.Sprintf("pexels_%d.mp4", v.ID))
		if err := c.download(ctx, variant.Link, outFile); err != nil {
			log.Printf("[stock] Warning: download of clip %d failed: %v — trying next", v.ID, err)
			continue
		}
		paths = append(paths, outFile)
	}

	if len(paths) == 0 {
		return nil, fmt.Errorf("no usable clips for query %q", query)
	}
	log.Printf("[stock] ✅ %d clip(s) for %q", len(paths), query)
	return paths, nil
}

// Search queries the Pexels video API for portrait clips.
func (c *Client) Search(ctx context.Context, query string) ([]Video, error) {
	apiKey := os.Getenv("PEXELS_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("PEXELS_API_KEY not set")
	}

	q := url.Values{}
	q.Set("query", query)
	q.Set("orientation", "portrait")
	q.Set("per_page", fmt.Sprintf("%d", c.cfg.Stock.PerPage))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("pexels search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("pexels search: HTTP %d: %s", resp.StatusCode, body)
	}

	var parsed struct {
		Videos []Video `json:"videos"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("parse pexels response: %w", err)
	}
	log.Printf("[stock] %q: %d candidates", query, len(parsed.Videos))
	return parsed.Videos, nil
}

// pickVariant chooses the rendition whose aspect ratio sits closest to the
// output frame, preferring ones tall enough to avoid upscaling.
func pickVariant(v Video, wantW, wantH int) *File {
	wantRatio := float64(wantW) / float64(wantH)
	best := -1
	bestScore := math.Inf(1)
	for i, f := range v.Files {
		if f.Width == 0 || f.Height == 0 || f.Link == "" {
			continue
		}
		score := math.Abs(float64(f.Width)/float64(f.Height) - wantRatio)
		if f.Height < wantH {
			score += 1.0 // upscaling penalty
		}
		if score < bestScore {
			bestScore = score
			best = i
		}
	}
	if best < 0 {
		return nil
	}
	return &v.Files[best]
}

func (c *Client) download(ctx context.Context, link, outFile string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	f, err := os.Create(outFile)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := io.Copy(f, resp.Body); err != nil {
		os.Remove(outFile)
		return err
	}
	return nil
}
