// Package bgm sources royalty-free background music from Bensound and mixes
// it under the finished reel.
package bgm

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/net/html"

	"psych-shorts-pipeline/config"
	"psych-shorts-pipeline/types"
)

const baseURL = "https://www.bensound.com"

// Scraper finds free Bensound tracks matching a mood descriptor
type Scraper struct {
	cfg        *config.Config
	httpClient *http.Client
}

// NewScraper creates a new Scraper
func NewScraper(cfg *config.Config) *Scraper {
	return &Scraper{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// Search scrapes the free-track listing for the given descriptor (e.g.
// "calm ambient piano") and returns the tracks found, most relevant first.
func (s *Scraper) Search(ctx context.Context, descriptor string) ([]types.TrackInfo, error) {
	q := url.Values{}
	for _, tag := range strings.Fields(strings.ToLower(descriptor)) {
		q.Add("tag[]", tag)
	}
	q.Set("type", "free")
	q.Set("sort", "relevance")
	searchURL := baseURL + "/royalty-free-music?" + q.Encode()

	log.Printf("[bgm] Searching Bensound: %s", searchURL)
	root, err := s.fetchHTML(ctx, searchURL)
	if err != nil {
		return nil, fmt.Errorf("bensound search: %w", err)
	}

	var tracks []types.TrackInfo
	for _, href := range trackLinks(root) {
		trackURL := href
		if strings.HasPrefix(trackURL, "/") {
			trackURL = baseURL + trackURL
		}
		track, err := s.trackDetails(ctx, trackURL)
		if err != nil {
			log.Printf("[bgm] Warning: could not read track page %s: %v", trackURL, err)
			continue
		}
		tracks = append(tracks, *track)
	}
	if len(tracks) == 0 {
		return nil, fmt.Errorf("no free tracks found for %q", descriptor)
	}
	log.Printf("[bgm] Found %d track(s) for %q", len(tracks), descriptor)
	return tracks, nil
}

// Download fetches the track audio into destDir and writes an attribution
// file beside it. The attribution text must ship with any published video.
func (s *Scraper) Download(ctx context.Context, track *types.TrackInfo, destDir string) error {
	if track.DownloadURL == "" {
		return fmt.Errorf("track %q has no download link", track.Title)
	}
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return err
	}

	safeName := strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '-' || r == '_' {
			return r
		}
		return '_'
	}, track.Title)
	outFile := filepath.Join(destDir, safeName+".mp3")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, track.DownloadURL, nil)
	if err != nil {
		return err
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("download %q: %w", track.Title, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download %q: HTTP %d", track.Title, resp.StatusCode)
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

	if track.Attribution == "" {
		track.Attribution = fmt.Sprintf("Music: %q by %s — %s", track.Title, track.Composer, track.URL)
	}
	attrFile := filepath.Join(destDir, safeName+"_attribution.txt")
	if err := os.WriteFile(attrFile, []byte(track.Attribution+"\n"), 0644); err != nil {
		log.Printf("[bgm] Warning: could not save attribution: %v", err)
	}

	track.DownloadPath = outFile
	log.Printf("[bgm] ✅ Downloaded %q → %s", track.Title, outFile)
	return nil
}

func (s *Scraper) trackDetails(ctx context.Context, trackURL string) (*types.TrackInfo, error) {
	root, err := s.fetchHTML(ctx, trackURL)
	if err != nil {
		return nil, err
	}
	track := parseTrackPage(root)
	if track == nil {
		return nil, fmt.Errorf("no song section on page")
	}
	track.URL = trackURL
	if strings.HasPrefix(track.DownloadURL, "/") {
		track.DownloadURL = baseURL + track.DownloadURL
	}
	return track, nil
}

func (s *Scraper) fetchHTML(ctx context.Context, pageURL string) (*html.Node, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; psych-shorts-pipeline/1.0)")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	return html.Parse(resp.Body)
}

// trackLinks collects the track page links from a search results page.
func trackLinks(root *html.Node) []string {
	var links []string
	seen := make(map[string]bool)
	walk(root, func(n *html.Node) {
		if n.Type != html.ElementNode || n.Data != "a" || !hasClass(n, "has-text-black") {
			return
		}
		href := attr(n, "href")
		if href != "" && !seen[href] {
			seen[href] = true
			links = append(links, href)
		}
	})
	return links
}

// parseTrackPage extracts title, composer, description and the audio
// download link from a track detail page.
func parseTrackPage(root *html.Node) *types.TrackInfo {
	song := findByID(root, "song")
	if song == nil {
		return nil
	}
	track := &types.TrackInfo{}
	walk(song, func(n *html.Node) {
		if n.Type != html.ElementNode {
			return
		}
		switch {
		case n.Data == "h1" && hasClass(n, "is-size-4") && track.Title == "":
			track.Title = strings.TrimSpace(text(n))
		case n.Data == "h2" && hasClass(n, "is-size-6") && track.Composer == "":
			track.Composer = strings.TrimSpace(text(n))
		case n.Data == "div" && hasClass(n, "description") && track.Description == "":
			track.Description = strings.Join(strings.Fields(text(n)), " ")
		case n.Data == "audio" || n.Data == "source":
			if src := attr(n, "src"); strings.HasSuffix(src, ".mp3") && track.DownloadURL == "" {
				track.DownloadURL = src
			}
		case n.Data == "a":
			if href := attr(n, "href"); strings.HasSuffix(href, ".mp3") && track.DownloadURL == "" {
				track.DownloadURL = href
			}
		}
	})
	if track.Title == "" {
		return nil
	}
	return track
}

func walk(n *html.Node, fn func(*html.Node)) {
	fn(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func findByID(n *html.Node, id string) *html.Node {
	var found *html.Node
	walk(n, func(c *html.Node) {
		if found == nil && c.Type == html.ElementNode && attr(c, "id") == id {
			found = c
		}
	})
	return found
}

func text(n *html.Node) string {
	var sb strings.Builder
	walk(n, func(c *html.Node) {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
			sb.WriteString(" ")
		}
	})
	return sb.String()
}
