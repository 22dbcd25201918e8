package upload

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"psych-shorts-pipeline/config"
	"psych-shorts-pipeline/types"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// Uploader publishes the finished reel as a YouTube Short via Data API v3
type Uploader struct {
	cfg *config.Config
}

// New creates a new Uploader
func New(cfg *config.Config) *Uploader {
	return &Uploader{cfg: cfg}
}

// Run uploads the final reel with metadata taken from the insight
func (u *Uploader) Run(ctx context.Context, videoFile string, insight *types.PsychologyInsight) (string, string, error) {
	log.Println("[upload] Authenticating with YouTube API...")

	client, err := u.getOAuthClient(ctx)
	if err != nil {
		return "", "", fmt.Errorf("youtube auth: %w", err)
	}

	svc, err := youtube.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return "", "", fmt.Errorf("youtube service: %w", err)
	}

	title := insight.YouTubeTitle
	if title == "" {
		title = insight.ConceptTitle
	}
	log.Printf("[upload] Uploading: %q", title)

	snippet := &youtube.VideoSnippet{
		Title:                title,
		Description:          buildDescription(insight),
		Tags:                 tagsFromHashtags(insight.Hashtags),
		CategoryId:           u.cfg.Upload.CategoryID,
		DefaultLanguage:      u.cfg.Upload.DefaultLanguage,
		DefaultAudioLanguage: u.cfg.Upload.DefaultLanguage,
	}

	status := &youtube.VideoStatus{
		PrivacyStatus:           u.cfg.Upload.Visibility,
		SelfDeclaredMadeForKids: u.cfg.Upload.MadeForKids,
	}

	video := &youtube.Video{
		Snippet: snippet,
		Status:  status,
	}

	f, err := os.Open(videoFile)
	if err != nil {
		return "", "", fmt.Errorf("open video file: %w", err)
	}
	defer f.Close()

	fi, _ := f.Stat()
	log.Printf("[upload] File size: %.1f MB", float64(fi.Size())/1024/1024)

	// Resumable upload (required for files > 5MB)
	call := svc.Videos.Insert([]string{"snippet", "status"}, video)
	call.Media(f)

	uploaded, err := call.Do()
	if err != nil {
		return "", "", fmt.Errorf("youtube upload: %w", err)
	}

	videoID := uploaded.Id
	videoURL := fmt.Sprintf("https://youtube.com/shorts/%s", videoID)

	log.Printf("[upload] ✅ Uploaded successfully!")
	log.Printf("[upload] Video ID: %s", videoID)
	log.Printf("[upload] Short URL: %s", videoURL)

	return videoID, videoURL, nil
}

// buildDescription appends the hashtag block to the generated description.
// YouTube treats #Shorts in the description as the Shorts shelf signal.
func buildDescription(insight *types.PsychologyInsight) string {
	var b strings.Builder
	b.WriteString(insight.YouTubeDescription)

	tags := insight.Hashtags
	if len(tags) > 0 {
		b.WriteString("\n\n")
		for i, tag := range tags {
			if i > 0 {
				b.WriteString(" ")
			}
			if !strings.HasPrefix(tag, "#") {
				b.WriteString("#")
			}
			b.WriteString(tag)
		}
	}
	return b.String()
}

// tagsFromHashtags strips the # prefix for the snippet tag list
func tagsFromHashtags(hashtags []string) []string {
	tags := make([]string, 0, len(hashtags))
	for _, h := range hashtags {
		tag := strings.TrimPrefix(strings.TrimSpace(h), "#")
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// getOAuthClient creates an OAuth2 HTTP client using env credentials
func (u *Uploader) getOAuthClient(ctx context.Context) (*http.Client, error) {
	clientID := os.Getenv("YOUTUBE_CLIENT_ID")
	clientSecret := os.Getenv("YOUTUBE_CLIENT_SECRET")
	refreshToken := os.Getenv("YOUTUBE_REFRESH_TOKEN")

	if clientID == "" || clientSecret == "" || refreshToken == "" {
		return nil, fmt.Errorf("YOUTUBE_CLIENT_ID, YOUTUBE_CLIENT_SECRET, or YOUTUBE_REFRESH_TOKEN not set")
	}

	conf := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       []string{youtube.YoutubeUploadScope, youtube.YoutubeScope},
	}

	token := &oauth2.Token{
		RefreshToken: refreshToken,
		Expiry:       time.Now().Add(-time.Hour), // force refresh
	}

	return oauth2.NewClient(ctx, conf.TokenSource(ctx, token)), nil
}

// LogUpload saves the upload result to the run directory
func LogUpload(videoID, videoURL, videoFile, outputDir string, insight *types.PsychologyInsight) error {
	logEntry := map[string]interface{}{
		"video_id":    videoID,
		"video_url":   videoURL,
		"concept":     insight.ConceptTitle,
		"title":       insight.YouTubeTitle,
		"uploaded_at": time.Now().UTC().Format(time.RFC3339),
		"video_file":  videoFile,
	}

	logFile := fmt.Sprintf("%s/upload_%s.json", outputDir, time.Now().Format("20060102_150405"))
	data, _ := json.MarshalIndent(logEntry, "", "  ")
	if err := os.WriteFile(logFile, data, 0644); err != nil {
		return err
	}

	log.Printf("[upload] Upload log saved: %s", logFile)
	return nil
}
