package bgm

import (
	"strings"
	"testing"

	"golang.org/x/net/html"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const searchPage = `<html><body>
<div class="track-card"><a class="has-text-black" href="/royalty-free-music/track/slow-motion">Slow Motion</a></div>
<div class="track-card"><a class="has-text-black" href="/royalty-free-music/track/tenderness">Tenderness</a></div>
<a class="pagination-link" href="/royalty-free-music?page=2">2</a>
<a class="has-text-black" href="/royalty-free-music/track/slow-motion">Slow Motion (again)</a>
</body></html>`

const trackPage = `<html><body>
<div id="song">
  <h1 class="is-size-4">Slow Motion</h1>
  <h2 class="is-size-6"><a href="/artist/bensound">Benjamin Tissot</a></h2>
  <div class="description"><p>Calm and peaceful ambient track.</p><p>Perfect for reflective content.</p></div>
  <audio><source src="/audio/slowmotion.mp3" type="audio/mpeg"></audio>
</div>
</body></html>`

func TestTrackLinksDeduplicated(t *testing.T) {
	root, err := html.Parse(strings.NewReader(searchPage))
	require.NoError(t, err)

	links := trackLinks(root)
	assert.Equal(t, []string{
		"/royalty-free-music/track/slow-motion",
		"/royalty-free-music/track/tenderness",
	}, links)
}

func TestParseTrackPage(t *testing.T) {
	root, err := html.Parse(strings.NewReader(trackPage))
	require.NoError(t, err)

	track := parseTrackPage(root)
	require.NotNil(t, track)
	assert.Equal(t, "Slow Motion", track.Title)
	assert.Equal(t, "Benjamin Tissot", track.Composer)
	assert.Contains(t, track.Description, "Calm and peaceful ambient track.")
	assert.Contains(t, track.Description, "Perfect for reflective content.")
	assert.Equal(t, "/audio/slowmotion.mp3", track.DownloadURL)
}

func TestParseTrackPageMissingSong(t *testing.T) {
	root, err := html.Parse(strings.NewReader("<html><body><p>404</p></body></html>"))
	require.NoError(t, err)
	assert.Nil(t, parseTrackPage(root))
}
