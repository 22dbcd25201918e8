package stock

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPickVariantPrefersPortraitAtOutputSize(t *testing.T) {
	v := Video{
		ID: 1,
		Files: []File{
			{ID: 10, Width: 1920, Height: 1080, Link: "landscape-hd"},
			{ID: 11, Width: 720, Height: 1280, Link: "portrait-exact"},
			{ID: 12, Width: 360, Height: 640, Link: "portrait-small"},
		},
	}
	got := pickVariant(v, 720, 1280)
	require.NotNil(t, got)
	assert.Equal(t, "portrait-exact", got.Link)
}

func TestPickVariantPenalizesUpscaling(t *testing.T) {
	v := Video{
		Files: []File{
			{Width: 540, Height: 960, Link: "small"},
			{Width: 1080, Height: 1920, Link: "large"},
		},
	}
	got := pickVariant(v, 720, 1280)
	require.NotNil(t, got)
	assert.Equal(t, "large", got.Link)
}

func TestPickVariantNoUsableFiles(t *testing.T) {
	v := Video{
		Files: []File{
			{Width: 0, Height: 0, Link: "broken"},
			{Width: 720, Height: 1280, Link: ""},
		},
	}
	assert.Nil(t, pickVariant(v, 720, 1280))
}
