package upload

import (
	"testing"

	"psych-shorts-pipeline/types"

	"github.com/stretchr/testify/assert"
)

func TestBuildDescription(t *testing.T) {
	insight := &types.PsychologyInsight{
		YouTubeDescription: "Why your brain falls for this every time.",
		Hashtags:           []string{"#Shorts", "psychology", "#brainhacks"},
	}
	desc := buildDescription(insight)
	assert.Equal(t, "Why your brain falls for this every time.\n\n#Shorts #psychology #brainhacks", desc)
}

func TestBuildDescriptionNoHashtags(t *testing.T) {
	insight := &types.PsychologyInsight{YouTubeDescription: "Plain description."}
	assert.Equal(t, "Plain description.", buildDescription(insight))
}

func TestTagsFromHashtags(t *testing.T) {
	tags := tagsFromHashtags([]string{"#Shorts", " psychology ", "#", ""})
	assert.Equal(t, []string{"Shorts", "psychology"}, tags)
}
