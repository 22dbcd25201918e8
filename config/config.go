package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Script   ScriptConfig   `yaml:"script"`
	Audio    AudioConfig    `yaml:"audio"`
	Stock    StockConfig    `yaml:"stock"`
	Editor   EditorConfig   `yaml:"editor"`
	Captions CaptionsConfig `yaml:"captions"`
	BGM      BGMConfig      `yaml:"bgm"`
	Upload   UploadConfig   `yaml:"upload"`
	Paths    PathsConfig    `yaml:"paths"`
}

type ScriptConfig struct {
	Model           string  `yaml:"model"`
	Temperature     float64 `yaml:"temperature"`
	TargetLengthSec int     `yaml:"target_length_sec"`
	MaxPrevTopics   int     `yaml:"max_previous_topics"`
}

type AudioConfig struct {
	Voice      string `yaml:"voice"`
	SampleRate int    `yaml:"sample_rate"`
}

type StockConfig struct {
	ClipsPerSection int     `yaml:"clips_per_section"`
	MinClipSec      float64 `yaml:"min_clip_sec"`
	PerPage         int     `yaml:"per_page"`
}

type EditorConfig struct {
	Width                int                `yaml:"width"`
	Height               int                `yaml:"height"`
	FPS                  int                `yaml:"fps"`
	MinSegmentSec        float64            `yaml:"min_segment_sec"`
	MaxSegmentSec        float64            `yaml:"max_segment_sec"`
	TransitionSec        float64            `yaml:"transition_sec"`
	VideoCodec           string             `yaml:"video_codec"`
	Preset               string             `yaml:"preset"`
	CRF                  int                `yaml:"crf"`
	AudioCodec           string             `yaml:"audio_codec"`
	AudioBitrate         string             `yaml:"audio_bitrate"`
	SilenceBySection     map[string]float64 `yaml:"silence_by_section"`
	DefaultSilenceSec    float64            `yaml:"default_silence_sec"`
	MaxConcurrentRenders int                `yaml:"max_concurrent_renders"`
}

type CaptionsConfig struct {
	WhisperModel    string  `yaml:"whisper_model"`
	Font            string  `yaml:"font"`
	FontSize        int     `yaml:"font_size"`
	StrokeWidth     float64 `yaml:"stroke_width"`
	MarginBottom    int     `yaml:"margin_bottom"`
	MaxCharsPerLine int     `yaml:"max_chars_per_line"`
}

type BGMConfig struct {
	Volume     float64 `yaml:"volume"`
	FadeOutSec float64 `yaml:"fade_out_sec"`
	MaxPages   int     `yaml:"max_pages"`
}

type UploadConfig struct {
	Visibility      string `yaml:"visibility"`
	CategoryID      string `yaml:"category_id"`
	MadeForKids     bool   `yaml:"made_for_kids"`
	DefaultLanguage string `yaml:"default_language"`
}

type PathsConfig struct {
	Output    string `yaml:"output"`
	TopicsLog string `yaml:"topics_log"`
}

// Load reads config.yaml and returns a Config struct
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Editor.Width == 0 {
		c.Editor.Width = 720
	}
	if c.Editor.Height == 0 {
		c.Editor.Height = 1280
	}
	if c.Editor.FPS == 0 {
		c.Editor.FPS = 30
	}
	if c.Editor.MinSegmentSec == 0 {
		c.Editor.MinSegmentSec = 3.0
	}
	if c.Editor.MaxSegmentSec == 0 {
		c.Editor.MaxSegmentSec = 6.0
	}
	if c.Editor.TransitionSec == 0 {
		c.Editor.TransitionSec = 0.6
	}
	if c.Editor.VideoCodec == "" {
		c.Editor.VideoCodec = "libx264"
	}
	if c.Editor.Preset == "" {
		c.Editor.Preset = "ultrafast"
	}
	if c.Editor.CRF == 0 {
		c.Editor.CRF = 23
	}
	if c.Editor.AudioCodec == "" {
		c.Editor.AudioCodec = "aac"
	}
	if c.Editor.AudioBitrate == "" {
		c.Editor.AudioBitrate = "192k"
	}
	if c.Editor.DefaultSilenceSec == 0 {
		c.Editor.DefaultSilenceSec = 1.0
	}
	if c.Editor.MaxConcurrentRenders == 0 {
		c.Editor.MaxConcurrentRenders = 2
	}
	if c.Audio.SampleRate == 0 {
		c.Audio.SampleRate = 44100
	}
}
