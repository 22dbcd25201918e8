package types

// PsychologyInsight is one generated topic: the concept the video explains
// plus the upload-facing copy that goes with it.
type PsychologyInsight struct {
	ConceptTitle         string   `json:"concept_title"`
	Explanation          string   `json:"explanation"`
	PsychologicalEffect  string   `json:"psychological_effect"`
	RealWorldApplication string   `json:"real_world_application"`
	YouTubeTitle         string   `json:"youtube_title"`
	YouTubeDescription   string   `json:"youtube_description"`
	Hashtags             []string `json:"hashtags"`
	CTALine              string   `json:"cta_line"`
	ValuePitch           string   `json:"value_pitch"`
}

// ScriptSection is one narrative beat of the video script
type ScriptSection struct {
	Section  string   `json:"section"` // HOOK | CONCEPT | REAL-WORLD_EXAMPLE | PSYCHOLOGICAL_INSIGHT | ACTIONABLE_TIP | CTA
	Text     string   `json:"text"`    // narration to be spoken
	Scene    string   `json:"scene"`   // visual description for stock search
	Keywords []string `json:"keywords"`
}

// VideoScript is the full structured script for one short
type VideoScript struct {
	Title           string          `json:"title"`
	Length          string          `json:"length"`
	BackgroundMusic string          `json:"background_music"`
	Sections        []ScriptSection `json:"sections"`
}

// AudioMetadata describes one synthesized narration clip
type AudioMetadata struct {
	Section    string  `json:"section"`
	Text       string  `json:"text"`
	Voice      string  `json:"voice"`
	Duration   float64 `json:"duration"`
	SampleRate int     `json:"sample_rate"`
	FilePath   string  `json:"file_path"`
}

// TrackInfo describes one royalty-free background music track
type TrackInfo struct {
	Title        string  `json:"track_title"`
	Composer     string  `json:"track_composer"`
	Description  string  `json:"track_description"`
	URL          string  `json:"track_url"`
	DownloadURL  string  `json:"download_url"`
	DownloadPath string  `json:"download_path"`
	DurationSec  float64 `json:"track_duration_seconds"`
	Attribution  string  `json:"attribution_text"`
}

// FinalReel is the finished video plus everything that went into it
type FinalReel struct {
	FinalReelPath    string     `json:"final_reel_path"`
	OriginalReelPath string     `json:"original_reel_path"`
	VideoDuration    float64    `json:"video_duration"`
	AudioVolume      float64    `json:"audio_volume"`
	TrackInfo        *TrackInfo `json:"track_info"`
	CreatedAt        string     `json:"created_at"`
	Warnings         []string   `json:"warnings,omitempty"`
}

// PipelineState tracks the full state of one pipeline run.
// It is written to <run_dir>/pipeline_state.json after every stage so a
// failed run can be diagnosed (and resumed by hand) without re-running.
type PipelineState struct {
	RunID         string             `json:"run_id"`
	StartedAt     string             `json:"started_at"`
	CompletedAt   string             `json:"completed_at"`
	Insight       *PsychologyInsight `json:"psych_insight"`
	Script        *VideoScript       `json:"script"`
	Narrations    []AudioMetadata    `json:"narrations"`
	SectionFiles  map[string]string  `json:"section_files"`
	ReelFile      string             `json:"reel_file"`
	CaptionedFile string             `json:"captioned_file"`
	FinalReel     *FinalReel         `json:"final_reel"`
	YouTubeID     string             `json:"youtube_id"`
	YouTubeURL    string             `json:"youtube_url"`
	Error         string             `json:"error,omitempty"`
}
