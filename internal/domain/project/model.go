package project

import (
	"encoding/json"
	"time"
)

// Character is a recurring voice or figure referenced by scenes.
type Character struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Role        string `json:"role,omitempty"`
}

// Scene is one entry of the storyboard. ImagePath and AudioPath are
// relative to the project directory when set.
type Scene struct {
	ID          string         `json:"id"`
	Title       string         `json:"title,omitempty"`
	Narration   string         `json:"narration,omitempty"`
	ImagePrompt string         `json:"imagePrompt,omitempty"`
	ImagePath   string         `json:"imagePath,omitempty"`
	AudioPath   string         `json:"audioPath,omitempty"`
	DurationSec float64        `json:"durationSec,omitempty"`
	StartTime   float64        `json:"startTime,omitempty"`
	EndTime     float64        `json:"endTime,omitempty"`
	Sequence    int            `json:"sequence"`
	ImageStyle  string         `json:"imageStyle,omitempty"`
	ImageURL    string         `json:"imageUrl,omitempty"`
	Transition  string         `json:"transition,omitempty"`
	Effects     map[string]any `json:"effects,omitempty"`
	CharacterID string         `json:"characterId,omitempty"`
}

// UnmarshalJSON accepts the legacy snake_case and frontend alias keys
// still present in records written by earlier versions.
func (sc *Scene) UnmarshalJSON(data []byte) error {
	type plain Scene
	aux := struct {
		*plain
		Text         string  `json:"text"`
		NarrationKo  string  `json:"narration_ko"`
		Duration     float64 `json:"duration"`
		LegacyImage  string  `json:"image_path"`
		LegacyAudio  string  `json:"audio_path"`
		LegacyPrompt string  `json:"image_prompt_en"`
		Prompt       string  `json:"prompt"`
	}{plain: (*plain)(sc)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if sc.Narration == "" {
		if aux.NarrationKo != "" {
			sc.Narration = aux.NarrationKo
		} else {
			sc.Narration = aux.Text
		}
	}
	if sc.DurationSec == 0 {
		sc.DurationSec = aux.Duration
	}
	if sc.ImagePath == "" {
		sc.ImagePath = aux.LegacyImage
	}
	if sc.AudioPath == "" {
		sc.AudioPath = aux.LegacyAudio
	}
	if sc.ImagePrompt == "" {
		if aux.LegacyPrompt != "" {
			sc.ImagePrompt = aux.LegacyPrompt
		} else {
			sc.ImagePrompt = aux.Prompt
		}
	}
	return nil
}

// Thumbnail holds the project thumbnail configuration.
type Thumbnail struct {
	Text string `json:"text,omitempty"`
	Mode string `json:"mode,omitempty"` // with_text | without_text
	Path string `json:"path,omitempty"`
}

// VideoSettings configures rendering.
type VideoSettings struct {
	FPS    int `json:"fps"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// TTSSettings configures speech synthesis.
type TTSSettings struct {
	Voice  string `json:"voice"`
	Format string `json:"format"`
}

// BGMSettings configures background music.
type BGMSettings struct {
	Enabled bool    `json:"enabled"`
	Path    string  `json:"path,omitempty"`
	Volume  float64 `json:"volume"`
}

// SubtitleSettings configures burned-in subtitles.
type SubtitleSettings struct {
	Enabled bool `json:"enabled"`
}

// Settings groups all per-project generation settings.
type Settings struct {
	Video     VideoSettings    `json:"video"`
	TTS       TTSSettings      `json:"tts"`
	BGM       BGMSettings      `json:"bgm"`
	Subtitles SubtitleSettings `json:"subtitles"`
}

// DefaultSettings returns the settings applied to new projects.
func DefaultSettings() Settings {
	return Settings{
		Video: VideoSettings{FPS: 30, Width: 1280, Height: 720},
		TTS:   TTSSettings{Voice: "alloy", Format: "mp3"},
		BGM:   BGMSettings{Volume: 0.15},
	}
}

// Stage values used by the per-step pipeline status fields.
const (
	StagePending = "pending"
	StageDone    = "done"
	StageError   = "error"
)

// Status tracks pipeline progress and user-facing flags. It is always
// persisted as an object; writing it as a bare string would drop
// IsPinned and LastOpenedAt.
type Status struct {
	Script       string     `json:"script"`
	Images       string     `json:"images"`
	TTS          string     `json:"tts"`
	Render       string     `json:"render"`
	Archived     bool       `json:"archived"`
	IsPinned     bool       `json:"isPinned"`
	LastOpenedAt *time.Time `json:"lastOpenedAt,omitempty"`
}

// DefaultStatus returns the status of a freshly created project.
func DefaultStatus() Status {
	return Status{
		Script: StagePending,
		Images: StagePending,
		TTS:    StagePending,
		Render: StagePending,
	}
}

// UnmarshalJSON tolerates records written by older versions where status
// was a bare "active"/"archived" string.
func (s *Status) UnmarshalJSON(data []byte) error {
	var legacy string
	if err := json.Unmarshal(data, &legacy); err == nil {
		*s = DefaultStatus()
		s.Archived = legacy == "archived"
		return nil
	}

	type plain Status
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*s = Status(p)
	if s.Script == "" {
		s.Script = StagePending
	}
	if s.Images == "" {
		s.Images = StagePending
	}
	if s.TTS == "" {
		s.TTS = StagePending
	}
	if s.Render == "" {
		s.Render = StagePending
	}
	return nil
}

// LastRun records timing and failure info of the most recent pipeline run.
type LastRun struct {
	TimingsMs map[string]int64 `json:"timingsMs,omitempty"`
	Error     string           `json:"error,omitempty"`
}

// Record is the durable project.json document. The derived pointer
// fields cache Facts; nil means the record has never been reconciled.
// Facts stay the source of truth for them.
type Record struct {
	ID          string      `json:"id"`
	FolderName  string      `json:"folderName,omitempty"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
	ArchivedAt  *time.Time  `json:"archivedAt,omitempty"`
	Topic       string      `json:"topic"`
	Title       string      `json:"title,omitempty"`
	Name        string      `json:"name,omitempty"`
	Provider    string      `json:"provider"`
	AspectRatio string      `json:"aspectRatio"`
	Script      string      `json:"script,omitempty"`
	Characters  []Character `json:"characters"`
	Scenes      []Scene     `json:"scenes"`
	Thumbnail   Thumbnail   `json:"thumbnail"`
	Settings    Settings    `json:"settings"`
	Status      Status      `json:"status"`
	LastRun     LastRun     `json:"lastRun"`

	HasScript       *bool   `json:"hasScript,omitempty"`
	HasScenesJSON   *bool   `json:"hasScenesJson,omitempty"`
	ScenesCount     *int    `json:"scenesCount,omitempty"`
	ImagesCount     *int    `json:"imagesCount,omitempty"`
	PreviewImageURL *string `json:"previewImageUrl,omitempty"`
	HasTTS          *bool   `json:"hasTts,omitempty"`
	TTSCount        *int    `json:"ttsCount,omitempty"`
	HasVideo        *bool   `json:"hasVideo,omitempty"`
}

// DisplayTitle returns the best available human title for the record.
func (r *Record) DisplayTitle() string {
	if r.Title != "" {
		return r.Title
	}
	if r.Topic != "" {
		return r.Topic
	}
	return r.Name
}

// StatusLabel reports the coarse listing status derived from Archived.
func (r *Record) StatusLabel() string {
	if r.Status.Archived {
		return "archived"
	}
	return "active"
}

// Facts is metadata computed directly from the project directory. It is
// always reproducible and never itself treated as ground truth.
type Facts struct {
	HasScript       bool   `json:"hasScript"`
	HasScenesJSON   bool   `json:"hasScenesJson"`
	ScenesCount     int    `json:"scenesCount"`
	ImagesCount     int    `json:"imagesCount"`
	PreviewImageURL string `json:"previewImageUrl,omitempty"`
	HasTTS          bool   `json:"hasTts"`
	TTSCount        int    `json:"ttsCount"`
	HasVideo        bool   `json:"hasVideo"`
}

// Metadata is the reconciled snapshot returned to callers. Status is
// "archived" or "active".
type Metadata struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Status          string     `json:"status"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
	ArchivedAt      *time.Time `json:"archivedAt,omitempty"`
	HasScript       bool       `json:"hasScript"`
	HasScenesJSON   bool       `json:"hasScenesJson"`
	ScenesCount     int        `json:"scenesCount"`
	ImagesCount     int        `json:"imagesCount"`
	PreviewImageURL string     `json:"previewImageUrl,omitempty"`
	HasTTS          bool       `json:"hasTts"`
	TTSCount        int        `json:"ttsCount"`
	HasVideo        bool       `json:"hasVideo"`
	IsPinned        bool       `json:"isPinned"`
}
