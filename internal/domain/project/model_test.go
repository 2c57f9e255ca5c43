package project

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStatusUnmarshalObject(t *testing.T) {
	var s Status
	err := json.Unmarshal([]byte(`{"script":"done","archived":true,"isPinned":true}`), &s)
	require.NoError(t, err)
	require.Equal(t, StageDone, s.Script)
	require.Equal(t, StagePending, s.Images)
	require.True(t, s.Archived)
	require.True(t, s.IsPinned)
}

func TestStatusUnmarshalLegacyString(t *testing.T) {
	var s Status
	err := json.Unmarshal([]byte(`"archived"`), &s)
	require.NoError(t, err)
	require.True(t, s.Archived)
	require.False(t, s.IsPinned)
	require.Equal(t, StagePending, s.Script)

	err = json.Unmarshal([]byte(`"active"`), &s)
	require.NoError(t, err)
	require.False(t, s.Archived)
}

func TestSceneUnmarshalLegacyAliases(t *testing.T) {
	raw := `{
		"id": "s1",
		"text": "legacy narration",
		"duration": 4.5,
		"image_path": "assets/images/scenes/scene_001.png",
		"prompt": "a quiet harbor at dawn"
	}`
	var sc Scene
	require.NoError(t, json.Unmarshal([]byte(raw), &sc))
	require.Equal(t, "legacy narration", sc.Narration)
	require.Equal(t, 4.5, sc.DurationSec)
	require.Equal(t, "assets/images/scenes/scene_001.png", sc.ImagePath)
	require.Equal(t, "a quiet harbor at dawn", sc.ImagePrompt)
}

func TestSceneUnmarshalModernKeysWin(t *testing.T) {
	raw := `{"id":"s1","narration":"current","text":"legacy","imagePath":"a.png","image_path":"b.png"}`
	var sc Scene
	require.NoError(t, json.Unmarshal([]byte(raw), &sc))
	require.Equal(t, "current", sc.Narration)
	require.Equal(t, "a.png", sc.ImagePath)
}

func TestRecordDerivedFieldsOmittedUntilReconciled(t *testing.T) {
	rec := Record{ID: "p_20240131_093012_a4f2", Status: DefaultStatus()}
	data, err := json.Marshal(&rec)
	require.NoError(t, err)
	require.NotContains(t, string(data), "scenesCount")
	require.NotContains(t, string(data), "previewImageUrl")

	var back Record
	require.NoError(t, json.Unmarshal(data, &back))
	require.Nil(t, back.ScenesCount)
	require.Nil(t, back.HasScript)
}

func TestDisplayTitle(t *testing.T) {
	rec := Record{Title: "t", Topic: "topic", Name: "n"}
	require.Equal(t, "t", rec.DisplayTitle())
	rec.Title = ""
	require.Equal(t, "topic", rec.DisplayTitle())
	rec.Topic = ""
	require.Equal(t, "n", rec.DisplayTitle())
}
