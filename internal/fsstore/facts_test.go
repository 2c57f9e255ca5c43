package fsstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/minhokang/reelforge/internal/domain/project"
)

// seedProject creates a project and returns its canonical directory.
func seedProject(t *testing.T, s *Store, topic string) (*project.Record, string) {
	t.Helper()
	rec, err := s.Create(context.Background(), project.CreateRequest{Topic: topic})
	require.NoError(t, err)
	return rec, filepath.Join(s.root, rec.FolderName)
}

func writeFileT(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestFactsEmptyProject(t *testing.T) {
	s := newTestStore(t)
	rec, _ := seedProject(t, s, "empty")

	got := s.Facts(context.Background(), rec.ID)
	want := project.Facts{}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("facts mismatch (-want +got):\n%s", diff)
	}
}

func TestFactsCountsAndPreview(t *testing.T) {
	s := newTestStore(t)
	rec, dir := seedProject(t, s, "full pipeline")

	writeFileT(t, filepath.Join(dir, scriptFile), "once upon a time")
	writeFileT(t, filepath.Join(dir, scenesFile), `{
		"scenes": [
			{"id": "s1"},
			{"id": "s2"},
			{"id": "s3"},
		],
	}`)

	// Numeric token ordering, not mtime or lexical ordering, picks the
	// preview.
	writeFileT(t, filepath.Join(dir, "assets/images/scenes/scene_010.png"), "png")
	writeFileT(t, filepath.Join(dir, "assets/images/scenes/scene_002.png"), "png")
	writeFileT(t, filepath.Join(dir, "assets/images/cover.jpg"), "jpg")
	writeFileT(t, filepath.Join(dir, "assets/images/notes.txt"), "not an image")

	writeFileT(t, filepath.Join(dir, "assets/audio/scene_001.mp3"), "mp3")
	writeFileT(t, filepath.Join(dir, "assets/audio/scene_002.wav"), "wav")
	writeFileT(t, filepath.Join(dir, "renders/final.mp4"), "mp4")

	got := s.Facts(context.Background(), rec.ID)
	require.True(t, got.HasScript)
	require.True(t, got.HasScenesJSON)
	require.Equal(t, 3, got.ScenesCount)
	require.Equal(t, 3, got.ImagesCount)
	require.Equal(t, "/api/projects/"+rec.ID+"/files/assets/images/scenes/scene_002.png", got.PreviewImageURL)
	require.True(t, got.HasTTS)
	require.Equal(t, 2, got.TTSCount)
	require.True(t, got.HasVideo)
}

func TestFactsImagesUnionDeduplicates(t *testing.T) {
	s := newTestStore(t)
	rec, dir := seedProject(t, s, "dedup")

	writeFileT(t, filepath.Join(dir, "assets/images/scenes/scene_001.png"), "png")
	writeFileT(t, filepath.Join(dir, "assets/images/extra.png"), "png")

	// One scene references a scanned file, one references a file the
	// folder scans never see, one dangles, one points outside.
	rec.Scenes = []project.Scene{
		{ID: "s1", ImagePath: "assets/images/scenes/scene_001.png"},
		{ID: "s2", ImagePath: "assets/thumbnails/thumb.png"},
		{ID: "s3", ImagePath: "assets/images/missing.png"},
		{ID: "s4", ImagePath: "../outside.png"},
		{ID: "s5", ImagePath: "https://cdn.example.com/remote.png"},
	}
	require.NoError(t, s.Save(context.Background(), rec))
	writeFileT(t, filepath.Join(dir, "assets/thumbnails/thumb.png"), "png")
	writeFileT(t, filepath.Join(filepath.Dir(dir), "outside.png"), "png")

	got := s.Facts(context.Background(), rec.ID)
	require.Equal(t, 3, got.ImagesCount)
}

func TestFactsScenesCountFromManifestOnly(t *testing.T) {
	s := newTestStore(t)
	rec, dir := seedProject(t, s, "manifest wins")

	// Five embedded scenes, but the loose manifest holds two. The
	// manifest is authoritative for the count.
	rec.Scenes = make([]project.Scene, 5)
	for i := range rec.Scenes {
		rec.Scenes[i].ID = "s"
	}
	require.NoError(t, s.Save(context.Background(), rec))

	got := s.Facts(context.Background(), rec.ID)
	require.Equal(t, 0, got.ScenesCount)
	require.False(t, got.HasScenesJSON)

	writeFileT(t, filepath.Join(dir, scenesFile), `[{"id":"a"},{"id":"b"}]`)
	got = s.Facts(context.Background(), rec.ID)
	require.Equal(t, 2, got.ScenesCount)
	require.True(t, got.HasScenesJSON)
}

func TestFactsUnparseableManifest(t *testing.T) {
	s := newTestStore(t)
	rec, dir := seedProject(t, s, "broken manifest")

	writeFileT(t, filepath.Join(dir, scenesFile), `{{{not json`)

	got := s.Facts(context.Background(), rec.ID)
	require.True(t, got.HasScenesJSON)
	require.Equal(t, 0, got.ScenesCount)
}

func TestSortImagesByNumericToken(t *testing.T) {
	rels := []string{
		"assets/images/zebra.png",
		"assets/images/scenes/scene_010.png",
		"assets/images/scenes/scene_002.png",
		"assets/images/cover.jpg",
		"assets/images/frame9.png",
	}
	sortImagesByNumericToken(rels)
	require.Equal(t, []string{
		"assets/images/scenes/scene_002.png",
		"assets/images/frame9.png",
		"assets/images/scenes/scene_010.png",
		"assets/images/cover.jpg",
		"assets/images/zebra.png",
	}, rels)
}
