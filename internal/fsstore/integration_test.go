package fsstore_test

import (
	"context"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/minhokang/reelforge/internal/domain/project"
	"github.com/minhokang/reelforge/internal/fsstore"
)

// TestStoreServiceRoundTrip drives the whole stack the way the host
// application does: create a project, let the pipeline drop files into
// its directory, reconcile, and check the snapshot and the persisted
// record agree with the filesystem.
func TestStoreServiceRoundTrip(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(math.MaxInt)}))
	store, err := fsstore.New(t.TempDir(), "/api/projects", logger)
	require.NoError(t, err)
	svc := project.NewService(store, store, store, logger)
	ctx := context.Background()

	rec, err := svc.Create(ctx, project.CreateRequest{Topic: "Ocean Documentary"})
	require.NoError(t, err)
	require.Equal(t, "imagen4", rec.Provider)
	require.Equal(t, "16:9", rec.AspectRatio)

	dir := filepath.Join(store.Root(), rec.FolderName)
	write := func(rel, content string) {
		t.Helper()
		p := filepath.Join(dir, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}

	write("script.txt", "narration draft")
	write("scenes.json", `[{"id":"s1"},{"id":"s2"},{"id":"s3"}]`)
	write("assets/images/scenes/scene_002.png", "png")
	write("assets/images/scenes/scene_001.png", "png")

	meta, err := svc.Reconcile(ctx, rec.ID, false)
	require.NoError(t, err)
	require.True(t, meta.HasScript)
	require.Equal(t, 3, meta.ScenesCount)
	require.Equal(t, 2, meta.ImagesCount)
	require.Equal(t, "/api/projects/"+rec.ID+"/files/assets/images/scenes/scene_001.png", meta.PreviewImageURL)
	require.Equal(t, "Ocean Documentary", meta.Title)
	require.Equal(t, "active", meta.Status)

	// With unchanged filesystem state a second reconcile must not touch
	// the record document.
	first, err := os.ReadFile(filepath.Join(dir, "project.json"))
	require.NoError(t, err)
	_, err = svc.Reconcile(ctx, rec.ID, false)
	require.NoError(t, err)
	second, err := os.ReadFile(filepath.Join(dir, "project.json"))
	require.NoError(t, err)
	require.Equal(t, string(first), string(second))

	// Pinning survives reconciliation.
	pinned := true
	_, err = svc.Update(ctx, rec.ID, project.UpdateRequest{IsPinned: &pinned})
	require.NoError(t, err)
	meta, err = svc.Reconcile(ctx, rec.ID, true)
	require.NoError(t, err)
	require.True(t, meta.IsPinned)

	// Archiving flips the listing status and stamps the timestamp.
	archived := true
	updated, err := svc.Update(ctx, rec.ID, project.UpdateRequest{Archived: &archived})
	require.NoError(t, err)
	require.NotNil(t, updated.ArchivedAt)
	got, err := svc.Get(ctx, rec.ID)
	require.NoError(t, err)
	require.Equal(t, "archived", got.StatusLabel())

	metas, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, metas, 1)
	require.Equal(t, rec.ID, metas[0].ID)

	require.NoError(t, svc.Delete(ctx, rec.ID))
	_, err = svc.Get(ctx, rec.ID)
	require.ErrorIs(t, err, project.ErrProjectNotFound)
}

// TestRecoverFromLooseFiles exercises the degradation path where the
// record document is gone but the loose files survive.
func TestRecoverFromLooseFiles(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(math.MaxInt)}))
	store, err := fsstore.New(t.TempDir(), "/api/projects", logger)
	require.NoError(t, err)
	svc := project.NewService(store, store, store, logger)
	ctx := context.Background()

	rec, err := svc.Create(ctx, project.CreateRequest{Topic: "fragile"})
	require.NoError(t, err)
	dir := filepath.Join(store.Root(), rec.FolderName)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "script.txt"), []byte("survivor"), 0o644))
	require.NoError(t, os.Remove(filepath.Join(dir, "project.json")))

	_, err = svc.Get(ctx, rec.ID)
	require.ErrorIs(t, err, project.ErrProjectNotFound)

	recovered, err := svc.Recover(ctx, rec.ID)
	require.NoError(t, err)
	require.Equal(t, rec.ID, recovered.ID)
	require.Equal(t, "survivor", recovered.Script)
	require.NotNil(t, recovered.HasScript)
	require.True(t, *recovered.HasScript)
}
