// Package fsstore persists project records as JSON documents inside
// per-project directories. The directory tree is the database: the
// record caches derived metadata, but the files themselves stay
// authoritative.
package fsstore

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/minhokang/reelforge/internal/domain/project"
)

// Fixed file and directory names inside a project directory.
const (
	recordFile = "project.json"
	titleFile  = "TITLE.txt"
	scriptFile = "script.txt"
	scenesFile = "scenes.json"

	assetsDir    = "assets"
	rendersDir   = "renders"
	exportsDir   = "exports"
	logsDir      = "logs"
	imagesSubdir = "images"
	scenesSubdir = "scenes"
	audioSubdir  = "audio"
	bgmSubdir    = "bgm"
	thumbsSubdir = "thumbnails"
	subsSubdir   = "subtitles"
)

// assetKinds are the asset subdirectories collaborators may write into.
var assetKinds = map[string]bool{
	imagesSubdir: true,
	audioSubdir:  true,
	bgmSubdir:    true,
	thumbsSubdir: true,
	subsSubdir:   true,
}

// Store implements the project repository, fact computer, and duplicate
// migrator over a single projects root directory.
//
// Concurrency contract: last write wins, no locking; the host process
// serializes writes per identifier.
type Store struct {
	root      string
	filesBase string
	logger    *slog.Logger
}

// New opens (creating if needed) the projects root directory. filesBase
// is the URL prefix under which project files are served, e.g.
// "/api/projects".
func New(root, filesBase string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(math.MaxInt)}))
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("creating projects root: %w", err)
	}
	return &Store{root: root, filesBase: filesBase, logger: logger}, nil
}

// Root returns the projects root directory.
func (s *Store) Root() string {
	return s.root
}

// Create allocates an identifier, scaffolds the directory tree, freezes
// the slug from the topic, and writes the initial record plus the title
// marker file.
func (s *Store) Create(ctx context.Context, req project.CreateRequest) (*project.Record, error) {
	now := time.Now()
	id := project.NewID(now)
	folderName := id + "__" + project.TitleSlug(req.Topic)

	dir := filepath.Join(s.root, folderName)
	if err := scaffold(dir); err != nil {
		return nil, fmt.Errorf("scaffolding project directory: %w", err)
	}

	title := req.Topic
	if title == "" {
		title = "New Project"
	}

	rec := &project.Record{
		ID:          id,
		FolderName:  folderName,
		CreatedAt:   now,
		UpdatedAt:   now,
		Topic:       req.Topic,
		Title:       title,
		Provider:    req.Provider,
		AspectRatio: req.AspectRatio,
		Characters: []project.Character{
			{ID: "narrator", Name: "Narrator"},
			{ID: "main", Name: "Protagonist"},
		},
		Scenes:   []project.Scene{},
		Settings: project.DefaultSettings(),
		Status:   project.DefaultStatus(),
	}

	if err := s.writeRecord(filepath.Join(dir, recordFile), rec); err != nil {
		return nil, fmt.Errorf("writing initial record: %w", err)
	}
	if err := s.writeTitleFile(filepath.Join(dir, titleFile), title, now); err != nil {
		s.logger.Warn("writing title marker failed", "id", id, "error", err)
	}

	return rec, nil
}

// scaffold creates the fixed subfolder tree of a project directory.
func scaffold(dir string) error {
	subdirs := []string{
		filepath.Join(assetsDir, imagesSubdir),
		filepath.Join(assetsDir, imagesSubdir, scenesSubdir),
		filepath.Join(assetsDir, audioSubdir),
		filepath.Join(assetsDir, bgmSubdir),
		filepath.Join(assetsDir, thumbsSubdir),
		filepath.Join(assetsDir, subsSubdir),
		rendersDir,
		exportsDir,
		logsDir,
	}
	for _, sub := range subdirs {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0o755); err != nil {
			return err
		}
	}
	return nil
}
