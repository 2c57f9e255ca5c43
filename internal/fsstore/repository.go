package fsstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/tailscale/hujson"

	"github.com/minhokang/reelforge/internal/domain/project"
	"github.com/minhokang/reelforge/internal/repository"
)

// Get loads the record from the canonical directory.
func (s *Store) Get(ctx context.Context, id string) (*project.Record, error) {
	path := filepath.Join(s.CanonicalDir(id), recordFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("reading record: %w", err)
	}

	var rec project.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("parsing record %s: %w", path, err)
	}
	return &rec, nil
}

// Save rewrites the full record document. The folder-binding field
// already on disk is preserved when the in-memory record lacks one, so
// an out-of-date writer cannot unbind a slugged directory.
func (s *Store) Save(ctx context.Context, rec *project.Record) error {
	if rec == nil || rec.ID == "" {
		return repository.ErrInvalidInput
	}

	dir := s.CanonicalDir(rec.ID)
	if err := scaffold(dir); err != nil {
		return fmt.Errorf("ensuring project directories: %w", err)
	}

	path := filepath.Join(dir, recordFile)
	if rec.FolderName == "" {
		if data, err := os.ReadFile(path); err == nil {
			var existing struct {
				FolderName string `json:"folderName"`
			}
			if json.Unmarshal(data, &existing) == nil {
				rec.FolderName = existing.FolderName
			}
		}
		if rec.FolderName == "" {
			rec.FolderName = filepath.Base(dir)
		}
	}

	return s.writeRecord(path, rec)
}

// Delete removes the canonical project directory recursively.
func (s *Store) Delete(ctx context.Context, id string) error {
	dir := s.CanonicalDir(id)
	if _, err := os.Stat(dir); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return repository.ErrNotFound
		}
		return fmt.Errorf("checking project directory: %w", err)
	}
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("removing project directory: %w", err)
	}
	return nil
}

// ListIDs collects the sorted set of identifiers across non-legacy
// directories: from each directory's record when readable, from the
// folder name otherwise.
func (s *Store) ListIDs(ctx context.Context) ([]string, error) {
	dirs, err := s.nonLegacyDirs()
	if err != nil {
		return nil, fmt.Errorf("scanning projects root: %w", err)
	}

	seen := make(map[string]bool)
	for _, dir := range dirs {
		id := recordID(dir)
		if id == "" {
			id = project.IDFromFolderName(filepath.Base(dir))
		}
		if id != "" {
			seen[id] = true
		}
	}

	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// WriteTitle mirrors the title into the marker file next to the record.
func (s *Store) WriteTitle(ctx context.Context, id, title string, updatedAt time.Time) error {
	return s.writeTitleFile(filepath.Join(s.CanonicalDir(id), titleFile), title, updatedAt)
}

// ReadScript returns the loose script text, repository.ErrNotFound when
// absent.
func (s *Store) ReadScript(ctx context.Context, id string) (string, error) {
	data, err := os.ReadFile(filepath.Join(s.CanonicalDir(id), scriptFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", repository.ErrNotFound
		}
		return "", fmt.Errorf("reading script: %w", err)
	}
	return string(data), nil
}

// ReadScenes parses the loose scene manifest, repository.ErrNotFound
// when absent.
func (s *Store) ReadScenes(ctx context.Context, id string) ([]project.Scene, error) {
	data, err := os.ReadFile(filepath.Join(s.CanonicalDir(id), scenesFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("reading scenes: %w", err)
	}

	scenes, err := parseScenes(data)
	if err != nil {
		return nil, fmt.Errorf("parsing scenes: %w", err)
	}
	return scenes, nil
}

// parseScenes accepts a bare scene list or a {scenes:[...]} wrapper.
// The manifest is hand-edited often enough that comments and trailing
// commas are tolerated.
func parseScenes(data []byte) ([]project.Scene, error) {
	std, err := hujson.Standardize(data)
	if err != nil {
		return nil, err
	}

	var list []project.Scene
	if err := json.Unmarshal(std, &list); err == nil {
		return list, nil
	}

	var wrapper struct {
		Scenes []project.Scene `json:"scenes"`
	}
	if err := json.Unmarshal(std, &wrapper); err != nil {
		return nil, err
	}
	return wrapper.Scenes, nil
}

// AssetPath resolves where a collaborator should write an asset file.
// kind is one of images, audio, bgm, thumbnails, subtitles; filename may
// carry a subpath (e.g. scenes/scene_001.png) but must stay inside the
// project directory.
func (s *Store) AssetPath(id, kind, filename string) (string, error) {
	if !assetKinds[kind] {
		return "", fmt.Errorf("%w: unknown asset kind %q", repository.ErrInvalidInput, kind)
	}
	rel, err := safeRel(filename)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.CanonicalDir(id), assetsDir, kind, rel), nil
}

// RenderPath resolves a render output location.
func (s *Store) RenderPath(id, filename string) (string, error) {
	rel, err := safeRel(filename)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.CanonicalDir(id), rendersDir, rel), nil
}

// ExportPath resolves an export file location.
func (s *Store) ExportPath(id, filename string) (string, error) {
	rel, err := safeRel(filename)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.CanonicalDir(id), exportsDir, rel), nil
}

// safeRel rejects names that would escape the directory they are joined
// under.
func safeRel(filename string) (string, error) {
	if filename == "" {
		return "", repository.ErrInvalidInput
	}
	cleaned := filepath.Clean(filepath.FromSlash(filename))
	if filepath.IsAbs(cleaned) || !filepath.IsLocal(cleaned) || strings.HasPrefix(cleaned, "..") {
		return "", fmt.Errorf("%w: %q", repository.ErrUnsafePath, filename)
	}
	return cleaned, nil
}
