package fsstore

import (
	"context"
	"encoding/json"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/minhokang/reelforge/internal/domain/project"
)

var (
	imageExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".webp": true}
	audioExts = map[string]bool{".mp3": true, ".wav": true, ".ogg": true, ".m4a": true}
	videoExts = map[string]bool{".mp4": true, ".webm": true, ".avi": true, ".mov": true}
)

var digitRun = regexp.MustCompile(`\d+`)

// Facts derives objective metadata by inspecting the canonical project
// directory. It is a pure function of filesystem state: every single
// read failure degrades to absent/zero and the call never fails as a
// whole. Image and scene counts are computed independently of each
// other.
func (s *Store) Facts(ctx context.Context, id string) project.Facts {
	dir := s.CanonicalDir(id)
	var facts project.Facts

	facts.HasScript = fileNonEmpty(filepath.Join(dir, scriptFile))

	scenesPath := filepath.Join(dir, scenesFile)
	facts.HasScenesJSON = fileNonEmpty(scenesPath)
	if facts.HasScenesJSON {
		if data, err := os.ReadFile(scenesPath); err == nil {
			if scenes, err := parseScenes(data); err == nil {
				facts.ScenesCount = len(scenes)
			} else {
				s.logger.Warn("scene manifest unparseable", "id", id, "error", err)
			}
		}
	}

	images := s.collectImages(dir)
	facts.ImagesCount = len(images)
	if len(images) > 0 {
		sortImagesByNumericToken(images)
		facts.PreviewImageURL = s.filesBase + "/" + id + "/files/" + path.Clean(filepath.ToSlash(images[0]))
	}

	facts.TTSCount = countByExt(filepath.Join(dir, assetsDir, audioSubdir), audioExts)
	facts.HasTTS = facts.TTSCount > 0
	facts.HasVideo = countByExt(filepath.Join(dir, rendersDir), videoExts) > 0

	return facts
}

// collectImages unions, deduplicated by resolved path, the nested
// scene-image folder, the flat legacy image folder, and any scene image
// reference from the record that resolves to an existing file. Returned
// paths are relative to dir.
func (s *Store) collectImages(dir string) []string {
	seen := make(map[string]string) // cleaned absolute path -> relative path

	add := func(rel string) {
		abs := filepath.Clean(filepath.Join(dir, rel))
		if _, ok := seen[abs]; !ok {
			seen[abs] = rel
		}
	}

	for _, sub := range []string{
		filepath.Join(assetsDir, imagesSubdir, scenesSubdir),
		filepath.Join(assetsDir, imagesSubdir),
	} {
		entries, err := os.ReadDir(filepath.Join(dir, sub))
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() || !imageExts[strings.ToLower(filepath.Ext(entry.Name()))] {
				continue
			}
			add(filepath.Join(sub, entry.Name()))
		}
	}

	// Scene references may point anywhere inside the project directory,
	// including files the folder scans above would never see.
	if data, err := os.ReadFile(filepath.Join(dir, recordFile)); err == nil {
		var rec project.Record
		if err := json.Unmarshal(data, &rec); err == nil {
			for _, scene := range rec.Scenes {
				ref := strings.TrimSpace(scene.ImagePath)
				if ref == "" || strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
					continue
				}
				rel := filepath.Clean(filepath.FromSlash(ref))
				if filepath.IsAbs(rel) || !filepath.IsLocal(rel) {
					continue
				}
				if info, err := os.Stat(filepath.Join(dir, rel)); err == nil && info.Mode().IsRegular() {
					add(rel)
				}
			}
		}
	}

	rels := make([]string, 0, len(seen))
	for _, rel := range seen {
		rels = append(rels, rel)
	}
	return rels
}

// sortImagesByNumericToken orders image paths by the first digit run in
// the file name ascending, names without digits after numeric ones,
// ties broken lexically. scene_002.png sorts after scene_001.png even
// when it was written first.
func sortImagesByNumericToken(rels []string) {
	type key struct {
		numeric bool
		n       int
		name    string
	}
	keyOf := func(rel string) key {
		base := filepath.Base(rel)
		stem := strings.TrimSuffix(base, filepath.Ext(base))
		k := key{name: strings.ToLower(stem)}
		if run := digitRun.FindString(stem); run != "" {
			if n, err := strconv.Atoi(run); err == nil {
				k.numeric = true
				k.n = n
			}
		}
		return k
	}
	sort.Slice(rels, func(i, j int) bool {
		a, b := keyOf(rels[i]), keyOf(rels[j])
		if a.numeric != b.numeric {
			return a.numeric
		}
		if a.numeric && a.n != b.n {
			return a.n < b.n
		}
		return a.name < b.name
	})
}

// fileNonEmpty reports whether path is a regular file with content.
func fileNonEmpty(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular() && info.Size() > 0
}

// countByExt counts regular files directly under dir with one of the
// given extensions. A missing directory counts as zero.
func countByExt(dir string, exts map[string]bool) int {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0
	}
	n := 0
	for _, entry := range entries {
		if !entry.IsDir() && exts[strings.ToLower(filepath.Ext(entry.Name()))] {
			n++
		}
	}
	return n
}
