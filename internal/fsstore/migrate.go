package fsstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/minhokang/reelforge/internal/domain/project"
)

// MigrateDuplicates merges directories bound to the same identifier
// into one canonical directory and retires the rest under a _legacy
// name. Any file in a secondary directory may be the sole surviving
// copy of a user asset, so nothing is ever deleted. Run before normal
// traffic; merging under active writers is unsupported.
func (s *Store) MigrateDuplicates(ctx context.Context) (project.MigrationReport, error) {
	var report project.MigrationReport

	dirs, err := s.nonLegacyDirs()
	if err != nil {
		return report, fmt.Errorf("scanning projects root: %w", err)
	}

	byProject := make(map[string][]string)
	for _, dir := range dirs {
		if id := dirProjectID(dir); id != "" {
			byProject[id] = append(byProject[id], dir)
		}
	}
	report.ProjectsScanned = len(byProject)

	ids := make([]string, 0, len(byProject))
	for id := range byProject {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		folders := byProject[id]
		if len(folders) < 2 {
			continue
		}
		report.DuplicatesFound++

		primary := s.choosePrimary(id, folders)
		detail := project.MigrationDetail{
			ProjectID: id,
			Primary:   filepath.Base(primary),
		}

		for _, secondary := range folders {
			if secondary == primary {
				continue
			}
			stats, err := mergeTree(secondary, primary)
			if err != nil {
				return report, fmt.Errorf("merging %s into %s: %w", secondary, primary, err)
			}
			legacy := nextLegacyPath(secondary)
			if err := os.Rename(secondary, legacy); err != nil {
				return report, fmt.Errorf("retiring duplicate %s: %w", secondary, err)
			}

			report.FoldersRenamed++
			report.FilesCopied += stats.Copied
			report.FilesReplaced += stats.Replaced
			report.FilesSkipped += stats.Skipped
			detail.Merged = append(detail.Merged, project.MergedFolder{
				From:       filepath.Base(secondary),
				MergeStats: stats,
			})
			detail.Renamed = append(detail.Renamed, project.RenamedFolder{
				From: filepath.Base(secondary),
				To:   filepath.Base(legacy),
			})
			s.logger.Info("duplicate folder retired",
				"id", id,
				"from", filepath.Base(secondary),
				"to", filepath.Base(legacy))
		}

		report.Details = append(report.Details, detail)
	}

	return report, nil
}

// choosePrimary picks the directory that keeps the identifier: a record
// holder first (the canonical directory when it is one), then the most
// recently modified record holder, then the canonical directory.
func (s *Store) choosePrimary(id string, folders []string) string {
	var withRecord []string
	for _, dir := range folders {
		if hasRecord(dir, "") {
			withRecord = append(withRecord, dir)
		}
	}
	if len(withRecord) == 0 {
		return s.CanonicalDir(id)
	}

	canonical := s.CanonicalDir(id)
	for _, dir := range withRecord {
		if dir == canonical {
			return dir
		}
	}

	sort.Slice(withRecord, func(i, j int) bool {
		return modTime(withRecord[i]).After(modTime(withRecord[j]))
	})
	return withRecord[0]
}

// mergeTree copies every file under source to the same relative path
// under target. The source's record file is never copied: the primary's
// record stays authoritative. Existing destinations are overwritten
// only when the source file is newer.
func mergeTree(source, target string) (project.MergeStats, error) {
	var stats project.MergeStats

	err := filepath.WalkDir(source, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, err := filepath.Rel(source, p)
		if err != nil {
			return err
		}
		if rel == recordFile {
			stats.Skipped++
			return nil
		}

		dst := filepath.Join(target, rel)
		srcInfo, err := d.Info()
		if err != nil {
			return err
		}

		dstInfo, err := os.Stat(dst)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			if err := copyFile(p, dst, srcInfo.ModTime()); err != nil {
				return err
			}
			stats.Copied++
		case err != nil:
			return err
		case srcInfo.ModTime().After(dstInfo.ModTime()):
			if err := copyFile(p, dst, srcInfo.ModTime()); err != nil {
				return err
			}
			stats.Replaced++
		default:
			stats.Skipped++
		}
		return nil
	})

	return stats, err
}

// copyFile copies src to dst, creating parent directories and carrying
// the source modification time so repeated merges stay deterministic.
func copyFile(src, dst string, mtime time.Time) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}

	return os.Chtimes(dst, mtime, mtime)
}

// nextLegacyPath picks a free retirement name for folder: {name}_legacy,
// disambiguated with a timestamp and counter on collision.
func nextLegacyPath(folder string) string {
	candidate := folder + "_legacy"
	if _, err := os.Stat(candidate); err != nil {
		return candidate
	}

	stamp := time.Now().Format("20060102_150405")
	for i := 1; ; i++ {
		candidate = fmt.Sprintf("%s_legacy_%s_%d", folder, stamp, i)
		if _, err := os.Stat(candidate); err != nil {
			return candidate
		}
	}
}

// modTime returns the directory's modification time, zero on error.
func modTime(dir string) time.Time {
	info, err := os.Stat(dir)
	if err != nil {
		return time.Time{}
	}
	return info.ModTime()
}
