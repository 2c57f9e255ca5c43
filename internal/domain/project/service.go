package project

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/minhokang/reelforge/internal/repository"
)

// defaultTitle is used when neither topic nor name yields a title.
const defaultTitle = "New Project"

// Service is the store surface handed to the transport collaborator:
// create, get, save, delete, list, reconcile, migrate, and raw-path
// helpers, always keyed by identifier.
type Service struct {
	repo     Repository
	facts    FactComputer
	migrator Migrator
	logger   *slog.Logger
}

// NewService creates a new project service.
func NewService(repo Repository, facts FactComputer, migrator Migrator, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(math.MaxInt)}))
	}
	return &Service{repo: repo, facts: facts, migrator: migrator, logger: logger}
}

// CreateRequest defines project creation inputs.
type CreateRequest struct {
	Topic       string
	Provider    string
	AspectRatio string
}

// UpdateRequest defines a typed partial update. Nil fields are left
// untouched.
type UpdateRequest struct {
	Topic        *string
	Title        *string
	Script       *string
	Provider     *string
	AspectRatio  *string
	Archived     *bool
	IsPinned     *bool
	LastOpenedAt *time.Time
}

// Create creates a new project with its directory scaffold.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Record, error) {
	if req.Provider == "" {
		req.Provider = "imagen4"
	}
	if req.AspectRatio == "" {
		req.AspectRatio = "16:9"
	}

	rec, err := s.repo.Create(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("creating project: %w", err)
	}

	s.logger.Info("project created", "id", rec.ID, "folder", rec.FolderName)
	return rec, nil
}

// Get reconciles opportunistically, then returns the record.
func (s *Service) Get(ctx context.Context, id string) (*Record, error) {
	if _, err := s.Reconcile(ctx, id, false); err != nil {
		if errors.Is(err, ErrProjectNotFound) {
			return nil, ErrProjectNotFound
		}
		// A failed reconcile must not hide a readable record.
		s.logger.Warn("reconcile before get failed", "id", id, "error", err)
	}

	rec, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("getting project: %w", err)
	}
	return rec, nil
}

// Save rewrites the full record. Last write wins; callers serialize per
// identifier.
func (s *Service) Save(ctx context.Context, rec *Record) error {
	if rec == nil || strings.TrimSpace(rec.ID) == "" {
		return ErrInvalidInput
	}
	if err := s.repo.Save(ctx, rec); err != nil {
		return fmt.Errorf("saving project: %w", err)
	}
	return nil
}

// Update applies a typed partial update and persists the record.
func (s *Service) Update(ctx context.Context, id string, req UpdateRequest) (*Record, error) {
	rec, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("loading project for update: %w", err)
	}

	now := time.Now()
	if req.Topic != nil {
		rec.Topic = *req.Topic
	}
	if req.Title != nil {
		rec.Title = *req.Title
	}
	if req.Script != nil {
		rec.Script = *req.Script
	}
	if req.Provider != nil {
		rec.Provider = *req.Provider
	}
	if req.AspectRatio != nil {
		rec.AspectRatio = *req.AspectRatio
	}
	if req.Archived != nil {
		rec.Status.Archived = *req.Archived
		if *req.Archived {
			if rec.ArchivedAt == nil {
				rec.ArchivedAt = &now
			}
		} else {
			rec.ArchivedAt = nil
		}
	}
	if req.IsPinned != nil {
		rec.Status.IsPinned = *req.IsPinned
	}
	if req.LastOpenedAt != nil {
		rec.Status.LastOpenedAt = req.LastOpenedAt
	}
	rec.UpdatedAt = now

	if err := s.repo.Save(ctx, rec); err != nil {
		return nil, fmt.Errorf("saving updated project: %w", err)
	}
	return rec, nil
}

// Delete removes the project directory recursively.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("deleting project: %w", err)
	}
	s.logger.Info("project deleted", "id", id)
	return nil
}

// ListIDs returns the sorted set of known project identifiers.
func (s *Service) ListIDs(ctx context.Context) ([]string, error) {
	return s.repo.ListIDs(ctx)
}

// List reconciles every known project and returns the snapshots, most
// recently updated first. A single broken project is skipped, not fatal.
func (s *Service) List(ctx context.Context) ([]Metadata, error) {
	ids, err := s.repo.ListIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing project ids: %w", err)
	}

	metas := make([]Metadata, 0, len(ids))
	for _, id := range ids {
		meta, err := s.Reconcile(ctx, id, false)
		if err != nil {
			s.logger.Warn("skipping unreadable project", "id", id, "error", err)
			continue
		}
		metas = append(metas, *meta)
	}

	sort.SliceStable(metas, func(i, j int) bool {
		return metas[i].UpdatedAt.After(metas[j].UpdatedAt)
	})
	return metas, nil
}

// Reconcile computes Facts from the canonical directory and folds them
// into the record, persisting only on divergence (or force). The status
// object is carried over whole so reconciling never drops IsPinned. The
// returned snapshot is the single metadata view callers trust.
//
// Calling Reconcile twice against unchanged filesystem state performs no
// further write.
func (s *Service) Reconcile(ctx context.Context, id string, force bool) (*Metadata, error) {
	rec, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("loading record: %w", err)
	}

	facts := s.facts.Facts(ctx, id)
	now := time.Now()

	if force || factsDiverge(rec, facts) {
		// Re-read so concurrent field edits between our load and this
		// write are not clobbered more than necessary. The on-disk
		// status object is carried over whole.
		if fresh, err := s.repo.Get(ctx, id); err == nil {
			rec = fresh
		}

		applyFacts(rec, facts)
		if rec.Title == "" {
			rec.Title = rec.DisplayTitle()
		}
		if rec.Status.Archived && rec.ArchivedAt == nil {
			rec.ArchivedAt = &now
		}
		rec.UpdatedAt = now

		if err := s.repo.Save(ctx, rec); err != nil {
			return nil, fmt.Errorf("persisting reconciled record: %w", err)
		}
		s.logger.Debug("metadata reconciled",
			"id", id,
			"scenes", facts.ScenesCount,
			"images", facts.ImagesCount,
			"forced", force)
	} else if rec.Title == "" && rec.DisplayTitle() != "" {
		// Backfill the title even when the facts already match.
		rec.Title = rec.DisplayTitle()
		rec.UpdatedAt = now
		if err := s.repo.Save(ctx, rec); err != nil {
			return nil, fmt.Errorf("persisting backfilled title: %w", err)
		}
	}

	title := rec.DisplayTitle()
	if title == "" {
		title = defaultTitle
	}
	if err := s.repo.WriteTitle(ctx, id, title, rec.UpdatedAt); err != nil {
		// The marker file is a convenience mirror, not the record.
		s.logger.Warn("writing title marker failed", "id", id, "error", err)
	}

	meta := &Metadata{
		ID:              id,
		Title:           title,
		Status:          rec.StatusLabel(),
		CreatedAt:       rec.CreatedAt,
		UpdatedAt:       rec.UpdatedAt,
		ArchivedAt:      rec.ArchivedAt,
		HasScript:       facts.HasScript,
		HasScenesJSON:   facts.HasScenesJSON,
		ScenesCount:     facts.ScenesCount,
		ImagesCount:     facts.ImagesCount,
		PreviewImageURL: facts.PreviewImageURL,
		HasTTS:          facts.HasTTS,
		TTSCount:        facts.TTSCount,
		HasVideo:        facts.HasVideo,
		IsPinned:        rec.Status.IsPinned,
	}
	return meta, nil
}

// Recover synthesizes a minimal record view from Facts plus the loose
// script.txt / scenes.json files when the record document itself is
// missing. This is a deliberate degradation path, not an accident.
func (s *Service) Recover(ctx context.Context, id string) (*Record, error) {
	facts := s.facts.Facts(ctx, id)

	script, err := s.repo.ReadScript(ctx, id)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		s.logger.Warn("reading loose script failed", "id", id, "error", err)
	}
	scenes, err := s.repo.ReadScenes(ctx, id)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		s.logger.Warn("reading loose scenes failed", "id", id, "error", err)
	}

	if script == "" && len(scenes) == 0 && !facts.HasScript && !facts.HasScenesJSON {
		return nil, ErrNothingToRecover
	}

	now := time.Now()
	rec := &Record{
		ID:        id,
		CreatedAt: now,
		UpdatedAt: now,
		Title:     defaultTitle,
		Script:    script,
		Scenes:    scenes,
		Settings:  DefaultSettings(),
		Status:    DefaultStatus(),
	}
	applyFacts(rec, facts)
	return rec, nil
}

// Migrate merges duplicate project directories. Run before serving any
// traffic; running it against directories with active writers is
// unsupported.
func (s *Service) Migrate(ctx context.Context) (MigrationReport, error) {
	report, err := s.migrator.MigrateDuplicates(ctx)
	if err != nil {
		return report, fmt.Errorf("migrating duplicate projects: %w", err)
	}
	if report.DuplicatesFound > 0 {
		s.logger.Info("duplicate projects merged",
			"duplicates", report.DuplicatesFound,
			"renamed", report.FoldersRenamed,
			"copied", report.FilesCopied,
			"replaced", report.FilesReplaced)
	}
	return report, nil
}

// AssetPath resolves an asset location inside the canonical directory.
func (s *Service) AssetPath(id, kind, filename string) (string, error) {
	return s.repo.AssetPath(id, kind, filename)
}

// RenderPath resolves a render output location.
func (s *Service) RenderPath(id, filename string) (string, error) {
	return s.repo.RenderPath(id, filename)
}

// ExportPath resolves an export file location.
func (s *Service) ExportPath(id, filename string) (string, error) {
	return s.repo.ExportPath(id, filename)
}

// factsDiverge reports whether any cached derived field is unset or
// disagrees with the freshly computed facts.
func factsDiverge(rec *Record, facts Facts) bool {
	switch {
	case rec.HasScript == nil, rec.ScenesCount == nil, rec.ImagesCount == nil,
		rec.HasTTS == nil, rec.HasVideo == nil:
		return true
	case *rec.HasScript != facts.HasScript:
		return true
	case *rec.ScenesCount != facts.ScenesCount:
		return true
	case *rec.ImagesCount != facts.ImagesCount:
		return true
	case *rec.HasTTS != facts.HasTTS:
		return true
	case *rec.HasVideo != facts.HasVideo:
		return true
	case (rec.PreviewImageURL == nil || *rec.PreviewImageURL == "") && facts.PreviewImageURL != "":
		return true
	}
	return false
}

// applyFacts overwrites the cached derived fields with fresh facts.
func applyFacts(rec *Record, facts Facts) {
	rec.HasScript = &facts.HasScript
	rec.HasScenesJSON = &facts.HasScenesJSON
	rec.ScenesCount = &facts.ScenesCount
	rec.ImagesCount = &facts.ImagesCount
	rec.PreviewImageURL = &facts.PreviewImageURL
	rec.HasTTS = &facts.HasTTS
	rec.TTSCount = &facts.TTSCount
	rec.HasVideo = &facts.HasVideo
}
