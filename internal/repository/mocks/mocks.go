package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/minhokang/reelforge/internal/domain/project"
)

// Repository is a mock for project.Repository.
type Repository struct {
	mock.Mock
}

func (m *Repository) Create(ctx context.Context, req project.CreateRequest) (*project.Record, error) {
	args := m.Called(ctx, req)
	if rec, ok := args.Get(0).(*project.Record); ok {
		return rec, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Repository) Get(ctx context.Context, id string) (*project.Record, error) {
	args := m.Called(ctx, id)
	if rec, ok := args.Get(0).(*project.Record); ok {
		return rec, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Repository) Save(ctx context.Context, rec *project.Record) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *Repository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *Repository) ListIDs(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if ids, ok := args.Get(0).([]string); ok {
		return ids, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Repository) WriteTitle(ctx context.Context, id, title string, updatedAt time.Time) error {
	args := m.Called(ctx, id, title, updatedAt)
	return args.Error(0)
}

func (m *Repository) ReadScript(ctx context.Context, id string) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}

func (m *Repository) ReadScenes(ctx context.Context, id string) ([]project.Scene, error) {
	args := m.Called(ctx, id)
	if scenes, ok := args.Get(0).([]project.Scene); ok {
		return scenes, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Repository) AssetPath(id, kind, filename string) (string, error) {
	args := m.Called(id, kind, filename)
	return args.String(0), args.Error(1)
}

func (m *Repository) RenderPath(id, filename string) (string, error) {
	args := m.Called(id, filename)
	return args.String(0), args.Error(1)
}

func (m *Repository) ExportPath(id, filename string) (string, error) {
	args := m.Called(id, filename)
	return args.String(0), args.Error(1)
}

// FactComputer is a mock for project.FactComputer.
type FactComputer struct {
	mock.Mock
}

func (m *FactComputer) Facts(ctx context.Context, id string) project.Facts {
	args := m.Called(ctx, id)
	return args.Get(0).(project.Facts)
}

// Migrator is a mock for project.Migrator.
type Migrator struct {
	mock.Mock
}

func (m *Migrator) MigrateDuplicates(ctx context.Context) (project.MigrationReport, error) {
	args := m.Called(ctx)
	return args.Get(0).(project.MigrationReport), args.Error(1)
}
