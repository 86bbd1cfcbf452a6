package smocks

import (
	"context"

	"github.com/fsdevblog/shortkeep/internal/models"
	"github.com/fsdevblog/shortkeep/internal/services"
	"github.com/stretchr/testify/mock"
)

type FoldersMock struct {
	mock.Mock
}

func (f *FoldersMock) Create(ctx context.Context, userID uint, name, description string) (*models.Folder, error) {
	args := f.Called(ctx, userID, name, description)
	if args.Get(0) == nil {
		return nil, args.Error(1) //nolint:wrapcheck,errcheck
	}
	return args.Get(0).(*models.Folder), args.Error(1) //nolint:wrapcheck,errcheck
}

func (f *FoldersMock) Get(ctx context.Context, id, userID uint) (*models.Folder, error) {
	args := f.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1) //nolint:wrapcheck,errcheck
	}
	return args.Get(0).(*models.Folder), args.Error(1) //nolint:wrapcheck,errcheck
}

func (f *FoldersMock) List(ctx context.Context, userID uint) ([]models.Folder, error) {
	args := f.Called(ctx, userID)
	var folders []models.Folder
	if args.Get(0) != nil {
		folders = args.Get(0).([]models.Folder)
	}
	return folders, args.Error(1) //nolint:wrapcheck,errcheck
}

func (f *FoldersMock) Update(ctx context.Context, id, userID uint, p services.UpdateFolderParams) (*models.Folder, error) {
	args := f.Called(ctx, id, userID, p)
	if args.Get(0) == nil {
		return nil, args.Error(1) //nolint:wrapcheck,errcheck
	}
	return args.Get(0).(*models.Folder), args.Error(1) //nolint:wrapcheck,errcheck
}

func (f *FoldersMock) SoftDelete(ctx context.Context, id, userID uint) (int64, error) {
	args := f.Called(ctx, id, userID)
	return args.Get(0).(int64), args.Error(1) //nolint:wrapcheck,errcheck
}

func (f *FoldersMock) Restore(ctx context.Context, id, userID uint) (*models.Folder, error) {
	args := f.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1) //nolint:wrapcheck,errcheck
	}
	return args.Get(0).(*models.Folder), args.Error(1) //nolint:wrapcheck,errcheck
}

func (f *FoldersMock) PermanentDelete(ctx context.Context, id, userID uint) error {
	args := f.Called(ctx, id, userID)
	return args.Error(0) //nolint:wrapcheck,errcheck
}

func (f *FoldersMock) RemoveURLs(ctx context.Context, id, userID uint, linkIDs []uint) (int64, error) {
	args := f.Called(ctx, id, userID, linkIDs)
	return args.Get(0).(int64), args.Error(1) //nolint:wrapcheck,errcheck
}
