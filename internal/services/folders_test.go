package services

import (
	"context"
	"testing"
	"time"

	"github.com/fsdevblog/shortkeep/internal/models"
	"github.com/fsdevblog/shortkeep/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type foldersRepoMock struct {
	mock.Mock
}

func (m *foldersRepoMock) Create(ctx context.Context, folder *models.Folder) error {
	args := m.Called(ctx, folder)
	return args.Error(0)
}

func (m *foldersRepoMock) GetOwned(ctx context.Context, id, userID uint) (*models.Folder, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Folder), args.Error(1)
}

func (m *foldersRepoMock) ExistsName(ctx context.Context, userID uint, name string, excludeID uint) (bool, error) {
	args := m.Called(ctx, userID, name, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *foldersRepoMock) List(ctx context.Context, userID uint) ([]models.Folder, error) {
	args := m.Called(ctx, userID)
	var folders []models.Folder
	if args.Get(0) != nil {
		folders = args.Get(0).([]models.Folder)
	}
	return folders, args.Error(1)
}

func (m *foldersRepoMock) Update(ctx context.Context, folder *models.Folder) error {
	args := m.Called(ctx, folder)
	return args.Error(0)
}

func (m *foldersRepoMock) HardDelete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type unlinkerMock struct {
	mock.Mock
}

func (m *unlinkerMock) ClearFolderRefs(ctx context.Context, folderID, userID uint) (int64, error) {
	args := m.Called(ctx, folderID, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *unlinkerMock) ClearFolderRefsByIDs(ctx context.Context, folderID, userID uint, ids []uint) (int64, error) {
	args := m.Called(ctx, folderID, userID, ids)
	return args.Get(0).(int64), args.Error(1)
}

func TestFoldersService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("trims the name", func(t *testing.T) {
		repo := new(foldersRepoMock)
		repo.On("ExistsName", ctx, uint(1), "Work", uint(0)).Return(false, nil)
		repo.On("Create", ctx, mock.AnythingOfType("*models.Folder")).Return(nil)

		svc := NewFoldersService(repo, new(unlinkerMock))
		folder, err := svc.Create(ctx, 1, "  Work  ", "")
		require.NoError(t, err)
		assert.Equal(t, "Work", folder.Name)
	})

	t.Run("name taken", func(t *testing.T) {
		repo := new(foldersRepoMock)
		repo.On("ExistsName", ctx, uint(1), "Work", uint(0)).Return(true, nil)

		svc := NewFoldersService(repo, new(unlinkerMock))
		_, err := svc.Create(ctx, 1, "Work", "")
		assert.ErrorIs(t, err, ErrNameConflict)
		repo.AssertNotCalled(t, "Create")
	})

	t.Run("lost the insert race", func(t *testing.T) {
		repo := new(foldersRepoMock)
		repo.On("ExistsName", ctx, uint(1), "Work", uint(0)).Return(false, nil)
		repo.On("Create", ctx, mock.AnythingOfType("*models.Folder")).Return(repositories.ErrDuplicateKey)

		svc := NewFoldersService(repo, new(unlinkerMock))
		_, err := svc.Create(ctx, 1, "Work", "")
		assert.ErrorIs(t, err, ErrNameConflict)
	})
}

func TestFoldersService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("case-only rename skips the conflict check", func(t *testing.T) {
		folder := &models.Folder{ID: 1, Name: "work", UserID: 1}
		repo := new(foldersRepoMock)
		repo.On("GetOwned", ctx, uint(1), uint(1)).Return(folder, nil)
		repo.On("Update", ctx, folder).Return(nil)

		svc := NewFoldersService(repo, new(unlinkerMock))
		got, err := svc.Update(ctx, 1, 1, UpdateFolderParams{Name: NewOptional("WORK")})
		require.NoError(t, err)
		assert.Equal(t, "WORK", got.Name)
		repo.AssertNotCalled(t, "ExistsName")
	})

	t.Run("rename to a taken name", func(t *testing.T) {
		folder := &models.Folder{ID: 1, Name: "work", UserID: 1}
		repo := new(foldersRepoMock)
		repo.On("GetOwned", ctx, uint(1), uint(1)).Return(folder, nil)
		repo.On("ExistsName", ctx, uint(1), "personal", uint(1)).Return(true, nil)

		svc := NewFoldersService(repo, new(unlinkerMock))
		_, err := svc.Update(ctx, 1, 1, UpdateFolderParams{Name: NewOptional("personal")})
		assert.ErrorIs(t, err, ErrNameConflict)
	})

	t.Run("null clears the description", func(t *testing.T) {
		folder := &models.Folder{ID: 1, Name: "work", Description: "old", UserID: 1}
		repo := new(foldersRepoMock)
		repo.On("GetOwned", ctx, uint(1), uint(1)).Return(folder, nil)
		repo.On("Update", ctx, folder).Return(nil)

		svc := NewFoldersService(repo, new(unlinkerMock))
		got, err := svc.Update(ctx, 1, 1, UpdateFolderParams{Description: NullOptional[string]()})
		require.NoError(t, err)
		assert.Empty(t, got.Description)
	})
}

func TestFoldersService_SoftDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("orphans the folder links", func(t *testing.T) {
		folder := &models.Folder{ID: 3, Name: "work", UserID: 1}
		repo := new(foldersRepoMock)
		repo.On("GetOwned", ctx, uint(3), uint(1)).Return(folder, nil)
		repo.On("Update", ctx, folder).Return(nil)

		unlinker := new(unlinkerMock)
		unlinker.On("ClearFolderRefs", ctx, uint(3), uint(1)).Return(int64(5), nil)

		svc := NewFoldersService(repo, unlinker)
		orphaned, err := svc.SoftDelete(ctx, 3, 1)
		require.NoError(t, err)
		assert.EqualValues(t, 5, orphaned)
		assert.True(t, folder.IsDeleted)
		assert.NotNil(t, folder.DeletedAt)
	})

	t.Run("already deleted", func(t *testing.T) {
		deletedAt := time.Now()
		folder := &models.Folder{ID: 3, Name: "work", UserID: 1, IsDeleted: true, DeletedAt: &deletedAt}
		repo := new(foldersRepoMock)
		repo.On("GetOwned", ctx, uint(3), uint(1)).Return(folder, nil)

		svc := NewFoldersService(repo, new(unlinkerMock))
		_, err := svc.SoftDelete(ctx, 3, 1)
		assert.ErrorIs(t, err, ErrRecordNotFound)
	})
}

func TestFoldersService_Restore(t *testing.T) {
	ctx := context.Background()
	deletedAt := time.Now().Add(-time.Hour)

	t.Run("name reclaimed while in the bin", func(t *testing.T) {
		folder := &models.Folder{ID: 3, Name: "work", UserID: 1, IsDeleted: true, DeletedAt: &deletedAt}
		repo := new(foldersRepoMock)
		repo.On("GetOwned", ctx, uint(3), uint(1)).Return(folder, nil)
		repo.On("ExistsName", ctx, uint(1), "work", uint(3)).Return(true, nil)

		svc := NewFoldersService(repo, new(unlinkerMock))
		_, err := svc.Restore(ctx, 3, 1)
		assert.ErrorIs(t, err, ErrNameConflict)
	})

	t.Run("restores", func(t *testing.T) {
		folder := &models.Folder{ID: 3, Name: "work", UserID: 1, IsDeleted: true, DeletedAt: &deletedAt}
		repo := new(foldersRepoMock)
		repo.On("GetOwned", ctx, uint(3), uint(1)).Return(folder, nil)
		repo.On("ExistsName", ctx, uint(1), "work", uint(3)).Return(false, nil)
		repo.On("Update", ctx, folder).Return(nil)

		svc := NewFoldersService(repo, new(unlinkerMock))
		got, err := svc.Restore(ctx, 3, 1)
		require.NoError(t, err)
		assert.False(t, got.IsDeleted)
		assert.Nil(t, got.DeletedAt)
	})
}

func TestFoldersService_RemoveURLs(t *testing.T) {
	ctx := context.Background()
	folder := &models.Folder{ID: 3, Name: "work", UserID: 1}

	repo := new(foldersRepoMock)
	repo.On("GetOwned", ctx, uint(3), uint(1)).Return(folder, nil)

	unlinker := new(unlinkerMock)
	unlinker.On("ClearFolderRefsByIDs", ctx, uint(3), uint(1), []uint{10, 11, 99}).Return(int64(2), nil)

	svc := NewFoldersService(repo, unlinker)
	removed, err := svc.RemoveURLs(ctx, 3, 1, []uint{10, 11, 99})
	require.NoError(t, err)
	assert.EqualValues(t, 2, removed)
}
