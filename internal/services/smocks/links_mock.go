package smocks

import (
	"context"

	"github.com/fsdevblog/shortkeep/internal/models"
	"github.com/fsdevblog/shortkeep/internal/repositories"
	"github.com/fsdevblog/shortkeep/internal/services"
	"github.com/stretchr/testify/mock"
)

type LinksMock struct {
	mock.Mock
}

func (l *LinksMock) Create(ctx context.Context, p services.CreateLinkParams) (*models.Link, error) {
	args := l.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1) //nolint:wrapcheck,errcheck
	}
	return args.Get(0).(*models.Link), args.Error(1) //nolint:wrapcheck,errcheck
}

func (l *LinksMock) Get(ctx context.Context, id, userID uint) (*models.Link, error) {
	args := l.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1) //nolint:wrapcheck,errcheck
	}
	return args.Get(0).(*models.Link), args.Error(1) //nolint:wrapcheck,errcheck
}

func (l *LinksMock) Update(ctx context.Context, id, userID uint, p services.UpdateLinkParams) (*models.Link, error) {
	args := l.Called(ctx, id, userID, p)
	if args.Get(0) == nil {
		return nil, args.Error(1) //nolint:wrapcheck,errcheck
	}
	return args.Get(0).(*models.Link), args.Error(1) //nolint:wrapcheck,errcheck
}

func (l *LinksMock) ToggleActive(ctx context.Context, id, userID uint) (*models.Link, error) {
	args := l.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1) //nolint:wrapcheck,errcheck
	}
	return args.Get(0).(*models.Link), args.Error(1) //nolint:wrapcheck,errcheck
}

func (l *LinksMock) SoftDelete(ctx context.Context, id, userID uint) error {
	args := l.Called(ctx, id, userID)
	return args.Error(0) //nolint:wrapcheck,errcheck
}

func (l *LinksMock) Restore(ctx context.Context, id, userID uint) (*models.Link, error) {
	args := l.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1) //nolint:wrapcheck,errcheck
	}
	return args.Get(0).(*models.Link), args.Error(1) //nolint:wrapcheck,errcheck
}

func (l *LinksMock) PermanentDelete(ctx context.Context, id, userID uint) error {
	args := l.Called(ctx, id, userID)
	return args.Error(0) //nolint:wrapcheck,errcheck
}

func (l *LinksMock) List(ctx context.Context, f repositories.ListLinksFilter) ([]models.Link, int64, error) {
	args := l.Called(ctx, f)
	var links []models.Link
	if args.Get(0) != nil {
		links = args.Get(0).([]models.Link)
	}
	return links, args.Get(1).(int64), args.Error(2) //nolint:wrapcheck,errcheck
}
