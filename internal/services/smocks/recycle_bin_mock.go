package smocks

import (
	"context"

	"github.com/fsdevblog/shortkeep/internal/services"
	"github.com/stretchr/testify/mock"
)

type RecycleBinMock struct {
	mock.Mock
}

func (r *RecycleBinMock) List(
	ctx context.Context,
	userID uint,
	itemType services.RecycleItemType,
	page, limit int,
) ([]services.RecycleItem, int64, error) {
	args := r.Called(ctx, userID, itemType, page, limit)
	var items []services.RecycleItem
	if args.Get(0) != nil {
		items = args.Get(0).([]services.RecycleItem)
	}
	return items, args.Get(1).(int64), args.Error(2) //nolint:wrapcheck,errcheck
}

func (r *RecycleBinMock) Restore(ctx context.Context, userID uint, itemType services.RecycleItemType, id uint) error {
	args := r.Called(ctx, userID, itemType, id)
	return args.Error(0) //nolint:wrapcheck,errcheck
}

func (r *RecycleBinMock) Purge(ctx context.Context, userID uint, itemType services.RecycleItemType, id uint) error {
	args := r.Called(ctx, userID, itemType, id)
	return args.Error(0) //nolint:wrapcheck,errcheck
}
