package smocks

import (
	"context"
	"io"

	"github.com/fsdevblog/shortkeep/internal/repositories"
	"github.com/fsdevblog/shortkeep/internal/services"
	"github.com/stretchr/testify/mock"
)

type AnalyticsMock struct {
	mock.Mock
}

func (a *AnalyticsMock) Overview(ctx context.Context, linkID, userID uint, dr repositories.DateRange) (*services.Overview, error) {
	args := a.Called(ctx, linkID, userID, dr)
	if args.Get(0) == nil {
		return nil, args.Error(1) //nolint:wrapcheck,errcheck
	}
	return args.Get(0).(*services.Overview), args.Error(1) //nolint:wrapcheck,errcheck
}

func (a *AnalyticsMock) Series(
	ctx context.Context,
	linkID, userID uint,
	interval repositories.BucketInterval,
	dr repositories.DateRange,
) ([]repositories.SeriesPoint, error) {
	args := a.Called(ctx, linkID, userID, interval, dr)
	var points []repositories.SeriesPoint
	if args.Get(0) != nil {
		points = args.Get(0).([]repositories.SeriesPoint)
	}
	return points, args.Error(1) //nolint:wrapcheck,errcheck
}

func (a *AnalyticsMock) History(ctx context.Context, linkID, userID uint, page, limit int) ([]services.VisitEntry, int64, error) {
	args := a.Called(ctx, linkID, userID, page, limit)
	var entries []services.VisitEntry
	if args.Get(0) != nil {
		entries = args.Get(0).([]services.VisitEntry)
	}
	return entries, args.Get(1).(int64), args.Error(2) //nolint:wrapcheck,errcheck
}

func (a *AnalyticsMock) ExportCSV(ctx context.Context, linkID, userID uint, w io.Writer) error {
	args := a.Called(ctx, linkID, userID, w)
	return args.Error(0) //nolint:wrapcheck,errcheck
}
