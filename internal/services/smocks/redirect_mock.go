package smocks

import (
	"context"

	"github.com/fsdevblog/shortkeep/internal/cache"
	"github.com/fsdevblog/shortkeep/internal/services"
	"github.com/stretchr/testify/mock"
)

type RedirectMock struct {
	mock.Mock
}

func (r *RedirectMock) Resolve(ctx context.Context, shortID string) (*cache.ResolvedLink, error) {
	args := r.Called(ctx, shortID)
	if args.Get(0) == nil {
		return nil, args.Error(1) //nolint:wrapcheck,errcheck
	}
	return args.Get(0).(*cache.ResolvedLink), args.Error(1) //nolint:wrapcheck,errcheck
}

func (r *RedirectMock) RecordVisit(ctx context.Context, linkID uint, meta services.VisitMeta) {
	r.Called(ctx, linkID, meta)
}
