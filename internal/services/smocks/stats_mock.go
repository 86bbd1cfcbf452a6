package smocks

import (
	"context"

	"github.com/fsdevblog/shortkeep/internal/services"
	"github.com/stretchr/testify/mock"
)

type StatsMock struct {
	mock.Mock
}

func (s *StatsMock) Collect(ctx context.Context) (*services.SystemStats, error) {
	args := s.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1) //nolint:wrapcheck,errcheck
	}
	return args.Get(0).(*services.SystemStats), args.Error(1) //nolint:wrapcheck,errcheck
}

type PingMock struct {
	mock.Mock
}

func (p *PingMock) CheckConnection(ctx context.Context) error {
	args := p.Called(ctx)
	return args.Error(0) //nolint:wrapcheck,errcheck
}
