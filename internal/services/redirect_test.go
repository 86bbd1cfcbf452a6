package services

import (
	"context"
	"testing"
	"time"

	"github.com/fsdevblog/shortkeep/internal/cache"
	"github.com/fsdevblog/shortkeep/internal/models"
	"github.com/fsdevblog/shortkeep/internal/repositories"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type linkResolverMock struct {
	mock.Mock
}

func (m *linkResolverMock) GetByShortIdentifier(ctx context.Context, shortID string) (*models.Link, error) {
	args := m.Called(ctx, shortID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Link), args.Error(1)
}

type visitWriterMock struct {
	mock.Mock
}

func (m *visitWriterMock) Create(ctx context.Context, visit *models.Visit) error {
	args := m.Called(ctx, visit)
	return args.Error(0)
}

type resolvedCacheMock struct {
	mock.Mock
}

func (m *resolvedCacheMock) Get(ctx context.Context, shortID string) (*cache.ResolvedLink, error) {
	args := m.Called(ctx, shortID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cache.ResolvedLink), args.Error(1)
}

func (m *resolvedCacheMock) Set(ctx context.Context, shortID string, resolved cache.ResolvedLink) error {
	args := m.Called(ctx, shortID, resolved)
	return args.Error(0)
}

func silentLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return l
}

func TestRedirectService_Resolve_policy(t *testing.T) {
	ctx := context.Background()
	expired := time.Now().Add(-time.Hour)
	deletedAt := time.Now()

	tests := []struct {
		name    string
		link    *models.Link
		repoErr error
		wantErr error
	}{
		{
			name:    "missing identifier",
			repoErr: repositories.ErrNotFound,
			wantErr: ErrRecordNotFound,
		},
		{
			name:    "soft deleted behaves as missing",
			link:    &models.Link{ID: 1, IsActive: true, IsDeleted: true, DeletedAt: &deletedAt, Destination: "https://example.com"},
			wantErr: ErrRecordNotFound,
		},
		{
			name:    "inactive",
			link:    &models.Link{ID: 1, IsActive: false, Destination: "https://example.com"},
			wantErr: ErrLinkInactive,
		},
		{
			name:    "expired",
			link:    &models.Link{ID: 1, IsActive: true, ExpiresAt: &expired, Destination: "https://example.com"},
			wantErr: ErrLinkExpired,
		},
		{
			name:    "non-http destination",
			link:    &models.Link{ID: 1, IsActive: true, Destination: "javascript:alert(1)"},
			wantErr: ErrBadDestination,
		},
		{
			// Флаги проверяются до срока: выключенная и просроченная
			// ссылка отвечает как выключенная.
			name:    "inactive wins over expired",
			link:    &models.Link{ID: 1, IsActive: false, ExpiresAt: &expired, Destination: "https://example.com"},
			wantErr: ErrLinkInactive,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			links := new(linkResolverMock)
			if tt.repoErr != nil {
				links.On("GetByShortIdentifier", ctx, "abc1234").Return(nil, tt.repoErr)
			} else {
				links.On("GetByShortIdentifier", ctx, "abc1234").Return(tt.link, nil)
			}

			svc := NewRedirectService(links, new(visitWriterMock), nil, nil, silentLogger())
			_, err := svc.Resolve(ctx, "abc1234")
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestRedirectService_Resolve_cache(t *testing.T) {
	ctx := context.Background()

	t.Run("hit skips the database", func(t *testing.T) {
		resolvedCache := new(resolvedCacheMock)
		resolvedCache.On("Get", ctx, "abc1234").
			Return(&cache.ResolvedLink{LinkID: 1, Destination: "https://example.com"}, nil)

		links := new(linkResolverMock)
		svc := NewRedirectService(links, new(visitWriterMock), resolvedCache, nil, silentLogger())

		resolved, err := svc.Resolve(ctx, "abc1234")
		require.NoError(t, err)
		assert.Equal(t, "https://example.com", resolved.Destination)
		links.AssertNotCalled(t, "GetByShortIdentifier")
	})

	t.Run("miss resolves and caches a link without expiry", func(t *testing.T) {
		resolvedCache := new(resolvedCacheMock)
		resolvedCache.On("Get", ctx, "abc1234").Return(nil, cache.ErrMiss)
		resolvedCache.On("Set", ctx, "abc1234", cache.ResolvedLink{LinkID: 1, Destination: "https://example.com"}).
			Return(nil)

		links := new(linkResolverMock)
		links.On("GetByShortIdentifier", ctx, "abc1234").
			Return(&models.Link{ID: 1, IsActive: true, Destination: "https://example.com"}, nil)

		svc := NewRedirectService(links, new(visitWriterMock), resolvedCache, nil, silentLogger())
		resolved, err := svc.Resolve(ctx, "abc1234")
		require.NoError(t, err)
		assert.EqualValues(t, 1, resolved.LinkID)
		resolvedCache.AssertExpectations(t)
	})

	t.Run("expiring link is never cached", func(t *testing.T) {
		expires := time.Now().Add(time.Hour)

		resolvedCache := new(resolvedCacheMock)
		resolvedCache.On("Get", ctx, "abc1234").Return(nil, cache.ErrMiss)

		links := new(linkResolverMock)
		links.On("GetByShortIdentifier", ctx, "abc1234").
			Return(&models.Link{ID: 1, IsActive: true, ExpiresAt: &expires, Destination: "https://example.com"}, nil)

		svc := NewRedirectService(links, new(visitWriterMock), resolvedCache, nil, silentLogger())
		_, err := svc.Resolve(ctx, "abc1234")
		require.NoError(t, err)
		resolvedCache.AssertNotCalled(t, "Set")
	})
}

func TestRedirectService_RecordVisit(t *testing.T) {
	ctx := context.Background()

	visits := new(visitWriterMock)
	visits.On("Create", ctx, mock.AnythingOfType("*models.Visit")).Return(nil)

	svc := NewRedirectService(new(linkResolverMock), visits, nil, nil, silentLogger())
	svc.RecordVisit(ctx, 1, VisitMeta{
		IP:        "203.0.113.42",
		UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36",
		Referrer:  "https://news.ycombinator.com/item?id=1",
	})

	visits.AssertExpectations(t)
	visit := visits.Calls[0].Arguments.Get(1).(*models.Visit)
	assert.NotEmpty(t, visit.UUID)
	assert.EqualValues(t, 1, visit.LinkID)
	assert.Equal(t, models.DeviceDesktop, visit.Device)
	assert.Equal(t, "https://news.ycombinator.com", visit.Referrer)
}
