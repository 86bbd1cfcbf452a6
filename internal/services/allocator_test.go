package services

import (
	"context"
	"testing"

	"github.com/fsdevblog/shortkeep/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type checkerMock struct {
	mock.Mock
}

func (c *checkerMock) ExistsShortIdentifier(ctx context.Context, shortID string, excludeID uint) (bool, error) {
	args := c.Called(ctx, shortID, excludeID)
	return args.Bool(0), args.Error(1)
}

func TestValidateAlias(t *testing.T) {
	tests := []struct {
		name    string
		alias   string
		wantErr bool
	}{
		{name: "valid", alias: "my-link_01", wantErr: false},
		{name: "min length", alias: "abc", wantErr: false},
		{name: "too short", alias: "ab", wantErr: true},
		{name: "too long", alias: "aaaaaaaaaaaaaaaaaaaaa", wantErr: true},
		{name: "space", alias: "my link", wantErr: true},
		{name: "unicode", alias: "ссылка", wantErr: true},
		{name: "slash", alias: "a/b/c", wantErr: true},
		{name: "empty", alias: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAlias(tt.alias)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidAliasFormat)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestIdentifierAllocator_Allocate_custom(t *testing.T) {
	ctx := context.Background()

	t.Run("free alias", func(t *testing.T) {
		checker := new(checkerMock)
		checker.On("ExistsShortIdentifier", ctx, "my-alias", uint(0)).Return(false, nil)

		a := NewIdentifierAllocator(checker, models.ShortIdentifierLength)
		got, err := a.Allocate(ctx, "my-alias")
		require.NoError(t, err)
		assert.Equal(t, "my-alias", got)
	})

	t.Run("taken alias", func(t *testing.T) {
		checker := new(checkerMock)
		checker.On("ExistsShortIdentifier", ctx, "my-alias", uint(0)).Return(true, nil)

		a := NewIdentifierAllocator(checker, models.ShortIdentifierLength)
		_, err := a.Allocate(ctx, "my-alias")
		assert.ErrorIs(t, err, ErrAliasTaken)
	})

	t.Run("bad format skips the existence check", func(t *testing.T) {
		checker := new(checkerMock)

		a := NewIdentifierAllocator(checker, models.ShortIdentifierLength)
		_, err := a.Allocate(ctx, "a b")
		assert.ErrorIs(t, err, ErrInvalidAliasFormat)
		checker.AssertNotCalled(t, "ExistsShortIdentifier")
	})
}

func TestIdentifierAllocator_Allocate_random(t *testing.T) {
	ctx := context.Background()

	t.Run("draws a token of the configured length", func(t *testing.T) {
		checker := new(checkerMock)
		checker.On("ExistsShortIdentifier", ctx, mock.AnythingOfType("string"), uint(0)).Return(false, nil)

		a := NewIdentifierAllocator(checker, models.ShortIdentifierLength)
		got, err := a.Allocate(ctx, "")
		require.NoError(t, err)
		assert.Len(t, got, models.ShortIdentifierLength)
		assert.Regexp(t, "^[A-Za-z0-9]+$", got)
	})

	t.Run("gives up after the attempt cap", func(t *testing.T) {
		checker := new(checkerMock)
		checker.On("ExistsShortIdentifier", ctx, mock.AnythingOfType("string"), uint(0)).Return(true, nil)

		a := NewIdentifierAllocator(checker, models.ShortIdentifierLength)
		_, err := a.Allocate(ctx, "")
		assert.ErrorIs(t, err, ErrAllocationExhausted)
		checker.AssertNumberOfCalls(t, "ExistsShortIdentifier", maxDrawAttempts)
	})
}
