package services

import (
	"context"
	"crypto/rand"
	"math/big"
	"regexp"

	"github.com/pkg/errors"
)

// identifierAlphabet алфавит генерируемых идентификаторов.
const identifierAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// maxDrawAttempts предел попыток случайной генерации. При почти полном
// пространстве идентификаторов цикл без предела — риск зависания, поэтому
// после исчерпания возвращается ErrAllocationExhausted.
const maxDrawAttempts = 10

var aliasRegex = regexp.MustCompile(`^[A-Za-z0-9_-]{3,20}$`)

// IdentifierChecker проверка занятости идентификатора (без учета регистра,
// по всем записям независимо от владельца и флага удаления).
type IdentifierChecker interface {
	ExistsShortIdentifier(ctx context.Context, shortID string, excludeID uint) (bool, error)
}

// IdentifierAllocator выделяет короткий идентификатор: либо валидирует
// пользовательский алиас, либо тянет случайный токен фиксированной длины.
// Проверка занятости здесь — только быстрый фильтр ради внятной ошибки;
// финальный арбитр — уникальный индекс на вставке.
type IdentifierAllocator struct {
	checker IdentifierChecker
	length  int
}

func NewIdentifierAllocator(checker IdentifierChecker, length int) *IdentifierAllocator {
	return &IdentifierAllocator{checker: checker, length: length}
}

// Allocate возвращает свободный идентификатор. Пустой customAlias означает
// случайную генерацию.
func (a *IdentifierAllocator) Allocate(ctx context.Context, customAlias string) (string, error) {
	if customAlias != "" {
		return a.allocateCustom(ctx, customAlias)
	}
	return a.allocateRandom(ctx)
}

// ValidateAlias проверяет формат пользовательского алиаса.
func ValidateAlias(alias string) error {
	if !aliasRegex.MatchString(alias) {
		return ErrInvalidAliasFormat
	}
	return nil
}

func (a *IdentifierAllocator) allocateCustom(ctx context.Context, alias string) (string, error) {
	if err := ValidateAlias(alias); err != nil {
		return "", err
	}
	taken, err := a.checker.ExistsShortIdentifier(ctx, alias, 0)
	if err != nil {
		return "", ErrUnknown
	}
	if taken {
		return "", ErrAliasTaken
	}
	return alias, nil
}

func (a *IdentifierAllocator) allocateRandom(ctx context.Context) (string, error) {
	for attempt := 0; attempt < maxDrawAttempts; attempt++ {
		candidate, drawErr := drawToken(a.length)
		if drawErr != nil {
			return "", errors.Wrap(ErrUnknown, "draw random identifier")
		}
		taken, err := a.checker.ExistsShortIdentifier(ctx, candidate, 0)
		if err != nil {
			return "", ErrUnknown
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", ErrAllocationExhausted
}

func drawToken(length int) (string, error) {
	buf := make([]byte, length)
	max := big.NewInt(int64(len(identifierAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = identifierAlphabet[n.Int64()]
	}
	return string(buf), nil
}
