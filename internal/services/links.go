package services

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/fsdevblog/shortkeep/internal/models"
	"github.com/fsdevblog/shortkeep/internal/repositories"
	"github.com/pkg/errors"
)

// Границы пагинации листингов.
const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// LinksRepository хранилище ссылок, используемое сервисом жизненного цикла.
type LinksRepository interface {
	Create(ctx context.Context, link *models.Link) error
	GetOwned(ctx context.Context, id, userID uint) (*models.Link, error)
	ExistsShortIdentifier(ctx context.Context, shortID string, excludeID uint) (bool, error)
	Update(ctx context.Context, link *models.Link) error
	List(ctx context.Context, f repositories.ListLinksFilter) ([]models.Link, int64, error)
	HardDelete(ctx context.Context, id uint) error
}

// FolderReader доступ к папкам для валидации привязки.
type FolderReader interface {
	GetOwned(ctx context.Context, id, userID uint) (*models.Folder, error)
}

// ResolvedInvalidator инвалидация кеша редиректов при мутации ссылки.
type ResolvedInvalidator interface {
	Delete(ctx context.Context, shortID string) error
}

// CreateLinkParams параметры создания ссылки. Пустой CustomAlias означает
// случайный идентификатор.
type CreateLinkParams struct {
	UserID      uint
	Title       string
	Destination string
	CustomAlias string
	FolderID    *uint
	ExpiresAt   *time.Time
}

// UpdateLinkParams частичное обновление ссылки. Каждое поле — явный
// Optional: отсутствие поля ничего не трогает, явный null очищает
// обнуляемые поля (папку, срок жизни, заголовок).
type UpdateLinkParams struct {
	Title       Optional[string]    `json:"title"`
	Destination Optional[string]    `json:"destination"`
	Alias       Optional[string]    `json:"alias"`
	FolderID    Optional[uint]      `json:"folderID"`
	ExpiresAt   Optional[time.Time] `json:"expiresAt"`
	IsActive    Optional[bool]      `json:"isActive"`
}

// LinksService управляет жизненным циклом ссылок: создание, частичное
// обновление, мягкое удаление, восстановление, окончательное удаление,
// листинг с фильтрами.
type LinksService struct {
	linksRepo LinksRepository
	folders   FolderReader
	allocator *IdentifierAllocator
	resolved  ResolvedInvalidator
}

func NewLinksService(
	linksRepo LinksRepository,
	folders FolderReader,
	allocator *IdentifierAllocator,
	resolved ResolvedInvalidator,
) *LinksService {
	return &LinksService{
		linksRepo: linksRepo,
		folders:   folders,
		allocator: allocator,
		resolved:  resolved,
	}
}

func (s *LinksService) Create(ctx context.Context, p CreateLinkParams) (*models.Link, error) {
	destination, destErr := NormalizeDestination(p.Destination)
	if destErr != nil {
		return nil, destErr
	}

	if p.ExpiresAt != nil && !p.ExpiresAt.After(time.Now()) {
		return nil, ErrExpiryNotFuture
	}

	if p.FolderID != nil {
		if err := s.checkFolder(ctx, *p.FolderID, p.UserID); err != nil {
			return nil, err
		}
	}

	// На вставке возможна гонка двух запросов за один идентификатор:
	// дубликат по индексу для случайного токена лечится повтором, для
	// пользовательского алиаса превращается в конфликт.
	for attempt := 0; attempt < maxDrawAttempts; attempt++ {
		identifier, allocErr := s.allocator.Allocate(ctx, p.CustomAlias)
		if allocErr != nil {
			return nil, allocErr
		}

		link := models.Link{
			ShortIdentifier: identifier,
			Title:           p.Title,
			Destination:     destination,
			UserID:          p.UserID,
			FolderID:        p.FolderID,
			IsActive:        true,
			ExpiresAt:       p.ExpiresAt,
		}
		createErr := s.linksRepo.Create(ctx, &link)
		if createErr == nil {
			return &link, nil
		}
		if errors.Is(createErr, repositories.ErrDuplicateKey) {
			if p.CustomAlias != "" {
				return nil, ErrAliasTaken
			}
			continue
		}
		return nil, ErrUnknown
	}
	return nil, ErrAllocationExhausted
}

func (s *LinksService) Get(ctx context.Context, id, userID uint) (*models.Link, error) {
	link, err := s.linksRepo.GetOwned(ctx, id, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, ErrUnknown
	}
	return link, nil
}

//nolint:gocognit // последовательное применение необязательных полей
func (s *LinksService) Update(ctx context.Context, id, userID uint, p UpdateLinkParams) (*models.Link, error) {
	link, err := s.getAlive(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	oldIdentifier := link.ShortIdentifier

	if p.Title.Set {
		if p.Title.Valid {
			link.Title = p.Title.Value
		} else {
			link.Title = ""
		}
	}

	if p.Destination.Set {
		if !p.Destination.Valid {
			return nil, ErrInvalidDestination
		}
		destination, destErr := NormalizeDestination(p.Destination.Value)
		if destErr != nil {
			return nil, destErr
		}
		link.Destination = destination
	}

	if p.Alias.Set {
		if !p.Alias.Valid {
			return nil, ErrInvalidAliasFormat
		}
		if aliasErr := s.applyAliasRename(ctx, link, p.Alias.Value); aliasErr != nil {
			return nil, aliasErr
		}
	}

	if p.FolderID.Set {
		if p.FolderID.Valid {
			if folderErr := s.checkFolder(ctx, p.FolderID.Value, userID); folderErr != nil {
				return nil, folderErr
			}
			folderID := p.FolderID.Value
			link.FolderID = &folderID
		} else {
			link.FolderID = nil
		}
	}

	if p.ExpiresAt.Set {
		if p.ExpiresAt.Valid {
			if !p.ExpiresAt.Value.After(time.Now()) {
				return nil, ErrExpiryNotFuture
			}
			expiresAt := p.ExpiresAt.Value
			link.ExpiresAt = &expiresAt
		} else {
			link.ExpiresAt = nil
		}
	}

	if p.IsActive.Set {
		if !p.IsActive.Valid {
			return nil, errors.Wrap(ErrUnknown, "isActive cannot be null")
		}
		link.IsActive = p.IsActive.Value
	}

	if saveErr := s.linksRepo.Update(ctx, link); saveErr != nil {
		if errors.Is(saveErr, repositories.ErrDuplicateKey) {
			return nil, ErrAliasTaken
		}
		return nil, ErrUnknown
	}

	s.invalidate(ctx, oldIdentifier)
	if link.ShortIdentifier != oldIdentifier {
		s.invalidate(ctx, link.ShortIdentifier)
	}
	return link, nil
}

// ToggleActive переключает флаг активности и возвращает обновленную ссылку.
func (s *LinksService) ToggleActive(ctx context.Context, id, userID uint) (*models.Link, error) {
	link, err := s.getAlive(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	link.IsActive = !link.IsActive
	if saveErr := s.linksRepo.Update(ctx, link); saveErr != nil {
		return nil, ErrUnknown
	}
	s.invalidate(ctx, link.ShortIdentifier)
	return link, nil
}

func (s *LinksService) SoftDelete(ctx context.Context, id, userID uint) error {
	link, err := s.getAlive(ctx, id, userID)
	if err != nil {
		return err
	}
	now := time.Now()
	link.IsDeleted = true
	link.DeletedAt = &now
	// Привязка к папке сохраняется: восстановление возвращает ссылку на место.
	if saveErr := s.linksRepo.Update(ctx, link); saveErr != nil {
		return ErrUnknown
	}
	s.invalidate(ctx, link.ShortIdentifier)
	return nil
}

// Restore снимает флаги мягкого удаления. Существование папки заново не
// проверяется: если папку успели окончательно удалить, висячая ссылка на
// нее инертна и чистится лениво.
func (s *LinksService) Restore(ctx context.Context, id, userID uint) (*models.Link, error) {
	link, err := s.Get(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if !link.IsDeleted {
		return link, nil
	}
	link.IsDeleted = false
	link.DeletedAt = nil
	if saveErr := s.linksRepo.Update(ctx, link); saveErr != nil {
		return nil, ErrUnknown
	}
	return link, nil
}

// PermanentDelete окончательно удаляет запись. Разрешено только для уже
// мягко удаленной ссылки — защита от случайной безвозвратной потери.
func (s *LinksService) PermanentDelete(ctx context.Context, id, userID uint) error {
	link, err := s.Get(ctx, id, userID)
	if err != nil {
		return err
	}
	if !link.IsDeleted {
		return ErrNotSoftDeleted
	}
	if delErr := s.linksRepo.HardDelete(ctx, link.ID); delErr != nil {
		return ErrUnknown
	}
	s.invalidate(ctx, link.ShortIdentifier)
	return nil
}

func (s *LinksService) List(ctx context.Context, f repositories.ListLinksFilter) ([]models.Link, int64, error) {
	f.Page, f.Limit = ClampPagination(f.Page, f.Limit)
	links, total, err := s.linksRepo.List(ctx, f)
	if err != nil {
		return nil, 0, ErrUnknown
	}
	return links, total, nil
}

// getAlive возвращает не удаленную ссылку владельца. Мягко удаленная
// запись для операций редактирования неотличима от отсутствующей.
func (s *LinksService) getAlive(ctx context.Context, id, userID uint) (*models.Link, error) {
	link, err := s.Get(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if link.IsDeleted {
		return nil, ErrRecordNotFound
	}
	return link, nil
}

func (s *LinksService) applyAliasRename(ctx context.Context, link *models.Link, alias string) error {
	if alias == link.ShortIdentifier {
		return nil
	}
	if err := ValidateAlias(alias); err != nil {
		return err
	}
	taken, err := s.linksRepo.ExistsShortIdentifier(ctx, alias, link.ID)
	if err != nil {
		return ErrUnknown
	}
	if taken {
		return ErrAliasTaken
	}
	link.ShortIdentifier = alias
	return nil
}

func (s *LinksService) checkFolder(ctx context.Context, folderID, userID uint) error {
	folder, err := s.folders.GetOwned(ctx, folderID, userID)
	if err != nil || folder.IsDeleted {
		return ErrFolderUnavailable
	}
	return nil
}

// invalidate сбрасывает кеш редиректа. Ошибки кеша не влияют на операцию.
func (s *LinksService) invalidate(ctx context.Context, shortID string) {
	if s.resolved != nil {
		_ = s.resolved.Delete(ctx, shortID)
	}
}

// NormalizeDestination приводит адрес назначения к абсолютному http(s)
// URL: схема https подставляется, если не указана вовсе.
func NormalizeDestination(rawURL string) (string, error) {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		return "", ErrInvalidDestination
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}

	parsed, err := url.ParseRequestURI(trimmed)
	if err != nil {
		return "", ErrInvalidDestination
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", ErrInvalidDestination
	}
	if parsed.Host == "" {
		return "", ErrInvalidDestination
	}
	return parsed.String(), nil
}

// ClampPagination нормализует страницу и размер страницы.
func ClampPagination(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	return page, limit
}
