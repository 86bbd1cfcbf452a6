package services

import (
	"context"
	"strings"
	"time"

	"github.com/fsdevblog/shortkeep/internal/models"
	"github.com/fsdevblog/shortkeep/internal/repositories"
	"github.com/pkg/errors"
)

// FoldersRepository хранилище папок.
type FoldersRepository interface {
	Create(ctx context.Context, folder *models.Folder) error
	GetOwned(ctx context.Context, id, userID uint) (*models.Folder, error)
	ExistsName(ctx context.Context, userID uint, name string, excludeID uint) (bool, error)
	List(ctx context.Context, userID uint) ([]models.Folder, error)
	Update(ctx context.Context, folder *models.Folder) error
	HardDelete(ctx context.Context, id uint) error
}

// FolderLinksUnlinker операции отвязки ссылок от папки.
type FolderLinksUnlinker interface {
	ClearFolderRefs(ctx context.Context, folderID, userID uint) (int64, error)
	ClearFolderRefsByIDs(ctx context.Context, folderID, userID uint, ids []uint) (int64, error)
}

// UpdateFolderParams частичное обновление папки.
type UpdateFolderParams struct {
	Name        Optional[string] `json:"name"`
	Description Optional[string] `json:"description"`
}

// FoldersService управляет жизненным циклом папок. Политика мягкого
// удаления — осиротение: ссылки папки не удаляются, с них снимается
// привязка. Сначала переворачивается флаг, затем массовая отвязка; сбой
// между шагами оставляет инертную висячую привязку (живые выборки папок
// удаленные не видят).
type FoldersService struct {
	foldersRepo FoldersRepository
	links       FolderLinksUnlinker
}

func NewFoldersService(foldersRepo FoldersRepository, links FolderLinksUnlinker) *FoldersService {
	return &FoldersService{foldersRepo: foldersRepo, links: links}
}

func (s *FoldersService) Create(ctx context.Context, userID uint, name, description string) (*models.Folder, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.Wrap(ErrUnknown, "folder name is empty")
	}

	// Предварительная проверка только ради внятного сообщения; гонку
	// закрывает частичный уникальный индекс на вставке.
	taken, checkErr := s.foldersRepo.ExistsName(ctx, userID, name, 0)
	if checkErr != nil {
		return nil, ErrUnknown
	}
	if taken {
		return nil, ErrNameConflict
	}

	folder := models.Folder{
		Name:        name,
		Description: description,
		UserID:      userID,
	}
	if err := s.foldersRepo.Create(ctx, &folder); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrNameConflict
		}
		return nil, ErrUnknown
	}
	return &folder, nil
}

func (s *FoldersService) Get(ctx context.Context, id, userID uint) (*models.Folder, error) {
	folder, err := s.foldersRepo.GetOwned(ctx, id, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, ErrUnknown
	}
	return folder, nil
}

func (s *FoldersService) List(ctx context.Context, userID uint) ([]models.Folder, error) {
	folders, err := s.foldersRepo.List(ctx, userID)
	if err != nil {
		return nil, ErrUnknown
	}
	return folders, nil
}

func (s *FoldersService) Update(ctx context.Context, id, userID uint, p UpdateFolderParams) (*models.Folder, error) {
	folder, err := s.getAlive(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if p.Name.Set {
		if !p.Name.Valid {
			return nil, errors.Wrap(ErrUnknown, "folder name cannot be null")
		}
		name := strings.TrimSpace(p.Name.Value)
		if name == "" {
			return nil, errors.Wrap(ErrUnknown, "folder name is empty")
		}
		if !strings.EqualFold(name, folder.Name) {
			taken, checkErr := s.foldersRepo.ExistsName(ctx, userID, name, folder.ID)
			if checkErr != nil {
				return nil, ErrUnknown
			}
			if taken {
				return nil, ErrNameConflict
			}
		}
		folder.Name = name
	}

	if p.Description.Set {
		if p.Description.Valid {
			folder.Description = p.Description.Value
		} else {
			folder.Description = ""
		}
	}

	if saveErr := s.foldersRepo.Update(ctx, folder); saveErr != nil {
		if errors.Is(saveErr, repositories.ErrDuplicateKey) {
			return nil, ErrNameConflict
		}
		return nil, ErrUnknown
	}
	return folder, nil
}

// SoftDelete помечает папку удаленной и отвязывает ее живые ссылки.
// Возвращает число осиротевших ссылок.
func (s *FoldersService) SoftDelete(ctx context.Context, id, userID uint) (int64, error) {
	folder, err := s.getAlive(ctx, id, userID)
	if err != nil {
		return 0, err
	}

	now := time.Now()
	folder.IsDeleted = true
	folder.DeletedAt = &now
	if saveErr := s.foldersRepo.Update(ctx, folder); saveErr != nil {
		return 0, ErrUnknown
	}

	orphaned, clearErr := s.links.ClearFolderRefs(ctx, folder.ID, userID)
	if clearErr != nil {
		return 0, ErrUnknown
	}
	return orphaned, nil
}

// Restore снимает флаги удаления, предварительно перепроверяя коллизию
// имени с живыми папками: пока папка лежала в корзине, имя могли занять.
func (s *FoldersService) Restore(ctx context.Context, id, userID uint) (*models.Folder, error) {
	folder, err := s.Get(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if !folder.IsDeleted {
		return folder, nil
	}

	taken, checkErr := s.foldersRepo.ExistsName(ctx, userID, folder.Name, folder.ID)
	if checkErr != nil {
		return nil, ErrUnknown
	}
	if taken {
		return nil, ErrNameConflict
	}

	folder.IsDeleted = false
	folder.DeletedAt = nil
	if saveErr := s.foldersRepo.Update(ctx, folder); saveErr != nil {
		if errors.Is(saveErr, repositories.ErrDuplicateKey) {
			return nil, ErrNameConflict
		}
		return nil, ErrUnknown
	}
	return folder, nil
}

// PermanentDelete окончательно удаляет мягко удаленную папку. Ссылки к
// этому моменту уже осиротели при мягком удалении.
func (s *FoldersService) PermanentDelete(ctx context.Context, id, userID uint) error {
	folder, err := s.Get(ctx, id, userID)
	if err != nil {
		return err
	}
	if !folder.IsDeleted {
		return ErrNotSoftDeleted
	}
	if delErr := s.foldersRepo.HardDelete(ctx, folder.ID); delErr != nil {
		return ErrUnknown
	}
	return nil
}

// RemoveURLs отвязывает перечисленные ссылки от папки. Возвращает число
// реально отвязанных: чужие, чуждые папке и удаленные ссылки молча
// пропускаются.
func (s *FoldersService) RemoveURLs(ctx context.Context, id, userID uint, linkIDs []uint) (int64, error) {
	folder, err := s.getAlive(ctx, id, userID)
	if err != nil {
		return 0, err
	}
	count, unlinkErr := s.links.ClearFolderRefsByIDs(ctx, folder.ID, userID, linkIDs)
	if unlinkErr != nil {
		return 0, ErrUnknown
	}
	return count, nil
}

func (s *FoldersService) getAlive(ctx context.Context, id, userID uint) (*models.Folder, error) {
	folder, err := s.Get(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if folder.IsDeleted {
		return nil, ErrRecordNotFound
	}
	return folder, nil
}
