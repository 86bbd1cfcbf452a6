package services

import (
	"context"
	"sort"
	"time"

	"github.com/fsdevblog/shortkeep/internal/models"
)

// RecycleItemType тип элемента корзины.
type RecycleItemType string

const (
	RecycleItemLink   RecycleItemType = "link"
	RecycleItemFolder RecycleItemType = "folder"
)

// maxMergeWindow потолок окна слияния на коллекцию: глубина страницы без
// фильтра по типу упирается в это число строк.
const maxMergeWindow = 1000

// RecycleItem элемент корзины: либо ссылка, либо папка.
type RecycleItem struct {
	Type      RecycleItemType `json:"type"`
	DeletedAt time.Time       `json:"deletedAt"`
	Link      *models.Link    `json:"link,omitempty"`
	Folder    *models.Folder  `json:"folder,omitempty"`
}

// DeletedLinksLister выборка мягко удаленных ссылок владельца.
type DeletedLinksLister interface {
	ListDeleted(ctx context.Context, userID uint, page, limit int) ([]models.Link, int64, error)
}

// DeletedFoldersLister выборка мягко удаленных папок владельца.
type DeletedFoldersLister interface {
	ListDeleted(ctx context.Context, userID uint, page, limit int) ([]models.Folder, int64, error)
}

// LinkRecycler операции корзины над ссылками.
type LinkRecycler interface {
	Restore(ctx context.Context, id, userID uint) (*models.Link, error)
	PermanentDelete(ctx context.Context, id, userID uint) error
}

// FolderRecycler операции корзины над папками. Restore внутри заново
// проверяет коллизию имени.
type FolderRecycler interface {
	Restore(ctx context.Context, id, userID uint) (*models.Folder, error)
	PermanentDelete(ctx context.Context, id, userID uint) error
}

// RecycleBinService единая поверхность над мягко удаленными ссылками и
// папками: листинг, восстановление, окончательное удаление.
type RecycleBinService struct {
	deletedLinks   DeletedLinksLister
	deletedFolders DeletedFoldersLister
	links          LinkRecycler
	folders        FolderRecycler
}

func NewRecycleBinService(
	deletedLinks DeletedLinksLister,
	deletedFolders DeletedFoldersLister,
	links LinkRecycler,
	folders FolderRecycler,
) *RecycleBinService {
	return &RecycleBinService{
		deletedLinks:   deletedLinks,
		deletedFolders: deletedFolders,
		links:          links,
		folders:        folders,
	}
}

// List возвращает страницу корзины. С фильтром по типу пагинация идет по
// одной коллекции; без фильтра — слиянием обеих по убыванию времени
// удаления (из каждой берется page*limit записей, окно режется после
// слияния). Глубина слияния ограничена maxMergeWindow строк на коллекцию.
func (s *RecycleBinService) List(
	ctx context.Context,
	userID uint,
	itemType RecycleItemType,
	page, limit int,
) ([]RecycleItem, int64, error) {
	page, limit = ClampPagination(page, limit)

	switch itemType {
	case RecycleItemLink:
		links, total, err := s.deletedLinks.ListDeleted(ctx, userID, page, limit)
		if err != nil {
			return nil, 0, ErrUnknown
		}
		return linksToItems(links), total, nil
	case RecycleItemFolder:
		folders, total, err := s.deletedFolders.ListDeleted(ctx, userID, page, limit)
		if err != nil {
			return nil, 0, ErrUnknown
		}
		return foldersToItems(folders), total, nil
	}

	if maxPage := maxMergeWindow / limit; page > maxPage {
		page = maxPage
	}
	prefetch := page * limit
	links, linksTotal, linksErr := s.deletedLinks.ListDeleted(ctx, userID, 1, prefetch)
	if linksErr != nil {
		return nil, 0, ErrUnknown
	}
	folders, foldersTotal, foldersErr := s.deletedFolders.ListDeleted(ctx, userID, 1, prefetch)
	if foldersErr != nil {
		return nil, 0, ErrUnknown
	}

	merged := append(linksToItems(links), foldersToItems(folders)...)
	sort.Slice(merged, func(i, j int) bool {
		return merged[i].DeletedAt.After(merged[j].DeletedAt)
	})

	total := linksTotal + foldersTotal
	start := (page - 1) * limit
	if start >= len(merged) {
		return []RecycleItem{}, total, nil
	}
	end := start + limit
	if end > len(merged) {
		end = len(merged)
	}
	return merged[start:end], total, nil
}

// Restore восстанавливает элемент корзины, диспетчеризуя по типу.
func (s *RecycleBinService) Restore(ctx context.Context, userID uint, itemType RecycleItemType, id uint) error {
	switch itemType {
	case RecycleItemLink:
		_, err := s.links.Restore(ctx, id, userID)
		return err
	case RecycleItemFolder:
		_, err := s.folders.Restore(ctx, id, userID)
		return err
	default:
		return ErrRecordNotFound
	}
}

// Purge окончательно удаляет элемент корзины.
func (s *RecycleBinService) Purge(ctx context.Context, userID uint, itemType RecycleItemType, id uint) error {
	switch itemType {
	case RecycleItemLink:
		return s.links.PermanentDelete(ctx, id, userID)
	case RecycleItemFolder:
		return s.folders.PermanentDelete(ctx, id, userID)
	default:
		return ErrRecordNotFound
	}
}

func linksToItems(links []models.Link) []RecycleItem {
	items := make([]RecycleItem, 0, len(links))
	for i := range links {
		link := links[i]
		item := RecycleItem{Type: RecycleItemLink, Link: &link}
		if link.DeletedAt != nil {
			item.DeletedAt = *link.DeletedAt
		}
		items = append(items, item)
	}
	return items
}

func foldersToItems(folders []models.Folder) []RecycleItem {
	items := make([]RecycleItem, 0, len(folders))
	for i := range folders {
		folder := folders[i]
		item := RecycleItem{Type: RecycleItemFolder, Folder: &folder}
		if folder.DeletedAt != nil {
			item.DeletedAt = *folder.DeletedAt
		}
		items = append(items, item)
	}
	return items
}
