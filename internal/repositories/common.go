package repositories

import "time"

// LinkStatus фильтр по состоянию ссылки в листинге.
type LinkStatus string

const (
	LinkStatusActive   LinkStatus = "active"
	LinkStatusInactive LinkStatus = "inactive"
	LinkStatusExpired  LinkStatus = "expired"
)

// ListLinksFilter параметры выборки ссылок. Заданные поля складываются
// по логическому AND.
type ListLinksFilter struct {
	UserID      uint
	FolderID    *uint
	Status      LinkStatus
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	Search      string
	Page        int
	Limit       int
}

// DateRange необязательный диапазон дат [From, To] включительно.
type DateRange struct {
	From *time.Time
	To   *time.Time
}

// BucketInterval шаг временной серии аналитики.
type BucketInterval string

const (
	BucketDaily   BucketInterval = "daily"
	BucketWeekly  BucketInterval = "weekly"
	BucketMonthly BucketInterval = "monthly"
)

// FieldCount одна строка категориальной разбивки (значение + количество).
type FieldCount struct {
	Value string `json:"value"`
	Count int64  `json:"count"`
}

// SeriesPoint одна корзина временной серии.
type SeriesPoint struct {
	Bucket string `json:"bucket"`
	Count  int64  `json:"count"`
}
