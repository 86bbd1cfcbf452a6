package models

import "time"

// DeviceClass класс устройства посетителя.
type DeviceClass string

const (
	DeviceDesktop DeviceClass = "desktop"
	DeviceMobile  DeviceClass = "mobile"
	DeviceTablet  DeviceClass = "tablet"
	DeviceTV      DeviceClass = "tv"
	DeviceBot     DeviceClass = "bot"
	DeviceUnknown DeviceClass = "unknown"
)

// Visit структура модели хранения перехода по ссылке. Записи только
// добавляются, никогда не изменяются; IP хранится как есть и маскируется
// исключительно при чтении.
type Visit struct {
	ID        uint        `gorm:"primarykey" json:"ID"`
	UUID      string      `gorm:"size:36;index" json:"UUID"`
	CreatedAt time.Time   `gorm:"index" json:"createdAt"`
	LinkID    uint        `gorm:"index;not null" json:"linkID"`
	IP        string      `gorm:"size:45" json:"-"`
	UserAgent string      `gorm:"size:512" json:"userAgent"`
	Device    DeviceClass `gorm:"size:16;default:unknown" json:"device"`
	Referrer  string      `gorm:"size:255" json:"referrer"`
	Country   string      `gorm:"size:64" json:"country"`
	City      string      `gorm:"size:64" json:"city"`
}
