package db

import (
	"fmt"

	"github.com/fsdevblog/shortkeep/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewSQLite открывает базу и накатывает схему.
func NewSQLite(dbPath string) (*gorm.DB, error) {
	conn, connErr := connectSQLite(dbPath)
	if connErr != nil {
		return nil, fmt.Errorf("init database error: %w", connErr)
	}
	if migrateErr := migrateSQLite(conn); migrateErr != nil {
		return nil, fmt.Errorf("migrate database error: %w", migrateErr)
	}
	return conn, nil
}

func connectSQLite(dbPath string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("connect database with path %s error: %w", dbPath, err)
	}
	return db, nil
}

// Уникальные индексы — финальный арбитр уникальности. Проверки в сервисном
// слое лишь улучшают сообщение об ошибке в типовом случае, гонку
// check-then-insert закрывают именно индексы.
//
// Идентификатор ссылки уникален без учета регистра среди всех записей
// (в том числе удаленных). Имя папки уникально для владельца без учета
// регистра только среди не удаленных записей: после мягкого удаления имя
// можно занять заново.
const indexesSQL = `
CREATE UNIQUE INDEX IF NOT EXISTS idx_links_short_identifier_nocase
    ON links (short_identifier COLLATE NOCASE);
CREATE UNIQUE INDEX IF NOT EXISTS idx_folders_owner_name_nocase
    ON folders (user_id, name COLLATE NOCASE) WHERE is_deleted = 0;
`

func migrateSQLite(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Link{},
		&models.Folder{},
		&models.Visit{},
	); err != nil {
		return fmt.Errorf("migrating sql: %w", err)
	}
	if err := db.Exec(indexesSQL).Error; err != nil {
		return fmt.Errorf("creating unique indexes: %w", err)
	}
	return nil
}
