package services

import "errors"

var (
	ErrUnknown        = errors.New("[service]: unknown error")
	ErrRecordNotFound = errors.New("[service]: record not found")

	// Аллокатор идентификаторов.
	ErrInvalidAliasFormat  = errors.New("[service]: invalid alias format")
	ErrAliasTaken          = errors.New("[service]: alias already taken")
	ErrAllocationExhausted = errors.New("[service]: identifier allocation exhausted")

	// Жизненный цикл ссылок.
	ErrInvalidDestination = errors.New("[service]: invalid destination url")
	ErrExpiryNotFuture    = errors.New("[service]: expiration date must be in the future")
	ErrFolderUnavailable  = errors.New("[service]: folder not found or unavailable")
	ErrNotSoftDeleted     = errors.New("[service]: record is not soft deleted")

	// Жизненный цикл папок.
	ErrNameConflict = errors.New("[service]: name already taken")

	// Политика редиректа.
	ErrLinkInactive   = errors.New("[service]: link is deactivated")
	ErrLinkExpired    = errors.New("[service]: link is expired")
	ErrBadDestination = errors.New("[service]: destination failed validation")

	// Пользователи.
	ErrEmailTaken         = errors.New("[service]: email already taken")
	ErrInvalidCredentials = errors.New("[service]: invalid credentials")
	ErrWrongPassword      = errors.New("[service]: wrong password")
)
