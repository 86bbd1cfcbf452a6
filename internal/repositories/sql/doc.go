// Package sql содержит репозитории поверх gorm. Ошибки хранилища
// конвертируются в сентинели пакета repositories, детали пишутся в лог.
package sql
