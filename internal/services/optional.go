package services

import "encoding/json"

// Optional поле частичного обновления. Различает три состояния поля в
// запросе: не передано (Set=false), передан явный null (Set, !Valid) и
// передано значение (Set, Valid). Отсутствие поля никогда не трактуется
// как null и наоборот.
type Optional[T any] struct {
	Set   bool
	Valid bool
	Value T
}

// NewOptional создает установленное значение. Используется в тестах и
// при программном построении обновлений.
func NewOptional[T any](value T) Optional[T] {
	return Optional[T]{Set: true, Valid: true, Value: value}
}

// NullOptional создает явный null.
func NullOptional[T any]() Optional[T] {
	return Optional[T]{Set: true, Valid: false}
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Valid = false
		return nil
	}
	o.Valid = true
	return json.Unmarshal(data, &o.Value)
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Set || !o.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}
