package db

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Model - любая таблица схемы
type Model interface {
	TableName() string
}

type validator interface {
	Validate() error
}

func validate(v any) error {
	if vv, ok := v.(validator); ok {
		return vv.Validate()
	}
	return nil
}

// Create вставляет строку. Связанные структуры не сохраняются: связи пишутся
// только через внешние ключи и строки DistrictProductUnit.
// Значения по умолчанию СУБД (id, created_at) возвращаются в v.
func Create[T Model](ctx context.Context, s *Store, v *T) error {
	if err := validate(v); err != nil {
		return err
	}
	return classify(s.db.WithContext(ctx).Omit(clause.Associations).Create(v).Error)
}

// Get ищет строку по первичному ключу. preload - имена связей для подгрузки.
func Get[T Model](ctx context.Context, s *Store, id int64, preload ...string) (*T, error) {
	q := s.db.WithContext(ctx)
	for _, p := range preload {
		q = q.Preload(p)
	}
	var v T
	if err := q.First(&v, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound(v.TableName(), id)
		}
		return nil, err
	}
	return &v, nil
}

func List[T Model](ctx context.Context, s *Store) ([]T, error) {
	var out []T
	if err := s.db.WithContext(ctx).Order("id").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// Save записывает все колонки строки, связанные структуры игнорирует.
// created_at пишется только при вставке, пустой статус заказа не трогается.
func Save[T Model](ctx context.Context, s *Store, v *T) error {
	if err := validate(v); err != nil {
		return err
	}
	omit := []string{clause.Associations}
	if o, ok := any(v).(*Order); ok && o.Status == "" {
		omit = append(omit, "status")
	}
	return classify(s.db.WithContext(ctx).Omit(omit...).Save(v).Error)
}

// Delete удаляет строку по id. Если на неё ссылаются, СУБД вернёт ErrForeignKeyViolation.
func Delete[T Model](ctx context.Context, s *Store, id int64) error {
	var v T
	res := s.db.WithContext(ctx).Delete(&v, id)
	if res.Error != nil {
		return classify(res.Error)
	}
	if res.RowsAffected == 0 {
		return notFound(v.TableName(), id)
	}
	return nil
}

// first - поиск одной строки по условию
func first[T Model](ctx context.Context, s *Store, key any, query string, args ...any) (*T, error) {
	var v T
	err := s.db.WithContext(ctx).Where(query, args...).First(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound(v.TableName(), key)
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}
