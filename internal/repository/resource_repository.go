package repository

import (
	"context"
	"fmt"
	"reflect"

	"collegesite/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ResourceRepository — типовые операции над коллекцией записей T.
// *T должен встраивать models.Base.
type ResourceRepository[T any] interface {
	Schema() Schema
	List(ctx context.Context, activeOnly bool) ([]T, error)
	Get(ctx context.Context, id uuid.UUID) (*T, error)
	GetBy(ctx context.Context, column string, value any) (*T, error)
	Exists(ctx context.Context, column string, value any, exclude uuid.UUID) (bool, error)
	Create(ctx context.Context, item *T) error
	Update(ctx context.Context, id uuid.UUID, apply func(*T) error) (*T, error)
	Delete(ctx context.Context, id uuid.UUID) (*T, error)
	Upsert(ctx context.Context, item *T) (*T, error)
}

type resourceRepository[T any] struct {
	db     *gorm.DB
	schema Schema
}

// NewResourceRepository создает репозиторий ресурса
func NewResourceRepository[T any](db *gorm.DB, schema Schema) ResourceRepository[T] {
	if _, ok := any(new(T)).(models.Entity); !ok {
		panic(fmt.Sprintf("repository: %T does not embed models.Base", new(T)))
	}
	return &resourceRepository[T]{db: db, schema: schema}
}

func (r *resourceRepository[T]) Schema() Schema {
	return r.schema
}

func (r *resourceRepository[T]) List(ctx context.Context, activeOnly bool) ([]T, error) {
	q := r.db.WithContext(ctx).Model(new(T))
	if activeOnly && r.schema.Activatable {
		q = q.Where("is_active = ?", true)
	}
	if r.schema.OrderBy != "" {
		q = q.Order(r.schema.OrderBy)
	}

	items := make([]T, 0)
	err := q.Find(&items).Error
	return items, err
}

func (r *resourceRepository[T]) Get(ctx context.Context, id uuid.UUID) (*T, error) {
	var item T
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *resourceRepository[T]) GetBy(ctx context.Context, column string, value any) (*T, error) {
	var item T
	err := r.db.WithContext(ctx).Where(clause.Eq{Column: clause.Column{Name: column}, Value: value}).First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *resourceRepository[T]) Exists(ctx context.Context, column string, value any, exclude uuid.UUID) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(new(T)).Where(clause.Eq{Column: clause.Column{Name: column}, Value: value})
	if exclude != uuid.Nil {
		q = q.Where("id <> ?", exclude)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *resourceRepository[T]) Create(ctx context.Context, item *T) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(item).Error
}

// Update применяет apply к сохраненной записи и сохраняет результат в одной транзакции.
// Идентификатор и время создания apply изменить не может.
func (r *resourceRepository[T]) Update(ctx context.Context, id uuid.UUID, apply func(*T) error) (*T, error) {
	var item T
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&item, "id = ?", id).Error; err != nil {
			return err
		}
		meta := *metaOf(&item)
		if err := apply(&item); err != nil {
			return err
		}
		m := metaOf(&item)
		m.ID, m.CreatedAt = meta.ID, meta.CreatedAt
		return tx.Omit(clause.Associations).Save(&item).Error
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// Delete удаляет запись и возвращает ее последнее состояние
func (r *resourceRepository[T]) Delete(ctx context.Context, id uuid.UUID) (*T, error) {
	var item T
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&item, "id = ?", id).Error; err != nil {
			return err
		}
		res := tx.Delete(&item)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// Upsert вставляет запись или обновляет существующую с тем же натуральным ключом
// одним запросом INSERT ... ON CONFLICT
func (r *resourceRepository[T]) Upsert(ctx context.Context, item *T) (*T, error) {
	key := r.schema.NaturalKey
	if key == "" {
		return nil, fmt.Errorf("repository: %s has no natural key", r.schema.Name)
	}

	stmt := &gorm.Statement{DB: r.db}
	if err := stmt.Parse(item); err != nil {
		return nil, err
	}
	field := stmt.Schema.LookUpField(key)
	if field == nil {
		return nil, fmt.Errorf("repository: unknown key column %s", key)
	}
	value, _ := field.ValueOf(ctx, reflect.ValueOf(item).Elem())

	var saved T
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Omit(clause.Associations).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: key}},
			UpdateAll: true,
		}).Create(item).Error
		if err != nil {
			return err
		}
		return tx.Where(clause.Eq{Column: clause.Column{Name: key}, Value: value}).First(&saved).Error
	})
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func metaOf[T any](item *T) *models.Base {
	return any(item).(models.Entity).Meta()
}
