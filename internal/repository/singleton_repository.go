package repository

import (
	"context"

	"collegesite/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Pinned — запись-одиночка с фиксированным идентификатором
type Pinned interface {
	Pin()
}

// SingletonRepository хранит единственную строку таблицы T (id = 1)
type SingletonRepository[T any] interface {
	Get(ctx context.Context) (*T, error)
	// FirstOrCreate атомарно вставляет defaults, если строки еще нет, и читает ее
	FirstOrCreate(ctx context.Context, defaults *T) (*T, error)
	Save(ctx context.Context, item *T) (*T, error)
}

type singletonRepository[T any] struct {
	db *gorm.DB
}

func NewSingletonRepository[T any](db *gorm.DB) SingletonRepository[T] {
	return &singletonRepository[T]{db: db}
}

func (r *singletonRepository[T]) Get(ctx context.Context) (*T, error) {
	var item T
	if err := r.db.WithContext(ctx).First(&item, models.SingletonID).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *singletonRepository[T]) FirstOrCreate(ctx context.Context, defaults *T) (*T, error) {
	any(defaults).(Pinned).Pin()
	err := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(defaults).Error
	if err != nil {
		return nil, err
	}
	return r.Get(ctx)
}

// Save вставляет или полностью перезаписывает строку одним запросом
func (r *singletonRepository[T]) Save(ctx context.Context, item *T) (*T, error) {
	any(item).(Pinned).Pin()
	err := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(item).Error
	if err != nil {
		return nil, err
	}
	return r.Get(ctx)
}

// StructureRepository — структура организации вместе с подразделениями
type StructureRepository interface {
	FirstOrCreate(ctx context.Context) (*models.Structure, error)
	Replace(ctx context.Context, s *models.Structure) (*models.Structure, error)
}

type structureRepository struct {
	db *gorm.DB
}

func NewStructureRepository(db *gorm.DB) StructureRepository {
	return &structureRepository{db: db}
}

func (r *structureRepository) load(db *gorm.DB) (*models.Structure, error) {
	var s models.Structure
	err := db.Preload("Departments", func(db *gorm.DB) *gorm.DB {
		return db.Order(orderManual)
	}).First(&s, models.SingletonID).Error
	if err != nil {
		return nil, err
	}
	if s.Departments == nil {
		s.Departments = []models.StructureDepartment{}
	}
	return &s, nil
}

func (r *structureRepository) FirstOrCreate(ctx context.Context) (*models.Structure, error) {
	db := r.db.WithContext(ctx)
	empty := &models.Structure{}
	empty.Pin()
	if err := db.Omit(clause.Associations).Clauses(clause.OnConflict{DoNothing: true}).Create(empty).Error; err != nil {
		return nil, err
	}
	return r.load(db)
}

// Replace сохраняет структуру и заменяет список подразделений целиком
func (r *structureRepository) Replace(ctx context.Context, s *models.Structure) (*models.Structure, error) {
	s.Pin()
	departments := s.Departments

	var saved *models.Structure
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Omit(clause.Associations).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).Create(s).Error
		if err != nil {
			return err
		}

		if err := tx.Where("structure_id = ?", s.ID).Delete(&models.StructureDepartment{}).Error; err != nil {
			return err
		}
		for i := range departments {
			d := departments[i]
			d.Base = models.Base{}
			d.StructureID = s.ID
			if err := tx.Create(&d).Error; err != nil {
				return err
			}
		}

		saved, err = r.load(tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}
