package repository

import (
	"context"

	"collegesite/internal/models"

	"gorm.io/gorm"
)

// ScheduleRepository — чтение расписания для публичного сайта
type ScheduleRepository interface {
	ListGroups(ctx context.Context) ([]models.ScheduleGroup, error)
	GetGroupByCode(ctx context.Context, code string) (*models.ScheduleGroup, error)
}

type scheduleRepository struct {
	db *gorm.DB
}

func NewScheduleRepository(db *gorm.DB) ScheduleRepository {
	return &scheduleRepository{db: db}
}

func (r *scheduleRepository) ListGroups(ctx context.Context) ([]models.ScheduleGroup, error) {
	groups := make([]models.ScheduleGroup, 0)
	err := r.db.WithContext(ctx).Order(ScheduleGroupSchema.OrderBy).Find(&groups).Error
	return groups, err
}

func (r *scheduleRepository) GetGroupByCode(ctx context.Context, code string) (*models.ScheduleGroup, error) {
	var group models.ScheduleGroup
	err := r.db.WithContext(ctx).
		Preload("Lessons", func(db *gorm.DB) *gorm.DB {
			return db.Order(LessonSchema.OrderBy)
		}).
		Where("code = ?", code).
		First(&group).Error
	if err != nil {
		return nil, err
	}
	if group.Lessons == nil {
		group.Lessons = []models.Lesson{}
	}
	return &group, nil
}
