package repository

import (
	"context"
	"time"

	"collegesite/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NewsRepository — выборки новостей для публичного сайта
type NewsRepository interface {
	ListPublished(ctx context.Context, limit, offset int, now time.Time) ([]models.NewsArticle, int64, error)
	GetPublished(ctx context.Context, slugOrID string, now time.Time) (*models.NewsArticle, error)
}

type newsRepository struct {
	db *gorm.DB
}

func NewNewsRepository(db *gorm.DB) NewsRepository {
	return &newsRepository{db: db}
}

func (r *newsRepository) published(ctx context.Context, now time.Time) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.NewsArticle{}).
		Where("is_active = ? AND published_at <= ?", true, now)
}

func (r *newsRepository) ListPublished(ctx context.Context, limit, offset int, now time.Time) ([]models.NewsArticle, int64, error) {
	var total int64
	if err := r.published(ctx, now).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	news := make([]models.NewsArticle, 0)
	err := r.published(ctx, now).
		Order(NewsSchema.OrderBy).
		Limit(limit).
		Offset(offset).
		Find(&news).Error
	return news, total, err
}

// GetPublished ищет новость по slug, а если передан UUID — и по идентификатору
func (r *newsRepository) GetPublished(ctx context.Context, slugOrID string, now time.Time) (*models.NewsArticle, error) {
	q := r.published(ctx, now)
	if id, err := uuid.Parse(slugOrID); err == nil {
		q = q.Where("slug = ? OR id = ?", slugOrID, id)
	} else {
		q = q.Where("slug = ?", slugOrID)
	}

	var article models.NewsArticle
	if err := q.First(&article).Error; err != nil {
		return nil, err
	}
	return &article, nil
}
