package repository

import (
	"context"
	"strings"
	"time"

	"collegesite/internal/models"

	"gorm.io/gorm"
)

// SearchRepository — регистронезависимый поиск подстроки по колонке search_text
type SearchRepository interface {
	News(ctx context.Context, query string, limit int) ([]models.NewsArticle, error)
	Documents(ctx context.Context, query string, limit int) ([]models.DocumentRecord, error)
	Employees(ctx context.Context, query string, limit int) ([]models.Employee, error)
	Managers(ctx context.Context, query string, limit int) ([]models.Manager, error)
	StructureDocuments(ctx context.Context, query string, limit int) ([]models.StructureDocument, error)
	Announcements(ctx context.Context, query string, limit int) ([]models.Announcement, error)
	Programs(ctx context.Context, query string, limit int) ([]models.EducationProgram, error)
}

type searchRepository struct {
	db *gorm.DB
}

func NewSearchRepository(db *gorm.DB) SearchRepository {
	return &searchRepository{db: db}
}

func (r *searchRepository) News(ctx context.Context, query string, limit int) ([]models.NewsArticle, error) {
	q := r.db.WithContext(ctx).Where("published_at <= ?", time.Now())
	return searchIn[models.NewsArticle](q, NewsSchema, query, limit)
}

func (r *searchRepository) Documents(ctx context.Context, query string, limit int) ([]models.DocumentRecord, error) {
	return searchIn[models.DocumentRecord](r.db.WithContext(ctx), DocumentSchema, query, limit)
}

func (r *searchRepository) Employees(ctx context.Context, query string, limit int) ([]models.Employee, error) {
	return searchIn[models.Employee](r.db.WithContext(ctx), EmployeeSchema, query, limit)
}

func (r *searchRepository) Managers(ctx context.Context, query string, limit int) ([]models.Manager, error) {
	return searchIn[models.Manager](r.db.WithContext(ctx), ManagerSchema, query, limit)
}

func (r *searchRepository) StructureDocuments(ctx context.Context, query string, limit int) ([]models.StructureDocument, error) {
	return searchIn[models.StructureDocument](r.db.WithContext(ctx), StructureDocumentSchema, query, limit)
}

func (r *searchRepository) Announcements(ctx context.Context, query string, limit int) ([]models.Announcement, error) {
	return searchIn[models.Announcement](r.db.WithContext(ctx), AnnouncementSchema, query, limit)
}

func (r *searchRepository) Programs(ctx context.Context, query string, limit int) ([]models.EducationProgram, error) {
	return searchIn[models.EducationProgram](r.db.WithContext(ctx), ProgramSchema, query, limit)
}

func searchIn[T any](db *gorm.DB, schema Schema, query string, limit int) ([]T, error) {
	q := db.Model(new(T)).
		Where("search_text LIKE ? ESCAPE '\\'", "%"+escapeLike(strings.ToLower(query))+"%")
	if schema.Activatable {
		q = q.Where("is_active = ?", true)
	}

	items := make([]T, 0)
	err := q.Order(schema.OrderBy).Limit(limit).Find(&items).Error
	return items, err
}
