package repository

import (
	"context"
	"net/url"
	"strings"

	"collegesite/internal/models"

	"gorm.io/gorm"
)

// Usage — число записей каждой коллекции, ссылающихся на файл
type Usage map[string]int64

// Total возвращает общее число ссылок
func (u Usage) Total() int64 {
	var total int64
	for _, n := range u {
		total += n
	}
	return total
}

// FileRepository хранит метаданные загруженных файлов
// и ищет ссылки на них в записях ресурсов
type FileRepository interface {
	Create(ctx context.Context, file *models.UploadedFile) error
	GetByPath(ctx context.Context, relPath string) (*models.UploadedFile, error)
	List(ctx context.Context, category models.FileCategory) ([]models.UploadedFile, error)
	DeleteByPath(ctx context.Context, relPath string) error
	Usage(ctx context.Context, storedName string) (Usage, error)
	// DeleteUnused удаляет запись о файле, только если на него нет ссылок.
	// Возвращает снимок использования и признак удаления.
	DeleteUnused(ctx context.Context, relPath, storedName string) (Usage, bool, error)
	// DeleteUnreferenced дополнительно ищет имя файла в свободном тексте записей.
	// Используется там, где файл удаляется без участия администратора.
	DeleteUnreferenced(ctx context.Context, relPath, storedName string) (bool, error)
}

type fileRepository struct {
	db     *gorm.DB
	owners []Schema
	texts  []Schema
}

// NewFileRepository создает репозиторий файлов; owners — ресурсы, проверяемые на ссылки,
// texts — ресурсы, в тексте которых тоже ищутся ссылки перед автоматическим удалением
func NewFileRepository(db *gorm.DB, owners, texts []Schema) FileRepository {
	return &fileRepository{db: db, owners: owners, texts: texts}
}

func (r *fileRepository) Create(ctx context.Context, file *models.UploadedFile) error {
	return r.db.WithContext(ctx).Create(file).Error
}

func (r *fileRepository) GetByPath(ctx context.Context, relPath string) (*models.UploadedFile, error) {
	var file models.UploadedFile
	if err := r.db.WithContext(ctx).Where("path = ?", relPath).First(&file).Error; err != nil {
		return nil, err
	}
	return &file, nil
}

func (r *fileRepository) List(ctx context.Context, category models.FileCategory) ([]models.UploadedFile, error) {
	q := r.db.WithContext(ctx).Order("created_at DESC")
	if category != "" {
		q = q.Where("category = ?", category)
	}
	files := make([]models.UploadedFile, 0)
	err := q.Find(&files).Error
	return files, err
}

func (r *fileRepository) DeleteByPath(ctx context.Context, relPath string) error {
	return r.db.WithContext(ctx).Where("path = ?", relPath).Delete(&models.UploadedFile{}).Error
}

func (r *fileRepository) Usage(ctx context.Context, storedName string) (Usage, error) {
	return r.usage(r.db.WithContext(ctx), storedName)
}

func (r *fileRepository) DeleteUnused(ctx context.Context, relPath, storedName string) (Usage, bool, error) {
	var usage Usage
	deleted, err := r.deleteIf(ctx, relPath, func(tx *gorm.DB) (bool, error) {
		var err error
		if usage, err = r.usage(tx, storedName); err != nil {
			return false, err
		}
		return usage.Total() == 0, nil
	})
	if err != nil {
		return nil, false, err
	}
	return usage, deleted, nil
}

func (r *fileRepository) DeleteUnreferenced(ctx context.Context, relPath, storedName string) (bool, error) {
	return r.deleteIf(ctx, relPath, func(tx *gorm.DB) (bool, error) {
		usage, err := r.usage(tx, storedName)
		if err != nil || usage.Total() > 0 {
			return false, err
		}
		for _, owner := range r.texts {
			n, err := count(tx, owner.Model, owner.TextColumns, storedName)
			if err != nil || n > 0 {
				return false, err
			}
		}
		return true, nil
	})
}

// deleteIf удаляет запись о файле в той же транзакции, что и проверка ссылок
func (r *fileRepository) deleteIf(ctx context.Context, relPath string, unused func(tx *gorm.DB) (bool, error)) (bool, error) {
	var deleted bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := unused(tx)
		if err != nil || !ok {
			return err
		}
		if err := tx.Where("path = ?", relPath).Delete(&models.UploadedFile{}).Error; err != nil {
			return err
		}
		deleted = true
		return nil
	})
	return deleted, err
}

func (r *fileRepository) usage(db *gorm.DB, storedName string) (Usage, error) {
	usage := make(Usage, len(r.owners))
	for _, owner := range r.owners {
		n, err := count(db, owner.Model, owner.FileColumns, storedName)
		if err != nil {
			return nil, err
		}
		usage[owner.Name] = n
	}
	return usage, nil
}

// count считает записи, в колонках которых встречается имя файла как есть или в URL-кодировке
func count(db *gorm.DB, model any, columns []string, storedName string) (int64, error) {
	needles := []string{storedName}
	if escaped := url.PathEscape(storedName); escaped != storedName {
		needles = append(needles, escaped)
	}

	var (
		conds []string
		args  []any
	)
	for _, col := range columns {
		for _, n := range needles {
			conds = append(conds, "CAST("+col+" AS TEXT) LIKE ? ESCAPE '\\'")
			args = append(args, "%"+escapeLike(n)+"%")
		}
	}

	var n int64
	err := db.Model(model).Where(strings.Join(conds, " OR "), args...).Count(&n).Error
	return n, err
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
