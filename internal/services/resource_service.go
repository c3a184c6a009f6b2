package services

import (
	"context"
	"errors"

	"collegesite/internal/apperr"
	"collegesite/internal/models"
	"collegesite/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FileReleaser освобождает файлы, на которые больше никто не ссылается
type FileReleaser interface {
	Release(ctx context.Context, refs []string)
}

// ResourceConfig — особенности конкретного ресурса
type ResourceConfig[T any] struct {
	// Files возвращает ссылки записи на загруженные файлы
	Files func(item *T) []string
	// Key возвращает значение натурального ключа (для upsert)
	Key func(item *T) string
	// Prepare вызывается перед каждой записью; id равен uuid.Nil при создании
	Prepare func(ctx context.Context, item *T, id uuid.UUID) error
	// Created вызывается после успешного создания записи
	Created func(ctx context.Context, item *T)
}

// ResourceService — типовые операции ресурса поверх репозитория
type ResourceService[T any] struct {
	repo   repository.ResourceRepository[T]
	files  FileReleaser
	config ResourceConfig[T]
}

// NewResourceService создает сервис ресурса; files может быть nil
func NewResourceService[T any](repo repository.ResourceRepository[T], files FileReleaser, config ResourceConfig[T]) *ResourceService[T] {
	return &ResourceService[T]{repo: repo, files: files, config: config}
}

// Schema возвращает описание ресурса
func (s *ResourceService[T]) Schema() repository.Schema {
	return s.repo.Schema()
}

// New создает пустую запись со значениями по умолчанию
func (s *ResourceService[T]) New() *T {
	item := new(T)
	if d, ok := any(item).(models.Defaulter); ok {
		d.ApplyDefaults()
	}
	return item
}

func (s *ResourceService[T]) List(ctx context.Context, activeOnly bool) ([]T, error) {
	return s.repo.List(ctx, activeOnly)
}

func (s *ResourceService[T]) Get(ctx context.Context, id uuid.UUID) (*T, error) {
	item, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, s.dbError(err)
	}
	return item, nil
}

// GetActive возвращает запись, только если она видна на публичном сайте
func (s *ResourceService[T]) GetActive(ctx context.Context, id uuid.UUID) (*T, error) {
	item, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if a, ok := any(item).(models.Activatable); ok && s.Schema().Activatable && !a.Active() {
		return nil, apperr.NotFound(s.Schema().NotFoundMessage())
	}
	return item, nil
}

func (s *ResourceService[T]) Create(ctx context.Context, item *T) (*T, error) {
	*metaOf(item) = models.Base{}
	if err := s.prepare(ctx, item, uuid.Nil); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, s.dbError(err)
	}
	if s.config.Created != nil {
		s.config.Created(ctx, item)
	}
	return item, nil
}

// Update накладывает частичный JSON на сохраненную запись.
// Файлы, ссылки на которые исчезли из записи, освобождаются после фиксации.
func (s *ResourceService[T]) Update(ctx context.Context, id uuid.UUID, patch []byte) (*T, error) {
	var removed []string
	updated, err := s.repo.Update(ctx, id, func(item *T) error {
		before := s.refs(item)
		if err := DecodeJSON(patch, item); err != nil {
			return err
		}
		if err := s.prepare(ctx, item, id); err != nil {
			return err
		}
		removed = missing(before, s.refs(item))
		return nil
	})
	if err != nil {
		return nil, s.dbError(err)
	}

	s.release(ctx, removed)
	return updated, nil
}

// Delete удаляет запись, затем освобождает ее файлы
func (s *ResourceService[T]) Delete(ctx context.Context, id uuid.UUID) error {
	item, err := s.repo.Delete(ctx, id)
	if err != nil {
		return s.dbError(err)
	}
	s.release(ctx, s.refs(item))
	return nil
}

// Upsert создает или обновляет запись с тем же натуральным ключом
func (s *ResourceService[T]) Upsert(ctx context.Context, item *T) (*T, error) {
	schema := s.Schema()
	if schema.NaturalKey == "" || s.config.Key == nil {
		return nil, apperr.Validation(schema.Label + " does not support upsert")
	}
	*metaOf(item) = models.Base{}
	if err := s.prepare(ctx, item, uuid.Nil); err != nil {
		return nil, err
	}

	var before []string
	if old, err := s.repo.GetBy(ctx, schema.NaturalKey, s.config.Key(item)); err == nil {
		before = s.refs(old)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, s.dbError(err)
	}

	saved, err := s.repo.Upsert(ctx, item)
	if err != nil {
		return nil, s.dbError(err)
	}
	s.release(ctx, missing(before, s.refs(saved)))
	return saved, nil
}

func (s *ResourceService[T]) prepare(ctx context.Context, item *T, id uuid.UUID) error {
	if err := validateStruct(item); err != nil {
		return err
	}
	if s.config.Prepare != nil {
		return s.config.Prepare(ctx, item, id)
	}
	return nil
}

func (s *ResourceService[T]) refs(item *T) []string {
	if s.config.Files == nil || item == nil {
		return nil
	}
	return s.config.Files(item)
}

func (s *ResourceService[T]) release(ctx context.Context, refs []string) {
	if s.files == nil || len(refs) == 0 {
		return
	}
	s.files.Release(context.WithoutCancel(ctx), refs)
}

func (s *ResourceService[T]) dbError(err error) error {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return err
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperr.Wrap(apperr.KindConflict, s.Schema().Label+" already exists", err)
	}
	return apperr.FromDB(err, s.Schema().NotFoundMessage())
}

func metaOf[T any](item *T) *models.Base {
	return any(item).(models.Entity).Meta()
}

// missing возвращает элементы before, которых нет в after
func missing(before, after []string) []string {
	if len(before) == 0 {
		return nil
	}
	keep := make(map[string]struct{}, len(after))
	for _, a := range after {
		keep[a] = struct{}{}
	}
	var out []string
	for _, b := range before {
		if _, ok := keep[b]; !ok && b != "" {
			out = append(out, b)
		}
	}
	return out
}

// Ссылки на файлы для ресурсов, владеющих файлами
func fileRefs(refs ...string) []string {
	out := make([]string, 0, len(refs))
	for _, r := range refs {
		if r != "" {
			out = append(out, r)
		}
	}
	return out
}
