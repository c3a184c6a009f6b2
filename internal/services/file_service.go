package services

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"mime/multipart"
	"path"
	"path/filepath"
	"strings"
	"time"

	"collegesite/internal/apperr"
	"collegesite/internal/models"
	"collegesite/internal/repository"
	"collegesite/pkg/logging"
	"collegesite/pkg/storage"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

var (
	uploadedFilesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "college_uploaded_files_total",
		Help: "Количество сохраненных загруженных файлов",
	}, []string{"category"})

	uploadRejectsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "college_upload_rejects_total",
		Help: "Количество отклоненных загрузок",
	}, []string{"category", "reason"})

	nameCacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "college_name_cache_hits_total",
		Help: "Попадания в кэш исходных имен файлов",
	})
	nameCacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "college_name_cache_misses_total",
		Help: "Промахи кэша исходных имен файлов",
	})
)

// Допустимые типы документов
var documentMimeTypes = map[string]struct{}{
	"application/pdf":    {},
	"application/msword": {},
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document":   {},
	"application/vnd.ms-excel":                                                  {},
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":         {},
	"application/vnd.ms-powerpoint":                                             {},
	"application/vnd.openxmlformats-officedocument.presentationml.presentation": {},
	"application/vnd.oasis.opendocument.text":                                   {},
	"application/vnd.oasis.opendocument.spreadsheet":                            {},
	"application/rtf":              {},
	"text/rtf":                     {},
	"text/plain":                   {},
	"text/csv":                     {},
	"application/zip":              {},
	"application/x-zip-compressed": {},
}

// FileLimits — ограничения загрузки по категориям
type FileLimits struct {
	MaxImageSize      int64
	MaxDocumentSize   int64
	MaxImagesCount    int
	MaxDocumentsCount int
}

func (l FileLimits) forCategory(c models.FileCategory) (size int64, count int) {
	if c == models.CategoryImages {
		return l.MaxImageSize, l.MaxImagesCount
	}
	return l.MaxDocumentSize, l.MaxDocumentsCount
}

// UploadResult — описание сохраненного файла в ответе
type UploadResult struct {
	URL          string `json:"url"`
	StoredName   string `json:"storedName"`
	OriginalName string `json:"originalName"`
	MimeType     string `json:"mimeType"`
	Size         int64  `json:"size"`
	Category     string `json:"category"`
	ThumbnailURL string `json:"thumbnailUrl,omitempty"`
}

// FileUsage — ссылки на файл по коллекциям
type FileUsage struct {
	Path  string           `json:"path"`
	Usage repository.Usage `json:"usage"`
	Total int64            `json:"total"`
}

// FileMeta — сведения о загруженном файле для отдачи клиенту
type FileMeta struct {
	Name     string
	MimeType string
}

// FileService — загрузка, учет ссылок и удаление файлов
type FileService interface {
	FileReleaser
	Upload(ctx context.Context, category models.FileCategory, files []*multipart.FileHeader) ([]UploadResult, error)
	Usage(ctx context.Context, ref string) (*FileUsage, error)
	Delete(ctx context.Context, ref string) error
	Meta(ctx context.Context, relPath string) (FileMeta, bool)
	List(ctx context.Context, category models.FileCategory) ([]models.UploadedFile, error)
}

type fileService struct {
	store  *storage.Storage
	repo   repository.FileRepository
	limits FileLimits
	names  *expirable.LRU[string, FileMeta]
	log    zerolog.Logger
}

// NewFileService создает сервис файлов
func NewFileService(store *storage.Storage, repo repository.FileRepository, limits FileLimits, cacheSize int, cacheTTL time.Duration) FileService {
	if cacheSize <= 0 {
		cacheSize = 1024
	}
	return &fileService{
		store:  store,
		repo:   repo,
		limits: limits,
		names:  expirable.NewLRU[string, FileMeta](cacheSize, nil, cacheTTL),
		log:    logging.Component("files"),
	}
}

type pendingUpload struct {
	header   *multipart.FileHeader
	original string
	base     string
	ext      string
	mimeType string
}

// Upload проверяет все файлы пакета до записи первого из них;
// при ошибке записи удаляет все уже сохраненное
func (s *fileService) Upload(ctx context.Context, category models.FileCategory, headers []*multipart.FileHeader) ([]UploadResult, error) {
	if !category.Valid() {
		return nil, apperr.Validation("Unknown file category")
	}
	pending, reason, err := s.check(category, headers)
	if err != nil {
		uploadRejectsTotal.WithLabelValues(string(category), reason).Inc()
		return nil, err
	}

	var (
		results []UploadResult
		written []string
	)
	rollback := func() {
		for _, rel := range written {
			if err := s.store.Delete(rel); err != nil {
				s.log.Warn().Err(err).Str("path", rel).Msg("Failed to remove file during rollback")
			}
			if err := s.repo.DeleteByPath(context.WithoutCancel(ctx), rel); err != nil {
				s.log.Warn().Err(err).Str("path", rel).Msg("Failed to remove file record during rollback")
			}
		}
	}

	for _, p := range pending {
		res, err := s.write(ctx, category, p)
		if res != nil {
			written = append(written, res.RelPath)
		}
		if err != nil {
			rollback()
			return nil, err
		}

		result := UploadResult{
			URL:          storage.URL(res.RelPath),
			StoredName:   res.StoredName,
			OriginalName: p.original,
			MimeType:     p.mimeType,
			Size:         res.Size,
			Category:     string(category),
		}
		if category == models.CategoryImages {
			if thumb, err := s.store.Thumbnail(res.RelPath); err != nil {
				s.log.Warn().Err(err).Str("path", res.RelPath).Msg("Failed to create thumbnail")
			} else {
				result.ThumbnailURL = storage.URL(thumb)
			}
		}
		s.names.Add(res.RelPath, FileMeta{Name: p.original, MimeType: p.mimeType})
		results = append(results, result)
	}

	uploadedFilesTotal.WithLabelValues(string(category)).Add(float64(len(results)))
	s.log.Info().Str("category", string(category)).Int("count", len(results)).Msg("Files uploaded")
	return results, nil
}

// check возвращает причину отказа для метрик вместе с ошибкой
func (s *fileService) check(category models.FileCategory, headers []*multipart.FileHeader) ([]pendingUpload, string, error) {
	maxSize, maxCount := s.limits.forCategory(category)
	if len(headers) == 0 {
		return nil, "empty", apperr.Validation("No files uploaded")
	}
	if maxCount > 0 && len(headers) > maxCount {
		return nil, "count", apperr.Validation(fmt.Sprintf("Too many files: at most %d per upload", maxCount))
	}

	pending := make([]pendingUpload, 0, len(headers))
	for _, h := range headers {
		original := originalName(h.Filename)
		if maxSize > 0 && h.Size > maxSize {
			return nil, "size", apperr.Validation(fmt.Sprintf("File %q is too large: maximum size is %d MB", original, maxSize>>20))
		}

		base, ext, err := storage.SanitizeFilename(h.Filename)
		if errors.Is(err, storage.ErrNoExtension) {
			return nil, "extension", apperr.Validation(fmt.Sprintf("File %q has no extension", original))
		}
		if err != nil {
			return nil, "name", err
		}

		mimeType := declaredMimeType(h.Header.Get("Content-Type"), ext)
		if !allowedMimeType(category, mimeType) {
			return nil, "type", apperr.Validation(fmt.Sprintf("File type %q is not allowed for %s", mimeType, category))
		}
		// тип по расширению тоже должен подходить категории
		if extType := extensionMimeType(ext); extType != "" && !allowedMimeType(category, extType) {
			return nil, "type", apperr.Validation(fmt.Sprintf("File extension %q is not allowed for %s", ext, category))
		}

		pending = append(pending, pendingUpload{header: h, original: original, base: base, ext: ext, mimeType: mimeType})
	}
	return pending, "", nil
}

func (s *fileService) write(ctx context.Context, category models.FileCategory, p pendingUpload) (*storage.SaveResult, error) {
	src, err := p.header.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	res, err := s.store.Save(string(category), p.base, p.ext, src)
	if err != nil {
		return nil, err
	}

	record := &models.UploadedFile{
		StoredName:   res.StoredName,
		OriginalName: p.original,
		MimeType:     p.mimeType,
		SizeBytes:    res.Size,
		Category:     category,
		Path:         res.RelPath,
	}
	if err := s.repo.Create(ctx, record); err != nil {
		return res, fmt.Errorf("failed to record uploaded file: %w", err)
	}
	return res, nil
}

func (s *fileService) Usage(ctx context.Context, ref string) (*FileUsage, error) {
	rel := storage.RelPathFromRef(ref)
	if rel == "" {
		return nil, apperr.Validation("Invalid file reference")
	}
	usage, err := s.repo.Usage(ctx, path.Base(rel))
	if err != nil {
		return nil, err
	}
	return &FileUsage{Path: rel, Usage: usage, Total: usage.Total()}, nil
}

// Delete удаляет файл, если ни одна запись на него не ссылается
func (s *fileService) Delete(ctx context.Context, ref string) error {
	rel := storage.RelPathFromRef(ref)
	if rel == "" || storage.IsThumbnail(rel) {
		return apperr.Validation("Invalid file reference")
	}
	if !s.store.Exists(rel) {
		if _, err := s.repo.GetByPath(ctx, rel); err != nil {
			return apperr.FromDB(err, "File not found")
		}
	}

	usage, deleted, err := s.repo.DeleteUnused(ctx, rel, path.Base(rel))
	if err != nil {
		return err
	}
	if !deleted {
		return apperr.Validation("File is in use and cannot be deleted").WithDetails(map[string]any{
			"usage": usage,
			"total": usage.Total(),
		})
	}

	s.names.Remove(rel)
	if err := s.store.Delete(rel); err != nil {
		return err
	}
	s.log.Info().Str("path", rel).Msg("File deleted")
	return nil
}

// Release удаляет файлы по ссылкам, если на них больше никто не ссылается.
// Ошибки журналируются, обработка продолжается.
func (s *fileService) Release(ctx context.Context, refs []string) {
	seen := make(map[string]struct{}, len(refs))
	for _, ref := range refs {
		rel := storage.RelPathFromRef(ref)
		if rel == "" || storage.IsThumbnail(rel) {
			continue
		}
		if _, dup := seen[rel]; dup {
			continue
		}
		seen[rel] = struct{}{}

		deleted, err := s.repo.DeleteUnreferenced(ctx, rel, path.Base(rel))
		if err != nil {
			s.log.Warn().Err(err).Str("path", rel).Msg("Failed to check file usage")
			continue
		}
		if !deleted {
			continue
		}
		s.names.Remove(rel)
		if err := s.store.Delete(rel); err != nil {
			s.log.Warn().Err(err).Str("path", rel).Msg("Failed to delete released file")
			continue
		}
		s.log.Info().Str("path", rel).Msg("Released file deleted")
	}
}

func (s *fileService) Meta(ctx context.Context, relPath string) (FileMeta, bool) {
	if meta, ok := s.names.Get(relPath); ok {
		nameCacheHitsTotal.Inc()
		return meta, true
	}
	nameCacheMissesTotal.Inc()

	file, err := s.repo.GetByPath(ctx, relPath)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.log.Warn().Err(err).Str("path", relPath).Msg("Failed to look up original file name")
		}
		return FileMeta{}, false
	}
	meta := FileMeta{Name: file.OriginalName, MimeType: file.MimeType}
	s.names.Add(relPath, meta)
	return meta, true
}

func (s *fileService) List(ctx context.Context, category models.FileCategory) ([]models.UploadedFile, error) {
	if category != "" && !category.Valid() {
		return nil, apperr.Validation("Unknown file category")
	}
	return s.repo.List(ctx, category)
}

func originalName(name string) string {
	name = storage.RecoverFilename(name)
	return filepath.Base(strings.ReplaceAll(name, `\`, "/"))
}

// declaredMimeType берет тип из заголовка части; для пустого
// или обобщенного типа подставляет тип по расширению
func declaredMimeType(header, ext string) string {
	mt, _, err := mime.ParseMediaType(header)
	if err != nil || mt == "" || mt == "application/octet-stream" {
		mt, _, _ = mime.ParseMediaType(mime.TypeByExtension(ext))
	}
	return strings.ToLower(mt)
}

func extensionMimeType(ext string) string {
	mt, _, _ := mime.ParseMediaType(mime.TypeByExtension(ext))
	return strings.ToLower(mt)
}

func allowedMimeType(category models.FileCategory, mt string) bool {
	if category == models.CategoryImages {
		return strings.HasPrefix(mt, "image/")
	}
	_, ok := documentMimeTypes[mt]
	return ok
}
