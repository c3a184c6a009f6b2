package services

import (
	"context"
	"strings"
	"time"

	"collegesite/internal/apperr"
	"collegesite/internal/models"
	"collegesite/internal/repository"
	"collegesite/pkg/logging"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/datatypes"
)

// Размер страницы публичной ленты новостей
const (
	DefaultNewsLimit = 10
	MaxNewsLimit     = 100

	announceTimeout = 30 * time.Second
)

// NewsAnnouncer публикует анонс новости во внешний канал
type NewsAnnouncer interface {
	AnnounceNews(ctx context.Context, title, summary, path string) error
}

// NewsPage — страница публичной ленты
type NewsPage struct {
	Items  []models.NewsArticle `json:"items"`
	Total  int64                `json:"total"`
	Limit  int                  `json:"limit"`
	Offset int                  `json:"offset"`
}

// NewsService — новости: типовые операции плюс slug и публичная лента
type NewsService struct {
	*ResourceService[models.NewsArticle]
	repo repository.ResourceRepository[models.NewsArticle]
	news repository.NewsRepository
	now  func() time.Time

	announcer NewsAnnouncer
}

func NewNewsService(repo repository.ResourceRepository[models.NewsArticle], news repository.NewsRepository, files FileReleaser) *NewsService {
	s := &NewsService{repo: repo, news: news, now: time.Now}
	s.ResourceService = NewResourceService(repo, files, ResourceConfig[models.NewsArticle]{
		Files:   (*models.NewsArticle).Files,
		Prepare: s.prepare,
		Created: s.announce,
	})
	return s
}

// SetAnnouncer включает анонсы новых опубликованных новостей
func (s *NewsService) SetAnnouncer(a NewsAnnouncer) {
	s.announcer = a
}

// announce отправляет анонс в фоне; ошибка канала не влияет на сохранение новости.
// Новости с датой публикации в будущем и скрытые не анонсируются.
func (s *NewsService) announce(ctx context.Context, n *models.NewsArticle) {
	if s.announcer == nil || !n.IsActive || n.PublishedAt.After(s.now()) {
		return
	}
	title, summary, path := n.Title, n.ShortText, "/news/"+n.Slug
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), announceTimeout)

	go func() {
		defer cancel()
		if err := s.announcer.AnnounceNews(ctx, title, summary, path); err != nil {
			l := logging.Component("news")
			l.Warn().Err(err).Str("slug", path).Msg("Failed to announce news")
		}
	}()
}

// MakeSlug транслитерирует заголовок в адрес новости
func MakeSlug(title string) string {
	return slug.MakeLang(title, "ru")
}

// prepare пересчитывает slug из заголовка и проверяет, что он свободен.
// Одновременная запись двух одинаковых заголовков упрется в уникальный индекс.
func (s *NewsService) prepare(ctx context.Context, n *models.NewsArticle, id uuid.UUID) error {
	n.Title = strings.TrimSpace(n.Title)
	n.Slug = MakeSlug(n.Title)
	if n.Slug == "" {
		return apperr.Validation("Title must contain letters or digits")
	}

	taken, err := s.repo.Exists(ctx, "slug", n.Slug, id)
	if err != nil {
		return err
	}
	if taken {
		return apperr.Validation("News with this title already exists")
	}

	if n.PublishedAt.IsZero() {
		n.PublishedAt = s.now()
	}
	if n.Attachments == nil {
		n.Attachments = datatypes.JSONSlice[string]{}
	}
	if n.Images == nil {
		n.Images = datatypes.JSONSlice[string]{}
	}
	return nil
}

// ListPublished возвращает опубликованные новости, новые первыми
func (s *NewsService) ListPublished(ctx context.Context, limit, offset int) (*NewsPage, error) {
	if limit <= 0 {
		limit = DefaultNewsLimit
	}
	if limit > MaxNewsLimit {
		limit = MaxNewsLimit
	}
	if offset < 0 {
		offset = 0
	}

	items, total, err := s.news.ListPublished(ctx, limit, offset, s.now())
	if err != nil {
		return nil, err
	}
	return &NewsPage{Items: items, Total: total, Limit: limit, Offset: offset}, nil
}

// GetPublished ищет опубликованную новость по slug или идентификатору
func (s *NewsService) GetPublished(ctx context.Context, slugOrID string) (*models.NewsArticle, error) {
	article, err := s.news.GetPublished(ctx, slugOrID, s.now())
	if err != nil {
		return nil, apperr.FromDB(err, "News not found")
	}
	return article, nil
}
