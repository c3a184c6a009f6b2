package services

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"collegesite/internal/repository"

	"golang.org/x/sync/errgroup"
)

// MinQueryLength — запросы короче не выполняются
const MinQueryLength = 2

// Типы результатов поиска
const (
	HitNews              = "news"
	HitDocument          = "document"
	HitEmployee          = "employee"
	HitManager           = "manager"
	HitStructureDocument = "structureDocument"
	HitAnnouncement      = "announcement"
	HitProgram           = "program"
)

// SearchHit — найденная запись в общем виде
type SearchHit struct {
	Type        string     `json:"type"`
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	URL         string     `json:"url"`
	Date        *time.Time `json:"date,omitempty"`
}

// SearchResult — ответ поиска; total равен сумме длин всех категорий
type SearchResult struct {
	Query              string      `json:"query"`
	News               []SearchHit `json:"news"`
	Documents          []SearchHit `json:"documents"`
	Staff              []SearchHit `json:"staff"`
	StructureDocuments []SearchHit `json:"structureDocuments"`
	Announcements      []SearchHit `json:"announcements"`
	Programs           []SearchHit `json:"programs"`
	Total              int         `json:"total"`
}

func emptySearchResult(query string) *SearchResult {
	return &SearchResult{
		Query:              query,
		News:               []SearchHit{},
		Documents:          []SearchHit{},
		Staff:              []SearchHit{},
		StructureDocuments: []SearchHit{},
		Announcements:      []SearchHit{},
		Programs:           []SearchHit{},
	}
}

// SearchService ищет по шести разделам сайта параллельно
type SearchService struct {
	repo         repository.SearchRepository
	defaultLimit int
	maxLimit     int
}

func NewSearchService(repo repository.SearchRepository, defaultLimit, maxLimit int) *SearchService {
	return &SearchService{repo: repo, defaultLimit: defaultLimit, maxLimit: maxLimit}
}

func (s *SearchService) limit(requested int) int {
	if requested <= 0 {
		return s.defaultLimit
	}
	if requested > s.maxLimit {
		return s.maxLimit
	}
	return requested
}

// Search выполняет поиск; короткий запрос дает пустой результат без обращения к БД
func (s *SearchService) Search(ctx context.Context, query string, limit int) (*SearchResult, error) {
	query = strings.TrimSpace(query)
	result := emptySearchResult(query)
	if utf8.RuneCountInString(query) < MinQueryLength {
		return result, nil
	}
	limit = s.limit(limit)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		items, err := s.repo.News(gctx, query, limit)
		if err != nil {
			return err
		}
		for _, n := range items {
			published := n.PublishedAt
			result.News = append(result.News, SearchHit{
				Type:        HitNews,
				ID:          n.ID.String(),
				Title:       n.Title,
				Description: n.ShortText,
				URL:         "/news/" + n.Slug,
				Date:        &published,
			})
		}
		return nil
	})

	g.Go(func() error {
		items, err := s.repo.Documents(gctx, query, limit)
		if err != nil {
			return err
		}
		for _, d := range items {
			title := d.Title
			if title == "" {
				title = d.Field
			}
			result.Documents = append(result.Documents, SearchHit{
				Type:        HitDocument,
				ID:          d.ID.String(),
				Title:       title,
				Description: d.FileName,
				URL:         d.FileURL,
			})
		}
		return nil
	})

	g.Go(func() error {
		staff, err := s.staff(gctx, query, limit)
		if err != nil {
			return err
		}
		result.Staff = staff
		return nil
	})

	g.Go(func() error {
		items, err := s.repo.StructureDocuments(gctx, query, limit)
		if err != nil {
			return err
		}
		for _, d := range items {
			result.StructureDocuments = append(result.StructureDocuments, SearchHit{
				Type:        HitStructureDocument,
				ID:          d.ID.String(),
				Title:       d.Title,
				Description: d.Description,
				URL:         d.FileURL,
			})
		}
		return nil
	})

	g.Go(func() error {
		items, err := s.repo.Announcements(gctx, query, limit)
		if err != nil {
			return err
		}
		for _, a := range items {
			created := a.CreatedAt
			result.Announcements = append(result.Announcements, SearchHit{
				Type:        HitAnnouncement,
				ID:          a.ID.String(),
				Title:       a.Title,
				Description: a.Body,
				URL:         "/announcements",
				Date:        &created,
			})
		}
		return nil
	})

	g.Go(func() error {
		items, err := s.repo.Programs(gctx, query, limit)
		if err != nil {
			return err
		}
		for _, p := range items {
			result.Programs = append(result.Programs, SearchHit{
				Type:        HitProgram,
				ID:          p.ID.String(),
				Title:       p.Name,
				Description: p.Program,
				URL:         "/education/programs",
			})
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	result.Total = len(result.News) + len(result.Documents) + len(result.Staff) +
		len(result.StructureDocuments) + len(result.Announcements) + len(result.Programs)
	return result, nil
}

// staff объединяет сотрудников и руководство в одну категорию
func (s *SearchService) staff(ctx context.Context, query string, limit int) ([]SearchHit, error) {
	employees, err := s.repo.Employees(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	managers, err := s.repo.Managers(ctx, query, limit)
	if err != nil {
		return nil, err
	}

	hits := make([]SearchHit, 0, len(employees)+len(managers))
	for _, e := range employees {
		hits = append(hits, staffHit(HitEmployee, e.ID.String(), e.FullName, e.Position, "/about/staff"))
	}
	for _, m := range managers {
		hits = append(hits, staffHit(HitManager, m.ID.String(), m.FullName, m.Position, "/about/management"))
	}
	if len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

func staffHit(kind, id, name, position, url string) SearchHit {
	return SearchHit{Type: kind, ID: id, Title: name, Description: position, URL: url}
}
