package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"collegesite/internal/apperr"
	"collegesite/internal/models"
	"collegesite/internal/repository"

	"github.com/goccy/go-json"
	"gorm.io/gorm"
)

// SingletonService — настройки, хранящиеся одной строкой
type SingletonService[T any] struct {
	repo  repository.SingletonRepository[T]
	label string
}

func NewSingletonService[T any](repo repository.SingletonRepository[T], label string) *SingletonService[T] {
	return &SingletonService[T]{repo: repo, label: label}
}

func (s *SingletonService[T]) defaults() *T {
	item := new(T)
	if d, ok := any(item).(models.Defaulter); ok {
		d.ApplyDefaults()
	}
	return item
}

// Get возвращает настройки, при первом обращении создавая их со значениями по умолчанию
func (s *SingletonService[T]) Get(ctx context.Context) (*T, error) {
	item, err := s.repo.FirstOrCreate(ctx, s.defaults())
	if err != nil {
		return nil, apperr.FromDB(err, s.label+" not found")
	}
	return item, nil
}

// Put накладывает тело запроса на текущие настройки и сохраняет их
func (s *SingletonService[T]) Put(ctx context.Context, patch []byte) (*T, error) {
	current, err := s.repo.Get(ctx)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		current = s.defaults()
	} else if err != nil {
		return nil, err
	}

	if err := DecodeJSON(patch, current); err != nil {
		return nil, err
	}
	if err := validateStruct(current); err != nil {
		return nil, err
	}
	saved, err := s.repo.Save(ctx, current)
	if err != nil {
		return nil, apperr.FromDB(err, s.label+" not found")
	}
	return saved, nil
}

// StructureService — структура организации с подразделениями
type StructureService struct {
	repo repository.StructureRepository
}

func NewStructureService(repo repository.StructureRepository) *StructureService {
	return &StructureService{repo: repo}
}

func (s *StructureService) Get(ctx context.Context) (*models.Structure, error) {
	return s.repo.FirstOrCreate(ctx)
}

// Put обновляет поля структуры; если в теле есть departments, список заменяется целиком
func (s *StructureService) Put(ctx context.Context, patch []byte) (*models.Structure, error) {
	current, err := s.repo.FirstOrCreate(ctx)
	if err != nil {
		return nil, err
	}
	// Подразделения из тела не смешиваются со старыми по индексу
	old := current.Departments
	current.Departments = nil
	if err := DecodeJSON(patch, current); err != nil {
		return nil, err
	}
	if current.Departments == nil {
		current.Departments = old
	}
	explicit := explicitOrders(patch)

	for i := range current.Departments {
		d := &current.Departments[i]
		d.Name = strings.TrimSpace(d.Name)
		if d.Name == "" {
			return nil, apperr.Validation(fmt.Sprintf("Department #%d: field 'name' is required", i+1))
		}
		// без поля order подразделение встает на свое место в списке
		if i < len(explicit) && !explicit[i] {
			d.Order = models.FlexInt(i)
		}
	}
	return s.repo.Replace(ctx, current)
}

// explicitOrders отмечает подразделения из тела запроса, для которых передано поле order
func explicitOrders(patch []byte) []bool {
	var body struct {
		Departments []map[string]json.RawMessage `json:"departments"`
	}
	if err := json.Unmarshal(patch, &body); err != nil {
		return nil
	}
	explicit := make([]bool, len(body.Departments))
	for i, d := range body.Departments {
		v, ok := d["order"]
		explicit[i] = ok && string(v) != "null"
	}
	return explicit
}
