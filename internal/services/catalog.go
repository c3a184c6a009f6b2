package services

import (
	"context"
	"strings"

	"collegesite/internal/apperr"
	"collegesite/internal/models"
	"collegesite/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Catalog — сервисы типовых ресурсов сайта
type Catalog struct {
	Documents          *ResourceService[models.DocumentRecord]
	StudentDocuments   *ResourceService[models.StudentDocument]
	StructureDocuments *ResourceService[models.StructureDocument]
	Managers           *ResourceService[models.Manager]
	Employees          *ResourceService[models.Employee]
	Slides             *ResourceService[models.Slide]
	Announcements      *ResourceService[models.Announcement]
	StudentLife        *ResourceService[models.StudentLifeItem]
	Programs           *ResourceService[models.EducationProgram]
	Specialties        *ResourceService[models.Specialty]
	PaidServices       *ResourceService[models.PaidService]
	Budget             *ResourceService[models.BudgetRecord]
	Grants             *ResourceService[models.Grant]
	Catering           *ResourceService[models.CateringObject]
	AdmissionContacts  *ResourceService[models.AdmissionContact]
}

func resource[T any](db *gorm.DB, schema repository.Schema, files FileReleaser, config ResourceConfig[T]) *ResourceService[T] {
	return NewResourceService(repository.NewResourceRepository[T](db, schema), files, config)
}

// NewCatalog создает сервисы всех типовых ресурсов
func NewCatalog(db *gorm.DB, files FileReleaser) *Catalog {
	return &Catalog{
		Documents: resource(db, repository.DocumentSchema, files, ResourceConfig[models.DocumentRecord]{
			Files:   func(d *models.DocumentRecord) []string { return fileRefs(d.FileURL) },
			Key:     func(d *models.DocumentRecord) string { return d.Field },
			Prepare: trimKey(func(d *models.DocumentRecord) *string { return &d.Field }, "field"),
		}),
		StudentDocuments: resource(db, repository.StudentDocumentSchema, files, ResourceConfig[models.StudentDocument]{
			Files: func(d *models.StudentDocument) []string { return fileRefs(d.FileURL) },
		}),
		StructureDocuments: resource(db, repository.StructureDocumentSchema, files, ResourceConfig[models.StructureDocument]{
			Files: func(d *models.StructureDocument) []string { return fileRefs(d.FileURL) },
		}),
		Managers: resource(db, repository.ManagerSchema, files, ResourceConfig[models.Manager]{
			Files: func(m *models.Manager) []string { return fileRefs(m.Photo) },
		}),
		Employees: resource(db, repository.EmployeeSchema, files, ResourceConfig[models.Employee]{
			Files: func(e *models.Employee) []string { return fileRefs(e.Photo) },
		}),
		Slides: resource(db, repository.SlideSchema, files, ResourceConfig[models.Slide]{
			Files: func(s *models.Slide) []string { return fileRefs(s.Image) },
		}),
		Announcements: resource(db, repository.AnnouncementSchema, nil, ResourceConfig[models.Announcement]{
			Prepare: checkPeriod,
		}),
		StudentLife: resource(db, repository.StudentLifeSchema, files, ResourceConfig[models.StudentLifeItem]{
			Files: func(s *models.StudentLifeItem) []string { return fileRefs(s.Image) },
		}),
		Programs:    resource(db, repository.ProgramSchema, nil, ResourceConfig[models.EducationProgram]{}),
		Specialties: resource(db, repository.SpecialtySchema, nil, ResourceConfig[models.Specialty]{}),
		PaidServices: resource(db, repository.PaidServiceSchema, files, ResourceConfig[models.PaidService]{
			Files: func(p *models.PaidService) []string { return fileRefs(p.FileURL) },
		}),
		Budget: resource(db, repository.BudgetSchema, files, ResourceConfig[models.BudgetRecord]{
			Files: func(b *models.BudgetRecord) []string { return fileRefs(b.FileURL) },
		}),
		Grants: resource(db, repository.GrantSchema, files, ResourceConfig[models.Grant]{
			Files: func(g *models.Grant) []string { return fileRefs(g.FileURL) },
		}),
		Catering: resource(db, repository.CateringSchema, files, ResourceConfig[models.CateringObject]{
			Files: func(c *models.CateringObject) []string { return fileRefs(c.Photo) },
		}),
		AdmissionContacts: resource(db, repository.AdmissionContactSchema, nil, ResourceConfig[models.AdmissionContact]{
			Key:     func(a *models.AdmissionContact) string { return a.Type },
			Prepare: trimKey(func(a *models.AdmissionContact) *string { return &a.Type }, "type"),
		}),
	}
}

// trimKey обрезает пробелы в натуральном ключе и не дает сохранить его пустым
func trimKey[T any](key func(*T) *string, field string) func(context.Context, *T, uuid.UUID) error {
	return func(_ context.Context, item *T, _ uuid.UUID) error {
		k := key(item)
		*k = strings.TrimSpace(*k)
		if *k == "" {
			return apperr.Validation("Field '" + field + "' is required")
		}
		return nil
	}
}

func checkPeriod(_ context.Context, a *models.Announcement, _ uuid.UUID) error {
	if a.StartsAt != nil && a.EndsAt != nil && a.EndsAt.Before(*a.StartsAt) {
		return apperr.Validation("Field 'endsAt' must not be before 'startsAt'")
	}
	return nil
}
