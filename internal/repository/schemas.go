package repository

import "collegesite/internal/models"

const (
	orderManual = "sort_order ASC, created_at ASC"
	orderRecent = "created_at DESC"
)

var (
	NewsSchema = Schema{
		Name: "news", Path: "news", Label: "News",
		Model:       &models.NewsArticle{},
		OrderBy:     "published_at DESC, created_at DESC",
		Activatable: true,
		FileColumns: []string{"preview_image", "images", "attachments"},
		TextColumns: []string{"short_text", "full_text"},
	}
	DocumentSchema = Schema{
		Name: "documents", Path: "documents", Label: "Document",
		Model:       &models.DocumentRecord{},
		OrderBy:     "field ASC",
		NaturalKey:  "field",
		FileColumns: []string{"file_url"},
	}
	StudentDocumentSchema = Schema{
		Name: "studentDocuments", Path: "student-documents", Label: "Student document",
		Model:       &models.StudentDocument{},
		OrderBy:     orderManual,
		Activatable: true,
		FileColumns: []string{"file_url"},
	}
	StructureDocumentSchema = Schema{
		Name: "structureDocuments", Path: "structure-documents", Label: "Structure document",
		Model:       &models.StructureDocument{},
		OrderBy:     orderManual,
		Activatable: true,
		FileColumns: []string{"file_url"},
		TextColumns: []string{"description"},
	}
	ManagerSchema = Schema{
		Name: "managers", Path: "managers", Label: "Manager",
		Model:       &models.Manager{},
		OrderBy:     orderManual,
		Activatable: true,
		FileColumns: []string{"photo"},
	}
	EmployeeSchema = Schema{
		Name: "employees", Path: "employees", Label: "Employee",
		Model:       &models.Employee{},
		OrderBy:     orderManual,
		Activatable: true,
		FileColumns: []string{"photo"},
	}
	SlideSchema = Schema{
		Name: "slides", Path: "slides", Label: "Slide",
		Model:       &models.Slide{},
		OrderBy:     orderManual,
		Activatable: true,
		FileColumns: []string{"image"},
		TextColumns: []string{"link"},
	}
	AnnouncementSchema = Schema{
		Name: "announcements", Path: "announcements", Label: "Announcement",
		Model:       &models.Announcement{},
		OrderBy:     orderRecent,
		Activatable: true,
		TextColumns: []string{"body"},
	}
	StudentLifeSchema = Schema{
		Name: "studentLife", Path: "student-life", Label: "Student life item",
		Model:       &models.StudentLifeItem{},
		OrderBy:     orderManual,
		Activatable: true,
		FileColumns: []string{"image"},
		TextColumns: []string{"description"},
	}
	ProgramSchema = Schema{
		Name: "programs", Path: "programs", Label: "Program",
		Model:       &models.EducationProgram{},
		OrderBy:     orderManual,
		Activatable: true,
		TextColumns: []string{"program"},
	}
	SpecialtySchema = Schema{
		Name: "specialties", Path: "specialties", Label: "Specialty",
		Model:       &models.Specialty{},
		OrderBy:     orderManual,
		Activatable: true,
	}
	PaidServiceSchema = Schema{
		Name: "paidServices", Path: "paid-services", Label: "Paid service",
		Model:       &models.PaidService{},
		OrderBy:     orderManual,
		Activatable: true,
		FileColumns: []string{"file_url"},
		TextColumns: []string{"description"},
	}
	BudgetSchema = Schema{
		Name: "budget", Path: "budget", Label: "Budget record",
		Model:       &models.BudgetRecord{},
		OrderBy:     "year DESC, " + orderManual,
		FileColumns: []string{"file_url"},
	}
	GrantSchema = Schema{
		Name: "grants", Path: "grants", Label: "Grant",
		Model:       &models.Grant{},
		OrderBy:     "year DESC, " + orderManual,
		Activatable: true,
		FileColumns: []string{"file_url"},
		TextColumns: []string{"description"},
	}
	CateringSchema = Schema{
		Name: "catering", Path: "catering", Label: "Catering object",
		Model:       &models.CateringObject{},
		OrderBy:     orderManual,
		Activatable: true,
		FileColumns: []string{"photo"},
		TextColumns: []string{"description"},
	}
	AdmissionContactSchema = Schema{
		Name: "admissionContacts", Path: "admission-contacts", Label: "Admission contact",
		Model:      &models.AdmissionContact{},
		OrderBy:    orderManual,
		NaturalKey: "type",
	}
	ScheduleGroupSchema = Schema{
		Name: "scheduleGroups", Path: "schedule-groups", Label: "Group",
		Model:   &models.ScheduleGroup{},
		OrderBy: "sort_order ASC, code ASC",
	}
	LessonSchema = Schema{
		Name: "lessons", Path: "lessons", Label: "Lesson",
		Model:   &models.Lesson{},
		OrderBy: "day_of_week ASC, lesson_number ASC",
	}
)

// Schemas — все ресурсы с типовыми операциями
var Schemas = []Schema{
	NewsSchema,
	DocumentSchema,
	StudentDocumentSchema,
	StructureDocumentSchema,
	ManagerSchema,
	EmployeeSchema,
	SlideSchema,
	AnnouncementSchema,
	StudentLifeSchema,
	ProgramSchema,
	SpecialtySchema,
	PaidServiceSchema,
	BudgetSchema,
	GrantSchema,
	CateringSchema,
	AdmissionContactSchema,
	ScheduleGroupSchema,
	LessonSchema,
}

// FileOwners возвращает ресурсы, которые ссылаются на загруженные файлы
func FileOwners() []Schema {
	owners := make([]Schema, 0, len(Schemas))
	for _, s := range Schemas {
		if s.OwnsFiles() {
			owners = append(owners, s)
		}
	}
	return owners
}

// TextOwners возвращает ресурсы со свободным текстом, где могут быть ссылки на файлы
func TextOwners() []Schema {
	owners := []Schema{
		{Name: "structure", Model: &models.Structure{}, TextColumns: []string{"description"}},
		{Name: "structureDepartments", Model: &models.StructureDepartment{}, TextColumns: []string{"description"}},
	}
	for _, s := range Schemas {
		if len(s.TextColumns) > 0 {
			owners = append(owners, s)
		}
	}
	return owners
}
