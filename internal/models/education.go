package models

import "gorm.io/gorm"

// EducationProgram — реализуемая образовательная программа
type EducationProgram struct {
	Base
	Ordered
	Visibility
	Name       string `json:"name" gorm:"type:text;not null" binding:"required"`
	Code       string `json:"code" gorm:"type:text"`
	Program    string `json:"program" gorm:"type:text"`
	Subjects   string `json:"subjects" gorm:"type:text"`
	Level      string `json:"level" gorm:"type:text"`
	Form       string `json:"form" gorm:"type:text"`
	Duration   string `json:"duration" gorm:"type:text"`
	SearchText string `json:"-" gorm:"type:text"`
}

func (p *EducationProgram) BeforeSave(tx *gorm.DB) error {
	p.SearchText = searchText(p.Name, p.Program, p.Subjects)
	return nil
}

// Specialty — специальность приема; код уникален
type Specialty struct {
	Base
	Ordered
	Visibility
	Code          string  `json:"code" gorm:"type:text;not null;uniqueIndex" binding:"required"`
	Name          string  `json:"name" gorm:"type:text;not null" binding:"required"`
	Qualification string  `json:"qualification" gorm:"type:text"`
	Duration      string  `json:"duration" gorm:"type:text"`
	BudgetPlaces  FlexInt `json:"budgetPlaces"`
	PaidPlaces    FlexInt `json:"paidPlaces"`
	Form          string  `json:"form" gorm:"type:text"`
}

// PaidService — платная образовательная услуга
type PaidService struct {
	Base
	Ordered
	Visibility
	Title       string    `json:"title" gorm:"type:text;not null" binding:"required"`
	Description string    `json:"description" gorm:"type:text"`
	Price       FlexFloat `json:"price"`
	Duration    string    `json:"duration" gorm:"type:text"`
	FileURL     string    `json:"fileUrl" gorm:"type:text"`
}

// AdmissionContact — контакт приемной комиссии, адресуемый по типу
type AdmissionContact struct {
	Base
	Ordered
	Type         string `json:"type" gorm:"type:text;not null;uniqueIndex" binding:"required"`
	Title        string `json:"title" gorm:"type:text"`
	Phone        string `json:"phone" gorm:"type:text"`
	Email        string `json:"email" gorm:"type:text"`
	Address      string `json:"address" gorm:"type:text"`
	WorkingHours string `json:"workingHours" gorm:"type:text"`
}
