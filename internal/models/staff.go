package models

import "gorm.io/gorm"

// Manager — руководитель организации
type Manager struct {
	Base
	Ordered
	Visibility
	FullName   string `json:"fullName" gorm:"type:text;not null" binding:"required"`
	Position   string `json:"position" gorm:"type:text"`
	Phone      string `json:"phone" gorm:"type:text"`
	Email      string `json:"email" gorm:"type:text"`
	Photo      string `json:"photo" gorm:"type:text"`
	Reception  string `json:"reception" gorm:"type:text"`
	SearchText string `json:"-" gorm:"type:text"`
}

func (m *Manager) BeforeSave(tx *gorm.DB) error {
	m.SearchText = searchText(m.FullName, m.Position)
	return nil
}

// Employee — педагогический работник
type Employee struct {
	Base
	Ordered
	Visibility
	FullName        string  `json:"fullName" gorm:"type:text;not null" binding:"required"`
	Position        string  `json:"position" gorm:"type:text"`
	Subjects        string  `json:"subjects" gorm:"type:text"`
	Education       string  `json:"education" gorm:"type:text"`
	Qualification   string  `json:"qualification" gorm:"type:text"`
	ExperienceYears FlexInt `json:"experienceYears"`
	Photo           string  `json:"photo" gorm:"type:text"`
	SearchText      string  `json:"-" gorm:"type:text"`
}

func (e *Employee) BeforeSave(tx *gorm.DB) error {
	e.SearchText = searchText(e.FullName, e.Position, e.Subjects)
	return nil
}
