package models

import "gorm.io/gorm"

// DocumentRecord — документ раздела «Сведения об организации»,
// адресуемый по смысловому ключу field
type DocumentRecord struct {
	Base
	Field      string  `json:"field" gorm:"type:text;not null;uniqueIndex" binding:"required"`
	Title      string  `json:"title" gorm:"type:text"`
	FileName   string  `json:"fileName" gorm:"type:text"`
	FileURL    string  `json:"fileUrl" gorm:"type:text"`
	MimeType   string  `json:"mimeType" gorm:"type:text"`
	Size       FlexInt `json:"size"`
	SearchText string  `json:"-" gorm:"type:text"`
}

func (DocumentRecord) TableName() string { return "documents" }

func (d *DocumentRecord) BeforeSave(tx *gorm.DB) error {
	d.SearchText = searchText(d.Field, d.Title, d.FileName)
	return nil
}

// StudentDocument — документ для студентов
type StudentDocument struct {
	Base
	Ordered
	Visibility
	Title    string `json:"title" gorm:"type:text;not null" binding:"required"`
	Category string `json:"category" gorm:"type:text"`
	FileName string `json:"fileName" gorm:"type:text"`
	FileURL  string `json:"fileUrl" gorm:"type:text"`
}

// StructureDocument — документ раздела «Структура и органы управления»
type StructureDocument struct {
	Base
	Ordered
	Visibility
	Title       string `json:"title" gorm:"type:text;not null" binding:"required"`
	Description string `json:"description" gorm:"type:text"`
	FileName    string `json:"fileName" gorm:"type:text"`
	FileURL     string `json:"fileUrl" gorm:"type:text"`
	SearchText  string `json:"-" gorm:"type:text"`
}

func (d *StructureDocument) BeforeSave(tx *gorm.DB) error {
	d.SearchText = searchText(d.Title, d.Description)
	return nil
}
