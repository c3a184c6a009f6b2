package models

// Structure — описание структуры организации (единственная запись)
type Structure struct {
	Singleton
	Title        string                `json:"title" gorm:"type:text"`
	Description  string                `json:"description" gorm:"type:text"`
	HeadName     string                `json:"headName" gorm:"type:text"`
	HeadPosition string                `json:"headPosition" gorm:"type:text"`
	Phone        string                `json:"phone" gorm:"type:text"`
	Email        string                `json:"email" gorm:"type:text"`
	Departments  []StructureDepartment `json:"departments" gorm:"foreignKey:StructureID;constraint:OnDelete:CASCADE"`
}

// StructureDepartment — подразделение; список заменяется целиком при каждом сохранении структуры
type StructureDepartment struct {
	Base
	Ordered
	StructureID uint   `json:"-" gorm:"not null;index"`
	Name        string `json:"name" gorm:"type:text;not null" binding:"required"`
	Head        string `json:"head" gorm:"type:text"`
	Phone       string `json:"phone" gorm:"type:text"`
	Email       string `json:"email" gorm:"type:text"`
	Description string `json:"description" gorm:"type:text"`
}
