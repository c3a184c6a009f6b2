package models

// BudgetRecord — строка раскрытия финансово-хозяйственной деятельности
type BudgetRecord struct {
	Base
	Ordered
	Year    FlexInt   `json:"year"`
	Title   string    `json:"title" gorm:"type:text;not null" binding:"required"`
	Amount  FlexFloat `json:"amount"`
	Source  string    `json:"source" gorm:"type:text"`
	FileURL string    `json:"fileUrl" gorm:"type:text"`
}

// Grant — полученный грант
type Grant struct {
	Base
	Ordered
	Visibility
	Title       string    `json:"title" gorm:"type:text;not null" binding:"required"`
	Description string    `json:"description" gorm:"type:text"`
	Amount      FlexFloat `json:"amount"`
	Year        FlexInt   `json:"year"`
	FileURL     string    `json:"fileUrl" gorm:"type:text"`
}

// CateringObject — объект питания
type CateringObject struct {
	Base
	Ordered
	Visibility
	Name        string    `json:"name" gorm:"type:text;not null" binding:"required"`
	Address     string    `json:"address" gorm:"type:text"`
	Area        FlexFloat `json:"area"`
	Seats       FlexInt   `json:"seats"`
	Description string    `json:"description" gorm:"type:text"`
	Photo       string    `json:"photo" gorm:"type:text"`
}
