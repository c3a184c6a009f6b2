package models

import (
	"time"

	"gorm.io/gorm"
)

// Slide — слайд карусели на главной странице
type Slide struct {
	Base
	Ordered
	Visibility
	Title    string `json:"title" gorm:"type:text"`
	Subtitle string `json:"subtitle" gorm:"type:text"`
	Image    string `json:"image" gorm:"type:text;not null" binding:"required"`
	Link     string `json:"link" gorm:"type:text"`
}

// Announcement — объявление с необязательным сроком показа
type Announcement struct {
	Base
	Visibility
	Title      string     `json:"title" gorm:"type:text;not null" binding:"required"`
	Body       string     `json:"body" gorm:"type:text"`
	StartsAt   *time.Time `json:"startsAt"`
	EndsAt     *time.Time `json:"endsAt"`
	SearchText string     `json:"-" gorm:"type:text"`
}

func (a *Announcement) BeforeSave(tx *gorm.DB) error {
	a.SearchText = searchText(a.Title, a.Body)
	return nil
}

// StudentLifeItem — карточка раздела «Студенческая жизнь»
type StudentLifeItem struct {
	Base
	Ordered
	Visibility
	Title       string `json:"title" gorm:"type:text;not null" binding:"required"`
	Description string `json:"description" gorm:"type:text"`
	Image       string `json:"image" gorm:"type:text"`
}
