package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// NewsArticle — новость сайта
type NewsArticle struct {
	Base
	Visibility
	Title        string                      `json:"title" gorm:"type:text;not null" binding:"required"`
	Slug         string                      `json:"slug" gorm:"type:text;not null;uniqueIndex"`
	ShortText    string                      `json:"shortText" gorm:"type:text"`
	FullText     string                      `json:"fullText" gorm:"type:text;not null" binding:"required"`
	PreviewImage string                      `json:"previewImage" gorm:"type:text"`
	Attachments  datatypes.JSONSlice[string] `json:"attachments"`
	Images       datatypes.JSONSlice[string] `json:"images"`
	PublishedAt  time.Time                   `json:"publishedAt" gorm:"index"`
	SearchText   string                      `json:"-" gorm:"type:text"`
}

func (NewsArticle) TableName() string { return "news" }

func (n *NewsArticle) ApplyDefaults() {
	n.Visibility.ApplyDefaults()
	n.Attachments = datatypes.JSONSlice[string]{}
	n.Images = datatypes.JSONSlice[string]{}
}

func (n *NewsArticle) BeforeSave(tx *gorm.DB) error {
	if n.Attachments == nil {
		n.Attachments = datatypes.JSONSlice[string]{}
	}
	if n.Images == nil {
		n.Images = datatypes.JSONSlice[string]{}
	}
	n.SearchText = searchText(n.Title, n.ShortText, n.FullText)
	return nil
}

// Files возвращает все ссылки новости на загруженные файлы
func (n *NewsArticle) Files() []string {
	refs := make([]string, 0, 1+len(n.Images)+len(n.Attachments))
	if n.PreviewImage != "" {
		refs = append(refs, n.PreviewImage)
	}
	refs = append(refs, n.Images...)
	refs = append(refs, n.Attachments...)
	return refs
}
