package models

// FileCategory — раздел хранилища, определяемый типом содержимого
type FileCategory string

const (
	CategoryImages    FileCategory = "images"
	CategoryDocuments FileCategory = "documents"
)

// Valid проверяет, что категория известна
func (c FileCategory) Valid() bool {
	return c == CategoryImages || c == CategoryDocuments
}

// UploadedFile — метаданные загруженного файла
type UploadedFile struct {
	Base
	StoredName   string       `json:"storedName" gorm:"type:text;not null;uniqueIndex"`
	OriginalName string       `json:"originalName" gorm:"type:text;not null"`
	MimeType     string       `json:"mimeType" gorm:"type:text"`
	SizeBytes    int64        `json:"sizeBytes"`
	Category     FileCategory `json:"category" gorm:"type:text;not null;index"`
	// Путь относительно корня хранилища: images/name.png
	Path string `json:"path" gorm:"type:text;not null;uniqueIndex"`
}

// URL публичный адрес файла
func (f *UploadedFile) URL() string {
	return "/uploads/" + f.Path
}
