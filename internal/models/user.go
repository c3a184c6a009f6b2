package models

// AdminUser — учетная запись администратора сайта
type AdminUser struct {
	Base
	Username     string `json:"username" gorm:"type:text;not null;uniqueIndex"`
	PasswordHash string `json:"-" gorm:"type:text;not null"`
}
