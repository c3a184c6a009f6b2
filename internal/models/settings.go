package models

// SiteSettings — контакты и общие сведения, выводимые в шапке и подвале сайта
type SiteSettings struct {
	Singleton
	SiteName     string `json:"siteName" gorm:"type:text"`
	Phone        string `json:"phone" gorm:"type:text"`
	Email        string `json:"email" gorm:"type:text"`
	Address      string `json:"address" gorm:"type:text"`
	WorkingHours string `json:"workingHours" gorm:"type:text"`
	DirectorName string `json:"directorName" gorm:"type:text"`
	VKURL        string `json:"vkUrl" gorm:"type:text"`
	TelegramURL  string `json:"telegramUrl" gorm:"type:text"`
	MapEmbed     string `json:"mapEmbed" gorm:"type:text"`
}

// EducationSettings — какие разделы «Образования» показывать на сайте
type EducationSettings struct {
	Singleton
	ShowPrograms     bool `json:"showPrograms" gorm:"not null"`
	ShowSpecialties  bool `json:"showSpecialties" gorm:"not null"`
	ShowPaidServices bool `json:"showPaidServices" gorm:"not null"`
	ShowSchedule     bool `json:"showSchedule" gorm:"not null"`
	ShowAdmission    bool `json:"showAdmission" gorm:"not null"`
}

func (s *EducationSettings) ApplyDefaults() {
	s.ShowPrograms = true
	s.ShowSpecialties = true
	s.ShowPaidServices = true
	s.ShowSchedule = true
	s.ShowAdmission = true
}
