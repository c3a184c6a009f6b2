package models

import "github.com/google/uuid"

// Допустимые значения дня недели и номера пары
const (
	MinLessonSlot = 1
	MaxLessonSlot = 5
)

// ScheduleGroup — учебная группа в расписании
type ScheduleGroup struct {
	Base
	Ordered
	Code      string   `json:"code" gorm:"type:text;not null;uniqueIndex" binding:"required"`
	Name      string   `json:"name" gorm:"type:text"`
	Course    FlexInt  `json:"course"`
	Specialty string   `json:"specialty" gorm:"type:text"`
	Lessons   []Lesson `json:"lessons,omitempty" gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE"`
}

// Lesson — пара в расписании группы. В одной ячейке (группа, день, номер)
// может быть только одна пара.
type Lesson struct {
	Base
	GroupID      uuid.UUID `json:"groupId" gorm:"type:text;not null;uniqueIndex:idx_lesson_slot,priority:1"`
	DayOfWeek    FlexInt   `json:"dayOfWeek" gorm:"not null;uniqueIndex:idx_lesson_slot,priority:2"`
	LessonNumber FlexInt   `json:"lessonNumber" gorm:"not null;uniqueIndex:idx_lesson_slot,priority:3"`
	Subject      string    `json:"subject" gorm:"type:text;not null" binding:"required"`
	Teacher      string    `json:"teacher" gorm:"type:text"`
	Room         string    `json:"room" gorm:"type:text"`
}
