package models

import (
	"bytes"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Entity — запись с генерируемым идентификатором
type Entity interface {
	Meta() *Base
}

// Defaulter заполняет значения по умолчанию перед разбором входных данных
type Defaulter interface {
	ApplyDefaults()
}

// Activatable — запись с флагом видимости на публичном сайте
type Activatable interface {
	Active() bool
}

// Base — общие поля большинства сущностей
type Base struct {
	ID        uuid.UUID `json:"id" gorm:"type:text;primaryKey"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BeforeCreate генерирует идентификатор, если он не задан
func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// Meta дает доступ к служебным полям записи
func (b *Base) Meta() *Base { return b }

// SingletonID — идентификатор единственной строки настроек
const SingletonID = 1

// Singleton — служебные поля записи, существующей в одном экземпляре
type Singleton struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement:false"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Pin закрепляет запись за единственным идентификатором
func (s *Singleton) Pin() { s.ID = SingletonID }

// Ordered — ручной порядок вывода; при равенстве порядок по времени создания
type Ordered struct {
	Order FlexInt `json:"order" gorm:"column:sort_order;not null;default:0"`
}

// Visibility — мягкое скрытие записи с публичного сайта
type Visibility struct {
	IsActive bool `json:"isActive" gorm:"not null"`
}

func (v *Visibility) ApplyDefaults() { v.IsActive = true }

func (v *Visibility) Active() bool { return v.IsActive }

// FlexInt принимает число, числовую строку, пустую строку или null;
// нераспознанное значение превращается в 0
type FlexInt int64

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	*f = FlexInt(parseLooseNumber(data))
	return nil
}

// FlexFloat — аналог FlexInt для дробных значений (суммы, площади)
type FlexFloat float64

func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	*f = FlexFloat(parseLooseFloat(data))
	return nil
}

func parseLooseFloat(data []byte) float64 {
	s := string(bytes.TrimSpace(data))
	if s == "null" || s == "" {
		return 0
	}
	if unq, err := strconv.Unquote(s); err == nil {
		s = strings.TrimSpace(unq)
	}
	// "1 500,50" из форм администратора
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "\u00a0", "")
	s = strings.Replace(s, ",", ".", 1)

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func parseLooseNumber(data []byte) int64 {
	v := parseLooseFloat(data)
	if v > math.MaxInt64 || v < math.MinInt64 {
		return 0
	}
	return int64(v)
}

// searchText собирает строку для регистронезависимого поиска
func searchText(parts ...string) string {
	nonEmpty := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.ToLower(strings.Join(nonEmpty, " \n "))
}
