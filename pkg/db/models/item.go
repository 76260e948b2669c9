package models

import (
	"time"

	"github.com/tillpoint/tillpoint-backend/pkg/money"
)

// Item is a sellable catalog entry. Recorded sales never reference items
// directly; they carry frozen copies of name and price instead.
type Item struct {
	ID             int64       `gorm:"column:id;primaryKey;autoIncrement"`
	Name           string      `gorm:"column:name;not null"`
	UnitPriceCents money.Cents `gorm:"column:unit_price_cents;not null"`
	Category       string      `gorm:"column:category"`
	CreatedAt      time.Time   `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time   `gorm:"column:updated_at;autoUpdateTime"`
}

func (Item) TableName() string {
	return "items"
}
