package models

import (
	"time"

	"github.com/tillpoint/tillpoint-backend/pkg/money"
)

// Sale is the immutable record of a completed, paid transaction. The total
// always equals the sum of its line totals; the ledger re-derives it after
// any line deletion.
type Sale struct {
	ID                  int64          `gorm:"column:id;primaryKey;autoIncrement"`
	RecordedAt          time.Time      `gorm:"column:recorded_at;not null"`
	TotalCents          money.Cents    `gorm:"column:total_cents;not null"`
	AmountTenderedCents money.Cents    `gorm:"column:amount_tendered_cents;not null"`
	ChangeCents         money.Cents    `gorm:"column:change_cents;not null"`
	Lines               []SaleLineItem `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE"`
	CreatedAt           time.Time      `gorm:"column:created_at;autoCreateTime"`
}

func (Sale) TableName() string {
	return "sales"
}

// SaleLineItem is a frozen line within a recorded sale. Name and price are
// snapshots taken at checkout; later catalog edits do not touch them.
type SaleLineItem struct {
	ID             int64       `gorm:"column:id;primaryKey;autoIncrement"`
	SaleID         int64       `gorm:"column:sale_id;not null;index"`
	ItemName       string      `gorm:"column:item_name;not null"`
	UnitPriceCents money.Cents `gorm:"column:unit_price_cents;not null"`
	Quantity       int         `gorm:"column:quantity;not null"`
	Position       int         `gorm:"column:position;not null"`
}

func (SaleLineItem) TableName() string {
	return "sale_line_items"
}

// LineTotal is the extended price of the line.
func (l SaleLineItem) LineTotal() money.Cents {
	return l.UnitPriceCents * money.Cents(l.Quantity)
}
