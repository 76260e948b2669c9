package ledger

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/tillpoint/tillpoint-backend/pkg/db/models"
	"github.com/tillpoint/tillpoint-backend/pkg/money"
)

// SQLStore persists the ledger in a relational database: a sale header
// table plus a line-item table with a foreign key, never a serialized
// blob column.
type SQLStore struct {
	db *gorm.DB
}

// NewSQLStore returns a ledger store bound to the provided database.
func NewSQLStore(db *gorm.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) Name() string {
	return "sql"
}

func (s *SQLStore) Append(ctx context.Context, sale *models.Sale) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(sale).Error
	})
}

func (s *SQLStore) SalesBetween(ctx context.Context, from, to time.Time) ([]models.Sale, error) {
	var sales []models.Sale
	err := s.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC, id ASC")
		}).
		Where("recorded_at BETWEEN ? AND ?", from, to).
		Order("recorded_at ASC, id ASC").
		Find(&sales).Error
	if err != nil {
		return nil, err
	}
	return sales, nil
}

func (s *SQLStore) DeleteLineItem(ctx context.Context, saleID, lineID int64) (LineDeletion, error) {
	var result LineDeletion
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var line models.SaleLineItem
		err := tx.First(&line, "id = ? AND sale_id = ?", lineID, saleID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		if err := tx.Delete(&line).Error; err != nil {
			return err
		}

		var remaining []models.SaleLineItem
		if err := tx.Find(&remaining, "sale_id = ?", saleID).Error; err != nil {
			return err
		}

		result.Found = true
		if len(remaining) == 0 {
			// an empty shell is not retained
			if err := tx.Delete(&models.Sale{}, "id = ?", saleID).Error; err != nil {
				return err
			}
			result.SaleDeleted = true
			return nil
		}

		var total money.Cents
		for _, l := range remaining {
			total += l.LineTotal()
		}
		result.NewTotal = total

		return tx.Model(&models.Sale{}).
			Where("id = ?", saleID).
			Updates(map[string]any{
				"total_cents":  total,
				"change_cents": gorm.Expr("amount_tendered_cents - ?", total),
			}).Error
	})
	if err != nil {
		return LineDeletion{}, err
	}
	return result, nil
}

func (s *SQLStore) DeleteSale(ctx context.Context, saleID int64) (bool, error) {
	var found bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.Sale{}, "id = ?", saleID)
		if res.Error != nil {
			return res.Error
		}
		found = res.RowsAffected > 0
		if !found {
			return nil
		}
		return tx.Delete(&models.SaleLineItem{}, "sale_id = ?", saleID).Error
	})
	if err != nil {
		return false, err
	}
	return found, nil
}
