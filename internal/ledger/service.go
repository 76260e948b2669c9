// Package ledger is the durable store of completed sales: append-only at
// checkout, queryable by day, incrementally prunable, exportable as CSV.
package ledger

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/tillpoint/tillpoint-backend/pkg/db/models"
	pkgerrors "github.com/tillpoint/tillpoint-backend/pkg/errors"
	"github.com/tillpoint/tillpoint-backend/pkg/logger"
	"github.com/tillpoint/tillpoint-backend/pkg/money"
)

// Service defines the sale ledger operations.
type Service interface {
	Append(ctx context.Context, draft SaleDraft) (*models.Sale, error)
	SalesForDay(ctx context.Context, day time.Time) ([]models.Sale, error)
	DeleteLineItem(ctx context.Context, saleID, lineID int64) (LineDeletion, error)
	DeleteSale(ctx context.Context, saleID int64) error
	ExportCSV(ctx context.Context, from, to time.Time) (string, error)
	Backend() string
}

// SaleDraft is the checkout snapshot submitted for persistence. Lines are
// frozen copies, not catalog references.
type SaleDraft struct {
	RecordedAt     time.Time
	Total          money.Cents
	AmountTendered money.Cents
	Change         money.Cents
	Lines          []DraftLine
}

// DraftLine is one frozen line of a draft sale.
type DraftLine struct {
	ItemName  string
	UnitPrice money.Cents
	Quantity  int
}

type service struct {
	store Store
	logg  *logger.Logger
	now   func() time.Time
}

// NewService wires a ledger service over the given backend store.
func NewService(store Store, logg *logger.Logger) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("ledger store required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{store: store, logg: logg, now: time.Now}, nil
}

func (s *service) Backend() string {
	return s.store.Name()
}

// Append validates the draft against the ledger-boundary invariants and
// commits it atomically. An underpaid sale is rejected here regardless of
// what the caller computed.
func (s *service) Append(ctx context.Context, draft SaleDraft) (*models.Sale, error) {
	if len(draft.Lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sale must contain at least one line item")
	}

	var sum money.Cents
	lines := make([]models.SaleLineItem, 0, len(draft.Lines))
	for i, line := range draft.Lines {
		if line.ItemName == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "line item name is required")
		}
		if line.Quantity < 1 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "line item quantity must be at least 1")
		}
		if line.UnitPrice < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "line item price must not be negative")
		}
		model := models.SaleLineItem{
			ItemName:       line.ItemName,
			UnitPriceCents: line.UnitPrice,
			Quantity:       line.Quantity,
			Position:       i,
		}
		sum += model.LineTotal()
		lines = append(lines, model)
	}

	if draft.Total != sum {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sale total does not match its line items")
	}
	if draft.AmountTendered < draft.Total {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount tendered is below the sale total")
	}
	if draft.Change != draft.AmountTendered-draft.Total {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "change does not match tendered minus total")
	}

	recordedAt := draft.RecordedAt
	if recordedAt.IsZero() {
		recordedAt = s.now()
	}

	sale := &models.Sale{
		RecordedAt:          recordedAt,
		TotalCents:          draft.Total,
		AmountTenderedCents: draft.AmountTendered,
		ChangeCents:         draft.Change,
		Lines:               lines,
	}

	if err := s.store.Append(ctx, sale); err != nil {
		return nil, storeError(err, "appending sale")
	}

	ctx = s.logg.WithSaleID(ctx, sale.ID)
	s.logg.Info(ctx, "sale recorded")
	return sale, nil
}

// SalesForDay returns the day's sales newest first, ties broken by
// insertion order. Sales left without lines by prior deletions are
// excluded.
func (s *service) SalesForDay(ctx context.Context, day time.Time) ([]models.Sale, error) {
	from := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	to := from.Add(24*time.Hour - time.Nanosecond)

	sales, err := s.store.SalesBetween(ctx, from, to)
	if err != nil {
		return nil, storeError(err, "querying sales")
	}

	filtered := sales[:0]
	for _, sale := range sales {
		if len(sale.Lines) == 0 {
			continue
		}
		filtered = append(filtered, sale)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		if !filtered[i].RecordedAt.Equal(filtered[j].RecordedAt) {
			return filtered[i].RecordedAt.After(filtered[j].RecordedAt)
		}
		return filtered[i].ID > filtered[j].ID
	})
	return filtered, nil
}

// DeleteLineItem removes one line and reports the authoritative new total.
// A missing sale or line is benign: a second screen may have deleted it
// already.
func (s *service) DeleteLineItem(ctx context.Context, saleID, lineID int64) (LineDeletion, error) {
	result, err := s.store.DeleteLineItem(ctx, saleID, lineID)
	if err != nil {
		return LineDeletion{}, storeError(err, "deleting line item")
	}
	ctx = s.logg.WithSaleID(ctx, saleID)
	if !result.Found {
		s.logg.Warn(s.logg.WithField(ctx, "line_id", lineID), "line item already gone, nothing deleted")
		return result, nil
	}
	if result.SaleDeleted {
		s.logg.Info(ctx, "last line item removed, sale deleted")
	}
	return result, nil
}

// DeleteSale removes a sale and its lines; absent sales are a no-op.
func (s *service) DeleteSale(ctx context.Context, saleID int64) error {
	found, err := s.store.DeleteSale(ctx, saleID)
	if err != nil {
		return storeError(err, "deleting sale")
	}
	ctx = s.logg.WithSaleID(ctx, saleID)
	if !found {
		s.logg.Warn(ctx, "sale already gone, nothing deleted")
		return nil
	}
	s.logg.Info(ctx, "sale deleted")
	return nil
}

// storeError passes already-typed errors through (the file backend
// reports malformed documents with their own code) and maps everything
// else to a persistence failure.
func storeError(err error, message string) error {
	if typed := pkgerrors.As(err); typed != nil {
		return typed
	}
	return pkgerrors.Wrap(pkgerrors.CodePersistence, err, message)
}

// ExportCSV renders every line item of the sales recorded within
// [from, to] inclusive, grouped by sale in timestamp order.
func (s *service) ExportCSV(ctx context.Context, from, to time.Time) (string, error) {
	sales, err := s.store.SalesBetween(ctx, from, to)
	if err != nil {
		return "", storeError(err, "querying sales for export")
	}
	return renderCSV(sales), nil
}
