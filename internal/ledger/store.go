package ledger

import (
	"context"
	"time"

	"github.com/tillpoint/tillpoint-backend/pkg/db/models"
	"github.com/tillpoint/tillpoint-backend/pkg/money"
)

// Store is the single persistence contract both ledger backends satisfy.
// The relational store and the file store must be interchangeable without
// any behavioral difference observable through this interface.
type Store interface {
	// Name identifies the backend in logs and metrics ("sql" or "file").
	Name() string

	// Append persists the sale header and all of its line items as one
	// atomic unit and assigns ledger-unique ids. A partially written sale
	// must never be observable by a subsequent read.
	Append(ctx context.Context, sale *models.Sale) error

	// SalesBetween returns all sales recorded within [from, to] inclusive,
	// lines populated, ordered by recorded_at ascending with ties broken
	// by insertion order (id ascending).
	SalesBetween(ctx context.Context, from, to time.Time) ([]models.Sale, error)

	// DeleteLineItem removes one line, re-derives the sale total from the
	// remaining lines and persists it. Deleting the last line deletes the
	// whole sale. A missing sale or line yields Found == false, not an error.
	DeleteLineItem(ctx context.Context, saleID, lineID int64) (LineDeletion, error)

	// DeleteSale removes the sale header and all its lines atomically.
	// Returns false when the sale does not exist.
	DeleteSale(ctx context.Context, saleID int64) (bool, error)
}

// LineDeletion reports the authoritative outcome of a line-item deletion.
// Callers adopt NewTotal rather than recomputing from stale local state.
type LineDeletion struct {
	Found       bool        `json:"found"`
	SaleDeleted bool        `json:"sale_deleted"`
	NewTotal    money.Cents `json:"new_total"`
}
