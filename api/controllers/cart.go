package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tillpoint/tillpoint-backend/api/responses"
	"github.com/tillpoint/tillpoint-backend/api/validators"
	"github.com/tillpoint/tillpoint-backend/internal/cart"
	catalogsvc "github.com/tillpoint/tillpoint-backend/internal/catalog"
	pkgerrors "github.com/tillpoint/tillpoint-backend/pkg/errors"
	"github.com/tillpoint/tillpoint-backend/pkg/logger"
	"github.com/tillpoint/tillpoint-backend/pkg/money"
)

type cartLineResponse struct {
	ItemID         int64       `json:"item_id"`
	Name           string      `json:"name"`
	UnitPriceCents money.Cents `json:"unit_price_cents"`
	UnitPrice      string      `json:"unit_price"`
	Quantity       int         `json:"quantity"`
	LineTotalCents money.Cents `json:"line_total_cents"`
}

type cartResponse struct {
	Lines      []cartLineResponse `json:"lines"`
	TotalCents money.Cents        `json:"total_cents"`
	Total      string             `json:"total"`
}

func toCartResponse(snap cart.Snapshot, fmtr *money.Formatter) cartResponse {
	out := cartResponse{
		Lines:      make([]cartLineResponse, 0, len(snap.Lines)),
		TotalCents: snap.Total,
		Total:      fmtr.FormatAmount(snap.Total),
	}
	for _, line := range snap.Lines {
		out.Lines = append(out.Lines, cartLineResponse{
			ItemID:         line.ItemID,
			Name:           line.Name,
			UnitPriceCents: line.UnitPrice,
			UnitPrice:      fmtr.FormatAmount(line.UnitPrice),
			Quantity:       line.Quantity,
			LineTotalCents: line.UnitPrice * money.Cents(line.Quantity),
		})
	}
	return out
}

type addCartItemRequest struct {
	ItemID    int64   `json:"item_id" validate:"required,min=1"`
	UnitPrice *string `json:"unit_price,omitempty"`
}

type setQuantityRequest struct {
	Quantity int `json:"quantity" validate:"min=0"`
}

func GetCart(container *cart.Container, fmtr *money.Formatter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, toCartResponse(container.Snapshot(), fmtr))
	}
}

// AddCartItem puts a catalog item into the cart. An explicit unit_price
// overrides the catalog price for this sale only.
func AddCartItem(container *cart.Container, catalog catalogsvc.Service, fmtr *money.Formatter, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload addCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := catalog.Get(r.Context(), payload.ItemID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var override *money.Cents
		if payload.UnitPrice != nil {
			price, err := money.Parse(*payload.UnitPrice)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid unit price"))
				return
			}
			override = &price
		}

		container.AddItem(*item, override)
		responses.WriteSuccess(w, toCartResponse(container.Snapshot(), fmtr))
	}
}

func SetCartQuantity(container *cart.Container, fmtr *money.Formatter, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseURLInt64(chi.URLParam(r, "itemId"), "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload setQuantityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		container.SetQuantity(id, payload.Quantity)
		responses.WriteSuccess(w, toCartResponse(container.Snapshot(), fmtr))
	}
}

func ClearCart(container *cart.Container, fmtr *money.Formatter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		container.Clear()
		responses.WriteSuccess(w, toCartResponse(container.Snapshot(), fmtr))
	}
}
