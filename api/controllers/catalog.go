package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tillpoint/tillpoint-backend/api/responses"
	"github.com/tillpoint/tillpoint-backend/api/validators"
	catalogsvc "github.com/tillpoint/tillpoint-backend/internal/catalog"
	"github.com/tillpoint/tillpoint-backend/pkg/db/models"
	pkgerrors "github.com/tillpoint/tillpoint-backend/pkg/errors"
	"github.com/tillpoint/tillpoint-backend/pkg/logger"
	"github.com/tillpoint/tillpoint-backend/pkg/money"
)

type itemResponse struct {
	ID             int64       `json:"id"`
	Name           string      `json:"name"`
	UnitPriceCents money.Cents `json:"unit_price_cents"`
	UnitPrice      string      `json:"unit_price"`
	Category       string      `json:"category,omitempty"`
}

func toItemResponse(item models.Item, fmtr *money.Formatter) itemResponse {
	return itemResponse{
		ID:             item.ID,
		Name:           item.Name,
		UnitPriceCents: item.UnitPriceCents,
		UnitPrice:      fmtr.FormatAmount(item.UnitPriceCents),
		Category:       item.Category,
	}
}

func toItemResponses(items []models.Item, fmtr *money.Formatter) []itemResponse {
	out := make([]itemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, toItemResponse(item, fmtr))
	}
	return out
}

type createItemRequest struct {
	Name      string `json:"name" validate:"required"`
	UnitPrice string `json:"unit_price" validate:"required"`
	Category  string `json:"category,omitempty"`
}

type updateItemRequest struct {
	Name      *string `json:"name,omitempty"`
	UnitPrice *string `json:"unit_price,omitempty"`
	Category  *string `json:"category,omitempty"`
}

func ListItems(svc catalogsvc.Service, fmtr *money.Formatter, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toItemResponses(items, fmtr))
	}
}

func ListCategories(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categories, err := svc.Categories(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, categories)
	}
}

func CreateItem(svc catalogsvc.Service, fmtr *money.Formatter, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		price, err := money.Parse(payload.UnitPrice)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid unit price"))
			return
		}

		item, err := svc.Create(r.Context(), catalogsvc.ItemInput{
			Name:           payload.Name,
			UnitPriceCents: price,
			Category:       payload.Category,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, toItemResponse(*item, fmtr))
	}
}

func UpdateItem(svc catalogsvc.Service, fmtr *money.Formatter, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseURLInt64(chi.URLParam(r, "itemId"), "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		current, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := catalogsvc.ItemInput{
			Name:           current.Name,
			UnitPriceCents: current.UnitPriceCents,
			Category:       current.Category,
		}
		if payload.Name != nil {
			input.Name = *payload.Name
		}
		if payload.Category != nil {
			input.Category = *payload.Category
		}
		if payload.UnitPrice != nil {
			price, err := money.Parse(*payload.UnitPrice)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid unit price"))
				return
			}
			input.UnitPriceCents = price
		}

		item, err := svc.Update(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toItemResponse(*item, fmtr))
	}
}

func DeleteItem(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseURLInt64(chi.URLParam(r, "itemId"), "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"deleted": true})
	}
}
