package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tillpoint/tillpoint-backend/api/responses"
	"github.com/tillpoint/tillpoint-backend/api/validators"
	ledgersvc "github.com/tillpoint/tillpoint-backend/internal/ledger"
	"github.com/tillpoint/tillpoint-backend/pkg/db/models"
	pkgerrors "github.com/tillpoint/tillpoint-backend/pkg/errors"
	"github.com/tillpoint/tillpoint-backend/pkg/logger"
	"github.com/tillpoint/tillpoint-backend/pkg/money"
)

type saleLineResponse struct {
	ID             int64       `json:"id"`
	ItemName       string      `json:"item_name"`
	UnitPriceCents money.Cents `json:"unit_price_cents"`
	UnitPrice      string      `json:"unit_price"`
	Quantity       int         `json:"quantity"`
	LineTotalCents money.Cents `json:"line_total_cents"`
}

type saleResponse struct {
	ID                  int64              `json:"id"`
	RecordedAt          time.Time          `json:"recorded_at"`
	Date                string             `json:"date"`
	Time                string             `json:"time"`
	TotalCents          money.Cents        `json:"total_cents"`
	Total               string             `json:"total"`
	AmountTenderedCents money.Cents        `json:"amount_tendered_cents"`
	ChangeCents         money.Cents        `json:"change_cents"`
	Lines               []saleLineResponse `json:"lines"`
}

func toSaleResponse(sale models.Sale, fmtr *money.Formatter) saleResponse {
	out := saleResponse{
		ID:                  sale.ID,
		RecordedAt:          sale.RecordedAt,
		Date:                fmtr.FormatDate(sale.RecordedAt),
		Time:                fmtr.FormatTime(sale.RecordedAt),
		TotalCents:          sale.TotalCents,
		Total:               fmtr.FormatAmount(sale.TotalCents),
		AmountTenderedCents: sale.AmountTenderedCents,
		ChangeCents:         sale.ChangeCents,
		Lines:               make([]saleLineResponse, 0, len(sale.Lines)),
	}
	for _, line := range sale.Lines {
		out.Lines = append(out.Lines, saleLineResponse{
			ID:             line.ID,
			ItemName:       line.ItemName,
			UnitPriceCents: line.UnitPriceCents,
			UnitPrice:      fmtr.FormatAmount(line.UnitPriceCents),
			Quantity:       line.Quantity,
			LineTotalCents: line.LineTotal(),
		})
	}
	return out
}

// ListSales returns the sales of one calendar day, newest first. The day
// defaults to today.
func ListSales(svc ledgersvc.Service, fmtr *money.Formatter, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		day, err := validators.ParseQueryDate(r, "day", time.Now())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sales, err := svc.SalesForDay(r.Context(), day)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := make([]saleResponse, 0, len(sales))
		for _, sale := range sales {
			out = append(out, toSaleResponse(sale, fmtr))
		}
		responses.WriteSuccess(w, out)
	}
}

func DeleteSale(svc ledgersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		saleID, err := validators.ParseURLInt64(chi.URLParam(r, "saleId"), "saleId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DeleteSale(r.Context(), saleID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"sale_id": saleID})
	}
}

type deleteLineResponse struct {
	SaleID        int64       `json:"sale_id"`
	LineID        int64       `json:"line_id"`
	SaleDeleted   bool        `json:"sale_deleted"`
	NewTotalCents money.Cents `json:"new_total_cents"`
	NewTotal      string      `json:"new_total"`
}

func DeleteSaleLineItem(svc ledgersvc.Service, fmtr *money.Formatter, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		saleID, err := validators.ParseURLInt64(chi.URLParam(r, "saleId"), "saleId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		lineID, err := validators.ParseURLInt64(chi.URLParam(r, "lineId"), "lineId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.DeleteLineItem(r.Context(), saleID, lineID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, deleteLineResponse{
			SaleID:        saleID,
			LineID:        lineID,
			SaleDeleted:   result.SaleDeleted,
			NewTotalCents: result.NewTotal,
			NewTotal:      fmtr.FormatAmount(result.NewTotal),
		})
	}
}

// ExportSales streams the line items of a date range as CSV. Both bounds
// default to today, so a bare request exports the current day.
func ExportSales(svc ledgersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		now := time.Now()
		from, err := validators.ParseQueryDate(r, "from", now)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		to, err := validators.ParseQueryDate(r, "to", now)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if to.Before(from) {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "to must not lie before from"))
			return
		}

		// widen the upper bound to the end of its day
		to = to.AddDate(0, 0, 1).Add(-time.Nanosecond)

		body, err := svc.ExportCSV(r.Context(), from, to)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filename := fmt.Sprintf("sales_%s_%s.csv", from.Format("2006-01-02"), to.Format("2006-01-02"))
		responses.WriteCSV(w, filename, body)
	}
}
