package controllers

import (
	"net/http"

	"github.com/tillpoint/tillpoint-backend/api/responses"
	"github.com/tillpoint/tillpoint-backend/api/validators"
	checkoutsvc "github.com/tillpoint/tillpoint-backend/internal/checkout"
	"github.com/tillpoint/tillpoint-backend/pkg/logger"
	"github.com/tillpoint/tillpoint-backend/pkg/money"
)

type checkoutStateResponse struct {
	State         checkoutsvc.State `json:"state"`
	TenderedCents money.Cents       `json:"tendered_cents"`
	Tendered      string            `json:"tendered"`
	ChangeCents   money.Cents       `json:"change_cents"`
	Change        string            `json:"change"`
}

func toCheckoutState(svc checkoutsvc.Service, fmtr *money.Formatter) checkoutStateResponse {
	tendered := svc.Tendered()
	change := svc.ChangeDue()
	return checkoutStateResponse{
		State:         svc.State(),
		TenderedCents: tendered,
		Tendered:      fmtr.FormatAmount(tendered),
		ChangeCents:   change,
		Change:        fmtr.FormatAmount(change),
	}
}

type tenderRequest struct {
	Amount string `json:"amount" validate:"required"`
}

type keyRequest struct {
	Key string `json:"key" validate:"required,len=1"`
}

type keyResponse struct {
	Value string `json:"value"`
}

func CheckoutState(svc checkoutsvc.Service, fmtr *money.Formatter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, toCheckoutState(svc, fmtr))
	}
}

func CheckoutTender(svc checkoutsvc.Service, fmtr *money.Formatter, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload tenderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.EnterTender(payload.Amount); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toCheckoutState(svc, fmtr))
	}
}

// CheckoutKey feeds a single keypad key into the tender entry buffer.
func CheckoutKey(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload keyRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		value := svc.PressKey([]rune(payload.Key)[0])
		responses.WriteSuccess(w, keyResponse{Value: value})
	}
}

// CheckoutKeyConfirm stages the keypad buffer as the tendered amount.
func CheckoutKeyConfirm(svc checkoutsvc.Service, fmtr *money.Formatter, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.ConfirmEntry(); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toCheckoutState(svc, fmtr))
	}
}

func CheckoutReset(svc checkoutsvc.Service, fmtr *money.Formatter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		svc.Reset()
		responses.WriteSuccess(w, toCheckoutState(svc, fmtr))
	}
}

type confirmResponse struct {
	SaleID      int64       `json:"sale_id"`
	TotalCents  money.Cents `json:"total_cents"`
	Total       string      `json:"total"`
	ChangeCents money.Cents `json:"change_cents"`
	Change      string      `json:"change"`
	RecordedAt  string      `json:"recorded_at"`
}

func CheckoutConfirm(svc checkoutsvc.Service, fmtr *money.Formatter, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sale, err := svc.Confirm(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, confirmResponse{
			SaleID:      sale.ID,
			TotalCents:  sale.TotalCents,
			Total:       fmtr.FormatAmount(sale.TotalCents),
			ChangeCents: sale.ChangeCents,
			Change:      fmtr.FormatAmount(sale.ChangeCents),
			RecordedAt:  sale.RecordedAt.Format(money.DateLayout + " " + money.TimeLayout),
		})
	}
}
