package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tillpoint/tillpoint-backend/api/controllers"
	"github.com/tillpoint/tillpoint-backend/api/middleware"
	"github.com/tillpoint/tillpoint-backend/internal/cart"
	catalogsvc "github.com/tillpoint/tillpoint-backend/internal/catalog"
	checkoutsvc "github.com/tillpoint/tillpoint-backend/internal/checkout"
	ledgersvc "github.com/tillpoint/tillpoint-backend/internal/ledger"
	"github.com/tillpoint/tillpoint-backend/pkg/config"
	"github.com/tillpoint/tillpoint-backend/pkg/db"
	"github.com/tillpoint/tillpoint-backend/pkg/logger"
	"github.com/tillpoint/tillpoint-backend/pkg/money"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	fmtr *money.Formatter,
	catalogService catalogsvc.Service,
	cartContainer *cart.Container,
	checkoutService checkoutsvc.Service,
	ledgerService ledgersvc.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/catalog", func(r chi.Router) {
			r.Get("/items", controllers.ListItems(catalogService, fmtr, logg))
			r.Post("/items", controllers.CreateItem(catalogService, fmtr, logg))
			r.Patch("/items/{itemId}", controllers.UpdateItem(catalogService, fmtr, logg))
			r.Delete("/items/{itemId}", controllers.DeleteItem(catalogService, logg))
			r.Get("/categories", controllers.ListCategories(catalogService, logg))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.GetCart(cartContainer, fmtr))
			r.Delete("/", controllers.ClearCart(cartContainer, fmtr))
			r.Post("/items", controllers.AddCartItem(cartContainer, catalogService, fmtr, logg))
			r.Patch("/items/{itemId}", controllers.SetCartQuantity(cartContainer, fmtr, logg))
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Get("/", controllers.CheckoutState(checkoutService, fmtr))
			r.Post("/tender", controllers.CheckoutTender(checkoutService, fmtr, logg))
			r.Post("/keys", controllers.CheckoutKey(checkoutService, logg))
			r.Post("/keys/confirm", controllers.CheckoutKeyConfirm(checkoutService, fmtr, logg))
			r.Post("/confirm", controllers.CheckoutConfirm(checkoutService, fmtr, logg))
			r.Post("/reset", controllers.CheckoutReset(checkoutService, fmtr))
		})

		r.Route("/sales", func(r chi.Router) {
			r.Get("/", controllers.ListSales(ledgerService, fmtr, logg))
			r.Get("/export", controllers.ExportSales(ledgerService, logg))
			r.Delete("/{saleId}", controllers.DeleteSale(ledgerService, logg))
			r.Delete("/{saleId}/line-items/{lineId}", controllers.DeleteSaleLineItem(ledgerService, fmtr, logg))
		})
	})

	return r
}
