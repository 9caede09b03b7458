package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ndewijer/Fund-Trading-Backend/internal/api/handlers"
	custommiddleware "github.com/ndewijer/Fund-Trading-Backend/internal/api/middleware"
	"github.com/ndewijer/Fund-Trading-Backend/internal/config"
	"github.com/ndewijer/Fund-Trading-Backend/internal/service"
)

// Services bundles the service dependencies the router hands to handlers.
type Services struct {
	System     *service.SystemService
	Fund       *service.FundService
	Portfolio  *service.PortfolioService
	Calendar   *service.CalendarService
	Trade      *service.TradeService
	Generation *service.GenerationService
	Import     *service.ImportService
}

// NewRouter creates and configures the HTTP router
func NewRouter(svc Services, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(svc.System)
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
			r.Get("/feed-config", systemHandler.FeedConfig)
			r.With(custommiddleware.APIKeyMiddleware).Put("/feed-config", systemHandler.UpdateFeedConfig)
		})

		fundHandler := handlers.NewFundHandler(svc.Fund, svc.Import)
		r.Route("/funds", func(r chi.Router) {
			r.Get("/", fundHandler.Funds)
			r.Get("/stats", fundHandler.FundStats)
			r.With(custommiddleware.APIKeyMiddleware).Post("/import", fundHandler.ImportFunds)
			r.Route("/{isin}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateIsinMiddleware)
				r.Get("/", fundHandler.Fund)
			})
		})

		portfolioHandler := handlers.NewPortfolioHandler(svc.Portfolio, svc.Import)
		r.Route("/portfolios", func(r chi.Router) {
			r.Get("/", portfolioHandler.Portfolios)
			r.With(custommiddleware.APIKeyMiddleware).Post("/", portfolioHandler.CreatePortfolio)
			r.Route("/{accountNumber}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateAccountNumberMiddleware)
				r.Get("/", portfolioHandler.Portfolio)
				r.Get("/positions", portfolioHandler.Positions)
			})
		})
		r.With(custommiddleware.APIKeyMiddleware).Post("/positions/import", portfolioHandler.ImportPositions)

		calendarHandler := handlers.NewCalendarHandler(svc.Calendar, svc.Import)
		r.Route("/calendars", func(r chi.Router) {
			r.Get("/", calendarHandler.Calendars)
			r.With(custommiddleware.APIKeyMiddleware).Post("/import", calendarHandler.ImportCalendars)
		})

		r.With(custommiddleware.APIKeyMiddleware).Post("/index-data/import", fundHandler.ImportIndexData)

		tradeHandler := handlers.NewTradeHandler(svc.Generation, svc.Trade)
		r.Route("/trades", func(r chi.Router) {
			r.Get("/", tradeHandler.Trades)
			r.With(custommiddleware.APIKeyMiddleware).Post("/generate", tradeHandler.Generate)
			r.With(custommiddleware.APIKeyMiddleware).Post("/generate-all", tradeHandler.GenerateAll)
			r.Route("/{accountNumber}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateAccountNumberMiddleware)
				r.Get("/", tradeHandler.TradesByAccount)
			})
		})
	})

	return r
}
