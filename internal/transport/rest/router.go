package rest

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/frahmantamala/partner-transaction/internal/transaction"
	"github.com/frahmantamala/partner-transaction/internal/transport/middleware"
	"github.com/frahmantamala/partner-transaction/internal/transport/swagger"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

const (
	SubmitTransactionPath = "/api/submittrxmessage"
	OpenAPIPath           = "/openapi.yml"
)

type RouterOptions struct {
	// OpenAPIFile is served at OpenAPIPath; empty disables both the
	// document route and the Swagger UI.
	OpenAPIFile string
	// Clock feeds the request-time stamp; nil means time.Now.
	Clock func() time.Time
}

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, registry RegistrySizer, txHandler *transaction.Handler, logger *slog.Logger, opts RouterOptions) {
	healthHandler := NewHealthHandler(db, registry)

	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))

	if opts.OpenAPIFile != "" {
		specFile := opts.OpenAPIFile
		router.Get(OpenAPIPath, func(w http.ResponseWriter, r *http.Request) {
			http.ServeFile(w, r, specFile)
		})
		router.Handle("/swagger/*", swagger.Handler(OpenAPIPath))
	}

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequestTime(opts.Clock))
		if txHandler != nil {
			r.Post(SubmitTransactionPath, txHandler.SubmitTransaction)
		}
	})

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)
	})
}
