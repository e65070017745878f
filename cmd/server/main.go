// Command server wires the x402 payment interceptor, the Hive vendor
// adapter, and the service façade behind a chi router.
package main

import (
	"encoding/json"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lattice-works/x402gateway/config"
	"github.com/lattice-works/x402gateway/facilitator"
	"github.com/lattice-works/x402gateway/middleware"
	"github.com/lattice-works/x402gateway/middleware/chix402"
	"github.com/lattice-works/x402gateway/pricing"
	"github.com/lattice-works/x402gateway/service"
	"github.com/lattice-works/x402gateway/vendor"
	"github.com/lattice-works/x402gateway/vendor/hive"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := slog.Default()
	registry := pricing.NewRegistry()
	resolver := pricing.NewResolver(registry, cfg.AssetDecimals)

	var interceptor *middleware.Interceptor
	if cfg.Enabled {
		client := facilitator.NewClient(cfg.FacilitatorBaseURL)
		interceptor = middleware.New(middleware.Config{
			Facilitator:       client,
			Resolver:          resolver,
			Scheme:            cfg.Scheme,
			Network:           cfg.Network,
			Asset:             cfg.Asset,
			DefaultPayTo:      cfg.DefaultPayTo,
			MimeType:          cfg.MimeType,
			MaxTimeoutSeconds: cfg.MaxTimeoutSeconds,
			Logger:            logger,
		})
	}

	hiveClient := hive.NewClient(cfg.HiveBaseURL, cfg.HiveAccount, cfg.HiveTokenHeader, cfg.HiveToken)
	svc := service.New(hiveClient)

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)

	r.Handle("/metrics", promhttp.Handler())

	mountServiceRoutes(r, svc, interceptor)

	srv := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("starting server", "addr", cfg.ListenAddr, "x402_enabled", cfg.Enabled)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server failed: %v", err)
	}
}

func mountServiceRoutes(r chi.Router, svc *service.Service, interceptor *middleware.Interceptor) {
	createHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var cmd service.CreateServiceCommand
		if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}

		dto, err := svc.Create(r.Context(), cmd)
		if err != nil {
			status := http.StatusBadRequest
			var verr *vendor.VendorError
			if errors.As(err, &verr) {
				status = http.StatusBadGateway
			}
			http.Error(w, err.Error(), status)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{"data": dto})
	})

	statusHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		dto, err := svc.Status(r.Context(), id)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadGateway)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(dto)
	})

	if interceptor != nil {
		createMeta := middleware.PaymentMetadata{Price: "1.00", Description: "deploy a new service"}
		r.With(chix402.Middleware(interceptor, createMeta)).Post("/apis/x402/v1/services", createHandler.ServeHTTP)
	} else {
		r.Post("/apis/x402/v1/services", createHandler.ServeHTTP)
	}

	r.Get("/apis/x402/v1/services/{id}", statusHandler.ServeHTTP)
}
