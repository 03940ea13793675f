package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"smart-parking/internal/config"
	"smart-parking/internal/logging"
	"smart-parking/internal/parking"
)

type Server struct {
	httpServer *http.Server
	handler    *Handler
	registry   *prometheus.Registry
}

func NewServer(cfg *config.Config, lot parking.Lot) *Server {
	handler := NewHandler(lot, cfg.OTelConfig.ServiceName, cfg.StoreDriver)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		NewSlotCollector(lot),
	)
	httpMetrics := NewHTTPMetrics(registry)

	r := chi.NewRouter()

	r.Use(RecoveryMiddleware)
	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware)
	r.Use(httpMetrics.Middleware)
	r.Use(OTelHTTP(cfg.OTelConfig.ServiceName))
	r.Use(CORSMiddleware)

	r.NotFound(handler.NotFound)
	r.MethodNotAllowed(handler.MethodNotAllowed)

	r.Get("/", handler.Info)
	r.Get("/health", handler.HealthCheck)
	r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}))

	r.Route("/api/slots", func(r chi.Router) {
		r.Post("/", handler.CreateSlot)
		r.Get("/", handler.ListSlots)
		r.Get("/available", handler.ListAvailable)
		r.Post("/park", handler.ParkVehicle)
		r.Post("/remove", handler.RemoveVehicle)
		r.Post("/sample/add", handler.AddSampleSlots)
		r.Get("/{slotNo}", handler.GetSlot)
	})

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		handler:    handler,
		registry:   registry,
	}
}

// Handler exposes the routed handler without a listener.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) Start() error {
	logging.Info(context.Background(), "starting HTTP server", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	logging.Info(ctx, "shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) GetAddress() string {
	return fmt.Sprintf("http://localhost%s", s.httpServer.Addr)
}
