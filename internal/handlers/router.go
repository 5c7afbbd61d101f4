package handlers

import (
	"log/slog"
	"net/http"

	"phonepe/internal/config"
	"phonepe/internal/metrics"
	"phonepe/internal/websocket"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Handler struct {
	cfg     config.Config
	service StatementService
	otp     OTPCache
	hub     *websocket.Hub
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func New(cfg config.Config, service StatementService, otp OTPCache, hub *websocket.Hub, logger *slog.Logger, m *metrics.Metrics) *Handler {
	return &Handler{
		cfg:     cfg,
		service: service,
		otp:     otp,
		hub:     hub,
		logger:  logger.With("component", "http"),
		metrics: m,
	}
}

func (h *Handler) Routes() http.Handler {
	router := chi.NewRouter()
	router.Use(chimiddleware.Logger)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{h.cfg.AllowedOrigins},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	router.Route("/api", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Get("/transactions/{mobile}", h.GetTransactions)
		r.Post("/otp/generate", h.GenerateOTP)
		r.Post("/otp/verify", h.VerifyOTP)
	})
	router.Get("/ws/balances", h.WSBalances)
	router.Handle("/metrics", promhttp.Handler())
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	return router
}
