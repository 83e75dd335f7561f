package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/voltiq/evsim/sim"
)

// NewRouter wires the API routes and wraps them in CORS handling for origins.
// The Prometheus collectors of reg are served on /metrics.
func NewRouter(h *Handler, reg prometheus.Gatherer, origins []string) http.Handler {
	router := gin.New()
	router.Use(Recovery())
	router.Use(RequestLogger())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/defaults", h.Defaults)
		v1.GET("/tables", h.Tables)
		v1.GET("/presets", h.Presets)
		v1.POST("/validate", h.Validate)
		v1.POST("/simulate", h.Simulate)
	}

	router.NoRoute(func(c *gin.Context) {
		abortWithError(c, http.StatusNotFound, "NOT_FOUND", "Not found", nil)
	})

	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	}).Handler(router)
}

// NewServer builds the HTTP server for cfg with its own Prometheus registry.
// A missing presets file is logged and leaves the presets list empty.
func NewServer(cfg *ServerConfig) (*http.Server, error) {
	gin.SetMode(cfg.Mode)

	var presets *sim.PresetFile
	if pf, err := sim.LoadPresets(cfg.PresetsPath); err != nil {
		logrus.Warnf("presets unavailable: %v", err)
	} else {
		presets = pf
	}

	reg := prometheus.NewRegistry()
	metrics, err := NewMetrics(reg)
	if err != nil {
		return nil, err
	}
	h := NewHandler(presets, metrics, cfg.MaxConcurrentRuns)
	return &http.Server{Addr: cfg.Addr, Handler: NewRouter(h, reg, cfg.CORSOrigins)}, nil
}

// Serve runs srv until ctx is canceled, then shuts it down gracefully within
// cfg.ShutdownTimeout.
func Serve(ctx context.Context, srv *http.Server, cfg *ServerConfig) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logrus.Infof("Starting API server on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		logrus.Info("Shutting down API server")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
