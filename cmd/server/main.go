package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/billsplittr/internal/auth"
	"github.com/mmynk/billsplittr/internal/config"
	"github.com/mmynk/billsplittr/internal/metrics"
	"github.com/mmynk/billsplittr/internal/receipt"
	"github.com/mmynk/billsplittr/internal/service"
	"github.com/mmynk/billsplittr/internal/storage/memory"
	"github.com/mmynk/billsplittr/pkg/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}
	logging.Setup(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()

	// Initialize session storage
	store := memory.New(cfg.SessionTTL)
	store.OnEvict = func(n int) { m.SessionsActive.Sub(float64(n)) }
	store.StartJanitor(time.Minute)
	defer store.Close()
	slog.Info("Session store initialized", "ttl", cfg.SessionTTL)

	if cfg.SessionSecret == "" {
		slog.Warn("SESSION_SECRET not set, sessions will not survive a restart")
	}
	tokens := auth.NewSessionTokens(cfg.SessionSecret, cfg.SessionTTL)

	pipeline, closeCache := newPipeline(ctx, cfg, m)
	defer closeCache()

	svc := service.NewBillService(store, tokens,
		service.WithReceiptProcessor(pipeline),
		service.WithMetrics(m),
		service.WithDefaultLocale(cfg.DefaultLocale),
	)

	staticDir, err := filepath.Abs(cfg.StaticPath)
	if err != nil {
		slog.Error("Failed to resolve static path", "error", err)
		os.Exit(1)
	}
	slog.Info("Serving static files", "path", staticDir)

	handler := newRouter(routerConfig{
		service:       svc,
		tokens:        tokens,
		metrics:       m,
		staticDir:     staticDir,
		maxImageBytes: cfg.MaxImageBytes,
	})

	// Wrap with h2c for HTTP/2 without TLS (required for Connect)
	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           h2c.NewHandler(handler, &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("Shutdown failed", "error", err)
		}
	}()

	slog.Info("Connect server starting", "address", server.Addr, "url", fmt.Sprintf("http://localhost%s", server.Addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Server stopped")
}

// newPipeline wires the receipt pipeline. The parse cache uses Redis when REDIS_URL
// is set and reachable, and memory otherwise.
func newPipeline(ctx context.Context, cfg *config.Config, m *metrics.Metrics) (*receipt.Pipeline, func()) {
	httpClient := &http.Client{Timeout: cfg.PipelineTimeout}
	ocr := receipt.NewOCRSpace(cfg.OCRSpaceKey, cfg.OCRSpaceURL, httpClient)
	parser := receipt.NewWorkersAI(cfg.WorkersAIAccountID, cfg.WorkersAIAPIToken, cfg.WorkersAIModel, httpClient)

	if cfg.OCRSpaceKey == "" || cfg.WorkersAIAccountID == "" || cfg.WorkersAIAPIToken == "" {
		slog.Warn("Receipt services not configured, imports will fail and users will enter bills manually")
	}

	var cache receipt.Cache = receipt.NewMemoryCache(cfg.ParseCacheTTL)
	closeCache := func() {}
	if cfg.RedisURL != "" {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		rc, err := receipt.NewRedisCache(pingCtx, cfg.RedisURL, cfg.ParseCacheTTL)
		cancel()
		if err != nil {
			slog.Warn("Redis not available, using in-memory parse cache", "error", err)
		} else {
			slog.Info("Redis parse cache connected")
			cache = rc
			closeCache = func() { rc.Close() }
		}
	}

	p := receipt.NewPipeline(ocr, parser, cache, m, receipt.Options{
		Timeout:             cfg.PipelineTimeout,
		Retries:             cfg.PipelineRetries,
		ConfidenceThreshold: cfg.ConfidenceThreshold,
		MaxImageBytes:       cfg.MaxImageBytes,
	})
	return p, closeCache
}
