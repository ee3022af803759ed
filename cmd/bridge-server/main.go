package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"fitscroll/internal/bridge"
	"fitscroll/internal/manifest"
	"fitscroll/internal/scraper"
	"fitscroll/pkg/utils"
)

func main() {
	cfg, err := utils.LoadBridgeConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	store, err := manifest.Open(cfg.DataDir)
	if err != nil {
		log.Fatalf("open manifest store: %v", err)
	}
	defer store.Close()

	provider, err := scraper.NewProvider(cfg)
	if err != nil {
		log.Fatalf("configure search provider: %v", err)
	}
	acquirer := scraper.NewAcquirer(provider, store.ImagesDir(), cfg.HTTPTimeout())

	router := gin.Default()

	// Optional: avoid “trusted all proxies” warning
	_ = router.SetTrustedProxies([]string{"127.0.0.1"})

	router.Use(bridge.CORS())

	handler := bridge.NewHandler(store, acquirer, cfg.Addr, !cfg.SkipDownload)
	handler.RegisterRoutes(router)

	httpSrv := &http.Server{
		Addr:    cfg.Addr,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[bridge] listening on %s (source %s, manifest %s)", cfg.Addr, provider.Name(), store.Path())
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Printf("shutdown signal received: %s", sig)
	case err := <-errCh:
		log.Printf("server error: %v", err)
	}

	log.Println("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Printf("http shutdown error: %v", err)
	}
	log.Println("server stopped")
}
