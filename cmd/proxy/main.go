package main

// Proxy de shell con caché: sirve el frontend con estrategia network-first y
// caída a caché ante cortes del upstream (rol del service worker original).

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mattygrunge/planproduccion/internal/config"
	"github.com/mattygrunge/planproduccion/internal/infra"
	"github.com/mattygrunge/planproduccion/internal/proxy"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// shellAssets son los archivos del shell pre-cacheados en el install.
var shellAssets = []string{
	"/",
	"/index.html",
	"/static/css/styles.css",
	"/static/js/app.js",
	"/static/js/api.js",
	"/static/js/timeline.js",
	"/manifest.json",
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	var store proxy.CacheStore
	if rdb, err := infra.NewRedis(cfg.RedisURL); err == nil {
		store = proxy.NewRedisCacheStore(rdb)
		log.Info().Msg("proxy: usando caché Redis")
	} else {
		store = proxy.NewMemCacheStore()
		log.Warn().Err(err).Msg("proxy: Redis no disponible, caché en memoria")
	}

	shell := proxy.NewShell(cfg.ProxyUpstream, cfg.ProxyAPIPrefix, store, shellAssets)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Install + activate: shell pre-cacheado y cachés viejos purgados.
	// Un install fallido no aborta el arranque: el proxy sigue en
	// network-first y cachea a demanda.
	if err := shell.Install(ctx); err != nil {
		log.Warn().Err(err).Msg("proxy: install incompleto")
	}
	if err := shell.Activate(ctx); err != nil {
		log.Warn().Err(err).Msg("proxy: activate falló")
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ProxyPort),
		Handler:      shell,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Msgf("shell proxy listening on :%d → %s", cfg.ProxyPort, cfg.ProxyUpstream)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("proxy error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down proxy…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
}
