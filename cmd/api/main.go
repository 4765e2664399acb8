package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"userdesk.org/internal/account"
	"userdesk.org/internal/auth"
	"userdesk.org/internal/config"
	"userdesk.org/internal/directory"
	"userdesk.org/internal/httpapi"
	"userdesk.org/internal/obs"
)

var version = "0.3.1"

func main() {
	obs.Init()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// Without a DSN the service runs on the in-memory store. Good for local
	// development; state is gone on restart.
	var (
		store directory.Store
		probe httpapi.ReadyProbe
	)
	if cfg.PGDSN != "" {
		pg, err := directory.Open(cfg.PGDSN)
		if err != nil {
			log.Fatalf("open db: %v", err)
		}
		defer pg.Close()
		store = pg
		probe = httpapi.ReadyProbe{DB: pg.DB()}
	} else {
		log.Print("USERDESK_PG_DSN not set, using in-memory store")
		store = directory.NewMemory()
	}

	tokens, err := auth.NewTokenService(cfg.AuthSecret, auth.WithTTL(cfg.TokenTTL))
	if err != nil {
		log.Fatalf("token service: %v", err)
	}
	accounts, err := account.NewService(store, tokens)
	if err != nil {
		log.Fatalf("account service: %v", err)
	}

	api := httpapi.New(probe, version, accounts, tokens)
	api.ConfigureRateLimit(cfg.RateBurst, cfg.RatePerSec)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.Handler(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Printf("Starting userdesk-api %s on %s", version, srv.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	log.Println("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = srv.Shutdown(ctx)
	log.Println("Stopped")
}
