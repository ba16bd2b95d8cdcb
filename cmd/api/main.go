package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"carservice/internal/httpapi"
	"carservice/internal/user"
	"carservice/pkg/config"
	"carservice/pkg/db"
)

func main() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, err := db.Open(ctx, cfg)
	if err != nil {
		log.Fatalf("db open: %v", err)
	}
	defer conn.Close()

	if cfg.MigrationsPath != "" {
		if err := db.Migrate(cfg.MigrationsPath, cfg); err != nil {
			log.Fatalf("migrate: %v", err)
		}
	}

	if cfg.Auth.BootstrapAdminEmail != "" && cfg.Auth.BootstrapAdminPassword != "" {
		created, err := user.EnsureAdmin(ctx, conn, cfg.Auth.BootstrapAdminEmail, cfg.Auth.BootstrapAdminPassword)
		if err != nil {
			log.Fatalf("bootstrap admin: %v", err)
		}
		if created {
			log.Printf("bootstrap admin %s created", cfg.Auth.BootstrapAdminEmail)
		}
	}

	router := httpapi.NewRouter(httpapi.Dependencies{
		Cfg: cfg,
		DB:  conn,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("http listening on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http serve: %v", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = srv.Shutdown(shutdownCtx)
}
