package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/avcbdigital/avcb-api/internal/application"
	appanalysis "github.com/avcbdigital/avcb-api/internal/application/analysis"
	"github.com/avcbdigital/avcb-api/internal/config"
	"github.com/avcbdigital/avcb-api/internal/domain/analysis"
	"github.com/avcbdigital/avcb-api/internal/infra/certdoc"
	localdb "github.com/avcbdigital/avcb-api/internal/infra/db/local"
	postgresdb "github.com/avcbdigital/avcb-api/internal/infra/db/postgres"
	"github.com/avcbdigital/avcb-api/internal/infra/httpserver"
	"github.com/avcbdigital/avcb-api/internal/infra/registry/brasilapi"
	minioStore "github.com/avcbdigital/avcb-api/internal/infra/storage"
	"github.com/avcbdigital/avcb-api/internal/middleware"
)

func main() {
	// path config.yaml
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	ctx := context.Background()

	// backend de persistência: uma dependência injetada, escolhida aqui e
	// nunca mais por requisição
	var repo analysis.Repository
	checkers := map[string]middleware.HealthChecker{}
	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		db, err := postgresdb.Connect(ctx, cfg.PostgresDSN())
		if err != nil {
			log.Fatalf("postgres connect error: %v", err)
		}
		defer db.Close()
		repo = postgresdb.NewAnalysisRepository(db)
		checkers["database"] = &middleware.DatabaseHealthChecker{DB: db}
	case config.DriverLocal:
		store, err := localdb.New(cfg.Storage.LocalPath)
		if err != nil {
			log.Fatalf("local store error: %v", err)
		}
		repo = store
		checkers["store"] = &middleware.PingerHealthChecker{Pinger: store}
	}

	// consulta de CNPJ no cadastro público
	registry := brasilapi.New(cfg.Registry.BaseURL,
		time.Duration(cfg.Registry.TimeoutSeconds)*time.Second)

	svc := &appanalysis.Service{
		Repo:     repo,
		Registry: registry,
		Clock:    application.SystemClock{},
	}

	// upload de documento de certificado, se o MinIO estiver configurado
	if cfg.MinioEnabled() {
		store, err := minioStore.New(ctx,
			cfg.Minio.Endpoint,
			cfg.Minio.Region,
			cfg.Minio.BucketName,
			cfg.Minio.AccessKey,
			cfg.Minio.SecretKey,
			cfg.Minio.UseSSL,
		)
		if err != nil {
			log.Fatalf("minio init error: %v", err)
		}
		svc.Documents = store
		svc.Renderer = certdoc.New()
	}

	sessions := middleware.NewSessions()

	handler := httpserver.NewRouter(svc, sessions, httpserver.Options{
		AllowedOrigin:  cfg.CORS.Origin,
		HealthCheckers: checkers,
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// run server
	go func() {
		log.Printf("server listening on %s (storage=%s)", addr, cfg.Storage.Driver)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Println("shutting down server...")

	ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
