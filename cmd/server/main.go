package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"gorm.io/gorm"

	"github.com/Skotchmaster/shop_api/internal/config"
	pkgdb "github.com/Skotchmaster/shop_api/internal/db"
	"github.com/Skotchmaster/shop_api/internal/httpserver"
	"github.com/Skotchmaster/shop_api/internal/logging"
	"github.com/Skotchmaster/shop_api/internal/metrics"
	authmw "github.com/Skotchmaster/shop_api/internal/middleware/auth"
	"github.com/Skotchmaster/shop_api/internal/repo"
	"github.com/Skotchmaster/shop_api/internal/search"
	"github.com/Skotchmaster/shop_api/internal/service"
)

func main() {
	config.LoadEnvFile(".env")
	cfg := config.MustLoad()

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := pkgdb.Open(ctx, cfg.DBDriver, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db open: %v", err)
	}
	if err := pkgdb.Migrate(db); err != nil {
		log.Fatalf("db migrate: %v", err)
	}

	m := metrics.New("shop")
	store := &repo.GormRepo{DB: db}

	catalog := &service.CatalogService{Repo: store}
	if cfg.ESURL != "" {
		esCtx, esCancel := context.WithTimeout(context.Background(), 10*time.Second)
		idx, err := search.NewClient(esCtx, search.Config{
			URL:      cfg.ESURL,
			Username: cfg.ESUser,
			Password: cfg.ESPassword,
			Index:    cfg.ESIndex,
		})
		esCancel()
		if err != nil {
			// search falls back to the database
			logger.Warn("elasticsearch unavailable", "error", err)
		} else {
			catalog.Index = idx
		}
	}

	authSvc := &service.AuthService{
		Repo:       store,
		JWTSecret:  cfg.JWTSecret,
		TokenTTL:   cfg.TokenTTL,
		BcryptCost: cfg.BcryptCost,
		Metrics:    m,
	}
	orders := &service.OrderService{Repo: store, Metrics: m}
	cart := &service.CartService{Repo: store, Orders: orders}

	e := httpserver.NewEcho(logger, cfg.CORSOrigin, m)
	httpserver.Register(e, &httpserver.Deps{
		UserHandler:    &httpserver.UserHTTP{Svc: authSvc, Cart: cart},
		CatalogHandler: &httpserver.CatalogHTTP{Svc: catalog},
		OrderHandler:   &httpserver.OrderHTTP{Svc: orders},
		CartHandler:    &httpserver.CartHTTP{Svc: cart},
		Auth:           authmw.NewBearer(authSvc),
		Metrics:        m,
		Ready:          func(ctx context.Context) error { return pkgdb.Ping(ctx, db) },
	})

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	shutdown(srv, db)
	logger.Info("shutdown complete")
}

func shutdown(srv *http.Server, db *gorm.DB) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	}
}
