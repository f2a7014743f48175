// @title Código Certo Coders Sign-up API
// @version 1.0
// @description Volunteer and mentor sign-up backend for the Código Certo Coders community

// @contact.name Código Certo Coders
// @contact.url https://github.com/codigocerto

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the admin token.

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/cors"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	_ "CODIGOCERTO_BACK-END/docs" // This is required for swagger
	"CODIGOCERTO_BACK-END/internal/config"
	"CODIGOCERTO_BACK-END/internal/emails"
	"CODIGOCERTO_BACK-END/internal/handlers"
	"CODIGOCERTO_BACK-END/internal/logger"
	"CODIGOCERTO_BACK-END/internal/metrics"
	"CODIGOCERTO_BACK-END/internal/middleware"
	"CODIGOCERTO_BACK-END/internal/notify"
	"CODIGOCERTO_BACK-END/internal/repository"
	"CODIGOCERTO_BACK-END/internal/routes"
	"CODIGOCERTO_BACK-END/internal/utils"
)

func main() {
	hashPassword := flag.String("hash-password", "", "print the bcrypt hash of the given admin password and exit")
	flag.Parse()

	if *hashPassword != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(*hashPassword), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("hash password: %v", err)
		}
		fmt.Println(string(hash))
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	zlog, err := logger.New(cfg.App.Env)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer zlog.Sync()

	if err := run(cfg, zlog); err != nil {
		zlog.Fatal("server stopped with error", zap.Error(err))
	}
}

func run(cfg *config.Config, zlog *zap.Logger) error {
	ctx := context.Background()

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	if cfg.Database.AutoMigrate {
		if err := store.Migrate(ctx); err != nil {
			return err
		}
		zlog.Info("database schema applied", zap.String("driver", cfg.Database.Driver))
	}

	mailer, err := utils.NewMailer(ctx, &cfg.Email)
	if err != nil {
		return err
	}
	if !cfg.IsEmailConfigured() {
		zlog.Warn("email provider not fully configured; confirmation emails will fail",
			zap.String("provider", cfg.Email.Provider))
	}

	renderer, err := emails.NewRenderer(cfg.App.PublicBaseURL, func(email string) (string, error) {
		return middleware.GenerateNewsletterToken(email, &cfg.JWT)
	})
	if err != nil {
		return fmt.Errorf("load email templates: %w", err)
	}

	notifier, err := notify.New(cfg, mailer)
	if err != nil {
		return err
	}
	if c, ok := notifier.(io.Closer); ok {
		defer c.Close()
	}

	m := metrics.New()
	reg, err := metrics.NewRegistry(m)
	if err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}

	// --- HTTP Handlers ---
	mux := routes.SetupRoutes(routes.Handlers{
		Health:     handlers.NewHealthHandler(store),
		Signup:     handlers.NewSignupHandler(store, renderer, mailer, notifier, m, zlog),
		Newsletter: handlers.NewNewsletterHandler(store, &cfg.JWT, m, zlog),
		Admin:      handlers.NewAdminHandler(store, cfg.Admin, &cfg.JWT, zlog),
		Metrics:    metrics.Handler(reg),
		JWT:        &cfg.JWT,
	})

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           c.Handler(middleware.RequestLogger(zlog)(mux)),
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	// --- HTTP Server + Graceful Shutdown ---
	serveErr := make(chan error, 1)
	go func() {
		zlog.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serveErr:
		return fmt.Errorf("listen: %w", err)
	case sig := <-quit:
		zlog.Info("shutting down server", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	zlog.Info("server stopped")
	return nil
}

// openStore connects to the database selected by DB_DRIVER
func openStore(ctx context.Context, cfg *config.Config) (repository.Store, error) {
	switch cfg.Database.Driver {
	case config.DriverSQLite:
		store, err := repository.OpenSQLite(cfg.Database.SQLitePath)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		pool, err := repository.OpenPostgres(ctx, cfg.GetDSN(), cfg.Database)
		if err != nil {
			return nil, err
		}
		return repository.NewPostgresStore(pool), nil
	}
}
