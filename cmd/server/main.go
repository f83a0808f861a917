package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/undersea/storefront/internal/config"
	"github.com/undersea/storefront/internal/es"
	"github.com/undersea/storefront/internal/events"
	"github.com/undersea/storefront/internal/handlers"
	"github.com/undersea/storefront/internal/logging"
	"github.com/undersea/storefront/internal/mail"
	authmw "github.com/undersea/storefront/internal/middleware/auth"
	loggingmw "github.com/undersea/storefront/internal/middleware/logging"
	"github.com/undersea/storefront/internal/repo"
	"github.com/undersea/storefront/internal/service"
	httpserver "github.com/undersea/storefront/internal/transport/http"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := logging.New(cfg.LogLevel)
	slog.SetDefault(logger)

	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatalf("database error: %v", err)
	}

	var mailer service.Mailer
	if cfg.MailConfigured() {
		mailer = mail.NewClient(cfg.Brevo.BaseURL, cfg.Brevo.APIKey, cfg.Brevo.SenderEmail, cfg.Brevo.SenderName)
	} else {
		logger.Warn("mail provider not configured, reset emails will be skipped")
	}

	var search service.Deindexer
	if cfg.ESURL != "" {
		esClient, err := es.NewClient(cfg)
		if err != nil {
			log.Fatalf("elasticsearch error: %v", err)
		}
		search = &es.Index{Client: esClient, Name: cfg.ESIndex}
	}

	producer := events.NewProducer(cfg.KafkaBrokers)
	defer producer.Close()

	users := repo.NewUserRepository(db)
	resetTTL := time.Duration(cfg.ResetTokenExpiresMinutes) * time.Minute

	deps := &httpserver.Deps{
		Gate: authmw.NewGate(users, []byte(cfg.JWTSecret)),
		Order: &handlers.OrderHandler{
			Svc:      service.NewOrderService(db),
			Producer: producer,
		},
		Reset: &handlers.ResetHandler{
			Svc: service.NewPasswordResetService(db, mailer, cfg.FrontendURL, resetTTL),
		},
		Product: &handlers.ProductHandler{
			Svc:      service.NewProductService(db, search),
			Producer: producer,
		},
		FrontendURL: cfg.FrontendURL,
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(loggingmw.RequestLogger(logger))
	httpserver.Register(e, deps)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}
