package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/hadrian75/campusfound/internal/api"
	"github.com/hadrian75/campusfound/internal/app"
	"github.com/hadrian75/campusfound/internal/app/maintenance"
	"github.com/hadrian75/campusfound/internal/auth"
	"github.com/hadrian75/campusfound/internal/database"
	"github.com/hadrian75/campusfound/internal/services"
	"github.com/hadrian75/campusfound/internal/storage"
	"github.com/hadrian75/campusfound/pkg/logger"
	"github.com/hadrian75/campusfound/pkg/mail"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	cfg, err := app.LoadConfig(*configPath)
	if err != nil {
		_ = logger.Init("info")
		logger.Logger().Fatal("load config", zap.Error(err))
	}

	if err := logger.Init(cfg.LogLevel); err != nil {
		logger.Logger().Fatal("init logger", zap.Error(err))
	}
	defer func() { _ = logger.Sync() }()
	log := logger.WithModule("server")

	db, err := database.Open(cfg.Database)
	if err != nil {
		log.Fatal("open database", zap.Error(err))
	}
	if err := database.AutoMigrateAndSeed(db); err != nil {
		log.Fatal("migrate database", zap.Error(err))
	}

	mailer, err := mail.NewSMTPMailer(cfg.Email)
	if err != nil {
		log.Fatal("configure mailer", zap.Error(err))
	}
	if !cfg.Email.Enabled {
		mailer = nil
		log.Warn("smtp disabled, activation and reset emails will not be sent")
	}

	uploader, err := storage.NewImageKitClient(cfg.Storage)
	if err != nil {
		log.Fatal("configure storage", zap.Error(err))
	}
	if !cfg.Storage.Enabled {
		uploader = nil
		log.Warn("image hosting disabled, upload endpoint will not be registered")
	}

	jwtService, err := auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.Issuer,
		auth.WithTokenTTL(cfg.Auth.TokenTTL))
	if err != nil {
		log.Fatal("configure jwt", zap.Error(err))
	}

	tokens, err := services.NewTokenService(db, mailer,
		services.WithVerificationTTL(cfg.Tokens.VerificationTTL),
		services.WithResetTTL(cfg.Tokens.ResetTTL))
	if err != nil {
		log.Fatal("token service", zap.Error(err))
	}
	accounts, err := services.NewAccountService(db, tokens, mailer)
	if err != nil {
		log.Fatal("account service", zap.Error(err))
	}
	items, err := services.NewItemService(db)
	if err != nil {
		log.Fatal("item service", zap.Error(err))
	}
	notifications, err := services.NewNotificationService(db)
	if err != nil {
		log.Fatal("notification service", zap.Error(err))
	}
	claims, err := services.NewClaimService(db, notifications)
	if err != nil {
		log.Fatal("claim service", zap.Error(err))
	}

	router, err := api.NewRouter(api.Dependencies{
		DB:            db,
		JWT:           jwtService,
		Accounts:      accounts,
		Tokens:        tokens,
		Items:         items,
		Claims:        claims,
		Notifications: notifications,
		Uploader:      uploader,
		CORSOrigin:    cfg.Server.CORSOrigin,
	})
	if err != nil {
		log.Fatal("build router", zap.Error(err))
	}

	var cleaner *maintenance.Cleaner
	if cfg.Maintenance.Enabled {
		cleaner, err = maintenance.NewCleaner(tokens, cfg.Maintenance.Schedule)
		if err != nil {
			log.Fatal("configure cleaner", zap.Error(err))
		}
		if err := cleaner.Start(); err != nil {
			log.Fatal("start cleaner", zap.Error(err))
		}
	}

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("serve", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	if cleaner != nil {
		cleaner.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown", zap.Error(err))
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
