package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/Skotchmaster/lms/internal/config"
	"github.com/Skotchmaster/lms/internal/db"
	"github.com/Skotchmaster/lms/internal/events"
	"github.com/Skotchmaster/lms/internal/httpserver"
	"github.com/Skotchmaster/lms/internal/logging"
	"github.com/Skotchmaster/lms/internal/mail"
	"github.com/Skotchmaster/lms/internal/repo"
	"github.com/Skotchmaster/lms/internal/search"
	"github.com/Skotchmaster/lms/internal/service"
	"github.com/Skotchmaster/lms/internal/upload"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: could not load .env: %v", err)
	}

	cfg := config.Load()
	cfg.Validate()

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	gdb, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		cancel()
		log.Fatalf("db open: %v", err)
	}
	if err := db.Migrate(ctx, gdb); err != nil {
		cancel()
		log.Fatalf("db migrate: %v", err)
	}
	cancel()

	store := repo.New(gdb)

	var publisher events.Publisher = events.Nop{}
	if len(cfg.KafkaBrokers) > 0 {
		p, err := events.NewProducer(cfg.KafkaBrokers)
		if err != nil {
			log.Fatalf("kafka producer: %v", err)
		}
		publisher = p
	} else {
		logger.Warn("kafka_disabled", "reason", "KAFKA_BROKERS is empty")
	}

	var index search.Index
	if cfg.ESURL != "" {
		esCtx, esCancel := context.WithTimeout(context.Background(), 5*time.Second)
		es, err := search.NewClient(esCtx, cfg.ESURL, cfg.ESUser, cfg.ESPassword)
		esCancel()
		if err != nil {
			logger.Warn("search_disabled", "reason", "elasticsearch unreachable", "error", err)
		} else {
			index = search.NewESIndex(es, cfg.ESIndex)
		}
	}

	var mailer mail.Mailer = mail.LogMailer{}
	if cfg.SendgridAPIKey != "" {
		mailer = mail.NewSendgrid(cfg.SendgridAPIKey, cfg.ServiceName, cfg.MailFrom)
	}

	var uploader upload.Uploader = upload.Disabled{}
	if cfg.Cloudinary.Enabled() {
		uploader = upload.NewCloudinary(cfg.Cloudinary.CloudName, cfg.Cloudinary.APIKey, cfg.Cloudinary.APISecret)
	} else {
		logger.Warn("video_upload_disabled", "reason", "cloudinary credentials missing")
	}

	authSvc := &service.AuthService{
		Repo:          store,
		AccessSecret:  cfg.JWTAccessSecret,
		RefreshSecret: cfg.JWTRefreshSecret,
		Mailer:        mailer,
		Events:        publisher,
	}
	progressSvc := &service.ProgressService{Repo: store, Events: publisher}
	courseSvc := &service.CourseService{Repo: store, Index: index, Events: publisher}
	moduleSvc := &service.ModuleService{Repo: store, Uploader: uploader, Events: publisher}

	e := httpserver.New(logger, cfg.RateLimitRPS)
	httpserver.Register(e, &httpserver.Deps{
		AuthHandler:     &httpserver.AuthHTTP{Svc: authSvc},
		CourseHandler:   &httpserver.CourseHTTP{Svc: courseSvc, Progress: progressSvc},
		ModuleHandler:   &httpserver.ModuleHTTP{Svc: moduleSvc},
		ProgressHandler: &httpserver.ProgressHTTP{Svc: progressSvc},
		AccessSecret:    cfg.JWTAccessSecret,
		Ready:           store.Ping,
	})

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      5 * time.Minute,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		log.Printf("%s listening on %s", cfg.ServiceName, srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = srv.Shutdown(shutdownCtx)

	if err := publisher.Close(); err != nil {
		logger.Warn("kafka_close_failed", "error", err)
	}
	if err := db.Close(gdb); err != nil {
		logger.Warn("db_close_failed", "error", err)
	}

	log.Printf("%s stopped", cfg.ServiceName)
}
