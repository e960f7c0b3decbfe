package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	applicanthandler "paynroll/internal/applicant/handler"
	applicantmetrics "paynroll/internal/applicant/metrics"
	applicantservice "paynroll/internal/applicant/service"
	applicantstore "paynroll/internal/applicant/store/applicant"
	"paynroll/internal/audit"
	"paynroll/internal/document/blob"
	documenthandler "paynroll/internal/document/handler"
	documentservice "paynroll/internal/document/service"
	documentstore "paynroll/internal/document/store/document"
	httpapi "paynroll/internal/http"
	notificationhandler "paynroll/internal/notification/handler"
	notificationservice "paynroll/internal/notification/service"
	"paynroll/internal/notification/store/record"
	"paynroll/internal/notification/transport"
	"paynroll/internal/platform/config"
	"paynroll/internal/platform/httpserver"
	"paynroll/internal/platform/logger"
	platformpg "paynroll/internal/platform/postgres"
	platformredis "paynroll/internal/platform/redis"
	verificationhandler "paynroll/internal/verification/handler"
	verificationservice "paynroll/internal/verification/service"
	"paynroll/internal/verification/store/challenge"
)

// main wires storage, the email transport, and the domain services, then
// runs the HTTP server until interrupted. Business logic lives in the
// internal service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel)
	ctx := context.Background()

	// Storage. Without DATABASE_URL everything runs in memory, which is
	// enough for local development.
	var db *sql.DB
	if cfg.DatabaseURL != "" {
		var err error
		db, err = platformpg.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Error("postgres connection failed", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := platformpg.Migrate(ctx, db); err != nil {
			log.Error("postgres migration failed", "error", err)
			os.Exit(1)
		}
	}

	var (
		applicants applicantservice.ApplicantStore
		records    notificationservice.RecordStore
		artifacts  documentservice.ArtifactStore
		auditStore audit.Store
	)
	if db != nil {
		applicants = applicantstore.NewPostgres(db)
		records = record.NewPostgres(db)
		artifacts = documentstore.NewPostgres(db)
		auditStore = audit.NewPostgresStore(db)
	} else {
		applicants = applicantstore.NewMemory()
		records = record.NewMemory()
		artifacts = documentstore.NewMemory()
		auditStore = audit.NewMemoryStore()
	}

	// Verification codes live in Redis when configured so they survive
	// restarts and expire server-side.
	var challenges verificationservice.ChallengeStore = challenge.NewMemory()
	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("redis connection failed", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		challenges = challenge.NewRedis(redisClient.Client)
	}

	// One transport, chosen at startup.
	var emailTransport transport.Transport
	if cfg.Email.Provider == "ses" {
		emailTransport, err = transport.NewSES(ctx, cfg.Email.SESRegion, cfg.Email.FromEmail)
		if err != nil {
			log.Error("ses transport init failed", "error", err)
			os.Exit(1)
		}
	} else {
		emailTransport = transport.NewSMTP(cfg.Email.SMTP.Host, cfg.Email.SMTP.Port,
			cfg.Email.SMTP.Username, cfg.Email.SMTP.Password, cfg.Email.FromEmail)
	}
	log.Info("email transport selected", "provider", emailTransport.Name())

	// Audit events are persisted off the request path by a background worker.
	auditInbox := make(chan audit.Event, 64)
	auditCtx, stopAudit := context.WithCancel(ctx)
	auditDone := make(chan struct{})
	go func() {
		defer close(auditDone)
		if err := audit.NewWorker(auditStore, auditInbox).Run(auditCtx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("audit worker stopped", "error", err)
		}
	}()
	auditPublisher := audit.NewPublisher(auditInbox)

	notifications := notificationservice.New(emailTransport, records,
		notificationservice.WithLogger(log))
	lifecycle := applicantservice.New(applicants, notifications,
		applicantservice.WithLogger(log),
		applicantservice.WithAuditPublisher(auditPublisher),
		applicantservice.WithMetrics(applicantmetrics.New()),
		applicantservice.WithDecisionOverride(cfg.AllowDecisionOverride))
	verification := verificationservice.New(challenges, applicants, notifications,
		verificationservice.WithLogger(log))
	documents := documentservice.New(artifacts, blob.NewDisk(cfg.UploadDir), applicants,
		documentservice.WithLogger(log),
		documentservice.WithAuditPublisher(auditPublisher))

	router := httpapi.NewRouter(httpapi.Handlers{
		Applicant:    applicanthandler.New(lifecycle, log),
		Verification: verificationhandler.New(verification, log),
		Notification: notificationhandler.New(lifecycle, notifications, log),
		Document:     documenthandler.New(documents, log),
	})

	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting admissions server", "addr", cfg.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
	stopAudit()
	<-auditDone
	log.Info("server stopped")
}
