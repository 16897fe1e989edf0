package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/colposcopia/colpo-api/internal/config"
	v1 "github.com/colposcopia/colpo-api/internal/handler/v1"
	"github.com/colposcopia/colpo-api/internal/report"
	"github.com/colposcopia/colpo-api/internal/repository"
	"github.com/colposcopia/colpo-api/internal/service"
	"github.com/colposcopia/colpo-api/internal/storage"
	"github.com/colposcopia/colpo-api/pkg/auth"
	"github.com/colposcopia/colpo-api/pkg/database"
	"github.com/colposcopia/colpo-api/pkg/logger"
	"github.com/colposcopia/colpo-api/pkg/metrics"
	"github.com/colposcopia/colpo-api/pkg/tracer"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic("loading configuration: " + err.Error())
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		panic("building logger: " + err.Error())
	}
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Fatal("service exited with error", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx := context.Background()

	tp, err := tracer.Init(cfg.Tracing)
	if err != nil {
		return err
	}
	defer func() {
		_ = tp.Shutdown(context.Background())
	}()

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return err
	}
	if err := database.Migrate(db, log); err != nil {
		return err
	}

	collector := metrics.NewCollector("colpo")
	if err := database.Instrument(db, collector); err != nil {
		return err
	}

	// Repositories
	patientRepo := repository.NewPatientRepository(db)
	examRepo := repository.NewExamRepository(db)
	appointmentRepo := repository.NewAppointmentRepository(db)
	userRepo := repository.NewUserRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	// Services
	auditSvc := service.NewAuditService(auditRepo, collector, log)
	defer auditSvc.Shutdown()

	jwtManager := auth.NewJWTManager(cfg.Auth)
	authSvc := service.NewAuthService(userRepo, jwtManager, auditSvc, log)
	patientSvc := service.NewPatientService(patientRepo, examRepo, auditSvc, log)
	examSvc := service.NewExamService(examRepo, patientRepo, auditSvc, log)
	appointmentSvc := service.NewAppointmentService(appointmentRepo, patientRepo, auditSvc, log)

	if cfg.Auth.Enabled {
		if err := authSvc.EnsureClinician(ctx, cfg.Auth.ClinicianEmail, cfg.Auth.ClinicianPassword, cfg.Report.DoctorName); err != nil {
			return err
		}
	}

	// Image storage
	var store storage.ObjectStore
	switch cfg.Upload.Backend {
	case "minio":
		minioStore, err := storage.NewMinioStore(cfg.Upload)
		if err != nil {
			return err
		}
		if err := minioStore.EnsureBucket(ctx); err != nil {
			return err
		}
		store = minioStore
	default:
		localStore, err := storage.NewLocalStore(cfg.Upload.Dir)
		if err != nil {
			return err
		}
		store = localStore
	}

	renderer := report.NewRenderer(cfg.Report, cfg.Upload, log)

	router := v1.NewRouter(v1.RouterDeps{
		Config:      cfg,
		Logger:      log,
		Collector:   collector,
		JWTManager:  jwtManager,
		Auth:        v1.NewAuthHandler(authSvc),
		Patient:     v1.NewPatientHandler(patientSvc, collector),
		Exam:        v1.NewExamHandler(examSvc, renderer, collector),
		Appointment: v1.NewAppointmentHandler(appointmentSvc, collector),
		Upload:      v1.NewUploadHandler(store, cfg.Upload, collector, log),
	})

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening",
			zap.String("addr", srv.Addr),
			zap.String("env", cfg.App.Environment),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.Info("shutting down", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	log.Info("server stopped")
	return nil
}
