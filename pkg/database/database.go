package database

import (
	"fmt"
	"time"

	"github.com/colposcopia/colpo-api/internal/config"
	"github.com/colposcopia/colpo-api/internal/domain"
	"github.com/colposcopia/colpo-api/internal/domain/appointment"
	"github.com/colposcopia/colpo-api/internal/domain/exam"
	"github.com/colposcopia/colpo-api/internal/domain/patient"
	"github.com/colposcopia/colpo-api/pkg/metrics"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func Connect(cfg config.DatabaseConfig) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger:                                   gormlogger.Default.LogMode(gormlogger.Silent),
		PrepareStmt:                              true,
		DisableForeignKeyConstraintWhenMigrating: false,
		DisableAutomaticPing:                     false,
	}

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: false,
	}), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	// Configure connection pool
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("getting underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return db, nil
}

func Migrate(db *gorm.DB, log *zap.Logger) error {
	log.Info("running database migrations")
	start := time.Now()

	models := []any{
		&domain.User{},
		&domain.AuditLog{},
		&patient.Patient{},
		&appointment.Appointment{},
		&exam.Record{},
	}

	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("auto-migrating models: %w", err)
	}

	createIndexes(db, log)

	log.Info("migrations completed", zap.Duration("duration", time.Since(start)))
	return nil
}

// createIndexes is best-effort: a failed index costs query speed, not
// correctness, so failures are logged and migration continues.
func createIndexes(db *gorm.DB, log *zap.Logger) {
	indexes := []struct {
		name  string
		query string
	}{
		{
			name:  "idx_exams_patient_study_date",
			query: `CREATE INDEX IF NOT EXISTS idx_exams_patient_study_date ON colposcopy_exams (patient_id, study_date DESC)`,
		},
		{
			name:  "idx_appointments_date_time",
			query: `CREATE INDEX IF NOT EXISTS idx_appointments_date_time ON appointments (date_time, status)`,
		},
		{
			name:  "idx_patients_name_trgm",
			query: `CREATE INDEX IF NOT EXISTS idx_patients_name_trgm ON patients USING gin (name gin_trgm_ops)`,
		},
	}

	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS pg_trgm").Error; err != nil {
		log.Warn("pg_trgm extension unavailable, name search will not use a trigram index", zap.Error(err))
	}

	for _, idx := range indexes {
		if err := db.Exec(idx.query).Error; err != nil {
			log.Warn("failed to create index", zap.String("index", idx.name), zap.Error(err))
		}
	}
}

const instrumentStartKey = "metrics:query_start"

// Instrument registers gorm callbacks that time every statement and samples
// the connection pool size.
func Instrument(db *gorm.DB, collector *metrics.Collector) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("getting underlying sql.DB: %w", err)
	}

	go func() {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		for range ticker.C {
			collector.DBConnections.Set(float64(sqlDB.Stats().OpenConnections))
		}
	}()

	before := func(tx *gorm.DB) {
		tx.InstanceSet(instrumentStartKey, time.Now())
	}
	after := func(operation string) func(*gorm.DB) {
		return func(tx *gorm.DB) {
			v, ok := tx.InstanceGet(instrumentStartKey)
			if !ok {
				return
			}
			start, ok := v.(time.Time)
			if !ok {
				return
			}
			table := tx.Statement.Table
			if table == "" {
				table = "unknown"
			}
			collector.DBQueryDuration.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
		}
	}

	cb := db.Callback()
	for _, err := range []error{
		cb.Create().Before("gorm:create").Register("metrics:before_create", before),
		cb.Create().After("gorm:create").Register("metrics:after_create", after("create")),
		cb.Query().Before("gorm:query").Register("metrics:before_query", before),
		cb.Query().After("gorm:query").Register("metrics:after_query", after("query")),
		cb.Update().Before("gorm:update").Register("metrics:before_update", before),
		cb.Update().After("gorm:update").Register("metrics:after_update", after("update")),
		cb.Delete().Before("gorm:delete").Register("metrics:before_delete", before),
		cb.Delete().After("gorm:delete").Register("metrics:after_delete", after("delete")),
		cb.Row().Before("gorm:row").Register("metrics:before_row", before),
		cb.Row().After("gorm:row").Register("metrics:after_row", after("row")),
		cb.Raw().Before("gorm:raw").Register("metrics:before_raw", before),
		cb.Raw().After("gorm:raw").Register("metrics:after_raw", after("raw")),
	} {
		if err != nil {
			return fmt.Errorf("registering query metrics callback: %w", err)
		}
	}

	return nil
}
