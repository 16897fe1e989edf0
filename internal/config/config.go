package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	App      AppConfig
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Log      LogConfig
	Tracing  TracingConfig
	CORS     CORSConfig
	Upload   UploadConfig
	Report   ReportConfig
}

type AppConfig struct {
	Name        string
	Environment string
	Version     string
}

type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DatabaseConfig struct {
	Host            string
	Port            int
	Name            string
	User            string
	Password        string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s Timezone=UTC",
		d.Host, d.User, d.Password, d.Name, d.Port, d.SSLMode,
	)
}

// AuthConfig guards the mutating routes behind a single clinician login.
// With Enabled=false the API is open, matching deployments inside a
// private consultorio network.
type AuthConfig struct {
	Enabled           bool
	JWTSecret         string
	AccessTokenTTL    time.Duration
	RefreshTokenTTL   time.Duration
	Issuer            string
	ClinicianEmail    string
	ClinicianPassword string
}

type LogConfig struct {
	Level      string
	Format     string
	OutputPath string
}

type TracingConfig struct {
	Enabled     bool
	ServiceName string
	Endpoint    string
	SampleRate  float64
}

type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
	MaxAge         time.Duration
}

// UploadConfig selects the image storage backend. "local" writes to Dir and
// serves files under /static; "minio" pushes objects to a bucket.
type UploadConfig struct {
	Backend        string
	Dir            string
	PublicBaseURL  string
	MaxSizeBytes   int64
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool
}

// ReportConfig carries the letterhead and signature identity for the printed
// study. Injected at render time rather than baked into the layout.
type ReportConfig struct {
	ClinicName      string
	DoctorName      string
	DoctorTitle     string
	DoctorSubtitle  string
	CredentialLines []string
	AddressLine     string
	SchemaImagePath string
}

func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "colpo-api"),
			Environment: getEnv("APP_ENV", "development"),
			Version:     getEnv("APP_VERSION", "0.0.0"),
		},
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getEnvInt("SERVER_PORT", 8000),
			ReadTimeout:     getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getEnvDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:     getEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getEnvDuration("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvInt("DB_PORT", 5432),
			Name:            getEnv("DB_NAME", "colposcopia_db"),
			User:            getEnv("DB_USER", "colpo"),
			Password:        getEnv("DB_PASSWORD", ""),
			SSLMode:         getEnv("DB_SSLMODE", "require"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 10),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
			ConnMaxIdleTime: getEnvDuration("DB_CONN_MAX_IDLE_TIME", 5*time.Minute),
		},
		Auth: AuthConfig{
			Enabled:           getEnvBool("AUTH_ENABLED", false),
			JWTSecret:         getEnv("JWT_SECRET", ""),
			AccessTokenTTL:    getEnvDuration("JWT_ACCESS_TTL", 8*time.Hour),
			RefreshTokenTTL:   getEnvDuration("JWT_REFRESH_TTL", 7*24*time.Hour),
			Issuer:            getEnv("JWT_ISSUER", "colpo-api"),
			ClinicianEmail:    getEnv("CLINICIAN_EMAIL", ""),
			ClinicianPassword: getEnv("CLINICIAN_PASSWORD", ""),
		},
		Log: LogConfig{
			Level:      getEnv("LOG_LEVEL", "info"),
			Format:     getEnv("LOG_FORMAT", "json"),
			OutputPath: getEnv("LOG_OUTPUT", "stdout"),
		},
		Tracing: TracingConfig{
			Enabled:     getEnvBool("TRACING_ENABLED", false),
			ServiceName: getEnv("TRACING_SERVICE_NAME", "colpo-api"),
			Endpoint:    getEnv("OTLP_ENDPOINT", "localhost:4318"),
			SampleRate:  getEnvFloat("TRACING_SAMPLE_RATE", 0.1),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
			AllowedMethods: getEnvSlice("CORS_ALLOWED_METHODS", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
			AllowedHeaders: getEnvSlice("CORS_ALLOWED_HEADERS", []string{"Authorization", "Content-Type", "X-Request-ID"}),
			MaxAge:         getEnvDuration("CORS_MAX_AGE", 12*time.Hour),
		},
		Upload: UploadConfig{
			Backend:        getEnv("UPLOAD_BACKEND", "local"),
			Dir:            getEnv("UPLOAD_DIR", "uploads"),
			PublicBaseURL:  getEnv("UPLOAD_PUBLIC_BASE_URL", "http://localhost:8000"),
			MaxSizeBytes:   int64(getEnvInt("UPLOAD_MAX_SIZE_BYTES", 10<<20)),
			MinioEndpoint:  getEnv("MINIO_ENDPOINT", ""),
			MinioAccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			MinioSecretKey: getEnv("MINIO_SECRET_KEY", ""),
			MinioBucket:    getEnv("MINIO_BUCKET", "colpo-images"),
			MinioUseSSL:    getEnvBool("MINIO_USE_SSL", true),
		},
		Report: ReportConfig{
			ClinicName:      getEnv("REPORT_CLINIC_NAME", ""),
			DoctorName:      getEnv("REPORT_DOCTOR_NAME", ""),
			DoctorTitle:     getEnv("REPORT_DOCTOR_TITLE", ""),
			DoctorSubtitle:  getEnv("REPORT_DOCTOR_SUBTITLE", ""),
			CredentialLines: getEnvSlice("REPORT_CREDENTIAL_LINES", nil),
			AddressLine:     getEnv("REPORT_ADDRESS_LINE", ""),
			SchemaImagePath: getEnv("REPORT_SCHEMA_IMAGE", ""),
		},
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func validate(cfg *Config) error {
	var errs []string

	if cfg.Auth.Enabled {
		if cfg.Auth.JWTSecret == "" {
			errs = append(errs, "JWT_SECRET is required when AUTH_ENABLED=true")
		} else if len(cfg.Auth.JWTSecret) < 32 && cfg.App.Environment == "production" {
			errs = append(errs, "JWT_SECRET must be at least 32 characters in production")
		}
		if cfg.Auth.ClinicianEmail == "" || cfg.Auth.ClinicianPassword == "" {
			errs = append(errs, "CLINICIAN_EMAIL and CLINICIAN_PASSWORD are required when AUTH_ENABLED=true")
		}
	}

	if cfg.Database.Password == "" && cfg.App.Environment != "development" {
		errs = append(errs, "DB_PASSWORD is required in non-development environments")
	}

	if cfg.Database.SSLMode == "disable" && cfg.App.Environment == "production" {
		errs = append(errs, "DB_SSLMODE=disable is not allowed in production")
	}

	switch cfg.Upload.Backend {
	case "local":
		if cfg.Upload.Dir == "" {
			errs = append(errs, "UPLOAD_DIR is required for the local upload backend")
		}
	case "minio":
		if cfg.Upload.MinioEndpoint == "" || cfg.Upload.MinioAccessKey == "" || cfg.Upload.MinioSecretKey == "" {
			errs = append(errs, "MINIO_ENDPOINT, MINIO_ACCESS_KEY and MINIO_SECRET_KEY are required for the minio upload backend")
		}
	default:
		errs = append(errs, fmt.Sprintf("unknown UPLOAD_BACKEND %q (want local or minio)", cfg.Upload.Backend))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvSlice(key string, fallback []string) []string {
	if v, ok := os.LookupEnv(key); ok {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if t := strings.TrimSpace(p); t != "" {
				result = append(result, t)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}
