package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server      ServerConfig
	DB          DBConfig
	JWT         JWTConfig
	S3          S3Config
	Log         LogConfig
	Recognition RecognitionConfig
	Reasoner    ReasonerConfig
	Anomaly     AnomalyConfig
	Email       EmailConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// JWTConfig holds JWT validation settings. Token issuance is owned by an
// external identity service; this server only validates.
type JWTConfig struct {
	Secret string `mapstructure:"secret"`
	Issuer string `mapstructure:"issuer"`
}

// S3Config holds AWS S3 settings.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	MaxFileSizeMB int64  `mapstructure:"max_file_size_mb"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// RecognitionConfig holds text recognition service settings.
type RecognitionConfig struct {
	APIKey      string `mapstructure:"api_key"`
	Endpoint    string `mapstructure:"endpoint"`
	Language    string `mapstructure:"language"`
	TimeoutSecs int    `mapstructure:"timeout_secs"`
}

// ReasonerConfig holds text-reasoning service settings.
type ReasonerConfig struct {
	Provider     string `mapstructure:"provider"`
	APIKey       string `mapstructure:"api_key"`
	DefaultModel string `mapstructure:"default_model"`
	TimeoutSecs  int    `mapstructure:"timeout_secs"`
}

// AnomalyConfig holds anomaly scorer settings. Threshold is deliberately
// deployment-tunable rather than a code constant.
type AnomalyConfig struct {
	Threshold float64 `mapstructure:"threshold"`
	ModelPath string  `mapstructure:"model_path"`
}

// EmailConfig holds fraud-alert notification settings.
type EmailConfig struct {
	Provider    string `mapstructure:"provider"`
	Region      string `mapstructure:"region"`
	FromAddress string `mapstructure:"from_address"`
	FromName    string `mapstructure:"from_name"`
	AlertTo     string `mapstructure:"alert_to"`
}

// Load reads configuration from environment variables with the SPENSO_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("SPENSO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "spenso")
	v.SetDefault("db.password", "spenso_secret")
	v.SetDefault("db.name", "spenso_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// JWT defaults
	v.SetDefault("jwt.secret", "change-me-in-production")
	v.SetDefault("jwt.issuer", "spenso")

	// S3 defaults
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "spenso-receipts")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.max_file_size_mb", 20)
	v.SetDefault("s3.presign_expiry", 3600)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// Recognition defaults
	v.SetDefault("recognition.api_key", "")
	v.SetDefault("recognition.endpoint", "")
	v.SetDefault("recognition.language", "eng")
	v.SetDefault("recognition.timeout_secs", 60)

	// Reasoner defaults
	v.SetDefault("reasoner.provider", "openai")
	v.SetDefault("reasoner.api_key", "")
	v.SetDefault("reasoner.default_model", "")
	v.SetDefault("reasoner.timeout_secs", 120)

	// Anomaly defaults
	v.SetDefault("anomaly.threshold", 0.1)
	v.SetDefault("anomaly.model_path", "anomaly_model.json")

	// Email defaults
	v.SetDefault("email.provider", "noop")
	v.SetDefault("email.region", "us-east-1")
	v.SetDefault("email.from_address", "noreply@spenso.app")
	v.SetDefault("email.from_name", "Spenso")
	v.SetDefault("email.alert_to", "")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":              "SPENSO_SERVER_PORT",
		"server.read_timeout":      "SPENSO_SERVER_READ_TIMEOUT",
		"server.write_timeout":     "SPENSO_SERVER_WRITE_TIMEOUT",
		"server.environment":       "SPENSO_SERVER_ENVIRONMENT",
		"db.host":                  "SPENSO_DB_HOST",
		"db.port":                  "SPENSO_DB_PORT",
		"db.user":                  "SPENSO_DB_USER",
		"db.password":              "SPENSO_DB_PASSWORD",
		"db.name":                  "SPENSO_DB_NAME",
		"db.sslmode":               "SPENSO_DB_SSLMODE",
		"db.max_open":              "SPENSO_DB_MAX_OPEN",
		"db.max_idle":              "SPENSO_DB_MAX_IDLE",
		"jwt.secret":               "SPENSO_JWT_SECRET",
		"jwt.issuer":               "SPENSO_JWT_ISSUER",
		"s3.region":                "SPENSO_S3_REGION",
		"s3.bucket":                "SPENSO_S3_BUCKET",
		"s3.endpoint":              "SPENSO_S3_ENDPOINT",
		"s3.access_key":            "SPENSO_S3_ACCESS_KEY",
		"s3.secret_key":            "SPENSO_S3_SECRET_KEY",
		"s3.max_file_size_mb":      "SPENSO_S3_MAX_FILE_SIZE_MB",
		"s3.presign_expiry":        "SPENSO_S3_PRESIGN_EXPIRY",
		"log.level":                "SPENSO_LOG_LEVEL",
		"log.format":               "SPENSO_LOG_FORMAT",
		"recognition.api_key":      "SPENSO_RECOGNITION_API_KEY",
		"recognition.endpoint":     "SPENSO_RECOGNITION_ENDPOINT",
		"recognition.language":     "SPENSO_RECOGNITION_LANGUAGE",
		"recognition.timeout_secs": "SPENSO_RECOGNITION_TIMEOUT_SECS",
		"reasoner.provider":        "SPENSO_REASONER_PROVIDER",
		"reasoner.api_key":         "SPENSO_REASONER_API_KEY",
		"reasoner.default_model":   "SPENSO_REASONER_DEFAULT_MODEL",
		"reasoner.timeout_secs":    "SPENSO_REASONER_TIMEOUT_SECS",
		"anomaly.threshold":        "SPENSO_ANOMALY_THRESHOLD",
		"anomaly.model_path":       "SPENSO_ANOMALY_MODEL_PATH",
		"email.provider":           "SPENSO_EMAIL_PROVIDER",
		"email.region":             "SPENSO_EMAIL_REGION",
		"email.from_address":       "SPENSO_EMAIL_FROM_ADDRESS",
		"email.from_name":          "SPENSO_EMAIL_FROM_NAME",
		"email.alert_to":           "SPENSO_EMAIL_ALERT_TO",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if SPENSO_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("SPENSO_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.JWT = JWTConfig{
		Secret: v.GetString("jwt.secret"),
		Issuer: v.GetString("jwt.issuer"),
	}
	cfg.S3 = S3Config{
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		MaxFileSizeMB: v.GetInt64("s3.max_file_size_mb"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	cfg.Recognition = RecognitionConfig{
		APIKey:      v.GetString("recognition.api_key"),
		Endpoint:    v.GetString("recognition.endpoint"),
		Language:    v.GetString("recognition.language"),
		TimeoutSecs: v.GetInt("recognition.timeout_secs"),
	}
	cfg.Reasoner = ReasonerConfig{
		Provider:     v.GetString("reasoner.provider"),
		APIKey:       v.GetString("reasoner.api_key"),
		DefaultModel: v.GetString("reasoner.default_model"),
		TimeoutSecs:  v.GetInt("reasoner.timeout_secs"),
	}
	cfg.Anomaly = AnomalyConfig{
		Threshold: v.GetFloat64("anomaly.threshold"),
		ModelPath: v.GetString("anomaly.model_path"),
	}
	cfg.Email = EmailConfig{
		Provider:    v.GetString("email.provider"),
		Region:      v.GetString("email.region"),
		FromAddress: v.GetString("email.from_address"),
		FromName:    v.GetString("email.from_name"),
		AlertTo:     v.GetString("email.alert_to"),
	}

	return cfg, nil
}
