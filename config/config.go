package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/DhavalSuthar-24/courtside/internal/logging"
)

// ConfigPathEnvVar points at an optional YAML file layered between the
// built-in defaults and the environment.
const ConfigPathEnvVar = "COURTSIDE_CONFIG"

type Config struct {
	App       AppConfig       `koanf:"app"`
	DB        DBConfig        `koanf:"db"`
	JWT       JWTConfig       `koanf:"jwt"`
	Storage   StorageConfig   `koanf:"storage"`
	Outbox    OutboxConfig    `koanf:"outbox"`
	RateLimit RateLimitConfig `koanf:"ratelimit"`
	Log       LogConfig       `koanf:"log"`
}

type AppConfig struct {
	Env           string   `koanf:"env" validate:"oneof=development test production"`
	Port          string   `koanf:"port" validate:"required"`
	UploadDir     string   `koanf:"upload_dir" validate:"required"`
	PublicBaseURL string   `koanf:"public_base_url"`
	CORSOrigins   []string `koanf:"cors_origins"`
}

type DBConfig struct {
	Driver     string `koanf:"driver" validate:"oneof=postgres sqlite"`
	Host       string `koanf:"host"`
	Port       string `koanf:"port"`
	User       string `koanf:"user"`
	Password   string `koanf:"password"`
	Name       string `koanf:"name"`
	SSLMode    string `koanf:"sslmode"`
	SQLitePath string `koanf:"sqlite_path"`
}

type JWTConfig struct {
	AccessTokenSecret        string `koanf:"secret" validate:"required"`
	AccessTokenExpiryMinutes int    `koanf:"expiry_minutes" validate:"gt=0"`
	Issuer                   string `koanf:"issuer"`
}

type StorageConfig struct {
	Backend         string `koanf:"backend" validate:"oneof=local s3"`
	Bucket          string `koanf:"bucket"`
	Endpoint        string `koanf:"endpoint"`
	Region          string `koanf:"region"`
	AccessKeyID     string `koanf:"access_key_id"`
	SecretAccessKey string `koanf:"secret_access_key"`
	CDNBaseURL      string `koanf:"cdn_base_url"`
}

type OutboxConfig struct {
	Interval    time.Duration `koanf:"interval" validate:"gt=0"`
	BatchSize   int           `koanf:"batch_size" validate:"gt=0"`
	MaxAttempts int           `koanf:"max_attempts" validate:"gt=0"`
}

type RateLimitConfig struct {
	LoginPerSecond float64 `koanf:"login_rps" validate:"gt=0"`
	LoginBurst     int     `koanf:"login_burst" validate:"gt=0"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format" validate:"oneof=json console"`
}

// Default returns the configuration used when neither a file nor the
// environment overrides a value.
func Default() *Config {
	return &Config{
		App: AppConfig{
			Env:           "development",
			Port:          "8088",
			UploadDir:     "./public/uploads",
			PublicBaseURL: "http://localhost:8088",
			CORSOrigins:   []string{"*"},
		},
		DB: DBConfig{
			Driver:     "sqlite",
			Host:       "localhost",
			Port:       "5432",
			User:       "postgres",
			Password:   "password",
			Name:       "courtside_db",
			SSLMode:    "disable",
			SQLitePath: "./courtside.db",
		},
		JWT: JWTConfig{
			AccessTokenSecret:        "your-very-strong-access-secret",
			AccessTokenExpiryMinutes: 60 * 24,
			Issuer:                   "courtside",
		},
		Storage: StorageConfig{
			Backend: "local",
			Region:  "auto",
		},
		Outbox: OutboxConfig{
			Interval:    2 * time.Second,
			BatchSize:   100,
			MaxAttempts: 10,
		},
		RateLimit: RateLimitConfig{
			LoginPerSecond: 1,
			LoginBurst:     10,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// envAliases maps the flat variable names used in .env files onto config paths.
var envAliases = map[string]string{
	"app_env":                         "app.env",
	"port":                            "app.port",
	"upload_dir":                      "app.upload_dir",
	"public_base_url":                 "app.public_base_url",
	"cors_origins":                    "app.cors_origins",
	"database_driver":                 "db.driver",
	"sqlite_path":                     "db.sqlite_path",
	"jwt_access_token_secret":         "jwt.secret",
	"jwt_access_token_expiry_minutes": "jwt.expiry_minutes",
	"r2_bucket_name":                  "storage.bucket",
	"r2_access_key_id":                "storage.access_key_id",
	"r2_access_key_secret":            "storage.secret_access_key",
	"cdn_base_url":                    "storage.cdn_base_url",
	"log_level":                       "log.level",
	"log_format":                      "log.format",
}

var envSections = []string{"app", "db", "jwt", "storage", "outbox", "ratelimit", "log"}

// envTransformFunc maps DB_HOST to db.host, OUTBOX_BATCH_SIZE to
// outbox.batch_size and so on. Unknown variables are dropped.
func envTransformFunc(key string) string {
	key = strings.ToLower(key)
	if path, ok := envAliases[key]; ok {
		return path
	}
	for _, section := range envSections {
		if strings.HasPrefix(key, section+"_") {
			return section + "." + strings.TrimPrefix(key, section+"_")
		}
	}
	return ""
}

// LoadConfig layers defaults, an optional YAML file and the environment.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logging.Debug().Msg("no .env file found, relying on system environment variables")
	}

	k := koanf.New(".")
	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := os.Getenv(ConfigPathEnvVar); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// CORS_ORIGINS arrives as a comma separated string.
	if raw, ok := k.Get("app.cors_origins").(string); ok {
		if err := k.Set("app.cors_origins", splitAndTrim(raw)); err != nil {
			return nil, fmt.Errorf("failed to parse cors origins: %w", err)
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	if cfg.JWT.AccessTokenSecret == Default().JWT.AccessTokenSecret {
		logging.Warn().Msg("using default JWT secret, set JWT_ACCESS_TOKEN_SECRET for production")
	}
	if cfg.DB.Driver == "postgres" && cfg.DB.Password == "password" && cfg.App.Env == "production" {
		logging.Warn().Msg("using default DB password in production, set DB_PASSWORD")
	}
	return cfg, nil
}

// Validate checks struct tags and the cross-field rules tags can't express.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}
	if c.Storage.Backend == "s3" && (c.Storage.Bucket == "" || c.Storage.Endpoint == "") {
		return fmt.Errorf("storage backend s3 requires bucket and endpoint")
	}
	return nil
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
