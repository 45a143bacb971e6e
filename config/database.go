package config

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/DhavalSuthar-24/courtside/internal/logging"
	"github.com/DhavalSuthar-24/courtside/internal/models"
)

// gormWriter routes gorm's SQL log lines into zerolog.
type gormWriter struct{}

func (gormWriter) Printf(format string, args ...interface{}) {
	logging.Debug().Str("component", "gorm").Msgf(format, args...)
}

// Dialector picks the gorm driver for the configured database.
func Dialector(dbCfg DBConfig) (gorm.Dialector, error) {
	switch dbCfg.Driver {
	case "postgres":
		dsn := fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
			dbCfg.Host,
			dbCfg.User,
			dbCfg.Password,
			dbCfg.Name,
			dbCfg.Port,
			dbCfg.SSLMode,
		)
		return postgres.Open(dsn), nil
	case "sqlite":
		return sqlite.Open(SQLiteDSN(dbCfg.SQLitePath)), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", dbCfg.Driver)
	}
}

// SQLiteDSN turns on foreign keys (squads rely on cascades) and takes the
// write lock at BEGIN so two read-then-write transactions queue on the busy
// timeout instead of failing the lock upgrade with SQLITE_BUSY.
func SQLiteDSN(path string) string {
	return path + "?_foreign_keys=on&_txlock=immediate&_busy_timeout=5000"
}

// GormConfig returns the gorm settings shared by the server and tests.
// TranslateError lets callers match gorm.ErrDuplicatedKey on unique violations.
func GormConfig(env string) *gorm.Config {
	level := logger.Silent
	if env == "development" {
		level = logger.Info
	}
	return &gorm.Config{
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
		Logger: logger.New(gormWriter{}, logger.Config{
			SlowThreshold:             500 * time.Millisecond,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
		}),
	}
}

// ConnectDB opens the configured database.
func ConnectDB(cfg *Config) (*gorm.DB, error) {
	dialector, err := Dialector(cfg.DB)
	if err != nil {
		return nil, err
	}
	db, err := gorm.Open(dialector, GormConfig(cfg.App.Env))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if cfg.DB.Driver == "sqlite" {
		// sqlite has a single writer; one connection serialises transactions
		// in the pool instead of in the file lock.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get sqlite handle: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}
	logging.Info().Str("driver", cfg.DB.Driver).Msg("connected to database")
	return db, nil
}

// Migrate creates or updates every table the API uses.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("auto migrate failed: %w", err)
	}
	return nil
}

// Initialize loads configuration, connects and migrates. It is what main calls.
func Initialize() (*Config, *gorm.DB, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	logging.Init(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Timestamp: true})

	db, err := ConnectDB(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database during initialization: %w", err)
	}
	if err := Migrate(db); err != nil {
		return nil, nil, err
	}
	return cfg, db, nil
}
