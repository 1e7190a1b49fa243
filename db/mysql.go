package db

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	glogger "gorm.io/gorm/logger"

	"github.com/lingualoop/go-core/logger"
)

type mysqlDatabase struct {
	logger logger.Logger
	db     *gorm.DB
}

// NewMySQL opens a MySQL connection pool with the given configuration.
// Connection coordinates carry no defaults, so a nil config fails
// validation.
func NewMySQL(log logger.Logger, cfg *Config) (Database, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	} else {
		cfg = cfg.MergeDefaults()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	gl := newGormLogger(log, gormLogLevel(cfg.LogLevel), cfg.SlowThreshold())

	gdb, err := gorm.Open(mysql.Open(cfg.DSN()), &gorm.Config{
		Logger:                                   gl,
		PrepareStmt:                              true,
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, ErrConnection(err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, ErrConnection(err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetimeSeconds) * time.Second)
	sqlDB.SetConnMaxIdleTime(time.Duration(cfg.ConnMaxIdleTimeSeconds) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, ErrPing(err)
	}

	log.Info("connected to mysql",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.String("database", cfg.Database),
		zap.Int("max_open_conns", cfg.MaxOpenConns),
		zap.Int("max_idle_conns", cfg.MaxIdleConns))

	return &mysqlDatabase{
		logger: log,
		db:     gdb,
	}, nil
}

func (m *mysqlDatabase) DB() (*gorm.DB, error) {
	if m.db == nil {
		return nil, ErrConnectionNotEstablished
	}
	return m.db, nil
}

func (m *mysqlDatabase) Ping(ctx context.Context) error {
	if m.db == nil {
		return ErrConnectionNotEstablished
	}
	sqlDB, err := m.db.DB()
	if err != nil {
		return ErrPing(err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return ErrPing(err)
	}
	return nil
}

func (m *mysqlDatabase) Close() error {
	if m.db == nil {
		return nil
	}
	sqlDB, err := m.db.DB()
	if err != nil {
		return err
	}
	m.logger.Info("closing mysql connection")
	err = sqlDB.Close()
	m.db = nil
	return err
}

func gormLogLevel(level string) glogger.LogLevel {
	switch level {
	case "silent":
		return glogger.Silent
	case "error":
		return glogger.Error
	case "info":
		return glogger.Info
	default:
		return glogger.Warn
	}
}
