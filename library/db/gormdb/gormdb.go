// Package gormdb opens the relational record store behind the tweet services.
package gormdb

import (
	"context"
	"strings"
	"time"

	errors "github.com/Laisky/errors/v2"
	logSDK "github.com/Laisky/go-utils/v6/log"
	"github.com/Laisky/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Laisky/twitter-clone/library/log"
)

// Supported dialects.
const (
	DriverSqlite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMysql    = "mysql"
)

// DialInfo postgres dial info
type DialInfo struct {
	Addr,
	DBName,
	User,
	Pwd string
}

// Options configures Open.
type Options struct {
	Driver string
	// DSN takes precedence over Postgres when both are set.
	DSN          string
	Postgres     DialInfo
	MaxOpenConns int
	Debug        bool
	Logger       logSDK.Logger
}

// BuildDSN builds a PostgreSQL DSN for shared database clients.
func BuildDSN(dialInfo DialInfo) string {
	return "host=" + dialInfo.Addr + " user=" + dialInfo.User + " password=" + dialInfo.Pwd + " dbname=" + dialInfo.DBName + " port=5432 sslmode=disable TimeZone=UTC"
}

// IsSupportedDriver reports whether driver names a dialect Open can use.
func IsSupportedDriver(driver string) bool {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case DriverSqlite, DriverPostgres, DriverMysql:
		return true
	default:
		return false
	}
}

// Open connects to the configured dialect and verifies the connection.
func Open(ctx context.Context, opt Options) (*gorm.DB, error) {
	driver := strings.ToLower(strings.TrimSpace(opt.Driver))
	logger := opt.Logger
	if logger == nil {
		logger = log.Logger.Named("gorm")
	}

	var dialector gorm.Dialector
	switch driver {
	case DriverSqlite:
		if opt.DSN == "" {
			return nil, errors.New("sqlite dsn is required")
		}
		dialector = sqlite.Open(opt.DSN)
	case DriverPostgres:
		dsn := opt.DSN
		if dsn == "" {
			dsn = BuildDSN(opt.Postgres)
		}
		dialector = postgres.Open(dsn)
	case DriverMysql:
		if opt.DSN == "" {
			return nil, errors.New("mysql dsn is required")
		}
		dialector = mysql.Open(opt.DSN)
	default:
		return nil, errors.Errorf("unsupported db driver %q", opt.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         NewLogger(logger, opt.Debug),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", driver)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "get sql db")
	}
	if err = sqlDB.PingContext(ctx); err != nil {
		return nil, errors.Wrapf(err, "ping %s", driver)
	}

	// sqlite serializes writers anyway, one connection avoids SQLITE_BUSY
	// and keeps in-memory databases consistent.
	maxOpen := opt.MaxOpenConns
	if driver == DriverSqlite {
		maxOpen = 1
	} else if maxOpen <= 0 {
		maxOpen = 50
	}
	sqlDB.SetMaxIdleConns(min(6, maxOpen))
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetConnMaxLifetime(time.Hour)

	logger.Info("connected to record store",
		zap.String("driver", driver),
		zap.Int("max_open_conns", maxOpen))
	return db, nil
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}

	sqlDB, err := db.DB()
	if err != nil {
		return errors.Wrap(err, "get sql db")
	}

	return errors.WithStack(sqlDB.Close())
}
