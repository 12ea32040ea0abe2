// Package mysqldb opens MySQL connections through database/sql and the
// go-sql-driver/mysql driver.
package mysqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jrazmi/tasker/sdk/environment"
)

// MySQL server error numbers
const (
	duplicateEntry = 1062
	noSuchTable    = 1146
)

var (
	ErrDBDuplicatedEntry = errors.New("duplicated entry")
	ErrUndefinedTable    = errors.New("undefined table")
)

// Options represents the exportable database configuration.
type Options struct {
	DSN          string        `env:"MYSQL_DSN" default:"root:password@tcp(127.0.0.1:3306)/tasker"`
	MaxOpenConns int           `env:"MYSQL_MAX_OPEN_CONNS" default:"25"`
	MaxIdleConns int           `env:"MYSQL_MAX_IDLE_CONNS" default:"5"`
	MaxLifetime  time.Duration `env:"MYSQL_MAX_LIFETIME" default:"1h"`
	MaxIdleTime  time.Duration `env:"MYSQL_MAX_IDLE_TIME" default:"30m"`
}

// NewFromEnv opens a connection pool configured from PREFIX_MYSQL_* variables.
func NewFromEnv(prefix string) (*sql.DB, error) {
	var cfg Options
	if err := environment.ParseEnvTags(prefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing mysql config: %w", err)
	}
	return New(cfg)
}

// New opens and pings a pool built from driverConfig.
func New(cfg Options) (*sql.DB, error) {
	mcfg, err := driverConfig(cfg.DSN)
	if err != nil {
		return nil, err
	}

	connector, err := mysql.NewConnector(mcfg)
	if err != nil {
		return nil, fmt.Errorf("creating connector: %w", err)
	}

	db := sql.OpenDB(connector)
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.MaxLifetime)
	db.SetConnMaxIdleTime(cfg.MaxIdleTime)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return db, nil
}

// driverConfig parses dsn and forces parseTime, UTC and multiStatements since
// the stores scan DATETIME columns into time.Time and migrations may hold
// several statements. The session time zone is pinned to UTC so that
// CURRENT_TIMESTAMP defaults agree with the UTC location used when reading.
func driverConfig(dsn string) (*mysql.Config, error) {
	mcfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parsing dsn: %w", err)
	}
	mcfg.ParseTime = true
	mcfg.Loc = time.UTC
	mcfg.MultiStatements = true
	if mcfg.Params == nil {
		mcfg.Params = make(map[string]string)
	}
	mcfg.Params["time_zone"] = "'+00:00'"
	return mcfg, nil
}

// StatusCheck returns nil if it can successfully talk to the database.
func StatusCheck(ctx context.Context, db *sql.DB) error {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Second)
		defer cancel()
	}
	return db.PingContext(ctx)
}

// HandleMySQLError converts MySQL server errors to application errors.
func HandleMySQLError(err error) error {
	if err == nil {
		return nil
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case duplicateEntry:
			return fmt.Errorf("%w: %s", ErrDBDuplicatedEntry, myErr.Message)
		case noSuchTable:
			return fmt.Errorf("%w: %s", ErrUndefinedTable, myErr.Message)
		}
	}

	return err
}
