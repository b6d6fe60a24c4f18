package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/abisalde/accounts-service/internal/configs"
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

const (
	DialectMySQL  = "mysql"
	DialectSQLite = "sqlite3"
)

type Database struct {
	SQLDB   *sql.DB
	Dialect string
}

func Connect(cfg *configs.Config) (*Database, error) {
	sqlDB, err := initDatabase(cfg.DB.Driver, cfg.DataSourceName())
	if err != nil {
		return nil, err
	}

	db := &Database{SQLDB: sqlDB, Dialect: cfg.DB.Driver}

	if cfg.DB.Migrate {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := db.Migrate(ctx); err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("database migration failed: %w", err)
		}
	}

	zap.L().Info("connected to database", zap.String("dialect", cfg.DB.Driver))
	return db, nil
}

// Open wraps an existing handle, e.g. an in-memory SQLite database in tests.
func Open(dialect, dsn string) (*Database, error) {
	sqlDB, err := initDatabase(dialect, dsn)
	if err != nil {
		return nil, err
	}
	return &Database{SQLDB: sqlDB, Dialect: dialect}, nil
}

func (db *Database) Close() error {
	if db.SQLDB == nil {
		return nil
	}
	if err := db.SQLDB.Close(); err != nil {
		return fmt.Errorf("failed to close database connection: %w", err)
	}
	return nil
}

func (db *Database) Migrate(ctx context.Context) error {
	for _, stmt := range schemaStatements(db.Dialect) {
		if _, err := db.SQLDB.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func (db *Database) HealthCheck(ctx context.Context) error {
	if db.SQLDB == nil {
		return fmt.Errorf("sql.DB is not initialized")
	}
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
	}
	return db.SQLDB.PingContext(ctx)
}

func initDatabase(dialect, dsn string) (*sql.DB, error) {
	if dialect != DialectMySQL && dialect != DialectSQLite {
		return nil, fmt.Errorf("unsupported database driver %q", dialect)
	}

	sqlDB, err := sql.Open(dialect, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if dialect == DialectSQLite {
		// One writer keeps in-memory databases on a single connection.
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	return sqlDB, nil
}
