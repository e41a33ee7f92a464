package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// DB wraps a SQL connection and the dialect it speaks.
type DB struct {
	conn    *sql.DB
	dialect dialect
}

// New opens (or creates) the SQLite file at dbPath.
func New(dbPath string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	return Open(context.Background(), "sqlite", dsn)
}

// Open connects to driver ("sqlite", "postgres" or "mysql") and runs migrations.
func Open(ctx context.Context, driver, dsn string) (*DB, error) {
	d, err := dialectFor(driver)
	if err != nil {
		return nil, err
	}
	if driver == "mysql" {
		// DATETIME columns only scan into time.Time with parseTime set.
		cfg, err := mysql.ParseDSN(dsn)
		if err != nil {
			return nil, fmt.Errorf("parse mysql dsn: %w", err)
		}
		cfg.ParseTime = true
		dsn = cfg.FormatDSN()
	}

	conn, err := sql.Open(d.driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if driver == "sqlite" {
		// SQLite only supports one writer; limit to single connection to prevent SQLITE_BUSY
		conn.SetMaxOpenConns(1)
	}
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}

	db := &DB{conn: conn, dialect: d}
	if err := db.migrate(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Conn returns the underlying database connection.
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// Driver returns the dialect name.
func (db *DB) Driver() string {
	return db.dialect.name
}

func (db *DB) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return db.conn.ExecContext(ctx, db.dialect.rebind(query), args...)
}

func (db *DB) query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return db.conn.QueryContext(ctx, db.dialect.rebind(query), args...)
}

func (db *DB) queryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return db.conn.QueryRowContext(ctx, db.dialect.rebind(query), args...)
}

func (db *DB) migrate(ctx context.Context) error {
	d := db.dialect
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS floor_plans (
			id VARCHAR(64) PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			canvas_width DOUBLE PRECISION NOT NULL DEFAULT 800,
			canvas_height DOUBLE PRECISION NOT NULL DEFAULT 600,
			created_at ` + d.timestamp + ` NOT NULL,
			updated_at ` + d.timestamp + ` NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS dining_tables (
			id VARCHAR(64) PRIMARY KEY,
			floor_plan_id VARCHAR(64) NOT NULL REFERENCES floor_plans(id),
			table_number INTEGER NOT NULL DEFAULT 0,
			capacity INTEGER NOT NULL DEFAULT 2,
			shape VARCHAR(32) NOT NULL DEFAULT 'square',
			x DOUBLE PRECISION NOT NULL DEFAULT 0,
			y DOUBLE PRECISION NOT NULL DEFAULT 0,
			width DOUBLE PRECISION NOT NULL DEFAULT 80,
			height DOUBLE PRECISION NOT NULL DEFAULT 80,
			status VARCHAR(32) NOT NULL DEFAULT 'available',
			created_at ` + d.timestamp + ` NOT NULL,
			updated_at ` + d.timestamp + ` NOT NULL
		)`,
		d.createIndex("idx_dining_tables_floor_plan", "dining_tables", "floor_plan_id"),
		`CREATE TABLE IF NOT EXISTS layout_history (
			id VARCHAR(64) PRIMARY KEY,
			floor_plan_id VARCHAR(64) NOT NULL,
			seq BIGINT NOT NULL,
			label VARCHAR(255) NOT NULL DEFAULT '',
			snapshot_json TEXT NOT NULL,
			created_at ` + d.timestamp + ` NOT NULL
		)`,
		d.createIndex("idx_layout_history_floor_plan", "layout_history", "floor_plan_id"),
	}

	for _, m := range migrations {
		if _, err := db.conn.ExecContext(ctx, m); err != nil {
			// MySQL has no CREATE INDEX IF NOT EXISTS, so an existing index is fine
			if strings.HasPrefix(m, "CREATE INDEX") && d.isDuplicateIndex(err) {
				continue
			}
			return fmt.Errorf("migration failed: %s: %w", firstLine(m), err)
		}
	}
	return nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
