package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/zooyer/cad"
)

const schema = `
CREATE TABLE IF NOT EXISTS cads (
    seq        INTEGER PRIMARY KEY AUTOINCREMENT,
    id         TEXT NOT NULL UNIQUE,
    name       TEXT NOT NULL DEFAULT '',
    data       TEXT NOT NULL,
    updated_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

// SQLite 每张图纸一行，按首次保存的顺序读取
type SQLite struct {
	db *sql.DB
}

// OpenSQLite 打开 sqlite 并建表
func OpenSQLite(ctx context.Context, dbPath string) (*SQLite, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?mode=rwc&_pragma=busy_timeout(5000)", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if _, err = db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Load(ctx context.Context) ([]*cad.Data, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT data FROM cads ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result = []*cad.Data{}
	for rows.Next() {
		var data string
		if err = rows.Scan(&data); err != nil {
			return nil, err
		}
		d, err := decode([]byte(data))
		if err != nil {
			return nil, err
		}
		result = append(result, d)
	}
	return result, rows.Err()
}

func (s *SQLite) Get(ctx context.Context, id string) (*cad.Data, error) {
	row := s.db.QueryRowContext(ctx, `SELECT data FROM cads WHERE id = ?`, id)

	var data string
	if err := row.Scan(&data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return decode([]byte(data))
}

func (s *SQLite) Save(ctx context.Context, list []*cad.Data) ([]*cad.Data, error) {
	records, result, err := encode(list)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	for _, r := range records {
		_, err = tx.ExecContext(ctx, `
            INSERT INTO cads (id, name, data) VALUES (?, ?, ?)
            ON CONFLICT(id) DO UPDATE SET
                name = excluded.name,
                data = excluded.data,
                updated_at = CURRENT_TIMESTAMP
        `, r.id, r.name, string(r.data))
		if err != nil {
			return nil, fmt.Errorf("save %s: %w", r.id, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}

	log.Printf("[STORE] saved %d cads to sqlite", len(records))
	return result, nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
