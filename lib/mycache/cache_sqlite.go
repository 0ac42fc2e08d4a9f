package mycache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/MarcGrol/workersdeploy/lib/mytime"
)

// SQLiteCache keeps the entries in a local database file so they survive restarts of the process.
type SQLiteCache struct {
	db    *sql.DB
	nower mytime.Nower
	ttl   time.Duration
}

var _ Cache = (*SQLiteCache)(nil)

func NewSQLiteCache(dbPath string, nower mytime.Nower) (*SQLiteCache, func(), error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("error opening cache database %s: %w", dbPath, err)
	}
	db.SetMaxOpenConns(1)

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS wizard_cache (
			key        TEXT PRIMARY KEY,
			value      TEXT NOT NULL,
			expires_at INTEGER NOT NULL
		);
	`)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("error creating cache table: %w", err)
	}

	return &SQLiteCache{
			db:    db,
			nower: nower,
			ttl:   DefaultTTL,
		}, func() {
			db.Close()
		}, nil
}

func (ch *SQLiteCache) Get(c context.Context, key string) (string, bool, error) {
	now := ch.nower.Now()

	value := ""
	expiresAt := int64(0)
	err := ch.db.QueryRowContext(c, `SELECT value, expires_at FROM wizard_cache WHERE key = ?`, key).Scan(&value, &expiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("error reading cache key %s: %w", key, err)
	}

	if now.UnixMilli() >= expiresAt {
		_, err = ch.db.ExecContext(c, `DELETE FROM wizard_cache WHERE key = ?`, key)
		if err != nil {
			return "", false, fmt.Errorf("error evicting cache key %s: %w", key, err)
		}
		return "", false, nil
	}

	_, err = ch.db.ExecContext(c, `UPDATE wizard_cache SET expires_at = ? WHERE key = ?`, now.Add(ch.ttl).UnixMilli(), key)
	if err != nil {
		return "", false, fmt.Errorf("error touching cache key %s: %w", key, err)
	}

	return value, true, nil
}

func (ch *SQLiteCache) Set(c context.Context, key string, value string) error {
	_, err := ch.db.ExecContext(c, `
		INSERT INTO wizard_cache (key, value, expires_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value      = excluded.value,
			expires_at = excluded.expires_at
	`, key, value, ch.nower.Now().Add(ch.ttl).UnixMilli())
	if err != nil {
		return fmt.Errorf("error writing cache key %s: %w", key, err)
	}
	return nil
}

func (ch *SQLiteCache) Clear(c context.Context) error {
	_, err := ch.db.ExecContext(c, `DELETE FROM wizard_cache`)
	if err != nil {
		return fmt.Errorf("error clearing cache: %w", err)
	}
	return nil
}
