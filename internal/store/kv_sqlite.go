package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure go sqlite driver
)

// SQLiteKV persists every collection as a JSON blob in a single
// bucket/payload table. Each Update maps to one SQL transaction, so a
// cascade's writes commit or roll back together.
type SQLiteKV struct {
	db *sqlx.DB
}

// NewSQLiteKV prepares the state table on the given connection.
func NewSQLiteKV(db *sqlx.DB) (*SQLiteKV, error) {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS state (
		bucket TEXT PRIMARY KEY,
		payload BLOB NOT NULL
	)`); err != nil {
		return nil, fmt.Errorf("create state table: %w", err)
	}
	return &SQLiteKV{db: db}, nil
}

// OpenSQLiteKV opens (or creates) the database file at path.
func OpenSQLiteKV(path string) (*SQLiteKV, error) {
	db, err := sqlx.Connect("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	kv, err := NewSQLiteKV(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return kv, nil
}

func (s *SQLiteKV) Get(key string) ([]byte, bool, error) {
	var payload []byte
	err := s.db.Get(&payload, `SELECT payload FROM state WHERE bucket = ?`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get %s: %w", key, err)
	}
	return payload, true, nil
}

func (s *SQLiteKV) Put(key string, value []byte) error {
	_, err := s.db.Exec(
		`INSERT INTO state(bucket, payload) VALUES(?, ?)
		 ON CONFLICT(bucket) DO UPDATE SET payload = excluded.payload`, key, value)
	if err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}

// Update runs fn inside a SQL transaction.
func (s *SQLiteKV) Update(fn func(tx Tx) error) (retErr error) {
	sqlTx, err := s.db.Beginx()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if retErr != nil {
			_ = sqlTx.Rollback()
		}
	}()
	if err := fn(&sqliteTx{tx: sqlTx}); err != nil {
		return err
	}
	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (s *SQLiteKV) Close() error { return s.db.Close() }

type sqliteTx struct {
	tx *sqlx.Tx
}

func (t *sqliteTx) Get(key string) ([]byte, bool, error) {
	var payload []byte
	err := t.tx.Get(&payload, `SELECT payload FROM state WHERE bucket = ?`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get %s: %w", key, err)
	}
	return payload, true, nil
}

func (t *sqliteTx) Put(key string, value []byte) error {
	_, err := t.tx.Exec(
		`INSERT INTO state(bucket, payload) VALUES(?, ?)
		 ON CONFLICT(bucket) DO UPDATE SET payload = excluded.payload`, key, value)
	if err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}
