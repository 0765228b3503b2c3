package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteStore keeps slot values for every user in one SQLite file, each
// user under its own namespace.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dataSourceName string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err = store.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	schema := `
    CREATE TABLE IF NOT EXISTS slots (
        namespace TEXT NOT NULL,
        key TEXT NOT NULL,
        value TEXT NOT NULL,
        updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
        PRIMARY KEY (namespace, key)
    );
    `
	_, err := s.db.Exec(schema)
	return err
}

// Namespace returns the KV view of a single user's slots.
func (s *SQLiteStore) Namespace(namespace string) KV {
	return &sqliteNamespace{db: s.db, namespace: namespace}
}

// Namespaces lists every namespace holding at least one slot.
func (s *SQLiteStore) Namespaces() ([]string, error) {
	rows, err := s.db.Query("SELECT DISTINCT namespace FROM slots ORDER BY namespace")
	if err != nil {
		return nil, fmt.Errorf("failed to query namespaces: %w", err)
	}
	defer rows.Close()

	var namespaces []string
	for rows.Next() {
		var ns string
		if err := rows.Scan(&ns); err != nil {
			return nil, fmt.Errorf("failed to scan namespace row: %w", err)
		}
		namespaces = append(namespaces, ns)
	}
	return namespaces, rows.Err()
}

type sqliteNamespace struct {
	db        *sql.DB
	namespace string
}

func (n *sqliteNamespace) Get(key string) (string, bool, error) {
	var value string
	err := n.db.QueryRow("SELECT value FROM slots WHERE namespace = ? AND key = ?", n.namespace, key).Scan(&value)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to query slot %s: %w", key, err)
	}
	return value, true, nil
}

func (n *sqliteNamespace) Apply(changes ...Change) error {
	if len(changes) == 0 {
		return nil
	}
	tx, err := n.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin slot transaction: %w", err)
	}
	defer tx.Rollback()

	upsert, err := tx.Prepare(`INSERT INTO slots (namespace, key, value, updated_at) VALUES (?, ?, ?, ?)
        ON CONFLICT (namespace, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`)
	if err != nil {
		return fmt.Errorf("failed to prepare slot upsert: %w", err)
	}
	defer upsert.Close()

	remove, err := tx.Prepare("DELETE FROM slots WHERE namespace = ? AND key = ?")
	if err != nil {
		return fmt.Errorf("failed to prepare slot delete: %w", err)
	}
	defer remove.Close()

	now := time.Now()
	for _, c := range changes {
		if c.Delete {
			if _, err := remove.Exec(n.namespace, c.Key); err != nil {
				return fmt.Errorf("failed to delete slot %s: %w", c.Key, err)
			}
			continue
		}
		if _, err := upsert.Exec(n.namespace, c.Key, c.Value, now); err != nil {
			return fmt.Errorf("failed to write slot %s: %w", c.Key, err)
		}
	}
	return tx.Commit()
}
