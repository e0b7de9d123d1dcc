package kiosk

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/mandapam/portal/internal/domain"
)

type ScanState string

const (
	ScanPending  ScanState = "pending"
	ScanSent     ScanState = "sent"
	ScanRejected ScanState = "rejected"
)

type Scan struct {
	ID         int64      `db:"id"`
	Token      string     `db:"token"`
	State      ScanState  `db:"state"`
	Tries      int        `db:"tries"`
	AttendedAt *time.Time `db:"attended_at"`
	LastError  *string    `db:"last_error"`
	ScannedAt  time.Time  `db:"scanned_at"`
}

// Journal is the kiosk's durable record of every scan.
type Journal interface {
	Append(ctx context.Context, token string, at time.Time) (int64, error)
	MarkSent(ctx context.Context, id int64, attendedAt time.Time) error
	MarkRejected(ctx context.Context, id int64, reason string) error
	MarkRetry(ctx context.Context, id int64, reason string) error
	Pending(ctx context.Context, limit int) ([]Scan, error)
	Get(ctx context.Context, id int64) (*Scan, error)
}

const schema = `
CREATE TABLE IF NOT EXISTS scans (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    token       TEXT     NOT NULL,
    state       TEXT     NOT NULL DEFAULT 'pending',
    tries       INTEGER  NOT NULL DEFAULT 0,
    attended_at DATETIME NULL,
    last_error  TEXT     NULL,
    scanned_at  DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_scans_state ON scans (state, id);
`

type SQLiteJournal struct {
	db *sqlx.DB
}

// OpenJournal opens and migrates the SQLite journal at path.
func OpenJournal(path string) (*SQLiteJournal, error) {
	conn, err := sqlx.Connect("sqlite3", "file:"+path+"?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	conn.SetMaxOpenConns(1)

	if _, err = conn.Exec(schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate journal: %w", err)
	}

	return &SQLiteJournal{db: conn}, nil
}

func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}

func (j *SQLiteJournal) Append(ctx context.Context, token string, at time.Time) (int64, error) {
	res, err := j.db.ExecContext(ctx, `INSERT INTO scans (token, state, scanned_at) VALUES (?, ?, ?)`, token, ScanPending, at.UTC())
	if err != nil {
		return 0, fmt.Errorf("journal insert scan: %w", err)
	}
	return res.LastInsertId()
}

func (j *SQLiteJournal) MarkSent(ctx context.Context, id int64, attendedAt time.Time) error {
	var at interface{}
	if !attendedAt.IsZero() {
		at = attendedAt.UTC()
	}
	return j.update(ctx, `UPDATE scans SET state = ?, attended_at = ?, tries = tries + 1, last_error = NULL WHERE id = ?`, ScanSent, at, id)
}

func (j *SQLiteJournal) MarkRejected(ctx context.Context, id int64, reason string) error {
	return j.update(ctx, `UPDATE scans SET state = ?, last_error = ?, tries = tries + 1 WHERE id = ?`, ScanRejected, reason, id)
}

func (j *SQLiteJournal) MarkRetry(ctx context.Context, id int64, reason string) error {
	return j.update(ctx, `UPDATE scans SET last_error = ?, tries = tries + 1 WHERE id = ? AND state = 'pending'`, reason, id)
}

func (j *SQLiteJournal) Pending(ctx context.Context, limit int) ([]Scan, error) {
	scans := make([]Scan, 0)
	err := j.db.SelectContext(ctx, &scans, `SELECT * FROM scans WHERE state = ? ORDER BY id LIMIT ?`, ScanPending, limit)
	if err != nil {
		return nil, fmt.Errorf("journal select pending: %w", err)
	}
	return scans, nil
}

func (j *SQLiteJournal) Get(ctx context.Context, id int64) (*Scan, error) {
	var s Scan
	if err := j.db.GetContext(ctx, &s, `SELECT * FROM scans WHERE id = ?`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("journal get scan: %w", err)
	}
	return &s, nil
}

func (j *SQLiteJournal) update(ctx context.Context, query string, args ...interface{}) error {
	res, err := j.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("journal update scan: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNoRowsAffected
	}
	return nil
}
