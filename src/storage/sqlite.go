package storage

import (
	"database/sql"
	"fmt"
	"time"

	"sma-observer/src/logger"
	"sma-observer/src/models"

	_ "modernc.org/sqlite"
)

// -----------------------------------------------------------------------------

type SQLiteAuditSink struct {
	Path   string
	Logger *logger.Logger
	DB     *sql.DB

	batch int // sequence number of the Get() call being written
}

// -----------------------------------------------------------------------------

func NewSQLiteAuditSink(path string, log *logger.Logger) *SQLiteAuditSink {
	return &SQLiteAuditSink{Path: path, Logger: log}
}

// -----------------------------------------------------------------------------

func (s *SQLiteAuditSink) Initialize() error {
	// Open DB
	db, err := sql.Open("sqlite", s.Path)
	if err != nil {
		return err
	}

	if err := db.Ping(); err != nil {
		return err
	}

	s.DB = db

	// PRAGMA optimizations
	if _, err := db.Exec("PRAGMA journal_mode = WAL;"); err != nil {
		s.Logger.Warning("Failed to set WAL mode: %v", err)
	}
	if _, err := db.Exec("PRAGMA synchronous = NORMAL;"); err != nil {
		s.Logger.Warning("Failed to set synchronous mode: %v", err)
	}

	return s.recreateTables()
}

// -----------------------------------------------------------------------------

func (s *SQLiteAuditSink) recreateTables() error {
	if _, err := s.DB.Exec("DROP TABLE IF EXISTS audit_rows"); err != nil {
		return fmt.Errorf("failed to drop audit_rows: %w", err)
	}

	// SQLite types: INTEGER for int64, REAL for float64, TEXT for string
	query := `
		CREATE TABLE audit_rows (
			batch INTEGER,
			idx INTEGER,
			timestamp REAL,
			datetime TEXT,
			gap_seconds REAL,
			session TEXT,
			is_trading INTEGER,
			price REAL,
			sma REAL,
			point_type TEXT,
			cross_tag TEXT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (batch, idx)
		);
	`
	if _, err := s.DB.Exec(query); err != nil {
		return fmt.Errorf("failed to create audit_rows: %w", err)
	}

	return nil
}

// -----------------------------------------------------------------------------

func (s *SQLiteAuditSink) WriteRows(rows []models.MLogRow) error {
	if len(rows) == 0 {
		return nil
	}
	if s.DB == nil {
		return fmt.Errorf("audit sink not initialized")
	}

	s.batch++

	tx, err := s.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO audit_rows (batch, idx, timestamp, datetime, gap_seconds, session, is_trading, price, sma, point_type, cross_tag, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, r := range rows {
		_, err := stmt.Exec(s.batch, r.Index, r.Timestamp, r.Datetime, r.GapSeconds,
			r.Session, r.IsTrading, r.Price, r.SMA, r.PointType, r.CrossTag, now)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// -----------------------------------------------------------------------------

func (s *SQLiteAuditSink) Close() error {
	if s.DB != nil {
		return s.DB.Close()
	}
	return nil
}
