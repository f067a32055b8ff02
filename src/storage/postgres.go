package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"sma-observer/src/logger"
	"sma-observer/src/models"

	_ "github.com/lib/pq"
)

// -----------------------------------------------------------------------------

type PostgresAuditSink struct {
	ConnectionString string
	Logger           *logger.Logger
	DB               *sql.DB
	Schema           string

	batch int
}

// -----------------------------------------------------------------------------

func NewPostgresAuditSink(connStr string, log *logger.Logger) (*PostgresAuditSink, error) {
	// Use the executable name as schema so parallel deployments don't collide
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to get executable name: %w", err)
	}
	name := filepath.Base(exe)
	name = strings.TrimSuffix(name, filepath.Ext(name))

	return &PostgresAuditSink{
		ConnectionString: connStr,
		Schema:           name,
		Logger:           log,
	}, nil
}

// -----------------------------------------------------------------------------

func (s *PostgresAuditSink) Initialize() error {
	db, err := sql.Open("postgres", s.ConnectionString)
	if err != nil {
		return err
	}

	if err := db.Ping(); err != nil {
		return err
	}

	s.DB = db

	// Create Schema
	if _, err := s.DB.Exec(fmt.Sprintf(`CREATE SCHEMA IF NOT EXISTS "%s"`, s.Schema)); err != nil {
		return fmt.Errorf("failed to create schema %s: %w", s.Schema, err)
	}

	return s.recreateTables()
}

// -----------------------------------------------------------------------------

func (s *PostgresAuditSink) recreateTables() error {
	table := s.tableName()

	if _, err := s.DB.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s", table)); err != nil {
		return fmt.Errorf("failed to drop %s: %w", table, err)
	}

	query := fmt.Sprintf(`
		CREATE TABLE %s (
			batch INTEGER,
			idx INTEGER,
			timestamp DOUBLE PRECISION,
			datetime TEXT,
			gap_seconds DOUBLE PRECISION,
			session TEXT,
			is_trading BOOLEAN,
			price DOUBLE PRECISION,
			sma DOUBLE PRECISION,
			point_type TEXT,
			cross_tag TEXT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (batch, idx)
		);
	`, table)
	if _, err := s.DB.Exec(query); err != nil {
		return fmt.Errorf("failed to create %s: %w", table, err)
	}

	return nil
}

// -----------------------------------------------------------------------------

func (s *PostgresAuditSink) WriteRows(rows []models.MLogRow) error {
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

	stmt, err := tx.Prepare(fmt.Sprintf(`
		INSERT INTO %s (batch, idx, timestamp, datetime, gap_seconds, session, is_trading, price, sma, point_type, cross_tag, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, s.tableName()))
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

func (s *PostgresAuditSink) tableName() string {
	return fmt.Sprintf(`"%s".audit_rows`, s.Schema)
}

// -----------------------------------------------------------------------------

func (s *PostgresAuditSink) Close() error {
	if s.DB != nil {
		return s.DB.Close()
	}
	return nil
}
