package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"sma-observer/src/logger"
	"sma-observer/src/models"
)

// -----------------------------------------------------------------------------
// CSVAuditSink writes audit rows to a local CSV file, one header row on
// initialization and one record per row, flushed after every batch.
// -----------------------------------------------------------------------------

var csvHeader = []string{
	"index", "timestamp", "datetime", "gap_seconds", "session",
	"is_trading", "price", "sma", "point_type", "cross_tag",
}

type CSVAuditSink struct {
	Path   string
	Logger *logger.Logger

	file   *os.File
	writer *csv.Writer
}

// -----------------------------------------------------------------------------

func NewCSVAuditSink(path string, log *logger.Logger) *CSVAuditSink {
	return &CSVAuditSink{Path: path, Logger: log}
}

// -----------------------------------------------------------------------------

// Initialize creates (truncating) the output file and writes the header.
func (s *CSVAuditSink) Initialize() error {
	f, err := os.Create(s.Path)
	if err != nil {
		return fmt.Errorf("failed to create audit file '%s': %w", s.Path, err)
	}

	s.file = f
	s.writer = csv.NewWriter(f)

	if err := s.writer.Write(csvHeader); err != nil {
		f.Close()
		return fmt.Errorf("failed to write audit header: %w", err)
	}
	s.writer.Flush()
	return s.writer.Error()
}

// -----------------------------------------------------------------------------

// WriteRows appends one row sequence and flushes.
func (s *CSVAuditSink) WriteRows(rows []models.MLogRow) error {
	if s.writer == nil {
		return fmt.Errorf("audit sink not initialized")
	}

	for _, r := range rows {
		record := []string{
			strconv.Itoa(r.Index),
			strconv.FormatFloat(r.Timestamp, 'f', -1, 64),
			r.Datetime,
			strconv.FormatFloat(r.GapSeconds, 'f', 1, 64),
			r.Session,
			strconv.FormatBool(r.IsTrading),
			strconv.FormatFloat(r.Price, 'f', 2, 64),
			strconv.FormatFloat(r.SMA, 'f', 2, 64),
			r.PointType,
			r.CrossTag,
		}
		if err := s.writer.Write(record); err != nil {
			return err
		}
	}

	s.writer.Flush()
	return s.writer.Error()
}

// -----------------------------------------------------------------------------

func (s *CSVAuditSink) Close() error {
	if s.writer != nil {
		s.writer.Flush()
	}
	if s.file != nil {
		return s.file.Close()
	}
	return nil
}
