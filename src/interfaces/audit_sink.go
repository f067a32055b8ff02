package interfaces

import "sma-observer/src/models"

// -----------------------------------------------------------------------------
// IAuditSink defines the contract for audit-row consumers.
// -----------------------------------------------------------------------------

type IAuditSink interface {

	// -----------------------------------------------------------------------------

	// Initialize prepares the sink (opens the file or database, writes the
	// header / creates the schema).
	Initialize() error

	// -----------------------------------------------------------------------------

	// WriteRows persists one ordered row sequence produced by a Get() call.
	WriteRows(rows []models.MLogRow) error

	// -----------------------------------------------------------------------------

	// Close flushes and releases the sink.
	Close() error
}
