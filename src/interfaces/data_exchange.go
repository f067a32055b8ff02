package interfaces

import "sma-observer/src/models"

// -----------------------------------------------------------------------------
// IDataExchanger defines the contract for the observation server.
// -----------------------------------------------------------------------------

type IDataExchanger interface {

	// -----------------------------------------------------------------------------

	// Start runs the server (blocking).
	Start() error

	// -----------------------------------------------------------------------------

	// Stop shuts the server down.
	Stop() error

	// -----------------------------------------------------------------------------

	// Publish updates the cached state and broadcasts it to connected clients.
	Publish(state *models.MLatestData)
}
