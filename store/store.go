package store

import (
	"context"
	"errors"

	"rail-planner/models"
)

// ErrNotFound is returned when a client id is not known to the store.
var ErrNotFound = errors.New("not found")

// Store persists clients, trips and tickets for the booking ledger.
type Store interface {
	// WithTx runs fn as one atomic unit. If fn returns an error nothing it
	// wrote is kept and the error is returned unchanged.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	GetClient(ctx context.Context, clientID string) (*models.Client, error)

	// FindTripsByClient returns every trip holding a ticket for the client,
	// oldest first, each with all of its tickets.
	FindTripsByClient(ctx context.Context, clientID string) ([]models.Trip, error)
}

// Tx is the view of the store available inside WithTx.
type Tx interface {
	// GetOrCreateClient returns the stored client with client.ClientID,
	// creating it from client when absent. An existing client is never
	// updated.
	GetOrCreateClient(ctx context.Context, client models.Client) (*models.Client, error)

	FindTicketsByClientAndDay(ctx context.Context, clientID string, day models.DayOfWeek) ([]models.Ticket, error)

	SaveTrip(ctx context.Context, trip *models.Trip) error

	// SaveTicket stores the ticket and assigns its ID.
	SaveTicket(ctx context.Context, ticket *models.Ticket) error
}
