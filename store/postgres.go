package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"rail-planner/models"
)

// SQLSTATE codes for transactions PostgreSQL aborted and that can be retried.
const (
	serializationFailure = "40001"
	deadlockDetected     = "40P01"
)

// PostgresStore keeps the ledger in PostgreSQL. Booking transactions lock the
// client rows they touch with SELECT ... FOR UPDATE, so concurrent bookings
// for the same client run one after the other.
type PostgresStore struct {
	db          *sql.DB
	logger      *zap.SugaredLogger
	maxRetries  uint64
	retryPolicy func() backoff.BackOff
}

func NewPostgresStore(db *sql.DB, logger *zap.SugaredLogger) *PostgresStore {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &PostgresStore{
		db:          db,
		logger:      logger,
		maxRetries:  3,
		retryPolicy: func() backoff.BackOff { return backoff.NewExponentialBackOff() },
	}
}

func (s *PostgresStore) WithTx(ctx context.Context, fn func(tx Tx) error) error {
	policy := backoff.WithContext(backoff.WithMaxRetries(s.retryPolicy(), s.maxRetries), ctx)

	attempt := 0
	return backoff.Retry(func() error {
		attempt++
		err := s.runTx(ctx, fn)
		if err == nil {
			return nil
		}
		if isRetryable(err) {
			s.logger.Warnw("retrying aborted transaction", "attempt", attempt, "error", err)
			return err
		}
		return backoff.Permanent(err)
	}, policy)
}

func (s *PostgresStore) runTx(ctx context.Context, fn func(tx Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&postgresTx{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func isRetryable(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return pqErr.Code == serializationFailure || pqErr.Code == deadlockDetected
}

func (s *PostgresStore) GetClient(ctx context.Context, clientID string) (*models.Client, error) {
	var c models.Client
	err := s.db.QueryRowContext(ctx, `
		SELECT client_id, first_name, last_name, age, created_at
		FROM clients
		WHERE client_id = $1
	`, clientID).Scan(&c.ClientID, &c.FirstName, &c.LastName, &c.Age, &c.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get client: %w", err)
	}
	return &c, nil
}

func (s *PostgresStore) FindTripsByClient(ctx context.Context, clientID string) ([]models.Trip, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT
			tr.trip_id, tr.day_of_week, tr.created_at,
			t.ticket_id, t.trip_id, t.client_id, t.departure_city, t.arrival_city,
			t.departure_time, t.arrival_time, t.price, t.fare_class, t.route_ids,
			t.day_of_week, t.created_at
		FROM trips tr
		JOIN tickets t ON t.trip_id = tr.trip_id
		WHERE tr.trip_id IN (SELECT trip_id FROM tickets WHERE client_id = $1)
		ORDER BY tr.created_at, tr.trip_id, t.ticket_id
	`, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to query trips: %w", err)
	}
	defer rows.Close()

	var trips []models.Trip
	for rows.Next() {
		var trip models.Trip
		var ticket models.Ticket
		var tripDay, ticketDay int

		err := rows.Scan(
			&trip.ID, &tripDay, &trip.CreatedAt,
			&ticket.ID, &ticket.TripID, &ticket.ClientID, &ticket.DepartureCity, &ticket.ArrivalCity,
			&ticket.DepartureTime, &ticket.ArrivalTime, &ticket.Price, &ticket.FareClass, pq.Array(&ticket.RouteIDs),
			&ticketDay, &ticket.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trip: %w", err)
		}
		trip.DayOfWeek = models.DayOfWeek(tripDay)
		ticket.DayOfWeek = models.DayOfWeek(ticketDay)

		if n := len(trips); n > 0 && trips[n-1].ID == trip.ID {
			trips[n-1].Tickets = append(trips[n-1].Tickets, ticket)
			continue
		}
		trip.Tickets = []models.Ticket{ticket}
		trips = append(trips, trip)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read trips: %w", err)
	}

	return trips, nil
}

type postgresTx struct {
	tx *sql.Tx
}

func (p *postgresTx) GetOrCreateClient(ctx context.Context, client models.Client) (*models.Client, error) {
	if client.CreatedAt.IsZero() {
		client.CreatedAt = time.Now().UTC()
	}

	_, err := p.tx.ExecContext(ctx, `
		INSERT INTO clients (client_id, first_name, last_name, age, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (client_id) DO NOTHING
	`, client.ClientID, client.FirstName, client.LastName, client.Age, client.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	var c models.Client
	err = p.tx.QueryRowContext(ctx, `
		SELECT client_id, first_name, last_name, age, created_at
		FROM clients
		WHERE client_id = $1
		FOR UPDATE
	`, client.ClientID).Scan(&c.ClientID, &c.FirstName, &c.LastName, &c.Age, &c.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to lock client: %w", err)
	}
	return &c, nil
}

func (p *postgresTx) FindTicketsByClientAndDay(ctx context.Context, clientID string, day models.DayOfWeek) ([]models.Ticket, error) {
	rows, err := p.tx.QueryContext(ctx, `
		SELECT ticket_id, trip_id, client_id, departure_city, arrival_city,
			departure_time, arrival_time, price, fare_class, route_ids,
			day_of_week, created_at
		FROM tickets
		WHERE client_id = $1 AND day_of_week = $2
		ORDER BY ticket_id
	`, clientID, int(day))
	if err != nil {
		return nil, fmt.Errorf("failed to query tickets: %w", err)
	}
	defer rows.Close()

	var tickets []models.Ticket
	for rows.Next() {
		var t models.Ticket
		var d int
		err := rows.Scan(
			&t.ID, &t.TripID, &t.ClientID, &t.DepartureCity, &t.ArrivalCity,
			&t.DepartureTime, &t.ArrivalTime, &t.Price, &t.FareClass, pq.Array(&t.RouteIDs),
			&d, &t.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ticket: %w", err)
		}
		t.DayOfWeek = models.DayOfWeek(d)
		tickets = append(tickets, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read tickets: %w", err)
	}
	return tickets, nil
}

func (p *postgresTx) SaveTrip(ctx context.Context, trip *models.Trip) error {
	_, err := p.tx.ExecContext(ctx, `
		INSERT INTO trips (trip_id, day_of_week, created_at)
		VALUES ($1, $2, $3)
	`, trip.ID, int(trip.DayOfWeek), trip.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save trip: %w", err)
	}
	return nil
}

func (p *postgresTx) SaveTicket(ctx context.Context, ticket *models.Ticket) error {
	err := p.tx.QueryRowContext(ctx, `
		INSERT INTO tickets (trip_id, client_id, departure_city, arrival_city,
			departure_time, arrival_time, price, fare_class, route_ids,
			day_of_week, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ticket_id
	`, ticket.TripID, ticket.ClientID, string(ticket.DepartureCity), string(ticket.ArrivalCity),
		ticket.DepartureTime, ticket.ArrivalTime, ticket.Price, string(ticket.FareClass), pq.Array(ticket.RouteIDs),
		int(ticket.DayOfWeek), ticket.CreatedAt).Scan(&ticket.ID)
	if err != nil {
		return fmt.Errorf("failed to save ticket: %w", err)
	}
	return nil
}
