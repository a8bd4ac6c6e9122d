package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"rail-planner/models"
)

// MemoryStore keeps the ledger in process memory. Transactions are
// serialized by a single lock, which also serializes concurrent bookings.
type MemoryStore struct {
	mu           sync.RWMutex
	clients      map[string]models.Client
	trips        map[string]models.Trip
	tickets      []models.Ticket
	nextTicketID int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		clients:      make(map[string]models.Client),
		trips:        make(map[string]models.Trip),
		nextTicketID: 1,
	}
}

func (s *MemoryStore) WithTx(ctx context.Context, fn func(tx Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &memoryTx{
		store:        s,
		clients:      make(map[string]models.Client),
		trips:        make(map[string]models.Trip),
		nextTicketID: s.nextTicketID,
	}
	if err := fn(tx); err != nil {
		return err
	}

	for id, c := range tx.clients {
		s.clients[id] = c
	}
	for id, t := range tx.trips {
		s.trips[id] = t
	}
	s.tickets = append(s.tickets, tx.tickets...)
	s.nextTicketID = tx.nextTicketID
	return nil
}

func (s *MemoryStore) GetClient(ctx context.Context, clientID string) (*models.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.clients[clientID]
	if !ok {
		return nil, ErrNotFound
	}
	return &c, nil
}

func (s *MemoryStore) FindTripsByClient(ctx context.Context, clientID string) ([]models.Trip, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	held := make(map[string]struct{})
	for _, t := range s.tickets {
		if t.ClientID == clientID {
			held[t.TripID] = struct{}{}
		}
	}

	trips := make([]models.Trip, 0, len(held))
	for tripID := range held {
		trip := s.trips[tripID]
		trip.Tickets = nil
		for _, t := range s.tickets {
			if t.TripID == tripID {
				trip.Tickets = append(trip.Tickets, copyTicket(t))
			}
		}
		trips = append(trips, trip)
	}

	sort.Slice(trips, func(i, j int) bool {
		if !trips[i].CreatedAt.Equal(trips[j].CreatedAt) {
			return trips[i].CreatedAt.Before(trips[j].CreatedAt)
		}
		return trips[i].Tickets[0].ID < trips[j].Tickets[0].ID
	})
	return trips, nil
}

// Counts reports how many clients, trips and tickets are stored.
func (s *MemoryStore) Counts() (clients, trips, tickets int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients), len(s.trips), len(s.tickets)
}

type memoryTx struct {
	store        *MemoryStore
	clients      map[string]models.Client
	trips        map[string]models.Trip
	tickets      []models.Ticket
	nextTicketID int64
}

func (tx *memoryTx) GetOrCreateClient(ctx context.Context, client models.Client) (*models.Client, error) {
	if c, ok := tx.store.clients[client.ClientID]; ok {
		return &c, nil
	}
	if c, ok := tx.clients[client.ClientID]; ok {
		return &c, nil
	}

	if client.CreatedAt.IsZero() {
		client.CreatedAt = time.Now().UTC()
	}
	tx.clients[client.ClientID] = client
	return &client, nil
}

func (tx *memoryTx) FindTicketsByClientAndDay(ctx context.Context, clientID string, day models.DayOfWeek) ([]models.Ticket, error) {
	var out []models.Ticket
	for _, list := range [][]models.Ticket{tx.store.tickets, tx.tickets} {
		for _, t := range list {
			if t.ClientID == clientID && t.DayOfWeek == day {
				out = append(out, copyTicket(t))
			}
		}
	}
	return out, nil
}

func (tx *memoryTx) SaveTrip(ctx context.Context, trip *models.Trip) error {
	stored := *trip
	stored.Tickets = nil
	tx.trips[trip.ID] = stored
	return nil
}

func (tx *memoryTx) SaveTicket(ctx context.Context, ticket *models.Ticket) error {
	_, staged := tx.trips[ticket.TripID]
	_, committed := tx.store.trips[ticket.TripID]
	if !staged && !committed {
		return fmt.Errorf("ticket references unknown trip %s", ticket.TripID)
	}

	ticket.ID = tx.nextTicketID
	tx.nextTicketID++
	tx.tickets = append(tx.tickets, copyTicket(*ticket))
	return nil
}

func copyTicket(t models.Ticket) models.Ticket {
	t.RouteIDs = append([]string(nil), t.RouteIDs...)
	return t
}
