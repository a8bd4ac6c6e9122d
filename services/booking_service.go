package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"rail-planner/models"
	"rail-planner/store"
)

// EventPublisher is notified after a booking commits.
type EventPublisher interface {
	PublishTripBooked(ctx context.Context, trip models.Trip) error
}

// BookingService is the booking ledger: it turns a chosen itinerary into a
// trip with one ticket per traveller, refusing duplicate and conflicting
// reservations.
type BookingService struct {
	store     store.Store
	publisher EventPublisher
	logger    *zap.SugaredLogger
	now       func() time.Time
}

// NewBookingService creates the ledger. publisher may be nil.
func NewBookingService(s store.Store, publisher EventPublisher, logger *zap.SugaredLogger) *BookingService {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &BookingService{
		store:     s,
		publisher: publisher,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Book reserves option on day for every traveller. Either the trip and all
// its tickets are stored, or nothing is.
func (s *BookingService) Book(ctx context.Context, option models.TripOption, travellers []models.Traveller, day models.DayOfWeek, class models.FareClass) (*models.Trip, error) {
	if err := validateBooking(option, travellers, day, class); err != nil {
		return nil, err
	}

	routeIDs := option.RouteIDs()
	price := option.Price(class)
	tripID := uuid.New().String()

	var trip *models.Trip
	err := s.store.WithTx(ctx, func(tx store.Tx) error {
		// rebuilt on every attempt, the store may retry the transaction
		createdAt := s.now()
		trip = &models.Trip{ID: tripID, DayOfWeek: day, CreatedAt: createdAt}

		seen := make(map[string]struct{}, len(travellers))
		for _, traveller := range travellers {
			_, err := tx.GetOrCreateClient(ctx, models.Client{
				ClientID:  traveller.ClientID,
				FirstName: traveller.FirstName,
				LastName:  traveller.LastName,
				Age:       traveller.Age,
				CreatedAt: createdAt,
			})
			if err != nil {
				return fmt.Errorf("failed to resolve client %s: %w", traveller.ClientID, err)
			}

			if _, dup := seen[traveller.ClientID]; dup {
				return &DuplicateTravellerError{ClientID: traveller.ClientID}
			}
			seen[traveller.ClientID] = struct{}{}

			existing, err := tx.FindTicketsByClientAndDay(ctx, traveller.ClientID, day)
			if err != nil {
				return fmt.Errorf("failed to check reservations of %s: %w", traveller.ClientID, err)
			}
			if conflict := findConflict(existing, routeIDs); conflict != nil {
				conflict.ClientID = traveller.ClientID
				conflict.Day = day
				return conflict
			}
		}

		if err := tx.SaveTrip(ctx, trip); err != nil {
			return err
		}

		for _, traveller := range travellers {
			ticket := models.Ticket{
				TripID:        trip.ID,
				ClientID:      traveller.ClientID,
				DepartureCity: option.DepartureCity,
				ArrivalCity:   option.ArrivalCity,
				DepartureTime: option.DepartureTime,
				ArrivalTime:   option.ArrivalTime,
				Price:         price,
				FareClass:     class,
				RouteIDs:      append([]string(nil), routeIDs...),
				DayOfWeek:     day,
				CreatedAt:     createdAt,
			}
			if err := tx.SaveTicket(ctx, &ticket); err != nil {
				return err
			}
			trip.Tickets = append(trip.Tickets, ticket)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Infow("Trip booked",
		"trip_id", trip.ID,
		"day", day.String(),
		"route_ids", strings.Join(routeIDs, ","),
		"travellers", len(travellers),
		"price", price,
	)

	if s.publisher != nil {
		if err := s.publisher.PublishTripBooked(ctx, *trip); err != nil {
			s.logger.Warnw("failed to publish booking event", "trip_id", trip.ID, "error", err)
		}
	}

	return trip, nil
}

func validateBooking(option models.TripOption, travellers []models.Traveller, day models.DayOfWeek, class models.FareClass) error {
	switch {
	case len(option.Legs) == 0:
		return &InvalidBookingError{Reason: "itinerary has no connections"}
	case len(travellers) == 0:
		return &InvalidBookingError{Reason: "at least one traveller is required"}
	case !day.IsValid():
		return &InvalidBookingError{Reason: fmt.Sprintf("invalid day %d", int(day))}
	case !class.IsValid():
		return &InvalidBookingError{Reason: fmt.Sprintf("invalid fare class %q", class)}
	}

	for _, leg := range option.Legs {
		if !leg.Operates(day) {
			return &InvalidBookingError{Reason: fmt.Sprintf("route %s does not run on %s", leg.RouteID, day)}
		}
	}

	for i, t := range travellers {
		switch {
		case strings.TrimSpace(t.ClientID) == "":
			return &InvalidBookingError{Reason: fmt.Sprintf("traveller %d has no id", i+1)}
		case strings.TrimSpace(t.FirstName) == "" || strings.TrimSpace(t.LastName) == "":
			return &InvalidBookingError{Reason: fmt.Sprintf("traveller %s needs a first and last name", t.ClientID)}
		case t.Age <= 0:
			return &InvalidBookingError{Reason: fmt.Sprintf("traveller %s must have a positive age", t.ClientID)}
		}
	}
	return nil
}

// findConflict reports the first existing ticket sharing a route id with routeIDs.
func findConflict(existing []models.Ticket, routeIDs []string) *ConflictingReservationError {
	wanted := make(map[string]struct{}, len(routeIDs))
	for _, id := range routeIDs {
		wanted[id] = struct{}{}
	}

	for _, ticket := range existing {
		var shared []string
		for _, id := range ticket.RouteIDs {
			if _, ok := wanted[id]; ok {
				shared = append(shared, id)
			}
		}
		if len(shared) > 0 {
			return &ConflictingReservationError{RouteIDs: shared, ExistingTripID: ticket.TripID}
		}
	}
	return nil
}

// ViewTrips lists the trips of a client, who must confirm their last name.
func (s *BookingService) ViewTrips(ctx context.Context, clientID, lastName string) ([]models.Trip, error) {
	client, err := s.store.GetClient(ctx, clientID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, &UnknownClientError{ClientID: clientID}
		}
		return nil, fmt.Errorf("failed to get client: %w", err)
	}

	if !strings.EqualFold(strings.TrimSpace(client.LastName), strings.TrimSpace(lastName)) {
		return nil, &NameMismatchError{ClientID: clientID}
	}

	trips, err := s.store.FindTripsByClient(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to get trips: %w", err)
	}
	return trips, nil
}
