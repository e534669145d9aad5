// Package trip implements the trip lifecycle: creation, retrieval,
// scope-filtered listing and the status-update path that applies the
// state machine and stamps lifecycle timestamps.
package trip

import (
	"context"
	"errors"
	"fmt"
	"time"

	apperrors "github.com/CareFleet/care-fleet-backend/errors"
	"github.com/CareFleet/care-fleet-backend/logger"
	"github.com/CareFleet/care-fleet-backend/models/access"
	"github.com/CareFleet/care-fleet-backend/store"
	"github.com/CareFleet/care-fleet-backend/types"
)

// Service handles trip operations.
type Service struct {
	trips  store.TripStore
	access *access.Calculator
	now    func() time.Time
}

// NewService creates a trip service.
func NewService(trips store.TripStore, calc *access.Calculator) *Service {
	return &Service{
		trips:  trips,
		access: calc,
		now:    time.Now,
	}
}

// CreateTrip books a new trip in scheduled status.
func (s *Service) CreateTrip(ctx context.Context, trip types.Trip) (*types.Trip, error) {
	if trip.ProgramID == "" {
		return nil, apperrors.ValidationFailed("program is required", "a trip must belong to a program")
	}
	if trip.ClientID == "" {
		return nil, apperrors.ValidationFailed("client is required", "a trip must have a client to transport")
	}
	if trip.TripType == "" {
		trip.TripType = types.TripTypeOneWay
	}
	trip.Status = types.TripStatusScheduled

	created, err := s.trips.CreateTrip(ctx, trip)
	if err != nil {
		return nil, fmt.Errorf("create trip: %w", err)
	}
	return created, nil
}

// GetTrip fetches a trip by id.
func (s *Service) GetTrip(ctx context.Context, id string) (*types.Trip, error) {
	trip, err := s.trips.GetTrip(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.TripNotFound(id)
		}
		return nil, fmt.Errorf("get trip %s: %w", id, err)
	}
	return trip, nil
}

// ListTrips returns the trips visible to the requester. Breadth roles
// (super_admin, corporate_admin) are filtered through the data-access
// scope calculator; narrow roles fall back to the user's own program
// assignments.
func (s *Service) ListTrips(ctx context.Context, requester *types.User, filter types.TripFilter) ([]types.Trip, error) {
	scope, err := s.access.GetDataAccessScope(ctx, requester.Role, requester.CorporateClientID)
	if err != nil {
		return nil, fmt.Errorf("compute data access scope: %w", err)
	}

	switch scope.Programs.Mode {
	case types.ScopeModeUnrestricted:
		// no program narrowing
	case types.ScopeModeExplicit:
		filter.ProgramIDs = intersect(filter.ProgramIDs, scope.Programs.IDs)
		if len(filter.ProgramIDs) == 0 {
			return []types.Trip{}, nil
		}
	case types.ScopeModeDeferToAssignment:
		assigned := requester.AuthorizedPrograms
		if requester.PrimaryProgramID != "" {
			assigned = append([]string{requester.PrimaryProgramID}, assigned...)
		}
		filter.ProgramIDs = intersect(filter.ProgramIDs, assigned)
		if len(filter.ProgramIDs) == 0 {
			return []types.Trip{}, nil
		}
	}

	if requester.Role == types.RoleDriver {
		filter.DriverID = requester.ID
	}

	trips, err := s.trips.ListTrips(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list trips: %w", err)
	}
	return trips, nil
}

// UpdateStatus moves a trip through its lifecycle. Same-status writes
// are a no-op success. Entering in_progress stamps the pickup time and
// entering completed stamps the dropoff time; round trips additionally
// stamp the return time on completion.
func (s *Service) UpdateStatus(ctx context.Context, tripID string, requested types.TripStatus) (*types.Trip, error) {
	log := logger.GetLogger()

	if !requested.IsValid() {
		return nil, apperrors.UnknownStatus(requested.String())
	}

	current, err := s.GetTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}

	check := types.ValidateTransition(current.Status, requested)
	if !check.IsValid {
		if !current.Status.IsValid() {
			return nil, apperrors.UnknownStatus(current.Status.String())
		}
		return nil, apperrors.InvalidStatusTransition(current.Status.String(), requested.String(), check.Reason)
	}

	if current.Status == requested {
		// No-op write; nothing to persist, no timestamp churn.
		return current, nil
	}

	effects := types.DeriveTimestampEffects(current.Status, requested)
	update := types.TripStatusUpdate{Status: requested}
	now := s.now()
	if effects.SetPickup {
		update.ActualPickupTime = &now
	}
	if effects.SetDropoff {
		update.ActualDropoffTime = &now
		// The state machine only decides pickup/dropoff; the return
		// stamp depends on the trip type, which is this call site's
		// responsibility.
		if current.TripType == types.TripTypeRoundTrip {
			update.ActualReturnTime = &now
		}
	}

	updated, err := s.trips.UpdateTripStatus(ctx, tripID, update)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.TripNotFound(tripID)
		}
		return nil, fmt.Errorf("update trip %s status: %w", tripID, err)
	}

	log.Infow("Trip status updated",
		"tripID", tripID,
		"from", current.Status,
		"to", requested,
		"pickupStamped", effects.SetPickup,
		"dropoffStamped", effects.SetDropoff,
	)
	return updated, nil
}

func intersect(requested, allowed []string) []string {
	if len(requested) == 0 {
		return allowed
	}
	allowedSet := make(map[string]struct{}, len(allowed))
	for _, id := range allowed {
		allowedSet[id] = struct{}{}
	}
	var out []string
	for _, id := range requested {
		if _, ok := allowedSet[id]; ok {
			out = append(out, id)
		}
	}
	return out
}
