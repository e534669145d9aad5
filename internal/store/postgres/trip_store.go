package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/CareFleet/care-fleet-backend/store"
	"github.com/CareFleet/care-fleet-backend/types"
)

// TripStore implements store.TripStore using PostgreSQL. Trips are
// never deleted; cancellation is a status write.
type TripStore struct {
	db DB
}

// NewTripStore creates a TripStore instance.
func NewTripStore(db DB) *TripStore {
	return &TripStore{db: db}
}

const tripColumns = `id, corporate_client_id, program_id, client_id,
	COALESCE(driver_id, ''), COALESCE(pickup_location_id, ''), COALESCE(dropoff_location_id, ''),
	pickup_address, dropoff_address, scheduled_pickup_time, trip_type, status,
	actual_pickup_time, actual_dropoff_time, actual_return_time,
	COALESCE(notes, ''), created_by, created_at, updated_at`

func scanTrip(row pgx.Row) (*types.Trip, error) {
	trip := &types.Trip{}
	err := row.Scan(
		&trip.ID,
		&trip.CorporateClientID,
		&trip.ProgramID,
		&trip.ClientID,
		&trip.DriverID,
		&trip.PickupLocationID,
		&trip.DropoffLocationID,
		&trip.PickupAddress,
		&trip.DropoffAddress,
		&trip.ScheduledPickup,
		&trip.TripType,
		&trip.Status,
		&trip.ActualPickupTime,
		&trip.ActualDropoffTime,
		&trip.ActualReturnTime,
		&trip.Notes,
		&trip.CreatedBy,
		&trip.CreatedAt,
		&trip.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return trip, nil
}

// CreateTrip persists a new trip.
func (s *TripStore) CreateTrip(ctx context.Context, trip types.Trip) (*types.Trip, error) {
	if trip.ID == "" {
		trip.ID = uuid.New().String()
	}

	query := fmt.Sprintf(`
		INSERT INTO trips (id, corporate_client_id, program_id, client_id, driver_id,
			pickup_location_id, dropoff_location_id, pickup_address, dropoff_address,
			scheduled_pickup_time, trip_type, status, notes, created_by)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, ''), NULLIF($7, ''), $8, $9, $10, $11, $12, NULLIF($13, ''), $14)
		RETURNING %s`, tripColumns)

	created, err := scanTrip(s.db.QueryRow(ctx, query,
		trip.ID,
		trip.CorporateClientID,
		trip.ProgramID,
		trip.ClientID,
		trip.DriverID,
		trip.PickupLocationID,
		trip.DropoffLocationID,
		trip.PickupAddress,
		trip.DropoffAddress,
		trip.ScheduledPickup,
		string(trip.TripType),
		string(trip.Status),
		trip.Notes,
		trip.CreatedBy,
	))
	if err != nil {
		return nil, fmt.Errorf("error creating trip: %w", translateError(err))
	}
	return created, nil
}

// GetTrip fetches a trip by id.
func (s *TripStore) GetTrip(ctx context.Context, id string) (*types.Trip, error) {
	query := fmt.Sprintf("SELECT %s FROM trips WHERE id = $1", tripColumns)

	trip, err := scanTrip(s.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("error getting trip: %w", translateError(err))
	}
	return trip, nil
}

// ListTrips returns trips matching the visibility filter.
func (s *TripStore) ListTrips(ctx context.Context, filter types.TripFilter) ([]types.Trip, error) {
	query := fmt.Sprintf("SELECT %s FROM trips WHERE 1=1", tripColumns)
	var args []any

	if len(filter.ProgramIDs) > 0 {
		args = append(args, filter.ProgramIDs)
		query += fmt.Sprintf(" AND program_id = ANY($%d)", len(args))
	}
	if len(filter.CorporateClientIDs) > 0 {
		args = append(args, filter.CorporateClientIDs)
		query += fmt.Sprintf(" AND corporate_client_id = ANY($%d)", len(args))
	}
	if filter.DriverID != "" {
		args = append(args, filter.DriverID)
		query += fmt.Sprintf(" AND driver_id = $%d", len(args))
	}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	query += " ORDER BY scheduled_pickup_time"

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing trips: %w", translateError(err))
	}
	defer rows.Close()

	var trips []types.Trip
	for rows.Next() {
		trip, err := scanTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning trip: %w", err)
		}
		trips = append(trips, *trip)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading trips: %w", translateError(err))
	}
	return trips, nil
}

// UpdateTripStatus writes the status and stamps any timestamps the
// transition set. Nil timestamps leave the stored values untouched.
func (s *TripStore) UpdateTripStatus(ctx context.Context, id string, update types.TripStatusUpdate) (*types.Trip, error) {
	query := fmt.Sprintf(`
		UPDATE trips
		SET status = $1,
			actual_pickup_time = COALESCE($2, actual_pickup_time),
			actual_dropoff_time = COALESCE($3, actual_dropoff_time),
			actual_return_time = COALESCE($4, actual_return_time),
			updated_at = NOW()
		WHERE id = $5
		RETURNING %s`, tripColumns)

	trip, err := scanTrip(s.db.QueryRow(ctx, query,
		string(update.Status),
		update.ActualPickupTime,
		update.ActualDropoffTime,
		update.ActualReturnTime,
		id,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("error updating trip status: %w", translateError(err))
	}
	return trip, nil
}
