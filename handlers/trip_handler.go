package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/CareFleet/care-fleet-backend/errors"
	"github.com/CareFleet/care-fleet-backend/logger"
	"github.com/CareFleet/care-fleet-backend/middleware"
	"github.com/CareFleet/care-fleet-backend/models/trip"
	"github.com/CareFleet/care-fleet-backend/store"
	"github.com/CareFleet/care-fleet-backend/types"
)

// TripHandler exposes the trip lifecycle over HTTP.
type TripHandler struct {
	tripService *trip.Service
	users       store.UserStore
}

func NewTripHandler(tripService *trip.Service, users store.UserStore) *TripHandler {
	return &TripHandler{
		tripService: tripService,
		users:       users,
	}
}

// TripCreateRequest is the payload for booking a trip.
type TripCreateRequest struct {
	CorporateClientID string    `json:"corporateClientId" binding:"required"`
	ProgramID         string    `json:"programId" binding:"required"`
	ClientID          string    `json:"clientId" binding:"required"`
	DriverID          string    `json:"driverId"`
	PickupLocationID  string    `json:"pickupLocationId"`
	DropoffLocationID string    `json:"dropoffLocationId"`
	PickupAddress     string    `json:"pickupAddress" binding:"required"`
	DropoffAddress    string    `json:"dropoffAddress" binding:"required"`
	ScheduledPickup   time.Time `json:"scheduledPickupTime" binding:"required"`
	TripType          string    `json:"tripType"`
	Notes             string    `json:"notes"`
}

// TripStatusUpdateRequest is the payload for a status change.
type TripStatusUpdateRequest struct {
	Status string `json:"status" binding:"required"`
}

// CreateTripHandler books a new trip in scheduled status.
func (h *TripHandler) CreateTripHandler(c *gin.Context) {
	log := logger.GetLogger()

	var req TripCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Debugw("Invalid trip create request", "error", err)
		_ = c.Error(apperrors.ValidationFailed("Invalid request body", err.Error()))
		return
	}

	userID := c.GetString(middleware.UserIDKey)
	if userID == "" {
		_ = c.Error(apperrors.Unauthorized("missing_auth", "Authentication required"))
		return
	}

	created, err := h.tripService.CreateTrip(c.Request.Context(), types.Trip{
		CorporateClientID: req.CorporateClientID,
		ProgramID:         req.ProgramID,
		ClientID:          req.ClientID,
		DriverID:          req.DriverID,
		PickupLocationID:  req.PickupLocationID,
		DropoffLocationID: req.DropoffLocationID,
		PickupAddress:     req.PickupAddress,
		DropoffAddress:    req.DropoffAddress,
		ScheduledPickup:   req.ScheduledPickup,
		TripType:          types.TripType(req.TripType),
		Notes:             req.Notes,
		CreatedBy:         userID,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

// GetTripHandler fetches a single trip by id.
func (h *TripHandler) GetTripHandler(c *gin.Context) {
	tripID := c.Param("id")
	if tripID == "" {
		_ = c.Error(apperrors.ValidationFailed("Trip ID missing", "trip id is required"))
		return
	}

	found, err := h.tripService.GetTrip(c.Request.Context(), tripID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, found)
}

// ListTripsHandler returns the trips visible to the requester. Optional
// query filters narrow within, never beyond, the requester's scope.
func (h *TripHandler) ListTripsHandler(c *gin.Context) {
	userID := c.GetString(middleware.UserIDKey)
	if userID == "" {
		_ = c.Error(apperrors.Unauthorized("missing_auth", "Authentication required"))
		return
	}

	requester, err := h.users.GetUser(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			_ = c.Error(apperrors.UserNotFound(userID))
			return
		}
		_ = c.Error(apperrors.NewDatabaseError(err))
		return
	}

	filter := types.TripFilter{
		ProgramIDs: c.QueryArray("program_id"),
		DriverID:   c.Query("driver_id"),
	}
	if status := c.Query("status"); status != "" {
		ts := types.TripStatus(status)
		if !ts.IsValid() {
			_ = c.Error(apperrors.UnknownStatus(status))
			return
		}
		filter.Status = ts
	}

	trips, err := h.tripService.ListTrips(c.Request.Context(), requester, filter)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if trips == nil {
		trips = []types.Trip{}
	}
	c.JSON(http.StatusOK, gin.H{"trips": trips})
}

// UpdateTripStatusHandler moves a trip through its lifecycle. The state
// machine decides validity and timestamp stamping; the handler only
// translates the outcome.
func (h *TripHandler) UpdateTripStatusHandler(c *gin.Context) {
	tripID := c.Param("id")
	if tripID == "" {
		_ = c.Error(apperrors.ValidationFailed("Trip ID missing", "trip id is required"))
		return
	}

	var req TripStatusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.ValidationFailed("Invalid request body", err.Error()))
		return
	}

	updated, err := h.tripService.UpdateStatus(c.Request.Context(), tripID, types.TripStatus(req.Status))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, updated)
}
