package types

import (
	"fmt"
	"strings"
	"time"
)

// TripStatus is the lifecycle state of a trip.
type TripStatus string

const (
	TripStatusScheduled  TripStatus = "scheduled"   // Booked, not yet confirmed
	TripStatusConfirmed  TripStatus = "confirmed"   // Confirmed by dispatch or driver
	TripStatusInProgress TripStatus = "in_progress" // Client picked up
	TripStatusCompleted  TripStatus = "completed"   // Client dropped off
	TripStatusCancelled  TripStatus = "cancelled"   // Cancelled before or during
	TripStatusNoShow     TripStatus = "no_show"     // Client did not appear
)

// tripStatusTransitions defines the legal lifecycle edges. Completed,
// cancelled and no_show are terminal.
var tripStatusTransitions = map[TripStatus][]TripStatus{
	TripStatusScheduled: {
		TripStatusConfirmed,
		TripStatusInProgress,
		TripStatusCancelled,
		TripStatusNoShow,
	},
	TripStatusConfirmed: {
		TripStatusInProgress,
		TripStatusCancelled,
		TripStatusNoShow,
	},
	TripStatusInProgress: {
		TripStatusCompleted,
		TripStatusCancelled,
	},
	TripStatusCompleted: {},
	TripStatusCancelled: {},
	TripStatusNoShow:    {},
}

// String provides a string representation of the status.
func (ts TripStatus) String() string {
	return string(ts)
}

// IsValid checks if the status is one of the six recognized trip statuses.
func (ts TripStatus) IsValid() bool {
	_, ok := tripStatusTransitions[ts]
	return ok
}

// IsTerminal reports whether the status admits no further transitions.
func (ts TripStatus) IsTerminal() bool {
	targets, ok := tripStatusTransitions[ts]
	return ok && len(targets) == 0
}

// AllowedTransitions returns the legal target statuses from this status.
// Unrecognized statuses have no legal targets.
func (ts TripStatus) AllowedTransitions() []TripStatus {
	targets := tripStatusTransitions[ts]
	out := make([]TripStatus, len(targets))
	copy(out, targets)
	return out
}

// TransitionCheck is the outcome of validating a status transition.
// Reason carries caller-facing text: "unchanged" for same-status writes,
// or the list of legal targets when the transition is rejected.
type TransitionCheck struct {
	IsValid bool   `json:"isValid"`
	Reason  string `json:"reason"`
}

// ValidateTransition decides whether a trip may move from one status to
// another. A same-status write is a valid no-op. An unrecognized current
// or requested status is rejected with a distinct reason, never coerced.
func ValidateTransition(from, to TripStatus) TransitionCheck {
	if !from.IsValid() {
		return TransitionCheck{IsValid: false, Reason: fmt.Sprintf("unknown current status %q", from)}
	}
	if !to.IsValid() {
		return TransitionCheck{IsValid: false, Reason: fmt.Sprintf("unknown requested status %q", to)}
	}
	if from == to {
		return TransitionCheck{IsValid: true, Reason: "unchanged"}
	}

	for _, allowed := range tripStatusTransitions[from] {
		if allowed == to {
			return TransitionCheck{IsValid: true, Reason: ""}
		}
	}

	targets := tripStatusTransitions[from]
	if len(targets) == 0 {
		return TransitionCheck{
			IsValid: false,
			Reason:  fmt.Sprintf("status %q is terminal and cannot change", from),
		}
	}
	names := make([]string, len(targets))
	for i, t := range targets {
		names[i] = string(t)
	}
	return TransitionCheck{
		IsValid: false,
		Reason:  fmt.Sprintf("cannot change status from %q to %q; allowed: %s", from, to, strings.Join(names, ", ")),
	}
}

// TimestampEffects lists the lifecycle timestamps a status transition
// must stamp. Round-trip return-time stamping is decided at the call
// site from the trip type, not here.
type TimestampEffects struct {
	SetPickup  bool `json:"setPickup"`
	SetDropoff bool `json:"setDropoff"`
}

// DeriveTimestampEffects computes which timestamps a transition stamps:
// entering in_progress sets the pickup time, entering completed sets the
// dropoff time. Total over all (from, to) pairs; same-status writes and
// invalid transitions stamp nothing.
func DeriveTimestampEffects(previous, next TripStatus) TimestampEffects {
	check := ValidateTransition(previous, next)
	if !check.IsValid || previous == next {
		return TimestampEffects{}
	}
	return TimestampEffects{
		SetPickup:  next == TripStatusInProgress,
		SetDropoff: next == TripStatusCompleted,
	}
}

// TripType distinguishes one-way trips from round trips, which also
// stamp a return time on completion.
type TripType string

const (
	TripTypeOneWay    TripType = "one_way"
	TripTypeRoundTrip TripType = "round_trip"
)

// Trip is a scheduled non-emergency medical transport.
type Trip struct {
	ID                string     `json:"id"`
	CorporateClientID string     `json:"corporateClientId"`
	ProgramID         string     `json:"programId"`
	ClientID          string     `json:"clientId"`
	DriverID          string     `json:"driverId,omitempty"`
	PickupLocationID  string     `json:"pickupLocationId,omitempty"`
	DropoffLocationID string     `json:"dropoffLocationId,omitempty"`
	PickupAddress     string     `json:"pickupAddress"`
	DropoffAddress    string     `json:"dropoffAddress"`
	ScheduledPickup   time.Time  `json:"scheduledPickupTime"`
	TripType          TripType   `json:"tripType"`
	Status            TripStatus `json:"status"`
	ActualPickupTime  *time.Time `json:"actualPickupTime,omitempty"`
	ActualDropoffTime *time.Time `json:"actualDropoffTime,omitempty"`
	ActualReturnTime  *time.Time `json:"actualReturnTime,omitempty"`
	Notes             string     `json:"notes,omitempty"`
	CreatedBy         string     `json:"createdBy"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

// TripStatusUpdate carries a status write and the timestamps it stamps.
// Nil timestamps are left untouched by the store.
type TripStatusUpdate struct {
	Status            TripStatus
	ActualPickupTime  *time.Time
	ActualDropoffTime *time.Time
	ActualReturnTime  *time.Time
}

// TripFilter narrows trip list queries to the requester's visible scope.
type TripFilter struct {
	CorporateClientIDs []string
	ProgramIDs         []string
	DriverID           string
	Status             TripStatus
}
