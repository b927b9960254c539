package models

import "errors"

var (
	// ErrNotFound is returned when a requested resource is not found.
	ErrNotFound = errors.New("resource not found")

	// ErrConflict is returned when a resource already exists, e.g. a taken email address.
	ErrConflict = errors.New("resource already exists")

	// ErrInvalidCredentials is returned on a failed login attempt.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrForbidden is returned when a member touches a resource they do not own.
	ErrForbidden = errors.New("not allowed to access this resource")

	// ErrRouteFull is returned when an add would push a route past the
	// ten-stop limit. The add is rejected as a whole; no partial state is kept.
	ErrRouteFull = errors.New("a trip can hold at most 10 stops")

	// ErrMissingTripTitle blocks submission of a trip without a title.
	ErrMissingTripTitle = errors.New("trip title is required")

	// ErrMissingTripID is returned when an update is attempted without a
	// known trip identifier. This is fatal for the submission, not retried.
	ErrMissingTripID = errors.New("cannot update a trip without its identifier")

	// ErrSubmitInFlight is returned when a submission is attempted while a
	// previous one for the same session has not completed yet.
	ErrSubmitInFlight = errors.New("a submission is already in progress")

	// ErrSessionNotFound is returned when a planner session id does not
	// resolve to a live session.
	ErrSessionNotFound = errors.New("planner session not found")
)

// ErrorResponse is the JSON body returned for any failed request.
type ErrorResponse struct {
	Message string `json:"message"`
}
