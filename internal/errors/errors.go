package errors

import "fmt"

const (
	ErrNotFound          = "NOT_FOUND"
	ErrInvalidTransition = "INVALID_TRANSITION"
	ErrConflict          = "CONFLICT"
	ErrValidation        = "VALIDATION"
	ErrNoDronesAvailable = "NO_DRONES_AVAILABLE"
	ErrNoSuitableDrone   = "NO_SUITABLE_DRONE"
	ErrScheduleViolation = "SCHEDULE_VIOLATION"
	ErrPersistence       = "PERSISTENCE"
	ErrInternal          = "INTERNAL"
)

type DomainError struct {
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

func Wrap(code, msg string, err error) *DomainError {
	return &DomainError{Code: code, Message: msg, Err: err}
}

// --- Generic ---

func NewNotFound(entity, id string) *DomainError {
	return &DomainError{Code: ErrNotFound, Message: fmt.Sprintf("%s with id %s not found", entity, id)}
}

func NewInvalidTransition(from, to string) *DomainError {
	return &DomainError{Code: ErrInvalidTransition, Message: fmt.Sprintf("cannot transition from %s to %s", from, to)}
}

func NewConflict(msg string) *DomainError {
	return &DomainError{Code: ErrConflict, Message: msg}
}

func NewValidation(msg string) *DomainError {
	return &DomainError{Code: ErrValidation, Message: msg}
}

func NewInternal(msg string, err error) *DomainError {
	return &DomainError{Code: ErrInternal, Message: msg, Err: err}
}

func NewPersistence(msg string, err error) *DomainError {
	return &DomainError{Code: ErrPersistence, Message: msg, Err: err}
}

// --- Matching ---

func NoDronesAvailable() *DomainError {
	return &DomainError{Code: ErrNoDronesAvailable, Message: "no drones available in the system"}
}

func NoSuitableDrone(weight, distance float64, category string) *DomainError {
	return &DomainError{
		Code:    ErrNoSuitableDrone,
		Message: fmt.Sprintf("no suitable drone found. Requirements: %gkg, %gkm range, %s type", weight, distance, category),
	}
}

// --- Order ---

func OrderNotFound(id string) *DomainError {
	return NewNotFound("order", id)
}

func OrderInvalidTransition(from, to string) *DomainError {
	return NewInvalidTransition(from, to)
}

func OrderAlreadyTerminal(status string) *DomainError {
	return NewConflict(fmt.Sprintf("order is already %s", status))
}

func ScheduleViolation(minLead string) *DomainError {
	return &DomainError{
		Code:    ErrScheduleViolation,
		Message: fmt.Sprintf("scheduled time must be at least %s in the future", minLead),
	}
}

// --- Drone ---

func DroneNotFound(id string) *DomainError {
	return NewNotFound("drone", id)
}

func DroneInvalidTransition(from, to string) *DomainError {
	return NewInvalidTransition(from, to)
}

func DroneNotAvailable(id string) *DomainError {
	return NewConflict(fmt.Sprintf("drone %s is not available", id))
}
