package parking

import (
	"errors"
	"fmt"
)

var (
	ErrValidation    = errors.New("validation failed")
	ErrDuplicateID   = errors.New("slot id already exists")
	ErrNotFound      = errors.New("slot not found")
	ErrAlreadyVacant = errors.New("slot already vacant")
)

// SlotError ties one of the sentinel errors above to the slot it concerns.
type SlotError struct {
	Err error
	ID  int
}

func (e *SlotError) Error() string {
	switch e.Err {
	case ErrDuplicateID:
		return fmt.Sprintf("Slot number %d already exists", e.ID)
	case ErrNotFound:
		return fmt.Sprintf("Slot %d not found", e.ID)
	case ErrAlreadyVacant:
		return fmt.Sprintf("Slot %d is already vacant", e.ID)
	case ErrValidation:
		return fmt.Sprintf("Invalid slot number %d: must be a positive integer", e.ID)
	default:
		return fmt.Sprintf("slot %d: %v", e.ID, e.Err)
	}
}

func (e *SlotError) Unwrap() error {
	return e.Err
}

func NotFoundError(id int) error {
	return &SlotError{Err: ErrNotFound, ID: id}
}

func DuplicateIDError(id int) error {
	return &SlotError{Err: ErrDuplicateID, ID: id}
}
