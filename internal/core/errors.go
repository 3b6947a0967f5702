package core

import (
	"errors"
	"fmt"
)

// Validation failures. The operation is aborted before any mutation.
var (
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInvalidDate         = errors.New("invalid date")
	ErrInvalidFilter       = errors.New("invalid recurrence filter")
	ErrInvalidInstallments = errors.New("invalid installments")
	ErrEmptyCategory       = errors.New("empty category")
	ErrUnknownCategory     = errors.New("unknown category")
	ErrEmptyName           = errors.New("empty name")
	ErrDescriptionTooLong  = errors.New("description too long (max 200 characters)")
	ErrMissingOriginalDate = errors.New("recurring transaction needs an original date")
)

// Collection operation failures.
var (
	ErrNotFound         = errors.New("record not found")
	ErrDuplicateEntry   = errors.New("entry already exists")
	ErrDefaultProtected = errors.New("default entry cannot be removed")
)

// CorruptDataError reports that a persisted value failed to decode. It is not
// recoverable here; callers should offer a reset-to-default path.
type CorruptDataError struct {
	Key string
	Err error
}

func (e *CorruptDataError) Error() string {
	return fmt.Sprintf("corrupt data at key %q: %v", e.Key, e.Err)
}

func (e *CorruptDataError) Unwrap() error { return e.Err }

// IsValidation reports whether err belongs to the recoverable user-input
// family of errors.
func IsValidation(err error) bool {
	for _, v := range []error{
		ErrInvalidAmount, ErrInvalidDate, ErrInvalidFilter, ErrInvalidInstallments,
		ErrEmptyCategory, ErrUnknownCategory, ErrEmptyName,
		ErrDescriptionTooLong, ErrMissingOriginalDate,
	} {
		if errors.Is(err, v) {
			return true
		}
	}
	return false
}
