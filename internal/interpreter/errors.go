package interpreter

import (
	"errors"
	"strings"
)

var (
	ErrTargetNotFound = errors.New("target posting not found")
	ErrNotOwner       = errors.New("acting user does not own the posting")
	ErrInvalidFields  = errors.New("invalid job fields")
)

// InvalidFieldsError lists every field problem found in a create or edit
type InvalidFieldsError struct {
	Problems []string
}

func (e *InvalidFieldsError) Error() string {
	return ErrInvalidFields.Error() + ": " + strings.Join(e.Problems, ", ")
}

func (e *InvalidFieldsError) Is(target error) bool {
	return target == ErrInvalidFields
}
