package stateful

import (
	"fmt"
	"net/http"
)

// NotFoundError is returned when a collection or item does not exist.
type NotFoundError struct {
	Collection string
	ID         int
}

func (e *NotFoundError) Error() string {
	if e.ID != 0 {
		return fmt.Sprintf("collection %q item %d not found", e.Collection, e.ID)
	}
	return fmt.Sprintf("collection %q not found", e.Collection)
}

// StatusCode returns the HTTP status code for this error.
func (e *NotFoundError) StatusCode() int {
	return http.StatusNotFound
}

// ConflictError is returned when a create names an id that is already taken.
type ConflictError struct {
	Collection string
	ID         int
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("collection %q item %d already exists", e.Collection, e.ID)
}

// StatusCode returns the HTTP status code for this error.
func (e *ConflictError) StatusCode() int {
	return http.StatusConflict
}

// ValidationError is returned when a record cannot be accepted as given.
type ValidationError struct {
	Message string
	Field   string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %q: %s", e.Field, e.Message)
	}
	return e.Message
}

// StatusCode returns the HTTP status code for this error.
func (e *ValidationError) StatusCode() int {
	return http.StatusBadRequest
}

// StatusCodeError is an error that maps onto an HTTP status code.
type StatusCodeError interface {
	error
	StatusCode() int
}
