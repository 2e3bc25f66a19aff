package domain

import "fmt"

// Typed errors shared by the engine, the service and the store adapters.
// Handlers map them to HTTP statuses with errors.As.

// ErrNotFound means the record does not exist for this user. Records owned
// by someone else are reported the same way.
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// ErrExternalService wraps a failed record store call. The cause is kept for
// logs; callers treat any failure as "record unchanged".
type ErrExternalService struct {
	Service string
	Err     error
}

func (e *ErrExternalService) Error() string {
	return fmt.Sprintf("record store %s failed: %v", e.Service, e.Err)
}

func (e *ErrExternalService) Unwrap() error { return e.Err }

// ErrTimeout means a store call ran past its deadline.
type ErrTimeout struct {
	Operation string
}

func (e *ErrTimeout) Error() string {
	return fmt.Sprintf("%s timed out", e.Operation)
}

// ErrCircuitOpen means calls to the store are being shed.
type ErrCircuitOpen struct {
	Service string
}

func (e *ErrCircuitOpen) Error() string {
	return fmt.Sprintf("record store %s is unavailable, try again shortly", e.Service)
}

// ErrValidation rejects a record before it reaches the store.
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// ErrDuplicate means an Idempotency-Key was reused for a different kind of
// record.
type ErrDuplicate struct {
	Key  string
	Kind Kind
}

func (e *ErrDuplicate) Error() string {
	if e.Kind == "" {
		return fmt.Sprintf("idempotency key %q already used", e.Key)
	}
	return fmt.Sprintf("idempotency key %q already used for a %s", e.Key, e.Kind)
}

// ErrUnauthorized means the request carried no valid token.
type ErrUnauthorized struct {
	Message string
}

func (e *ErrUnauthorized) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "unauthorized"
}
