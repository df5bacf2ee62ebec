package checkout

import (
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrEmptyCart is returned when checkout is attempted with no cart lines.
// Nothing is persisted.
var ErrEmptyCart = errors.New("cart is empty, nothing to checkout")

// ValidationError reports the first malformed input field. Nothing is
// persisted when it is returned.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// PersistenceError wraps a failed store write. For the order write nothing
// else proceeds.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// PartialPersistenceError means the order document exists but its items do
// not, or are incomplete. Recovery is manual: the order stays visible to
// administrators as pending with no items and is never retried
// automatically, to avoid double-charging.
type PartialPersistenceError struct {
	OrderID  primitive.ObjectID
	Inserted int
	Expected int
	Err      error
}

func (e *PartialPersistenceError) Error() string {
	return fmt.Sprintf("order %s persisted with %d of %d items", e.OrderID.Hex(), e.Inserted, e.Expected)
}

func (e *PartialPersistenceError) Unwrap() error { return e.Err }

// GatewayError means the external payment call failed or timed out. By the
// time it surfaces, the compensating cancellation has already run: the order
// is cancelled with payment marked failed.
type GatewayError struct {
	OrderID primitive.ObjectID
	Err     error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("payment gateway failed for order %s: %v", e.OrderID.Hex(), e.Err)
}

func (e *GatewayError) Unwrap() error { return e.Err }
