package services

import "fmt"

// ValidationError reports a client-correctable problem with the request.
// No store mutation has happened when it is returned.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s", e.Message)
}

// InsufficientStockError is returned by the guarded placement path when a
// line item asks for more units than a product has. The transaction is
// aborted, so no stock was deducted.
type InsufficientStockError struct {
	ProductID string
	Quantity  int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s (requested %d)", e.ProductID, e.Quantity)
}

// Placement steps named in PersistenceError.
const (
	StepDecrementStock = "deduct stock"
	StepSaveOrder      = "save order"
)

// PersistenceError wraps a store failure and names the step that failed,
// because the two steps have different side-effect footprints: a failed
// decrement mutated nothing, a failed save may follow an applied decrement.
type PersistenceError struct {
	Step string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence: %s: %v", e.Step, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
