package ports

import (
	"context"

	"github.com/custrec/customer-service/internal/core/domain"
)

// ListCustomersFilter carries the already-normalized query for a page of customers.
type ListCustomersFilter struct {
	Search string // optional: substring match on name or phone
	Offset int
	Limit  int
}

// CustomerRepository defines persistence operations for customers.
type CustomerRepository interface {
	Create(ctx context.Context, c domain.Customer) (*domain.Customer, error)
	FindByID(ctx context.Context, id int64) (*domain.Customer, error)
	// List returns one page ordered by id ascending plus the filtered total.
	List(ctx context.Context, filter ListCustomersFilter) ([]domain.Customer, int64, error)
	// Update replaces name, phone and address of an existing customer.
	Update(ctx context.Context, c domain.Customer) (*domain.Customer, error)
	Delete(ctx context.Context, id int64) error
}

// IdempotencyStore remembers which customer a client-supplied key produced.
type IdempotencyStore interface {
	// Reserve atomically claims key for the caller. When the key is already
	// claimed, reserved is false and customerID is the id stored by the
	// first request, or 0 while that request is still running.
	Reserve(ctx context.Context, key string) (reserved bool, customerID int64, err error)
	// Remember points key at the customer the request created.
	Remember(ctx context.Context, key string, customerID int64) error
	// Release drops a reservation whose request failed.
	Release(ctx context.Context, key string) error
}
