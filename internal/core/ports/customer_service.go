package ports

import (
	"context"

	"github.com/custrec/customer-service/internal/core/domain"
)

// CustomerInput carries the mutable fields of a customer.
type CustomerInput struct {
	Name    string
	Phone   string
	Address string
}

// ListCustomersInput carries the raw list parameters; zero values mean "default".
type ListCustomersInput struct {
	Page   int
	Limit  int
	Search string
}

// ListCustomersResult is returned by CustomerService.List.
type ListCustomersResult struct {
	Items    []domain.Customer
	Total    int64
	Page     int
	Limit    int
	LastPage int
}

// CustomerService defines use-case operations for customers.
type CustomerService interface {
	Create(ctx context.Context, input CustomerInput, idempotencyKey string) (*domain.Customer, error)
	Get(ctx context.Context, id int64) (*domain.Customer, error)
	List(ctx context.Context, input ListCustomersInput) (*ListCustomersResult, error)
	Update(ctx context.Context, id int64, input CustomerInput) (*domain.Customer, error)
	Delete(ctx context.Context, id int64) error
}
