package service

import (
	"context"
	"errors"
	"math"
	"strings"

	"github.com/rs/zerolog"

	"github.com/custrec/customer-service/internal/core/domain"
	"github.com/custrec/customer-service/internal/core/ports"
)

const (
	defaultPage  = 1
	defaultLimit = 5
	maxLimit     = 100
)

type CustomerService struct {
	repo   ports.CustomerRepository
	idem   ports.IdempotencyStore
	logger zerolog.Logger
}

// NewCustomerService wires the repository. idem may be nil, in which case
// Idempotency-Key headers are ignored.
func NewCustomerService(repo ports.CustomerRepository, idem ports.IdempotencyStore, logger zerolog.Logger) *CustomerService {
	return &CustomerService{repo: repo, idem: idem, logger: logger}
}

// Create stores a new customer. When an idempotency key is given and was
// already used, the customer created by the first request is returned instead.
func (s *CustomerService) Create(ctx context.Context, input ports.CustomerInput, idempotencyKey string) (*domain.Customer, error) {
	c := toCustomer(0, input)
	if err := c.Validate(); err != nil {
		return nil, err
	}

	reserved := false
	if idempotencyKey != "" && s.idem != nil {
		ok, id, err := s.idem.Reserve(ctx, idempotencyKey)
		switch {
		case err != nil:
			s.logger.Warn().Err(err).Str("idempotency_key", idempotencyKey).Msg("idempotency reserve failed, creating anyway")
		case ok:
			reserved = true
		case id == 0:
			return nil, domain.ErrIdempotencyInProgress
		default:
			existing, err := s.repo.FindByID(ctx, id)
			if err == nil {
				s.logger.Info().Str("idempotency_key", idempotencyKey).Int64("customer_id", id).Msg("idempotent replay")
				return existing, nil
			}
			if !errors.Is(err, domain.ErrCustomerNotFound) {
				return nil, err
			}
			// The original customer was deleted since; create again and re-point the key.
			reserved = true
		}
	}

	created, err := s.repo.Create(ctx, c)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to create customer")
		if reserved {
			if rerr := s.idem.Release(ctx, idempotencyKey); rerr != nil {
				s.logger.Warn().Err(rerr).Str("idempotency_key", idempotencyKey).Msg("failed to release idempotency key")
			}
		}
		return nil, err
	}

	if reserved {
		if err := s.idem.Remember(ctx, idempotencyKey, created.ID); err != nil {
			s.logger.Warn().Err(err).Str("idempotency_key", idempotencyKey).Msg("failed to store idempotency key")
		}
	}

	s.logger.Info().Int64("customer_id", created.ID).Msg("customer created")
	return created, nil
}

func (s *CustomerService) Get(ctx context.Context, id int64) (*domain.Customer, error) {
	if id <= 0 {
		return nil, domain.ErrCustomerNotFound
	}
	return s.repo.FindByID(ctx, id)
}

// List returns one page of customers. Page defaults to 1 and limit to 5 when
// absent or non-positive; limit is capped at 100. LastPage is 0 when nothing
// matches.
func (s *CustomerService) List(ctx context.Context, input ports.ListCustomersInput) (*ports.ListCustomersResult, error) {
	page, limit := normalizePage(input.Page, input.Limit)

	items, total, err := s.repo.List(ctx, ports.ListCustomersFilter{
		Search: strings.TrimSpace(input.Search),
		Offset: pageOffset(page, limit),
		Limit:  limit,
	})
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.Customer{}
	}

	return &ports.ListCustomersResult{
		Items:    items,
		Total:    total,
		Page:     page,
		Limit:    limit,
		LastPage: lastPage(total, limit),
	}, nil
}

// Update replaces every mutable field; concurrent updates are last-write-wins.
func (s *CustomerService) Update(ctx context.Context, id int64, input ports.CustomerInput) (*domain.Customer, error) {
	if id <= 0 {
		return nil, domain.ErrCustomerNotFound
	}
	c := toCustomer(id, input)
	if err := c.Validate(); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, c)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("customer_id", id).Msg("customer updated")
	return updated, nil
}

func (s *CustomerService) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return domain.ErrCustomerNotFound
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Int64("customer_id", id).Msg("customer deleted")
	return nil
}

func toCustomer(id int64, in ports.CustomerInput) domain.Customer {
	return domain.Customer{
		ID:      id,
		Name:    in.Name,
		Phone:   in.Phone,
		Address: in.Address,
	}
}

func normalizePage(page, limit int) (int, int) {
	if page <= 0 {
		page = defaultPage
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return page, limit
}

// pageOffset is (page-1)*limit, saturating at math.MaxInt so a huge page
// lands past the end instead of wrapping around.
func pageOffset(page, limit int) int {
	if page-1 > math.MaxInt/limit {
		return math.MaxInt
	}
	return (page - 1) * limit
}

// lastPage is ceil(total/limit).
func lastPage(total int64, limit int) int {
	if total <= 0 || limit <= 0 {
		return 0
	}
	l := int64(limit)
	return int((total + l - 1) / l)
}
