package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/custrec/customer-service/internal/core/domain"
	"github.com/custrec/customer-service/internal/core/ports"
)

const customerColumns = `id, name, phone, address`

type CustomerRepository struct {
	db DB
}

func NewCustomerRepository(db DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

func (r *CustomerRepository) Create(ctx context.Context, c domain.Customer) (*domain.Customer, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	var out domain.Customer
	err := r.db.QueryRow(ctx,
		`INSERT INTO customers (name, phone, address) VALUES ($1, $2, $3)
		 RETURNING `+customerColumns,
		c.Name, c.Phone, c.Address,
	).Scan(&out.ID, &out.Name, &out.Phone, &out.Address)
	if err != nil {
		return nil, fmt.Errorf("insert customer: %w", err)
	}
	return &out, nil
}

func (r *CustomerRepository) FindByID(ctx context.Context, id int64) (*domain.Customer, error) {
	var out domain.Customer
	err := r.db.QueryRow(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE id = $1`, id,
	).Scan(&out.ID, &out.Name, &out.Phone, &out.Address)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCustomerNotFound
		}
		return nil, fmt.Errorf("get customer %d: %w", id, err)
	}
	return &out, nil
}

// List runs the page query and the count query as two separate reads; a
// concurrent write between them can make total disagree with the page by one.
func (r *CustomerRepository) List(ctx context.Context, f ports.ListCustomersFilter) ([]domain.Customer, int64, error) {
	where, args := customerSearchClause(f.Search)

	query := `SELECT ` + customerColumns + ` FROM customers` + where +
		fmt.Sprintf(` ORDER BY id ASC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	rows, err := r.db.Query(ctx, query, append(args, f.Limit, f.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()

	customers := []domain.Customer{}
	for rows.Next() {
		var c domain.Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Phone, &c.Address); err != nil {
			return nil, 0, fmt.Errorf("scan customer: %w", err)
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate customers: %w", err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM customers`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count customers: %w", err)
	}

	return customers, total, nil
}

func (r *CustomerRepository) Update(ctx context.Context, c domain.Customer) (*domain.Customer, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	var out domain.Customer
	err := r.db.QueryRow(ctx,
		`UPDATE customers SET name = $2, phone = $3, address = $4, updated_at = now()
		 WHERE id = $1 RETURNING `+customerColumns,
		c.ID, c.Name, c.Phone, c.Address,
	).Scan(&out.ID, &out.Name, &out.Phone, &out.Address)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCustomerNotFound
		}
		return nil, fmt.Errorf("update customer %d: %w", c.ID, err)
	}
	return &out, nil
}

func (r *CustomerRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete customer %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCustomerNotFound
	}
	return nil
}

// customerSearchClause matches the term as a case-insensitive substring of
// name or phone. LIKE wildcards in the term are matched literally.
func customerSearchClause(search string) (string, []any) {
	if search == "" {
		return "", nil
	}
	return ` WHERE name ILIKE $1 OR phone ILIKE $1`, []any{"%" + escapeLike(search) + "%"}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
