package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/custrec/customer-service/internal/core/domain"
	"github.com/custrec/customer-service/internal/core/ports"
)

const customersCollection = "customers"

type CustomerRepository struct {
	col *mongo.Collection
	seq *sequence
}

func NewCustomerRepository(db *mongo.Database) *CustomerRepository {
	return &CustomerRepository{
		col: db.Collection(customersCollection),
		seq: newSequence(db, customersCollection),
	}
}

type mongoCustomer struct {
	ID        int64     `bson:"_id"`
	Name      string    `bson:"name"`
	Phone     string    `bson:"phone"`
	Address   string    `bson:"address"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func (m mongoCustomer) toDomain() domain.Customer {
	return domain.Customer{ID: m.ID, Name: m.Name, Phone: m.Phone, Address: m.Address}
}

func (r *CustomerRepository) Create(ctx context.Context, c domain.Customer) (*domain.Customer, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := r.seq.next(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	doc := mongoCustomer{ID: id, Name: c.Name, Phone: c.Phone, Address: c.Address, CreatedAt: now, UpdatedAt: now}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert customer: %w", err)
	}

	out := doc.toDomain()
	return &out, nil
}

func (r *CustomerRepository) FindByID(ctx context.Context, id int64) (*domain.Customer, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var m mongoCustomer
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&m); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCustomerNotFound
		}
		return nil, fmt.Errorf("get customer %d: %w", id, err)
	}
	out := m.toDomain()
	return &out, nil
}

// List issues Find and CountDocuments separately with the same filter.
func (r *CustomerRepository) List(ctx context.Context, f ports.ListCustomersFilter) ([]domain.Customer, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := customerFilter(f.Search)
	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetSkip(int64(f.Offset)).
		SetLimit(int64(f.Limit))

	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list customers: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []mongoCustomer
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("decode customers: %w", err)
	}

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count customers: %w", err)
	}

	customers := make([]domain.Customer, len(docs))
	for i, d := range docs {
		customers[i] = d.toDomain()
	}
	return customers, total, nil
}

func (r *CustomerRepository) Update(ctx context.Context, c domain.Customer) (*domain.Customer, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"name":       c.Name,
		"phone":      c.Phone,
		"address":    c.Address,
		"updated_at": time.Now().UTC(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var m mongoCustomer
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": c.ID}, update, opts).Decode(&m); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCustomerNotFound
		}
		return nil, fmt.Errorf("update customer %d: %w", c.ID, err)
	}
	out := m.toDomain()
	return &out, nil
}

func (r *CustomerRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete customer %d: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrCustomerNotFound
	}
	return nil
}

// customerFilter matches search as a literal, case-insensitive substring of
// name or phone. An empty term matches everything.
func customerFilter(search string) bson.M {
	if search == "" {
		return bson.M{}
	}
	re := primitive.Regex{Pattern: regexp.QuoteMeta(search), Options: "i"}
	return bson.M{"$or": bson.A{
		bson.M{"name": re},
		bson.M{"phone": re},
	}}
}
