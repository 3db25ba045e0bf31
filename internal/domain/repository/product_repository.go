package repository

import (
	"context"
	"errors"

	"freshharvest/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrProductNotFound is returned when no product matches the given id.
var ErrProductNotFound = errors.New("product not found")

// ProductRepository defines the catalog persistence operations.
// Every mutation is a single statement.
type ProductRepository interface {
	// ListAll returns every product ordered by id.
	ListAll(ctx context.Context) ([]*entity.Product, error)

	// ListByFarmer returns the products owned by one farmer, ordered by id.
	ListByFarmer(ctx context.Context, farmerID uuid.UUID) ([]*entity.Product, error)

	// FindByID retrieves a single product.
	FindByID(ctx context.Context, id int64) (*entity.Product, error)

	// Create inserts the product and fills in its id and timestamps. An unknown
	// farmer is reported as domainerrors.ErrReferenceViolation.
	Create(ctx context.Context, product *entity.Product) error

	// Update applies the changes in order with one UPDATE statement and returns
	// the stored record. Zero affected rows yields ErrProductNotFound.
	Update(ctx context.Context, id int64, changes entity.ProductChanges) (*entity.Product, error)

	// Delete removes the product. Zero affected rows yields ErrProductNotFound.
	Delete(ctx context.Context, id int64) error
}
