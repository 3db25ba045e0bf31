package usecase

import (
	"context"

	"freshharvest/internal/domain/entity"

	"github.com/shopspring/decimal"
)

// CreateProductInput defines the data required to publish a listing.
type CreateProductInput struct {
	Name        string
	Description *string
	Price       *decimal.Decimal
	Unit        *string
	Category    *string
	ImageURL    *string
	FarmerID    string
}

// CatalogUsecase defines the product catalog operations.
type CatalogUsecase interface {
	ListAll(ctx context.Context) ([]*entity.Product, error)
	ListByFarmer(ctx context.Context, farmerID string) ([]*entity.Product, error)
	Get(ctx context.Context, id int64) (*entity.Product, error)
	Create(ctx context.Context, input *CreateProductInput) (*entity.Product, error)
	// Update applies the patch in the order its fields were supplied.
	Update(ctx context.Context, id int64, patch entity.ProductPatch) (*entity.Product, error)
	Delete(ctx context.Context, id int64) error
	// ListingQR returns a PNG QR code for an existing listing.
	ListingQR(ctx context.Context, id int64) ([]byte, error)
}
