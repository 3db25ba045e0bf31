package impl

import (
	"context"
	"log/slog"
	"strings"

	deliverycontext "freshharvest/internal/delivery/context"
	"freshharvest/internal/domain/entity"
	domainerrors "freshharvest/internal/domain/errors"
	"freshharvest/internal/domain/repository"
	"freshharvest/internal/domain/service"
	"freshharvest/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

type catalogService struct {
	productRepo repository.ProductRepository
	qrService   service.QRCodeService
	publisher   service.EventPublisher
	logger      *slog.Logger
}

// CatalogServiceParams holds dependencies for CatalogService, injected by Fx.
type CatalogServiceParams struct {
	fx.In

	ProductRepo repository.ProductRepository
	QRService   service.QRCodeService
	Publisher   service.EventPublisher
	Logger      *slog.Logger
}

// NewCatalogService creates a new catalog service instance
func NewCatalogService(params CatalogServiceParams) usecase.CatalogUsecase {
	return &catalogService{
		productRepo: params.ProductRepo,
		qrService:   params.QRService,
		publisher:   params.Publisher,
		logger:      params.Logger,
	}
}

func (srv *catalogService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// ListAll returns every listing ordered by id.
func (srv *catalogService) ListAll(ctx context.Context) ([]*entity.Product, error) {
	products, err := srv.productRepo.ListAll(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list products")
	}

	return products, nil
}

// ListByFarmer returns the listings of one farmer. An id that is not a UUID
// cannot own products, so it yields an empty list.
func (srv *catalogService) ListByFarmer(ctx context.Context, farmerID string) ([]*entity.Product, error) {
	id, err := uuid.Parse(strings.TrimSpace(farmerID))
	if err != nil {
		srv.log(ctx).Debug("Farmer id is not a UUID, returning no products", slog.String("farmerID", farmerID))

		return []*entity.Product{}, nil
	}

	products, err := srv.productRepo.ListByFarmer(ctx, id)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list products by farmer")
	}

	return products, nil
}

// Get returns one listing.
func (srv *catalogService) Get(ctx context.Context, id int64) (*entity.Product, error) {
	product, err := srv.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, srv.mapNotFound(err, "failed to find product")
	}

	return product, nil
}

// Create validates and stores a new listing.
func (srv *catalogService) Create(ctx context.Context, input *usecase.CreateProductInput) (*entity.Product, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domainerrors.ErrValidationFailed.WithDetails("name is required")
	}
	if input.Price == nil {
		return nil, domainerrors.ErrValidationFailed.WithDetails("price is required")
	}
	price, err := entity.NormalizePrice(*input.Price)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.FarmerID) == "" {
		return nil, domainerrors.ErrValidationFailed.WithDetails("farmerId is required")
	}
	farmerID, err := uuid.Parse(strings.TrimSpace(input.FarmerID))
	if err != nil {
		return nil, domainerrors.ErrValidationFailed.WithDetails("farmerId must be a UUID")
	}

	product := &entity.Product{
		Name:        name,
		Description: input.Description,
		Price:       price,
		Unit:        input.Unit,
		Category:    input.Category,
		ImageURL:    input.ImageURL,
		FarmerID:    farmerID,
	}

	if err := srv.productRepo.Create(ctx, product); err != nil {
		if errors.Is(err, domainerrors.ErrReferenceViolation) {
			srv.log(ctx).Warn("Product references an unknown farmer", slog.Any("farmerID", farmerID))
		}

		return nil, errors.Wrap(err, "failed to create product")
	}

	srv.log(ctx).Info("Product created", slog.Int64("productID", product.ID), slog.Any("farmerID", farmerID))

	event := newCatalogEvent(ctx, service.EventProductCreated)
	event.ProductID = product.ID
	event.FarmerID = farmerID.String()
	publishEvent(ctx, srv.publisher, srv.log(ctx), event)

	return product, nil
}

// Update resolves the patch against the updatable fields and applies it in one statement.
func (srv *catalogService) Update(ctx context.Context, id int64, patch entity.ProductPatch) (*entity.Product, error) {
	changes, err := patch.Resolve()
	if err != nil {
		return nil, err
	}

	product, err := srv.productRepo.Update(ctx, id, changes)
	if err != nil {
		return nil, srv.mapNotFound(err, "failed to update product")
	}

	srv.log(ctx).Info("Product updated", slog.Int64("productID", id), slog.Any("fields", changes.Fields()))

	event := newCatalogEvent(ctx, service.EventProductUpdated)
	event.ProductID = product.ID
	event.FarmerID = product.FarmerID.String()
	event.Fields = changes.Fields()
	publishEvent(ctx, srv.publisher, srv.log(ctx), event)

	return product, nil
}

// Delete removes a listing.
func (srv *catalogService) Delete(ctx context.Context, id int64) error {
	if err := srv.productRepo.Delete(ctx, id); err != nil {
		return srv.mapNotFound(err, "failed to delete product")
	}

	srv.log(ctx).Info("Product deleted", slog.Int64("productID", id))

	event := newCatalogEvent(ctx, service.EventProductDeleted)
	event.ProductID = id
	publishEvent(ctx, srv.publisher, srv.log(ctx), event)

	return nil
}

// ListingQR renders a QR code for an existing listing.
func (srv *catalogService) ListingQR(ctx context.Context, id int64) ([]byte, error) {
	product, err := srv.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	png, err := srv.qrService.GenerateListingQR(product.ID, product.FarmerID)
	if err != nil {
		srv.log(ctx).Error("Failed to generate listing QR code", slog.Int64("productID", id), slog.Any("error", err))

		return nil, domainerrors.ErrQRCodeGenerationFailed.WrapMessage(err.Error())
	}

	return png, nil
}

// mapNotFound turns the repository sentinel into the HTTP-aware domain error.
func (srv *catalogService) mapNotFound(err error, message string) error {
	if errors.Is(err, repository.ErrProductNotFound) {
		return domainerrors.ErrProductNotFound.WrapMessage(message)
	}

	return errors.Wrap(err, message)
}
