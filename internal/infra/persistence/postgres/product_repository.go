package postgres

import (
	"context"
	"fmt"
	"time"

	"freshharvest/internal/domain/entity"
	domainerrors "freshharvest/internal/domain/errors"
	"freshharvest/internal/domain/repository"
	"freshharvest/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// productColumns maps each mutable product field to its column.
var productColumns = map[entity.ProductField]string{
	entity.ProductFieldName:        "name",
	entity.ProductFieldDescription: "description",
	entity.ProductFieldPrice:       "price",
	entity.ProductFieldUnit:        "unit",
	entity.ProductFieldCategory:    "category",
	entity.ProductFieldImageURL:    "image_url",
}

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository is the constructor for productRepository.
func NewProductRepository(db *gorm.DB) repository.ProductRepository {
	return &productRepository{
		db: db,
	}
}

// ListAll returns every product ordered by id.
func (repo *productRepository) ListAll(ctx context.Context) ([]*entity.Product, error) {
	var productsM []*model.ProductModel

	if err := repo.db.WithContext(ctx).
		Order("id ASC").
		Find(&productsM).Error; err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to list products")
	}

	return toProductDomains(productsM), nil
}

// ListByFarmer returns the products owned by one farmer ordered by id.
// An unknown farmer yields an empty list.
func (repo *productRepository) ListByFarmer(ctx context.Context, farmerID uuid.UUID) ([]*entity.Product, error) {
	var productsM []*model.ProductModel

	if err := repo.db.WithContext(ctx).
		Where("farmer_id = ?", farmerID).
		Order("id ASC").
		Find(&productsM).Error; err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to list products by farmer")
	}

	return toProductDomains(productsM), nil
}

// FindByID retrieves a single product.
func (repo *productRepository) FindByID(ctx context.Context, id int64) (*entity.Product, error) {
	var productM model.ProductModel

	if err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&productM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrProductNotFound
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to find product")
	}

	return toProductDomain(&productM), nil
}

// Create inserts a product and fills in the store-assigned id and timestamps.
func (repo *productRepository) Create(ctx context.Context, product *entity.Product) error {
	productM := fromProductDomain(product)

	if err := repo.db.WithContext(ctx).
		Omit(clause.Associations).
		Create(productM).Error; err != nil {
		switch {
		case isForeignKeyConstraintViolation(err):
			return domainerrors.ErrReferenceViolation.WrapMessage(
				fmt.Sprintf("farmer %s does not exist", product.FarmerID))
		case isNotNullConstraintViolation(err), isCheckConstraintViolation(err):
			return domainerrors.ErrProductCreationFailed.WrapMessage("product violates a column constraint")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create product")
	}

	product.ID = productM.ID
	product.CreatedAt = productM.CreatedAt
	product.UpdatedAt = productM.UpdatedAt

	return nil
}

// Update applies the changes in a single UPDATE statement whose SET list follows
// the order of changes, then returns the stored row.
func (repo *productRepository) Update(ctx context.Context, id int64, changes entity.ProductChanges) (*entity.Product, error) {
	if len(changes) == 0 {
		return nil, domainerrors.ErrValidationFailed.WithDetails("no fields to update")
	}

	set := make(clause.Set, 0, len(changes)+1)
	for _, change := range changes {
		column, ok := productColumns[change.Field]
		if !ok {
			return nil, domainerrors.ErrValidationFailed.WithDetails(fmt.Sprintf("unknown field %q", change.Field))
		}
		set = append(set, clause.Assignment{Column: clause.Column{Name: column}, Value: change.Value})
	}
	set = append(set, clause.Assignment{Column: clause.Column{Name: "updated_at"}, Value: time.Now()})

	var updated *entity.Product
	err := repo.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Exec("UPDATE ? ? WHERE id = ?", clause.Table{Name: model.ProductModel{}.TableName()}, set, id)
		if result.Error != nil {
			if isNotNullConstraintViolation(result.Error) || isCheckConstraintViolation(result.Error) {
				return domainerrors.ErrValidationFailed.WithDetails("value violates a column constraint")
			}

			return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update product")
		}
		if result.RowsAffected == 0 {
			return repository.ErrProductNotFound
		}

		var productM model.ProductModel
		if err := tx.Where("id = ?", id).First(&productM).Error; err != nil {
			return domainerrors.NewDatabaseExecuteError(err, "failed to reload updated product")
		}
		updated = toProductDomain(&productM)

		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// Delete removes a product by id.
func (repo *productRepository) Delete(ctx context.Context, id int64) error {
	result := repo.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.ProductModel{})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete product")
	}
	if result.RowsAffected == 0 {
		return repository.ErrProductNotFound
	}

	return nil
}

// --- Mapper Functions ---

func toProductDomains(data []*model.ProductModel) []*entity.Product {
	products := make([]*entity.Product, 0, len(data))
	for _, productM := range data {
		products = append(products, toProductDomain(productM))
	}

	return products
}

func toProductDomain(data *model.ProductModel) *entity.Product {
	if data == nil {
		return nil
	}

	return &entity.Product{
		ID:          data.ID,
		Name:        data.Name,
		Description: data.Description,
		Price:       data.Price,
		Unit:        data.Unit,
		Category:    data.Category,
		ImageURL:    data.ImageURL,
		FarmerID:    data.FarmerID,
		CreatedAt:   data.CreatedAt,
		UpdatedAt:   data.UpdatedAt,
	}
}

func fromProductDomain(data *entity.Product) *model.ProductModel {
	if data == nil {
		return nil
	}

	return &model.ProductModel{
		ID:          data.ID,
		Name:        data.Name,
		Description: data.Description,
		Price:       data.Price,
		Unit:        data.Unit,
		Category:    data.Category,
		ImageURL:    data.ImageURL,
		FarmerID:    data.FarmerID,
		CreatedAt:   data.CreatedAt,
		UpdatedAt:   data.UpdatedAt,
	}
}
