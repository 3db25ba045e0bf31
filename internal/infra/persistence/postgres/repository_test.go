package postgres

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"freshharvest/internal/domain/entity"
	domainerrors "freshharvest/internal/domain/errors"
	"freshharvest/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	db = db.Session(&gorm.Session{SkipDefaultTransaction: true, Logger: logger.Discard})
	require.NoError(t, AutoMigrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	return db
}

func createTestUser(t *testing.T, repo repository.UserRepository, email string) *entity.User {
	t.Helper()

	user := &entity.User{
		ID:           uuid.Must(uuid.NewV7()),
		Name:         "Ada Farmer",
		Email:        email,
		PasswordHash: "$2a$04$hash",
		UserType:     entity.UserTypeFarmer,
	}
	require.NoError(t, repo.Create(context.Background(), user))

	return user
}

func createTestProduct(t *testing.T, repo repository.ProductRepository, farmerID uuid.UUID, name string) *entity.Product {
	t.Helper()

	unit := "kg"
	product := &entity.Product{
		Name:     name,
		Price:    decimal.RequireFromString("3.50"),
		Unit:     &unit,
		FarmerID: farmerID,
	}
	require.NoError(t, repo.Create(context.Background(), product))

	return product
}

func strPtr(s string) *string {
	return &s
}

func TestUserRepository_CreateAndFind(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(newTestDB(t))

	user := createTestUser(t, repo, "ada@example.com")
	assert.False(t, user.CreatedAt.IsZero())

	byEmail, err := repo.FindByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)
	assert.Equal(t, entity.UserTypeFarmer, byEmail.UserType)
	assert.Equal(t, "$2a$04$hash", byEmail.PasswordHash)

	_, err = repo.FindByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}

func TestUserRepository_Create_DuplicateEmail(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))
	createTestUser(t, repo, "ada@example.com")

	err := repo.Create(context.Background(), &entity.User{
		ID:           uuid.Must(uuid.NewV7()),
		Name:         "Second Ada",
		Email:        "ada@example.com",
		PasswordHash: "$2a$04$other",
		UserType:     entity.UserTypeBuyer,
	})
	assert.True(t, errors.Is(err, domainerrors.ErrUserAlreadyExists))
}

func TestUserRepository_Create_ConcurrentDuplicateEmail(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))

	const attempts = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		conflicts int
	)
	for range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()

			err := repo.Create(context.Background(), &entity.User{
				ID:           uuid.Must(uuid.NewV7()),
				Name:         "Racer",
				Email:        "race@example.com",
				PasswordHash: "$2a$04$hash",
				UserType:     entity.UserTypeBuyer,
			})

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, domainerrors.ErrUserAlreadyExists):
				conflicts++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, attempts-1, conflicts)
}

func TestProductRepository_CreateAndList(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	users := NewUserRepository(db)
	products := NewProductRepository(db)

	alice := createTestUser(t, users, "alice@example.com")
	bob := createTestUser(t, users, "bob@example.com")

	first := createTestProduct(t, products, alice.ID, "Carrots")
	second := createTestProduct(t, products, bob.ID, "Apples")
	third := createTestProduct(t, products, alice.ID, "Leeks")

	assert.Positive(t, first.ID)
	assert.Greater(t, second.ID, first.ID)
	assert.Greater(t, third.ID, second.ID)

	all, err := products.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []int64{first.ID, second.ID, third.ID}, []int64{all[0].ID, all[1].ID, all[2].ID})
	assert.True(t, decimal.RequireFromString("3.5").Equal(all[0].Price))
	require.NotNil(t, all[0].Unit)
	assert.Equal(t, "kg", *all[0].Unit)
	assert.Nil(t, all[0].Description)

	mine, err := products.ListByFarmer(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, "Carrots", mine[0].Name)
	assert.Equal(t, "Leeks", mine[1].Name)

	none, err := products.ListByFarmer(ctx, uuid.New())
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestProductRepository_ListAll_EmptyStore(t *testing.T) {
	products, err := NewProductRepository(newTestDB(t)).ListAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, products)
	assert.Empty(t, products)
}

func TestProductRepository_Create_UnknownFarmer(t *testing.T) {
	ctx := context.Background()
	products := NewProductRepository(newTestDB(t))

	err := products.Create(ctx, &entity.Product{
		Name:     "Ghost Beans",
		Price:    decimal.NewFromInt(1),
		FarmerID: uuid.New(),
	})
	assert.True(t, errors.Is(err, domainerrors.ErrReferenceViolation))

	all, err := products.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestProductRepository_Update_AppliesChangesInOrder(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	farmer := createTestUser(t, NewUserRepository(db), "farmer@example.com")
	products := NewProductRepository(db)
	product := createTestProduct(t, products, farmer.ID, "Carrots")
	other := createTestProduct(t, products, farmer.ID, "Onions")

	updated, err := products.Update(ctx, product.ID, entity.ProductChanges{
		{Field: entity.ProductFieldPrice, Value: decimal.RequireFromString("4.25")},
		{Field: entity.ProductFieldName, Value: "Purple Carrots"},
		{Field: entity.ProductFieldUnit, Value: (*string)(nil)},
		{Field: entity.ProductFieldImageURL, Value: strPtr("https://cdn.example.com/c.png")},
	})
	require.NoError(t, err)

	assert.Equal(t, product.ID, updated.ID)
	assert.Equal(t, "Purple Carrots", updated.Name)
	assert.True(t, decimal.RequireFromString("4.25").Equal(updated.Price))
	assert.Nil(t, updated.Unit)
	require.NotNil(t, updated.ImageURL)
	assert.Equal(t, "https://cdn.example.com/c.png", *updated.ImageURL)
	assert.Equal(t, farmer.ID, updated.FarmerID)
	assert.False(t, updated.UpdatedAt.Before(product.UpdatedAt))

	untouched, err := products.FindByID(ctx, other.ID)
	require.NoError(t, err)
	assert.Equal(t, "Onions", untouched.Name)
	assert.True(t, decimal.RequireFromString("3.50").Equal(untouched.Price))
}

func TestProductRepository_Update_Errors(t *testing.T) {
	ctx := context.Background()
	products := NewProductRepository(newTestDB(t))

	_, err := products.Update(ctx, 404, entity.ProductChanges{
		{Field: entity.ProductFieldName, Value: "Nothing"},
	})
	assert.ErrorIs(t, err, repository.ErrProductNotFound)

	_, err = products.Update(ctx, 1, entity.ProductChanges{
		{Field: entity.ProductField("farmer_id"), Value: uuid.New()},
	})
	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))

	_, err = products.Update(ctx, 1, nil)
	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
}

func TestProductRepository_Update_PriceOnlyPatch(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	farmer := createTestUser(t, NewUserRepository(db), "farmer@example.com")
	products := NewProductRepository(db)

	product := &entity.Product{
		Name:        "Heirloom Tomatoes",
		Description: strPtr("Mixed colours, picked this morning"),
		Price:       decimal.RequireFromString("9.00"),
		Unit:        strPtr("kg"),
		Category:    strPtr("vegetables"),
		FarmerID:    farmer.ID,
	}
	require.NoError(t, products.Create(ctx, product))

	before, err := products.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, before, 1)

	changes, err := entity.ProductPatch{{Name: "price", Value: json.Number("12.5")}}.Resolve()
	require.NoError(t, err)

	_, err = products.Update(ctx, product.ID, changes)
	require.NoError(t, err)

	after, err := products.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, after, 1)

	old, updated := before[0], after[0]
	assert.Equal(t, "12.50", updated.Price.StringFixed(2))
	assert.False(t, updated.UpdatedAt.Before(old.UpdatedAt))

	assert.Equal(t, old.ID, updated.ID)
	assert.Equal(t, old.Name, updated.Name)
	assert.Equal(t, old.Description, updated.Description)
	assert.Equal(t, old.Unit, updated.Unit)
	assert.Equal(t, old.Category, updated.Category)
	assert.Nil(t, updated.ImageURL)
	assert.Equal(t, old.FarmerID, updated.FarmerID)
	assert.True(t, old.CreatedAt.Equal(updated.CreatedAt))
}

func TestProductRepository_Delete(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	farmer := createTestUser(t, NewUserRepository(db), "farmer@example.com")
	products := NewProductRepository(db)
	product := createTestProduct(t, products, farmer.ID, "Carrots")

	require.NoError(t, products.Delete(ctx, product.ID))

	_, err := products.FindByID(ctx, product.ID)
	assert.ErrorIs(t, err, repository.ErrProductNotFound)

	assert.ErrorIs(t, products.Delete(ctx, product.ID), repository.ErrProductNotFound)
}

func TestProductRepository_DeletingFarmerCascades(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	users := NewUserRepository(db)
	products := NewProductRepository(db)

	farmer := createTestUser(t, users, "farmer@example.com")
	neighbour := createTestUser(t, users, "neighbour@example.com")
	createTestProduct(t, products, farmer.ID, "Carrots")
	createTestProduct(t, products, farmer.ID, "Leeks")
	kept := createTestProduct(t, products, neighbour.ID, "Apples")

	require.NoError(t, db.Exec("DELETE FROM users WHERE id = ?", farmer.ID).Error)

	all, err := products.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, kept.ID, all[0].ID)
}
