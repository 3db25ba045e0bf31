package handler

import (
	"time"

	"freshharvest/internal/domain/entity"

	"github.com/google/uuid"
)

// userResponse is the public view of a user. It has no credential field.
type userResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	UserType  string    `json:"userType"`
	CreatedAt time.Time `json:"createdAt"`
}

func newUserResponse(user *entity.User) *userResponse {
	return &userResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		UserType:  user.UserType.String(),
		CreatedAt: user.CreatedAt,
	}
}

// productResponse is the public view of a listing. Price is a string with two
// fraction digits, e.g. "2.50".
type productResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	Price       string    `json:"price"`
	Unit        *string   `json:"unit"`
	Category    *string   `json:"category"`
	ImageURL    *string   `json:"imageUrl"`
	FarmerID    uuid.UUID `json:"farmerId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func newProductResponse(product *entity.Product) *productResponse {
	return &productResponse{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price.StringFixed(entity.PriceScale),
		Unit:        product.Unit,
		Category:    product.Category,
		ImageURL:    product.ImageURL,
		FarmerID:    product.FarmerID,
		CreatedAt:   product.CreatedAt,
		UpdatedAt:   product.UpdatedAt,
	}
}

func newProductResponses(products []*entity.Product) []*productResponse {
	out := make([]*productResponse, 0, len(products))
	for _, product := range products {
		out = append(out, newProductResponse(product))
	}

	return out
}
