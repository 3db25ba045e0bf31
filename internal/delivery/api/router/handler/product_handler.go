package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"freshharvest/internal/delivery/api/response"
	domainerrors "freshharvest/internal/domain/errors"
	"freshharvest/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
)

// ProductHandlerParams holds dependencies for ProductHandler, injected by Fx.
type ProductHandlerParams struct {
	fx.In

	CatalogUC usecase.CatalogUsecase
	Logger    *slog.Logger
}

// ProductHandler holds dependencies for catalog handlers
type ProductHandler struct {
	catalogUC usecase.CatalogUsecase
	logger    *slog.Logger
}

// NewProductHandler is the constructor for ProductHandler
func NewProductHandler(params ProductHandlerParams) *ProductHandler {
	return &ProductHandler{
		catalogUC: params.CatalogUC,
		logger:    params.Logger,
	}
}

// CreateProductRequest represents the request body for adding a listing.
// The snake_case spellings of imageUrl and farmerId are accepted as well.
type CreateProductRequest struct {
	Name          string           `json:"name" validate:"required"`
	Description   *string          `json:"description"`
	Price         *decimal.Decimal `json:"price" validate:"required"`
	Unit          *string          `json:"unit"`
	Category      *string          `json:"category"`
	ImageURL      *string          `json:"imageUrl"`
	ImageURLSnake *string          `json:"image_url"`
	FarmerID      string           `json:"farmerId"`
	FarmerIDSnake string           `json:"farmer_id"`
}

func (r *CreateProductRequest) toInput() *usecase.CreateProductInput {
	input := &usecase.CreateProductInput{
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		Unit:        r.Unit,
		Category:    r.Category,
		ImageURL:    r.ImageURL,
		FarmerID:    r.FarmerID,
	}
	if input.ImageURL == nil {
		input.ImageURL = r.ImageURLSnake
	}
	if input.FarmerID == "" {
		input.FarmerID = r.FarmerIDSnake
	}

	return input
}

// ListProducts returns every listing.
func (h *ProductHandler) ListProducts(c echo.Context) error {
	products, err := h.catalogUC.ListAll(c.Request().Context())
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, newProductResponses(products))
}

// ListFarmerProducts returns the listings of the farmer in the path.
func (h *ProductHandler) ListFarmerProducts(c echo.Context) error {
	products, err := h.catalogUC.ListByFarmer(c.Request().Context(), c.Param("farmerId"))
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, newProductResponses(products))
}

// GetProduct returns one listing.
func (h *ProductHandler) GetProduct(c echo.Context) error {
	id, err := parseProductID(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	product, err := h.catalogUC.Get(c.Request().Context(), id)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, newProductResponse(product))
}

// CreateProduct adds a listing.
func (h *ProductHandler) CreateProduct(c echo.Context) error {
	var req CreateProductRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid product input")
	}

	if err := c.Validate(&req); err != nil {
		return response.HandleAppError(c, err)
	}

	product, err := h.catalogUC.Create(c.Request().Context(), req.toInput())
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, newProductResponse(product))
}

// UpdateProduct applies a partial update. Fields are applied in the order they
// appear in the request body.
func (h *ProductHandler) UpdateProduct(c echo.Context) error {
	id, err := parseProductID(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	patch, err := decodeProductPatch(c.Request().Body)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	product, err := h.catalogUC.Update(c.Request().Context(), id, patch)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, newProductResponse(product))
}

// DeleteProduct removes a listing.
func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	id, err := parseProductID(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	if err := h.catalogUC.Delete(c.Request().Context(), id); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, map[string]int64{"id": id})
}

// GetListingQR returns a printable PNG QR code for a listing.
func (h *ProductHandler) GetListingQR(c echo.Context) error {
	id, err := parseProductID(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	png, err := h.catalogUC.ListingQR(c.Request().Context(), id)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return c.Blob(http.StatusOK, "image/png", png)
}

func parseProductID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, domainerrors.ErrValidationFailed.WithDetails("id must be a positive integer")
	}

	return id, nil
}
