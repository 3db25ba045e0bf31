// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"freshharvest/internal/delivery/api/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	UserHandler    *handler.UserHandler
	ProductHandler *handler.ProductHandler
}

// router holds all the handlers that need to be registered.
type router struct {
	userHandler    *handler.UserHandler
	productHandler *handler.ProductHandler
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		userHandler:    params.UserHandler,
		productHandler: params.ProductHandler,
	}
}

// RegisterRoutes sets up all the API routes for the application.
// Paths match the ones existing mobile clients already call.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Account routes
	e.POST("/signup", r.userHandler.Signup)
	e.POST("/login", r.userHandler.Login)

	// Catalog reads
	e.GET("/products", r.productHandler.ListProducts)
	e.GET("/products/:farmerId", r.productHandler.ListFarmerProducts)
	e.GET("/product/:id", r.productHandler.GetProduct)
	e.GET("/product/:id/qr", r.productHandler.GetListingQR)

	// Catalog writes
	e.POST("/add_product", r.productHandler.CreateProduct)
	e.PUT("/update_product/:id", r.productHandler.UpdateProduct)
	e.DELETE("/delete_product/:id", r.productHandler.DeleteProduct)
}
