// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"storefront/internal/delivery/api/middleware"
	"storefront/internal/delivery/api/router/handler"
	"storefront/internal/domain/entity"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AuthHandler     *handler.AuthHandler
	UserHandler     *handler.UserHandler
	StoreHandler    *handler.StoreHandler
	ProductHandler  *handler.ProductHandler
	CategoryHandler *handler.CategoryHandler
	OrderHandler    *handler.OrderHandler
	AuthMiddleware  *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	authHandler     *handler.AuthHandler
	userHandler     *handler.UserHandler
	storeHandler    *handler.StoreHandler
	productHandler  *handler.ProductHandler
	categoryHandler *handler.CategoryHandler
	orderHandler    *handler.OrderHandler
	authMiddleware  *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		authHandler:     params.AuthHandler,
		userHandler:     params.UserHandler,
		storeHandler:    params.StoreHandler,
		productHandler:  params.ProductHandler,
		categoryHandler: params.CategoryHandler,
		orderHandler:    params.OrderHandler,
		authMiddleware:  params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", handler.HealthCheck)

	api := e.Group("/api")
	authn := r.authMiddleware.Authenticate

	admin := r.authMiddleware.RequireRole(entity.RoleAdmin)
	storeAdmin := r.authMiddleware.RequireRole(entity.RoleStoreAdmin)
	storeStaff := r.authMiddleware.RequireRole(entity.RoleStoreAdmin, entity.RoleStoreWorker)
	curator := r.authMiddleware.RequireRole(entity.RoleAdmin, entity.RoleStoreAdmin)

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/signup", r.authHandler.Signup)
		authGroup.POST("/signin", r.authHandler.Signin)
		authGroup.GET("/me", r.authHandler.Me, authn)
	}

	users := api.Group("/users", authn, admin)
	{
		users.GET("", r.userHandler.ListUsers)
		users.DELETE("", r.userHandler.DeleteAllUsers)
		users.DELETE("/:id", r.userHandler.DeleteUser)
	}

	categories := api.Group("/categories")
	{
		categories.GET("", r.categoryHandler.ListCategories)
		categories.GET("/:id", r.categoryHandler.GetCategory)
		categories.POST("", r.categoryHandler.CreateCategory, authn, curator)
		categories.PATCH("/:id", r.categoryHandler.UpdateCategory, authn, curator)
		categories.DELETE("/:id", r.categoryHandler.DeleteCategory, authn, curator)
	}

	products := api.Group("/products")
	{
		products.GET("", r.productHandler.ListProducts)
		products.GET("/:id", r.productHandler.GetProduct)
		products.POST("", r.productHandler.CreateProduct, authn, storeStaff)
		products.POST("/register", r.productHandler.RegisterProduct, authn, storeStaff)
		products.PATCH("/:id", r.productHandler.UpdateProduct, authn, storeStaff)
		products.PUT("/:id/change-discount", r.productHandler.ChangeDiscount, authn, storeStaff)
		products.PUT("/:id/categories", r.productHandler.SetCategories, authn, storeStaff)
		products.DELETE("/:id", r.productHandler.DeleteProduct, authn, storeStaff)
	}

	stores := api.Group("/stores")
	{
		stores.GET("", r.storeHandler.ListStores)
		stores.GET("/recommended", r.storeHandler.RecommendedStores)
		stores.GET("/nearby", r.storeHandler.NearbyStores)
		stores.POST("/search", r.storeHandler.SearchStores)
		stores.GET("/:id", r.storeHandler.GetStore)
		stores.GET("/:id/inventory/search", r.storeHandler.SearchInventory)
		stores.GET("/:id/qr", r.storeHandler.QRCode)
		stores.POST("/create", r.storeHandler.CreateStore, authn, storeAdmin)
		stores.PATCH("/:id", r.storeHandler.UpdateStore, authn, storeAdmin)
		stores.DELETE("/:id", r.storeHandler.DeleteStore, authn, storeAdmin)
		stores.PUT("/:id/location", r.storeHandler.UpdateLocation, authn, storeAdmin)
		stores.POST("/:id/addWorker", r.storeHandler.AddWorker, authn, storeAdmin)
	}

	orders := api.Group("/orders", authn)
	{
		orders.GET("", r.orderHandler.ListOrders)
		orders.POST("", r.orderHandler.PlaceOrder)
		orders.GET("/:id", r.orderHandler.GetOrder)
		orders.PUT("/:id", r.orderHandler.UpdateOrder)
		orders.PUT("/:id/status_update", r.orderHandler.UpdateStatus)
		orders.GET("/:id/events", r.orderHandler.ListEvents)
		orders.DELETE("/:id", r.orderHandler.DeleteOrder)
	}
}
