// Package routes wires the collections, repositories, services, and
// handlers onto the gin router.
package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"greenfields-backend/internal/config"
	"greenfields-backend/internal/handlers"
	"greenfields-backend/internal/middleware"
	"greenfields-backend/internal/models"
	"greenfields-backend/internal/repository"
	"greenfields-backend/internal/service"
	"greenfields-backend/internal/store"
)

func RegisterRoutes(router *gin.Engine, db *mongo.Database, cfg *config.Config, logger *zap.Logger) {
	products := store.NewMongoCollection(db.Collection("products"))
	users := store.NewMongoCollection(db.Collection("users"))
	orders := store.NewMongoCollection(db.Collection("orders"))
	settings := store.NewMongoCollection(db.Collection("settings"))
	tiers := store.NewMongoCollection(db.Collection("loyaltyTiers"))
	categories := store.NewMongoCollection(db.Collection("categories"))
	reconciliations := store.NewMongoCollection(db.Collection("reconciliations"))

	productRepo := repository.NewProductRepository(products)
	userRepo := repository.NewUserRepository(users)
	orderRepo := repository.NewOrderRepository(orders)
	settingsRepo := repository.NewSettingsRepository(settings)
	tierRepo := repository.NewLoyaltyTierRepository(tiers)
	categoryRepo := repository.NewCategoryRepository(categories)
	reconRepo := repository.NewReconciliationRepository(reconciliations)
	analyticsRepo := repository.NewAnalyticsRepository(products, users, orders)

	orderService := service.NewOrderService(orderRepo, userRepo, productRepo, reconRepo, logger)
	authService := service.NewAuthService(userRepo, cfg.JWTSecret, time.Duration(cfg.JWTTTLMin)*time.Minute, cfg.BcryptCost)

	authHandler := handlers.NewAuthHandler(authService)
	productHandler := handlers.NewProductHandler(productRepo)
	userHandler := handlers.NewUserHandler(userRepo)
	orderHandler := handlers.NewOrderHandler(orderService, orderRepo, reconRepo)
	settingsHandler := handlers.NewSettingsHandler(settingsRepo)
	loyaltyHandler := handlers.NewLoyaltyHandler(settingsRepo, tierRepo)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsRepo, productRepo)
	categoryHandler := handlers.NewCategoryHandler(categoryRepo)

	authed := middleware.RequireAuth(cfg.JWTSecret)
	admin := middleware.RequireRole(models.RoleAdmin)

	api := router.Group("/api")
	{
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		api.GET("/products", productHandler.List)
		api.GET("/products/:id", productHandler.Get)
		api.POST("/products", authed, admin, productHandler.Create)
		api.PUT("/products/:id", authed, admin, productHandler.Update)
		api.DELETE("/products/:id", authed, admin, productHandler.Delete)

		api.GET("/users", authed, admin, userHandler.List)
		api.GET("/users/:id", authed, admin, userHandler.Get)
		api.PUT("/users/:id", authed, admin, userHandler.Update)
		api.POST("/users/:id/loyalty", authed, admin, userHandler.UpdateLoyalty)

		api.POST("/orders", orderHandler.Create)
		api.GET("/orders", authed, admin, orderHandler.List)
		api.GET("/orders/my", authed, orderHandler.ListMine)
		api.GET("/orders/track", orderHandler.Track)
		api.GET("/orders/reconciliations", authed, admin, orderHandler.ListReconciliations)
		api.GET("/orders/:id", authed, orderHandler.Get)
		api.PUT("/orders/:id/status", authed, admin, orderHandler.UpdateStatus)

		api.GET("/settings/:type", settingsHandler.Get)
		api.PUT("/settings/:type", authed, admin, settingsHandler.Update)

		api.GET("/loyalty/settings", loyaltyHandler.GetSettings)
		api.PUT("/loyalty/settings", authed, admin, loyaltyHandler.UpdateSettings)
		api.GET("/loyalty/tiers", loyaltyHandler.GetTiers)
		api.PUT("/loyalty/tiers", authed, admin, loyaltyHandler.UpdateTiers)

		api.GET("/analytics/dashboard", authed, admin, analyticsHandler.Dashboard)
		api.GET("/analytics/sales", authed, admin, analyticsHandler.Sales)
		api.GET("/analytics/top-products", authed, admin, analyticsHandler.TopProducts)
		api.GET("/analytics/categories", authed, admin, analyticsHandler.Categories)

		api.GET("/categories", categoryHandler.List)
		api.POST("/categories", authed, admin, categoryHandler.Create)
	}
}
