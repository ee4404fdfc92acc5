package main

import (
	"context"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"greenfields-backend/internal/config"
	"greenfields-backend/internal/database"
	"greenfields-backend/internal/routes"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg := config.LoadConfig()

	client, err := database.Connect(cfg.MongoURI)
	if err != nil {
		logger.Fatal("failed to connect to mongodb", zap.Error(err))
	}
	db := client.Database(cfg.MongoDB)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := database.Initialize(ctx, db, cfg.AdminPassword, cfg.BcryptCost, logger); err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}

	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Authorization"},
	}))
	routes.RegisterRoutes(router, db, cfg, logger)

	logger.Info("server running", zap.String("port", cfg.Port))
	if err := router.Run(":" + cfg.Port); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
