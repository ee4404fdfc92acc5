package database

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"greenfields-backend/internal/models"
	"greenfields-backend/internal/repository"
	"greenfields-backend/internal/store"
	"greenfields-backend/internal/utils"
)

// AdminEmail is the fixed address of the seeded administrator account.
const AdminEmail = "admin@greenfields.com"

var defaultCategories = []models.Category{
	{Name: "Flower", Slug: "flower", Description: "Premium whole flower"},
	{Name: "Edibles", Slug: "edibles", Description: "Infused gummies, chocolates, and baked goods"},
	{Name: "Concentrates", Slug: "concentrates", Description: "Extracts, wax, and live resin"},
	{Name: "Accessories", Slug: "accessories", Description: "Grinders, papers, and storage"},
}

// Initialize seeds the default admin account and categories. It checks for
// existence before every insert, so calling it on every start is safe.
func Initialize(ctx context.Context, db *mongo.Database, adminPassword string, bcryptCost int, logger *zap.Logger) error {
	users := repository.NewUserRepository(store.NewMongoCollection(db.Collection("users")))
	categories := repository.NewCategoryRepository(store.NewMongoCollection(db.Collection("categories")))

	_, err := users.FindByEmail(ctx, AdminEmail)
	if errors.Is(err, repository.ErrUserNotFound) {
		hash, err := utils.HashPassword(adminPassword, bcryptCost)
		if err != nil {
			return err
		}
		admin := &models.User{
			Email:        AdminEmail,
			Name:         "Greenfields Admin",
			PasswordHash: hash,
			Role:         models.RoleAdmin,
		}
		if err := users.Create(ctx, admin); err != nil {
			return err
		}
		logger.Info("seeded default admin account", zap.String("email", AdminEmail))
	} else if err != nil {
		return err
	}

	for _, category := range defaultCategories {
		existing, err := categories.FindBySlug(ctx, category.Slug)
		if err != nil {
			return err
		}
		if existing != nil {
			continue
		}
		c := category
		if err := categories.Create(ctx, &c); err != nil {
			return err
		}
		logger.Info("seeded category", zap.String("slug", c.Slug))
	}
	return nil
}
