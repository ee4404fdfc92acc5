package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"greenfields-backend/internal/models"
	"greenfields-backend/internal/store"
)

// SettingsRepository manages the singleton configuration documents, one per
// type. Reads lazily create the defaults; writes upsert the merge and then
// re-read, so callers always see exactly what is persisted.
type SettingsRepository struct {
	collection store.Collection
}

func NewSettingsRepository(collection store.Collection) *SettingsRepository {
	return &SettingsRepository{collection: collection}
}

func defaultGeneralSettings() *models.GeneralSettings {
	return &models.GeneralSettings{
		Type:       models.SettingsTypeGeneral,
		StoreName:  "Greenfields Cannabis",
		StoreEmail: "support@greenfields.com",
		Currency:   "USD",
		TaxRate:    0.15,
		UpdatedAt:  time.Now(),
	}
}

func defaultShippingSettings() *models.ShippingSettings {
	return &models.ShippingSettings{
		Type:             models.SettingsTypeShipping,
		FlatRate:         9.99,
		ExpressRate:      19.99,
		FreeShippingOver: 150,
		UpdatedAt:        time.Now(),
	}
}

func defaultPaymentSettings() *models.PaymentSettings {
	return &models.PaymentSettings{
		Type:            models.SettingsTypePayment,
		AcceptedMethods: []string{"card", "cash"},
		CashOnDelivery:  true,
		UpdatedAt:       time.Now(),
	}
}

func defaultLoyaltySettings() *models.LoyaltySettings {
	return &models.LoyaltySettings{
		Type:            models.SettingsTypeLoyalty,
		Enabled:         true,
		PointsPerDollar: 10,
		RedemptionRate:  0.01,
		WelcomeBonus:    welcomeBonus,
		UpdatedAt:       time.Now(),
	}
}

func (r *SettingsRepository) GetGeneral(ctx context.Context) (*models.GeneralSettings, error) {
	var s models.GeneralSettings
	if err := r.read(ctx, models.SettingsTypeGeneral, defaultGeneralSettings(), &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SettingsRepository) UpdateGeneral(ctx context.Context, updates bson.M) (*models.GeneralSettings, error) {
	var s models.GeneralSettings
	if err := r.write(ctx, models.SettingsTypeGeneral, updates, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SettingsRepository) GetShipping(ctx context.Context) (*models.ShippingSettings, error) {
	var s models.ShippingSettings
	if err := r.read(ctx, models.SettingsTypeShipping, defaultShippingSettings(), &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SettingsRepository) UpdateShipping(ctx context.Context, updates bson.M) (*models.ShippingSettings, error) {
	var s models.ShippingSettings
	if err := r.write(ctx, models.SettingsTypeShipping, updates, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SettingsRepository) GetPayment(ctx context.Context) (*models.PaymentSettings, error) {
	var s models.PaymentSettings
	if err := r.read(ctx, models.SettingsTypePayment, defaultPaymentSettings(), &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SettingsRepository) UpdatePayment(ctx context.Context, updates bson.M) (*models.PaymentSettings, error) {
	var s models.PaymentSettings
	if err := r.write(ctx, models.SettingsTypePayment, updates, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SettingsRepository) GetLoyalty(ctx context.Context) (*models.LoyaltySettings, error) {
	var s models.LoyaltySettings
	if err := r.read(ctx, models.SettingsTypeLoyalty, defaultLoyaltySettings(), &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SettingsRepository) UpdateLoyalty(ctx context.Context, updates bson.M) (*models.LoyaltySettings, error) {
	var s models.LoyaltySettings
	if err := r.write(ctx, models.SettingsTypeLoyalty, updates, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// read is the read-through-create path: fetch the singleton by type, insert
// the defaults when absent, and return the persisted document.
func (r *SettingsRepository) read(ctx context.Context, settingsType string, defaults interface{}, out interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"type": settingsType}
	err := r.collection.FindOne(ctx, filter, out)
	if errors.Is(err, store.ErrNoDocuments) {
		if _, err := r.collection.InsertOne(ctx, defaults); err != nil {
			return err
		}
		return r.collection.FindOne(ctx, filter, out)
	}
	return err
}

// write upserts the merge of updates plus the forced type and updatedAt,
// then re-reads the canonical document.
func (r *SettingsRepository) write(ctx context.Context, settingsType string, updates bson.M, out interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if updates == nil {
		updates = bson.M{}
	}
	updates["type"] = settingsType
	updates["updatedAt"] = time.Now()

	filter := bson.M{"type": settingsType}
	if _, err := r.collection.UpsertOne(ctx, filter, bson.M{"$set": updates}); err != nil {
		return err
	}
	return r.collection.FindOne(ctx, filter, out)
}
