package billing

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fitrekhq/fitrek/app/models"
)

// Repository provides DB operations used by the billing service.
type Repository interface {
	UpsertCustomer(bc *models.BillingCustomer) error
	GetCustomerByCustomerID(customerID string) (*models.BillingCustomer, error)
	GetCustomerByUserID(userID uint) (*models.BillingCustomer, error)
	ReplaceSubscription(sub *models.BillingSubscription) error
	GetSubscriptionByCustomerID(customerID string) (*models.BillingSubscription, error)
	CreateOrderIfNotExists(order *models.BillingOrder) (bool, error)
	CreateWebhookEventIfNotExists(event *models.BillingWebhookEvent) (bool, *models.BillingWebhookEvent, error)
	MarkWebhookProcessed(id uint, processingError string) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a billing repository backed by GORM.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) UpsertCustomer(bc *models.BillingCustomer) error {
	if err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "user_id"},
		},
		DoUpdates: clause.AssignmentColumns([]string{
			"customer_id",
			"updated_at",
		}),
	}).Create(bc).Error; err != nil {
		return err
	}

	return r.db.Where("user_id = ?", bc.UserID).First(bc).Error
}

func (r *gormRepository) GetCustomerByCustomerID(customerID string) (*models.BillingCustomer, error) {
	var bc models.BillingCustomer
	err := r.db.Where("customer_id = ?", customerID).First(&bc).Error
	if err != nil {
		return nil, err
	}
	return &bc, nil
}

func (r *gormRepository) GetCustomerByUserID(userID uint) (*models.BillingCustomer, error) {
	var bc models.BillingCustomer
	err := r.db.Where("user_id = ?", userID).First(&bc).Error
	if err != nil {
		return nil, err
	}
	return &bc, nil
}

// ReplaceSubscription upserts the full provider snapshot keyed by customer
// id. All mirrored columns are overwritten; there is no partial merge.
func (r *gormRepository) ReplaceSubscription(sub *models.BillingSubscription) error {
	if err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "customer_id"},
		},
		DoUpdates: clause.AssignmentColumns([]string{
			"subscription_id",
			"price_id",
			"status",
			"current_period_start",
			"current_period_end",
			"cancel_at_period_end",
			"payment_method_brand",
			"payment_method_last4",
			"updated_at",
		}),
	}).Create(sub).Error; err != nil {
		return err
	}

	// Ensure ID is populated after upsert.
	return r.db.Where("customer_id = ?", sub.CustomerID).First(sub).Error
}

func (r *gormRepository) GetSubscriptionByCustomerID(customerID string) (*models.BillingSubscription, error) {
	var sub models.BillingSubscription
	err := r.db.Where("customer_id = ?", customerID).First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *gormRepository) CreateOrderIfNotExists(order *models.BillingOrder) (bool, error) {
	tx := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "checkout_session_id"},
		},
		DoNothing: true,
	}).Create(order)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

func (r *gormRepository) CreateWebhookEventIfNotExists(event *models.BillingWebhookEvent) (bool, *models.BillingWebhookEvent, error) {
	tx := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "provider"},
			{Name: "provider_event_id"},
		},
		DoNothing: true,
	}).Create(event)
	if tx.Error != nil {
		return false, nil, tx.Error
	}

	created := tx.RowsAffected > 0
	var stored models.BillingWebhookEvent
	if err := r.db.Where("provider = ? AND provider_event_id = ?", event.Provider, event.ProviderEventID).
		First(&stored).Error; err != nil {
		return false, nil, err
	}
	return created, &stored, nil
}

func (r *gormRepository) MarkWebhookProcessed(id uint, processingError string) error {
	now := time.Now()
	updates := map[string]interface{}{
		"processed_at":     &now,
		"processing_error": processingError,
	}
	return r.db.Model(&models.BillingWebhookEvent{}).Where("id = ?", id).Updates(updates).Error
}
