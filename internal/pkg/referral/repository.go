package referral

import (
	"errors"

	"gorm.io/gorm"

	"github.com/fitrekhq/fitrek/app/models"
)

// Repository abstracts persistence for referral tracking.
type Repository interface {
	GetUserByID(id uint) (*models.User, error)
	GetUserByReferralCode(code string) (*models.User, error)
	AssignReferralCode(userID uint, code string) error
	CreateReferral(ref *models.Referral) error
	GetByReferredID(referredID uint) (*models.Referral, error)
	ListByReferrerID(referrerID uint) ([]models.Referral, error)
	CompletePending(referredID uint) (referrerID uint, newCount int, completed bool, err error)
	GetCustomerIDByUserID(userID uint) (string, error)
}

type gormRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *gormRepository) GetUserByReferralCode(code string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("referral_code = ?", code).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *gormRepository) AssignReferralCode(userID uint, code string) error {
	return r.db.Model(&models.User{}).Where("id = ?", userID).Update("referral_code", code).Error
}

func (r *gormRepository) CreateReferral(ref *models.Referral) error {
	return r.db.Create(ref).Error
}

func (r *gormRepository) GetByReferredID(referredID uint) (*models.Referral, error) {
	var ref models.Referral
	if err := r.db.Where("referred_id = ?", referredID).First(&ref).Error; err != nil {
		return nil, err
	}
	return &ref, nil
}

func (r *gormRepository) ListByReferrerID(referrerID uint) ([]models.Referral, error) {
	var refs []models.Referral
	if err := r.db.Where("referrer_id = ?", referrerID).Order("created_at DESC").Find(&refs).Error; err != nil {
		return nil, err
	}
	return refs, nil
}

// CompletePending flips the referred user's pending referral to completed and
// increments the referrer's counter, all in one transaction. The conditional
// UPDATE guarded by RowsAffected makes the flip happen at most once even under
// concurrent webhook deliveries; the counter row lock serializes concurrent
// completions for the same referrer, so the count read back is exactly the one
// this completion produced.
func (r *gormRepository) CompletePending(referredID uint) (uint, int, bool, error) {
	var referrerID uint
	var newCount int
	completed := false

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var ref models.Referral
		if err := tx.Where("referred_id = ? AND status = ?", referredID, models.ReferralStatusPending).
			First(&ref).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}

		res := tx.Model(&models.Referral{}).
			Where("id = ? AND status = ?", ref.ID, models.ReferralStatusPending).
			Updates(map[string]interface{}{
				"status":       models.ReferralStatusCompleted,
				"completed_at": gorm.Expr("NOW()"),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Another delivery won the race.
			return nil
		}

		if err := tx.Model(&models.User{}).
			Where("id = ?", ref.ReferrerID).
			UpdateColumn("completed_referrals_count", gorm.Expr("completed_referrals_count + 1")).Error; err != nil {
			return err
		}

		var referrer models.User
		if err := tx.Select("id", "completed_referrals_count").First(&referrer, ref.ReferrerID).Error; err != nil {
			return err
		}

		referrerID = referrer.ID
		newCount = referrer.CompletedReferralsCount
		completed = true
		return nil
	})
	if err != nil {
		return 0, 0, false, err
	}
	return referrerID, newCount, completed, nil
}

func (r *gormRepository) GetCustomerIDByUserID(userID uint) (string, error) {
	var bc models.BillingCustomer
	if err := r.db.Where("user_id = ?", userID).First(&bc).Error; err != nil {
		return "", err
	}
	return bc.CustomerID, nil
}
