package referral

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/fitrekhq/fitrek/app/models"
	"github.com/fitrekhq/fitrek/internal/pkg/billing"
)

var (
	// ErrUnknownCode is returned when a signup carries a code no user owns.
	ErrUnknownCode = errors.New("referral code not found")
	// ErrSelfReferral is returned when a user tries to redeem their own code.
	ErrSelfReferral = errors.New("cannot use your own referral code")
	// ErrAlreadyReferred is returned when the referred user already has a
	// referral record.
	ErrAlreadyReferred = errors.New("user has already been referred")
)

// Excludes ambiguous characters (0/O, 1/I/L).
const codeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

const codeLength = 8

const codeIssueAttempts = 5

// SubscriptionProvider is the provider surface the reward path needs.
type SubscriptionProvider interface {
	ListSubscriptions(ctx context.Context, customerID, status string, limit int) ([]billing.Subscription, error)
	UpdateSubscriptionTrialEnd(ctx context.Context, subscriptionID string, trialEndUnix int64) (*billing.Subscription, error)
}

// Service implements referral tracking and milestone rewards.
type Service struct {
	repo     Repository
	provider SubscriptionProvider
}

// NewService creates a referral service from injected collaborators.
func NewService(repo Repository, provider SubscriptionProvider) *Service {
	return &Service{repo: repo, provider: provider}
}

// NewServiceFromDB creates a referral service from a GORM DB handle using the
// environment-configured provider client.
func NewServiceFromDB(db *gorm.DB) *Service {
	return NewService(NewRepository(db), billing.NewStripeClientFromEnv())
}

func generateCode() (string, error) {
	buf := make([]byte, codeLength)
	max := big.NewInt(int64(len(codeAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = codeAlphabet[n.Int64()]
	}
	return string(buf), nil
}

// IssueCode returns the user's referral code, generating and persisting one
// on first call. Retries on the off chance a generated code collides with an
// existing one.
func (s *Service) IssueCode(userID uint) (string, error) {
	user, err := s.repo.GetUserByID(userID)
	if err != nil {
		return "", err
	}
	if user.HasReferralCode() {
		return user.ReferralCode, nil
	}

	for attempt := 0; attempt < codeIssueAttempts; attempt++ {
		code, err := generateCode()
		if err != nil {
			return "", err
		}
		if _, err := s.repo.GetUserByReferralCode(code); err == nil {
			continue
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return "", err
		}
		if err := s.repo.AssignReferralCode(userID, code); err != nil {
			return "", err
		}
		return code, nil
	}
	return "", errors.New("could not generate a unique referral code")
}

// ProcessSignup records a pending referral for a newly registered user who
// supplied a referral code. An empty code is a no-op.
func (s *Service) ProcessSignup(referredUserID uint, code string) error {
	if code == "" {
		return nil
	}

	referrer, err := s.repo.GetUserByReferralCode(code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUnknownCode
		}
		return err
	}
	if referrer.ID == referredUserID {
		return ErrSelfReferral
	}
	if _, err := s.repo.GetByReferredID(referredUserID); err == nil {
		return ErrAlreadyReferred
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	ref := &models.Referral{
		ReferrerID: referrer.ID,
		ReferredID: referredUserID,
		Status:     models.ReferralStatusPending,
	}
	return s.repo.CreateReferral(ref)
}

// ListReferrals returns all referrals issued by the given referrer.
func (s *Service) ListReferrals(referrerID uint) ([]models.Referral, error) {
	return s.repo.ListByReferrerID(referrerID)
}

// RewardOnPayment runs after a referred user's payment event. It completes
// the pending referral exactly once, and when the referrer's new completed
// count lands exactly on a milestone, extends the referrer's active
// subscription by the owed months. The extension is best effort: a provider
// failure is logged but does not roll back the completion.
func (s *Service) RewardOnPayment(ctx context.Context, referredUserID uint) error {
	referrerID, newCount, completed, err := s.repo.CompletePending(referredUserID)
	if err != nil {
		return fmt.Errorf("complete referral for user %d: %w", referredUserID, err)
	}
	if !completed {
		return nil
	}

	log.Infof("referral completed: referrer=%d referred=%d completed_count=%d", referrerID, referredUserID, newCount)

	months := BonusMonths(newCount)
	if months <= 0 {
		return nil
	}

	if err := s.extendReferrerSubscription(ctx, referrerID, months); err != nil {
		log.Errorf("referral reward for referrer %d (%.2f months) failed: %v", referrerID, months, err)
	}
	return nil
}

func (s *Service) extendReferrerSubscription(ctx context.Context, referrerID uint, months float64) error {
	customerID, err := s.repo.GetCustomerIDByUserID(referrerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("referrer %d has no billing customer", referrerID)
		}
		return err
	}

	subs, err := s.provider.ListSubscriptions(ctx, customerID, "active", 1)
	if err != nil {
		return fmt.Errorf("list subscriptions for %s: %w", customerID, err)
	}
	if len(subs) == 0 {
		return fmt.Errorf("referrer %d has no active subscription", referrerID)
	}
	sub := subs[0]

	// Extend from the current period end when it is still in the future,
	// otherwise from now.
	base := sub.CurrentPeriodEnd
	if now := time.Now().Unix(); base < now {
		base = now
	}
	trialEnd := base + ExtensionSeconds(months)

	if _, err := s.provider.UpdateSubscriptionTrialEnd(ctx, sub.ID, trialEnd); err != nil {
		return fmt.Errorf("extend subscription %s: %w", sub.ID, err)
	}

	log.Infof("extended subscription %s for referrer %d by %.2f months (trial_end=%d)", sub.ID, referrerID, months, trialEnd)
	return nil
}
