package referral

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/fitrekhq/fitrek/app/models"
	"github.com/fitrekhq/fitrek/internal/pkg/billing"
)

type fakeRepo struct {
	usersByID     map[uint]*models.User
	usersByCode   map[string]*models.User
	referrals     map[uint]*models.Referral // keyed by referred id
	customerIDs   map[uint]string
	assignedCodes map[uint]string
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		usersByID:     map[uint]*models.User{},
		usersByCode:   map[string]*models.User{},
		referrals:     map[uint]*models.Referral{},
		customerIDs:   map[uint]string{},
		assignedCodes: map[uint]string{},
	}
}

func (f *fakeRepo) addUser(u *models.User) {
	f.usersByID[u.ID] = u
	if u.ReferralCode != "" {
		f.usersByCode[u.ReferralCode] = u
	}
}

func (f *fakeRepo) GetUserByID(id uint) (*models.User, error) {
	if u, ok := f.usersByID[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) GetUserByReferralCode(code string) (*models.User, error) {
	if u, ok := f.usersByCode[code]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) AssignReferralCode(userID uint, code string) error {
	f.assignedCodes[userID] = code
	if u, ok := f.usersByID[userID]; ok {
		u.ReferralCode = code
		f.usersByCode[code] = u
	}
	return nil
}

func (f *fakeRepo) CreateReferral(ref *models.Referral) error {
	f.referrals[ref.ReferredID] = ref
	return nil
}

func (f *fakeRepo) GetByReferredID(referredID uint) (*models.Referral, error) {
	if ref, ok := f.referrals[referredID]; ok {
		return ref, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) ListByReferrerID(referrerID uint) ([]models.Referral, error) {
	var out []models.Referral
	for _, ref := range f.referrals {
		if ref.ReferrerID == referrerID {
			out = append(out, *ref)
		}
	}
	return out, nil
}

func (f *fakeRepo) CompletePending(referredID uint) (uint, int, bool, error) {
	ref, ok := f.referrals[referredID]
	if !ok || ref.Status != models.ReferralStatusPending {
		return 0, 0, false, nil
	}
	ref.Status = models.ReferralStatusCompleted
	now := time.Now()
	ref.CompletedAt = &now
	referrer := f.usersByID[ref.ReferrerID]
	referrer.CompletedReferralsCount++
	return referrer.ID, referrer.CompletedReferralsCount, true, nil
}

func (f *fakeRepo) GetCustomerIDByUserID(userID uint) (string, error) {
	if id, ok := f.customerIDs[userID]; ok {
		return id, nil
	}
	return "", gorm.ErrRecordNotFound
}

type fakeProvider struct {
	subs           []billing.Subscription
	listErr        error
	updatedSubID   string
	updatedTrialTo int64
	updateCalls    int
}

func (f *fakeProvider) ListSubscriptions(_ context.Context, _, _ string, _ int) ([]billing.Subscription, error) {
	return f.subs, f.listErr
}

func (f *fakeProvider) UpdateSubscriptionTrialEnd(_ context.Context, subscriptionID string, trialEndUnix int64) (*billing.Subscription, error) {
	f.updateCalls++
	f.updatedSubID = subscriptionID
	f.updatedTrialTo = trialEndUnix
	return &billing.Subscription{ID: subscriptionID}, nil
}

func TestIssueCode(t *testing.T) {
	repo := newFakeRepo()
	repo.addUser(&models.User{ID: 1})
	svc := NewService(repo, &fakeProvider{})

	code, err := svc.IssueCode(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(code) != codeLength {
		t.Fatalf("expected %d character code, got %q", codeLength, code)
	}

	// A second call must return the same code, not mint a new one.
	again, err := svc.IssueCode(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if again != code {
		t.Fatalf("expected stable code %q, got %q", code, again)
	}
}

func TestProcessSignup(t *testing.T) {
	repo := newFakeRepo()
	repo.addUser(&models.User{ID: 1, ReferralCode: "REFERRER"})
	repo.addUser(&models.User{ID: 2})
	svc := NewService(repo, &fakeProvider{})

	if err := svc.ProcessSignup(2, ""); err != nil {
		t.Fatalf("empty code should be a no-op, got %v", err)
	}
	if err := svc.ProcessSignup(2, "NOPE"); !errors.Is(err, ErrUnknownCode) {
		t.Fatalf("expected ErrUnknownCode, got %v", err)
	}
	if err := svc.ProcessSignup(1, "REFERRER"); !errors.Is(err, ErrSelfReferral) {
		t.Fatalf("expected ErrSelfReferral, got %v", err)
	}

	if err := svc.ProcessSignup(2, "REFERRER"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ref, err := repo.GetByReferredID(2)
	if err != nil {
		t.Fatalf("expected referral record: %v", err)
	}
	if ref.ReferrerID != 1 || ref.Status != models.ReferralStatusPending {
		t.Fatalf("unexpected referral: %+v", ref)
	}

	if err := svc.ProcessSignup(2, "REFERRER"); !errors.Is(err, ErrAlreadyReferred) {
		t.Fatalf("expected ErrAlreadyReferred, got %v", err)
	}
}

func TestRewardOnPayment_FirstReferralExtendsQuarterMonth(t *testing.T) {
	repo := newFakeRepo()
	repo.addUser(&models.User{ID: 1, ReferralCode: "REFERRER"})
	repo.addUser(&models.User{ID: 2})
	repo.referrals[2] = &models.Referral{ID: 10, ReferrerID: 1, ReferredID: 2, Status: models.ReferralStatusPending}
	repo.customerIDs[1] = "cus_referrer"

	periodEnd := time.Now().Add(20 * 24 * time.Hour).Unix()
	provider := &fakeProvider{subs: []billing.Subscription{{
		ID:               "sub_1",
		Customer:         "cus_referrer",
		Status:           "active",
		CurrentPeriodEnd: periodEnd,
	}}}
	svc := NewService(repo, provider)

	if err := svc.RewardOnPayment(context.Background(), 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if repo.referrals[2].Status != models.ReferralStatusCompleted {
		t.Fatalf("expected referral to be completed, got %q", repo.referrals[2].Status)
	}
	if repo.usersByID[1].CompletedReferralsCount != 1 {
		t.Fatalf("expected completed count 1, got %d", repo.usersByID[1].CompletedReferralsCount)
	}
	if provider.updateCalls != 1 || provider.updatedSubID != "sub_1" {
		t.Fatalf("expected one trial_end update on sub_1, got %d on %q", provider.updateCalls, provider.updatedSubID)
	}
	want := periodEnd + ExtensionSeconds(0.25)
	if provider.updatedTrialTo != want {
		t.Fatalf("trial_end = %d, want %d", provider.updatedTrialTo, want)
	}
}

func TestRewardOnPayment_DuplicateDeliveryIsNoOp(t *testing.T) {
	repo := newFakeRepo()
	repo.addUser(&models.User{ID: 1, ReferralCode: "REFERRER"})
	repo.addUser(&models.User{ID: 2})
	repo.referrals[2] = &models.Referral{ID: 10, ReferrerID: 1, ReferredID: 2, Status: models.ReferralStatusPending}
	repo.customerIDs[1] = "cus_referrer"

	provider := &fakeProvider{subs: []billing.Subscription{{ID: "sub_1", Status: "active", CurrentPeriodEnd: time.Now().Add(time.Hour).Unix()}}}
	svc := NewService(repo, provider)

	ctx := context.Background()
	if err := svc.RewardOnPayment(ctx, 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.RewardOnPayment(ctx, 2); err != nil {
		t.Fatalf("unexpected error on redelivery: %v", err)
	}

	if repo.usersByID[1].CompletedReferralsCount != 1 {
		t.Fatalf("expected completed count to stay 1, got %d", repo.usersByID[1].CompletedReferralsCount)
	}
	if provider.updateCalls != 1 {
		t.Fatalf("expected a single extension, got %d", provider.updateCalls)
	}
}

func TestRewardOnPayment_BetweenMilestonesSkipsExtension(t *testing.T) {
	repo := newFakeRepo()
	repo.addUser(&models.User{ID: 1, ReferralCode: "REFERRER", CompletedReferralsCount: 6})
	repo.addUser(&models.User{ID: 2})
	repo.referrals[2] = &models.Referral{ID: 10, ReferrerID: 1, ReferredID: 2, Status: models.ReferralStatusPending}
	repo.customerIDs[1] = "cus_referrer"

	provider := &fakeProvider{subs: []billing.Subscription{{ID: "sub_1", Status: "active"}}}
	svc := NewService(repo, provider)

	if err := svc.RewardOnPayment(context.Background(), 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if repo.usersByID[1].CompletedReferralsCount != 7 {
		t.Fatalf("expected completed count 7, got %d", repo.usersByID[1].CompletedReferralsCount)
	}
	if provider.updateCalls != 0 {
		t.Fatalf("count 7 is not a milestone, expected no extension, got %d", provider.updateCalls)
	}
}

func TestRewardOnPayment_ProviderFailureDoesNotSurface(t *testing.T) {
	repo := newFakeRepo()
	repo.addUser(&models.User{ID: 1, ReferralCode: "REFERRER"})
	repo.addUser(&models.User{ID: 2})
	repo.referrals[2] = &models.Referral{ID: 10, ReferrerID: 1, ReferredID: 2, Status: models.ReferralStatusPending}
	repo.customerIDs[1] = "cus_referrer"

	provider := &fakeProvider{listErr: errors.New("provider down")}
	svc := NewService(repo, provider)

	if err := svc.RewardOnPayment(context.Background(), 2); err != nil {
		t.Fatalf("extension failure must not surface, got %v", err)
	}
	if repo.referrals[2].Status != models.ReferralStatusCompleted {
		t.Fatalf("completion must persist despite provider failure")
	}
}

func TestRewardOnPayment_NoPendingReferral(t *testing.T) {
	repo := newFakeRepo()
	repo.addUser(&models.User{ID: 2})
	provider := &fakeProvider{}
	svc := NewService(repo, provider)

	if err := svc.RewardOnPayment(context.Background(), 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if provider.updateCalls != 0 {
		t.Fatalf("expected no extension for unreferred user")
	}
}
