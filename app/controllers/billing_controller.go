package controllers

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/fitrekhq/fitrek/app/models"
	"github.com/fitrekhq/fitrek/app/repository"
	"github.com/fitrekhq/fitrek/internal/pkg/billing"
	"github.com/fitrekhq/fitrek/internal/pkg/database"
	"github.com/fitrekhq/fitrek/internal/pkg/env"
	"github.com/fitrekhq/fitrek/internal/pkg/referral"
	"github.com/fitrekhq/fitrek/internal/pkg/usercontext"
)

// HandleStripeWebhook receives payment provider events. It verifies the
// signature, persists the event idempotently, answers immediately and runs
// the actual processing in the background so provider retries are not driven
// by our processing time.
func HandleStripeWebhook(c *fiber.Ctx) error {
	switch c.Method() {
	case fiber.MethodOptions:
		return c.SendStatus(fiber.StatusNoContent)
	case fiber.MethodPost:
		// Fall through to processing.
	default:
		return c.Status(fiber.StatusMethodNotAllowed).JSON(fiber.Map{"error": "method not allowed"})
	}

	rawBody := append([]byte(nil), c.BodyRaw()...)
	signature := strings.TrimSpace(c.Get("Stripe-Signature"))
	secret := env.GetEnv("STRIPE_WEBHOOK_SECRET", "")

	if !billing.VerifyStripeWebhookSignature(rawBody, signature, secret, billing.DefaultSignatureTolerance) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid signature"})
	}

	event, err := billing.ParseWebhookEvent(rawBody)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}

	svc := billing.NewServiceFromDB(database.GetDB())
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	created, stored, err := svc.RecordWebhookEvent(ctx, billing.WebhookEventInput{
		Provider:        models.BillingProviderStripe,
		ProviderEventID: event.ID,
		EventType:       event.Type,
		PayloadJSON:     string(rawBody),
		SignatureValid:  true,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to persist event"})
	}
	if created {
		go processStripeEvent(stored.ID, event)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"received": true})
}

// processStripeEvent runs after the webhook response was sent.
func processStripeEvent(webhookEventID uint, event *billing.Event) {
	db := database.GetDB()
	svc := billing.NewServiceFromDB(db)
	refSvc := referral.NewServiceFromDB(db)
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	err := handleStripeEvent(ctx, svc, refSvc, event)
	if err != nil {
		log.Errorf("webhook event %s (%s) processing failed: %v", event.ID, event.Type, err)
	}
	if markErr := svc.MarkWebhookProcessed(ctx, webhookEventID, err); markErr != nil {
		log.Errorf("mark webhook event %d processed: %v", webhookEventID, markErr)
	}
}

func handleStripeEvent(ctx context.Context, svc *billing.Service, refSvc *referral.Service, event *billing.Event) error {
	obj, err := event.ParseEventObject()
	if err != nil {
		return err
	}

	switch event.Type {
	case "checkout.session.completed":
		if obj.Mode == billing.CheckoutModePayment {
			if obj.PaymentStatus != "paid" {
				return nil
			}
			_, err := svc.RecordOrder(ctx, obj)
			return err
		}
		return syncAndReward(ctx, svc, refSvc, obj.Customer)

	case "invoice.paid", "invoice.payment_succeeded":
		return syncAndReward(ctx, svc, refSvc, obj.Customer)

	case "customer.subscription.created",
		"customer.subscription.updated",
		"customer.subscription.deleted":
		if obj.Customer == "" {
			return nil
		}
		_, err := svc.SyncCustomerSubscription(ctx, obj.Customer)
		return err

	default:
		// Unhandled event types are acknowledged and skipped.
		return nil
	}
}

// syncAndReward mirrors the customer's subscription and then runs the
// referral completion for the paying user.
func syncAndReward(ctx context.Context, svc *billing.Service, refSvc *referral.Service, customerID string) error {
	if customerID == "" {
		return nil
	}

	sub, err := svc.SyncCustomerSubscription(ctx, customerID)
	if err != nil {
		return err
	}
	if !sub.IsEntitling() {
		return nil
	}

	userID, err := svc.ResolveCustomerUser(ctx, customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Payment from a customer we never linked; nothing to reward.
			return nil
		}
		return err
	}
	return refSvc.RewardOnPayment(ctx, userID)
}

type checkoutRequest struct {
	PriceID      string `json:"price_id" validate:"required"`
	Mode         string `json:"mode" validate:"required,oneof=payment subscription"`
	SuccessURL   string `json:"success_url" validate:"required,url"`
	CancelURL    string `json:"cancel_url" validate:"required,url"`
	ReferralCode string `json:"referral_code" validate:"omitempty,max=20"`
}

// HandleCreateCheckout creates a hosted checkout session for the current user.
func HandleCreateCheckout(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized", "Login required")
	}

	var req checkoutRequest
	if err := parseAndValidate(c, &req); err != nil {
		fe := err.(*fiber.Error)
		return jsonError(c, fe.Code, "validation_failed", fe.Message)
	}

	userRepo := repository.GetGlobalFactory().GetUserRepository()
	user, err := userRepo.GetByID(userCtx.UserID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load user")
	}

	svc := billing.NewServiceFromDB(database.GetDB())
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	customer, err := svc.EnsureCustomer(ctx, user.ID, user.Email, user.Name)
	if err != nil {
		return jsonError(c, fiber.StatusBadGateway, "provider_error", "Failed to create billing customer")
	}

	// A late referral code is applied here as well; failure never blocks
	// checkout.
	if req.ReferralCode != "" {
		refSvc := referral.NewServiceFromDB(database.GetDB())
		if err := refSvc.ProcessSignup(user.ID, req.ReferralCode); err != nil {
			log.Warnf("referral code %q at checkout for user %d: %v", req.ReferralCode, user.ID, err)
		}
	}

	sess, err := svc.CreateCheckoutSession(ctx, billing.CheckoutSessionParams{
		CustomerID: customer.CustomerID,
		PriceID:    req.PriceID,
		Mode:       req.Mode,
		SuccessURL: req.SuccessURL,
		CancelURL:  req.CancelURL,
	})
	if err != nil {
		return jsonError(c, fiber.StatusBadGateway, "provider_error", "Failed to create checkout session")
	}

	return c.JSON(fiber.Map{"id": sess.ID, "url": sess.URL})
}

// HandleGetSubscription returns the local subscription mirror of the current
// user.
func HandleGetSubscription(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized", "Login required")
	}

	svc := billing.NewServiceFromDB(database.GetDB())
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	sub, err := svc.GetSubscriptionForUser(ctx, userCtx.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(fiber.Map{"status": models.BillingStatusNotStarted})
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load subscription")
	}

	return c.JSON(sub)
}
