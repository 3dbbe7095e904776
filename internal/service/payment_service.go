// FILE: internal/service/payment_service.go
package service

import (
	"context"
	"crypto/sha512"
	"errors"
	"fmt"
	"os"
	"time"

	"designhub-be/internal/dto"
	"designhub-be/internal/entity"
	"designhub-be/internal/pkg/mailer"
	"designhub-be/internal/repository/specification"
	"designhub-be/internal/repository/unitofwork"

	"designhub-be/pkg/events"
	pktNats "designhub-be/pkg/nats" // Renamed to avoid collision

	"github.com/google/uuid"
	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
)

type IPaymentService interface {
	GetPlans(ctx context.Context) ([]*dto.PlanResponse, error)
	GetOrderSummary(ctx context.Context, planId uuid.UUID) (*dto.OrderSummaryResponse, error)
	CreateSubscription(ctx context.Context, userId string, req *dto.CheckoutRequest) (*dto.CheckoutResponse, error)
	HandleNotification(ctx context.Context, req *dto.MidtransWebhookRequest) error
	GetSubscriptionStatus(ctx context.Context, userId string, workspaceId uuid.UUID) (*dto.SubscriptionStatusResponse, error)
	CancelSubscription(ctx context.Context, userId string, workspaceId uuid.UUID) error
}

type paymentService struct {
	uowFactory     unitofwork.RepositoryFactory
	eventPublisher *pktNats.Publisher
	mailer         mailer.IEmailService
}

func NewPaymentService(uowFactory unitofwork.RepositoryFactory, eventPublisher *pktNats.Publisher, emailService mailer.IEmailService) IPaymentService {
	return &paymentService{
		uowFactory:     uowFactory,
		eventPublisher: eventPublisher,
		mailer:         emailService,
	}
}

func (s *paymentService) GetPlans(ctx context.Context) ([]*dto.PlanResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	plans, err := uow.SubscriptionRepository().FindAllPlans(ctx,
		specification.Filter("is_active", true),
		specification.OrderBy{Field: "sort_order", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	var res []*dto.PlanResponse
	for _, p := range plans {
		features := []string{"タスクボード"}
		if p.SlackIntegrationEnabled {
			features = append(features, "Slack連携")
		}
		if p.AiChatEnabled {
			features = append(features, "AIチャット受付")
		}

		res = append(res, &dto.PlanResponse{
			Id:            p.Id,
			Name:          p.Name,
			Slug:          p.Slug,
			Price:         p.Price,
			BillingPeriod: string(p.BillingPeriod),
			Description:   p.Description,
			Features:      features,
			IsMostPopular: p.IsMostPopular,
		})
	}
	return res, nil
}

func (s *paymentService) GetOrderSummary(ctx context.Context, planId uuid.UUID) (*dto.OrderSummaryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	plan, err := uow.SubscriptionRepository().FindOnePlan(ctx, specification.ByID{ID: planId})
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, errors.New("plan not found")
	}

	subtotal := plan.Price
	taxRate := plan.TaxRate
	tax := subtotal * taxRate
	total := subtotal + tax

	billingPeriod := "month"
	if plan.BillingPeriod == entity.BillingPeriodYearly {
		billingPeriod = "year"
	}

	return &dto.OrderSummaryResponse{
		PlanName:      plan.Name,
		BillingPeriod: billingPeriod,
		PricePerUnit:  fmt.Sprintf("$%.2f/%s", plan.Price, billingPeriod),
		Subtotal:      subtotal,
		Tax:           tax,
		Total:         total,
		Currency:      "USD",
	}, nil
}

func (s *paymentService) CreateSubscription(ctx context.Context, userId string, req *dto.CheckoutRequest) (*dto.CheckoutResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	plan, err := uow.SubscriptionRepository().FindOnePlan(ctx, specification.ByID{ID: req.PlanId})
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, errors.New("plan not found")
	}

	member, err := uow.WorkspaceRepository().FindMember(ctx, req.WorkspaceId, userId)
	if err != nil {
		return nil, err
	}
	if member == nil || member.Role != entity.WorkspaceRoleOwner {
		return nil, ErrWorkspaceAccessDenied
	}

	subId := uuid.New()
	sub := &entity.WorkspaceSubscription{
		Id:                 subId,
		WorkspaceId:        req.WorkspaceId,
		PlanId:             plan.Id,
		Status:             entity.SubscriptionStatusInactive,
		PaymentStatus:      entity.PaymentStatusPending,
		BillingEmail:       req.Email,
		CreatedAt:          time.Now(),
		UpdatedAt:          time.Now(),
		CurrentPeriodStart: time.Now(),
		CurrentPeriodEnd:   time.Now().AddDate(0, 1, 0),
	}

	if plan.BillingPeriod == entity.BillingPeriodYearly {
		sub.CurrentPeriodEnd = time.Now().AddDate(1, 0, 0)
	}

	if err := uow.SubscriptionRepository().CreateSubscription(ctx, sub); err != nil {
		return nil, err
	}

	// -- Midtrans Logic (External Service calls outside DB writes) --
	var sClient snap.Client
	serverKey := os.Getenv("MIDTRANS_SERVER_KEY")
	env := midtrans.Sandbox
	if os.Getenv("MIDTRANS_IS_PRODUCTION") == "true" {
		env = midtrans.Production
	}
	sClient.New(serverKey, env)

	frontendURL := os.Getenv("FRONTEND_URL")
	finishRedirectURL := fmt.Sprintf("%s/workspace/%s?payment=success", frontendURL, req.WorkspaceId)

	taxRate := plan.TaxRate
	finalAmount := int64(plan.Price + (plan.Price * taxRate))

	snapReq := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  subId.String(),
			GrossAmt: finalAmount,
		},
		CreditCard: &snap.CreditCardDetails{
			Secure: true,
		},
		Callbacks: &snap.Callbacks{
			Finish: finishRedirectURL,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: req.FirstName,
			LName: req.LastName,
			Email: req.Email,
			Phone: req.Phone,
		},
		Items: &[]midtrans.ItemDetails{
			{
				ID:    plan.Id.String(),
				Price: int64(plan.Price),
				Qty:   1,
				Name:  plan.Name,
			},
		},
		EnabledPayments: snap.AllSnapPaymentType,
	}

	snapResp, midErr := sClient.CreateTransaction(snapReq)
	if midErr != nil {
		return nil, fmt.Errorf("midtrans error: %v", midErr.GetMessage())
	}

	// Emit SUBSCRIPTION_CREATED event
	if s.eventPublisher != nil {
		evt := events.BaseEvent{
			Type: "SUBSCRIPTION_CREATED",
			Data: map[string]interface{}{
				"plan_name":    plan.Name,
				"workspace_id": req.WorkspaceId.String(),
				"user_id":      userId,
				"plan_id":      plan.Id,
				"amount":       plan.Price,
				"currency":     "USD",
				"occurred_at":  time.Now(),
			},
			OccurredAt: time.Now(),
		}
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			fmt.Printf("[WARN] Failed to publish SUBSCRIPTION_CREATED event: %v\n", err)
		}
	}

	return &dto.CheckoutResponse{
		SubscriptionId:  subId,
		SnapToken:       snapResp.Token,
		SnapRedirectUrl: snapResp.RedirectURL,
	}, nil
}

func (s *paymentService) HandleNotification(ctx context.Context, req *dto.MidtransWebhookRequest) error {
	fmt.Printf("\n[WEBHOOK] ========== Processing Notification ==========\n")
	fmt.Printf("[WEBHOOK] OrderId: %s | Status: %s\n", req.OrderId, req.TransactionStatus)

	serverKey := os.Getenv("MIDTRANS_SERVER_KEY")
	if serverKey == "" {
		fmt.Println("[WEBHOOK ERROR] MIDTRANS_SERVER_KEY not configured")
		return fmt.Errorf("server configuration error")
	}

	// Midtrans signature = SHA512(order_id + status_code + gross_amount + server_key)
	signatureInput := req.OrderId + req.StatusCode + req.GrossAmount + serverKey
	expectedSignature := fmt.Sprintf("%x", sha512.Sum512([]byte(signatureInput)))

	if req.SignatureKey != expectedSignature {
		fmt.Printf("[WEBHOOK ERROR] Signature mismatch for OrderId=%s\n", req.OrderId)
		return fmt.Errorf("invalid signature")
	}
	fmt.Printf("[WEBHOOK] Signature validated successfully\n")

	subId, err := uuid.Parse(req.OrderId)
	if err != nil {
		fmt.Printf("[WEBHOOK ERROR] Invalid order_id format: %s\n", req.OrderId)
		return fmt.Errorf("invalid order id format")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		fmt.Printf("[WEBHOOK ERROR] Failed to begin transaction: %v\n", err)
		return err
	}
	defer uow.Rollback()

	sub, err := uow.SubscriptionRepository().FindOneSubscription(ctx, specification.ByID{ID: subId})
	if err != nil {
		fmt.Printf("[WEBHOOK ERROR] Database error finding subscription: %v\n", err)
		return err
	}
	if sub == nil {
		fmt.Printf("[WEBHOOK ERROR] Subscription not found: %s\n", req.OrderId)
		return fmt.Errorf("subscription not found")
	}

	fmt.Printf("[WEBHOOK] Found subscription: WorkspaceId=%s, CurrentStatus=%s, PaymentStatus=%s\n",
		sub.WorkspaceId, sub.Status, sub.PaymentStatus)

	var newStatus entity.SubscriptionStatus
	var newPaymentStatus entity.PaymentStatus

	switch req.TransactionStatus {
	case "capture", "settlement":
		newStatus = entity.SubscriptionStatusActive
		newPaymentStatus = entity.PaymentStatusPaid
		fmt.Printf("[WEBHOOK] Payment SUCCESS - will activate subscription\n")
	case "deny", "cancel", "expire":
		newStatus = entity.SubscriptionStatusInactive
		newPaymentStatus = entity.PaymentStatusFailed
		fmt.Printf("[WEBHOOK] Payment FAILED - will deactivate subscription\n")
	case "pending":
		fmt.Printf("[WEBHOOK] Payment PENDING - no action needed\n")
		return nil
	default:
		fmt.Printf("[WEBHOOK] Unknown status '%s' - no action taken\n", req.TransactionStatus)
		return nil
	}

	if sub.Status == newStatus && sub.PaymentStatus == newPaymentStatus {
		fmt.Printf("[WEBHOOK] Status already up-to-date, skipping update\n")
		return nil
	}

	fmt.Printf("[WEBHOOK] State transition: Status(%s→%s), PaymentStatus(%s→%s)\n",
		sub.Status, newStatus, sub.PaymentStatus, newPaymentStatus)

	sub.Status = newStatus
	sub.PaymentStatus = newPaymentStatus

	if err := uow.SubscriptionRepository().UpdateSubscription(ctx, sub); err != nil {
		fmt.Printf("[WEBHOOK ERROR] Failed to update subscription: %v\n", err)
		return err
	}

	if err := uow.Commit(); err != nil {
		fmt.Printf("[WEBHOOK ERROR] Failed to commit transaction: %v\n", err)
		return err
	}

	if newStatus == entity.SubscriptionStatusActive && s.mailer != nil && sub.BillingEmail != "" {
		plan, _ := uow.SubscriptionRepository().FindOnePlan(ctx, specification.ByID{ID: sub.PlanId})
		planName := "subscription"
		if plan != nil {
			planName = plan.Name
		}
		if err := s.mailer.SendSubscriptionActivated(sub.BillingEmail, planName); err != nil {
			fmt.Printf("[WEBHOOK WARN] Failed to send activation email: %v\n", err)
		}
	}

	fmt.Printf("[WEBHOOK] ✅ Successfully updated subscription %s\n", subId)
	fmt.Printf("[WEBHOOK] ===========================================\n\n")
	return nil
}

func (s *paymentService) GetSubscriptionStatus(ctx context.Context, userId string, workspaceId uuid.UUID) (*dto.SubscriptionStatusResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	member, err := uow.WorkspaceRepository().FindMember(ctx, workspaceId, userId)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, ErrWorkspaceAccessDenied
	}

	subs, err := uow.SubscriptionRepository().FindAllSubscriptions(ctx,
		specification.Filter("workspace_id", workspaceId),
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	var activeSub *entity.WorkspaceSubscription
	for _, sub := range subs {
		if sub.Status == entity.SubscriptionStatusActive && sub.CurrentPeriodEnd.After(time.Now()) {
			activeSub = sub
			break
		}
	}
	if activeSub == nil {
		for _, sub := range subs {
			if sub.PaymentStatus == entity.PaymentStatusPaid && sub.CurrentPeriodEnd.After(time.Now()) {
				activeSub = sub
				break
			}
		}
	}

	if activeSub == nil {
		return &dto.SubscriptionStatusResponse{
			PlanName: "Free Plan",
			Status:   "inactive",
			IsActive: false,
			Features: dto.PlanFeatures{
				SlackIntegration:  false,
				AiChat:            false,
				MaxActiveRequests: 3,
				MaxMembers:        5,
			},
		}, nil
	}

	plan, err := uow.SubscriptionRepository().FindOnePlan(ctx, specification.ByID{ID: activeSub.PlanId})
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, errors.New("plan not found for active subscription")
	}

	return &dto.SubscriptionStatusResponse{
		SubscriptionId:   activeSub.Id,
		PlanName:         plan.Name,
		Status:           string(activeSub.Status),
		IsActive:         true,
		CurrentPeriodEnd: activeSub.CurrentPeriodEnd,
		Features: dto.PlanFeatures{
			SlackIntegration:  plan.SlackIntegrationEnabled,
			AiChat:            plan.AiChatEnabled,
			MaxActiveRequests: plan.MaxActiveRequests,
			MaxMembers:        plan.MaxMembers,
		},
	}, nil
}

func (s *paymentService) CancelSubscription(ctx context.Context, userId string, workspaceId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	member, err := uow.WorkspaceRepository().FindMember(ctx, workspaceId, userId)
	if err != nil {
		return err
	}
	if member == nil || member.Role != entity.WorkspaceRoleOwner {
		return ErrWorkspaceAccessDenied
	}

	subs, err := uow.SubscriptionRepository().FindAllSubscriptions(ctx,
		specification.Filter("workspace_id", workspaceId))
	if err != nil {
		return err
	}

	var activeSub *entity.WorkspaceSubscription
	for _, sub := range subs {
		if sub.Status == entity.SubscriptionStatusActive {
			activeSub = sub
			break
		}
	}

	if activeSub == nil {
		return errors.New("no active subscription found")
	}

	activeSub.Status = entity.SubscriptionStatusCanceled
	return uow.SubscriptionRepository().UpdateSubscription(ctx, activeSub)
}
