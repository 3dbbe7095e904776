package dto

import (
	"time"

	"github.com/google/uuid"
)

type PlanResponse struct {
	Id            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Slug          string    `json:"slug"`
	Price         float64   `json:"price"`
	BillingPeriod string    `json:"billing_period"`
	Description   string    `json:"description"`
	Features      []string  `json:"features"`
	IsMostPopular bool      `json:"is_most_popular"`
}

type OrderSummaryResponse struct {
	PlanName      string  `json:"plan_name"`
	BillingPeriod string  `json:"billing_period"` // e.g., "year", "month"
	PricePerUnit  string  `json:"price_per_unit"`
	Subtotal      float64 `json:"subtotal"`
	Tax           float64 `json:"tax"`
	Total         float64 `json:"total"`
	Currency      string  `json:"currency"`
}

type CheckoutRequest struct {
	WorkspaceId uuid.UUID `json:"workspace_id" validate:"required"`
	PlanId      uuid.UUID `json:"plan_id" validate:"required"`
	FirstName   string    `json:"first_name" validate:"required"`
	LastName    string    `json:"last_name" validate:"required"`
	Email       string    `json:"email" validate:"required,email"`
	Phone       string    `json:"phone" validate:"omitempty"`
}

type CheckoutResponse struct {
	SubscriptionId  uuid.UUID `json:"subscription_id"`
	SnapRedirectUrl string    `json:"snap_redirect_url"`
	SnapToken       string    `json:"snap_token"`
}

type MidtransWebhookRequest struct {
	TransactionStatus string `json:"transaction_status"`
	OrderId           string `json:"order_id"`
	FraudStatus       string `json:"fraud_status"`
	// Signature validation fields
	SignatureKey string `json:"signature_key"`
	StatusCode   string `json:"status_code"`
	GrossAmount  string `json:"gross_amount"`
}

type SubscriptionStatusResponse struct {
	SubscriptionId   uuid.UUID    `json:"subscription_id,omitempty"`
	PlanName         string       `json:"plan_name"`
	Status           string       `json:"status"`
	IsActive         bool         `json:"is_active"`
	CurrentPeriodEnd time.Time    `json:"current_period_end,omitempty"`
	Features         PlanFeatures `json:"features"`
}

type PlanFeatures struct {
	SlackIntegration  bool `json:"slack_integration"`
	AiChat            bool `json:"ai_chat"`
	MaxActiveRequests int  `json:"max_active_requests"`
	MaxMembers        int  `json:"max_members"`
}
