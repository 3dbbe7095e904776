// FILE: internal/entity/subscription_entity.go
package entity

import (
	"time"

	"github.com/google/uuid"
)

type SubscriptionStatus string
type PaymentStatus string
type BillingPeriod string

const (
	SubscriptionStatusActive   SubscriptionStatus = "active"
	SubscriptionStatusInactive SubscriptionStatus = "inactive"
	SubscriptionStatusCanceled SubscriptionStatus = "canceled"

	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "success"
	PaymentStatusFailed  PaymentStatus = "failed"

	BillingPeriodMonthly BillingPeriod = "monthly"
	BillingPeriodYearly  BillingPeriod = "yearly"
)

type SubscriptionPlan struct {
	Id            uuid.UUID
	Name          string
	Slug          string
	Description   string
	Tagline       string
	Price         float64
	TaxRate       float64
	BillingPeriod BillingPeriod
	// Limits, -1 = unlimited
	MaxActiveRequests int
	MaxMembers        int
	// Feature Flags
	SlackIntegrationEnabled bool
	AiChatEnabled           bool
	// Display Settings
	IsMostPopular bool
	IsActive      bool
	SortOrder     int
}

type WorkspaceSubscription struct {
	Id                    uuid.UUID
	WorkspaceId           uuid.UUID
	PlanId                uuid.UUID
	Status                SubscriptionStatus
	CurrentPeriodStart    time.Time
	CurrentPeriodEnd      time.Time
	PaymentStatus         PaymentStatus
	BillingEmail          string
	MidtransTransactionId *string
	CreatedAt             time.Time
	UpdatedAt             time.Time
}
