package model

import (
	"time"

	"github.com/google/uuid"
)

type SubscriptionPlan struct {
	Id            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name          string    `gorm:"type:varchar(255);not null"`
	Slug          string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	Description   string    `gorm:"type:text"`
	Tagline       string    `gorm:"type:text"`
	Price         float64   `gorm:"type:decimal(10,2);not null"`
	TaxRate       float64   `gorm:"type:decimal(5,4);default:0"`
	BillingPeriod string    `gorm:"type:varchar(50);not null"`
	// Limits, -1 = unlimited
	MaxActiveRequests int `gorm:"default:3"`
	MaxMembers        int `gorm:"default:5"`
	// Feature Flags
	SlackIntegrationEnabled bool `gorm:"default:false"`
	AiChatEnabled           bool `gorm:"default:false"`
	// Display Settings
	IsMostPopular bool `gorm:"default:false"`
	IsActive      bool `gorm:"default:true"`
	SortOrder     int  `gorm:"default:0"`
}

func (SubscriptionPlan) TableName() string {
	return "subscription_plans"
}

type WorkspaceSubscription struct {
	Id                    uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	WorkspaceId           uuid.UUID `gorm:"type:uuid;not null;index"`
	PlanId                uuid.UUID `gorm:"type:uuid;not null;index"`
	Status                string    `gorm:"type:varchar(50);not null"`
	CurrentPeriodStart    time.Time `gorm:"not null"`
	CurrentPeriodEnd      time.Time `gorm:"not null"`
	PaymentStatus         string    `gorm:"type:varchar(50);not null"`
	BillingEmail          string    `gorm:"type:varchar(255)"`
	MidtransTransactionId *string   `gorm:"type:varchar(255)"`
	CreatedAt             time.Time `gorm:"autoCreateTime"`
	UpdatedAt             time.Time `gorm:"autoUpdateTime"`
}

func (WorkspaceSubscription) TableName() string {
	return "workspace_subscriptions"
}
