package mapper

import (
	"designhub-be/internal/entity"
	"designhub-be/internal/model"
)

type SubscriptionMapper struct{}

func NewSubscriptionMapper() *SubscriptionMapper {
	return &SubscriptionMapper{}
}

func (m *SubscriptionMapper) PlanToEntity(p *model.SubscriptionPlan) *entity.SubscriptionPlan {
	if p == nil {
		return nil
	}
	return &entity.SubscriptionPlan{
		Id:                      p.Id,
		Name:                    p.Name,
		Slug:                    p.Slug,
		Description:             p.Description,
		Tagline:                 p.Tagline,
		Price:                   p.Price,
		TaxRate:                 p.TaxRate,
		BillingPeriod:           entity.BillingPeriod(p.BillingPeriod),
		MaxActiveRequests:       p.MaxActiveRequests,
		MaxMembers:              p.MaxMembers,
		SlackIntegrationEnabled: p.SlackIntegrationEnabled,
		AiChatEnabled:           p.AiChatEnabled,
		IsMostPopular:           p.IsMostPopular,
		IsActive:                p.IsActive,
		SortOrder:               p.SortOrder,
	}
}

func (m *SubscriptionMapper) PlanToModel(p *entity.SubscriptionPlan) *model.SubscriptionPlan {
	if p == nil {
		return nil
	}
	return &model.SubscriptionPlan{
		Id:                      p.Id,
		Name:                    p.Name,
		Slug:                    p.Slug,
		Description:             p.Description,
		Tagline:                 p.Tagline,
		Price:                   p.Price,
		TaxRate:                 p.TaxRate,
		BillingPeriod:           string(p.BillingPeriod),
		MaxActiveRequests:       p.MaxActiveRequests,
		MaxMembers:              p.MaxMembers,
		SlackIntegrationEnabled: p.SlackIntegrationEnabled,
		AiChatEnabled:           p.AiChatEnabled,
		IsMostPopular:           p.IsMostPopular,
		IsActive:                p.IsActive,
		SortOrder:               p.SortOrder,
	}
}

func (m *SubscriptionMapper) SubscriptionToEntity(s *model.WorkspaceSubscription) *entity.WorkspaceSubscription {
	if s == nil {
		return nil
	}
	return &entity.WorkspaceSubscription{
		Id:                    s.Id,
		WorkspaceId:           s.WorkspaceId,
		PlanId:                s.PlanId,
		Status:                entity.SubscriptionStatus(s.Status),
		CurrentPeriodStart:    s.CurrentPeriodStart,
		CurrentPeriodEnd:      s.CurrentPeriodEnd,
		PaymentStatus:         entity.PaymentStatus(s.PaymentStatus),
		BillingEmail:          s.BillingEmail,
		MidtransTransactionId: s.MidtransTransactionId,
		CreatedAt:             s.CreatedAt,
		UpdatedAt:             s.UpdatedAt,
	}
}

func (m *SubscriptionMapper) SubscriptionToModel(s *entity.WorkspaceSubscription) *model.WorkspaceSubscription {
	if s == nil {
		return nil
	}
	return &model.WorkspaceSubscription{
		Id:                    s.Id,
		WorkspaceId:           s.WorkspaceId,
		PlanId:                s.PlanId,
		Status:                string(s.Status),
		CurrentPeriodStart:    s.CurrentPeriodStart,
		CurrentPeriodEnd:      s.CurrentPeriodEnd,
		PaymentStatus:         string(s.PaymentStatus),
		BillingEmail:          s.BillingEmail,
		MidtransTransactionId: s.MidtransTransactionId,
		CreatedAt:             s.CreatedAt,
		UpdatedAt:             s.UpdatedAt,
	}
}
