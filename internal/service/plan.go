package service

import (
	"context"

	"github.com/herbloom/storefront/internal/api/dto"
)

// PlanService exposes the plan catalog to the storefront.
type PlanService interface {
	ListPlans(ctx context.Context) (*dto.ListPlansResponse, error)
}

type planService struct {
	ServiceParams
}

func NewPlanService(params ServiceParams) PlanService {
	return &planService{ServiceParams: params}
}

func (s *planService) ListPlans(_ context.Context) (*dto.ListPlansResponse, error) {
	return &dto.ListPlansResponse{Items: s.Catalog.List()}, nil
}
