package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/taskflow/office/internal/domain/entities"
	"github.com/taskflow/office/internal/domain/policy"
	"github.com/taskflow/office/internal/infrastructure/logger"
	"github.com/taskflow/office/internal/ports"
)

// WFHService handles work-from-home requests
type WFHService struct {
	wfhRepo ports.WFHRepository
	logger  *logger.Logger
}

// NewWFHService creates a new WFH service
func NewWFHService(wfhRepo ports.WFHRepository, logger *logger.Logger) *WFHService {
	return &WFHService{
		wfhRepo: wfhRepo,
		logger:  logger.WithComponent("wfh"),
	}
}

// ListRequests returns the requests visible to actor, newest first
func (s *WFHService) ListRequests(ctx context.Context, actor policy.Actor) ([]*entities.WFHRequest, error) {
	requests, err := s.wfhRepo.List(ctx, policy.WFHVisibleTo(actor))
	if err != nil {
		return nil, fmt.Errorf("failed to list wfh requests: %w", err)
	}

	return requests, nil
}

// CreateRequest files a pending request owned by the actor
func (s *WFHService) CreateRequest(ctx context.Context, actor policy.Actor, req ports.CreateWFHRequest) (*entities.WFHRequest, error) {
	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		return nil, entities.ValidationError("reason is required")
	}
	if req.StartDate.IsZero() || req.EndDate.IsZero() {
		return nil, entities.ValidationError("start and end dates are required")
	}

	request := &entities.WFHRequest{
		ID:        uuid.New(),
		UserID:    actor.ID,
		Reason:    reason,
		StartDate: req.StartDate.Time,
		EndDate:   req.EndDate.Time,
		Status:    entities.WFHStatusPending,
	}

	if err := request.Validate(); err != nil {
		return nil, err
	}

	if err := s.wfhRepo.Create(ctx, request); err != nil {
		return nil, fmt.Errorf("failed to create wfh request: %w", err)
	}

	s.logger.LogUserAction(actor.ID.String(), "wfh_requested", map[string]interface{}{
		"wfh_id": request.ID,
	})

	return request, nil
}

// PendingApprovals is not implemented and always returns an empty list
func (s *WFHService) PendingApprovals(_ context.Context, _ policy.Actor) ([]*entities.WFHRequest, error) {
	return []*entities.WFHRequest{}, nil
}
