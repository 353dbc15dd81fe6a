package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/taskflow/office/internal/domain/entities"
	"github.com/taskflow/office/internal/domain/policy"
	"github.com/taskflow/office/internal/infrastructure/logger"
	"github.com/taskflow/office/internal/ports"
)

// TaskLogService handles work log operations
type TaskLogService struct {
	logRepo  ports.TaskLogRepository
	userRepo ports.UserRepository
	logger   *logger.Logger
	now      func() time.Time
}

// NewTaskLogService creates a new task log service
func NewTaskLogService(logRepo ports.TaskLogRepository, userRepo ports.UserRepository, logger *logger.Logger) *TaskLogService {
	return &TaskLogService{
		logRepo:  logRepo,
		userRepo: userRepo,
		logger:   logger.WithComponent("task_logs"),
		now:      time.Now,
	}
}

// ListForUser returns userID's logs, newest first, when the actor may see them
func (s *TaskLogService) ListForUser(ctx context.Context, actor policy.Actor, userID uuid.UUID) ([]*entities.TaskLog, error) {
	target, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, entities.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if err := policy.CanViewTaskLogs(actor, target); err != nil {
		s.logger.LogSecurityEvent("task_logs_denied", actor.ID.String(), "", map[string]interface{}{
			"target_user_id": userID,
		})
		return nil, err
	}

	logs, err := s.logRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list task logs: %w", err)
	}

	return logs, nil
}

// CreateTaskLog records a work log owned by the actor. A missing date
// defaults to today.
func (s *TaskLogService) CreateTaskLog(ctx context.Context, actor policy.Actor, req ports.CreateTaskLogRequest) (*entities.TaskLog, error) {
	description := strings.TrimSpace(req.Description)
	if description == "" {
		return nil, entities.ValidationError("description is required")
	}

	date := req.Date.Time
	if date.IsZero() {
		date = s.now()
	}

	log := &entities.TaskLog{
		ID:              uuid.New(),
		Description:     description,
		Date:            entities.DateOf(date),
		StartTime:       req.StartTime.Ptr(),
		EndTime:         req.EndTime.Ptr(),
		DurationMinutes: req.DurationMinutes,
		UserID:          actor.ID,
	}

	if err := log.Normalize(); err != nil {
		return nil, err
	}

	if err := s.logRepo.Create(ctx, log); err != nil {
		return nil, fmt.Errorf("failed to create task log: %w", err)
	}

	s.logger.LogUserAction(actor.ID.String(), "task_log_created", map[string]interface{}{
		"task_log_id": log.ID,
	})

	return log, nil
}
