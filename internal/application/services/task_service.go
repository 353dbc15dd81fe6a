package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/taskflow/office/internal/domain/entities"
	"github.com/taskflow/office/internal/domain/policy"
	"github.com/taskflow/office/internal/infrastructure/logger"
	"github.com/taskflow/office/internal/ports"
)

// TaskService handles task-related operations
type TaskService struct {
	taskRepo ports.TaskRepository
	userRepo ports.UserRepository
	logger   *logger.Logger
}

// NewTaskService creates a new task service
func NewTaskService(taskRepo ports.TaskRepository, userRepo ports.UserRepository, logger *logger.Logger) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
		userRepo: userRepo,
		logger:   logger.WithComponent("tasks"),
	}
}

// ListTasks returns the tasks visible to actor, newest first
func (s *TaskService) ListTasks(ctx context.Context, actor policy.Actor) ([]*entities.Task, error) {
	tasks, err := s.taskRepo.List(ctx, policy.TasksVisibleTo(actor))
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, nil
}

// GetTask retrieves a task the actor may see
func (s *TaskService) GetTask(ctx context.Context, actor policy.Actor, id uuid.UUID) (*entities.Task, error) {
	task, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := policy.CanViewTask(actor, task); err != nil {
		s.denied(actor, "task_view_denied", id)
		return nil, err
	}

	return task, nil
}

// CreateTask creates a task assigned by the actor
func (s *TaskService) CreateTask(ctx context.Context, actor policy.Actor, req ports.CreateTaskRequest) (*entities.Task, error) {
	if err := policy.CanCreateTask(actor); err != nil {
		s.denied(actor, "task_create_denied", uuid.Nil)
		return nil, err
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, entities.ValidationError("title is required")
	}

	priority := req.Priority
	if priority == "" {
		priority = entities.TaskPriorityMedium
	}
	if !priority.IsValid() {
		return nil, entities.ValidationError(fmt.Sprintf("invalid priority %q", priority))
	}

	assigneeIDs, err := s.resolveAssignees(ctx, req.AssigneeIDs)
	if err != nil {
		return nil, err
	}

	task := &entities.Task{
		ID:          uuid.New(),
		Title:       title,
		Description: req.Description,
		Status:      entities.TaskStatusTodo,
		Priority:    priority,
		DueDate:     req.DueDate.Ptr(),
		AssignerID:  actor.ID,
	}

	if err := s.taskRepo.Create(ctx, task, assigneeIDs); err != nil {
		if errors.Is(err, entities.ErrNotFound) {
			return nil, entities.ValidationError("assignee does not exist")
		}
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	created, err := s.load(ctx, task.ID)
	if err != nil {
		return nil, err
	}

	s.logger.LogUserAction(actor.ID.String(), "task_created", map[string]interface{}{
		"task_id":      created.ID,
		"assignee_ids": created.AssigneeIDs(),
	})

	return created, nil
}

// UpdateTask applies a partial update to a task
func (s *TaskService) UpdateTask(ctx context.Context, actor policy.Actor, id uuid.UUID, req ports.UpdateTaskRequest) (*entities.Task, error) {
	task, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := policy.CanUpdateTask(actor, task); err != nil {
		s.denied(actor, "task_update_denied", id)
		return nil, err
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, entities.ValidationError("title cannot be empty")
		}
		task.Title = title
	}
	if req.Description != nil {
		task.Description = req.Description
	}
	if req.Status != nil {
		if !req.Status.IsValid() {
			return nil, entities.ValidationError(fmt.Sprintf("invalid status %q", *req.Status))
		}
		task.Status = *req.Status
	}
	if req.Priority != nil {
		if !req.Priority.IsValid() {
			return nil, entities.ValidationError(fmt.Sprintf("invalid priority %q", *req.Priority))
		}
		task.Priority = *req.Priority
	}
	if req.DueDate != nil {
		task.DueDate = req.DueDate.Ptr()
	}

	if err := s.taskRepo.Update(ctx, task); err != nil {
		if errors.Is(err, entities.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	s.logger.LogUserAction(actor.ID.String(), "task_updated", map[string]interface{}{
		"task_id": task.ID,
		"status":  task.Status,
	})

	return s.load(ctx, task.ID)
}

// DeleteTask deletes a task and its assignments
func (s *TaskService) DeleteTask(ctx context.Context, actor policy.Actor, id uuid.UUID) error {
	task, err := s.load(ctx, id)
	if err != nil {
		return err
	}

	if err := policy.CanDeleteTask(actor, task); err != nil {
		s.denied(actor, "task_delete_denied", id)
		return err
	}

	if err := s.taskRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, entities.ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete task: %w", err)
	}

	s.logger.LogUserAction(actor.ID.String(), "task_deleted", map[string]interface{}{
		"task_id": id,
	})

	return nil
}

func (s *TaskService) load(ctx context.Context, id uuid.UUID) (*entities.Task, error) {
	task, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, entities.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return task, nil
}

// resolveAssignees drops duplicates and checks that every assignee exists
func (s *TaskService) resolveAssignees(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		if _, err := s.userRepo.GetByID(ctx, id); err != nil {
			if errors.Is(err, entities.ErrNotFound) {
				return nil, entities.ValidationError(fmt.Sprintf("assignee %s does not exist", id))
			}
			return nil, fmt.Errorf("failed to look up assignee: %w", err)
		}
		out = append(out, id)
	}
	return out, nil
}

func (s *TaskService) denied(actor policy.Actor, event string, taskID uuid.UUID) {
	details := map[string]interface{}{"role": actor.Role}
	if taskID != uuid.Nil {
		details["task_id"] = taskID
	}
	s.logger.LogSecurityEvent(event, actor.ID.String(), "", details)
}
