package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/taskflow/office/internal/domain/entities"
	"github.com/taskflow/office/internal/domain/policy"
	"github.com/taskflow/office/internal/infrastructure/logger"
	"github.com/taskflow/office/internal/ports"
)

// MaxDepartmentNameLength bounds department names
const MaxDepartmentNameLength = 100

// UserService handles users and departments
type UserService struct {
	userRepo       ports.UserRepository
	departmentRepo ports.DepartmentRepository
	logger         *logger.Logger
}

// NewUserService creates a new user service
func NewUserService(userRepo ports.UserRepository, departmentRepo ports.DepartmentRepository, logger *logger.Logger) *UserService {
	return &UserService{
		userRepo:       userRepo,
		departmentRepo: departmentRepo,
		logger:         logger.WithComponent("users"),
	}
}

// GetProfile retrieves a user by ID
func (s *UserService) GetProfile(ctx context.Context, userID uuid.UUID) (*entities.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return user, nil
}

// CreateDepartment adds a department. Names are trimmed and must not be empty.
func (s *UserService) CreateDepartment(ctx context.Context, req ports.CreateDepartmentRequest) (*entities.Department, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, entities.ValidationError("department name is required")
	}
	if utf8.RuneCountInString(name) > MaxDepartmentNameLength {
		return nil, entities.ValidationError(fmt.Sprintf("department name must not exceed %d characters", MaxDepartmentNameLength))
	}

	department := &entities.Department{Name: name}
	if description := strings.TrimSpace(req.Description); description != "" {
		department.Description = &description
	}

	if err := s.departmentRepo.Create(ctx, department); err != nil {
		return nil, fmt.Errorf("failed to create department: %w", err)
	}

	s.logger.Infow("Department created", "department_id", department.ID, "name", department.Name)
	return department, nil
}

// ListDepartments returns every department
func (s *UserService) ListDepartments(ctx context.Context) ([]*entities.Department, error) {
	departments, err := s.departmentRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}

	return departments, nil
}

// ListDepartmentUsers returns the members of a department the actor may see
func (s *UserService) ListDepartmentUsers(ctx context.Context, actor policy.Actor, departmentID uuid.UUID) ([]*entities.User, error) {
	if _, err := s.departmentRepo.GetByID(ctx, departmentID); err != nil {
		if errors.Is(err, entities.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get department: %w", err)
	}

	if err := policy.CanListDepartmentUsers(actor, departmentID); err != nil {
		s.logger.LogSecurityEvent("department_users_denied", actor.ID.String(), "", map[string]interface{}{
			"department_id": departmentID,
		})
		return nil, err
	}

	users, err := s.userRepo.ListByDepartment(ctx, departmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list department users: %w", err)
	}

	return users, nil
}
