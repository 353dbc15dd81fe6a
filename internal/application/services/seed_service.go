package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/taskflow/office/internal/domain/entities"
	"github.com/taskflow/office/internal/infrastructure/logger"
	"github.com/taskflow/office/internal/ports"
)

// DefaultSeedPassword is the password of every seeded account
const DefaultSeedPassword = "password123"

// SeedService writes the initial departments and accounts
type SeedService struct {
	seedRepo ports.SeedRepository
	logger   *logger.Logger
}

// NewSeedService creates a new seed service
func NewSeedService(seedRepo ports.SeedRepository, logger *logger.Logger) *SeedService {
	return &SeedService{
		seedRepo: seedRepo,
		logger:   logger.WithComponent("seed"),
	}
}

// Seed writes the default data when the store has no departments. It
// reports whether anything was written.
func (s *SeedService) Seed(ctx context.Context) (bool, error) {
	departments, users, err := defaultSeed()
	if err != nil {
		return false, err
	}

	seeded, err := s.seedRepo.SeedIfEmpty(ctx, departments, users)
	if err != nil {
		return false, fmt.Errorf("failed to seed data: %w", err)
	}

	if seeded {
		s.logger.Infow("Seeded initial data", "departments", len(departments), "users", len(users))
	} else {
		s.logger.Debugw("Skipping seed, departments already exist")
	}

	return seeded, nil
}

// SeedOnStart runs Seed and logs a failure instead of returning it
func (s *SeedService) SeedOnStart(ctx context.Context) {
	if _, err := s.Seed(ctx); err != nil {
		s.logger.Errorw("Initial seed failed, continuing without it", "error", err)
	}
}

func defaultSeed() ([]*entities.Department, []*entities.User, error) {
	description := func(s string) *string { return &s }

	engineering := &entities.Department{ID: uuid.New(), Name: "Engineering", Description: description("Software development and engineering")}
	marketing := &entities.Department{ID: uuid.New(), Name: "Marketing", Description: description("Marketing and communications")}
	hr := &entities.Department{ID: uuid.New(), Name: "HR", Description: description("Human resources")}
	finance := &entities.Department{ID: uuid.New(), Name: "Finance", Description: description("Finance and accounting")}

	hash, err := HashPassword(DefaultSeedPassword)
	if err != nil {
		return nil, nil, err
	}

	users := []*entities.User{
		{ID: uuid.New(), Name: "John", Email: "employee@company.com", PasswordHash: hash, Role: entities.UserRoleEmployee, DepartmentID: &engineering.ID},
		{ID: uuid.New(), Name: "Jane", Email: "hod@company.com", PasswordHash: hash, Role: entities.UserRoleHOD, DepartmentID: &engineering.ID},
		{ID: uuid.New(), Name: "CEO", Email: "admin@company.com", PasswordHash: hash, Role: entities.UserRoleSuperAdmin, DepartmentID: &hr.ID},
	}

	return []*entities.Department{engineering, marketing, hr, finance}, users, nil
}
