package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/taskflow/office/internal/domain/entities"
	"github.com/taskflow/office/internal/infrastructure/database"
	"github.com/taskflow/office/internal/ports"
)

// DepartmentRepositoryImpl implements the DepartmentRepository interface
type DepartmentRepositoryImpl struct {
	db *database.DB
}

// NewDepartmentRepository creates a new department repository
func NewDepartmentRepository(db *database.DB) ports.DepartmentRepository {
	return &DepartmentRepositoryImpl{db: db}
}

func (r *DepartmentRepositoryImpl) Create(ctx context.Context, department *entities.Department) error {
	query := `
		INSERT INTO departments (id, name, description)
		VALUES ($1, $2, $3)
		RETURNING created_at, updated_at`

	if department.ID == uuid.Nil {
		department.ID = uuid.New()
	}

	err := r.db.DB.QueryRowContext(ctx, query,
		department.ID, department.Name, department.Description,
	).Scan(&department.CreatedAt, &department.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create department: %w", err)
	}

	return nil
}

func (r *DepartmentRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*entities.Department, error) {
	query := `
		SELECT id, name, description, created_at, updated_at
		FROM departments
		WHERE id = $1`

	var department entities.Department
	err := r.db.DB.GetContext(ctx, &department, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entities.ErrDepartmentNotFound
		}
		return nil, fmt.Errorf("get department by id: %w", err)
	}

	return &department, nil
}

func (r *DepartmentRepositoryImpl) List(ctx context.Context) ([]*entities.Department, error) {
	query := `
		SELECT id, name, description, created_at, updated_at
		FROM departments
		ORDER BY name`

	departments := []*entities.Department{}
	if err := r.db.DB.SelectContext(ctx, &departments, query); err != nil {
		return nil, fmt.Errorf("list departments: %w", err)
	}

	return departments, nil
}
