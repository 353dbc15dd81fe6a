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

const userColumns = `
	u.id, u.name, u.email, u.password_hash, u.role, u.department_id,
	d.name AS department_name, u.avatar_url, u.created_at, u.updated_at`

// UserRepositoryImpl implements the UserRepository interface
type UserRepositoryImpl struct {
	db *database.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.DB) ports.UserRepository {
	return &UserRepositoryImpl{db: db}
}

func (r *UserRepositoryImpl) Create(ctx context.Context, user *entities.User) error {
	query := `
		INSERT INTO users (id, name, email, password_hash, role, department_id, avatar_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}

	err := r.db.DB.QueryRowContext(ctx, query,
		user.ID, user.Name, user.Email, user.PasswordHash,
		user.Role, user.DepartmentID, user.AvatarURL,
	).Scan(&user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return entities.ErrEmailTaken
		}
		return fmt.Errorf("create user: %w", err)
	}

	return nil
}

func (r *UserRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users u
		LEFT JOIN departments d ON d.id = u.department_id
		WHERE u.id = $1`

	var user entities.User
	err := r.db.DB.GetContext(ctx, &user, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entities.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user by id: %w", err)
	}

	return &user, nil
}

func (r *UserRepositoryImpl) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users u
		LEFT JOIN departments d ON d.id = u.department_id
		WHERE u.email = $1`

	var user entities.User
	err := r.db.DB.GetContext(ctx, &user, query, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entities.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}

	return &user, nil
}

func (r *UserRepositoryImpl) ListByDepartment(ctx context.Context, departmentID uuid.UUID) ([]*entities.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users u
		LEFT JOIN departments d ON d.id = u.department_id
		WHERE u.department_id = $1
		ORDER BY u.name`

	users := []*entities.User{}
	if err := r.db.DB.SelectContext(ctx, &users, query, departmentID); err != nil {
		return nil, fmt.Errorf("list department users: %w", err)
	}

	return users, nil
}
