package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/taskflow/office/internal/domain/entities"
	"github.com/taskflow/office/internal/infrastructure/database"
	"github.com/taskflow/office/internal/ports"
)

// SeedRepositoryImpl implements the SeedRepository interface
type SeedRepositoryImpl struct {
	db *database.DB
}

// NewSeedRepository creates a new seed repository
func NewSeedRepository(db *database.DB) ports.SeedRepository {
	return &SeedRepositoryImpl{db: db}
}

func (r *SeedRepositoryImpl) SeedIfEmpty(ctx context.Context, departments []*entities.Department, users []*entities.User) (bool, error) {
	seeded := false

	err := r.db.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		var count int
		if err := tx.GetContext(ctx, &count, `SELECT COUNT(*) FROM departments`); err != nil {
			return fmt.Errorf("count departments: %w", err)
		}
		if count > 0 {
			return nil
		}

		for _, d := range departments {
			err := tx.QueryRowContext(ctx, `
				INSERT INTO departments (id, name, description)
				VALUES ($1, $2, $3)
				RETURNING created_at, updated_at`,
				d.ID, d.Name, d.Description,
			).Scan(&d.CreatedAt, &d.UpdatedAt)
			if err != nil {
				return fmt.Errorf("seed department %s: %w", d.Name, err)
			}
		}

		for _, u := range users {
			err := tx.QueryRowContext(ctx, `
				INSERT INTO users (id, name, email, password_hash, role, department_id, avatar_url)
				VALUES ($1, $2, $3, $4, $5, $6, $7)
				RETURNING created_at, updated_at`,
				u.ID, u.Name, u.Email, u.PasswordHash, u.Role, u.DepartmentID, u.AvatarURL,
			).Scan(&u.CreatedAt, &u.UpdatedAt)
			if err != nil {
				if isUniqueViolation(err) {
					return fmt.Errorf("seed user %s: %w", u.Email, entities.ErrEmailTaken)
				}
				return fmt.Errorf("seed user %s: %w", u.Email, err)
			}
		}

		seeded = true
		return nil
	})
	if err != nil {
		return false, err
	}

	return seeded, nil
}
