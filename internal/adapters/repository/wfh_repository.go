package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/taskflow/office/internal/domain/entities"
	"github.com/taskflow/office/internal/domain/policy"
	"github.com/taskflow/office/internal/infrastructure/database"
	"github.com/taskflow/office/internal/ports"
)

// WFHRepositoryImpl implements the WFHRepository interface
type WFHRepositoryImpl struct {
	db *database.DB
}

// NewWFHRepository creates a new work-from-home request repository
func NewWFHRepository(db *database.DB) ports.WFHRepository {
	return &WFHRepositoryImpl{db: db}
}

func (r *WFHRepositoryImpl) Create(ctx context.Context, request *entities.WFHRequest) error {
	query := `
		INSERT INTO wfh_requests (id, user_id, reason, start_date, end_date, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at,
			(SELECT name FROM users WHERE id = $2)`

	if request.ID == uuid.Nil {
		request.ID = uuid.New()
	}

	err := r.db.DB.QueryRowContext(ctx, query,
		request.ID, request.UserID, request.Reason,
		request.StartDate, request.EndDate, request.Status,
	).Scan(&request.CreatedAt, &request.UpdatedAt, &request.UserName)
	if err != nil {
		return fmt.Errorf("create wfh request: %w", err)
	}

	return nil
}

func (r *WFHRepositoryImpl) List(ctx context.Context, scope policy.WFHScope) ([]*entities.WFHRequest, error) {
	requests := []*entities.WFHRequest{}
	if scope.IsEmpty() {
		return requests, nil
	}

	query := `
		SELECT w.id, w.user_id, u.name AS user_name, w.reason, w.start_date, w.end_date,
			w.status, w.approved_by, w.approved_at, w.created_at, w.updated_at
		FROM wfh_requests w
		JOIN users u ON u.id = w.user_id`

	var args []interface{}
	switch {
	case scope.All:
	case scope.UserID != nil:
		query += " WHERE w.user_id = $1"
		args = append(args, *scope.UserID)
	case scope.DepartmentID != nil:
		query += " WHERE u.department_id = $1"
		args = append(args, *scope.DepartmentID)
	}
	query += " ORDER BY w.created_at DESC"

	if err := r.db.DB.SelectContext(ctx, &requests, query, args...); err != nil {
		return nil, fmt.Errorf("list wfh requests: %w", err)
	}

	return requests, nil
}
