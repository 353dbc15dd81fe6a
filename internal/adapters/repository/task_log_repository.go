package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/taskflow/office/internal/domain/entities"
	"github.com/taskflow/office/internal/infrastructure/database"
	"github.com/taskflow/office/internal/ports"
)

// TaskLogRepositoryImpl implements the TaskLogRepository interface
type TaskLogRepositoryImpl struct {
	db *database.DB
}

// NewTaskLogRepository creates a new task log repository
func NewTaskLogRepository(db *database.DB) ports.TaskLogRepository {
	return &TaskLogRepositoryImpl{db: db}
}

func (r *TaskLogRepositoryImpl) Create(ctx context.Context, log *entities.TaskLog) error {
	query := `
		INSERT INTO task_logs (id, description, date, start_time, end_time, duration_minutes, user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`

	if log.ID == uuid.Nil {
		log.ID = uuid.New()
	}

	err := r.db.DB.QueryRowContext(ctx, query,
		log.ID, log.Description, log.Date, log.StartTime, log.EndTime,
		log.DurationMinutes, log.UserID,
	).Scan(&log.CreatedAt)
	if err != nil {
		return fmt.Errorf("create task log: %w", err)
	}

	return nil
}

func (r *TaskLogRepositoryImpl) ListByUser(ctx context.Context, userID uuid.UUID) ([]*entities.TaskLog, error) {
	query := `
		SELECT id, description, date, start_time, end_time, duration_minutes, user_id, created_at
		FROM task_logs
		WHERE user_id = $1
		ORDER BY created_at DESC`

	logs := []*entities.TaskLog{}
	if err := r.db.DB.SelectContext(ctx, &logs, query, userID); err != nil {
		return nil, fmt.Errorf("list task logs: %w", err)
	}

	return logs, nil
}
