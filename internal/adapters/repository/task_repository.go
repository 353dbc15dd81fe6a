package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/taskflow/office/internal/domain/entities"
	"github.com/taskflow/office/internal/domain/policy"
	"github.com/taskflow/office/internal/infrastructure/database"
	"github.com/taskflow/office/internal/ports"
)

const taskColumns = `
	t.id, t.title, t.description, t.status, t.priority, t.due_date,
	t.assigner_id, t.created_at, t.updated_at`

// TaskRepository implements the task repository interface
type TaskRepository struct {
	db *database.DB
}

// NewTaskRepository creates a new task repository
func NewTaskRepository(db *database.DB) ports.TaskRepository {
	return &TaskRepository{db: db}
}

// Create inserts the task and one assignment row per assignee
func (r *TaskRepository) Create(ctx context.Context, task *entities.Task, assigneeIDs []uuid.UUID) error {
	if task.ID == uuid.Nil {
		task.ID = uuid.New()
	}

	return r.db.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO tasks (id, title, description, status, priority, due_date, assigner_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING created_at, updated_at`

		err := tx.QueryRowContext(ctx, query,
			task.ID,
			task.Title,
			task.Description,
			task.Status,
			task.Priority,
			task.DueDate,
			task.AssignerID,
		).Scan(&task.CreatedAt, &task.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to create task: %w", err)
		}

		for _, assigneeID := range assigneeIDs {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO task_assignees (id, task_id, assignee_id, assigned_at)
				VALUES ($1, $2, $3, $4)`,
				uuid.New(), task.ID, assigneeID, task.CreatedAt,
			)
			if err != nil {
				return fmt.Errorf("failed to assign task: %w", err)
			}
		}

		return nil
	})
}

// GetByID retrieves a task with its assignees
func (r *TaskRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks t WHERE t.id = $1`

	var task entities.Task
	if err := r.db.DB.GetContext(ctx, &task, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entities.ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	tasks := []*entities.Task{&task}
	if err := r.loadAssignees(ctx, tasks); err != nil {
		return nil, err
	}

	return &task, nil
}

// Update writes the mutable task fields
func (r *TaskRepository) Update(ctx context.Context, task *entities.Task) error {
	query := `
		UPDATE tasks
		SET title = $2, description = $3, status = $4, priority = $5, due_date = $6, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.DB.QueryRowContext(ctx, query,
		task.ID,
		task.Title,
		task.Description,
		task.Status,
		task.Priority,
		task.DueDate,
	).Scan(&task.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entities.ErrTaskNotFound
		}
		return fmt.Errorf("failed to update task: %w", err)
	}

	return nil
}

// Delete removes the assignment rows and then the task
func (r *TaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM task_assignees WHERE task_id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete task assignees: %w", err)
		}

		result, err := tx.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to delete task: %w", err)
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rowsAffected == 0 {
			return entities.ErrTaskNotFound
		}

		return nil
	})
}

// List retrieves the tasks inside scope, newest first
func (r *TaskRepository) List(ctx context.Context, scope policy.TaskScope) ([]*entities.Task, error) {
	tasks := []*entities.Task{}
	if scope.IsEmpty() {
		return tasks, nil
	}

	// Build WHERE clause
	var conditions []string
	var args []interface{}
	argIndex := 1

	if !scope.All {
		if scope.AssigneeID != nil {
			conditions = append(conditions, fmt.Sprintf(
				"EXISTS (SELECT 1 FROM task_assignees ta WHERE ta.task_id = t.id AND ta.assignee_id = $%d)", argIndex))
			args = append(args, *scope.AssigneeID)
			argIndex++
		}

		if scope.AssignerID != nil {
			conditions = append(conditions, fmt.Sprintf("t.assigner_id = $%d", argIndex))
			args = append(args, *scope.AssignerID)
			argIndex++
		}

		if scope.AssigneeDepartmentID != nil {
			conditions = append(conditions, fmt.Sprintf(`EXISTS (
				SELECT 1 FROM task_assignees ta
				JOIN users u ON u.id = ta.assignee_id
				WHERE ta.task_id = t.id AND u.department_id = $%d)`, argIndex))
			args = append(args, *scope.AssigneeDepartmentID)
		}
	}

	query := `SELECT ` + taskColumns + ` FROM tasks t`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " OR ")
	}
	query += " ORDER BY t.created_at DESC"

	if err := r.db.DB.SelectContext(ctx, &tasks, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	if err := r.loadAssignees(ctx, tasks); err != nil {
		return nil, err
	}

	return tasks, nil
}

// loadAssignees fills Assignees for every task with a single query
func (r *TaskRepository) loadAssignees(ctx context.Context, tasks []*entities.Task) error {
	if len(tasks) == 0 {
		return nil
	}

	ids := make([]string, 0, len(tasks))
	byID := make(map[uuid.UUID]*entities.Task, len(tasks))
	for _, task := range tasks {
		ids = append(ids, task.ID.String())
		task.Assignees = []entities.TaskAssignee{}
		byID[task.ID] = task
	}

	query := `
		SELECT ta.id, ta.task_id, ta.assignee_id, u.name AS assignee_name,
			u.department_id AS assignee_department_id, ta.assigned_at
		FROM task_assignees ta
		JOIN users u ON u.id = ta.assignee_id
		WHERE ta.task_id = ANY($1::uuid[])
		ORDER BY ta.assigned_at, u.name`

	var assignees []entities.TaskAssignee
	if err := r.db.DB.SelectContext(ctx, &assignees, query, pq.Array(ids)); err != nil {
		return fmt.Errorf("failed to load task assignees: %w", err)
	}

	for _, assignee := range assignees {
		if task, ok := byID[assignee.TaskID]; ok {
			task.Assignees = append(task.Assignees, assignee)
		}
	}

	return nil
}
