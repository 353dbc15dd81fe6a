package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/taskflow/office/internal/domain/entities"
	"github.com/taskflow/office/internal/domain/policy"
)

// DepartmentRepository defines the interface for department data operations
type DepartmentRepository interface {
	Create(ctx context.Context, department *entities.Department) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Department, error)
	List(ctx context.Context) ([]*entities.Department, error)
}

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
	GetByEmail(ctx context.Context, email string) (*entities.User, error)
	ListByDepartment(ctx context.Context, departmentID uuid.UUID) ([]*entities.User, error)
}

// TaskRepository defines the interface for task data operations.
// Create and Delete write the task and its assignment rows in one transaction.
type TaskRepository interface {
	Create(ctx context.Context, task *entities.Task, assigneeIDs []uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Task, error)
	Update(ctx context.Context, task *entities.Task) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, scope policy.TaskScope) ([]*entities.Task, error)
}

// TaskLogRepository defines the interface for task log data operations
type TaskLogRepository interface {
	Create(ctx context.Context, log *entities.TaskLog) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*entities.TaskLog, error)
}

// AttendanceRepository defines the interface for attendance data operations
type AttendanceRepository interface {
	GetByUserAndDate(ctx context.Context, userID uuid.UUID, date time.Time) (*entities.Attendance, error)
	// UpdateDay loads the record for (userID, date), or a fresh one when none
	// exists, passes it to fn and persists the result. The read, fn and the
	// write happen in one transaction; an error from fn aborts it.
	UpdateDay(ctx context.Context, userID uuid.UUID, date time.Time, fn func(*entities.Attendance) error) (*entities.Attendance, error)
	ListByUser(ctx context.Context, userID uuid.UUID, filter AttendanceFilter) ([]*entities.Attendance, error)
}

// WFHRepository defines the interface for work-from-home request operations
type WFHRepository interface {
	Create(ctx context.Context, request *entities.WFHRequest) error
	List(ctx context.Context, scope policy.WFHScope) ([]*entities.WFHRequest, error)
}

// SeedRepository writes initial data in a single transaction
type SeedRepository interface {
	// SeedIfEmpty inserts departments and users when no department exists
	// yet. It reports whether anything was written.
	SeedIfEmpty(ctx context.Context, departments []*entities.Department, users []*entities.User) (bool, error)
}

// HealthChecker reports storage health
type HealthChecker interface {
	HealthCheck() error
	Ping() error
	GetConnectionInfo() map[string]interface{}
}

// Repositories bundles every repository a server needs
type Repositories struct {
	Departments DepartmentRepository
	Users       UserRepository
	Tasks       TaskRepository
	TaskLogs    TaskLogRepository
	Attendance  AttendanceRepository
	WFH         WFHRepository
	Seed        SeedRepository
	Health      HealthChecker
}

// Filter types for repository queries
type AttendanceFilter struct {
	From *time.Time
	To   *time.Time
}
