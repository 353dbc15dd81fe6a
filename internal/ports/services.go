package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/taskflow/office/internal/domain/entities"
	"github.com/taskflow/office/internal/domain/policy"
)

// AuthService interface for authentication operations
type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (*entities.User, error)
	Login(ctx context.Context, req LoginRequest) (*AuthResponse, error)
	ValidateToken(tokenString string) (*Claims, error)
	Authenticate(ctx context.Context, tokenString string) (*entities.User, error)
}

// UserService interface for user and department operations
type UserService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*entities.User, error)
	CreateDepartment(ctx context.Context, req CreateDepartmentRequest) (*entities.Department, error)
	ListDepartments(ctx context.Context) ([]*entities.Department, error)
	ListDepartmentUsers(ctx context.Context, actor policy.Actor, departmentID uuid.UUID) ([]*entities.User, error)
}

// TaskService interface for task management operations
type TaskService interface {
	ListTasks(ctx context.Context, actor policy.Actor) ([]*entities.Task, error)
	GetTask(ctx context.Context, actor policy.Actor, id uuid.UUID) (*entities.Task, error)
	CreateTask(ctx context.Context, actor policy.Actor, req CreateTaskRequest) (*entities.Task, error)
	UpdateTask(ctx context.Context, actor policy.Actor, id uuid.UUID, req UpdateTaskRequest) (*entities.Task, error)
	DeleteTask(ctx context.Context, actor policy.Actor, id uuid.UUID) error
}

// TaskLogService interface for work log operations
type TaskLogService interface {
	ListForUser(ctx context.Context, actor policy.Actor, userID uuid.UUID) ([]*entities.TaskLog, error)
	CreateTaskLog(ctx context.Context, actor policy.Actor, req CreateTaskLogRequest) (*entities.TaskLog, error)
}

// AttendanceService interface for check-in and check-out
type AttendanceService interface {
	Status(ctx context.Context, actor policy.Actor) (*AttendanceStatus, error)
	CheckIn(ctx context.Context, actor policy.Actor) (*entities.Attendance, error)
	CheckOut(ctx context.Context, actor policy.Actor) (*entities.Attendance, error)
	History(ctx context.Context, actor policy.Actor, filter AttendanceFilter) ([]*entities.Attendance, error)
}

// WFHService interface for work-from-home requests
type WFHService interface {
	ListRequests(ctx context.Context, actor policy.Actor) ([]*entities.WFHRequest, error)
	CreateRequest(ctx context.Context, actor policy.Actor, req CreateWFHRequest) (*entities.WFHRequest, error)
	PendingApprovals(ctx context.Context, actor policy.Actor) ([]*entities.WFHRequest, error)
}

// Request/Response Types

// Auth related types
type RegisterRequest struct {
	Name         string            `json:"name" validate:"required,max=100"`
	Email        string            `json:"email" validate:"required,email,max=255"`
	Password     string            `json:"password" validate:"required,max=72"`
	Role         entities.UserRole `json:"role" validate:"required"`
	DepartmentID *uuid.UUID        `json:"department_id"`
}

// CreateDepartmentRequest names a new department
type CreateDepartmentRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	Token string         `json:"token"`
	User  *entities.User `json:"user"`
}

type Claims struct {
	UserID uuid.UUID         `json:"user_id"`
	Role   entities.UserRole `json:"role"`
}

// Task related types
type CreateTaskRequest struct {
	Title       string                `json:"title" validate:"required,max=200"`
	Description *string               `json:"description"`
	Priority    entities.TaskPriority `json:"priority"`
	DueDate     *Timestamp            `json:"dueDate"`
	AssigneeIDs []uuid.UUID           `json:"assigneeIds"`
}

type UpdateTaskRequest struct {
	Title       *string                `json:"title" validate:"omitempty,max=200"`
	Description *string                `json:"description"`
	Status      *entities.TaskStatus   `json:"status"`
	Priority    *entities.TaskPriority `json:"priority"`
	DueDate     *Timestamp             `json:"dueDate"`
}

// Task log related types
type CreateTaskLogRequest struct {
	Description     string     `json:"description" validate:"required"`
	Date            Date       `json:"date"`
	StartTime       *Timestamp `json:"startTime"`
	EndTime         *Timestamp `json:"endTime"`
	DurationMinutes *int       `json:"durationMinutes"`
}

// Attendance related types
type AttendanceStatus struct {
	State       entities.AttendanceState
	IsCheckedIn bool
	CheckIn     *time.Time
	CheckOut    *time.Time
}

// WFH related types
type CreateWFHRequest struct {
	Reason    string `json:"reason" validate:"required"`
	StartDate Date   `json:"startDate"`
	EndDate   Date   `json:"endDate"`
}
