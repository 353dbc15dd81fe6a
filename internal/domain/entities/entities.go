package entities

import (
	"time"

	"github.com/google/uuid"
)

// Enums and types
type UserRole string

const (
	UserRoleEmployee   UserRole = "Employee"
	UserRoleHOD        UserRole = "HOD"
	UserRoleSuperAdmin UserRole = "Super Admin"
)

type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "To Do"
	TaskStatusInProgress TaskStatus = "In Progress"
	TaskStatusDone       TaskStatus = "Done"
)

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "Low"
	TaskPriorityMedium TaskPriority = "Medium"
	TaskPriorityHigh   TaskPriority = "High"
)

type WFHStatus string

const (
	WFHStatusPending  WFHStatus = "Pending"
	WFHStatusApproved WFHStatus = "Approved"
	WFHStatusRejected WFHStatus = "Rejected"
)

// Department groups users under a head of department
type Department struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// User represents a user in the system
type User struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	Name           string     `json:"name" db:"name"`
	Email          string     `json:"email" db:"email"`
	PasswordHash   string     `json:"-" db:"password_hash"`
	Role           UserRole   `json:"role" db:"role"`
	DepartmentID   *uuid.UUID `json:"department_id" db:"department_id"`
	DepartmentName *string    `json:"department" db:"department_name"`
	AvatarURL      *string    `json:"avatar_url" db:"avatar_url"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`
}

// Task represents a unit of work created by an HOD or SuperAdmin
type Task struct {
	ID          uuid.UUID      `json:"id" db:"id"`
	Title       string         `json:"title" db:"title"`
	Description *string        `json:"description" db:"description"`
	Status      TaskStatus     `json:"status" db:"status"`
	Priority    TaskPriority   `json:"priority" db:"priority"`
	DueDate     *time.Time     `json:"due_date" db:"due_date"`
	AssignerID  uuid.UUID      `json:"assigner_id" db:"assigner_id"`
	Assignees   []TaskAssignee `json:"assignees" db:"-"`
	CreatedAt   time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at" db:"updated_at"`
}

// TaskAssignee is one (task, assignee) relation. Name and department are
// read from the assignee's user row.
type TaskAssignee struct {
	ID                   uuid.UUID  `json:"id" db:"id"`
	TaskID               uuid.UUID  `json:"task_id" db:"task_id"`
	AssigneeID           uuid.UUID  `json:"assignee_id" db:"assignee_id"`
	AssigneeName         string     `json:"assignee_name" db:"assignee_name"`
	AssigneeDepartmentID *uuid.UUID `json:"-" db:"assignee_department_id"`
	AssignedAt           time.Time  `json:"assigned_at" db:"assigned_at"`
}

// TaskLog is a free-text work log entry owned by a user
type TaskLog struct {
	ID              uuid.UUID  `json:"id" db:"id"`
	Description     string     `json:"description" db:"description"`
	Date            time.Time  `json:"date" db:"date"`
	StartTime       *time.Time `json:"start_time" db:"start_time"`
	EndTime         *time.Time `json:"end_time" db:"end_time"`
	DurationMinutes *int       `json:"duration_minutes" db:"duration_minutes"`
	UserID          uuid.UUID  `json:"user_id" db:"user_id"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
}

// WFHRequest is a work-from-home request. UserID and ApprovedBy are plain
// references resolved by id lookup.
type WFHRequest struct {
	ID         uuid.UUID  `json:"id" db:"id"`
	UserID     uuid.UUID  `json:"user_id" db:"user_id"`
	UserName   string     `json:"user_name" db:"user_name"`
	Reason     string     `json:"reason" db:"reason"`
	StartDate  time.Time  `json:"start_date" db:"start_date"`
	EndDate    time.Time  `json:"end_date" db:"end_date"`
	Status     WFHStatus  `json:"status" db:"status"`
	ApprovedBy *uuid.UUID `json:"approved_by" db:"approved_by"`
	ApprovedAt *time.Time `json:"approved_at" db:"approved_at"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at" db:"updated_at"`
}

// Business logic methods for User
func (u *User) InDepartment(departmentID uuid.UUID) bool {
	return u.DepartmentID != nil && *u.DepartmentID == departmentID
}

// Business logic methods for Task
func (t *Task) HasAssignee(userID uuid.UUID) bool {
	for _, a := range t.Assignees {
		if a.AssigneeID == userID {
			return true
		}
	}
	return false
}

func (t *Task) HasAssigneeInDepartment(departmentID uuid.UUID) bool {
	for _, a := range t.Assignees {
		if a.AssigneeDepartmentID != nil && *a.AssigneeDepartmentID == departmentID {
			return true
		}
	}
	return false
}

func (t *Task) AssigneeIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(t.Assignees))
	for _, a := range t.Assignees {
		ids = append(ids, a.AssigneeID)
	}
	return ids
}

// Business logic methods for TaskLog

// Normalize checks the time range and derives the duration in whole minutes
// when only start and end are given.
func (l *TaskLog) Normalize() error {
	if l.StartTime != nil && l.EndTime != nil {
		if l.EndTime.Before(*l.StartTime) {
			return ValidationError("end time cannot precede start time")
		}
		if l.DurationMinutes == nil {
			minutes := int(l.EndTime.Sub(*l.StartTime).Minutes())
			l.DurationMinutes = &minutes
		}
	}
	if l.DurationMinutes != nil && *l.DurationMinutes < 0 {
		return ValidationError("duration cannot be negative")
	}
	return nil
}

// Business logic methods for WFHRequest
func (w *WFHRequest) Validate() error {
	if w.EndDate.Before(w.StartDate) {
		return ValidationError("end date cannot precede start date")
	}
	return nil
}

// DateOf returns the UTC calendar date of t as midnight UTC.
func DateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Utility methods
func (r UserRole) IsValid() bool {
	switch r {
	case UserRoleEmployee, UserRoleHOD, UserRoleSuperAdmin:
		return true
	}
	return false
}

func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusDone:
		return true
	}
	return false
}

func (p TaskPriority) IsValid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return true
	}
	return false
}

func (s WFHStatus) IsValid() bool {
	switch s {
	case WFHStatusPending, WFHStatusApproved, WFHStatusRejected:
		return true
	}
	return false
}
