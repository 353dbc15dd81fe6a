package http

import (
	"time"

	"github.com/google/uuid"

	"github.com/taskflow/office/internal/domain/entities"
	"github.com/taskflow/office/internal/ports"
)

// Request/Response types

type UserResponse struct {
	ID           uuid.UUID         `json:"id"`
	Name         string            `json:"name"`
	Email        string            `json:"email"`
	Role         entities.UserRole `json:"role"`
	Department   *string           `json:"department"`
	DepartmentID *uuid.UUID        `json:"departmentId"`
	AvatarURL    *string           `json:"avatarUrl,omitempty"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type DepartmentResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
}

type AssigneeResponse struct {
	AssigneeID   uuid.UUID `json:"assigneeId"`
	AssigneeName string    `json:"assigneeName"`
}

type TaskResponse struct {
	ID          uuid.UUID             `json:"id"`
	Title       string                `json:"title"`
	Description *string               `json:"description"`
	Status      entities.TaskStatus   `json:"status"`
	Priority    entities.TaskPriority `json:"priority"`
	DueDate     *time.Time            `json:"dueDate"`
	AssignerID  uuid.UUID             `json:"assignerId"`
	Assignees   []AssigneeResponse    `json:"assignees"`
	CreatedAt   time.Time             `json:"createdAt"`
	UpdatedAt   time.Time             `json:"updatedAt"`
}

type TaskLogResponse struct {
	ID              uuid.UUID  `json:"id"`
	Description     string     `json:"description"`
	Date            ports.Date `json:"date"`
	StartTime       *time.Time `json:"startTime"`
	EndTime         *time.Time `json:"endTime"`
	DurationMinutes *int       `json:"durationMinutes"`
	UserID          uuid.UUID  `json:"userId"`
	CreatedAt       time.Time  `json:"createdAt"`
}

type AttendanceResponse struct {
	ID       uuid.UUID  `json:"id"`
	CheckIn  *time.Time `json:"checkIn"`
	CheckOut *time.Time `json:"checkOut"`
	Date     ports.Date `json:"date"`
}

type AttendanceStatusResponse struct {
	State       string     `json:"state"`
	IsCheckedIn bool       `json:"isCheckedIn"`
	CheckIn     *time.Time `json:"checkIn"`
	CheckOut    *time.Time `json:"checkOut"`
}

type WFHResponse struct {
	ID        uuid.UUID          `json:"id"`
	Reason    string             `json:"reason"`
	StartDate ports.Date         `json:"startDate"`
	EndDate   ports.Date         `json:"endDate"`
	Status    entities.WFHStatus `json:"status"`
	UserID    uuid.UUID          `json:"userId"`
	UserName  string             `json:"userName"`
	CreatedAt time.Time          `json:"createdAt"`
}

// ErrorResponse is the body of every error reply
type ErrorResponse struct {
	Detail interface{} `json:"detail"`
}

// FieldError describes one rejected request field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

func newUserResponse(u *entities.User) UserResponse {
	return UserResponse{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		Role:         u.Role,
		Department:   u.DepartmentName,
		DepartmentID: u.DepartmentID,
		AvatarURL:    u.AvatarURL,
	}
}

func newUserResponses(users []*entities.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, newUserResponse(u))
	}
	return out
}

func newDepartmentResponses(departments []*entities.Department) []DepartmentResponse {
	out := make([]DepartmentResponse, 0, len(departments))
	for _, d := range departments {
		out = append(out, DepartmentResponse{ID: d.ID, Name: d.Name, Description: d.Description})
	}
	return out
}

func newTaskResponse(t *entities.Task) TaskResponse {
	assignees := make([]AssigneeResponse, 0, len(t.Assignees))
	for _, a := range t.Assignees {
		assignees = append(assignees, AssigneeResponse{AssigneeID: a.AssigneeID, AssigneeName: a.AssigneeName})
	}
	return TaskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		Priority:    t.Priority,
		DueDate:     utc(t.DueDate),
		AssignerID:  t.AssignerID,
		Assignees:   assignees,
		CreatedAt:   t.CreatedAt.UTC(),
		UpdatedAt:   t.UpdatedAt.UTC(),
	}
}

func newTaskResponses(tasks []*entities.Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, newTaskResponse(t))
	}
	return out
}

func newTaskLogResponse(l *entities.TaskLog) TaskLogResponse {
	return TaskLogResponse{
		ID:              l.ID,
		Description:     l.Description,
		Date:            ports.NewDate(l.Date),
		StartTime:       utc(l.StartTime),
		EndTime:         utc(l.EndTime),
		DurationMinutes: l.DurationMinutes,
		UserID:          l.UserID,
		CreatedAt:       l.CreatedAt.UTC(),
	}
}

func newTaskLogResponses(logs []*entities.TaskLog) []TaskLogResponse {
	out := make([]TaskLogResponse, 0, len(logs))
	for _, l := range logs {
		out = append(out, newTaskLogResponse(l))
	}
	return out
}

func newAttendanceResponse(a *entities.Attendance) AttendanceResponse {
	return AttendanceResponse{
		ID:       a.ID,
		CheckIn:  utc(a.CheckIn),
		CheckOut: utc(a.CheckOut),
		Date:     ports.NewDate(a.Date),
	}
}

func newAttendanceResponses(records []*entities.Attendance) []AttendanceResponse {
	out := make([]AttendanceResponse, 0, len(records))
	for _, a := range records {
		out = append(out, newAttendanceResponse(a))
	}
	return out
}

func newWFHResponse(w *entities.WFHRequest) WFHResponse {
	return WFHResponse{
		ID:        w.ID,
		Reason:    w.Reason,
		StartDate: ports.NewDate(w.StartDate),
		EndDate:   ports.NewDate(w.EndDate),
		Status:    w.Status,
		UserID:    w.UserID,
		UserName:  w.UserName,
		CreatedAt: w.CreatedAt.UTC(),
	}
}

func newWFHResponses(requests []*entities.WFHRequest) []WFHResponse {
	out := make([]WFHResponse, 0, len(requests))
	for _, w := range requests {
		out = append(out, newWFHResponse(w))
	}
	return out
}
