package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/taskflow/office/internal/adapters/memory"
	"github.com/taskflow/office/internal/domain/entities"
	"github.com/taskflow/office/internal/domain/policy"
	"github.com/taskflow/office/internal/infrastructure/config"
	"github.com/taskflow/office/internal/infrastructure/logger"
	"github.com/taskflow/office/internal/ports"
)

type env struct {
	repos ports.Repositories
	log   *logger.Logger

	engineering, marketing *entities.Department
	employee, peer, hod    *entities.User
	outsider, admin        *entities.User
}

func newEnv(t *testing.T) *env {
	t.Helper()
	ctx := context.Background()
	e := &env{repos: memory.NewStore().Repositories(), log: logger.NewNop()}

	e.engineering = &entities.Department{Name: "Engineering"}
	e.marketing = &entities.Department{Name: "Marketing"}
	require.NoError(t, e.repos.Departments.Create(ctx, e.engineering))
	require.NoError(t, e.repos.Departments.Create(ctx, e.marketing))

	mk := func(name string, role entities.UserRole, dept *entities.Department) *entities.User {
		u := &entities.User{Name: name, Email: name + "@example.com", Role: role}
		if dept != nil {
			u.DepartmentID = &dept.ID
		}
		require.NoError(t, e.repos.Users.Create(ctx, u))
		return u
	}
	e.employee = mk("john", entities.UserRoleEmployee, e.engineering)
	e.peer = mk("peer", entities.UserRoleEmployee, e.engineering)
	e.hod = mk("jane", entities.UserRoleHOD, e.engineering)
	e.outsider = mk("out", entities.UserRoleEmployee, e.marketing)
	e.admin = mk("ceo", entities.UserRoleSuperAdmin, nil)
	return e
}

func actor(u *entities.User) policy.Actor {
	return policy.ActorFromUser(u)
}

func jwtConfig() config.JWTConfig {
	return config.JWTConfig{Secret: "test-secret", ExpiresIn: 24 * time.Hour, Issuer: "taskflow-test"}
}

func TestAuthRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	svc := NewAuthService(e.repos.Users, e.repos.Departments, jwtConfig(), e.log)

	user, err := svc.Register(ctx, ports.RegisterRequest{
		Name:         "New",
		Email:        "new@example.com",
		Password:     "secret",
		Role:         entities.UserRoleEmployee,
		DepartmentID: &e.engineering.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, user.DepartmentName)
	assert.Equal(t, "Engineering", *user.DepartmentName)
	assert.NotEqual(t, "secret", user.PasswordHash)

	_, err = svc.Register(ctx, ports.RegisterRequest{Name: "Dup", Email: "new@example.com", Password: "x", Role: entities.UserRoleEmployee})
	assert.ErrorIs(t, err, entities.ErrEmailTaken)

	_, err = svc.Register(ctx, ports.RegisterRequest{Name: "Bad", Email: "bad@example.com", Password: "x", Role: "Intern"})
	assert.ErrorIs(t, err, entities.ErrValidation)

	missing := uuid.New()
	_, err = svc.Register(ctx, ports.RegisterRequest{Name: "Bad", Email: "bad@example.com", Password: "x", Role: entities.UserRoleHOD, DepartmentID: &missing})
	assert.ErrorIs(t, err, entities.ErrValidation)

	resp, err := svc.Login(ctx, ports.LoginRequest{Email: "new@example.com", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, resp.User.ID)

	claims, err := svc.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, entities.UserRoleEmployee, claims.Role)

	authed, err := svc.Authenticate(ctx, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "New", authed.Name)

	_, err = svc.Login(ctx, ports.LoginRequest{Email: "new@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, entities.ErrUnauthenticated)

	_, err = svc.Login(ctx, ports.LoginRequest{Email: "nobody@example.com", Password: "secret"})
	assert.ErrorIs(t, err, entities.ErrInvalidCredentials)
}

func TestAuthRegisterRejectsLongPassword(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	svc := NewAuthService(e.repos.Users, e.repos.Departments, jwtConfig(), e.log)

	_, err := svc.Register(ctx, ports.RegisterRequest{
		Name:     "Long",
		Email:    "long@example.com",
		Password: strings.Repeat("a", MaxPasswordBytes+8),
		Role:     entities.UserRoleEmployee,
	})
	assert.ErrorIs(t, err, entities.ErrValidation)

	_, err = e.repos.Users.GetByEmail(ctx, "long@example.com")
	assert.ErrorIs(t, err, entities.ErrUserNotFound)

	_, err = svc.Register(ctx, ports.RegisterRequest{
		Name:     "Edge",
		Email:    "edge@example.com",
		Password: strings.Repeat("a", MaxPasswordBytes),
		Role:     entities.UserRoleEmployee,
	})
	assert.NoError(t, err)
}

func TestAuthRejectsBadTokens(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	svc := NewAuthService(e.repos.Users, e.repos.Departments, jwtConfig(), e.log)

	hash, err := HashPassword("pw")
	require.NoError(t, err)
	u := &entities.User{Name: "Tok", Email: "tok@example.com", PasswordHash: hash, Role: entities.UserRoleHOD}
	require.NoError(t, e.repos.Users.Create(ctx, u))

	issued := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return issued }
	resp, err := svc.Login(ctx, ports.LoginRequest{Email: "tok@example.com", Password: "pw"})
	require.NoError(t, err)

	svc.now = func() time.Time { return issued.Add(25 * time.Hour) }
	_, err = svc.ValidateToken(resp.Token)
	assert.ErrorIs(t, err, entities.ErrUnauthenticated)

	svc.now = func() time.Time { return issued.Add(time.Hour) }
	_, err = svc.ValidateToken(resp.Token + "x")
	assert.ErrorIs(t, err, entities.ErrInvalidToken)

	other := NewAuthService(e.repos.Users, e.repos.Departments, config.JWTConfig{Secret: "other", ExpiresIn: time.Hour}, e.log)
	other.now = svc.now
	_, err = other.ValidateToken(resp.Token)
	assert.ErrorIs(t, err, entities.ErrInvalidToken)

	_, err = svc.Authenticate(ctx, "garbage")
	assert.ErrorIs(t, err, entities.ErrUnauthenticated)
}

func TestCreateDepartment(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	svc := NewUserService(e.repos.Users, e.repos.Departments, e.log)

	department, err := svc.CreateDepartment(ctx, ports.CreateDepartmentRequest{Name: "  Finance ", Description: "Budgets"})
	require.NoError(t, err)
	assert.Equal(t, "Finance", department.Name)
	require.NotNil(t, department.Description)
	assert.Equal(t, "Budgets", *department.Description)

	stored, err := e.repos.Departments.GetByID(ctx, department.ID)
	require.NoError(t, err)
	assert.Equal(t, "Finance", stored.Name)

	bare, err := svc.CreateDepartment(ctx, ports.CreateDepartmentRequest{Name: "Legal", Description: "  "})
	require.NoError(t, err)
	assert.Nil(t, bare.Description)

	_, err = svc.CreateDepartment(ctx, ports.CreateDepartmentRequest{Name: "   "})
	assert.ErrorIs(t, err, entities.ErrValidation)

	_, err = svc.CreateDepartment(ctx, ports.CreateDepartmentRequest{Name: strings.Repeat("x", MaxDepartmentNameLength+1)})
	assert.ErrorIs(t, err, entities.ErrValidation)

	departments, err := svc.ListDepartments(ctx)
	require.NoError(t, err)
	assert.Len(t, departments, 4)
}

func TestListDepartmentUsers(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	svc := NewUserService(e.repos.Users, e.repos.Departments, e.log)

	users, err := svc.ListDepartmentUsers(ctx, actor(e.hod), e.engineering.ID)
	require.NoError(t, err)
	assert.Len(t, users, 3)

	_, err = svc.ListDepartmentUsers(ctx, actor(e.hod), e.marketing.ID)
	assert.ErrorIs(t, err, entities.ErrPermissionDenied)

	_, err = svc.ListDepartmentUsers(ctx, actor(e.employee), e.engineering.ID)
	assert.ErrorIs(t, err, entities.ErrPermissionDenied)

	users, err = svc.ListDepartmentUsers(ctx, actor(e.admin), e.marketing.ID)
	require.NoError(t, err)
	assert.Len(t, users, 1)

	_, err = svc.ListDepartmentUsers(ctx, actor(e.employee), uuid.New())
	assert.ErrorIs(t, err, entities.ErrNotFound)

	departments, err := svc.ListDepartments(ctx)
	require.NoError(t, err)
	assert.Len(t, departments, 2)

	profile, err := svc.GetProfile(ctx, e.employee.ID)
	require.NoError(t, err)
	assert.Equal(t, "john", profile.Name)
}

func TestTaskLifecycle(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	svc := NewTaskService(e.repos.Tasks, e.repos.Users, e.log)

	_, err := svc.CreateTask(ctx, actor(e.employee), ports.CreateTaskRequest{Title: "nope"})
	assert.ErrorIs(t, err, entities.ErrPermissionDenied)

	task, err := svc.CreateTask(ctx, actor(e.hod), ports.CreateTaskRequest{
		Title:       "Write report",
		AssigneeIDs: []uuid.UUID{e.employee.ID, e.employee.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, entities.TaskStatusTodo, task.Status)
	assert.Equal(t, entities.TaskPriorityMedium, task.Priority)
	require.Len(t, task.Assignees, 1)
	assert.Equal(t, "john", task.Assignees[0].AssigneeName)

	_, err = svc.CreateTask(ctx, actor(e.hod), ports.CreateTaskRequest{Title: "ghost", AssigneeIDs: []uuid.UUID{uuid.New()}})
	assert.ErrorIs(t, err, entities.ErrValidation)

	_, err = svc.CreateTask(ctx, actor(e.hod), ports.CreateTaskRequest{Title: "bad", Priority: "Urgent"})
	assert.ErrorIs(t, err, entities.ErrValidation)

	visible, err := svc.ListTasks(ctx, actor(e.employee))
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, task.ID, visible[0].ID)

	hidden, err := svc.ListTasks(ctx, actor(e.peer))
	require.NoError(t, err)
	assert.Empty(t, hidden)

	_, err = svc.GetTask(ctx, actor(e.peer), task.ID)
	assert.ErrorIs(t, err, entities.ErrPermissionDenied)

	_, err = svc.GetTask(ctx, actor(e.peer), uuid.New())
	assert.ErrorIs(t, err, entities.ErrNotFound)

	status := entities.TaskStatusInProgress
	updated, err := svc.UpdateTask(ctx, actor(e.employee), task.ID, ports.UpdateTaskRequest{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, entities.TaskStatusInProgress, updated.Status)

	_, err = svc.UpdateTask(ctx, actor(e.outsider), task.ID, ports.UpdateTaskRequest{Status: &status})
	assert.ErrorIs(t, err, entities.ErrPermissionDenied)

	bogus := entities.TaskStatus("Blocked")
	_, err = svc.UpdateTask(ctx, actor(e.hod), task.ID, ports.UpdateTaskRequest{Status: &bogus})
	assert.ErrorIs(t, err, entities.ErrValidation)

	_, err = svc.UpdateTask(ctx, actor(e.outsider), uuid.New(), ports.UpdateTaskRequest{Status: &status})
	assert.ErrorIs(t, err, entities.ErrNotFound)

	assert.ErrorIs(t, svc.DeleteTask(ctx, actor(e.employee), task.ID), entities.ErrPermissionDenied)
	require.NoError(t, svc.DeleteTask(ctx, actor(e.hod), task.ID))
	assert.ErrorIs(t, svc.DeleteTask(ctx, actor(e.hod), task.ID), entities.ErrNotFound)
}

func TestTaskCreatedAuditLog(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	core, logs := observer.New(zap.InfoLevel)
	svc := NewTaskService(e.repos.Tasks, e.repos.Users, logger.FromZap(zap.New(core)))

	task, err := svc.CreateTask(ctx, actor(e.hod), ports.CreateTaskRequest{
		Title:       "Plan sprint",
		AssigneeIDs: []uuid.UUID{e.employee.ID, e.peer.ID},
	})
	require.NoError(t, err)

	entries := logs.FilterField(zap.String("action", "task_created")).All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "tasks", fields["component"])
	assert.ElementsMatch(t, task.AssigneeIDs(), fields["assignee_ids"])
}

func TestTaskVisibilityForHODAndAdmin(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	svc := NewTaskService(e.repos.Tasks, e.repos.Users, e.log)

	byAdmin, err := svc.CreateTask(ctx, actor(e.admin), ports.CreateTaskRequest{Title: "cross", AssigneeIDs: []uuid.UUID{e.peer.ID}})
	require.NoError(t, err)
	_, err = svc.CreateTask(ctx, actor(e.admin), ports.CreateTaskRequest{Title: "marketing", AssigneeIDs: []uuid.UUID{e.outsider.ID}})
	require.NoError(t, err)

	hodTasks, err := svc.ListTasks(ctx, actor(e.hod))
	require.NoError(t, err)
	require.Len(t, hodTasks, 1)
	assert.Equal(t, byAdmin.ID, hodTasks[0].ID)

	adminTasks, err := svc.ListTasks(ctx, actor(e.admin))
	require.NoError(t, err)
	assert.Len(t, adminTasks, 2)
}

func TestTaskLogs(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	svc := NewTaskLogService(e.repos.TaskLogs, e.repos.Users, e.log)
	svc.now = func() time.Time { return time.Date(2024, 5, 6, 23, 30, 0, 0, time.UTC) }

	start := time.Date(2024, 5, 6, 9, 0, 0, 0, time.UTC)
	end := start.Add(90 * time.Minute)
	log, err := svc.CreateTaskLog(ctx, actor(e.employee), ports.CreateTaskLogRequest{
		Description: "standup and review",
		StartTime:   &ports.Timestamp{Time: start},
		EndTime:     &ports.Timestamp{Time: end},
	})
	require.NoError(t, err)
	require.NotNil(t, log.DurationMinutes)
	assert.Equal(t, 90, *log.DurationMinutes)
	assert.Equal(t, time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC), log.Date)

	_, err = svc.CreateTaskLog(ctx, actor(e.employee), ports.CreateTaskLogRequest{
		Description: "backwards",
		StartTime:   &ports.Timestamp{Time: end},
		EndTime:     &ports.Timestamp{Time: start},
	})
	assert.ErrorIs(t, err, entities.ErrValidation)

	_, err = svc.CreateTaskLog(ctx, actor(e.employee), ports.CreateTaskLogRequest{Description: "  "})
	assert.ErrorIs(t, err, entities.ErrValidation)

	second, err := svc.CreateTaskLog(ctx, actor(e.employee), ports.CreateTaskLogRequest{Description: "later"})
	require.NoError(t, err)

	logs, err := svc.ListForUser(ctx, actor(e.employee), e.employee.ID)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, second.ID, logs[0].ID)

	_, err = svc.ListForUser(ctx, actor(e.hod), e.employee.ID)
	assert.NoError(t, err)

	_, err = svc.ListForUser(ctx, actor(e.peer), e.employee.ID)
	assert.ErrorIs(t, err, entities.ErrPermissionDenied)

	_, err = svc.ListForUser(ctx, actor(e.hod), e.outsider.ID)
	assert.ErrorIs(t, err, entities.ErrPermissionDenied)

	_, err = svc.ListForUser(ctx, actor(e.admin), uuid.New())
	assert.ErrorIs(t, err, entities.ErrNotFound)
}

func TestAttendanceStateMachine(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	now := time.Date(2024, 6, 3, 8, 0, 0, 0, time.UTC)
	svc := NewAttendanceService(e.repos.Attendance, e.log).WithClock(func() time.Time { return now })
	me := actor(e.employee)

	status, err := svc.Status(ctx, me)
	require.NoError(t, err)
	assert.Equal(t, entities.AttendanceNotCheckedIn, status.State)
	assert.False(t, status.IsCheckedIn)

	_, err = svc.CheckOut(ctx, me)
	assert.ErrorIs(t, err, entities.ErrNotCheckedIn)

	record, err := svc.CheckIn(ctx, me)
	require.NoError(t, err)
	assert.Equal(t, now, *record.CheckIn)

	_, err = svc.CheckIn(ctx, me)
	assert.ErrorIs(t, err, entities.ErrAlreadyCheckedIn)
	assert.ErrorIs(t, err, entities.ErrConflict)

	now = now.Add(8 * time.Hour)
	record, err = svc.CheckOut(ctx, me)
	require.NoError(t, err)
	assert.Equal(t, 8*time.Hour, record.WorkedDuration())

	_, err = svc.CheckOut(ctx, me)
	assert.ErrorIs(t, err, entities.ErrAlreadyCheckedOut)

	status, err = svc.Status(ctx, me)
	require.NoError(t, err)
	assert.Equal(t, entities.AttendanceCheckedOut, status.State)

	now = now.Add(time.Hour)
	record, err = svc.CheckIn(ctx, me)
	require.NoError(t, err)
	assert.Nil(t, record.CheckOut)
	assert.Equal(t, now, *record.CheckIn)

	status, err = svc.Status(ctx, me)
	require.NoError(t, err)
	assert.True(t, status.IsCheckedIn)
	assert.Nil(t, status.CheckOut)

	now = time.Date(2024, 6, 4, 0, 5, 0, 0, time.UTC)
	status, err = svc.Status(ctx, me)
	require.NoError(t, err)
	assert.Equal(t, entities.AttendanceNotCheckedIn, status.State)

	_, err = svc.CheckIn(ctx, me)
	require.NoError(t, err)

	history, err := svc.History(ctx, me, ports.AttendanceFilter{})
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, time.Date(2024, 6, 4, 0, 0, 0, 0, time.UTC), history[0].Date)

	peerHistory, err := svc.History(ctx, actor(e.peer), ports.AttendanceFilter{})
	require.NoError(t, err)
	assert.Empty(t, peerHistory)

	from, to := now, now.AddDate(0, 0, -1)
	_, err = svc.History(ctx, me, ports.AttendanceFilter{From: &from, To: &to})
	assert.ErrorIs(t, err, entities.ErrValidation)
}

func TestWFHRequests(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	svc := NewWFHService(e.repos.WFH, e.log)

	start := ports.NewDate(time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC))
	end := ports.NewDate(time.Date(2024, 7, 2, 0, 0, 0, 0, time.UTC))

	req, err := svc.CreateRequest(ctx, actor(e.employee), ports.CreateWFHRequest{Reason: "plumber", StartDate: start, EndDate: end})
	require.NoError(t, err)
	assert.Equal(t, entities.WFHStatusPending, req.Status)
	assert.Equal(t, "john", req.UserName)

	_, err = svc.CreateRequest(ctx, actor(e.outsider), ports.CreateWFHRequest{Reason: "travel", StartDate: start, EndDate: end})
	require.NoError(t, err)

	_, err = svc.CreateRequest(ctx, actor(e.employee), ports.CreateWFHRequest{Reason: "backwards", StartDate: end, EndDate: start})
	assert.ErrorIs(t, err, entities.ErrValidation)

	_, err = svc.CreateRequest(ctx, actor(e.employee), ports.CreateWFHRequest{Reason: "no dates"})
	assert.ErrorIs(t, err, entities.ErrValidation)

	own, err := svc.ListRequests(ctx, actor(e.employee))
	require.NoError(t, err)
	assert.Len(t, own, 1)

	peer, err := svc.ListRequests(ctx, actor(e.peer))
	require.NoError(t, err)
	assert.Empty(t, peer)

	department, err := svc.ListRequests(ctx, actor(e.hod))
	require.NoError(t, err)
	require.Len(t, department, 1)
	assert.Equal(t, e.employee.ID, department[0].UserID)

	all, err := svc.ListRequests(ctx, actor(e.admin))
	require.NoError(t, err)
	assert.Len(t, all, 2)

	approvals, err := svc.PendingApprovals(ctx, actor(e.admin))
	require.NoError(t, err)
	assert.NotNil(t, approvals)
	assert.Empty(t, approvals)
}

func TestSeed(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewStore().Repositories()
	log := logger.NewNop()
	seed := NewSeedService(repos.Seed, log)

	seeded, err := seed.Seed(ctx)
	require.NoError(t, err)
	assert.True(t, seeded)

	seeded, err = seed.Seed(ctx)
	require.NoError(t, err)
	assert.False(t, seeded)

	departments, err := repos.Departments.List(ctx)
	require.NoError(t, err)
	assert.Len(t, departments, 4)

	auth := NewAuthService(repos.Users, repos.Departments, jwtConfig(), log)
	resp, err := auth.Login(ctx, ports.LoginRequest{Email: "hod@company.com", Password: DefaultSeedPassword})
	require.NoError(t, err)
	assert.Equal(t, entities.UserRoleHOD, resp.User.Role)
	require.NotNil(t, resp.User.DepartmentName)
	assert.Equal(t, "Engineering", *resp.User.DepartmentName)

	admin, err := repos.Users.GetByEmail(ctx, "admin@company.com")
	require.NoError(t, err)
	assert.Equal(t, "HR", *admin.DepartmentName)
}
