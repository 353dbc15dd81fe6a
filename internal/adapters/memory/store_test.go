package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskflow/office/internal/domain/entities"
	"github.com/taskflow/office/internal/domain/policy"
	"github.com/taskflow/office/internal/ports"
)

func seedStore(t *testing.T) (ports.Repositories, *entities.Department, *entities.User, *entities.User) {
	t.Helper()
	ctx := context.Background()
	repos := NewStore().Repositories()

	dept := &entities.Department{Name: "Engineering"}
	require.NoError(t, repos.Departments.Create(ctx, dept))

	hod := &entities.User{Name: "Jane", Email: "jane@example.com", Role: entities.UserRoleHOD, DepartmentID: &dept.ID}
	emp := &entities.User{Name: "John", Email: "john@example.com", Role: entities.UserRoleEmployee, DepartmentID: &dept.ID}
	require.NoError(t, repos.Users.Create(ctx, hod))
	require.NoError(t, repos.Users.Create(ctx, emp))

	return repos, dept, hod, emp
}

func TestUsers(t *testing.T) {
	ctx := context.Background()
	repos, dept, hod, _ := seedStore(t)

	got, err := repos.Users.GetByEmail(ctx, "jane@example.com")
	require.NoError(t, err)
	assert.Equal(t, hod.ID, got.ID)
	require.NotNil(t, got.DepartmentName)
	assert.Equal(t, "Engineering", *got.DepartmentName)

	err = repos.Users.Create(ctx, &entities.User{Name: "Dup", Email: "jane@example.com", Role: entities.UserRoleEmployee})
	assert.ErrorIs(t, err, entities.ErrEmailTaken)

	_, err = repos.Users.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, entities.ErrNotFound)

	members, err := repos.Users.ListByDepartment(ctx, dept.ID)
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, "Jane", members[0].Name)
	assert.Equal(t, "John", members[1].Name)
}

func TestTasks(t *testing.T) {
	ctx := context.Background()
	repos, _, hod, emp := seedStore(t)

	first := &entities.Task{Title: "first", Status: entities.TaskStatusTodo, Priority: entities.TaskPriorityLow, AssignerID: hod.ID}
	second := &entities.Task{Title: "second", Status: entities.TaskStatusTodo, Priority: entities.TaskPriorityHigh, AssignerID: hod.ID}
	require.NoError(t, repos.Tasks.Create(ctx, first, []uuid.UUID{emp.ID}))
	require.NoError(t, repos.Tasks.Create(ctx, second, nil))

	err := repos.Tasks.Create(ctx, &entities.Task{Title: "bad", AssignerID: hod.ID}, []uuid.UUID{uuid.New()})
	assert.ErrorIs(t, err, entities.ErrUserNotFound)

	got, err := repos.Tasks.GetByID(ctx, first.ID)
	require.NoError(t, err)
	require.Len(t, got.Assignees, 1)
	assert.Equal(t, "John", got.Assignees[0].AssigneeName)
	assert.Equal(t, emp.DepartmentID, got.Assignees[0].AssigneeDepartmentID)

	employeeTasks, err := repos.Tasks.List(ctx, policy.TasksVisibleTo(policy.ActorFromUser(emp)))
	require.NoError(t, err)
	require.Len(t, employeeTasks, 1)
	assert.Equal(t, first.ID, employeeTasks[0].ID)

	all, err := repos.Tasks.List(ctx, policy.TaskScope{All: true})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "second", all[0].Title)

	got.Status = entities.TaskStatusDone
	require.NoError(t, repos.Tasks.Update(ctx, got))
	reloaded, err := repos.Tasks.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.TaskStatusDone, reloaded.Status)

	require.NoError(t, repos.Tasks.Delete(ctx, first.ID))
	_, err = repos.Tasks.GetByID(ctx, first.ID)
	assert.ErrorIs(t, err, entities.ErrTaskNotFound)
	assert.ErrorIs(t, repos.Tasks.Delete(ctx, first.ID), entities.ErrNotFound)
}

func TestGetByIDReturnsCopy(t *testing.T) {
	ctx := context.Background()
	repos, _, hod, emp := seedStore(t)

	task := &entities.Task{Title: "original", AssignerID: hod.ID}
	require.NoError(t, repos.Tasks.Create(ctx, task, []uuid.UUID{emp.ID}))

	got, err := repos.Tasks.GetByID(ctx, task.ID)
	require.NoError(t, err)
	got.Title = "mutated"
	got.Assignees[0].AssigneeName = "mutated"

	again, err := repos.Tasks.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "original", again.Title)
	assert.Equal(t, "John", again.Assignees[0].AssigneeName)
}

func TestAttendanceUpdateDay(t *testing.T) {
	ctx := context.Background()
	repos, _, _, emp := seedStore(t)
	now := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)

	record, err := repos.Attendance.UpdateDay(ctx, emp.ID, now, func(a *entities.Attendance) error {
		return a.CheckInAt(now)
	})
	require.NoError(t, err)
	assert.Equal(t, entities.AttendanceCheckedIn, record.State())

	_, err = repos.Attendance.UpdateDay(ctx, emp.ID, now, func(a *entities.Attendance) error {
		return a.CheckInAt(now)
	})
	assert.ErrorIs(t, err, entities.ErrAlreadyCheckedIn)

	stored, err := repos.Attendance.GetByUserAndDate(ctx, emp.ID, now.Add(3*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, record.ID, stored.ID)

	_, err = repos.Attendance.GetByUserAndDate(ctx, emp.ID, now.AddDate(0, 0, 1))
	assert.ErrorIs(t, err, entities.ErrNotFound)
}

func TestAttendanceConcurrentCheckIn(t *testing.T) {
	ctx := context.Background()
	repos, _, _, emp := seedStore(t)
	now := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)

	var wg sync.WaitGroup
	errs := make(chan error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repos.Attendance.UpdateDay(ctx, emp.ID, now, func(a *entities.Attendance) error {
				return a.CheckInAt(now)
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.True(t, errors.Is(err, entities.ErrAlreadyCheckedIn))
	}
	assert.Equal(t, 1, succeeded)

	history, err := repos.Attendance.ListByUser(ctx, emp.ID, ports.AttendanceFilter{})
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestAttendanceHistoryFilter(t *testing.T) {
	ctx := context.Background()
	repos, _, _, emp := seedStore(t)
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		day := base.AddDate(0, 0, i)
		_, err := repos.Attendance.UpdateDay(ctx, emp.ID, day, func(a *entities.Attendance) error {
			return a.CheckInAt(day)
		})
		require.NoError(t, err)
	}

	from := base.AddDate(0, 0, 1)
	to := base.AddDate(0, 0, 3)
	history, err := repos.Attendance.ListByUser(ctx, emp.ID, ports.AttendanceFilter{From: &from, To: &to})
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, entities.DateOf(to), history[0].Date)
	assert.Equal(t, entities.DateOf(from), history[2].Date)
}

func TestWFHScope(t *testing.T) {
	ctx := context.Background()
	repos, _, hod, emp := seedStore(t)

	outsider := &entities.User{Name: "Out", Email: "out@example.com", Role: entities.UserRoleEmployee}
	require.NoError(t, repos.Users.Create(ctx, outsider))

	for _, u := range []*entities.User{emp, outsider} {
		require.NoError(t, repos.WFH.Create(ctx, &entities.WFHRequest{UserID: u.ID, Reason: "home", Status: entities.WFHStatusPending}))
	}

	mine, err := repos.WFH.List(ctx, policy.WFHVisibleTo(policy.ActorFromUser(emp)))
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "John", mine[0].UserName)

	department, err := repos.WFH.List(ctx, policy.WFHVisibleTo(policy.ActorFromUser(hod)))
	require.NoError(t, err)
	assert.Len(t, department, 1)

	all, err := repos.WFH.List(ctx, policy.WFHScope{All: true})
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Equal(t, "Out", all[0].UserName)
}

func TestSeedIfEmpty(t *testing.T) {
	ctx := context.Background()
	repos := NewStore().Repositories()

	dept := &entities.Department{ID: uuid.New(), Name: "HR"}
	user := &entities.User{ID: uuid.New(), Name: "CEO", Email: "admin@example.com", Role: entities.UserRoleSuperAdmin, DepartmentID: &dept.ID}

	seeded, err := repos.Seed.SeedIfEmpty(ctx, []*entities.Department{dept}, []*entities.User{user})
	require.NoError(t, err)
	assert.True(t, seeded)

	seeded, err = repos.Seed.SeedIfEmpty(ctx, []*entities.Department{{ID: uuid.New(), Name: "Other"}}, nil)
	require.NoError(t, err)
	assert.False(t, seeded)

	departments, err := repos.Departments.List(ctx)
	require.NoError(t, err)
	assert.Len(t, departments, 1)
	assert.Equal(t, "memory", repos.Health.GetConnectionInfo()["driver"])
}
