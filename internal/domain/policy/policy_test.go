package policy

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/taskflow/office/internal/domain/entities"
)

type fixture struct {
	engineering, marketing uuid.UUID
	employee, peer, hod    Actor
	otherHOD, admin        Actor
	outsider               Actor
}

func newFixture() fixture {
	eng, mkt := uuid.New(), uuid.New()
	return fixture{
		engineering: eng,
		marketing:   mkt,
		employee:    Actor{ID: uuid.New(), Role: entities.UserRoleEmployee, DepartmentID: &eng},
		peer:        Actor{ID: uuid.New(), Role: entities.UserRoleEmployee, DepartmentID: &eng},
		hod:         Actor{ID: uuid.New(), Role: entities.UserRoleHOD, DepartmentID: &eng},
		otherHOD:    Actor{ID: uuid.New(), Role: entities.UserRoleHOD, DepartmentID: &mkt},
		admin:       Actor{ID: uuid.New(), Role: entities.UserRoleSuperAdmin},
		outsider:    Actor{ID: uuid.New(), Role: entities.UserRoleEmployee, DepartmentID: &mkt},
	}
}

func taskFor(assigner Actor, assignees ...Actor) *entities.Task {
	t := &entities.Task{ID: uuid.New(), AssignerID: assigner.ID}
	for _, a := range assignees {
		t.Assignees = append(t.Assignees, entities.TaskAssignee{
			AssigneeID:           a.ID,
			AssigneeDepartmentID: a.DepartmentID,
		})
	}
	return t
}

func TestTaskVisibility(t *testing.T) {
	f := newFixture()

	assignedToEmployee := taskFor(f.hod, f.employee)
	assignedToPeer := taskFor(f.hod, f.peer)
	createdByOtherHOD := taskFor(f.otherHOD, f.outsider)
	crossDepartment := taskFor(f.otherHOD, f.employee)
	unassigned := taskFor(f.hod)

	tests := []struct {
		name    string
		actor   Actor
		task    *entities.Task
		visible bool
	}{
		{"employee sees own assignment", f.employee, assignedToEmployee, true},
		{"employee does not see peer assignment", f.employee, assignedToPeer, false},
		{"employee sees assignment from another department", f.employee, crossDepartment, true},
		{"employee does not see unassigned task", f.employee, unassigned, false},
		{"hod sees created task", f.hod, unassigned, true},
		{"hod sees task assigned into department", f.hod, crossDepartment, true},
		{"hod does not see other department task", f.hod, createdByOtherHOD, false},
		{"other hod sees own task", f.otherHOD, createdByOtherHOD, true},
		{"other hod does not see engineering task", f.otherHOD, assignedToPeer, false},
		{"admin sees everything", f.admin, createdByOtherHOD, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.visible, TasksVisibleTo(tt.actor).Includes(tt.task))
			err := CanViewTask(tt.actor, tt.task)
			if tt.visible {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, entities.ErrPermissionDenied)
			}
		})
	}
}

func TestTaskScopeShapes(t *testing.T) {
	f := newFixture()

	scope := TasksVisibleTo(f.employee)
	assert.Equal(t, f.employee.ID, *scope.AssigneeID)
	assert.Nil(t, scope.AssignerID)
	assert.False(t, scope.All)

	scope = TasksVisibleTo(f.hod)
	assert.Equal(t, f.hod.ID, *scope.AssignerID)
	assert.Equal(t, f.engineering, *scope.AssigneeDepartmentID)

	noDept := Actor{ID: uuid.New(), Role: entities.UserRoleHOD}
	scope = TasksVisibleTo(noDept)
	assert.Nil(t, scope.AssigneeDepartmentID)
	assert.False(t, scope.IsEmpty())

	assert.True(t, TasksVisibleTo(f.admin).All)
	assert.True(t, TasksVisibleTo(Actor{ID: uuid.New(), Role: "Intern"}).IsEmpty())
}

func TestCanCreateTask(t *testing.T) {
	f := newFixture()

	assert.ErrorIs(t, CanCreateTask(f.employee), entities.ErrPermissionDenied)
	assert.NoError(t, CanCreateTask(f.hod))
	assert.NoError(t, CanCreateTask(f.admin))
	assert.ErrorIs(t, CanCreateTask(Actor{Role: "Intern"}), entities.ErrPermissionDenied)
}

func TestCanUpdateAndDeleteTask(t *testing.T) {
	f := newFixture()
	task := taskFor(f.hod, f.employee)

	assert.NoError(t, CanUpdateTask(f.employee, task))
	assert.NoError(t, CanUpdateTask(f.hod, task))
	assert.NoError(t, CanUpdateTask(f.admin, task))
	assert.ErrorIs(t, CanUpdateTask(f.peer, task), entities.ErrPermissionDenied)
	assert.ErrorIs(t, CanUpdateTask(f.otherHOD, task), entities.ErrPermissionDenied)

	assert.NoError(t, CanDeleteTask(f.hod, task))
	assert.NoError(t, CanDeleteTask(f.admin, task))
	assert.ErrorIs(t, CanDeleteTask(f.employee, task), entities.ErrPermissionDenied)
}

func TestCanListDepartmentUsers(t *testing.T) {
	f := newFixture()

	assert.ErrorIs(t, CanListDepartmentUsers(f.employee, f.engineering), entities.ErrPermissionDenied)
	assert.NoError(t, CanListDepartmentUsers(f.hod, f.engineering))
	assert.ErrorIs(t, CanListDepartmentUsers(f.hod, f.marketing), entities.ErrPermissionDenied)
	assert.NoError(t, CanListDepartmentUsers(f.admin, f.marketing))

	noDept := Actor{ID: uuid.New(), Role: entities.UserRoleHOD}
	assert.ErrorIs(t, CanListDepartmentUsers(noDept, f.engineering), entities.ErrPermissionDenied)
}

func TestCanViewTaskLogs(t *testing.T) {
	f := newFixture()
	user := func(a Actor) *entities.User {
		return &entities.User{ID: a.ID, Role: a.Role, DepartmentID: a.DepartmentID}
	}

	assert.NoError(t, CanViewTaskLogs(f.employee, user(f.employee)))
	assert.ErrorIs(t, CanViewTaskLogs(f.employee, user(f.peer)), entities.ErrPermissionDenied)
	assert.NoError(t, CanViewTaskLogs(f.hod, user(f.peer)))
	assert.ErrorIs(t, CanViewTaskLogs(f.hod, user(f.outsider)), entities.ErrPermissionDenied)
	assert.NoError(t, CanViewTaskLogs(f.admin, user(f.outsider)))
}

func TestWFHVisibility(t *testing.T) {
	f := newFixture()
	own := &entities.WFHRequest{UserID: f.employee.ID}
	peer := &entities.WFHRequest{UserID: f.peer.ID}
	outside := &entities.WFHRequest{UserID: f.outsider.ID}

	employee := WFHVisibleTo(f.employee)
	assert.True(t, employee.Includes(own, f.employee.DepartmentID))
	assert.False(t, employee.Includes(peer, f.peer.DepartmentID))

	hod := WFHVisibleTo(f.hod)
	assert.True(t, hod.Includes(own, f.employee.DepartmentID))
	assert.True(t, hod.Includes(peer, f.peer.DepartmentID))
	assert.False(t, hod.Includes(outside, f.outsider.DepartmentID))

	assert.True(t, WFHVisibleTo(f.admin).Includes(outside, nil))
	assert.True(t, WFHVisibleTo(Actor{Role: entities.UserRoleHOD}).IsEmpty())
}
