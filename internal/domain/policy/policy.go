// Package policy decides what an authenticated actor may see and change.
//
// Every function is a pure function of the actor, the resource and the
// relationship between them. Callers look the resource up first so that a
// missing resource is reported as not found before any rule runs.
package policy

import (
	"github.com/google/uuid"

	"github.com/taskflow/office/internal/domain/entities"
)

// Actor is the authenticated user a decision is made for.
type Actor struct {
	ID           uuid.UUID
	Role         entities.UserRole
	DepartmentID *uuid.UUID
}

// ActorFromUser builds an Actor from a loaded user.
func ActorFromUser(u *entities.User) Actor {
	return Actor{ID: u.ID, Role: u.Role, DepartmentID: u.DepartmentID}
}

func (a Actor) inDepartment(departmentID *uuid.UUID) bool {
	return a.DepartmentID != nil && departmentID != nil && *a.DepartmentID == *departmentID
}

func denied(message string) error {
	return entities.NewError(entities.KindPermissionDenied, message)
}

// TaskScope is the subset of tasks visible to an actor. A task is visible
// when All is set or it matches any of the non-nil criteria.
type TaskScope struct {
	All                  bool
	AssigneeID           *uuid.UUID
	AssignerID           *uuid.UUID
	AssigneeDepartmentID *uuid.UUID
}

// TasksVisibleTo returns the task scope for a.
func TasksVisibleTo(a Actor) TaskScope {
	id := a.ID
	switch a.Role {
	case entities.UserRoleEmployee:
		return TaskScope{AssigneeID: &id}
	case entities.UserRoleHOD:
		scope := TaskScope{AssignerID: &id}
		if a.DepartmentID != nil {
			dept := *a.DepartmentID
			scope.AssigneeDepartmentID = &dept
		}
		return scope
	case entities.UserRoleSuperAdmin:
		return TaskScope{All: true}
	}
	return TaskScope{}
}

// IsEmpty reports whether the scope can match no task at all.
func (s TaskScope) IsEmpty() bool {
	return !s.All && s.AssigneeID == nil && s.AssignerID == nil && s.AssigneeDepartmentID == nil
}

// Includes reports whether t falls inside the scope. Assignee departments
// must be populated on t.Assignees.
func (s TaskScope) Includes(t *entities.Task) bool {
	if s.All {
		return true
	}
	if s.AssigneeID != nil && t.HasAssignee(*s.AssigneeID) {
		return true
	}
	if s.AssignerID != nil && t.AssignerID == *s.AssignerID {
		return true
	}
	if s.AssigneeDepartmentID != nil && t.HasAssigneeInDepartment(*s.AssigneeDepartmentID) {
		return true
	}
	return false
}

// CanViewTask checks the task visibility rule for a single task.
func CanViewTask(a Actor, t *entities.Task) error {
	if TasksVisibleTo(a).Includes(t) {
		return nil
	}
	return denied("permission denied")
}

// CanCreateTask allows HOD and SuperAdmin to create tasks.
func CanCreateTask(a Actor) error {
	switch a.Role {
	case entities.UserRoleEmployee:
		return denied("employees cannot create tasks")
	case entities.UserRoleHOD, entities.UserRoleSuperAdmin:
		return nil
	}
	return denied("permission denied")
}

// CanUpdateTask allows assignees, the original assigner and SuperAdmin.
func CanUpdateTask(a Actor, t *entities.Task) error {
	if a.Role == entities.UserRoleSuperAdmin || t.AssignerID == a.ID || t.HasAssignee(a.ID) {
		return nil
	}
	return denied("permission denied")
}

// CanDeleteTask allows the original assigner and SuperAdmin.
func CanDeleteTask(a Actor, t *entities.Task) error {
	if a.Role == entities.UserRoleSuperAdmin || t.AssignerID == a.ID {
		return nil
	}
	return denied("permission denied")
}

// CanListDepartmentUsers allows an HOD for their own department and
// SuperAdmin for any department.
func CanListDepartmentUsers(a Actor, departmentID uuid.UUID) error {
	switch a.Role {
	case entities.UserRoleEmployee:
		return denied("permission denied")
	case entities.UserRoleHOD:
		if a.inDepartment(&departmentID) {
			return nil
		}
		return denied("can only view your department")
	case entities.UserRoleSuperAdmin:
		return nil
	}
	return denied("permission denied")
}

// CanViewTaskLogs allows own logs always, any logs for SuperAdmin and logs of
// department members for an HOD.
func CanViewTaskLogs(a Actor, target *entities.User) error {
	if target.ID == a.ID {
		return nil
	}
	switch a.Role {
	case entities.UserRoleEmployee:
		return denied("permission denied")
	case entities.UserRoleHOD:
		if a.inDepartment(target.DepartmentID) {
			return nil
		}
		return denied("permission denied")
	case entities.UserRoleSuperAdmin:
		return nil
	}
	return denied("permission denied")
}

// WFHScope is the subset of WFH requests visible to an actor.
type WFHScope struct {
	All          bool
	UserID       *uuid.UUID
	DepartmentID *uuid.UUID
}

// WFHVisibleTo returns the WFH scope for a.
func WFHVisibleTo(a Actor) WFHScope {
	switch a.Role {
	case entities.UserRoleEmployee:
		id := a.ID
		return WFHScope{UserID: &id}
	case entities.UserRoleHOD:
		if a.DepartmentID == nil {
			return WFHScope{}
		}
		dept := *a.DepartmentID
		return WFHScope{DepartmentID: &dept}
	case entities.UserRoleSuperAdmin:
		return WFHScope{All: true}
	}
	return WFHScope{}
}

// IsEmpty reports whether the scope can match no request at all.
func (s WFHScope) IsEmpty() bool {
	return !s.All && s.UserID == nil && s.DepartmentID == nil
}

// Includes reports whether a request owned by a user in ownerDepartment
// falls inside the scope.
func (s WFHScope) Includes(w *entities.WFHRequest, ownerDepartment *uuid.UUID) bool {
	if s.All {
		return true
	}
	if s.UserID != nil && w.UserID == *s.UserID {
		return true
	}
	if s.DepartmentID != nil && ownerDepartment != nil && *ownerDepartment == *s.DepartmentID {
		return true
	}
	return false
}
