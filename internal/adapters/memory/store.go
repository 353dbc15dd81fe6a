// Package memory keeps every repository in process memory. It backs the
// "memory" database driver and the service and server tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/taskflow/office/internal/domain/entities"
	"github.com/taskflow/office/internal/domain/policy"
	"github.com/taskflow/office/internal/infrastructure/config"
	"github.com/taskflow/office/internal/ports"
)

type attendanceKey struct {
	userID uuid.UUID
	date   time.Time
}

type taskRow struct {
	task *entities.Task
	seq  int64
}

// Store holds all rows behind a single lock. Reads and writes hand out
// copies so callers never share memory with the store.
type Store struct {
	mu  sync.RWMutex
	seq int64
	now func() time.Time

	departments map[uuid.UUID]*entities.Department
	users       map[uuid.UUID]*entities.User
	tasks       map[uuid.UUID]*taskRow
	assignees   map[uuid.UUID][]entities.TaskAssignee
	taskLogs    []*entities.TaskLog
	attendance  map[attendanceKey]*entities.Attendance
	wfh         []*entities.WFHRequest
}

// NewStore returns an empty store
func NewStore() *Store {
	return &Store{
		now:         time.Now,
		departments: make(map[uuid.UUID]*entities.Department),
		users:       make(map[uuid.UUID]*entities.User),
		tasks:       make(map[uuid.UUID]*taskRow),
		assignees:   make(map[uuid.UUID][]entities.TaskAssignee),
		attendance:  make(map[attendanceKey]*entities.Attendance),
	}
}

// Repositories exposes the store through the repository ports
func (s *Store) Repositories() ports.Repositories {
	return ports.Repositories{
		Departments: departmentRepo{s},
		Users:       userRepo{s},
		Tasks:       taskRepo{s},
		TaskLogs:    taskLogRepo{s},
		Attendance:  attendanceRepo{s},
		WFH:         wfhRepo{s},
		Seed:        seedRepo{s},
		Health:      s,
	}
}

// HealthCheck always succeeds
func (s *Store) HealthCheck() error { return nil }

// Ping always succeeds
func (s *Store) Ping() error { return nil }

// GetConnectionInfo reports row counts instead of pool statistics
func (s *Store) GetConnectionInfo() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return map[string]interface{}{
		"driver":      config.DriverMemory,
		"departments": len(s.departments),
		"users":       len(s.users),
		"tasks":       len(s.tasks),
		"task_logs":   len(s.taskLogs),
		"attendance":  len(s.attendance),
		"wfh":         len(s.wfh),
	}
}

func (s *Store) stamp() time.Time {
	return s.now().UTC()
}

// departments

type departmentRepo struct{ s *Store }

func (r departmentRepo) Create(_ context.Context, d *entities.Department) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.insertDepartment(d)
	return nil
}

func (s *Store) insertDepartment(d *entities.Department) {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	d.CreatedAt = s.stamp()
	d.UpdatedAt = d.CreatedAt
	cp := *d
	s.departments[d.ID] = &cp
}

func (r departmentRepo) GetByID(_ context.Context, id uuid.UUID) (*entities.Department, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	d, ok := r.s.departments[id]
	if !ok {
		return nil, entities.ErrDepartmentNotFound
	}
	cp := *d
	return &cp, nil
}

func (r departmentRepo) List(_ context.Context) ([]*entities.Department, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*entities.Department, 0, len(r.s.departments))
	for _, d := range r.s.departments {
		cp := *d
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// users

type userRepo struct{ s *Store }

func (r userRepo) Create(_ context.Context, u *entities.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.insertUser(u)
}

func (s *Store) insertUser(u *entities.User) error {
	for _, existing := range s.users {
		if existing.Email == u.Email {
			return entities.ErrEmailTaken
		}
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	u.CreatedAt = s.stamp()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	cp.DepartmentName = nil
	s.users[u.ID] = &cp
	return nil
}

// userView returns a copy of u with the department name resolved
func (s *Store) userView(u *entities.User) *entities.User {
	cp := *u
	cp.DepartmentName = nil
	if u.DepartmentID != nil {
		if d, ok := s.departments[*u.DepartmentID]; ok {
			name := d.Name
			cp.DepartmentName = &name
		}
	}
	return &cp
}

func (r userRepo) GetByID(_ context.Context, id uuid.UUID) (*entities.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, entities.ErrUserNotFound
	}
	return r.s.userView(u), nil
}

func (r userRepo) GetByEmail(_ context.Context, email string) (*entities.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if u.Email == email {
			return r.s.userView(u), nil
		}
	}
	return nil, entities.ErrUserNotFound
}

func (r userRepo) ListByDepartment(_ context.Context, departmentID uuid.UUID) ([]*entities.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []*entities.User{}
	for _, u := range r.s.users {
		if u.InDepartment(departmentID) {
			out = append(out, r.s.userView(u))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// tasks

type taskRepo struct{ s *Store }

func (r taskRepo) Create(_ context.Context, t *entities.Task, assigneeIDs []uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, id := range assigneeIDs {
		if _, ok := r.s.users[id]; !ok {
			return entities.ErrUserNotFound
		}
	}

	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	t.CreatedAt = r.s.stamp()
	t.UpdatedAt = t.CreatedAt
	r.s.seq++

	cp := *t
	cp.Assignees = nil
	r.s.tasks[t.ID] = &taskRow{task: &cp, seq: r.s.seq}

	rows := make([]entities.TaskAssignee, 0, len(assigneeIDs))
	for _, id := range assigneeIDs {
		rows = append(rows, entities.TaskAssignee{
			ID:         uuid.New(),
			TaskID:     t.ID,
			AssigneeID: id,
			AssignedAt: t.CreatedAt,
		})
	}
	r.s.assignees[t.ID] = rows
	return nil
}

// taskView returns a copy of the task with assignee names and departments
// resolved from the current user rows
func (s *Store) taskView(row *taskRow) *entities.Task {
	cp := *row.task
	cp.Assignees = make([]entities.TaskAssignee, 0, len(s.assignees[cp.ID]))
	for _, a := range s.assignees[cp.ID] {
		if u, ok := s.users[a.AssigneeID]; ok {
			a.AssigneeName = u.Name
			a.AssigneeDepartmentID = u.DepartmentID
		}
		cp.Assignees = append(cp.Assignees, a)
	}
	return &cp
}

func (r taskRepo) GetByID(_ context.Context, id uuid.UUID) (*entities.Task, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	row, ok := r.s.tasks[id]
	if !ok {
		return nil, entities.ErrTaskNotFound
	}
	return r.s.taskView(row), nil
}

func (r taskRepo) Update(_ context.Context, t *entities.Task) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	row, ok := r.s.tasks[t.ID]
	if !ok {
		return entities.ErrTaskNotFound
	}
	t.UpdatedAt = r.s.stamp()

	stored := row.task
	stored.Title = t.Title
	stored.Description = t.Description
	stored.Status = t.Status
	stored.Priority = t.Priority
	stored.DueDate = t.DueDate
	stored.UpdatedAt = t.UpdatedAt
	return nil
}

func (r taskRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.tasks[id]; !ok {
		return entities.ErrTaskNotFound
	}
	delete(r.s.assignees, id)
	delete(r.s.tasks, id)
	return nil
}

func (r taskRepo) List(_ context.Context, scope policy.TaskScope) ([]*entities.Task, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	type entry struct {
		task *entities.Task
		seq  int64
	}
	var matched []entry
	for _, row := range r.s.tasks {
		view := r.s.taskView(row)
		if scope.Includes(view) {
			matched = append(matched, entry{view, row.seq})
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].seq > matched[j].seq })

	out := make([]*entities.Task, 0, len(matched))
	for _, m := range matched {
		out = append(out, m.task)
	}
	return out, nil
}

// task logs

type taskLogRepo struct{ s *Store }

func (r taskLogRepo) Create(_ context.Context, l *entities.TaskLog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	l.CreatedAt = r.s.stamp()
	cp := *l
	r.s.taskLogs = append(r.s.taskLogs, &cp)
	return nil
}

func (r taskLogRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]*entities.TaskLog, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []*entities.TaskLog{}
	for i := len(r.s.taskLogs) - 1; i >= 0; i-- {
		if l := r.s.taskLogs[i]; l.UserID == userID {
			cp := *l
			out = append(out, &cp)
		}
	}
	return out, nil
}

// attendance

type attendanceRepo struct{ s *Store }

func (r attendanceRepo) GetByUserAndDate(_ context.Context, userID uuid.UUID, date time.Time) (*entities.Attendance, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	a, ok := r.s.attendance[attendanceKey{userID, entities.DateOf(date)}]
	if !ok {
		return nil, entities.ErrAttendanceNotFound
	}
	cp := *a
	return &cp, nil
}

// UpdateDay holds the write lock across fn, which serializes concurrent
// transitions for every user.
func (r attendanceRepo) UpdateDay(_ context.Context, userID uuid.UUID, date time.Time, fn func(*entities.Attendance) error) (*entities.Attendance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	key := attendanceKey{userID, entities.DateOf(date)}
	var record *entities.Attendance
	if existing, ok := r.s.attendance[key]; ok {
		cp := *existing
		record = &cp
	} else {
		record = entities.NewAttendance(userID, key.date)
		record.CreatedAt = r.s.stamp()
	}

	if err := fn(record); err != nil {
		return nil, err
	}

	record.UpdatedAt = r.s.stamp()
	stored := *record
	r.s.attendance[key] = &stored
	return record, nil
}

func (r attendanceRepo) ListByUser(_ context.Context, userID uuid.UUID, filter ports.AttendanceFilter) ([]*entities.Attendance, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []*entities.Attendance{}
	for key, a := range r.s.attendance {
		if key.userID != userID {
			continue
		}
		if filter.From != nil && key.date.Before(entities.DateOf(*filter.From)) {
			continue
		}
		if filter.To != nil && key.date.After(entities.DateOf(*filter.To)) {
			continue
		}
		cp := *a
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

// wfh requests

type wfhRepo struct{ s *Store }

func (r wfhRepo) Create(_ context.Context, w *entities.WFHRequest) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[w.UserID]
	if !ok {
		return entities.ErrUserNotFound
	}
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	w.UserName = u.Name
	w.CreatedAt = r.s.stamp()
	w.UpdatedAt = w.CreatedAt
	cp := *w
	r.s.wfh = append(r.s.wfh, &cp)
	return nil
}

func (r wfhRepo) List(_ context.Context, scope policy.WFHScope) ([]*entities.WFHRequest, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []*entities.WFHRequest{}
	for i := len(r.s.wfh) - 1; i >= 0; i-- {
		w := r.s.wfh[i]
		var ownerDepartment *uuid.UUID
		if u, ok := r.s.users[w.UserID]; ok {
			ownerDepartment = u.DepartmentID
		}
		if scope.Includes(w, ownerDepartment) {
			cp := *w
			out = append(out, &cp)
		}
	}
	return out, nil
}

// seed

type seedRepo struct{ s *Store }

func (r seedRepo) SeedIfEmpty(_ context.Context, departments []*entities.Department, users []*entities.User) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if len(r.s.departments) > 0 {
		return false, nil
	}

	for _, u := range users {
		for _, existing := range r.s.users {
			if existing.Email == u.Email {
				return false, entities.ErrEmailTaken
			}
		}
	}

	for _, d := range departments {
		r.s.insertDepartment(d)
	}
	for _, u := range users {
		if err := r.s.insertUser(u); err != nil {
			return false, err
		}
	}
	return true, nil
}
