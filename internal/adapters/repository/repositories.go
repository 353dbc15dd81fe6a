package repository

import (
	"errors"

	"github.com/lib/pq"

	"github.com/taskflow/office/internal/infrastructure/database"
	"github.com/taskflow/office/internal/ports"
)

const uniqueViolation = pq.ErrorCode("23505")

// NewRepositories wires every Postgres repository onto one connection pool
func NewRepositories(db *database.DB) ports.Repositories {
	return ports.Repositories{
		Departments: NewDepartmentRepository(db),
		Users:       NewUserRepository(db),
		Tasks:       NewTaskRepository(db),
		TaskLogs:    NewTaskLogRepository(db),
		Attendance:  NewAttendanceRepository(db),
		WFH:         NewWFHRepository(db),
		Seed:        NewSeedRepository(db),
		Health:      db,
	}
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
