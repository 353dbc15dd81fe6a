// Package services implements the application use cases on top of the
// repository ports and the policy engine.
package services

import "github.com/taskflow/office/internal/ports"

var (
	_ ports.AuthService       = (*AuthService)(nil)
	_ ports.UserService       = (*UserService)(nil)
	_ ports.TaskService       = (*TaskService)(nil)
	_ ports.TaskLogService    = (*TaskLogService)(nil)
	_ ports.AttendanceService = (*AttendanceService)(nil)
	_ ports.WFHService        = (*WFHService)(nil)
)
