package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/taskflow/office/internal/domain/entities"
	"github.com/taskflow/office/internal/domain/policy"
	"github.com/taskflow/office/internal/infrastructure/logger"
	"github.com/taskflow/office/internal/ports"
)

// AttendanceService drives the per-day check-in state machine. The day is
// the UTC calendar date of the service clock.
type AttendanceService struct {
	attendanceRepo ports.AttendanceRepository
	logger         *logger.Logger
	now            func() time.Time
}

// NewAttendanceService creates a new attendance service
func NewAttendanceService(attendanceRepo ports.AttendanceRepository, logger *logger.Logger) *AttendanceService {
	return &AttendanceService{
		attendanceRepo: attendanceRepo,
		logger:         logger.WithComponent("attendance"),
		now:            time.Now,
	}
}

// WithClock replaces the service clock
func (s *AttendanceService) WithClock(now func() time.Time) *AttendanceService {
	s.now = now
	return s
}

func (s *AttendanceService) clock() time.Time {
	return s.now().UTC()
}

// Status reports the actor's state for today
func (s *AttendanceService) Status(ctx context.Context, actor policy.Actor) (*ports.AttendanceStatus, error) {
	record, err := s.attendanceRepo.GetByUserAndDate(ctx, actor.ID, s.clock())
	if err != nil && !errors.Is(err, entities.ErrNotFound) {
		return nil, fmt.Errorf("failed to get attendance: %w", err)
	}

	status := &ports.AttendanceStatus{State: record.State(), IsCheckedIn: record.IsOpen()}
	if record != nil {
		status.CheckIn = record.CheckIn
		status.CheckOut = record.CheckOut
	}

	return status, nil
}

// CheckIn opens today's record
func (s *AttendanceService) CheckIn(ctx context.Context, actor policy.Actor) (*entities.Attendance, error) {
	now := s.clock()
	record, err := s.attendanceRepo.UpdateDay(ctx, actor.ID, now, func(a *entities.Attendance) error {
		return a.CheckInAt(now)
	})
	if err != nil {
		return nil, s.transitionError(err)
	}

	s.logger.LogUserAction(actor.ID.String(), "check_in", map[string]interface{}{
		"date": record.Date.Format("2006-01-02"),
	})

	return record, nil
}

// CheckOut closes today's open record
func (s *AttendanceService) CheckOut(ctx context.Context, actor policy.Actor) (*entities.Attendance, error) {
	now := s.clock()
	record, err := s.attendanceRepo.UpdateDay(ctx, actor.ID, now, func(a *entities.Attendance) error {
		return a.CheckOutAt(now)
	})
	if err != nil {
		return nil, s.transitionError(err)
	}

	s.logger.LogUserAction(actor.ID.String(), "check_out", map[string]interface{}{
		"date":           record.Date.Format("2006-01-02"),
		"worked_minutes": int(record.WorkedDuration().Minutes()),
	})

	return record, nil
}

// History lists the actor's own records, most recent day first
func (s *AttendanceService) History(ctx context.Context, actor policy.Actor, filter ports.AttendanceFilter) ([]*entities.Attendance, error) {
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return nil, entities.ValidationError("to cannot precede from")
	}

	records, err := s.attendanceRepo.ListByUser(ctx, actor.ID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}

	return records, nil
}

func (s *AttendanceService) transitionError(err error) error {
	if entities.KindOf(err) != entities.KindUnknown {
		return err
	}
	return fmt.Errorf("failed to update attendance: %w", err)
}
