package entities

import (
	"time"

	"github.com/google/uuid"
)

// Attendance is the single record for one user on one calendar day.
type Attendance struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	UserID    uuid.UUID  `json:"user_id" db:"user_id"`
	Date      time.Time  `json:"date" db:"date"`
	CheckIn   *time.Time `json:"check_in" db:"check_in"`
	CheckOut  *time.Time `json:"check_out" db:"check_out"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
}

// AttendanceState is the per-day check-in state.
type AttendanceState int

const (
	AttendanceNotCheckedIn AttendanceState = iota
	AttendanceCheckedIn
	AttendanceCheckedOut
)

func (s AttendanceState) String() string {
	switch s {
	case AttendanceNotCheckedIn:
		return "NOT_CHECKED_IN"
	case AttendanceCheckedIn:
		return "CHECKED_IN"
	case AttendanceCheckedOut:
		return "CHECKED_OUT"
	}
	return "UNKNOWN"
}

// NewAttendance returns an empty record for userID on the calendar day of date.
func NewAttendance(userID uuid.UUID, date time.Time) *Attendance {
	return &Attendance{
		ID:     uuid.New(),
		UserID: userID,
		Date:   DateOf(date),
	}
}

// State derives the day state from the stored timestamps. A nil record is
// NOT_CHECKED_IN.
func (a *Attendance) State() AttendanceState {
	if a == nil || a.CheckIn == nil {
		return AttendanceNotCheckedIn
	}
	if a.CheckOut == nil {
		return AttendanceCheckedIn
	}
	return AttendanceCheckedOut
}

// IsOpen reports whether the day has a check-in without a check-out.
func (a *Attendance) IsOpen() bool {
	return a.State() == AttendanceCheckedIn
}

// CheckInAt opens the day at now. Checking in after a check-out re-opens the
// day and clears the previous check-out.
func (a *Attendance) CheckInAt(now time.Time) error {
	switch a.State() {
	case AttendanceCheckedIn:
		return ErrAlreadyCheckedIn
	case AttendanceNotCheckedIn, AttendanceCheckedOut:
	}

	a.CheckIn = &now
	a.CheckOut = nil
	return nil
}

// CheckOutAt closes the open day at now.
func (a *Attendance) CheckOutAt(now time.Time) error {
	switch a.State() {
	case AttendanceNotCheckedIn:
		return ErrNotCheckedIn
	case AttendanceCheckedOut:
		return ErrAlreadyCheckedOut
	case AttendanceCheckedIn:
	}

	if now.Before(*a.CheckIn) {
		return ErrCheckOutBeforeCheckIn
	}
	a.CheckOut = &now
	return nil
}

// WorkedDuration returns check-out minus check-in for a closed day.
func (a *Attendance) WorkedDuration() time.Duration {
	if a.State() != AttendanceCheckedOut {
		return 0
	}
	return a.CheckOut.Sub(*a.CheckIn)
}
