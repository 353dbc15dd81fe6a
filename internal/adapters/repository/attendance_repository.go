package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/taskflow/office/internal/domain/entities"
	"github.com/taskflow/office/internal/infrastructure/database"
	"github.com/taskflow/office/internal/ports"
)

const attendanceColumns = `id, user_id, date, check_in, check_out, created_at, updated_at`

// AttendanceRepositoryImpl implements the AttendanceRepository interface
type AttendanceRepositoryImpl struct {
	db *database.DB
}

// NewAttendanceRepository creates a new attendance repository
func NewAttendanceRepository(db *database.DB) ports.AttendanceRepository {
	return &AttendanceRepositoryImpl{db: db}
}

func (r *AttendanceRepositoryImpl) GetByUserAndDate(ctx context.Context, userID uuid.UUID, date time.Time) (*entities.Attendance, error) {
	query := `SELECT ` + attendanceColumns + ` FROM attendance WHERE user_id = $1 AND date = $2`

	var record entities.Attendance
	err := r.db.DB.GetContext(ctx, &record, query, userID, entities.DateOf(date))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entities.ErrAttendanceNotFound
		}
		return nil, fmt.Errorf("get attendance: %w", err)
	}

	return &record, nil
}

// UpdateDay locks the day's row, applies fn and writes the result back. Two
// first check-ins racing on an empty day collide on the (user_id, date)
// unique key and the loser reports a conflict.
func (r *AttendanceRepositoryImpl) UpdateDay(ctx context.Context, userID uuid.UUID, date time.Time, fn func(*entities.Attendance) error) (*entities.Attendance, error) {
	day := entities.DateOf(date)
	var result *entities.Attendance

	err := r.db.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		query := `SELECT ` + attendanceColumns + ` FROM attendance WHERE user_id = $1 AND date = $2 FOR UPDATE`

		record := entities.NewAttendance(userID, day)
		exists := true
		if err := tx.GetContext(ctx, record, query, userID, day); err != nil {
			if !errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("lock attendance: %w", err)
			}
			record = entities.NewAttendance(userID, day)
			exists = false
		}

		if err := fn(record); err != nil {
			return err
		}

		if exists {
			err := tx.QueryRowContext(ctx, `
				UPDATE attendance
				SET check_in = $2, check_out = $3, updated_at = CURRENT_TIMESTAMP
				WHERE id = $1
				RETURNING updated_at`,
				record.ID, record.CheckIn, record.CheckOut,
			).Scan(&record.UpdatedAt)
			if err != nil {
				return fmt.Errorf("update attendance: %w", err)
			}
		} else {
			err := tx.QueryRowContext(ctx, `
				INSERT INTO attendance (id, user_id, date, check_in, check_out)
				VALUES ($1, $2, $3, $4, $5)
				RETURNING created_at, updated_at`,
				record.ID, record.UserID, record.Date, record.CheckIn, record.CheckOut,
			).Scan(&record.CreatedAt, &record.UpdatedAt)
			if err != nil {
				if isUniqueViolation(err) {
					return entities.ErrAttendanceConflict
				}
				return fmt.Errorf("create attendance: %w", err)
			}
		}

		result = record
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *AttendanceRepositoryImpl) ListByUser(ctx context.Context, userID uuid.UUID, filter ports.AttendanceFilter) ([]*entities.Attendance, error) {
	query := `SELECT ` + attendanceColumns + ` FROM attendance WHERE user_id = $1`
	args := []interface{}{userID}

	if filter.From != nil {
		args = append(args, entities.DateOf(*filter.From))
		query += fmt.Sprintf(" AND date >= $%d", len(args))
	}
	if filter.To != nil {
		args = append(args, entities.DateOf(*filter.To))
		query += fmt.Sprintf(" AND date <= $%d", len(args))
	}
	query += " ORDER BY date DESC"

	records := []*entities.Attendance{}
	if err := r.db.DB.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}

	return records, nil
}
