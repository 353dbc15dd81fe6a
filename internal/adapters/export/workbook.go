// Package export renders task logs and attendance history as XLSX workbooks.
package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/taskflow/office/internal/domain/entities"
)

// ContentType is the MIME type of the generated workbooks
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const (
	TaskLogSheet    = "Task Logs"
	AttendanceSheet = "Attendance"

	dateLayout = "2006-01-02"
	timeLayout = "2006-01-02 15:04"
)

type column struct {
	header string
	width  float64
}

var taskLogColumns = []column{
	{"Date", 12},
	{"Description", 60},
	{"Start", 18},
	{"End", 18},
	{"Duration (min)", 15},
}

var attendanceColumns = []column{
	{"Date", 12},
	{"Check In", 18},
	{"Check Out", 18},
	{"Worked (min)", 14},
	{"State", 16},
}

// TaskLogs writes logs to a single-sheet workbook
func TaskLogs(logs []*entities.TaskLog) (*bytes.Buffer, error) {
	rows := make([][]interface{}, 0, len(logs))
	for _, l := range logs {
		var duration interface{}
		if l.DurationMinutes != nil {
			duration = *l.DurationMinutes
		}
		rows = append(rows, []interface{}{
			l.Date.Format(dateLayout),
			l.Description,
			formatTime(l.StartTime),
			formatTime(l.EndTime),
			duration,
		})
	}
	return build(TaskLogSheet, taskLogColumns, rows)
}

// Attendance writes attendance records to a single-sheet workbook
func Attendance(records []*entities.Attendance) (*bytes.Buffer, error) {
	rows := make([][]interface{}, 0, len(records))
	for _, a := range records {
		var worked interface{}
		if a.State() == entities.AttendanceCheckedOut {
			worked = int(a.WorkedDuration().Minutes())
		}
		rows = append(rows, []interface{}{
			a.Date.Format(dateLayout),
			formatTime(a.CheckIn),
			formatTime(a.CheckOut),
			worked,
			a.State().String(),
		})
	}
	return build(AttendanceSheet, attendanceColumns, rows)
}

func build(sheet string, columns []column, rows [][]interface{}) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("name sheet %q: %w", sheet, err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"DCE6F1"}},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	header := make([]interface{}, 0, len(columns))
	for i, col := range columns {
		header = append(header, col.header)
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetColWidth(sheet, name, name, col.width); err != nil {
			return nil, fmt.Errorf("set column width: %w", err)
		}
	}

	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	lastHeader, err := excelize.CoordinatesToCellName(len(columns), 1)
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(sheet, "A1", lastHeader, headerStyle); err != nil {
		return nil, fmt.Errorf("style header: %w", err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := row
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf, nil
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(timeLayout)
}
