package store

import (
	"fmt"

	"lottrack/internal/model"
)

// BatchInsertAttendance 批量插入出勤记录
func (s *Store) BatchInsertAttendance(entries []model.AttendanceEntry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO attendance_records (record_date, member, shift, status)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		if _, err := stmt.Exec(e.Date, e.Member, e.Shift, e.Status); err != nil {
			return fmt.Errorf("failed to insert record: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ListAttendanceByDate 查询某日的出勤记录
func (s *Store) ListAttendanceByDate(date string) ([]model.AttendanceEntry, error) {
	rows, err := s.db.Query(`
		SELECT record_date, member, shift, status
		FROM attendance_records
		WHERE record_date = ?
		ORDER BY member
	`, date)
	if err != nil {
		return nil, fmt.Errorf("query attendance failed: %w", err)
	}
	defer rows.Close()

	var out []model.AttendanceEntry
	for rows.Next() {
		var e model.AttendanceEntry
		if err := rows.Scan(&e.Date, &e.Member, &e.Shift, &e.Status); err != nil {
			return nil, fmt.Errorf("scan attendance failed: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate attendance failed: %w", err)
	}
	return out, nil
}

// AttendanceRecordedForDate 判断某日是否已记录出勤
func (s *Store) AttendanceRecordedForDate(date string) (bool, error) {
	var count int
	if err := s.db.QueryRow("SELECT COUNT(1) FROM attendance_records WHERE record_date = ?", date).Scan(&count); err != nil {
		return false, fmt.Errorf("count attendance failed: %w", err)
	}
	return count > 0, nil
}
