package store

import (
	"fmt"

	"lottrack/internal/model"
)

// BatchInsertDetape 批量插入 detape 记录
func (s *Store) BatchInsertDetape(entries []model.DetapeEntry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO detape_records (record_date, quantity, package_code)
		VALUES (?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		if _, err := stmt.Exec(e.Date, e.Quantity, e.PackageCode); err != nil {
			return fmt.Errorf("failed to insert record: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// DetapeCountForDate 统计某日 detape 总数
func (s *Store) DetapeCountForDate(date string) (int, error) {
	var count int
	err := s.db.QueryRow(`
		SELECT COALESCE(SUM(quantity), 0) FROM detape_records WHERE record_date = ?
	`, date).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count detape failed: %w", err)
	}
	return count, nil
}

// ListDetapeByDate 查询某日的 detape 记录
func (s *Store) ListDetapeByDate(date string) ([]model.DetapeEntry, error) {
	rows, err := s.db.Query(`
		SELECT record_date, quantity, package_code
		FROM detape_records
		WHERE record_date = ?
		ORDER BY id
	`, date)
	if err != nil {
		return nil, fmt.Errorf("query detape failed: %w", err)
	}
	defer rows.Close()

	var out []model.DetapeEntry
	for rows.Next() {
		var e model.DetapeEntry
		if err := rows.Scan(&e.Date, &e.Quantity, &e.PackageCode); err != nil {
			return nil, fmt.Errorf("scan detape failed: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate detape failed: %w", err)
	}
	return out, nil
}
