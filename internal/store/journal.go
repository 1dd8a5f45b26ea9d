package store

import (
	"fmt"
	"time"

	"lottrack/internal/parser"
)

// CaptureEvent 采集事件流水
type CaptureEvent struct {
	ID           int64     `json:"id"`
	SnapshotName string    `json:"snapshotName"`
	CapturedAt   time.Time `json:"capturedAt"`
	TotalRows    int       `json:"totalRows"`
	ActiveLots   int       `json:"activeLots"`
	SkippedRows  int       `json:"skippedRows"`
	DuplicateLot int       `json:"duplicateLots"`
	SourceRef    string    `json:"sourceRef"`
}

// AnalysisRun 分析运行流水
type AnalysisRun struct {
	ID                 string    `json:"id"`
	RunAt              time.Time `json:"runAt"`
	BeforeCapturedAt   time.Time `json:"beforeCapturedAt"`
	AfterCapturedAt    time.Time `json:"afterCapturedAt"`
	TotalLots          int       `json:"totalLots"`
	ProcessedCount     int       `json:"processedCount"`
	InProgressCount    int       `json:"inProgressCount"`
	SplitLowYieldCount int       `json:"splitLowYieldCount"`
	ProcessingRate     float64   `json:"processingRate"`
}

// InsertCaptureEvent 记录一次采集事件
func (s *Store) InsertCaptureEvent(name string, capturedAt time.Time, report parser.CaptureReport, sourceRef string) error {
	_, err := s.db.Exec(`
		INSERT INTO capture_events (
			snapshot_name, captured_at, total_rows, active_lots, skipped_rows, duplicate_lots, source_ref
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`, name, capturedAt, report.TotalRows, report.ActiveLots,
		report.SkippedMissingLot+report.SkippedInactive, report.DuplicateLots, sourceRef)
	if err != nil {
		return fmt.Errorf("failed to insert capture event: %w", err)
	}
	return nil
}

// InsertAnalysisRun 记录一次分析运行
func (s *Store) InsertAnalysisRun(run AnalysisRun) error {
	_, err := s.db.Exec(`
		INSERT INTO analysis_runs (
			id, run_at, before_captured_at, after_captured_at,
			total_lots, processed_count, in_progress_count, split_low_yield_count, processing_rate
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.RunAt, run.BeforeCapturedAt, run.AfterCapturedAt,
		run.TotalLots, run.ProcessedCount, run.InProgressCount, run.SplitLowYieldCount, run.ProcessingRate)
	if err != nil {
		return fmt.Errorf("failed to insert analysis run: %w", err)
	}
	return nil
}

// ListAnalysisRuns 按时间倒序列出最近的分析运行
func (s *Store) ListAnalysisRuns(limit int) ([]AnalysisRun, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(`
		SELECT id, run_at, before_captured_at, after_captured_at,
		       total_lots, processed_count, in_progress_count, split_low_yield_count, processing_rate
		FROM analysis_runs
		ORDER BY run_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query analysis runs failed: %w", err)
	}
	defer rows.Close()

	var out []AnalysisRun
	for rows.Next() {
		var run AnalysisRun
		if err := rows.Scan(&run.ID, &run.RunAt, &run.BeforeCapturedAt, &run.AfterCapturedAt,
			&run.TotalLots, &run.ProcessedCount, &run.InProgressCount, &run.SplitLowYieldCount, &run.ProcessingRate); err != nil {
			return nil, fmt.Errorf("scan analysis run failed: %w", err)
		}
		out = append(out, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate analysis runs failed: %w", err)
	}
	return out, nil
}

// CountCaptureEvents 统计采集事件总数
func (s *Store) CountCaptureEvents() (int, error) {
	var count int
	if err := s.db.QueryRow("SELECT COUNT(1) FROM capture_events").Scan(&count); err != nil {
		return 0, fmt.Errorf("count capture events failed: %w", err)
	}
	return count, nil
}
