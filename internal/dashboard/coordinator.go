package dashboard

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"lottrack/internal/classifier"
	"lottrack/internal/export"
	"lottrack/internal/model"
	"lottrack/internal/sheets"
	"lottrack/internal/snapshot"
	"lottrack/internal/store"
)

// RowFetcher 批次表行读取接口
type RowFetcher interface {
	FetchRows(ctx context.Context, ref sheets.SheetRef) ([]model.Row, error)
}

// AnalysisResult 一次分析的完整产物，导出不依赖快照继续存活
type AnalysisResult struct {
	RunID   string
	RunAt   time.Time
	Result  *classifier.Result
	Tables  map[export.Category]*export.Table
	Summary *export.Summary
}

// Coordinator 会话级调度器：采集、分析、重置均同步完成于触发请求内
type Coordinator struct {
	fetcher   RowFetcher
	snapshots *snapshot.Store
	journal   *store.Store
	lotRef    sheets.SheetRef
	lotColumn string

	mu   sync.Mutex
	last *AnalysisResult
}

// NewCoordinator 创建调度器
func NewCoordinator(fetcher RowFetcher, journal *store.Store, lotRef sheets.SheetRef, lotColumn string) *Coordinator {
	if lotColumn == "" {
		lotColumn = model.DefaultLotColumn
	}
	return &Coordinator{
		fetcher:   fetcher,
		snapshots: snapshot.NewStore(),
		journal:   journal,
		lotRef:    lotRef,
		lotColumn: lotColumn,
	}
}

// CaptureBefore 采集班前快照
// 重新采集班前快照会使已有的分析结果失效
func (c *Coordinator) CaptureBefore(ctx context.Context) (*snapshot.Snapshot, error) {
	snap, err := c.capture(ctx, snapshot.Before)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.last = nil
	c.mu.Unlock()
	return snap, nil
}

// CaptureAfter 采集班后快照并立即运行分析
func (c *Coordinator) CaptureAfter(ctx context.Context) (*snapshot.Snapshot, *AnalysisResult, error) {
	snap, err := c.capture(ctx, snapshot.After)
	if err != nil {
		return nil, nil, err
	}

	result, err := c.Analyze()
	if err != nil {
		return snap, nil, err
	}
	return snap, result, nil
}

func (c *Coordinator) capture(ctx context.Context, name snapshot.Name) (*snapshot.Snapshot, error) {
	rows, err := c.fetcher.FetchRows(ctx, c.lotRef)
	if err != nil {
		return nil, err
	}

	snap, err := c.snapshots.Capture(name, rows, c.lotColumn)
	if err != nil {
		return nil, err
	}

	// 流水失败不影响采集结果
	if c.journal != nil {
		if err := c.journal.InsertCaptureEvent(string(name), snap.CapturedAt, snap.Report, c.lotRef.SpreadsheetID); err != nil {
			log.Printf("写入采集流水失败: %v", err)
		}
	}
	return snap, nil
}

// Analyze 基于当前两份快照运行分类分析
// 对同一对快照重复调用产生相同的分类集合
func (c *Coordinator) Analyze() (*AnalysisResult, error) {
	before, after, err := c.snapshots.Pair()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", classifier.ErrIncompleteSnapshot, err)
	}

	result, err := classifier.Classify(before, after)
	if err != nil {
		return nil, err
	}

	tables, err := export.BuildTables(result, before, after)
	if err != nil {
		return nil, err
	}
	summary := export.BuildSummary(result, before, after)

	analysis := &AnalysisResult{
		RunID:   uuid.NewString(),
		RunAt:   time.Now(),
		Result:  result,
		Tables:  tables,
		Summary: summary,
	}

	if c.journal != nil {
		err := c.journal.InsertAnalysisRun(store.AnalysisRun{
			ID:                 analysis.RunID,
			RunAt:              analysis.RunAt,
			BeforeCapturedAt:   summary.BeforeCapturedAt,
			AfterCapturedAt:    summary.AfterCapturedAt,
			TotalLots:          summary.TotalLots,
			ProcessedCount:     summary.ProcessedCount,
			InProgressCount:    summary.InProgressCount,
			SplitLowYieldCount: summary.ProcessedSplitLowYield,
			ProcessingRate:     summary.ProcessingRate,
		})
		if err != nil {
			log.Printf("写入分析流水失败: %v", err)
		}
	}

	c.mu.Lock()
	c.last = analysis
	c.mu.Unlock()
	return analysis, nil
}

// Reset 清空快照与分析结果，重新开始一个班次周期
func (c *Coordinator) Reset() {
	c.snapshots.Reset()

	c.mu.Lock()
	c.last = nil
	c.mu.Unlock()
}

// State 快照存储当前状态
func (c *Coordinator) State() snapshot.State {
	return c.snapshots.State()
}

// Snapshot 读取指定快照
func (c *Coordinator) Snapshot(name snapshot.Name) (*snapshot.Snapshot, error) {
	return c.snapshots.Get(name)
}

// LastAnalysis 最近一次分析结果
func (c *Coordinator) LastAnalysis() (*AnalysisResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last, c.last != nil
}
