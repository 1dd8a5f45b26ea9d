package export

import (
	"strconv"
	"strings"
	"time"

	"lottrack/internal/classifier"
	"lottrack/internal/snapshot"
)

// QtyColumn 数量列名
const QtyColumn = "QTY"

// Summary 一次分析的汇总统计
type Summary struct {
	TotalLots               int     `json:"totalLots"` // 班前快照中的活跃批次总数
	ProcessedCount          int     `json:"processedCount"`
	ProcessedRegular        int     `json:"processedRegular"`
	ProcessedSplitLowYield  int     `json:"processedSplitLowYield"`
	InProgressCount         int     `json:"inProgressCount"`
	InProgressRegular       int     `json:"inProgressRegular"`
	InProgressSplitLowYield int     `json:"inProgressSplitLowYield"`
	ProcessingRate          float64 `json:"processingRate"` // 百分比，总数为 0 时为 0

	BeforeCapturedAt time.Time `json:"beforeCapturedAt"`
	AfterCapturedAt  time.Time `json:"afterCapturedAt"`
}

// BuildSummary 从分类结果计算汇总统计
func BuildSummary(result *classifier.Result, before, after *snapshot.Snapshot) *Summary {
	s := &Summary{
		TotalLots:               len(before.Records),
		ProcessedCount:          len(result.Processed),
		ProcessedSplitLowYield:  len(result.SplitLowYield),
		InProgressCount:         len(result.InProgress),
		InProgressSplitLowYield: len(result.InProgressSplitLowYield),
		BeforeCapturedAt:        before.CapturedAt,
		AfterCapturedAt:         after.CapturedAt,
	}
	s.ProcessedRegular = s.ProcessedCount - s.ProcessedSplitLowYield
	s.InProgressRegular = s.InProgressCount - s.InProgressSplitLowYield

	if s.TotalLots > 0 {
		s.ProcessingRate = float64(s.ProcessedCount) / float64(s.TotalLots) * 100
	}
	return s
}

// QtySum 宽松求和 QTY 列：无法解析为数值的单元格跳过
func QtySum(t *Table) float64 {
	qtyIdx := -1
	for i, h := range t.Headers {
		if h == QtyColumn {
			qtyIdx = i
			break
		}
	}
	if qtyIdx < 0 {
		return 0
	}

	var sum float64
	for _, row := range t.Rows {
		cell := strings.ReplaceAll(strings.TrimSpace(row[qtyIdx]), ",", "")
		if cell == "" {
			continue
		}
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			continue
		}
		sum += v
	}
	return sum
}
