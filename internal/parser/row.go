package parser

import (
	"fmt"
	"strings"

	"lottrack/internal/model"
)

// MissingColumnError 行缺少必需的批次标识列（或该列为空）
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("row is missing required column: %s", e.Column)
}

// ParseRow 解析单行为批次记录
// OTD STATUS / COMMENTS 缺失时按空串处理，不视为错误
func ParseRow(row model.Row, lotColumn string) (model.LotRecord, error) {
	lotID := strings.TrimSpace(row.Get(lotColumn))
	if lotID == "" {
		return model.LotRecord{}, &MissingColumnError{Column: lotColumn}
	}

	return model.LotRecord{
		LotID:     lotID,
		OTDStatus: row.Get(model.ColumnOTDStatus),
		Comments:  row.Get(model.ColumnComments),
		Fields:    row,
	}, nil
}

// CaptureReport 单次采集的行处理统计
type CaptureReport struct {
	TotalRows         int `json:"totalRows"`         // 原始行数
	ActiveLots        int `json:"activeLots"`        // 进入快照的活跃批次数
	SkippedMissingLot int `json:"skippedMissingLot"` // 缺少批次标识而跳过的行数
	SkippedInactive   int `json:"skippedInactive"`   // OTD 状态为空而跳过的行数
	DuplicateLots     int `json:"duplicateLots"`     // 同一批次号重复出现的行数
}

// BuildRecords 将原始行集合构建为批次映射
//
// 规则：
//   - OTD STATUS 为空的行在采集时即被过滤，不进入快照
//   - 缺少批次标识列的行跳过并计数，不中断整批采集
//   - 同一批次号出现多次时后写覆盖
func BuildRecords(rows []model.Row, lotColumn string) (map[string]model.LotRecord, CaptureReport) {
	records := make(map[string]model.LotRecord, len(rows))
	report := CaptureReport{TotalRows: len(rows)}

	for _, row := range rows {
		record, err := ParseRow(row, lotColumn)
		if err != nil {
			report.SkippedMissingLot++
			continue
		}

		// 活跃批次过滤：OTD 状态非空
		if record.OTDStatus == "" {
			report.SkippedInactive++
			continue
		}

		if _, exists := records[record.LotID]; exists {
			report.DuplicateLots++
		}
		records[record.LotID] = record
	}

	report.ActiveLots = len(records)
	return records, report
}
