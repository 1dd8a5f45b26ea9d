package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// 工作簿 sheet 名
const (
	sheetSummary = "Summary"
)

var categorySheetNames = map[Category]string{
	CategoryProcessed:               "Processed",
	CategoryInProgress:              "In Progress",
	CategorySplitLowYield:           "Split Low Yield",
	CategoryInProgressSplitLowYield: "In Progress Split",
}

// WriteWorkbook 生成分析结果工作簿：汇总 sheet + 每类别一个明细 sheet
func WriteWorkbook(tables map[Category]*Table, summary *Summary) (*excelize.File, error) {
	f := excelize.NewFile()

	// 默认 sheet 改名为汇总表
	if err := f.SetSheetName("Sheet1", sheetSummary); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("rename summary sheet: %w", err)
	}
	if err := fillSummarySheet(f, summary, tables); err != nil {
		_ = f.Close()
		return nil, err
	}

	for _, category := range Categories {
		table, ok := tables[category]
		if !ok {
			continue
		}
		if err := fillTableSheet(f, categorySheetNames[category], table); err != nil {
			_ = f.Close()
			return nil, err
		}
	}

	f.SetActiveSheet(0)
	return f, nil
}

func fillSummarySheet(f *excelize.File, summary *Summary, tables map[Category]*Table) error {
	rows := [][]interface{}{
		{"Metric", "Value"},
		{"Total Lots (Start of Shift)", summary.TotalLots},
		{"Processed Regular Lots", summary.ProcessedRegular},
		{"Processed Split Low Yield Lots", summary.ProcessedSplitLowYield},
		{"In Progress Regular Lots", summary.InProgressRegular},
		{"In Progress Split Low Yield Lots", summary.InProgressSplitLowYield},
		{"Processing Rate (%)", fmt.Sprintf("%.1f%%", summary.ProcessingRate)},
		{"Before Captured At", summary.BeforeCapturedAt.Format("2006-01-02 15:04:05")},
		{"After Captured At", summary.AfterCapturedAt.Format("2006-01-02 15:04:05")},
	}
	for _, category := range Categories {
		table, ok := tables[category]
		if !ok {
			continue
		}
		rows = append(rows, []interface{}{
			fmt.Sprintf("QTY Total (%s)", categorySheetNames[category]), QtySum(table),
		})
	}

	for r, row := range rows {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return fmt.Errorf("summary cell name: %w", err)
			}
			if err := f.SetCellValue(sheetSummary, cell, v); err != nil {
				return fmt.Errorf("write summary cell: %w", err)
			}
		}
	}
	return nil
}

func fillTableSheet(f *excelize.File, sheetName string, table *Table) error {
	if _, err := f.NewSheet(sheetName); err != nil {
		return fmt.Errorf("create sheet %s: %w", sheetName, err)
	}

	for c, h := range table.Headers {
		cell, err := excelize.CoordinatesToCellName(c+1, 1)
		if err != nil {
			return fmt.Errorf("header cell name: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return fmt.Errorf("write header cell: %w", err)
		}
	}

	for r, row := range table.Rows {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return fmt.Errorf("data cell name: %w", err)
			}
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return fmt.Errorf("write data cell: %w", err)
			}
		}
	}
	return nil
}
