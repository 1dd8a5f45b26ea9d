package model

import "strings"

// 数据源必需列名（与表格表头逐字符匹配）
const (
	ColumnOTDStatus = "OTD STATUS"
	ColumnComments  = "COMMENTS"

	// DefaultLotColumn 默认批次标识列，可在配置中覆盖
	DefaultLotColumn = "LOT NUMBER"
)

// DisplayColumns 明细表展示列（按展示顺序）
var DisplayColumns = []string{
	"OPERATION", "STEP NAME", "PKG_CODE", "PCKG DESC",
	"DEVC NAME", "DEVC NUMBER", "LOT NUMBER", "OWNER",
	"PQQTY", "QTY", "OTD STATUS", "COMMENTS",
}

// Row 原始表格行，保留列顺序用于导出还原
type Row struct {
	Columns []string          `json:"columns"`
	Cells   map[string]string `json:"cells"`
}

// NewRow 创建原始行
func NewRow(columns []string, cells map[string]string) Row {
	if cells == nil {
		cells = make(map[string]string)
	}
	return Row{Columns: columns, Cells: cells}
}

// Get 获取单元格值，列不存在时返回空串
func (r Row) Get(column string) string {
	return r.Cells[column]
}

// Has 判断列是否存在
func (r Row) Has(column string) bool {
	_, ok := r.Cells[column]
	return ok
}

// LotRecord 单个批次的规范化记录
type LotRecord struct {
	LotID     string `json:"lotId"`
	OTDStatus string `json:"otdStatus"` // 非空表示采集时刻批次处于活跃状态
	Comments  string `json:"comments"`
	Fields    Row    `json:"fields"` // 原始行数据，导出时按原列序还原
}

// OTDPriority OTD 状态展示优先级
// 5 OVERDUE 最高，其次 4 EXPEDITE OVERDUE，再次 3 NEAR DUE，其余最后
func OTDPriority(status string) int {
	s := strings.ToUpper(status)
	switch {
	case strings.Contains(s, "5") || (strings.Contains(s, "OVERDUE") && !strings.Contains(s, "4") && !strings.Contains(s, "3")):
		return 1
	case strings.Contains(s, "4") || strings.Contains(s, "EXPEDITE"):
		return 2
	case strings.Contains(s, "3") || strings.Contains(s, "NEAR DUE"):
		return 3
	default:
		return 4
	}
}
