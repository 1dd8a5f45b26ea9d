package export

import (
	"fmt"
	"sort"

	"lottrack/internal/classifier"
	"lottrack/internal/model"
	"lottrack/internal/snapshot"
)

// Category 导出表类别
type Category string

const (
	CategoryProcessed               Category = "processed"
	CategoryInProgress              Category = "in_progress"
	CategorySplitLowYield           Category = "split_low_yield"
	CategoryInProgressSplitLowYield Category = "in_progress_split_low_yield"
)

// Categories 全部类别（固定顺序）
var Categories = []Category{
	CategoryProcessed,
	CategoryInProgress,
	CategorySplitLowYield,
	CategoryInProgressSplitLowYield,
}

// Table 可直接用于表格展示或 CSV 序列化的结构
//
// Headers 为源数据所有列名的并集，按首次出现顺序；
// Rows 与 Headers 对齐，缺失字段渲染为空单元格；
// 行按批次号字典序升序，保证输出可对比
type Table struct {
	Category Category   `json:"category"`
	Headers  []string   `json:"headers"`
	Rows     [][]string `json:"rows"`
	LotIDs   []string   `json:"lotIds"` // 与 Rows 同序
}

// BuildTable 从快照还原一个类别的明细表
// 批次号无法在快照中解析视为内部一致性错误
func BuildTable(category Category, ids map[string]struct{}, source *snapshot.Snapshot) (*Table, error) {
	sorted := classifier.SortedIDs(ids)

	// 列并集，按首次出现顺序
	var headers []string
	seen := make(map[string]bool)
	for _, id := range sorted {
		record, ok := source.Records[id]
		if !ok {
			return nil, fmt.Errorf("internal inconsistency: lot %s not found in %s snapshot", id, source.Name)
		}
		for _, col := range record.Fields.Columns {
			if !seen[col] {
				seen[col] = true
				headers = append(headers, col)
			}
		}
	}

	rows := make([][]string, 0, len(sorted))
	for _, id := range sorted {
		record := source.Records[id]
		row := make([]string, len(headers))
		for i, col := range headers {
			row[i] = record.Fields.Get(col)
		}
		rows = append(rows, row)
	}

	return &Table{
		Category: category,
		Headers:  headers,
		Rows:     rows,
		LotIDs:   sorted,
	}, nil
}

// BuildTables 构建全部类别的明细表
//
// processed / split_low_yield 取 before 快照的记录；
// in_progress 取 after 快照的记录（反映更接近当前的状态）
func BuildTables(result *classifier.Result, before, after *snapshot.Snapshot) (map[Category]*Table, error) {
	specs := []struct {
		category Category
		ids      map[string]struct{}
		source   *snapshot.Snapshot
	}{
		{CategoryProcessed, result.Processed, before},
		{CategoryInProgress, result.InProgress, after},
		{CategorySplitLowYield, result.SplitLowYield, before},
		{CategoryInProgressSplitLowYield, result.InProgressSplitLowYield, after},
	}

	tables := make(map[Category]*Table, len(specs))
	for _, spec := range specs {
		table, err := BuildTable(spec.category, spec.ids, spec.source)
		if err != nil {
			return nil, err
		}
		tables[spec.category] = table
	}
	return tables, nil
}

// FilterDisplayColumns 过滤为展示列子集（保持展示列顺序）
// 源数据不含任何展示列时返回原表
func (t *Table) FilterDisplayColumns() *Table {
	index := make(map[string]int, len(t.Headers))
	for i, h := range t.Headers {
		index[h] = i
	}

	var keep []string
	var keepIdx []int
	for _, col := range model.DisplayColumns {
		if i, ok := index[col]; ok {
			keep = append(keep, col)
			keepIdx = append(keepIdx, i)
		}
	}
	if len(keep) == 0 {
		return t
	}

	rows := make([][]string, len(t.Rows))
	for r, src := range t.Rows {
		row := make([]string, len(keepIdx))
		for i, srcIdx := range keepIdx {
			row[i] = src[srcIdx]
		}
		rows[r] = row
	}

	return &Table{
		Category: t.Category,
		Headers:  keep,
		Rows:     rows,
		LotIDs:   append([]string(nil), t.LotIDs...),
	}
}

// SortByOTDPriority 按 OTD 状态优先级重排行（同优先级保持批次号升序）
// 仅用于页面展示；导出文件保持批次号升序
func (t *Table) SortByOTDPriority() *Table {
	otdIdx := -1
	for i, h := range t.Headers {
		if h == model.ColumnOTDStatus {
			otdIdx = i
			break
		}
	}
	if otdIdx < 0 {
		return t
	}

	order := make([]int, len(t.Rows))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return model.OTDPriority(t.Rows[order[a]][otdIdx]) < model.OTDPriority(t.Rows[order[b]][otdIdx])
	})

	rows := make([][]string, len(t.Rows))
	ids := make([]string, len(t.LotIDs))
	for i, src := range order {
		rows[i] = t.Rows[src]
		ids[i] = t.LotIDs[src]
	}

	return &Table{
		Category: t.Category,
		Headers:  append([]string(nil), t.Headers...),
		Rows:     rows,
		LotIDs:   ids,
	}
}
