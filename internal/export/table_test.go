package export

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"lottrack/internal/classifier"
	"lottrack/internal/model"
	"lottrack/internal/snapshot"
)

func captureSnapshot(t *testing.T, name snapshot.Name, rows []model.Row) *snapshot.Snapshot {
	t.Helper()

	s := snapshot.NewStore()
	if name == snapshot.After {
		if _, err := s.Capture(snapshot.Before, nil, "LOT NUMBER"); err != nil {
			t.Fatalf("capture before: %v", err)
		}
	}
	snap, err := s.Capture(name, rows, "LOT NUMBER")
	if err != nil {
		t.Fatalf("capture %s: %v", name, err)
	}
	return snap
}

func orderedRow(columns []string, values []string) model.Row {
	cells := make(map[string]string, len(columns))
	for i, col := range columns {
		cells[col] = values[i]
	}
	return model.NewRow(columns, cells)
}

func TestBuildTable_HeaderUnionFirstSeenOrder(t *testing.T) {
	t.Parallel()

	snap := captureSnapshot(t, snapshot.Before, []model.Row{
		orderedRow(
			[]string{"LOT NUMBER", "OTD STATUS", "QTY"},
			[]string{"LOT001", "OVERDUE", "100"},
		),
		orderedRow(
			[]string{"LOT NUMBER", "OTD STATUS", "OWNER"},
			[]string{"LOT002", "EXPEDITE", "alice"},
		),
	})

	table, err := BuildTable(CategoryProcessed, map[string]struct{}{"LOT001": {}, "LOT002": {}}, snap)
	if err != nil {
		t.Fatalf("build table: %v", err)
	}

	wantHeaders := []string{"LOT NUMBER", "OTD STATUS", "QTY", "OWNER"}
	if !reflect.DeepEqual(table.Headers, wantHeaders) {
		t.Fatalf("headers = %v, want %v", table.Headers, wantHeaders)
	}

	// 缺失字段渲染为空单元格，行按批次号升序
	wantRows := [][]string{
		{"LOT001", "OVERDUE", "100", ""},
		{"LOT002", "EXPEDITE", "", "alice"},
	}
	if !reflect.DeepEqual(table.Rows, wantRows) {
		t.Fatalf("rows = %v, want %v", table.Rows, wantRows)
	}
	if !reflect.DeepEqual(table.LotIDs, []string{"LOT001", "LOT002"}) {
		t.Fatalf("lot ids = %v", table.LotIDs)
	}
}

func TestBuildTable_UnknownLotIsError(t *testing.T) {
	t.Parallel()

	snap := captureSnapshot(t, snapshot.Before, nil)
	_, err := BuildTable(CategoryProcessed, map[string]struct{}{"LOTX": {}}, snap)
	if err == nil || !strings.Contains(err.Error(), "internal inconsistency") {
		t.Fatalf("err = %v, want internal inconsistency", err)
	}
}

func TestBuildTables_SourceSnapshots(t *testing.T) {
	t.Parallel()

	columns := []string{"LOT NUMBER", "OTD STATUS", "COMMENTS", "OWNER"}
	before := captureSnapshot(t, snapshot.Before, []model.Row{
		orderedRow(columns, []string{"LOT001", "OVERDUE", "", "before-owner"}),
		orderedRow(columns, []string{"LOT002", "OVERDUE", "", "before-owner"}),
	})
	after := captureSnapshot(t, snapshot.After, []model.Row{
		orderedRow(columns, []string{"LOT002", "OVERDUE", "", "after-owner"}),
	})

	result, err := classifier.Classify(before, after)
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	tables, err := BuildTables(result, before, after)
	if err != nil {
		t.Fatalf("build tables: %v", err)
	}

	if len(tables) != len(Categories) {
		t.Fatalf("tables = %d, want %d", len(tables), len(Categories))
	}
	// processed 取班前记录，in_progress 取班后记录
	if got := tables[CategoryProcessed].Rows[0][3]; got != "before-owner" {
		t.Fatalf("processed owner = %q, want before-owner", got)
	}
	if got := tables[CategoryInProgress].Rows[0][3]; got != "after-owner" {
		t.Fatalf("in progress owner = %q, want after-owner", got)
	}
}

func TestFilterDisplayColumns(t *testing.T) {
	t.Parallel()

	table := &Table{
		Category: CategoryProcessed,
		Headers:  []string{"EXTRA", "QTY", "LOT NUMBER", "OTD STATUS"},
		Rows: [][]string{
			{"x", "10", "LOT001", "OVERDUE"},
		},
		LotIDs: []string{"LOT001"},
	}

	filtered := table.FilterDisplayColumns()
	want := []string{"LOT NUMBER", "QTY", "OTD STATUS"}
	if !reflect.DeepEqual(filtered.Headers, want) {
		t.Fatalf("headers = %v, want %v", filtered.Headers, want)
	}
	if !reflect.DeepEqual(filtered.Rows[0], []string{"LOT001", "10", "OVERDUE"}) {
		t.Fatalf("row = %v", filtered.Rows[0])
	}
}

func TestFilterDisplayColumns_NoDisplayColumnsKeepsOriginal(t *testing.T) {
	t.Parallel()

	table := &Table{Headers: []string{"FOO", "BAR"}, Rows: [][]string{{"1", "2"}}}
	if got := table.FilterDisplayColumns(); !reflect.DeepEqual(got.Headers, table.Headers) {
		t.Fatalf("headers = %v, want original", got.Headers)
	}
}

func TestSortByOTDPriority(t *testing.T) {
	t.Parallel()

	table := &Table{
		Headers: []string{"LOT NUMBER", "OTD STATUS"},
		Rows: [][]string{
			{"LOT001", "on track"},
			{"LOT002", "3 NEAR DUE"},
			{"LOT003", "5 OVERDUE"},
			{"LOT004", "4 EXPEDITE OVERDUE"},
		},
		LotIDs: []string{"LOT001", "LOT002", "LOT003", "LOT004"},
	}

	sorted := table.SortByOTDPriority()
	want := []string{"LOT003", "LOT004", "LOT002", "LOT001"}
	if !reflect.DeepEqual(sorted.LotIDs, want) {
		t.Fatalf("order = %v, want %v", sorted.LotIDs, want)
	}
	// 原表保持批次号升序不变
	if table.LotIDs[0] != "LOT001" {
		t.Fatalf("original table mutated: %v", table.LotIDs)
	}
}

func TestWriteCSV(t *testing.T) {
	t.Parallel()

	table := &Table{
		Headers: []string{"LOT NUMBER", "COMMENTS"},
		Rows: [][]string{
			{"LOT001", `note with "quote", and comma`},
			{"LOT002", ""},
		},
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, table); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	want := "LOT NUMBER,COMMENTS\n" +
		"LOT001,\"note with \"\"quote\"\", and comma\"\n" +
		"LOT002,\n"
	if buf.String() != want {
		t.Fatalf("csv = %q, want %q", buf.String(), want)
	}
}
