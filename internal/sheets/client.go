package sheets

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strconv"

	gsheets "google.golang.org/api/sheets/v4"
	"google.golang.org/api/option"

	"lottrack/internal/model"
)

// FetchError 远端表格访问失败
type FetchError struct {
	Ref string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch sheet %s: %v", e.Ref, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// SheetRef 一张远端表格的定位信息
type SheetRef struct {
	SpreadsheetID string   `json:"spreadsheetId"`
	Worksheets    []string `json:"worksheets"` // 候选工作表名，按顺序尝试，全部未命中时取第一张
}

var spreadsheetURLRe = regexp.MustCompile(`/spreadsheets/d/([a-zA-Z0-9\-_]+)`)

// SpreadsheetIDFromURL 从分享链接中提取文档 ID
func SpreadsheetIDFromURL(rawURL string) (string, error) {
	matches := spreadsheetURLRe.FindStringSubmatch(rawURL)
	if len(matches) < 2 {
		return "", fmt.Errorf("invalid spreadsheet url: %s", rawURL)
	}
	return matches[1], nil
}

// RefFromURL 从分享链接构建表格定位
func RefFromURL(rawURL string, worksheets []string) (SheetRef, error) {
	id, err := SpreadsheetIDFromURL(rawURL)
	if err != nil {
		return SheetRef{}, err
	}
	return SheetRef{SpreadsheetID: id, Worksheets: worksheets}, nil
}

// Client Google Sheets API 客户端，使用服务账号凭证
type Client struct {
	svc *gsheets.Service
}

// NewClient 创建客户端
// 凭证文件不存在时直接报错，便于在启动阶段暴露配置问题
func NewClient(ctx context.Context, credentialsFile string) (*Client, error) {
	if _, err := os.Stat(credentialsFile); os.IsNotExist(err) {
		return nil, fmt.Errorf("service account key not found at path: %s", credentialsFile)
	}

	svc, err := gsheets.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(gsheets.SpreadsheetsScope, gsheets.DriveScope),
	)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &Client{svc: svc}, nil
}

// FetchRows 拉取表格行：首行为表头，其余为数据行
func (c *Client) FetchRows(ctx context.Context, ref SheetRef) ([]model.Row, error) {
	title, err := c.resolveWorksheet(ctx, ref)
	if err != nil {
		return nil, &FetchError{Ref: ref.SpreadsheetID, Err: err}
	}

	resp, err := c.svc.Spreadsheets.Values.Get(ref.SpreadsheetID, fmt.Sprintf("'%s'", title)).
		Context(ctx).Do()
	if err != nil {
		return nil, &FetchError{Ref: ref.SpreadsheetID, Err: err}
	}

	return RowsFromValues(resp.Values), nil
}

// AppendRows 向表格末尾追加行
func (c *Client) AppendRows(ctx context.Context, ref SheetRef, values [][]interface{}) error {
	if len(values) == 0 {
		return nil
	}

	title, err := c.resolveWorksheet(ctx, ref)
	if err != nil {
		return &FetchError{Ref: ref.SpreadsheetID, Err: err}
	}

	_, err = c.svc.Spreadsheets.Values.Append(ref.SpreadsheetID, fmt.Sprintf("'%s'", title), &gsheets.ValueRange{
		Values: values,
	}).ValueInputOption("RAW").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	if err != nil {
		return &FetchError{Ref: ref.SpreadsheetID, Err: err}
	}
	return nil
}

// resolveWorksheet 按候选名顺序解析工作表，全部未命中时回退到第一张
func (c *Client) resolveWorksheet(ctx context.Context, ref SheetRef) (string, error) {
	meta, err := c.svc.Spreadsheets.Get(ref.SpreadsheetID).
		Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("get spreadsheet metadata: %w", err)
	}
	if len(meta.Sheets) == 0 {
		return "", fmt.Errorf("spreadsheet has no worksheets")
	}

	existing := make(map[string]bool, len(meta.Sheets))
	for _, sh := range meta.Sheets {
		if sh.Properties != nil {
			existing[sh.Properties.Title] = true
		}
	}

	for _, candidate := range ref.Worksheets {
		if existing[candidate] {
			return candidate, nil
		}
	}
	return meta.Sheets[0].Properties.Title, nil
}

// RowsFromValues 将 API 返回的值矩阵转换为原始行
// 首行作为表头，空表头列跳过；短行按空单元格补齐
func RowsFromValues(values [][]interface{}) []model.Row {
	if len(values) == 0 {
		return nil
	}

	header := values[0]
	columns := make([]string, 0, len(header))
	colIdx := make([]int, 0, len(header))
	for i, h := range header {
		name := formatCell(h)
		if name == "" {
			continue
		}
		columns = append(columns, name)
		colIdx = append(colIdx, i)
	}

	rows := make([]model.Row, 0, len(values)-1)
	for _, raw := range values[1:] {
		cells := make(map[string]string, len(columns))
		for j, col := range columns {
			idx := colIdx[j]
			if idx < len(raw) {
				cells[col] = formatCell(raw[idx])
			} else {
				cells[col] = ""
			}
		}
		rows = append(rows, model.NewRow(append([]string(nil), columns...), cells))
	}
	return rows
}

// formatCell 单元格值转字符串
func formatCell(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}
