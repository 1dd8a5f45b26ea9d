package tracker

import (
	"context"
	"fmt"
	"log"
	"strings"

	"lottrack/internal/model"
	"lottrack/internal/sheets"
	"lottrack/internal/store"
)

// DetapeTracker detape 监控记录
type DetapeTracker struct {
	appender RowAppender
	journal  *store.Store
	ref      sheets.SheetRef
}

// NewDetapeTracker 创建 detape 跟踪器
func NewDetapeTracker(appender RowAppender, journal *store.Store, ref sheets.SheetRef) *DetapeTracker {
	return &DetapeTracker{appender: appender, journal: journal, ref: ref}
}

// Record 记录 detape：每个封装码追加一行 [日期, 1, 封装码]
// 任一封装码为空视为输入错误
func (t *DetapeTracker) Record(ctx context.Context, date string, packageCodes []string) error {
	if len(packageCodes) == 0 {
		return nil
	}

	entries := make([]model.DetapeEntry, 0, len(packageCodes))
	values := make([][]interface{}, 0, len(packageCodes))
	for i, code := range packageCodes {
		code = strings.TrimSpace(code)
		if code == "" {
			return fmt.Errorf("package code %d is empty", i+1)
		}
		entries = append(entries, model.DetapeEntry{Date: date, Quantity: 1, PackageCode: code})
		values = append(values, []interface{}{date, 1, code})
	}

	if err := t.appender.AppendRows(ctx, t.ref, values); err != nil {
		return fmt.Errorf("record detape: %w", err)
	}

	if t.journal != nil {
		if err := t.journal.BatchInsertDetape(entries); err != nil {
			log.Printf("写入本地 detape 流水失败: %v", err)
		}
	}
	return nil
}
