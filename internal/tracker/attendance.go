package tracker

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"

	"lottrack/internal/model"
	"lottrack/internal/sheets"
	"lottrack/internal/store"
)

// RowFetcher 表格行读取接口
type RowFetcher interface {
	FetchRows(ctx context.Context, ref sheets.SheetRef) ([]model.Row, error)
}

// RowAppender 表格行追加接口
type RowAppender interface {
	AppendRows(ctx context.Context, ref sheets.SheetRef, values [][]interface{}) error
}

// SheetAccess 出勤/detape 跟踪所需的表格访问能力
type SheetAccess interface {
	RowFetcher
	RowAppender
}

// 成员表可能使用的表头变体
var (
	memberNameColumns  = []string{"Name", "name", "Member Name", "member_name"}
	memberShiftColumns = []string{"Shift", "shift", "SHIFT"}
)

// AttendanceTracker 班前出勤跟踪
type AttendanceTracker struct {
	access        SheetAccess
	journal       *store.Store
	membersRef    sheets.SheetRef
	attendanceRef sheets.SheetRef
	teamSize      int
}

// NewAttendanceTracker 创建出勤跟踪器
func NewAttendanceTracker(access SheetAccess, journal *store.Store, membersRef, attendanceRef sheets.SheetRef, teamSize int) *AttendanceTracker {
	return &AttendanceTracker{
		access:        access,
		journal:       journal,
		membersRef:    membersRef,
		attendanceRef: attendanceRef,
		teamSize:      teamSize,
	}
}

// TeamSize 满员人数
func (t *AttendanceTracker) TeamSize() int {
	return t.teamSize
}

// LoadMembers 从成员表加载班组成员
func (t *AttendanceTracker) LoadMembers(ctx context.Context) ([]model.TeamMember, error) {
	rows, err := t.access.FetchRows(ctx, t.membersRef)
	if err != nil {
		return nil, fmt.Errorf("load team members: %w", err)
	}

	var members []model.TeamMember
	for _, row := range rows {
		name := firstNonEmpty(row, memberNameColumns)
		if name == "" {
			continue
		}
		members = append(members, model.TeamMember{
			Name:  name,
			Shift: firstNonEmpty(row, memberShiftColumns),
		})
	}
	return members, nil
}

// MembersForShift 过滤某班次的成员名单
// 成员班次值可为 "A" / "Shift A" / "ALL"，空值表示属于所有班次
func MembersForShift(members []model.TeamMember, shift string) []string {
	want := normalizeShift(shift)

	var names []string
	for _, m := range members {
		ms := normalizeShift(m.Shift)
		if ms == "" || ms == want || strings.ToUpper(ms) == model.ShiftAll {
			names = append(names, m.Name)
		}
	}
	return names
}

// ValidateAbsence 校验缺勤人数与到岗人数一致
func (t *AttendanceTracker) ValidateAbsence(numPresent int, absent []string) error {
	if numPresent < 0 || numPresent > t.teamSize {
		return fmt.Errorf("present count %d out of range 0-%d", numPresent, t.teamSize)
	}
	expected := t.teamSize - numPresent
	if len(absent) != expected {
		return fmt.Errorf("expected %d absent member(s), got %d", expected, len(absent))
	}
	return nil
}

// Record 记录出勤：present/absent 去重合并后逐人一行追加到出勤表，并写入本地流水
func (t *AttendanceTracker) Record(ctx context.Context, shift string, present, absent []string, date string) error {
	absentSet := make(map[string]bool, len(absent))
	for _, m := range absent {
		absentSet[m] = true
	}

	all := make(map[string]bool, len(present)+len(absent))
	for _, m := range append(append([]string(nil), present...), absent...) {
		if m != "" {
			all[m] = true
		}
	}
	if len(all) == 0 {
		return fmt.Errorf("no members to record")
	}

	names := make([]string, 0, len(all))
	for m := range all {
		names = append(names, m)
	}
	sort.Strings(names)

	entries := make([]model.AttendanceEntry, 0, len(names))
	values := make([][]interface{}, 0, len(names))
	for _, m := range names {
		status := model.StatusPresent
		if absentSet[m] {
			status = model.StatusAbsent
		}
		entries = append(entries, model.AttendanceEntry{Date: date, Member: m, Shift: shift, Status: status})
		values = append(values, []interface{}{date, m, shift, status})
	}

	if err := t.access.AppendRows(ctx, t.attendanceRef, values); err != nil {
		return fmt.Errorf("record attendance: %w", err)
	}

	// 本地流水失败不影响本次记录结果
	if t.journal != nil {
		if err := t.journal.BatchInsertAttendance(entries); err != nil {
			log.Printf("写入本地出勤流水失败: %v", err)
		}
	}
	return nil
}

func firstNonEmpty(row model.Row, columns []string) string {
	for _, col := range columns {
		if v := strings.TrimSpace(row.Get(col)); v != "" {
			return v
		}
	}
	return ""
}

// normalizeShift 班次值归一化："Shift A" -> "A"
func normalizeShift(shift string) string {
	return strings.TrimSpace(strings.ReplaceAll(shift, "Shift ", ""))
}
