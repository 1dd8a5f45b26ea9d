package tracker

import (
	"context"
	"reflect"
	"testing"

	"lottrack/internal/model"
	"lottrack/internal/sheets"
)

// fakeSheet 测试用内存表格
type fakeSheet struct {
	rows     []model.Row
	appended [][]interface{}
	fetchErr error
}

func (f *fakeSheet) FetchRows(_ context.Context, _ sheets.SheetRef) ([]model.Row, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.rows, nil
}

func (f *fakeSheet) AppendRows(_ context.Context, _ sheets.SheetRef, values [][]interface{}) error {
	f.appended = append(f.appended, values...)
	return nil
}

func memberRow(name, shift string) model.Row {
	return model.NewRow(
		[]string{"Name", "Shift"},
		map[string]string{"Name": name, "Shift": shift},
	)
}

func TestLoadMembers_HeaderVariants(t *testing.T) {
	t.Parallel()

	sheet := &fakeSheet{rows: []model.Row{
		model.NewRow([]string{"member_name", "shift"}, map[string]string{"member_name": "alice", "shift": "A"}),
		model.NewRow([]string{"Member Name"}, map[string]string{"Member Name": "bob"}),
		model.NewRow([]string{"Name"}, map[string]string{"Name": ""}), // 名字为空的行跳过
	}}

	tracker := NewAttendanceTracker(sheet, nil, sheets.SheetRef{}, sheets.SheetRef{}, 3)
	members, err := tracker.LoadMembers(context.Background())
	if err != nil {
		t.Fatalf("load members: %v", err)
	}
	if len(members) != 2 {
		t.Fatalf("members = %d, want 2", len(members))
	}
	if members[0].Name != "alice" || members[0].Shift != "A" {
		t.Fatalf("unexpected member: %+v", members[0])
	}
}

func TestMembersForShift(t *testing.T) {
	t.Parallel()

	members := []model.TeamMember{
		{Name: "alice", Shift: "A"},
		{Name: "bob", Shift: "Shift A"}, // 带前缀的班次值归一化后等价
		{Name: "carol", Shift: "B"},
		{Name: "dave", Shift: "ALL"}, // 通配班次属于所有班次
		{Name: "erin", Shift: ""},    // 空班次属于所有班次
	}

	got := MembersForShift(members, "Shift A")
	want := []string{"alice", "bob", "dave", "erin"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("shift A members = %v, want %v", got, want)
	}

	got = MembersForShift(members, "B")
	want = []string{"carol", "dave", "erin"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("shift B members = %v, want %v", got, want)
	}
}

func TestValidateAbsence(t *testing.T) {
	t.Parallel()

	tracker := NewAttendanceTracker(nil, nil, sheets.SheetRef{}, sheets.SheetRef{}, 3)

	if err := tracker.ValidateAbsence(2, []string{"bob"}); err != nil {
		t.Fatalf("valid case: %v", err)
	}
	if err := tracker.ValidateAbsence(3, nil); err != nil {
		t.Fatalf("full attendance: %v", err)
	}
	if err := tracker.ValidateAbsence(2, nil); err == nil {
		t.Fatalf("expected error: absent count mismatch")
	}
	if err := tracker.ValidateAbsence(4, nil); err == nil {
		t.Fatalf("expected error: present count out of range")
	}
	if err := tracker.ValidateAbsence(-1, nil); err == nil {
		t.Fatalf("expected error: negative present count")
	}
}

func TestRecord_AppendsOneRowPerMember(t *testing.T) {
	t.Parallel()

	sheet := &fakeSheet{}
	tracker := NewAttendanceTracker(sheet, nil, sheets.SheetRef{}, sheets.SheetRef{}, 3)

	err := tracker.Record(context.Background(), "Shift A",
		[]string{"alice", "carol"}, []string{"bob"}, "2026-08-29")
	if err != nil {
		t.Fatalf("record: %v", err)
	}

	// 按姓名升序逐人一行
	want := [][]interface{}{
		{"2026-08-29", "alice", "Shift A", model.StatusPresent},
		{"2026-08-29", "bob", "Shift A", model.StatusAbsent},
		{"2026-08-29", "carol", "Shift A", model.StatusPresent},
	}
	if !reflect.DeepEqual(sheet.appended, want) {
		t.Fatalf("appended = %v, want %v", sheet.appended, want)
	}
}

func TestRecord_DeduplicatesMembers(t *testing.T) {
	t.Parallel()

	sheet := &fakeSheet{}
	tracker := NewAttendanceTracker(sheet, nil, sheets.SheetRef{}, sheets.SheetRef{}, 3)

	// 同名成员同时出现在到岗与缺勤名单时只记一行，缺勤优先
	err := tracker.Record(context.Background(), "A",
		[]string{"alice", "alice"}, []string{"alice"}, "2026-08-29")
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if len(sheet.appended) != 1 {
		t.Fatalf("appended = %d rows, want 1", len(sheet.appended))
	}
	if sheet.appended[0][3] != model.StatusAbsent {
		t.Fatalf("status = %v, want absent", sheet.appended[0][3])
	}
}

func TestRecord_NoMembers(t *testing.T) {
	t.Parallel()

	tracker := NewAttendanceTracker(&fakeSheet{}, nil, sheets.SheetRef{}, sheets.SheetRef{}, 3)
	if err := tracker.Record(context.Background(), "A", nil, nil, "2026-08-29"); err == nil {
		t.Fatalf("expected error for empty member list")
	}
}
