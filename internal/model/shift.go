package model

// 出勤状态
const (
	StatusPresent = "Present"
	StatusAbsent  = "Absent"
)

// ShiftAll 成员表中表示不限班次的通配值
const ShiftAll = "ALL"

// TeamMember 班组成员
type TeamMember struct {
	Name  string `json:"name"`
	Shift string `json:"shift"` // 可为 "A" / "Shift A" / "ALL"，空值表示所有班次
}

// AttendanceEntry 单条出勤记录
type AttendanceEntry struct {
	Date   string `json:"date"` // YYYY-MM-DD
	Member string `json:"member"`
	Shift  string `json:"shift"`
	Status string `json:"status"` // Present / Absent
}

// DetapeEntry 单条 detape 记录，每条对应一次 detape 及其封装码
type DetapeEntry struct {
	Date        string `json:"date"`
	Quantity    int    `json:"quantity"`
	PackageCode string `json:"packageCode"`
}
