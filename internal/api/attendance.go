package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"lottrack/internal/tracker"
)

// ListShiftMembers 获取指定班次的成员名单
// GET /api/attendance/members?shift=A
func (h *Handler) ListShiftMembers(c *gin.Context) {
	members, err := h.attendance.LoadMembers(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "读取班组成员表失败: " + err.Error()})
		return
	}

	shift := c.Query("shift")
	names := tracker.MembersForShift(members, shift)
	if names == nil {
		names = []string{}
	}

	c.JSON(http.StatusOK, gin.H{
		"shift":    shift,
		"members":  names,
		"teamSize": h.attendance.TeamSize(),
	})
}

// RecordAttendanceRequest 出勤记录请求
type RecordAttendanceRequest struct {
	Shift      string   `json:"shift" binding:"required"`
	NumPresent int      `json:"numPresent"`
	Present    []string `json:"present"`
	Absent     []string `json:"absent"`
	Date       string   `json:"date"`
}

// RecordAttendance 登记班前出勤
// POST /api/attendance
func (h *Handler) RecordAttendance(c *gin.Context) {
	var req RecordAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求参数错误: " + err.Error()})
		return
	}

	if err := h.attendance.ValidateAbsence(req.NumPresent, req.Absent); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "出勤人数校验失败: " + err.Error()})
		return
	}

	date := req.Date
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}

	if err := h.attendance.Record(c.Request.Context(), req.Shift, req.Present, req.Absent, date); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "记录出勤失败: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "出勤已记录",
		"date":    date,
		"shift":   req.Shift,
		"count":   len(req.Present) + len(req.Absent),
	})
}
