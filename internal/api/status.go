package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"lottrack/internal/snapshot"
)

// StatusResponse 系统状态响应
type StatusResponse struct {
	State            string `json:"state"`            // empty / before_only / both_captured
	BeforeCapturedAt string `json:"beforeCapturedAt"` // 空串表示未采集
	AfterCapturedAt  string `json:"afterCapturedAt"`
	AnalysisReady    bool   `json:"analysisReady"`

	AttendanceRecorded bool `json:"attendanceRecorded"` // 今日是否已记录出勤
	DetapeRecorded     bool `json:"detapeRecorded"`     // 今日是否已记录 detape
	DetapeCount        int  `json:"detapeCount"`        // 今日 detape 总数

	CaptureEventCount int `json:"captureEventCount"`
}

// GetStatus 获取系统状态
// GET /api/status
func (h *Handler) GetStatus(c *gin.Context) {
	resp := StatusResponse{
		State: string(h.coord.State()),
	}

	if snap, err := h.coord.Snapshot(snapshot.Before); err == nil {
		resp.BeforeCapturedAt = snap.CapturedAt.Format(time.RFC3339)
	}
	if snap, err := h.coord.Snapshot(snapshot.After); err == nil {
		resp.AfterCapturedAt = snap.CapturedAt.Format(time.RFC3339)
	}
	_, resp.AnalysisReady = h.coord.LastAnalysis()

	today := time.Now().Format("2006-01-02")
	if h.journal != nil {
		if recorded, err := h.journal.AttendanceRecordedForDate(today); err == nil {
			resp.AttendanceRecorded = recorded
		}
		if count, err := h.journal.DetapeCountForDate(today); err == nil {
			resp.DetapeCount = count
			resp.DetapeRecorded = count > 0
		}
		if count, err := h.journal.CountCaptureEvents(); err == nil {
			resp.CaptureEventCount = count
		}
	}

	c.JSON(http.StatusOK, resp)
}
