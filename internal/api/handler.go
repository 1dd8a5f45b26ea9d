package api

import (
	"github.com/gin-gonic/gin"

	"lottrack/internal/config"
	"lottrack/internal/dashboard"
	"lottrack/internal/store"
	"lottrack/internal/tracker"
)

// Handler API 处理器
type Handler struct {
	coord      *dashboard.Coordinator
	attendance *tracker.AttendanceTracker
	detape     *tracker.DetapeTracker
	journal    *store.Store
	cfg        *config.AppConfig
	downloads  *exportDownloadStore
}

// NewHandler 创建 API 处理器
func NewHandler(coord *dashboard.Coordinator, attendance *tracker.AttendanceTracker, detape *tracker.DetapeTracker, journal *store.Store, cfg *config.AppConfig) *Handler {
	return &Handler{
		coord:      coord,
		attendance: attendance,
		detape:     detape,
		journal:    journal,
		cfg:        cfg,
		downloads:  newExportDownloadStore(),
	}
}

// RegisterRoutes 注册 API 路由
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	// 系统状态
	router.GET("/status", h.GetStatus)

	// 快照采集
	router.POST("/capture/before", h.CaptureBefore)
	router.POST("/capture/after", h.CaptureAfter)
	router.POST("/reset", h.Reset)

	// 分析结果
	router.GET("/analysis", h.GetAnalysis)
	router.GET("/analysis/tables/:category", h.GetAnalysisTable)

	// 数据导出
	router.POST("/export/csv/:category", h.ExportCSV)
	router.POST("/export/excel", h.ExportExcel)
	router.GET("/export/download/:token", h.DownloadExport)

	// 出勤
	router.GET("/attendance/members", h.ListShiftMembers)
	router.POST("/attendance", h.RecordAttendance)

	// detape 监控
	router.POST("/detape", h.RecordDetape)

	// 配置
	router.GET("/config", h.GetConfig)
	router.PATCH("/config", h.UpdateConfig)
}
