package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lottrack/internal/config"
)

// ConfigResponse 对外暴露的配置视图（不含服务端文件路径）
type ConfigResponse struct {
	LotSheetURL        string   `json:"lotSheetUrl"`
	LotColumn          string   `json:"lotColumn"`
	MembersSheetURL    string   `json:"membersSheetUrl"`
	AttendanceSheetURL string   `json:"attendanceSheetUrl"`
	DetapeSheetURL     string   `json:"detapeSheetUrl"`
	FullTeamSize       int      `json:"fullTeamSize"`
	Shifts             []string `json:"shifts"`
}

// GetConfig 获取当前配置
// GET /api/config
func (h *Handler) GetConfig(c *gin.Context) {
	c.JSON(http.StatusOK, ConfigResponse{
		LotSheetURL:        h.cfg.Sheets.LotSheetURL,
		LotColumn:          h.cfg.Business.LotColumn,
		MembersSheetURL:    h.cfg.Sheets.MembersSheetURL,
		AttendanceSheetURL: h.cfg.Sheets.AttendanceSheetURL,
		DetapeSheetURL:     h.cfg.Sheets.DetapeSheetURL,
		FullTeamSize:       h.cfg.Business.FullTeamSize,
		Shifts:             h.cfg.Business.Shifts,
	})
}

// UpdateConfigRequest 配置更新请求，仅允许更新部分字段
type UpdateConfigRequest struct {
	LotSheetURL        *string `json:"lotSheetUrl"`
	MembersSheetURL    *string `json:"membersSheetUrl"`
	AttendanceSheetURL *string `json:"attendanceSheetUrl"`
	DetapeSheetURL     *string `json:"detapeSheetUrl"`
	FullTeamSize       *int    `json:"fullTeamSize"`
}

// UpdateConfig 更新配置并持久化到 config.toml
// PATCH /api/config
func (h *Handler) UpdateConfig(c *gin.Context) {
	var req UpdateConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求参数错误: " + err.Error()})
		return
	}

	if req.LotSheetURL != nil {
		h.cfg.Sheets.LotSheetURL = *req.LotSheetURL
	}
	if req.MembersSheetURL != nil {
		h.cfg.Sheets.MembersSheetURL = *req.MembersSheetURL
	}
	if req.AttendanceSheetURL != nil {
		h.cfg.Sheets.AttendanceSheetURL = *req.AttendanceSheetURL
	}
	if req.DetapeSheetURL != nil {
		h.cfg.Sheets.DetapeSheetURL = *req.DetapeSheetURL
	}
	if req.FullTeamSize != nil {
		if *req.FullTeamSize < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "满员人数必须大于 0"})
			return
		}
		h.cfg.Business.FullTeamSize = *req.FullTeamSize
	}

	if err := config.SaveConfig(h.cfg); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "保存配置失败: " + err.Error()})
		return
	}

	// 表格地址类配置在下次启动时生效
	c.JSON(http.StatusOK, gin.H{"message": "配置已更新，重启后生效"})
}
