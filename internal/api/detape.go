package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// RecordDetapeRequest detape 记录请求
type RecordDetapeRequest struct {
	PackageCodes []string `json:"packageCodes" binding:"required"`
	Date         string   `json:"date"`
}

// RecordDetape 记录 detape 监控数据
// POST /api/detape
func (h *Handler) RecordDetape(c *gin.Context) {
	var req RecordDetapeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求参数错误: " + err.Error()})
		return
	}

	date := req.Date
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}

	if err := h.detape.Record(c.Request.Context(), date, req.PackageCodes); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "记录 detape 失败: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "detape 已记录",
		"date":    date,
		"count":   len(req.PackageCodes),
	})
}
