package api

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"

	"lottrack/internal/export"
)

const downloadTTL = 10 * time.Minute

// ExportCSV 导出单个类别为 CSV，返回一次性下载地址
// POST /api/export/csv/:category
func (h *Handler) ExportCSV(c *gin.Context) {
	analysis, ok := h.coord.LastAnalysis()
	if !ok {
		c.JSON(http.StatusConflict, gin.H{"error": "没有可导出的分析结果"})
		return
	}

	category := export.Category(c.Param("category"))
	table, ok := analysis.Tables[category]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "未知的类别: " + string(category)})
		return
	}

	timestamp := time.Now().Format("20060102_150405")
	fileName := fmt.Sprintf("%s_%s.csv", category, timestamp)
	tempPath := filepath.Join(os.TempDir(), fmt.Sprintf("lottrack_export_%d_%s", time.Now().UnixNano(), fileName))

	f, err := os.Create(tempPath)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "创建导出文件失败"})
		return
	}
	if err := export.WriteCSV(f, table); err != nil {
		_ = f.Close()
		_ = os.Remove(tempPath)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "写入导出文件失败: " + err.Error()})
		return
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tempPath)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "写入导出文件失败: " + err.Error()})
		return
	}

	token := h.downloads.put(tempPath, fileName, "text/csv", downloadTTL)
	c.JSON(http.StatusOK, gin.H{
		"downloadUrl": "/api/export/download/" + token,
		"fileName":    fileName,
	})
}

// ExportExcel 导出完整分析工作簿，返回一次性下载地址
// POST /api/export/excel
func (h *Handler) ExportExcel(c *gin.Context) {
	analysis, ok := h.coord.LastAnalysis()
	if !ok {
		c.JSON(http.StatusConflict, gin.H{"error": "没有可导出的分析结果"})
		return
	}

	file, err := export.WriteWorkbook(analysis.Tables, analysis.Summary)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "生成工作簿失败: " + err.Error()})
		return
	}
	defer file.Close()

	timestamp := time.Now().Format("20060102_150405")
	fileName := fmt.Sprintf("lot_analysis_%s.xlsx", timestamp)
	tempPath := filepath.Join(os.TempDir(), fmt.Sprintf("lottrack_export_%d_%s", time.Now().UnixNano(), fileName))

	if err := file.SaveAs(tempPath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "写入导出文件失败: " + err.Error()})
		return
	}

	token := h.downloads.put(tempPath, fileName,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", downloadTTL)
	c.JSON(http.StatusOK, gin.H{
		"downloadUrl": "/api/export/download/" + token,
		"fileName":    fileName,
	})
}

// DownloadExport 下载导出文件（一次性）
// GET /api/export/download/:token
func (h *Handler) DownloadExport(c *gin.Context) {
	token := c.Param("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "缺少 token"})
		return
	}

	item, ok := h.downloads.get(token)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "下载链接已失效"})
		return
	}

	if _, err := os.Stat(item.filePath); err != nil {
		h.downloads.delete(token)
		c.JSON(http.StatusNotFound, gin.H{"error": "导出文件不存在"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", item.fileName))
	c.Header("Content-Type", item.contentType)
	c.File(item.filePath)

	h.downloads.delete(token)
	_ = os.Remove(item.filePath)
}
