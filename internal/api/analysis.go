package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"lottrack/internal/dashboard"
	"lottrack/internal/export"
)

// AnalysisResponse 分析结果响应
type AnalysisResponse struct {
	RunID   string          `json:"runId"`
	RunAt   string          `json:"runAt"`
	Summary *export.Summary `json:"summary"`
	Counts  map[string]int  `json:"counts"` // 类别 -> 批次数
}

// TableResponse 明细表响应
type TableResponse struct {
	Category string     `json:"category"`
	Headers  []string   `json:"headers"`
	Rows     [][]string `json:"rows"`
	LotIDs   []string   `json:"lotIds"`
	Count    int        `json:"count"`
	QtyTotal float64    `json:"qtyTotal"`
}

// GetAnalysis 获取最近一次分析结果
// GET /api/analysis
func (h *Handler) GetAnalysis(c *gin.Context) {
	analysis, ok := h.coord.LastAnalysis()
	if !ok {
		c.JSON(http.StatusConflict, gin.H{"error": "请先完成班前与班后两次采集"})
		return
	}
	c.JSON(http.StatusOK, analysisResponse(analysis))
}

// GetAnalysisTable 获取单个类别的明细表
// GET /api/analysis/tables/:category?display=1
//
// display=1 时过滤为展示列并按 OTD 状态优先级排序（页面展示用）；
// 默认返回完整列、批次号升序（与导出文件一致）
func (h *Handler) GetAnalysisTable(c *gin.Context) {
	analysis, ok := h.coord.LastAnalysis()
	if !ok {
		c.JSON(http.StatusConflict, gin.H{"error": "请先完成班前与班后两次采集"})
		return
	}

	category := export.Category(c.Param("category"))
	table, ok := analysis.Tables[category]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "未知的类别: " + string(category)})
		return
	}

	display, _ := strconv.ParseBool(c.DefaultQuery("display", "0"))
	out := table
	if display {
		out = table.SortByOTDPriority().FilterDisplayColumns()
	}

	c.JSON(http.StatusOK, TableResponse{
		Category: string(out.Category),
		Headers:  out.Headers,
		Rows:     out.Rows,
		LotIDs:   out.LotIDs,
		Count:    len(out.Rows),
		QtyTotal: export.QtySum(table),
	})
}

func analysisResponse(analysis *dashboard.AnalysisResult) AnalysisResponse {
	counts := make(map[string]int, len(analysis.Tables))
	for category, table := range analysis.Tables {
		counts[string(category)] = len(table.Rows)
	}
	return AnalysisResponse{
		RunID:   analysis.RunID,
		RunAt:   analysis.RunAt.Format(time.RFC3339),
		Summary: analysis.Summary,
		Counts:  counts,
	}
}
