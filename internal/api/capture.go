package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"lottrack/internal/parser"
	"lottrack/internal/sheets"
	"lottrack/internal/snapshot"
)

// CaptureResponse 采集响应
type CaptureResponse struct {
	Name       string               `json:"name"`
	CapturedAt string               `json:"capturedAt"`
	ActiveLots int                  `json:"activeLots"`
	Report     parser.CaptureReport `json:"report"`
	State      string               `json:"state"`
}

// CaptureBefore 采集班前快照
// POST /api/capture/before
func (h *Handler) CaptureBefore(c *gin.Context) {
	snap, err := h.coord.CaptureBefore(c.Request.Context())
	if err != nil {
		h.captureError(c, err)
		return
	}

	c.JSON(http.StatusOK, captureResponse(snap, h.coord.State()))
}

// CaptureAfter 采集班后快照并立即运行分析
// POST /api/capture/after
func (h *Handler) CaptureAfter(c *gin.Context) {
	snap, analysis, err := h.coord.CaptureAfter(c.Request.Context())
	if err != nil {
		h.captureError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"capture":  captureResponse(snap, h.coord.State()),
		"analysis": analysisResponse(analysis),
	})
}

// Reset 清空快照与分析结果
// POST /api/reset
func (h *Handler) Reset(c *gin.Context) {
	h.coord.Reset()
	c.JSON(http.StatusOK, gin.H{
		"state": string(h.coord.State()),
	})
}

func captureResponse(snap *snapshot.Snapshot, state snapshot.State) CaptureResponse {
	return CaptureResponse{
		Name:       string(snap.Name),
		CapturedAt: snap.CapturedAt.Format(time.RFC3339),
		ActiveLots: len(snap.Records),
		Report:     snap.Report,
		State:      string(state),
	}
}

func (h *Handler) captureError(c *gin.Context, err error) {
	var fetchErr *sheets.FetchError
	switch {
	case errors.As(err, &fetchErr):
		c.JSON(http.StatusBadGateway, gin.H{"error": "读取远端表格失败: " + fetchErr.Err.Error()})
	case errors.Is(err, snapshot.ErrSnapshotNotCaptured):
		c.JSON(http.StatusConflict, gin.H{"error": "请先采集班前数据"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "采集失败: " + err.Error()})
	}
}
