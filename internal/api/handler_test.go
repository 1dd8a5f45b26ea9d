package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"lottrack/internal/config"
	"lottrack/internal/dashboard"
	"lottrack/internal/model"
	"lottrack/internal/sheets"
	"lottrack/internal/tracker"
)

// fakeSheet 测试用内存表格，同时充当批次表数据源
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

func lotRows(specs ...[3]string) []model.Row {
	rows := make([]model.Row, 0, len(specs))
	for _, s := range specs {
		rows = append(rows, model.NewRow(
			[]string{"LOT NUMBER", "OTD STATUS", "COMMENTS"},
			map[string]string{"LOT NUMBER": s[0], "OTD STATUS": s[1], "COMMENTS": s[2]},
		))
	}
	return rows
}

func newTestRouter(sheet *fakeSheet) *gin.Engine {
	gin.SetMode(gin.TestMode)

	cfg := config.DefaultConfig()
	coord := dashboard.NewCoordinator(sheet, nil, sheets.SheetRef{}, cfg.Business.LotColumn)
	attendance := tracker.NewAttendanceTracker(sheet, nil, sheets.SheetRef{}, sheets.SheetRef{}, cfg.Business.FullTeamSize)
	detape := tracker.NewDetapeTracker(sheet, nil, sheets.SheetRef{})
	handler := NewHandler(coord, attendance, detape, nil, cfg)

	router := gin.New()
	handler.RegisterRoutes(router.Group("/api"))
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp map[string]interface{}
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("unmarshal response %q: %v", w.Body.String(), err)
		}
	}
	return w, resp
}

func TestCaptureFlow(t *testing.T) {
	sheet := &fakeSheet{rows: lotRows(
		[3]string{"LOT001", "OVERDUE", ""},
		[3]string{"LOT002", "EXPEDITE", ""},
	)}
	router := newTestRouter(sheet)

	w, resp := doJSON(t, router, http.MethodPost, "/api/capture/before", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("capture before = %d: %v", w.Code, resp)
	}
	if resp["state"] != "before_only" {
		t.Fatalf("state = %v, want before_only", resp["state"])
	}
	if resp["activeLots"] != float64(2) {
		t.Fatalf("active lots = %v, want 2", resp["activeLots"])
	}

	// 班后只剩 LOT002
	sheet.rows = lotRows([3]string{"LOT002", "EXPEDITE", ""})

	w, resp = doJSON(t, router, http.MethodPost, "/api/capture/after", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("capture after = %d: %v", w.Code, resp)
	}
	analysis, ok := resp["analysis"].(map[string]interface{})
	if !ok {
		t.Fatalf("analysis missing: %v", resp)
	}
	counts := analysis["counts"].(map[string]interface{})
	if counts["processed"] != float64(1) || counts["in_progress"] != float64(1) {
		t.Fatalf("counts = %v", counts)
	}

	w, resp = doJSON(t, router, http.MethodGet, "/api/status", nil)
	if w.Code != http.StatusOK || resp["state"] != "both_captured" {
		t.Fatalf("status = %d %v", w.Code, resp)
	}
	if resp["analysisReady"] != true {
		t.Fatalf("analysis ready = %v, want true", resp["analysisReady"])
	}
}

func TestCaptureAfterWithoutBefore(t *testing.T) {
	router := newTestRouter(&fakeSheet{})

	w, _ := doJSON(t, router, http.MethodPost, "/api/capture/after", nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("code = %d, want 409", w.Code)
	}
}

func TestCaptureFetchErrorMapsTo502(t *testing.T) {
	sheet := &fakeSheet{fetchErr: &sheets.FetchError{Ref: "sheet-1", Err: context.DeadlineExceeded}}
	router := newTestRouter(sheet)

	w, _ := doJSON(t, router, http.MethodPost, "/api/capture/before", nil)
	if w.Code != http.StatusBadGateway {
		t.Fatalf("code = %d, want 502", w.Code)
	}
}

func TestGetAnalysisBeforeCapture(t *testing.T) {
	router := newTestRouter(&fakeSheet{})

	w, _ := doJSON(t, router, http.MethodGet, "/api/analysis", nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("code = %d, want 409", w.Code)
	}
}

func TestGetAnalysisTable(t *testing.T) {
	sheet := &fakeSheet{rows: lotRows(
		[3]string{"LOT001", "OVERDUE", "TBE-BMPQ-L/YIELD"},
		[3]string{"LOT002", "EXPEDITE", ""},
	)}
	router := newTestRouter(sheet)

	doJSON(t, router, http.MethodPost, "/api/capture/before", nil)
	sheet.rows = nil
	doJSON(t, router, http.MethodPost, "/api/capture/after", nil)

	w, resp := doJSON(t, router, http.MethodGet, "/api/analysis/tables/split_low_yield", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("code = %d: %v", w.Code, resp)
	}
	if resp["count"] != float64(1) {
		t.Fatalf("count = %v, want 1", resp["count"])
	}

	w, _ = doJSON(t, router, http.MethodGet, "/api/analysis/tables/unknown", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("unknown category = %d, want 404", w.Code)
	}
}

func TestResetClearsState(t *testing.T) {
	sheet := &fakeSheet{rows: lotRows([3]string{"LOT001", "OVERDUE", ""})}
	router := newTestRouter(sheet)

	doJSON(t, router, http.MethodPost, "/api/capture/before", nil)

	w, resp := doJSON(t, router, http.MethodPost, "/api/reset", nil)
	if w.Code != http.StatusOK || resp["state"] != "empty" {
		t.Fatalf("reset = %d %v", w.Code, resp)
	}
}

func TestRecordAttendance(t *testing.T) {
	sheet := &fakeSheet{}
	router := newTestRouter(sheet)

	w, resp := doJSON(t, router, http.MethodPost, "/api/attendance", map[string]interface{}{
		"shift":      "Shift A",
		"numPresent": 2,
		"present":    []string{"alice", "carol"},
		"absent":     []string{"bob"},
		"date":       "2026-08-29",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("code = %d: %v", w.Code, resp)
	}
	if len(sheet.appended) != 3 {
		t.Fatalf("appended = %d rows, want 3", len(sheet.appended))
	}
}

func TestRecordAttendance_AbsenceMismatch(t *testing.T) {
	router := newTestRouter(&fakeSheet{})

	w, _ := doJSON(t, router, http.MethodPost, "/api/attendance", map[string]interface{}{
		"shift":      "Shift A",
		"numPresent": 2,
		"absent":     []string{},
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("code = %d, want 400", w.Code)
	}
}

func TestRecordDetape(t *testing.T) {
	sheet := &fakeSheet{}
	router := newTestRouter(sheet)

	w, resp := doJSON(t, router, http.MethodPost, "/api/detape", map[string]interface{}{
		"packageCodes": []string{"PKG01", "PKG02"},
		"date":         "2026-08-29",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("code = %d: %v", w.Code, resp)
	}
	if len(sheet.appended) != 2 {
		t.Fatalf("appended = %d rows, want 2", len(sheet.appended))
	}
}

func TestGetConfig(t *testing.T) {
	router := newTestRouter(&fakeSheet{})

	w, resp := doJSON(t, router, http.MethodGet, "/api/config", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("code = %d", w.Code)
	}
	if resp["lotColumn"] != "LOT NUMBER" {
		t.Fatalf("lot column = %v, want LOT NUMBER", resp["lotColumn"])
	}
	if resp["fullTeamSize"] != float64(3) {
		t.Fatalf("team size = %v, want 3", resp["fullTeamSize"])
	}
}
