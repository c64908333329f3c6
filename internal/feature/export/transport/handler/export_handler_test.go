package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock_export/internal/feature/export/domain/entity"
	"stock_export/internal/feature/export/transport/handler"
	"stock_export/internal/feature/export/usecase"
)

// mockExportUsecase はExportUsecaseインターフェースのモック実装です。
type mockExportUsecase struct {
	RunFunc func(ctx context.Context, req entity.ExportRequest, sink usecase.EventSink)
	called  bool
}

func (m *mockExportUsecase) Run(ctx context.Context, req entity.ExportRequest, sink usecase.EventSink) {
	m.called = true
	if m.RunFunc != nil {
		m.RunFunc(ctx, req, sink)
	}
}

func setupRouter(uc handler.ExportUsecase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/stocks/export", handler.NewExportHandler(uc).Export)
	return r
}

func postJSON(t *testing.T, router *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/stocks/export", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

// TestExportHandler_Export_BadRequest は必須フィールドの欠落や不正な値で
// ストリームを開始せずに400を返すことを検証します。
func TestExportHandler_Export_BadRequest(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{
			name: "empty symbols array",
			body: `{"symbols":[],"startDate":"2023-01-01","endDate":"2023-01-05","interval":"1d"}`,
		},
		{
			name: "missing symbols",
			body: `{"startDate":"2023-01-01","endDate":"2023-01-05","interval":"1d"}`,
		},
		{
			name: "missing start date",
			body: `{"symbols":["AAPL"],"endDate":"2023-01-05","interval":"1d"}`,
		},
		{
			name: "missing end date",
			body: `{"symbols":["AAPL"],"startDate":"2023-01-01","interval":"1d"}`,
		},
		{
			name: "unparseable date",
			body: `{"symbols":["AAPL"],"startDate":"Jan 1st","endDate":"2023-01-05","interval":"1d"}`,
		},
		{
			name: "unknown interval",
			body: `{"symbols":["AAPL"],"startDate":"2023-01-01","endDate":"2023-01-05","interval":"5m"}`,
		},
		{
			name: "not json",
			body: `symbols=AAPL`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockUC := &mockExportUsecase{}
			w := postJSON(t, setupRouter(mockUC), tt.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.JSONEq(t, `{"message":"Missing required fields"}`, w.Body.String())
			assert.False(t, mockUC.called, "usecase should not run on invalid input")
		})
	}
}

// TestExportHandler_Export_Stream は正常系でSSEヘッダーが設定され、
// イベントがワイヤ契約どおりのブロック形式で届くことを検証します。
func TestExportHandler_Export_Stream(t *testing.T) {
	mockUC := &mockExportUsecase{
		RunFunc: func(ctx context.Context, req entity.ExportRequest, sink usecase.EventSink) {
			// DTO→エンティティ変換の確認
			assert.Equal(t, []string{"AAPL", "BAD"}, req.Symbols)
			assert.Equal(t, entity.IntervalDaily, req.Interval)
			assert.Equal(t, time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), req.Start)

			require.NoError(t, sink.Progress(entity.ProgressEvent{Current: 1, Total: 2}))
			require.NoError(t, sink.Progress(entity.ProgressEvent{Current: 2, Total: 2, Failed: []string{"BAD"}}))
			require.NoError(t, sink.Complete([]entity.HistoricalRow{
				{
					Symbol: "AAPL",
					Date:   time.Date(2023, 1, 3, 0, 0, 0, 0, time.UTC),
					Open:   100, High: 110, Low: 90, Close: 105, Volume: 1000, AdjClose: 104,
				},
			}))
		},
	}

	w := postJSON(t, setupRouter(mockUC),
		`{"symbols":["AAPL","BAD"],"startDate":"2023-01-01","endDate":"2023-01-05","interval":"1d"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))
	assert.Equal(t, "no-cache", w.Header().Get("Cache-Control"))
	assert.Equal(t, "keep-alive", w.Header().Get("Connection"))

	expected := "event: progress\n" +
		`data: {"type":"progress","current":1,"total":2}` + "\n\n" +
		"event: progress\n" +
		`data: {"type":"progress","current":2,"total":2,"error":"Failed to fetch: BAD"}` + "\n\n" +
		"event: complete\n" +
		"data: symbol,date,open,high,low,close,volume,adjClose\n" +
		"AAPL,2023-01-03,100,110,90,105,1000,104\n\n"
	assert.Equal(t, expected, w.Body.String())
}

// TestExportHandler_Export_TerminalError は全銘柄失敗時の終端エラーイベントを検証します。
func TestExportHandler_Export_TerminalError(t *testing.T) {
	mockUC := &mockExportUsecase{
		RunFunc: func(ctx context.Context, req entity.ExportRequest, sink usecase.EventSink) {
			require.NoError(t, sink.Progress(entity.ProgressEvent{Current: 1, Total: 1, Failed: []string{"BAD"}}))
			require.NoError(t, sink.Fail(usecase.NoDataMessage))
		},
	}

	w := postJSON(t, setupRouter(mockUC),
		`{"symbols":["BAD"],"startDate":"2023-01-01","endDate":"2023-01-05","interval":"1d"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(),
		"event: error\n"+`data: {"error":"No valid data retrieved for any symbols"}`+"\n\n")
	assert.NotContains(t, w.Body.String(), "event: complete")
}

// TestExportHandler_Export_DefaultInterval はinterval未指定時に日足が使われることを検証します。
func TestExportHandler_Export_DefaultInterval(t *testing.T) {
	mockUC := &mockExportUsecase{
		RunFunc: func(ctx context.Context, req entity.ExportRequest, sink usecase.EventSink) {
			assert.Equal(t, entity.IntervalDaily, req.Interval)
			require.NoError(t, sink.Fail(usecase.NoDataMessage))
		},
	}

	w := postJSON(t, setupRouter(mockUC),
		`{"symbols":["AAPL"],"startDate":"2023-01-01","endDate":"2023-01-05"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, mockUC.called)
}

// TestExportHandler_Export_PanicRecovered はストリーム開始後のpanicが
// 終端エラーイベントに変換されることを検証します。
func TestExportHandler_Export_PanicRecovered(t *testing.T) {
	mockUC := &mockExportUsecase{
		RunFunc: func(ctx context.Context, req entity.ExportRequest, sink usecase.EventSink) {
			panic("orchestration blew up")
		},
	}

	w := postJSON(t, setupRouter(mockUC),
		`{"symbols":["AAPL"],"startDate":"2023-01-01","endDate":"2023-01-05","interval":"1d"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(),
		"event: error\n"+`data: {"error":"orchestration blew up"}`+"\n\n")
}
