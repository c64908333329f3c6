// Package handler はexportフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"stock_export/internal/feature/export/domain/entity"
	"stock_export/internal/feature/export/transport/http/dto"
	"stock_export/internal/feature/export/usecase"
	"stock_export/internal/platform/sse"
)

// ストリームに流すイベント名。既存クライアントとのワイヤ契約です。
const (
	EventProgress = "progress"
	EventComplete = "complete"
	EventError    = "error"
)

// ExportUsecase は履歴データエクスポートのユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type ExportUsecase interface {
	Run(ctx context.Context, req entity.ExportRequest, sink usecase.EventSink)
}

// ExportHandler は履歴データエクスポートのHTTPリクエストを処理します。
type ExportHandler struct {
	uc ExportUsecase
}

// NewExportHandler は指定されたusecaseでExportHandlerの新しいインスタンスを生成します。
func NewExportHandler(uc ExportUsecase) *ExportHandler {
	return &ExportHandler{uc: uc}
}

// Export は銘柄リストと期間を受け取り、銘柄ごとの進捗と完成したCSVを
// 1本のイベントストリームで返します。
//
// エンドポイント:
// POST /stocks/export
// ボディ: {"symbols":["AAPL"],"startDate":"2023-01-01","endDate":"2023-01-31","interval":"1d"}
func (h *ExportHandler) Export(c *gin.Context) {
	var req dto.ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Missing required fields"})
		return
	}

	w, err := sse.NewWriter(c.Writer)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: err.Error()})
		return
	}
	w.WriteHeaders()

	sink := &sseSink{w: w}

	// ストリーム開始後の予期せぬpanicは終端エラーイベントに変換する
	defer func() {
		if r := recover(); r != nil {
			slog.Error("export aborted by panic", "error", r)
			msg := fmt.Sprintf("%v", r)
			if msg == "" {
				msg = "internal error"
			}
			_ = sink.Fail(msg)
		}
	}()

	// クライアントが切断しても銘柄ループは最後まで実行する
	ctx := context.WithoutCancel(c.Request.Context())
	h.uc.Run(ctx, req.ToEntity(), sink)
}

// sseSink はusecase.EventSinkのSSEストリーム実装です。
// 各書き込みはフラッシュ完了を待ってから戻るため、イベントは必ず発行順に届きます。
type sseSink struct {
	w *sse.Writer
}

var _ usecase.EventSink = (*sseSink)(nil)

// Progress は進捗イベントをJSONで書き込みます。
func (s *sseSink) Progress(ev entity.ProgressEvent) error {
	b, err := json.Marshal(dto.NewProgressEvent(ev))
	if err != nil {
		return err
	}
	return s.w.WriteEvent(EventProgress, b)
}

// Complete は蓄積された全行をCSVに整形し、completeイベントとして書き込みます。
// CSVの生成に失敗した場合は代わりに終端エラーイベントを流します。
func (s *sseSink) Complete(rows []entity.HistoricalRow) error {
	csvText, err := dto.CSVFromRows(rows)
	if err != nil {
		_ = s.Fail(err.Error())
		return err
	}
	return s.w.WriteEvent(EventComplete, []byte(csvText))
}

// Fail は終端エラーイベントを書き込みます。
func (s *sseSink) Fail(message string) error {
	b, err := json.Marshal(dto.StreamError{Error: message})
	if err != nil {
		return err
	}
	return s.w.WriteEvent(EventError, b)
}
