package dto

import (
	"strings"

	"stock_export/internal/feature/export/domain/entity"
)

// ErrorResponse はストリーム開始前のエラーレスポンスボディです（400/500）。
type ErrorResponse struct {
	Message string `json:"message"`
}

// ProgressEvent はprogressイベントのdata payloadです。
type ProgressEvent struct {
	Type    string `json:"type"`
	Current int    `json:"current"`
	Total   int    `json:"total"`
	Error   string `json:"error,omitempty"` // これまでに失敗した全銘柄のリスト
}

// StreamError はerrorイベントのdata payloadです。
type StreamError struct {
	Error string `json:"error"`
}

// NewProgressEvent はドメインの進捗イベントをワイヤ形式に変換します。
// 失敗銘柄リストの文字列整形はここ（シリアライズ境界）でのみ行います。
func NewProgressEvent(ev entity.ProgressEvent) ProgressEvent {
	out := ProgressEvent{
		Type:    "progress",
		Current: ev.Current,
		Total:   ev.Total,
	}
	if len(ev.Failed) > 0 {
		out.Error = "Failed to fetch: " + strings.Join(ev.Failed, ", ")
	}
	return out
}
