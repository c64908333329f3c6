// Package dto はexportフィーチャーのHTTPリクエスト/レスポンスDTOを定義します。
package dto

import (
	"github.com/oapi-codegen/runtime/types"

	"stock_export/internal/feature/export/domain/entity"
)

// ExportRequest はエクスポートAPIへのJSONリクエストボディです。
// 日付は"YYYY-MM-DD"形式のみ受け付けます（types.Dateが厳密にパースします）。
type ExportRequest struct {
	Symbols   []string   `json:"symbols" binding:"required,min=1"`
	StartDate types.Date `json:"startDate" binding:"required"`
	EndDate   types.Date `json:"endDate" binding:"required"`
	Interval  string     `json:"interval" binding:"omitempty,oneof=1d 1wk 1mo"`
}

// ToEntity はDTOをドメインのExportRequestに変換します。
// intervalが未指定の場合は日足を使用します。
func (r ExportRequest) ToEntity() entity.ExportRequest {
	interval := entity.Interval(r.Interval)
	if r.Interval == "" {
		interval = entity.IntervalDaily
	}
	return entity.ExportRequest{
		Symbols:  r.Symbols,
		Start:    r.StartDate.Time,
		End:      r.EndDate.Time,
		Interval: interval,
	}
}
