package entity

import "time"

// Interval は履歴データのサンプリング粒度です。
type Interval string

const (
	IntervalDaily   Interval = "1d"
	IntervalWeekly  Interval = "1wk"
	IntervalMonthly Interval = "1mo"
)

// Valid はプロバイダーが認識する時間足かどうかを返します。
func (i Interval) Valid() bool {
	switch i {
	case IntervalDaily, IntervalWeekly, IntervalMonthly:
		return true
	}
	return false
}

// ExportRequest は1回のエクスポート処理への入力です。
// Symbols は空であってはならず、入力順のまま処理されます（重複排除はしない）。
type ExportRequest struct {
	Symbols  []string
	Start    time.Time
	End      time.Time
	Interval Interval
}
