package dto

import (
	"github.com/gocarina/gocsv"

	"stock_export/internal/feature/export/domain/entity"
)

const csvDateFormat = "2006-01-02"

// CSVRow は完成CSVの1行です。列順はフィールドの宣言順で固定されます。
type CSVRow struct {
	Symbol   string  `csv:"symbol"`
	Date     string  `csv:"date"`
	Open     float64 `csv:"open"`
	High     float64 `csv:"high"`
	Low      float64 `csv:"low"`
	Close    float64 `csv:"close"`
	Volume   int64   `csv:"volume"`
	AdjClose float64 `csv:"adjClose"`
}

// CSVFromRows は蓄積された行を挿入順のままCSVテキストに変換します。
func CSVFromRows(rows []entity.HistoricalRow) (string, error) {
	out := make([]CSVRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, CSVRow{
			Symbol:   r.Symbol,
			Date:     r.Date.Format(csvDateFormat),
			Open:     r.Open,
			High:     r.High,
			Low:      r.Low,
			Close:    r.Close,
			Volume:   r.Volume,
			AdjClose: r.AdjClose,
		})
	}
	return gocsv.MarshalString(&out)
}
