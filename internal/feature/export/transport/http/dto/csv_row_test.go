package dto_test

import (
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock_export/internal/feature/export/domain/entity"
	"stock_export/internal/feature/export/transport/http/dto"
)

// TestCSVFromRows は固定の8列ヘッダーと行の挿入順が保たれることを検証します。
func TestCSVFromRows(t *testing.T) {
	t.Parallel()

	rows := []entity.HistoricalRow{
		{
			Symbol: "AAPL",
			Date:   time.Date(2023, 1, 3, 0, 0, 0, 0, time.UTC),
			Open:   100.5, High: 110, Low: 90, Close: 105, Volume: 1000, AdjClose: 104.25,
		},
		{
			Symbol: "MSFT",
			Date:   time.Date(2023, 1, 4, 0, 0, 0, 0, time.UTC),
			Open:   200, High: 210, Low: 190, Close: 205, Volume: 2000, AdjClose: 205,
		},
	}

	out, err := dto.CSVFromRows(rows)
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t,
		[]string{"symbol", "date", "open", "high", "low", "close", "volume", "adjClose"},
		records[0])
	assert.Equal(t,
		[]string{"AAPL", "2023-01-03", "100.5", "110", "90", "105", "1000", "104.25"},
		records[1])
	assert.Equal(t,
		[]string{"MSFT", "2023-01-04", "200", "210", "190", "205", "2000", "205"},
		records[2])
}

// TestCSVFromRows_RoundTripSymbolTagging は出力CSVを再解析したとき、
// symbol/date列が蓄積時のタグ付けを再現することを検証します。
func TestCSVFromRows_RoundTripSymbolTagging(t *testing.T) {
	t.Parallel()

	rows := []entity.HistoricalRow{
		{Symbol: "AAPL", Date: time.Date(2023, 1, 3, 0, 0, 0, 0, time.UTC), Close: 1},
		{Symbol: "AAPL", Date: time.Date(2023, 1, 4, 0, 0, 0, 0, time.UTC), Close: 2},
		{Symbol: "7203.T", Date: time.Date(2023, 1, 3, 0, 0, 0, 0, time.UTC), Close: 3},
	}

	out, err := dto.CSVFromRows(rows)
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, len(rows)+1)

	for i, r := range rows {
		assert.Equal(t, r.Symbol, records[i+1][0])
		assert.Equal(t, r.Date.Format("2006-01-02"), records[i+1][1])
	}
}

// TestCSVFromRows_Empty は行が無い場合にヘッダーのみのCSVになることを検証します。
func TestCSVFromRows_Empty(t *testing.T) {
	t.Parallel()

	out, err := dto.CSVFromRows(nil)
	require.NoError(t, err)
	assert.Equal(t, "symbol,date,open,high,low,close,volume,adjClose\n", out)
}
