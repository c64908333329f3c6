package yahoo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"stock_export/internal/feature/export/adapters/yahoo/dto"
	"stock_export/internal/feature/export/domain/entity"
	"stock_export/internal/feature/export/usecase"
)

// Yahoo側でCookie必須のエンドポイントを避けるため、ブラウザ相当のUAを送ります。
const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

// ErrSymbolNotFound はプロバイダーが銘柄を認識しなかった場合に返されます。
var ErrSymbolNotFound = errors.New("yahoo: symbol not found")

// YahooMarket はYahoo Finance APIから株価データを取得するMarketRepository実装です。
type YahooMarket struct {
	cfg    Config
	client *http.Client
}

// YahooMarketがMarketRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.MarketRepository = (*YahooMarket)(nil)

// NewYahooMarket は指定された設定とHTTPクライアントでYahooMarketの新しいインスタンスを生成します。
func NewYahooMarket(cfg Config, client *http.Client) *YahooMarket {
	return &YahooMarket{cfg: cfg, client: client}
}

// Quote はv7 quoteエンドポイントで銘柄の現在値を取得します。
// プロバイダーが銘柄を返さない場合はErrSymbolNotFoundを返します。
func (y *YahooMarket) Quote(ctx context.Context, symbol string) (entity.Quote, error) {
	q := url.Values{}
	q.Set("symbols", symbol)

	u := fmt.Sprintf("%s/v7/finance/quote?%s", y.cfg.BaseURL, q.Encode())

	var body dto.QuoteResponse
	if err := y.getJSON(ctx, u, &body); err != nil {
		return entity.Quote{}, err
	}

	if e := body.QuoteResponse.Error; e != nil {
		return entity.Quote{}, fmt.Errorf("yahoo quote %s: %s", symbol, e.Description)
	}
	if len(body.QuoteResponse.Result) == 0 {
		return entity.Quote{}, ErrSymbolNotFound
	}

	r := body.QuoteResponse.Result[0]
	return entity.Quote{
		Symbol:   r.Symbol,
		Price:    r.RegularMarketPrice,
		Currency: r.Currency,
	}, nil
}

// Historical はv8 chartエンドポイントから指定期間の時系列株価データを取得し、
// entity.HistoricalRowのスライスとして返します。行は提供元の時系列順のままです。
func (y *YahooMarket) Historical(ctx context.Context, symbol string, start, end time.Time, interval entity.Interval) ([]entity.HistoricalRow, error) {
	q := url.Values{}
	// クエリパラメータを追加
	q.Set("period1", strconv.FormatInt(start.Unix(), 10))
	q.Set("period2", strconv.FormatInt(end.Unix(), 10))
	q.Set("interval", string(interval))
	q.Set("events", "div,splits")

	u := fmt.Sprintf("%s/v8/finance/chart/%s?%s", y.cfg.BaseURL, url.PathEscape(symbol), q.Encode())

	var body dto.ChartResponse
	if err := y.getJSON(ctx, u, &body); err != nil {
		return nil, err
	}

	if e := body.Chart.Error; e != nil {
		return nil, fmt.Errorf("yahoo chart %s: %s", symbol, e.Description)
	}
	if len(body.Chart.Result) == 0 {
		return nil, ErrSymbolNotFound
	}

	res := body.Chart.Result[0]
	if len(res.Indicators.Quote) == 0 {
		return []entity.HistoricalRow{}, nil
	}
	quote := res.Indicators.Quote[0]

	var adj []*float64
	if len(res.Indicators.Adjclose) > 0 {
		adj = res.Indicators.Adjclose[0].Adjclose
	}

	rows := make([]entity.HistoricalRow, 0, len(res.Timestamp))
	for i, ts := range res.Timestamp {
		// 終値がnullの行（休場日など）はスキップ
		if i >= len(quote.Close) || quote.Close[i] == nil {
			continue
		}

		row := entity.HistoricalRow{
			Date:     time.Unix(ts, 0).UTC(),
			Close:    *quote.Close[i],
			AdjClose: *quote.Close[i], // adjcloseが無い場合は終値で代用
		}
		if i < len(quote.Open) && quote.Open[i] != nil {
			row.Open = *quote.Open[i]
		}
		if i < len(quote.High) && quote.High[i] != nil {
			row.High = *quote.High[i]
		}
		if i < len(quote.Low) && quote.Low[i] != nil {
			row.Low = *quote.Low[i]
		}
		if i < len(quote.Volume) && quote.Volume[i] != nil {
			row.Volume = *quote.Volume[i]
		}
		if i < len(adj) && adj[i] != nil {
			row.AdjClose = *adj[i]
		}

		rows = append(rows, row)
	}
	return rows, nil
}

// getJSON はGETリクエストを実行し、JSONレスポンスをoutにデコードします。
func (y *YahooMarket) getJSON(ctx context.Context, u string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", userAgent)

	res, err := y.client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode == http.StatusNotFound {
		return ErrSymbolNotFound
	}
	if res.StatusCode >= 400 {
		return fmt.Errorf("yahoo http %d", res.StatusCode)
	}

	return json.NewDecoder(res.Body).Decode(out)
}
