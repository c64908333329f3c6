// Package usecase は履歴データエクスポートのビジネスロジックを実装します。
package usecase

import (
	"context"
	"log/slog"
	"time"

	"stock_export/internal/feature/export/domain/entity"
	"stock_export/internal/shared/ratelimiter"
)

// NoDataMessage は全銘柄からデータを取得できなかった場合の終端エラーメッセージです。
const NoDataMessage = "No valid data retrieved for any symbols"

// MarketRepository は株価データを取得するリポジトリのインターフェイスです。
// 外部 API の実装を抽象化します。
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type MarketRepository interface {
	// Quote は銘柄の現在値を取得します。銘柄が存在しない場合はエラーを返します。
	Quote(ctx context.Context, symbol string) (entity.Quote, error)
	// Historical は指定期間・時間足の時系列データを取得します。
	Historical(ctx context.Context, symbol string, start, end time.Time, interval entity.Interval) ([]entity.HistoricalRow, error)
}

// EventSink は処理中に発行されるイベントの書き込み先を抽象化します。
// 本番実装はhandlerが提供するSSEストリームです。
type EventSink interface {
	// Progress は1銘柄処理するごとに1回呼び出されます。
	Progress(ev entity.ProgressEvent) error
	// Complete は1行以上取得できた場合に、全行を渡して一度だけ呼び出されます。
	Complete(rows []entity.HistoricalRow) error
	// Fail は全体として行を1つも生成できなかった場合に一度だけ呼び出されます。
	Fail(message string) error
}

// ExportUsecase は銘柄リストの履歴データを逐次取得するユースケースを定義します。
type ExportUsecase struct {
	market  MarketRepository
	limiter ratelimiter.RateLimiterInterface
}

// NewExportUsecase は新しいExportUsecaseを作成します。
func NewExportUsecase(market MarketRepository, limiter ratelimiter.RateLimiterInterface) *ExportUsecase {
	return &ExportUsecase{market: market, limiter: limiter}
}

// Run は銘柄を入力順に1つずつ処理し、銘柄ごとに進捗イベントを、
// 最後に終端イベント（complete または error）をsinkへ発行します。
//
// 個別銘柄の失敗ではループを中断せず、失敗銘柄リストに記録して次へ進みます。
// イベント書き込みの失敗もログに記録して続行します。クライアントが切断しても
// ループは最後まで実行されます。
func (eu *ExportUsecase) Run(ctx context.Context, req entity.ExportRequest, sink EventSink) {
	total := len(req.Symbols)
	rows := make([]entity.HistoricalRow, 0)
	failed := make([]string, 0)

	for i, symbol := range req.Symbols {
		// 外部APIへのレートリミット。初回リクエストの前にも待機する
		eu.limiter.WaitIfNeeded()

		if err := eu.fetchOne(ctx, symbol, req, &rows); err != nil {
			failed = append(failed, symbol)
			slog.Error("failed to fetch symbol", "symbol", symbol, "error", err)
		}

		ev := entity.ProgressEvent{Current: i + 1, Total: total, Failed: failed}
		if err := sink.Progress(ev); err != nil {
			slog.Warn("failed to write progress event", "symbol", symbol, "error", err)
		}
	}

	if len(rows) == 0 {
		if err := sink.Fail(NoDataMessage); err != nil {
			slog.Warn("failed to write error event", "error", err)
		}
		return
	}

	if err := sink.Complete(rows); err != nil {
		slog.Warn("failed to write complete event", "error", err)
	}
}

// fetchOne は銘柄の存在をquoteで確認してから履歴データを取得し、
// 各行に銘柄コードを設定してrowsへ追記します。
func (eu *ExportUsecase) fetchOne(ctx context.Context, symbol string, req entity.ExportRequest, rows *[]entity.HistoricalRow) error {
	if _, err := eu.market.Quote(ctx, symbol); err != nil {
		return err
	}

	hs, err := eu.market.Historical(ctx, symbol, req.Start, req.End, req.Interval)
	if err != nil {
		return err
	}

	// 取得した行に銘柄コードを設定
	for i := range hs {
		hs[i].Symbol = symbol
	}
	*rows = append(*rows, hs...)
	return nil
}
