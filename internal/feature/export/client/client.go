// Package client は履歴データエクスポートAPIのストリーミングクライアントです。
// リクエストを1回発行し、イベントストリームを逐次解析して進捗を通知し、
// completeイベントのCSVテキストを返します。
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"stock_export/internal/feature/export/transport/http/dto"
	"stock_export/internal/platform/sse"
)

// FileName は保存するCSVの固定ファイル名です。
const FileName = "stock_historical_data.csv"

// ErrNoTerminalEvent はストリームが終端イベント（completeまたはerror）なしで
// 終了した場合に返されます。
var ErrNoTerminalEvent = errors.New("client: stream ended without a terminal event")

// Progress は受信した進捗イベントの内容です。
type Progress struct {
	Current int
	Total   int
	Error   string // これまでに失敗した銘柄の表示用文字列（失敗が無ければ空）
}

// Client はエクスポートサーバーへのストリーミングHTTPクライアントです。
type Client struct {
	baseURL string
	hc      *http.Client
}

// New は指定されたベースURLとHTTPクライアントでClientを生成します。
// ストリームは長時間開いたままになるため、hcに全体タイムアウトを設定しないでください。
func New(baseURL string, hc *http.Client) *Client {
	if hc == nil {
		hc = &http.Client{}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), hc: hc}
}

// Export はリクエストを送信し、completeイベントが運ぶCSVテキストを返します。
// onProgress はprogressイベントごとに呼び出されます（nil可）。
// errorイベント、HTTPエラー、ストリームの異常終了はエラーとして返します。
func (c *Client) Export(ctx context.Context, req dto.ExportRequest, onProgress func(Progress)) ([]byte, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/stocks/export", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	res, err := c.hc.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	// ストリーム開始前のエラーはJSONボディで届く
	if res.StatusCode != http.StatusOK {
		var er dto.ErrorResponse
		if err := json.NewDecoder(res.Body).Decode(&er); err == nil && er.Message != "" {
			return nil, fmt.Errorf("server: %s", er.Message)
		}
		return nil, fmt.Errorf("server: http %d", res.StatusCode)
	}

	sc := sse.NewScanner(res.Body)
	for {
		ev, err := sc.Next()
		if errors.Is(err, io.EOF) {
			return nil, ErrNoTerminalEvent
		}
		if err != nil {
			return nil, err
		}

		switch ev.Name {
		case "progress":
			var p dto.ProgressEvent
			if err := json.Unmarshal([]byte(ev.Data), &p); err != nil {
				continue // 不正なpayloadはスキップ
			}
			if onProgress != nil {
				onProgress(Progress{Current: p.Current, Total: p.Total, Error: p.Error})
			}
		case "complete":
			// payloadはCSVの生テキストそのもの
			return []byte(ev.Data), nil
		case "error":
			var e dto.StreamError
			if err := json.Unmarshal([]byte(ev.Data), &e); err != nil || e.Error == "" {
				return nil, errors.New("export failed")
			}
			return nil, errors.New(e.Error)
		}
		// 未知のイベント名は読み飛ばす
	}
}
