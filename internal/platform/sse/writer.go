// Package sse はテキストイベントストリームの書き込みと逐次解析を提供します。
//
// ワイヤ形式は空行区切りのブロックです:
//
//	event: <name>\n
//	data: <payload>\n
//	\n
//
// payload はJSONまたは生テキスト（複数行のCSVを含む）を許容します。
package sse

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
)

// ErrStreamingUnsupported はResponseWriterがフラッシュに対応していない場合に返されます。
var ErrStreamingUnsupported = errors.New("sse: streaming unsupported by response writer")

// Writer は1つのHTTPレスポンスにイベントブロックを書き込みます。
// イベントごとにフラッシュするため、書き込み完了を待ってから次のイベントに進みます。
type Writer struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

// NewWriter はResponseWriterをラップしたWriterを生成します。
func NewWriter(w http.ResponseWriter) (*Writer, error) {
	f, ok := w.(http.Flusher)
	if !ok {
		return nil, ErrStreamingUnsupported
	}
	return &Writer{w: w, flusher: f}, nil
}

// WriteHeaders はイベントストリーム用のレスポンスヘッダーを設定します。
// 最初のWriteEventより前に一度だけ呼び出してください。
func (w *Writer) WriteHeaders() {
	h := w.w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	w.w.WriteHeader(http.StatusOK)
	w.flusher.Flush()
}

// WriteEvent は1つのイベントブロックを書き込み、即座にフラッシュします。
// payload末尾の改行はブロック終端（空行）と衝突するため取り除きます。
func (w *Writer) WriteEvent(name string, data []byte) error {
	data = bytes.TrimRight(data, "\n")
	if _, err := fmt.Fprintf(w.w, "event: %s\ndata: %s\n\n", name, data); err != nil {
		return err
	}
	w.flusher.Flush()
	return nil
}
