// Package http は外部API呼び出し用のHTTPクライアント構築を提供します。
package http

import (
	"net"
	"net/http"
	"time"
)

// NewHTTPClient は外部API呼び出し用に設定されたHTTPクライアントを作成します。
//
// 注意:
//   - http.DefaultClientにはタイムアウトがないため、常にこのクライアントを使用すること
//   - Transportは接続の安定性とリソース管理のために明示的に設定（接続タイムアウト、
//     アイドル接続数上限、TLSハンドシェイクタイムアウト）
func NewHTTPClient(timeout time.Duration) *http.Client {
	t := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
	}
	return &http.Client{Timeout: timeout, Transport: t}
}
