// Package router はアプリケーションのHTTPルーティングを構成します。
package router

import (
	"github.com/gin-gonic/gin"

	exporthandler "stock_export/internal/feature/export/transport/handler"
	platformhandler "stock_export/internal/platform/http/handler"
)

// NewRouter は全エンドポイントを登録したginルーターを生成します。
func NewRouter(export *exporthandler.ExportHandler) *gin.Engine {
	r := gin.Default()

	// 導通確認用
	r.GET("/healthz", platformhandler.Health)

	// 履歴データのエクスポート（イベントストリームを返す）
	r.POST("/stocks/export", export.Export)

	return r
}
