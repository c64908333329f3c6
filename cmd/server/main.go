package main

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	redisv9 "github.com/redis/go-redis/v9"

	"stock_export/internal/app/router"
	"stock_export/internal/feature/export/adapters/yahoo"
	exporthandler "stock_export/internal/feature/export/transport/handler"
	exportusecase "stock_export/internal/feature/export/usecase"
	"stock_export/internal/platform/cache"
	platformhttp "stock_export/internal/platform/http"
	platformredis "stock_export/internal/platform/redis"
	"stock_export/internal/shared/ratelimiter"
)

func main() {
	// .envがあれば読み込む（無くてもよい）
	_ = godotenv.Load()

	// Redis（任意。使えない場合はキャッシュなしで動作する）
	var rdb *redisv9.Client
	if tmp, err := platformredis.NewRedisClient(); err != nil {
		log.Println("[WARN] Redis unavailable. Running without cache.")
		rdb = nil
	} else {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Println("[ERROR] Failed to close Redis client:", err)
			}
		}()
	}

	// Provider
	cfg := yahoo.LoadConfig()
	market := yahoo.NewYahooMarket(cfg, platformhttp.NewHTTPClient(cfg.Timeout))

	// Redisキャッシュでラップ
	cachedMarket := cache.NewCachingMarketRepository(rdb, cacheTTL(), market, "market")

	// Usecase
	limiter := ratelimiter.NewFixedDelayLimiter(fetchDelay())
	exportUC := exportusecase.NewExportUsecase(cachedMarket, limiter)

	// Handler
	exportH := exporthandler.NewExportHandler(exportUC)

	// ルータ生成
	r := router.NewRouter(exportH)

	addr := os.Getenv("APP_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	if err := r.Run(addr); err != nil {
		log.Fatal(err)
	}
}

// fetchDelay は銘柄ごとのプロバイダー呼び出し前の待機時間を返します。
// FETCH_DELAY_MSで指定、デフォルトは500msです。
func fetchDelay() time.Duration {
	if v := os.Getenv("FETCH_DELAY_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms >= 0 {
			return time.Duration(ms) * time.Millisecond
		}
	}
	return 500 * time.Millisecond
}

// cacheTTL はプロバイダーレスポンスのキャッシュ期間を返します。
// CACHE_TTL_MINで指定、デフォルトは15分です。
func cacheTTL() time.Duration {
	if v := os.Getenv("CACHE_TTL_MIN"); v != "" {
		if m, err := strconv.Atoi(v); err == nil && m > 0 {
			return time.Duration(m) * time.Minute
		}
	}
	return 15 * time.Minute
}
