package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/oapi-codegen/runtime/types"

	"stock_export/internal/feature/export/client"
	"stock_export/internal/feature/export/domain/entity"
	"stock_export/internal/feature/export/transport/http/dto"
)

const dateFormat = "2006-01-02"

func main() {
	// .envがあれば読み込む（無くてもよい）
	_ = godotenv.Load()

	var (
		symbolsFlag  = flag.String("symbols", "", "comma separated ticker symbols (e.g. AAPL,MSFT)")
		startFlag    = flag.String("start", "", "start date (YYYY-MM-DD)")
		endFlag      = flag.String("end", "", "end date (YYYY-MM-DD)")
		intervalFlag = flag.String("interval", "1d", "sampling interval: 1d, 1wk or 1mo")
		serverFlag   = flag.String("server", envOr("EXPORT_SERVER_URL", "http://localhost:8080"), "export server base URL")
		outFlag      = flag.String("out", ".", "output directory for the CSV file")
	)
	flag.Parse()

	// 銘柄リストが空ならリクエストを発行せず終了する
	symbols := parseSymbols(*symbolsFlag)
	if len(symbols) == 0 {
		log.Fatal("no symbols given (use -symbols AAPL,MSFT)")
	}

	if iv := entity.Interval(*intervalFlag); !iv.Valid() {
		log.Fatalf("invalid -interval %q (want 1d, 1wk or 1mo)", *intervalFlag)
	}

	start, err := time.Parse(dateFormat, *startFlag)
	if err != nil {
		log.Fatal("invalid -start date: ", err)
	}
	end, err := time.Parse(dateFormat, *endFlag)
	if err != nil {
		log.Fatal("invalid -end date: ", err)
	}

	req := dto.ExportRequest{
		Symbols:   symbols,
		StartDate: types.Date{Time: start},
		EndDate:   types.Date{Time: end},
		Interval:  *intervalFlag,
	}

	c := client.New(*serverFlag, &http.Client{})

	csvText, err := c.Export(context.Background(), req, func(p client.Progress) {
		if p.Error != "" {
			slog.Warn("progress", "current", p.Current, "total", p.Total, "error", p.Error)
			return
		}
		slog.Info("progress", "current", p.Current, "total", p.Total)
	})
	if err != nil {
		log.Fatal(err)
	}

	// ファイル末尾は改行で終える
	if len(csvText) > 0 && csvText[len(csvText)-1] != '\n' {
		csvText = append(csvText, '\n')
	}

	outPath := filepath.Join(*outFlag, client.FileName)
	if err := os.WriteFile(outPath, csvText, 0o644); err != nil {
		log.Fatal(err)
	}
	log.Println("saved", outPath)
}

// parseSymbols はカンマ区切りの入力をトリム・大文字化し、空要素を除いて返します。
func parseSymbols(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToUpper(strings.TrimSpace(p))
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}

// envOr は環境変数の値、未設定ならデフォルト値を返します。
func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
