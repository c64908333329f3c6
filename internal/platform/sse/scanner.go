package sse

import (
	"bytes"
	"io"
	"strings"
)

// Event は解析済みの1ブロックです。
type Event struct {
	Name string // "event:" 行の値
	Data string // "data:" 以降のpayload（複数行になり得る）
}

// Scanner はストリームから生バイトを逐次読み取り、完全なブロックだけを返します。
// 空行（二重改行）の終端が届いていないブロックはバッファに保持し、次の読み取りに
// 持ち越します。event行またはdata行を欠くブロックは読み飛ばします。
type Scanner struct {
	r   io.Reader
	buf []byte
	err error
}

// NewScanner はrを読み取るScannerを生成します。
func NewScanner(r io.Reader) *Scanner {
	return &Scanner{r: r}
}

// Next は次の整形済みイベントを返します。
// ストリームの終端ではio.EOFを返し、末尾の不完全なブロックは破棄されます。
func (s *Scanner) Next() (Event, error) {
	for {
		// バッファ内に完全なブロックがあれば先に処理する
		if i := bytes.Index(s.buf, []byte("\n\n")); i >= 0 {
			block := s.buf[:i]
			s.buf = s.buf[i+2:]
			if ev, ok := parseBlock(block); ok {
				return ev, nil
			}
			continue // 不正なブロックはスキップ
		}

		if s.err != nil {
			return Event{}, s.err
		}

		chunk := make([]byte, 4096)
		n, err := s.r.Read(chunk)
		if n > 0 {
			s.buf = append(s.buf, chunk[:n]...)
		}
		if err != nil {
			s.err = err
		}
	}
}

// parseBlock はブロックをイベント名行とdata payloadに分解します。
// completeイベントは生のCSVを運ぶため、payloadはブロックの残り全行に及びます。
func parseBlock(block []byte) (Event, bool) {
	text := strings.TrimLeft(string(block), "\n")

	first, rest, found := strings.Cut(text, "\n")
	if !found {
		return Event{}, false
	}
	if !strings.HasPrefix(first, "event:") {
		return Event{}, false
	}
	name := strings.TrimSpace(strings.TrimPrefix(first, "event:"))
	if name == "" {
		return Event{}, false
	}

	if !strings.HasPrefix(rest, "data:") {
		return Event{}, false
	}
	data := strings.TrimPrefix(rest, "data:")
	data = strings.TrimPrefix(data, " ")

	return Event{Name: name, Data: data}, true
}
