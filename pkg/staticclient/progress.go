package staticclient

import (
	"fmt"
	"io"
	"math"
	"strings"
	"sync"
	"time"
)

const (
	barWidth    = 32
	redrawEvery = 120 * time.Millisecond
)

// downloadProgress рисует в out строку "Downloading x [====    ]  42% 1.2 MB/3.0 MB"
// и перерисовывает её через \r не чаще redrawEvery. Методы nil-индикатора ничего не делают.
type downloadProgress struct {
	out   io.Writer
	label string
	total int64

	mu     sync.Mutex
	have   int64
	drawn  time.Time
	width  int
	closed bool
}

// newDownloadProgress возвращает nil, если out не задан. have учитывает байты,
// уже лежащие на диске при докачке.
func newDownloadProgress(out io.Writer, label string, have, total int64) *downloadProgress {
	if out == nil {
		return nil
	}
	return &downloadProgress{out: out, label: label, have: have, total: total}
}

func (p *downloadProgress) add(n int) {
	if p == nil || n <= 0 {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}

	p.have += int64(n)
	if now := time.Now(); now.Sub(p.drawn) >= redrawEvery {
		p.drawn = now
		p.drawLocked("", false)
	}
}

// done дорисовывает итоговую строку с отметкой успеха или ошибки.
func (p *downloadProgress) done(err error) {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true

	mark := " ✓"
	if err != nil {
		mark = " ✗ " + err.Error()
	}
	p.drawLocked(mark, true)
}

func (p *downloadProgress) drawLocked(mark string, last bool) {
	line := p.label + " " + p.status() + mark

	// Затираем хвост предыдущей, более длинной строки.
	pad := ""
	if p.width > len(line) {
		pad = strings.Repeat(" ", p.width-len(line))
	}
	p.width = len(line)

	end := ""
	if last {
		end = "\n"
	}
	fmt.Fprintf(p.out, "\r%s%s%s", line, pad, end)
}

func (p *downloadProgress) status() string {
	if p.total <= 0 {
		return humanBytes(p.have) + " transferred"
	}

	ratio := math.Min(float64(p.have)/float64(p.total), 1)
	filled := int(ratio*barWidth + 0.5)
	return fmt.Sprintf("[%s%s] %3d%% %s/%s",
		strings.Repeat("=", filled), strings.Repeat(" ", barWidth-filled),
		int(ratio*100+0.5), humanBytes(p.have), humanBytes(p.total))
}

// progressReader считает прочитанные из тела ответа байты.
type progressReader struct {
	io.ReadCloser
	p *downloadProgress
}

func withProgress(rc io.ReadCloser, p *downloadProgress) io.ReadCloser {
	if p == nil {
		return rc
	}
	return progressReader{ReadCloser: rc, p: p}
}

func (r progressReader) Read(b []byte) (int, error) {
	n, err := r.ReadCloser.Read(b)
	r.p.add(n)
	return n, err
}

func humanBytes(v int64) string {
	const unit = 1024
	if v < unit {
		return fmt.Sprintf("%d B", v)
	}

	div, exp := int64(unit), 0
	for n := v / unit; n >= unit && exp < 4; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(v)/float64(div), "KMGTP"[exp])
}
