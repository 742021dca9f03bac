package response

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/yourname/static_lite/internal/models"
	"github.com/yourname/static_lite/pkg/staticproto"
)

// RangeSpec — включительный интервал байт [Start, End].
type RangeSpec struct {
	Start int64
	End   int64
}

// Length возвращает число байт в интервале.
func (r RangeSpec) Length() int64 {
	return r.End - r.Start + 1
}

// RangeOutcome: результат сопоставления заголовка Range с текущим размером файла.
type RangeOutcome int

const (
	// RangeFull: заголовка нет или он проигнорирован (другая единица, несколько диапазонов).
	RangeFull RangeOutcome = iota
	// RangePartial: один удовлетворимый диапазон.
	RangePartial
	// RangeUnsatisfiable: диапазон пуст или начинается за концом файла.
	RangeUnsatisfiable
)

// ParseRange разбирает одиночный диапазон вида "first-last", "first-" или "-suffix".
// На синтаксически неверный заголовок возвращается ErrMalformed.
func ParseRange(header string, size int64) (RangeSpec, RangeOutcome, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return RangeSpec{}, RangeFull, nil
	}

	unit, set, ok := strings.Cut(header, "=")
	if !ok {
		return RangeSpec{}, RangeFull, fmt.Errorf("%w: range %q", models.ErrMalformed, header)
	}
	if !strings.EqualFold(strings.TrimSpace(unit), staticproto.RangeUnit) {
		return RangeSpec{}, RangeFull, nil
	}
	// multipart/byteranges не поддерживается, отдаём файл целиком.
	if strings.Contains(set, ",") {
		return RangeSpec{}, RangeFull, nil
	}

	first, last, ok := strings.Cut(strings.TrimSpace(set), "-")
	if !ok {
		return RangeSpec{}, RangeFull, fmt.Errorf("%w: range %q", models.ErrMalformed, header)
	}
	first, last = strings.TrimSpace(first), strings.TrimSpace(last)

	if first == "" {
		suffix, err := parsePosition(last)
		if err != nil {
			return RangeSpec{}, RangeFull, fmt.Errorf("%w: range %q: %v", models.ErrMalformed, header, err)
		}
		if suffix == 0 || size == 0 {
			return RangeSpec{}, RangeUnsatisfiable, nil
		}
		if suffix > size {
			suffix = size
		}
		return RangeSpec{Start: size - suffix, End: size - 1}, RangePartial, nil
	}

	start, err := parsePosition(first)
	if err != nil {
		return RangeSpec{}, RangeFull, fmt.Errorf("%w: range %q: %v", models.ErrMalformed, header, err)
	}

	end := int64(math.MaxInt64)
	if last != "" {
		if end, err = parsePosition(last); err != nil {
			return RangeSpec{}, RangeFull, fmt.Errorf("%w: range %q: %v", models.ErrMalformed, header, err)
		}
		if end < start {
			return RangeSpec{}, RangeFull, fmt.Errorf("%w: range %q: last before first", models.ErrMalformed, header)
		}
	}

	if start >= size {
		return RangeSpec{}, RangeUnsatisfiable, nil
	}
	if end > size-1 {
		end = size - 1
	}

	return RangeSpec{Start: start, End: end}, RangePartial, nil
}

// parsePosition принимает только десятичные цифры; переполнение трактуется как MaxInt64.
func parsePosition(s string) (int64, error) {
	if s == "" {
		return 0, errors.New("empty position")
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, fmt.Errorf("invalid position %q", s)
		}
	}

	n, err := strconv.ParseInt(s, 10, 64)
	if errors.Is(err, strconv.ErrRange) {
		return math.MaxInt64, nil
	}
	return n, err
}
