// Package response выбирает, что отправить клиенту для уже разрешённого файла:
// тело целиком, 304, 412, 206 с одним диапазоном или 416.
package response

import (
	"net/http"
	"strconv"

	"github.com/yourname/static_lite/internal/models"
	"github.com/yourname/static_lite/pkg/staticproto"
)

// Descriptor — статус, заголовки и окно файла [Start, Start+Length), которое надо передать.
type Descriptor struct {
	Status int
	Header http.Header
	Start  int64
	Length int64
}

// HasBody сообщает, передаётся ли тело (200 и 206).
func (d Descriptor) HasBody() bool {
	return d.Status == http.StatusOK || d.Status == http.StatusPartialContent
}

// Builder строит Descriptor; состояния между запросами не хранит.
type Builder struct {
	mime *MimeTable
}

// NewBuilder создаёт построитель ответов с заданной MIME-таблицей.
func NewBuilder(mime *MimeTable) *Builder {
	if mime == nil {
		mime = NewMimeTable("", nil)
	}
	return &Builder{mime: mime}
}

// Build вычисляет ответ по текущим метаданным файла и условным заголовкам.
// Ошибка возвращается только для синтаксически неверного Range.
func (b *Builder) Build(file models.ResolvedFile, cond Conditions) (Descriptor, error) {
	v := NewValidators(file)

	switch cond.evaluate(v) {
	case conditionPreconditionFailed:
		return Descriptor{Status: http.StatusPreconditionFailed, Header: http.Header{}}, nil
	case conditionNotModified:
		return Descriptor{Status: http.StatusNotModified, Header: validatorHeader(v)}, nil
	}

	if cond.Range != "" && cond.rangeAllowed(v) {
		spec, outcome, err := ParseRange(cond.Range, file.Size)
		if err != nil {
			return Descriptor{}, err
		}

		switch outcome {
		case RangeUnsatisfiable:
			h := http.Header{}
			h.Set(staticproto.HeaderContentRange, staticproto.FormatUnsatisfiedRange(file.Size))
			return Descriptor{Status: http.StatusRequestedRangeNotSatisfiable, Header: h}, nil
		case RangePartial:
			h := b.successHeader(file, v, spec.Length())
			h.Set(staticproto.HeaderContentRange, staticproto.FormatContentRange(spec.Start, spec.End, file.Size))
			return Descriptor{
				Status: http.StatusPartialContent,
				Header: h,
				Start:  spec.Start,
				Length: spec.Length(),
			}, nil
		}
	}

	return Descriptor{
		Status: http.StatusOK,
		Header: b.successHeader(file, v, file.Size),
		Start:  0,
		Length: file.Size,
	}, nil
}

func (b *Builder) successHeader(file models.ResolvedFile, v Validators, length int64) http.Header {
	h := validatorHeader(v)
	h.Set(staticproto.HeaderContentType, b.mime.Lookup(file.Name()))
	h.Set(staticproto.HeaderContentLength, strconv.FormatInt(length, 10))
	h.Set(staticproto.HeaderAcceptRanges, staticproto.RangeUnit)
	return h
}

func validatorHeader(v Validators) http.Header {
	h := http.Header{}
	h.Set(staticproto.HeaderETag, v.ETag)
	if v.HasLastModified() {
		h.Set(staticproto.HeaderLastModified, v.LastModifiedHeader())
	}
	return h
}
