package filesvc

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/yourname/static_lite/internal/models"
)

// fileHandle описывает то, что нужно стримеру от открытого файла.
type fileHandle interface {
	io.ReaderAt
	io.Closer
	Stat() (fs.FileInfo, error)
}

// Подменяется в тестах, чтобы смоделировать сбои чтения и проверить закрытие файла.
var openFile = func(path string) (fileHandle, error) {
	return os.Open(path)
}

// Stream открывает файл плана и передаёт окно [Start, Start+Length) кусками по ChunkSize.
// Файл закрывается на любом пути выхода, включая отмену контекста.
func (s *Files) Stream(ctx context.Context, plan *Plan, w io.Writer) (int64, error) {
	d := plan.Descriptor
	if !d.HasBody() || d.Length == 0 {
		return 0, nil
	}

	f, err := openFile(plan.File.Path)
	if err != nil {
		return 0, fmt.Errorf("%w: open %q: %v", models.ErrIO, plan.File.Path, err)
	}
	defer f.Close()

	// Файл могли подменить между разрешением и открытием: проверяем, что окно ещё помещается.
	info, err := f.Stat()
	if err != nil {
		return 0, fmt.Errorf("%w: stat %q: %v", models.ErrIO, plan.File.Path, err)
	}
	if info.Size() < d.Start+d.Length {
		return 0, fmt.Errorf("%w: %q shrank to %d bytes", models.ErrIO, plan.File.Path, info.Size())
	}

	return copyWindow(ctx, w, io.NewSectionReader(f, d.Start, d.Length), d.Length, s.ChunkSize)
}

// copyWindow копирует ровно length байт через буфер фиксированного размера.
func copyWindow(ctx context.Context, w io.Writer, src io.Reader, length int64, chunk int) (int64, error) {
	if chunk <= 0 {
		chunk = DefaultChunkSize
	}
	if int64(chunk) > length {
		chunk = int(length)
	}
	buf := make([]byte, chunk)

	var written int64
	for written < length {
		if err := ctx.Err(); err != nil {
			return written, err
		}

		n, rerr := src.Read(buf)
		if n > 0 {
			m, werr := w.Write(buf[:n])
			written += int64(m)
			if werr != nil {
				return written, werr
			}
			if m != n {
				return written, io.ErrShortWrite
			}
		}

		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return written, fmt.Errorf("%w: read: %v", models.ErrIO, rerr)
		}
	}

	if written < length {
		return written, fmt.Errorf("%w: file ended after %d of %d bytes", models.ErrIO, written, length)
	}

	return written, nil
}
