package filesvc

import (
	"bytes"
	"context"
	"errors"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/yourname/static_lite/internal/models"
	"github.com/yourname/static_lite/internal/resolver"
	"github.com/yourname/static_lite/internal/response"
)

func newFiles(t *testing.T, chunk int) (*Files, string) {
	t.Helper()

	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "a.txt"), []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}
	big := bytes.Repeat([]byte("0123456789abcdef"), 4096)
	if err := os.WriteFile(filepath.Join(root, "big.bin"), big, 0o644); err != nil {
		t.Fatal(err)
	}

	res, err := resolver.New(root, resolver.Options{})
	if err != nil {
		t.Fatal(err)
	}

	return New(Deps{
		Resolver:  res,
		Builder:   response.NewBuilder(response.NewMimeTable("", nil)),
		ChunkSize: chunk,
	}), root
}

func TestHandleAndStream_Full(t *testing.T) {
	svc, _ := newFiles(t, 0)

	plan, err := svc.Handle(context.Background(), "/a.txt", http.Header{})
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if plan.Descriptor.Status != http.StatusOK {
		t.Fatalf("status = %d", plan.Descriptor.Status)
	}

	var buf bytes.Buffer
	n, err := svc.Stream(context.Background(), plan, &buf)
	if err != nil {
		t.Fatalf("stream: %v", err)
	}
	if n != 5 || buf.String() != "hello" {
		t.Fatalf("got %d bytes %q", n, buf.String())
	}
}

func TestHandleAndStream_Partial(t *testing.T) {
	svc, _ := newFiles(t, 0)

	h := http.Header{}
	h.Set("Range", "bytes=2-3")
	plan, err := svc.Handle(context.Background(), "/a.txt", h)
	if err != nil {
		t.Fatalf("handle: %v", err)
	}

	var buf bytes.Buffer
	if _, err := svc.Stream(context.Background(), plan, &buf); err != nil {
		t.Fatalf("stream: %v", err)
	}
	if buf.String() != "ll" {
		t.Fatalf("got %q", buf.String())
	}
}

func TestHandle_Rejections(t *testing.T) {
	svc, _ := newFiles(t, 0)

	if _, err := svc.Handle(context.Background(), "/missing.txt", http.Header{}); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("missing: %v", err)
	}
	if _, err := svc.Handle(context.Background(), "/../etc/passwd", http.Header{}); !errors.Is(err, models.ErrForbidden) {
		t.Fatalf("traversal: %v", err)
	}

	h := http.Header{}
	h.Set("Range", "bytes=oops")
	if _, err := svc.Handle(context.Background(), "/a.txt", h); !errors.Is(err, models.ErrMalformed) {
		t.Fatalf("bad range: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := svc.Handle(ctx, "/a.txt", http.Header{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("canceled: %v", err)
	}
}

func TestStream_NoBodyStatusesSkipOpen(t *testing.T) {
	svc, _ := newFiles(t, 0)

	old := openFile
	openFile = func(string) (fileHandle, error) {
		t.Fatalf("file must not be opened for a bodiless response")
		return nil, nil
	}
	defer func() { openFile = old }()

	for _, status := range []int{http.StatusNotModified, http.StatusPreconditionFailed, http.StatusRequestedRangeNotSatisfiable} {
		plan := &Plan{Descriptor: response.Descriptor{Status: status}}
		if n, err := svc.Stream(context.Background(), plan, io.Discard); err != nil || n != 0 {
			t.Fatalf("status %d: n=%d err=%v", status, n, err)
		}
	}
}

func TestStream_ChunkedCopyMatchesFile(t *testing.T) {
	svc, root := newFiles(t, 1000)
	want, err := os.ReadFile(filepath.Join(root, "big.bin"))
	if err != nil {
		t.Fatal(err)
	}

	plan, err := svc.Handle(context.Background(), "/big.bin", http.Header{})
	if err != nil {
		t.Fatal(err)
	}

	w := &recordingWriter{}
	if _, err := svc.Stream(context.Background(), plan, w); err != nil {
		t.Fatalf("stream: %v", err)
	}
	if !bytes.Equal(w.buf.Bytes(), want) {
		t.Fatalf("streamed bytes differ")
	}
	if w.maxWrite > 1000 {
		t.Fatalf("write of %d bytes exceeds chunk size", w.maxWrite)
	}
}

func TestStream_FileShrunkAfterResolve(t *testing.T) {
	svc, root := newFiles(t, 0)

	plan, err := svc.Handle(context.Background(), "/a.txt", http.Header{})
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "a.txt"), []byte("hi"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := svc.Stream(context.Background(), plan, io.Discard); !errors.Is(err, models.ErrIO) {
		t.Fatalf("err = %v, want io error", err)
	}
}

func TestStream_ClosesFileOnEveryPath(t *testing.T) {
	svc, _ := newFiles(t, 4)
	plan := &Plan{
		File:       models.ResolvedFile{Path: "fake", Size: 16},
		Descriptor: response.Descriptor{Status: http.StatusOK, Start: 0, Length: 16},
	}

	cases := []struct {
		name   string
		handle *fakeHandle
		ctx    func() context.Context
		w      io.Writer
		want   error
	}{
		{
			name:   "read error",
			handle: &fakeHandle{data: []byte(strings.Repeat("x", 16)), failAt: 8},
			ctx:    context.Background,
			w:      io.Discard,
			want:   models.ErrIO,
		},
		{
			name:   "canceled",
			handle: &fakeHandle{data: []byte(strings.Repeat("x", 16))},
			ctx: func() context.Context {
				ctx, cancel := context.WithCancel(context.Background())
				cancel()
				return ctx
			},
			w:    io.Discard,
			want: context.Canceled,
		},
		{
			name:   "client gone",
			handle: &fakeHandle{data: []byte(strings.Repeat("x", 16))},
			ctx:    context.Background,
			w:      failingWriter{},
			want:   errClientGone,
		},
		{
			name:   "stat error",
			handle: &fakeHandle{statErr: errors.New("stale handle")},
			ctx:    context.Background,
			w:      io.Discard,
			want:   models.ErrIO,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			old := openFile
			openFile = func(string) (fileHandle, error) { return tc.handle, nil }
			defer func() { openFile = old }()

			_, err := svc.Stream(tc.ctx(), plan, tc.w)
			if !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
			if !tc.handle.closed {
				t.Fatalf("file handle left open")
			}
		})
	}
}

func TestStream_OpenError(t *testing.T) {
	svc, _ := newFiles(t, 0)

	old := openFile
	openFile = func(string) (fileHandle, error) { return nil, fs.ErrPermission }
	defer func() { openFile = old }()

	plan := &Plan{Descriptor: response.Descriptor{Status: http.StatusOK, Length: 1}}
	if _, err := svc.Stream(context.Background(), plan, io.Discard); !errors.Is(err, models.ErrIO) {
		t.Fatalf("err = %v, want io error", err)
	}
}

var errClientGone = errors.New("client gone")

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errClientGone }

type recordingWriter struct {
	buf      bytes.Buffer
	maxWrite int
}

func (w *recordingWriter) Write(p []byte) (int, error) {
	if len(p) > w.maxWrite {
		w.maxWrite = len(p)
	}
	return w.buf.Write(p)
}

type fakeHandle struct {
	data    []byte
	failAt  int64
	statErr error
	closed  bool
}

func (f *fakeHandle) ReadAt(p []byte, off int64) (int, error) {
	if f.failAt > 0 && off >= f.failAt {
		return 0, errors.New("disk on fire")
	}
	if off >= int64(len(f.data)) {
		return 0, io.EOF
	}
	n := copy(p, f.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func (f *fakeHandle) Close() error {
	f.closed = true
	return nil
}

func (f *fakeHandle) Stat() (fs.FileInfo, error) {
	if f.statErr != nil {
		return nil, f.statErr
	}
	return fakeInfo{size: int64(len(f.data))}, nil
}

type fakeInfo struct{ size int64 }

func (i fakeInfo) Name() string       { return "fake" }
func (i fakeInfo) Size() int64        { return i.size }
func (i fakeInfo) Mode() fs.FileMode  { return 0o644 }
func (i fakeInfo) ModTime() time.Time { return time.Time{} }
func (i fakeInfo) IsDir() bool        { return false }
func (i fakeInfo) Sys() any           { return nil }
