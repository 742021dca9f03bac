//go:build unix

package resolver

import (
	"errors"
	"os"
	"path/filepath"
	"syscall"
	"testing"

	"github.com/yourname/static_lite/internal/models"
)

func TestResolve_SymlinkOutsideRootRejected(t *testing.T) {
	outside := t.TempDir()
	mustWrite(t, filepath.Join(outside, "secret.txt"), "secret")

	root := newTestRoot(t)
	if err := os.Symlink(filepath.Join(outside, "secret.txt"), filepath.Join(root, "leak.txt")); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(outside, filepath.Join(root, "leakdir")); err != nil {
		t.Fatal(err)
	}

	r := mustResolver(t, root, Options{})
	for _, p := range []string{"/leak.txt", "/leakdir/secret.txt"} {
		if _, err := r.Resolve(p); !errors.Is(err, models.ErrForbidden) {
			t.Fatalf("Resolve(%q) err = %v, want forbidden", p, err)
		}
	}
}

func TestResolve_SymlinkInsideRootFollowed(t *testing.T) {
	root := newTestRoot(t)
	if err := os.Symlink(filepath.Join(root, "a.txt"), filepath.Join(root, "alias.txt")); err != nil {
		t.Fatal(err)
	}

	r := mustResolver(t, root, Options{})
	got, err := r.Resolve("/alias.txt")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got.Path != filepath.Join(r.Root(), "a.txt") {
		t.Fatalf("path = %q, want canonical target", got.Path)
	}
}

func TestResolve_SymlinkedRootIsCanonicalised(t *testing.T) {
	target := newTestRoot(t)
	link := filepath.Join(t.TempDir(), "www")
	if err := os.Symlink(target, link); err != nil {
		t.Fatal(err)
	}

	r := mustResolver(t, link, Options{})
	if _, err := r.Resolve("/a.txt"); err != nil {
		t.Fatalf("resolve through symlinked root: %v", err)
	}
}

func TestResolve_IndexSymlinkOutsideRootRejected(t *testing.T) {
	outside := t.TempDir()
	mustWrite(t, filepath.Join(outside, "index.html"), "outside")

	root := newTestRoot(t)
	if err := os.MkdirAll(filepath.Join(root, "trap"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(filepath.Join(outside, "index.html"), filepath.Join(root, "trap", "index.html")); err != nil {
		t.Fatal(err)
	}

	r := mustResolver(t, root, Options{IndexFile: "index.html"})
	if _, err := r.Resolve("/trap/"); !errors.Is(err, models.ErrForbidden) {
		t.Fatalf("err = %v, want forbidden", err)
	}
}

func TestResolve_SpecialFileForbidden(t *testing.T) {
	root := newTestRoot(t)
	if err := syscall.Mkfifo(filepath.Join(root, "pipe"), 0o644); err != nil {
		t.Skipf("mkfifo unsupported: %v", err)
	}

	r := mustResolver(t, root, Options{})
	if _, err := r.Resolve("/pipe"); !errors.Is(err, models.ErrForbidden) {
		t.Fatalf("err = %v, want forbidden", err)
	}
}

func TestResolve_DanglingSymlinkNotFound(t *testing.T) {
	root := newTestRoot(t)
	if err := os.Symlink(filepath.Join(root, "gone.txt"), filepath.Join(root, "dangling.txt")); err != nil {
		t.Fatal(err)
	}

	r := mustResolver(t, root, Options{})
	if _, err := r.Resolve("/dangling.txt"); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("err = %v, want not found", err)
	}
}
