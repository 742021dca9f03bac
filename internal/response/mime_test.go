package response

import "testing"

func TestMimeTable_Lookup(t *testing.T) {
	m := NewMimeTable("", map[string]string{
		"MD":    "text/x-markdown",
		".data": "application/x-data",
		"":      "ignored/empty",
		".bin":  " ",
	})

	cases := map[string]string{
		"index.html":     "text/html; charset=utf-8",
		"INDEX.HTML":     "text/html; charset=utf-8",
		"a/b/c.css":      "text/css; charset=utf-8",
		"readme.md":      "text/x-markdown",
		"blob.data":      "application/x-data",
		"blob.bin":       "application/octet-stream",
		"Makefile":       "application/octet-stream",
		"archive.tar.gz": "application/gzip",
	}
	for name, want := range cases {
		if got := m.Lookup(name); got != want {
			t.Fatalf("Lookup(%q) = %q, want %q", name, got, want)
		}
	}
}

func TestMimeTable_DefaultType(t *testing.T) {
	m := NewMimeTable("text/plain", nil)
	if got := m.Lookup("unknown.xyz"); got != "text/plain" {
		t.Fatalf("got %q", got)
	}
}
