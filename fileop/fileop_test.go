package fileop

import (
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestWriteAtomic(t *testing.T) {
	dir := t.TempDir()
	if err := WriteAtomic(dir, "index.html", func(w io.Writer) error {
		_, err := io.WriteString(w, "<html></html>")
		return err
	}); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(dir, "index.html")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "<html></html>" {
		t.Errorf("unexpected contents %q", data)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != filePerm {
		t.Errorf("expected mode %o, got %o", filePerm, info.Mode().Perm())
	}
}

func TestWriteAtomicFailureLeavesNothing(t *testing.T) {
	dir := t.TempDir()
	err := WriteAtomic(dir, "index.html", func(w io.Writer) error {
		io.WriteString(w, "partial")
		return os.ErrInvalid
	})
	if err == nil {
		t.Fatal("expected error")
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("expected empty dir, found %d entries", len(entries))
	}
}

func TestWriteAtomicKeepsOldFileOnFailure(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "me.pal")
	if err := os.WriteFile(path, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := WriteAtomic(dir, "me.pal", func(w io.Writer) error {
		io.WriteString(w, "RIFF")
		return os.ErrInvalid
	}); err == nil {
		t.Fatal("expected error")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "old" {
		t.Errorf("previous file replaced by partial write: %q", data)
	}
}

func TestCopyFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "me.png")
	if err := os.WriteFile(src, []byte("png"), 0o600); err != nil {
		t.Fatal(err)
	}

	dest := filepath.Join(dir, "out", "img", "me.png")
	if err := CopyFile(src, dest); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(dest)
	if err != nil || string(data) != "png" {
		t.Errorf("copy mismatch: %q, %v", data, err)
	}

	if err := CopyFile(dir, dest); err == nil {
		t.Error("expected error copying a directory")
	}
}
