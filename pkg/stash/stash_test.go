package stash_test

import (
	"io"
	"os"
	"strings"
	"testing"

	"github.com/sabouaram/explode/pkg/stash"
)

func TestInsertAndOpen(t *testing.T) {
	s, err := stash.NewIn(t.TempDir())
	if err != nil {
		t.Fatalf("NewIn: %v", err)
	}
	defer s.Close()

	h, err := s.Insert(strings.NewReader("hello"))
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}

	m, err := s.Open(h)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer m.Close()

	got, err := io.ReadAll(m)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if string(got) != "hello" {
		t.Fatalf("got %q, want %q", got, "hello")
	}
}

func TestHandlesAreMonotone(t *testing.T) {
	s, err := stash.NewIn(t.TempDir())
	if err != nil {
		t.Fatalf("NewIn: %v", err)
	}
	defer s.Close()

	h1, _ := s.Insert(strings.NewReader("a"))
	h2, _ := s.Insert(strings.NewReader("b"))

	if h1.String() == h2.String() {
		t.Fatalf("expected distinct handles, got %s and %s", h1, h2)
	}
	if s.PathOf(h1) == s.PathOf(h2) {
		t.Fatalf("expected distinct paths for distinct handles")
	}
}

func TestRelease(t *testing.T) {
	s, err := stash.NewIn(t.TempDir())
	if err != nil {
		t.Fatalf("NewIn: %v", err)
	}
	defer s.Close()

	h, _ := s.Insert(strings.NewReader("x"))
	path := s.PathOf(h)

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected stashed file to exist: %v", err)
	}

	if err := s.Release(h); err != nil {
		t.Fatalf("Release: %v", err)
	}

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected file removed after Release, stat err = %v", err)
	}
}

func TestCloseRemovesDirectory(t *testing.T) {
	parent := t.TempDir()
	s, err := stash.NewIn(parent)
	if err != nil {
		t.Fatalf("NewIn: %v", err)
	}

	h, _ := s.Insert(strings.NewReader("x"))
	path := s.PathOf(h)

	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected stash contents removed on Close")
	}
}

func TestIntoPathSuppressesCleanup(t *testing.T) {
	parent := t.TempDir()
	s, err := stash.NewIn(parent)
	if err != nil {
		t.Fatalf("NewIn: %v", err)
	}

	h, _ := s.Insert(strings.NewReader("x"))
	path := s.PathOf(h)

	dir := s.IntoPath()
	if err := s.Close(); err != nil {
		t.Fatalf("Close after IntoPath: %v", err)
	}

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected file to survive IntoPath+Close: %v", err)
	}
	_ = os.RemoveAll(dir)
}
