package builtins

import (
	"bufio"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/itmoscript/itmoscript/internal/errors"
	"github.com/itmoscript/itmoscript/internal/value"
	"github.com/itmoscript/itmoscript/pkg/token"
)

func TestPrintWritesStringsUnquoted(t *testing.T) {
	r := NewRegistry()
	var out bytes.Buffer
	r.Call("print", []value.Value{value.NewString("hi")}, token.Position{}, nil, &out, nil)
	r.Call("print", []value.Value{value.Int{Value: 5}}, token.Position{}, nil, &out, nil)
	if out.String() != "hi5" {
		t.Errorf("got %q, want %q", out.String(), "hi5")
	}
}

func TestPrintlnAddsNewline(t *testing.T) {
	r := NewRegistry()
	var out bytes.Buffer
	r.Call("println", []value.Value{value.NewString("hi")}, token.Position{}, nil, &out, nil)
	if out.String() != "hi\n" {
		t.Errorf("got %q, want %q", out.String(), "hi\n")
	}
}

func TestReadReturnsOneLineAtATime(t *testing.T) {
	r := NewRegistry()
	in := bufio.NewReader(strings.NewReader("first\nsecond\n"))
	got, err := r.Call("read", nil, token.Position{}, nil, nil, in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.(value.String).Value() != "first" {
		t.Errorf("got %q, want %q", got.(value.String).Value(), "first")
	}
	got, err = r.Call("read", nil, token.Position{}, nil, nil, in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.(value.String).Value() != "second" {
		t.Errorf("got %q, want %q", got.(value.String).Value(), "second")
	}
}

func TestFileWriteReadAppendRoundTrip(t *testing.T) {
	r := NewRegistry()
	path := filepath.Join(t.TempDir(), "out.txt")

	_, err := r.Call("file_write", []value.Value{value.NewString(path), value.NewString("hello")}, token.Position{}, nil, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err = r.Call("file_append", []value.Value{value.NewString(path), value.NewString(" world")}, token.Position{}, nil, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := r.Call("file_read", []value.Value{value.NewString(path)}, token.Position{}, nil, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.(value.String).Value() != "hello world" {
		t.Errorf("got %q, want %q", got.(value.String).Value(), "hello world")
	}
}

func TestFileReadLinesSplitsOnNewlines(t *testing.T) {
	r := NewRegistry()
	path := filepath.Join(t.TempDir(), "lines.txt")
	if err := os.WriteFile(path, []byte("a\nb\nc\n"), 0644); err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	got, err := r.Call("file_read_lines", []value.Value{value.NewString(path)}, token.Position{}, nil, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	elems := *got.(value.List).Elements()
	if len(elems) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(elems))
	}
}

func TestFileReadMissingFileIsFileAccessError(t *testing.T) {
	r := NewRegistry()
	_, err := r.Call("file_read", []value.Value{value.NewString("/nonexistent/path/does-not-exist")}, token.Position{}, nil, nil, nil)
	if err == nil {
		t.Fatalf("expected an error")
	}
	rerr, ok := err.(*errors.RuntimeError)
	if !ok || rerr.Kind != errors.FileAccess {
		t.Fatalf("expected a FileAccess error, got %v", err)
	}
}
