package choiceserver

import (
	"bytes"
	"go/format"
	"os"
	"testing"
)

func TestRouterSourceIsGofmted(t *testing.T) {
	src, err := os.ReadFile("router.go")
	if err != nil {
		t.Fatalf("read router.go: %v", err)
	}
	out, err := format.Source(src)
	if err != nil {
		t.Fatalf("format router.go: %v", err)
	}
	if !bytes.Equal(src, out) {
		t.Fatalf("router.go is not gofmt-formatted")
	}
}
