//go:build !cgo

package jsdoc

import (
	"context"
	"testing"
)

func TestParse_StubAlwaysFails(t *testing.T) {
	_, err := Parse(context.Background(), `const x = 1;`, "a.js", nil)
	if err == nil {
		t.Fatal("Parse() error = nil, want the stub's unavailable error")
	}
}

func TestIsAvailable_FalseWithoutCgo(t *testing.T) {
	if IsAvailable() {
		t.Error("IsAvailable() = true without cgo, want false")
	}
}
