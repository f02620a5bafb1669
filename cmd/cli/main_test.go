package main

import (
	"strings"
	"testing"
)

func TestRenderConsistency(t *testing.T) {
	out := renderConsistency(map[string]any{
		"consistent":   true,
		"net_balance":  "150.00",
		"net_recorded": "150.00",
	})

	if !strings.Contains(out, "PASSED") {
		t.Fatalf("expected PASSED, got %q", out)
	}
	if !strings.Contains(out, "150.00") {
		t.Fatalf("expected amounts in output, got %q", out)
	}
}

func TestRenderConsistencyMismatch(t *testing.T) {
	out := renderConsistency(map[string]any{
		"consistent":   false,
		"net_balance":  "150.00",
		"net_recorded": "140.00",
	})

	if !strings.Contains(out, "FAILED") {
		t.Fatalf("expected FAILED, got %q", out)
	}
}
