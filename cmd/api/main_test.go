package main

import (
	"strings"
	"testing"
)

func TestRun_ReturnsConfigErrors(t *testing.T) {
	t.Setenv("JWT_SECRET", "short")
	t.Setenv("STORE_DRIVER", "bogus")

	err := run()
	if err == nil {
		t.Fatal("expected an error for invalid configuration")
	}
	if !strings.Contains(err.Error(), "load config") {
		t.Fatalf("expected config error, got %v", err)
	}
}
