package main

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"
)

func captureOutput(t *testing.T, fn func()) string {
	t.Helper()

	origStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	os.Stdout = w

	fn()

	_ = w.Close()
	os.Stdout = origStdout

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		t.Fatalf("failed to read stdout: %v", err)
	}
	return buf.String()
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Fatalf("expected short unchanged, got %q", got)
	}

	if got := truncate("longerstring", 6); got != "lon..." {
		t.Fatalf("expected lon..., got %q", got)
	}
}

func TestPrintJSON(t *testing.T) {
	out := captureOutput(t, func() {
		printJSON(struct {
			A int `json:"a"`
		}{A: 1})
	})

	expected := "{\n  \"a\": 1\n}\n"
	if out != expected {
		t.Fatalf("unexpected json output:\n%s", out)
	}
}

func TestMustParseAmount(t *testing.T) {
	if got := mustParseAmount("1500"); got != 1500 {
		t.Fatalf("expected 1500, got %d", got)
	}

	if got := mustParseAmount("-25"); got != -25 {
		t.Fatalf("expected -25, got %d", got)
	}
}

func TestIssueTokenCmd(t *testing.T) {
	cmd := issueTokenCmd()
	cmd.SetArgs([]string{"billing-svc", "--secret", "test-secret", "--scope", "ledger:write"})

	out := captureOutput(t, func() {
		if err := cmd.Execute(); err != nil {
			t.Fatalf("command failed: %v", err)
		}
	})

	token := strings.TrimSpace(out)
	if token == "" {
		t.Fatalf("expected a token on stdout")
	}
	if strings.Count(token, ".") != 2 {
		t.Fatalf("expected a JWT, got %q", token)
	}
}

func TestIssueTokenCmdRequiresSecret(t *testing.T) {
	orig := os.Getenv("JWT_SECRET")
	os.Unsetenv("JWT_SECRET")
	defer os.Setenv("JWT_SECRET", orig)

	cmd := issueTokenCmd()
	cmd.SetArgs([]string{"billing-svc"})
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)

	if err := cmd.Execute(); err == nil {
		t.Fatalf("expected error without a secret")
	}
}
