package cmd

import (
	"context"
	"errors"
	"net"
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

func TestExecute_UnknownCommand(t *testing.T) {
	err := Execute(context.Background(), []string{"teleport"})
	if err == nil {
		t.Fatal("expected error for unknown command")
	}
	if ExitCode(err) != exitUsage {
		t.Fatalf("exit code = %d, want %d", ExitCode(err), exitUsage)
	}
}

func TestExecute_InvalidOutputFormat(t *testing.T) {
	withSnapshot(t, sampleSnapshot(), nil)
	err := Execute(context.Background(), []string{"search", "-o", "yaml"})
	if err == nil {
		t.Fatal("expected error for invalid output format")
	}
}

func TestExecute_JSONConflictsWithExplicitOutput(t *testing.T) {
	withSnapshot(t, sampleSnapshot(), nil)
	err := Execute(context.Background(), []string{"search", "--json", "-o", "text"})
	if err == nil {
		t.Fatal("expected conflict error")
	}
}

func TestExecute_JQImpliesJSONOutput(t *testing.T) {
	withSnapshot(t, sampleSnapshot(), nil)
	output := captureStdout(t, func() {
		if err := Execute(context.Background(), []string{"search", "--jq", ".query"}); err != nil {
			t.Fatalf("search failed: %v", err)
		}
	})
	if strings.TrimSpace(output) != `""` {
		t.Fatalf("expected filtered JSON output, got %q", output)
	}
}

func TestExecute_VersionCommand(t *testing.T) {
	output := captureStdout(t, func() {
		if err := Execute(context.Background(), []string{"version"}); err != nil {
			t.Fatalf("version failed: %v", err)
		}
	})
	if !strings.Contains(output, "mercury-cli version dev") {
		t.Fatalf("unexpected version output: %q", output)
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, exitOK},
		{"help", pflag.ErrHelp, exitOK},
		{"generic", errors.New("boom"), exitGeneric},
		{"usage", errors.New(`unknown flag: --frob`), exitUsage},
		{"deadline", context.DeadlineExceeded, exitNetwork},
		{"refused", errors.New("dial tcp: connection refused"), exitNetwork},
		{"net op", &net.OpError{Op: "dial", Err: errors.New("down")}, exitNetwork},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestSearch_StoreErrorPropagates(t *testing.T) {
	withSnapshot(t, nil, errors.New("dial tcp 127.0.0.1:6390: connection refused"))

	err := Execute(context.Background(), []string{"search", "alice"})
	if err == nil {
		t.Fatal("expected store error to propagate")
	}
	if ExitCode(err) != exitNetwork {
		t.Fatalf("exit code = %d, want %d", ExitCode(err), exitNetwork)
	}
}
