package bgremove

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

func TestNewCLIWithBinary(t *testing.T) {
	cli := NewCLI(WithBinary("/opt/remove-background"))
	if cli.binary != "/opt/remove-background" {
		t.Fatalf("expected binary override to be applied, got %q", cli.binary)
	}
}

func TestCLIRemoveRequiresInput(t *testing.T) {
	cli := NewCLI()
	if err := cli.Remove(context.Background(), "", "/tmp/out.png"); err == nil {
		t.Fatal("expected error when input path is empty")
	}
}

func TestCLIRemoveRequiresOutput(t *testing.T) {
	cli := NewCLI()
	if err := cli.Remove(context.Background(), "/tmp/in.jpg", ""); err == nil {
		t.Fatal("expected error when output path is empty")
	}
}

func TestCLIRemoveArguments(t *testing.T) {
	var capturedArgs []string
	original := commandContext
	commandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		capturedArgs = append([]string(nil), args...)
		cmd := exec.CommandContext(ctx, os.Args[0], "-test.run=TestHelperProcess")
		cmd.Env = append(os.Environ(), "GO_WANT_HELPER_PROCESS=1", "BGREMOVE_HELPER_MODE=success")
		return cmd
	}
	t.Cleanup(func() {
		commandContext = original
	})

	dir := t.TempDir()
	input := filepath.Join(dir, "app.jpg")
	output := filepath.Join(dir, "app.png")
	cli := NewCLI()
	if err := cli.Remove(context.Background(), input, output); err != nil {
		t.Fatalf("Remove returned error: %v", err)
	}

	if len(capturedArgs) != 2 || capturedArgs[0] != input || capturedArgs[1] != output {
		t.Fatalf("args = %v, want [%s %s]", capturedArgs, input, output)
	}
}

func TestCLIRemoveFailure(t *testing.T) {
	original := commandContext
	commandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		cmd := exec.CommandContext(ctx, os.Args[0], "-test.run=TestHelperProcess")
		cmd.Env = append(os.Environ(), "GO_WANT_HELPER_PROCESS=1", "BGREMOVE_HELPER_MODE=failure")
		return cmd
	}
	t.Cleanup(func() {
		commandContext = original
	})

	cli := NewCLI()
	if err := cli.Remove(context.Background(), "/tmp/in.jpg", "/tmp/out.png"); err == nil {
		t.Fatal("expected removal failure error")
	}
}

func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}

	switch os.Getenv("BGREMOVE_HELPER_MODE") {
	case "success":
		os.Exit(0)
	case "failure":
		fmt.Fprintln(os.Stderr, "removal failed")
		os.Exit(1)
	default:
		os.Exit(0)
	}
}
