package host

import (
	"context"
	"errors"
	"runtime"
	"strings"
	"testing"
)

func TestExecRunner_Success(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("test command not available on windows")
	}

	r := NewExecRunner()
	out, err := r.Run(context.Background(), "echo", "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "hello") {
		t.Errorf("expected output to contain hello, got %q", out)
	}
}

func TestExecRunner_NonZeroExit(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("test command not available on windows")
	}

	r := NewExecRunner()
	_, err := r.Run(context.Background(), "false")
	if err == nil {
		t.Fatal("expected error for nonzero exit")
	}

	var cmdErr *CommandError
	if !errors.As(err, &cmdErr) {
		t.Fatalf("expected *CommandError, got %T", err)
	}
	if cmdErr.Name != "false" {
		t.Errorf("expected command name preserved, got %q", cmdErr.Name)
	}
}

func TestCommandError_IncludesOutput(t *testing.T) {
	err := &CommandError{
		Name:   "nssm",
		Args:   []string{"status", "svc"},
		Output: "Can't open service!\n",
		Err:    errors.New("exit status 3"),
	}

	msg := err.Error()
	if !strings.Contains(msg, "Can't open service!") {
		t.Errorf("error text should include command output: %q", msg)
	}
	if !strings.Contains(msg, "nssm status svc") {
		t.Errorf("error text should include command line: %q", msg)
	}
}

type fakeRunner struct {
	err error
}

func (f *fakeRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	return "", f.err
}

func TestIsElevated(t *testing.T) {
	if !IsElevated(context.Background(), &fakeRunner{}) {
		t.Error("net session success should mean elevated")
	}
	if IsElevated(context.Background(), &fakeRunner{err: errors.New("access denied")}) {
		t.Error("net session failure should mean not elevated")
	}
}
