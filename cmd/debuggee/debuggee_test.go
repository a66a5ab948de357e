package main

import (
	"bufio"
	"bytes"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	protest "github.com/incode-debug/debuggee/pkg/test"
)

func TestMain(m *testing.M) {
	os.Exit(protest.RunTestsWithFixtures(m))
}

func assertNoError(err error, t testing.TB, s string) {
	if err != nil {
		_, file, line, _ := runtime.Caller(1)
		fname := filepath.Base(file)
		t.Fatalf("failed assertion at %s:%d: %s - %s\n", fname, line, s, err)
	}
}

func runFixture(t *testing.T, args ...string) (stdout, stderr string, code int) {
	t.Helper()
	fixture := protest.BuildFixture(t, "cmd/debuggee")
	cmd := exec.Command(fixture.Path, args...)
	var outbuf, errbuf bytes.Buffer
	cmd.Stdout = &outbuf
	cmd.Stderr = &errbuf
	err := cmd.Run()
	var exitErr *exec.ExitError
	switch {
	case err == nil:
	case errors.As(err, &exitErr):
		code = exitErr.ExitCode()
	default:
		t.Fatalf("could not run %v: %v", args, err)
	}
	return outbuf.String(), errbuf.String(), code
}

func TestRunScenariosExitZero(t *testing.T) {
	modes := []string{"normal", "memory", "step-debug", "threads"}
	if testing.Short() {
		modes = modes[:3]
	}
	for _, mode := range modes {
		t.Run(mode, func(t *testing.T) {
			stdout, stderr, code := runFixture(t, "--mode", mode)
			if code != 0 {
				t.Fatalf("exit status %d\nstdout:\n%s\nstderr:\n%s", code, stdout, stderr)
			}
			if !strings.Contains(stdout, "Execution mode: "+mode) {
				t.Errorf("banner does not report the mode:\n%s", stdout)
			}
		})
	}
}

func TestDefaultModeIsNormal(t *testing.T) {
	stdout, _, code := runFixture(t)
	if code != 0 {
		t.Fatalf("exit status %d", code)
	}
	for _, want := range []string{"Arguments: 1\n", "Execution mode: normal\n", "Normal mode execution complete."} {
		if !strings.Contains(stdout, want) {
			t.Errorf("output is missing %q", want)
		}
	}
}

func TestUnknownModeExitsOne(t *testing.T) {
	stdout, _, code := runFixture(t, "--mode", "bogus")
	if code != 1 {
		t.Fatalf("expected exit status 1, got %d", code)
	}
	if !strings.Contains(stdout, "Unknown mode: bogus\nAvailable modes: normal, threads, memory,") {
		t.Fatalf("unexpected output:\n%s", stdout)
	}
}

func TestCrashDivideByZero(t *testing.T) {
	start := time.Now()
	stdout, stderr, code := runFixture(t, "--mode", "crash-div0", "--delay", "1")
	if code != 2 {
		t.Fatalf("expected exit status 2, got %d\nstderr:\n%s", code, stderr)
	}
	if time.Since(start) < time.Second {
		t.Errorf("crash fired before the delay")
	}
	for _, want := range []string{"Crash delay: 1 seconds", "Triggering controlled division by zero in 1 seconds..."} {
		if !strings.Contains(stdout, want) {
			t.Errorf("stdout is missing %q", want)
		}
	}
	if !strings.Contains(stderr, "integer divide by zero") {
		t.Errorf("stderr does not report the fault:\n%s", stderr)
	}
}

func TestCrashSegv(t *testing.T) {
	_, stderr, code := runFixture(t, "--mode", "crash-segv", "--delay", "0")
	if code != 2 {
		t.Fatalf("expected exit status 2, got %d\nstderr:\n%s", code, stderr)
	}
	if !strings.Contains(stderr, "SIGSEGV") {
		t.Errorf("stderr does not report the fault:\n%s", stderr)
	}
}

func TestCrashStack(t *testing.T) {
	if testing.Short() {
		t.Skip("recursing to the stack ceiling is slow")
	}
	_, stderr, code := runFixture(t, "--mode", "crash-stack", "--delay", "0")
	if code != 2 {
		t.Fatalf("expected exit status 2, got %d", code)
	}
	if !strings.Contains(stderr, "stack overflow") {
		t.Errorf("stderr does not report the fault:\n%s", stderr)
	}
}

// startInfinite starts the infinite scenario with stdout piped and waits
// for the first progress line.
func startInfinite(t *testing.T) (*exec.Cmd, *bufio.Scanner) {
	t.Helper()
	fixture := protest.BuildFixture(t, "cmd/debuggee")
	cmd := exec.Command(fixture.Path, "--mode", "infinite")
	stdout, err := cmd.StdoutPipe()
	assertNoError(err, t, "stdout pipe")
	assertNoError(cmd.Start(), t, "start")

	scan := bufio.NewScanner(stdout)
	for scan.Scan() {
		if strings.HasPrefix(scan.Text(), "Loop iteration:") {
			return cmd, scan
		}
	}
	cmd.Process.Kill()
	cmd.Wait()
	t.Fatal("infinite scenario did not report progress")
	return nil, nil
}
