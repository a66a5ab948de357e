package scenario

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/incode-debug/debuggee/pkg/config"
	"github.com/incode-debug/debuggee/pkg/pattern"
	"github.com/incode-debug/debuggee/pkg/report"
	"github.com/incode-debug/debuggee/pkg/threads"
)

func TestCatalogMatchesRunners(t *testing.T) {
	want := []string{"normal", "threads", "memory", "crash-segv", "crash-stack", "crash-abort", "crash-div0", "infinite", "step-debug"}
	if diff := cmp.Diff(want, Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
	if len(runners) != len(Names()) {
		t.Fatalf("%d runners for %d catalog entries", len(runners), len(Names()))
	}
	for _, n := range Names() {
		s, err := Parse(n)
		if err != nil {
			t.Fatalf("catalog entry %q has no runner: %v", n, err)
		}
		e, _ := Lookup(s)
		if strings.HasPrefix(n, "crash-") != (e.Kind == config.KindCrash) {
			t.Errorf("%s has kind %s", n, e.Kind)
		}
	}
	if e, _ := Lookup(Infinite); e.Kind != config.KindLoop {
		t.Errorf("infinite should be a loop, got %s", e.Kind)
	}
	if DefaultDelay() != 2*time.Second {
		t.Errorf("expected default delay of 2s, got %v", DefaultDelay())
	}
}

func TestParseUnknown(t *testing.T) {
	for _, mode := range []string{"bogus", "", "NORMAL", "crash"} {
		_, err := Parse(mode)
		var unk *UnknownModeError
		if !errors.As(err, &unk) || unk.Mode != mode {
			t.Fatalf("%q: expected UnknownModeError, got %v", mode, err)
		}
		if !strings.Contains(err.Error(), "crash-segv, crash-stack") {
			t.Errorf("%q: error does not list the modes: %v", mode, err)
		}
	}
}

func TestSuggest(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want []string
	}{
		{"crash", []string{"crash-segv", "crash-stack", "crash-abort", "crash-div0"}},
		{"thr", []string{"threads"}},
		{"inf", []string{"infinite"}},
		{"segv", []string{"crash-segv"}},
		{"qqq", nil},
		{"", nil},
	} {
		got := Suggest(tc.in)
		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Errorf("%q: suggestions mismatch (-want +got):\n%s", tc.in, diff)
		}
	}
	_, err := Parse("crash")
	if unk := err.(*UnknownModeError); len(unk.Suggestions) != 4 {
		t.Errorf("expected 4 suggestions for crash, got %v", unk.Suggestions)
	}
}

func TestRunReturningScenarios(t *testing.T) {
	cfg := threads.Config{
		Window:            50 * time.Millisecond,
		Workers:           []string{"Worker-Alpha"},
		WorkerCeiling:     5,
		WorkerBaseDelay:   time.Millisecond,
		ProducerCeiling:   5,
		ProducerInterval:  time.Millisecond,
		MonitorIterations: 1,
		MonitorInterval:   time.Millisecond,
	}
	for _, tc := range []struct {
		s    Scenario
		want []string
	}{
		{Normal, []string{"=== Normal Mode Execution ===", "Normal mode execution complete."}},
		{StepDebug, []string{"=== Step Debug Mode ===", "Step 6: Function complete, result: 243"}},
		{Memory, []string{"=== Memory Mode Execution ===", "Memory scenarios complete."}},
		{Threads, []string{"=== Threading Mode Execution ===", "Threading scenarios complete."}},
	} {
		var buf bytes.Buffer
		opts := Options{Reporter: report.New(&buf), Ledger: pattern.NewLedger(), Threads: &cfg}
		if err := Run(context.Background(), tc.s, opts); err != nil {
			t.Fatalf("%s: %v", tc.s, err)
		}
		for _, w := range tc.want {
			if !strings.Contains(buf.String(), w) {
				t.Errorf("%s: output is missing %q", tc.s, w)
			}
		}
	}
}

func TestRunInfiniteStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var buf bytes.Buffer
	done := make(chan error)
	go func() {
		done <- Run(ctx, Infinite, Options{Reporter: report.New(&buf)})
	}()
	time.Sleep(100 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatal(err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("infinite loop did not stop after cancel")
	}
	if !strings.Contains(buf.String(), "Loop iteration: 100000") {
		t.Fatalf("no loop progress reported:\n%s", buf.String())
	}
}

func TestRunUnknown(t *testing.T) {
	var unk *UnknownModeError
	if err := Run(context.Background(), "bogus", Options{}); !errors.As(err, &unk) {
		t.Fatalf("expected UnknownModeError, got %v", err)
	}
}
