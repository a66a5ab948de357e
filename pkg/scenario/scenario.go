// Package scenario maps mode names to the execution paths of the
// debuggee. The set of names, their order and their kinds come from the
// embedded catalog; every catalog entry is bound to exactly one runner.
package scenario

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/derekparker/trie"

	"github.com/incode-debug/debuggee/pkg/config"
	"github.com/incode-debug/debuggee/pkg/logflags"
	"github.com/incode-debug/debuggee/pkg/pattern"
	"github.com/incode-debug/debuggee/pkg/report"
	"github.com/incode-debug/debuggee/pkg/threads"
)

// Scenario selects one execution path.
type Scenario string

const (
	Normal     Scenario = "normal"
	Threads    Scenario = "threads"
	Memory     Scenario = "memory"
	CrashSegv  Scenario = "crash-segv"
	CrashStack Scenario = "crash-stack"
	CrashAbort Scenario = "crash-abort"
	CrashDiv0  Scenario = "crash-div0"
	Infinite   Scenario = "infinite"
	StepDebug  Scenario = "step-debug"
)

// Default is the scenario used when no mode is given.
const Default = Normal

// Entry is the catalog description of a scenario.
type Entry = config.Scenario

// UnknownModeError is returned by Parse for names that are not scenarios.
type UnknownModeError struct {
	Mode        string
	Suggestions []string
}

func (e *UnknownModeError) Error() string {
	return fmt.Sprintf("unknown mode %q (available modes: %s)", e.Mode, strings.Join(Names(), ", "))
}

// Options configures a scenario run.
type Options struct {
	// Delay is slept by crash scenarios before their fault fires.
	Delay time.Duration
	// Reporter receives the scenario output. It must not be nil.
	Reporter *report.Reporter
	// Ledger records heap regions of the memory scenario. Defaults to
	// pattern.Retained.
	Ledger *pattern.Ledger
	// Threads overrides the thread topology. The zero value selects the
	// catalog topology.
	Threads *threads.Config
}

var (
	catalog = config.MustLoadCatalog()
	names   = newNameTrie(catalog.Names())
)

func newNameTrie(names []string) *trie.Trie {
	t := trie.New()
	for i, n := range names {
		t.Add(n, i)
	}
	return t
}

// Names returns every scenario name in catalog order.
func Names() []string {
	return catalog.Names()
}

// DefaultDelay is the crash delay used when none is given.
func DefaultDelay() time.Duration {
	return time.Duration(catalog.DefaultDelay) * time.Second
}

// Lookup returns the catalog entry of s.
func Lookup(s Scenario) (Entry, bool) {
	return catalog.Lookup(string(s))
}

// Parse converts a mode name into a Scenario.
func Parse(mode string) (Scenario, error) {
	s := Scenario(mode)
	if _, ok := Lookup(s); ok {
		if _, bound := runners[s]; bound {
			return s, nil
		}
	}
	return "", &UnknownModeError{Mode: mode, Suggestions: Suggest(mode)}
}

// Suggest returns the scenario names that start with mode, or failing
// that the names that fuzzily match it, in catalog order.
func Suggest(mode string) []string {
	if mode == "" {
		return nil
	}
	r := names.PrefixSearch(mode)
	if len(r) == 0 {
		r = names.FuzzySearch(mode)
	}
	seen := make(map[string]bool, len(r))
	uniq := r[:0]
	for _, n := range r {
		if !seen[n] {
			seen[n] = true
			uniq = append(uniq, n)
		}
	}
	r = uniq
	order := func(name string) int {
		n, ok := names.Find(name)
		if !ok {
			return len(catalog.Scenarios)
		}
		return n.Meta().(int)
	}
	sort.Slice(r, func(i, j int) bool { return order(r[i]) < order(r[j]) })
	return r
}

// Run executes s. Run scenarios return nil when they complete, crash
// scenarios never return unless their fault is unknown, loop scenarios
// return nil once ctx is cancelled.
func Run(ctx context.Context, s Scenario, opts Options) error {
	e, ok := Lookup(s)
	run, bound := runners[s]
	if !ok || !bound {
		return &UnknownModeError{Mode: string(s), Suggestions: Suggest(string(s))}
	}
	if opts.Ledger == nil {
		opts.Ledger = pattern.Retained
	}
	if logflags.Scenario() {
		logflags.ScenarioLogger().WithFields(logflags.Fields{"scenario": string(s), "kind": string(e.Kind)}).Debug("dispatching")
	}
	return run(ctx, e, opts)
}
