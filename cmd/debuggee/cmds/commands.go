package cmds

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/incode-debug/debuggee/pkg/config"
	"github.com/incode-debug/debuggee/pkg/logflags"
	"github.com/incode-debug/debuggee/pkg/report"
	"github.com/incode-debug/debuggee/pkg/scenario"
	"github.com/incode-debug/debuggee/pkg/version"
)

const debuggeeCommandLongDesc = `Debuggee is a test fixture for debuggers.

Each mode drives the process into a predictable, reproducible state: a
set of parked threads, known memory patterns at reported addresses,
variables of every shape, a step friendly call path, an endless loop to
interrupt or a controlled crash after a delay.

Arguments are parsed leniently: unknown flags and positional arguments
are ignored, a flag given twice keeps its last value and a flag missing
its value at the end of the command line is ignored.`

// Options are the parsed command line arguments.
type Options struct {
	// Mode is the scenario name, as given.
	Mode string
	// Delay is the crash delay in seconds.
	Delay int
	// Log enables diagnostic logging on stderr.
	Log bool
	// LogOutput is a comma separated list of layers that should log.
	LogOutput string
}

// flagValues receives the raw flag values. mode and delay are strings so
// that malformed values fall back to their defaults instead of failing
// the parse.
type flagValues struct {
	mode      string
	delay     string
	log       bool
	logOutput string
}

func addFlags(fs *pflag.FlagSet, f *flagValues) {
	fs.StringVar(&f.mode, "mode", string(scenario.Default), "Scenario to run: "+strings.Join(scenario.Names(), ", ")+".")
	fs.StringVar(&f.delay, "delay", strconv.Itoa(defaultDelay()), "Seconds to wait before a crash scenario faults.")
	fs.BoolVar(&f.log, "log", false, "Enable diagnostic logging on stderr.")
	fs.StringVar(&f.logOutput, "log-output", "", "Comma separated list of layers that should produce debug output: scenario, threads, memory, fault.")
}

func defaultDelay() int {
	return int(scenario.DefaultDelay() / time.Second)
}

// maxDelay is the largest delay, in seconds, that fits a time.Duration.
const maxDelay = math.MaxInt64 / int64(time.Second)

// withoutTerminator drops every "--" token. The terminator is treated like
// any other unrecognised argument, so flags after it are still parsed.
func withoutTerminator(args []string) []string {
	r := make([]string, 0, len(args))
	for _, arg := range args {
		if arg != "--" {
			r = append(r, arg)
		}
	}
	return r
}

// parseFlags parses args with fs, which must carry the flags of addFlags.
func parseFlags(fs *pflag.FlagSet, args []string, f *flagValues) (Options, error) {
	fs.ParseErrorsWhitelist.UnknownFlags = true
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}

	err := fs.Parse(withoutTerminator(args))
	if err != nil && !errors.Is(err, pflag.ErrHelp) && !strings.HasPrefix(err.Error(), "flag needs an argument") {
		return Options{}, err
	}
	if errors.Is(err, pflag.ErrHelp) {
		return Options{}, pflag.ErrHelp
	}
	if h := fs.Lookup("help"); h != nil && h.Value.String() == "true" {
		return Options{}, pflag.ErrHelp
	}

	o := Options{Mode: f.mode, Log: f.log, LogOutput: f.logOutput, Delay: defaultDelay()}
	if o.Mode == "" {
		o.Mode = string(scenario.Default)
	}
	if d, err := strconv.Atoi(strings.TrimSpace(f.delay)); err == nil && d >= 0 && int64(d) <= maxDelay {
		o.Delay = d
	}
	return o, nil
}

// ParseArgs parses a command line, without the program name, the way the
// root command does. It returns pflag.ErrHelp when help was requested.
func ParseArgs(args []string) (Options, error) {
	var f flagValues
	fs := pflag.NewFlagSet("debuggee", pflag.ContinueOnError)
	addFlags(fs, &f)
	fs.BoolP("help", "h", false, "help for debuggee")
	return parseFlags(fs, args, &f)
}

// exitError carries a non zero exit status out of the command.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

// Execute runs the root command on the process arguments and returns the
// exit status.
func Execute() int {
	err := New(os.Stdout).Execute()
	var ee *exitError
	switch {
	case err == nil:
		return 0
	case errors.As(err, &ee):
		return ee.code
	default:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
}

// New returns the root command. Scenario output goes to stdout.
func New(stdout io.Writer) *cobra.Command {
	var f flagValues

	rootCommand := &cobra.Command{
		Use:   "debuggee",
		Short: "Debuggee is a test fixture for debuggers.",
		Long:  debuggeeCommandLongDesc,

		// Flags are parsed leniently by parseFlags.
		DisableFlagParsing: true,
		SilenceUsage:       true,
		SilenceErrors:      true,

		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := parseFlags(cmd.Flags(), args, &f)
			if errors.Is(err, pflag.ErrHelp) {
				return cmd.Help()
			}
			if err != nil {
				return err
			}
			return execute(cmd.Context(), stdout, args, opts)
		},
	}
	rootCommand.SetOut(stdout)
	addFlags(rootCommand.Flags(), &f)
	return rootCommand
}

func execute(ctx context.Context, stdout io.Writer, args []string, opts Options) error {
	if err := logflags.Setup(opts.Log, opts.LogOutput); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return &exitError{1}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	r := report.New(stdout)
	banner(r, args, opts)

	s, err := scenario.Parse(opts.Mode)
	if err != nil {
		var unk *scenario.UnknownModeError
		if !errors.As(err, &unk) {
			return err
		}
		r.Printf("Unknown mode: %s", unk.Mode)
		r.Printf("Available modes: %s", strings.Join(scenario.Names(), ", "))
		if len(unk.Suggestions) > 0 {
			r.Printf("Did you mean: %s", strings.Join(unk.Suggestions, ", "))
		}
		return &exitError{1}
	}

	if e, _ := scenario.Lookup(s); e.Kind == config.KindLoop {
		var cancel context.CancelFunc
		ctx, cancel = context.WithCancel(ctx)
		defer cancel()
		waitForInterrupt(ctx, r, cancel)
	}

	if logflags.Scenario() {
		logflags.ScenarioLogger().WithField("delay", opts.Delay).Debugf("running %s\n%s", s, version.DebuggeeVersion)
	}
	return scenario.Run(ctx, s, scenario.Options{
		Delay:    time.Duration(opts.Delay) * time.Second,
		Reporter: r,
	})
}

// waitForInterrupt reports the first SIGINT or SIGTERM received and then
// calls cancel. It stops listening once ctx is done.
func waitForInterrupt(ctx context.Context, r *report.Reporter, cancel context.CancelFunc) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
	go func() {
		defer signal.Stop(ch)
		select {
		case sig := <-ch:
			if n, ok := sig.(syscall.Signal); ok {
				r.Printf("Received signal: %d", int(n))
			} else {
				r.Printf("Received signal: %v", sig)
			}
			cancel()
		case <-ctx.Done():
		}
	}()
}

func banner(r *report.Reporter, args []string, opts Options) {
	argv := append([]string{os.Args[0]}, args...)
	r.Printf("Debuggee %s - Comprehensive Debugging Test Binary", version.DebuggeeVersion.Short())
	r.Printf("Process ID: %d", os.Getpid())
	r.Printf("Arguments: %d", len(argv))
	for i, a := range argv {
		r.Printf("  argv[%d]: %s", i, a)
	}
	r.Printf("Execution mode: %s", opts.Mode)
	if e, ok := scenario.Lookup(scenario.Scenario(opts.Mode)); ok && e.Kind == config.KindCrash {
		r.Printf("Crash delay: %d seconds", opts.Delay)
	}
	r.Println()
}
