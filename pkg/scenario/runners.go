package scenario

import (
	"context"
	"time"

	"github.com/incode-debug/debuggee/pkg/fault"
	"github.com/incode-debug/debuggee/pkg/pattern"
	"github.com/incode-debug/debuggee/pkg/showcase"
	"github.com/incode-debug/debuggee/pkg/threads"
)

type runner func(ctx context.Context, e Entry, opts Options) error

var runners = map[Scenario]runner{
	Normal:     runNormal,
	Threads:    runThreads,
	Memory:     runMemory,
	CrashSegv:  crash("Crash (Segmentation Fault) Mode", "segmentation fault"),
	CrashStack: crash("Crash (Stack Overflow) Mode", "stack overflow"),
	CrashAbort: crash("Crash (Abort Signal) Mode", "abort"),
	CrashDiv0:  crash("Crash (Division by Zero) Mode", "division by zero"),
	Infinite:   runInfinite,
	StepDebug:  runStep,
}

func runNormal(ctx context.Context, e Entry, opts Options) error {
	showcase.Run(opts.Reporter)
	return nil
}

func runThreads(ctx context.Context, e Entry, opts Options) error {
	opts.Reporter.Header("Threading Mode Execution")
	var cfg threads.Config
	if opts.Threads != nil {
		cfg = *opts.Threads
	} else {
		var err error
		cfg, err = threads.ConfigFrom(&catalog.Threads)
		if err != nil {
			return err
		}
	}
	_, err := threads.New(cfg, opts.Reporter).Run(ctx)
	return err
}

func runMemory(ctx context.Context, e Entry, opts Options) error {
	opts.Reporter.Header("Memory Mode Execution")
	pattern.Run(opts.Reporter, opts.Ledger)
	return nil
}

func runStep(ctx context.Context, e Entry, opts Options) error {
	showcase.Step(opts.Reporter)
	return nil
}

func crash(title, what string) runner {
	return func(ctx context.Context, e Entry, opts Options) error {
		r := opts.Reporter
		r.Header(title)
		r.Printf("Triggering controlled %s in %d seconds...", what, int(opts.Delay/time.Second))
		return fault.Fire(r, fault.Trigger(e.Fault), fault.Options{
			Delay:    opts.Delay,
			MaxStack: catalog.Fault.MaxStack,
		})
	}
}

// Pacing of the infinite loop. The loop prints and yields every
// loopCheckpoint iterations and pauses a little longer every loopPause.
const (
	loopCheckpoint = 100000
	loopPause      = 1000000
)

func runInfinite(ctx context.Context, e Entry, opts Options) error {
	r := opts.Reporter
	r.Header("Infinite Loop Mode")
	r.Println("Starting infinite loop for interruption testing...")
	r.Println("Use Ctrl+C or debugging interrupt to stop.")

	counter := 0
	for {
		counter++
		if counter%loopCheckpoint == 0 {
			r.Printf("Loop iteration: %d", counter)
			time.Sleep(10 * time.Millisecond)
			if ctx.Err() != nil {
				return nil
			}
		}
		if counter%loopPause == 0 {
			time.Sleep(50 * time.Millisecond)
		}
	}
}
