// Package threads runs a fixed set of concurrent roles around a shared
// work queue so that a debugger can list threads, switch between them and
// see each one parked in a different state.
//
// Every role runs on its own goroutine locked to an OS thread. The only
// state shared between roles is the queue (behind its lock), the processed
// counter and the shutdown flag; everything else a role owns is written to
// its own result slot and read back only after the role has been joined.
package threads

import (
	"context"
	"fmt"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/incode-debug/debuggee/pkg/logflags"
	"github.com/incode-debug/debuggee/pkg/report"
)

// State is the lifecycle state of a role.
type State int32

const (
	Running State = iota
	WaitingOnQueue
	Processing
	Completed
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case WaitingOnQueue:
		return "waiting"
	case Processing:
		return "processing"
	case Completed:
		return "completed"
	}
	return fmt.Sprintf("state(%d)", int32(s))
}

// Role is the job a thread performs.
type Role int

const (
	Worker Role = iota
	Producer
	Monitor
	Blocker
	CPU
)

func (r Role) String() string {
	switch r {
	case Worker:
		return "worker"
	case Producer:
		return "producer"
	case Monitor:
		return "monitor"
	case Blocker:
		return "blocker"
	case CPU:
		return "cpu"
	}
	return fmt.Sprintf("role(%d)", int(r))
}

// Fixed ids of the singleton roles. Workers are numbered from 1 and CPU
// workers from CPUBaseID+1.
const (
	ProducerID = 999
	MonitorID  = 998
	BlockerID  = 997
	CPUBaseID  = 800
)

// Identity names a thread.
type Identity struct {
	ID   int
	Name string
}

// Result is what a role reports once it has finished. Items counts
// processed items for workers, pushed items for the producer and
// iterations for the monitor and the CPU workers.
type Result struct {
	Identity
	Role  Role
	State State
	Items int
}

// TaskState is a point in time view of one thread.
type TaskState struct {
	Identity
	Role  Role
	State State
}

// Summary is returned by Run after every thread has been joined.
type Summary struct {
	Results  []Result
	Counter  int64
	Produced int
	QueueLen int
}

// Processed returns the number of items taken by all workers.
func (s *Summary) Processed() int {
	n := 0
	for _, r := range s.Results {
		if r.Role == Worker {
			n += r.Items
		}
	}
	return n
}

type task struct {
	id     Identity
	role   Role
	state  atomic.Int32
	done   chan struct{}
	result Result
}

// Orchestrator spawns the roles, lets them run for the observation window,
// requests shutdown and joins them.
type Orchestrator struct {
	cfg Config
	r   *report.Reporter

	queue    *Queue
	counter  atomic.Int64
	shutdown atomic.Bool

	tasks atomic.Pointer[[]*task]
}

// New returns an orchestrator for cfg that reports to r.
func New(cfg Config, r *report.Reporter) *Orchestrator {
	return &Orchestrator{cfg: cfg, r: r, queue: newQueue()}
}

// Counter returns the number of items processed so far.
func (o *Orchestrator) Counter() int64 {
	return o.counter.Load()
}

// States returns the current state of every spawned thread, in spawn
// order. It may be called while Run is in progress.
func (o *Orchestrator) States() []TaskState {
	p := o.tasks.Load()
	if p == nil {
		return nil
	}
	r := make([]TaskState, 0, len(*p))
	for _, t := range *p {
		r = append(r, TaskState{Identity: t.id, Role: t.role, State: State(t.state.Load())})
	}
	return r
}

// Run executes the threading scenario. It returns early, still joining
// every thread, if ctx is cancelled during the observation window.
func (o *Orchestrator) Run(ctx context.Context) (*Summary, error) {
	if err := o.cfg.Validate(); err != nil {
		return nil, err
	}
	o.queue.reset()
	o.counter.Store(0)
	o.shutdown.Store(false)

	o.r.Println("Starting multi-threading scenarios...")

	var tasks []*task
	for i, name := range o.cfg.Workers {
		tasks = append(tasks, o.spawn(Identity{ID: i + 1, Name: name}, Worker, o.worker))
	}
	tasks = append(tasks, o.spawn(Identity{ID: ProducerID, Name: "Producer"}, Producer, o.producer))
	tasks = append(tasks, o.spawn(Identity{ID: MonitorID, Name: "Monitor"}, Monitor, o.monitor))
	tasks = append(tasks, o.spawn(Identity{ID: BlockerID, Name: "Blocker"}, Blocker, o.blocker))
	for i := 1; i <= o.cfg.CPUWorkers; i++ {
		tasks = append(tasks, o.spawn(Identity{ID: CPUBaseID + i, Name: fmt.Sprintf("CPU-%d", i)}, CPU, o.cpu))
	}
	o.tasks.Store(&tasks)

	o.r.Printf("Created %d threads for testing", len(tasks))
	o.r.Println("Threads are now running - good point for thread inspection tools")

	t := time.NewTimer(o.cfg.Window)
	select {
	case <-t.C:
	case <-ctx.Done():
		t.Stop()
	}

	o.r.Println("Initiating thread shutdown...")
	o.queue.shutdown(&o.shutdown)
	if logflags.Threads() {
		logflags.ThreadsLogger().Debugf("shutdown requested, joining %d threads", len(tasks))
	}

	s := &Summary{}
	for _, t := range tasks {
		<-t.done
		s.Results = append(s.Results, t.result)
		if t.role == Producer {
			s.Produced = t.result.Items
		}
	}
	s.Counter = o.counter.Load()
	s.QueueLen = o.queue.Len()

	o.r.Printf("All threads completed. Final global counter: %d", s.Counter)
	o.r.Println("Threading scenarios complete.")
	return s, nil
}

func (o *Orchestrator) spawn(id Identity, role Role, fn func(*task) int) *task {
	t := &task{id: id, role: role, done: make(chan struct{})}
	t.state.Store(int32(Running))
	go func() {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		defer close(t.done)
		items := fn(t)
		o.set(t, Completed)
		t.result = Result{Identity: t.id, Role: t.role, State: State(t.state.Load()), Items: items}
	}()
	return t
}

func (o *Orchestrator) set(t *task, s State) {
	old := State(t.state.Swap(int32(s)))
	if old != s && logflags.Threads() {
		logflags.ThreadsLogger().WithFields(logflags.Fields{"id": t.id.ID, "name": t.id.Name}).Debugf("%s -> %s", old, s)
	}
}

func (o *Orchestrator) worker(t *task) int {
	o.r.Printf("Worker thread %d (%s) started", t.id.ID, t.id.Name)
	delay := o.cfg.WorkerBaseDelay + time.Duration(t.id.ID)*o.cfg.WorkerStepDelay
	processed := 0
	var busy time.Duration
	for processed < o.cfg.WorkerCeiling {
		o.set(t, WaitingOnQueue)
		item, ok := o.queue.Pop(&o.shutdown)
		if !ok {
			break
		}
		o.set(t, Processing)
		start := time.Now()
		time.Sleep(delay)
		busy += time.Since(start)
		processed++
		o.counter.Add(1)
		o.r.Printf("Thread %d processed work item %d (total processed: %d)", t.id.ID, item, processed)
		o.set(t, Running)
	}
	o.r.Printf("Worker thread %d (%s) completed. Work items processed: %d, Processing time: %.3fs", t.id.ID, t.id.Name, processed, busy.Seconds())
	return processed
}

func (o *Orchestrator) producer(t *task) int {
	o.r.Println("Producer thread started")
	produced := 0
	for item := 1; item <= o.cfg.ProducerCeiling && !o.shutdown.Load(); item++ {
		o.queue.Push(item)
		produced++
		o.r.Printf("Producer added work item %d", item)
		time.Sleep(o.cfg.ProducerInterval)
	}
	o.r.Println("Producer thread completed")
	return produced
}

func (o *Orchestrator) monitor(t *task) int {
	o.r.Println("Monitor thread started")
	iter := 0
	for ; iter < o.cfg.MonitorIterations && !o.shutdown.Load(); iter++ {
		time.Sleep(o.cfg.MonitorInterval)
		o.r.Printf("Monitor: Queue size=%d, Global counter=%d, Iteration=%d", o.queue.Len(), o.counter.Load(), iter)
	}
	o.r.Println("Monitor thread completed")
	return iter
}

func (o *Orchestrator) blocker(t *task) int {
	o.r.Println("Blocking thread started - will wait indefinitely")
	o.set(t, WaitingOnQueue)
	o.queue.WaitShutdown(&o.shutdown)
	o.r.Println("Blocking thread released")
	return 0
}

func (o *Orchestrator) cpu(t *task) int {
	n := t.id.ID - CPUBaseID
	o.r.Printf("CPU intensive thread %d started", n)
	var result int64
	iter := 0
	for iter < o.cfg.CPUIterations && !o.shutdown.Load() {
		result = spin(result, n)
		iter++
		if iter%o.cfg.CPUCheckpoint == 0 {
			time.Sleep(o.cfg.CPUPause)
			o.r.Printf("CPU thread %d iteration %d, result=%d", n, iter, result)
		}
	}
	o.r.Printf("CPU intensive thread %d completed, final result=%d", n, result)
	return iter
}

// spin adds i*n to acc for i in [0, 1000).
//
//go:noinline
func spin(acc int64, n int) int64 {
	for i := 0; i < 1000; i++ {
		acc += int64(i * n)
	}
	return acc
}
