package config

import (
	_ "embed"
	"errors"
	"fmt"
	"time"

	"gopkg.in/yaml.v2"
)

//go:embed catalog.yml
var defaultCatalog []byte

// Kind describes how a scenario ends.
type Kind string

const (
	// KindRun scenarios return and the process exits with status zero.
	KindRun Kind = "run"
	// KindCrash scenarios terminate the process through a fault.
	KindCrash Kind = "crash"
	// KindLoop scenarios only end through an external interrupt.
	KindLoop Kind = "loop"
)

// Scenario describes one selectable execution path.
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Kind        Kind   `yaml:"kind"`
	// Fault names the trigger a crash scenario fires.
	Fault string `yaml:"fault,omitempty"`
	// Outcome is the process-level effect an observer should expect.
	Outcome string `yaml:"outcome,omitempty"`
}

// Threads holds the tunables of the thread topology as written in the
// catalog. Durations are Go duration strings.
type Threads struct {
	Window            string   `yaml:"window"`
	Workers           []string `yaml:"workers"`
	WorkerCeiling     int      `yaml:"worker-ceiling"`
	WorkerBaseDelay   string   `yaml:"worker-base-delay"`
	WorkerStepDelay   string   `yaml:"worker-step-delay"`
	ProducerCeiling   int      `yaml:"producer-ceiling"`
	ProducerInterval  string   `yaml:"producer-interval"`
	MonitorIterations int      `yaml:"monitor-iterations"`
	MonitorInterval   string   `yaml:"monitor-interval"`
	CPUWorkers        int      `yaml:"cpu-workers"`
	CPUIterations     int      `yaml:"cpu-iterations"`
	CPUCheckpoint     int      `yaml:"cpu-checkpoint"`
	CPUPause          string   `yaml:"cpu-pause"`
}

// Fault holds tunables for the fault triggers.
type Fault struct {
	// MaxStack is the goroutine stack ceiling installed before the
	// unbounded recursion trigger fires. Zero keeps the runtime default.
	MaxStack int `yaml:"max-stack"`
}

// Catalog is the decoded form of catalog.yml.
type Catalog struct {
	DefaultDelay int        `yaml:"default-delay"`
	Scenarios    []Scenario `yaml:"scenarios"`
	Threads      Threads    `yaml:"threads"`
	Fault        Fault      `yaml:"fault"`
}

// Timings are the parsed durations of a Threads section.
type Timings struct {
	Window           time.Duration
	WorkerBaseDelay  time.Duration
	WorkerStepDelay  time.Duration
	ProducerInterval time.Duration
	MonitorInterval  time.Duration
	CPUPause         time.Duration
}

// LoadCatalog decodes and validates the catalog embedded in the binary.
func LoadCatalog() (*Catalog, error) {
	return ParseCatalog(defaultCatalog)
}

// MustLoadCatalog is like LoadCatalog but panics on error. The embedded
// catalog is validated by the tests, so a failure here is a build defect.
func MustLoadCatalog() *Catalog {
	c, err := LoadCatalog()
	if err != nil {
		panic(err)
	}
	return c
}

// ParseCatalog decodes and validates a catalog.
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.UnmarshalStrict(data, &c); err != nil {
		return nil, fmt.Errorf("unable to decode catalog: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}
	return &c, nil
}

func (c *Catalog) validate() error {
	if c.DefaultDelay < 0 {
		return fmt.Errorf("default-delay must not be negative, got %d", c.DefaultDelay)
	}
	if len(c.Scenarios) == 0 {
		return errors.New("no scenarios")
	}
	seen := make(map[string]bool, len(c.Scenarios))
	for _, s := range c.Scenarios {
		if s.Name == "" {
			return errors.New("scenario without a name")
		}
		if seen[s.Name] {
			return fmt.Errorf("duplicate scenario %q", s.Name)
		}
		seen[s.Name] = true
		switch s.Kind {
		case KindRun, KindLoop:
		case KindCrash:
			if s.Fault == "" {
				return fmt.Errorf("crash scenario %q does not name a fault", s.Name)
			}
		default:
			return fmt.Errorf("scenario %q has unknown kind %q", s.Name, s.Kind)
		}
	}
	if _, err := c.Threads.Timings(); err != nil {
		return err
	}
	return nil
}

// Lookup returns the catalog entry called name.
func (c *Catalog) Lookup(name string) (Scenario, bool) {
	for _, s := range c.Scenarios {
		if s.Name == name {
			return s, true
		}
	}
	return Scenario{}, false
}

// Names returns the scenario names in catalog order.
func (c *Catalog) Names() []string {
	r := make([]string, len(c.Scenarios))
	for i := range c.Scenarios {
		r[i] = c.Scenarios[i].Name
	}
	return r
}

// Timings parses the duration fields of t.
func (t *Threads) Timings() (Timings, error) {
	var r Timings
	fields := []struct {
		name string
		in   string
		out  *time.Duration
	}{
		{"window", t.Window, &r.Window},
		{"worker-base-delay", t.WorkerBaseDelay, &r.WorkerBaseDelay},
		{"worker-step-delay", t.WorkerStepDelay, &r.WorkerStepDelay},
		{"producer-interval", t.ProducerInterval, &r.ProducerInterval},
		{"monitor-interval", t.MonitorInterval, &r.MonitorInterval},
		{"cpu-pause", t.CPUPause, &r.CPUPause},
	}
	for _, f := range fields {
		d, err := time.ParseDuration(f.in)
		if err != nil {
			return Timings{}, fmt.Errorf("threads.%s: %w", f.name, err)
		}
		if d < 0 {
			return Timings{}, fmt.Errorf("threads.%s must not be negative", f.name)
		}
		*f.out = d
	}
	return r, nil
}
