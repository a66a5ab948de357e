package logflags

import (
	"errors"
	"io"
	"log"
	"os"
	"strings"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
)

var scenario = false
var threads = false
var memory = false
var fault = false

var logOut io.Writer

func makeLogger(flag bool, fields Fields) Logger {
	if lf := loggerFactory; lf != nil {
		return lf(flag, fields, logOut)
	}
	logger := logrus.New().WithFields(logrus.Fields(fields))
	logger.Logger.Formatter = DefaultFormatter()
	if logOut != nil {
		logger.Logger.Out = logOut
	} else {
		logger.Logger.Out = colorable.NewColorableStderr()
	}
	logger.Logger.Level = logrus.DebugLevel
	if !flag {
		logger.Logger.Level = logrus.ErrorLevel
	}
	return &logrusLogger{logger}
}

// Scenario returns true if the dispatcher should log.
func Scenario() bool {
	return scenario
}

// ScenarioLogger returns a logger for the scenario dispatcher.
func ScenarioLogger() Logger {
	return makeLogger(scenario, Fields{"layer": "scenario"})
}

// Threads returns true if the concurrency showcase should log role
// state transitions.
func Threads() bool {
	return threads
}

// ThreadsLogger returns a logger for the concurrency showcase.
func ThreadsLogger() Logger {
	return makeLogger(threads, Fields{"layer": "threads"})
}

// Memory returns true if the pattern library should log region
// bookkeeping.
func Memory() bool {
	return memory
}

// MemoryLogger returns a logger for the pattern library.
func MemoryLogger() Logger {
	return makeLogger(memory, Fields{"layer": "memory"})
}

// Fault returns true if fault triggers should log before firing.
func Fault() bool {
	return fault
}

func FaultLogger() Logger {
	return makeLogger(fault, Fields{"layer": "fault"})
}

var errLogstrWithoutLog = errors.New("--log-output specified without --log")

// Setup sets the logging flags based on the contents of logstr.
// Diagnostics always go to stderr: standard output belongs to the
// scenario report.
func Setup(logFlag bool, logstr string) error {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	if !logFlag {
		log.SetOutput(io.Discard)
		if logstr != "" {
			return errLogstrWithoutLog
		}
		return nil
	}
	log.SetOutput(os.Stderr)
	if logstr == "" {
		logstr = "scenario"
	}
	v := strings.Split(logstr, ",")
	for _, logcmd := range v {
		switch logcmd {
		case "scenario":
			scenario = true
		case "threads":
			threads = true
		case "memory":
			memory = true
		case "fault":
			fault = true
		}
	}
	return nil
}

// Reset disables every layer. Used by tests.
func Reset() {
	scenario, threads, memory, fault = false, false, false, false
}

// DefaultFormatter returns the formatter used by loggers created by this
// package. Colours are only enabled when stderr is a terminal.
func DefaultFormatter() logrus.Formatter {
	tty := isatty.IsTerminal(os.Stderr.Fd())
	return &logrus.TextFormatter{
		DisableColors:   !tty,
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
	}
}
