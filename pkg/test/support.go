// Package test builds the debuggee binary for process level tests.
package test

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
)

// Fixture is a built debuggee binary.
type Fixture struct {
	// Name is the short name of the fixture.
	Name string
	// Path is the absolute path to the binary.
	Path string
	// Source is the absolute path of the package the binary was built from.
	Source string
}

var (
	fixturesMu sync.Mutex
	// Fixtures is a map of Fixture.Name to Fixture.
	Fixtures = make(map[string]Fixture)
)

// FindModuleRoot returns the directory holding go.mod, starting the search
// from the working directory.
func FindModuleRoot() string {
	dir := "."
	for depth := 0; depth < 10; depth++ {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			abs, _ := filepath.Abs(dir)
			return abs
		}
		dir = filepath.Join("..", dir)
	}
	abs, _ := filepath.Abs(".")
	return abs
}

// BuildFixture compiles the package at pkg (relative to the module root,
// for example "cmd/debuggee") with optimizations and inlining disabled, so
// that every variable and frame is visible to a debugger. Fixtures are
// built once per test binary.
func BuildFixture(t testing.TB, pkg string) Fixture {
	t.Helper()
	fixturesMu.Lock()
	defer fixturesMu.Unlock()
	if f, ok := Fixtures[pkg]; ok {
		return f
	}

	root := FindModuleRoot()
	name := filepath.Base(pkg)

	// Make a (good enough) random temporary file name
	r := make([]byte, 4)
	rand.Read(r)
	tmpfile := filepath.Join(os.TempDir(), fmt.Sprintf("%s.%s", name, hex.EncodeToString(r)))
	if runtime.GOOS == "windows" {
		tmpfile += ".exe"
	}

	cmd := exec.Command("go", "build", "-gcflags=all=-N -l", "-o", tmpfile, "./"+filepath.ToSlash(pkg))
	cmd.Dir = root
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("Error compiling %s: %v\n%s", pkg, err, out)
	}

	f := Fixture{Name: name, Path: tmpfile, Source: filepath.Join(root, pkg)}
	Fixtures[pkg] = f
	return f
}

// RunTestsWithFixtures runs the tests and deletes every fixture built by
// them before returning the exit status.
func RunTestsWithFixtures(m *testing.M) int {
	status := m.Run()

	fixturesMu.Lock()
	defer fixturesMu.Unlock()
	for _, f := range Fixtures {
		os.Remove(f.Path)
	}
	return status
}
