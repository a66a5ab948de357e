package version

import (
	"runtime"
	"strings"
	"testing"
)

func TestVersionString(t *testing.T) {
	v := Version{Major: "1", Minor: "2", Patch: "3", Metadata: "dev", Build: "abc123"}
	if v.Short() != "1.2.3-dev" {
		t.Fatalf("unexpected short version %q", v.Short())
	}
	s := v.String()
	for _, want := range []string{"Version: 1.2.3-dev\n", "Build: abc123\n", "Go: " + runtime.Version()} {
		if !strings.Contains(s, want) {
			t.Errorf("%q does not contain %q", s, want)
		}
	}
	// Test binaries carry no VCS stamp.
	if s := DebuggeeVersion.String(); !strings.Contains(s, "Build: unknown\n") {
		t.Errorf("expected an unknown build in %q", s)
	}
	if DebuggeeVersion.Short() != "0.3.0" {
		t.Errorf("unexpected version %s", DebuggeeVersion.Short())
	}
}
