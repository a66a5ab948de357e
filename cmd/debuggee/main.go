package main

import (
	"os"

	"github.com/incode-debug/debuggee/cmd/debuggee/cmds"
)

func main() {
	os.Exit(cmds.Execute())
}
