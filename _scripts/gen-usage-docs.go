//go:build ignore
// +build ignore

package main

import (
	"log"
	"os"

	"github.com/incode-debug/debuggee/cmd/debuggee/cmds"
	"github.com/spf13/cobra/doc"
)

const defaultUsageDir = "./Documentation/usage"

func main() {
	usageDir := defaultUsageDir
	if len(os.Args) > 1 {
		usageDir = os.Args[1]
	}
	if err := os.MkdirAll(usageDir, 0755); err != nil {
		log.Fatal(err)
	}
	root := cmds.New(os.Stdout)
	root.DisableAutoGenTag = true
	if err := doc.GenMarkdownTree(root, usageDir); err != nil {
		log.Fatal(err)
	}
}
