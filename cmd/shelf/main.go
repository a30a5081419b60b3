// Package main provides shelf, a maintenance CLI for markdown docs
// repositories organized as chapter directories of topic files.
package main

import (
	"os"
	"strings"

	"shelf/internal/cli"
)

func main() {
	environ := os.Environ()
	env := make(map[string]string, len(environ))

	for _, e := range environ {
		if k, v, ok := strings.Cut(e, "="); ok {
			env[k] = v
		}
	}

	exitCode := cli.Run(os.Stdin, os.Stdout, os.Stderr, os.Args, env)

	os.Exit(exitCode)
}
