package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/vvka-141/ddlcheck/internal/cli"
	"github.com/vvka-141/ddlcheck/pkg/ddlcheck"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "panic: %v\n%s\n", r, debug.Stack())
			os.Exit(ddlcheck.ExitPanic)
		}
	}()

	if os.Getenv("DDLCHECK_TEST_PANIC") == "1" {
		panic("intentional test panic")
	}

	if err := cli.Execute(); err != nil {
		os.Exit(ddlcheck.ExitCodeForError(err))
	}
}
