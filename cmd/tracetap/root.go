package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/pendulm/tracetap/pkg/env"
)

var usePTY bool

// RootCmd is grounded on riverlytech-art's cmd/root.go layout: a
// PersistentFlags-holding root command with subcommands registered via
// init()'s AddCommand, rather than one flat flag.Parse() call.
var RootCmd = &cobra.Command{
	Use:   "tracetap",
	Short: "tracetap traces the syscalls a program makes",
	Long:  `tracetap launches a program under ptrace and streams its syscall, signal, and lifecycle events.`,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(env.ExitErr)
	}
}

func init() {
	// Default --pty on only when the wrapper's own stdout is a terminal:
	// a piped/redirected invocation (the common case under a test harness)
	// should not allocate a pty nobody will read from.
	RootCmd.PersistentFlags().BoolVar(&usePTY, "pty", isatty.IsTerminal(os.Stdout.Fd()), "back the traced program's stdio with a pty")
}
