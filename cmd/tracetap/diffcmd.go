package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pendulm/tracetap/pkg/diff"
	"github.com/pendulm/tracetap/pkg/ptrace"
	"github.com/pendulm/tracetap/pkg/trace"
)

var diffCmd = &cobra.Command{
	Use:   "diff -- PROG_A [ARGS...] -- PROG_B [ARGS...]",
	Short: "trace two programs and print the syscall kinds unique to each",
	Long: `diff runs two programs to completion under tracing and reports the set
difference between the syscall kinds each one entered (canonical use-case
(c): comparing syscall traces between program variants).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		argvA, argvB, err := splitOnDoubleDash(args)
		if err != nil {
			return err
		}

		kindsA, err := traceEnterKinds(argvA)
		if err != nil {
			return fmt.Errorf("tracing %v: %w", argvA, err)
		}
		kindsB, err := traceEnterKinds(argvB)
		if err != nil {
			return fmt.Errorf("tracing %v: %w", argvB, err)
		}

		onlyA, onlyB := diff.Kinds(kindsA, kindsB)
		fmt.Printf("only in %v: %v\n", argvA, onlyA)
		fmt.Printf("only in %v: %v\n", argvB, onlyB)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(diffCmd)
}

// splitOnDoubleDash separates cobra's already-stripped first "--" argv from
// a second literal "--" marking the start of the second program's argv.
func splitOnDoubleDash(args []string) (a, b []string, err error) {
	for i, arg := range args {
		if arg == "--" {
			return args[:i], args[i+1:], nil
		}
	}
	return nil, nil, fmt.Errorf("diff requires two program invocations separated by --")
}

// traceEnterKinds runs one program to completion and collects the syscall
// kinds its SyscallStop(Enter) events named, in order.
func traceEnterKinds(argv []string) ([]ptrace.SyscallKind, error) {
	var events []ptrace.Event
	_, err := trace.StreamTrace(argv, func(ev ptrace.Event) ptrace.Action {
		events = append(events, ev)
		return ptrace.ActionContinue
	})
	if err != nil {
		return nil, err
	}
	return diff.EnterKinds(events), nil
}
