package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pendulm/tracetap/pkg/trace"
)

var runCmd = &cobra.Command{
	Use:   "run -- PROG [ARGS...]",
	Short: "trace a program and print its events",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return fmt.Errorf("run requires a program to trace after --")
		}
		exitStatus, err := trace.TraceToExit(args, trace.WithPTY(usePTY))
		if err != nil {
			return err
		}
		os.Exit(exitStatus)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(runCmd)
}
