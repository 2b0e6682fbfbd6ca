// Command tracetap launches a program under syscall tracing and prints, or
// programmatically diffs, the resulting event stream. This wrapper is
// explicitly out of the core engine's scope (spec §1 "Out of scope:
// external collaborators") but is the runnable entry point for it.
package main

import "github.com/pendulm/tracetap/pkg/ptrace"

func main() {
	ptrace.MaybeRunStub()
	Execute()
}
