// Package env holds process-level exit-code conventions shared by the
// tracetap command and its libraries.
package env

const (
	// ExitOk is return code for normal exit
	ExitOk = iota
	// ExitArgs is return code for command argument error
	ExitArgs
	// ExitErr is return code for system internal error
	ExitErr
	// ExitIgn has no meaning yet
	ExitIgn
)

// ExitSignalBase is added to a signal number to produce the conventional
// exit status for "killed by signal N".
const ExitSignalBase = 128
