package ptrace

import "fmt"

// SetupError reports a failure to spawn, exec, or attach tracing options on
// initial attach. The caller can recover from it; any partial child is
// reaped before it is returned.
type SetupError struct {
	Op     string
	Pid    int
	Reason string
	Err    error
}

func (e *SetupError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("ptrace setup: %s (pid %d): %v", e.Op, e.Pid, e.Err)
	}
	return fmt.Sprintf("ptrace setup: %s (pid %d): %s", e.Op, e.Pid, e.Reason)
}

func (e *SetupError) Unwrap() error { return e.Err }

// ProtocolViolation signals a fatal engine bug: an unexpected stop kind, an
// unrecognized syscall entry opcode, or an enter/exit alternation break.
// These indicate kernel behavior outside the documented contract or a
// decoder gap and must never be silently masked.
type ProtocolViolation struct {
	Pid       int
	Invariant string
	Detail    string
}

func (e *ProtocolViolation) Error() string {
	return fmt.Sprintf("ptrace protocol violation (pid %d): %s: %s", e.Pid, e.Invariant, e.Detail)
}

// DecodeError reports a failure reading tracee registers or memory that is
// not itself a protocol violation (e.g. a short peek).
type DecodeError struct {
	Pid    int
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("ptrace decode (pid %d): %s: %v", e.Pid, e.Reason, e.Err)
	}
	return fmt.Sprintf("ptrace decode (pid %d): %s", e.Pid, e.Reason)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Vanished reports that a tracked PID disappeared mid-operation ("no such
// process" from a tracing primitive). Per spec §5/§7 this is non-fatal: the
// driver drops the PID from the tracked set and continues.
type Vanished struct {
	Pid int
}

func (e *Vanished) Error() string {
	return fmt.Sprintf("ptrace: pid %d vanished", e.Pid)
}
