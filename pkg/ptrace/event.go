package ptrace

import "syscall"

// EventKind identifies which variant of Event is populated.
type EventKind int

const (
	// EventSyscallStop is a syscall-enter or syscall-exit stop.
	EventSyscallStop EventKind = iota
	// EventSignalDelivery is an ordinary signal about to be delivered to
	// the tracee.
	EventSignalDelivery
	// EventGroupStop is a stop-signal affecting the whole thread group.
	EventGroupStop
	// EventPTraceEvent is a kernel-reported lifecycle event (fork, vfork,
	// clone, exec, exit).
	EventPTraceEvent
	// EventProcessExit is terminal for the PID it names.
	EventProcessExit
)

// SyscallPhase distinguishes syscall-enter from syscall-exit.
type SyscallPhase int

const (
	// Enter is the stop just before the kernel services the syscall.
	Enter SyscallPhase = iota
	// Exit is the stop just after the kernel services the syscall.
	Exit
)

func (p SyscallPhase) String() string {
	if p == Enter {
		return "enter"
	}
	return "exit"
}

// PTraceEventKind enumerates the lifecycle events the spec tracks.
type PTraceEventKind int

const (
	// EventFork is a PTRACE_EVENT_FORK stop.
	EventFork PTraceEventKind = iota
	// EventVfork is a PTRACE_EVENT_VFORK stop.
	EventVfork
	// EventClone is a PTRACE_EVENT_CLONE stop.
	EventClone
	// EventExec is a PTRACE_EVENT_EXEC stop.
	EventExec
	// EventExitEvent is a PTRACE_EVENT_EXIT stop (process about to exit).
	EventExitEvent
)

func (k PTraceEventKind) String() string {
	switch k {
	case EventFork:
		return "fork"
	case EventVfork:
		return "vfork"
	case EventClone:
		return "clone"
	case EventExec:
		return "exec"
	case EventExitEvent:
		return "exit"
	default:
		return "unknown"
	}
}

// SyscallInfo carries the decoded view of a syscall stop.
type SyscallInfo struct {
	Kind SyscallKind
	// Number is the raw syscall number as seen in Orig_rax (or its i386
	// equivalent); meaningful even for Unknown kinds.
	Number uint64
	// Args holds the raw six-argument register tuple as captured at
	// syscall-enter. Always populated, on both Enter and Exit events,
	// since exit-time detail records need the original arguments.
	Args [6]uint64
	// ABI is the invocation mode this syscall entry used.
	ABI ABI

	// The following are only meaningful on Exit.
	HasReturn bool
	Return    int64
	Errno     syscall.Errno
	// Detail carries an argument-dependent materialized record, e.g. for
	// ReadDetail below. Nil when the kind has no detail variant or the
	// syscall failed.
	Detail interface{}
}

// ReadDetail is the syscall-exit detail record for a successful `read`.
type ReadDetail struct {
	FD    int
	Data  []byte
	Count uint64
}

// WriteDetail is the syscall-exit detail record for `write`, carrying the
// bytes the tracee attempted to write (read from its enter-time argument
// registers, not the kernel's return value).
type WriteDetail struct {
	FD   int
	Data []byte
}

// OpenDetail is the syscall-exit detail record for `open`/`openat`, carrying
// the path argument as passed (read as a NUL-terminated string from the
// tracee's address space) alongside the returned file descriptor.
type OpenDetail struct {
	Path string
	FD   int
}

// Event is the stream element. Exactly one of the Kind-tagged fields below
// is meaningful for a given Kind.
type Event struct {
	PID  int
	Kind EventKind

	// EventSyscallStop
	Phase   SyscallPhase
	Syscall SyscallInfo

	// EventSignalDelivery, EventGroupStop
	Signal syscall.Signal

	// EventPTraceEvent
	PTraceEvent PTraceEventKind
	// NewPID is populated for fork/vfork/clone events: the PID of the new
	// child, which the driver begins tracking before this event is
	// delivered to the sink.
	NewPID int

	// EventProcessExit
	ExitStatus int
	// ExitSignaled reports whether ExitStatus names a signal that killed
	// the tracee rather than a normal exit code.
	ExitSignaled bool
	ExitSignal   syscall.Signal
}
