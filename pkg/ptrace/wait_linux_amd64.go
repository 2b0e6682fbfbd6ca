//go:build linux && amd64

package ptrace

import (
	"syscall"

	"github.com/pendulm/tracetap/pkg/env"
)

// groupStopSignals are the stop-class signals the kernel uses for
// job-control group-stops. A stopped tracee carrying one of these (and not
// SIGTRAP) is a group-stop rather than an ordinary signal-delivery-stop.
var groupStopSignals = map[syscall.Signal]bool{
	syscall.SIGSTOP: true,
	syscall.SIGTSTP: true,
	syscall.SIGTTIN: true,
	syscall.SIGTTOU: true,
}

// fatalSignalExitCode maps a terminating signal to the conventional
// "killed by signal" exit status, 128+signal (spec's fatal-signal(s)).
func fatalSignalExitCode(sig syscall.Signal) int {
	return env.ExitSignalBase + int(sig)
}

// waitOne blocks on wait4 for the given pid (or -1 for any tracked tracee)
// and classifies the resulting status into a typed Event per spec §4.2's
// classification table. It does not decode syscall arguments: that is
// decode_linux_amd64.go's job, invoked by the driver only for
// EventSyscallStop results. tracees supplies the per-PID in_syscall state
// needed to disambiguate syscall-enter from syscall-exit.
//
// Grounded on DataDog ptracer.go's trace() wait loop and
// riverlytech-art's traceLoop, generalized to distinguish group-stops
// (spec's GroupStop row) which neither example's loop models explicitly.
func waitOne(pid int, tracees *table) (Event, error) {
	for {
		var status syscall.WaitStatus
		// WALL (__WALL) is required to reliably reap CLONE_THREAD children:
		// without it, a thread-clone that never delivers SIGCHLD to this
		// tracer can be missed by a plain wait4.
		wpid, err := syscall.Wait4(pid, &status, syscall.WALL, nil)
		if err != nil {
			if err == syscall.EINTR {
				continue
			}
			if err == syscall.ECHILD {
				return Event{}, err
			}
			return Event{}, &SetupError{Op: "wait4", Pid: pid, Err: err}
		}

		switch {
		case status.Exited():
			return Event{PID: wpid, Kind: EventProcessExit, ExitStatus: status.ExitStatus()}, nil

		case status.Signaled():
			sig := status.Signal()
			return Event{
				PID:          wpid,
				Kind:         EventProcessExit,
				ExitStatus:   fatalSignalExitCode(sig),
				ExitSignaled: true,
				ExitSignal:   sig,
			}, nil

		case status.Stopped():
			sig := status.StopSignal()

			if sig == syscall.SIGTRAP|0x80 {
				tr := tracees.ensure(wpid)
				phase := tr.toggleSyscallStop()
				return Event{PID: wpid, Kind: EventSyscallStop, Phase: phase}, nil
			}

			if sig == syscall.SIGTRAP {
				if cause := status.TrapCause(); cause != -1 {
					kind, ok := ptraceEventKind(cause)
					if !ok {
						return Event{}, &ProtocolViolation{
							Pid:       wpid,
							Invariant: "PTRACE_EVENT decode",
							Detail:    "unrecognized trap cause in upper status bits",
						}
					}
					return Event{PID: wpid, Kind: EventPTraceEvent, PTraceEvent: kind}, nil
				}
				// A plain SIGTRAP without event bits still arrives as an
				// ordinary signal-delivery-stop (e.g. a debugger-style
				// breakpoint trap unrelated to PTRACE_O_TRACESYSGOOD).
				return Event{PID: wpid, Kind: EventSignalDelivery, Signal: sig}, nil
			}

			if groupStopSignals[sig] {
				return Event{PID: wpid, Kind: EventGroupStop, Signal: sig}, nil
			}

			return Event{PID: wpid, Kind: EventSignalDelivery, Signal: sig}, nil

		default:
			// "Continued" (WCONTINUED not requested, so this should not
			// occur, but the spec calls for silently re-waiting rather
			// than treating it as a protocol violation).
			continue
		}
	}
}

func ptraceEventKind(cause int) (PTraceEventKind, bool) {
	switch cause {
	case syscall.PTRACE_EVENT_FORK:
		return EventFork, true
	case syscall.PTRACE_EVENT_VFORK:
		return EventVfork, true
	case syscall.PTRACE_EVENT_CLONE:
		return EventClone, true
	case syscall.PTRACE_EVENT_EXEC:
		return EventExec, true
	case syscall.PTRACE_EVENT_EXIT:
		return EventExitEvent, true
	default:
		return 0, false
	}
}
