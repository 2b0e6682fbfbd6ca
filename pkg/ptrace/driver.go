//go:build linux && amd64

package ptrace

import (
	"runtime"
	"syscall"

	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"

	"github.com/pendulm/tracetap/pkg/env"
	"github.com/pendulm/tracetap/pkg/log"
)

// traceOptions is the tracing-options bitmask the driver installs on every
// newly observed tracee (spec §4.5 "Initial setup"): syscall-stop
// disambiguation, the three follow-child event bits, and the exec/exit
// lifecycle bits.
const traceOptions = syscall.PTRACE_O_TRACESYSGOOD |
	syscall.PTRACE_O_TRACEFORK |
	syscall.PTRACE_O_TRACEVFORK |
	syscall.PTRACE_O_TRACECLONE |
	syscall.PTRACE_O_TRACEEXEC |
	syscall.PTRACE_O_TRACEEXIT

// Action is the sink's verdict for a delivered event.
type Action int

const (
	// ActionContinue lets the driver proceed to the next event.
	ActionContinue Action = iota
	// ActionStop requests early termination; the driver stops delivering
	// events but still drives the remaining tracees to a quiescent state.
	ActionStop
)

// Sink is the pull-driven consumer of the event stream (design note §9
// option (a): the driver loop's body plays the role of "next", and the
// sink is the iterator body's callback). It must not block indefinitely:
// doing so freezes every tracee, since the engine is single-threaded.
type Sink func(Event) Action

// resumeKind records which continuation the driver owes the tracee that
// last stopped, decided per spec §4.5 step 1.
type resumeKind int

const (
	resumeSyscall resumeKind = iota
	resumeSignal
	resumeListen
)

// Session drives one trace from spawn to completion. It owns the tracking
// table exclusively and is not safe for concurrent use — per spec §5 the
// engine is single-threaded cooperative, alternating between blocking in
// wait4 and running consumer code on one OS thread.
//
// Grounded on DataDog ptracer.go's trace() loop structure and
// eaburns-ptrace's command/event separation, generalized to the
// multi-tracee tracking and resume-discipline dispatch spec §4.5 and §5
// require (neither example tracks more than the resume-with-signal case,
// and neither models group-stops).
type Session struct {
	tracees *table

	initialPID    int
	initialExit   int
	initialExited bool

	pendingSignal map[int]syscall.Signal
}

// NewSession constructs a Session with no tracees tracked yet.
func NewSession() *Session {
	return &Session{
		tracees:       newTable(),
		pendingSignal: make(map[int]syscall.Signal),
	}
}

// Run spawns argv under tracing and drives the event loop until no tracked
// tracee remains, delivering each event to sink. It returns the initial
// tracee's exit status (spec §4.6's stream-trace exit-status element); the
// sink's own result is the caller's to accumulate via closure, matching
// the synchronous-callback design decision.
//
// The calling goroutine is locked to its OS thread for the session's
// duration: ptrace scopes tracer identity to the thread, not the process.
func (s *Session) Run(argv []string, io Stdio, sink Sink) (int, error) {
	lockTracerThread()
	defer runtime.UnlockOSThread()

	sp, err := Spawn(argv, io)
	if err != nil {
		return 0, err
	}
	s.initialPID = sp.PID
	initial := s.tracees.ensure(sp.PID)
	if err := syscall.PtraceSetOptions(sp.PID, traceOptions); err != nil {
		syscall.Kill(sp.PID, syscall.SIGKILL)
		syscall.Wait4(sp.PID, nil, 0, nil)
		return 0, &SetupError{Op: "PTRACE_SETOPTIONS", Pid: sp.PID, Err: err}
	}
	initial.optionsSet = true

	stopped := sp.PID
	stoppedKind := resumeSyscall

	for s.tracees.len() > 0 {
		if err := s.resume(stopped, stoppedKind); err != nil {
			if isVanished(err) {
				s.drop(stopped)
				if s.tracees.len() == 0 {
					break
				}
			} else {
				return s.initialExit, err
			}
		}

		ev, err := waitOne(-1, s.tracees)
		if err != nil {
			if err == syscall.ECHILD {
				break
			}
			return s.initialExit, err
		}

		if ev.Kind != EventProcessExit {
			s.ensureOptions(ev.PID)
		}

		switch ev.Kind {
		case EventSyscallStop:
			tr := s.tracees.get(ev.PID)
			info, derr := s.decode(tr, ev.Phase)
			if derr != nil {
				if isVanished(derr) {
					s.drop(ev.PID)
					stopped, stoppedKind = 0, resumeSyscall
					continue
				}
				return s.initialExit, derr
			}
			ev.Syscall = info
			stopped, stoppedKind = ev.PID, resumeSyscall
			if log.IsDebug() {
				log.Fields(logrus.Fields{
					"pid":     ev.PID,
					"phase":   ev.Phase.String(),
					"syscall": info.Kind.String(),
				}, "syscall stop")
			}

		case EventPTraceEvent:
			// The event stop that triggered this (execve, or the parent's
			// fork/vfork/clone) replaces the syscall-exit stop the kernel
			// would otherwise deliver, so the alternation this PID's last
			// syscall-enter started never sees its matching exit here.
			if tr := s.tracees.get(ev.PID); tr != nil {
				tr.completeSyscall()
			}
			if ev.PTraceEvent == EventFork || ev.PTraceEvent == EventVfork || ev.PTraceEvent == EventClone {
				if newPid, gerr := syscall.PtraceGetEventMsg(ev.PID); gerr == nil {
					ev.NewPID = int(newPid)
					s.tracees.ensure(int(newPid))
				}
			}
			stopped, stoppedKind = ev.PID, resumeSyscall
			if log.IsDebug() {
				log.Fields(logrus.Fields{
					"pid":   ev.PID,
					"event": ev.PTraceEvent.String(),
				}, "ptrace event stop")
			}

		case EventSignalDelivery:
			stopped, stoppedKind = ev.PID, resumeSignal
			s.pendingSignal[ev.PID] = ev.Signal

		case EventGroupStop:
			stopped, stoppedKind = ev.PID, resumeListen

		case EventProcessExit:
			s.tracees.remove(ev.PID)
			if ev.PID == s.initialPID {
				s.initialExit = ev.ExitStatus
				s.initialExited = true
			}
			// No PID to resume next iteration; the loop condition at top
			// re-checks whether any tracee remains.
			stopped, stoppedKind = 0, resumeSyscall
			if sink(ev) == ActionStop {
				s.drainAndDetach()
				return s.initialExit, nil
			}
			continue
		}

		if sink(ev) == ActionStop {
			s.drainAndDetach()
			return s.initialExit, nil
		}
	}

	if !s.initialExited {
		return s.initialExit, &Vanished{Pid: s.initialPID}
	}
	return s.initialExit, nil
}

// decode dispatches to the enter or exit decoder per the observed phase.
func (s *Session) decode(tr *tracee, phase SyscallPhase) (SyscallInfo, error) {
	if phase == Enter {
		return decodeSyscallEnter(tr)
	}
	return decodeSyscallExit(tr)
}

// ensureOptions installs the tracing-options bitmask on a PID the first
// time the driver observes any stop for it, idempotently. New children are
// recorded (via EventPTraceEvent fork/vfork/clone handling) before the
// first stop the kernel reports for them actually arrives, so this must
// run for every stop kind, not only PTraceEvent stops.
func (s *Session) ensureOptions(pid int) {
	tr := s.tracees.ensure(pid)
	if tr.optionsSet {
		return
	}
	if err := syscall.PtraceSetOptions(pid, traceOptions); err != nil {
		log.Debug("PTRACE_SETOPTIONS pid=%d: %v", pid, err)
	}
	tr.optionsSet = true
}

// resume issues the kernel resume command owed to the PID that last
// stopped, per the continuation rules in spec §4.5 step 1.
func (s *Session) resume(pid int, kind resumeKind) error {
	if pid == 0 {
		return nil
	}
	switch kind {
	case resumeSignal:
		sig := s.pendingSignal[pid]
		delete(s.pendingSignal, pid)
		return syscall.PtraceSyscall(pid, int(sig))
	case resumeListen:
		return ptraceListen(pid)
	default:
		return syscall.PtraceSyscall(pid, 0)
	}
}

// SendSignal injects a signal into a tracked tracee immediately, via a
// direct kill(2) rather than a queued "deliver on next resume" (decided
// against design note §9's ambiguity in favor of the §8 scenario 5/6 "kill
// takes effect before the next write" tests). Errors against a PID that
// has already vanished are dropped, per spec §7's propagation policy.
func (s *Session) SendSignal(pid int, sig syscall.Signal) error {
	if err := syscall.Kill(pid, sig); err != nil {
		if err == syscall.ESRCH {
			return nil
		}
		return err
	}
	return nil
}

// drop removes a vanished PID from the tracked set without treating it as
// fatal, per spec §5/§7's transient-disappearance handling.
func (s *Session) drop(pid int) {
	log.Debug("tracee %d vanished, dropping from tracked set", pid)
	s.tracees.remove(pid)
	if pid == s.initialPID && !s.initialExited {
		s.initialExit = env.ExitErr
	}
}

// drainAndDetach is invoked when the sink requests early termination: the
// driver must not leave tracees stopped indefinitely (spec §5), so it
// detaches every remaining tracked PID, letting them run free.
func (s *Session) drainAndDetach() {
	for _, pid := range s.tracees.pids() {
		if err := syscall.PtraceDetach(pid); err != nil {
			log.Debug("detach pid=%d: %v", pid, err)
		}
	}
}

func isVanished(err error) bool {
	if err == syscall.ESRCH {
		return true
	}
	type unwrapper interface{ Unwrap() error }
	if u, ok := err.(unwrapper); ok {
		return isVanished(u.Unwrap())
	}
	return false
}

// ptraceListen issues the raw PTRACE_LISTEN request, which the stdlib
// syscall package does not expose on amd64 (spec §4.5's group-stop
// continuation). Grounded in golang.org/x/sys/unix's PTRACE_LISTEN
// constant, invoked via the same raw ptrace(2) entry point
// syscall.PtraceSyscall uses internally.
func ptraceListen(pid int) error {
	_, _, errno := syscall.Syscall6(syscall.SYS_PTRACE, uintptr(unix.PTRACE_LISTEN), uintptr(pid), 0, 0, 0, 0)
	if errno != 0 {
		return errno
	}
	return nil
}
