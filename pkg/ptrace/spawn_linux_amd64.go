//go:build linux && amd64

package ptrace

import (
	"fmt"
	"os"
	"runtime"
	"syscall"
)

// stubEnvVar gates the re-exec stub: its presence in the environment is how
// a freshly os.StartProcess'd copy of this same binary recognizes it is the
// traced side of a Spawn call rather than an ordinary invocation.
const stubEnvVar = "TRACETAP_STUB_EXEC"

// Spawned is a freshly started stub process, stopped at the SIGSTOP it
// raises against itself before exec'ing the real target (spec §4.1: "raise
// a stop-signal against itself; then, once resumed, call exec"). Run pins
// the OS thread that performed the stopping wait4: ptrace requires every
// subsequent operation on this tracee to originate from that same thread.
type Spawned struct {
	PID int
}

// Stdio mirrors os.ProcAttr.Files for the three inherited standard streams;
// the pty-backed facade substitutes its slave end here instead of the
// process's own stdio.
type Stdio struct {
	Stdin, Stdout, Stderr *os.File
}

// Spawn starts argv[0] (resolved per resolvePath) with tracing enabled and
// blocks until the tracee reaches its first stop, verifying the reported
// PID and stop reason match the documented algorithm in spec §4.1. This is
// the standalone "spawn-traced(argv) -> pid" primitive; Session.Run calls
// it internally before handing the result to the Driver, but it is usable
// on its own by a caller that wants to drive PTRACE_* calls directly
// instead of going through a Session.
//
// os.StartProcess's SysProcAttr{Ptrace: true} makes the child call
// PTRACE_TRACEME immediately before its own exec, with no room to insert a
// self-raised stop in between — the first stop the parent would observe is
// already past the exec, so execve's enter/exit never reach the driver as
// a SyscallStop. Spawn instead re-execs this same binary (self-discovered
// via os.Executable) with stubEnvVar set; the re-exec'd process is a fresh,
// single-threaded image that performs PTRACE_TRACEME, raises SIGSTOP
// against itself, and only calls exec once this Spawn's caller resumes it —
// so the exec is observed under tracing like any other syscall.
//
// Grounded on subtrace's run.go: ForkExec'ing the tracer's own binary with
// a sentinel environment variable, detected as the first action of main(),
// is the same re-exec-as-stub idiom used there to get a controlled process
// image before the traced program's life begins.
//
// The caller must have already called runtime.LockOSThread(); Spawn does
// not unlock it, since the returned pid's tracer-thread affinity must be
// preserved for the rest of its tracing lifetime.
func Spawn(argv []string, io Stdio) (*Spawned, error) {
	if len(argv) == 0 {
		return nil, &SetupError{Op: "spawn", Reason: "empty argv"}
	}
	if _, err := resolvePath(argv[0]); err != nil {
		return nil, &SetupError{Op: "spawn", Reason: err.Error()}
	}

	self, err := os.Executable()
	if err != nil {
		return nil, &SetupError{Op: "spawn", Reason: "resolving own executable", Err: err}
	}

	stubArgv := append([]string{self}, argv...)
	proc, err := os.StartProcess(self, stubArgv, &os.ProcAttr{
		Files: []*os.File{io.Stdin, io.Stdout, io.Stderr},
		Env:   append(os.Environ(), stubEnvVar+"=1"),
		Sys: &syscall.SysProcAttr{
			Pdeathsig: syscall.SIGKILL,
		},
	})
	if err != nil {
		return nil, &SetupError{Op: "spawn", Reason: "StartProcess", Err: err}
	}

	var status syscall.WaitStatus
	wpid, err := syscall.Wait4(proc.Pid, &status, 0, nil)
	if err != nil {
		syscall.Kill(proc.Pid, syscall.SIGKILL)
		syscall.Wait4(proc.Pid, nil, 0, nil)
		return nil, &SetupError{Op: "spawn", Pid: proc.Pid, Reason: "initial wait4", Err: err}
	}
	if wpid != proc.Pid {
		return nil, &ProtocolViolation{
			Pid:       proc.Pid,
			Invariant: "initial stop PID",
			Detail:    "wait4 returned a different PID than the spawned process",
		}
	}
	if !status.Stopped() || status.StopSignal() != syscall.SIGSTOP {
		return nil, &ProtocolViolation{
			Pid:       proc.Pid,
			Invariant: "initial stop reason",
			Detail:    "expected the stub's self-raised SIGSTOP, before it execs the traced program",
		}
	}

	return &Spawned{PID: proc.Pid}, nil
}

// lockTracerThread pins the calling goroutine to its current OS thread for
// the lifetime of a tracing session. ptrace(2) scopes tracer identity to
// the calling thread, not the process, so every wait4/PTRACE_* call for a
// given tracee set must come from the same thread that first attached.
func lockTracerThread() {
	runtime.LockOSThread()
}

// MaybeRunStub must be called as literally the first statement of main().
// Every ordinary invocation of the tracetap binary returns immediately; a
// re-exec'd stub (see Spawn) carries stubEnvVar and instead runs runStub,
// which never returns on success — it ends by exec'ing the traced program
// over this process image.
func MaybeRunStub() {
	if os.Getenv(stubEnvVar) == "" {
		return
	}
	os.Unsetenv(stubEnvVar)
	if err := runStub(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "tracetap: stub exec failed: %v\n", err)
		os.Exit(1)
	}
}

// runStub implements the traceme-raise-stop-exec sequence spec §4.1
// describes in prose, from the traced side: PTRACE_TRACEME names the
// parent (blocked in Spawn's wait4) as tracer, the self-raised SIGSTOP
// gives the parent a stop to observe and install options against, and only
// once the parent resumes this process does the real exec happen — so it
// is observed as a traced syscall rather than consumed during setup.
func runStub(argv []string) error {
	if len(argv) == 0 {
		return fmt.Errorf("no program given to exec")
	}
	path, err := resolvePath(argv[0])
	if err != nil {
		return err
	}
	if err := syscall.PtraceTraceme(); err != nil {
		return fmt.Errorf("PTRACE_TRACEME: %w", err)
	}
	if err := syscall.Kill(syscall.Getpid(), syscall.SIGSTOP); err != nil {
		return fmt.Errorf("raising SIGSTOP against self: %w", err)
	}
	return syscall.Exec(path, argv, os.Environ())
}
