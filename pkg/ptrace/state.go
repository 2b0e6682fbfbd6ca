package ptrace

// tracee is the per-tracee state record kept by the driver. It remembers
// whether the tracee is between a syscall-enter and its matching
// syscall-exit, the last observed invocation mode, and whether tracing
// options have been applied.
//
// Grounded on DataDog's SyscallStateTracker (pkg/security/ptracer/state.go):
// same Entry/Exit toggle, extended with the ABI and options-applied fields
// this spec's data model additionally requires.
type tracee struct {
	pid        int
	inSyscall  bool
	abi        ABI
	optionsSet bool
	// enterRegs caches the syscall-enter register snapshot so syscall-exit
	// decoding can report the original arguments alongside the result.
	enterRegs *syscallEnterSnapshot
}

type syscallEnterSnapshot struct {
	info SyscallInfo
}

// table is the driver's owned PID -> tracee map. It is accessed only from
// the driver's single goroutine, so it needs no synchronization (spec §9
// "Global state").
type table struct {
	tracees map[int]*tracee
}

func newTable() *table {
	return &table{tracees: make(map[int]*tracee)}
}

func (t *table) get(pid int) *tracee {
	return t.tracees[pid]
}

func (t *table) ensure(pid int) *tracee {
	tr, ok := t.tracees[pid]
	if !ok {
		tr = &tracee{pid: pid}
		t.tracees[pid] = tr
	}
	return tr
}

func (t *table) remove(pid int) {
	delete(t.tracees, pid)
}

func (t *table) len() int {
	return len(t.tracees)
}

func (t *table) pids() []int {
	pids := make([]int, 0, len(t.tracees))
	for pid := range t.tracees {
		pids = append(pids, pid)
	}
	return pids
}

// toggleSyscallStop flips in_syscall and reports which phase this stop
// represents. The kernel reports syscall-enter and syscall-exit with
// identical signatures; only this remembered state distinguishes them.
func (tr *tracee) toggleSyscallStop() SyscallPhase {
	if tr.inSyscall {
		tr.inSyscall = false
		return Exit
	}
	tr.inSyscall = true
	return Enter
}

// completeSyscall forces the alternation state back to "not in syscall".
// PTRACE_O_TRACEEXEC/FORK/VFORK/CLONE make the kernel report a
// PTRACE_EVENT_* stop in place of the ordinary syscall-exit stop for the
// execve/fork/vfork/clone that triggered it, so toggleSyscallStop never
// sees the matching exit. Without this, the alternation recorded at that
// syscall's enter would stay stuck "in syscall", and the tracee's next
// genuine syscall-enter would be misclassified as an exit.
func (tr *tracee) completeSyscall() {
	tr.inSyscall = false
}
