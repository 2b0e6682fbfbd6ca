//go:build linux && amd64

package ptrace

import "syscall"

// decodeSyscallEnter reads the tracee's register file, determines the
// invocation ABI, looks up the symbolic kind, and caches the result on the
// tracee record so the matching exit can recover the original arguments.
//
// Grounded on spec §4.4's enter algorithm; register extraction follows
// DataDog ptracer.go's getRegs/decode pairing.
func decodeSyscallEnter(tr *tracee) (SyscallInfo, error) {
	var regs syscall.PtraceRegs
	if err := syscall.PtraceGetRegs(tr.pid, &regs); err != nil {
		return SyscallInfo{}, &DecodeError{Pid: tr.pid, Reason: "PTRACE_GETREGS at syscall-enter", Err: err}
	}

	abi, err := detectABI(tr.pid, instructionPointer(&regs))
	if err != nil {
		return SyscallInfo{}, &ProtocolViolation{
			Pid:       tr.pid,
			Invariant: "syscall entry opcode",
			Detail:    err.Error(),
		}
	}
	tr.abi = abi

	number := syscallNumber(&regs)
	info := SyscallInfo{
		Kind:   syscallKindFor(abi, number),
		Number: number,
		Args:   syscallArgs(&regs),
		ABI:    abi,
	}
	tr.enterRegs = &syscallEnterSnapshot{info: info}
	return info, nil
}

// decodeSyscallExit re-reads registers for the return value, combines it
// with the cached enter-time info, and materializes a detail record when
// the kind defines one.
//
// If no enter snapshot is cached (the engine attached mid-syscall, or
// missed the enter stop), the exit is reported as a ProtocolViolation: the
// spec's state machine assumes enter/exit always alternate in lockstep.
func decodeSyscallExit(tr *tracee) (SyscallInfo, error) {
	if tr.enterRegs == nil {
		return SyscallInfo{}, &ProtocolViolation{
			Pid:       tr.pid,
			Invariant: "syscall enter/exit alternation",
			Detail:    "syscall-exit observed with no matching enter snapshot",
		}
	}
	info := tr.enterRegs.info
	tr.enterRegs = nil

	var regs syscall.PtraceRegs
	if err := syscall.PtraceGetRegs(tr.pid, &regs); err != nil {
		return SyscallInfo{}, &DecodeError{Pid: tr.pid, Reason: "PTRACE_GETREGS at syscall-exit", Err: err}
	}

	value, errno, failed := splitReturn(uint64(syscallReturn(&regs)))
	info.HasReturn = true
	info.Return = value
	info.Errno = errno

	if !failed && info.Kind.HasDetail() {
		detail, err := materializeDetail(tr.pid, info, value)
		if err != nil {
			return SyscallInfo{}, err
		}
		info.Detail = detail
	}

	return info, nil
}

// materializeDetail builds the argument-dependent exit-time record for
// syscalls that define one. Per spec §4.4, failed calls are not read from
// (decodeSyscallExit only calls this when failed is false).
func materializeDetail(pid int, info SyscallInfo, returnValue int64) (interface{}, error) {
	switch info.Kind {
	case SyscallRead, SyscallPread64:
		fd := int(info.Args[0])
		bufAddr := info.Args[1]
		if returnValue <= 0 {
			return ReadDetail{FD: fd, Count: 0}, nil
		}
		data := make([]byte, returnValue)
		if err := readMemory(pid, bufAddr, data); err != nil {
			return nil, &DecodeError{Pid: pid, Reason: "reading read() buffer detail", Err: err}
		}
		return ReadDetail{FD: fd, Data: data, Count: uint64(returnValue)}, nil

	case SyscallWrite, SyscallPwrite64:
		fd := int(info.Args[0])
		bufAddr := info.Args[1]
		count := info.Args[2]
		if count == 0 {
			return WriteDetail{FD: fd}, nil
		}
		data := make([]byte, count)
		if err := readMemory(pid, bufAddr, data); err != nil {
			return nil, &DecodeError{Pid: pid, Reason: "reading write() buffer detail", Err: err}
		}
		return WriteDetail{FD: fd, Data: data}, nil

	case SyscallOpen:
		path, err := readCString(pid, info.Args[0])
		if err != nil {
			return nil, &DecodeError{Pid: pid, Reason: "reading open() path detail", Err: err}
		}
		return OpenDetail{Path: path, FD: int(returnValue)}, nil

	case SyscallOpenat:
		path, err := readCString(pid, info.Args[1])
		if err != nil {
			return nil, &DecodeError{Pid: pid, Reason: "reading openat() path detail", Err: err}
		}
		return OpenDetail{Path: path, FD: int(returnValue)}, nil

	default:
		return nil, nil
	}
}
