package ptrace

// SyscallKind is a closed enumeration of the syscalls this engine assigns
// symbolic names to. SyscallUnknown stands in for the spec's Unknown(number)
// variant; the raw number is always available on SyscallInfo.Number
// regardless of whether the kind is known.
type SyscallKind int

const (
	SyscallUnknown SyscallKind = iota
	SyscallRead
	SyscallWrite
	SyscallOpen
	SyscallOpenat
	SyscallClose
	SyscallStat
	SyscallFstat
	SyscallLstat
	SyscallMmap
	SyscallMunmap
	SyscallMprotect
	SyscallBrk
	SyscallRtSigaction
	SyscallRtSigprocmask
	SyscallIoctl
	SyscallPread64
	SyscallPwrite64
	SyscallReadv
	SyscallWritev
	SyscallAccess
	SyscallPipe
	SyscallDup
	SyscallDup2
	SyscallDup3
	SyscallNanosleep
	SyscallFcntl
	SyscallGetpid
	SyscallGetppid
	SyscallSocket
	SyscallConnect
	SyscallExecve
	SyscallExecveat
	SyscallExit
	SyscallExitGroup
	SyscallWait4
	SyscallKill
	SyscallTgkill
	SyscallFork
	SyscallVfork
	SyscallClone
	SyscallClone3
	SyscallRename
	SyscallRenameat
	SyscallRenameat2
	SyscallUnlink
	SyscallUnlinkat
	SyscallMkdir
	SyscallChdir
	SyscallFchdir
	SyscallGetcwd
	SyscallGetdents64
	SyscallLseek
	SyscallFsync
	SyscallFtruncate
	SyscallChmod
	SyscallFchmod
	SyscallChown
	SyscallSetuid
	SyscallSetgid
	SyscallUname
	SyscallArchPrctl
	SyscallSetTidAddress
	SyscallSetRobustList
	SyscallPrlimit64
	SyscallFutex
	SyscallGetrandom
	SyscallStatx
	SyscallOpenat2
	SyscallFaccessat
	SyscallFaccessat2
	SyscallMremap
	SyscallChown32
)

var syscallKindNames = map[SyscallKind]string{
	SyscallUnknown:        "unknown",
	SyscallRead:           "read",
	SyscallWrite:          "write",
	SyscallOpen:           "open",
	SyscallOpenat:         "openat",
	SyscallClose:          "close",
	SyscallStat:           "stat",
	SyscallFstat:          "fstat",
	SyscallLstat:          "lstat",
	SyscallMmap:           "mmap",
	SyscallMunmap:         "munmap",
	SyscallMprotect:       "mprotect",
	SyscallBrk:            "brk",
	SyscallRtSigaction:    "rt_sigaction",
	SyscallRtSigprocmask:  "rt_sigprocmask",
	SyscallIoctl:          "ioctl",
	SyscallPread64:        "pread64",
	SyscallPwrite64:       "pwrite64",
	SyscallReadv:          "readv",
	SyscallWritev:         "writev",
	SyscallAccess:         "access",
	SyscallPipe:           "pipe",
	SyscallDup:            "dup",
	SyscallDup2:           "dup2",
	SyscallDup3:           "dup3",
	SyscallNanosleep:      "nanosleep",
	SyscallFcntl:          "fcntl",
	SyscallGetpid:         "getpid",
	SyscallGetppid:        "getppid",
	SyscallSocket:         "socket",
	SyscallConnect:        "connect",
	SyscallExecve:         "execve",
	SyscallExecveat:       "execveat",
	SyscallExit:           "exit",
	SyscallExitGroup:      "exit_group",
	SyscallWait4:          "wait4",
	SyscallKill:           "kill",
	SyscallTgkill:         "tgkill",
	SyscallFork:           "fork",
	SyscallVfork:          "vfork",
	SyscallClone:          "clone",
	SyscallClone3:         "clone3",
	SyscallRename:         "rename",
	SyscallRenameat:       "renameat",
	SyscallRenameat2:      "renameat2",
	SyscallUnlink:         "unlink",
	SyscallUnlinkat:       "unlinkat",
	SyscallMkdir:          "mkdir",
	SyscallChdir:          "chdir",
	SyscallFchdir:         "fchdir",
	SyscallGetcwd:         "getcwd",
	SyscallGetdents64:     "getdents64",
	SyscallLseek:          "lseek",
	SyscallFsync:          "fsync",
	SyscallFtruncate:      "ftruncate",
	SyscallChmod:          "chmod",
	SyscallFchmod:         "fchmod",
	SyscallChown:          "chown",
	SyscallSetuid:         "setuid",
	SyscallSetgid:         "setgid",
	SyscallUname:          "uname",
	SyscallArchPrctl:      "arch_prctl",
	SyscallSetTidAddress:  "set_tid_address",
	SyscallSetRobustList:  "set_robust_list",
	SyscallPrlimit64:      "prlimit64",
	SyscallFutex:          "futex",
	SyscallGetrandom:      "getrandom",
	SyscallStatx:          "statx",
	SyscallOpenat2:        "openat2",
	SyscallFaccessat:      "faccessat",
	SyscallFaccessat2:     "faccessat2",
	SyscallMremap:         "mremap",
	SyscallChown32:        "chown32",
}

// String returns the syscall's symbolic name, or "unknown" for
// SyscallUnknown. Callers that need the raw number for an unknown syscall
// read it from the owning SyscallInfo.Number.
func (k SyscallKind) String() string {
	if name, ok := syscallKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// HasDetail reports whether exit-time detail materialization is defined for
// this syscall kind.
func (k SyscallKind) HasDetail() bool {
	switch k {
	case SyscallRead, SyscallPread64, SyscallWrite, SyscallPwrite64, SyscallOpen, SyscallOpenat:
		return true
	default:
		return false
	}
}

// syscallTableX8664 maps x86_64 syscall numbers to symbolic kinds.
// https://github.com/torvalds/linux/blob/v5.0/arch/x86/entry/syscalls/syscall_64.tbl
var syscallTableX8664 = map[uint64]SyscallKind{
	0:   SyscallRead,
	1:   SyscallWrite,
	2:   SyscallOpen,
	3:   SyscallClose,
	4:   SyscallStat,
	5:   SyscallFstat,
	6:   SyscallLstat,
	8:   SyscallLseek,
	9:   SyscallMmap,
	10:  SyscallMprotect,
	11:  SyscallMunmap,
	12:  SyscallBrk,
	13:  SyscallRtSigaction,
	14:  SyscallRtSigprocmask,
	16:  SyscallIoctl,
	17:  SyscallPread64,
	18:  SyscallPwrite64,
	19:  SyscallReadv,
	20:  SyscallWritev,
	21:  SyscallAccess,
	22:  SyscallPipe,
	32:  SyscallDup,
	33:  SyscallDup2,
	35:  SyscallNanosleep,
	39:  SyscallGetpid,
	41:  SyscallSocket,
	42:  SyscallConnect,
	56:  SyscallClone,
	57:  SyscallFork,
	58:  SyscallVfork,
	59:  SyscallExecve,
	60:  SyscallExit,
	61:  SyscallWait4,
	62:  SyscallKill,
	63:  SyscallUname,
	72:  SyscallFcntl,
	77:  SyscallFtruncate,
	79:  SyscallGetcwd,
	80:  SyscallChdir,
	81:  SyscallFchdir,
	82:  SyscallRename,
	83:  SyscallMkdir,
	87:  SyscallUnlink,
	90:  SyscallChmod,
	91:  SyscallFchmod,
	92:  SyscallChown,
	105: SyscallSetuid,
	106: SyscallSetgid,
	110: SyscallGetppid,
	158: SyscallArchPrctl,
	202: SyscallFutex,
	217: SyscallGetdents64,
	218: SyscallSetTidAddress,
	231: SyscallExitGroup,
	234: SyscallTgkill,
	257: SyscallOpenat,
	263: SyscallUnlinkat,
	264: SyscallRenameat,
	273: SyscallSetRobustList,
	292: SyscallDup3,
	302: SyscallPrlimit64,
	316: SyscallRenameat2,
	318: SyscallGetrandom,
	322: SyscallExecveat,
	332: SyscallStatx,
	435: SyscallClone3,
	437: SyscallOpenat2,
	439: SyscallFaccessat2,
}

// syscallTableI386 maps i386 (int 0x80) syscall numbers to symbolic kinds.
// Numbers are NOT shared with the x86_64 table; disagreement is expected.
// https://github.com/torvalds/linux/blob/v5.0/arch/x86/entry/syscalls/syscall_32.tbl
var syscallTableI386 = map[uint64]SyscallKind{
	1:   SyscallExit,
	2:   SyscallFork,
	3:   SyscallRead,
	4:   SyscallWrite,
	5:   SyscallOpen,
	6:   SyscallClose,
	7:   SyscallWait4,
	11:  SyscallExecve,
	12:  SyscallChdir,
	15:  SyscallChmod,
	19:  SyscallLseek,
	20:  SyscallGetpid,
	23:  SyscallSetuid,
	33:  SyscallAccess,
	37:  SyscallKill,
	38:  SyscallRename,
	39:  SyscallMkdir,
	42:  SyscallPipe,
	45:  SyscallBrk,
	46:  SyscallSetgid,
	64:  SyscallGetppid,
	90:  SyscallMmap,
	91:  SyscallMunmap,
	108: SyscallFstat,
	114: SyscallWait4,
	120: SyscallClone,
	125: SyscallMprotect,
	133: SyscallFchdir,
	140: SyscallLseek,
	141: SyscallGetdents64,
	145: SyscallReadv,
	146: SyscallWritev,
	163: SyscallMremap,
	183: SyscallGetcwd,
	190: SyscallVfork,
	195: SyscallStat,
	196: SyscallLstat,
	197: SyscallFstat,
	198: SyscallChown,
	212: SyscallChown32,
	220: SyscallGetdents64,
	221: SyscallFcntl,
	252: SyscallExitGroup,
	258: SyscallSetTidAddress,
	270: SyscallTgkill,
	295: SyscallOpenat,
	301: SyscallUnlinkat,
	302: SyscallRenameat,
	330: SyscallDup3,
	340: SyscallPrlimit64,
	353: SyscallRenameat2,
	355: SyscallGetrandom,
	358: SyscallExecveat,
	383: SyscallStatx,
	437: SyscallOpenat2,
	439: SyscallFaccessat2,
}
