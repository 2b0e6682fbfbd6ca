package ptrace

import (
	"errors"
	"testing"
)

func TestSetupErrorFormatting(t *testing.T) {
	wrapped := errors.New("boom")
	err := &SetupError{Op: "spawn", Pid: 123, Err: wrapped}
	if !errors.Is(err, err) {
		t.Fatal("sanity: error should equal itself")
	}
	if errors.Unwrap(err) != wrapped {
		t.Error("Unwrap should return the wrapped error")
	}
	if err.Error() == "" {
		t.Error("Error() should not be empty")
	}

	noErr := &SetupError{Op: "spawn", Pid: 123, Reason: "empty argv"}
	if noErr.Error() == "" {
		t.Error("Error() should render the Reason when Err is nil")
	}
}

func TestProtocolViolationFormatting(t *testing.T) {
	err := &ProtocolViolation{Pid: 7, Invariant: "enter/exit alternation", Detail: "exit without enter"}
	msg := err.Error()
	if msg == "" {
		t.Fatal("Error() should not be empty")
	}
}

func TestDecodeErrorUnwrap(t *testing.T) {
	wrapped := errors.New("short peek")
	err := &DecodeError{Pid: 1, Reason: "abi detect", Err: wrapped}
	if errors.Unwrap(err) != wrapped {
		t.Error("Unwrap should return the wrapped error")
	}
}

func TestVanishedFormatting(t *testing.T) {
	err := &Vanished{Pid: 99}
	if err.Error() == "" {
		t.Error("Error() should not be empty")
	}
}
