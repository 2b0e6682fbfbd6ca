package log

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestIsDebugReflectsLevel(t *testing.T) {
	orig := logger.GetLevel()
	defer logger.SetLevel(orig)

	logger.SetLevel(logrus.InfoLevel)
	if IsDebug() {
		t.Error("IsDebug() should be false at InfoLevel")
	}

	logger.SetLevel(logrus.DebugLevel)
	if !IsDebug() {
		t.Error("IsDebug() should be true at DebugLevel")
	}
}

func TestFieldsAttachesStructuredData(t *testing.T) {
	orig := logger.GetLevel()
	origOut := logger.Out
	defer func() {
		logger.SetLevel(orig)
		logger.SetOutput(origOut)
	}()

	var buf bytes.Buffer
	logger.SetOutput(&buf)
	logger.SetLevel(logrus.DebugLevel)

	Fields(logrus.Fields{"pid": 123, "syscall": "write"}, "observed %s", "write")

	out := buf.String()
	if !strings.Contains(out, "pid=123") {
		t.Errorf("log output missing pid field: %q", out)
	}
	if !strings.Contains(out, "observed write") {
		t.Errorf("log output missing formatted message: %q", out)
	}
}
