package log

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"gopkg.in/Sirupsen/logrus.v0"
)

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	logrus.SetOutput(&buf)
	t.Cleanup(func() { logrus.SetOutput(os.Stderr) })
	return &buf
}

func TestModuleGating(t *testing.T) {
	buf := capture(t)

	ModScan.Infof("hidden info")
	if strings.Contains(buf.String(), "hidden info") {
		t.Error("info shown for disabled module")
	}

	ModScan.Warnf("always shown")
	if !strings.Contains(buf.String(), "always shown") {
		t.Error("warning not shown")
	}

	EnableDebugModules(ModScan.Mask())
	defer DisableDebugModules(ModScan.Mask())

	ModScan.Infof("scan info")
	if !strings.Contains(buf.String(), "scan info") {
		t.Error("info not shown for enabled module")
	}

	ModSplit.Debugf("split debug")
	if strings.Contains(buf.String(), "split debug") {
		t.Error("debug shown for module outside the mask")
	}
}

func TestEntryZ(t *testing.T) {
	buf := capture(t)

	ModScan.WarnZ("open failed").
		String("path", "a.nes").
		Int("count", 3).
		Error("err", errors.New("boom")).
		End()

	out := buf.String()
	for _, want := range []string{"open failed", "path=a.nes", "count=3", "err=boom", "_mod=scan"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestEntryZFieldKinds(t *testing.T) {
	buf := capture(t)

	ModArchive.WarnZ("entry stats").
		Uint64("size", 123456).
		Duration("elapsed", 1500*time.Millisecond).
		Blob("raw", []byte{0x4E, 0x45, 0x53, 0x1A}).
		End()

	out := buf.String()
	for _, want := range []string{"entry stats", "size=123456", "elapsed=1.5s", "4e 45 53 1a"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestEntryZNilReceiver(t *testing.T) {
	buf := capture(t)

	// debug on a disabled module returns nil, the chain must still be safe
	ModINES.DebugZ("hidden").Hex8("flags", 0xFF).Bool("ok", true).End()

	if buf.Len() != 0 {
		t.Errorf("unexpected output: %s", buf.String())
	}
}

func TestModuleByName(t *testing.T) {
	mod, ok := ModuleByName("scan")
	if !ok || mod != ModScan {
		t.Errorf("ModuleByName(scan) = %v, %v", mod, ok)
	}
	if _, ok := ModuleByName("bogus"); ok {
		t.Error("ModuleByName(bogus) found")
	}

	names := ModuleNames()
	if len(names) < 6 || names[0] != "main" {
		t.Errorf("ModuleNames() = %v", names)
	}
}
