package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestLoggerPrefixes(t *testing.T) {
	var out, errOut bytes.Buffer
	l := New(&out, &errOut)

	l.Infof("payday for %s", "Ava")
	l.Warn("slow client")
	l.Error("disk full")
	l.Event("GAME_WON", "0", "month 7")

	if !strings.Contains(out.String(), "[KIDCAP-INFO] ") || !strings.Contains(out.String(), "payday for Ava") {
		t.Errorf("info line missing: %q", out.String())
	}
	if !strings.Contains(out.String(), "[KIDCAP-WARN] ") {
		t.Errorf("warn line missing: %q", out.String())
	}
	if !strings.Contains(out.String(), "[EVENT:GAME_WON] Actor:0 | month 7") {
		t.Errorf("event line missing: %q", out.String())
	}
	if !strings.Contains(errOut.String(), "[KIDCAP-ERROR] ") || strings.Contains(out.String(), "disk full") {
		t.Errorf("errors should go to the error writer only: out=%q err=%q", out.String(), errOut.String())
	}
}

func TestDiscard(t *testing.T) {
	l := NewDiscard()
	l.Info("nothing")
	l.Errorf("nothing %d", 1)
}
