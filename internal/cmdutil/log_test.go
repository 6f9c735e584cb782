package cmdutil

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewLoggerLevels(t *testing.T) {
	cases := []struct {
		verbose int
		quiet   bool
		warn    bool
		info    bool
		debug   bool
	}{
		{0, false, true, false, false},
		{1, false, true, true, false},
		{2, false, true, true, true},
		{2, true, false, false, false},
	}
	for _, c := range cases {
		var buf bytes.Buffer
		log := NewLogger(&buf, c.verbose, c.quiet)
		log.Debug("d-msg")
		log.Info("i-msg")
		Warnf(log, "w-%d", 7)
		out := buf.String()
		if strings.Contains(out, "w-7") != c.warn || strings.Contains(out, "i-msg") != c.info || strings.Contains(out, "d-msg") != c.debug {
			t.Fatalf("verbose=%d quiet=%v logged:\n%s", c.verbose, c.quiet, out)
		}
	}
}

func TestWarnfNilLogger(t *testing.T) {
	Warnf(nil, "ignored %s", "x")
}
