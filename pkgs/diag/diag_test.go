package diag

import "testing"

func TestNoopLoggerDiscardsSilently(t *testing.T) {
	l := Noop()
	l.Segment("if", "if", 3)
	l.Precedence("+", 80, false)
	l.Block("top-level", -1, 2)
	l.Sync()
}

func TestNewTraceProducesUsableLogger(t *testing.T) {
	l := NewTrace()
	if l == nil {
		t.Fatal("NewTrace() = nil")
	}
	l.Segment("case", "of", 1)
	l.Precedence("*", 90, true)
	l.Block("nested", 2, 1)
}
