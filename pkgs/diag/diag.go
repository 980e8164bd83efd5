// Package diag provides optional structured trace logging for the
// resolvers, the same opt-in debug idiom as the teacher's
// StateMachine.SetDebug (pkgs/lexer/lexer_state.go), but backed by a real
// structured logger instead of ad hoc fmt.Printf calls.
package diag

import "go.uber.org/zap"

// Logger wraps a *zap.Logger behind a small interface so resolvers never
// need to check for nil themselves.
type Logger struct {
	z *zap.Logger
}

// Noop returns a Logger that discards everything, the default for every
// Parser unless trace mode is requested.
func Noop() *Logger { return &Logger{z: zap.NewNop()} }

// NewTrace builds a development-mode logger suitable for the debug CLI
// and for test failures that want resolver-level detail.
func NewTrace() *Logger {
	l, err := zap.NewDevelopment()
	if err != nil {
		return Noop()
	}
	return &Logger{z: l}
}

// Segment logs which macro segment keyword matched at a token index
// (spec §4.4 "MacroDiagnostics trace", SPEC_FULL §5).
func (l *Logger) Segment(macro, keyword string, tokenIndex int) {
	l.z.Debug("macro segment matched",
		zap.String("macro", macro),
		zap.String("keyword", keyword),
		zap.Int("token_index", tokenIndex),
	)
}

// Precedence logs an operator-resolution decision.
func (l *Logger) Precedence(opr string, level int, demoted bool) {
	l.z.Debug("operator precedence",
		zap.String("opr", opr),
		zap.Int("level", level),
		zap.Bool("demoted", demoted),
	)
}

// Block logs a block-structuring decision.
func (l *Logger) Block(kind string, indent int, lines int) {
	l.z.Debug("block", zap.String("kind", kind), zap.Int("indent", indent), zap.Int("lines", lines))
}

// Sync flushes any buffered log entries.
func (l *Logger) Sync() { _ = l.z.Sync() }
