package main

import (
	"fmt"
	"go/token"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
)

// Directive error classes. Every Diagnostic wraps exactly one of them.
var (
	ErrConflictingDirective = errors.New("conflicting directives")
	ErrMalformedDirective   = errors.New("malformed directive")
	ErrUnknownDirective     = errors.New("unknown directive")
)

// Diagnostic is a directive error tied to a source position.
type Diagnostic struct {
	Pos       token.Position
	Subject   string // "struct Movie" or "field Movie.Year"
	Directive string
	Kind      error
	Msg       string
}

func (d *Diagnostic) Error() string {
	var sb strings.Builder
	if d.Pos.IsValid() {
		sb.WriteString(d.Pos.String())
		sb.WriteString(": ")
	}
	sb.WriteString(d.Subject)
	if d.Directive != "" {
		fmt.Fprintf(&sb, ": %q", d.Directive)
	}
	sb.WriteString(": ")
	sb.WriteString(d.Msg)
	return sb.String()
}

func (d *Diagnostic) Unwrap() error {
	return d.Kind
}

func newDiagnostic(kind error, pos token.Position, subject, directive, format string, args ...any) *Diagnostic {
	return &Diagnostic{
		Pos:       pos,
		Subject:   subject,
		Directive: directive,
		Kind:      kind,
		Msg:       fmt.Sprintf(format, args...),
	}
}

// DiagnosticList collects every directive error found in a run.
type DiagnosticList []*Diagnostic

func (l *DiagnosticList) Add(d *Diagnostic) {
	*l = append(*l, d)
}

func (l DiagnosticList) Len() int { return len(l) }

func (l DiagnosticList) Swap(i, j int) { l[i], l[j] = l[j], l[i] }

func (l DiagnosticList) Less(i, j int) bool {
	a, b := l[i].Pos, l[j].Pos
	if a.Filename != b.Filename {
		return a.Filename < b.Filename
	}
	if a.Line != b.Line {
		return a.Line < b.Line
	}
	return a.Column < b.Column
}

func (l DiagnosticList) Sort() {
	sort.Stable(l)
}

func (l DiagnosticList) Error() string {
	switch len(l) {
	case 0:
		return "no errors"
	case 1:
		return l[0].Error()
	}
	lines := make([]string, len(l))
	for i, d := range l {
		lines[i] = d.Error()
	}
	return fmt.Sprintf("%d directive errors:\n%s", len(l), strings.Join(lines, "\n"))
}

func (l DiagnosticList) Unwrap() []error {
	errs := make([]error, len(l))
	for i, d := range l {
		errs[i] = d
	}
	return errs
}

// Err returns nil for an empty list, otherwise the sorted list itself.
func (l DiagnosticList) Err() error {
	if len(l) == 0 {
		return nil
	}
	l.Sort()
	return errors.WithHint(l, "fix the //ctor:gen and `ctor` struct tag directives above; no file was written")
}
