package scanner

import (
	"fmt"
	"io"
)

// Reporter receives findings and access errors as the scan progresses.
// Calls are never concurrent.
type Reporter interface {
	Finding(f Finding)
	AccessError(err *AccessError)
}

// ConsoleReporter writes findings to Out and access errors to Err.
type ConsoleReporter struct {
	Out io.Writer
	Err io.Writer
}

func NewConsoleReporter(out, errOut io.Writer) *ConsoleReporter {
	return &ConsoleReporter{Out: out, Err: errOut}
}

// Finding prints the line content as-is; a last line without a newline is
// not terminated.
func (r *ConsoleReporter) Finding(f Finding) {
	fmt.Fprintf(r.Out, "Invalid character found in file: %s, line number: %d\n", f.Path, f.Line)
	fmt.Fprintf(r.Out, "Line content: %s", f.Content)
}

func (r *ConsoleReporter) AccessError(err *AccessError) {
	fmt.Fprintln(r.Err, err.Error())
}

// ReporterFunc adapts a pair of functions to a Reporter. Nil functions are
// ignored.
type ReporterFunc struct {
	OnFinding func(Finding)
	OnError   func(*AccessError)
}

func (r ReporterFunc) Finding(f Finding) {
	if r.OnFinding != nil {
		r.OnFinding(f)
	}
}

func (r ReporterFunc) AccessError(err *AccessError) {
	if r.OnError != nil {
		r.OnError(err)
	}
}
