package ui

import "fmt"

// StepPrinter prints numbered step lines for a sequenced operation,
// one line per finished step. It is meant for linear flows like the
// demo command where each step completes before the next starts.
type StepPrinter struct {
	p     *Printer
	total int
	n     int
}

// NewStepPrinter creates a step printer for an operation with the
// given number of steps.
func NewStepPrinter(p *Printer, total int) *StepPrinter {
	return &StepPrinter{p: p, total: total}
}

// Complete prints a finished step with an optional note
func (s *StepPrinter) Complete(name, note string) {
	s.n++
	line := fmt.Sprintf("  [%d/%d] %s %s", s.n, s.total, SuccessMarker, StepCompleteStyle.Render(name))
	if note != "" {
		line += "  " + StepNoteStyle.Render("("+note+")")
	}
	s.p.Println(line)
}

// Fail prints a failed step with its error
func (s *StepPrinter) Fail(name string, err error) {
	s.n++
	line := fmt.Sprintf("  [%d/%d] %s %s", s.n, s.total, FailureMarker, StepFailedStyle.Render(name))
	if err != nil {
		line += "  " + StepNoteStyle.Render("("+err.Error()+")")
	}
	s.p.Println(line)
}
