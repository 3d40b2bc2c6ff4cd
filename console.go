package jsconsole

import (
	"io"
	"sync"

	"go.uber.org/zap"
)

// ErrorPrefix starts every line written by Console.Error.
const ErrorPrefix = "ERROR: "

// Printer is the print primitive offered by the host.
type Printer interface {
	Print(text string)
}

// PrinterFunc adapts a function to Printer.
type PrinterFunc func(text string)

func (f PrinterFunc) Print(text string) { f(text) }

// Discard drops everything printed to it.
var Discard Printer = PrinterFunc(func(string) {})

type writerPrinter struct {
	mu sync.Mutex
	w  io.Writer
}

// WriterPrinter prints each text as one line on w. Write errors are dropped
// since printing has no way to report them.
func WriterPrinter(w io.Writer) Printer {
	return &writerPrinter{w: w}
}

func (p *writerPrinter) Print(text string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, _ = io.WriteString(p.w, text+"\n")
}

// ZapPrinter emits each printed text as an info entry on l.
func ZapPrinter(l *zap.Logger) Printer {
	return PrinterFunc(func(text string) {
		l.Info(text)
	})
}

// ConsoleOption configures a Console.
type ConsoleOption func(*Console)

// WithDumper replaces the Dumper used by Console.Dump.
func WithDumper(d *Dumper) ConsoleOption {
	return func(c *Console) { c.dumper = d }
}

// Console routes log lines, error reports and dumps to a Printer. It is passed
// explicitly to whatever needs to log instead of living in a global.
type Console struct {
	printer Printer
	dumper  *Dumper
}

// NewConsole returns a Console printing to p. A nil p discards output.
func NewConsole(p Printer, opts ...ConsoleOption) *Console {
	if p == nil {
		p = Discard
	}
	c := &Console{printer: p, dumper: defaultDumper}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Log prints message verbatim.
func (c *Console) Log(message string) {
	c.printer.Print(message)
}

// Error prints the report for err after ErrorPrefix. A nil err prints the
// bare prefix.
func (c *Console) Error(err error) {
	c.ErrorReport(FormatErrorReport(err))
}

// ErrorReport prints an already formatted report after ErrorPrefix.
func (c *Console) ErrorReport(report string) {
	c.printer.Print(ErrorPrefix + report)
}

// Dump prints the rendering of v.
func (c *Console) Dump(v any) {
	c.printer.Print(c.dumper.Dump(v))
}

// Dumper returns the Dumper used by c.
func (c *Console) Dumper() *Dumper {
	return c.dumper
}
