package output

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// UI writes tagged, colored log lines. Progress goes to Out, warnings
// and errors to ErrOut, matching the two-tier error model: fatal
// conditions are returned as errors by callers, everything logged here
// lets the run continue.
type UI struct {
	Verbose bool
	DryRun  bool
	Out     io.Writer
	ErrOut  io.Writer
}

// New returns a UI writing to stdout/stderr.
func New() *UI {
	return &UI{
		Out:    os.Stdout,
		ErrOut: os.Stderr,
	}
}

var (
	infoTag   = color.New(color.FgHiBlue).Sprint("[INFO]")
	okTag     = color.New(color.FgHiGreen).Sprint("[OK]")
	skipTag   = color.New(color.FgHiCyan).Sprint("[SKIP]")
	todoTag   = color.New(color.FgHiYellow).Sprint("[TODO]")
	warnTag   = color.New(color.FgHiYellow).Sprint("[WARN]")
	errorTag  = color.New(color.FgHiRed).Sprint("[ERROR]")
	dryRunTag = color.New(color.FgHiYellow).Sprint("[DRY-RUN]")

	green  = color.New(color.FgHiGreen).SprintFunc()
	yellow = color.New(color.FgHiYellow).SprintFunc()
	red    = color.New(color.FgHiRed).SprintFunc()
)

// Green returns a green-colored string.
func Green(s string) string { return green(s) }

// Yellow returns a yellow-colored string.
func Yellow(s string) string { return yellow(s) }

// Red returns a red-colored string.
func Red(s string) string { return red(s) }

func (u *UI) Info(format string, a ...any) {
	fmt.Fprintf(u.Out, "%s %s\n", infoTag, fmt.Sprintf(format, a...))
}

func (u *UI) Success(format string, a ...any) {
	fmt.Fprintf(u.Out, "%s %s\n", okTag, fmt.Sprintf(format, a...))
}

func (u *UI) Skip(format string, a ...any) {
	fmt.Fprintf(u.Out, "%s %s\n", skipTag, fmt.Sprintf(format, a...))
}

func (u *UI) Todo(format string, a ...any) {
	fmt.Fprintf(u.Out, "%s %s\n", todoTag, fmt.Sprintf(format, a...))
}

func (u *UI) Warning(format string, a ...any) {
	fmt.Fprintf(u.ErrOut, "%s %s\n", warnTag, fmt.Sprintf(format, a...))
}

func (u *UI) Error(format string, a ...any) {
	fmt.Fprintf(u.ErrOut, "%s %s\n", errorTag, fmt.Sprintf(format, a...))
}

func (u *UI) VerboseLog(format string, a ...any) {
	if u.Verbose {
		fmt.Fprintf(u.Out, "%s %s\n", infoTag, fmt.Sprintf(format, a...))
	}
}

// DryRunMsg logs an action that was suppressed because of dry-run
// mode. Silent unless DryRun is set.
func (u *UI) DryRunMsg(format string, a ...any) {
	if u.DryRun {
		fmt.Fprintf(u.Out, "%s %s\n", dryRunTag, fmt.Sprintf(format, a...))
	}
}

// Table creates a tablewriter with consistent borderless styling.
func (u *UI) Table(headers []string) *tablewriter.Table {
	table := tablewriter.NewTable(u.Out,
		tablewriter.WithHeaderAlignment(tw.AlignLeft),
		tablewriter.WithRowAlignment(tw.AlignLeft),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Lines:      tw.LinesNone,
				Separators: tw.SeparatorsNone,
			},
		}),
		tablewriter.WithPadding(tw.Padding{Left: "", Right: "  "}),
	)
	table.Header(headers)
	return table
}
