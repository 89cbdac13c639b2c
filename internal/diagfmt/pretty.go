package diagfmt

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"ember/internal/diag"
	"ember/internal/source"
)

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	infoColor    = color.New(color.FgCyan)
	noteColor    = color.New(color.Faint)
)

// Pretty renders diagnostics in a human-readable form, one record per
// line plus indented notes. Expects bag.Sort() to have run already.
// Format: <path>: <SEV> <CODE-ID>: <message>
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	for _, d := range bag.Items() {
		fmt.Fprintf(w, "%s: %s %s: %s\n",
			location(fs, d.Primary), severity(d.Severity, opts.Color), d.Code.ID(), d.Message)
		if !opts.ShowNotes {
			continue
		}
		for _, n := range d.Notes {
			msg := fmt.Sprintf("  note: %s (%s)", n.Msg, location(fs, n.Span))
			if opts.Color {
				msg = noteColor.Sprint(msg)
			}
			fmt.Fprintln(w, msg)
		}
	}
}

func severity(s diag.Severity, colored bool) string {
	label := s.String()
	if !colored {
		return label
	}
	switch s {
	case diag.SevError:
		return errorColor.Sprint(label)
	case diag.SevWarning:
		return warningColor.Sprint(label)
	default:
		return infoColor.Sprint(label)
	}
}

func location(fs *source.FileSet, sp source.Span) string {
	path := ""
	if fs != nil {
		path = fs.Path(sp.File)
	}
	if path == "" {
		path = "<unit>"
	}
	if sp.Empty() && sp.Start == 0 {
		return path
	}
	return fmt.Sprintf("%s:%d-%d", path, sp.Start, sp.End)
}
