package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chazu/bridgegen/bridge"
	"github.com/chazu/bridgegen/bridgefile"
	"github.com/fatih/color"
)

var (
	errorLabel   = color.New(color.FgRed, color.Bold)
	warningLabel = color.New(color.FgYellow, color.Bold)
	okLabel      = color.New(color.FgGreen, color.Bold)
	posColor     = color.New(color.Bold)
	kindColor    = color.New(color.FgMagenta)
	faintColor   = color.New(color.Faint)
)

// printError writes err as a diagnostic. Structured bridge errors get their
// position and kind highlighted; schema errors list every violation.
func printError(w io.Writer, err error) {
	var be *bridge.Error
	var se *bridgefile.SchemaError
	switch {
	case errors.As(err, &be):
		errorLabel.Fprint(w, "error")
		fmt.Fprint(w, ": ")
		if be.HasPos() {
			posColor.Fprint(w, be.Pos.String())
			fmt.Fprint(w, ": ")
		}
		kindColor.Fprint(w, be.Kind.String())
		if be.Name != "" {
			fmt.Fprintf(w, " %s", be.Name)
		}
		if be.Context != "" {
			fmt.Fprintf(w, " in %s", be.Context)
		}
		fmt.Fprintln(w)
		if be.Detail != "" {
			faintColor.Fprintf(w, "  %s\n", be.Detail)
		}
	case errors.As(err, &se):
		errorLabel.Fprint(w, "error")
		fmt.Fprint(w, ": ")
		posColor.Fprint(w, se.File)
		fmt.Fprintln(w, ": invalid bridge description")
		for _, l := range strings.Split(strings.TrimRight(se.Detail, "\n"), "\n") {
			faintColor.Fprintf(w, "  %s\n", l)
		}
	default:
		errorLabel.Fprint(w, "error")
		fmt.Fprintf(w, ": %v\n", err)
	}
}

func printWarning(w io.Writer, format string, args ...any) {
	warningLabel.Fprint(w, "warning")
	fmt.Fprintf(w, ": "+format+"\n", args...)
}

func printOK(w io.Writer, format string, args ...any) {
	okLabel.Fprint(w, "ok")
	fmt.Fprintf(w, " "+format+"\n", args...)
}
