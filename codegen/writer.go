package codegen

import (
	"fmt"
	"strings"
)

// writer accumulates indented source text. A gap requested between items is
// only written when another line follows inside the same block, so blocks
// never start or end with blank lines.
type writer struct {
	b      strings.Builder
	indent int
	gapped bool
	fresh  bool // nothing written since the last block opener
}

func (w *writer) line(format string, args ...any) {
	w.raw(fmt.Sprintf(format, args...))
}

// raw writes s as one indented line without interpreting verbs.
func (w *writer) raw(s string) {
	if w.gapped {
		w.b.WriteByte('\n')
		w.gapped = false
	}
	w.b.WriteString(strings.Repeat("    ", w.indent))
	w.b.WriteString(s)
	w.b.WriteByte('\n')
	w.fresh = false
}

// gap separates the next item from the previous one by a blank line.
func (w *writer) gap() {
	w.gapped = w.b.Len() > 0 && !w.fresh
}

// open writes a line ending in a block opener and indents.
func (w *writer) open(format string, args ...any) {
	w.line(format, args...)
	w.indent++
	w.fresh = true
}

// close dedents and writes the closing line.
func (w *writer) close(s string) {
	w.gapped = false
	w.indent--
	w.raw(s)
}

// doc writes a line comment per doc line using marker ("///").
func (w *writer) doc(marker, text string) {
	if text == "" {
		return
	}
	for _, l := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		l = strings.TrimRight(l, " \t")
		if l == "" {
			w.raw(marker)
			continue
		}
		w.line("%s %s", marker, l)
	}
}

func (w *writer) String() string { return w.b.String() }
