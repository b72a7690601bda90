// Package emitter reconstructs KDL text from a kdl.Parser's event stream.
package emitter

import (
	"fmt"
	"io"
	"strings"

	"github.com/kdlpull/kdlpull/pkgs/kdl"
)

// Emitter drains a kdl.Parser and writes the equivalent KDL text to a
// writer, tracking its own document depth since the event stream carries
// none on StartDocument/EndDocument.
type Emitter struct {
	parser *kdl.Parser
	depth  int
	space  bool
}

// New returns an Emitter that will drain p.
func New(p *kdl.Parser) *Emitter {
	return &Emitter{parser: p}
}

func (e *Emitter) signalSpace() { e.space = true }

// Emit drains the parser to end of stream, writing reconstructed KDL text
// to w. It stops at the first parse error and returns it.
func (e *Emitter) Emit(w io.Writer) error {
	for {
		re, ok, err := e.parser.Next()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		ev := re.Event

		if e.space && ev.Kind != kdl.EventIndentation && ev.Kind != kdl.EventNodeEnd {
			if _, err := io.WriteString(w, " "); err != nil {
				return err
			}
		}
		e.space = false

		switch ev.Kind {
		case kdl.EventStartDocument:
			if e.depth > 0 {
				if _, err := io.WriteString(w, "{"); err != nil {
					return err
				}
			}
			e.depth++

		case kdl.EventIndentation:
			if _, err := fmt.Fprintf(w, "\n%s", strings.Repeat(" ", ev.Indentation)); err != nil {
				return err
			}

		case kdl.EventNodeName:
			if _, err := io.WriteString(w, ev.NodeName.Text); err != nil {
				return err
			}
			e.signalSpace()

		case kdl.EventNodeEntry:
			if err := e.emitEntry(w, ev.Entry); err != nil {
				return err
			}
			e.signalSpace()

		case kdl.EventNodeEnd:
			if ev.Inline {
				if _, err := io.WriteString(w, ";"); err != nil {
					return err
				}
			}

		case kdl.EventEndDocument:
			e.depth--
			if e.depth > 0 {
				if _, err := io.WriteString(w, "}"); err != nil {
					return err
				}
			}
		}
	}
}

func (e *Emitter) emitEntry(w io.Writer, entry kdl.NodeEntry) error {
	switch entry.Kind {
	case kdl.EntryArgument:
		_, err := io.WriteString(w, entry.Value.String())
		return err
	case kdl.EntryProperty:
		_, err := fmt.Fprintf(w, "%s=%s", entry.Key.Text, entry.Value.String())
		return err
	default:
		return fmt.Errorf("emitter: unknown node entry kind %d", entry.Kind)
	}
}

// EmitString is a convenience wrapper around Emit that returns the
// reconstructed text directly.
func EmitString(p *kdl.Parser) (string, error) {
	var b strings.Builder
	if err := New(p).Emit(&b); err != nil {
		return "", err
	}
	return b.String(), nil
}
