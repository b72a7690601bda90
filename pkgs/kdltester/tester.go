// Package kdltester implements the conformance harness for pkgs/kdl: it
// serializes a parser's event stream to a stable JSON envelope, and
// supports re-checking a source file against a previously recorded one
// either by byte-span or by full structural equality.
package kdltester

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/go-cmp/cmp"
	"github.com/kdlpull/kdlpull/pkgs/kdl"
)

// Event is the JSON-serializable projection of a kdl.RangedEvent.
type Event struct {
	Kind        string `json:"kind"`
	Indentation int    `json:"indentation,omitempty"`
	NodeName    string `json:"nodeName,omitempty"`
	Entry       *Entry `json:"entry,omitempty"`
	Inline      bool   `json:"inline,omitempty"`
	Start       int    `json:"start"`
	End         int    `json:"end"`
}

// Entry is the JSON-serializable projection of a kdl.NodeEntry.
type Entry struct {
	Kind  string `json:"kind"`
	Key   string `json:"key,omitempty"`
	Value string `json:"value"`
}

func toEvent(re kdl.RangedEvent) Event {
	e := Event{
		Kind:  re.Event.Kind.String(),
		Start: re.Range.Start,
		End:   re.Range.End,
	}
	switch re.Event.Kind {
	case kdl.EventIndentation:
		e.Indentation = re.Event.Indentation
	case kdl.EventNodeName:
		e.NodeName = re.Event.NodeName.Text
	case kdl.EventNodeEnd:
		e.Inline = re.Event.Inline
	case kdl.EventNodeEntry:
		entry := re.Event.Entry
		switch entry.Kind {
		case kdl.EntryArgument:
			e.Entry = &Entry{Kind: "Argument", Value: entry.Value.String()}
		case kdl.EntryProperty:
			e.Entry = &Entry{Kind: "Property", Key: entry.Key.Text, Value: entry.Value.String()}
		}
	}
	return e
}

// Parse drains source to completion and returns every event, or the first
// error encountered.
func Parse(source string) ([]Event, error) {
	p := kdl.New(source)
	var events []Event
	for {
		re, ok, err := p.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return events, nil
		}
		events = append(events, toEvent(re))
	}
}

// Emit parses source and returns its event stream as indented JSON, the
// reference format a recorded fixture is written in.
func Emit(source string) ([]byte, error) {
	events, err := Parse(source)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(events, "", "  ")
}

// Compare re-parses source and asserts its event stream is structurally
// identical to the one recorded in fixture (the JSON produced by Emit for
// some prior version of source).
func Compare(source string, fixture []byte) error {
	var recorded []Event
	if err := json.Unmarshal(fixture, &recorded); err != nil {
		return fmt.Errorf("kdltester: decoding fixture: %w", err)
	}
	generated, err := Parse(source)
	if err != nil {
		return err
	}
	if diff := cmp.Diff(recorded, generated); diff != "" {
		return fmt.Errorf("kdltester: event stream mismatch (-recorded +generated):\n%s", diff)
	}
	return nil
}

// Check asserts that every event recorded in fixture slices out of source
// the textual span the event's own kind implies: StartDocument/EndDocument
// are depth-conditional (empty at depth 0, "{"/"}" otherwise, tracked
// locally since the recorded events carry no depth field),
// NodeEnd{inline:true} slices to ";" or to nothing (the implicit
// terminator at end of input), NodeEnd{inline:false} slices to nothing,
// Indentation is unchecked, NodeName slices to itself, and NodeEntry
// slices to "value" or "key=value".
func Check(source string, fixture []byte) error {
	var recorded []Event
	if err := json.Unmarshal(fixture, &recorded); err != nil {
		return fmt.Errorf("kdltester: decoding fixture: %w", err)
	}

	depth := 0
	for i, e := range recorded {
		if e.Start < 0 || e.End > len(source) || e.Start > e.End {
			return fmt.Errorf("kdltester: event %d has out-of-range span [%d,%d) over a %d-byte source", i, e.Start, e.End, len(source))
		}
		got := source[e.Start:e.End]

		switch e.Kind {
		case "StartDocument":
			want := "{"
			if depth == 0 {
				want = ""
			}
			if got != want {
				return spanMismatch(i, e.Kind, want, got)
			}
			depth++

		case "EndDocument":
			depth--
			want := "}"
			if depth == 0 {
				want = ""
			}
			if got != want {
				return spanMismatch(i, e.Kind, want, got)
			}

		case "NodeEnd":
			// inline:true is ";", except the implicit terminator at EOF,
			// which has an empty range (see scenario 1's trailing NEi).
			if e.Inline && got != ";" && got != "" {
				return spanMismatch(i, e.Kind, ";", got)
			}
			if !e.Inline && got != "" {
				return spanMismatch(i, e.Kind, "", got)
			}

		case "Indentation":
			// Unchecked: the exact whitespace text isn't asserted.

		case "NodeName":
			if got != e.NodeName {
				return spanMismatch(i, e.Kind, e.NodeName, got)
			}

		case "NodeEntry":
			want := e.Entry.Value
			if e.Entry.Kind == "Property" {
				want = e.Entry.Key + "=" + e.Entry.Value
			}
			if got != want {
				return spanMismatch(i, e.Kind, want, got)
			}

		default:
			return fmt.Errorf("kdltester: event %d has unknown kind %q", i, e.Kind)
		}
	}
	return nil
}

func spanMismatch(index int, kind, want, got string) error {
	return fmt.Errorf("kdltester: event %d (%s): span %q does not match expected %q", index, kind, got, want)
}

// Report renders a one-line pass/fail summary, in the style expected by
// the command-line tester.
func Report(ok bool, detail string) string {
	var b strings.Builder
	if ok {
		b.WriteString("PASS")
	} else {
		b.WriteString("FAIL")
	}
	if detail != "" {
		fmt.Fprintf(&b, ": %s", detail)
	}
	return b.String()
}
