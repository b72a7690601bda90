package kdl

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/kdlpull/kdlpull/pkgs/cursor"
)

// structuralEvent is a comparable projection of RangedEvent used by the
// scenario tests below: it drops Indentation events (which, per the
// decoupling invariant, never change the node/document structure and may
// legitimately appear between any two structural events) and keeps enough
// of the remaining event to assert exact textual spans.
type structuralEvent struct {
	Kind  EventKind
	Range cursor.Range
	Name  string
	Inline bool
	Entry  string // "arg:<v>" or "prop:<k>=<v>", empty otherwise
}

func collectStructural(t *testing.T, source string) []structuralEvent {
	t.Helper()
	p := New(source)
	var got []structuralEvent
	for {
		ev, ok, err := p.Next()
		if err != nil {
			t.Fatalf("Next() error = %v", err)
		}
		if !ok {
			break
		}
		if ev.Event.Kind == EventIndentation {
			continue
		}
		se := structuralEvent{Kind: ev.Event.Kind, Range: ev.Range}
		switch ev.Event.Kind {
		case EventNodeName:
			se.Name = ev.Event.NodeName.Text
		case EventNodeEnd:
			se.Inline = ev.Event.Inline
		case EventNodeEntry:
			switch ev.Event.Entry.Kind {
			case EntryArgument:
				se.Entry = "arg:" + ev.Event.Entry.Value.String()
			case EntryProperty:
				se.Entry = "prop:" + ev.Event.Entry.Key.Text + "=" + ev.Event.Entry.Value.String()
			}
		}
		got = append(got, se)
	}
	return got
}

func r(start, end int) cursor.Range { return cursor.Range{Start: start, End: end} }

func TestScenario1SimpleNode(t *testing.T) {
	got := collectStructural(t, "node arg prop=value")
	want := []structuralEvent{
		{Kind: EventStartDocument, Range: r(0, 0)},
		{Kind: EventNodeName, Range: r(0, 4), Name: "node"},
		{Kind: EventNodeEntry, Range: r(5, 8), Entry: "arg:arg"},
		{Kind: EventNodeEntry, Range: r(9, 19), Entry: "prop:prop=value"},
		{Kind: EventNodeEnd, Range: r(19, 19), Inline: true},
		{Kind: EventEndDocument, Range: r(19, 19)},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("event mismatch (-want +got):\n%s", diff)
	}
}

func TestScenario2TrailingTerminatorAndSpace(t *testing.T) {
	got := collectStructural(t, "node arg prop=value; ")
	want := []structuralEvent{
		{Kind: EventStartDocument, Range: r(0, 0)},
		{Kind: EventNodeName, Range: r(0, 4), Name: "node"},
		{Kind: EventNodeEntry, Range: r(5, 8), Entry: "arg:arg"},
		{Kind: EventNodeEntry, Range: r(9, 19), Entry: "prop:prop=value"},
		{Kind: EventNodeEnd, Range: r(19, 20), Inline: true},
		{Kind: EventEndDocument, Range: r(21, 21)},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("event mismatch (-want +got):\n%s", diff)
	}
}

func TestScenario3QuotedNodeName(t *testing.T) {
	got := collectStructural(t, `"name with spaces" arg ;`)
	want := []structuralEvent{
		{Kind: EventStartDocument, Range: r(0, 0)},
		{Kind: EventNodeName, Range: r(0, 18), Name: `"name with spaces"`},
		{Kind: EventNodeEntry, Range: r(19, 22), Entry: "arg:arg"},
		{Kind: EventNodeEnd, Range: r(23, 24), Inline: true},
		{Kind: EventEndDocument, Range: r(24, 24)},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("event mismatch (-want +got):\n%s", diff)
	}
}

func TestScenario4MultipleInlineNodes(t *testing.T) {
	got := collectStructural(t, "node a; node b ; node c;")
	want := []structuralEvent{
		{Kind: EventStartDocument, Range: r(0, 0)},
		{Kind: EventNodeName, Range: r(0, 4), Name: "node"},
		{Kind: EventNodeEntry, Range: r(5, 6), Entry: "arg:a"},
		{Kind: EventNodeEnd, Range: r(6, 7), Inline: true},
		{Kind: EventNodeName, Range: r(8, 12), Name: "node"},
		{Kind: EventNodeEntry, Range: r(13, 14), Entry: "arg:b"},
		{Kind: EventNodeEnd, Range: r(15, 16), Inline: true},
		{Kind: EventNodeName, Range: r(17, 21), Name: "node"},
		{Kind: EventNodeEntry, Range: r(22, 23), Entry: "arg:c"},
		{Kind: EventNodeEnd, Range: r(23, 24), Inline: true},
		{Kind: EventEndDocument, Range: r(24, 24)},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("event mismatch (-want +got):\n%s", diff)
	}
}

func TestScenario5WideSpacingBeforeTerminator(t *testing.T) {
	source := "n" + repeat(" ", 70) + ";"
	got := collectStructural(t, source)
	want := []structuralEvent{
		{Kind: EventStartDocument, Range: r(0, 0)},
		{Kind: EventNodeName, Range: r(0, 1), Name: "n"},
		{Kind: EventNodeEnd, Range: r(71, 72), Inline: true},
		{Kind: EventEndDocument, Range: r(72, 72)},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("event mismatch (-want +got):\n%s", diff)
	}
}

func TestScenario6QuotedKeysAndValues(t *testing.T) {
	got := collectStructural(t, `node "key 1"=val1 key2=" double quoted " key3=val3 `)
	want := []structuralEvent{
		{Kind: EventStartDocument, Range: r(0, 0)},
		{Kind: EventNodeName, Range: r(0, 4), Name: "node"},
		{Kind: EventNodeEntry, Range: r(5, 17), Entry: `prop:"key 1"=val1`},
		{Kind: EventNodeEntry, Range: r(18, 40), Entry: `prop:key2=" double quoted "`},
		{Kind: EventNodeEntry, Range: r(41, 50), Entry: "prop:key3=val3"},
		{Kind: EventNodeEnd, Range: r(51, 51), Inline: true},
		{Kind: EventEndDocument, Range: r(51, 51)},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("event mismatch (-want +got):\n%s", diff)
	}
}

func repeat(s string, n int) string {
	out := make([]byte, 0, len(s)*n)
	for i := 0; i < n; i++ {
		out = append(out, s...)
	}
	return string(out)
}

func TestParserIsFused(t *testing.T) {
	p := New("node")
	for {
		_, ok, err := p.Next()
		if err != nil {
			t.Fatalf("Next() error = %v", err)
		}
		if !ok {
			break
		}
	}
	for i := 0; i < 3; i++ {
		_, ok, err := p.Next()
		if ok || err != nil {
			t.Fatalf("Next() after end of stream = (%v, %v, %v); want (_, false, nil)", ok, ok, err)
		}
	}
}

func TestStartEndDocumentBalanced(t *testing.T) {
	p := New("parent { child arg; }")
	starts, ends := 0, 0
	for {
		ev, ok, err := p.Next()
		if err != nil {
			t.Fatalf("Next() error = %v", err)
		}
		if !ok {
			break
		}
		switch ev.Event.Kind {
		case EventStartDocument:
			starts++
		case EventEndDocument:
			ends++
		}
		if ends > starts {
			t.Fatalf("EndDocument count exceeded StartDocument count mid-stream")
		}
	}
	if starts != ends {
		t.Fatalf("starts = %d, ends = %d; want equal", starts, ends)
	}
	if starts != 2 {
		t.Fatalf("starts = %d; want 2 (root + one child)", starts)
	}
}

func TestNestedChildDocumentEmitsParentNodeEnd(t *testing.T) {
	got := collectStructural(t, "parent { child arg; };")
	var names []string
	var kinds []EventKind
	for _, e := range got {
		kinds = append(kinds, e.Kind)
		if e.Kind == EventNodeName {
			names = append(names, e.Name)
		}
	}
	if diff := cmp.Diff([]string{"parent", "child"}, names); diff != "" {
		t.Errorf("node names mismatch (-want +got):\n%s", diff)
	}
	// Expect: DS NN(parent) DS NN(child) NA(arg) NE(child) DE NE(parent) DE
	want := []EventKind{
		EventStartDocument, EventNodeName, EventStartDocument, EventNodeName,
		EventNodeEntry, EventNodeEnd, EventEndDocument, EventNodeEnd, EventEndDocument,
	}
	if diff := cmp.Diff(want, kinds); diff != "" {
		t.Errorf("event kind sequence mismatch (-want +got):\n%s", diff)
	}
}

func TestUnbalancedBraceIsError(t *testing.T) {
	// The first event is always StartDocument; the brace is seen on a
	// later pull.
	p := New("}")
	var err error
	for i := 0; i < 10 && err == nil; i++ {
		_, _, err = p.Next()
	}
	pe, ok := err.(ParseError)
	if !ok {
		t.Fatalf("error = %v (%T); want ParseError", err, err)
	}
	if pe.Cause != CauseUnbalancedBrace {
		t.Fatalf("Cause = %v; want CauseUnbalancedBrace", pe.Cause)
	}
}

func TestUnclosedChildDocumentNeedsMoreData(t *testing.T) {
	p := New("node {")
	var lastErr error
	for i := 0; i < 10; i++ {
		_, ok, err := p.Next()
		if err != nil {
			lastErr = err
			break
		}
		if !ok {
			t.Fatalf("reached end of stream without an error on unclosed child document")
		}
	}
	pe, ok := lastErr.(ParseError)
	if !ok {
		t.Fatalf("error = %v (%T); want ParseError", lastErr, lastErr)
	}
	if pe.Cause != CauseNeedsMoreData {
		t.Fatalf("Cause = %v; want CauseNeedsMoreData", pe.Cause)
	}
}

func TestStringLeftHandSideParsesAsProperty(t *testing.T) {
	// The core only ever produces String values today, so InvalidKey is
	// unreachable through normal input; this test checks the string-keyed
	// case instead: `a=b` parses as a single property entry.
	p := New("node a=b")
	var entries []NodeEntry
	for {
		ev, ok, err := p.Next()
		if err != nil {
			t.Fatalf("Next() error = %v", err)
		}
		if !ok {
			break
		}
		if ev.Event.Kind == EventNodeEntry {
			entries = append(entries, ev.Event.Entry)
		}
	}
	if len(entries) != 1 || entries[0].Kind != EntryProperty {
		t.Fatalf("entries = %+v; want one property", entries)
	}
}
