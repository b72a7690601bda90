package kdl

import (
	"fmt"

	"github.com/kdlpull/kdlpull/pkgs/cursor"
	"github.com/kdlpull/kdlpull/pkgs/lexeme"
)

// EventKind discriminates the variants of Event.
type EventKind int

const (
	EventStartDocument EventKind = iota
	EventEndDocument
	EventIndentation
	EventNodeName
	EventNodeEntry
	EventNodeEnd
)

func (k EventKind) String() string {
	switch k {
	case EventStartDocument:
		return "StartDocument"
	case EventEndDocument:
		return "EndDocument"
	case EventIndentation:
		return "Indentation"
	case EventNodeName:
		return "NodeName"
	case EventNodeEntry:
		return "NodeEntry"
	case EventNodeEnd:
		return "NodeEnd"
	default:
		return fmt.Sprintf("Unknown(%d)", int(k))
	}
}

// EntryKind discriminates the variants of NodeEntry.
type EntryKind int

const (
	EntryArgument EntryKind = iota
	EntryProperty
)

// NodeEntry is a single positional argument or key=value property attached
// to a node.
type NodeEntry struct {
	Kind  EntryKind
	Value Value        // set for EntryArgument and as the property's value
	Key   lexeme.String // set for EntryProperty
}

// Argument constructs an EntryArgument NodeEntry.
func Argument(v Value) NodeEntry {
	return NodeEntry{Kind: EntryArgument, Value: v}
}

// Property constructs an EntryProperty NodeEntry.
func Property(key lexeme.String, v Value) NodeEntry {
	return NodeEntry{Kind: EntryProperty, Key: key, Value: v}
}

// Event is one item of the flat stream the Parser produces. Exactly one
// field is meaningful per Kind: Indentation for EventIndentation, NodeName
// for EventNodeName, Entry for EventNodeEntry, Inline for EventNodeEnd.
type Event struct {
	Kind        EventKind
	Indentation int
	NodeName    lexeme.String
	Entry       NodeEntry
	Inline      bool // meaningful only for EventNodeEnd
}

func startDocumentEvent() Event { return Event{Kind: EventStartDocument} }
func endDocumentEvent() Event   { return Event{Kind: EventEndDocument} }

func indentationEvent(columns int) Event {
	return Event{Kind: EventIndentation, Indentation: columns}
}

func nodeNameEvent(name lexeme.String) Event {
	return Event{Kind: EventNodeName, NodeName: name}
}

func nodeEntryEvent(e NodeEntry) Event {
	return Event{Kind: EventNodeEntry, Entry: e}
}

func nodeEndEvent(inline bool) Event {
	return Event{Kind: EventNodeEnd, Inline: inline}
}

// RangedEvent pairs an Event with its absolute byte range into the source
// that produced it.
type RangedEvent struct {
	Event Event
	Range cursor.Range
}
