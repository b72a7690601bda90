package kdl

import "fmt"

// state represents the current state of the parser's pull driver.
type state int

const (
	// stateInitial is the state before the first event has been emitted.
	stateInitial state = iota
	// stateDocument is looking for a node name, or for the end of the
	// current document.
	stateDocument
	// stateNodeEntries is looking for arguments/properties belonging to
	// the node whose name was just emitted, or for the node's terminator.
	stateNodeEntries
	// stateDocumentEnd follows a non-root EndDocument: the enclosing
	// node's own terminator (';', a newline, a closing '}', or end of
	// input at the root) still needs to be read and reported.
	stateDocumentEnd
	// stateFinal means the root document has been fully parsed; every
	// subsequent pull reports end of stream.
	stateFinal
)

func (s state) String() string {
	switch s {
	case stateInitial:
		return "Initial"
	case stateDocument:
		return "Document"
	case stateNodeEntries:
		return "NodeEntries"
	case stateDocumentEnd:
		return "DocumentEnd"
	case stateFinal:
		return "Final"
	default:
		return fmt.Sprintf("Unknown(%d)", int(s))
	}
}
