package kdl

import (
	"fmt"
	"strings"
)

// Cause discriminates why the parser could not produce the next event.
type Cause int

const (
	// CauseNeedsMoreData marks EOF reached while a higher-level
	// construct (an unclosed child document, a string lexeme, ...)
	// required more input.
	CauseNeedsMoreData Cause = iota
	// CauseInvalidStringCharacter marks a required string lexeme whose
	// leading character is non-identifier punctuation or a digit.
	CauseInvalidStringCharacter
	// CauseInvalidNodeName marks a failed node-name recognition in the
	// Document state.
	CauseInvalidNodeName
	// CauseInvalidKey marks a property shape `x=y` where x is not a
	// string value.
	CauseInvalidKey
	// CauseExpectedSequence marks a missing required literal.
	CauseExpectedSequence
	// CauseExpectedValue marks a required value with no matching
	// recognizer.
	CauseExpectedValue
	// CauseUnbalancedBrace marks a `}` seen at document depth 0, which
	// has no enclosing child document to close. See the Open Questions
	// decision recorded for this cause.
	CauseUnbalancedBrace
)

func (c Cause) String() string {
	switch c {
	case CauseNeedsMoreData:
		return "needs more data"
	case CauseInvalidStringCharacter:
		return "invalid string character"
	case CauseInvalidNodeName:
		return "invalid node name"
	case CauseInvalidKey:
		return "invalid key"
	case CauseExpectedSequence:
		return "expected sequence"
	case CauseExpectedValue:
		return "expected value"
	case CauseUnbalancedBrace:
		return "unbalanced brace"
	default:
		return fmt.Sprintf("unknown cause(%d)", int(c))
	}
}

// ParseError reports why the parser stopped producing events, at what
// absolute byte offset, and over what source text.
type ParseError struct {
	Cause Cause
	At    int
	// BadChar is set for CauseInvalidStringCharacter.
	BadChar rune
	// Sequence is set for CauseExpectedSequence.
	Sequence string
	// KeyValue is set for CauseInvalidKey: the rendering of the
	// offending non-string value.
	KeyValue string
	// Source is the full text the error was raised against, used only
	// for the code-snippet rendering in Error().
	Source string
}

// Error renders a one-line cause message and a Rust/Clang-style code
// snippet pointing at the offending byte offset.
func (e ParseError) Error() string {
	snippet := e.createCodeSnippet()
	if snippet == "" {
		return e.message()
	}
	return fmt.Sprintf("%s\n%s", e.message(), snippet)
}

func (e ParseError) message() string {
	switch e.Cause {
	case CauseExpectedSequence:
		return fmt.Sprintf("expected the sequence %q", e.Sequence)
	case CauseExpectedValue:
		return "expected a value"
	case CauseInvalidNodeName:
		return "got an invalid node name"
	case CauseInvalidStringCharacter:
		return fmt.Sprintf("invalid string character %q", e.BadChar)
	case CauseInvalidKey:
		return fmt.Sprintf("expected a valid string key, got %s instead", e.KeyValue)
	case CauseNeedsMoreData:
		return "the source ended abruptly"
	case CauseUnbalancedBrace:
		return "unbalanced '}' with no open child document"
	default:
		return e.Cause.String()
	}
}

// lineCol recovers a 1-based line and column from a byte offset by
// scanning the source, since the core only ever carries byte offsets.
func lineCol(source string, at int) (line, col int, lineText string, ok bool) {
	if at < 0 || at > len(source) {
		return 0, 0, "", false
	}
	line = 1
	lineStart := 0
	for i := 0; i < at && i < len(source); i++ {
		if source[i] == '\n' {
			line++
			lineStart = i + 1
		}
	}
	lineEnd := strings.IndexByte(source[lineStart:], '\n')
	if lineEnd == -1 {
		lineText = source[lineStart:]
	} else {
		lineText = source[lineStart : lineStart+lineEnd]
	}
	col = at - lineStart + 1
	return line, col, lineText, true
}

func (e ParseError) createCodeSnippet() string {
	line, col, lineText, ok := lineCol(e.Source, e.At)
	if !ok {
		return ""
	}

	var snippet strings.Builder
	fmt.Fprintf(&snippet, "  --> %d:%d\n", line, col)
	snippet.WriteString("   |\n")
	fmt.Fprintf(&snippet, "%2d | %s\n", line, lineText)
	snippet.WriteString("   | ")
	if col > 0 && col <= len(lineText)+1 {
		snippet.WriteString(strings.Repeat(" ", col-1) + "^")
	}
	return snippet.String()
}

// IntoOwned returns a copy of e with Source and any string fields forced
// to fresh, independently-owned copies, mirroring the borrowed/owned split
// of the reference implementation this type is grounded on.
func (e ParseError) IntoOwned() ParseError {
	owned := e
	owned.Source = strings.Clone(e.Source)
	owned.Sequence = strings.Clone(e.Sequence)
	owned.KeyValue = strings.Clone(e.KeyValue)
	return owned
}
