package lexeme

import "github.com/kdlpull/kdlpull/pkgs/cursor"

// String is a thin wrapper over a (possibly borrowed) slice of source text:
// either a bare identifier, stored verbatim, or a double-quoted string,
// stored including both surrounding quotes.
type String struct {
	Text string
}

// PeekWhitespace reports the byte length of the leading run of
// IsWhitespace characters in c, without advancing c.
func PeekWhitespace(c *cursor.Cursor) cursor.Range {
	sub := c.SubAccumulator(0)
	for {
		r, ok := sub.PeekChar()
		if !ok || !IsWhitespace(r) {
			break
		}
		sub.ConsumeNextChar()
	}
	return cursor.Range{Start: 0, End: sub.Pos()}
}

// Indentation reports the visual-column width of a blankspace run: tab
// counts as 4 columns, any other whitespace counts as 1, and a newline
// resets the running count to 0. It is measured purely for the benefit of
// Indentation events and never feeds back into parser state.
type Indentation struct {
	Columns int
	Range   cursor.Range
}

// PeekBlankspace scans the leading run of whitespace and newline
// characters in c, without advancing c, and reports the visual-column
// indentation of whatever followed the last newline seen (or of the whole
// run, if it contained no newline). The returned range is the exact BYTE
// span consumed, not a character count.
func PeekBlankspace(c *cursor.Cursor) Indentation {
	sub := c.SubAccumulator(0)
	columns := 0
	consumedEnd := 0

	for {
		r, ok := sub.PeekChar()
		if !ok {
			break
		}
		switch {
		case IsWhitespace(r):
			sub.ConsumeNextChar()
			if r == '\t' {
				columns += 4
			} else {
				columns++
			}
			consumedEnd = sub.Pos()
		case IsNewline(r):
			sub.ConsumeNextChar()
			columns = 0
			consumedEnd = sub.Pos()
		default:
			return Indentation{Columns: columns, Range: cursor.Range{Start: 0, End: consumedEnd}}
		}
	}
	return Indentation{Columns: columns, Range: cursor.Range{Start: 0, End: consumedEnd}}
}

// StringError classifies why PeekString could not recognize a lexeme.
type StringError int

const (
	// StringErrorNone indicates PeekString succeeded.
	StringErrorNone StringError = iota
	// StringErrorNeedsMoreData indicates the cursor was already at EOF.
	StringErrorNeedsMoreData
	// StringErrorInvalidStart indicates the leading character can never
	// begin a string (non-identifier punctuation, or a leading digit).
	StringErrorInvalidStart
)

// PeekStringResult carries either a recognized String and its relative
// range, or a StringError and the offending character.
type PeekStringResult struct {
	Value String
	Range cursor.Range
	Err   StringError
	// BadChar is set when Err == StringErrorInvalidStart.
	BadChar rune
}

// PeekString recognizes one string lexeme at c's current position without
// advancing c: either a double-quoted run (the returned text includes both
// quotes) or a bare identifier run (terminated by the first
// IsNonIdentifier character, which is not consumed). The caller commits by
// passing the returned range to c.ConsumeRange.
func PeekString(c *cursor.Cursor) PeekStringResult {
	acc := c.SubAccumulator(0)

	first, ok := acc.PeekChar()
	if !ok {
		return PeekStringResult{Err: StringErrorNeedsMoreData}
	}

	var sentinel rune
	hasSentinel := false
	switch {
	case first == '"':
		sentinel = '"'
		hasSentinel = true
	case IsNonIdentifier(first) || IsDigit(first):
		return PeekStringResult{Err: StringErrorInvalidStart, BadChar: first}
	}

	acc.ConsumeNextChar()

	for {
		ch, ok := acc.ConsumeNextChar()
		if !ok {
			break
		}
		if hasSentinel {
			if ch == sentinel {
				break
			}
			continue
		}
		if IsNonIdentifier(ch) {
			acc.UnconsumeChar(ch)
			break
		}
	}

	r := cursor.Range{Start: 0, End: acc.Pos()}
	return PeekStringResult{
		Value: String{Text: acc.Bytes(r)},
		Range: r,
	}
}
