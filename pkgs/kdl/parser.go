// Package kdl implements a pull-style (event-driven) parser for KDL
// documents: a resumable state machine that produces a flat stream of
// events from a text buffer while preserving byte ranges into the source
// and letting event payloads borrow directly from it.
package kdl

import (
	"github.com/kdlpull/kdlpull/pkgs/cursor"
	"github.com/kdlpull/kdlpull/pkgs/lexeme"
)

// Parser drives a cursor through the KDL grammar, producing one event per
// call to Next. It holds only a cursor pointer, a depth counter, and a state
// value. A copy of a Parser value shares the cursor with the original, so
// pulling events from the copy also moves the original's position.
type Parser struct {
	acc   *cursor.Cursor
	depth int
	st    state
}

// New returns a Parser positioned before the document's StartDocument
// event.
func New(source string) *Parser {
	return &Parser{acc: cursor.New(source), st: stateInitial}
}

// Next pulls the next event from the parser. It returns (event, true, nil)
// on success, (zero, false, nil) at end of stream, and (zero, false, err)
// on a parse error. Once end of stream is reported, every subsequent call
// reports it again: Next is a fused producer.
func (p *Parser) Next() (RangedEvent, bool, error) {
	base := p.acc.Pos()
	ev, rng, end, err := p.peekNextEvent()
	if err != nil {
		return RangedEvent{}, false, err
	}
	if end {
		return RangedEvent{}, false, nil
	}
	abs := rng.Shift(base)
	p.acc.AdvanceBytes(rng.End)
	return RangedEvent{Event: ev, Range: abs}, true, nil
}

// NextEventBorrowed is an alias for Next kept for parity with the
// reference API this parser is grounded on, which distinguishes a
// borrowed-payload pull from an owned-payload one. Go strings returned
// from slicing the source already behave as immutable, independently
// addressable values, so there is no separate borrowed representation to
// expose; this method exists so callers migrating from that API have a
// direct equivalent.
func (p *Parser) NextEventBorrowed() (RangedEvent, bool, error) {
	return p.Next()
}

// NextEvent is Next, but promotes any returned ParseError to an owned copy
// via ParseError.IntoOwned. Use this when the error needs to outlive the
// parser or its source buffer.
func (p *Parser) NextEvent() (RangedEvent, bool, error) {
	ev, ok, err := p.Next()
	if pe, isParseErr := err.(ParseError); isParseErr {
		return ev, ok, pe.IntoOwned()
	}
	return ev, ok, err
}

// All returns a range-over-func iterator over the parser's remaining
// events, stopping at end of stream or the first error. A caller that
// needs to observe the error should prefer a manual Next loop; All is a
// convenience for the common case where only the events matter.
func (p *Parser) All() func(yield func(RangedEvent) bool) {
	return func(yield func(RangedEvent) bool) {
		for {
			ev, ok, err := p.Next()
			if err != nil || !ok {
				return
			}
			if !yield(ev) {
				return
			}
		}
	}
}

// peekNextEvent computes the next event and its range relative to the
// cursor's current position, without advancing the cursor itself; Next
// commits the advance once it has the final range. end is true only when
// the state machine has nothing left to report (the Final state).
func (p *Parser) peekNextEvent() (ev Event, rng cursor.Range, end bool, err error) {
	if p.st != stateNodeEntries && p.st != stateDocumentEnd {
		ind := lexeme.PeekBlankspace(p.acc)
		if !ind.Range.Empty() {
			return indentationEvent(ind.Columns), ind.Range, false, nil
		}
	}

	switch p.st {
	case stateInitial:
		p.depth = 0
		p.st = stateDocument
		return startDocumentEvent(), cursor.Range{Start: 0, End: 0}, false, nil

	case stateFinal:
		return Event{}, cursor.Range{}, true, nil

	case stateDocumentEnd:
		return p.parseDocumentEnd()

	case stateDocument:
		return p.parseDocument()

	case stateNodeEntries:
		return p.parseNodeEntries()
	}

	// Unreachable: every declared state is handled above.
	return Event{}, cursor.Range{}, true, nil
}

func (p *Parser) parseDocumentEnd() (Event, cursor.Range, bool, error) {
	sub := p.acc.SubAccumulator(0)
	ws := lexeme.PeekWhitespace(sub)
	sub.ConsumeRange(ws)
	c, ok := sub.ConsumeNextChar()
	if !ok {
		if p.depth == 0 {
			p.st = stateDocument
			end := sub.Pos()
			return nodeEndEvent(true), cursor.Range{Start: end, End: end}, false, nil
		}
		return Event{}, cursor.Range{}, false, ParseError{Cause: CauseNeedsMoreData, At: p.acc.Pos() + sub.Pos(), Source: p.acc.Text()}
	}
	ev, rng, matched := checkNodeEnd(c)
	if !matched {
		return Event{}, cursor.Range{}, false, ParseError{
			Cause:    CauseExpectedSequence,
			At:       p.acc.Pos() + ws.End,
			Sequence: ";",
			Source:   p.acc.Text(),
		}
	}
	p.st = stateDocument
	return ev, rng.Shift(ws.End), false, nil
}

func (p *Parser) parseDocument() (Event, cursor.Range, bool, error) {
	rem := p.acc.RemainingText()
	if p.depth == 0 && len(rem) == 0 {
		p.st = stateFinal
		return endDocumentEvent(), cursor.Range{Start: 0, End: 0}, false, nil
	}

	sub := p.acc.SubAccumulator(0)
	if c, ok := sub.PeekChar(); ok && c == '}' {
		if p.depth == 0 {
			return Event{}, cursor.Range{}, false, ParseError{Cause: CauseUnbalancedBrace, At: p.acc.Pos(), Source: p.acc.Text()}
		}
		sub.ConsumeNextChar()
		p.depth--
		p.st = stateDocumentEnd
		return endDocumentEvent(), cursor.Range{Start: 0, End: sub.Pos()}, false, nil
	}

	res := lexeme.PeekString(p.acc)
	switch res.Err {
	case lexeme.StringErrorNeedsMoreData:
		return Event{}, cursor.Range{}, false, ParseError{Cause: CauseNeedsMoreData, At: p.acc.Pos(), Source: p.acc.Text()}
	case lexeme.StringErrorInvalidStart:
		return Event{}, cursor.Range{}, false, ParseError{
			Cause:   CauseInvalidStringCharacter,
			At:      p.acc.Pos(),
			BadChar: res.BadChar,
			Source:  p.acc.Text(),
		}
	}

	p.st = stateNodeEntries
	return nodeNameEvent(res.Value), res.Range, false, nil
}

func (p *Parser) parseNodeEntries() (Event, cursor.Range, bool, error) {
	sub := p.acc.SubAccumulator(0)
	ws := lexeme.PeekWhitespace(sub)
	sub.ConsumeRange(ws)

	c, ok := sub.PeekChar()
	if !ok {
		p.st = stateDocument
		if p.depth == 0 {
			end := sub.Pos()
			return nodeEndEvent(true), cursor.Range{Start: end, End: end}, false, nil
		}
		return Event{}, cursor.Range{}, false, ParseError{Cause: CauseNeedsMoreData, At: p.acc.Pos() + sub.Pos(), Source: p.acc.Text()}
	}

	switch {
	case c == '{':
		start := sub.Pos()
		sub.ConsumeNextChar()
		p.startDocument()
		return startDocumentEvent(), cursor.Range{Start: start, End: sub.Pos()}, false, nil

	case lexeme.IsNewline(c) || c == '}':
		pos := sub.Pos()
		p.st = stateDocument
		return nodeEndEvent(false), cursor.Range{Start: pos, End: pos}, false, nil

	case c == ';':
		start := sub.Pos()
		sub.ConsumeNextChar()
		p.st = stateDocument
		return nodeEndEvent(true), cursor.Range{Start: start, End: sub.Pos()}, false, nil
	}

	entryStart := sub.Pos()
	first, err := p.consumeValue(sub)
	if err != nil {
		return Event{}, cursor.Range{}, false, err
	}

	if eq, ok := sub.PeekChar(); ok && lexeme.IsEquals(eq) {
		sub.ConsumeNextChar()
		if first.Kind != KindString {
			return Event{}, cursor.Range{}, false, ParseError{
				Cause:    CauseInvalidKey,
				At:       p.acc.Pos() + entryStart,
				KeyValue: first.String(),
				Source:   p.acc.Text(),
			}
		}
		second, err := p.expectValue(sub)
		if err != nil {
			return Event{}, cursor.Range{}, false, err
		}
		entry := nodeEntryEvent(Property(first.Str, second))
		return entry, cursor.Range{Start: entryStart, End: sub.Pos()}, false, nil
	}

	entry := nodeEntryEvent(Argument(first))
	return entry, cursor.Range{Start: entryStart, End: sub.Pos()}, false, nil
}

// consumeValue recognizes one value at sub's current position, advancing
// sub past it.
func (p *Parser) consumeValue(sub *cursor.Cursor) (Value, error) {
	res := lexeme.PeekString(sub)
	switch res.Err {
	case lexeme.StringErrorNone:
		sub.ConsumeRange(res.Range)
		return StringValue(res.Value), nil
	case lexeme.StringErrorNeedsMoreData:
		return Value{}, ParseError{Cause: CauseNeedsMoreData, At: p.acc.Pos() + sub.Pos(), Source: p.acc.Text()}
	default: // StringErrorInvalidStart
		return Value{}, ParseError{Cause: CauseExpectedValue, At: p.acc.Pos() + sub.Pos(), Source: p.acc.Text()}
	}
}

// expectValue is the named extension point a future number/bool/null
// literal recognizer would hook into; today it only ever recognizes
// strings, and a property value that cannot start a string (as in
// `node a=5`) fails with CauseExpectedValue. The call site is kept distinct
// from consumeValue's argument-position use so that future literal kinds
// can be restricted to property values only if that turns out to be
// desired.
func (p *Parser) expectValue(sub *cursor.Cursor) (Value, error) {
	return p.consumeValue(sub)
}

// checkNodeEnd reports whether c, the first character after a just-closed
// child document and any inline whitespace, is the enclosing node's own
// terminator: a newline or a closing '}' ends it without being consumed, a
// ';' ends it inline.
func checkNodeEnd(c rune) (Event, cursor.Range, bool) {
	switch {
	case lexeme.IsNewline(c) || c == '}':
		return nodeEndEvent(false), cursor.Range{Start: 0, End: 0}, true
	case c == ';':
		return nodeEndEvent(true), cursor.Range{Start: 0, End: 1}, true
	default:
		return Event{}, cursor.Range{}, false
	}
}

func (p *Parser) startDocument() {
	p.st = stateDocument
	p.depth++
}
