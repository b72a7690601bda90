// Package lexeme provides character classification and the lexeme
// recognizers the KDL parser drives over a cursor.Cursor: whitespace runs,
// indentation-tracking blankspace runs, and the bare-identifier and
// double-quoted string forms.
package lexeme

// asciiClass holds a precomputed classification for every ASCII code point,
// the way a hand-written scanner normally front-loads its hot path. Code
// points above ASCII fall through to the range checks below.
type asciiClass struct {
	whitespace    bool
	newline       bool
	equals        bool
	disallowed    bool
	nonIdentifier bool
	digit         bool
}

var ascii [128]asciiClass

func init() {
	for i := 0; i < 128; i++ {
		c := rune(i)
		ascii[i] = asciiClass{
			whitespace:    isWhitespaceSlow(c),
			newline:       isNewlineSlow(c),
			equals:        isEqualsSlow(c),
			disallowed:    isDisallowedSlow(c),
			nonIdentifier: isNonIdentifierSlow(c),
			digit:         c >= '0' && c <= '9',
		}
	}
}

// IsDigit reports whether c is an ASCII decimal digit.
func IsDigit(c rune) bool {
	if c < 128 {
		return ascii[c].digit
	}
	return false
}

// IsWhitespace reports whether c is KDL horizontal whitespace.
func IsWhitespace(c rune) bool {
	if c < 128 {
		return ascii[c].whitespace
	}
	return isWhitespaceSlow(c)
}

// whitespaceRunes is the full KDL horizontal-whitespace set, named by code
// point per the KDL v2 grammar: tab, VT, space, NBSP, ogham space mark, the
// en/em/etc. quad family, thin/hair spaces, the narrow no-break space, the
// medium mathematical space, and the ideographic space.
var whitespaceRunes = []rune{
	0x0009, 0x000B, 0x0020, 0x00A0, 0x1680,
	0x2000, 0x2001, 0x2002, 0x2003, 0x2004, 0x2005,
	0x2006, 0x2007, 0x2008, 0x2009, 0x200A,
	0x202F, 0x205F, 0x3000,
}

func isWhitespaceSlow(c rune) bool {
	for _, w := range whitespaceRunes {
		if c == w {
			return true
		}
	}
	return false
}

// IsNewline reports whether c is a KDL line terminator.
func IsNewline(c rune) bool {
	if c < 128 {
		return ascii[c].newline
	}
	return isNewlineSlow(c)
}

// newlineRunes: CR, LF, NEL, form feed, line separator, paragraph separator.
var newlineRunes = []rune{0x000D, 0x000A, 0x0085, 0x000C, 0x2028, 0x2029}

func isNewlineSlow(c rune) bool {
	for _, n := range newlineRunes {
		if c == n {
			return true
		}
	}
	return false
}

// IsEquals reports whether c belongs to the KDL equals-sign family.
func IsEquals(c rune) bool {
	if c < 128 {
		return ascii[c].equals
	}
	return isEqualsSlow(c)
}

// equalsRunes: ASCII '=', small equals sign, fullwidth equals sign, heavy
// equals sign.
var equalsRunes = []rune{0x003D, 0xFE66, 0xFF1D, 0x1F7F0}

func isEqualsSlow(c rune) bool {
	for _, e := range equalsRunes {
		if c == e {
			return true
		}
	}
	return false
}

// IsDisallowed reports whether c may never appear in a KDL document.
func IsDisallowed(c rune) bool {
	if c < 128 {
		return ascii[c].disallowed
	}
	return isDisallowedSlow(c)
}

func isDisallowedSlow(c rune) bool {
	switch {
	case c >= 0x00 && c <= 0x08:
		return true
	case c == 0x7F:
		return true
	case c >= 0xD800 && c <= 0xDFFF:
		return true
	default:
		return false
	}
}

// nonIdentifierPunctuation is the closed set of ASCII punctuation that can
// never appear inside a bare identifier, independent of the equals,
// whitespace, and newline families handled separately below.
var nonIdentifierPunctuation = []rune{'(', ')', '{', '}', '[', ']', '/', '\\', '"', '#', ';'}

// IsNonIdentifier reports whether c cannot appear in a bare identifier.
func IsNonIdentifier(c rune) bool {
	if c < 128 {
		return ascii[c].nonIdentifier
	}
	return isNonIdentifierSlow(c)
}

func isNonIdentifierSlow(c rune) bool {
	for _, p := range nonIdentifierPunctuation {
		if c == p {
			return true
		}
	}
	return isEqualsSlow(c) || isWhitespaceSlow(c) || isNewlineSlow(c)
}
