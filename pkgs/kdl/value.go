package kdl

import (
	"fmt"

	"github.com/kdlpull/kdlpull/pkgs/lexeme"
)

// ValueKind discriminates the variants of Value.
type ValueKind int

const (
	// KindString marks a Value holding a String. The core only ever
	// produces this variant; Num/Bool/Null are reserved for future
	// literal recognizers (see Non-goals).
	KindString ValueKind = iota
	KindNum
	KindBool
	KindNull
)

func (k ValueKind) String() string {
	switch k {
	case KindString:
		return "String"
	case KindNum:
		return "Num"
	case KindBool:
		return "Bool"
	case KindNull:
		return "Null"
	default:
		return fmt.Sprintf("Unknown(%d)", int(k))
	}
}

// Value is a tagged variant over the literal forms a node entry can carry.
// Only String is reachable today; Num/Bool/Null exist so callers and the
// error taxonomy (InvalidKey) have a stable shape to match on once number,
// boolean, and null literals are added.
type Value struct {
	Kind ValueKind
	Str  lexeme.String
	Num  float64
	Bool bool
}

// String implements fmt.Stringer for diagnostic rendering.
func (v Value) String() string {
	switch v.Kind {
	case KindString:
		return v.Str.Text
	case KindNum:
		return fmt.Sprintf("%v", v.Num)
	case KindBool:
		return fmt.Sprintf("%v", v.Bool)
	case KindNull:
		return "null"
	default:
		return fmt.Sprintf("<invalid value kind %d>", int(v.Kind))
	}
}

// StringValue constructs a Value wrapping a string lexeme.
func StringValue(s lexeme.String) Value {
	return Value{Kind: KindString, Str: s}
}
