// Package prefs parses the Firefox preference declaration grammar.
//
// The grammar is the restricted call form used by prefs.js, greprefs.js and
// the defaults/pref entries bundled inside omni.ja:
//
//	pref("browser.startup.homepage", "about:home");
//	user_pref("network.proxy.type", 1);
//	lock_pref("app.update.enabled", false);
//	sticky_pref("extensions.autoDisableScopes", 15);
//
// It is not JavaScript; only the four call identifiers, literal values, and
// comments are recognized.
package prefs

import (
	"fmt"
	"strconv"
	"strings"
)

// ValueKind discriminates the closed set of preference value variants.
type ValueKind uint8

const (
	// KindBool is a true/false literal.
	KindBool ValueKind = iota
	// KindInt is a 64-bit signed decimal integer.
	KindInt
	// KindFloat is a 64-bit float (decimal point or exponent present).
	KindFloat
	// KindString is a double-quoted string, escapes already processed.
	KindString
	// KindNull is the null literal. Firefox does not emit it, but the
	// grammar accepts it for forward compatibility.
	KindNull
)

// String returns a human-readable name for the value kind.
func (k ValueKind) String() string {
	switch k {
	case KindBool:
		return "boolean"
	case KindInt:
		return "integer"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindNull:
		return "null"
	default:
		return "unknown"
	}
}

// Value is a tagged union over the preference value variants. The Kind field
// selects which payload field is meaningful; there is no implicit coercion
// between variants.
type Value struct {
	Kind  ValueKind
	Bool  bool
	Int   int64
	Float float64
	Str   string
}

// BoolValue wraps a boolean literal.
func BoolValue(b bool) Value { return Value{Kind: KindBool, Bool: b} }

// IntValue wraps an integer literal.
func IntValue(i int64) Value { return Value{Kind: KindInt, Int: i} }

// FloatValue wraps a float literal.
func FloatValue(f float64) Value { return Value{Kind: KindFloat, Float: f} }

// StringValue wraps a string literal.
func StringValue(s string) Value { return Value{Kind: KindString, Str: s} }

// NullValue is the null literal.
func NullValue() Value { return Value{Kind: KindNull} }

// Equal reports whether two values have the same kind and payload.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindBool:
		return v.Bool == o.Bool
	case KindInt:
		return v.Int == o.Int
	case KindFloat:
		return v.Float == o.Float
	case KindString:
		return v.Str == o.Str
	case KindNull:
		return true
	default:
		return false
	}
}

// Interface returns the native Go representation of the value, suitable for
// JSON or YAML serialization. Null yields nil.
func (v Value) Interface() any {
	switch v.Kind {
	case KindBool:
		return v.Bool
	case KindInt:
		return v.Int
	case KindFloat:
		return v.Float
	case KindString:
		return v.Str
	case KindNull:
		return nil
	default:
		return nil
	}
}

// String renders the value as it would appear in a preference file.
func (v Value) String() string {
	switch v.Kind {
	case KindBool:
		return strconv.FormatBool(v.Bool)
	case KindInt:
		return strconv.FormatInt(v.Int, 10)
	case KindFloat:
		return formatFloat(v.Float)
	case KindString:
		return quoteString(v.Str)
	case KindNull:
		return "null"
	default:
		return fmt.Sprintf("?kind=%d", v.Kind)
	}
}

// DeclKind identifies which call form declared a preference. It is distinct
// from the tier the declaration was loaded from.
type DeclKind uint8

const (
	// DeclDefault is the pref() call form.
	DeclDefault DeclKind = iota
	// DeclUser is the user_pref() call form.
	DeclUser
	// DeclLocked is the lock_pref() call form.
	DeclLocked
	// DeclSticky is the sticky_pref() call form.
	DeclSticky
)

// String returns the serialized name used in JSON output.
func (k DeclKind) String() string {
	switch k {
	case DeclDefault:
		return "default"
	case DeclUser:
		return "user"
	case DeclLocked:
		return "locked"
	case DeclSticky:
		return "sticky"
	default:
		return "unknown"
	}
}

// Identifier returns the call identifier for the declaration kind.
func (k DeclKind) Identifier() string {
	switch k {
	case DeclDefault:
		return "pref"
	case DeclUser:
		return "user_pref"
	case DeclLocked:
		return "lock_pref"
	case DeclSticky:
		return "sticky_pref"
	default:
		return "pref"
	}
}

// declKindFor maps a call identifier to its declaration kind.
func declKindFor(ident string) (DeclKind, bool) {
	switch ident {
	case "pref":
		return DeclDefault, true
	case "user_pref":
		return DeclUser, true
	case "lock_pref":
		return DeclLocked, true
	case "sticky_pref":
		return DeclSticky, true
	default:
		return 0, false
	}
}

// Entry is a single preference declaration in source order. Keys are
// case-sensitive dotted identifiers; duplicate keys are legal within one
// blob, with the last occurrence winning at merge time.
type Entry struct {
	Key   string
	Value Value
	Kind  DeclKind
}

// formatFloat renders a float such that re-parsing yields a float again,
// never an integer.
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}
