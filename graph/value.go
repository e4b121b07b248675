package graph

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/exp/slices"
)

// Kind identifies the type of literal stored in a Value.
type Kind uint8

const (
	KindBool Kind = iota
	KindInt
	KindFloat
	KindEnum
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindEnum:
		return "enum"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Value is a literal pass option: a boolean, a number or an enum-like tag
// such as SamplePattern.Center.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	tag  string
}

func BoolValue(b bool) Value     { return Value{kind: KindBool, b: b} }
func IntValue(i int64) Value     { return Value{kind: KindInt, i: i} }
func FloatValue(f float64) Value { return Value{kind: KindFloat, f: f} }
func EnumValue(tag string) Value { return Value{kind: KindEnum, tag: tag} }

func (v Value) Kind() Kind     { return v.kind }
func (v Value) Bool() bool     { return v.b }
func (v Value) Int() int64     { return v.i }
func (v Value) Float() float64 { return v.f }
func (v Value) Enum() string   { return v.tag }

// Equal reports whether both values have the same kind and literal.
func (v Value) Equal(o Value) bool { return v == o }

// String renders the value as a literal understood by the render host.
func (v Value) String() string {
	switch v.kind {
	case KindBool:
		if v.b {
			return "True"
		}
		return "False"
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		switch {
		case math.IsNaN(v.f):
			return "float('nan')"
		case math.IsInf(v.f, 1):
			return "float('inf')"
		case math.IsInf(v.f, -1):
			return "float('-inf')"
		}
		s := strconv.FormatFloat(v.f, 'g', -1, 64)
		if !strings.ContainsAny(s, ".e") {
			s += ".0"
		}
		return s
	default:
		return v.tag
	}
}

// ParseValue converts a host literal into a Value. Booleans are spelled
// True/False, numbers without a fractional part or exponent are integers
// and dotted identifiers are enum tags.
func ParseValue(literal string) (Value, error) {
	literal = strings.TrimSpace(literal)
	switch literal {
	case "True", "true":
		return BoolValue(true), nil
	case "False", "false":
		return BoolValue(false), nil
	}

	if i, err := strconv.ParseInt(literal, 10, 64); err == nil {
		return IntValue(i), nil
	}
	if f, err := strconv.ParseFloat(literal, 64); err == nil {
		return FloatValue(f), nil
	}
	if IsEnumTag(literal) {
		return EnumValue(literal), nil
	}
	return Value{}, fmt.Errorf("graph: unsupported option literal %q", literal)
}

// IsEnumTag returns true if tag has the form Type.Member where both parts are
// identifiers.
func IsEnumTag(tag string) bool {
	typ, member, found := strings.Cut(tag, ".")
	return found && isIdent(typ) && isIdent(member)
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}

// Options maps option names to literal values.
type Options map[string]Value

// Keys returns the option names in sorted order.
func (o Options) Keys() []string {
	keys := make([]string, 0, len(o))
	for k := range o {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Clone returns a shallow copy of the option map.
func (o Options) Clone() Options {
	if o == nil {
		return nil
	}
	out := make(Options, len(o))
	for k, v := range o {
		out[k] = v
	}
	return out
}

// String renders the options as a host dictionary literal with sorted keys.
func (o Options) String() string {
	parts := make([]string, 0, len(o))
	for _, k := range o.Keys() {
		parts = append(parts, fmt.Sprintf("'%s': %s", k, o[k]))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
