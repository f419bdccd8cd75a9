package protocol

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Kind discriminates the Value union.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindText
	KindStructured
)

// Value is one BL/T application value. Exactly the field selected by Kind is
// meaningful; the rest stay zero.
type Value struct {
	Kind       Kind
	Bool       bool
	Int        int64
	Float      float64
	Text       string
	Structured any
}

// NewNull creates a null Value.
func NewNull() Value {
	return Value{Kind: KindNull}
}

// NewBool creates a bool Value.
func NewBool(v bool) Value {
	return Value{Kind: KindBool, Bool: v}
}

// NewInt creates an integer Value.
func NewInt(v int64) Value {
	return Value{Kind: KindInt, Int: v}
}

// NewFloat creates a floating Value.
func NewFloat(v float64) Value {
	return Value{Kind: KindFloat, Float: v}
}

// NewText creates a text Value.
func NewText(v string) Value {
	return Value{Kind: KindText, Text: v}
}

// NewStructured creates a structured Value over a JSON-compatible tree.
func NewStructured(v any) Value {
	return Value{Kind: KindStructured, Structured: v}
}

// EncodeValue renders v as a wire token. Total: every Value has a token.
//
// Text is emitted bare unless it contains a space, a double quote, or an
// opening brace/bracket, in which case it is emitted as a JSON string literal
// so the peer cannot misread it as a primitive or structured token.
func EncodeValue(v Value) string {
	switch v.Kind {
	case KindNull:
		return "null"
	case KindBool:
		return strconv.FormatBool(v.Bool)
	case KindInt:
		return strconv.FormatInt(v.Int, 10)
	case KindFloat:
		return formatFloatToken(v.Float)
	case KindText:
		if strings.ContainsAny(v.Text, " \"{[") {
			quoted, _ := json.Marshal(v.Text)
			return string(quoted)
		}
		return v.Text
	case KindStructured:
		encoded, err := json.Marshal(v.Structured)
		if err != nil {
			// Structured trees are JSON-compatible by construction; an
			// unmarshalable tree still needs a token, so fall back to null.
			return "null"
		}
		return string(encoded)
	}
	return "null"
}

// formatFloatToken keeps a fractional separator in the token so the peer
// decodes it back as floating, not integer.
func formatFloatToken(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// DecodeValue parses a wire token into a typed Value.
//
// Tokens that fail numeric parsing come back verbatim as Text rather than as
// an error; bare strings on the wire rely on that fallback. Only malformed
// JSON in quoted/structured tokens is an error.
func DecodeValue(token string) (Value, error) {
	token = strings.TrimSpace(token)
	switch token {
	case "null":
		return NewNull(), nil
	case "true":
		return NewBool(true), nil
	case "false":
		return NewBool(false), nil
	}
	if len(token) > 0 && (token[0] == '{' || token[0] == '[' || token[0] == '"') {
		var parsed any
		if err := json.Unmarshal([]byte(token), &parsed); err != nil {
			return Value{}, fmt.Errorf("%w: malformed structured token: %v", ErrDecode, err)
		}
		if s, ok := parsed.(string); ok {
			return NewText(s), nil
		}
		return NewStructured(parsed), nil
	}
	if strings.Contains(token, ".") {
		if f, err := strconv.ParseFloat(token, 64); err == nil {
			return NewFloat(f), nil
		}
		return NewText(token), nil
	}
	if i, err := strconv.ParseInt(token, 10, 64); err == nil {
		return NewInt(i), nil
	}
	return NewText(token), nil
}

// GoValue returns the plain Go representation of v.
func (v Value) GoValue() any {
	switch v.Kind {
	case KindBool:
		return v.Bool
	case KindInt:
		return v.Int
	case KindFloat:
		return v.Float
	case KindText:
		return v.Text
	case KindStructured:
		return v.Structured
	}
	return nil
}

// String renders v for display: raw text for Text, the wire token otherwise.
func (v Value) String() string {
	if v.Kind == KindText {
		return v.Text
	}
	return EncodeValue(v)
}

// Equal reports value equality, comparing structured trees deeply.
func (v Value) Equal(other Value) bool {
	if v.Kind != other.Kind {
		return false
	}
	switch v.Kind {
	case KindNull:
		return true
	case KindBool:
		return v.Bool == other.Bool
	case KindInt:
		return v.Int == other.Int
	case KindFloat:
		return v.Float == other.Float
	case KindText:
		return v.Text == other.Text
	case KindStructured:
		return reflect.DeepEqual(v.Structured, other.Structured)
	}
	return false
}
