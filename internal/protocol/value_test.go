package protocol

import (
	"errors"
	"testing"
)

func TestEncodeValueTokens(t *testing.T) {
	cases := []struct {
		name string
		in   Value
		want string
	}{
		{name: "null", in: NewNull(), want: "null"},
		{name: "true", in: NewBool(true), want: "true"},
		{name: "false", in: NewBool(false), want: "false"},
		{name: "int", in: NewInt(42), want: "42"},
		{name: "negative int", in: NewInt(-7), want: "-7"},
		{name: "float", in: NewFloat(3.14), want: "3.14"},
		{name: "whole float keeps separator", in: NewFloat(5), want: "5.0"},
		{name: "bare text", in: NewText("hello"), want: "hello"},
		{name: "text with space quoted", in: NewText("hello world"), want: `"hello world"`},
		{name: "text with quote quoted", in: NewText(`say "hi"`), want: `"say \"hi\""`},
		{name: "text with brace quoted", in: NewText("{not json"), want: `"{not json"`},
		{name: "text with bracket quoted", in: NewText("[0"), want: `"[0"`},
		{name: "object", in: NewStructured(map[string]any{"x": float64(1)}), want: `{"x":1}`},
		{name: "array", in: NewStructured([]any{float64(1), "a"}), want: `[1,"a"]`},
	}
	for _, tc := range cases {
		if got := EncodeValue(tc.in); got != tc.want {
			t.Fatalf("%s: got %q want %q", tc.name, got, tc.want)
		}
	}
}

func TestDecodeValueTokens(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want Value
	}{
		{name: "null", in: "null", want: NewNull()},
		{name: "true", in: "true", want: NewBool(true)},
		{name: "false", in: "false", want: NewBool(false)},
		{name: "int", in: "42", want: NewInt(42)},
		{name: "float", in: "3.14", want: NewFloat(3.14)},
		{name: "surrounding whitespace trimmed", in: "  17 ", want: NewInt(17)},
		{name: "quoted text", in: `"hello world"`, want: NewText("hello world")},
		{name: "object", in: `{"x": 1}`, want: NewStructured(map[string]any{"x": float64(1)})},
		{name: "array", in: `[1, 2]`, want: NewStructured([]any{float64(1), float64(2)})},
		{name: "bare word falls back to text", in: "hello", want: NewText("hello")},
		{name: "unparseable number is text", in: "1.2.3", want: NewText("1.2.3")},
		{name: "exponent without dot is text", in: "1e20", want: NewText("1e20")},
		{name: "empty token is text", in: "", want: NewText("")},
	}
	for _, tc := range cases {
		got, err := DecodeValue(tc.in)
		if err != nil {
			t.Fatalf("%s: decode: %v", tc.name, err)
		}
		if !got.Equal(tc.want) {
			t.Fatalf("%s: got %#v want %#v", tc.name, got, tc.want)
		}
	}
}

func TestDecodeValueMalformedJSON(t *testing.T) {
	for _, token := range []string{`{"x":`, `["a"`, `"unterminated`} {
		if _, err := DecodeValue(token); !errors.Is(err, ErrDecode) {
			t.Fatalf("token %q: expected ErrDecode, got %v", token, err)
		}
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	values := []Value{
		NewNull(),
		NewBool(true),
		NewBool(false),
		NewInt(0),
		NewInt(-123456789),
		NewFloat(2.5),
		NewFloat(100),
		NewText("plain"),
		NewText("hello world"),
		NewText(`with "quotes" inside`),
		NewText("{looks structured"),
		NewStructured(map[string]any{"name": "alice", "active": true}),
		NewStructured([]any{float64(1), "two", nil}),
	}
	for _, v := range values {
		got, err := DecodeValue(EncodeValue(v))
		if err != nil {
			t.Fatalf("round trip %#v: %v", v, err)
		}
		if !got.Equal(v) {
			t.Fatalf("round trip %#v: got %#v", v, got)
		}
	}
}

// Text that reads as a primitive token is deliberately not bare-encodable:
// it has no space/quote/brace, so it goes out bare and comes back typed.
func TestTextPrimitiveAsymmetryIsPreserved(t *testing.T) {
	cases := []struct {
		in   string
		want Value
	}{
		{in: "42", want: NewInt(42)},
		{in: "true", want: NewBool(true)},
		{in: "null", want: NewNull()},
	}
	for _, tc := range cases {
		got, err := DecodeValue(EncodeValue(NewText(tc.in)))
		if err != nil {
			t.Fatalf("decode %q: %v", tc.in, err)
		}
		if !got.Equal(tc.want) {
			t.Fatalf("text %q: got %#v want %#v", tc.in, got, tc.want)
		}
	}
}

func TestValueString(t *testing.T) {
	if got := NewText("hello world").String(); got != "hello world" {
		t.Fatalf("text string: %q", got)
	}
	if got := NewInt(7).String(); got != "7" {
		t.Fatalf("int string: %q", got)
	}
	if got := NewNull().String(); got != "null" {
		t.Fatalf("null string: %q", got)
	}
}
