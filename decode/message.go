package decode

// Kind identifies which field of Value is populated.
type Kind uint8

const (
	KindInt64 Kind = iota
	KindUint64
	KindFloat64
	KindString
	KindBytes
)

// Value is a tagged variant holding one decoded field. Its Kind is decided
// at decode time by the descriptor's format character, scale-factor rule,
// and opaque-field rule — never known statically, so it cannot be a plain
// Go struct field.
type Value struct {
	kind Kind
	i    int64
	u    uint64
	f    float64
	s    string
	b    []byte
}

// Kind reports which accessor is valid for this Value.
func (v Value) Kind() Kind { return v.kind }

// Int64 returns the value as a signed integer. Valid when Kind() == KindInt64.
func (v Value) Int64() int64 { return v.i }

// Uint64 returns the value as an unsigned integer. Valid when Kind() == KindUint64.
func (v Value) Uint64() uint64 { return v.u }

// Float64 returns the value as a float. Valid when Kind() == KindFloat64.
func (v Value) Float64() float64 { return v.f }

// String returns the value as a trimmed ASCII string. Valid when Kind() == KindString.
func (v Value) String() string { return v.s }

// Bytes returns the value as an opaque byte string. Valid when Kind() == KindBytes.
func (v Value) Bytes() []byte { return v.b }

func intValue(i int64) Value    { return Value{kind: KindInt64, i: i} }
func uintValue(u uint64) Value  { return Value{kind: KindUint64, u: u} }
func floatValue(f float64) Value { return Value{kind: KindFloat64, f: f} }
func stringValue(s string) Value { return Value{kind: KindString, s: s} }
func bytesValue(b []byte) Value  { return Value{kind: KindBytes, b: b} }

// Field is one named, ordered entry of a decoded Message.
type Field struct {
	Name  string
	Value Value
}

// Message is a decoded record: an ordered list of fields plus a fast
// accessor for the reserved "mavpackettype" name, mirroring the field
// order of the descriptor that produced it.
type Message struct {
	typeName string
	fields   []Field
}

// MessageType returns the descriptor name this message was decoded
// against — the reserved "mavpackettype" value.
func (m Message) MessageType() string { return m.typeName }

// Fields returns the ordered field list, excluding "mavpackettype".
func (m Message) Fields() []Field { return m.fields }

// Field returns the named field's value and whether it was present.
func (m Message) Field(name string) (Value, bool) {
	for _, f := range m.fields {
		if f.Name == name {
			return f.Value, true
		}
	}

	return Value{}, false
}
