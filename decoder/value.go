package decoder

// Kind discriminates the closed set of typed values a decoded field can
// hold. Dispatch on Kind is a switch, never a virtual call.
type Kind int

const (
	KindAbsent Kind = iota
	KindBool
	KindInt64
	KindFloat32
	KindFloat64
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt64:
		return "int64"
	case KindFloat32:
		return "float32"
	case KindFloat64:
		return "float64"
	case KindString:
		return "string"
	default:
		return "absent"
	}
}

// Value is the closed tagged union a typed decoder produces. Only the
// field matching Kind is meaningful; the rest hold zero values.
type Value struct {
	Kind    Kind
	Bool    bool
	Int64   int64
	Float32 float32
	Float64 float64
	Str     []byte
}

var absentValue = Value{Kind: KindAbsent}

func boolValue(b bool) Value       { return Value{Kind: KindBool, Bool: b} }
func int64Value(n int64) Value     { return Value{Kind: KindInt64, Int64: n} }
func float32Value(f float32) Value { return Value{Kind: KindFloat32, Float32: f} }
func float64Value(f float64) Value { return Value{Kind: KindFloat64, Float64: f} }
func stringValue(s []byte) Value   { return Value{Kind: KindString, Str: s} }
