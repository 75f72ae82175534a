package decoder

import (
	"strconv"
	"strings"
)

// TypeDecoder converts a raw field value into a typed Value. A decoder
// that cannot interpret raw returns absentValue rather than an error;
// type-decode failure never makes the owning message invalid.
type TypeDecoder func(raw []byte) Value

// builtinTypeDecoders seeds every new Decoder's type-decoder table. It is
// never mutated; RegisterTypeDecoder overrides copies held per Decoder.
var builtinTypeDecoders = map[string]TypeDecoder{
	"BOOLEAN": decodeBoolean,

	"INT":        decodeInt,
	"NUMINGROUP": decodeInt,
	"SEQNUM":     decodeInt,
	"LENGTH":     decodeInt,

	"FLOAT": decodeFloat32,

	"DOUBLE":      decodeFloat64,
	"AMT":         decodeFloat64,
	"PRICE":       decodeFloat64,
	"PRICEOFFSET": decodeFloat64,
	"PERCENTAGE":  decodeFloat64,
	"QTY":         decodeFloat64,

	"STRING":              decodeString,
	"CHAR":                decodeString,
	"MULTIPLECHARVALUE":   decodeString,
	"MULTIPLESTRINGVALUE": decodeString,
	"EXCHANGE":            decodeString,
	"CURRENCY":            decodeString,
	"UTCTIMESTAMP":        decodeString,
	"UTCTIMEONLY":         decodeString,
	"UTCDATEONLY":         decodeString,
	"LOCALMKTDATE":        decodeString,
	"MONTHYEAR":           decodeString,
	"DAYOFMONTH":          decodeString,
	"DATA":                decodeString,
	"COUNTRY":             decodeString,
	"LANGUAGE":            decodeString,
}

func newTypeDecoderTable() map[string]TypeDecoder {
	table := make(map[string]TypeDecoder, len(builtinTypeDecoders))
	for k, v := range builtinTypeDecoders {
		table[k] = v
	}
	return table
}

func decodeByTypeName(table map[string]TypeDecoder, typeName string, raw []byte) Value {
	decode, ok := table[strings.ToUpper(typeName)]
	if !ok {
		decode = decodeString
	}
	return decode(raw)
}

func decodeBoolean(raw []byte) Value {
	switch string(raw) {
	case "Y", "y", "1", "TRUE", "true":
		return boolValue(true)
	case "N", "n", "0", "FALSE", "false":
		return boolValue(false)
	default:
		return absentValue
	}
}

func decodeInt(raw []byte) Value {
	n, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return absentValue
	}
	return int64Value(n)
}

func decodeFloat32(raw []byte) Value {
	f, err := strconv.ParseFloat(string(raw), 32)
	if err != nil {
		return absentValue
	}
	return float32Value(float32(f))
}

func decodeFloat64(raw []byte) Value {
	f, err := strconv.ParseFloat(string(raw), 64)
	if err != nil {
		return absentValue
	}
	return float64Value(f)
}

func decodeString(raw []byte) Value {
	return stringValue(raw)
}
