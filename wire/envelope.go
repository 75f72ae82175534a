package wire

import (
	"bytes"
	"fmt"
)

// sohTrailerPrefix is the byte sequence immediately preceding the CheckSum
// field: SOH "10=".
var sohTrailerPrefix = []byte{SOH, '1', '0', '='}

// ValidateBodyLength checks that a normalized, fully-framed message's
// measured body length (the span from just after "9=<N>SOH" up to and
// including the SOH preceding "10=") equals the declared value N.
func ValidateBodyLength(normalized []byte) bool {
	beginFieldEnd := indexByte(normalized, SOH, 0)
	if beginFieldEnd < 0 {
		return false
	}
	bodyFieldEnd := indexByte(normalized, SOH, beginFieldEnd+1)
	if bodyFieldEnd < 0 {
		return false
	}
	if !bytes.HasPrefix(normalized[beginFieldEnd+1:], []byte("9=")) {
		return false
	}
	eq := indexByte(normalized, '=', beginFieldEnd+1)
	if eq < 0 || eq > bodyFieldEnd {
		return false
	}

	declared, ok := parseUint(normalized[eq+1 : bodyFieldEnd])
	if !ok {
		return false
	}

	trailer := lastIndex(normalized, sohTrailerPrefix)
	if trailer < 0 || trailer < bodyFieldEnd {
		return false
	}

	actual := trailer - bodyFieldEnd
	return uint64(actual) == declared
}

// ValidateChecksum checks that the trailing "10=ddd" field matches the
// 3-digit zero-padded decimal of the byte sum (mod 256) of everything up to
// and including the SOH preceding "10=".
func ValidateChecksum(normalized []byte) bool {
	trailer := lastIndex(normalized, sohTrailerPrefix)
	if trailer < 0 || trailer+8 != len(normalized) {
		return false
	}
	if normalized[trailer+7] != SOH {
		return false
	}

	digits := normalized[trailer+4 : trailer+7]
	expected := 0
	for _, c := range digits {
		if c < '0' || c > '9' {
			return false
		}
		expected = expected*10 + int(c-'0')
	}

	actual := ComputeChecksum(normalized[:trailer+1])
	return actual == expected
}

// ComputeChecksum returns the sum (mod 256) of every byte in b.
func ComputeChecksum(b []byte) int {
	sum := 0
	for _, c := range b {
		sum = (sum + int(c)) % 256
	}
	return sum
}

// FormatChecksum renders a checksum as a 3-digit zero-padded decimal string.
func FormatChecksum(checksum int) string {
	return fmt.Sprintf("%03d", checksum%256)
}

func lastIndex(b, sub []byte) int {
	if len(sub) == 0 || len(sub) > len(b) {
		return -1
	}
	for i := len(b) - len(sub); i >= 0; i-- {
		if bytes.Equal(b[i:i+len(sub)], sub) {
			return i
		}
	}
	return -1
}

func parseUint(b []byte) (uint64, bool) {
	if len(b) == 0 {
		return 0, false
	}
	var v uint64
	for _, c := range b {
		if c < '0' || c > '9' {
			return 0, false
		}
		v = v*10 + uint64(c-'0')
	}
	return v, true
}
