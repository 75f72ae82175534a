package wire

// Normalize replaces every pipe character with SOH. SOH-bearing input is
// returned unchanged (by value; callers that need to avoid an allocation on
// the already-normalized path can compare length/content themselves).
//
// Normalize is idempotent: Normalize(Normalize(x)) == Normalize(x).
func Normalize(raw []byte) []byte {
	out := make([]byte, len(raw))
	for i, b := range raw {
		if b == Pipe {
			out[i] = SOH
		} else {
			out[i] = b
		}
	}
	return out
}
