package decoder

// applVerIDBeginString maps an ApplVerID (tag 1128) numeric value to the
// BeginString it designates when the transport is FIXT.
var applVerIDBeginString = map[string]string{
	"2": "FIX.4.0",
	"3": "FIX.4.1",
	"4": "FIX.4.2",
	"5": "FIX.4.3",
	"6": "FIX.4.4",
	"7": "FIX.5.0",
	"8": "FIX.5.0",
	"9": "FIX.5.0",
}

// VersionResolver is the code-generated, per-version lookup from a tag
// number to the type-decoder key the effective BeginString uses for it.
// The core treats it as an opaque external function.
type VersionResolver func(tag uint32) (typeName string, ok bool)

// effectiveBeginString implements the tag-1128 override described in the
// version-and-dictionary selection rule: ApplVerID, when present, always
// takes precedence over the literal BeginString field — even when its
// value isn't one of the recognized codes, in which case it passes
// through unchanged rather than falling back to beginString.
func effectiveBeginString(beginString string, applVerID string) string {
	if applVerID == "" {
		return beginString
	}
	if bs, ok := applVerIDBeginString[applVerID]; ok {
		return bs
	}
	return applVerID
}
