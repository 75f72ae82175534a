package session

import (
	"strconv"

	"github.com/kingkybel/FixDecoder/wire"
)

// KeyExtractor locates one tag's value in a raw frame without requiring
// a full tokenize pass, accepting either '|' or SOH as the delimiter.
type KeyExtractor func(raw []byte) string

// TagKeyExtractor builds a KeyExtractor for the given tag, scanning
// tokens delimited by '|' or SOH — the Go byte-scan equivalent of the
// original's delimiter-driven tag extractor template.
func TagKeyExtractor(tag uint32) KeyExtractor {
	prefix := []byte(tagPrefix(tag))
	return func(raw []byte) string {
		start := 0
		for start < len(raw) {
			end := start
			for end < len(raw) && raw[end] != '|' && raw[end] != wire.SOH {
				end++
			}
			token := raw[start:end]
			if len(token) > len(prefix) && string(token[:len(prefix)]) == string(prefix) {
				return string(token[len(prefix):])
			}
			start = end + 1
		}
		return ""
	}
}

func tagPrefix(tag uint32) string {
	return strconv.FormatUint(uint64(tag), 10) + "="
}

// DefaultKeyExtractor extracts MsgType (tag 35), the same default the
// original's fix_msg_key alias uses.
var DefaultKeyExtractor = TagKeyExtractor(35)

// MessageGenerator is a small lookup from a raw frame's extracted key to
// a caller-supplied builder of a domain object T. It is the optional
// message-generator collaborator: the core never constructs T itself.
type MessageGenerator[T any] struct {
	extractor KeyExtractor
	builders  map[string]func(raw []byte) T
}

// NewMessageGenerator builds an empty generator. A nil extractor defaults
// to DefaultKeyExtractor (tag 35 / MsgType).
func NewMessageGenerator[T any](extractor KeyExtractor) *MessageGenerator[T] {
	if extractor == nil {
		extractor = DefaultKeyExtractor
	}
	return &MessageGenerator[T]{
		extractor: extractor,
		builders:  make(map[string]func(raw []byte) T),
	}
}

// Register installs the builder invoked when a raw frame's extracted key
// equals key.
func (g *MessageGenerator[T]) Register(key string, builder func(raw []byte) T) {
	g.builders[key] = builder
}

// Build extracts raw's key and invokes the matching builder. ok is false
// when no builder is registered for the extracted key.
func (g *MessageGenerator[T]) Build(raw []byte) (T, bool) {
	key := g.extractor(raw)
	builder, ok := g.builders[key]
	if !ok {
		var zero T
		return zero, false
	}
	return builder(raw), true
}
