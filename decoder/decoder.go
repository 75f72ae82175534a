// Package decoder selects a dictionary and a per-version typed-decoder
// map from a parsed message, emits decoded views over the raw bytes, and
// runs structural validation over members, components, and groups.
package decoder

import (
	"strings"
	"time"

	"github.com/kingkybel/FixDecoder/dictionary"
	"github.com/kingkybel/FixDecoder/pkg/fixlog"
	"github.com/kingkybel/FixDecoder/pkg/fixmetrics"
	"github.com/kingkybel/FixDecoder/wire"
)

const (
	tagBeginString = uint32(8)
	tagMsgType     = uint32(35)
	tagApplVerID   = uint32(1128)
)

// Decoder is a single-owner decoding surface: one Decoder combines a
// DictionarySet with a typed-decoder table and an optional set of
// per-version resolvers. Concurrent calls on the same Decoder are not
// supported.
type Decoder struct {
	dictionaries *dictionary.DictionarySet
	typeDecoders map[string]TypeDecoder
	resolvers    map[string]VersionResolver
	log          fixlog.Logger
}

// New returns a Decoder with an empty dictionary set and the built-in
// type decoders. log may be nil to discard logging.
func New(log fixlog.Logger) *Decoder {
	if log == nil {
		log = fixlog.Nop()
	}
	return &Decoder{
		dictionaries: dictionary.NewDictionarySet(),
		typeDecoders: newTypeDecoderTable(),
		resolvers:    make(map[string]VersionResolver),
		log:          log.Named("decoder"),
	}
}

// RegisterTypeDecoder installs or overrides the decoder for typeName on
// this Decoder instance. typeName is matched case-insensitively.
func (d *Decoder) RegisterTypeDecoder(typeName string, decode TypeDecoder) {
	d.typeDecoders[strings.ToUpper(typeName)] = decode
}

// RegisterVersionResolver installs the tag->type-decoder-key resolver for
// beginString. Without a resolver, tags on that BeginString decode by the
// dictionary's declared field type, or as STRING when no dictionary field
// names one.
func (d *Decoder) RegisterVersionResolver(beginString string, resolver VersionResolver) {
	d.resolvers[beginString] = resolver
}

// LoadDictionaries loads every *.xml file in dir into this Decoder's
// DictionarySet, delegating to the Dictionary Model.
func (d *Decoder) LoadDictionaries(dir string) error {
	return d.dictionaries.LoadDirectory(dir, d.log)
}

// RegisteredTypeNames returns the upper-cased names of every type decoder
// currently installed on this Decoder, builtin and caller-registered
// alike. Useful for tests and for callers wiring a generated per-version
// resolver that needs to know which decoder keys actually resolve.
func (d *Decoder) RegisteredTypeNames() []string {
	names := make([]string, 0, len(d.typeDecoders))
	for name := range d.typeDecoders {
		names = append(names, name)
	}
	return names
}

// decodedHeader is the version/dictionary selection result shared by
// Decode and DecodeObject.
type decodedHeader struct {
	beginString string
	msgType     string
	dict        *dictionary.Dictionary
	hasDict     bool
	resolver    VersionResolver
	hasResolver bool
}

func (d *Decoder) selectHeader(fields []wire.Field) decodedHeader {
	var beginString, applVerID, msgType string
	for _, f := range fields {
		switch f.Tag {
		case tagBeginString:
			if beginString == "" {
				beginString = string(f.Value)
			}
		case tagApplVerID:
			if applVerID == "" {
				applVerID = string(f.Value)
			}
		case tagMsgType:
			if msgType == "" {
				msgType = string(f.Value)
			}
		}
	}

	effective := effectiveBeginString(beginString, applVerID)
	dict, hasDict := d.dictionaries.FindByBeginString(effective)
	resolver, hasResolver := d.resolvers[effective]

	return decodedHeader{
		beginString: beginString,
		msgType:     msgType,
		dict:        dict,
		hasDict:     hasDict,
		resolver:    resolver,
		hasResolver: hasResolver,
	}
}

// typedDecode resolves a field's type name through the per-version
// resolver first, falling back to the dictionary's declared type, and
// decodes raw accordingly. typeName is empty when neither source names
// one; decodeByTypeName still resolves that to STRING.
func (d *Decoder) typedDecode(h decodedHeader, tag uint32, raw []byte) (name, typeName string, value Value) {
	if h.hasDict {
		if fd, ok := h.dict.FieldByNumber(tag); ok {
			name = fd.Name
			typeName = fd.Type
		}
	}
	if h.hasResolver {
		if key, ok := h.resolver(tag); ok {
			typeName = key
		}
	}
	value = decodeByTypeName(d.typeDecoders, typeName, raw)
	return name, typeName, value
}

// Decode normalizes, tokenizes, and builds the ordered field-by-field
// view of raw. Decoding never fails outright: a message with no
// recognizable tags yields an empty field list with empty BeginString
// and MsgType.
func (d *Decoder) Decode(raw []byte) *DecodedMessage {
	start := time.Now()
	defer func() { fixmetrics.DecodeLatency.Observe(time.Since(start).Seconds()) }()

	normalized := wire.Normalize(raw)
	fields, tokenErr := wire.Tokenize(normalized, false)
	if tokenErr != nil {
		fixmetrics.DecodeErrors.WithLabelValues("tokenize").Inc()
	}

	h := d.selectHeader(fields)

	msg := &DecodedMessage{
		normalized:  normalized,
		BeginString: h.beginString,
		MsgType:     h.msgType,
	}

	for _, f := range fields {
		name, typeName, value := d.typedDecode(h, f.Tag, f.Value)
		msg.Fields = append(msg.Fields, DecodedField{
			Tag:      f.Tag,
			Name:     name,
			TypeName: typeName,
			RawValue: f.Value,
			Value:    value,
		})
	}

	d.validate(h, fields, &msg.StructurallyValid, &msg.ValidationErrors)

	if msg.MsgType != "" {
		fixmetrics.MessagesDecoded.WithLabelValues(msg.MsgType).Inc()
	}
	return msg
}

// DecodeObject runs the same pipeline as Decode but collapses the fields
// into a root map keyed by tag. On a duplicate tag, the first occurrence
// wins.
func (d *Decoder) DecodeObject(raw []byte) *DecodedObject {
	start := time.Now()
	defer func() { fixmetrics.DecodeLatency.Observe(time.Since(start).Seconds()) }()

	normalized := wire.Normalize(raw)
	fields, tokenErr := wire.Tokenize(normalized, false)
	if tokenErr != nil {
		fixmetrics.DecodeErrors.WithLabelValues("tokenize").Inc()
	}

	h := d.selectHeader(fields)

	obj := &DecodedObject{
		normalized:  normalized,
		BeginString: h.beginString,
		MsgType:     h.msgType,
		Root:        make(map[uint32]*DecodedObjectNode),
	}

	for _, f := range fields {
		if _, exists := obj.Root[f.Tag]; exists {
			continue
		}
		_, _, value := d.typedDecode(h, f.Tag, f.Value)
		obj.Root[f.Tag] = &DecodedObjectNode{
			Tag:      f.Tag,
			Value:    value,
			Children: make(map[uint32]*DecodedObjectNode),
		}
	}

	d.validate(h, fields, &obj.StructurallyValid, &obj.ValidationErrors)

	if obj.MsgType != "" {
		fixmetrics.MessagesDecoded.WithLabelValues(obj.MsgType).Inc()
	}
	return obj
}

func (d *Decoder) validate(h decodedHeader, fields []wire.Field, validOut *bool, errsOut *[]string) {
	if !h.hasDict || h.msgType == "" {
		*validOut = true
		return
	}
	msgDef, ok := h.dict.MessageByType(h.msgType)
	if !ok {
		*validOut = true
		return
	}
	valid, errs := validateStructure(fields, h.dict, msgDef)
	*validOut = valid
	*errsOut = errs
}
