package decoder

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kingkybel/FixDecoder/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func soh(parts ...string) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, []byte(p)...)
		out = append(out, wire.SOH)
	}
	return out
}

func TestDecodeWithNoDictionaryYieldsUntypedFields(t *testing.T) {
	d := New(nil)
	msg := d.Decode(soh("8=FIX.4.2", "35=T", "55=IBM"))

	assert.Equal(t, "FIX.4.2", msg.BeginString)
	assert.Equal(t, "T", msg.MsgType)
	require.Len(t, msg.Fields, 3)
	assert.Equal(t, KindString, msg.Fields[2].Value.Kind)
	assert.Equal(t, "IBM", string(msg.Fields[2].Value.Str))
	assert.True(t, msg.StructurallyValid)
}

func TestDecodeEmptyInputYieldsEmptyFields(t *testing.T) {
	d := New(nil)
	msg := d.Decode([]byte{})
	assert.Empty(t, msg.Fields)
	assert.Equal(t, "", msg.BeginString)
	assert.Equal(t, "", msg.MsgType)
}

func TestDecodeObjectChainedLookupFallback(t *testing.T) {
	d := New(nil)
	obj := d.DecodeObject(soh("8=FIX.4.2", "35=T", "55=IBM"))

	root35, ok := obj.Lookup(35)
	require.True(t, ok)

	node55, ok := obj.LookupFrom(root35, 55)
	require.True(t, ok)
	assert.Equal(t, "IBM", string(node55.Value.Str))
}

func TestDecodeObjectFirstOccurrenceWins(t *testing.T) {
	d := New(nil)
	obj := d.DecodeObject(soh("8=FIX.4.2", "35=T", "55=IBM", "55=MSFT"))

	node, ok := obj.Lookup(55)
	require.True(t, ok)
	assert.Equal(t, "IBM", string(node.Value.Str))
}

const partyIDsDictionary = `<fix type="FIX" major="4" minor="2">
  <fields>
    <field number="35" name="MsgType" type="STRING"/>
    <field number="55" name="Symbol" type="STRING"/>
    <field number="453" name="NoPartyIDs" type="NUMINGROUP"/>
    <field number="448" name="PartyID" type="STRING"/>
    <field number="447" name="PartyIDSource" type="CHAR"/>
    <field number="452" name="PartyRole" type="INT"/>
  </fields>
  <messages>
    <message name="NewOrderSingle" msgtype="D" msgcat="app">
      <field name="Symbol" required="Y"/>
      <group name="NoPartyIDs" required="N">
        <field name="PartyID" required="Y"/>
        <field name="PartyIDSource" required="Y"/>
        <field name="PartyRole" required="Y"/>
      </group>
    </message>
  </messages>
</fix>`

func loadPartyIDsDecoder(t *testing.T) *Decoder {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "FIX42.xml"), []byte(partyIDsDictionary), 0o644))

	d := New(nil)
	require.NoError(t, d.LoadDictionaries(dir))
	return d
}

func TestStructuralValidationMissingRequiredFieldInGroup(t *testing.T) {
	d := loadPartyIDsDecoder(t)

	msg := d.Decode(soh("8=FIX.4.2", "35=D", "55=IBM", "453=2", "448=P1", "447=D", "448=P2", "447=D"))

	assert.False(t, msg.StructurallyValid)
	found := false
	for _, e := range msg.ValidationErrors {
		if e == "Missing required field 'PartyRole'" {
			found = true
		}
	}
	assert.True(t, found, "expected a missing-PartyRole validation error, got %v", msg.ValidationErrors)
}

func TestStructuralValidationGroupCountZeroAccepted(t *testing.T) {
	d := loadPartyIDsDecoder(t)
	msg := d.Decode(soh("8=FIX.4.2", "35=D", "55=IBM", "453=0"))
	assert.True(t, msg.StructurallyValid)
}

func TestStructuralValidationGroupCountMismatch(t *testing.T) {
	d := loadPartyIDsDecoder(t)
	msg := d.Decode(soh("8=FIX.4.2", "35=D", "55=IBM", "453=3", "448=P1", "447=D", "452=1"))

	assert.False(t, msg.StructurallyValid)
	assert.Contains(t, msg.ValidationErrors, "Group 'NoPartyIDs' count mismatch: declared 3, actual 1")
}

func TestStructuralValidationInvalidGroupCount(t *testing.T) {
	d := loadPartyIDsDecoder(t)
	msg := d.Decode(soh("8=FIX.4.2", "35=D", "55=IBM", "453=x"))

	assert.False(t, msg.StructurallyValid)
	assert.Contains(t, msg.ValidationErrors, "Invalid group-count value for 'NoPartyIDs'")
}

func TestStructuralValidationUnknownMsgTypeStaysValid(t *testing.T) {
	d := loadPartyIDsDecoder(t)
	msg := d.Decode(soh("8=FIX.4.2", "35=Z", "55=IBM"))
	assert.True(t, msg.StructurallyValid)
}

const requiredGroupDictionary = `<fix type="FIX" major="4" minor="2">
  <fields>
    <field number="35" name="MsgType" type="STRING"/>
    <field number="55" name="Symbol" type="STRING"/>
    <field number="453" name="NoPartyIDs" type="NUMINGROUP"/>
    <field number="448" name="PartyID" type="STRING"/>
  </fields>
  <messages>
    <message name="NewOrderSingle" msgtype="D" msgcat="app">
      <field name="Symbol" required="Y"/>
      <group name="NoPartyIDs" required="Y">
        <field name="PartyID" required="Y"/>
      </group>
    </message>
  </messages>
</fix>`

func TestStructuralValidationMissingGroupCountField(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "FIX42.xml"), []byte(requiredGroupDictionary), 0o644))

	d := New(nil)
	require.NoError(t, d.LoadDictionaries(dir))

	msg := d.Decode(soh("8=FIX.4.2", "35=D", "55=IBM"))
	assert.False(t, msg.StructurallyValid)
	assert.Contains(t, msg.ValidationErrors, "Missing required group-count field 'NoPartyIDs'")
}

const unresolvableComponentDictionary = `<fix type="FIX" major="4" minor="2">
  <fields>
    <field number="35" name="MsgType" type="STRING"/>
    <field number="55" name="Symbol" type="STRING"/>
  </fields>
  <messages>
    <message name="NewOrderSingle" msgtype="D" msgcat="app">
      <field name="Symbol" required="Y"/>
      <component name="Missing" required="Y"/>
    </message>
  </messages>
</fix>`

func TestStructuralValidationUnresolvableRequiredComponent(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "FIX42.xml"), []byte(unresolvableComponentDictionary), 0o644))

	d := New(nil)
	require.NoError(t, d.LoadDictionaries(dir))

	msg := d.Decode(soh("8=FIX.4.2", "35=D", "55=IBM"))
	assert.False(t, msg.StructurallyValid)
	assert.Contains(t, msg.ValidationErrors, "Missing required component 'Missing'")
}

func TestRegisterTypeDecoderOverride(t *testing.T) {
	d := New(nil)
	d.RegisterTypeDecoder("string", func(raw []byte) Value {
		return stringValue([]byte("overridden"))
	})

	d.RegisterVersionResolver("FIX.4.2", func(tag uint32) (string, bool) {
		if tag == 55 {
			return "string", true
		}
		return "", false
	})

	msg := d.Decode(soh("8=FIX.4.2", "35=T", "55=IBM"))
	assert.Equal(t, "overridden", string(msg.Fields[2].Value.Str))
}

func TestRegisteredTypeNamesIncludesBuiltinsAndOverrides(t *testing.T) {
	d := New(nil)
	names := d.RegisteredTypeNames()
	assert.Contains(t, names, "STRING")
	assert.Contains(t, names, "INT")

	d.RegisterTypeDecoder("custom", func(raw []byte) Value { return stringValue(raw) })
	assert.Contains(t, d.RegisteredTypeNames(), "CUSTOM")
}

func TestApplVerIDSelectsEffectiveBeginString(t *testing.T) {
	d := loadPartyIDsDecoder(t)
	msg := d.Decode(soh("8=FIXT.1.1", "1128=4", "35=D", "55=IBM", "453=0"))
	assert.True(t, msg.StructurallyValid)
}

func TestEffectiveBeginStringMapsRecognizedApplVerID(t *testing.T) {
	assert.Equal(t, "FIX.4.2", effectiveBeginString("FIXT.1.1", "4"))
}

func TestEffectiveBeginStringPassesThroughUnrecognizedApplVerID(t *testing.T) {
	assert.Equal(t, "CUSTOM.1.0", effectiveBeginString("FIXT.1.1", "CUSTOM.1.0"))
}

func TestEffectiveBeginStringFallsBackToTag8WhenApplVerIDAbsent(t *testing.T) {
	assert.Equal(t, "FIX.4.2", effectiveBeginString("FIX.4.2", ""))
}
