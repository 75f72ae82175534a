package dictionary

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDictionary = `<fix type="FIX" major="4" minor="4">
  <fields>
    <field number="35" name="MsgType" type="STRING"/>
    <field number="54" name="Side" type="CHAR">
      <value enum="1" description="BUY"/>
      <value enum="2" description="SELL"/>
    </field>
    <field number="55" name="Symbol" type="STRING"/>
    <field number="453" name="NoPartyIDs" type="NUMINGROUP"/>
    <field number="448" name="PartyID" type="STRING"/>
  </fields>
  <components>
    <component name="Instrument">
      <field name="Symbol" required="Y"/>
    </component>
  </components>
  <messages>
    <message name="NewOrderSingle" msgtype="D" msgcat="app">
      <field name="Side" required="Y"/>
      <component name="Instrument" required="Y"/>
      <group name="NoPartyIDs" required="N">
        <field name="PartyID" required="Y"/>
      </group>
    </message>
  </messages>
</fix>`

func writeSample(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(sampleDictionary), 0o644))
	return path
}

func TestLoadFileParsesFieldsMessagesAndComponents(t *testing.T) {
	dir := t.TempDir()
	path := writeSample(t, dir, "FIX44.xml")

	d, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "FIX.4.4", d.BeginString())
	assert.Equal(t, "FIX", d.Type())

	side, ok := d.FieldByNumber(54)
	require.True(t, ok)
	assert.Equal(t, "Side", side.Name)
	require.Len(t, side.Enums, 2)
	assert.Equal(t, "BUY", side.Enums[0].Description)

	symbol, ok := d.FieldByName("Symbol")
	require.True(t, ok)
	assert.Equal(t, uint32(55), symbol.Number)

	msg, ok := d.MessageByType("D")
	require.True(t, ok)
	require.Len(t, msg.Members, 3)
	assert.Equal(t, KindField, msg.Members[0].Kind)
	assert.Equal(t, "Side", msg.Members[0].Name)
	assert.Equal(t, KindComponent, msg.Members[1].Kind)
	assert.Equal(t, "Instrument", msg.Members[1].Name)
	assert.Equal(t, KindGroup, msg.Members[2].Kind)
	assert.Equal(t, "NoPartyIDs", msg.Members[2].Name)
	require.Len(t, msg.Members[2].Children, 1)
	assert.Equal(t, "PartyID", msg.Members[2].Children[0].Name)

	component, ok := d.ComponentByName("Instrument")
	require.True(t, ok)
	require.Len(t, component, 1)
	assert.True(t, component[0].Required)
}

func TestLoadFileRejectsMissingRoot(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.xml")
	require.NoError(t, os.WriteFile(path, []byte("<notfix></notfix>"), 0o644))

	_, err := LoadFile(path)
	assert.Error(t, err)
}

func TestLoadFileRejectsMissingFile(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.xml"))
	assert.Error(t, err)
}

func TestLoadDirectoryIgnoresFailuresWhenSomeFilesLoad(t *testing.T) {
	dir := t.TempDir()
	writeSample(t, dir, "FIX44.xml")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.xml"), []byte("<notfix/>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ignored.txt"), []byte("not xml"), 0o644))

	set := NewDictionarySet()
	err := set.LoadDirectory(dir, nil)
	require.NoError(t, err)

	d, ok := set.FindByBeginString("FIX.4.4")
	require.True(t, ok)
	assert.Equal(t, "FIX", d.Type())
}

func TestLoadDirectoryFailsWhenNothingLoads(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.xml"), []byte("<notfix/>"), 0o644))

	set := NewDictionarySet()
	err := set.LoadDirectory(dir, nil)
	assert.Error(t, err)
	_, ok := set.FindByBeginString("FIX.4.4")
	assert.False(t, ok)
}
