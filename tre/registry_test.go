package tre

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/kpfaulkner/nitf-go/nitfio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testGrammarXML = `<?xml version="1.0"?>
<tres>
  <tre name="TESTAA" longname="Test">
    <field name="COUNT" length="2" type="integer"/>
    <field length="3"/>
    <loop name="ITEMS" counter="COUNT">
      <field name="LEN" length="1" type="integer"/>
      <field name="ITEM" length_var="LEN"/>
    </loop>
    <field name="FLAG" length="1"/>
    <if cond="FLAG=Y">
      <field name="EXTRA" length="4"/>
    </if>
  </tre>
</tres>`

const testGrammarYAML = `
tres:
  - name: TESTAA
    longname: Test
    fields:
      - field: COUNT
        length: 2
        type: integer
      - length: 3
      - loop: ITEMS
        counter: COUNT
        fields:
          - field: LEN
            length: 1
            type: integer
          - field: ITEM
            length_var: LEN
      - field: FLAG
        length: 1
      - if: "FLAG=Y"
        fields:
          - field: EXTRA
            length: 4
`

func TestNewRegistryBundledNames(t *testing.T) {
	reg, err := NewRegistry()
	require.NoError(t, err)

	assert.Equal(t, []string{
		"ACFTB", "AIMIDB", "BLOCKA", "CSEXRA", "ENGRDA", "HISTOA", "ICHIPB",
		"J2KLRA", "MATESA", "NBLOCA", "PIAIMC", "PIAPRD", "RPC00B", "RSMECA",
		"RSMPCA", "STDIDC", "USE00A",
	}, reg.Names())
}

func TestSharedRegistryIsLoadedOnce(t *testing.T) {
	first, err := SharedRegistry()
	require.NoError(t, err)
	second, err := SharedRegistry()
	require.NoError(t, err)

	assert.Same(t, first, second)
	_, ok := first.Lookup("RPC00B")
	assert.True(t, ok)
}

func TestXMLAndYAMLDecodeIdentically(t *testing.T) {
	fromXML := NewEmptyRegistry()
	require.NoError(t, fromXML.Register(strings.NewReader(testGrammarXML)))
	fromYAML := NewEmptyRegistry()
	require.NoError(t, fromYAML.RegisterYAML(strings.NewReader(testGrammarYAML)))

	xmlDef, ok := fromXML.Lookup("TESTAA")
	require.True(t, ok)
	yamlDef, ok := fromYAML.Lookup("TESTAA")
	require.True(t, ok)
	assert.Equal(t, xmlDef, yamlDef)

	body := []byte("02   3abc2deYWXYZ")
	for _, reg := range []*Registry{fromXML, fromYAML} {
		tre, err := NewCodec(reg, true).DecodeTre("TESTAA", body, 0)
		require.NoError(t, err)
		require.False(t, tre.IsRaw())

		items := tre.Entry("ITEMS")
		require.NotNil(t, items)
		require.Len(t, items.Groups, 2)
		assert.Equal(t, "abc", items.Groups[0].Entry("ITEM").Value)
		assert.Equal(t, "de", items.Groups[1].Entry("ITEM").Value)
		extra, ok := tre.Field("EXTRA")
		assert.True(t, ok)
		assert.Equal(t, "WXYZ", extra)
	}
}

func TestRegisterReportsEveryDefect(t *testing.T) {
	doc := `<tres>
  <tre name="BROKEN">
    <field name="A" length_var="LATER"/>
    <field name="LATER" length="2"/>
    <loop name="L" iterations="A+B">
      <field name="X" length="1"/>
    </loop>
    <field name="Y" length="0"/>
    <field name="Z" length="2" type="complex"/>
  </tre>
</tres>`

	reg := NewEmptyRegistry()
	err := reg.Register(strings.NewReader(doc))
	require.Error(t, err)

	var merr *multierror.Error
	require.ErrorAs(t, err, &merr)
	assert.Len(t, merr.Errors, 4)
	assert.ErrorIs(t, err, nitfio.ErrUnresolvedReference)
	assert.ErrorIs(t, err, nitfio.ErrUnsupportedGrammarConstruct)

	_, ok := reg.Lookup("BROKEN")
	assert.False(t, ok, "a failed document registers nothing")
}

func TestRegisterRejectsUnsupportedFormula(t *testing.T) {
	for _, tc := range []struct {
		name       string
		iterations string
		expectErr  bool
	}{
		{name: "triangular", iterations: "(N+1)*(N)/2"},
		{name: "triangular with spaces", iterations: "(N + 1) * (N) / 2"},
		{name: "product", iterations: "N*M"},
		{name: "decrement", iterations: "N-1"},
		{name: "literal", iterations: "7"},
		{name: "field", iterations: "M"},
		{name: "sum", iterations: "N+M", expectErr: true},
		{name: "mixed triangular", iterations: "(N+1)*(M)/2", expectErr: true},
		{name: "decrement by two", iterations: "N-2", expectErr: true},
		{name: "division", iterations: "N/2", expectErr: true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			doc := `<tres><tre name="F"><field name="N" length="1"/><field name="M" length="1"/>` +
				`<loop iterations="` + tc.iterations + `"><field name="V" length="1"/></loop></tre></tres>`
			err := NewEmptyRegistry().Register(strings.NewReader(doc))
			if tc.expectErr {
				assert.ErrorIs(t, err, nitfio.ErrUnsupportedGrammarConstruct)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRegisterOverridesBundledDefinition(t *testing.T) {
	reg, err := NewRegistry()
	require.NoError(t, err)

	doc := `<tres><tre name="USE00A"><field name="ALL" length="107"/></tre></tres>`
	require.NoError(t, reg.Register(strings.NewReader(doc)))

	def, ok := reg.Lookup("USE00A")
	require.True(t, ok)
	require.Len(t, def.Nodes, 1)
	assert.Equal(t, "ALL", def.Nodes[0].(*Field).Name)
}

func TestRegisterFile(t *testing.T) {
	dir := t.TempDir()
	xmlPath := filepath.Join(dir, "extra.xml")
	yamlPath := filepath.Join(dir, "extra.yml")
	require.NoError(t, os.WriteFile(xmlPath, []byte(testGrammarXML), 0o644))
	require.NoError(t, os.WriteFile(yamlPath, []byte(strings.Replace(testGrammarYAML, "TESTAA", "TESTBB", 1)), 0o644))

	reg := NewEmptyRegistry()
	require.NoError(t, reg.RegisterFile(xmlPath))
	require.NoError(t, reg.RegisterFile(yamlPath))
	assert.Equal(t, []string{"TESTAA", "TESTBB"}, reg.Names())

	assert.Error(t, reg.RegisterFile(filepath.Join(dir, "missing.xml")))
}

func TestMalformedDocuments(t *testing.T) {
	for _, tc := range []struct {
		name string
		load func(*Registry) error
	}{
		{
			name: "unclosed xml",
			load: func(r *Registry) error { return r.Register(bytes.NewBufferString(`<tres><tre name="A">`)) },
		},
		{
			name: "field outside tre",
			load: func(r *Registry) error { return r.Register(bytes.NewBufferString(`<tres><field name="A" length="1"/></tres>`)) },
		},
		{
			name: "unknown yaml key",
			load: func(r *Registry) error {
				return r.RegisterYAML(bytes.NewBufferString("tres:\n  - name: A\n    fields:\n      - field: B\n        width: 2\n"))
			},
		},
		{
			name: "bad condition",
			load: func(r *Registry) error {
				return r.Register(bytes.NewBufferString(`<tres><tre name="A"><field name="B" length="1"/><if cond="B"><field name="C" length="1"/></if></tre></tres>`))
			},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, tc.load(NewEmptyRegistry()), nitfio.ErrUnsupportedGrammarConstruct)
		})
	}
}
