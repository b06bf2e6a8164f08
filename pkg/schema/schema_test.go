package schema

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/valetmerge/pkg/errors"
)

func TestDefault(t *testing.T) {
	s := Default()
	require.NoError(t, s.Validate())

	assert.Len(t, s.Fields, 28)
	assert.Len(t, s.Drop, 44)
	assert.Equal(t, "ID", s.Fields[0].Name)
	assert.Equal(t, "TOTAL NON COMPETE SUBMITTED by GSP", s.Fields[len(s.Fields)-1].Name)

	// drop list is configured independently of the merge list
	assert.Contains(t, s.Drop, "_TYPE")
	assert.Contains(t, s.Drop, "_BOC_HELD")

	// every call hands out an independent value
	s.Fields[0].Name = "changed"
	assert.Equal(t, "ID", Default().Fields[0].Name)
}

func TestFieldMappingMatches(t *testing.T) {
	f := FieldMapping{Name: "AMOUNT", Suffix: "_AMOUNT", Columns: []string{"LEGACY_AMT"}}

	assert.True(t, f.Matches("AUC_TBILL_AMOUNT"))
	assert.True(t, f.Matches("LEGACY_AMT"))
	assert.False(t, f.Matches("AUC_TBILL_amount"), "suffix match is case-sensitive")
	assert.False(t, f.Matches("AUC_TBILL_AMOUNT_X"))

	onlyColumns := FieldMapping{Name: "LOW YIELD", Columns: []string{"A_LY"}}
	assert.False(t, onlyColumns.Matches("B_LY"))
}

func TestField(t *testing.T) {
	s := Default()
	f, err := s.Field("ISIN")
	require.NoError(t, err)
	assert.Equal(t, "_ISIN", f.Suffix)

	_, err = s.Field("NOPE")
	assert.True(t, errors.IsNotFound(err))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		schema Schema
	}{
		{name: "empty name", schema: Schema{Fields: []FieldMapping{{Suffix: "_X"}}}},
		{name: "nothing to match", schema: Schema{Fields: []FieldMapping{{Name: "X"}}}},
		{name: "duplicate name", schema: Schema{Fields: []FieldMapping{{Name: "X", Suffix: "_A"}, {Name: "X", Suffix: "_B"}}}},
		{name: "empty drop suffix", schema: Schema{Drop: []string{""}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.schema.Validate()
			assert.True(t, errors.IsValidationError(err), "got %v", err)
		})
	}
}

func TestLoadRoundTrip(t *testing.T) {
	data, err := Default().Marshal()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "schema.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), loaded)
}

func TestParse(t *testing.T) {
	s, err := Parse([]byte(`
fields:
  - name: AMOUNT
    columns: [AUC_BOND_AMT, AUC_BOND_R_TOTAL]
  - name: AUCTION DATE
    suffix: _AUCTION_DATE
drop:
  - _AUCTION_DATE
`), "inline")
	require.NoError(t, err)
	assert.Equal(t, []string{"AMOUNT", "AUCTION DATE"}, s.Names())
	assert.Equal(t, []string{"AUC_BOND_AMT", "AUC_BOND_R_TOTAL"}, s.Fields[0].Columns)

	_, err = Parse([]byte("fields: [oops"), "broken")
	var pe *errors.ParseError
	assert.ErrorAs(t, err, &pe)

	_, err = Parse([]byte("fields:\n  - name: X\n"), "invalid")
	assert.True(t, errors.IsValidationError(err))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	var ioErr *errors.IOError
	assert.ErrorAs(t, err, &ioErr)
}
