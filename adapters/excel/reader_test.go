package excel

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"fretedash/internal/errors"
)

type fixtureSheet struct {
	Name  string
	Cells map[string]interface{}
}

// writeWorkbook builds a real xlsx file in a temp dir so the loaders are
// exercised against what excelize actually produces.
func writeWorkbook(t *testing.T, path string, sheets []fixtureSheet) {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for _, s := range sheets {
		_, err := f.NewSheet(s.Name)
		require.NoError(t, err)
		for ref, v := range s.Cells {
			require.NoError(t, f.SetCellValue(s.Name, ref, v))
		}
	}
	require.NoError(t, f.DeleteSheet("Sheet1"))
	require.NoError(t, f.SaveAs(path))
}

func TestOpenWorkbook_MissingFile(t *testing.T) {
	_, err := OpenWorkbook(filepath.Join(t.TempDir(), "missing.xlsx"))
	require.Error(t, err)
	assert.Equal(t, errors.CodeFileNotFound, errors.GetCode(err))
}

func TestOpenWorkbook_UnreadableFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("not a spreadsheet"), 0o644))

	_, err := OpenWorkbook(path)
	require.Error(t, err)
	assert.Equal(t, errors.CodeParseError, errors.GetCode(err))
}

func TestWorkbookReader_Sheets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book.xlsx")
	writeWorkbook(t, path, []fixtureSheet{
		{Name: "FIRST", Cells: map[string]interface{}{"A1": "hello", "B2": 1.5}},
		{Name: "SECOND", Cells: map[string]interface{}{"A1": "x"}},
	})

	r, err := OpenWorkbook(path)
	require.NoError(t, err)
	defer r.Close()

	assert.Equal(t, []string{"FIRST", "SECOND"}, r.SheetNames())
	assert.True(t, r.HasSheet("FIRST"))
	assert.False(t, r.HasSheet("THIRD"))

	sheet, err := r.ReadSheet("FIRST")
	require.NoError(t, err)
	assert.Equal(t, "hello", sheet.Cell(0, 0))
	assert.Equal(t, "1.5", sheet.Cell(1, 1))
	assert.Equal(t, "", sheet.Cell(99, 99), "out-of-bounds cells read as empty")

	missing, err := r.ReadSheetOptional("THIRD")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestParseNumber(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"12.5", 12.5, true},
		{"0", 0, true},
		{" 42 ", 42, true},
		{"1.234,56", 1234.56, true},
		{"R$ 1.000,00", 1000, true},
		{"50%", 50, true},
		{"", 0, false},
		{"abc", 0, false},
		{"TRUCK", 0, false},
	}
	for _, tc := range cases {
		got, ok := parseNumber(tc.in)
		assert.Equal(t, tc.ok, ok, "parseNumber(%q) ok", tc.in)
		if tc.ok {
			assert.InDelta(t, tc.want, got, 0.0001, "parseNumber(%q)", tc.in)
		}
	}
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "consumo_km_l", slug("CONSUMO (KM/L)"))
	assert.Equal(t, "pct_frete", slug("% FRETE"))
	assert.Equal(t, "valor_mensal", slug("  Valor Mensal  "))
}
