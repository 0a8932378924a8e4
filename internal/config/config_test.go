package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bank2ynab/bank2ynab/internal/model"
)

func TestRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Settings.APIOutput = "payload.json"
	cfg.Formats = []FormatSpec{
		{
			Name:            "Test Bank",
			FilenamePattern: "statement",
			InputColumns:    []string{"Date", "Payee", "Memo", "Outflow", "Inflow"},
			DateFormat:      "%d/%m/%Y",
			CDFlag:          []string{"Type", "D", "C"},
			CurrencyDivisor: decimal.NewFromInt(100),
		},
	}

	path := filepath.Join(t.TempDir(), "bank2ynab.yaml")
	require.NoError(t, Save(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "info", got.Settings.LogLevel)
	assert.Equal(t, "payload.json", got.Settings.APIOutput)
	assert.Equal(t, "fixed_", got.Defaults.OutputPrefix)
	assert.Equal(t, 1, got.Defaults.Header())
	require.Len(t, got.Formats, 1)
	f := got.Formats[0]
	assert.Equal(t, "Test Bank", f.Name)
	assert.Equal(t, []string{"Type", "D", "C"}, f.CDFlag)
	assert.True(t, f.CurrencyDivisor.Equal(decimal.NewFromInt(100)))
	assert.Nil(t, f.HeaderRows)
}

func TestDefaults(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "info", cfg.Settings.LogLevel)
	assert.Equal(t, "console", cfg.Settings.LogFormat)
	assert.Equal(t, ".csv", cfg.Defaults.Extension)
	assert.Equal(t, model.CanonicalColumns, cfg.Defaults.OutputColumns)
	assert.False(t, cfg.Defaults.Regex())
	assert.Empty(t, cfg.Formats)
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadRejectsDuplicateNames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bank2ynab.yaml")
	data := "formats:\n  - name: Acme\n  - name: ACME\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate format name")
}

func TestYAMLFormat(t *testing.T) {
	cfg := Default()
	path := filepath.Join(t.TempDir(), "bank2ynab.yaml")
	require.NoError(t, Save(path, cfg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	contents := string(data)

	assert.Contains(t, contents, "log_level: info")
	assert.Contains(t, contents, "output_prefix: fixed_")
	assert.Contains(t, contents, "output_columns: [Date, Payee, Category, Memo, Outflow, Inflow]")
}

func TestMerge(t *testing.T) {
	defaults := Default().Defaults
	f := FormatSpec{
		Name:         "Bank",
		Delimiter:    ";",
		HeaderRows:   intPtr(3),
		InputColumns: []string{"Date", "Payee", "Inflow"},
	}

	got := f.Merge(defaults)

	assert.Equal(t, ";", got.Delimiter)
	assert.Equal(t, 3, got.Header())
	assert.Equal(t, 0, got.Footer())
	assert.Equal(t, ".csv", got.Extension)
	assert.Equal(t, "fixed_", got.OutputPrefix)
	assert.Equal(t, model.CanonicalColumns, got.OutputColumns)
	assert.False(t, got.RemoveSource())

	// merge never mutates the receiver
	assert.Empty(t, f.Extension)
}

func TestFormatConfig(t *testing.T) {
	f := FormatSpec{
		Name:          "Bank",
		InputColumns:  []string{" Date", "Payee ", "Inflow", "Type"},
		OutputColumns: model.CanonicalColumns,
		DateDedupe:    boolPtr(true),
		CDFlag:        []string{"Type", "DR", "CR"},
		AccountID:     "acct-1",
	}

	fc, err := f.FormatConfig()
	require.NoError(t, err)

	assert.Equal(t, []string{"Date", "Payee", "Inflow", "Type"}, fc.InputColumns)
	assert.True(t, fc.DateDedupe)
	assert.False(t, fc.PayeeToMemo)
	require.NotNil(t, fc.CDFlag)
	assert.Equal(t, model.CDFlag{Column: "Type", OutflowMarker: "DR", InflowMarker: "CR"}, *fc.CDFlag)
	assert.Equal(t, "acct-1", fc.AccountID)
}

func TestFormatConfigMalformedCDFlag(t *testing.T) {
	tests := []struct {
		name string
		flag []string
	}{
		{"too short", []string{"Type", "DR"}},
		{"too long", []string{"Type", "DR", "CR", "X"}},
		{"empty column", []string{"", "DR", "CR"}},
		{"empty marker", []string{"Type", " ", "CR"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FormatSpec{Name: "Bank", CDFlag: tt.flag}.FormatConfig()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "cd_flag")
		})
	}
}

func TestSeparator(t *testing.T) {
	tests := []struct {
		delim string
		want  rune
		ok    bool
	}{
		{"", ',', true},
		{",", ',', true},
		{";", ';', true},
		{`\t`, '\t', true},
		{"tab", '\t', true},
		{"|", '|', true},
		{";;", 0, false},
	}

	for _, tt := range tests {
		got, err := FormatSpec{Delimiter: tt.delim}.Separator()
		if !tt.ok {
			assert.Error(t, err, tt.delim)
			continue
		}
		require.NoError(t, err, tt.delim)
		assert.Equal(t, tt.want, got, tt.delim)
	}
}
