package formats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bank2ynab/bank2ynab/internal/config"
	"github.com/bank2ynab/bank2ynab/internal/model"
	"github.com/bank2ynab/bank2ynab/internal/normalize"
	"github.com/bank2ynab/bank2ynab/internal/schema"
)

func TestNewService(t *testing.T) {
	catalog := DefaultCatalog()
	svc := NewService(catalog, config.Default().Defaults)

	assert.Len(t, svc.All(), len(catalog))
}

func TestGetExists(t *testing.T) {
	svc := NewService(DefaultCatalog(), config.Default().Defaults)

	f, ok := svc.Get("chase checking")
	assert.True(t, ok)
	assert.Equal(t, "Chase Checking", f.Name)

	_, ok = svc.Get("No Such Bank")
	assert.False(t, ok)

	assert.True(t, svc.Exists("  CHASE CHECKING "))
	assert.False(t, svc.Exists("No Such Bank"))
}

func TestDefaultsMerged(t *testing.T) {
	svc := NewService(DefaultCatalog(), config.Default().Defaults)

	f, ok := svc.Get("Chase Checking")
	require.True(t, ok)
	assert.Equal(t, ".csv", f.Extension)
	assert.Equal(t, "fixed_", f.OutputPrefix)
	assert.Equal(t, 1, f.Header())
	assert.Equal(t, model.CanonicalColumns, f.OutputColumns)

	f, ok = svc.Get("Nationwide UK")
	require.True(t, ok)
	assert.Equal(t, 5, f.Header(), "format value wins over the default")
}

func TestNames(t *testing.T) {
	svc := NewService([]config.FormatSpec{{Name: "Zeta"}, {Name: "alpha"}, {Name: "Beta"}}, config.FormatSpec{})

	assert.Equal(t, []string{"Beta", "Zeta", "alpha"}, svc.Names())
}

func TestSelect(t *testing.T) {
	svc := NewService(DefaultCatalog(), config.Default().Defaults)

	all, err := svc.Select(nil)
	require.NoError(t, err)
	assert.Len(t, all, len(DefaultCatalog()))

	some, err := svc.Select([]string{"rabobank nl", "Chase Checking"})
	require.NoError(t, err)
	require.Len(t, some, 2)
	assert.Equal(t, "Rabobank NL", some[0].Name)
	assert.Equal(t, "Chase Checking", some[1].Name)

	_, err = svc.Select([]string{"Chase Checking", "Missing"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown format "Missing"`)
}

// Every built-in format must survive the same structural checks the
// pipeline runs before touching a file.
func TestCatalogIsValid(t *testing.T) {
	svc := NewService(DefaultCatalog(), config.Default().Defaults)

	for _, f := range svc.All() {
		t.Run(f.Name, func(t *testing.T) {
			fc, err := f.FormatConfig()
			require.NoError(t, err)
			require.NoError(t, fc.Validate())
			require.NoError(t, schema.Check(fc))
			_, err = normalize.Layout(fc.DateFormat)
			require.NoError(t, err)
			_, err = f.Separator()
			require.NoError(t, err)
		})
	}
}
