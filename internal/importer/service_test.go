package importer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bank2ynab/bank2ynab/internal/config"
	"github.com/bank2ynab/bank2ynab/internal/formats"
	"github.com/bank2ynab/bank2ynab/internal/pipeline"
	"github.com/bank2ynab/bank2ynab/internal/runlog"
	"github.com/bank2ynab/bank2ynab/internal/validate"
)

var fixedNow = time.Date(2025, 2, 1, 8, 0, 0, 0, time.UTC)

func chaseSpec(t *testing.T, dir string) config.FormatSpec {
	t.Helper()
	svc := formats.NewService(formats.DefaultCatalog(), config.Default().Defaults)
	spec, ok := svc.Get("Chase Checking")
	require.True(t, ok)
	spec.SourcePath = dir
	return spec
}

func copyChase(t *testing.T, dir, name string) string {
	t.Helper()
	data, err := os.ReadFile("testdata/chase_checking.csv")
	require.NoError(t, err)
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func newTestService(buf *bytes.Buffer, opts Options) *Service {
	s := NewService(zerolog.New(buf), nil, opts)
	s.now = func() time.Time { return fixedNow }
	return s
}

func TestRunFormat_Chase(t *testing.T) {
	dir := t.TempDir()
	src := copyChase(t, dir, "Chase1234_Activity.csv")
	logPath := filepath.Join(dir, "run.csv")

	var logs bytes.Buffer
	svc := newTestService(&logs, Options{RunLog: logPath})
	res := svc.RunFormat(chaseSpec(t, dir))

	require.NoError(t, res.Err)
	require.Len(t, res.Files, 1)
	file := res.Files[0]
	require.NoError(t, file.Err)
	assert.Equal(t, src, file.Source)
	assert.Equal(t, filepath.Join(dir, "fixed_Chase1234_Activity.csv"), file.Output)
	assert.Equal(t, 6, file.Result.Summary.Total)
	assert.Equal(t, 5, file.Result.Summary.Valid)
	assert.Equal(t, 1, file.Result.Summary.Dropped[validate.ReasonNoMoney])
	assert.False(t, res.Structural())

	f, err := os.Open(file.Output)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 6)
	assert.Equal(t, []string{"Date", "Payee", "Category", "Memo", "Outflow", "Inflow"}, rows[0])
	assert.Equal(t, []string{"2025-01-03", "GITHUB *PRO SUBSCRIPTION", "", "", "4.00", ""}, rows[1])
	assert.Equal(t, []string{"2025-01-10", "ACME CONSULTING, INVOICE 1042", "", "", "", "3500.00"}, rows[4])

	recs := res.Records()
	require.Len(t, recs, 5)
	assert.Equal(t, "YNAB:-4000:2025-01-03:1", recs[0].ImportID)
	assert.Equal(t, "YNAB:-23170:2025-01-06:1", recs[1].ImportID)
	assert.Equal(t, "YNAB:-23170:2025-01-06:2", recs[2].ImportID)
	assert.Equal(t, int64(3500000), recs[3].Amount)

	_, err = os.Stat(src)
	assert.NoError(t, err, "source kept by default")

	entries, err := runlog.Read(logPath)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, svc.RunID(), entries[0].RunID)
	assert.Equal(t, fixedNow, entries[0].Timestamp)
	assert.Equal(t, runlog.StatusOK, entries[0].Status)
	assert.Equal(t, 6, entries[0].Parsed)
	assert.Equal(t, 1, entries[0].Dropped)

	assert.Contains(t, logs.String(), `"message":"file converted"`)
	assert.Contains(t, logs.String(), `"dropped":{"no-money":1}`)
}

func TestRunFormat_SecondRunSkipsOutputAndNumbers(t *testing.T) {
	dir := t.TempDir()
	copyChase(t, dir, "Chase1234.csv")
	spec := chaseSpec(t, dir)

	var logs bytes.Buffer
	first := newTestService(&logs, Options{}).RunFormat(spec)
	second := newTestService(&logs, Options{}).RunFormat(spec)

	require.Len(t, first.Files, 1)
	require.Len(t, second.Files, 1, "previous output is not picked up as a source")
	assert.Equal(t, filepath.Join(dir, "fixed_Chase1234_1.csv"), second.Files[0].Output)
	assert.Equal(t, first.Records(), second.Records(), "import ids are stable across runs")
}

func TestRunFormat_DeleteSource(t *testing.T) {
	dir := t.TempDir()
	src := copyChase(t, dir, "Chase1234.csv")
	spec := chaseSpec(t, dir)
	yes := true
	spec.DeleteSource = &yes

	res := newTestService(&bytes.Buffer{}, Options{}).RunFormat(spec)
	require.Len(t, res.Files, 1)
	require.NoError(t, res.Files[0].Err)

	_, err := os.Stat(src)
	assert.True(t, os.IsNotExist(err))
}

func TestRunFormat_DryRun(t *testing.T) {
	dir := t.TempDir()
	src := copyChase(t, dir, "Chase1234.csv")
	spec := chaseSpec(t, dir)
	yes := true
	spec.DeleteSource = &yes
	logPath := filepath.Join(dir, "run.csv")

	res := newTestService(&bytes.Buffer{}, Options{DryRun: true, RunLog: logPath}).RunFormat(spec)
	require.Len(t, res.Files, 1)
	assert.Len(t, res.Records(), 5)

	_, err := os.Stat(res.Files[0].Output)
	assert.True(t, os.IsNotExist(err), "nothing written")
	_, err = os.Stat(src)
	assert.NoError(t, err, "nothing deleted")
	_, err = os.Stat(logPath)
	assert.True(t, os.IsNotExist(err), "no run log")
}

func TestRunFormat_NoFiles(t *testing.T) {
	var logs bytes.Buffer
	res := newTestService(&logs, Options{}).RunFormat(chaseSpec(t, t.TempDir()))

	assert.NoError(t, res.Err)
	assert.Empty(t, res.Files)
	assert.Contains(t, logs.String(), "no matching files")
}

func TestRunFormat_EmptyResult(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Chase_empty.csv")
	require.NoError(t, os.WriteFile(path, []byte("Details,Posting Date,Description,Amount,Type,Balance,Check or Slip #\nDEBIT,01/22/2025,USPS,0.00,DEBIT_CARD,1.00,\n"), 0o644))
	logPath := filepath.Join(dir, "run.csv")

	res := newTestService(&bytes.Buffer{}, Options{RunLog: logPath}).RunFormat(chaseSpec(t, dir))
	require.Len(t, res.Files, 1)
	require.NoError(t, res.Files[0].Err)
	assert.True(t, res.Files[0].Result.Empty())
	assert.Empty(t, res.Files[0].Output)

	entries, err := runlog.Read(logPath)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, runlog.StatusEmpty, entries[0].Status)
}

func TestRunFormat_StructuralErrors(t *testing.T) {
	dir := t.TempDir()
	copyChase(t, dir, "Chase1234.csv")

	tests := []struct {
		name   string
		mutate func(*config.FormatSpec)
		msg    string
	}{
		{"malformed cd flag", func(s *config.FormatSpec) { s.CDFlag = []string{"Type"} }, "cd_flag"},
		{"bad delimiter", func(s *config.FormatSpec) { s.Delimiter = ";;" }, "delimiter"},
		{"unknown preprocessor", func(s *config.FormatSpec) { s.Preprocessor = "pdf" }, "unknown preprocessor"},
		{"bad filename regex", func(s *config.FormatSpec) { yes := true; s.UseRegex = &yes; s.FilenamePattern = "([" }, "filename pattern"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := chaseSpec(t, dir)
			tt.mutate(&spec)

			res := newTestService(&bytes.Buffer{}, Options{}).RunFormat(spec)
			require.Error(t, res.Err)
			assert.True(t, pipeline.IsConfigError(res.Err))
			assert.Contains(t, res.Err.Error(), tt.msg)
			assert.True(t, res.Structural())
			assert.Empty(t, res.Files)
		})
	}
}

func TestRunFormat_UnknownPreprocessorIsSentinel(t *testing.T) {
	spec := chaseSpec(t, t.TempDir())
	spec.Preprocessor = "pdf"

	res := newTestService(&bytes.Buffer{}, Options{}).RunFormat(spec)
	assert.True(t, errors.Is(res.Err, ErrUnknownPreprocessor))
}

func TestRunFormat_WidthMismatchFailsFileOnly(t *testing.T) {
	dir := t.TempDir()
	copyChase(t, dir, "Chase1.csv")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Chase2.csv"), []byte("header\na,b,c,d,e,f,g,h,i\n"), 0o644))
	logPath := filepath.Join(dir, "run.csv")

	var logs bytes.Buffer
	res := newTestService(&logs, Options{RunLog: logPath}).RunFormat(chaseSpec(t, dir))

	require.NoError(t, res.Err)
	require.Len(t, res.Files, 2)
	assert.NoError(t, res.Files[0].Err)
	require.Error(t, res.Files[1].Err)
	assert.True(t, pipeline.IsConfigError(res.Files[1].Err))
	assert.Contains(t, res.Files[1].Err.Error(), "Chase2.csv")
	assert.True(t, res.Structural())
	assert.Len(t, res.Records(), 5, "the good file still converts")

	entries, err := runlog.Read(logPath)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, runlog.StatusFailed, entries[1].Status)
	assert.Contains(t, entries[1].Error, "format expects 7")
	assert.Contains(t, logs.String(), "file failed")
}

func TestRunFormat_Preprocessed(t *testing.T) {
	dir := t.TempDir()
	data := "<tr><td>Date</td>;<td>Payee</td>;<td>Amount</td>\n" +
		"<tr><td>2019-01-02</td>;<td>ICA</td>;<td>-123,50</td>\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Allkort.xls"), []byte(data), 0o644))

	spec := config.FormatSpec{
		Name:            "Handelsbanken",
		SourcePath:      dir,
		FilenamePattern: "Allkort",
		Preprocessor:    "strip_html",
		InputColumns:    []string{"Date", "Payee", "Inflow"},
		Extension:       ".xls",
		Delimiter:       ";",
	}.Merge(config.Default().Defaults)

	res := newTestService(&bytes.Buffer{}, Options{DryRun: true}).RunFormat(spec)
	require.NoError(t, res.Err)
	require.Len(t, res.Files, 1)
	require.NoError(t, res.Files[0].Err)
	recs := res.Records()
	require.Len(t, recs, 1)
	assert.Equal(t, "ICA", recs[0].PayeeName)
	assert.Equal(t, int64(-123500), recs[0].Amount)
}
