package importer

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/bank2ynab/bank2ynab/internal/config"
	"github.com/bank2ynab/bank2ynab/internal/export"
	"github.com/bank2ynab/bank2ynab/internal/model"
	"github.com/bank2ynab/bank2ynab/internal/pipeline"
	"github.com/bank2ynab/bank2ynab/internal/runlog"
)

// Options control the side effects of a conversion run.
type Options struct {
	DryRun bool   // convert and report, but write and delete nothing
	RunLog string // path of the CSV run log; empty disables it
	RunID  string // defaults to a fresh UUID
}

// Service converts every source file of a format.
type Service struct {
	log      zerolog.Logger
	registry *Registry
	pipeline *pipeline.Pipeline
	opts     Options
	now      func() time.Time
}

// NewService creates a Service. A nil registry means DefaultRegistry.
func NewService(log zerolog.Logger, registry *Registry, opts Options) *Service {
	if registry == nil {
		registry = DefaultRegistry()
	}
	if opts.RunID == "" {
		opts.RunID = runlog.NewRunID()
	}
	return &Service{
		log:      log,
		registry: registry,
		pipeline: pipeline.New(log),
		opts:     opts,
		now:      time.Now,
	}
}

// RunID returns the identifier written to the run log.
func (s *Service) RunID() string { return s.opts.RunID }

// FileResult is the outcome of one source file.
type FileResult struct {
	Source string
	Output string // empty when nothing was written
	Result *pipeline.Result
	Err    error
}

// FormatResult is the outcome of one format across its source files.
type FormatResult struct {
	Format string
	Files  []FileResult
	Err    error // the format could not be run at all
}

// Records returns the import records of every converted file, in file order.
func (r FormatResult) Records() []model.ImportRecord {
	var recs []model.ImportRecord
	for _, f := range r.Files {
		if f.Result != nil {
			recs = append(recs, f.Result.Records...)
		}
	}
	return recs
}

// Structural reports whether the format, or any of its files, failed because
// of a configuration defect.
func (r FormatResult) Structural() bool {
	if r.Err != nil {
		return true
	}
	for _, f := range r.Files {
		if f.Err != nil && pipeline.IsConfigError(f.Err) {
			return true
		}
	}
	return false
}

// RunFormat converts every matching file of spec. A failing file is logged and
// recorded; the remaining files are still converted.
func (s *Service) RunFormat(spec config.FormatSpec) FormatResult {
	res := FormatResult{Format: spec.Name}
	log := s.log.With().Str("format", spec.Name).Logger()

	fc, sep, pre, err := s.prepare(spec)
	if err != nil {
		res.Err = &pipeline.ConfigError{Format: spec.Name, Err: err}
		log.Error().Err(err).Msg("format misconfigured")
		return res
	}

	files, err := Scan(spec)
	if err != nil {
		res.Err = &pipeline.ConfigError{Format: spec.Name, Err: err}
		log.Error().Err(err).Msg("scanning source files")
		return res
	}
	if len(files) == 0 {
		log.Info().Str("dir", SourceDir(spec)).Msg("no matching files")
		return res
	}

	var entries []runlog.Entry
	for _, file := range files {
		fr := s.convertFile(file, spec, fc, sep, pre)
		res.Files = append(res.Files, fr)
		entries = append(entries, s.entry(spec.Name, fr))

		flog := log.With().Str("file", file.Name).Logger()
		switch {
		case fr.Err != nil:
			flog.Error().Err(fr.Err).Msg("file failed")
		case fr.Result.Empty():
			flog.Warn().Int("rows", fr.Result.Summary.Total).Msg("no output data from this file")
		default:
			dropped := zerolog.Dict()
			for reason, n := range fr.Result.Summary.Dropped {
				dropped.Int(string(reason), n)
			}
			flog.Info().
				Int("rows", fr.Result.Summary.Total).
				Int("valid", fr.Result.Summary.Valid).
				Dict("dropped", dropped).
				Str("output", fr.Output).
				Msg("file converted")
		}
	}

	if s.opts.RunLog != "" && !s.opts.DryRun {
		if err := runlog.Append(s.opts.RunLog, entries); err != nil {
			log.Warn().Err(err).Msg("writing run log")
		}
	}
	return res
}

func (s *Service) prepare(spec config.FormatSpec) (model.FormatConfig, rune, Preprocessor, error) {
	fc, err := spec.FormatConfig()
	if err != nil {
		return model.FormatConfig{}, 0, nil, err
	}
	sep, err := spec.Separator()
	if err != nil {
		return model.FormatConfig{}, 0, nil, err
	}
	var pre Preprocessor
	if spec.Preprocessor != "" {
		pre = s.registry.Get(spec.Preprocessor)
		if pre == nil {
			return model.FormatConfig{}, 0, nil, fmt.Errorf("%w %q", ErrUnknownPreprocessor, spec.Preprocessor)
		}
	}
	return fc, sep, pre, nil
}

func (s *Service) convertFile(file FileInfo, spec config.FormatSpec, fc model.FormatConfig, sep rune, pre Preprocessor) FileResult {
	fr := FileResult{Source: file.Path}
	rows, err := s.readRows(file, spec, fc, sep, pre)
	if err != nil {
		fr.Err = err
		return fr
	}

	result, err := s.pipeline.Run(fc, rows)
	if err != nil {
		fr.Err = fmt.Errorf("%s: %w", file.Name, err)
		return fr
	}
	fr.Result = result
	if result.Empty() {
		return fr
	}

	fr.Output = export.OutputPath(file.Path, spec.OutputPrefix, spec.OutputExtension)
	if s.opts.DryRun {
		return fr
	}
	if err := export.SaveTable(fr.Output, result.Export); err != nil {
		fr.Err = fmt.Errorf("%s: %w", file.Name, err)
		fr.Output = ""
		return fr
	}
	if spec.RemoveSource() {
		if err := os.Remove(file.Path); err != nil {
			s.log.Warn().Err(err).Str("file", file.Name).Msg("deleting source file")
		}
	}
	return fr
}

func (s *Service) readRows(file FileInfo, spec config.FormatSpec, fc model.FormatConfig, sep rune, pre Preprocessor) ([][]string, error) {
	data, err := os.ReadFile(file.Path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", file.Name, err)
	}

	if pre != nil && isBinary(pre) {
		if data, err = pre.Process(data, spec); err != nil {
			return nil, fmt.Errorf("%s: %s: %w", file.Name, pre.Name(), err)
		}
	}
	text, err := Decode(data, spec.Encoding)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file.Name, err)
	}
	if pre != nil && !isBinary(pre) {
		out, err := pre.Process([]byte(text), spec)
		if err != nil {
			return nil, fmt.Errorf("%s: %s: %w", file.Name, pre.Name(), err)
		}
		text = string(out)
	}

	rows, err := ReadTable(text, sep, spec.Header(), spec.Footer(), len(fc.InputColumns))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file.Name, err)
	}
	return rows, nil
}

func (s *Service) entry(format string, fr FileResult) runlog.Entry {
	e := runlog.Entry{
		RunID:     s.opts.RunID,
		Timestamp: s.now().UTC().Truncate(time.Second),
		Format:    format,
		Source:    fr.Source,
		Output:    fr.Output,
	}
	if fr.Result != nil {
		e.Parsed = fr.Result.Summary.Total
		e.Dropped = fr.Result.Summary.DroppedCount()
	}
	switch {
	case fr.Err != nil:
		e.Status = runlog.StatusFailed
		e.Error = fr.Err.Error()
	case fr.Result.Empty():
		e.Status = runlog.StatusEmpty
	default:
		e.Status = runlog.StatusOK
	}
	return e
}
