package importer

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/bank2ynab/bank2ynab/internal/config"
)

// FileInfo describes a source file that matched a format.
type FileInfo struct {
	Name string
	Path string
	Size int64
}

// SourceDir resolves where a format's files are looked for: the configured
// path (with ~ expanded), else ~/Downloads, else the working directory.
func SourceDir(spec config.FormatSpec) string {
	home, _ := os.UserHomeDir()
	p := spec.SourcePath
	if p == "" {
		if home == "" {
			return "."
		}
		return filepath.Join(home, "Downloads")
	}
	if home != "" && (p == "~" || strings.HasPrefix(p, "~/")) {
		return filepath.Join(home, strings.TrimPrefix(p, "~"))
	}
	return p
}

// Scan returns the files in the format's source directory whose names end in
// the format extension and start with its filename pattern (or match it as a
// regular expression followed by an extension). Files containing the output
// prefix are previous outputs and are skipped. A missing directory yields no
// files; an empty pattern matches nothing.
func Scan(spec config.FormatSpec) ([]FileInfo, error) {
	if spec.FilenamePattern == "" {
		return nil, nil
	}
	match := func(name string) bool { return strings.HasPrefix(name, spec.FilenamePattern) }
	if spec.Regex() {
		re, err := regexp.Compile(`^(?:` + spec.FilenamePattern + `).*\.`)
		if err != nil {
			return nil, fmt.Errorf("compiling filename pattern: %w", err)
		}
		match = re.MatchString
	}

	dir := SourceDir(spec)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading source dir: %w", err)
	}

	ext := strings.ToLower(spec.Extension)
	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(strings.ToLower(name), ext) {
			continue
		}
		if spec.OutputPrefix != "" && strings.Contains(name, spec.OutputPrefix) {
			continue
		}
		if !match(name) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", name, err)
		}
		files = append(files, FileInfo{
			Name: name,
			Path: filepath.Join(dir, name),
			Size: info.Size(),
		})
	}
	return files, nil
}
