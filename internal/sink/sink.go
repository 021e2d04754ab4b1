// Package sink serializes reconstructed transactions.
package sink

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cleared-dev/stmt2csv/internal/model"
)

// Format is an output file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatCSV, FormatXLSX:
		return f, nil
	}
	return "", fmt.Errorf("unknown output format %q (want csv or xlsx)", s)
}

// Extension returns the file extension for the format, including the dot.
func (f Format) Extension() string {
	return "." + string(f)
}

// Write serializes txns to w in format f.
func Write(w io.Writer, f Format, txns []model.Transaction) error {
	switch f {
	case FormatCSV:
		return WriteCSV(w, txns)
	case FormatXLSX:
		return WriteXLSX(w, txns)
	}
	return fmt.Errorf("unknown output format %q", f)
}

// OutputPath derives the output path for input: same directory and base
// name, format extension. A non-empty dir replaces the directory.
func OutputPath(input, dir string, f Format) string {
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input)) + f.Extension()
	if dir == "" {
		dir = filepath.Dir(input)
	}
	return filepath.Join(dir, base)
}

// WriteFile creates path and writes txns to it.
func WriteFile(path string, f Format, txns []model.Transaction) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := Write(out, f, txns); err != nil {
		out.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return nil
}
