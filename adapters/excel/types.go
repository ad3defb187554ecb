package excel

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"exportlens/domain/table"
	"exportlens/internal/errors"
)

// Format is the declared file format of an upload
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// FormatFromFilename infers the format from the file extension
func FormatFromFilename(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	default:
		return "", errors.LoadError(name, fmt.Errorf("unsupported file type %q (expected .csv or .xlsx)", filepath.Ext(name)))
	}
}

// Upload is one file handed over by the upload interface
type Upload struct {
	Filename string
	Open     func() (io.ReadCloser, error)
}

// LoadResult holds either the table or the error for one upload
type LoadResult struct {
	ID       string
	Filename string
	Format   Format
	Table    *table.Table
	Err      error
}
