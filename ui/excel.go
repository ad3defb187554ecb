package ui

import (
	"io"
	"mime/multipart"
	"net/http"

	"exportlens/adapters/excel"
	"exportlens/domain/table"
	"exportlens/internal/errors"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
)

// expectedMIME lists the sniffed types accepted for each declared format
var expectedMIME = map[excel.Format][]string{
	excel.FormatCSV:  {"text/csv", "text/plain"},
	excel.FormatXLSX: {"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "application/zip"},
}

// toUpload adapts a multipart file to the loader's upload type
func (s *Server) toUpload(fh *multipart.FileHeader) excel.Upload {
	s.sniff(fh)
	return excel.Upload{
		Filename: fh.Filename,
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}
}

// sniff compares the content type of an upload with its extension. A
// mismatch is logged only; the parser decides whether the file is usable.
func (s *Server) sniff(fh *multipart.FileHeader) {
	format, err := excel.FormatFromFilename(fh.Filename)
	if err != nil {
		return
	}
	f, err := fh.Open()
	if err != nil {
		return
	}
	defer f.Close()

	mt, err := mimetype.DetectReader(f)
	if err != nil {
		s.logger.Warn("could not sniff %s: %v", fh.Filename, err)
		return
	}
	for m := mt; m != nil; m = m.Parent() {
		for _, want := range expectedMIME[format] {
			if m.Is(want) {
				s.logger.Debug("%s sniffed as %s", fh.Filename, mt.String())
				return
			}
		}
	}
	s.logger.Warn("%s declared as %s but looks like %s", fh.Filename, format, mt.String())
}

// loadFormFile loads the single file sent under field. It returns a nil
// table and no error when the field is absent and optional is set.
func (s *Server) loadFormFile(c *gin.Context, field string, optional bool) (*table.Table, error) {
	fh, err := c.FormFile(field)
	if err == http.ErrMissingFile || err == http.ErrNotMultipart {
		if optional {
			return nil, nil
		}
		return nil, errors.InvalidInput("no file uploaded")
	}
	if err != nil {
		return nil, errors.InvalidInput("malformed upload: " + err.Error())
	}

	results := s.reader.LoadAll(c.Request.Context(), []excel.Upload{s.toUpload(fh)}, 1)
	return results[0].Table, results[0].Err
}
