package utils

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/aditi-rao/supplylens-api/models"
)

const (
	// MaxFileSize is 25MB in bytes
	MaxFileSize = 25 * 1024 * 1024
)

// AllowedDatasetFormats are the upload extensions accepted by the
// advanced-analysis path.
var AllowedDatasetFormats = map[string]bool{
	".csv":  true,
	".xlsx": true,
}

// FileUploadError represents a file upload validation error
type FileUploadError struct {
	Code    string
	Message string
}

func (e *FileUploadError) Error() string {
	return e.Message
}

// ValidateDatasetFile validates the uploaded file format and size
func ValidateDatasetFile(fileHeader *multipart.FileHeader) error {
	// Check file size
	if fileHeader.Size > MaxFileSize {
		return &FileUploadError{
			Code:    "FILE_TOO_LARGE",
			Message: fmt.Sprintf("File size exceeds maximum allowed size of %d MB", MaxFileSize/(1024*1024)),
		}
	}

	// Check file extension
	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !AllowedDatasetFormats[ext] {
		return &FileUploadError{
			Code:    "INVALID_FILE_FORMAT",
			Message: "Only .csv and .xlsx files are allowed",
		}
	}

	return nil
}

// ParseDatasetFile reads an uploaded CSV or XLSX file into a Table. The
// first row is taken as the header. Any row or cell that cannot be read
// surfaces as an error rather than a silent skip.
func ParseDatasetFile(fileHeader *multipart.FileHeader) (models.Table, error) {
	src, err := fileHeader.Open()
	if err != nil {
		return models.Table{}, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer func() {
		if closeErr := src.Close(); closeErr != nil {
			log.Printf("warning: failed to close uploaded file: %v", closeErr)
		}
	}()

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	switch ext {
	case ".csv":
		return parseCSV(src)
	case ".xlsx":
		return parseXLSX(src)
	default:
		return models.Table{}, &FileUploadError{
			Code:    "INVALID_FILE_FORMAT",
			Message: "Only .csv and .xlsx files are allowed",
		}
	}
}

// parseCSV reads comma-separated content. The csv reader enforces a
// consistent field count, so a ragged row fails the whole parse.
func parseCSV(r io.Reader) (models.Table, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err == io.EOF {
		return models.Table{}, fmt.Errorf("file contains no header row")
	}
	if err != nil {
		return models.Table{}, fmt.Errorf("failed to read header row: %w", err)
	}

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return models.Table{}, fmt.Errorf("failed to parse CSV row: %w", err)
		}
		rows = append(rows, row)
	}

	return models.Table{Columns: trimAll(header), Rows: rows}, nil
}

// parseXLSX reads the first sheet of a spreadsheet. Short rows are padded to
// the header width since excelize trims trailing empty cells.
func parseXLSX(r io.Reader) (models.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return models.Table{}, fmt.Errorf("failed to open spreadsheet: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			log.Printf("warning: failed to close spreadsheet: %v", closeErr)
		}
	}()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return models.Table{}, fmt.Errorf("spreadsheet contains no sheets")
	}

	allRows, err := f.GetRows(sheets[0])
	if err != nil {
		return models.Table{}, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	if len(allRows) == 0 {
		return models.Table{}, fmt.Errorf("file contains no header row")
	}

	header := trimAll(allRows[0])
	rows := make([][]string, 0, len(allRows)-1)
	for _, row := range allRows[1:] {
		padded := make([]string, len(header))
		copy(padded, row)
		rows = append(rows, padded)
	}

	return models.Table{Columns: header, Rows: rows}, nil
}

func trimAll(values []string) []string {
	trimmed := make([]string, len(values))
	for i, v := range values {
		trimmed[i] = strings.TrimSpace(v)
	}
	return trimmed
}
