package tabular

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"github.com/strandsoft/wcomp/internal/common"
)

// namedEncoding pairs a decoder with its reporting name. A nil decoder
// means raw UTF-8.
type namedEncoding struct {
	decoder *encoding.Decoder
	name    string
}

// fallbackEncodings is the fixed list of text encodings tried in order
// when reading delimited files.
func fallbackEncodings() []namedEncoding {
	return []namedEncoding{
		{name: "utf-8"},
		{name: "latin-1", decoder: charmap.ISO8859_1.NewDecoder()},
		{name: "cp1252", decoder: charmap.Windows1252.NewDecoder()},
		{name: "iso-8859-1", decoder: charmap.ISO8859_1.NewDecoder()},
		{name: "utf-16", decoder: unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()},
	}
}

// ReadFile reads a tabular input file. Workbook formats go through
// excelize; everything else is treated as delimited text with encoding
// fallback. The first row is the header.
func ReadFile(path string) (*Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm", ".xls":
		return readWorkbook(path)
	default:
		return readDelimited(path)
	}
}

func readWorkbook(path string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", common.ErrUnreadableFile, filepath.Base(path), err)
	}
	defer func() {
		_ = f.Close()
	}()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook %s has no sheets", filepath.Base(path))
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %s is empty", sheets[0])
	}

	table := New(rows[0])
	for _, row := range rows[1:] {
		table.Append(row)
	}

	slog.Debug("read workbook",
		"file", filepath.Base(path),
		"sheet", sheets[0],
		"rows", table.Len())

	return table, nil
}

func readDelimited(path string) (*Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}

	var lastErr error
	for _, enc := range fallbackEncodings() {
		decoded, decErr := decode(raw, enc)
		if decErr != nil {
			lastErr = decErr
			continue
		}

		table, parseErr := parseCSV(decoded)
		if parseErr != nil {
			lastErr = parseErr
			continue
		}

		slog.Debug("read delimited file",
			"file", filepath.Base(path),
			"encoding", enc.name,
			"rows", table.Len())

		return table, nil
	}

	return nil, fmt.Errorf("%w: %s with any supported encoding: %v", common.ErrUnreadableFile, filepath.Base(path), lastErr)
}

func decode(raw []byte, enc namedEncoding) (string, error) {
	if enc.decoder == nil {
		if !utf8.Valid(raw) {
			return "", fmt.Errorf("not valid utf-8")
		}
		return string(raw), nil
	}

	decoded, err := io.ReadAll(enc.decoder.Reader(bytes.NewReader(raw)))
	if err != nil {
		return "", fmt.Errorf("decode as %s: %w", enc.name, err)
	}
	return string(decoded), nil
}

func parseCSV(content string) (*Table, error) {
	// NUL bytes mean a wider encoding was mis-decoded; let a later
	// fallback claim the file.
	if strings.ContainsRune(content, '\x00') {
		return nil, fmt.Errorf("decoded text contains NUL bytes")
	}

	// Strip a BOM the decoder may have passed through.
	content = strings.TrimPrefix(content, "\uFEFF")

	r := csv.NewReader(strings.NewReader(content))
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("file has no header row")
	}

	table := New(records[0])
	for _, row := range records[1:] {
		table.Append(row)
	}
	return table, nil
}
