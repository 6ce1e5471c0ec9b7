package statement

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
)

var (
	// ErrMissingHeader rejects files where no line looks like the expected
	// "Data;...;...;Valor" statement header.
	ErrMissingHeader = errors.New("statement header 'Data;Descricao;Valor' not found in file")
	// ErrNoValidRecords rejects files whose header was found but every data
	// line was unparsable.
	ErrNoValidRecords = errors.New("no valid records found in file")
)

// Line is one successfully parsed statement row.
type Line struct {
	Date           time.Time
	Description    string
	DescriptionKey string
	Amount         decimal.Decimal
}

// ParseResult carries the parsed lines in file order plus the count of data
// lines that were dropped, so callers can report "N of M lines accepted".
type ParseResult struct {
	Lines        []Line
	SkippedLines int
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// decode interprets the upload as UTF-8 (BOM tolerated) and falls back to
// Latin-1, the encoding older bank exports still ship with.
func decode(raw []byte) string {
	raw = bytes.TrimPrefix(raw, utf8BOM)
	if utf8.Valid(raw) {
		return string(raw)
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	if err != nil {
		return string(raw)
	}
	return string(decoded)
}

// ParseAmount parses a Brazilian-format currency string: optional "R$"
// prefix, "." as thousands separator, "," as decimal separator. The result is
// rounded half-up to two places.
func ParseAmount(text string) (decimal.Decimal, error) {
	cleaned := strings.ReplaceAll(text, "R$", "")
	cleaned = strings.ReplaceAll(cleaned, " ", "")
	cleaned = strings.ReplaceAll(cleaned, " ", "")
	cleaned = strings.ReplaceAll(cleaned, ".", "")
	cleaned = strings.ReplaceAll(cleaned, ",", ".")
	value, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return value.Round(2), nil
}

func isHeader(columns []string) bool {
	if len(columns) < 4 {
		return false
	}
	return strings.Contains(NormalizeKey(columns[0]), "data") &&
		strings.Contains(NormalizeKey(columns[3]), "valor")
}

func allBlank(columns []string) bool {
	for _, col := range columns {
		if col != "" {
			return false
		}
	}
	return true
}

// Parse reads a semicolon-delimited statement export. Everything before the
// header line is preamble and is discarded. Data lines that cannot be parsed
// are skipped and counted, never batch-fatal; a file with no header or no
// valid data line is rejected as a whole.
func Parse(raw []byte) (*ParseResult, error) {
	reader := csv.NewReader(strings.NewReader(decode(raw)))
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	result := &ParseResult{}
	headerFound := false

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			if headerFound {
				result.SkippedLines++
			}
			continue
		}

		columns := make([]string, len(record))
		for i, col := range record {
			columns[i] = strings.TrimSpace(col)
		}
		if allBlank(columns) {
			continue
		}

		if !headerFound {
			if isHeader(columns) {
				headerFound = true
			}
			continue
		}

		if len(columns) < 4 {
			result.SkippedLines++
			continue
		}

		dateText, description, amountText := columns[0], columns[2], columns[3]
		if dateText == "" || amountText == "" {
			result.SkippedLines++
			continue
		}

		date, err := time.Parse("02/01/2006", dateText)
		if err != nil {
			result.SkippedLines++
			continue
		}

		amount, err := ParseAmount(amountText)
		if err != nil {
			result.SkippedLines++
			continue
		}

		result.Lines = append(result.Lines, Line{
			Date:           date,
			Description:    description,
			DescriptionKey: NormalizeKey(description),
			Amount:         amount,
		})
	}

	if !headerFound {
		return nil, ErrMissingHeader
	}
	if len(result.Lines) == 0 {
		return nil, ErrNoValidRecords
	}
	return result, nil
}
