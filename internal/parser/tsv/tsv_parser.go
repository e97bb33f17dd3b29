// Package tsv parses the tab-delimited BLS flat files into in-memory tables.
// The files ship as Windows-1252 text with padded headers, so the parser
// decodes the byte stream, trims and case-folds header names, and converts
// empty cells to nil before any relational work happens.
package tsv

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"oews/internal/table"
	"oews/pkg/records"
)

// utf8BOM is stripped from the first header cell if present.
const utf8BOM = "\ufeff"

// Options configures the parser. All fields are optional; sensible defaults
// are applied when a field is zero.
type Options struct {
	// Comma specifies the field delimiter. When zero, '\t' is used.
	Comma rune

	// Encoding names the source character encoding: "cp1252" (default,
	// also accepted as "windows-1252") or "utf-8"/"utf8" for no decoding.
	Encoding string

	// TrimSpace trims leading/trailing whitespace from each cell value. The
	// flat files pad cells to fixed widths, so this is on in every pipeline
	// configuration; it is an option only so tests can observe raw cells.
	TrimSpace bool
}

// Parser parses tab-delimited input according to Options. It is safe to reuse
// across inputs, but Parser itself is not concurrency-safe.
type Parser struct{ opt Options }

// NewParser constructs a Parser with the provided Options.
func NewParser(opt Options) *Parser { return &Parser{opt: opt} }

// Parse consumes the whole input and returns it as a table plus the number of
// rows skipped because their field count did not match the header. Headers
// are trimmed and lowercased; empty cells become nil.
func (p *Parser) Parse(r io.Reader) (*table.Table, int, error) {
	dec, err := decodingReader(r, p.opt.Encoding)
	if err != nil {
		return nil, 0, err
	}

	cr := csv.NewReader(dec)
	cr.Comma = '\t'
	if p.opt.Comma != 0 {
		cr.Comma = p.opt.Comma
	}
	// The flat files occasionally carry stray quotes inside text cells.
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	h, err := cr.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("read header: %w", err)
	}
	headers := normalizeHeaders(h)

	t := table.New(headers)
	var skipped int

	for line := 1; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			skipped++
			continue
		}
		if len(row) != len(headers) {
			skipped++
			continue
		}

		rec := make(records.Record, len(row))
		for i, val := range row {
			if p.opt.TrimSpace {
				val = strings.TrimSpace(val)
			}
			rec[headers[i]] = emptyToNil(val)
		}
		t.Append(rec)
	}

	return t, skipped, nil
}

// decodingReader wraps r so that it yields UTF-8 regardless of the source
// encoding.
func decodingReader(r io.Reader, encoding string) (io.Reader, error) {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "", "cp1252", "windows-1252":
		return transform.NewReader(r, charmap.Windows1252.NewDecoder()), nil
	case "utf-8", "utf8":
		return r, nil
	default:
		return nil, fmt.Errorf("unsupported encoding %q", encoding)
	}
}

// emptyToNil converts an empty string to nil; all other values are returned as-is.
func emptyToNil(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// normalizeHeaders trims surrounding whitespace, strips a UTF-8 BOM from the
// first cell, and lowercases header names so that column predicates never
// depend on the padding the source files carry.
func normalizeHeaders(h []string) []string {
	res := make([]string, len(h))
	for i, col := range h {
		c := strings.TrimSpace(col)
		if i == 0 {
			c = strings.TrimPrefix(c, utf8BOM)
		}
		res[i] = strings.ToLower(c)
	}
	return res
}
