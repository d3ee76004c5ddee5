package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/hazyhaar/unifold/pkg/fold"
	"github.com/hazyhaar/unifold/pkg/store"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

// ReadEntries parses CSV data described by m into entries. Rows with an empty
// term are skipped.
func ReadEntries(r io.Reader, m *Manifest) ([]store.Entry, error) {
	// Transcode non-UTF-8 encodings declared in the manifest.
	if enc := m.Format.Encoding; enc != "" && !isUTF8(enc) {
		e, err := htmlindex.Get(enc)
		if err != nil {
			return nil, fmt.Errorf("unsupported encoding %q: %w", enc, err)
		}
		r = transform.NewReader(r, e.NewDecoder())
	}

	cr := csv.NewReader(r)
	if delim := m.Format.Delimiter; delim != "" {
		cr.Comma = []rune(delim)[0]
	}
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	var header []string
	if m.Format.HasHeader {
		var err error
		header, err = cr.Read()
		if err != nil {
			return nil, fmt.Errorf("read header: %w", err)
		}
		for i := range header {
			header[i] = strings.TrimSpace(header[i])
		}
	}

	termIdx, err := columnIndex(header, m.Format.TermColumn, 0)
	if err != nil {
		return nil, err
	}
	bodyIdx, err := columnIndex(header, m.Format.BodyColumn, -1)
	if err != nil {
		return nil, err
	}

	normalize := fold.GetNormalizer(m.Format.Normalize)
	var entries []store.Entry
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		if termIdx >= len(record) {
			continue
		}
		term := normalize(strings.TrimSpace(record[termIdx]))
		if term == "" {
			continue
		}
		e := store.Entry{Term: term, Source: m.ID}
		if bodyIdx >= 0 && bodyIdx < len(record) {
			e.Body = strings.TrimSpace(record[bodyIdx])
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// columnIndex resolves a named column, or returns def when name is empty.
func columnIndex(header []string, name string, def int) (int, error) {
	if name == "" {
		return def, nil
	}
	if header == nil {
		return 0, fmt.Errorf("column %q requires has_header", name)
	}
	for i, h := range header {
		if h == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("column %q not found in header %v", name, header)
}

func isUTF8(enc string) bool {
	e := strings.ToLower(strings.ReplaceAll(enc, "-", ""))
	return e == "utf8" || e == ""
}
