package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/nonsonwune/ncaafb_db/dataset"
)

// nullTokens are cell texts read as null.
var nullTokens = map[string]bool{
	"":     true,
	"NA":   true,
	"N/A":  true,
	"NaN":  true,
	"null": true,
	"NULL": true,
}

// LoadFile reads a whole file: .xlsx through excelize (first sheet), .tsv
// tab-delimited, anything else comma-delimited.
func LoadFile(path string) (*dataset.Dataset, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return loadXLSX(path)
	case ".tsv":
		return loadDelimited(path, '\t')
	default:
		return loadDelimited(path, ',')
	}
}

func loadDelimited(path string, delim rune) (*dataset.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, dataset.LoadErr("could not open file", map[string]any{
			"path":  path,
			"cause": err,
		})
	}
	defer f.Close()

	ds, err := ParseDelimited(f, delim)
	if err != nil {
		return nil, annotate(err, path)
	}
	return ds, nil
}

// ParseDelimited reads a header row followed by records.
func ParseDelimited(r io.Reader, delim rune) (*dataset.Dataset, error) {
	reader := csv.NewReader(r)
	reader.Comma = delim
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, dataset.LoadErr("could not parse delimited file", map[string]any{"cause": err})
	}
	if len(records) == 0 {
		return nil, dataset.LoadErr("file has no header row", nil)
	}
	return FromRecords(records[0], records[1:])
}

func loadXLSX(path string) (*dataset.Dataset, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, dataset.LoadErr("could not open spreadsheet", map[string]any{
			"path":  path,
			"cause": err,
		})
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, dataset.LoadErr("spreadsheet has no sheets", map[string]any{"path": path})
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, dataset.LoadErr("could not read sheet", map[string]any{
			"path":  path,
			"sheet": sheet,
			"cause": err,
		})
	}
	if len(rows) == 0 {
		return nil, dataset.LoadErr("file has no header row", map[string]any{"path": path})
	}

	ds, err := FromRecords(rows[0], rows[1:])
	if err != nil {
		return nil, annotate(err, path)
	}
	return ds, nil
}

// FromRecords builds a dataset from text records, inferring one kind per
// column. Short records are padded with nulls and extra cells dropped.
func FromRecords(header []string, records [][]string) (*dataset.Dataset, error) {
	columns := headerNames(header)
	kinds := make([]dataset.Kind, len(columns))
	for c := range columns {
		kinds[c] = inferKind(records, c)
	}

	rows := make([]dataset.Row, len(records))
	for r, rec := range records {
		row := make(dataset.Row, len(columns))
		for c := range columns {
			if c < len(rec) {
				row[c] = parseCell(rec[c], kinds[c])
			}
		}
		rows[r] = row
	}

	ds, err := dataset.New(columns, rows)
	if err != nil {
		return nil, dataset.LoadErr("file produced an unusable table", map[string]any{"cause": err})
	}
	return ds, nil
}

// headerNames trims the header, names blank columns Column_N and suffixes
// repeated names with .1, .2 and so on.
func headerNames(header []string) []string {
	out := make([]string, len(header))
	taken := make(map[string]bool, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if h == "" {
			h = fmt.Sprintf("Column_%d", i+1)
		}
		name := h
		for n := 1; taken[name]; n++ {
			name = fmt.Sprintf("%s.%d", h, n)
		}
		taken[name] = true
		out[i] = name
	}
	return out
}

func inferKind(records [][]string, c int) dataset.Kind {
	isInt, isFloat, isDate := true, true, true
	seen := false
	for _, rec := range records {
		if c >= len(rec) {
			continue
		}
		s := strings.TrimSpace(rec[c])
		if nullTokens[s] {
			continue
		}
		seen = true
		if isInt {
			if _, err := strconv.ParseInt(s, 10, 64); err != nil {
				isInt = false
			}
		}
		if isFloat {
			if _, err := strconv.ParseFloat(s, 64); err != nil {
				isFloat = false
			}
		}
		if isDate {
			if _, ok := dataset.ParseDate(s); !ok {
				isDate = false
			}
		}
		if !isInt && !isFloat && !isDate {
			return dataset.KindString
		}
	}

	switch {
	case !seen:
		return dataset.KindString
	case isInt:
		return dataset.KindInt
	case isFloat:
		return dataset.KindFloat
	case isDate:
		return dataset.KindDate
	default:
		return dataset.KindString
	}
}

func parseCell(s string, kind dataset.Kind) dataset.Value {
	s = strings.TrimSpace(s)
	if nullTokens[s] {
		return dataset.Null()
	}
	switch kind {
	case dataset.KindInt:
		i, _ := strconv.ParseInt(s, 10, 64)
		return dataset.Int(i)
	case dataset.KindFloat:
		f, _ := strconv.ParseFloat(s, 64)
		return dataset.Float(f)
	case dataset.KindDate:
		t, _ := dataset.ParseDate(s)
		return dataset.Date(t)
	default:
		return dataset.String(s)
	}
}

// annotate adds the file path to a LoadErr produced while parsing.
func annotate(err error, path string) error {
	var e dataset.Err
	if !errors.As(err, &e) {
		return err
	}
	data := make(map[string]any, len(e.Data)+1)
	for k, v := range e.Data {
		data[k] = v
	}
	data["path"] = path
	e.Data = data
	return e
}
