// Package loader turns a named data source into a dataset.Dataset: a
// parameterized SQL query run through database/sql, or a delimited or
// spreadsheet file read from disk.
package loader

import (
	"context"
	"database/sql"
	"strconv"
	"strings"
	"time"

	"github.com/nonsonwune/ncaafb_db/dataset"
)

// Source names what to load. A Source with a Path is a flat file;
// otherwise SQL is run with Args bound positionally.
type Source struct {
	Name string
	SQL  string
	Args []any
	Path string
}

// IsFile reports whether the source is read from disk.
func (s Source) IsFile() bool { return s.Path != "" }

// Querier is the subset of *sql.DB the loader needs.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Loader loads sources. It holds no state between loads.
type Loader struct {
	db      Querier
	timeout time.Duration
}

// Option configures a Loader.
type Option func(*Loader)

// WithTimeout bounds every SQL load. Zero means no bound beyond the
// caller's context.
func WithTimeout(d time.Duration) Option {
	return func(l *Loader) {
		l.timeout = d
	}
}

// New returns a Loader running SQL sources against db. db may be nil when
// only files are loaded.
func New(db Querier, opts ...Option) *Loader {
	l := &Loader{db: db}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads src. Every failure is a dataset LoadErr.
func (l *Loader) Load(ctx context.Context, src Source) (*dataset.Dataset, error) {
	if src.IsFile() {
		return LoadFile(src.Path)
	}
	return l.loadSQL(ctx, src)
}

func (l *Loader) loadSQL(ctx context.Context, src Source) (*dataset.Dataset, error) {
	if l.db == nil {
		return nil, dataset.LoadErr("no database configured", map[string]any{"source": src.Name})
	}
	if strings.TrimSpace(src.SQL) == "" {
		return nil, dataset.LoadErr("empty query", map[string]any{"source": src.Name})
	}

	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	rows, err := l.db.QueryContext(ctx, src.SQL, src.Args...)
	if err != nil {
		return nil, dataset.LoadErr("could not run query", map[string]any{
			"source": src.Name,
			"cause":  err,
		})
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, dataset.LoadErr("could not read result columns", map[string]any{
			"source": src.Name,
			"cause":  err,
		})
	}

	dbTypes := make([]string, len(columns))
	if types, err := rows.ColumnTypes(); err == nil {
		for i, ct := range types {
			dbTypes[i] = strings.ToUpper(ct.DatabaseTypeName())
		}
	}

	var out []dataset.Row
	for rows.Next() {
		values := make([]any, len(columns))
		pointers := make([]any, len(columns))
		for i := range values {
			pointers[i] = &values[i]
		}
		if err := rows.Scan(pointers...); err != nil {
			return nil, dataset.LoadErr("could not scan row", map[string]any{
				"source": src.Name,
				"row":    len(out),
				"cause":  err,
			})
		}

		row := make(dataset.Row, len(columns))
		for i, v := range values {
			row[i] = convertDriverValue(v, dbTypes[i])
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, dataset.LoadErr("could not read rows", map[string]any{
			"source": src.Name,
			"cause":  err,
		})
	}

	unifyKinds(out, len(columns))
	ds, err := dataset.New(columns, out)
	if err != nil {
		return nil, dataset.LoadErr("query returned an unusable result", map[string]any{
			"source": src.Name,
			"cause":  err,
		})
	}
	return ds, nil
}

// convertDriverValue maps a scanned value to a cell. Drivers hand NUMERIC
// and some integer columns back as text, so the column's database type
// decides how []byte and string values are read.
func convertDriverValue(v any, dbType string) dataset.Value {
	var text string
	switch t := v.(type) {
	case []byte:
		text = string(t)
	case string:
		text = t
	default:
		return dataset.FromAny(v)
	}

	switch {
	case strings.HasPrefix(dbType, "INT"), dbType == "BIGINT", dbType == "SMALLINT", dbType == "SERIAL":
		if i, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64); err == nil {
			return dataset.Int(i)
		}
	case dbType == "NUMERIC", dbType == "DECIMAL", strings.HasPrefix(dbType, "FLOAT"), dbType == "REAL", dbType == "DOUBLE":
		if f, err := strconv.ParseFloat(strings.TrimSpace(text), 64); err == nil {
			return dataset.Float(f)
		}
	case dbType == "DATE", strings.HasPrefix(dbType, "TIMESTAMP"), dbType == "DATETIME":
		if t, ok := dataset.ParseDate(text); ok {
			return dataset.Date(t)
		}
	}
	return dataset.String(text)
}

// unifyKinds makes each column hold a single kind: ints mixed with floats
// become floats, and any other mixture falls back to text.
func unifyKinds(rows []dataset.Row, width int) {
	for c := 0; c < width; c++ {
		kinds := make(map[dataset.Kind]bool)
		for _, row := range rows {
			if !row[c].IsNull() {
				kinds[row[c].Kind()] = true
			}
		}
		if len(kinds) < 2 {
			continue
		}

		numeric := len(kinds) == 2 && kinds[dataset.KindInt] && kinds[dataset.KindFloat]
		for _, row := range rows {
			v := row[c]
			if v.IsNull() {
				continue
			}
			if numeric {
				f, _ := v.Float()
				row[c] = dataset.Float(f)
				continue
			}
			row[c] = dataset.String(v.String())
		}
	}
}
