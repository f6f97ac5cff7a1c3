package dataset

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Error codes used across the loader, engine and reports packages.
const (
	// LoadErrCode marks a failed connection, query or file read.
	LoadErrCode = "LoadErr"
	// SchemaErrCode marks a required column or table that is absent.
	SchemaErrCode = "SchemaErr"
	// ParseErrCode marks a value that could not be coerced to the type an
	// operation needs. Row-level parse failures are handled by exclusion
	// and only surface for whole inputs, such as a threshold typed by a user.
	ParseErrCode = "ParseErr"
	// SpecErrCode marks a malformed filter, aggregate or report request.
	SpecErrCode = "SpecErr"
)

// Err is the error type returned for the failure kinds above. Data carries
// the details; a "cause" entry holding an error is exposed through Unwrap.
type Err struct {
	Code  string
	Title string
	Data  map[string]any
}

func (e Err) Error() string {
	fields := []string{
		e.Code + ": " + e.Title,
	}

	keys := make([]string, 0, len(e.Data))
	for k := range e.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		v := e.Data[k]
		if err, ok := v.(error); ok {
			v = err.Error()
		}
		fields = append(fields, fmt.Sprintf("%s = %+v", k, v))
	}

	return strings.Join(fields, "; ")
}

func (e Err) Unwrap() error {
	if err, ok := e.Data["cause"].(error); ok {
		return err
	}
	return nil
}

// ErrIs reports whether err, or any error it wraps, is an Err with code.
func ErrIs(err error, code string) bool {
	var e Err
	if !errors.As(err, &e) {
		return false
	}
	return e.Code == code
}

func LoadErr(title string, data map[string]any) error {
	return Err{
		Code:  LoadErrCode,
		Title: title,
		Data:  data,
	}
}

func SchemaErr(title string, data map[string]any) error {
	return Err{
		Code:  SchemaErrCode,
		Title: title,
		Data:  data,
	}
}

func ParseErr(title string, data map[string]any) error {
	return Err{
		Code:  ParseErrCode,
		Title: title,
		Data:  data,
	}
}

func SpecErr(title string, data map[string]any) error {
	return Err{
		Code:  SpecErrCode,
		Title: title,
		Data:  data,
	}
}
