package aqmort

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strings"
)

// All code interacting with files is here.

const (
	peek        = 100
	floatFormat = "%v"
)

// Files reads and writes DFs as delimited files.
type Files struct {
	fieldNames  []string
	fieldTypes  []DataTypes
	sep         rune
	floatFormat string
	header      bool
	strict      bool
	peek        int

	file     *os.File
	fileName string
}

type FileOpt func(f *Files) error

// FileFieldNames sets the column names, overriding the header row.
func FileFieldNames(names []string) FileOpt {
	return func(f *Files) error {
		f.fieldNames = names
		return nil
	}
}

// FileFieldTypes sets the column types.  If types are given, names must be too.
func FileFieldTypes(types []DataTypes) FileOpt {
	return func(f *Files) error {
		f.fieldTypes = types
		return nil
	}
}

// FileStrict causes any value that cannot convert to its column type to fail
// the load.  Without it, bad float values load as NaN.
func FileStrict(strict bool) FileOpt {
	return func(f *Files) error {
		f.strict = strict
		return nil
	}
}

// FilePeek sets how many rows to scan when imputing column types.
func FilePeek(n int) FileOpt {
	return func(f *Files) error {
		if n <= 0 {
			return fmt.Errorf("peek must be positive")
		}

		f.peek = n
		return nil
	}
}

// FileSep sets the field separator.
func FileSep(sep rune) FileOpt {
	return func(f *Files) error {
		f.sep = sep
		return nil
	}
}

// FileHeader sets whether the file has a header row.
func FileHeader(header bool) FileOpt {
	return func(f *Files) error {
		f.header = header
		return nil
	}
}

// FileFloatFormat sets the format for writing floats.
func FileFloatFormat(format string) FileOpt {
	return func(f *Files) error {
		f.floatFormat = format
		return nil
	}
}

func NewFiles(opts ...FileOpt) (*Files, error) {
	f := &Files{
		sep:         ',',
		floatFormat: floatFormat,
		header:      true,
		peek:        peek,
	}

	for _, opt := range opts {
		if e := opt(f); e != nil {
			return nil, e
		}
	}

	if f.fieldTypes != nil && f.fieldNames == nil {
		return nil, fmt.Errorf("field types given without field names")
	}

	return f, nil
}

func (f *Files) Open(fileName string) error {
	var e error
	f.fileName = fileName
	f.file, e = os.Open(fileName)

	return e
}

func (f *Files) FileName() string {
	return f.fileName
}

func (f *Files) Close() error {
	if f.file != nil {
		return f.file.Close()
	}

	return fmt.Errorf("no open files")
}

// FileLoad reads the opened file into a *DF.  If the Files has no field names,
// they come from the header row; if it has no field types, they are imputed
// by peeking at the data.
func FileLoad(f *Files) (*DF, error) {
	if f.file == nil {
		return nil, fmt.Errorf("no open file")
	}

	defer func() { _ = f.Close() }()

	rdr := csv.NewReader(f.file)
	rdr.Comma = f.sep
	rdr.TrimLeadingSpace = true

	var (
		recs [][]string
		e    error
	)
	if recs, e = rdr.ReadAll(); e != nil {
		return nil, fmt.Errorf("%s: %w", f.fileName, e)
	}

	if len(recs) == 0 {
		return nil, fmt.Errorf("empty file %s", f.fileName)
	}

	names := f.fieldNames
	if f.header {
		if names == nil {
			names = headerNames(recs[0])
		}

		recs = recs[1:]
	}

	if names == nil {
		return nil, fmt.Errorf("no field names for %s", f.fileName)
	}

	for _, rec := range recs {
		if len(rec) != len(names) {
			return nil, fmt.Errorf("%s: row has %d fields, want %d", f.fileName, len(rec), len(names))
		}
	}

	types := f.fieldTypes
	if types == nil {
		types = imputeTypes(recs, len(names), f.peek)
	}

	if len(types) != len(names) {
		return nil, fmt.Errorf("%s: %d field types for %d fields", f.fileName, len(types), len(names))
	}

	var cols []*Col
	for ind := 0; ind < len(names); ind++ {
		var (
			col *Col
			e1  error
		)
		if col, e1 = f.makeCol(recs, ind, names[ind], types[ind]); e1 != nil {
			return nil, e1
		}

		cols = append(cols, col)
	}

	return NewDF(cols...)
}

func (f *Files) makeCol(recs [][]string, ind int, name string, dt DataTypes) (*Col, error) {
	v := MakeVector(dt, len(recs))
	for row := 0; row < len(recs); row++ {
		raw := strings.TrimSpace(recs[row][ind])

		x, ok := toDataType(raw, dt)
		if !ok {
			if f.strict {
				return nil, fmt.Errorf("%s: cannot read %q as %s for field %s",
					f.fileName, raw, dt, name)
			}

			if dt != DTfloat {
				return nil, fmt.Errorf("%s: cannot read %q as %s for field %s",
					f.fileName, raw, dt, name)
			}

			x = math.NaN()
		}

		switch dt {
		case DTfloat:
			_ = v.SetFloat(x.(float64), row)
		case DTint:
			_ = v.SetInt(x.(int), row)
		case DTstring:
			_ = v.SetString(x.(string), row)
		}
	}

	return NewCol(v, ColName(name))
}

// Save writes df to fileName with a header row.
func (f *Files) Save(fileName string, df *DF) error {
	var (
		out *os.File
		e   error
	)
	if out, e = os.Create(fileName); e != nil {
		return e
	}

	defer func() { _ = out.Close() }()

	w := csv.NewWriter(out)
	w.Comma = f.sep

	if f.header {
		if e1 := w.Write(df.ColumnNames()); e1 != nil {
			return e1
		}
	}

	for row := 0; row < df.RowCount(); row++ {
		var rec []string
		for c := df.Next(true); c != nil; c = df.Next(false) {
			if c.DataType() == DTfloat {
				rec = append(rec, fmt.Sprintf(f.floatFormat, c.ElementFloat(row)))
				continue
			}

			rec = append(rec, c.ElementString(row))
		}

		if e1 := w.Write(rec); e1 != nil {
			return e1
		}
	}

	w.Flush()

	return w.Error()
}

// headerNames cleans header fields into legal column names.
func headerNames(raw []string) []string {
	var names []string
	for _, nm := range raw {
		nm = strings.TrimSpace(nm)
		for _, bad := range []string{" ", ".", "-", "/"} {
			nm = strings.ReplaceAll(nm, bad, "_")
		}

		names = append(names, nm)
	}

	return names
}

// imputeTypes scans up to peek rows, promoting each column to the narrowest
// of int, float, string that holds every non-empty value.
func imputeTypes(recs [][]string, nCols, peek int) []DataTypes {
	n := len(recs)
	if n > peek {
		n = peek
	}

	types := make([]DataTypes, nCols)
	for ind := 0; ind < nCols; ind++ {
		dt := DTunknown
		for row := 0; row < n; row++ {
			raw := strings.TrimSpace(recs[row][ind])
			if raw == "" {
				continue
			}

			_, dtx, e := bestType(raw)
			if e != nil {
				dtx = DTstring
			}

			dt = promote(dt, dtx)
		}

		if dt == DTunknown {
			dt = DTstring
		}

		types[ind] = dt
	}

	return types
}

// promote widens cur to hold a value of type next: int -> float -> string.
func promote(cur, next DataTypes) DataTypes {
	if cur == DTunknown {
		return next
	}

	if cur == next {
		return cur
	}

	if cur == DTstring || next == DTstring {
		return DTstring
	}

	// int and float mix
	return DTfloat
}
