package aqmort

import (
	"database/sql"
	"fmt"
	"math"
	"strings"
	"time"
)

// All code interacting with a database is here.  The pipeline only reads,
// so the dialect layer covers queries, not table creation.

const (
	ch = "clickhouse"
	pg = "postgres"
)

// Dialect wraps a *sql.DB connection along with the quirks of its provider.
type Dialect struct {
	db      *sql.DB
	dialect string
}

func NewDialect(dialect string, db *sql.DB) (*Dialect, error) {
	dialect = strings.ToLower(dialect)

	if dialect != ch && dialect != pg {
		return nil, fmt.Errorf("unsupported database %s", dialect)
	}

	return &Dialect{db: db, dialect: dialect}, nil
}

func (d *Dialect) DB() *sql.DB {
	return d.db
}

func (d *Dialect) DialectName() string {
	return d.dialect
}

func (d *Dialect) Close() error {
	return d.db.Close()
}

func (d *Dialect) withName() string {
	const wLen = 4
	return randomLetters(wLen)
}

func (d *Dialect) RowCount(qry string) (int, error) {
	const skeleton = "WITH %s AS (%s) SELECT count(*) AS n FROM %s"
	var n int

	sig := d.withName()
	q := fmt.Sprintf(skeleton, sig, qry, sig)
	row := d.db.QueryRow(q)
	if e := row.Scan(&n); e != nil {
		return 0, e
	}

	return n, nil
}

// Types runs qry for a single row to recover the field names and types,
// along with a scan target slice for reading the rows.
func (d *Dialect) Types(qry string) (fieldNames []string, fieldTypes []DataTypes, row2read []any, err error) {
	const skeleton = "WITH %s AS (%s) SELECT * FROM %s LIMIT 1"

	sig := d.withName()
	q := fmt.Sprintf(skeleton, sig, qry, sig)

	var (
		r  *sql.Rows
		ct []*sql.ColumnType
		e0 error
	)
	if r, e0 = d.db.Query(q); e0 != nil {
		return nil, nil, nil, e0
	}

	defer func() { _ = r.Close() }()

	if ct, err = r.ColumnTypes(); err != nil {
		return nil, nil, nil, err
	}

	var ry []any
	for ind := 0; ind < len(ct); ind++ {
		var x any
		ry = append(ry, &x)
	}
	for r.Next() {
		if e1 := r.Scan(ry...); e1 != nil {
			return nil, nil, nil, e1
		}
	}

	var (
		names []string
		dts   []DataTypes
	)

	for ind := 0; ind < len(ry); ind++ {
		names = append(names, ct[ind].Name())

		var dt DataTypes
		var z = *ry[ind].(*any)
		switch z.(type) {
		case int, int8, int16, int32, int64, *int, *int16, *int32, *int64,
			uint, uint8, uint16, uint32, uint64, *uint, *uint8, *uint16, *uint32, *uint64:
			dt = DTint
		case float32, float64, *float32, *float64:
			dt = DTfloat
		case string, *string:
			dt = DTstring
		case time.Time, *time.Time:
			dt = DTstring
		default:
			return nil, nil, nil, fmt.Errorf("unsupported column type for %s", ct[ind].Name())
		}

		dts = append(dts, dt)
	}

	return names, dts, ry, nil
}

// Load runs qry and returns the result as typed vectors.
func (d *Dialect) Load(qry string) ([]*Vector, []string, []DataTypes, error) {
	fieldNames, fieldTypes, row2read, e1 := d.Types(qry)
	if e1 != nil {
		return nil, nil, nil, e1
	}

	var (
		n  int
		e2 error
	)
	if n, e2 = d.RowCount(qry); e2 != nil {
		return nil, nil, nil, e2
	}

	var memData []*Vector
	for ind := 0; ind < len(fieldTypes); ind++ {
		memData = append(memData, MakeVector(fieldTypes[ind], n))
	}

	var (
		rows *sql.Rows
		e3   error
	)
	if rows, e3 = d.db.Query(qry); e3 != nil {
		return nil, nil, nil, e3
	}

	defer func() { _ = rows.Close() }()

	indx := 0
	for rows.Next() {
		if e4 := rows.Scan(row2read...); e4 != nil {
			return nil, nil, nil, e4
		}

		for ind := 0; ind < len(memData); ind++ {
			var z = *row2read[ind].(*any)
			if e5 := assign(memData[ind], z, indx); e5 != nil {
				return nil, nil, nil, e5
			}
		}

		indx++
	}

	return memData, fieldNames, fieldTypes, nil
}

// DBload runs qry against the database behind dialect and loads the result
// into a *DF.
func DBload(qry string, dialect *Dialect) (*DF, error) {
	var (
		memData    []*Vector
		fieldNames []string
		e          error
	)
	if memData, fieldNames, _, e = dialect.Load(qry); e != nil {
		return nil, e
	}

	var cols []*Col
	for ind := 0; ind < len(memData); ind++ {
		var (
			col *Col
			e1  error
		)
		if col, e1 = NewCol(memData[ind], ColName(fieldNames[ind])); e1 != nil {
			return nil, e1
		}

		cols = append(cols, col)
	}

	return NewDF(cols...)
}

// assign assigns the indx element of v to be val.
func assign(v *Vector, val any, indx int) error {
	switch x := val.(type) {
	case nil:
		if v.VectorType() == DTfloat {
			return v.SetFloat(math.NaN(), indx)
		}

		return fmt.Errorf("null value in non-float column")
	case float32:
		return v.SetFloat(float64(x), indx)
	case float64:
		return v.SetFloat(x, indx)
	case *float32:
		return v.SetFloat(float64(*x), indx)
	case *float64:
		return v.SetFloat(*x, indx)

	case uint:
		return v.SetInt(int(x), indx)
	case uint8:
		return v.SetInt(int(x), indx)
	case uint16:
		return v.SetInt(int(x), indx)
	case uint32:
		return v.SetInt(int(x), indx)
	case uint64:
		return v.SetInt(int(x), indx)
	case *uint:
		return v.SetInt(int(*x), indx)
	case *uint8:
		return v.SetInt(int(*x), indx)
	case *uint16:
		return v.SetInt(int(*x), indx)
	case *uint32:
		return v.SetInt(int(*x), indx)
	case *uint64:
		return v.SetInt(int(*x), indx)

	case int:
		return v.SetInt(x, indx)
	case int8:
		return v.SetInt(int(x), indx)
	case int16:
		return v.SetInt(int(x), indx)
	case int32:
		return v.SetInt(int(x), indx)
	case int64:
		return v.SetInt(int(x), indx)
	case *int:
		return v.SetInt(*x, indx)
	case *int8:
		return v.SetInt(int(*x), indx)
	case *int16:
		return v.SetInt(int(*x), indx)
	case *int32:
		return v.SetInt(int(*x), indx)
	case *int64:
		return v.SetInt(int(*x), indx)

	case string:
		return v.SetString(x, indx)
	case *string:
		return v.SetString(*x, indx)
	case time.Time:
		return v.SetString(x.Format("2006-01-02"), indx)
	case *time.Time:
		return v.SetString(x.Format("2006-01-02"), indx)
	default:
		return fmt.Errorf("unsupported data type in dialect.Load")
	}
}
