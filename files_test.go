package aqmort

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func writeTemp(t *testing.T, contents string) string {
	t.Helper()

	fileName := filepath.Join(t.TempDir(), "test.csv")
	if e := os.WriteFile(fileName, []byte(contents), 0o600); e != nil {
		t.Fatal(e)
	}

	return fileName
}

func loadTemp(t *testing.T, contents string, opts ...FileOpt) (*DF, error) {
	t.Helper()

	var (
		f *Files
		e error
	)
	if f, e = NewFiles(opts...); e != nil {
		t.Fatal(e)
	}

	if e = f.Open(writeTemp(t, contents)); e != nil {
		t.Fatal(e)
	}

	return FileLoad(f)
}

func TestFileLoad(t *testing.T) {
	const csv = `County,Days PM2.5,Max AQI
Kern,120,154
Inyo,30,88
`
	df, e := loadTemp(t, csv)
	assert.Nil(t, e)
	assert.Equal(t, 2, df.RowCount())

	// header cleaning: spaces and dots become underscores
	assert.ElementsMatch(t, []string{"County", "Days_PM2_5", "Max_AQI"}, df.ColumnNames())

	// all-integer columns impute as int
	assert.Equal(t, DTint, df.Column("Max_AQI").DataType())
	assert.Equal(t, DTstring, df.Column("County").DataType())
}

func TestFileLoad_TypeImputation(t *testing.T) {
	const csv = `a,b,c
1,1.5,x
2,2,y
`
	df, e := loadTemp(t, csv)
	assert.Nil(t, e)

	// int mixed with float promotes to float
	assert.Equal(t, DTint, df.Column("a").DataType())
	assert.Equal(t, DTfloat, df.Column("b").DataType())
	assert.Equal(t, DTstring, df.Column("c").DataType())
}

func TestFileLoad_MissingValues(t *testing.T) {
	const csv = `county,rate
Kern,10.5
Inyo,N/A
`
	// a stray string promotes the whole column to string...
	df, e := loadTemp(t, csv)
	assert.Nil(t, e)
	assert.Equal(t, DTstring, df.Column("rate").DataType())

	// ...and AsFloat turns the unparseable value into NaN
	x, e1 := df.Column("rate").Data().AsFloat()
	assert.Nil(t, e1)
	assert.Equal(t, 10.5, x[0])
	assert.True(t, x[1] != x[1])

	// with an explicit float type and no strict, the bad value loads as NaN
	df2, e2 := loadTemp(t, csv,
		FileFieldNames([]string{"county", "rate"}),
		FileFieldTypes([]DataTypes{DTstring, DTfloat}))
	assert.Nil(t, e2)

	y, _ := df2.Column("rate").Data().AsFloat()
	assert.True(t, y[1] != y[1])

	// strict mode fails the load instead
	_, e3 := loadTemp(t, csv,
		FileFieldNames([]string{"county", "rate"}),
		FileFieldTypes([]DataTypes{DTstring, DTfloat}),
		FileStrict(true))
	assert.NotNil(t, e3)
}

func TestFileLoad_RaggedRow(t *testing.T) {
	const csv = `a,b
1,2
3
`
	_, e := loadTemp(t, csv)
	assert.NotNil(t, e)
}

func TestFileLoad_QuotedComma(t *testing.T) {
	const csv = `name,pct
"Kern County, California",18.2
`
	df, e := loadTemp(t, csv)
	assert.Nil(t, e)

	nm, _ := df.Column("name").Data().AsString()
	assert.Equal(t, "Kern County, California", nm[0])
}

func TestFiles_Save(t *testing.T) {
	x, _ := NewCol([]float64{1.5, 2.5}, ColName("x"))
	lbl, _ := NewCol([]string{"a", "b"}, ColName("lbl"))
	df, _ := NewDF(x, lbl)

	f, _ := NewFiles()
	fileName := filepath.Join(t.TempDir(), "out.csv")
	assert.Nil(t, f.Save(fileName, df))

	f2, _ := NewFiles()
	assert.Nil(t, f2.Open(fileName))

	back, e := FileLoad(f2)
	assert.Nil(t, e)
	assert.Equal(t, 2, back.RowCount())

	got, _ := back.Column("x").Data().AsFloat()
	assert.Equal(t, []float64{1.5, 2.5}, got)
}
