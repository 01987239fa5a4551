package aqmort

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewVector(t *testing.T) {
	v, e := NewVector([]float64{1, 2, 3}, DTfloat)
	assert.Nil(t, e)
	assert.Equal(t, 3, v.Len())
	assert.Equal(t, DTfloat, v.VectorType())

	// ints convert upward to float
	vi, e1 := NewVector([]int{1, 2}, DTfloat)
	assert.Nil(t, e1)

	x, _ := vi.AsFloat()
	assert.Equal(t, []float64{1, 2}, x)
}

func TestVector_AsFloat(t *testing.T) {
	v, _ := NewVector([]string{"1.5", "junk", "3"}, DTstring)

	x, e := v.AsFloat()
	assert.Nil(t, e)
	assert.Equal(t, 1.5, x[0])
	assert.True(t, math.IsNaN(x[1]))
	assert.Equal(t, 3.0, x[2])
}

func TestVector_AsString(t *testing.T) {
	v, _ := NewVector([]int{10, 20}, DTint)

	s, e := v.AsString()
	assert.Nil(t, e)
	assert.Equal(t, []string{"10", "20"}, s)
}

func TestVector_Set(t *testing.T) {
	v := MakeVector(DTfloat, 2)
	assert.Nil(t, v.SetFloat(3.5, 1))
	assert.Equal(t, 3.5, v.ElementFloat(1))

	// wrong type and out of range fail
	assert.NotNil(t, v.SetInt(1, 0))
	assert.NotNil(t, v.SetFloat(1, 5))
}

func TestVector_Append(t *testing.T) {
	v := MakeVector(DTstring, 0)
	assert.Nil(t, v.Append("a", "b"))
	assert.Equal(t, 2, v.Len())
	assert.Equal(t, "b", v.ElementString(1))
}

func TestVector_Subset(t *testing.T) {
	v, _ := NewVector([]float64{10, 20, 30}, DTfloat)

	sub, e := v.Subset([]int{2, 0})
	assert.Nil(t, e)

	x, _ := sub.AsFloat()
	assert.Equal(t, []float64{30, 10}, x)

	_, e1 := v.Subset([]int{9})
	assert.NotNil(t, e1)
}

func TestCol_Summary(t *testing.T) {
	c, e := NewCol([]float64{1, 2, 3, 4}, ColName("x"))
	assert.Nil(t, e)
	assert.Equal(t, "x", c.Name())
	assert.Equal(t, DTfloat, c.DataType())

	// summary string renders without panicking
	assert.Contains(t, c.String(), "x")
}

func TestColName(t *testing.T) {
	_, e := NewCol([]float64{1}, ColName("bad name"))
	assert.NotNil(t, e)

	_, e1 := NewCol([]float64{1}, ColName("goodName_1"))
	assert.Nil(t, e1)
}
