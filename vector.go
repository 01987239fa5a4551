package aqmort

import (
	"fmt"
	"math"
)

// DataTypes are the types of data the package supports.
type DataTypes uint8

const (
	DTunknown DataTypes = 0 + iota
	DTfloat
	DTint
	DTstring
)

func (dt DataTypes) String() string {
	switch dt {
	case DTfloat:
		return "DTfloat"
	case DTint:
		return "DTint"
	case DTstring:
		return "DTstring"
	default:
		return "DTunknown"
	}
}

// Vector holds a typed slice of data.
type Vector struct {
	dt DataTypes

	data any
}

// NewVector creates a *Vector of type dt from data, converting elements as needed.
func NewVector(data any, dt DataTypes) (*Vector, error) {
	var (
		v  any
		ok bool
	)
	if v, ok = toSlc(data, dt); !ok {
		return nil, fmt.Errorf("cannot make vector of type %s", dt)
	}

	return &Vector{dt: dt, data: v}, nil
}

// MakeVector creates a zero-valued *Vector of type dt with n elements.
func MakeVector(dt DataTypes, n int) *Vector {
	switch dt {
	case DTfloat:
		return &Vector{dt: dt, data: make([]float64, n)}
	case DTint:
		return &Vector{dt: dt, data: make([]int, n)}
	case DTstring:
		return &Vector{dt: dt, data: make([]string, n)}
	default:
		panic(fmt.Errorf("cannot make Vector with data type %s", dt))
	}
}

func (v *Vector) VectorType() DataTypes {
	return v.dt
}

func (v *Vector) Len() int {
	switch v.dt {
	case DTfloat:
		return len(v.data.([]float64))
	case DTint:
		return len(v.data.([]int))
	case DTstring:
		return len(v.data.([]string))
	default:
		panic(fmt.Errorf("unexpected error in Vector.Len"))
	}
}

func (v *Vector) SetFloat(val float64, indx int) error {
	if v.VectorType() != DTfloat {
		return fmt.Errorf("vector isn't DTfloat")
	}

	if indx < 0 || indx >= v.Len() {
		return fmt.Errorf("index out of range")
	}

	v.data.([]float64)[indx] = val

	return nil
}

func (v *Vector) SetInt(val, indx int) error {
	if v.VectorType() != DTint {
		return fmt.Errorf("vector isn't DTint")
	}

	if indx < 0 || indx >= v.Len() {
		return fmt.Errorf("index out of range")
	}

	v.data.([]int)[indx] = val

	return nil
}

func (v *Vector) SetString(val string, indx int) error {
	if v.VectorType() != DTstring {
		return fmt.Errorf("vector isn't DTstring")
	}

	if indx < 0 || indx >= v.Len() {
		return fmt.Errorf("index out of range")
	}

	v.data.([]string)[indx] = val

	return nil
}

// Data returns the receiver so callers can chain col.Data().AsFloat().
func (v *Vector) Data() *Vector {
	return v
}

func (v *Vector) AsAny() any {
	return v.data
}

// AsFloat returns the data as []float64, converting if required.
// Strings that do not parse convert to NaN.
func (v *Vector) AsFloat() ([]float64, error) {
	if v.VectorType() == DTfloat {
		return v.data.([]float64), nil
	}

	if v.VectorType() == DTint {
		xOut := make([]float64, v.Len())
		for ind, xx := range v.data.([]int) {
			xOut[ind] = float64(xx)
		}

		return xOut, nil
	}

	xOut := make([]float64, v.Len())
	for ind, xx := range v.data.([]string) {
		if x, ok := toFloat(xx); ok {
			xOut[ind] = x.(float64)
			continue
		}

		xOut[ind] = math.NaN()
	}

	return xOut, nil
}

func (v *Vector) AsInt() ([]int, error) {
	if v.VectorType() == DTint {
		return v.data.([]int), nil
	}

	xOut := make([]int, v.Len())
	for ind := 0; ind < v.Len(); ind++ {
		var (
			x  any
			ok bool
		)
		if x, ok = toInt(v.Element(ind)); !ok {
			return nil, fmt.Errorf("cannot convert element %d to int", ind)
		}

		xOut[ind] = x.(int)
	}

	return xOut, nil
}

func (v *Vector) AsString() ([]string, error) {
	if v.VectorType() == DTstring {
		return v.data.([]string), nil
	}

	xOut := make([]string, v.Len())
	for ind := 0; ind < v.Len(); ind++ {
		var (
			x  any
			ok bool
		)
		if x, ok = toString(v.Element(ind)); !ok {
			return nil, fmt.Errorf("cannot convert element %d to string", ind)
		}

		xOut[ind] = x.(string)
	}

	return xOut, nil
}

func (v *Vector) Element(indx int) any {
	// handles ops like x/2 where x is a vector of length 1
	if v.Len() == 1 {
		indx = 0
	}

	if indx < 0 || indx >= v.Len() {
		panic(fmt.Errorf("index out of range"))
	}

	switch v.dt {
	case DTfloat:
		return v.data.([]float64)[indx]
	case DTint:
		return v.data.([]int)[indx]
	case DTstring:
		return v.data.([]string)[indx]
	default:
		panic(fmt.Errorf("error in Element"))
	}
}

func (v *Vector) ElementFloat(indx int) float64 {
	if v.VectorType() == DTfloat {
		return v.data.([]float64)[indx]
	}

	if val, ok := toFloat(v.Element(indx)); ok {
		return val.(float64)
	}

	panic(fmt.Errorf("element is not float-able"))
}

func (v *Vector) ElementInt(indx int) int {
	if v.VectorType() == DTint {
		return v.data.([]int)[indx]
	}

	if val, ok := toInt(v.Element(indx)); ok {
		return val.(int)
	}

	panic(fmt.Errorf("element is not int-able"))
}

func (v *Vector) ElementString(indx int) string {
	if v.VectorType() == DTstring {
		return v.data.([]string)[indx]
	}

	if x, ok := toString(v.Element(indx)); ok {
		return x.(string)
	}

	return ""
}

func (v *Vector) Append(data ...any) error {
	for ind := 0; ind < len(data); ind++ {
		switch v.dt {
		case DTfloat:
			var (
				x  any
				ok bool
			)
			if x, ok = toFloat(data[ind]); !ok {
				return fmt.Errorf("cannot make float in Append")
			}

			v.data = append(v.data.([]float64), x.(float64))
		case DTint:
			var (
				x  any
				ok bool
			)
			if x, ok = toInt(data[ind]); !ok {
				return fmt.Errorf("cannot make int in Append")
			}

			v.data = append(v.data.([]int), x.(int))
		case DTstring:
			var (
				x  any
				ok bool
			)
			if x, ok = toString(data[ind]); !ok {
				return fmt.Errorf("cannot make string in Append")
			}

			v.data = append(v.data.([]string), x.(string))
		}
	}

	return nil
}

func (v *Vector) Copy() *Vector {
	vCopy := &Vector{dt: v.dt}
	switch v.dt {
	case DTfloat:
		x := make([]float64, v.Len())
		copy(x, v.data.([]float64))
		vCopy.data = x
	case DTint:
		x := make([]int, v.Len())
		copy(x, v.data.([]int))
		vCopy.data = x
	case DTstring:
		x := make([]string, v.Len())
		copy(x, v.data.([]string))
		vCopy.data = x
	default:
		panic(fmt.Errorf("unexpected error in Vector.Copy"))
	}

	return vCopy
}

// Subset returns a new *Vector holding the elements of v at rows, in order.
func (v *Vector) Subset(rows []int) (*Vector, error) {
	outVec := MakeVector(v.VectorType(), 0)
	for _, r := range rows {
		if r < 0 || r >= v.Len() {
			return nil, fmt.Errorf("row %d out of range in Vector.Subset", r)
		}

		if e := outVec.Append(v.Element(r)); e != nil {
			return nil, e
		}
	}

	return outVec, nil
}

func (v *Vector) Swap(i, j int) {
	switch v.dt {
	case DTfloat:
		v.data.([]float64)[i], v.data.([]float64)[j] = v.data.([]float64)[j], v.data.([]float64)[i]
	case DTint:
		v.data.([]int)[i], v.data.([]int)[j] = v.data.([]int)[j], v.data.([]int)[i]
	case DTstring:
		v.data.([]string)[i], v.data.([]string)[j] = v.data.([]string)[j], v.data.([]string)[i]
	default:
		panic(fmt.Errorf("unexpected error in Vector.Swap"))
	}
}

func (v *Vector) Less(i, j int) bool {
	switch v.dt {
	case DTfloat:
		return v.data.([]float64)[i] < v.data.([]float64)[j]
	case DTint:
		return v.data.([]int)[i] < v.data.([]int)[j]
	case DTstring:
		return v.data.([]string)[i] < v.data.([]string)[j]
	default:
		panic(fmt.Errorf("unexpected error in Vector.Less"))
	}
}

// WhatAmI returns the DataTypes value corresponding to val (scalar or slice).
func WhatAmI(val any) DataTypes {
	switch val.(type) {
	case float64, []float64:
		return DTfloat
	case int, []int:
		return DTint
	case string, []string:
		return DTstring
	default:
		return DTunknown
	}
}
