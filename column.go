package aqmort

import (
	"fmt"
	"sort"
	"strings"

	"gonum.org/v1/gonum/stat"
)

// Col is a named column of a DF.
type Col struct {
	*Vector

	name string
}

type ColOpt func(c *Col) error

// ColName sets the column name.
func ColName(name string) ColOpt {
	return func(c *Col) error {
		if !validName(name) {
			return fmt.Errorf("invalid column name: %s", name)
		}

		c.name = name

		return nil
	}
}

// NewCol creates a *Col from data, which may be a *Vector or a slice.
// The data type is inferred from the data.
func NewCol(data any, opts ...ColOpt) (*Col, error) {
	var col *Col
	if v, ok := data.(*Vector); ok {
		col = &Col{Vector: v}
	}

	if col == nil {
		var dt DataTypes
		if dt = WhatAmI(data); dt == DTunknown {
			return nil, fmt.Errorf("unsupported data type in NewCol")
		}

		var (
			v *Vector
			e error
		)
		if v, e = NewVector(data, dt); e != nil {
			return nil, e
		}

		col = &Col{Vector: v}
	}

	for _, opt := range opts {
		if e := opt(col); e != nil {
			return nil, e
		}
	}

	return col, nil
}

func (c *Col) Name() string {
	return c.name
}

func (c *Col) Copy() *Col {
	return &Col{Vector: c.Vector.Copy(), name: c.name}
}

// Subset returns a new *Col holding the elements of c at rows.
func (c *Col) Subset(rows []int) (*Col, error) {
	var (
		v *Vector
		e error
	)
	if v, e = c.Vector.Subset(rows); e != nil {
		return nil, e
	}

	return &Col{Vector: v, name: c.name}, nil
}

// String produces a summary of the column: quartiles for floats,
// a value count for ints and strings.
func (c *Col) String() string {
	nm := c.name
	if nm == "" {
		nm = "unnamed"
	}

	t := fmt.Sprintf("column: %s\ntype: %s\n", nm, c.DataType())

	if c.DataType() != DTfloat {
		levels, counts := c.table()
		var b strings.Builder
		for ind := 0; ind < len(levels); ind++ {
			fmt.Fprintf(&b, "%20s %10d\n", levels[ind], counts[ind])
		}

		return t + b.String()
	}

	x := make([]float64, c.Len())
	f, _ := c.AsFloat()
	copy(x, f)
	sort.Float64s(x)
	minx := x[0]
	maxx := x[len(x)-1]
	q25 := stat.Quantile(0.25, stat.LinInterp, x, nil)
	q50 := stat.Quantile(0.5, stat.LinInterp, x, nil)
	q75 := stat.Quantile(0.75, stat.LinInterp, x, nil)
	xbar := stat.Mean(x, nil)
	cats := []string{"min", "lq", "median", "mean", "uq", "max", "n"}
	vals := []float64{minx, q25, q50, xbar, q75, maxx, float64(c.Len())}

	var b strings.Builder
	for ind := 0; ind < len(cats); ind++ {
		fmt.Fprintf(&b, "%10s %12.4f\n", cats[ind], vals[ind])
	}

	return t + b.String()
}

// DataType returns the type of the column data.
func (c *Col) DataType() DataTypes {
	return c.VectorType()
}

// table tallies the distinct values of c, sorted by level.
func (c *Col) table() (levels []string, counts []int) {
	cnts := make(map[string]int)
	for ind := 0; ind < c.Len(); ind++ {
		cnts[c.ElementString(ind)]++
	}

	for k := range cnts {
		levels = append(levels, k)
	}

	sort.Strings(levels)

	for _, l := range levels {
		counts = append(counts, cnts[l])
	}

	return levels, counts
}
