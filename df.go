package aqmort

import (
	"fmt"
	"sort"
	"strings"
)

// DF is an in-memory dataframe: an ordered list of equal-length columns.
type DF struct {
	head    *columnList
	current *columnList

	by        []*Col
	ascending bool
}

type columnList struct {
	col *Col

	prior *columnList
	next  *columnList
}

// NewDF creates a *DF from cols.  All columns must have the same length
// and distinct, non-empty names.
func NewDF(cols ...*Col) (*DF, error) {
	if cols == nil {
		return nil, fmt.Errorf("no columns in NewDF")
	}

	rowCount := cols[0].Len()

	var head, priorNode *columnList
	for ind := 0; ind < len(cols); ind++ {
		if cols[ind].Name() == "" {
			return nil, fmt.Errorf("unnamed column in NewDF")
		}

		if cols[ind].Len() != rowCount {
			return nil, fmt.Errorf("all columns must have same length, got %d and %d",
				rowCount, cols[ind].Len())
		}

		node := &columnList{
			col: cols[ind],

			prior: priorNode,
			next:  nil,
		}

		if priorNode != nil {
			priorNode.next = node
		}

		priorNode = node

		if ind == 0 {
			head = node
		}
	}

	df := &DF{head: head}
	if dup := df.dupName(); dup != "" {
		return nil, fmt.Errorf("duplicate column name: %s", dup)
	}

	return df, nil
}

// Next iterates through the columns.  A reset of true starts at the first column.
// Returns nil when the columns are exhausted.
func (df *DF) Next(reset bool) *Col {
	if reset || df.current == nil {
		df.current = df.head
		return df.current.col
	}

	if df.current.next == nil {
		df.current = nil
		return nil
	}

	df.current = df.current.next

	return df.current.col
}

func (df *DF) RowCount() int {
	return df.head.col.Len()
}

func (df *DF) ColumnCount() int {
	cols := 0
	for c := df.head; c != nil; c = c.next {
		cols++
	}

	return cols
}

func (df *DF) ColumnNames() []string {
	var names []string

	for h := df.head; h != nil; h = h.next {
		names = append(names, h.col.Name())
	}

	return names
}

// Column returns the column named colName, nil if there is none.
func (df *DF) Column(colName string) *Col {
	for h := df.head; h != nil; h = h.next {
		if h.col.Name() == colName {
			return h.col
		}
	}

	return nil
}

func (df *DF) HasColumns(colNames ...string) bool {
	for _, cName := range colNames {
		if df.Column(cName) == nil {
			return false
		}
	}

	return true
}

// AppendColumn adds col to df.  If replace is true, an existing column of the
// same name is dropped first.
func (df *DF) AppendColumn(col *Col, replace bool) error {
	if col.Name() == "" {
		return fmt.Errorf("unnamed column in AppendColumn")
	}

	if has(col.Name(), df.ColumnNames()) {
		if !replace {
			return fmt.Errorf("duplicate column name: %s", col.Name())
		}

		if e := df.DropColumns(col.Name()); e != nil {
			return e
		}
	}

	if col.Len() != df.RowCount() {
		return fmt.Errorf("length mismatch: df - %d, append col - %d", df.RowCount(), col.Len())
	}

	var tail *columnList
	for tail = df.head; tail.next != nil; tail = tail.next {
	}

	node := &columnList{
		col:   col,
		prior: tail,
		next:  nil,
	}

	tail.next = node

	return nil
}

func (df *DF) node(colName string) (node *columnList, err error) {
	for h := df.head; h != nil; h = h.next {
		if h.col.Name() == colName {
			return h, nil
		}
	}

	return nil, fmt.Errorf("column %s not found", colName)
}

func (df *DF) DropColumns(colNames ...string) error {
	for _, cName := range colNames {
		var (
			node *columnList
			e    error
		)

		if node, e = df.node(cName); e != nil {
			return e
		}

		if node == df.head {
			if df.head.next == nil {
				return fmt.Errorf("no columns left")
			}

			df.head = df.head.next
			df.head.prior = nil
			continue
		}

		node.prior.next = node.next
		if node.next != nil {
			node.next.prior = node.prior
		}
	}

	return nil
}

// KeepColumns returns a new *DF holding copies of the named columns, in order.
func (df *DF) KeepColumns(colNames ...string) (*DF, error) {
	var cols []*Col

	for ind := 0; ind < len(colNames); ind++ {
		col := df.Column(colNames[ind])
		if col == nil {
			return nil, fmt.Errorf("column %s not found", colNames[ind])
		}

		cols = append(cols, col.Copy())
	}

	return NewDF(cols...)
}

func (df *DF) Copy() *DF {
	var cols []*Col
	for h := df.head; h != nil; h = h.next {
		cols = append(cols, h.col.Copy())
	}

	dfOut, e := NewDF(cols...)
	if e != nil {
		panic(e)
	}

	return dfOut
}

// Subset returns a new *DF holding the given rows, in order.
func (df *DF) Subset(rows []int) (*DF, error) {
	var cols []*Col
	for h := df.head; h != nil; h = h.next {
		var (
			col *Col
			e   error
		)
		if col, e = h.col.Subset(rows); e != nil {
			return nil, e
		}

		cols = append(cols, col)
	}

	return NewDF(cols...)
}

// ***************** Sort *****************

// Sort sorts the rows of df in place on the comma-separated key columns.
func (df *DF) Sort(ascending bool, keys string) error {
	var by []*Col

	for _, cName := range strings.Split(keys, ",") {
		col := df.Column(strings.TrimSpace(cName))
		if col == nil {
			return fmt.Errorf("column %s not found", cName)
		}

		by = append(by, col)
	}

	df.by, df.ascending = by, ascending
	sort.Stable(df)
	df.by = nil

	return nil
}

// Len is required for sort.
func (df *DF) Len() int {
	return df.RowCount()
}

func (df *DF) Less(i, j int) bool {
	for ind := 0; ind < len(df.by); ind++ {
		if df.by[ind].Vector.Less(i, j) {
			return df.ascending
		}

		if df.by[ind].Vector.Less(j, i) {
			return !df.ascending
		}

		// equal -- keep checking
	}

	return false
}

func (df *DF) Swap(i, j int) {
	for h := df.head; h != nil; h = h.next {
		h.col.Vector.Swap(i, j)
	}
}

// ***************** Join *****************

// Join performs an inner join of df (left) with right on the comma-separated
// key columns joinOn.  Unmatched rows are dropped.  The output carries all
// left columns plus the right columns that are neither keys nor name
// collisions; output row order follows the left side.
func (df *DF) Join(right *DF, joinOn string) (*DF, error) {
	var keys []string
	for _, k := range strings.Split(joinOn, ",") {
		keys = append(keys, strings.TrimSpace(k))
	}

	if !df.HasColumns(keys...) || !right.HasColumns(keys...) {
		return nil, fmt.Errorf("join columns %s not in both dataframes", joinOn)
	}

	rightKeys := make(map[string][]int)
	for row := 0; row < right.RowCount(); row++ {
		k := joinKey(right, keys, row)
		rightKeys[k] = append(rightKeys[k], row)
	}

	var leftRows, rightRows []int
	for row := 0; row < df.RowCount(); row++ {
		for _, rr := range rightKeys[joinKey(df, keys, row)] {
			leftRows = append(leftRows, row)
			rightRows = append(rightRows, rr)
		}
	}

	var (
		joined *DF
		e      error
	)
	if joined, e = df.Subset(leftRows); e != nil {
		return nil, e
	}

	for h := right.head; h != nil; h = h.next {
		if has(h.col.Name(), keys) || has(h.col.Name(), joined.ColumnNames()) {
			continue
		}

		var (
			col *Col
			e1  error
		)
		if col, e1 = h.col.Subset(rightRows); e1 != nil {
			return nil, e1
		}

		if e2 := joined.AppendColumn(col, false); e2 != nil {
			return nil, e2
		}
	}

	return joined, nil
}

// joinKey builds the hash key for a row from the key columns.
func joinKey(df *DF, keys []string, row int) string {
	var parts []string
	for _, k := range keys {
		parts = append(parts, df.Column(k).ElementString(row))
	}

	return strings.Join(parts, "\x1f")
}

// ***************** Display *****************

func (df *DF) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "rows: %d\n", df.RowCount())
	for h := df.head; h != nil; h = h.next {
		b.WriteString(h.col.String())
		b.WriteString("\n")
	}

	return b.String()
}

func (df *DF) dupName() string {
	names := df.ColumnNames()
	for ind := 0; ind < len(names); ind++ {
		if position(names[ind], names) != ind {
			return names[ind]
		}
	}

	return ""
}
