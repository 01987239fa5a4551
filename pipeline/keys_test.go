package pipeline

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeState(t *testing.T) {
	for _, tc := range []struct{ in, out string }{
		{"California", "CA"},
		{"Texas", "TX"},
		{"District of Columbia", "DC"},
		{" TX ", "TX"},
		{"tx", "TX"},
		// already normalized comes back unchanged
		{"CA", "CA"},
	} {
		got, e := NormalizeState(tc.in)
		assert.Nil(t, e)
		assert.Equal(t, tc.out, got)
	}
}

func TestNormalizeState_Unknown(t *testing.T) {
	_, e := NormalizeState("Atlantis")
	assert.NotNil(t, e)

	var use *UnknownStateError
	assert.True(t, errors.As(e, &use))
	assert.Equal(t, "Atlantis", use.State)
}

func TestNormalizeStates(t *testing.T) {
	got, e := NormalizeStates([]string{"California", "tx"})
	assert.Nil(t, e)
	assert.Equal(t, []string{"CA", "TX"}, got)

	_, e = NormalizeStates([]string{"CA", "ZZ"})
	var use *UnknownStateError
	assert.True(t, errors.As(e, &use))
}

func TestNormalizeCounty(t *testing.T) {
	for _, tc := range []struct{ in, out string }{
		{"Kern County", "Kern"},
		{"Kern County.", "Kern"},
		{" Los Angeles County ", "Los Angeles"},
		// idempotent
		{"Kern", "Kern"},
		{NormalizeCounty("Bexar County"), "Bexar"},
	} {
		assert.Equal(t, tc.out, NormalizeCounty(tc.in))
	}
}

func TestSplitCountyState(t *testing.T) {
	cty, st, e := SplitCountyState("Los Angeles County, CA")
	assert.Nil(t, e)
	assert.Equal(t, "Los Angeles", cty)
	assert.Equal(t, "CA", st)

	// full state names work too
	cty, st, e = SplitCountyState("Bexar County, Texas")
	assert.Nil(t, e)
	assert.Equal(t, "Bexar", cty)
	assert.Equal(t, "TX", st)

	// no state tail
	_, _, e = SplitCountyState("Statewide total")
	assert.NotNil(t, e)

	// unknown state
	_, _, e = SplitCountyState("Kern County, ZZ")
	var use *UnknownStateError
	assert.True(t, errors.As(e, &use))
}
