package pipeline

import (
	"github.com/invertedv/aqmort"
)

// Merge chains inner joins of the four normalized tables:
// air ⋈ mortality, then poverty, then population.  A county absent from any
// one source drops out entirely; unmatched rows are not errors.
//
// The first join runs on county alone, matching the reference workflow.  If
// both target states contain a county with the same name, that join
// conflates them; this is a known, deliberate reproduction (see DESIGN.md).
func Merge(air, mortality, poverty, population *aqmort.DF) (*aqmort.DF, error) {
	var (
		merged *aqmort.DF
		e      error
	)
	if merged, e = air.Join(mortality, ColCounty); e != nil {
		return nil, e
	}

	if merged, e = merged.Join(poverty, ColCounty+","+ColState); e != nil {
		return nil, e
	}

	if merged, e = merged.Join(population, ColCounty+","+ColState); e != nil {
		return nil, e
	}

	return merged, nil
}
