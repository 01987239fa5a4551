package pipeline

import (
	"fmt"
	"strings"
)

// stateCodes maps full state names to their two-letter codes.
var stateCodes = map[string]string{
	"Alabama":              "AL",
	"Alaska":               "AK",
	"Arizona":              "AZ",
	"Arkansas":             "AR",
	"California":           "CA",
	"Colorado":             "CO",
	"Connecticut":          "CT",
	"Delaware":             "DE",
	"District of Columbia": "DC",
	"Florida":              "FL",
	"Georgia":              "GA",
	"Hawaii":               "HI",
	"Idaho":                "ID",
	"Illinois":             "IL",
	"Indiana":              "IN",
	"Iowa":                 "IA",
	"Kansas":               "KS",
	"Kentucky":             "KY",
	"Louisiana":            "LA",
	"Maine":                "ME",
	"Maryland":             "MD",
	"Massachusetts":        "MA",
	"Michigan":             "MI",
	"Minnesota":            "MN",
	"Mississippi":          "MS",
	"Missouri":             "MO",
	"Montana":              "MT",
	"Nebraska":             "NE",
	"Nevada":               "NV",
	"New Hampshire":        "NH",
	"New Jersey":           "NJ",
	"New Mexico":           "NM",
	"New York":             "NY",
	"North Carolina":       "NC",
	"North Dakota":         "ND",
	"Ohio":                 "OH",
	"Oklahoma":             "OK",
	"Oregon":               "OR",
	"Pennsylvania":         "PA",
	"Rhode Island":         "RI",
	"South Carolina":       "SC",
	"South Dakota":         "SD",
	"Tennessee":            "TN",
	"Texas":                "TX",
	"Utah":                 "UT",
	"Vermont":              "VT",
	"Virginia":             "VA",
	"Washington":           "WA",
	"West Virginia":        "WV",
	"Wisconsin":            "WI",
	"Wyoming":              "WY",
}

// codeSet holds the valid two-letter codes for idempotence checks.
var codeSet = func() map[string]bool {
	s := make(map[string]bool, len(stateCodes))
	for _, code := range stateCodes {
		s[code] = true
	}

	return s
}()

// NormalizeState maps a state given as a full name or a two-letter code to
// its two-letter code.  Applying it to an already-normalized code returns
// the code unchanged.
func NormalizeState(state string) (string, error) {
	state = strings.TrimSpace(state)

	if len(state) == 2 && codeSet[strings.ToUpper(state)] {
		return strings.ToUpper(state), nil
	}

	if code, ok := stateCodes[state]; ok {
		return code, nil
	}

	return "", &UnknownStateError{State: state}
}

// NormalizeCounty strips a trailing "County" token, with any surrounding
// punctuation and whitespace, from a county label.  Idempotent: a name with
// no suffix comes back unchanged.
func NormalizeCounty(county string) string {
	county = strings.TrimSpace(county)
	county = strings.TrimRight(county, " ,.")

	if strings.HasSuffix(county, "County") {
		county = strings.TrimSuffix(county, "County")
		county = strings.TrimRight(county, " ,.")
	}

	return county
}

// NormalizeStates maps every target state to its two-letter code.  An entry
// that is not a state is a fatal *UnknownStateError: the caller asked for it
// by name, so silently filtering it would hide the mistake.
func NormalizeStates(states []string) ([]string, error) {
	var out []string
	for _, st := range states {
		code, e := NormalizeState(st)
		if e != nil {
			return nil, e
		}

		out = append(out, code)
	}

	return out, nil
}

// SplitCountyState parses a composite "<County> County, <XX>" label, where
// XX is a two-letter state code, into a normalized (county, state) key.
func SplitCountyState(label string) (county, state string, err error) {
	label = strings.TrimSpace(label)

	comma := strings.LastIndex(label, ",")
	if comma < 0 {
		return "", "", fmt.Errorf("no state in county label %q", label)
	}

	var e error
	if state, e = NormalizeState(label[comma+1:]); e != nil {
		return "", "", e
	}

	return NormalizeCounty(label[:comma]), state, nil
}
