package aqmort

import (
	"bytes"
	"crypto/rand"
	"fmt"
	"math/big"
	"os"
	"reflect"
	"strconv"
	"strings"
)

// *********** Conversions ***********

func toFloat(x any) (any, bool) {
	if f, ok := x.(float64); ok {
		return f, true
	}

	xv := reflect.ValueOf(x)
	if xv.CanFloat() {
		return xv.Float(), true
	}

	if xv.CanInt() {
		return float64(xv.Int()), true
	}

	if xv.CanUint() {
		return float64(xv.Uint()), true
	}

	if s, ok := x.(string); ok {
		if f, e := strconv.ParseFloat(strings.TrimSpace(s), 64); e == nil {
			return f, true
		}
	}

	return nil, false
}

func toInt(x any) (any, bool) {
	if i, ok := x.(int); ok {
		return i, true
	}

	xv := reflect.ValueOf(x)
	if xv.CanInt() {
		return int(xv.Int()), true
	}

	if xv.CanUint() {
		return int(xv.Uint()), true
	}

	if xv.CanFloat() {
		return int(xv.Float()), true
	}

	if s, ok := x.(string); ok {
		if i, e := strconv.ParseInt(strings.TrimSpace(s), 10, 64); e == nil {
			return int(i), true
		}
	}

	return nil, false
}

func toString(x any) (any, bool) {
	if s, ok := x.(string); ok {
		return s, true
	}

	if f, ok := x.(float64); ok {
		return fmt.Sprintf("%v", f), true
	}

	if i, ok := x.(int); ok {
		return fmt.Sprintf("%d", i), true
	}

	return nil, false
}

func toDataType(x any, dt DataTypes) (any, bool) {
	switch dt {
	case DTfloat:
		if v, ok := toFloat(x); ok {
			return v.(float64), true
		}
	case DTint:
		if v, ok := toInt(x); ok {
			return v.(int), true
		}
	case DTstring:
		if v, ok := toString(x); ok {
			return v.(string), true
		}
	}

	return nil, false
}

// bestType finds the narrowest of int, float, string that can hold xIn.
func bestType(xIn any) (xOut any, dt DataTypes, err error) {
	if x, ok := toInt(xIn); ok {
		if s, isStr := xIn.(string); !isStr || !strings.Contains(s, ".") {
			return x.(int), DTint, nil
		}
	}

	if x, ok := toFloat(xIn); ok {
		return x.(float64), DTfloat, nil
	}

	if x, ok := toString(xIn); ok {
		return x.(string), DTstring, nil
	}

	return nil, DTunknown, fmt.Errorf("cannot convert value")
}

func toSlc(xIn any, target DataTypes) (any, bool) {
	typSlc := []reflect.Type{reflect.TypeOf([]float64{}), reflect.TypeOf([]int{}), reflect.TypeOf([]string{""})}
	toFns := []func(a any) (any, bool){toFloat, toInt, toString}

	x := reflect.ValueOf(xIn)

	var indx int
	switch target {
	case DTfloat:
		indx = 0
	case DTint:
		indx = 1
	case DTstring:
		indx = 2
	default:
		return nil, false
	}

	outType := typSlc[indx]

	// nothing to do
	if x.Type() == outType {
		return xIn, true
	}

	toFn := toFns[indx]
	var xOut reflect.Value
	if x.Kind() == reflect.Slice {
		xOut = reflect.MakeSlice(outType, x.Len(), x.Len())
		for ind := 0; ind < x.Len(); ind++ {
			var (
				val any
				ok  bool
			)

			if val, ok = toFn(x.Index(ind).Interface()); !ok {
				return nil, false
			}

			xOut.Index(ind).Set(reflect.ValueOf(val))
		}

		return xOut.Interface(), true
	}

	// input is not a slice:
	if val, ok := toFn(xIn); ok {
		xOut = reflect.MakeSlice(outType, 1, 1)
		xOut.Index(0).Set(reflect.ValueOf(val))
		return xOut.Interface(), true
	}

	return nil, false
}

// *********** Other ***********

// slash adds a trailing slash if inStr doesn't end in a slash
func slash(inStr string) string {
	if inStr[len(inStr)-1] == '/' {
		return inStr
	}

	return inStr + "/"
}

func has[C comparable](needle C, haystack []C) bool {
	return position(needle, haystack) >= 0
}

func position[C comparable](needle C, haystack []C) int {
	for ind, straw := range haystack {
		if needle == straw {
			return ind
		}
	}

	return -1
}

// randomLetters generates a string of length "length" by randomly choosing from a-z
func randomLetters(length int) string {
	const letters = "abcdefghijklmnopqrstuvwxyz"

	var (
		randN []int64
		e     error
	)
	if randN, e = randUnifInt(length, len(letters)); e != nil {
		panic(e)
	}

	name := ""
	for ind := 0; ind < length; ind++ {
		name += letters[randN[ind] : randN[ind]+1]
	}

	return name
}

// randUnifInt generates a slice whose elements are random U[0,upper) int64's
func randUnifInt(n, upper int) ([]int64, error) {
	const bytesPerInt = 8

	// generate random bytes
	b1 := make([]byte, bytesPerInt*n)
	if _, e := rand.Read(b1); e != nil {
		return nil, e
	}

	outInts := make([]int64, n)
	rdr := bytes.NewReader(b1)

	for ind := 0; ind < n; ind++ {
		r, e := rand.Int(rdr, big.NewInt(int64(upper)))
		if e != nil {
			return nil, e
		}
		outInts[ind] = r.Int64()
	}

	return outInts, nil
}

// tempFile produces a random temp file name in the system's tmp location.
// The file has extension "ext". The file name begins with "tmp".
func tempFile(ext string, length int) string {
	return slash(os.TempDir()) + "tmp" + randomLetters(length) + "." + ext
}

func validName(name string) bool {
	const illegal = "!@#$%^&*()=+-;:'`/.,>< ~ " + `"`

	return !strings.ContainsAny(name, illegal)
}
