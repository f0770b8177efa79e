// Package format turns metric values and timestamps into display text for
// tooltips, key headers and axis labels.
package format

import (
	"fmt"
	"math"
	"regexp"
	"strconv"

	"github.com/dustin/go-humanize"
)

// DefaultValue is the number format used when a key has none configured.
const DefaultValue = "{.2f}"

// defaultPrecision applies when a spec omits ".N".
const defaultPrecision = 2

// numberSpec matches "prefix{eX.Pf}suffix". Every part but the braces is optional.
var numberSpec = regexp.MustCompile(`^(.+)?(\{(e([+-]?\d+))?(\.(\d+))?f?\})(.+)?$`)

// Number is a parsed number format.
//
// "{e3.1f} ms" multiplies by 10^3, rounds to one decimal and appends " ms".
type Number struct {
	Prefix    string
	Suffix    string
	Exp       int
	Precision int
}

// ParseNumber parses a format spec. An empty spec means "{}".
func ParseNumber(spec string) (Number, error) {
	if spec == "" {
		spec = "{}"
	}
	m := numberSpec.FindStringSubmatch(spec)
	if m == nil {
		return Number{}, fmt.Errorf("number format %q has no {} placeholder", spec)
	}

	n := Number{Prefix: m[1], Suffix: m[7], Precision: defaultPrecision}
	if m[4] != "" {
		exp, err := strconv.Atoi(m[4])
		if err != nil {
			return Number{}, fmt.Errorf("number format %q: bad exponent: %w", spec, err)
		}
		n.Exp = exp
	}
	if m[6] != "" {
		p, err := strconv.Atoi(m[6])
		if err != nil {
			return Number{}, fmt.Errorf("number format %q: bad precision: %w", spec, err)
		}
		n.Precision = p
	}
	return n, nil
}

// Format renders v. The integer part is comma grouped; trailing zeros are
// not padded, so 3 with "{.2f}" prints "3".
func (n Number) Format(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return n.Prefix + "n/a" + n.Suffix
	}
	v *= math.Pow10(n.Exp)
	p := math.Pow10(n.Precision)
	v = math.Round(v*p) / p
	return n.Prefix + humanize.Commaf(v) + n.Suffix
}

// Value formats v with spec, falling back to DefaultValue when spec does
// not parse.
func Value(spec string, v float64) string {
	n, err := ParseNumber(spec)
	if err != nil {
		n, _ = ParseNumber(DefaultValue)
	}
	return n.Format(v)
}

// siUnits are checked largest first. A unit applies from 0.8 of its size so
// 850 reads as 0.9K rather than 850.
var siUnits = []struct {
	size   float64
	suffix string
}{
	{1e9, "B"},
	{1e6, "M"},
	{1e3, "K"},
}

// Axis labels a y-axis tick with a K/M/B suffix rounded to one decimal.
func Axis(v float64) string {
	abs := math.Abs(v)
	for _, u := range siUnits {
		if abs >= u.size*0.8 {
			return humanize.Ftoa(math.Round(v/u.size*10)/10) + u.suffix
		}
	}
	return humanize.Ftoa(v)
}
